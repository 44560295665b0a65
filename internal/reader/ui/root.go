package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/notepid/twilight_qwk/internal/reader/app"
)

type screen int

const (
	screenHome screen = iota
	screenConferences
	screenBulletins
	screenOpen
)

type rootModel struct {
	app *app.App

	width  int
	height int

	active screen

	homeList list.Model
	err      error

	conferences *conferencesModel
	bulletins   *bulletinsModel
	open        *openModel
}

type menuItem struct {
	title string
	desc  string
	to    screen
}

func (m menuItem) Title() string       { return m.title }
func (m menuItem) Description() string { return m.desc }
func (m menuItem) FilterValue() string { return m.title }

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Faint(true)
	ruleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func NewRootModel(a *app.App) tea.Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(true)

	m := &rootModel{
		app:      a,
		active:   screenHome,
		homeList: l,
	}
	m.reloadHome()
	return m
}

// reloadHome rebuilds the menu for the packet currently open.
func (m *rootModel) reloadHome() {
	p := m.app.Packet
	if p == nil {
		m.homeList.Title = "QWK Reader"
		m.homeList.SetItems([]list.Item{
			menuItem{title: "Open Packet", desc: "Load a .qwk archive or extracted packet directory", to: screenOpen},
			menuItem{title: "Quit", desc: "Exit", to: -1},
		})
		return
	}

	m.homeList.Title = p.BBS.Name
	m.homeList.SetItems([]list.Item{
		menuItem{
			title: "Conferences",
			desc:  fmt.Sprintf("%d conferences • %d messages • %d threads", p.Stats.Conferences, p.Stats.Messages, p.Stats.Threads),
			to:    screenConferences,
		},
		menuItem{title: "Bulletins", desc: fmt.Sprintf("%d bulletins from %s", len(p.Bulletins), p.BBS.Sysop), to: screenBulletins},
		menuItem{title: "Open Packet", desc: "Replace " + m.app.PacketPath, to: screenOpen},
		menuItem{title: "Quit", desc: "Exit", to: -1},
	})
}

func (m *rootModel) Init() tea.Cmd {
	return nil
}

func (m *rootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.homeList.SetSize(msg.Width, msg.Height-2)
		if m.conferences != nil {
			m.conferences.SetSize(msg.Width, msg.Height)
		}
		if m.bulletins != nil {
			m.bulletins.SetSize(msg.Width, msg.Height)
		}
		if m.open != nil {
			m.open.SetSize(msg.Width, msg.Height)
		}
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
	}

	switch m.active {
	case screenHome:
		return m.updateHome(msg)
	case screenConferences:
		cmd := m.conferences.Update(msg)
		if m.conferences.Done {
			m.active = screenHome
			m.conferences = nil
		}
		return m, cmd
	case screenBulletins:
		cmd := m.bulletins.Update(msg)
		if m.bulletins.Done {
			m.active = screenHome
			m.bulletins = nil
		}
		return m, cmd
	case screenOpen:
		cmd := m.open.Update(msg)
		if m.open.Done {
			m.active = screenHome
			m.open = nil
			m.reloadHome()
		}
		return m, cmd
	default:
		return m, nil
	}
}

func (m *rootModel) updateHome(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.homeList, cmd = m.homeList.Update(msg)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "enter":
			if it, ok := m.homeList.SelectedItem().(menuItem); ok {
				if it.to == -1 {
					return m, tea.Quit
				}
				return m, m.activate(it.to)
			}
		}
	}

	return m, cmd
}

func (m *rootModel) activate(s screen) tea.Cmd {
	m.active = s

	switch s {
	case screenConferences:
		m.conferences = newConferencesModel(m.app)
		m.conferences.SetSize(m.width, m.height)
	case screenBulletins:
		m.bulletins = newBulletinsModel(m.app)
		m.bulletins.SetSize(m.width, m.height)
	case screenOpen:
		m.open = newOpenModel(m.app)
		m.open.SetSize(m.width, m.height)
		return m.open.Init()
	}
	return nil
}

func (m *rootModel) View() string {
	if m.err != nil {
		return errStyle.Render("Error: ") + m.err.Error()
	}

	switch m.active {
	case screenHome:
		return m.homeList.View()
	case screenConferences:
		return m.conferences.View()
	case screenBulletins:
		return m.bulletins.View()
	case screenOpen:
		return m.open.View()
	default:
		return titleStyle.Render("Unknown screen") + "\n" + fmt.Sprint(m.active)
	}
}
