package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/notepid/twilight_qwk/internal/ansi"
	"github.com/notepid/twilight_qwk/internal/qwk"
	"github.com/notepid/twilight_qwk/internal/reader/app"
	"github.com/notepid/twilight_qwk/internal/thread"
)

type conferencesModel struct {
	app *app.App

	width  int
	height int

	Done bool

	state confState
	list  list.Model
	view  viewport.Model

	selected *thread.Conference
	threads  []*thread.Thread
	thread   *thread.Thread
}

type confState int

const (
	confStateList confState = iota
	confStateThreads
	confStateDetail
)

type confItem struct {
	conf *thread.Conference
}

func (i confItem) Title() string {
	return fmt.Sprintf("%d. %s", i.conf.Number, i.conf.Name)
}

func (i confItem) Description() string {
	return fmt.Sprintf("%d messages • %d threads • newest %s",
		i.conf.MessageCount, len(i.conf.DisplayThreads), i.conf.NewestDate.Format("2006-01-02"))
}

func (i confItem) FilterValue() string { return i.conf.Name }

type threadItem struct {
	thread *thread.Thread
}

func (i threadItem) Title() string { return i.thread.Root.Subject }

func (i threadItem) Description() string {
	root := i.thread.Root
	replies := len(i.thread.Replies)
	noun := "replies"
	if replies == 1 {
		noun = "reply"
	}
	return fmt.Sprintf("%s • %s • %d %s", root.From, qwk.FormatDate(root), replies, noun)
}

func (i threadItem) FilterValue() string {
	return i.thread.Root.Subject + " " + i.thread.Root.From
}

func newConferencesModel(a *app.App) *conferencesModel {
	m := &conferencesModel{app: a, state: confStateList, view: viewport.New(0, 0)}
	m.reloadConferences()
	return m
}

func (m *conferencesModel) SetSize(w, h int) {
	m.width, m.height = w, h
	m.list.SetSize(w, h-2)
	m.view.Width = w
	m.view.Height = h - 2
}

func (m *conferencesModel) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok && !m.filtering() {
		switch key.String() {
		case "q":
			if m.state == confStateList {
				m.Done = true
				return nil
			}
		case "esc":
			m.back()
			return nil
		case "a":
			if m.state == confStateThreads {
				m.app.ShowAll = !m.app.ShowAll
				m.reloadThreads()
				return nil
			}
		}
	}

	if m.state == confStateDetail {
		var cmd tea.Cmd
		m.view, cmd = m.view.Update(msg)
		return cmd
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() != "enter" || m.list.SettingFilter() {
			return cmd
		}
		switch it := m.list.SelectedItem().(type) {
		case confItem:
			m.selected = it.conf
			m.state = confStateThreads
			m.reloadThreads()
			return nil
		case threadItem:
			m.thread = it.thread
			m.state = confStateDetail
			m.view.SetContent(renderThread(it.thread, m.app.Config.Reader.StripANSI))
			m.view.GotoTop()
			return nil
		}
	}

	return cmd
}

func (m *conferencesModel) filtering() bool {
	return m.state != confStateDetail && m.list.SettingFilter()
}

func (m *conferencesModel) View() string {
	switch m.state {
	case confStateList:
		return m.list.View() + "\n" + dimStyle.Render("(enter open, q back)")
	case confStateThreads:
		mode := "top-level threads"
		if m.app.ShowAll {
			mode = "all threads"
		}
		return m.list.View() + "\n" + dimStyle.Render("(enter read, a toggle "+mode+", esc back)")
	case confStateDetail:
		return m.view.View() + "\n" + dimStyle.Render(fmt.Sprintf("%3.f%% (↑/↓ scroll, esc back)", m.view.ScrollPercent()*100))
	default:
		return "Conferences"
	}
}

func (m *conferencesModel) reloadConferences() {
	var items []list.Item
	for _, c := range m.app.Packet.Active() {
		items = append(items, confItem{conf: c})
	}

	m.list = newList(items, m.width, m.height)
	m.list.Title = "Conferences"
}

func (m *conferencesModel) reloadThreads() {
	m.threads = m.selected.DisplayThreads
	if m.app.ShowAll {
		m.threads = m.selected.Threads
	}

	items := make([]list.Item, 0, len(m.threads))
	for _, t := range m.threads {
		items = append(items, threadItem{thread: t})
	}

	m.list = newList(items, m.width, m.height)
	m.list.Title = fmt.Sprintf("%s (%d of %d threads)", m.selected.Name, len(m.threads), len(m.selected.Threads))
}

func (m *conferencesModel) back() {
	switch m.state {
	case confStateList:
		m.Done = true
	case confStateThreads:
		m.state = confStateList
		m.reloadConferences()
	case confStateDetail:
		m.state = confStateThreads
		m.reloadThreads()
	}
}

func newList(items []list.Item, width, height int) list.Model {
	l := list.New(items, list.NewDefaultDelegate(), width, height-2)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(true)
	return l
}

// renderThread lays out a thread for reading: the root first, then every
// reply in chronological order.
func renderThread(t *thread.Thread, stripANSI bool) string {
	var sb strings.Builder
	writeMessage(&sb, t.Root, stripANSI)
	for _, r := range t.Replies {
		sb.WriteString(ruleStyle.Render(strings.Repeat("─", 40)))
		sb.WriteString("\n\n")
		writeMessage(&sb, r, stripANSI)
	}
	return sb.String()
}

func writeMessage(sb *strings.Builder, m *qwk.Message, stripANSI bool) {
	sb.WriteString(headerStyle.Render(m.Subject))
	sb.WriteString("\n")
	fmt.Fprintf(sb, "From: %s\nTo:   %s\nDate: %s\n", m.From, m.To, qwk.FormatDate(m))
	if m.HasParent() {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("#%s, reply to #%s", m.Number, m.ReplyTo)))
	} else {
		sb.WriteString(dimStyle.Render("#" + m.Number))
	}
	sb.WriteString("\n\n")

	body := m.Body
	if stripANSI {
		body = ansi.Strip(body)
	}
	sb.WriteString(body)
	sb.WriteString("\n\n")
}
