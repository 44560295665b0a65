package ui

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/notepid/twilight_qwk/internal/reader/app"
)

type openModel struct {
	app *app.App

	width  int
	height int

	Done bool

	form *huh.Form
	err  error

	path    string
	confirm bool
}

func newOpenModel(a *app.App) *openModel {
	m := &openModel{app: a, path: a.PacketPath, confirm: true}
	if m.path == "" {
		m.path = a.Config.Paths.Packets
	}
	m.form = buildOpenForm(&m.path, &m.confirm)
	return m
}

func buildOpenForm(path *string, confirm *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Packet").
				Description("A .qwk archive or a directory holding CONTROL.DAT and MESSAGES.DAT").
				Value(path).
				Validate(existingPath),
		),
		huh.NewGroup(
			huh.NewConfirm().Title("Open this packet?").Value(confirm),
		),
	)
}

func (m *openModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m *openModel) SetSize(w, h int) {
	m.width, m.height = w, h
	m.form = m.form.WithWidth(w)
}

func (m *openModel) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok {
		if m.err != nil {
			switch key.String() {
			case "esc", "q", "enter":
				m.Done = true
			}
			return nil
		}
		if key.String() == "esc" {
			m.Done = true
			return nil
		}
	}

	updated, cmd := m.form.Update(msg)
	f, ok := updated.(*huh.Form)
	if !ok {
		m.err = fmt.Errorf("internal error: unexpected form model type")
		return nil
	}
	m.form = f

	if m.form.State == huh.StateCompleted {
		if m.confirm {
			if err := m.app.Open(strings.TrimSpace(m.path)); err != nil {
				m.err = err
				return nil
			}
		}
		m.Done = true
		return nil
	}

	return cmd
}

func (m *openModel) View() string {
	if m.err != nil {
		return errStyle.Render("Open failed: ") + m.err.Error() + "\n\nPress Enter/Esc to go back."
	}
	return m.form.View() + "\n\n" + dimStyle.Render("(esc to go back)")
}

func existingPath(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("path cannot be empty")
	}
	if _, err := os.Stat(s); err != nil {
		return fmt.Errorf("%s does not exist", s)
	}
	return nil
}
