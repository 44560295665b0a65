package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/notepid/twilight_qwk/internal/packet"
	"github.com/notepid/twilight_qwk/internal/reader/app"
)

type bulletinsModel struct {
	app *app.App

	width  int
	height int

	Done bool

	reading bool
	list    list.Model
	view    viewport.Model
}

type bulletinItem struct {
	b *packet.Bulletin
}

func (i bulletinItem) Title() string {
	if i.b.Title != "" {
		return i.b.Title
	}
	return i.b.Name
}

func (i bulletinItem) Description() string {
	return fmt.Sprintf("%s • %s", i.b.Kind, i.b.Name)
}

func (i bulletinItem) FilterValue() string { return i.b.Name }

func newBulletinsModel(a *app.App) *bulletinsModel {
	items := make([]list.Item, 0, len(a.Packet.Bulletins))
	for _, b := range a.Packet.Bulletins {
		items = append(items, bulletinItem{b: b})
	}

	m := &bulletinsModel{app: a, list: newList(items, 0, 0), view: viewport.New(0, 0)}
	m.list.Title = "Bulletins"
	return m
}

func (m *bulletinsModel) SetSize(w, h int) {
	m.width, m.height = w, h
	m.list.SetSize(w, h-2)
	m.view.Width = w
	m.view.Height = h - 2
}

func (m *bulletinsModel) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok && (key.String() == "q" || key.String() == "esc") {
		switch {
		case m.reading:
			m.reading = false
			return nil
		case !m.list.SettingFilter():
			m.Done = true
			return nil
		}
	}

	var cmd tea.Cmd
	if m.reading {
		m.view, cmd = m.view.Update(msg)
		return cmd
	}

	m.list, cmd = m.list.Update(msg)
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		if it, ok := m.list.SelectedItem().(bulletinItem); ok {
			m.reading = true
			m.view.SetContent(it.b.Text)
			m.view.GotoTop()
			return nil
		}
	}
	return cmd
}

func (m *bulletinsModel) View() string {
	if m.reading {
		return m.view.View() + "\n" + dimStyle.Render("(↑/↓ scroll, esc back)")
	}
	if len(m.list.Items()) == 0 {
		return titleStyle.Render("Bulletins") + "\n\nThis packet has no bulletins.\n\n" + dimStyle.Render("(esc back)")
	}
	return m.list.View() + "\n" + dimStyle.Render("(enter read, esc back)")
}
