package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/notepid/twilight_qwk/internal/config"
	"github.com/notepid/twilight_qwk/internal/packet"
	"github.com/notepid/twilight_qwk/internal/qwk/qwktest"
	"github.com/notepid/twilight_qwk/internal/reader/app"
)

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func testApp(t *testing.T) *app.App {
	t.Helper()
	ctl := qwktest.Control{
		BBSName: "Twilight BBS",
		Sysop:   "Mikael",
		Conferences: []qwktest.Conference{
			{Number: "0", Name: "Main Board"},
			{Number: "1", Name: "Empty"},
		},
	}
	msgs := qwktest.NewMessages().
		Add(qwktest.Header{Number: "2", Date: "06-01-99", Time: "12:00", From: "BEN", To: "ANN", Subject: "Re: Plans", ReplyTo: "1"}, "\x1b[1mbold\x1b[0m reply").
		Add(qwktest.Header{Number: "1", Date: "06-01-99", Time: "10:00", From: "ANN", To: "ALL", Subject: "Plans"}, "root body").
		Add(qwktest.Header{Number: "3", Date: "06-01-99", Time: "13:00", From: "CAT", To: "BEN", Subject: "Re: Plans", ReplyTo: "2"}, "nested")

	p, err := packet.Load(packet.Files{
		"CONTROL.DAT":  []byte(ctl.String()),
		"MESSAGES.DAT": msgs.Bytes(),
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return &app.App{Config: config.Default(), Packet: p, PacketPath: "test.qwk"}
}

func TestRenderThread(t *testing.T) {
	a := testApp(t)
	c, _ := a.Packet.Conference(0)
	out := renderThread(c.DisplayThreads[0], true)

	root := strings.Index(out, "root body")
	reply := strings.Index(out, "bold reply")
	nested := strings.Index(out, "nested")
	if root < 0 || reply < 0 || nested < 0 {
		t.Fatalf("missing message text in %q", out)
	}
	if !(root < reply && reply < nested) {
		t.Fatalf("messages out of order: %d %d %d", root, reply, nested)
	}
	if !strings.Contains(out, "#2, reply to #1") || !strings.Contains(out, "1999-06-01 10:00") {
		t.Fatalf("missing header details in %q", out)
	}
	if strings.Contains(out, "[1m") {
		t.Fatalf("ANSI codes not stripped: %q", out)
	}
}

func TestHomeMenu(t *testing.T) {
	m := NewRootModel(&app.App{Config: config.Default()}).(*rootModel)
	if n := len(m.homeList.Items()); n != 2 {
		t.Fatalf("expected 2 items without a packet, got %d", n)
	}

	m = NewRootModel(testApp(t)).(*rootModel)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	if n := len(m.homeList.Items()); n != 4 {
		t.Fatalf("expected 4 items with a packet, got %d", n)
	}
	if m.homeList.Title != "Twilight BBS" {
		t.Fatalf("unexpected title %q", m.homeList.Title)
	}

	m.Update(enter)
	if m.active != screenConferences || m.conferences == nil {
		t.Fatalf("enter on the first item should open conferences")
	}
	m.Update(runes("q"))
	if m.active != screenHome {
		t.Fatalf("q on the conference list should return home")
	}
}

func TestConferenceNavigation(t *testing.T) {
	a := testApp(t)
	m := newConferencesModel(a)
	m.SetSize(100, 40)

	if n := len(m.list.Items()); n != 1 {
		t.Fatalf("expected only the non-empty conference, got %d", n)
	}

	m.Update(enter)
	if m.state != confStateThreads || m.selected.Name != "Main Board" {
		t.Fatalf("expected thread list of Main Board, state %d", m.state)
	}
	if n := len(m.list.Items()); n != 1 {
		t.Fatalf("expected 1 top-level thread, got %d", n)
	}

	m.Update(runes("a"))
	if !a.ShowAll || len(m.list.Items()) != 2 {
		t.Fatalf("a should show all %d threads, got %d", len(m.selected.Threads), len(m.list.Items()))
	}
	m.Update(runes("a"))
	if a.ShowAll || len(m.list.Items()) != 1 {
		t.Fatalf("a should toggle back to top-level threads")
	}

	m.Update(enter)
	if m.state != confStateDetail || m.thread.Root.Subject != "Plans" {
		t.Fatalf("expected thread detail")
	}
	if !strings.Contains(m.View(), "Plans") {
		t.Fatalf("detail view should show the thread")
	}

	m.Update(esc)
	m.Update(esc)
	m.Update(esc)
	if !m.Done {
		t.Fatalf("esc from the conference list should finish")
	}
}

func TestBulletinsEmpty(t *testing.T) {
	m := newBulletinsModel(testApp(t))
	m.SetSize(80, 24)
	if !strings.Contains(m.View(), "no bulletins") {
		t.Fatalf("unexpected view %q", m.View())
	}
	m.Update(esc)
	if !m.Done {
		t.Fatalf("esc should leave the bulletin screen")
	}
}
