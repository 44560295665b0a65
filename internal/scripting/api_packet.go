package scripting

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/notepid/twilight_qwk/internal/packet"
	"github.com/notepid/twilight_qwk/internal/qwk"
	"github.com/notepid/twilight_qwk/internal/thread"
)

// PacketAPI exposes a decoded packet to Lua as the global "qwk".
type PacketAPI struct {
	p *packet.Packet
}

// NewPacketAPI creates a Lua packet API.
func NewPacketAPI(p *packet.Packet) *PacketAPI {
	return &PacketAPI{p: p}
}

// Register installs the qwk module in the VM.
func (api *PacketAPI) Register(vm *VM) {
	vm.RegisterModule("qwk", map[string]lua.LGFunction{
		"bbs":         api.luaBBS,
		"stats":       api.luaStats,
		"conferences": api.luaConferences,
		"threads":     api.luaThreads,
		"messages":    api.luaMessages,
		"bulletins":   api.luaBulletins,
	})
}

func (api *PacketAPI) luaBBS(L *lua.LState) int {
	b := api.p.BBS
	t := L.NewTable()
	t.RawSetString("name", lua.LString(b.Name))
	t.RawSetString("location", lua.LString(b.Location))
	t.RawSetString("phone", lua.LString(b.Phone))
	t.RawSetString("sysop", lua.LString(b.Sysop))
	t.RawSetString("packet_date", lua.LString(b.PacketDate))
	t.RawSetString("username", lua.LString(b.Username))
	L.Push(t)
	return 1
}

func (api *PacketAPI) luaStats(L *lua.LState) int {
	s := api.p.Stats
	t := L.NewTable()
	t.RawSetString("conferences", lua.LNumber(s.Conferences))
	t.RawSetString("messages", lua.LNumber(s.Messages))
	t.RawSetString("threads", lua.LNumber(s.Threads))
	t.RawSetString("unlisted", lua.LNumber(s.Unlisted))
	if !s.Newest.IsZero() {
		t.RawSetString("newest", lua.LNumber(s.Newest.Unix()))
	}
	L.Push(t)
	return 1
}

func (api *PacketAPI) luaConferences(L *lua.LState) int {
	tbl := L.NewTable()
	for i, c := range api.p.Conferences {
		tbl.RawSetInt(i+1, confToTable(L, c))
	}
	L.Push(tbl)
	return 1
}

func (api *PacketAPI) luaThreads(L *lua.LState) int {
	number := L.CheckInt(1)
	all := L.OptBool(2, false)

	c, ok := api.p.Conference(number)
	if !ok {
		L.Push(lua.LNil)
		return 1
	}

	threads := c.DisplayThreads
	if all {
		threads = c.Threads
	}
	tbl := L.NewTable()
	for i, t := range threads {
		tbl.RawSetInt(i+1, threadToTable(L, t))
	}
	L.Push(tbl)
	return 1
}

func (api *PacketAPI) luaMessages(L *lua.LState) int {
	number := L.CheckInt(1)

	c, ok := api.p.Conference(number)
	if !ok {
		L.Push(lua.LNil)
		return 1
	}

	tbl := L.NewTable()
	for i, m := range c.Messages {
		tbl.RawSetInt(i+1, msgToTable(L, m))
	}
	L.Push(tbl)
	return 1
}

func (api *PacketAPI) luaBulletins(L *lua.LState) int {
	tbl := L.NewTable()
	for i, b := range api.p.Bulletins {
		bt := L.NewTable()
		bt.RawSetString("kind", lua.LString(b.Kind))
		bt.RawSetString("name", lua.LString(b.Name))
		bt.RawSetString("title", lua.LString(b.Title))
		bt.RawSetString("text", lua.LString(b.Text))
		tbl.RawSetInt(i+1, bt)
	}
	L.Push(tbl)
	return 1
}

func confToTable(L *lua.LState, c *thread.Conference) *lua.LTable {
	ct := L.NewTable()
	ct.RawSetString("number", lua.LNumber(c.Number))
	ct.RawSetString("name", lua.LString(c.Name))
	ct.RawSetString("messages", lua.LNumber(c.MessageCount))
	ct.RawSetString("threads", lua.LNumber(len(c.DisplayThreads)))
	if c.MessageCount > 0 {
		ct.RawSetString("newest", lua.LNumber(c.NewestDate.Unix()))
	}
	return ct
}

func threadToTable(L *lua.LState, t *thread.Thread) *lua.LTable {
	tt := L.NewTable()
	tt.RawSetString("root", msgToTable(L, t.Root))
	replies := L.NewTable()
	for i, m := range t.Replies {
		replies.RawSetInt(i+1, msgToTable(L, m))
	}
	tt.RawSetString("replies", replies)
	return tt
}

// msgToTable converts a Message to a Lua table.
func msgToTable(L *lua.LState, m *qwk.Message) *lua.LTable {
	mt := L.NewTable()
	mt.RawSetString("status", lua.LString(string(rune(m.Status))))
	mt.RawSetString("number", lua.LString(m.Number))
	mt.RawSetString("date", lua.LString(m.Date))
	mt.RawSetString("time", lua.LString(m.Time))
	mt.RawSetString("to", lua.LString(m.To))
	mt.RawSetString("from", lua.LString(m.From))
	mt.RawSetString("subject", lua.LString(m.Subject))
	mt.RawSetString("reply_to", lua.LString(m.ReplyTo))
	mt.RawSetString("conference", lua.LNumber(m.Conference))
	mt.RawSetString("body", lua.LString(m.Body))
	mt.RawSetString("timestamp", lua.LNumber(m.Timestamp().Unix()))
	mt.RawSetString("display_date", lua.LString(qwk.FormatDate(m)))
	return mt
}
