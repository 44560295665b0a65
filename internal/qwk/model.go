package qwk

import (
	"strings"
	"time"
)

// BBSInfo identifies the board and the user a packet was built for.
type BBSInfo struct {
	Name       string `json:"name"`
	Location   string `json:"location"`
	Phone      string `json:"phone"`
	Sysop      string `json:"sysop"`
	PacketDate string `json:"packet_date"`
	Username   string `json:"username"`
}

// Conference is a numbered message area as listed in CONTROL.DAT.
type Conference struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
}

// Message is one decoded MESSAGES.DAT entry.
type Message struct {
	Status     byte   `json:"-"`
	Number     string `json:"number"` // as printed in the packet, not necessarily numeric
	Date       string `json:"date"`
	Time       string `json:"time"`
	To         string `json:"to"`
	From       string `json:"from"`
	Subject    string `json:"subject"`
	ReplyTo    string `json:"reply_to"`
	Conference int    `json:"conference"`
	Body       string `json:"body"`
}

// HasParent reports whether the message declares a parent message. An empty
// reference and "0" both mean none.
func (m *Message) HasParent() bool {
	ref := strings.TrimSpace(m.ReplyTo)
	return ref != "" && ref != "0"
}

// Timestamp interprets Date and Time, returning FallbackTime when they are malformed.
func (m *Message) Timestamp() time.Time {
	ts, _ := ParseTimestamp(m.Date, m.Time)
	return ts
}
