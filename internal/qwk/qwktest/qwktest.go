// Package qwktest builds CONTROL.DAT and MESSAGES.DAT images for tests.
package qwktest

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

const recordSize = 128

// Header describes a MESSAGES.DAT header record. Blocks is the value written to
// the block-count field; when zero it is computed from the body. BlockField, when
// set, is written verbatim instead.
type Header struct {
	Status     byte
	Number     string
	Date       string
	Time       string
	To         string
	From       string
	Subject    string
	ReplyTo    string
	Conference uint16
	Blocks     int
	BlockField string
}

// Messages accumulates a MESSAGES.DAT image.
type Messages struct {
	buf bytes.Buffer
}

// NewMessages starts an image with the banner record.
func NewMessages() *Messages {
	m := &Messages{}
	m.buf.Write(pad([]byte("Produced by Qmail...Copyright (c) 1987 by Sparkware.  All Rights Reserved"), ' '))
	return m
}

// Add appends a header record followed by the body records.
func (m *Messages) Add(h Header, body string) *Messages {
	blocks := BodyRecords(body)
	if h.Blocks == 0 {
		h.Blocks = len(blocks) + 1
	}
	m.buf.Write(HeaderRecord(h))
	for _, b := range blocks {
		m.buf.Write(b)
	}
	return m
}

// Raw appends arbitrary bytes, padded with NULs to a whole record.
func (m *Messages) Raw(data []byte) *Messages {
	m.buf.Write(pad(data, 0))
	return m
}

// Bytes returns the image built so far.
func (m *Messages) Bytes() []byte {
	return bytes.Clone(m.buf.Bytes())
}

// HeaderRecord encodes a single 128-byte header record.
func HeaderRecord(h Header) []byte {
	rec := bytes.Repeat([]byte{' '}, recordSize)
	status := h.Status
	if status == 0 {
		status = ' '
	}
	rec[0] = status
	put(rec, 1, 7, h.Number)
	put(rec, 8, 8, h.Date)
	put(rec, 16, 5, h.Time)
	put(rec, 21, 25, h.To)
	put(rec, 46, 25, h.From)
	put(rec, 71, 25, h.Subject)
	put(rec, 108, 8, h.ReplyTo)
	blockField := h.BlockField
	if blockField == "" {
		blockField = strconv.Itoa(h.Blocks)
	}
	put(rec, 116, 6, blockField)
	rec[122] = 0xE1 // active flag
	rec[123] = byte(h.Conference)
	rec[124] = byte(h.Conference >> 8)
	return rec
}

// BodyRecords encodes body text the way QWK doors do: line feeds become 0xE3
// and the last record is padded with spaces. Body text must be ASCII.
func BodyRecords(body string) [][]byte {
	if body == "" {
		return nil
	}
	data := []byte(strings.ReplaceAll(body, "\n", "\xE3"))
	var out [][]byte
	for len(data) > 0 {
		n := min(len(data), recordSize)
		out = append(out, pad(data[:n], ' '))
		data = data[n:]
	}
	return out
}

func put(rec []byte, off, width int, s string) {
	if len(s) > width {
		panic(fmt.Sprintf("qwktest: %q does not fit in %d bytes", s, width))
	}
	copy(rec[off:off+width], s)
}

func pad(data []byte, fill byte) []byte {
	n := (len(data) + recordSize - 1) / recordSize * recordSize
	if n == 0 {
		n = recordSize
	}
	out := bytes.Repeat([]byte{fill}, n)
	copy(out, data)
	return out
}

// Conference is a CONTROL.DAT conference entry. Number is written as text so
// tests can supply malformed identifiers.
type Conference struct {
	Number string
	Name   string
}

// Control describes a CONTROL.DAT file.
type Control struct {
	BBSName     string
	Location    string
	Phone       string
	Sysop       string
	PacketDate  string
	Username    string
	CountField  string // defaults to len(Conferences)-1
	Conferences []Conference
	Welcome     string
	News        string
	Goodbye     string
}

// String renders the file with CRLF line endings.
func (c Control) String() string {
	count := c.CountField
	if count == "" {
		count = strconv.Itoa(len(c.Conferences) - 1)
	}
	lines := []string{
		c.BBSName,
		c.Location,
		c.Phone,
		c.Sysop,
		"00000,TWILIGHT",
		c.PacketDate,
		c.Username,
		"",
		"0",
		"0",
		count,
	}
	for _, conf := range c.Conferences {
		lines = append(lines, conf.Number, conf.Name)
	}
	lines = append(lines, c.Welcome, c.News, c.Goodbye)
	return strings.Join(lines, "\r\n") + "\r\n"
}
