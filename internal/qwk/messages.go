package qwk

import (
	"encoding/binary"
	"strings"

	"github.com/notepid/twilight_qwk/internal/cp437"
)

// RecordSize is the size of every MESSAGES.DAT block.
const RecordSize = 128

// Header field ranges within a 128-byte header record.
var (
	fieldNumber     = [2]int{1, 8}
	fieldDate       = [2]int{8, 16}
	fieldTime       = [2]int{16, 21}
	fieldTo         = [2]int{21, 46}
	fieldFrom       = [2]int{46, 71}
	fieldSubject    = [2]int{71, 96}
	fieldReplyTo    = [2]int{108, 116}
	fieldBlockCount = [2]int{116, 122}
)

const offsetConference = 123

// ValidStatus reports whether b may start a message header record.
func ValidStatus(b byte) bool {
	switch b {
	case ' ', '-', '+', '*', '~', '`', '%', '^', '!', '#', '$':
		return true
	}
	return false
}

// DecodeMessages walks MESSAGES.DAT and returns every message it can recover, in
// file order. The first record is the packet banner and is skipped. Records that
// are not valid headers are skipped one at a time until alignment is recovered.
func DecodeMessages(data []byte) []*Message {
	var messages []*Message

	offset := RecordSize
	for offset+RecordSize <= len(data) {
		rec := data[offset : offset+RecordSize]

		msg, blocks, ok := decodeHeader(rec)
		if !ok {
			offset += RecordSize
			continue
		}

		offset += RecordSize
		var body strings.Builder
		for i := 1; i < blocks && offset+RecordSize <= len(data); i++ {
			body.WriteString(decodeBodyBlock(data[offset : offset+RecordSize]))
			offset += RecordSize
		}
		msg.Body = strings.TrimSpace(body.String())

		messages = append(messages, msg)
	}
	return messages
}

// decodeHeader decodes a header record and its total block count.
func decodeHeader(rec []byte) (*Message, int, bool) {
	if !ValidStatus(rec[0]) {
		return nil, 0, false
	}

	blocks, ok := leadingInt(field(rec, fieldBlockCount))
	if !ok || blocks <= 0 {
		return nil, 0, false
	}

	msg := &Message{
		Status:     rec[0],
		Number:     field(rec, fieldNumber),
		Date:       field(rec, fieldDate),
		Time:       field(rec, fieldTime),
		To:         field(rec, fieldTo),
		From:       field(rec, fieldFrom),
		Subject:    field(rec, fieldSubject),
		ReplyTo:    field(rec, fieldReplyTo),
		Conference: int(binary.LittleEndian.Uint16(rec[offsetConference : offsetConference+2])),
	}
	return msg, blocks, true
}

func field(rec []byte, r [2]int) string {
	return strings.TrimSpace(cp437.Decode(rec[r[0]:r[1]]))
}

// decodeBodyBlock transcodes a continuation record. NULs are padding and π marks
// a line break.
func decodeBodyBlock(rec []byte) string {
	text := cp437.Decode(rec)
	text = strings.ReplaceAll(text, "\x00", "")
	return strings.ReplaceAll(text, string(cp437.LineBreak), "\n")
}
