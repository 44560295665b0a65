package ansi

import (
	"encoding/binary"
	"strings"

	"github.com/notepid/twilight_qwk/internal/cp437"
)

// SAUCE record constants.
const (
	sauceID        = "SAUCE"
	sauceRecSize   = 128
	sauceCommentID = "COMNT"
	sauceLineSize  = 64
	eofMarker      = 0x1A
)

// Sauce is the metadata record art packs append to ANS and ASC files. BBS
// bulletins shipped in QWK packets often carry one.
type Sauce struct {
	Version  string
	Title    string
	Author   string
	Group    string
	Date     string // CCYYMMDD
	FileSize uint32
	DataType byte
	FileType byte
	Width    uint16
	Height   uint16
	Flags    byte
	Font     string
	Comments []string
}

// Columns returns the intended display width, defaulting to 80.
func (s *Sauce) Columns() int {
	if s == nil || s.Width == 0 {
		return 80
	}
	return int(s.Width)
}

// ICEColors reports whether the blink bit selects bright backgrounds.
func (s *Sauce) ICEColors() bool {
	return s.Flags&0x01 != 0
}

// ParseSAUCE splits a SAUCE record (and its comment block) off the end of data.
// It returns nil and the input unchanged when no record is present.
func ParseSAUCE(data []byte) (*Sauce, []byte) {
	if len(data) < sauceRecSize {
		return nil, data
	}

	rec := data[len(data)-sauceRecSize:]
	if string(rec[0:5]) != sauceID {
		return nil, data
	}

	s := &Sauce{
		Version:  sauceText(rec[5:7]),
		Title:    sauceText(rec[7:42]),
		Author:   sauceText(rec[42:62]),
		Group:    sauceText(rec[62:82]),
		Date:     sauceText(rec[82:90]),
		FileSize: binary.LittleEndian.Uint32(rec[90:94]),
		DataType: rec[94],
		FileType: rec[95],
		Width:    binary.LittleEndian.Uint16(rec[96:98]),
		Height:   binary.LittleEndian.Uint16(rec[98:100]),
		Flags:    rec[105],
		Font:     sauceText(rec[106:128]),
	}

	end := len(data) - sauceRecSize

	if n := int(rec[104]); n > 0 {
		start := end - len(sauceCommentID) - n*sauceLineSize
		if start >= 0 && string(data[start:start+len(sauceCommentID)]) == sauceCommentID {
			block := data[start+len(sauceCommentID) : end]
			for i := 0; i < n; i++ {
				s.Comments = append(s.Comments, sauceText(block[i*sauceLineSize:(i+1)*sauceLineSize]))
			}
			end = start
		}
	}

	if end > 0 && data[end-1] == eofMarker {
		end--
	}
	return s, data[:end]
}

func sauceText(b []byte) string {
	return strings.TrimRight(cp437.Decode(b), "\x00 ")
}
