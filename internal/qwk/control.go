package qwk

import "strings"

// CONTROL.DAT line positions.
const (
	lineBBSName     = 0
	lineLocation    = 1
	linePhone       = 2
	lineSysop       = 3
	linePacketDate  = 5
	lineUsername    = 6
	lineConfCount   = 10
	lineFirstConfer = 11
)

// Control is the parsed content of CONTROL.DAT.
type Control struct {
	BBS         BBSInfo
	Conferences []Conference

	// Bulletin file names listed after the conference table, "" when absent.
	Welcome string
	News    string
	Goodbye string
}

// ParseControl parses the text of CONTROL.DAT.
//
// Line 10 holds the number of conferences minus one. Conference entries follow as
// number/name line pairs; numbers are read from their leading digits and a pair
// whose number has none is skipped but still consumes two lines. Missing lines read as empty.
func ParseControl(text string) *Control {
	lines := strings.Split(text, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	line := func(i int) string {
		if i < len(lines) {
			return lines[i]
		}
		return ""
	}

	c := &Control{
		BBS: BBSInfo{
			Name:       line(lineBBSName),
			Location:   line(lineLocation),
			Phone:      line(linePhone),
			Sysop:      line(lineSysop),
			PacketDate: line(linePacketDate),
			Username:   line(lineUsername),
		},
	}

	count, ok := leadingInt(line(lineConfCount))
	if !ok {
		return c
	}
	want := count + 1

	idx := lineFirstConfer
	for len(c.Conferences) < want && idx < len(lines)-1 {
		if num, ok := leadingInt(lines[idx]); ok {
			c.Conferences = append(c.Conferences, Conference{Number: num, Name: lines[idx+1]})
		}
		idx += 2
	}

	// Bulletin names follow a complete conference table.
	if want > 0 && len(c.Conferences) == want {
		c.Welcome = line(idx)
		c.News = line(idx + 1)
		c.Goodbye = line(idx + 2)
	}
	return c
}
