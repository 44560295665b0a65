// Package ansi cleans ANSI art and colour codes out of BBS text.
package ansi

import (
	"strconv"
	"strings"
)

const (
	esc = '\x1b'
	// escGlyph is what ESC turns into when a message body is decoded through
	// the CP437 glyph table.
	escGlyph = '←'
)

// Strip removes ANSI escape sequences from text. Cursor-forward sequences,
// which art files use in place of runs of spaces, are replaced by spaces.
// Escapes that were decoded to their CP437 glyph are recognised as well.
func Strip(text string) string {
	if !strings.ContainsRune(text, esc) && !strings.Contains(text, string(escGlyph)+"[") {
		return text
	}

	rs := []rune(text)
	var sb strings.Builder
	sb.Grow(len(text))

	for i := 0; i < len(rs); i++ {
		r := rs[i]
		if r != esc && !(r == escGlyph && i+1 < len(rs) && rs[i+1] == '[') {
			sb.WriteRune(r)
			continue
		}

		if i+1 >= len(rs) {
			break
		}
		if rs[i+1] != '[' {
			// Two-character escape; drop both.
			i++
			continue
		}

		start := i + 2
		j := start
		for j < len(rs) && !(rs[j] >= 0x40 && rs[j] <= 0x7e) {
			j++
		}
		if j >= len(rs) {
			break
		}
		if rs[j] == 'C' {
			sb.WriteString(strings.Repeat(" ", cursorCount(string(rs[start:j]))))
		}
		i = j
	}
	return sb.String()
}

func cursorCount(params string) int {
	if n, err := strconv.Atoi(params); err == nil && n > 0 {
		return n
	}
	return 1
}

// NormalizeLines converts CR and CRLF line endings to LF.
func NormalizeLines(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}
