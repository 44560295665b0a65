package qwk

import (
	"strconv"
	"strings"
	"unicode"
)

// leadingInt parses the integer at the start of s: leading whitespace, an optional
// sign and the longest run of ASCII digits. Anything after the digits is ignored,
// so NUL padding or trailing text does not reject a field. It fails when no digit
// follows the sign or the value overflows an int.
func leadingInt(s string) (int, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
