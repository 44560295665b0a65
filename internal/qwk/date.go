package qwk

import (
	"strconv"
	"strings"
	"time"
)

// FallbackTime is used for messages whose date or time cannot be interpreted.
// It is fixed so that repeated loads of the same packet sort identically.
var FallbackTime = time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)

// ParseTimestamp interprets a QWK date (MM-DD-YY or MM-DD-YYYY) and time (HH:MM).
// Two-digit years 0-49 are 20xx and 50-99 are 19xx. The values are taken literally
// in UTC. ok is false, and FallbackTime is returned, for any malformed input.
func ParseTimestamp(date, clock string) (ts time.Time, ok bool) {
	dateParts := strings.Split(date, "-")
	if len(dateParts) != 3 {
		return FallbackTime, false
	}
	timeParts := strings.Split(clock, ":")
	if len(timeParts) != 2 {
		return FallbackTime, false
	}

	var nums [5]int
	for i, s := range append(dateParts, timeParts...) {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return FallbackTime, false
		}
		nums[i] = n
	}
	month, day, year, hour, minute := nums[0], nums[1], nums[2], nums[3], nums[4]

	year = ExpandYear(year)
	return time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.UTC), true
}

// ExpandYear maps a two-digit year onto 1950-2049. Larger values pass through.
func ExpandYear(year int) int {
	if year < 0 || year >= 100 {
		return year
	}
	if year < 50 {
		return 2000 + year
	}
	return 1900 + year
}

// FormatDate renders a message timestamp for display.
func FormatDate(m *Message) string {
	ts, ok := ParseTimestamp(m.Date, m.Time)
	if !ok {
		return "Unknown date"
	}
	return ts.Format("2006-01-02 15:04")
}
