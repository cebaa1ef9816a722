// Package time formats durations for run reports and log lines.
package time

import (
	"strings"
	"time"
)

// ShortDur shortens the string representation of a time.Duration from d.String().
func ShortDur(d time.Duration) string {
	s := d.String()
	if d == 0 {
		return "0s"
	}
	if strings.HasSuffix(s, "m0s") {
		s = s[:len(s)-2]
	}
	if strings.HasSuffix(s, "h0m") {
		s = s[:len(s)-2]
	}
	return s
}

// Round renders d rounded to the millisecond for durations of a second or
// more and to the microsecond below that.
func Round(d time.Duration) string {
	if d >= time.Second || d <= -time.Second {
		return ShortDur(d.Round(time.Millisecond))
	}
	return ShortDur(d.Round(time.Microsecond))
}
