package helpers

import (
	"time"
)

var clockLayouts = []string{"15:04", "3:04 PM", "3:04PM"}

// ClockMinutes parses a free-form start time ("14:30", "2:30 PM") into
// minutes since midnight. ok is false when the value matches no known layout.
func ClockMinutes(s string) (minutes int, ok bool) {
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Hour()*60 + t.Minute(), true
		}
	}
	return 0, false
}

// LessByStartTime orders two start-time strings chronologically when both
// parse as clock times, lexically otherwise.
func LessByStartTime(a, b string) bool {
	am, aok := ClockMinutes(a)
	bm, bok := ClockMinutes(b)
	if aok && bok {
		return am < bm
	}
	return a < b
}
