// internal/models/hours.go
package models

import (
	"fmt"
	"strconv"
	"strings"
)

const minutesPerDay = 24 * 60

// TimeWindow is a parsed daily open window in minutes past midnight.
// Start == End means the venue never closes. Start > End means the window
// wraps past midnight.
type TimeWindow struct {
	Start int
	End   int
}

// ParseMinutes parses a 24-hour time string ("0930", "930", "09:30") into
// minutes past midnight.
func ParseMinutes(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("empty time string")
	}

	var hourPart, minPart string
	if i := strings.IndexByte(s, ':'); i >= 0 {
		hourPart, minPart = s[:i], s[i+1:]
	} else {
		if len(s) < 3 || len(s) > 4 {
			return 0, fmt.Errorf("malformed time %q", raw)
		}
		hourPart, minPart = s[:len(s)-2], s[len(s)-2:]
	}

	hour, err := strconv.Atoi(hourPart)
	if err != nil {
		return 0, fmt.Errorf("malformed time %q", raw)
	}
	min, err := strconv.Atoi(minPart)
	if err != nil {
		return 0, fmt.Errorf("malformed time %q", raw)
	}
	if hour < 0 || hour > 23 || min < 0 || min > 59 {
		return 0, fmt.Errorf("time %q out of range", raw)
	}
	return hour*60 + min, nil
}

// FormatMinutes renders minutes past midnight as zero-padded "HH:MM".
func FormatMinutes(m int) string {
	m = ((m % minutesPerDay) + minutesPerDay) % minutesPerDay
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// ParseWindow converts a raw hours entry into a TimeWindow. Both endpoints
// must parse.
func ParseWindow(w HoursWindow) (TimeWindow, error) {
	start, err := ParseMinutes(w.Start.String())
	if err != nil {
		return TimeWindow{}, err
	}
	end, err := ParseMinutes(w.End.String())
	if err != nil {
		return TimeWindow{}, err
	}
	return TimeWindow{Start: start, End: end}, nil
}

// AlwaysOpen reports whether the window covers the whole day.
func (w TimeWindow) AlwaysOpen() bool {
	return w.Start == w.End
}

// Contains reports whether the given minute of the day falls inside the
// window. The start is inclusive and the end exclusive; wrapped windows
// match times at or after the start or strictly before the end.
func (w TimeWindow) Contains(minute int) bool {
	switch {
	case w.Start == w.End:
		return true
	case w.Start < w.End:
		return minute >= w.Start && minute < w.End
	default:
		return minute >= w.Start || minute < w.End
	}
}
