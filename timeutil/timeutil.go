// Package timeutil works with wall-clock times expressed as minutes since
// midnight. Every result is wrapped into [0, 1440).
package timeutil

import (
	"fmt"
	"strconv"
	"strings"
)

// MinutesPerDay is the modulus for all wall-clock arithmetic.
const MinutesPerDay = 1440

// Wrap brings any minute count into [0, 1440).
func Wrap(m int) int {
	return ((m % MinutesPerDay) + MinutesPerDay) % MinutesPerDay
}

// ParseHHMM parses "H:MM" or "HH:MM" (extra ":SS" is ignored) into minutes.
// Anything that is not two numeric parts is an error.
func ParseHHMM(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q: %w", s, err)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minute in %q: %w", s, err)
	}
	return h*60 + m, nil
}

// FormatHHMM renders minutes as zero-padded "HH:MM" after wrapping.
func FormatHHMM(m int) string {
	m = Wrap(m)
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// AddMinutesWrapped shifts an "HH:MM" time by offset minutes across midnight
// in either direction.
func AddMinutesWrapped(hhmm string, offset int) (string, error) {
	m, err := ParseHHMM(hhmm)
	if err != nil {
		return "", err
	}
	return FormatHHMM(m + offset), nil
}

// FormatCompactAmPm renders "9am", "9:30am", "12pm", "11:45pm".
// Whole hours drop the ":00".
func FormatCompactAmPm(m int) string {
	m = Wrap(m)
	h, min := m/60, m%60

	suffix := "am"
	if h >= 12 {
		suffix = "pm"
	}
	h12 := h % 12
	if h12 == 0 {
		h12 = 12
	}

	if min == 0 {
		return fmt.Sprintf("%d%s", h12, suffix)
	}
	return fmt.Sprintf("%d:%02d%s", h12, min, suffix)
}
