package summary

import (
	"strings"
	"time"
)

var timestampLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// localTime turns an API timestamp into club time. Timestamps with an
// explicit zone are converted into tz when it loads; naive ones (and zoned
// ones without a usable tz) are read as UTC and shifted by offsetMinutes.
func localTime(s, tz string, offsetMinutes int) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		if tz != "" {
			if loc, err := time.LoadLocation(tz); err == nil {
				return t.In(loc), true
			}
		}
		return t.UTC().Add(minutes(offsetMinutes)), true
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Add(minutes(offsetMinutes)), true
		}
	}
	return time.Time{}, false
}

func minutesOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// sortKey orders records by start; unparsable dates sort last.
func sortKey(s string) (time.Time, bool) {
	return localTime(s, "", 0)
}

func minutes(n int) time.Duration {
	return time.Duration(n) * time.Minute
}
