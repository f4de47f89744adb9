package summary

import (
	"fmt"
	"strings"

	"club-notifier/timeutil"
	"club-notifier/types"
)

const eventURLPrefix = "https://app.playtomic.io/lessons/"

// Capacity is the seat math for one event.
type Capacity struct {
	Registered int
	Max        int
	SpacesLeft int
	Display    string // "registered/max", empty when max is unknown
	Full       bool
}

// PlayerCapacity computes seats left; max 0 means capacity is unknown and
// the event is never full.
func PlayerCapacity(e types.Event) Capacity {
	c := Capacity{
		Registered: e.Registered,
		Max:        e.MaxCapacity,
		SpacesLeft: max(0, e.MaxCapacity-e.Registered),
	}
	if c.Max > 0 {
		c.Display = fmt.Sprintf("%d/%d", c.Registered, c.Max)
		c.Full = c.Registered >= c.Max
	}
	return c
}

func IsFull(e types.Event) bool {
	return PlayerCapacity(e).Full
}

func IsUntitled(e types.Event) bool {
	name := strings.TrimSpace(e.Name)
	return name == "" || strings.EqualFold(name, "untitled")
}

// displayName never writes back into the event.
func displayName(e types.Event) string {
	if name := strings.TrimSpace(e.Name); name != "" {
		return name
	}
	return "Untitled"
}

// eventLink prefers the dedup identity, then any other id the event carries.
func eventLink(e types.Event) string {
	id := e.Identity
	if id == "" && len(e.LookupIDs) > 0 {
		id = e.LookupIDs[0]
	}
	if id == "" {
		return ""
	}
	return eventURLPrefix + id
}

// GenerateTournamentSummary renders a single event block. Filtering and
// dedup are the dispatcher's job.
func GenerateTournamentSummary(e types.Event, offsetMinutes int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "*%s*\n", displayName(e))

	start, okStart := localTime(e.StartDate, "", offsetMinutes)
	end, okEnd := localTime(e.EndDate, "", offsetMinutes)
	switch {
	case !okStart:
		b.WriteString("📅 Date: Unknown\n⏰ Time: Unknown\n")
	case okEnd:
		fmt.Fprintf(&b, "📅 %s\n⏰ %s – %s\n", start.Format("Jan 2"),
			timeutil.FormatCompactAmPm(minutesOfDay(start)), timeutil.FormatCompactAmPm(minutesOfDay(end)))
	default:
		fmt.Fprintf(&b, "📅 %s\n⏰ %s\n", start.Format("Jan 2"), timeutil.FormatCompactAmPm(minutesOfDay(start)))
	}

	if e.Cancelled {
		b.WriteString("👥 Spaces left = 0 (Cancelled)\n")
	} else {
		fmt.Fprintf(&b, "👥 Spaces left = %d\n", PlayerCapacity(e).SpacesLeft)
	}

	if link := eventLink(e); link != "" {
		b.WriteString("🔗 " + link + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
