package summary

import (
	"fmt"
	"strings"

	"club-notifier/timeutil"
	"club-notifier/types"
)

// countSuffixLimit: buckets with this many slots or more drop the " xN".
const countSuffixLimit = 5

// Bucket accumulates the slots that start inside one day-part window.
type Bucket struct {
	Label       string
	WindowStart int
	WindowEnd   int
	MinStart    *int
	MaxEnd      *int // clamped to WindowEnd
	Count       int
}

func newBuckets() []*Bucket {
	return []*Bucket{
		{Label: "Morning", WindowStart: 360, WindowEnd: 720},
		{Label: "Afternoon", WindowStart: 720, WindowEnd: 1020},
		{Label: "Evening", WindowStart: 1020, WindowEnd: 1380},
	}
}

func (b *Bucket) contains(start int) bool {
	return start >= b.WindowStart && start < b.WindowEnd
}

func (b *Bucket) add(s types.SlotTime) {
	b.Count++
	if b.MinStart == nil || s.StartMinutes < *b.MinStart {
		v := s.StartMinutes
		b.MinStart = &v
	}
	// End is taken unwrapped so a slot crossing midnight still clamps.
	end := min(s.StartMinutes+s.DurationMinutes, b.WindowEnd)
	if b.MaxEnd == nil || end > *b.MaxEnd {
		b.MaxEnd = &end
	}
}

func (b *Bucket) render() string {
	line := fmt.Sprintf("%s: %s – %s", b.Label,
		timeutil.FormatCompactAmPm(*b.MinStart), timeutil.FormatCompactAmPm(*b.MaxEnd))
	if b.Count < countSuffixLimit {
		line += fmt.Sprintf(" x%d", b.Count)
	}
	return line
}

// BucketSlots classifies each slot by its start into morning, afternoon or
// evening. Slots starting outside 6am–11pm are only counted.
func BucketSlots(slots []types.SlotTime) (buckets []*Bucket, outside int) {
	buckets = newBuckets()
	for _, s := range slots {
		placed := false
		for _, b := range buckets {
			if b.contains(s.StartMinutes) {
				b.add(s)
				placed = true
				break
			}
		}
		if !placed {
			outside++
		}
	}
	return buckets, outside
}

// SummarizeDayParts renders one line per non-empty bucket.
func SummarizeDayParts(slots []types.SlotTime) string {
	buckets, outside := BucketSlots(slots)

	lines := make([]string, 0, len(buckets))
	for _, b := range buckets {
		if b.Count > 0 {
			lines = append(lines, b.render())
		}
	}
	if len(lines) == 0 {
		return fmt.Sprintf("No day-part ranges within 6am–10:59pm (found %d slots outside this window).", outside)
	}
	return strings.Join(lines, "\n")
}

// GenerateAvailabilitySummary is the availability entry point: raw payload
// in, day-part text out.
func GenerateAvailabilitySummary(items []types.Record, offsetMinutes int) string {
	slots := NormalizeSlots(items, offsetMinutes)
	if len(slots) == 0 {
		return MsgNoSlots
	}
	return SummarizeDayParts(slots)
}
