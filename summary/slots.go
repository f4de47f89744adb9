package summary

import (
	"strings"

	"club-notifier/timeutil"
	"club-notifier/types"
)

// DefaultOffsetMinutes corrects the booking API's reporting zone to club
// time when the organization has no offset of its own.
const DefaultOffsetMinutes = 60

// ExtractSlots flattens availability payloads one level. An item with a
// nested "slots" array emits each slot, which inherits the parent's resource
// id/name and, if it has none, the parent's start date. An item that carries
// a start time itself is emitted as is. Input order is kept.
func ExtractSlots(items []types.Record) []types.Record {
	out := make([]types.Record, 0, len(items))
	for _, item := range items {
		if item.Has("slots") {
			resID := item.Str(types.ResourceIDFields...)
			resName := item.Str(types.ResourceNameFields...)
			parentDate := item.Str(types.SlotStartDateFields...)

			for _, s := range item.List("slots") {
				slot := s.Clone()
				if resID != "" {
					slot["resource_id"] = resID
				}
				if resName != "" {
					slot["resource_name"] = resName
				}
				if parentDate != "" && slot.Str(types.SlotStartDateFields...) == "" {
					slot["start_date"] = parentDate
				}
				out = append(out, slot)
			}
			continue
		}
		if item.Str(types.SlotStartTimeFields...) != "" {
			out = append(out, item)
		}
	}
	return out
}

// ParseSlotTime resolves a slot's start, applies the offset and computes its
// end. ok is false when no usable start time exists; such slots are dropped.
func ParseSlotTime(raw types.Record, offsetMinutes int) (types.SlotTime, bool) {
	date := raw.Str(types.SlotStartDateFields...)
	start := raw.Str(types.SlotStartTimeFields...)
	if start == "" {
		return types.SlotTime{}, false
	}

	// "2024-05-01T09:00:00" carries its own date.
	if i := strings.IndexByte(start, 'T'); i >= 0 {
		if date == "" {
			date = start[:i]
		}
		start = start[i+1:]
	}

	hhmm := truncateHHMM(start)
	startMin, err := timeutil.ParseHHMM(hhmm)
	if err != nil {
		return types.SlotTime{}, false
	}

	duration := types.DefaultSlotDuration
	if d, ok := raw.Int(types.SlotDurationFields...); ok && d > 0 {
		duration = d
	}

	adjusted := timeutil.Wrap(startMin + offsetMinutes)
	return types.SlotTime{
		StartHHMM:       hhmm,
		StartDate:       date,
		StartMinutes:    adjusted,
		EndMinutes:      timeutil.Wrap(adjusted + duration),
		DurationMinutes: duration,
		ResourceID:      raw.Str(types.ResourceIDFields...),
		ResourceName:    raw.Str("resource_name", "resourceName"),
	}, true
}

// truncateHHMM drops seconds: "09:00:00" -> "09:00".
func truncateHHMM(s string) string {
	parts := strings.Split(s, ":")
	if len(parts) < 2 {
		return s
	}
	return parts[0] + ":" + parts[1]
}

// NormalizeSlots extracts and parses a raw availability payload, silently
// dropping slots without a resolvable start.
func NormalizeSlots(items []types.Record, offsetMinutes int) []types.SlotTime {
	raw := ExtractSlots(items)
	slots := make([]types.SlotTime, 0, len(raw))
	for _, r := range raw {
		if st, ok := ParseSlotTime(r, offsetMinutes); ok {
			slots = append(slots, st)
		}
	}
	return slots
}
