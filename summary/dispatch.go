// Package summary reduces raw booking-API payloads (availability slots,
// open matches, tournaments/lessons/classes) into the short text blocks
// used in WhatsApp messages and social graphics. Every function here is
// pure and safe for concurrent use.
package summary

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"club-notifier/types"
)

// Canned messages. Callers that need to tell "no data" apart compare the
// returned summary against these.
const (
	MsgNoSlots       = "0 slots available for this day"
	MsgNoMatches     = "No matches found for this criteria."
	MsgNoEvents      = "No tournaments or competitions available."
	MsgNoSummary     = "No summary available"
	msgEventNotFound = "No event found with ID %s."
)

var ErrUnknownCategory = errors.New("unknown summary category")

type Category int

const (
	CategoryUnknown Category = iota
	CourtAvailability
	PartialMatches
	Competitions
)

var categoryNames = map[Category]string{
	CourtAvailability: "COURT_AVAILABILITY",
	PartialMatches:    "PARTIAL_MATCHES",
	Competitions:      "COMPETITIONS",
}

func (c Category) String() string {
	if s, ok := categoryNames[c]; ok {
		return s
	}
	return "UNKNOWN"
}

// ParseCategory maps "COURT_AVAILABILITY", "PARTIAL_MATCHES" or
// "COMPETITIONS" (any case) to a Category. Anything else is a caller bug.
func ParseCategory(s string) (Category, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for c, name := range categoryNames {
		if name == s {
			return c, nil
		}
	}
	return CategoryUnknown, fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

func (c Category) MarshalText() ([]byte, error) {
	if _, ok := categoryNames[c]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCategory, int(c))
	}
	return []byte(c.String()), nil
}

func (c *Category) UnmarshalText(b []byte) error {
	parsed, err := ParseCategory(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Target is where the summary ends up.
type Target string

const (
	TargetWhatsApp Target = "whatsapp"
	// TargetImage is the text layer of a social graphic: no bold markers,
	// no links.
	TargetImage Target = "image"
)

// Request is everything one summary needs.
type Request struct {
	Category      Category
	Data          json.RawMessage // array, or {"tournaments":[],"lessons":[],"classes":[]} for competitions
	Variant       string
	Target        Target
	Timezone      string
	OffsetMinutes int
	EventID       string
}

// Result is the rendered summary plus how many items it covers
// (valid slots, filtered matches or surviving events).
type Result struct {
	Summary string
	Count   int
}

// BuildSummary routes by category and returns the summary text.
func BuildSummary(req Request) string {
	return Build(req).Summary
}

// Build is BuildSummary with the item count.
func Build(req Request) Result {
	var res Result
	switch req.Category {
	case CourtAvailability:
		res = buildAvailability(req)
	case PartialMatches:
		res = buildMatches(req)
	case Competitions:
		res = buildCompetitions(req)
	default:
		return Result{Summary: MsgNoSummary}
	}
	if req.Target == TargetImage {
		res.Summary = forImage(res.Summary)
	}
	return res
}

func buildAvailability(req Request) Result {
	items := types.DecodeList(req.Data)
	if len(items) == 0 {
		return Result{Summary: MsgNoSlots}
	}
	slots := NormalizeSlots(items, req.OffsetMinutes)
	if len(slots) == 0 {
		return Result{Summary: MsgNoSlots}
	}
	return Result{Summary: SummarizeDayParts(slots), Count: len(slots)}
}

func buildMatches(req Request) Result {
	items := types.DecodeList(req.Data)
	if len(items) == 0 {
		return Result{Summary: MsgNoMatches}
	}

	parsed := make([]types.Match, 0, len(items))
	for _, r := range items {
		parsed = append(parsed, types.ParseMatch(r))
	}
	matches := FilterByVariant(FilterCompetitiveOpenMatches(parsed), req.Variant)
	sort.SliceStable(matches, func(i, j int) bool {
		return startsBefore(matches[i].StartDate, matches[j].StartDate)
	})

	return Result{
		Summary: GenerateCompetitiveOpenMatchesSummary(matches, req.Timezone, req.OffsetMinutes),
		Count:   len(matches),
	}
}

// decodeEvents accepts either one combined array or the three named lists.
func decodeEvents(raw json.RawMessage) []types.Event {
	if items := types.DecodeList(raw); items != nil {
		out := make([]types.Event, 0, len(items))
		for _, r := range items {
			out = append(out, types.ParseEvent(r, types.KindUnknown))
		}
		return out
	}
	var src types.EventSources
	if err := json.Unmarshal(raw, &src); err != nil {
		return nil
	}
	return src.Events()
}

func buildCompetitions(req Request) Result {
	events := decodeEvents(req.Data)
	if len(events) == 0 {
		return Result{Summary: MsgNoEvents}
	}

	eventID := strings.TrimSpace(req.EventID)
	if eventID != "" {
		events = filterByEventID(events, eventID)
		if len(events) == 0 {
			return Result{Summary: fmt.Sprintf(msgEventNotFound, eventID)}
		}
	}

	events = DedupEvents(events)
	if eventID == "" {
		events = dropUntitledAndFull(events)
	}
	if len(events) == 0 {
		return Result{Summary: MsgNoEvents}
	}

	sort.SliceStable(events, func(i, j int) bool {
		return startsBefore(events[i].StartDate, events[j].StartDate)
	})

	blocks := make([]string, 0, len(events))
	for _, e := range events {
		blocks = append(blocks, GenerateTournamentSummary(e, req.OffsetMinutes))
	}
	return Result{Summary: strings.Join(blocks, "\n\n"), Count: len(events)}
}

func filterByEventID(events []types.Event, id string) []types.Event {
	out := make([]types.Event, 0, 1)
	for _, e := range events {
		for _, candidate := range e.LookupIDs {
			if candidate == id {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

// DedupEvents keeps the first event per identity. Events with no identity
// cannot collide and are all kept.
func DedupEvents(events []types.Event) []types.Event {
	seen := make(map[string]bool)
	out := make([]types.Event, 0, len(events))
	for _, e := range events {
		if e.Identity != "" {
			if seen[e.Identity] {
				continue
			}
			seen[e.Identity] = true
		}
		out = append(out, e)
	}
	return out
}

func dropUntitledAndFull(events []types.Event) []types.Event {
	out := make([]types.Event, 0, len(events))
	for _, e := range events {
		if IsUntitled(e) || IsFull(e) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// startsBefore sorts dated records ascending and undated ones last.
func startsBefore(a, b string) bool {
	ta, okA := sortKey(a)
	tb, okB := sortKey(b)
	switch {
	case okA && okB:
		return ta.Before(tb)
	case okA:
		return true
	}
	return false
}

func forImage(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, l := range lines {
		if strings.HasPrefix(l, "🔗") {
			continue
		}
		out = append(out, strings.ReplaceAll(l, "*", ""))
	}
	return strings.Join(out, "\n")
}
