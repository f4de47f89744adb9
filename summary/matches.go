package summary

import (
	"fmt"
	"math"
	"strings"

	"club-notifier/types"
)

const (
	matchURLPrefix    = "https://app.playtomic.io/matches/"
	defaultMaxPlayers = 4

	matchesHeader = "— COMPETITIVE — OPEN (1–3 PLAYERS) (%d) —"
)

// Match variants accepted by FilterByVariant.
const (
	VariantCompetitiveOpen  = "competitive-open"
	VariantCompetitiveOpen1 = "competitive-open-1"
	VariantCompetitiveOpen2 = "competitive-open-2"
	VariantCompetitiveOpen3 = "competitive-open-3"
)

// EnrichedMatch is a match that passed the competitive-open filter, with
// its seat counts attached.
type EnrichedMatch struct {
	types.Match
	RegisteredPlayers int
	MaxPlayers        int
	SpacesLeft        int
}

// FilterCompetitiveOpenMatches keeps matches that are not cancelled, open to
// join requests, competitive in both mode and type, and have 1 to 3 named
// players. The input slice is not modified.
func FilterCompetitiveOpenMatches(matches []types.Match) []EnrichedMatch {
	out := make([]EnrichedMatch, 0, len(matches))
	for _, m := range matches {
		if m.Status == types.MatchCancelled ||
			m.JoinStatus != types.JoinOpen ||
			m.CompetitionMode != types.ModeCompetitive ||
			m.MatchType != types.ModeCompetitive {
			continue
		}

		registered := 0
		maxPlayers := 0
		for _, t := range m.Teams {
			maxPlayers += t.MaxPlayers
			for _, p := range t.Players {
				if p.Name != "" {
					registered++
				}
			}
		}
		if registered < 1 || registered > 3 {
			continue
		}
		if maxPlayers <= 0 {
			maxPlayers = defaultMaxPlayers
		}

		out = append(out, EnrichedMatch{
			Match:             m,
			RegisteredPlayers: registered,
			MaxPlayers:        maxPlayers,
			SpacesLeft:        max(0, maxPlayers-registered),
		})
	}
	return out
}

// FilterByVariant narrows to exactly 1, 2 or 3 registered players when the
// variant asks for it. Any other variant returns matches unchanged.
func FilterByVariant(matches []EnrichedMatch, variant string) []EnrichedMatch {
	want := 0
	switch strings.ToLower(strings.TrimSpace(variant)) {
	case VariantCompetitiveOpen1:
		want = 1
	case VariantCompetitiveOpen2:
		want = 2
	case VariantCompetitiveOpen3:
		want = 3
	default:
		return matches
	}

	out := make([]EnrichedMatch, 0, len(matches))
	for _, m := range matches {
		if m.RegisteredPlayers == want {
			out = append(out, m)
		}
	}
	return out
}

// FormatMatchBlock renders one match as a fixed multi-line block.
func FormatMatchBlock(m EnrichedMatch, tz string, offsetMinutes int) string {
	var b strings.Builder

	location := m.Location
	if location == "" {
		location = "Unknown"
	}
	fmt.Fprintf(&b, "*MATCH IN %s*\n", location)
	b.WriteString("📅 " + matchWhen(m.Match, tz, offsetMinutes) + "\n")

	city := m.City
	if city == "" {
		city = "N/A"
	}
	b.WriteString("📍 " + city + "\n")
	b.WriteString("📊 " + levelRange(m.Match) + "\n")

	for _, t := range m.Teams {
		for _, p := range t.Players {
			if p.Name == "" {
				continue
			}
			level := "N/A"
			if p.Level != nil {
				level = fmt.Sprintf("%.2f", *p.Level)
			}
			fmt.Fprintf(&b, "🟢 %s (%s)\n", p.Name, level)
		}
	}
	for i := 0; i < m.SpacesLeft; i++ {
		b.WriteString("⚪ Available\n")
	}

	if m.ID != "" {
		b.WriteString("🔗 " + matchURLPrefix + m.ID + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func matchWhen(m types.Match, tz string, offsetMinutes int) string {
	start, ok := localTime(m.StartDate, tz, offsetMinutes)
	if !ok {
		return "Date: Unknown, Time: Unknown"
	}

	duration := m.DurationMinutes
	if duration <= 0 {
		if end, ok := localTime(m.EndDate, tz, offsetMinutes); ok && end.After(start) {
			duration = int(end.Sub(start).Minutes())
		}
	}
	if duration <= 0 {
		duration = types.DefaultSlotDuration
	}
	end := start.Add(minutes(duration))

	return fmt.Sprintf("%s, %s – %s (%dmin)",
		start.Format("Jan 2"), start.Format("3:04pm"), end.Format("3:04pm"), duration)
}

// levelRange prefers the match's own level bounds, then the spread of the
// players' levels.
func levelRange(m types.Match) string {
	if m.MinLevel != nil && m.MaxLevel != nil {
		return fmt.Sprintf("Level %.2f - %.2f", *m.MinLevel, *m.MaxLevel)
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, t := range m.Teams {
		for _, p := range t.Players {
			if p.Level == nil {
				continue
			}
			lo = math.Min(lo, *p.Level)
			hi = math.Max(hi, *p.Level)
		}
	}
	if math.IsInf(lo, 1) {
		return "Level N/A"
	}
	return fmt.Sprintf("Level %.1f - %.1f", lo, hi)
}

// GenerateCompetitiveOpenMatchesSummary renders the header and every block.
// The count in the header is len(matches), whatever narrowing the caller did.
func GenerateCompetitiveOpenMatchesSummary(matches []EnrichedMatch, tz string, offsetMinutes int) string {
	header := fmt.Sprintf(matchesHeader, len(matches))
	if len(matches) == 0 {
		return header + "\n\n" + MsgNoMatches
	}

	blocks := make([]string, 0, len(matches))
	for _, m := range matches {
		blocks = append(blocks, FormatMatchBlock(m, tz, offsetMinutes))
	}
	return header + "\n\n" + strings.Join(blocks, "\n\n")
}
