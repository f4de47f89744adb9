// Package template fills "{{token}}" placeholders in message templates.
package template

import (
	"regexp"
	"sort"
	"strconv"
	"time"
)

// Tokens understood by message templates.
const (
	TokenSummary          = "summary"
	TokenClubName         = "club_name"
	TokenDateDisplayShort = "date_display_short"
	TokenSport            = "sport"
	TokenCountSlots       = "count_slots"
	TokenMessageContent   = "message_content"
)

// Compile replaces every "{{key}}" (inner spaces allowed) for each key in
// replacements. Keys are applied in sorted order so the result does not
// depend on map iteration. Placeholders with no replacement stay verbatim.
func Compile(tmpl string, replacements map[string]string) string {
	if tmpl == "" {
		return ""
	}

	keys := make([]string, 0, len(replacements))
	for k := range replacements {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := tmpl
	for _, k := range keys {
		re := regexp.MustCompile(`\{\{\s*` + regexp.QuoteMeta(k) + `\s*\}\}`)
		out = re.ReplaceAllLiteralString(out, replacements[k])
	}
	return out
}

// Context is the data behind the fixed token set, built per render.
type Context struct {
	Summary        string
	ClubName       string
	Date           time.Time
	Sport          string
	Count          int
	MessageContent string
}

// Tokens flattens the context into the replacement map Compile expects.
func (c Context) Tokens() map[string]string {
	return map[string]string{
		TokenSummary:          c.Summary,
		TokenClubName:         c.ClubName,
		TokenDateDisplayShort: DateDisplayShort(c.Date),
		TokenSport:            c.Sport,
		TokenCountSlots:       strconv.Itoa(c.Count),
		TokenMessageContent:   c.MessageContent,
	}
}

// DateDisplayShort renders "Wed, May 1"; the zero time renders empty.
func DateDisplayShort(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Mon, Jan 2")
}
