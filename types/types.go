package types

import (
	"strings"
)

// SlotTime is one bookable interval after offset correction.
// EndMinutes = (StartMinutes + DurationMinutes) mod 1440, so it may wrap.
type SlotTime struct {
	StartHHMM       string // raw "HH:MM" from the API, before correction
	StartDate       string
	StartMinutes    int
	EndMinutes      int
	DurationMinutes int
	ResourceID      string
	ResourceName    string
}

// DefaultSlotDuration applies when a slot carries no duration field.
const DefaultSlotDuration = 90

// MatchStatus, JoinStatus and GameMode are lower-cased once when a match is
// parsed; predicates compare against the constants directly.
type (
	MatchStatus string
	JoinStatus  string
	GameMode    string
)

const (
	MatchCancelled  MatchStatus = "cancelled"
	JoinOpen        JoinStatus  = "open"
	ModeCompetitive GameMode    = "competitive"
	ModeFriendly    GameMode    = "friendly"
)

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func parseMatchStatus(s string) MatchStatus {
	s = normalize(s)
	if s == "canceled" {
		return MatchCancelled
	}
	return MatchStatus(s)
}

// Player is one seat holder. Level is nil when the API has no rating.
type Player struct {
	Name  string
	Level *float64
}

type Team struct {
	Players    []Player
	MaxPlayers int
}

// Match is a parsed open-match record.
type Match struct {
	ID              string
	Status          MatchStatus
	JoinStatus      JoinStatus
	CompetitionMode GameMode
	MatchType       GameMode
	Location        string
	City            string
	Timezone        string
	StartDate       string
	EndDate         string
	DurationMinutes int
	MinLevel        *float64
	MaxLevel        *float64
	Teams           []Team
}

// ParseMatch normalizes a raw match record.
func ParseMatch(r Record) Match {
	tenant := r.Object("tenant")
	address := tenant.Object("address")

	m := Match{
		ID:              r.Str(MatchIDFields...),
		Status:          parseMatchStatus(r.Str("status")),
		JoinStatus:      JoinStatus(normalize(r.Object("join_requests_info").Str("status"))),
		CompetitionMode: GameMode(normalize(r.Str("competition_mode", "competitionMode"))),
		MatchType:       GameMode(normalize(r.Str("match_type", "matchType"))),
		Location:        r.Str(MatchLocationFields...),
		City:            address.Str("city"),
		Timezone:        address.Str("timezone"),
		StartDate:       r.Str(MatchStartFields...),
		EndDate:         r.Str(MatchEndFields...),
	}
	if m.JoinStatus == "" {
		m.JoinStatus = JoinStatus(normalize(r.Str("join_request_status", "joinRequestStatus")))
	}
	if m.Location == "" {
		m.Location = tenant.Str("tenant_name")
	}
	if m.City == "" {
		m.City = r.Str("city")
	}
	if d, ok := r.Int("duration"); ok {
		m.DurationMinutes = d
	}
	if v, ok := r.Float(MatchMinLevelFields...); ok {
		m.MinLevel = &v
	}
	if v, ok := r.Float(MatchMaxLevelFields...); ok {
		m.MaxLevel = &v
	}

	for _, t := range r.List("teams") {
		team := Team{}
		team.MaxPlayers, _ = t.Int("max_players", "maxPlayers")
		for _, p := range t.List("players") {
			pl := Player{Name: p.Str("name")}
			if lv, ok := p.Float(PlayerLevelFields...); ok {
				pl.Level = &lv
			}
			team.Players = append(team.Players, pl)
		}
		m.Teams = append(m.Teams, team)
	}
	return m
}

// EventKind tells which source list an event came from.
type EventKind int

const (
	KindUnknown EventKind = iota
	KindTournament
	KindLesson
	KindClass
)

func (k EventKind) String() string {
	switch k {
	case KindTournament:
		return "tournament"
	case KindLesson:
		return "lesson"
	case KindClass:
		return "class"
	}
	return "event"
}

// Event is a tournament, lesson or class with capacity.
type Event struct {
	Kind        EventKind
	Name        string // empty when the API gave none
	StartDate   string
	EndDate     string
	Registered  int
	MaxCapacity int
	Cancelled   bool
	Identity    string   // dedup key, first of EventIdentityFields
	LookupIDs   []string // every id an explicit event id may match
}

// ParseEvent resolves an event record using the chains for its kind.
func ParseEvent(r Record, kind EventKind) Event {
	regFields, maxFields := capacityFields(kind)

	e := Event{
		Kind:      kind,
		Name:      r.Str(EventNameFields...),
		StartDate: r.Str(EventStartFields...),
		EndDate:   r.Str(EventEndFields...),
		Identity:  r.Str(EventIdentityFields...),
	}
	e.Registered, _ = r.Count(regFields...)
	e.MaxCapacity, _ = r.Int(maxFields...)

	if c, ok := r.Bool(EventCancelledFields...); ok {
		e.Cancelled = c
	} else {
		st := parseMatchStatus(r.Str("status"))
		e.Cancelled = st == MatchCancelled
	}

	for _, k := range EventLookupFields {
		if id := r.Str(k); id != "" {
			e.LookupIDs = append(e.LookupIDs, id)
		}
	}
	return e
}

// EventSources holds the three event lists the API serves separately.
type EventSources struct {
	Tournaments []Record `json:"tournaments"`
	Lessons     []Record `json:"lessons"`
	Classes     []Record `json:"classes"`
}

// Events parses all three lists in order: tournaments, lessons, classes.
func (s EventSources) Events() []Event {
	out := make([]Event, 0, len(s.Tournaments)+len(s.Lessons)+len(s.Classes))
	for _, r := range s.Tournaments {
		out = append(out, ParseEvent(r, KindTournament))
	}
	for _, r := range s.Lessons {
		out = append(out, ParseEvent(r, KindLesson))
	}
	for _, r := range s.Classes {
		out = append(out, ParseEvent(r, KindClass))
	}
	return out
}

// Len is the total number of raw records.
func (s EventSources) Len() int {
	return len(s.Tournaments) + len(s.Lessons) + len(s.Classes)
}
