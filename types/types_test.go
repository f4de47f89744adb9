package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeList(t *testing.T) {
	assert.Nil(t, DecodeList([]byte(`{"slots":[]}`)))
	assert.Nil(t, DecodeList([]byte(`not json`)))

	got := DecodeList([]byte(`[{"a":1}, 5, "x", {"b":"y"}]`))
	require.Len(t, got, 2)
	assert.Equal(t, "y", got[1].Str("b"))
}

func TestRecordAccessors(t *testing.T) {
	r := Record{
		"empty":   "  ",
		"name":    " Court 1 ",
		"id":      float64(42),
		"num_str": "7",
		"players": []any{"a", "b", "c"},
		"flag":    "true",
	}

	assert.Equal(t, "Court 1", r.Str("missing", "empty", "name"))
	assert.Equal(t, "42", r.Str("id"))

	n, ok := r.Int("num_str")
	assert.True(t, ok)
	assert.Equal(t, 7, n)

	c, ok := r.Count("players")
	assert.True(t, ok)
	assert.Equal(t, 3, c)

	b, ok := r.Bool("flag")
	assert.True(t, ok)
	assert.True(t, b)

	_, ok = r.Float("name")
	assert.False(t, ok)
}

func TestParseMatch_NormalizesEnums(t *testing.T) {
	r := Record{
		"match_id":           "m-1",
		"status":             " Canceled ",
		"join_requests_info": map[string]any{"status": "OPEN"},
		"competition_mode":   "COMPETITIVE",
		"match_type":         "Competitive",
		"tenant": map[string]any{
			"tenant_name": "Padel Club",
			"address":     map[string]any{"city": "Madrid", "timezone": "Europe/Madrid"},
		},
		"min_level": 2.5,
		"teams": []any{
			map[string]any{"max_players": float64(2), "players": []any{
				map[string]any{"name": "Ana", "level_value": 3.1},
				map[string]any{"name": ""},
			}},
		},
	}

	m := ParseMatch(r)
	assert.Equal(t, "m-1", m.ID)
	assert.Equal(t, MatchCancelled, m.Status)
	assert.Equal(t, JoinOpen, m.JoinStatus)
	assert.Equal(t, ModeCompetitive, m.CompetitionMode)
	assert.Equal(t, ModeCompetitive, m.MatchType)
	assert.Equal(t, "Padel Club", m.Location)
	assert.Equal(t, "Madrid", m.City)
	require.NotNil(t, m.MinLevel)
	assert.Equal(t, 2.5, *m.MinLevel)
	assert.Nil(t, m.MaxLevel)
	require.Len(t, m.Teams, 1)
	assert.Equal(t, 2, m.Teams[0].MaxPlayers)
	require.Len(t, m.Teams[0].Players, 2)
	require.NotNil(t, m.Teams[0].Players[0].Level)
	assert.Nil(t, m.Teams[0].Players[1].Level)
}

func TestParseEvent_CapacityChains(t *testing.T) {
	tour := ParseEvent(Record{
		"tournament_name":    "Americano",
		"tournament_id":      "t-9",
		"id":                 "other",
		"registered_players": []any{1, 2, 3},
		"max_players":        float64(8),
	}, KindTournament)
	assert.Equal(t, "Americano", tour.Name)
	assert.Equal(t, "t-9", tour.Identity)
	assert.Equal(t, []string{"t-9", "other"}, tour.LookupIDs)
	assert.Equal(t, 3, tour.Registered)
	assert.Equal(t, 8, tour.MaxCapacity)

	lesson := ParseEvent(Record{
		"title":                   "Beginners",
		"lesson_id":               "l-1",
		"registered_participants": float64(4),
		"max_participants":        float64(4),
		"status":                  "CANCELLED",
	}, KindLesson)
	assert.Equal(t, "", lesson.Identity)
	assert.Equal(t, []string{"l-1"}, lesson.LookupIDs)
	assert.Equal(t, 4, lesson.Registered)
	assert.Equal(t, 4, lesson.MaxCapacity)
	assert.True(t, lesson.Cancelled)

	unknown := ParseEvent(Record{"participants": []any{1}, "capacity": float64(6)}, KindUnknown)
	assert.Equal(t, 1, unknown.Registered)
	assert.Equal(t, 6, unknown.MaxCapacity)
}

func TestEventSources_Order(t *testing.T) {
	s := EventSources{
		Tournaments: []Record{{"id": "t"}},
		Lessons:     []Record{{"id": "l"}},
		Classes:     []Record{{"id": "c"}},
	}
	evs := s.Events()
	require.Len(t, evs, 3)
	assert.Equal(t, KindTournament, evs[0].Kind)
	assert.Equal(t, KindLesson, evs[1].Kind)
	assert.Equal(t, KindClass, evs[2].Kind)
	assert.Equal(t, 3, s.Len())
}
