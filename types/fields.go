package types

// Field fallback chains. The booking API has renamed fields between versions
// and uses different names per event kind; each chain is tried in order.
var (
	SlotStartTimeFields = []string{"start_time", "startTime"}
	SlotStartDateFields = []string{"start_date", "startDate"}
	SlotDurationFields  = []string{"duration", "duration_minutes", "length"}

	ResourceIDFields   = []string{"resource_id", "resourceId"}
	ResourceNameFields = []string{"resource_name", "resourceName", "name"}

	MatchIDFields       = []string{"match_id", "matchId", "id"}
	MatchLocationFields = []string{"location", "resource_name", "club_name"}
	MatchStartFields    = []string{"start_date", "startDate"}
	MatchEndFields      = []string{"end_date", "endDate"}
	MatchMinLevelFields = []string{"min_level", "minLevel", "level_min"}
	MatchMaxLevelFields = []string{"max_level", "maxLevel", "level_max"}
	PlayerLevelFields   = []string{"level_value", "level"}

	EventNameFields      = []string{"name", "title", "tournament_name", "tournamentName"}
	EventStartFields     = []string{"start_date", "startDate", "start"}
	EventEndFields       = []string{"end_date", "endDate", "end"}
	EventCancelledFields = []string{"is_cancelled", "isCancelled", "cancelled"}

	// EventIdentityFields decides the dedup identity: first present wins.
	EventIdentityFields = []string{"tournament_id", "id", "tournamentId"}
	// EventLookupFields are all ids an explicit event id may refer to.
	EventLookupFields = []string{"tournament_id", "id", "tournamentId", "lesson_id", "lessonId", "class_id", "academy_class_id"}
)

var (
	tournamentRegisteredFields = []string{"registered_players", "registeredPlayers", "num_registered_players", "registered_count"}
	tournamentMaxFields        = []string{"max_players", "maxPlayers", "max_participants"}

	lessonRegisteredFields = []string{"registered_participants", "participants", "registration_count", "registered_players"}
	lessonMaxFields        = []string{"max_participants", "maxParticipants", "capacity", "max_players"}
)

// capacityFields returns the registered/max chains for an event kind.
// Unknown kinds try the tournament names first, then the lesson names.
func capacityFields(kind EventKind) (registered, max []string) {
	switch kind {
	case KindTournament:
		return tournamentRegisteredFields, tournamentMaxFields
	case KindLesson, KindClass:
		return lessonRegisteredFields, lessonMaxFields
	}
	return append(append([]string{}, tournamentRegisteredFields...), lessonRegisteredFields...),
		append(append([]string{}, tournamentMaxFields...), lessonMaxFields...)
}
