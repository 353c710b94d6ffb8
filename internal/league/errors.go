package league

import "errors"

// Errors shared across services and the HTTP mapping.
var (
	// Not found
	ErrPlayerNotFound    = errors.New("player not found or has been deleted")
	ErrMatchNotFound     = errors.New("match not found")
	ErrSeasonNotFound    = errors.New("season not found")
	ErrEventTypeNotFound = errors.New("event type not found")

	// Validation
	ErrSelfPlay         = errors.New("cannot record a match against yourself")
	ErrSinglesLineup    = errors.New("a singles match takes exactly one winner and one loser")
	ErrDoublesLineup    = errors.New("a doubles match needs two winners and two losers")
	ErrDuplicatePlayers = errors.New("duplicate players not allowed in a doubles match")
	ErrPlayerName       = errors.New("player name must not be empty")
	ErrSeasonDateRange  = errors.New("season end date must be after its start date")

	// Conflicts
	ErrNotLatestMatch = errors.New("cannot undo: other matches have taken place since")
	ErrNameTaken      = errors.New("player name is already in use")
)
