package league

import (
	"time"

	"github.com/google/uuid"
)

// Match is one recorded contest, singles or doubles. Starting ratings and
// deltas are captured per slot at recording time and are immutable afterwards;
// they are the audit trail current ratings are reconstructed from.
type Match struct {
	ID        uuid.UUID `db:"id"`
	IsDoubles bool      `db:"is_doubles"`

	Winner1ID          uuid.UUID  `db:"winner1_id"`
	Winner2ID          *uuid.UUID `db:"winner2_id"`
	Winner1StartingElo int        `db:"winner1_starting_elo"`
	Winner2StartingElo *int       `db:"winner2_starting_elo"`
	Winner1EloChange   int        `db:"winner1_elo_change"`
	Winner2EloChange   *int       `db:"winner2_elo_change"`

	Loser1ID          uuid.UUID  `db:"loser1_id"`
	Loser2ID          *uuid.UUID `db:"loser2_id"`
	Loser1StartingElo int        `db:"loser1_starting_elo"`
	Loser2StartingElo *int       `db:"loser2_starting_elo"`
	Loser1EloChange   int        `db:"loser1_elo_change"`
	Loser2EloChange   *int       `db:"loser2_elo_change"`

	Timestamp time.Time `db:"timestamp"`
}

func (m *Match) Won(playerID uuid.UUID) bool {
	return m.Winner1ID == playerID || (m.Winner2ID != nil && *m.Winner2ID == playerID)
}

func (m *Match) Lost(playerID uuid.UUID) bool {
	return m.Loser1ID == playerID || (m.Loser2ID != nil && *m.Loser2ID == playerID)
}

func (m *Match) Involves(playerID uuid.UUID) bool {
	return m.Won(playerID) || m.Lost(playerID)
}

// DeltaFor returns the rating change belonging to whichever slot the player
// occupies, and false when the player is not part of the match.
func (m *Match) DeltaFor(playerID uuid.UUID) (int, bool) {
	switch {
	case m.Winner1ID == playerID:
		return m.Winner1EloChange, true
	case m.Winner2ID != nil && *m.Winner2ID == playerID:
		if m.Winner2EloChange != nil {
			return *m.Winner2EloChange, true
		}
		return 0, true
	case m.Loser1ID == playerID:
		return m.Loser1EloChange, true
	case m.Loser2ID != nil && *m.Loser2ID == playerID:
		if m.Loser2EloChange != nil {
			return *m.Loser2EloChange, true
		}
		return 0, true
	}
	return 0, false
}

// ParticipantIDs lists every occupied slot: winners first, then losers.
func (m *Match) ParticipantIDs() []uuid.UUID {
	ids := []uuid.UUID{m.Winner1ID}
	if m.Winner2ID != nil {
		ids = append(ids, *m.Winner2ID)
	}
	ids = append(ids, m.Loser1ID)
	if m.Loser2ID != nil {
		ids = append(ids, *m.Loser2ID)
	}
	return ids
}
