package league

import (
	"time"

	"github.com/google/uuid"
)

// BaselineElo is the rating every player starts from. Current ratings are
// reconstructed as BaselineElo plus the sum of a player's match deltas; the
// elo column on the players table is only a cache for cheap listing.
const BaselineElo = 1000

type Player struct {
	ID        uuid.UUID  `db:"id"`
	Name      string     `db:"player_name"`
	Elo       int        `db:"elo"`
	Deleted   bool       `db:"deleted"`
	DeletedAt *time.Time `db:"deleted_at"`
	CreatedAt time.Time  `db:"created_at"`
}

// PlayerWithMatches is the listing row: a player plus how many matches they
// appear in, in any of the four participant slots.
type PlayerWithMatches struct {
	Player
	TotalMatches int `db:"total_matches"`
}
