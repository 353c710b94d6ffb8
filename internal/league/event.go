package league

import (
	"time"

	"github.com/google/uuid"
)

// Seeded event type names. Losing participants collect one PlayerEvent per
// active flag on the match request.
const (
	EventPantsed    = "pantsed"
	EventAwayGame   = "away_game"
	EventLostByFoul = "lost_by_foul"
)

type EventType struct {
	ID   uuid.UUID `db:"id"`
	Name string    `db:"name"`
}

type PlayerEvent struct {
	ID        uuid.UUID `db:"id"`
	PlayerID  uuid.UUID `db:"player_id"`
	EventID   uuid.UUID `db:"event_id"`
	Timestamp time.Time `db:"timestamp"`
}

type AuditLog struct {
	ID        uuid.UUID `db:"id"`
	Log       string    `db:"log"`
	Timestamp time.Time `db:"timestamp"`
}
