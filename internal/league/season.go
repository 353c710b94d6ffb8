package league

import (
	"time"

	"github.com/google/uuid"
)

// Season selectors accepted by the resolver alongside a concrete season id.
const (
	SelectorCurrent  = "current"
	SelectorLifetime = "lifetime"
)

// Season is a named date range. A special season is one nested inside a
// canonical season; its matches are excluded from the parent's rating scope
// but still count toward lifetime stats.
type Season struct {
	ID        uuid.UUID `db:"id"`
	Name      string    `db:"name"`
	StartDate time.Time `db:"start_date"`
	EndDate   time.Time `db:"end_date"`
	Special   bool      `db:"special"`
}

// Contains reports whether ts falls inside the season's range. Both dates are
// inclusive: end_date is stored as a midnight instant, so the whole of that
// day still belongs to the season.
func (s *Season) Contains(ts time.Time) bool {
	return !ts.Before(s.StartDate) && ts.Before(s.EndDate.AddDate(0, 0, 1))
}

// Encloses reports whether other's range lies entirely inside this season's.
func (s *Season) Encloses(other *Season) bool {
	return s.ID != other.ID &&
		!other.StartDate.Before(s.StartDate) &&
		!other.EndDate.After(s.EndDate)
}
