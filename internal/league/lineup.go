package league

import "github.com/google/uuid"

// Lineup is the validated participant set of a match before it is recorded.
// Singles and Doubles are the only two variants; the flat nullable-slot row
// shape only exists at the storage boundary.
type Lineup interface {
	PlayerIDs() []uuid.UUID
	IsDoubles() bool
}

type Singles struct {
	Winner uuid.UUID
	Loser  uuid.UUID
}

func (s Singles) PlayerIDs() []uuid.UUID { return []uuid.UUID{s.Winner, s.Loser} }
func (s Singles) IsDoubles() bool        { return false }

type Doubles struct {
	Winners [2]uuid.UUID
	Losers  [2]uuid.UUID
}

func (d Doubles) PlayerIDs() []uuid.UUID {
	return []uuid.UUID{d.Winners[0], d.Winners[1], d.Losers[0], d.Losers[1]}
}
func (d Doubles) IsDoubles() bool { return true }

func NewSingles(winner, loser uuid.UUID) (Singles, error) {
	if winner == uuid.Nil || loser == uuid.Nil {
		return Singles{}, ErrSinglesLineup
	}
	if winner == loser {
		return Singles{}, ErrSelfPlay
	}
	return Singles{Winner: winner, Loser: loser}, nil
}

func NewDoubles(winner1 uuid.UUID, winner2 *uuid.UUID, loser1 uuid.UUID, loser2 *uuid.UUID) (Doubles, error) {
	if winner2 == nil || loser2 == nil || winner1 == uuid.Nil || loser1 == uuid.Nil {
		return Doubles{}, ErrDoublesLineup
	}
	d := Doubles{
		Winners: [2]uuid.UUID{winner1, *winner2},
		Losers:  [2]uuid.UUID{loser1, *loser2},
	}
	seen := make(map[uuid.UUID]struct{}, 4)
	for _, id := range d.PlayerIDs() {
		if id == uuid.Nil {
			return Doubles{}, ErrDoublesLineup
		}
		if _, dup := seen[id]; dup {
			return Doubles{}, ErrDuplicatePlayers
		}
		seen[id] = struct{}{}
	}
	return d, nil
}
