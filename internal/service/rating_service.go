package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shedworks/shed-tracker/internal/league"
	"github.com/shedworks/shed-tracker/internal/store"
)

// RatingService derives current ratings by replaying match deltas instead of
// trusting a stored column. Season-scoped queries stay correct without a
// denormalized "rating as of season X" anywhere.
type RatingService struct {
	matches *store.MatchStore
	seasons *SeasonService
}

func NewRatingService(matches *store.MatchStore, seasons *SeasonService) *RatingService {
	return &RatingService{matches: matches, seasons: seasons}
}

// CurrentRating folds the player's match deltas into a rating, starting from
// the baseline. A nil season means lifetime: every match counts. A non-nil
// season restricts to its window and further excludes matches played inside a
// nested special-event season. Also returns how many matches contributed.
func (s *RatingService) CurrentRating(ctx context.Context, playerID uuid.UUID, season *league.Season) (int, int, error) {
	matches, err := s.matches.ListForPlayer(ctx, playerID)
	if err != nil {
		return 0, 0, err
	}

	var specials []league.Season
	if season != nil {
		specials, err = s.seasons.SpecialsWithin(ctx, season)
		if err != nil {
			return 0, 0, err
		}
	}

	elo := league.BaselineElo
	counted := 0
	for i := range matches {
		match := &matches[i]
		if season != nil {
			if !season.Contains(match.Timestamp) {
				continue
			}
			if insideAny(specials, match.Timestamp) {
				continue
			}
		}
		delta, ok := match.DeltaFor(playerID)
		if !ok {
			continue
		}
		elo += delta
		counted++
	}
	return elo, counted, nil
}

func insideAny(seasons []league.Season, ts time.Time) bool {
	for i := range seasons {
		if seasons[i].Contains(ts) {
			return true
		}
	}
	return false
}
