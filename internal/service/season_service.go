package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shedworks/shed-tracker/internal/league"
	"github.com/shedworks/shed-tracker/internal/store"
)

type SeasonService struct {
	seasons *store.SeasonStore
}

func NewSeasonService(seasons *store.SeasonStore) *SeasonService {
	return &SeasonService{seasons: seasons}
}

func (s *SeasonService) Create(ctx context.Context, name string, start, end time.Time, special bool) (*league.Season, error) {
	if !end.After(start) {
		return nil, league.ErrSeasonDateRange
	}
	season := &league.Season{
		ID:        uuid.New(),
		Name:      name,
		StartDate: start,
		EndDate:   end,
		Special:   special,
	}
	if err := s.seasons.Create(ctx, season); err != nil {
		return nil, err
	}
	return season, nil
}

func (s *SeasonService) List(ctx context.Context) ([]league.Season, error) {
	return s.seasons.List(ctx)
}

// Resolve maps a selector to a season. "lifetime" resolves to nil, meaning no
// season filter; "current" picks the canonical season containing now, ties
// broken by the latest start date; anything else is a season id.
// "current" with no active season also resolves to nil.
func (s *SeasonService) Resolve(ctx context.Context, selector string, now time.Time) (*league.Season, error) {
	switch selector {
	case league.SelectorLifetime, "":
		return nil, nil
	case league.SelectorCurrent:
		seasons, err := s.seasons.List(ctx)
		if err != nil {
			return nil, err
		}
		var current *league.Season
		for i := range seasons {
			season := &seasons[i]
			if season.Special || !season.Contains(now) {
				continue
			}
			if current == nil || season.StartDate.After(current.StartDate) {
				current = season
			}
		}
		return current, nil
	default:
		id, err := uuid.Parse(selector)
		if err != nil {
			return nil, league.ErrSeasonNotFound
		}
		return s.seasons.Get(ctx, id)
	}
}

// SpecialsWithin lists the special-event seasons nested inside the given
// season. Matches falling inside one never count toward the parent's rating.
func (s *SeasonService) SpecialsWithin(ctx context.Context, season *league.Season) ([]league.Season, error) {
	seasons, err := s.seasons.List(ctx)
	if err != nil {
		return nil, err
	}
	var nested []league.Season
	for _, candidate := range seasons {
		if candidate.Special && season.Encloses(&candidate) {
			nested = append(nested, candidate)
		}
	}
	return nested, nil
}
