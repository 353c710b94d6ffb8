package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shedworks/shed-tracker/internal/league"
)

type SeasonStore struct {
	db *sqlx.DB
}

func NewSeasonStore(db *sqlx.DB) *SeasonStore {
	return &SeasonStore{db: db}
}

func (s *SeasonStore) Create(ctx context.Context, season *league.Season) error {
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO seasons (id, name, start_date, end_date, special)
		VALUES (:id, :name, :start_date, :end_date, :special)`, season)
	return err
}

func (s *SeasonStore) Get(ctx context.Context, id uuid.UUID) (*league.Season, error) {
	var season league.Season
	err := s.db.GetContext(ctx, &season, "SELECT * FROM seasons WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, league.ErrSeasonNotFound
	}
	if err != nil {
		return nil, err
	}
	return &season, nil
}

func (s *SeasonStore) List(ctx context.Context) ([]league.Season, error) {
	var seasons []league.Season
	err := s.db.SelectContext(ctx, &seasons, "SELECT * FROM seasons ORDER BY start_date ASC")
	return seasons, err
}
