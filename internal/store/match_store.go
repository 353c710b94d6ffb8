package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shedworks/shed-tracker/internal/league"
)

type MatchStore struct {
	db *sqlx.DB
}

const (
	createMatchQuery = `
		INSERT INTO matches (id, is_doubles,
			winner1_id, winner2_id, winner1_starting_elo, winner2_starting_elo,
			winner1_elo_change, winner2_elo_change,
			loser1_id, loser2_id, loser1_starting_elo, loser2_starting_elo,
			loser1_elo_change, loser2_elo_change,
			timestamp)
		VALUES (:id, :is_doubles,
			:winner1_id, :winner2_id, :winner1_starting_elo, :winner2_starting_elo,
			:winner1_elo_change, :winner2_elo_change,
			:loser1_id, :loser2_id, :loser1_starting_elo, :loser2_starting_elo,
			:loser1_elo_change, :loser2_elo_change,
			:timestamp)
	`
	playerSlotFilter = "winner1_id = ? OR winner2_id = ? OR loser1_id = ? OR loser2_id = ?"
)

func NewMatchStore(db *sqlx.DB) *MatchStore {
	return &MatchStore{db: db}
}

func (s *MatchStore) Create(ctx context.Context, tx *sqlx.Tx, match *league.Match) error {
	_, err := tx.NamedExecContext(ctx, createMatchQuery, match)
	return err
}

func (s *MatchStore) Get(ctx context.Context, id uuid.UUID) (*league.Match, error) {
	var match league.Match
	err := s.db.GetContext(ctx, &match, "SELECT * FROM matches WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, league.ErrMatchNotFound
	}
	if err != nil {
		return nil, err
	}
	return &match, nil
}

// Latest returns the match with the globally newest timestamp, or
// ErrMatchNotFound when the ledger is empty. Undo compares against it.
// rowid breaks timestamp ties so the undo target is stable.
func (s *MatchStore) Latest(ctx context.Context, tx *sqlx.Tx) (*league.Match, error) {
	var match league.Match
	err := tx.GetContext(ctx, &match, "SELECT * FROM matches ORDER BY timestamp DESC, rowid DESC LIMIT 1")
	if errors.Is(err, sql.ErrNoRows) {
		return nil, league.ErrMatchNotFound
	}
	if err != nil {
		return nil, err
	}
	return &match, nil
}

func (s *MatchStore) ListAll(ctx context.Context) ([]league.Match, error) {
	var matches []league.Match
	err := s.db.SelectContext(ctx, &matches, "SELECT * FROM matches ORDER BY timestamp ASC")
	return matches, err
}

// ListForPlayer returns every match the player appears in, in any of the four
// participant slots, oldest first.
func (s *MatchStore) ListForPlayer(ctx context.Context, playerID uuid.UUID) ([]league.Match, error) {
	var matches []league.Match
	err := s.db.SelectContext(ctx, &matches,
		"SELECT * FROM matches WHERE "+playerSlotFilter+" ORDER BY timestamp ASC",
		playerID, playerID, playerID, playerID)
	return matches, err
}

func (s *MatchStore) Delete(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error {
	res, err := tx.ExecContext(ctx, "DELETE FROM matches WHERE id = ?", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return league.ErrMatchNotFound
	}
	return nil
}
