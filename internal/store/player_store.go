package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shedworks/shed-tracker/internal/league"
)

type PlayerStore struct {
	db *sqlx.DB
}

const (
	getPlayerQuery    = "SELECT * FROM players WHERE id = ? AND deleted = 0"
	getAnyPlayerQuery = "SELECT * FROM players WHERE id = ?"

	createPlayerQuery = `
		INSERT INTO players (id, player_name, elo, deleted, created_at)
		VALUES (:id, :player_name, :elo, :deleted, :created_at)
	`
	listPlayersQuery = `
		SELECT p.*, COUNT(m.id) AS total_matches
		FROM players p
		LEFT JOIN matches m ON m.winner1_id = p.id
			OR m.winner2_id = p.id
			OR m.loser1_id = p.id
			OR m.loser2_id = p.id
		WHERE p.deleted = 0
		GROUP BY p.id
		ORDER BY p.player_name ASC
	`
)

func NewPlayerStore(db *sqlx.DB) *PlayerStore {
	return &PlayerStore{db: db}
}

// Get returns a player that has not been soft-deleted.
func (s *PlayerStore) Get(ctx context.Context, id uuid.UUID) (*league.Player, error) {
	var player league.Player
	err := s.db.GetContext(ctx, &player, getPlayerQuery, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, league.ErrPlayerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &player, nil
}

// GetAny returns a player regardless of the soft-delete flag. Past matches
// keep referencing deleted players, so audit narration still needs the name.
func (s *PlayerStore) GetAny(ctx context.Context, id uuid.UUID) (*league.Player, error) {
	var player league.Player
	err := s.db.GetContext(ctx, &player, getAnyPlayerQuery, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, league.ErrPlayerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &player, nil
}

func (s *PlayerStore) List(ctx context.Context) ([]league.PlayerWithMatches, error) {
	var players []league.PlayerWithMatches
	err := s.db.SelectContext(ctx, &players, listPlayersQuery)
	return players, err
}

func (s *PlayerStore) Create(ctx context.Context, tx *sqlx.Tx, player *league.Player) error {
	_, err := tx.NamedExecContext(ctx, createPlayerQuery, player)
	return err
}

func (s *PlayerStore) Update(ctx context.Context, tx *sqlx.Tx, player *league.Player) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE players SET player_name = ?, elo = ? WHERE id = ?",
		player.Name, player.Elo, player.ID)
	return err
}

// SetElo maintains the denormalized elo cache; reconstructed ratings never
// read it.
func (s *PlayerStore) SetElo(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, elo int) error {
	_, err := tx.ExecContext(ctx, "UPDATE players SET elo = ? WHERE id = ?", elo, id)
	return err
}

func (s *PlayerStore) SoftDelete(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, at time.Time) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE players SET deleted = 1, deleted_at = ? WHERE id = ? AND deleted = 0", at, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return league.ErrPlayerNotFound
	}
	return nil
}
