package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
	"github.com/shedworks/shed-tracker/internal/league"
	"github.com/shedworks/shed-tracker/internal/store"
)

type PlayerService struct {
	db      *sqlx.DB
	players *store.PlayerStore
	audit   *store.AuditStore
}

func NewPlayerService(db *sqlx.DB, players *store.PlayerStore, audit *store.AuditStore) *PlayerService {
	return &PlayerService{db: db, players: players, audit: audit}
}

func (s *PlayerService) Create(ctx context.Context, name string) (*league.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, league.ErrPlayerName
	}

	player := &league.Player{
		ID:        uuid.New(),
		Name:      name,
		Elo:       league.BaselineElo,
		CreatedAt: time.Now().UTC(),
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := s.players.Create(ctx, tx, player); err != nil {
		if isUniqueViolation(err) {
			return nil, league.ErrNameTaken
		}
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	if err := s.logAudit(ctx, tx, fmt.Sprintf("Player %s added", player.Name)); err != nil {
		return nil, err
	}

	return player, tx.Commit()
}

func (s *PlayerService) Get(ctx context.Context, id uuid.UUID) (*league.Player, error) {
	return s.players.Get(ctx, id)
}

func (s *PlayerService) List(ctx context.Context) ([]league.PlayerWithMatches, error) {
	return s.players.List(ctx)
}

// Update changes a player's name and the cached elo. The cache is the only
// rating the admin can touch; reconstructed ratings are unaffected.
func (s *PlayerService) Update(ctx context.Context, id uuid.UUID, name string, elo int) (*league.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, league.ErrPlayerName
	}

	player, err := s.players.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	player.Name = name
	player.Elo = elo

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := s.players.Update(ctx, tx, player); err != nil {
		if isUniqueViolation(err) {
			return nil, league.ErrNameTaken
		}
		return nil, fmt.Errorf("failed to update player: %w", err)
	}

	if err := s.logAudit(ctx, tx, fmt.Sprintf("Player %s updated", player.Name)); err != nil {
		return nil, err
	}

	return player, tx.Commit()
}

// Delete soft-deletes: the player disappears from listings and can no longer
// be picked for matches, but their past matches stay valid history.
func (s *PlayerService) Delete(ctx context.Context, id uuid.UUID) error {
	player, err := s.players.Get(ctx, id)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.players.SoftDelete(ctx, tx, id, time.Now().UTC()); err != nil {
		return err
	}

	if err := s.logAudit(ctx, tx, fmt.Sprintf("Player %s deleted", player.Name)); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *PlayerService) logAudit(ctx context.Context, tx *sqlx.Tx, text string) error {
	entry := &league.AuditLog{ID: uuid.New(), Log: text, Timestamp: time.Now().UTC()}
	if err := s.audit.Create(ctx, tx, entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
