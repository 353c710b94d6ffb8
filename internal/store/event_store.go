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

type EventStore struct {
	db *sqlx.DB
}

func NewEventStore(db *sqlx.DB) *EventStore {
	return &EventStore{db: db}
}

func (s *EventStore) GetTypeByName(ctx context.Context, name string) (*league.EventType, error) {
	var eventType league.EventType
	err := s.db.GetContext(ctx, &eventType, "SELECT * FROM event_types WHERE name = ?", name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, league.ErrEventTypeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &eventType, nil
}

func (s *EventStore) CreatePlayerEvent(ctx context.Context, tx *sqlx.Tx, event *league.PlayerEvent) error {
	_, err := tx.NamedExecContext(ctx, `
		INSERT INTO player_events (id, player_id, event_id, timestamp)
		VALUES (:id, :player_id, :event_id, :timestamp)`, event)
	return err
}

func (s *EventStore) ListForPlayer(ctx context.Context, playerID uuid.UUID) ([]league.PlayerEvent, error) {
	var events []league.PlayerEvent
	err := s.db.SelectContext(ctx, &events,
		"SELECT * FROM player_events WHERE player_id = ? ORDER BY timestamp DESC", playerID)
	return events, err
}

// RecentEventPlayers returns the ids of players logged against the named
// event since the cutoff, e.g. everyone pantsed in the last 90 days.
func (s *EventStore) RecentEventPlayers(ctx context.Context, name string, since time.Time) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := s.db.SelectContext(ctx, &ids, `
		SELECT DISTINCT pe.player_id
		FROM player_events pe
		JOIN event_types et ON et.id = pe.event_id
		WHERE et.name = ? AND pe.timestamp >= ?`, name, since)
	return ids, err
}
