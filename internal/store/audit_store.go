package store

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/shedworks/shed-tracker/internal/league"
)

type AuditStore struct {
	db *sqlx.DB
}

func NewAuditStore(db *sqlx.DB) *AuditStore {
	return &AuditStore{db: db}
}

func (s *AuditStore) Create(ctx context.Context, tx *sqlx.Tx, entry *league.AuditLog) error {
	_, err := tx.NamedExecContext(ctx, `
		INSERT INTO audit_logs (id, log, timestamp)
		VALUES (:id, :log, :timestamp)`, entry)
	return err
}

// ListRecent returns the newest entries first, capped for display.
func (s *AuditStore) ListRecent(ctx context.Context, limit int) ([]league.AuditLog, error) {
	var logs []league.AuditLog
	err := s.db.SelectContext(ctx, &logs,
		"SELECT * FROM audit_logs ORDER BY timestamp DESC LIMIT ?", limit)
	return logs, err
}
