package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shedworks/shed-tracker/internal/league"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a throwaway SQLite database and applies migrations.
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	database, err := sqlx.Connect("sqlite3", path+"?_journal_mode=WAL")
	require.NoError(t, err, "Failed to connect to test DB")

	_, err = database.Exec("PRAGMA foreign_keys = ON;")
	require.NoError(t, err)

	driver, err := sqlite3.WithInstance(database.DB, &sqlite3.Config{})
	require.NoError(t, err, "Failed to create migrate driver instance")

	m, err := migrate.NewWithDatabaseInstance(
		"file://../../migrations",
		"sqlite3",
		driver,
	)
	require.NoError(t, err, "Failed to create migrate instance")

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		require.NoError(t, err, "Failed to apply migrations")
	}

	return database
}

func insertPlayer(t *testing.T, db *sqlx.DB, name string) *league.Player {
	t.Helper()
	player := &league.Player{
		ID:        uuid.New(),
		Name:      name,
		Elo:       league.BaselineElo,
		CreatedAt: time.Now().UTC(),
	}
	inTx(t, db, func(tx *sqlx.Tx) error {
		return NewPlayerStore(db).Create(context.Background(), tx, player)
	})
	return player
}

func insertSinglesMatch(t *testing.T, db *sqlx.DB, winner, loser uuid.UUID, ts time.Time) *league.Match {
	t.Helper()
	match := &league.Match{
		ID:                 uuid.New(),
		Winner1ID:          winner,
		Winner1StartingElo: league.BaselineElo,
		Winner1EloChange:   15,
		Loser1ID:           loser,
		Loser1StartingElo:  league.BaselineElo,
		Loser1EloChange:    -15,
		Timestamp:          ts,
	}
	inTx(t, db, func(tx *sqlx.Tx) error {
		return NewMatchStore(db).Create(context.Background(), tx, match)
	})
	return match
}

func inTx(t *testing.T, db *sqlx.DB, fn func(tx *sqlx.Tx) error) {
	t.Helper()
	tx, err := db.BeginTxx(context.Background(), nil)
	require.NoError(t, err)
	require.NoError(t, fn(tx))
	require.NoError(t, tx.Commit())
}
