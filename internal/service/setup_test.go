package service

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
	"github.com/shedworks/shed-tracker/internal/league"
	"github.com/shedworks/shed-tracker/internal/store"
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

type testServices struct {
	db      *sqlx.DB
	players *store.PlayerStore
	matches *store.MatchStore
	events  *store.EventStore
	audit   *store.AuditStore

	seasonService *SeasonService
	ratingService *RatingService
	playerService *PlayerService
	matchService  *MatchService
	statsService  *StatsService
}

func newTestServices(db *sqlx.DB) *testServices {
	players := store.NewPlayerStore(db)
	matches := store.NewMatchStore(db)
	events := store.NewEventStore(db)
	audit := store.NewAuditStore(db)
	seasons := NewSeasonService(store.NewSeasonStore(db))
	ratings := NewRatingService(matches, seasons)

	return &testServices{
		db:            db,
		players:       players,
		matches:       matches,
		events:        events,
		audit:         audit,
		seasonService: seasons,
		ratingService: ratings,
		playerService: NewPlayerService(db, players, audit),
		matchService:  NewMatchService(db, players, matches, events, audit, ratings),
		statsService:  NewStatsService(players, matches, ratings),
	}
}

func createTestPlayer(t *testing.T, svc *testServices, name string) *league.Player {
	t.Helper()
	player, err := svc.playerService.Create(context.Background(), name)
	require.NoError(t, err)
	return player
}

// insertMatch writes a match row directly, bypassing the recording flow, so
// tests can craft timestamps and deltas.
func insertMatch(t *testing.T, svc *testServices, match *league.Match) {
	t.Helper()
	if match.ID == uuid.Nil {
		match.ID = uuid.New()
	}
	tx, err := svc.db.BeginTxx(context.Background(), nil)
	require.NoError(t, err)
	require.NoError(t, svc.matches.Create(context.Background(), tx, match))
	require.NoError(t, tx.Commit())
}

// singlesMatch builds a synthetic singles row with symmetric deltas.
func singlesMatch(winner, loser uuid.UUID, ts time.Time, delta int) *league.Match {
	return &league.Match{
		ID:                 uuid.New(),
		Winner1ID:          winner,
		Winner1StartingElo: league.BaselineElo,
		Winner1EloChange:   delta,
		Loser1ID:           loser,
		Loser1StartingElo:  league.BaselineElo,
		Loser1EloChange:    -delta,
		Timestamp:          ts,
	}
}
