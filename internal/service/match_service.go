package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shedworks/shed-tracker/internal/league"
	"github.com/shedworks/shed-tracker/internal/rating"
	"github.com/shedworks/shed-tracker/internal/store"
	"github.com/shedworks/shed-tracker/internal/utils"
)

type MatchService struct {
	db      *sqlx.DB
	players *store.PlayerStore
	matches *store.MatchStore
	events  *store.EventStore
	audit   *store.AuditStore
	ratings *RatingService
}

func NewMatchService(db *sqlx.DB, players *store.PlayerStore, matches *store.MatchStore,
	events *store.EventStore, audit *store.AuditStore, ratings *RatingService) *MatchService {
	return &MatchService{
		db:      db,
		players: players,
		matches: matches,
		events:  events,
		audit:   audit,
		ratings: ratings,
	}
}

type RecordMatchRequest struct {
	IsDoubles bool       `json:"is_doubles"`
	Winner1ID uuid.UUID  `json:"winner1_id"`
	Winner2ID *uuid.UUID `json:"winner2_id"`
	Loser1ID  uuid.UUID  `json:"loser1_id"`
	Loser2ID  *uuid.UUID `json:"loser2_id"`

	Pantsed    bool `json:"is_pantsed"`
	AwayGame   bool `json:"is_away_game"`
	LostByFoul bool `json:"is_lost_by_foul"`
}

func (r *RecordMatchRequest) lineup() (league.Lineup, error) {
	if r.IsDoubles {
		return league.NewDoubles(r.Winner1ID, r.Winner2ID, r.Loser1ID, r.Loser2ID)
	}
	if r.Winner2ID != nil || r.Loser2ID != nil {
		return nil, league.ErrSinglesLineup
	}
	return league.NewSingles(r.Winner1ID, r.Loser1ID)
}

// Record validates the lineup, derives everyone's lifetime rating, runs the
// ELO exchange and persists the match row, the losers' event entries, the
// audit narration and the elo cache updates in one transaction.
func (s *MatchService) Record(ctx context.Context, req RecordMatchRequest) (*league.Match, error) {
	lineup, err := req.lineup()
	if err != nil {
		return nil, err
	}

	participants := make(map[uuid.UUID]*league.Player, 4)
	currentElo := make(map[uuid.UUID]int, 4)
	for _, id := range lineup.PlayerIDs() {
		player, err := s.players.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		// The rating fed into the exchange is always the lifetime one;
		// matches move a player's ongoing skill estimate regardless of
		// season framing.
		elo, _, err := s.ratings.CurrentRating(ctx, id, nil)
		if err != nil {
			return nil, err
		}
		participants[id] = player
		currentElo[id] = elo
	}

	match := &league.Match{
		ID:        uuid.New(),
		Timestamp: time.Now().UTC(),
	}

	switch l := lineup.(type) {
	case league.Singles:
		winnerElo, loserElo := currentElo[l.Winner], currentElo[l.Loser]
		newWinnerElo, newLoserElo := rating.Rate(float64(winnerElo), float64(loserElo))

		match.Winner1ID = l.Winner
		match.Winner1StartingElo = winnerElo
		match.Winner1EloChange = newWinnerElo - winnerElo
		match.Loser1ID = l.Loser
		match.Loser1StartingElo = loserElo
		match.Loser1EloChange = newLoserElo - loserElo

	case league.Doubles:
		winnerDelta, loserDelta := rating.TeamDeltas(
			currentElo[l.Winners[0]], currentElo[l.Winners[1]],
			currentElo[l.Losers[0]], currentElo[l.Losers[1]])

		match.IsDoubles = true
		match.Winner1ID = l.Winners[0]
		match.Winner2ID = utils.Ptr(l.Winners[1])
		match.Winner1StartingElo = currentElo[l.Winners[0]]
		match.Winner2StartingElo = utils.Ptr(currentElo[l.Winners[1]])
		match.Winner1EloChange = winnerDelta
		match.Winner2EloChange = utils.Ptr(winnerDelta)
		match.Loser1ID = l.Losers[0]
		match.Loser2ID = utils.Ptr(l.Losers[1])
		match.Loser1StartingElo = currentElo[l.Losers[0]]
		match.Loser2StartingElo = utils.Ptr(currentElo[l.Losers[1]])
		match.Loser1EloChange = loserDelta
		match.Loser2EloChange = utils.Ptr(loserDelta)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := s.matches.Create(ctx, tx, match); err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}

	for _, id := range lineup.PlayerIDs() {
		delta, _ := match.DeltaFor(id)
		if err := s.players.SetElo(ctx, tx, id, currentElo[id]+delta); err != nil {
			return nil, fmt.Errorf("failed to update elo cache: %w", err)
		}
	}

	if err := s.recordEvents(ctx, tx, req, match); err != nil {
		return nil, err
	}

	if err := s.audit.Create(ctx, tx, &league.AuditLog{
		ID:        uuid.New(),
		Log:       recordNarration(match, participants, currentElo),
		Timestamp: match.Timestamp,
	}); err != nil {
		return nil, fmt.Errorf("failed to write audit log: %w", err)
	}

	return match, tx.Commit()
}

// recordEvents appends one PlayerEvent per losing participant for each active
// flag on the request.
func (s *MatchService) recordEvents(ctx context.Context, tx *sqlx.Tx, req RecordMatchRequest, match *league.Match) error {
	flags := []struct {
		name   string
		active bool
	}{
		{league.EventPantsed, req.Pantsed},
		{league.EventAwayGame, req.AwayGame},
		{league.EventLostByFoul, req.LostByFoul},
	}

	losers := []uuid.UUID{match.Loser1ID}
	if match.Loser2ID != nil {
		losers = append(losers, *match.Loser2ID)
	}

	for _, flag := range flags {
		if !flag.active {
			continue
		}
		eventType, err := s.events.GetTypeByName(ctx, flag.name)
		if err != nil {
			return err
		}
		for _, loserID := range losers {
			event := &league.PlayerEvent{
				ID:        uuid.New(),
				PlayerID:  loserID,
				EventID:   eventType.ID,
				Timestamp: match.Timestamp,
			}
			if err := s.events.CreatePlayerEvent(ctx, tx, event); err != nil {
				return fmt.Errorf("failed to create player event: %w", err)
			}
		}
	}
	return nil
}

func recordNarration(match *league.Match, players map[uuid.UUID]*league.Player, startingElo map[uuid.UUID]int) string {
	describe := func(ids []uuid.UUID) string {
		parts := make([]string, 0, len(ids))
		for _, id := range ids {
			delta, _ := match.DeltaFor(id)
			parts = append(parts, fmt.Sprintf("%s (%d)", players[id].Name, startingElo[id]+delta))
		}
		return strings.Join(parts, " & ")
	}

	winners := []uuid.UUID{match.Winner1ID}
	if match.Winner2ID != nil {
		winners = append(winners, *match.Winner2ID)
	}
	losers := []uuid.UUID{match.Loser1ID}
	if match.Loser2ID != nil {
		losers = append(losers, *match.Loser2ID)
	}

	return fmt.Sprintf("Match recorded: %s defeated %s", describe(winners), describe(losers))
}

type ParticipantSnapshot struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	EloChange int       `json:"elo_change"`
}

// MatchSnapshot is what Undo hands back for narration: who played and what
// each participant's delta was, captured before the row is deleted.
type MatchSnapshot struct {
	ID        uuid.UUID             `json:"id"`
	Timestamp time.Time             `json:"timestamp"`
	IsDoubles bool                  `json:"is_doubles"`
	Winners   []ParticipantSnapshot `json:"winners"`
	Losers    []ParticipantSnapshot `json:"losers"`
}

// Undo deletes a match, but only the one with the globally latest timestamp.
// Removing anything earlier would leave later matches' captured starting
// ratings inconsistent with a replayed history.
func (s *MatchService) Undo(ctx context.Context, matchID uuid.UUID) (*MatchSnapshot, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	latest, err := s.matches.Latest(ctx, tx)
	if err != nil {
		return nil, err
	}
	if latest.ID != matchID {
		return nil, league.ErrNotLatestMatch
	}

	snapshot := &MatchSnapshot{
		ID:        latest.ID,
		Timestamp: latest.Timestamp,
		IsDoubles: latest.IsDoubles,
	}

	for _, id := range latest.ParticipantIDs() {
		player, err := s.players.GetAny(ctx, id)
		if err != nil {
			return nil, err
		}
		delta, _ := latest.DeltaFor(id)
		part := ParticipantSnapshot{ID: id, Name: player.Name, EloChange: delta}
		if latest.Won(id) {
			snapshot.Winners = append(snapshot.Winners, part)
		} else {
			snapshot.Losers = append(snapshot.Losers, part)
		}
		if err := s.players.SetElo(ctx, tx, id, player.Elo-delta); err != nil {
			return nil, fmt.Errorf("failed to revert elo cache: %w", err)
		}
	}

	if err := s.matches.Delete(ctx, tx, latest.ID); err != nil {
		return nil, err
	}

	winnerNames := make([]string, len(snapshot.Winners))
	for i, w := range snapshot.Winners {
		winnerNames[i] = w.Name
	}
	loserNames := make([]string, len(snapshot.Losers))
	for i, l := range snapshot.Losers {
		loserNames[i] = l.Name
	}
	if err := s.audit.Create(ctx, tx, &league.AuditLog{
		ID: uuid.New(),
		Log: fmt.Sprintf("Match undone: %s vs %s",
			strings.Join(winnerNames, " & "), strings.Join(loserNames, " & ")),
		Timestamp: time.Now().UTC(),
	}); err != nil {
		return nil, fmt.Errorf("failed to write audit log: %w", err)
	}

	return snapshot, tx.Commit()
}
