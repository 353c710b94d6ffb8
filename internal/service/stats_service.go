package service

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shedworks/shed-tracker/internal/league"
	"github.com/shedworks/shed-tracker/internal/store"
)

// Fun-fact constants: what a match would have cost elsewhere and how long one
// takes, in pounds and minutes.
const (
	pricePerMatch   = 3
	minutesPerMatch = 15
)

// StatsService computes leaderboards over the full lifetime match history,
// restricted to non-deleted players. Everything is a bounded synchronous fold
// over data already fetched, so the queries are safe to run concurrently.
type StatsService struct {
	players *store.PlayerStore
	matches *store.MatchStore
	ratings *RatingService
}

func NewStatsService(players *store.PlayerStore, matches *store.MatchStore, ratings *RatingService) *StatsService {
	return &StatsService{players: players, matches: matches, ratings: ratings}
}

type PlayerStreak struct {
	PlayerID      uuid.UUID `json:"player_id"`
	PlayerName    string    `json:"player_name"`
	CurrentStreak int       `json:"current_streak"`
	Elo           int       `json:"elo"`
	EloChange     int       `json:"elo_change"`
}

// Streaks returns the top five active win streaks: consecutive wins counted
// from each player's most recent match backwards. Streaks of one don't chart.
func (s *StatsService) Streaks(ctx context.Context) ([]PlayerStreak, error) {
	players, err := s.players.List(ctx)
	if err != nil {
		return nil, err
	}

	var streaks []PlayerStreak
	for _, player := range players {
		matches, err := s.matches.ListForPlayer(ctx, player.ID)
		if err != nil {
			return nil, err
		}

		streak, eloChange := 0, 0
		for i := len(matches) - 1; i >= 0; i-- {
			if !matches[i].Won(player.ID) {
				break
			}
			delta, _ := matches[i].DeltaFor(player.ID)
			streak++
			eloChange += delta
		}

		if streak > 1 {
			elo, _, err := s.ratings.CurrentRating(ctx, player.ID, nil)
			if err != nil {
				return nil, err
			}
			streaks = append(streaks, PlayerStreak{
				PlayerID:      player.ID,
				PlayerName:    player.Name,
				CurrentStreak: streak,
				Elo:           elo,
				EloChange:     eloChange,
			})
		}
	}

	sort.SliceStable(streaks, func(i, j int) bool {
		if streaks[i].CurrentStreak != streaks[j].CurrentStreak {
			return streaks[i].CurrentStreak > streaks[j].CurrentStreak
		}
		return streaks[i].EloChange > streaks[j].EloChange
	})
	if len(streaks) > 5 {
		streaks = streaks[:5]
	}
	return streaks, nil
}

type LongestStreak struct {
	PlayerID   uuid.UUID `json:"player_id"`
	PlayerName string    `json:"player_name"`
	Streak     int       `json:"longest_streak"`
	EloChange  int       `json:"longest_streak_elo_change"`
	StreakType string    `json:"streak_type"`
}

// LongestStreaks emits each player's longest win run and longest loss run,
// when non-empty. The running maximum only moves on a strictly longer run, so
// among equal-length runs the first one keeps the title. Ordering is left to
// the consumer.
func (s *StatsService) LongestStreaks(ctx context.Context) ([]LongestStreak, error) {
	players, err := s.players.List(ctx)
	if err != nil {
		return nil, err
	}

	var result []LongestStreak
	for _, player := range players {
		matches, err := s.matches.ListForPlayer(ctx, player.ID)
		if err != nil {
			return nil, err
		}

		for _, streakType := range []string{"win", "loss"} {
			won := streakType == "win"
			longest, longestChange := 0, 0
			run, runChange := 0, 0

			for i := range matches {
				if matches[i].Won(player.ID) == won {
					delta, _ := matches[i].DeltaFor(player.ID)
					run++
					runChange += delta
					continue
				}
				if run > longest {
					longest = run
					longestChange = runChange
				}
				run, runChange = 0, 0
			}
			if run > longest {
				longest = run
				longestChange = runChange
			}

			if longest > 0 {
				result = append(result, LongestStreak{
					PlayerID:   player.ID,
					PlayerName: player.Name,
					Streak:     longest,
					EloChange:  longestChange,
					StreakType: streakType,
				})
			}
		}
	}
	return result, nil
}

type PlayerKD struct {
	PlayerID   uuid.UUID `json:"player_id"`
	PlayerName string    `json:"player_name"`
	Wins       int       `json:"wins"`
	Losses     int       `json:"losses"`
	KD         float64   `json:"kd"`
}

// KDRatios returns the top twenty win/loss ratios. A player with no losses
// gets a ratio of 1 whatever their win count; friendlier on a scoreboard
// than infinity.
func (s *StatsService) KDRatios(ctx context.Context) ([]PlayerKD, error) {
	players, err := s.players.List(ctx)
	if err != nil {
		return nil, err
	}

	ratios := make([]PlayerKD, 0, len(players))
	for _, player := range players {
		matches, err := s.matches.ListForPlayer(ctx, player.ID)
		if err != nil {
			return nil, err
		}

		wins, losses := 0, 0
		for i := range matches {
			if matches[i].Won(player.ID) {
				wins++
			} else {
				losses++
			}
		}

		kd := 1.0
		if losses > 0 {
			kd = math.Round(float64(wins)/float64(losses)*100) / 100
		}

		ratios = append(ratios, PlayerKD{
			PlayerID:   player.ID,
			PlayerName: player.Name,
			Wins:       wins,
			Losses:     losses,
			KD:         kd,
		})
	}

	sort.SliceStable(ratios, func(i, j int) bool {
		if ratios[i].KD != ratios[j].KD {
			return ratios[i].KD > ratios[j].KD
		}
		if ratios[i].Wins != ratios[j].Wins {
			return ratios[i].Wins > ratios[j].Wins
		}
		return ratios[i].Losses < ratios[j].Losses
	})
	if len(ratios) > 20 {
		ratios = ratios[:20]
	}
	return ratios, nil
}

type BusiestDay struct {
	PlayerID      *uuid.UUID `json:"player_id"`
	PlayerName    *string    `json:"player_name"`
	Date          *string    `json:"date"`
	MatchesPlayed int        `json:"matches_played"`
}

// BusiestDay finds the single (player, calendar day) pair with the most match
// appearances; a doubles match contributes one appearance to each of its four
// players. Ties break alphabetically by player name. The payload is
// null-valued when no matches exist.
func (s *StatsService) BusiestDay(ctx context.Context) (*BusiestDay, error) {
	players, err := s.players.List(ctx)
	if err != nil {
		return nil, err
	}
	matches, err := s.matches.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	names := make(map[uuid.UUID]string, len(players))
	for _, player := range players {
		names[player.ID] = player.Name
	}

	type playerDay struct {
		player uuid.UUID
		day    string
	}
	counts := make(map[playerDay]int)
	for i := range matches {
		day := matches[i].Timestamp.Format("2006-01-02")
		for _, id := range matches[i].ParticipantIDs() {
			if _, active := names[id]; !active {
				continue
			}
			counts[playerDay{player: id, day: day}]++
		}
	}

	best := &BusiestDay{}
	var bestName string
	for key, count := range counts {
		name := names[key.player]
		if count > best.MatchesPlayed || (count == best.MatchesPlayed && best.PlayerID != nil && name < bestName) {
			id, day := key.player, key.day
			best = &BusiestDay{
				PlayerID:      &id,
				PlayerName:    &name,
				Date:          &day,
				MatchesPlayed: count,
			}
			bestName = name
		}
	}
	return best, nil
}

type HeadToHeadSide struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Wins          int       `json:"wins"`
	Losses        int       `json:"losses"`
	WinPercentage float64   `json:"win_percentage"`
	EloGained     int       `json:"elo_gained"`
	CurrentElo    int       `json:"current_elo"`
}

type HeadToHead struct {
	Player1              HeadToHeadSide `json:"player1"`
	Player2              HeadToHeadSide `json:"player2"`
	TotalMatches         int            `json:"total_matches"`
	MostFrequentDay      *string        `json:"most_frequent_day"`
	MostFrequentDayCount int            `json:"most_frequent_day_count"`
	DayBreakdown         map[string]int `json:"day_breakdown"`
}

// HeadToHead aggregates the matches where the two players stood on opposing
// sides: per-side wins, win percentage, rating gained while winning, current
// lifetime ratings, and the weekday they meet on most.
func (s *StatsService) HeadToHead(ctx context.Context, player1ID, player2ID uuid.UUID) (*HeadToHead, error) {
	player1, err := s.players.Get(ctx, player1ID)
	if err != nil {
		return nil, err
	}
	player2, err := s.players.Get(ctx, player2ID)
	if err != nil {
		return nil, err
	}

	matches, err := s.matches.ListForPlayer(ctx, player1ID)
	if err != nil {
		return nil, err
	}

	wins1, wins2 := 0, 0
	gained1, gained2 := 0, 0
	total := 0
	dayCounts := make(map[string]int)

	for i := range matches {
		match := &matches[i]
		opposed := (match.Won(player1ID) && match.Lost(player2ID)) ||
			(match.Won(player2ID) && match.Lost(player1ID))
		if !opposed {
			continue
		}
		total++
		dayCounts[match.Timestamp.Weekday().String()]++

		if match.Won(player1ID) {
			delta, _ := match.DeltaFor(player1ID)
			wins1++
			gained1 += delta
		} else {
			delta, _ := match.DeltaFor(player2ID)
			wins2++
			gained2 += delta
		}
	}

	elo1, _, err := s.ratings.CurrentRating(ctx, player1ID, nil)
	if err != nil {
		return nil, err
	}
	elo2, _, err := s.ratings.CurrentRating(ctx, player2ID, nil)
	if err != nil {
		return nil, err
	}

	result := &HeadToHead{
		Player1: HeadToHeadSide{
			ID:            player1ID,
			Name:          player1.Name,
			Wins:          wins1,
			Losses:        wins2,
			WinPercentage: winPercentage(wins1, total),
			EloGained:     gained1,
			CurrentElo:    elo1,
		},
		Player2: HeadToHeadSide{
			ID:            player2ID,
			Name:          player2.Name,
			Wins:          wins2,
			Losses:        wins1,
			WinPercentage: winPercentage(wins2, total),
			EloGained:     gained2,
			CurrentElo:    elo2,
		},
		TotalMatches: total,
		DayBreakdown: dayCounts,
	}

	// Walk the week in order so equal counts resolve deterministically.
	for day := time.Sunday; day <= time.Saturday; day++ {
		name := day.String()
		if count := dayCounts[name]; count > result.MostFrequentDayCount {
			n := name
			result.MostFrequentDay = &n
			result.MostFrequentDayCount = count
		}
	}
	return result, nil
}

func winPercentage(wins, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(wins)/float64(total)*1000) / 10
}

type UsageStats struct {
	TotalMatches        int `json:"total_matches"`
	MoneySaved          int `json:"money_saved"`
	TimeWasted          int `json:"time_wasted"`
	PerPersonTimeWasted int `json:"per_person_time_wasted"`
}

// UsageStats reports the match total plus two fun facts: money notionally
// saved and minutes notionally lost, linear in the match count and in total
// participant appearances.
func (s *StatsService) UsageStats(ctx context.Context) (*UsageStats, error) {
	matches, err := s.matches.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	appearances := 0
	for i := range matches {
		appearances += len(matches[i].ParticipantIDs())
	}

	return &UsageStats{
		TotalMatches:        len(matches),
		MoneySaved:          len(matches) * pricePerMatch,
		TimeWasted:          len(matches) * minutesPerMatch,
		PerPersonTimeWasted: appearances * minutesPerMatch,
	}, nil
}

type MatchesPerDay struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// MatchesPerDay groups matches by calendar day, oldest day first, optionally
// restricted to one player's appearances. Dates render as dd/mm/yy.
func (s *StatsService) MatchesPerDay(ctx context.Context, playerID *uuid.UUID) ([]MatchesPerDay, error) {
	var matches []league.Match
	var err error
	if playerID != nil {
		matches, err = s.matches.ListForPlayer(ctx, *playerID)
	} else {
		matches, err = s.matches.ListAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	var days []string
	for i := range matches {
		day := matches[i].Timestamp.Format("2006-01-02")
		if _, seen := counts[day]; !seen {
			days = append(days, day)
		}
		counts[day]++
	}
	sort.Strings(days)

	result := make([]MatchesPerDay, 0, len(days))
	for _, day := range days {
		parsed, _ := time.Parse("2006-01-02", day)
		result = append(result, MatchesPerDay{
			Date:  parsed.Format("02/01/06"),
			Count: counts[day],
		})
	}
	return result, nil
}
