package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shedworks/shed-tracker/internal/league"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(y int, m time.Month, d, hour int) time.Time {
	return time.Date(y, m, d, hour, 0, 0, 0, time.UTC)
}

func TestStreaks(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	svc := newTestServices(db)
	ctx := context.Background()

	alice := createTestPlayer(t, svc, "Alice")
	bob := createTestPlayer(t, svc, "Bob")
	carol := createTestPlayer(t, svc, "Carol")

	// Alice: loss then three wins, active streak of 3.
	insertMatch(t, svc, singlesMatch(bob.ID, alice.ID, at(2025, 1, 1, 10), 15))
	insertMatch(t, svc, singlesMatch(alice.ID, bob.ID, at(2025, 1, 2, 10), 15))
	insertMatch(t, svc, singlesMatch(alice.ID, bob.ID, at(2025, 1, 3, 10), 14))
	insertMatch(t, svc, singlesMatch(alice.ID, carol.ID, at(2025, 1, 4, 10), 13))
	// Carol: a single win most recently, which never charts.
	insertMatch(t, svc, singlesMatch(carol.ID, bob.ID, at(2025, 1, 5, 10), 15))

	streaks, err := svc.statsService.Streaks(ctx)
	require.NoError(t, err)
	require.Len(t, streaks, 1)
	assert.Equal(t, "Alice", streaks[0].PlayerName)
	assert.Equal(t, 3, streaks[0].CurrentStreak)
	assert.Equal(t, 15+14+13, streaks[0].EloChange)
	assert.Equal(t, 1000-15+15+14+13, streaks[0].Elo)
}

func TestStreaks_OrderingAndTopFive(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	svc := newTestServices(db)
	ctx := context.Background()

	victim := createTestPlayer(t, svc, "Victim")
	names := []string{"P1", "P2", "P3", "P4", "P5", "P6"}
	ts := at(2025, 1, 1, 0)
	for i, name := range names {
		player := createTestPlayer(t, svc, name)
		// P1 gets the longest streak, P6 the shortest (still above one).
		wins := len(names) - i + 1
		for w := 0; w < wins; w++ {
			insertMatch(t, svc, singlesMatch(player.ID, victim.ID, ts, 10))
			ts = ts.Add(time.Hour)
		}
	}

	streaks, err := svc.statsService.Streaks(ctx)
	require.NoError(t, err)
	require.Len(t, streaks, 5)
	assert.Equal(t, "P1", streaks[0].PlayerName)
	assert.Equal(t, 7, streaks[0].CurrentStreak)
	assert.Equal(t, "P5", streaks[4].PlayerName)
	assert.Equal(t, 3, streaks[4].CurrentStreak)
}

func TestLongestStreaks_FirstMaximalRunWins(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	svc := newTestServices(db)
	ctx := context.Background()

	alice := createTestPlayer(t, svc, "Alice")
	bob := createTestPlayer(t, svc, "Bob")

	// Alice: two wins (+15, +14), one loss, two wins (+12, +11). Both win runs
	// have length two; the earlier run keeps the title and its elo change.
	insertMatch(t, svc, singlesMatch(alice.ID, bob.ID, at(2025, 1, 1, 10), 15))
	insertMatch(t, svc, singlesMatch(alice.ID, bob.ID, at(2025, 1, 2, 10), 14))
	insertMatch(t, svc, singlesMatch(bob.ID, alice.ID, at(2025, 1, 3, 10), 16))
	insertMatch(t, svc, singlesMatch(alice.ID, bob.ID, at(2025, 1, 4, 10), 12))
	insertMatch(t, svc, singlesMatch(alice.ID, bob.ID, at(2025, 1, 5, 10), 11))

	streaks, err := svc.statsService.LongestStreaks(ctx)
	require.NoError(t, err)

	byKey := make(map[string]LongestStreak)
	for _, s := range streaks {
		byKey[s.PlayerName+"/"+s.StreakType] = s
	}

	aliceWin := byKey["Alice/win"]
	assert.Equal(t, 2, aliceWin.Streak)
	assert.Equal(t, 15+14, aliceWin.EloChange)

	aliceLoss := byKey["Alice/loss"]
	assert.Equal(t, 1, aliceLoss.Streak)
	assert.Equal(t, -16, aliceLoss.EloChange)

	// Bob's loss run closes the history, so the trailing run still counts.
	bobLoss := byKey["Bob/loss"]
	assert.Equal(t, 2, bobLoss.Streak)
	assert.Equal(t, -12-11, bobLoss.EloChange)

	bobWin := byKey["Bob/win"]
	assert.Equal(t, 1, bobWin.Streak)
}

func TestKDRatios(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	svc := newTestServices(db)
	ctx := context.Background()

	alice := createTestPlayer(t, svc, "Alice")
	bob := createTestPlayer(t, svc, "Bob")
	carol := createTestPlayer(t, svc, "Carol")

	// Alice 2-0, Bob 1-2, Carol 1-2 against the others.
	insertMatch(t, svc, singlesMatch(alice.ID, bob.ID, at(2025, 1, 1, 10), 15))
	insertMatch(t, svc, singlesMatch(alice.ID, carol.ID, at(2025, 1, 3, 10), 13))
	insertMatch(t, svc, singlesMatch(bob.ID, carol.ID, at(2025, 1, 4, 10), 15))
	insertMatch(t, svc, singlesMatch(carol.ID, bob.ID, at(2025, 1, 5, 10), 15))

	ratios, err := svc.statsService.KDRatios(ctx)
	require.NoError(t, err)
	require.Len(t, ratios, 3)

	// Undefeated caps at 1, so Alice outranks the others on wins, not ratio.
	assert.Equal(t, "Alice", ratios[0].PlayerName)
	assert.Equal(t, 2, ratios[0].Wins)
	assert.Equal(t, 0, ratios[0].Losses)
	assert.Equal(t, 1.0, ratios[0].KD)

	assert.Equal(t, 0.5, ratios[1].KD)
	assert.Equal(t, 0.5, ratios[2].KD)
}

func TestKDRatios_Rounding(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	svc := newTestServices(db)
	ctx := context.Background()

	alice := createTestPlayer(t, svc, "Alice")
	bob := createTestPlayer(t, svc, "Bob")

	// Alice 2-3: ratio 0.666... rounds to 0.67.
	insertMatch(t, svc, singlesMatch(alice.ID, bob.ID, at(2025, 1, 1, 10), 15))
	insertMatch(t, svc, singlesMatch(alice.ID, bob.ID, at(2025, 1, 2, 10), 14))
	insertMatch(t, svc, singlesMatch(bob.ID, alice.ID, at(2025, 1, 3, 10), 16))
	insertMatch(t, svc, singlesMatch(bob.ID, alice.ID, at(2025, 1, 4, 10), 15))
	insertMatch(t, svc, singlesMatch(bob.ID, alice.ID, at(2025, 1, 5, 10), 14))

	ratios, err := svc.statsService.KDRatios(ctx)
	require.NoError(t, err)
	require.Len(t, ratios, 2)
	assert.Equal(t, "Bob", ratios[0].PlayerName)
	assert.Equal(t, 1.5, ratios[0].KD)
	assert.Equal(t, "Alice", ratios[1].PlayerName)
	assert.Equal(t, 0.67, ratios[1].KD)
}

func TestBusiestDay(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	svc := newTestServices(db)
	ctx := context.Background()

	alice := createTestPlayer(t, svc, "Alice")
	bob := createTestPlayer(t, svc, "Bob")
	carol := createTestPlayer(t, svc, "Carol")

	// Alice and Bob both appear twice on Jan 1, but Alice wins the
	// alphabetical tie-break. Carol plays 3 times spread over two days.
	insertMatch(t, svc, singlesMatch(alice.ID, bob.ID, at(2025, 1, 1, 10), 15))
	insertMatch(t, svc, singlesMatch(bob.ID, alice.ID, at(2025, 1, 1, 11), 15))
	insertMatch(t, svc, singlesMatch(carol.ID, bob.ID, at(2025, 1, 2, 10), 15))
	insertMatch(t, svc, singlesMatch(carol.ID, alice.ID, at(2025, 1, 2, 11), 15))
	insertMatch(t, svc, singlesMatch(carol.ID, bob.ID, at(2025, 1, 3, 10), 15))

	busiest, err := svc.statsService.BusiestDay(ctx)
	require.NoError(t, err)
	require.NotNil(t, busiest.PlayerID)
	assert.Equal(t, "Alice", *busiest.PlayerName)
	assert.Equal(t, "2025-01-01", *busiest.Date)
	assert.Equal(t, 2, busiest.MatchesPlayed)
}

func TestBusiestDay_Empty(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	svc := newTestServices(db)

	busiest, err := svc.statsService.BusiestDay(context.Background())
	require.NoError(t, err)
	assert.Nil(t, busiest.PlayerID)
	assert.Nil(t, busiest.PlayerName)
	assert.Nil(t, busiest.Date)
	assert.Equal(t, 0, busiest.MatchesPlayed)
}

func TestHeadToHead(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	svc := newTestServices(db)
	ctx := context.Background()

	alice := createTestPlayer(t, svc, "Alice")
	bob := createTestPlayer(t, svc, "Bob")
	carol := createTestPlayer(t, svc, "Carol")

	// 2025-01-06 is a Monday, 2025-01-07 a Tuesday.
	insertMatch(t, svc, singlesMatch(alice.ID, bob.ID, at(2025, 1, 6, 10), 15))
	insertMatch(t, svc, singlesMatch(alice.ID, bob.ID, at(2025, 1, 6, 11), 14))
	insertMatch(t, svc, singlesMatch(bob.ID, alice.ID, at(2025, 1, 7, 10), 16))
	// Matches against a third party never count.
	insertMatch(t, svc, singlesMatch(alice.ID, carol.ID, at(2025, 1, 7, 11), 13))

	h2h, err := svc.statsService.HeadToHead(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	assert.Equal(t, 3, h2h.TotalMatches)
	assert.Equal(t, 2, h2h.Player1.Wins)
	assert.Equal(t, 1, h2h.Player1.Losses)
	assert.Equal(t, 66.7, h2h.Player1.WinPercentage)
	assert.Equal(t, 15+14, h2h.Player1.EloGained)
	assert.Equal(t, 1000+15+14-16+13, h2h.Player1.CurrentElo)

	assert.Equal(t, 1, h2h.Player2.Wins)
	assert.Equal(t, 2, h2h.Player2.Losses)
	assert.Equal(t, 33.3, h2h.Player2.WinPercentage)
	assert.Equal(t, 16, h2h.Player2.EloGained)
	assert.Equal(t, 1000-15-14+16, h2h.Player2.CurrentElo)

	require.NotNil(t, h2h.MostFrequentDay)
	assert.Equal(t, "Monday", *h2h.MostFrequentDay)
	assert.Equal(t, 2, h2h.MostFrequentDayCount)
	assert.Equal(t, map[string]int{"Monday": 2, "Tuesday": 1}, h2h.DayBreakdown)
}

func TestHeadToHead_DayTieBreak(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	svc := newTestServices(db)
	ctx := context.Background()

	alice := createTestPlayer(t, svc, "Alice")
	bob := createTestPlayer(t, svc, "Bob")

	// One match on a Tuesday, then one on a Monday. Equal counts resolve in
	// Sunday-first week order, not by which day was played first.
	insertMatch(t, svc, singlesMatch(alice.ID, bob.ID, at(2025, 1, 7, 10), 15))
	insertMatch(t, svc, singlesMatch(bob.ID, alice.ID, at(2025, 1, 13, 10), 16))

	h2h, err := svc.statsService.HeadToHead(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.NotNil(t, h2h.MostFrequentDay)
	assert.Equal(t, "Monday", *h2h.MostFrequentDay)
	assert.Equal(t, 1, h2h.MostFrequentDayCount)
}

func TestHeadToHead_UnknownPlayer(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	svc := newTestServices(db)

	alice := createTestPlayer(t, svc, "Alice")

	_, err := svc.statsService.HeadToHead(context.Background(), alice.ID, uuid.New())
	assert.ErrorIs(t, err, league.ErrPlayerNotFound)
}

func TestUsageStats(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	svc := newTestServices(db)
	ctx := context.Background()

	alice := createTestPlayer(t, svc, "Alice")
	bob := createTestPlayer(t, svc, "Bob")
	carol := createTestPlayer(t, svc, "Carol")
	dave := createTestPlayer(t, svc, "Dave")

	insertMatch(t, svc, singlesMatch(alice.ID, bob.ID, at(2025, 1, 1, 10), 15))

	doubles := singlesMatch(alice.ID, carol.ID, at(2025, 1, 2, 10), 15)
	doubles.IsDoubles = true
	start, change := 1000, 15
	negChange := -15
	doubles.Winner2ID = &bob.ID
	doubles.Winner2StartingElo = &start
	doubles.Winner2EloChange = &change
	doubles.Loser2ID = &dave.ID
	doubles.Loser2StartingElo = &start
	doubles.Loser2EloChange = &negChange
	insertMatch(t, svc, doubles)

	usage, err := svc.statsService.UsageStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, usage.TotalMatches)
	assert.Equal(t, 6, usage.MoneySaved)
	assert.Equal(t, 30, usage.TimeWasted)
	// Two appearances in the singles match plus four in the doubles.
	assert.Equal(t, 90, usage.PerPersonTimeWasted)
}

func TestMatchesPerDay(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	svc := newTestServices(db)
	ctx := context.Background()

	alice := createTestPlayer(t, svc, "Alice")
	bob := createTestPlayer(t, svc, "Bob")
	carol := createTestPlayer(t, svc, "Carol")

	insertMatch(t, svc, singlesMatch(alice.ID, bob.ID, at(2025, 1, 2, 10), 15))
	insertMatch(t, svc, singlesMatch(alice.ID, bob.ID, at(2025, 1, 2, 11), 14))
	insertMatch(t, svc, singlesMatch(bob.ID, carol.ID, at(2025, 1, 1, 10), 15))

	all, err := svc.statsService.MatchesPerDay(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, MatchesPerDay{Date: "01/01/25", Count: 1}, all[0])
	assert.Equal(t, MatchesPerDay{Date: "02/01/25", Count: 2}, all[1])

	mine, err := svc.statsService.MatchesPerDay(ctx, &alice.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, MatchesPerDay{Date: "02/01/25", Count: 2}, mine[0])
}
