// Package rating implements the ELO update rule used for Shed matches.
package rating

import "math"

// K is the maximum number of rating points exchanged per match.
const K = 30

func expectedScore(rating, opponent float64) float64 {
	return 1.0 / (1 + math.Pow(10, (opponent-rating)/400.0))
}

// Rate returns the new integer ratings for the winner and loser of a contest.
// Each side is rounded independently (math.Round, half away from zero).
func Rate(winnerRating, loserRating float64) (int, int) {
	newWinner := winnerRating + K*(1-expectedScore(winnerRating, loserRating))
	newLoser := loserRating + K*(0-expectedScore(loserRating, winnerRating))
	return int(math.Round(newWinner)), int(math.Round(newLoser))
}

// TeamDeltas rates a doubles match on the two team means and returns the
// per-member integer delta for the winning and losing teams. The team delta
// applies in full to both members; because individual ratings are integers,
// rounding the delta once is equivalent to rounding each member's new rating.
func TeamDeltas(winner1, winner2, loser1, loser2 int) (winnerDelta, loserDelta int) {
	winnerMean := float64(winner1+winner2) / 2
	loserMean := float64(loser1+loser2) / 2
	newWinnerMean, newLoserMean := Rate(winnerMean, loserMean)
	winnerDelta = int(math.Round(float64(newWinnerMean) - winnerMean))
	loserDelta = int(math.Round(float64(newLoserMean) - loserMean))
	return winnerDelta, loserDelta
}
