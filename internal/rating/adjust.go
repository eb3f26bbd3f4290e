package rating

// Opponent-adjustment constants. Strength is measured in rating points
// over the league average and scaled down before it nudges the raw
// per-game PPA numbers.
const (
	OppStrengthScale  = 100.0
	OppStrengthWeight = 0.1
)

// AdjustedDifferential corrects a team's raw per-game PPA split for the
// strength of the opponent it was earned against. Performing well against
// a strong opponent counts for more; the defensive correction is
// symmetric. The opponent's own side of the game is produced by calling
// this with the roles swapped.
func AdjustedDifferential(offensePPA, defensePPA, opponentPriorRating, leagueAverageRating float64) float64 {
	strength := (opponentPriorRating - leagueAverageRating) / OppStrengthScale
	adjOffense := offensePPA + strength*OppStrengthWeight
	adjDefense := defensePPA - strength*OppStrengthWeight
	return adjOffense - adjDefense
}

// GamePerformance pairs both sides' raw PPA splits for one game.
type GamePerformance struct {
	HomeOffensePPA float64
	HomeDefensePPA float64
	AwayOffensePPA float64
	AwayDefensePPA float64
}

// Differential produces the PerformanceDiff consumed by
// Engine.UpdateWithPerformance, adjusting each side by the other's prior
// rating. Priors are point-in-time: callers must pass ratings as they
// stood before the game.
func (gp GamePerformance) Differential(homePrior, awayPrior, leagueAverage float64) PerformanceDiff {
	return PerformanceDiff{
		Home: AdjustedDifferential(gp.HomeOffensePPA, gp.HomeDefensePPA, awayPrior, leagueAverage),
		Away: AdjustedDifferential(gp.AwayOffensePPA, gp.AwayDefensePPA, homePrior, leagueAverage),
	}
}
