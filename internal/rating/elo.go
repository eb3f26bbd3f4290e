package rating

import (
	"math"
)

// Default engine parameters. Home field is expressed in rating points;
// at the default spread scale of 25 rating points per spread point it is
// worth roughly 2.2 points on the board.
const (
	BaselineRating      = 1500.0
	DefaultKFactor      = 20.0
	DefaultHomeField    = 55.0
	MaxMarginMultiplier = 3.0

	// Season-to-season carryover: the remainder regresses to the baseline.
	CarryoverWeight = 0.67

	// Weight split when a performance (PPA) signal is available, and the
	// reduced weight applied to the margin delta when it is not.
	ppaDeltaWeight      = 0.75
	marginDeltaWeight   = 0.25
	fallbackDeltaWeight = 0.60

	// Rating points per unit of net opponent-adjusted PPA.
	ppaDeltaScale = 12.0
)

// PerformanceDiff carries each side's opponent-adjusted PPA differential
// for a single game (see AdjustedDifferential).
type PerformanceDiff struct {
	Home float64
	Away float64
}

// Engine computes Elo rating updates. The zero value is not usable; use
// NewEngine or NewEngineWith.
type Engine struct {
	k         float64
	homeField float64
	maxMult   float64
}

// NewEngine returns an engine with the default parameters.
func NewEngine() *Engine {
	return NewEngineWith(DefaultKFactor, DefaultHomeField, MaxMarginMultiplier)
}

// NewEngineWith returns an engine with explicit parameters.
func NewEngineWith(k, homeField, maxMult float64) *Engine {
	return &Engine{k: k, homeField: homeField, maxMult: maxMult}
}

// HomeField returns the engine's home-field bonus in rating points.
func (e *Engine) HomeField() float64 {
	return e.homeField
}

// ExpectHome returns the home team's expected score (win probability)
// with the home-field bonus applied to the home rating.
func (e *Engine) ExpectHome(ratingHome, ratingAway float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, (ratingAway-ratingHome-e.homeField)/400.0))
}

// Update applies a single game result and returns the new ratings.
// A single delta is computed and applied with opposite signs, so the
// update is exactly zero-sum.
func (e *Engine) Update(ratingHome, ratingAway float64, homeScore, awayScore int) (float64, float64) {
	delta := e.marginDelta(ratingHome, ratingAway, homeScore, awayScore)
	return ratingHome + delta, ratingAway - delta
}

// UpdateWithPerformance blends an opponent-adjusted PPA delta with the
// margin delta (75/25), each capped independently. When perf is nil the
// update degrades to the margin delta at reduced weight; missing
// efficiency data never blocks an update.
func (e *Engine) UpdateWithPerformance(ratingHome, ratingAway float64, homeScore, awayScore int, perf *PerformanceDiff) (float64, float64) {
	cap := e.k * e.maxMult
	marginDelta := clamp(e.marginDelta(ratingHome, ratingAway, homeScore, awayScore), cap)

	if perf == nil {
		delta := fallbackDeltaWeight * marginDelta
		return ratingHome + delta, ratingAway - delta
	}

	ppaDelta := clamp((perf.Home-perf.Away)*ppaDeltaScale, cap)
	delta := ppaDeltaWeight*ppaDelta + marginDeltaWeight*marginDelta
	return ratingHome + delta, ratingAway - delta
}

// marginDelta is the classic Elo delta from the home team's perspective:
// K x marginMultiplier x (actual - expected).
func (e *Engine) marginDelta(ratingHome, ratingAway float64, homeScore, awayScore int) float64 {
	expected := e.ExpectHome(ratingHome, ratingAway)

	var actual float64
	switch {
	case homeScore > awayScore:
		actual = 1.0
	case homeScore < awayScore:
		actual = 0.0
	default:
		actual = 0.5
	}

	margin := homeScore - awayScore
	if margin < 0 {
		margin = -margin
	}

	// Rating gap from the winner's side: an expected blowout by the
	// favorite moves ratings less than the same margin in an upset.
	var winnerGap float64
	if homeScore >= awayScore {
		winnerGap = (ratingHome + e.homeField) - ratingAway
	} else {
		winnerGap = ratingAway - (ratingHome + e.homeField)
	}

	return e.k * marginMultiplier(margin, winnerGap, e.maxMult) * (actual - expected)
}

// marginMultiplier dampens the log-margin scaling when the result was
// already expected, capped to bound blowout swings.
func marginMultiplier(margin int, winnerGap, maxMult float64) float64 {
	if margin == 0 {
		return 1.0
	}
	mult := math.Log(float64(margin)+1.0) * (2.2 / (winnerGap*0.001 + 2.2))
	if mult > maxMult {
		mult = maxMult
	}
	return mult
}

// RegressForNewSeason carries a rating across a season boundary,
// regressing toward the baseline to reflect roster turnover.
func RegressForNewSeason(old float64) float64 {
	return CarryoverWeight*old + (1.0-CarryoverWeight)*BaselineRating
}

func clamp(v, bound float64) float64 {
	if v > bound {
		return bound
	}
	if v < -bound {
		return -bound
	}
	return v
}
