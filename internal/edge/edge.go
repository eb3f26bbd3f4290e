// Package edge converts ratings into projected lines and compares them
// to the market. The sign convention is fixed here and nowhere else:
// a spread is the home handicap (negative = home favored), edge is
// model minus market, and a negative spread edge recommends the home
// side. Projection and grading must both route through this package.
package edge

import "math"

// EloPerSpreadPoint converts rating points to point-spread points.
const EloPerSpreadPoint = 25.0

// Side is the recommended side of a market.
type Side string

const (
	SideNone  Side = ""
	SideHome  Side = "home"
	SideAway  Side = "away"
	SideOver  Side = "over"
	SideUnder Side = "under"
)

// Tier buckets edge magnitude for downstream filtering. Tiers are
// informational only; they never alter the edge value.
type Tier string

const (
	TierLow    Tier = "low"
	TierMedium Tier = "medium"
	TierHigh   Tier = "high"
)

// Edge-magnitude boundaries (in spread points) between tiers.
const (
	mediumTierEdge = 3.0
	highTierEdge   = 6.0
)

// ProjectSpread returns the model's home spread from two ratings and a
// home-field bonus in rating points. A stronger home team yields a more
// negative spread (home favored).
//
// ProjectSpread(1600, 1500, 55) == -6.2.
func ProjectSpread(ratingHome, ratingAway, homeField float64) float64 {
	return -((ratingHome - ratingAway) + homeField) / EloPerSpreadPoint
}

// SpreadEdge compares the model's spread to the market's. Edge is
// model minus market: negative means the model makes home a bigger
// favorite than the market does, so the home side is the value side.
func SpreadEdge(marketSpreadHome, predictedSpreadHome float64) (float64, Side) {
	points := predictedSpreadHome - marketSpreadHome
	switch {
	case points < 0:
		return points, SideHome
	case points > 0:
		return points, SideAway
	default:
		return 0, SideNone
	}
}

// ProjectTotal builds a projected total from a baseline plus signed
// adjustments (pace, weather, offense/defense blend).
func ProjectTotal(baseline float64, adjustments ...float64) float64 {
	total := baseline
	for _, adj := range adjustments {
		total += adj
	}
	return total
}

// TotalEdge compares the model's total to the market's. Positive edge
// (model above market) recommends the over.
func TotalEdge(marketTotal, predictedTotal float64) (float64, Side) {
	points := predictedTotal - marketTotal
	switch {
	case points > 0:
		return points, SideOver
	case points < 0:
		return points, SideUnder
	default:
		return 0, SideNone
	}
}

// Bettable reports whether an edge clears the minimum threshold.
func Bettable(edgePoints, minEdge float64) bool {
	return math.Abs(edgePoints) >= minEdge
}

// ConfidenceTier assigns a tier by edge magnitude. movementAgrees, when
// known, bumps the tier one step up (market moving toward the model's
// side) or down (moving against it).
func ConfidenceTier(edgePoints float64, movementAgrees *bool) Tier {
	mag := math.Abs(edgePoints)

	tier := TierLow
	switch {
	case mag >= highTierEdge:
		tier = TierHigh
	case mag >= mediumTierEdge:
		tier = TierMedium
	}

	if movementAgrees == nil {
		return tier
	}
	if *movementAgrees {
		return bumpTier(tier, 1)
	}
	return bumpTier(tier, -1)
}

func bumpTier(t Tier, step int) Tier {
	order := []Tier{TierLow, TierMedium, TierHigh}
	idx := 0
	for i, tier := range order {
		if tier == t {
			idx = i
			break
		}
	}
	idx += step
	if idx < 0 {
		idx = 0
	}
	if idx > len(order)-1 {
		idx = len(order) - 1
	}
	return order[idx]
}
