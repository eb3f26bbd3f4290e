// Package grading settles bets against final scores. All win/push/loss
// sign logic lives in GradeSpread and GradeTotal; callers (backtests,
// the grading job) must not reimplement it.
package grading

import (
	"fmt"

	"github.com/wheels195/cfb-market-edge-sub006/internal/edge"
)

// Result is the terminal state of a graded bet.
type Result string

const (
	ResultPending Result = "pending"
	ResultWin     Result = "win"
	ResultLoss    Result = "loss"
	ResultPush    Result = "push"
)

// DefaultPrice is standard vig on spreads and totals.
const DefaultPrice = -110

// GradeSpread grades a spread bet. marketSpreadHome is the home handicap
// taken at bet time (negative = home favored). The home side covers iff
// actual margin plus the handicap is positive; away is the exact
// negation, with push shared. Grading is a pure function, so regrading
// the same inputs always returns the same result.
func GradeSpread(side edge.Side, marketSpreadHome float64, homeScore, awayScore int) (Result, error) {
	adjusted := float64(homeScore-awayScore) + marketSpreadHome
	if adjusted == 0 {
		return ResultPush, nil
	}

	homeCovers := adjusted > 0
	switch side {
	case edge.SideHome:
		if homeCovers {
			return ResultWin, nil
		}
		return ResultLoss, nil
	case edge.SideAway:
		if homeCovers {
			return ResultLoss, nil
		}
		return ResultWin, nil
	default:
		return ResultPending, fmt.Errorf("grading: invalid spread side %q", side)
	}
}

// GradeTotal grades an over/under bet against the combined final score.
func GradeTotal(side edge.Side, marketTotal float64, homeScore, awayScore int) (Result, error) {
	total := float64(homeScore + awayScore)
	if total == marketTotal {
		return ResultPush, nil
	}

	over := total > marketTotal
	switch side {
	case edge.SideOver:
		if over {
			return ResultWin, nil
		}
		return ResultLoss, nil
	case edge.SideUnder:
		if over {
			return ResultLoss, nil
		}
		return ResultWin, nil
	default:
		return ResultPending, fmt.Errorf("grading: invalid total side %q", side)
	}
}

// Profit returns the signed profit for a settled bet at American odds.
// A win at -110 returns +0.909x stake; a push returns the stake (zero
// profit) and never counts toward the win rate.
func Profit(result Result, americanPrice int, stake float64) float64 {
	switch result {
	case ResultWin:
		return stake * (americanToDecimal(americanPrice) - 1.0)
	case ResultLoss:
		return -stake
	default:
		return 0
	}
}

// CLV is the closing-line value in points, signed so positive means the
// bettor beat the market's final number. For home and under bets a
// higher line is the better number; for away and over bets a lower one.
func CLV(side edge.Side, betLine, closingLine float64) float64 {
	switch side {
	case edge.SideHome, edge.SideUnder:
		return betLine - closingLine
	case edge.SideAway, edge.SideOver:
		return closingLine - betLine
	default:
		return 0
	}
}

func americanToDecimal(american int) float64 {
	if american > 0 {
		return (float64(american) / 100.0) + 1.0
	}
	return (100.0 / float64(-american)) + 1.0
}
