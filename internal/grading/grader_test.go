package grading

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wheels195/cfb-market-edge-sub006/internal/edge"
)

func TestGradeSpread(t *testing.T) {
	tests := []struct {
		name      string
		side      edge.Side
		spread    float64
		homeScore int
		awayScore int
		want      Result
	}{
		{"home favorite covers", edge.SideHome, -5.5, 100, 93, ResultWin},
		{"home favorite fails to cover", edge.SideHome, -7.5, 27, 21, ResultLoss},
		{"away side of the same number", edge.SideAway, -7.5, 27, 21, ResultWin},
		{"home dog covers outright loss", edge.SideHome, 6.5, 17, 21, ResultWin},
		{"home dog loses by too much", edge.SideHome, 6.5, 10, 24, ResultLoss},
		{"push on exact number home", edge.SideHome, -7, 27, 20, ResultPush},
		{"push on exact number away", edge.SideAway, -7, 27, 20, ResultPush},
		{"pick em home win", edge.SideHome, 0, 21, 20, ResultWin},
		{"pick em tie pushes", edge.SideAway, 0, 21, 21, ResultPush},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GradeSpread(tt.side, tt.spread, tt.homeScore, tt.awayScore)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("sides are exact complements", func(t *testing.T) {
		home, err := GradeSpread(edge.SideHome, -3.5, 28, 24)
		require.NoError(t, err)
		away, err := GradeSpread(edge.SideAway, -3.5, 28, 24)
		require.NoError(t, err)
		assert.Equal(t, ResultWin, home)
		assert.Equal(t, ResultLoss, away)
	})

	t.Run("invalid side", func(t *testing.T) {
		_, err := GradeSpread(edge.SideOver, -3.5, 28, 24)
		assert.Error(t, err)
	})
}

func TestGradeTotal(t *testing.T) {
	tests := []struct {
		name      string
		side      edge.Side
		total     float64
		homeScore int
		awayScore int
		want      Result
	}{
		{"over hits", edge.SideOver, 52.5, 31, 28, ResultWin},
		{"over misses", edge.SideOver, 52.5, 24, 21, ResultLoss},
		{"under hits", edge.SideUnder, 52.5, 24, 21, ResultWin},
		{"push on whole number", edge.SideOver, 52, 31, 21, ResultPush},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GradeTotal(tt.side, tt.total, tt.homeScore, tt.awayScore)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("invalid side", func(t *testing.T) {
		_, err := GradeTotal(edge.SideHome, 52.5, 31, 28)
		assert.Error(t, err)
	})
}

func TestProfit(t *testing.T) {
	t.Run("win at standard vig", func(t *testing.T) {
		assert.InDelta(t, 90.909, Profit(ResultWin, -110, 100), 0.001)
	})

	t.Run("win at plus money", func(t *testing.T) {
		assert.InDelta(t, 150.0, Profit(ResultWin, 150, 100), 1e-9)
	})

	t.Run("loss forfeits the stake", func(t *testing.T) {
		assert.Equal(t, -100.0, Profit(ResultLoss, -110, 100))
	})

	t.Run("push is flat", func(t *testing.T) {
		assert.Zero(t, Profit(ResultPush, -110, 100))
	})
}

func TestCLV(t *testing.T) {
	t.Run("home bet beats a shortening line", func(t *testing.T) {
		// Bet home -3.5, closed -6: the market moved toward home.
		assert.InDelta(t, 2.5, CLV(edge.SideHome, -3.5, -6.0), 1e-9)
	})

	t.Run("home bet on a lengthening line", func(t *testing.T) {
		assert.InDelta(t, -1.5, CLV(edge.SideHome, -3.5, -2.0), 1e-9)
	})

	t.Run("away bet signs are mirrored", func(t *testing.T) {
		assert.InDelta(t, -2.5, CLV(edge.SideAway, -3.5, -6.0), 1e-9)
	})

	t.Run("over bet beats a rising total", func(t *testing.T) {
		// Bet over 52.5, closed 55: got the better number.
		assert.InDelta(t, 2.5, CLV(edge.SideOver, 52.5, 55.0), 1e-9)
	})

	t.Run("under bet beats a falling total", func(t *testing.T) {
		assert.InDelta(t, 2.5, CLV(edge.SideUnder, 55.0, 52.5), 1e-9)
	})
}

func TestGradeSpreadIdempotent(t *testing.T) {
	first, err := GradeSpread(edge.SideHome, -5.5, 100, 93)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := GradeSpread(edge.SideHome, -5.5, 100, 93)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

// A bettor with no edge paying standard vig loses roughly half the
// juice. Grading both sides of randomly generated games at -110 pins
// the win rate at 50% while running every bet through the grader; the
// expected ROI is -1/22, about -4.5%.
func TestVigHoldWithNoEdge(t *testing.T) {
	const games = 2190
	const stake = 1.0

	rng := rand.New(rand.NewSource(7))

	bets := 0
	wins := 0
	profit := 0.0
	for i := 0; i < games; i++ {
		// Half-point lines cannot push.
		spread := float64(rng.Intn(41)-20) - 0.5
		margin := rng.Intn(59) - 29
		homeScore := 45 + margin
		awayScore := 45

		for _, side := range []edge.Side{edge.SideHome, edge.SideAway} {
			result, err := GradeSpread(side, spread, homeScore, awayScore)
			require.NoError(t, err)
			require.NotEqual(t, ResultPush, result)

			bets++
			if result == ResultWin {
				wins++
			}
			profit += Profit(result, -110, stake)
		}
	}

	winRate := float64(wins) / float64(bets)
	roi := profit / float64(bets)

	assert.Equal(t, 4380, bets)
	assert.GreaterOrEqual(t, winRate, 0.48)
	assert.LessOrEqual(t, winRate, 0.52)
	assert.GreaterOrEqual(t, roi, -0.065)
	assert.LessOrEqual(t, roi, -0.025)
	assert.InDelta(t, -1.0/22.0, roi, 1e-9)
}

func TestAmericanToDecimal(t *testing.T) {
	assert.InDelta(t, 1.909, americanToDecimal(-110), 0.001)
	assert.InDelta(t, 2.5, americanToDecimal(150), 1e-9)
	assert.InDelta(t, 2.0, americanToDecimal(100), 1e-9)
	assert.InDelta(t, 2.0, americanToDecimal(-100), 1e-9)
}
