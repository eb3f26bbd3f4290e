package rating

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpectHome(t *testing.T) {
	engine := NewEngineWith(DefaultKFactor, 0, MaxMarginMultiplier)

	t.Run("equal ratings no home field", func(t *testing.T) {
		assert.InDelta(t, 0.5, engine.ExpectHome(1500, 1500), 1e-9)
	})

	t.Run("home field shifts expectation up", func(t *testing.T) {
		withHFA := NewEngine()
		assert.Greater(t, withHFA.ExpectHome(1500, 1500), 0.5)
	})

	t.Run("expectations sum to one", func(t *testing.T) {
		home := engine.ExpectHome(1620, 1480)
		away := engine.ExpectHome(1480, 1620)
		assert.InDelta(t, 1.0, home+away, 1e-9)
	})
}

func TestUpdateZeroSum(t *testing.T) {
	engine := NewEngine()

	newHome, newAway := engine.Update(1550, 1500, 31, 17)

	assert.Greater(t, newHome, 1550.0)
	assert.Less(t, newAway, 1500.0)
	assert.InDelta(t, 1550.0+1500.0, newHome+newAway, 1e-9)
}

func TestUpdateUpsetMovesMore(t *testing.T) {
	engine := NewEngine()

	// Favorite winning by 10 versus underdog winning by 10.
	favHome, _ := engine.Update(1650, 1500, 27, 17)
	dogHome, _ := engine.Update(1500, 1650, 27, 17)

	favGain := favHome - 1650
	dogGain := dogHome - 1500

	assert.Greater(t, dogGain, favGain)
}

func TestMarginMultiplier(t *testing.T) {
	t.Run("monotonic in margin", func(t *testing.T) {
		prev := 0.0
		for _, margin := range []int{1, 3, 7, 14, 21} {
			mult := marginMultiplier(margin, 0, MaxMarginMultiplier)
			assert.Greater(t, mult, prev, "margin %d", margin)
			prev = mult
		}
	})

	t.Run("capped", func(t *testing.T) {
		mult := marginMultiplier(70, -400, MaxMarginMultiplier)
		assert.Equal(t, MaxMarginMultiplier, mult)
	})

	t.Run("tie uses unit multiplier", func(t *testing.T) {
		assert.Equal(t, 1.0, marginMultiplier(0, 100, MaxMarginMultiplier))
	})

	t.Run("expected blowout dampened", func(t *testing.T) {
		expected := marginMultiplier(21, 300, MaxMarginMultiplier)
		upset := marginMultiplier(21, -300, MaxMarginMultiplier)
		assert.Less(t, expected, upset)
	})
}

func TestUpdateWithPerformance(t *testing.T) {
	engine := NewEngine()

	t.Run("nil perf uses reduced margin delta", func(t *testing.T) {
		fullHome, _ := engine.Update(1500, 1500, 28, 14)
		fullDelta := fullHome - 1500

		fbHome, fbAway := engine.UpdateWithPerformance(1500, 1500, 28, 14, nil)
		fbDelta := fbHome - 1500

		assert.InDelta(t, fallbackDeltaWeight*fullDelta, fbDelta, 1e-9)
		assert.InDelta(t, 3000.0, fbHome+fbAway, 1e-9)
	})

	t.Run("strong ppa outweighs narrow loss margin", func(t *testing.T) {
		// Home loses by 3 but dominates on efficiency.
		perf := &PerformanceDiff{Home: 0.4, Away: -0.2}
		newHome, newAway := engine.UpdateWithPerformance(1500, 1500, 20, 23, perf)

		assert.Greater(t, newHome, 1500.0)
		assert.InDelta(t, 3000.0, newHome+newAway, 1e-9)
	})

	t.Run("ppa delta clamped to k times max multiplier", func(t *testing.T) {
		perf := &PerformanceDiff{Home: 50, Away: -50}
		newHome, _ := engine.UpdateWithPerformance(1500, 1500, 49, 0, perf)

		bound := DefaultKFactor * MaxMarginMultiplier
		require.LessOrEqual(t, newHome-1500, bound)
	})
}

func TestRegressForNewSeason(t *testing.T) {
	assert.InDelta(t, 1567.0, RegressForNewSeason(1600), 1e-9)
	assert.InDelta(t, BaselineRating, RegressForNewSeason(BaselineRating), 1e-9)
	assert.Greater(t, RegressForNewSeason(1400), 1400.0)
}
