package edge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProjectSpread(t *testing.T) {
	t.Run("standard case", func(t *testing.T) {
		assert.InDelta(t, -6.2, ProjectSpread(1600, 1500, 55), 1e-9)
	})

	t.Run("neutral site drops home field", func(t *testing.T) {
		assert.InDelta(t, -4.0, ProjectSpread(1600, 1500, 0), 1e-9)
	})

	t.Run("stronger away team yields positive spread", func(t *testing.T) {
		spread := ProjectSpread(1500, 1650, 55)
		assert.Greater(t, spread, 0.0)
	})
}

func TestSpreadEdge(t *testing.T) {
	t.Run("model likes home more than market", func(t *testing.T) {
		points, side := SpreadEdge(-3.5, -6.2)
		assert.InDelta(t, -2.7, points, 1e-9)
		assert.Equal(t, SideHome, side)
	})

	t.Run("model likes away more than market", func(t *testing.T) {
		points, side := SpreadEdge(-7.0, -3.0)
		assert.InDelta(t, 4.0, points, 1e-9)
		assert.Equal(t, SideAway, side)
	})

	t.Run("exact agreement", func(t *testing.T) {
		points, side := SpreadEdge(-3.0, -3.0)
		assert.Zero(t, points)
		assert.Equal(t, SideNone, side)
	})
}

func TestTotalEdge(t *testing.T) {
	points, side := TotalEdge(52.5, 58.0)
	assert.InDelta(t, 5.5, points, 1e-9)
	assert.Equal(t, SideOver, side)

	points, side = TotalEdge(52.5, 48.0)
	assert.InDelta(t, -4.5, points, 1e-9)
	assert.Equal(t, SideUnder, side)
}

func TestProjectTotal(t *testing.T) {
	assert.InDelta(t, 55.5, ProjectTotal(52.0, 2.5, 1.0), 1e-9)
	assert.InDelta(t, 49.0, ProjectTotal(52.0, -3.0), 1e-9)
}

func TestBettable(t *testing.T) {
	assert.True(t, Bettable(-2.7, 2.0))
	assert.True(t, Bettable(2.0, 2.0))
	assert.False(t, Bettable(1.9, 2.0))
	assert.False(t, Bettable(-1.5, 2.0))
}

func TestConfidenceTier(t *testing.T) {
	agree := true
	disagree := false

	tests := []struct {
		name     string
		edge     float64
		movement *bool
		want     Tier
	}{
		{"small edge", 2.0, nil, TierLow},
		{"medium boundary", 3.0, nil, TierMedium},
		{"high boundary", 6.0, nil, TierHigh},
		{"negative edge uses magnitude", -4.5, nil, TierMedium},
		{"agreement bumps up", 2.0, &agree, TierMedium},
		{"agreement at top stays high", 7.0, &agree, TierHigh},
		{"disagreement bumps down", 6.5, &disagree, TierMedium},
		{"disagreement at bottom stays low", 2.0, &disagree, TierLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConfidenceTier(tt.edge, tt.movement))
		})
	}
}
