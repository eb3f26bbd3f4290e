package models

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spreadTick(spread float64, at time.Time) *MarketLine {
	return &MarketLine{
		GameID:     42,
		Bookmaker:  "draftkings",
		Market:     MarketSpread,
		TickType:   TickTypeTick,
		CapturedAt: at,
		SpreadHome: sql.NullFloat64{Float64: spread, Valid: true},
	}
}

func totalTick(total float64, at time.Time) *MarketLine {
	return &MarketLine{
		GameID:     42,
		Bookmaker:  "draftkings",
		Market:     MarketTotal,
		TickType:   TickTypeTick,
		CapturedAt: at,
		Total:      sql.NullFloat64{Float64: total, Valid: true},
	}
}

func TestDetectLineMovement(t *testing.T) {
	now := time.Now()

	t.Run("spread dropping moves toward home", func(t *testing.T) {
		movement := DetectLineMovement(spreadTick(-3.5, now), spreadTick(-5.5, now.Add(time.Hour)))
		require.NotNil(t, movement)
		assert.Equal(t, MovementTowardHome, movement.Direction)
		assert.InDelta(t, 2.0, movement.Magnitude, 1e-9)
		assert.Equal(t, now.Add(time.Hour), movement.MovedAt)
	})

	t.Run("spread rising moves toward away", func(t *testing.T) {
		movement := DetectLineMovement(spreadTick(-5.5, now), spreadTick(-3.0, now.Add(time.Hour)))
		require.NotNil(t, movement)
		assert.Equal(t, MovementTowardAway, movement.Direction)
		assert.InDelta(t, 2.5, movement.Magnitude, 1e-9)
	})

	t.Run("total movement", func(t *testing.T) {
		up := DetectLineMovement(totalTick(52.5, now), totalTick(55.0, now.Add(time.Hour)))
		require.NotNil(t, up)
		assert.Equal(t, MovementUp, up.Direction)

		down := DetectLineMovement(totalTick(55.0, now), totalTick(52.5, now.Add(time.Hour)))
		require.NotNil(t, down)
		assert.Equal(t, MovementDown, down.Direction)
	})

	t.Run("unchanged line yields nil", func(t *testing.T) {
		assert.Nil(t, DetectLineMovement(spreadTick(-3.5, now), spreadTick(-3.5, now.Add(time.Hour))))
		assert.Nil(t, DetectLineMovement(totalTick(52.5, now), totalTick(52.5, now.Add(time.Hour))))
	})
}

func TestLineMovementAgreesWith(t *testing.T) {
	toward := &LineMovement{Direction: MovementTowardHome}
	assert.True(t, toward.AgreesWith("home"))
	assert.False(t, toward.AgreesWith("away"))

	away := &LineMovement{Direction: MovementTowardAway}
	assert.True(t, away.AgreesWith("away"))
	assert.False(t, away.AgreesWith("home"))

	total := &LineMovement{Direction: MovementUp}
	assert.False(t, total.AgreesWith("home"))
}

func TestLineInputToMarketLine(t *testing.T) {
	now := time.Now()
	spread := -6.5
	priceHome := -110

	input := &LineInput{
		Bookmaker:  "fanduel",
		Market:     MarketSpread,
		CapturedAt: now,
		SpreadHome: &spread,
		PriceHome:  &priceHome,
	}

	line := input.ToMarketLine(17)

	assert.Equal(t, 17, line.GameID)
	assert.Equal(t, TickTypeTick, line.TickType)
	require.True(t, line.SpreadHome.Valid)
	assert.Equal(t, -6.5, line.SpreadHome.Float64)
	require.True(t, line.PriceHome.Valid)
	assert.Equal(t, int32(-110), line.PriceHome.Int32)
	assert.False(t, line.Total.Valid)
	assert.False(t, line.PriceOver.Valid)
}
