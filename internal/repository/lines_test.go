//go:build integration

package repository

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wheels195/cfb-market-edge-sub006/internal/models"
)

func spreadLine(gameID int, spread float64, capturedAt time.Time) *models.MarketLine {
	return &models.MarketLine{
		GameID:     gameID,
		Bookmaker:  "draftkings",
		Market:     models.MarketSpread,
		TickType:   models.TickTypeTick,
		CapturedAt: capturedAt,
		SpreadHome: sql.NullFloat64{Float64: spread, Valid: true},
	}
}

func TestLineRepository_TickTypes(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	kickoff := time.Date(2024, time.November, 2, 19, 30, 0, 0, time.UTC)
	game := insertTestGame(t, db, ctx, 900003, 9105, 9106, kickoff)

	// First tick of the series becomes the opening line.
	require.NoError(t, db.Lines.Insert(ctx, spreadLine(game.ID, -3.5, kickoff.Add(-72*time.Hour))))

	opening, err := db.Lines.Opening(ctx, game.ID, "draftkings", models.MarketSpread)
	require.NoError(t, err)
	assert.Equal(t, models.TickTypeOpen, opening.TickType)
	assert.Equal(t, -3.5, opening.SpreadHome.Float64)

	// Later ticks stay plain ticks.
	require.NoError(t, db.Lines.Insert(ctx, spreadLine(game.ID, -4.5, kickoff.Add(-24*time.Hour))))
	require.NoError(t, db.Lines.Insert(ctx, spreadLine(game.ID, -6.0, kickoff.Add(-time.Hour))))

	latest, err := db.Lines.Latest(ctx, game.ID, "draftkings", models.MarketSpread)
	require.NoError(t, err)
	assert.Equal(t, models.TickTypeTick, latest.TickType)
	assert.Equal(t, -6.0, latest.SpreadHome.Float64)

	// Stamping marks the newest pre-kickoff tick as the close.
	require.NoError(t, db.Lines.MarkClosing(ctx, game.ID))

	closing, err := db.Lines.Closing(ctx, game.ID, "draftkings", models.MarketSpread)
	require.NoError(t, err)
	assert.Equal(t, models.TickTypeClose, closing.TickType)
	assert.Equal(t, -6.0, closing.SpreadHome.Float64)

	// The opening tick is untouched.
	opening, err = db.Lines.Opening(ctx, game.ID, "draftkings", models.MarketSpread)
	require.NoError(t, err)
	assert.Equal(t, models.TickTypeOpen, opening.TickType)
}

func TestLineRepository_InsertIdempotent(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	kickoff := time.Date(2024, time.November, 9, 20, 0, 0, 0, time.UTC)
	game := insertTestGame(t, db, ctx, 900004, 9107, 9108, kickoff)

	capturedAt := kickoff.Add(-48 * time.Hour)
	require.NoError(t, db.Lines.Insert(ctx, spreadLine(game.ID, -2.5, capturedAt)))
	require.NoError(t, db.Lines.Insert(ctx, spreadLine(game.ID, -2.5, capturedAt)))

	history, err := db.Lines.History(ctx, game.ID, "draftkings", models.MarketSpread)
	require.NoError(t, err)
	assert.Len(t, history, 1, "Re-polling the same capture should not duplicate the tick")
	assert.Equal(t, models.TickTypeOpen, history[0].TickType)
}
