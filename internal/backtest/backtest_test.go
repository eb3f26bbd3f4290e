package backtest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wheels195/cfb-market-edge-sub006/internal/rating"
)

func seedStore(t *testing.T, snaps []rating.Snapshot) *rating.MemoryStore {
	t.Helper()
	store := rating.NewMemoryStore()
	for i := range snaps {
		require.NoError(t, store.Put(context.Background(), &snaps[i]))
	}
	return store
}

func TestRunTakesAndGradesBets(t *testing.T) {
	store := seedStore(t, []rating.Snapshot{
		{TeamID: 1, Season: 2024, Week: 4, Rating: 1600},
		{TeamID: 2, Season: 2024, Week: 4, Rating: 1500},
	})

	// Model spread -6.2, market -3.5: 2.7-point home edge. Home wins by
	// 10 and covers.
	games := []GameRecord{
		{GameID: 1, Season: 2024, Week: 5, HomeTeamID: 1, AwayTeamID: 2, HomeScore: 31, AwayScore: 21, MarketSpreadHome: -3.5},
	}

	summary := Run(context.Background(), store, games, DefaultConfig())

	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 1, summary.Bets)
	assert.Equal(t, 1, summary.Wins)
	assert.InDelta(t, 1.0, summary.Risked, 1e-9)
	assert.InDelta(t, 100.0/110.0, summary.ProfitUnits, 1e-6)
	assert.InDelta(t, 1.0, summary.WinRate(), 1e-9)
}

func TestRunSkipsThinEdges(t *testing.T) {
	store := seedStore(t, []rating.Snapshot{
		{TeamID: 1, Season: 2024, Week: 4, Rating: 1600},
		{TeamID: 2, Season: 2024, Week: 4, Rating: 1500},
	})

	// Market already at -5.5; edge is only 0.7 points.
	games := []GameRecord{
		{GameID: 1, Season: 2024, Week: 5, HomeTeamID: 1, AwayTeamID: 2, HomeScore: 31, AwayScore: 21, MarketSpreadHome: -5.5},
	}

	summary := Run(context.Background(), store, games, DefaultConfig())

	assert.Equal(t, 1, summary.Processed)
	assert.Zero(t, summary.Bets)
}

func TestRunPointInTime(t *testing.T) {
	store := seedStore(t, []rating.Snapshot{
		{TeamID: 1, Season: 2024, Week: 4, Rating: 1600},
		{TeamID: 2, Season: 2024, Week: 4, Rating: 1500},
	})

	games := []GameRecord{
		{GameID: 1, Season: 2024, Week: 5, HomeTeamID: 1, AwayTeamID: 2, HomeScore: 31, AwayScore: 21, MarketSpreadHome: -3.5},
	}
	baseline := Run(context.Background(), store, games, DefaultConfig())

	// Snapshots at the game week or later must not change the outcome.
	require.NoError(t, store.Put(context.Background(), &rating.Snapshot{TeamID: 1, Season: 2024, Week: 5, Rating: 1200}))
	require.NoError(t, store.Put(context.Background(), &rating.Snapshot{TeamID: 2, Season: 2024, Week: 6, Rating: 1900}))

	rerun := Run(context.Background(), store, games, DefaultConfig())

	assert.Equal(t, baseline.Bets, rerun.Bets)
	assert.Equal(t, baseline.Wins, rerun.Wins)
	assert.InDelta(t, baseline.ProfitUnits, rerun.ProfitUnits, 1e-9)
}

func TestRunSkipsMissingSnapshots(t *testing.T) {
	store := seedStore(t, []rating.Snapshot{
		{TeamID: 1, Season: 2024, Week: 4, Rating: 1600},
	})

	games := []GameRecord{
		{GameID: 1, Season: 2024, Week: 5, HomeTeamID: 1, AwayTeamID: 99, HomeScore: 31, AwayScore: 21, MarketSpreadHome: -3.5},
	}

	summary := Run(context.Background(), store, games, DefaultConfig())

	assert.Zero(t, summary.Processed)
	assert.Equal(t, 1, summary.Skipped)
	// Missing history is expected in early seasons, not an error.
	assert.Empty(t, summary.Errors)
}

func TestRunPushAccounting(t *testing.T) {
	store := seedStore(t, []rating.Snapshot{
		{TeamID: 1, Season: 2024, Week: 4, Rating: 1600},
		{TeamID: 2, Season: 2024, Week: 4, Rating: 1500},
	})

	// Home wins by exactly the market number.
	games := []GameRecord{
		{GameID: 1, Season: 2024, Week: 5, HomeTeamID: 1, AwayTeamID: 2, HomeScore: 24, AwayScore: 21, MarketSpreadHome: -3},
	}

	summary := Run(context.Background(), store, games, DefaultConfig())

	assert.Equal(t, 1, summary.Bets)
	assert.Equal(t, 1, summary.Pushes)
	assert.Zero(t, summary.Risked)
	assert.Zero(t, summary.ProfitUnits)
	assert.Zero(t, summary.WinRate())
	assert.Zero(t, summary.ROI())
}

func TestRunCLV(t *testing.T) {
	store := seedStore(t, []rating.Snapshot{
		{TeamID: 1, Season: 2024, Week: 4, Rating: 1600},
		{TeamID: 2, Season: 2024, Week: 4, Rating: 1500},
	})

	closing := -6.0
	games := []GameRecord{
		{GameID: 1, Season: 2024, Week: 5, HomeTeamID: 1, AwayTeamID: 2, HomeScore: 31, AwayScore: 21,
			MarketSpreadHome: -3.5, ClosingSpreadHome: &closing},
	}

	summary := Run(context.Background(), store, games, DefaultConfig())

	// Home bet at -3.5 that closed -6 beat the market by 2.5 points.
	assert.Equal(t, 1, summary.CLVSamples)
	assert.InDelta(t, 2.5, summary.AverageCLV(), 1e-9)
}

func TestRunBucketsByEdgeMagnitude(t *testing.T) {
	store := seedStore(t, []rating.Snapshot{
		{TeamID: 1, Season: 2024, Week: 4, Rating: 1600},
		{TeamID: 2, Season: 2024, Week: 4, Rating: 1500},
		{TeamID: 3, Season: 2024, Week: 4, Rating: 1700},
		{TeamID: 4, Season: 2024, Week: 4, Rating: 1450},
	})

	games := []GameRecord{
		// Edge -2.7: 2-3 bucket.
		{GameID: 1, Season: 2024, Week: 5, HomeTeamID: 1, AwayTeamID: 2, HomeScore: 31, AwayScore: 21, MarketSpreadHome: -3.5},
		// Model -12.2 vs market -4.5: edge -7.7, 6+ bucket.
		{GameID: 2, Season: 2024, Week: 5, HomeTeamID: 3, AwayTeamID: 4, HomeScore: 42, AwayScore: 14, MarketSpreadHome: -4.5},
	}

	summary := Run(context.Background(), store, games, DefaultConfig())
	require.Equal(t, 2, summary.Bets)

	var byMin = map[float64]int{}
	for _, b := range summary.Buckets {
		byMin[b.MinEdge] = b.Bets
	}
	assert.Equal(t, 1, byMin[2])
	assert.Equal(t, 1, byMin[6])
	assert.Zero(t, byMin[3])
	assert.Zero(t, byMin[4])
}
