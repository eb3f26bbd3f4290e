// Package backtest replays historical games against the model using
// only point-in-time rating snapshots and aggregates the results.
package backtest

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog/log"

	"github.com/wheels195/cfb-market-edge-sub006/internal/edge"
	"github.com/wheels195/cfb-market-edge-sub006/internal/grading"
	"github.com/wheels195/cfb-market-edge-sub006/internal/rating"
)

// Config controls a backtest run.
type Config struct {
	MinEdgePoints float64
	HomeField     float64
	Price         int
	Stake         float64
}

// DefaultConfig returns the standard run parameters: 2-point minimum
// edge, default home field, -110 pricing, one unit per bet.
func DefaultConfig() Config {
	return Config{
		MinEdgePoints: 2.0,
		HomeField:     rating.DefaultHomeField,
		Price:         grading.DefaultPrice,
		Stake:         1.0,
	}
}

// GameRecord is one settled game with its market line.
type GameRecord struct {
	GameID           int
	Season           int
	Week             int
	HomeTeamID       int
	AwayTeamID       int
	HomeScore        int
	AwayScore        int
	MarketSpreadHome float64
	// ClosingSpreadHome, when known, feeds the CLV diagnostic.
	ClosingSpreadHome *float64
}

// BucketStat is the edge-bucketed win-rate diagnostic. The model's own
// historical finding is that the largest bucket underperforms; the
// bucket report exists so that keeps being visible, not fixed.
type BucketStat struct {
	MinEdge float64
	MaxEdge float64
	Bets    int
	Wins    int
	Losses  int
	Pushes  int
}

// WinRate returns the bucket's win rate over decided bets.
func (b BucketStat) WinRate() float64 {
	decided := b.Wins + b.Losses
	if decided == 0 {
		return 0
	}
	return float64(b.Wins) / float64(decided)
}

// Summary aggregates one backtest run.
type Summary struct {
	Processed int
	Skipped   int

	Bets   int
	Wins   int
	Losses int
	Pushes int

	ProfitUnits float64
	Risked      float64

	CLVSamples int
	CLVTotal   float64

	Buckets []BucketStat
	Errors  []string
}

// WinRate returns the run's win rate over decided bets; pushes are
// excluded from the denominator.
func (s *Summary) WinRate() float64 {
	decided := s.Wins + s.Losses
	if decided == 0 {
		return 0
	}
	return float64(s.Wins) / float64(decided)
}

// ROI returns profit over total amount risked on decided bets.
func (s *Summary) ROI() float64 {
	if s.Risked == 0 {
		return 0
	}
	return s.ProfitUnits / s.Risked
}

// AverageCLV returns the mean closing-line value across bets that had a
// known closing line.
func (s *Summary) AverageCLV() float64 {
	if s.CLVSamples == 0 {
		return 0
	}
	return s.CLVTotal / float64(s.CLVSamples)
}

var defaultBucketBounds = []float64{2, 3, 4, 6, math.Inf(1)}

// Run replays games against the store. For a game in week N only the
// newest snapshot strictly before week N is read, so later data cannot
// leak into the projection. A single missing snapshot or line skips that
// game and the batch continues.
func Run(ctx context.Context, store rating.Store, games []GameRecord, cfg Config) *Summary {
	summary := &Summary{Buckets: newBuckets()}

	for _, game := range games {
		home, err := rating.SnapshotBefore(ctx, store, game.HomeTeamID, game.Season, game.Week)
		if err != nil {
			summary.skip(game, "home snapshot", err)
			continue
		}
		away, err := rating.SnapshotBefore(ctx, store, game.AwayTeamID, game.Season, game.Week)
		if err != nil {
			summary.skip(game, "away snapshot", err)
			continue
		}

		summary.Processed++

		predicted := edge.ProjectSpread(home.Rating, away.Rating, cfg.HomeField)
		points, side := edge.SpreadEdge(game.MarketSpreadHome, predicted)
		if !edge.Bettable(points, cfg.MinEdgePoints) {
			continue
		}

		result, err := grading.GradeSpread(side, game.MarketSpreadHome, game.HomeScore, game.AwayScore)
		if err != nil {
			summary.skip(game, "grade", err)
			continue
		}

		summary.record(points, side, result, game, cfg)
	}

	return summary
}

func (s *Summary) record(edgePoints float64, side edge.Side, result grading.Result, game GameRecord, cfg Config) {
	s.Bets++

	switch result {
	case grading.ResultWin:
		s.Wins++
	case grading.ResultLoss:
		s.Losses++
	case grading.ResultPush:
		s.Pushes++
	}

	if result != grading.ResultPush {
		s.Risked += cfg.Stake
	}
	s.ProfitUnits += grading.Profit(result, cfg.Price, cfg.Stake)

	if game.ClosingSpreadHome != nil {
		s.CLVSamples++
		s.CLVTotal += grading.CLV(side, game.MarketSpreadHome, *game.ClosingSpreadHome)
	}

	mag := math.Abs(edgePoints)
	for i := range s.Buckets {
		b := &s.Buckets[i]
		if mag >= b.MinEdge && mag < b.MaxEdge {
			b.Bets++
			switch result {
			case grading.ResultWin:
				b.Wins++
			case grading.ResultLoss:
				b.Losses++
			case grading.ResultPush:
				b.Pushes++
			}
			break
		}
	}
}

func (s *Summary) skip(game GameRecord, stage string, err error) {
	s.Skipped++
	if !errors.Is(err, rating.ErrNoSnapshot) {
		s.Errors = append(s.Errors, fmt.Sprintf("game %d: %s: %v", game.GameID, stage, err))
	}
	log.Debug().
		Int("game_id", game.GameID).
		Str("stage", stage).
		Err(err).
		Msg("Skipping game in backtest")
}

func newBuckets() []BucketStat {
	buckets := make([]BucketStat, 0, len(defaultBucketBounds)-1)
	for i := 0; i < len(defaultBucketBounds)-1; i++ {
		buckets = append(buckets, BucketStat{
			MinEdge: defaultBucketBounds[i],
			MaxEdge: defaultBucketBounds[i+1],
		})
	}
	return buckets
}
