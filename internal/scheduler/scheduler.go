// Package scheduler drives the pipeline jobs on their cadences: a
// nightly full refresh, a cron line poll, and a ticker that grades
// bets as games go final.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/wheels195/cfb-market-edge-sub006/internal/config"
	"github.com/wheels195/cfb-market-edge-sub006/internal/pipeline"
)

// Scheduler manages background jobs for the edge pipeline
type Scheduler struct {
	cfg      *config.Config
	pipe     *pipeline.Pipeline
	cron     *cron.Cron
	ticker   *time.Ticker
	stopChan chan struct{}
}

// NewScheduler creates a new scheduler instance
func NewScheduler(cfg *config.Config, pipe *pipeline.Pipeline) *Scheduler {
	return &Scheduler{
		cfg:      cfg,
		pipe:     pipe,
		cron:     cron.New(),
		stopChan: make(chan struct{}),
	}
}

// Start registers the cron jobs and the grading ticker
func (s *Scheduler) Start(ctx context.Context) error {
	log.Info().Msg("Scheduler starting...")

	// Nightly refresh: schedule, PPA, ratings, projections in order.
	if _, err := s.cron.AddFunc(s.cfg.NightlyRefreshCron, func() {
		log.Info().Msg("Running nightly refresh...")
		if err := s.RunNightlyRefresh(ctx); err != nil {
			log.Error().Err(err).Msg("Nightly refresh failed")
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule nightly refresh: %w", err)
	}

	// Line poll: capture ticks and recompute edges on the fresh lines.
	if _, err := s.cron.AddFunc(s.cfg.LinePollCron, func() {
		if err := s.RunLinePoll(ctx); err != nil {
			log.Error().Err(err).Msg("Line poll failed")
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule line poll: %w", err)
	}

	s.cron.Start()
	log.Info().
		Str("nightly", s.cfg.NightlyRefreshCron).
		Str("lines", s.cfg.LinePollCron).
		Msg("Cron jobs scheduled")

	// Grading ticker.
	interval := time.Duration(s.cfg.GradePollInterval) * time.Second
	s.ticker = time.NewTicker(interval)
	log.Info().
		Dur("interval", interval).
		Msg("Grading poll started")

	go s.pollGrading(ctx)

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	log.Info().Msg("Stopping scheduler...")

	if s.cron != nil {
		s.cron.Stop()
	}

	if s.ticker != nil {
		s.ticker.Stop()
	}

	close(s.stopChan)
	log.Info().Msg("Scheduler stopped")
}

// RunNightlyRefresh runs the full data refresh in dependency order.
// Ratings come after scores and PPA so the rebuild sees tonight's
// finals; projections come last so they read the new snapshots.
func (s *Scheduler) RunNightlyRefresh(ctx context.Context) error {
	if _, err := s.pipe.SyncTeams(ctx); err != nil {
		return fmt.Errorf("sync teams: %w", err)
	}

	if _, err := s.pipe.SyncSchedule(ctx, s.cfg.CurrentSeason); err != nil {
		return fmt.Errorf("sync schedule: %w", err)
	}

	if _, err := s.pipe.SyncPPA(ctx, s.cfg.CurrentSeason, nil); err != nil {
		return fmt.Errorf("sync ppa: %w", err)
	}

	if _, err := s.pipe.RebuildRatings(ctx, s.ratingSeasons()); err != nil {
		return fmt.Errorf("rebuild ratings: %w", err)
	}

	if _, err := s.pipe.RefreshProjections(ctx); err != nil {
		return fmt.Errorf("refresh projections: %w", err)
	}

	log.Info().Msg("Nightly refresh complete")
	return nil
}

// RunLinePoll captures fresh line ticks and refreshes projections so
// edges track the current market.
func (s *Scheduler) RunLinePoll(ctx context.Context) error {
	if _, err := s.pipe.SyncLines(ctx); err != nil {
		return fmt.Errorf("sync lines: %w", err)
	}

	if _, err := s.pipe.RefreshProjections(ctx); err != nil {
		return fmt.Errorf("refresh projections: %w", err)
	}

	return nil
}

// pollGrading settles bets as their games go final
func (s *Scheduler) pollGrading(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Context cancelled, stopping grading poll")
			return
		case <-s.stopChan:
			log.Info().Msg("Stop signal received, stopping grading poll")
			return
		case <-s.ticker.C:
			if err := s.runGradingPass(ctx); err != nil {
				log.Error().Err(err).Msg("Grading pass failed")
			}
		}
	}
}

// runGradingPass pulls fresh final scores from the scores endpoint,
// stamps closing lines, and grades whatever became final. The scores
// poll is much cheaper than a full schedule sync, so it can run every
// few minutes on game days.
func (s *Scheduler) runGradingPass(ctx context.Context) error {
	start := time.Now()

	if _, err := s.pipe.SyncScores(ctx); err != nil {
		return fmt.Errorf("sync scores: %w", err)
	}

	if _, err := s.pipe.StampClosingLines(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to stamp closing lines")
	}

	summary, err := s.pipe.GradeBets(ctx)
	if err != nil {
		return fmt.Errorf("grade bets: %w", err)
	}

	log.Debug().
		Int("graded", summary.Processed).
		Int("still_pending", summary.Skipped).
		Dur("duration", time.Since(start)).
		Msg("Grading pass complete")

	return nil
}

// ratingSeasons returns the seasons to rebuild, oldest first, so
// carryover regression chains across season boundaries.
func (s *Scheduler) ratingSeasons() []int {
	first := s.cfg.CurrentSeason - s.cfg.BacktestSeasons
	var seasons []int
	for yr := first; yr <= s.cfg.CurrentSeason; yr++ {
		seasons = append(seasons, yr)
	}
	return seasons
}
