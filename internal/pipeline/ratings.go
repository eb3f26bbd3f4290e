package pipeline

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wheels195/cfb-market-edge-sub006/internal/metrics"
	"github.com/wheels195/cfb-market-edge-sub006/internal/models"
	"github.com/wheels195/cfb-market-edge-sub006/internal/rating"
)

// RebuildRatings replays final games season by season and rewrites the
// rating snapshot series. Seasons must be ascending so carryover flows
// forward. The rebuild deletes each season's snapshots first, making
// the job idempotent.
func (p *Pipeline) RebuildRatings(ctx context.Context, seasons []int) (*Summary, error) {
	start := time.Now()
	summary := &Summary{}

	processor := rating.NewProcessor(p.engine, p.db.Ratings)

	for _, season := range seasons {
		if err := p.db.Ratings.DeleteSeason(ctx, season); err != nil {
			metrics.RecordJob("rebuild_ratings", "error", time.Since(start).Seconds())
			return summary, err
		}

		games, err := p.loadScoredGames(ctx, season)
		if err != nil {
			metrics.RecordJob("rebuild_ratings", "error", time.Since(start).Seconds())
			return summary, err
		}

		result, err := processor.ProcessSeason(ctx, season, games)
		if err != nil {
			metrics.RecordJob("rebuild_ratings", "error", time.Since(start).Seconds())
			return summary, err
		}

		summary.Processed += result.Processed
		summary.Skipped += result.Skipped
		for i := 0; i < result.Snapshots; i++ {
			metrics.RatingSnapshotsWritten.Inc()
		}

		log.Info().
			Int("season", season).
			Int("games", result.Processed).
			Int("snapshots", result.Snapshots).
			Msg("Season ratings rebuilt")
	}

	if p.cache != nil {
		if err := p.cache.InvalidatePrefix(ctx, "ratings:"); err != nil {
			log.Warn().Err(err).Msg("Failed to invalidate rating cache")
		}
	}

	metrics.RecordJob("rebuild_ratings", "success", time.Since(start).Seconds())
	return summary, nil
}

// loadScoredGames assembles a season's final games with their PPA
// performance, when both teams' rows exist. Missing or one-sided PPA
// leaves Perf nil and the engine degrades to margin-only.
func (p *Pipeline) loadScoredGames(ctx context.Context, season int) ([]rating.ScoredGame, error) {
	finals, err := p.db.Games.ListFinalsBySeason(ctx, season)
	if err != nil {
		return nil, err
	}

	ppaRows, err := p.db.PPA.ListBySeason(ctx, season)
	if err != nil {
		return nil, err
	}

	type gamePPA struct {
		home *models.TeamGamePPA
		away *models.TeamGamePPA
	}
	byGame := make(map[int]*gamePPA)

	gamesByFeedID := make(map[int]*models.Game, len(finals))
	for _, game := range finals {
		gamesByFeedID[game.GameID] = game
	}

	for _, row := range ppaRows {
		game, ok := gamesByFeedID[row.GameID]
		if !ok {
			continue
		}
		entry := byGame[row.GameID]
		if entry == nil {
			entry = &gamePPA{}
			byGame[row.GameID] = entry
		}
		switch row.TeamID {
		case game.HomeTeamID:
			entry.home = row
		case game.AwayTeamID:
			entry.away = row
		}
	}

	scored := make([]rating.ScoredGame, 0, len(finals))
	for _, game := range finals {
		sg := rating.ScoredGame{
			GameID:     game.GameID,
			Season:     game.Season,
			Week:       game.Week,
			Kickoff:    game.Kickoff,
			HomeTeamID: game.HomeTeamID,
			AwayTeamID: game.AwayTeamID,
			HomeScore:  int(game.HomeScore.Int32),
			AwayScore:  int(game.AwayScore.Int32),
		}

		if entry := byGame[game.GameID]; entry != nil && entry.home != nil && entry.away != nil &&
			entry.home.OffenseOverall.Valid && entry.home.DefenseOverall.Valid &&
			entry.away.OffenseOverall.Valid && entry.away.DefenseOverall.Valid {
			sg.Perf = &rating.GamePerformance{
				HomeOffensePPA: entry.home.OffenseOverall.Float64,
				HomeDefensePPA: entry.home.DefenseOverall.Float64,
				AwayOffensePPA: entry.away.OffenseOverall.Float64,
				AwayDefensePPA: entry.away.DefenseOverall.Float64,
			}
		} else {
			metrics.RecordMarginFallback()
		}

		scored = append(scored, sg)
	}

	return scored, nil
}
