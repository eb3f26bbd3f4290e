package pipeline

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wheels195/cfb-market-edge-sub006/internal/identity"
	"github.com/wheels195/cfb-market-edge-sub006/internal/metrics"
)

// SyncTeams refreshes the teams table from the schedule feed and
// reseeds the identity resolver's canonical names.
func (p *Pipeline) SyncTeams(ctx context.Context) (*Summary, error) {
	start := time.Now()
	summary := &Summary{}

	teams, err := p.cfbd.FetchTeams(ctx)
	if err != nil {
		metrics.RecordJob("sync_teams", "error", time.Since(start).Seconds())
		return summary, err
	}

	for _, input := range teams {
		team := input.ToTeam()
		if err := p.db.Teams.Upsert(ctx, team); err != nil {
			summary.addError("team %d (%s): %v", input.ID, input.School, err)
			continue
		}

		if seeder, ok := p.resolver.(*identity.AliasResolver); ok {
			seeder.AddCanonical(team.SchoolName, team.TeamID)
		}

		summary.Processed++
	}

	metrics.RecordJob("sync_teams", "success", time.Since(start).Seconds())
	log.Info().
		Int("processed", summary.Processed).
		Int("errored", summary.Errored).
		Msg("Teams synced")

	return summary, nil
}

// SyncSchedule upserts a season's games, including final scores for
// completed games. Games whose kickoff has passed without a result are
// left alone; the feed flips them to final on a later pass.
func (p *Pipeline) SyncSchedule(ctx context.Context, season int) (*Summary, error) {
	start := time.Now()
	summary := &Summary{}

	games, err := p.cfbd.FetchGames(ctx, season)
	if err != nil {
		metrics.RecordJob("sync_schedule", "error", time.Since(start).Seconds())
		return summary, err
	}

	for _, input := range games {
		if input.HomeID == 0 || input.AwayID == 0 {
			summary.Skipped++
			metrics.RecordSkip("sync_schedule", "missing_team_id")
			continue
		}

		game := input.ToGame()
		if game.Kickoff.IsZero() {
			summary.Skipped++
			metrics.RecordSkip("sync_schedule", "bad_kickoff")
			log.Warn().
				Int("game_id", input.ID).
				Str("start_date", input.StartDate).
				Msg("Skipping game with unparseable kickoff")
			continue
		}

		if err := p.db.Games.Upsert(ctx, game); err != nil {
			summary.addError("game %d: %v", input.ID, err)
			continue
		}

		summary.Processed++
	}

	metrics.RecordJob("sync_schedule", "success", time.Since(start).Seconds())
	log.Info().
		Int("season", season).
		Int("processed", summary.Processed).
		Int("skipped", summary.Skipped).
		Int("errored", summary.Errored).
		Msg("Schedule synced")

	return summary, nil
}

// SyncPPA refreshes per-game PPA rows for a season. week narrows the
// fetch on in-season refreshes; nil pulls the whole season.
func (p *Pipeline) SyncPPA(ctx context.Context, season int, week *int) (*Summary, error) {
	start := time.Now()
	summary := &Summary{}

	rows, err := p.cfbd.FetchGamePPA(ctx, season, week)
	if err != nil {
		metrics.RecordJob("sync_ppa", "error", time.Since(start).Seconds())
		return summary, err
	}

	for _, input := range rows {
		if input.GameID == 0 || input.TeamID == 0 {
			summary.Skipped++
			metrics.RecordSkip("sync_ppa", "missing_key")
			continue
		}

		if err := p.db.PPA.Upsert(ctx, input.ToTeamGamePPA()); err != nil {
			summary.addError("ppa game %d team %d: %v", input.GameID, input.TeamID, err)
			continue
		}

		summary.Processed++
	}

	metrics.RecordJob("sync_ppa", "success", time.Since(start).Seconds())
	log.Info().
		Int("season", season).
		Int("processed", summary.Processed).
		Int("skipped", summary.Skipped).
		Int("errored", summary.Errored).
		Msg("PPA synced")

	return summary, nil
}
