package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wheels195/cfb-market-edge-sub006/internal/client"
	"github.com/wheels195/cfb-market-edge-sub006/internal/identity"
	"github.com/wheels195/cfb-market-edge-sub006/internal/metrics"
	"github.com/wheels195/cfb-market-edge-sub006/internal/models"
)

const oddsSource = "oddsapi"

// SyncLines polls the odds feed and appends line ticks for upcoming
// games. Events whose teams cannot be resolved are skipped and counted;
// an unresolved name is a data problem to fix in the alias table, not a
// reason to halt the poll.
func (p *Pipeline) SyncLines(ctx context.Context) (*Summary, error) {
	start := time.Now()
	summary := &Summary{}

	events, err := p.odds.FetchOdds(ctx, p.cfg.OddsBookmakers)
	if err != nil {
		metrics.RecordJob("sync_lines", "error", time.Since(start).Seconds())
		return summary, err
	}

	for i := range events {
		event := &events[i]

		game, err := p.matchEvent(ctx, event)
		if err != nil {
			summary.Skipped++
			if errors.Is(err, identity.ErrUnresolved) {
				metrics.RecordSkip("sync_lines", "unresolved_team")
				metrics.RecordUnresolvedTeam(oddsSource)
				log.Warn().
					Str("home", event.HomeTeam).
					Str("away", event.AwayTeam).
					Msg("Skipping odds event with unresolved team")
			} else {
				metrics.RecordSkip("sync_lines", "unmatched_game")
				log.Debug().
					Str("home", event.HomeTeam).
					Str("away", event.AwayTeam).
					Err(err).
					Msg("Skipping odds event with no matching game")
			}
			continue
		}

		for _, input := range client.ParseEventLines(event) {
			line := input.ToMarketLine(game.ID)

			if p.cfg.EnableLineMovementTracking {
				p.trackMovement(ctx, line)
			}

			if err := p.db.Lines.Insert(ctx, line); err != nil {
				summary.addError("line game %d book %s: %v", game.GameID, line.Bookmaker, err)
				continue
			}
			summary.Processed++
		}
	}

	metrics.RecordJob("sync_lines", "success", time.Since(start).Seconds())
	log.Info().
		Int("events", len(events)).
		Int("processed", summary.Processed).
		Int("skipped", summary.Skipped).
		Int("errored", summary.Errored).
		Msg("Lines synced")

	return summary, nil
}

// matchEvent maps an odds event to a stored game via identity
// resolution on both team names, then a schedule lookup keyed on the
// home team and kickoff day.
func (p *Pipeline) matchEvent(ctx context.Context, event *client.OddsEvent) (*models.Game, error) {
	homeID, err := p.resolver.Resolve(ctx, oddsSource, event.HomeTeam)
	if err != nil {
		return nil, err
	}
	awayID, err := p.resolver.Resolve(ctx, oddsSource, event.AwayTeam)
	if err != nil {
		return nil, err
	}

	return p.db.Games.FindByTeamsAroundKickoff(ctx, homeID, awayID, event.CommenceTime)
}

// trackMovement compares the incoming tick against the previous one
// and logs the movement. Best effort; a failed lookup never blocks the
// insert.
func (p *Pipeline) trackMovement(ctx context.Context, next *models.MarketLine) {
	prev, err := p.db.Lines.Latest(ctx, next.GameID, next.Bookmaker, next.Market)
	if err != nil {
		return
	}

	movement := models.DetectLineMovement(prev, next)
	if movement == nil {
		return
	}

	metrics.RecordLineMovement()
	log.Info().
		Int("game_id", movement.GameID).
		Str("bookmaker", movement.Bookmaker).
		Str("market", movement.Market).
		Str("direction", movement.Direction).
		Float64("magnitude", movement.Magnitude).
		Msg("Line movement detected")
}

// StampClosingLines marks closing ticks for games that have kicked off
// since the last run.
func (p *Pipeline) StampClosingLines(ctx context.Context) (*Summary, error) {
	summary := &Summary{}

	games, err := p.db.Games.ListRecentlyFinal(ctx, 48)
	if err != nil {
		return summary, err
	}

	for _, game := range games {
		if err := p.db.Lines.MarkClosing(ctx, game.ID); err != nil {
			summary.addError("closing game %d: %v", game.GameID, err)
			continue
		}
		summary.Processed++
	}

	return summary, nil
}
