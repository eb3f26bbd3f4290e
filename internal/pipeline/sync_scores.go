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

// How far back the score poll looks. Covers a full game day plus the
// overnight gap before the next poll.
const scoresLookbackDays = 2

// SyncScores polls the odds feed's scores endpoint and finalizes games
// that completed since the last pass. This is the fast settlement
// path between nightly schedule syncs; the nightly sync remains the
// source of truth and overwrites anything this job got wrong.
func (p *Pipeline) SyncScores(ctx context.Context) (*Summary, error) {
	start := time.Now()
	summary := &Summary{}

	scores, err := p.odds.FetchScores(ctx, scoresLookbackDays)
	if err != nil {
		metrics.RecordJob("sync_scores", "error", time.Since(start).Seconds())
		return summary, err
	}

	for i := range scores {
		score := &scores[i]

		homeScore, awayScore, ok := client.ParseFinalScore(score)
		if !ok {
			summary.Skipped++
			continue
		}

		game, err := p.matchScore(ctx, score)
		if err != nil {
			summary.Skipped++
			if errors.Is(err, identity.ErrUnresolved) {
				metrics.RecordSkip("sync_scores", "unresolved_team")
				metrics.RecordUnresolvedTeam(oddsSource)
			} else {
				metrics.RecordSkip("sync_scores", "unmatched_game")
			}
			continue
		}

		if game.Status == models.GameStatusFinal {
			summary.Skipped++
			continue
		}

		if err := p.db.Games.UpdateScore(ctx, game.GameID, homeScore, awayScore); err != nil {
			summary.addError("score game %d: %v", game.GameID, err)
			continue
		}
		summary.Processed++
	}

	metrics.RecordJob("sync_scores", "success", time.Since(start).Seconds())
	log.Info().
		Int("scores", len(scores)).
		Int("finalized", summary.Processed).
		Int("skipped", summary.Skipped).
		Int("errored", summary.Errored).
		Msg("Scores synced")

	return summary, nil
}

func (p *Pipeline) matchScore(ctx context.Context, score *client.OddsScore) (*models.Game, error) {
	homeID, err := p.resolver.Resolve(ctx, oddsSource, score.HomeTeam)
	if err != nil {
		return nil, err
	}
	awayID, err := p.resolver.Resolve(ctx, oddsSource, score.AwayTeam)
	if err != nil {
		return nil, err
	}

	return p.db.Games.FindByTeamsAroundKickoff(ctx, homeID, awayID, score.CommenceTime)
}
