package pipeline

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wheels195/cfb-market-edge-sub006/internal/edge"
	"github.com/wheels195/cfb-market-edge-sub006/internal/grading"
	"github.com/wheels195/cfb-market-edge-sub006/internal/metrics"
	"github.com/wheels195/cfb-market-edge-sub006/internal/models"
)

// GradeBets settles pending bets whose games are final. Grading is
// idempotent: a bet is only ever settled once, and regrading a settled
// game is a no-op because settled bets leave the pending set.
func (p *Pipeline) GradeBets(ctx context.Context) (*Summary, error) {
	start := time.Now()
	summary := &Summary{}

	pending, err := p.db.Bets.ListPending(ctx)
	if err != nil {
		metrics.RecordJob("grade_bets", "error", time.Since(start).Seconds())
		return summary, err
	}

	for _, bet := range pending {
		game, err := p.db.Games.GetByID(ctx, bet.GameID)
		if err != nil {
			summary.addError("bet %s: %v", bet.ExternalID, err)
			continue
		}

		if !game.Final() {
			summary.Skipped++
			continue
		}

		if err := p.gradeBet(ctx, bet, game); err != nil {
			summary.addError("bet %s: %v", bet.ExternalID, err)
			continue
		}

		summary.Processed++
	}

	metrics.RecordJob("grade_bets", "success", time.Since(start).Seconds())
	log.Info().
		Int("processed", summary.Processed).
		Int("skipped", summary.Skipped).
		Int("errored", summary.Errored).
		Msg("Bets graded")

	return summary, nil
}

func (p *Pipeline) gradeBet(ctx context.Context, bet *models.Bet, game *models.Game) error {
	side := edge.Side(bet.Side)
	homeScore := int(game.HomeScore.Int32)
	awayScore := int(game.AwayScore.Int32)

	var result grading.Result
	var err error
	switch bet.Market {
	case models.MarketTotal:
		result, err = grading.GradeTotal(side, bet.Line, homeScore, awayScore)
	default:
		result, err = grading.GradeSpread(side, bet.Line, homeScore, awayScore)
	}
	if err != nil {
		return err
	}

	bet.Result = string(result)
	bet.Profit = sql.NullFloat64{
		Float64: grading.Profit(result, bet.Price, bet.Stake),
		Valid:   true,
	}

	if p.cfg.EnableCLVTracking {
		p.attachCLV(ctx, bet, game)
	}

	if err := p.db.Bets.Settle(ctx, bet); err != nil {
		return err
	}

	metrics.RecordBetGraded(bet.Market, bet.Result)
	log.Info().
		Str("external_id", bet.ExternalID.String()).
		Str("market", bet.Market).
		Str("side", bet.Side).
		Str("result", bet.Result).
		Float64("profit", bet.Profit.Float64).
		Msg("Bet settled")

	return nil
}

// attachCLV fills the bet's closing line and CLV when a closing tick
// exists. Best effort; missing closing data leaves the fields null.
func (p *Pipeline) attachCLV(ctx context.Context, bet *models.Bet, game *models.Game) {
	closing, err := p.closingLineForBet(ctx, bet, game)
	if err != nil {
		log.Debug().
			Str("external_id", bet.ExternalID.String()).
			Err(err).
			Msg("No closing line for CLV")
		return
	}

	bet.ClosingLine = sql.NullFloat64{Float64: closing, Valid: true}
	bet.CLV = sql.NullFloat64{
		Float64: grading.CLV(edge.Side(bet.Side), bet.Line, closing),
		Valid:   true,
	}
}

func (p *Pipeline) closingLineForBet(ctx context.Context, bet *models.Bet, game *models.Game) (float64, error) {
	// The closing number is taken from the first configured book that
	// has one, matching the book preference used at projection time.
	lines, err := p.db.Lines.LatestForGame(ctx, game.ID)
	if err != nil {
		return 0, err
	}

	for _, candidate := range lines {
		if candidate.Market != bet.Market {
			continue
		}
		closing, err := p.db.Lines.Closing(ctx, game.ID, candidate.Bookmaker, bet.Market)
		if err != nil {
			continue
		}
		switch bet.Market {
		case models.MarketTotal:
			if closing.Total.Valid {
				return closing.Total.Float64, nil
			}
		default:
			if closing.SpreadHome.Valid {
				return closing.SpreadHome.Float64, nil
			}
		}
	}

	return 0, errNoClosingLine
}

var errNoClosingLine = errors.New("no closing line")
