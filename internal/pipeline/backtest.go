package pipeline

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/wheels195/cfb-market-edge-sub006/internal/backtest"
	"github.com/wheels195/cfb-market-edge-sub006/internal/models"
)

// Backtest replays stored seasons against stored lines. Ratings must
// already be rebuilt through the requested seasons; the run reads
// snapshots point-in-time and never writes.
func (p *Pipeline) Backtest(ctx context.Context, seasons []int, cfg backtest.Config) (*backtest.Summary, error) {
	var records []backtest.GameRecord

	for _, season := range seasons {
		finals, err := p.db.Games.ListFinalsBySeason(ctx, season)
		if err != nil {
			return nil, err
		}

		for _, game := range finals {
			record, ok := p.backtestRecord(ctx, game)
			if !ok {
				continue
			}
			records = append(records, record)
		}
	}

	log.Info().
		Ints("seasons", seasons).
		Int("games", len(records)).
		Msg("Backtest input assembled")

	return backtest.Run(ctx, p.db.Ratings, records, cfg), nil
}

// backtestRecord pairs a final game with its bet-time and closing
// spreads. Games with no stored spread are excluded from the run
// rather than treated as pushes.
func (p *Pipeline) backtestRecord(ctx context.Context, game *models.Game) (backtest.GameRecord, bool) {
	record := backtest.GameRecord{
		GameID:     game.GameID,
		Season:     game.Season,
		Week:       game.Week,
		HomeTeamID: game.HomeTeamID,
		AwayTeamID: game.AwayTeamID,
		HomeScore:  int(game.HomeScore.Int32),
		AwayScore:  int(game.AwayScore.Int32),
	}

	lines, err := p.db.Lines.LatestForGame(ctx, game.ID)
	if err != nil {
		return record, false
	}

	found := false
	for _, line := range lines {
		if line.Market != models.MarketSpread || !line.SpreadHome.Valid {
			continue
		}

		if opening, err := p.db.Lines.Opening(ctx, game.ID, line.Bookmaker, models.MarketSpread); err == nil && opening.SpreadHome.Valid {
			record.MarketSpreadHome = opening.SpreadHome.Float64
			found = true
		}

		if closing, err := p.db.Lines.Closing(ctx, game.ID, line.Bookmaker, models.MarketSpread); err == nil && closing.SpreadHome.Valid {
			value := closing.SpreadHome.Float64
			record.ClosingSpreadHome = &value
		}

		if found {
			break
		}
	}

	return record, found
}
