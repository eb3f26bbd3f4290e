package pipeline

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wheels195/cfb-market-edge-sub006/internal/edge"
	"github.com/wheels195/cfb-market-edge-sub006/internal/metrics"
	"github.com/wheels195/cfb-market-edge-sub006/internal/models"
	"github.com/wheels195/cfb-market-edge-sub006/internal/rating"
)

// upcomingWindowDays bounds how far ahead projections are refreshed.
const upcomingWindowDays = 8

// Totals baseline and scale: an average FBS game lands in the low 50s,
// and combined rating strength above the league mean nudges the
// projection up at the same rating-to-point scale spreads use.
const totalsBaseline = 52.5

// projectTotalFromRatings builds the projected total from the two
// teams' combined deviation off the baseline rating.
func projectTotalFromRatings(ratingHome, ratingAway float64) float64 {
	deviation := (ratingHome + ratingAway - 2*rating.BaselineRating) / edge.EloPerSpreadPoint
	return edge.ProjectTotal(totalsBaseline, deviation)
}

// RefreshProjections recomputes projections and edges for upcoming
// games. Each game uses only snapshots from before its week; games
// without a prior snapshot or a market line are skipped, not errored.
func (p *Pipeline) RefreshProjections(ctx context.Context) (*Summary, error) {
	start := time.Now()
	summary := &Summary{}

	games, err := p.db.Games.ListUpcoming(ctx, upcomingWindowDays)
	if err != nil {
		metrics.RecordJob("refresh_projections", "error", time.Since(start).Seconds())
		return summary, err
	}

	for _, game := range games {
		proj, err := p.projectGame(ctx, game)
		if err != nil {
			if errors.Is(err, rating.ErrNoSnapshot) {
				summary.Skipped++
				metrics.RecordSkip("refresh_projections", "no_snapshot")
				continue
			}
			summary.addError("game %d: %v", game.GameID, err)
			continue
		}

		if err := p.db.Projections.Upsert(ctx, proj); err != nil {
			summary.addError("game %d: %v", game.GameID, err)
			continue
		}

		if proj.Bettable {
			if proj.SpreadEdge.Valid && edge.Bettable(proj.SpreadEdge.Float64, p.cfg.MinEdgePoints) {
				metrics.RecordEdge(models.MarketSpread, proj.ConfidenceTier.String)
			}
			if proj.TotalEdge.Valid && edge.Bettable(proj.TotalEdge.Float64, p.cfg.MinEdgePoints) {
				metrics.RecordEdge(models.MarketTotal, proj.ConfidenceTier.String)
			}
		}
		summary.Processed++
	}

	if p.cache != nil {
		if err := p.cache.InvalidatePrefix(ctx, "edges:"); err != nil {
			log.Warn().Err(err).Msg("Failed to invalidate edge cache")
		}
	}

	metrics.RecordJob("refresh_projections", "success", time.Since(start).Seconds())
	log.Info().
		Int("processed", summary.Processed).
		Int("skipped", summary.Skipped).
		Int("errored", summary.Errored).
		Msg("Projections refreshed")

	return summary, nil
}

func (p *Pipeline) projectGame(ctx context.Context, game *models.Game) (*models.Projection, error) {
	home, err := rating.SnapshotBefore(ctx, p.db.Ratings, game.HomeTeamID, game.Season, game.Week)
	if err != nil {
		return nil, err
	}
	away, err := rating.SnapshotBefore(ctx, p.db.Ratings, game.AwayTeamID, game.Season, game.Week)
	if err != nil {
		return nil, err
	}

	homeField := p.cfg.HomeFieldBonus
	if game.NeutralSite {
		homeField = 0
	}

	predicted := edge.ProjectSpread(home.Rating, away.Rating, homeField)

	proj := &models.Projection{
		GameID:              game.ID,
		ModelVersion:        p.cfg.ModelVersion,
		HomeRating:          home.Rating,
		AwayRating:          away.Rating,
		PredictedSpreadHome: predicted,
		ProjectedAt:         time.Now(),
	}

	if p.cfg.EnableTotalsModel {
		proj.PredictedTotal = sql.NullFloat64{
			Float64: projectTotalFromRatings(home.Rating, away.Rating),
			Valid:   true,
		}
	}

	market, err := p.bestLine(ctx, game.ID, models.MarketSpread)
	if err == nil {
		proj.MarketSpreadHome = market.SpreadHome
		proj.Bookmaker = sql.NullString{String: market.Bookmaker, Valid: true}

		points, side := edge.SpreadEdge(market.SpreadHome.Float64, predicted)
		proj.SpreadEdge = sql.NullFloat64{Float64: points, Valid: true}
		proj.SpreadSide = sql.NullString{String: string(side), Valid: side != edge.SideNone}
		proj.Bettable = edge.Bettable(points, p.cfg.MinEdgePoints)

		tier := edge.ConfidenceTier(points, p.movementAgreement(ctx, game.ID, market, side))
		proj.ConfidenceTier = sql.NullString{String: string(tier), Valid: true}
	}
	// No line yet is normal early in the week; the projection still
	// stands on its own.

	if proj.PredictedTotal.Valid {
		if totalLine, err := p.bestLine(ctx, game.ID, models.MarketTotal); err == nil {
			proj.MarketTotal = totalLine.Total

			points, side := edge.TotalEdge(totalLine.Total.Float64, proj.PredictedTotal.Float64)
			proj.TotalEdge = sql.NullFloat64{Float64: points, Valid: true}
			proj.TotalSide = sql.NullString{String: string(side), Valid: side != edge.SideNone}
			if edge.Bettable(points, p.cfg.MinEdgePoints) {
				proj.Bettable = true
			}
			if !proj.ConfidenceTier.Valid {
				proj.ConfidenceTier = sql.NullString{String: string(edge.ConfidenceTier(points, nil)), Valid: true}
			}
		}
	}

	return proj, nil
}

// bestLine picks the newest tick for a market across configured books.
func (p *Pipeline) bestLine(ctx context.Context, gameID int, market string) (*models.MarketLine, error) {
	lines, err := p.db.Lines.LatestForGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	var best *models.MarketLine
	for _, line := range lines {
		if line.Market != market {
			continue
		}
		if market == models.MarketSpread && !line.SpreadHome.Valid {
			continue
		}
		if market == models.MarketTotal && !line.Total.Valid {
			continue
		}
		if best == nil || line.CapturedAt.After(best.CapturedAt) {
			best = line
		}
	}

	if best == nil {
		return nil, errors.New("no line for market " + market)
	}
	return best, nil
}

// movementAgreement reports whether the line has moved toward the
// recommended side since open. nil when there is no movement signal.
func (p *Pipeline) movementAgreement(ctx context.Context, gameID int, latest *models.MarketLine, side edge.Side) *bool {
	if !p.cfg.EnableLineMovementTracking || (side != edge.SideHome && side != edge.SideAway) {
		return nil
	}

	opening, err := p.db.Lines.Opening(ctx, gameID, latest.Bookmaker, latest.Market)
	if err != nil || opening.ID == latest.ID {
		return nil
	}

	movement := models.DetectLineMovement(opening, latest)
	if movement == nil {
		return nil
	}

	agrees := movement.AgreesWith(string(side))
	return &agrees
}
