package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/wheels195/cfb-market-edge-sub006/internal/models"
)

// ProjectionRepository handles projection database operations
type ProjectionRepository struct {
	db *Database
}

// Upsert inserts or updates a projection by (game, model_version)
func (r *ProjectionRepository) Upsert(ctx context.Context, proj *models.Projection) error {
	query := `
		INSERT INTO projections (
			game_id, model_version, home_rating, away_rating,
			predicted_spread_home, predicted_total,
			market_spread_home, market_total, bookmaker,
			spread_edge, spread_side, total_edge, total_side,
			bettable, confidence_tier, projected_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (game_id, model_version) DO UPDATE SET
			home_rating = EXCLUDED.home_rating,
			away_rating = EXCLUDED.away_rating,
			predicted_spread_home = EXCLUDED.predicted_spread_home,
			predicted_total = EXCLUDED.predicted_total,
			market_spread_home = EXCLUDED.market_spread_home,
			market_total = EXCLUDED.market_total,
			bookmaker = EXCLUDED.bookmaker,
			spread_edge = EXCLUDED.spread_edge,
			spread_side = EXCLUDED.spread_side,
			total_edge = EXCLUDED.total_edge,
			total_side = EXCLUDED.total_side,
			bettable = EXCLUDED.bettable,
			confidence_tier = EXCLUDED.confidence_tier,
			projected_at = EXCLUDED.projected_at,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := r.db.Pool.QueryRow(
		ctx, query,
		proj.GameID, proj.ModelVersion, proj.HomeRating, proj.AwayRating,
		proj.PredictedSpreadHome, proj.PredictedTotal,
		proj.MarketSpreadHome, proj.MarketTotal, proj.Bookmaker,
		proj.SpreadEdge, proj.SpreadSide, proj.TotalEdge, proj.TotalSide,
		proj.Bettable, proj.ConfidenceTier, proj.ProjectedAt,
	).Scan(&proj.ID, &proj.CreatedAt, &proj.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert projection: %w", err)
	}

	return nil
}

const projectionColumns = `
	id, game_id, model_version, home_rating, away_rating,
	predicted_spread_home, predicted_total,
	market_spread_home, market_total, bookmaker,
	spread_edge, spread_side, total_edge, total_side,
	bettable, confidence_tier, projected_at, created_at, updated_at
`

func scanProjection(row pgx.Row) (*models.Projection, error) {
	var p models.Projection
	err := row.Scan(
		&p.ID, &p.GameID, &p.ModelVersion, &p.HomeRating, &p.AwayRating,
		&p.PredictedSpreadHome, &p.PredictedTotal,
		&p.MarketSpreadHome, &p.MarketTotal, &p.Bookmaker,
		&p.SpreadEdge, &p.SpreadSide, &p.TotalEdge, &p.TotalSide,
		&p.Bettable, &p.ConfidenceTier, &p.ProjectedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetForGame retrieves a game's projection for a model version
func (r *ProjectionRepository) GetForGame(ctx context.Context, gameID int, modelVersion string) (*models.Projection, error) {
	query := `SELECT ` + projectionColumns + `
		FROM projections
		WHERE game_id = $1 AND model_version = $2`

	proj, err := scanProjection(r.db.Pool.QueryRow(ctx, query, gameID, modelVersion))
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("projection not found: game_id=%d model=%s", gameID, modelVersion)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get projection: %w", err)
	}

	return proj, nil
}

// ListBettable retrieves current bettable projections for upcoming
// games, largest edge first
func (r *ProjectionRepository) ListBettable(ctx context.Context, modelVersion string) ([]*models.Projection, error) {
	query := `SELECT ` + projectionColumns + `
		FROM projections p
		WHERE p.model_version = $1
		  AND p.bettable
		  AND EXISTS (
			SELECT 1 FROM games g
			WHERE g.id = p.game_id AND g.status = 'scheduled' AND g.kickoff > NOW()
		  )
		ORDER BY ABS(COALESCE(p.spread_edge, 0)) DESC`

	rows, err := r.db.Pool.Query(ctx, query, modelVersion)
	if err != nil {
		return nil, fmt.Errorf("failed to list bettable projections: %w", err)
	}
	defer rows.Close()

	var projections []*models.Projection
	for rows.Next() {
		proj, err := scanProjection(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan projection: %w", err)
		}
		projections = append(projections, proj)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating projections: %w", err)
	}

	return projections, nil
}
