package models

import (
	"database/sql"
	"time"
)

// Projection is the model's view of one game's markets as of a refresh:
// the projected spread, the market it was compared to, and the edge.
// Rows are upserted by (game, model_version), so a projection is always
// the newest refresh.
type Projection struct {
	ID           int    `db:"id"`
	GameID       int    `db:"game_id"`
	ModelVersion string `db:"model_version"`

	HomeRating float64 `db:"home_rating"`
	AwayRating float64 `db:"away_rating"`

	PredictedSpreadHome float64         `db:"predicted_spread_home"`
	PredictedTotal      sql.NullFloat64 `db:"predicted_total"`

	MarketSpreadHome sql.NullFloat64 `db:"market_spread_home"`
	MarketTotal      sql.NullFloat64 `db:"market_total"`
	Bookmaker        sql.NullString  `db:"bookmaker"`

	SpreadEdge sql.NullFloat64 `db:"spread_edge"`
	SpreadSide sql.NullString  `db:"spread_side"`
	TotalEdge  sql.NullFloat64 `db:"total_edge"`
	TotalSide  sql.NullString  `db:"total_side"`

	Bettable       bool           `db:"bettable"`
	ConfidenceTier sql.NullString `db:"confidence_tier"`

	ProjectedAt time.Time `db:"projected_at"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}
