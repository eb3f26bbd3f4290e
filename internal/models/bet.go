package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Bet is one paper bet placed against a tracked edge. Line and Price
// are frozen at placement; grading fills Result, Profit, ClosingLine,
// and CLV once the game is final.
type Bet struct {
	ID         int       `db:"id"`
	ExternalID uuid.UUID `db:"external_id"`
	GameID     int       `db:"game_id"`

	Market string  `db:"market"`
	Side   string  `db:"side"`
	Line   float64 `db:"line"`
	Price  int     `db:"price"`
	Stake  float64 `db:"stake"`

	ModelVersion sql.NullString  `db:"model_version"`
	EdgePoints   sql.NullFloat64 `db:"edge_points"`

	Result      string          `db:"result"`
	Profit      sql.NullFloat64 `db:"profit"`
	ClosingLine sql.NullFloat64 `db:"closing_line"`
	CLV         sql.NullFloat64 `db:"clv"`

	PlacedAt  time.Time    `db:"placed_at"`
	SettledAt sql.NullTime `db:"settled_at"`
	CreatedAt time.Time    `db:"created_at"`
	UpdatedAt time.Time    `db:"updated_at"`
}

// BetInput is used for placing a paper bet via the API.
type BetInput struct {
	GameID       int      `json:"game_id"`
	Market       string   `json:"market"`
	Side         string   `json:"side"`
	Line         float64  `json:"line"`
	Price        int      `json:"price"`
	Stake        float64  `json:"stake"`
	ModelVersion string   `json:"model_version,omitempty"`
	EdgePoints   *float64 `json:"edge_points,omitempty"`
}

// ToBet converts BetInput to a pending Bet with a fresh external ID.
func (bi *BetInput) ToBet(dbGameID int) *Bet {
	bet := &Bet{
		ExternalID: uuid.New(),
		GameID:     dbGameID,
		Market:     bi.Market,
		Side:       bi.Side,
		Line:       bi.Line,
		Price:      bi.Price,
		Stake:      bi.Stake,
		Result:     "pending",
		PlacedAt:   time.Now(),
	}

	if bi.ModelVersion != "" {
		bet.ModelVersion = sql.NullString{String: bi.ModelVersion, Valid: true}
	}
	if bi.EdgePoints != nil {
		bet.EdgePoints = sql.NullFloat64{Float64: *bi.EdgePoints, Valid: true}
	}

	return bet
}
