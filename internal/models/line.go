package models

import (
	"database/sql"
	"time"
)

// Tick types on the market_lines table. Open is the first capture seen
// for a (game, book, market); close is stamped at kickoff.
const (
	TickTypeOpen  = "open"
	TickTypeTick  = "tick"
	TickTypeClose = "close"
)

// Market types.
const (
	MarketSpread = "spread"
	MarketTotal  = "total"
)

// MarketLine is one captured line tick for a game, book, and market.
// Spread is always the home handicap; every capture is appended, never
// overwritten, so the table is the full movement history.
type MarketLine struct {
	ID         int       `db:"id"`
	GameID     int       `db:"game_id"`
	Bookmaker  string    `db:"bookmaker"`
	Market     string    `db:"market"`
	TickType   string    `db:"tick_type"`
	CapturedAt time.Time `db:"captured_at"`

	SpreadHome sql.NullFloat64 `db:"spread_home"`
	Total      sql.NullFloat64 `db:"total"`
	PriceHome  sql.NullInt32   `db:"price_home"`
	PriceAway  sql.NullInt32   `db:"price_away"`
	PriceOver  sql.NullInt32   `db:"price_over"`
	PriceUnder sql.NullInt32   `db:"price_under"`

	CreatedAt time.Time `db:"created_at"`
}

// LineInput is one parsed line capture produced by the odds client.
type LineInput struct {
	Bookmaker  string
	Market     string
	CapturedAt time.Time

	SpreadHome *float64
	Total      *float64
	PriceHome  *int
	PriceAway  *int
	PriceOver  *int
	PriceUnder *int
}

// ToMarketLine converts a LineInput to a MarketLine tick for a game.
func (li *LineInput) ToMarketLine(dbGameID int) *MarketLine {
	line := &MarketLine{
		GameID:     dbGameID,
		Bookmaker:  li.Bookmaker,
		Market:     li.Market,
		TickType:   TickTypeTick,
		CapturedAt: li.CapturedAt,
	}

	if li.SpreadHome != nil {
		line.SpreadHome = sql.NullFloat64{Float64: *li.SpreadHome, Valid: true}
	}
	if li.Total != nil {
		line.Total = sql.NullFloat64{Float64: *li.Total, Valid: true}
	}
	if li.PriceHome != nil {
		line.PriceHome = sql.NullInt32{Int32: int32(*li.PriceHome), Valid: true}
	}
	if li.PriceAway != nil {
		line.PriceAway = sql.NullInt32{Int32: int32(*li.PriceAway), Valid: true}
	}
	if li.PriceOver != nil {
		line.PriceOver = sql.NullInt32{Int32: int32(*li.PriceOver), Valid: true}
	}
	if li.PriceUnder != nil {
		line.PriceUnder = sql.NullInt32{Int32: int32(*li.PriceUnder), Valid: true}
	}

	return line
}

// LineMovement describes the change between two consecutive ticks of
// the same (game, bookmaker, market) series.
type LineMovement struct {
	GameID    int
	Bookmaker string
	Market    string

	PrevSpreadHome sql.NullFloat64
	NewSpreadHome  sql.NullFloat64
	PrevTotal      sql.NullFloat64
	NewTotal       sql.NullFloat64

	Direction string
	Magnitude float64
	MovedAt   time.Time
}

// Spread movement directions. A dropping home spread means money on the
// home side.
const (
	MovementTowardHome = "toward_home"
	MovementTowardAway = "toward_away"
	MovementUp         = "up"
	MovementDown       = "down"
)

// DetectLineMovement compares two consecutive ticks and returns the
// movement between them, or nil when the line did not change.
func DetectLineMovement(prev, next *MarketLine) *LineMovement {
	movement := &LineMovement{
		GameID:    next.GameID,
		Bookmaker: next.Bookmaker,
		Market:    next.Market,
		MovedAt:   next.CapturedAt,
	}

	if prev.SpreadHome.Valid && next.SpreadHome.Valid && prev.SpreadHome.Float64 != next.SpreadHome.Float64 {
		movement.PrevSpreadHome = prev.SpreadHome
		movement.NewSpreadHome = next.SpreadHome

		diff := next.SpreadHome.Float64 - prev.SpreadHome.Float64
		if diff < 0 {
			movement.Direction = MovementTowardHome
		} else {
			movement.Direction = MovementTowardAway
		}
		movement.Magnitude = abs(diff)
		return movement
	}

	if prev.Total.Valid && next.Total.Valid && prev.Total.Float64 != next.Total.Float64 {
		movement.PrevTotal = prev.Total
		movement.NewTotal = next.Total

		diff := next.Total.Float64 - prev.Total.Float64
		if diff > 0 {
			movement.Direction = MovementUp
		} else {
			movement.Direction = MovementDown
		}
		movement.Magnitude = abs(diff)
		return movement
	}

	return nil
}

// AgreesWith reports whether a spread movement is toward the given
// recommended side. Only meaningful for spread movements.
func (lm *LineMovement) AgreesWith(side string) bool {
	switch lm.Direction {
	case MovementTowardHome:
		return side == "home"
	case MovementTowardAway:
		return side == "away"
	default:
		return false
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
