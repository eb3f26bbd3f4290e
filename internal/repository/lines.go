package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/wheels195/cfb-market-edge-sub006/internal/models"
)

// LineRepository handles market line database operations. Lines are
// append-only; each capture becomes a new tick row.
type LineRepository struct {
	db *Database
}

// Insert appends a line tick. The first tick of a (game, book, market)
// series is stored as the opening line. Duplicate captures (same game,
// book, market, captured_at) are ignored so re-polling is idempotent.
func (r *LineRepository) Insert(ctx context.Context, line *models.MarketLine) error {
	query := `
		INSERT INTO market_lines (
			game_id, bookmaker, market, tick_type, captured_at,
			spread_home, total, price_home, price_away, price_over, price_under
		) VALUES (
			$1, $2, $3,
			CASE WHEN EXISTS (
				SELECT 1 FROM market_lines
				WHERE game_id = $1 AND bookmaker = $2 AND market = $3
			) THEN $4 ELSE $12 END,
			$5, $6, $7, $8, $9, $10, $11
		)
		ON CONFLICT (game_id, bookmaker, market, captured_at) DO NOTHING
	`

	_, err := r.db.Pool.Exec(
		ctx, query,
		line.GameID, line.Bookmaker, line.Market, line.TickType, line.CapturedAt,
		line.SpreadHome, line.Total, line.PriceHome, line.PriceAway,
		line.PriceOver, line.PriceUnder, models.TickTypeOpen,
	)
	if err != nil {
		return fmt.Errorf("failed to insert line: %w", err)
	}

	return nil
}

const lineColumns = `
	id, game_id, bookmaker, market, tick_type, captured_at,
	spread_home, total, price_home, price_away, price_over, price_under,
	created_at
`

func scanLine(row pgx.Row) (*models.MarketLine, error) {
	var line models.MarketLine
	err := row.Scan(
		&line.ID, &line.GameID, &line.Bookmaker, &line.Market,
		&line.TickType, &line.CapturedAt,
		&line.SpreadHome, &line.Total, &line.PriceHome, &line.PriceAway,
		&line.PriceOver, &line.PriceUnder, &line.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// Latest retrieves the newest tick for a (game, bookmaker, market)
func (r *LineRepository) Latest(ctx context.Context, gameID int, bookmaker, market string) (*models.MarketLine, error) {
	query := `SELECT ` + lineColumns + `
		FROM market_lines
		WHERE game_id = $1 AND bookmaker = $2 AND market = $3
		ORDER BY captured_at DESC
		LIMIT 1`

	line, err := scanLine(r.db.Pool.QueryRow(ctx, query, gameID, bookmaker, market))
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("no line for game %d book %s market %s", gameID, bookmaker, market)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest line: %w", err)
	}

	return line, nil
}

// LatestForGame retrieves the newest tick per (bookmaker, market) for a game
func (r *LineRepository) LatestForGame(ctx context.Context, gameID int) ([]*models.MarketLine, error) {
	query := `SELECT DISTINCT ON (bookmaker, market) ` + lineColumns + `
		FROM market_lines
		WHERE game_id = $1
		ORDER BY bookmaker, market, captured_at DESC`
	return r.list(ctx, query, gameID)
}

// History retrieves all ticks for a (game, bookmaker, market) in
// capture order, oldest first
func (r *LineRepository) History(ctx context.Context, gameID int, bookmaker, market string) ([]*models.MarketLine, error) {
	query := `SELECT ` + lineColumns + `
		FROM market_lines
		WHERE game_id = $1 AND bookmaker = $2 AND market = $3
		ORDER BY captured_at`
	return r.list(ctx, query, gameID, bookmaker, market)
}

// Opening retrieves the oldest tick for a (game, bookmaker, market)
func (r *LineRepository) Opening(ctx context.Context, gameID int, bookmaker, market string) (*models.MarketLine, error) {
	query := `SELECT ` + lineColumns + `
		FROM market_lines
		WHERE game_id = $1 AND bookmaker = $2 AND market = $3
		ORDER BY captured_at
		LIMIT 1`

	line, err := scanLine(r.db.Pool.QueryRow(ctx, query, gameID, bookmaker, market))
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("no opening line for game %d book %s market %s", gameID, bookmaker, market)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get opening line: %w", err)
	}

	return line, nil
}

// Closing retrieves the closing tick for a (game, bookmaker, market):
// the last tick captured at or before kickoff.
func (r *LineRepository) Closing(ctx context.Context, gameID int, bookmaker, market string) (*models.MarketLine, error) {
	query := `SELECT ` + lineColumns + `
		FROM market_lines l
		WHERE l.game_id = $1 AND l.bookmaker = $2 AND l.market = $3
		  AND l.captured_at <= (SELECT kickoff FROM games WHERE id = $1)
		ORDER BY l.captured_at DESC
		LIMIT 1`

	line, err := scanLine(r.db.Pool.QueryRow(ctx, query, gameID, bookmaker, market))
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("no closing line for game %d book %s market %s", gameID, bookmaker, market)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get closing line: %w", err)
	}

	return line, nil
}

// MarkClosing stamps the closing tick for every (bookmaker, market) of
// a game once it has kicked off.
func (r *LineRepository) MarkClosing(ctx context.Context, gameID int) error {
	query := `
		UPDATE market_lines SET tick_type = $2
		WHERE id IN (
			SELECT DISTINCT ON (bookmaker, market) id
			FROM market_lines l
			WHERE l.game_id = $1
			  AND l.captured_at <= (SELECT kickoff FROM games WHERE id = $1)
			ORDER BY bookmaker, market, captured_at DESC
		)
	`

	if _, err := r.db.Pool.Exec(ctx, query, gameID, models.TickTypeClose); err != nil {
		return fmt.Errorf("failed to mark closing lines: %w", err)
	}

	return nil
}

func (r *LineRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.MarketLine, error) {
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list lines: %w", err)
	}
	defer rows.Close()

	var lines []*models.MarketLine
	for rows.Next() {
		line, err := scanLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan line: %w", err)
		}
		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating lines: %w", err)
	}

	return lines, nil
}
