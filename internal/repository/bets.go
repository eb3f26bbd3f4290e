package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"github.com/wheels195/cfb-market-edge-sub006/internal/models"
)

// BetRepository handles paper bet database operations
type BetRepository struct {
	db *Database
}

// Create inserts a new pending bet
func (r *BetRepository) Create(ctx context.Context, bet *models.Bet) error {
	query := `
		INSERT INTO bets (
			external_id, game_id, market, side, line, price, stake,
			model_version, edge_points, result, placed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`

	err := r.db.Pool.QueryRow(
		ctx, query,
		bet.ExternalID, bet.GameID, bet.Market, bet.Side, bet.Line,
		bet.Price, bet.Stake, bet.ModelVersion, bet.EdgePoints,
		bet.Result, bet.PlacedAt,
	).Scan(&bet.ID, &bet.CreatedAt, &bet.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create bet: %w", err)
	}

	log.Debug().
		Str("external_id", bet.ExternalID.String()).
		Int("game_id", bet.GameID).
		Str("market", bet.Market).
		Str("side", bet.Side).
		Msg("Bet created")

	return nil
}

const betColumns = `
	id, external_id, game_id, market, side, line, price, stake,
	model_version, edge_points, result, profit, closing_line, clv,
	placed_at, settled_at, created_at, updated_at
`

func scanBet(row pgx.Row) (*models.Bet, error) {
	var bet models.Bet
	err := row.Scan(
		&bet.ID, &bet.ExternalID, &bet.GameID, &bet.Market, &bet.Side,
		&bet.Line, &bet.Price, &bet.Stake, &bet.ModelVersion, &bet.EdgePoints,
		&bet.Result, &bet.Profit, &bet.ClosingLine, &bet.CLV,
		&bet.PlacedAt, &bet.SettledAt, &bet.CreatedAt, &bet.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &bet, nil
}

// GetByExternalID retrieves a bet by its external UUID
func (r *BetRepository) GetByExternalID(ctx context.Context, externalID string) (*models.Bet, error) {
	query := `SELECT ` + betColumns + ` FROM bets WHERE external_id = $1`

	bet, err := scanBet(r.db.Pool.QueryRow(ctx, query, externalID))
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("bet not found: external_id=%s", externalID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bet: %w", err)
	}

	return bet, nil
}

// ListPendingForGame retrieves ungraded bets on a game
func (r *BetRepository) ListPendingForGame(ctx context.Context, gameID int) ([]*models.Bet, error) {
	query := `SELECT ` + betColumns + `
		FROM bets
		WHERE game_id = $1 AND result = 'pending'
		ORDER BY placed_at`
	return r.list(ctx, query, gameID)
}

// ListPending retrieves all ungraded bets
func (r *BetRepository) ListPending(ctx context.Context) ([]*models.Bet, error) {
	query := `SELECT ` + betColumns + `
		FROM bets
		WHERE result = 'pending'
		ORDER BY placed_at`
	return r.list(ctx, query)
}

// ListSettled retrieves graded bets, newest first
func (r *BetRepository) ListSettled(ctx context.Context, limit int) ([]*models.Bet, error) {
	query := `SELECT ` + betColumns + `
		FROM bets
		WHERE result <> 'pending'
		ORDER BY settled_at DESC
		LIMIT $1`
	return r.list(ctx, query, limit)
}

func (r *BetRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.Bet, error) {
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bets: %w", err)
	}
	defer rows.Close()

	var bets []*models.Bet
	for rows.Next() {
		bet, err := scanBet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bet: %w", err)
		}
		bets = append(bets, bet)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bets: %w", err)
	}

	return bets, nil
}

// Settle records a graded bet's result, profit, and CLV
func (r *BetRepository) Settle(ctx context.Context, bet *models.Bet) error {
	query := `
		UPDATE bets SET
			result = $1,
			profit = $2,
			closing_line = $3,
			clv = $4,
			settled_at = NOW(),
			updated_at = NOW()
		WHERE id = $5
		RETURNING settled_at, updated_at
	`

	err := r.db.Pool.QueryRow(
		ctx, query,
		bet.Result, bet.Profit, bet.ClosingLine, bet.CLV, bet.ID,
	).Scan(&bet.SettledAt, &bet.UpdatedAt)

	if err == pgx.ErrNoRows {
		return fmt.Errorf("bet not found: id=%d", bet.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to settle bet: %w", err)
	}

	return nil
}
