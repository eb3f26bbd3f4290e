package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/wheels195/cfb-market-edge-sub006/internal/models"
)

// PPARepository handles per-game PPA database operations
type PPARepository struct {
	db *Database
}

// Upsert inserts or updates a team's per-game PPA row
func (r *PPARepository) Upsert(ctx context.Context, row *models.TeamGamePPA) error {
	query := `
		INSERT INTO team_game_ppa (
			game_id, season, week, team_id, team, opponent,
			offense_overall, offense_passing, offense_rushing,
			defense_overall, defense_passing, defense_rushing
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (game_id, team_id) DO UPDATE SET
			season = EXCLUDED.season,
			week = EXCLUDED.week,
			team = EXCLUDED.team,
			opponent = EXCLUDED.opponent,
			offense_overall = EXCLUDED.offense_overall,
			offense_passing = EXCLUDED.offense_passing,
			offense_rushing = EXCLUDED.offense_rushing,
			defense_overall = EXCLUDED.defense_overall,
			defense_passing = EXCLUDED.defense_passing,
			defense_rushing = EXCLUDED.defense_rushing,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := r.db.Pool.QueryRow(
		ctx, query,
		row.GameID, row.Season, row.Week, row.TeamID, row.Team, row.Opponent,
		row.OffenseOverall, row.OffensePassing, row.OffenseRushing,
		row.DefenseOverall, row.DefensePassing, row.DefenseRushing,
	).Scan(&row.ID, &row.CreatedAt, &row.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert ppa row: %w", err)
	}

	return nil
}

const ppaColumns = `
	id, game_id, season, week, team_id, team, opponent,
	offense_overall, offense_passing, offense_rushing,
	defense_overall, defense_passing, defense_rushing,
	created_at, updated_at
`

func scanPPA(row pgx.Row) (*models.TeamGamePPA, error) {
	var p models.TeamGamePPA
	err := row.Scan(
		&p.ID, &p.GameID, &p.Season, &p.Week, &p.TeamID, &p.Team, &p.Opponent,
		&p.OffenseOverall, &p.OffensePassing, &p.OffenseRushing,
		&p.DefenseOverall, &p.DefensePassing, &p.DefenseRushing,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetForGame retrieves both teams' PPA rows for a game, keyed by feed
// game ID. Missing rows are not an error; the rating pass degrades to
// margin-only updates.
func (r *PPARepository) GetForGame(ctx context.Context, gameID int) ([]*models.TeamGamePPA, error) {
	query := `SELECT ` + ppaColumns + ` FROM team_game_ppa WHERE game_id = $1`

	rows, err := r.db.Pool.Query(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get ppa for game: %w", err)
	}
	defer rows.Close()

	var result []*models.TeamGamePPA
	for rows.Next() {
		p, err := scanPPA(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ppa row: %w", err)
		}
		result = append(result, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ppa rows: %w", err)
	}

	return result, nil
}

// ListBySeason retrieves all PPA rows for a season
func (r *PPARepository) ListBySeason(ctx context.Context, season int) ([]*models.TeamGamePPA, error) {
	query := `SELECT ` + ppaColumns + ` FROM team_game_ppa WHERE season = $1 ORDER BY week, game_id`

	rows, err := r.db.Pool.Query(ctx, query, season)
	if err != nil {
		return nil, fmt.Errorf("failed to list ppa rows: %w", err)
	}
	defer rows.Close()

	var result []*models.TeamGamePPA
	for rows.Next() {
		p, err := scanPPA(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ppa row: %w", err)
		}
		result = append(result, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ppa rows: %w", err)
	}

	return result, nil
}
