package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"github.com/wheels195/cfb-market-edge-sub006/internal/models"
)

// GameRepository handles game database operations
type GameRepository struct {
	db *Database
}

// Upsert inserts or updates a game by its feed game ID
func (r *GameRepository) Upsert(ctx context.Context, game *models.Game) error {
	query := `
		INSERT INTO games (
			game_id, season, week, season_type, home_team_id, away_team_id,
			home_team, away_team, kickoff, neutral_site, status,
			home_score, away_score
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (game_id) DO UPDATE SET
			season = EXCLUDED.season,
			week = EXCLUDED.week,
			season_type = EXCLUDED.season_type,
			home_team_id = EXCLUDED.home_team_id,
			away_team_id = EXCLUDED.away_team_id,
			home_team = EXCLUDED.home_team,
			away_team = EXCLUDED.away_team,
			kickoff = EXCLUDED.kickoff,
			neutral_site = EXCLUDED.neutral_site,
			status = EXCLUDED.status,
			home_score = EXCLUDED.home_score,
			away_score = EXCLUDED.away_score,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := r.db.Pool.QueryRow(
		ctx, query,
		game.GameID, game.Season, game.Week, game.SeasonType,
		game.HomeTeamID, game.AwayTeamID, game.HomeTeam, game.AwayTeam,
		game.Kickoff, game.NeutralSite, game.Status,
		game.HomeScore, game.AwayScore,
	).Scan(&game.ID, &game.CreatedAt, &game.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert game: %w", err)
	}

	return nil
}

const gameColumns = `
	id, game_id, season, week, season_type, home_team_id, away_team_id,
	home_team, away_team, kickoff, neutral_site, status,
	home_score, away_score, created_at, updated_at
`

func scanGame(row pgx.Row) (*models.Game, error) {
	var game models.Game
	err := row.Scan(
		&game.ID, &game.GameID, &game.Season, &game.Week, &game.SeasonType,
		&game.HomeTeamID, &game.AwayTeamID, &game.HomeTeam, &game.AwayTeam,
		&game.Kickoff, &game.NeutralSite, &game.Status,
		&game.HomeScore, &game.AwayScore, &game.CreatedAt, &game.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &game, nil
}

// GetByGameID retrieves a game by its feed game ID
func (r *GameRepository) GetByGameID(ctx context.Context, gameID int) (*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE game_id = $1`

	game, err := scanGame(r.db.Pool.QueryRow(ctx, query, gameID))
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("game not found: game_id=%d", gameID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

// GetByID retrieves a game by its database ID
func (r *GameRepository) GetByID(ctx context.Context, id int) (*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE id = $1`

	game, err := scanGame(r.db.Pool.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("game not found: id=%d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

// ListBySeason retrieves all games in a season, ordered chronologically
func (r *GameRepository) ListBySeason(ctx context.Context, season int) ([]*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE season = $1 ORDER BY week, kickoff`
	return r.list(ctx, query, season)
}

// ListFinalsBySeason retrieves a season's final games with scores,
// ordered chronologically
func (r *GameRepository) ListFinalsBySeason(ctx context.Context, season int) ([]*models.Game, error) {
	query := `SELECT ` + gameColumns + `
		FROM games
		WHERE season = $1
		  AND status = 'final'
		  AND home_score IS NOT NULL
		  AND away_score IS NOT NULL
		ORDER BY week, kickoff`
	return r.list(ctx, query, season)
}

// ListUpcoming retrieves scheduled games kicking off in the next n days
func (r *GameRepository) ListUpcoming(ctx context.Context, days int) ([]*models.Game, error) {
	query := `SELECT ` + gameColumns + `
		FROM games
		WHERE status = 'scheduled'
		  AND kickoff BETWEEN NOW() AND NOW() + $1 * INTERVAL '1 day'
		ORDER BY kickoff`
	return r.list(ctx, query, days)
}

// ListRecentlyFinal retrieves final games updated in the last n hours,
// used by the grading poll
func (r *GameRepository) ListRecentlyFinal(ctx context.Context, hours int) ([]*models.Game, error) {
	query := `SELECT ` + gameColumns + `
		FROM games
		WHERE status = 'final'
		  AND updated_at > NOW() - $1 * INTERVAL '1 hour'
		ORDER BY kickoff`
	return r.list(ctx, query, hours)
}

// FindByTeamsAroundKickoff retrieves the game between two teams
// kicking off within a day of the given time. Feeds disagree on exact
// kickoff timestamps; the slack covers timezone drift and flexed
// start times.
func (r *GameRepository) FindByTeamsAroundKickoff(ctx context.Context, homeTeamID, awayTeamID int, kickoff time.Time) (*models.Game, error) {
	query := `SELECT ` + gameColumns + `
		FROM games
		WHERE home_team_id = $1 AND away_team_id = $2
		  AND kickoff BETWEEN $3::timestamptz - INTERVAL '1 day' AND $3::timestamptz + INTERVAL '1 day'
		LIMIT 1`

	game, err := scanGame(r.db.Pool.QueryRow(ctx, query, homeTeamID, awayTeamID, kickoff))
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("no game for teams %d/%d near %s", homeTeamID, awayTeamID, kickoff.Format(time.RFC3339))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find game by teams: %w", err)
	}

	return game, nil
}

func (r *GameRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.Game, error) {
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	defer rows.Close()

	var games []*models.Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, game)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating games: %w", err)
	}

	return games, nil
}

// UpdateScore sets a game's final score and status
func (r *GameRepository) UpdateScore(ctx context.Context, gameID, homeScore, awayScore int) error {
	query := `
		UPDATE games SET
			home_score = $1,
			away_score = $2,
			status = 'final',
			updated_at = NOW()
		WHERE game_id = $3
	`

	result, err := r.db.Pool.Exec(ctx, query, homeScore, awayScore, gameID)
	if err != nil {
		return fmt.Errorf("failed to update score: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("game not found: game_id=%d", gameID)
	}

	log.Debug().
		Int("game_id", gameID).
		Int("home_score", homeScore).
		Int("away_score", awayScore).
		Msg("Game score updated")

	return nil
}
