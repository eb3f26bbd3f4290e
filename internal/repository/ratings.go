package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/wheels195/cfb-market-edge-sub006/internal/rating"
)

// RatingRepository persists rating snapshots. It implements
// rating.Store, so the engine and backtests run unchanged against
// Postgres or the in-memory store.
type RatingRepository struct {
	db *Database
}

var _ rating.Store = (*RatingRepository)(nil)

// Get returns the snapshot at exactly (season, week)
func (r *RatingRepository) Get(ctx context.Context, teamID, season, week int) (*rating.Snapshot, error) {
	query := `
		SELECT team_id, season, week, rating, games_played
		FROM rating_snapshots
		WHERE team_id = $1 AND season = $2 AND week = $3
	`

	var snap rating.Snapshot
	err := r.db.Pool.QueryRow(ctx, query, teamID, season, week).Scan(
		&snap.TeamID, &snap.Season, &snap.Week, &snap.Rating, &snap.GamesPlayed,
	)

	if err == pgx.ErrNoRows {
		return nil, rating.ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rating snapshot: %w", err)
	}

	return &snap, nil
}

// Put upserts a snapshot by (team, season, week)
func (r *RatingRepository) Put(ctx context.Context, snap *rating.Snapshot) error {
	query := `
		INSERT INTO rating_snapshots (team_id, season, week, rating, games_played)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (team_id, season, week) DO UPDATE SET
			rating = EXCLUDED.rating,
			games_played = EXCLUDED.games_played,
			updated_at = NOW()
	`

	_, err := r.db.Pool.Exec(ctx, query, snap.TeamID, snap.Season, snap.Week, snap.Rating, snap.GamesPlayed)
	if err != nil {
		return fmt.Errorf("failed to put rating snapshot: %w", err)
	}

	return nil
}

// Latest returns the highest-week snapshot for (team, season)
func (r *RatingRepository) Latest(ctx context.Context, teamID, season int) (*rating.Snapshot, error) {
	query := `
		SELECT team_id, season, week, rating, games_played
		FROM rating_snapshots
		WHERE team_id = $1 AND season = $2
		ORDER BY week DESC
		LIMIT 1
	`

	var snap rating.Snapshot
	err := r.db.Pool.QueryRow(ctx, query, teamID, season).Scan(
		&snap.TeamID, &snap.Season, &snap.Week, &snap.Rating, &snap.GamesPlayed,
	)

	if err == pgx.ErrNoRows {
		return nil, rating.ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest rating snapshot: %w", err)
	}

	return &snap, nil
}

// DeleteSeason removes all snapshots for a season ahead of a rebuild
func (r *RatingRepository) DeleteSeason(ctx context.Context, season int) error {
	query := `DELETE FROM rating_snapshots WHERE season = $1`

	if _, err := r.db.Pool.Exec(ctx, query, season); err != nil {
		return fmt.Errorf("failed to delete season snapshots: %w", err)
	}

	return nil
}
