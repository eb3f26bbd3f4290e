package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"github.com/wheels195/cfb-market-edge-sub006/internal/models"
)

// TeamRepository handles team database operations
type TeamRepository struct {
	db *Database
}

// Upsert inserts or updates a team (for nightly refresh)
func (r *TeamRepository) Upsert(ctx context.Context, team *models.Team) error {
	query := `
		INSERT INTO teams (
			team_id, school_name, mascot, abbreviation, conference,
			division, classification, city, state
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (team_id) DO UPDATE SET
			school_name = EXCLUDED.school_name,
			mascot = EXCLUDED.mascot,
			abbreviation = EXCLUDED.abbreviation,
			conference = EXCLUDED.conference,
			division = EXCLUDED.division,
			classification = EXCLUDED.classification,
			city = EXCLUDED.city,
			state = EXCLUDED.state,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := r.db.Pool.QueryRow(
		ctx, query,
		team.TeamID, team.SchoolName, team.Mascot, team.Abbreviation,
		team.Conference, team.Division, team.Classification,
		team.City, team.State,
	).Scan(&team.ID, &team.CreatedAt, &team.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert team: %w", err)
	}

	return nil
}

// GetByTeamID retrieves a team by its canonical feed team ID
func (r *TeamRepository) GetByTeamID(ctx context.Context, teamID int) (*models.Team, error) {
	query := `
		SELECT id, team_id, school_name, mascot, abbreviation, conference,
		       division, classification, city, state, created_at, updated_at
		FROM teams
		WHERE team_id = $1
	`

	var team models.Team
	err := r.db.Pool.QueryRow(ctx, query, teamID).Scan(
		&team.ID, &team.TeamID, &team.SchoolName, &team.Mascot,
		&team.Abbreviation, &team.Conference, &team.Division,
		&team.Classification, &team.City, &team.State,
		&team.CreatedAt, &team.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("team not found: team_id=%d", teamID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}

	return &team, nil
}

// GetBySchoolName retrieves a team by its school name
func (r *TeamRepository) GetBySchoolName(ctx context.Context, school string) (*models.Team, error) {
	query := `
		SELECT id, team_id, school_name, mascot, abbreviation, conference,
		       division, classification, city, state, created_at, updated_at
		FROM teams
		WHERE school_name = $1
	`

	var team models.Team
	err := r.db.Pool.QueryRow(ctx, query, school).Scan(
		&team.ID, &team.TeamID, &team.SchoolName, &team.Mascot,
		&team.Abbreviation, &team.Conference, &team.Division,
		&team.Classification, &team.City, &team.State,
		&team.CreatedAt, &team.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("team not found: school=%s", school)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}

	return &team, nil
}

// List retrieves all teams
func (r *TeamRepository) List(ctx context.Context) ([]*models.Team, error) {
	query := `
		SELECT id, team_id, school_name, mascot, abbreviation, conference,
		       division, classification, city, state, created_at, updated_at
		FROM teams
		ORDER BY school_name
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	var teams []*models.Team
	for rows.Next() {
		var team models.Team
		err := rows.Scan(
			&team.ID, &team.TeamID, &team.SchoolName, &team.Mascot,
			&team.Abbreviation, &team.Conference, &team.Division,
			&team.Classification, &team.City, &team.State,
			&team.CreatedAt, &team.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, &team)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating teams: %w", err)
	}

	return teams, nil
}

// Count returns the total number of teams
func (r *TeamRepository) Count(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM teams`

	var count int
	err := r.db.Pool.QueryRow(ctx, query).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count teams: %w", err)
	}

	return count, nil
}

// Delete deletes a team
func (r *TeamRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM teams WHERE id = $1`

	result, err := r.db.Pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("team not found: id=%d", id)
	}

	log.Debug().Int("id", id).Msg("Team deleted")
	return nil
}
