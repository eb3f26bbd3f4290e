package models

import (
	"database/sql"
	"time"
)

// Team represents a college football team
type Team struct {
	ID             int            `db:"id"`
	TeamID         int            `db:"team_id"`
	SchoolName     string         `db:"school_name"`
	Mascot         sql.NullString `db:"mascot"`
	Abbreviation   sql.NullString `db:"abbreviation"`
	Conference     sql.NullString `db:"conference"`
	Division       sql.NullString `db:"division"`
	Classification sql.NullString `db:"classification"`
	City           sql.NullString `db:"city"`
	State          sql.NullString `db:"state"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

// TeamInput is used for creating/updating teams from the schedule feed
type TeamInput struct {
	ID             int    `json:"id"`
	School         string `json:"school"`
	Mascot         string `json:"mascot"`
	Abbreviation   string `json:"abbreviation"`
	Conference     string `json:"conference"`
	Division       string `json:"division"`
	Classification string `json:"classification"`
	Location       struct {
		City  string `json:"city"`
		State string `json:"state"`
	} `json:"location"`
}

// ToTeam converts TeamInput (from API) to Team model
func (ti *TeamInput) ToTeam() *Team {
	team := &Team{
		TeamID:     ti.ID,
		SchoolName: ti.School,
	}

	if ti.Mascot != "" {
		team.Mascot = sql.NullString{String: ti.Mascot, Valid: true}
	}
	if ti.Abbreviation != "" {
		team.Abbreviation = sql.NullString{String: ti.Abbreviation, Valid: true}
	}
	if ti.Conference != "" {
		team.Conference = sql.NullString{String: ti.Conference, Valid: true}
	}
	if ti.Division != "" {
		team.Division = sql.NullString{String: ti.Division, Valid: true}
	}
	if ti.Classification != "" {
		team.Classification = sql.NullString{String: ti.Classification, Valid: true}
	}
	if ti.Location.City != "" {
		team.City = sql.NullString{String: ti.Location.City, Valid: true}
	}
	if ti.Location.State != "" {
		team.State = sql.NullString{String: ti.Location.State, Valid: true}
	}

	return team
}
