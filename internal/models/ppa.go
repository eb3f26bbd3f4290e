package models

import (
	"database/sql"
	"time"
)

// TeamGamePPA is one team's per-game predicted-points-added splits.
// Rows are keyed by (game, team); the rating pass joins both rows of a
// game to build the opponent-adjusted performance differential.
type TeamGamePPA struct {
	ID       int    `db:"id"`
	GameID   int    `db:"game_id"`
	Season   int    `db:"season"`
	Week     int    `db:"week"`
	TeamID   int    `db:"team_id"`
	Team     string `db:"team"`
	Opponent string `db:"opponent"`

	OffenseOverall sql.NullFloat64 `db:"offense_overall"`
	OffensePassing sql.NullFloat64 `db:"offense_passing"`
	OffenseRushing sql.NullFloat64 `db:"offense_rushing"`
	DefenseOverall sql.NullFloat64 `db:"defense_overall"`
	DefensePassing sql.NullFloat64 `db:"defense_passing"`
	DefenseRushing sql.NullFloat64 `db:"defense_rushing"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// PPASplit is one unit's PPA breakdown in the stats feed.
type PPASplit struct {
	Overall float64 `json:"overall"`
	Passing float64 `json:"passing"`
	Rushing float64 `json:"rushing"`
}

// TeamGamePPAInput is used for creating/updating per-game PPA rows
// from the stats feed
type TeamGamePPAInput struct {
	GameID   int      `json:"gameId"`
	Season   int      `json:"season"`
	Week     int      `json:"week"`
	TeamID   int      `json:"teamId"`
	Team     string   `json:"team"`
	Opponent string   `json:"opponent"`
	Offense  PPASplit `json:"offense"`
	Defense  PPASplit `json:"defense"`
}

// ToTeamGamePPA converts TeamGamePPAInput (from API) to TeamGamePPA model
func (pi *TeamGamePPAInput) ToTeamGamePPA() *TeamGamePPA {
	return &TeamGamePPA{
		GameID:         pi.GameID,
		Season:         pi.Season,
		Week:           pi.Week,
		TeamID:         pi.TeamID,
		Team:           pi.Team,
		Opponent:       pi.Opponent,
		OffenseOverall: sql.NullFloat64{Float64: pi.Offense.Overall, Valid: true},
		OffensePassing: sql.NullFloat64{Float64: pi.Offense.Passing, Valid: true},
		OffenseRushing: sql.NullFloat64{Float64: pi.Offense.Rushing, Valid: true},
		DefenseOverall: sql.NullFloat64{Float64: pi.Defense.Overall, Valid: true},
		DefensePassing: sql.NullFloat64{Float64: pi.Defense.Passing, Valid: true},
		DefenseRushing: sql.NullFloat64{Float64: pi.Defense.Rushing, Valid: true},
	}
}
