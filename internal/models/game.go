package models

import (
	"database/sql"
	"time"
)

// Game statuses stored on the games table.
const (
	GameStatusScheduled = "scheduled"
	GameStatusFinal     = "final"
	GameStatusCancelled = "cancelled"
	GameStatusPostponed = "postponed"
)

// Game represents a college football game
type Game struct {
	ID          int       `db:"id"`
	GameID      int       `db:"game_id"`
	Season      int       `db:"season"`
	Week        int       `db:"week"`
	SeasonType  string    `db:"season_type"`
	HomeTeamID  int       `db:"home_team_id"`
	AwayTeamID  int       `db:"away_team_id"`
	HomeTeam    string    `db:"home_team"`
	AwayTeam    string    `db:"away_team"`
	Kickoff     time.Time `db:"kickoff"`
	NeutralSite bool      `db:"neutral_site"`
	Status      string    `db:"status"`

	HomeScore sql.NullInt32 `db:"home_score"`
	AwayScore sql.NullInt32 `db:"away_score"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Final reports whether the game has a settled result with scores.
func (g *Game) Final() bool {
	return g.Status == GameStatusFinal && g.HomeScore.Valid && g.AwayScore.Valid
}

// GameInput is used for creating/updating games from the schedule feed
type GameInput struct {
	ID          int    `json:"id"`
	Season      int    `json:"season"`
	Week        int    `json:"week"`
	SeasonType  string `json:"seasonType"`
	StartDate   string `json:"startDate"` // ISO 8601 format
	NeutralSite bool   `json:"neutralSite"`
	Completed   bool   `json:"completed"`

	HomeID     int    `json:"homeId"`
	HomeTeam   string `json:"homeTeam"`
	HomePoints *int   `json:"homePoints"`

	AwayID     int    `json:"awayId"`
	AwayTeam   string `json:"awayTeam"`
	AwayPoints *int   `json:"awayPoints"`
}

// ToGame converts GameInput (from API) to Game model
func (gi *GameInput) ToGame() *Game {
	game := &Game{
		GameID:      gi.ID,
		Season:      gi.Season,
		Week:        gi.Week,
		SeasonType:  gi.SeasonType,
		HomeTeamID:  gi.HomeID,
		AwayTeamID:  gi.AwayID,
		HomeTeam:    gi.HomeTeam,
		AwayTeam:    gi.AwayTeam,
		NeutralSite: gi.NeutralSite,
		Status:      GameStatusScheduled,
	}

	if kickoff, err := time.Parse(time.RFC3339, gi.StartDate); err == nil {
		game.Kickoff = kickoff
	}

	if gi.Completed && gi.HomePoints != nil && gi.AwayPoints != nil {
		game.Status = GameStatusFinal
		game.HomeScore = sql.NullInt32{Int32: int32(*gi.HomePoints), Valid: true}
		game.AwayScore = sql.NullInt32{Int32: int32(*gi.AwayPoints), Valid: true}
	}

	return game
}
