package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wheels195/cfb-market-edge-sub006/internal/models"
)

func scoreEntry(name, score string) struct {
	Name  string `json:"name"`
	Score string `json:"score"`
} {
	return struct {
		Name  string `json:"name"`
		Score string `json:"score"`
	}{Name: name, Score: score}
}

func TestParseFinalScore(t *testing.T) {
	base := OddsScore{
		ID:       "abc",
		HomeTeam: "Georgia Bulldogs",
		AwayTeam: "Alabama Crimson Tide",
	}

	t.Run("completed game with both scores", func(t *testing.T) {
		score := base
		score.Completed = true
		score.Scores = append(score.Scores,
			scoreEntry("Georgia Bulldogs", "27"),
			scoreEntry("Alabama Crimson Tide", "24"),
		)

		home, away, ok := ParseFinalScore(&score)
		require.True(t, ok)
		assert.Equal(t, 27, home)
		assert.Equal(t, 24, away)
	})

	t.Run("in-progress game is not final", func(t *testing.T) {
		score := base
		score.Completed = false
		score.Scores = append(score.Scores,
			scoreEntry("Georgia Bulldogs", "14"),
			scoreEntry("Alabama Crimson Tide", "10"),
		)

		_, _, ok := ParseFinalScore(&score)
		assert.False(t, ok)
	})

	t.Run("missing side", func(t *testing.T) {
		score := base
		score.Completed = true
		score.Scores = append(score.Scores, scoreEntry("Georgia Bulldogs", "27"))

		_, _, ok := ParseFinalScore(&score)
		assert.False(t, ok)
	})

	t.Run("unparseable score", func(t *testing.T) {
		score := base
		score.Completed = true
		score.Scores = append(score.Scores,
			scoreEntry("Georgia Bulldogs", "27"),
			scoreEntry("Alabama Crimson Tide", "n/a"),
		)

		_, _, ok := ParseFinalScore(&score)
		assert.False(t, ok)
	})
}

func TestParseEventLines(t *testing.T) {
	point := func(v float64) *float64 { return &v }
	updated := time.Now()

	event := &OddsEvent{
		ID:       "evt1",
		HomeTeam: "Georgia Bulldogs",
		AwayTeam: "Alabama Crimson Tide",
		Bookmakers: []OddsBookmaker{
			{
				Key:        "draftkings",
				LastUpdate: updated,
				Markets: []OddsMarket{
					{
						Key: "spreads",
						Outcomes: []OddsOutcome{
							// Away outcome listed first; the home handicap
							// must still come from the home outcome.
							{Name: "Alabama Crimson Tide", Price: -105, Point: point(3.5)},
							{Name: "Georgia Bulldogs", Price: -115, Point: point(-3.5)},
						},
					},
					{
						Key: "totals",
						Outcomes: []OddsOutcome{
							{Name: "Over", Price: -110, Point: point(52.5)},
							{Name: "Under", Price: -110, Point: point(52.5)},
						},
					},
				},
			},
		},
	}

	lines := ParseEventLines(event)
	require.Len(t, lines, 2)

	spread := lines[0]
	assert.Equal(t, models.MarketSpread, spread.Market)
	assert.Equal(t, "draftkings", spread.Bookmaker)
	require.NotNil(t, spread.SpreadHome)
	assert.Equal(t, -3.5, *spread.SpreadHome)
	require.NotNil(t, spread.PriceHome)
	assert.Equal(t, -115, *spread.PriceHome)
	require.NotNil(t, spread.PriceAway)
	assert.Equal(t, -105, *spread.PriceAway)

	total := lines[1]
	assert.Equal(t, models.MarketTotal, total.Market)
	require.NotNil(t, total.Total)
	assert.Equal(t, 52.5, *total.Total)

	t.Run("spread without home point is dropped", func(t *testing.T) {
		broken := &OddsEvent{
			HomeTeam: "Georgia Bulldogs",
			AwayTeam: "Alabama Crimson Tide",
			Bookmakers: []OddsBookmaker{
				{
					Key: "fanduel",
					Markets: []OddsMarket{
						{
							Key: "spreads",
							Outcomes: []OddsOutcome{
								{Name: "Alabama Crimson Tide", Price: -110, Point: point(3.5)},
							},
						},
					},
				},
			},
		}
		assert.Empty(t, ParseEventLines(broken))
	})
}
