package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wheels195/cfb-market-edge-sub006/internal/edge"
	"github.com/wheels195/cfb-market-edge-sub006/internal/rating"
)

func TestProjectTotalFromRatings(t *testing.T) {
	t.Run("average teams land on the baseline", func(t *testing.T) {
		got := projectTotalFromRatings(rating.BaselineRating, rating.BaselineRating)
		assert.InDelta(t, totalsBaseline, got, 1e-9)
	})

	t.Run("strong matchup projects over the baseline", func(t *testing.T) {
		// Combined +100 deviation at 25 rating points per board point.
		got := projectTotalFromRatings(1600, 1500)
		assert.InDelta(t, totalsBaseline+4.0, got, 1e-9)
	})

	t.Run("weak matchup projects under the baseline", func(t *testing.T) {
		got := projectTotalFromRatings(1450, 1450)
		assert.InDelta(t, totalsBaseline-4.0, got, 1e-9)
	})

	t.Run("projection feeds the totals edge", func(t *testing.T) {
		predicted := projectTotalFromRatings(1600, 1550)
		points, side := edge.TotalEdge(52.5, predicted)
		assert.InDelta(t, 6.0, points, 1e-9)
		assert.Equal(t, edge.SideOver, side)
	})
}
