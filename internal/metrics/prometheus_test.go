package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordMarginFallback(t *testing.T) {
	fallbacksBefore := testutil.ToFloat64(RatingMarginFallbacks)
	skippedBefore := testutil.ToFloat64(JobUnitsSkipped.WithLabelValues("rebuild_ratings", "missing_ppa"))

	RecordMarginFallback()

	// A fallback is a processed game, not a skipped one.
	assert.Equal(t, fallbacksBefore+1, testutil.ToFloat64(RatingMarginFallbacks))
	assert.Equal(t, skippedBefore, testutil.ToFloat64(JobUnitsSkipped.WithLabelValues("rebuild_ratings", "missing_ppa")))
}

func TestRecordSkip(t *testing.T) {
	before := testutil.ToFloat64(JobUnitsSkipped.WithLabelValues("sync_lines", "unresolved_team"))
	RecordSkip("sync_lines", "unresolved_team")
	assert.Equal(t, before+1, testutil.ToFloat64(JobUnitsSkipped.WithLabelValues("sync_lines", "unresolved_team")))
}
