package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the edge pipeline

var (
	// Feed call metrics
	FeedCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cfb_feed_calls_total",
			Help: "Total number of external feed API calls",
		},
		[]string{"feed", "endpoint", "status"},
	)

	FeedCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cfb_feed_call_duration_seconds",
			Help:    "Duration of feed API calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"feed", "endpoint"},
	)

	// Database metrics
	DBQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cfb_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"operation", "table", "status"},
	)

	DBConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cfb_db_connections_active",
			Help: "Number of active database connections",
		},
	)

	// Cache metrics
	CacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cfb_cache_hits_total",
			Help: "Total number of cache hits",
		},
	)

	CacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cfb_cache_misses_total",
			Help: "Total number of cache misses",
		},
	)

	// Pipeline job metrics
	JobRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cfb_job_runs_total",
			Help: "Total number of pipeline job runs",
		},
		[]string{"job", "status"},
	)

	JobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cfb_job_duration_seconds",
			Help:    "Duration of pipeline jobs in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"job"},
	)

	JobUnitsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cfb_job_units_skipped_total",
			Help: "Units skipped by pipeline jobs (bad data, unresolved teams)",
		},
		[]string{"job", "reason"},
	)

	// Domain metrics
	RatingSnapshotsWritten = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cfb_rating_snapshots_written_total",
			Help: "Total number of rating snapshots written",
		},
	)

	RatingMarginFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cfb_rating_margin_fallbacks_total",
			Help: "Rating updates that fell back to margin-only because PPA was missing",
		},
	)

	EdgesDetected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cfb_edges_detected_total",
			Help: "Total number of bettable edges detected",
		},
		[]string{"market", "tier"},
	)

	BetsGraded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cfb_bets_graded_total",
			Help: "Total number of bets graded",
		},
		[]string{"market", "result"},
	)

	LineMovementsDetected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cfb_line_movements_detected_total",
			Help: "Total number of line movements detected",
		},
	)

	TeamsUnresolved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cfb_teams_unresolved_total",
			Help: "Odds feed team names that could not be resolved",
		},
		[]string{"source"},
	)

	// Error metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cfb_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)

	// System metrics
	SystemUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cfb_system_uptime_seconds",
			Help: "System uptime in seconds",
		},
	)

	LastSuccessfulJob = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cfb_last_successful_job_timestamp",
			Help: "Timestamp of the last successful run per job",
		},
		[]string{"job"},
	)
)

// RecordFeedCall records a feed API call metric
func RecordFeedCall(feed, endpoint, status string, duration float64) {
	FeedCallsTotal.WithLabelValues(feed, endpoint, status).Inc()
	FeedCallDuration.WithLabelValues(feed, endpoint).Observe(duration)
}

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table, status string) {
	DBQueriesTotal.WithLabelValues(operation, table, status).Inc()
}

// RecordCacheHit records a cache hit
func RecordCacheHit() {
	CacheHitsTotal.Inc()
}

// RecordCacheMiss records a cache miss
func RecordCacheMiss() {
	CacheMissesTotal.Inc()
}

// RecordJob records a pipeline job run
func RecordJob(job, status string, duration float64) {
	JobRunsTotal.WithLabelValues(job, status).Inc()
	JobDuration.WithLabelValues(job).Observe(duration)

	if status == "success" {
		LastSuccessfulJob.WithLabelValues(job).SetToCurrentTime()
	}
}

// RecordSkip records a skipped unit within a job
func RecordSkip(job, reason string) {
	JobUnitsSkipped.WithLabelValues(job, reason).Inc()
}

// RecordMarginFallback records a rating update that used the
// margin-only path. The game is still processed; this is not a skip.
func RecordMarginFallback() {
	RatingMarginFallbacks.Inc()
}

// RecordEdge records a detected bettable edge
func RecordEdge(market, tier string) {
	EdgesDetected.WithLabelValues(market, tier).Inc()
}

// RecordBetGraded records a graded bet
func RecordBetGraded(market, result string) {
	BetsGraded.WithLabelValues(market, result).Inc()
}

// RecordLineMovement records a line movement detection
func RecordLineMovement() {
	LineMovementsDetected.Inc()
}

// RecordUnresolvedTeam records an odds feed name that failed resolution
func RecordUnresolvedTeam(source string) {
	TeamsUnresolved.WithLabelValues(source).Inc()
}

// RecordError records an error
func RecordError(component, errorType string) {
	ErrorsTotal.WithLabelValues(component, errorType).Inc()
}

// UpdateDBConnectionStats updates database connection pool statistics
func UpdateDBConnectionStats(active int32) {
	DBConnectionsActive.Set(float64(active))
}
