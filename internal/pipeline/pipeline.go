// Package pipeline holds the batch jobs that move data through the
// system: schedule sync, line capture, rating rebuilds, projection
// refresh, and bet grading. Jobs never abort on a single bad unit;
// they skip it, record it in the summary, and keep going.
package pipeline

import (
	"fmt"

	"github.com/wheels195/cfb-market-edge-sub006/internal/cache"
	"github.com/wheels195/cfb-market-edge-sub006/internal/client"
	"github.com/wheels195/cfb-market-edge-sub006/internal/config"
	"github.com/wheels195/cfb-market-edge-sub006/internal/identity"
	"github.com/wheels195/cfb-market-edge-sub006/internal/rating"
	"github.com/wheels195/cfb-market-edge-sub006/internal/repository"
)

// Summary reports the outcome of one batch job run.
type Summary struct {
	Processed int      `json:"processed"`
	Skipped   int      `json:"skipped"`
	Errored   int      `json:"errored"`
	Errors    []string `json:"errors,omitempty"`
}

// maxRecordedErrors bounds the error list so a systematically failing
// feed cannot balloon the summary.
const maxRecordedErrors = 50

func (s *Summary) addError(format string, args ...interface{}) {
	s.Errored++
	if len(s.Errors) < maxRecordedErrors {
		s.Errors = append(s.Errors, fmt.Sprintf(format, args...))
	}
}

// Pipeline wires the feeds, stores, and model together. One instance
// serves all jobs; jobs are safe to run concurrently with each other
// except RebuildRatings, which is the single writer of the rating
// series.
type Pipeline struct {
	cfg      *config.Config
	db       *repository.Database
	cfbd     *client.CFBDClient
	odds     *client.OddsClient
	resolver identity.Resolver
	cache    *cache.RedisCache // nil when Redis is unavailable
	engine   *rating.Engine
}

// New builds a pipeline. cache may be nil; jobs then skip caching.
func New(cfg *config.Config, db *repository.Database, cfbd *client.CFBDClient, odds *client.OddsClient, resolver identity.Resolver, redisCache *cache.RedisCache) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		db:       db,
		cfbd:     cfbd,
		odds:     odds,
		resolver: resolver,
		cache:    redisCache,
		engine:   rating.NewEngineWith(cfg.EloKFactor, cfg.HomeFieldBonus, rating.MaxMarginMultiplier),
	}
}
