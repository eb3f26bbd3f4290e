package rating

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"
)

// ScoredGame is the minimal final-game input to a chronological rating
// pass. Perf is optional; when nil the engine falls back to the
// margin-only update.
type ScoredGame struct {
	GameID     int
	Season     int
	Week       int
	Kickoff    time.Time
	HomeTeamID int
	AwayTeamID int
	HomeScore  int
	AwayScore  int
	Perf       *GamePerformance
}

// PassResult summarizes one chronological pass.
type PassResult struct {
	Processed int
	Skipped   int
	Snapshots int
}

// Processor runs chronological rating passes over final games, reading
// and writing snapshots through a Store. It is the single writer of the
// rating time series.
type Processor struct {
	engine        *Engine
	store         Store
	leagueAverage float64
}

// NewProcessor returns a processor over the given engine and store.
func NewProcessor(engine *Engine, store Store) *Processor {
	return &Processor{engine: engine, store: store, leagueAverage: BaselineRating}
}

// ProcessSeason replays a season's final games in kickoff order and
// writes a snapshot after each update, dated to the following week.
// Expectations and updates always use the ratings as they stood before
// the game being processed.
func (p *Processor) ProcessSeason(ctx context.Context, season int, games []ScoredGame) (*PassResult, error) {
	// Feeds may deliver pages out of order; chronological replay is a
	// correctness invariant, not a preference.
	sorted := make([]ScoredGame, len(games))
	copy(sorted, games)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Week != sorted[j].Week {
			return sorted[i].Week < sorted[j].Week
		}
		return sorted[i].Kickoff.Before(sorted[j].Kickoff)
	})

	result := &PassResult{}
	current := make(map[int]*Snapshot)

	for _, game := range sorted {
		if game.Season != season {
			result.Skipped++
			continue
		}

		home, err := p.workingSnapshot(ctx, current, game.HomeTeamID, season)
		if err != nil {
			return result, fmt.Errorf("load home rating for game %d: %w", game.GameID, err)
		}
		away, err := p.workingSnapshot(ctx, current, game.AwayTeamID, season)
		if err != nil {
			return result, fmt.Errorf("load away rating for game %d: %w", game.GameID, err)
		}

		var perf *PerformanceDiff
		if game.Perf != nil {
			diff := game.Perf.Differential(home.Rating, away.Rating, p.leagueAverage)
			perf = &diff
		}

		newHome, newAway := p.engine.UpdateWithPerformance(home.Rating, away.Rating, game.HomeScore, game.AwayScore, perf)

		home.Rating = newHome
		home.GamesPlayed++
		home.Week = game.Week + 1
		away.Rating = newAway
		away.GamesPlayed++
		away.Week = game.Week + 1

		if err := p.store.Put(ctx, home); err != nil {
			return result, fmt.Errorf("persist home snapshot for game %d: %w", game.GameID, err)
		}
		if err := p.store.Put(ctx, away); err != nil {
			return result, fmt.Errorf("persist away snapshot for game %d: %w", game.GameID, err)
		}

		result.Processed++
		result.Snapshots += 2
	}

	return result, nil
}

// workingSnapshot returns the team's in-pass rating, seeding it on first
// sighting: prior-season carryover regressed to the mean, or the baseline
// for a team with no history.
func (p *Processor) workingSnapshot(ctx context.Context, current map[int]*Snapshot, teamID, season int) (*Snapshot, error) {
	if snap, ok := current[teamID]; ok {
		return snap, nil
	}

	snap := &Snapshot{TeamID: teamID, Season: season, Week: 0, Rating: BaselineRating}

	prior, err := SnapshotBefore(ctx, p.store, teamID, season, 1)
	switch {
	case err == nil && prior.Season == season:
		// Mid-season re-run: resume from the stored series.
		*snap = *prior
	case err == nil:
		snap.Rating = RegressForNewSeason(prior.Rating)
	case !errors.Is(err, ErrNoSnapshot):
		return nil, err
	}

	// Write the preseason prior so week-1 projections have a week-0 row.
	if snap.Week == 0 {
		if err := p.store.Put(ctx, snap); err != nil {
			return nil, err
		}
	}

	current[teamID] = snap
	return snap, nil
}
