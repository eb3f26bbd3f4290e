package rating

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// ErrNoSnapshot is returned when no snapshot exists for the requested key
// or anywhere earlier in the lookback window.
var ErrNoSnapshot = errors.New("rating: no snapshot")

// How many prior seasons SnapshotBefore will walk before giving up.
const snapshotLookbackSeasons = 5

// Snapshot is a team's rating as of (season, week). Week 0 is the
// preseason prior.
type Snapshot struct {
	TeamID      int
	Season      int
	Week        int
	Rating      float64
	GamesPlayed int
}

// Store is the persistence abstraction for the rating time series. The
// engine is a pure function of its inputs; everything stateful goes
// through this interface.
type Store interface {
	// Get returns the snapshot at exactly (season, week), or ErrNoSnapshot.
	Get(ctx context.Context, teamID, season, week int) (*Snapshot, error)
	// Put upserts a snapshot by (team, season, week). Re-putting the same
	// value is a no-op.
	Put(ctx context.Context, snap *Snapshot) error
	// Latest returns the highest-week snapshot for (team, season), or
	// ErrNoSnapshot.
	Latest(ctx context.Context, teamID, season int) (*Snapshot, error)
}

// SnapshotBefore selects the newest snapshot strictly earlier than
// (season, week): week-1 down to the preseason prior, then prior seasons'
// final snapshots. This is the single point-in-time selection rule; a
// projection for week N must never read week-N-or-later data.
func SnapshotBefore(ctx context.Context, store Store, teamID, season, week int) (*Snapshot, error) {
	for wk := week - 1; wk >= 0; wk-- {
		snap, err := store.Get(ctx, teamID, season, wk)
		if err == nil {
			return snap, nil
		}
		if !errors.Is(err, ErrNoSnapshot) {
			return nil, err
		}
	}

	for yr := season - 1; yr >= season-snapshotLookbackSeasons; yr-- {
		snap, err := store.Latest(ctx, teamID, yr)
		if err == nil {
			return snap, nil
		}
		if !errors.Is(err, ErrNoSnapshot) {
			return nil, err
		}
	}

	return nil, ErrNoSnapshot
}

type snapKey struct {
	teamID int
	season int
	week   int
}

// MemoryStore is an in-process Store used by backtests and tests.
type MemoryStore struct {
	mu    sync.RWMutex
	snaps map[snapKey]Snapshot
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snaps: make(map[snapKey]Snapshot)}
}

// Get implements Store.
func (m *MemoryStore) Get(_ context.Context, teamID, season, week int) (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap, ok := m.snaps[snapKey{teamID, season, week}]
	if !ok {
		return nil, ErrNoSnapshot
	}
	return &snap, nil
}

// Put implements Store.
func (m *MemoryStore) Put(_ context.Context, snap *Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.snaps[snapKey{snap.TeamID, snap.Season, snap.Week}] = *snap
	return nil
}

// Latest implements Store.
func (m *MemoryStore) Latest(_ context.Context, teamID, season int) (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var weeks []int
	for key := range m.snaps {
		if key.teamID == teamID && key.season == season {
			weeks = append(weeks, key.week)
		}
	}
	if len(weeks) == 0 {
		return nil, ErrNoSnapshot
	}
	sort.Ints(weeks)

	snap := m.snaps[snapKey{teamID, season, weeks[len(weeks)-1]}]
	return &snap, nil
}
