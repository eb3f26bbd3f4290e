package rating

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorePutGet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.Get(ctx, 101, 2024, 3)
	assert.ErrorIs(t, err, ErrNoSnapshot)

	require.NoError(t, store.Put(ctx, &Snapshot{TeamID: 101, Season: 2024, Week: 3, Rating: 1540, GamesPlayed: 2}))

	snap, err := store.Get(ctx, 101, 2024, 3)
	require.NoError(t, err)
	assert.Equal(t, 1540.0, snap.Rating)

	// Re-put overwrites in place.
	require.NoError(t, store.Put(ctx, &Snapshot{TeamID: 101, Season: 2024, Week: 3, Rating: 1555, GamesPlayed: 2}))
	snap, err = store.Get(ctx, 101, 2024, 3)
	require.NoError(t, err)
	assert.Equal(t, 1555.0, snap.Rating)
}

func TestMemoryStoreLatest(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	for week, r := range map[int]float64{0: 1500, 4: 1530, 9: 1572} {
		require.NoError(t, store.Put(ctx, &Snapshot{TeamID: 101, Season: 2024, Week: week, Rating: r}))
	}

	snap, err := store.Latest(ctx, 101, 2024)
	require.NoError(t, err)
	assert.Equal(t, 9, snap.Week)
	assert.Equal(t, 1572.0, snap.Rating)

	_, err = store.Latest(ctx, 101, 2023)
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestSnapshotBefore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Put(ctx, &Snapshot{TeamID: 7, Season: 2024, Week: 0, Rating: 1510}))
	require.NoError(t, store.Put(ctx, &Snapshot{TeamID: 7, Season: 2024, Week: 3, Rating: 1525}))
	require.NoError(t, store.Put(ctx, &Snapshot{TeamID: 7, Season: 2024, Week: 6, Rating: 1560}))

	t.Run("newest strictly earlier week wins", func(t *testing.T) {
		snap, err := store.Get(ctx, 7, 2024, 6)
		require.NoError(t, err)
		assert.Equal(t, 1560.0, snap.Rating)

		// A week-6 projection must not see the week-6 snapshot.
		before, err := SnapshotBefore(ctx, store, 7, 2024, 6)
		require.NoError(t, err)
		assert.Equal(t, 3, before.Week)
		assert.Equal(t, 1525.0, before.Rating)
	})

	t.Run("skips gaps down to the preseason prior", func(t *testing.T) {
		before, err := SnapshotBefore(ctx, store, 7, 2024, 3)
		require.NoError(t, err)
		assert.Equal(t, 0, before.Week)
	})

	t.Run("falls back to prior season latest", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, &Snapshot{TeamID: 8, Season: 2022, Week: 14, Rating: 1610}))

		before, err := SnapshotBefore(ctx, store, 8, 2024, 1)
		require.NoError(t, err)
		assert.Equal(t, 2022, before.Season)
		assert.Equal(t, 1610.0, before.Rating)
	})

	t.Run("lookback window is bounded", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, &Snapshot{TeamID: 9, Season: 2015, Week: 13, Rating: 1590}))

		_, err := SnapshotBefore(ctx, store, 9, 2024, 1)
		assert.ErrorIs(t, err, ErrNoSnapshot)
	})

	t.Run("no history at all", func(t *testing.T) {
		_, err := SnapshotBefore(ctx, store, 999, 2024, 5)
		assert.ErrorIs(t, err, ErrNoSnapshot)
	})
}
