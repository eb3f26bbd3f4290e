package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Ohio State", "Ohio St."},
		{"Saint Francis", "St. Francis"},
		{"University of Georgia", "Georgia"},
		{"Miami University", "Miami"},
		{"Texas A&amp;M", "Texas A&M"},
		{"  Penn   State  ", "Penn St."},
		{"Alabama", "Alabama"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestAliasResolver(t *testing.T) {
	ctx := context.Background()
	resolver := NewAliasResolver()
	resolver.AddCanonical("Ohio St.", 194)
	resolver.AddCanonical("Texas A&M", 245)

	t.Run("canonical match after normalization", func(t *testing.T) {
		id, err := resolver.Resolve(ctx, "oddsapi", "Ohio State")
		require.NoError(t, err)
		assert.Equal(t, 194, id)
	})

	t.Run("case insensitive", func(t *testing.T) {
		id, err := resolver.Resolve(ctx, "oddsapi", "ohio st.")
		require.NoError(t, err)
		assert.Equal(t, 194, id)
	})

	t.Run("entity-encoded feed name", func(t *testing.T) {
		id, err := resolver.Resolve(ctx, "oddsapi", "Texas A&amp;M")
		require.NoError(t, err)
		assert.Equal(t, 245, id)
	})

	t.Run("alias beats canonical", func(t *testing.T) {
		// Feed calls a different program by a name that normalizes onto
		// an existing canonical entry; the per-source alias must win.
		resolver.AddAlias("oddsapi", "Ohio State", 999)

		id, err := resolver.Resolve(ctx, "oddsapi", "Ohio State")
		require.NoError(t, err)
		assert.Equal(t, 999, id)

		// Other sources are unaffected by the alias.
		id, err = resolver.Resolve(ctx, "cfbd", "Ohio State")
		require.NoError(t, err)
		assert.Equal(t, 194, id)
	})

	t.Run("unknown name", func(t *testing.T) {
		_, err := resolver.Resolve(ctx, "oddsapi", "Directional Tech")
		assert.ErrorIs(t, err, ErrUnresolved)
	})
}
