// Package identity maps team names from external feeds onto canonical
// team IDs. The schedule feed is the source of truth for IDs; the odds
// feed only carries free-form names, so every odds row passes through a
// Resolver before it can be stored.
package identity

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// ErrUnresolved is returned when a feed name cannot be mapped to a
// canonical team. Callers skip the unit and keep the batch going.
var ErrUnresolved = errors.New("identity: team name unresolved")

// Resolver maps an external team name to a canonical team ID.
type Resolver interface {
	Resolve(ctx context.Context, source, name string) (int, error)
}

// Normalize converts a feed team name to canonical format. Resolution
// always tries the exact alias first; normalization is the fallback for
// names the alias table has not seen.
func Normalize(name string) string {
	name = strings.TrimSpace(name)

	replacements := []struct {
		old string
		new string
	}{
		{" State", " St."},
		{"Saint ", "St. "},
		{"St ", "St. "},
		{"University of ", ""},
		{" University", ""},
		{"&amp;", "&"},
	}
	for _, r := range replacements {
		name = strings.ReplaceAll(name, r.old, r.new)
	}

	return strings.Join(strings.Fields(name), " ")
}

type aliasKey struct {
	source string
	name   string
}

// AliasResolver resolves names against an in-memory alias table seeded
// from the teams store, with normalization as a fallback. Lookups after
// seeding are read-only and safe for concurrent use.
type AliasResolver struct {
	mu        sync.RWMutex
	aliases   map[aliasKey]int
	canonical map[string]int
}

// NewAliasResolver returns an empty resolver.
func NewAliasResolver() *AliasResolver {
	return &AliasResolver{
		aliases:   make(map[aliasKey]int),
		canonical: make(map[string]int),
	}
}

// AddAlias registers a source-specific alias for a team.
func (r *AliasResolver) AddAlias(source, name string, teamID int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aliases[aliasKey{source, strings.ToLower(name)}] = teamID
}

// AddCanonical registers a team's canonical name.
func (r *AliasResolver) AddCanonical(name string, teamID int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.canonical[strings.ToLower(Normalize(name))] = teamID
}

// Resolve implements Resolver. Exact alias match wins; otherwise the
// normalized name is checked against canonical names.
func (r *AliasResolver) Resolve(_ context.Context, source, name string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if id, ok := r.aliases[aliasKey{source, strings.ToLower(name)}]; ok {
		return id, nil
	}
	if id, ok := r.canonical[strings.ToLower(Normalize(name))]; ok {
		return id, nil
	}
	return 0, ErrUnresolved
}
