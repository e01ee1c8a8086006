package storage

import (
	"context"

	"github.com/poiesic/mingle/core"
)

// ProfileRepository provides durable keyed storage of profiles.
// Implementations must be thread-safe and support concurrent access.
type ProfileRepository interface {
	// Put inserts or fully replaces the profile keyed by its Id (last write
	// wins, no partial-field merge). CreatedAt of an existing record is
	// preserved; for a new record it is set to now if zero.
	Put(ctx context.Context, profile *core.Profile) error

	// Get retrieves a profile by id.
	// Returns ErrNotFound if the profile doesn't exist.
	Get(ctx context.Context, id core.ID) (*core.Profile, error)

	// Delete removes the profile and, in the same transaction, purges every
	// interest edge that references it.
	// Returns ErrNotFound if the profile doesn't exist.
	Delete(ctx context.Context, id core.ID) error

	// Count returns the number of stored profiles.
	Count(ctx context.Context) (int, error)

	// GetMany retrieves profiles by id, ordered by name.
	// Missing ids are skipped (no error for absent profiles).
	GetMany(ctx context.Context, ids ...core.ID) ([]*core.Profile, error)

	// RandomExcluding returns one profile chosen uniformly at random from all
	// profiles whose id is not in exclude.
	// Returns ErrNoCandidates if no such profile exists.
	RandomExcluding(ctx context.Context, exclude map[core.ID]struct{}) (*core.Profile, error)

	// All iterates over every stored profile, calling fn for each.
	// Iteration stops when fn returns an error; that error is returned.
	All(ctx context.Context, fn func(*core.Profile) error) error

	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the repository and releases resources.
	Close() error
}

// InterestRepository stores directed interest edges between users.
// Implementations must be thread-safe and support concurrent access.
type InterestRepository interface {
	// AddEdge inserts the edge (from, to) if absent; re-inserting an existing
	// edge is a no-op, not an error.
	// Returns core.ErrSelfInterest if from == to.
	AddEdge(ctx context.Context, from, to core.ID) error

	// HasEdge reports whether the edge (from, to) exists.
	HasEdge(ctx context.Context, from, to core.ID) (bool, error)

	// IsMutual reports whether edges exist in both directions between a and b.
	// Both lookups observe a single consistent snapshot.
	IsMutual(ctx context.Context, a, b core.ID) (bool, error)

	// PurgeAll removes every edge with from == id or to == id.
	PurgeAll(ctx context.Context, id core.ID) error

	// CountEdges returns the number of stored edges.
	CountEdges(ctx context.Context) (int, error)

	// Close closes the repository and releases resources.
	Close() error
}
