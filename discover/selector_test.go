package discover

import (
	"context"
	"testing"

	"github.com/poiesic/mingle/core"
	"github.com/poiesic/mingle/storage"
	"github.com/poiesic/mingle/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSelector(t *testing.T) (*Selector, storage.ProfileRepository) {
	t.Helper()

	profileRepo, interestRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		interestRepo.Close()
		profileRepo.Close()
		backend.Close()
	})

	selector, err := NewSelector(profileRepo, NewTracker())
	require.NoError(t, err)
	return selector, profileRepo
}

func putProfile(t *testing.T, repo storage.ProfileRepository, id core.ID, name string) {
	t.Helper()
	require.NoError(t, repo.Put(context.Background(), &core.Profile{
		Id:     id,
		Name:   name,
		Branch: "Engineering",
		Role:   "Developer",
		About:  "Writes Go and reviews patches",
	}))
}

func TestNewSelector_Validation(t *testing.T) {
	_, repo := newTestSelector(t)

	_, err := NewSelector(nil, NewTracker())
	assert.Equal(t, ErrProfilesRequired, err)

	_, err = NewSelector(repo, nil)
	assert.Equal(t, ErrTrackerRequired, err)
}

func TestNext_NeverReturnsSelf(t *testing.T) {
	selector, repo := newTestSelector(t)
	ctx := context.Background()

	putProfile(t, repo, 1, "Ada")
	putProfile(t, repo, 2, "Boris")
	putProfile(t, repo, 3, "Clara")

	for i := 0; i < 2; i++ {
		candidate, err := selector.Next(ctx, 1)
		require.NoError(t, err)
		assert.NotEqual(t, core.ID(1), candidate.Id)
	}
	_, err := selector.Next(ctx, 1)
	assert.ErrorIs(t, err, ErrExhausted)
}

func TestNext_NeverRepeatsUntilClear(t *testing.T) {
	selector, repo := newTestSelector(t)
	ctx := context.Background()

	for id := core.ID(1); id <= 6; id++ {
		putProfile(t, repo, id, "User")
	}

	seen := make(map[core.ID]bool)
	for i := 0; i < 5; i++ {
		candidate, err := selector.Next(ctx, 1)
		require.NoError(t, err)
		assert.False(t, seen[candidate.Id], "candidate %d dealt twice", candidate.Id)
		seen[candidate.Id] = true
	}

	_, err := selector.Next(ctx, 1)
	assert.ErrorIs(t, err, ErrExhausted)

	// The engine does not auto-clear; after an explicit clear the deck restarts.
	selector.ClearViewed(1)
	candidate, err := selector.Next(ctx, 1)
	require.NoError(t, err)
	assert.True(t, seen[candidate.Id])
}

func TestNext_ExhaustedWithPopulationOfOne(t *testing.T) {
	selector, repo := newTestSelector(t)
	ctx := context.Background()

	putProfile(t, repo, 1, "Ada")

	for i := 0; i < 3; i++ {
		_, err := selector.Next(ctx, 1)
		assert.ErrorIs(t, err, ErrExhausted)
	}

	selector.ClearViewed(1)
	_, err := selector.Next(ctx, 1)
	assert.ErrorIs(t, err, ErrExhausted, "clearing the tracker must not change exhaustion for a population of one")
}

func TestNext_ExcludesAlreadyViewed(t *testing.T) {
	selector, repo := newTestSelector(t)
	ctx := context.Background()

	putProfile(t, repo, 1, "Ada")
	putProfile(t, repo, 2, "Boris")
	putProfile(t, repo, 3, "Clara")
	putProfile(t, repo, 4, "Dana")

	// Viewer 1 has already seen profile 2.
	first, err := selector.Next(ctx, 1)
	require.NoError(t, err)
	if first.Id != 2 {
		// Redraw deterministically: force the tracker state the test needs.
		selector.ClearViewed(1)
		selector.tracker.Record(1, 2)
	}

	for i := 0; i < 2; i++ {
		candidate, err := selector.Next(ctx, 1)
		require.NoError(t, err)
		assert.NotEqual(t, core.ID(2), candidate.Id, "already-viewed candidate dealt again")
		assert.NotEqual(t, core.ID(1), candidate.Id)
	}
	_, err = selector.Next(ctx, 1)
	assert.ErrorIs(t, err, ErrExhausted)
}

func TestNext_RecordsBeforeReturning(t *testing.T) {
	selector, repo := newTestSelector(t)
	ctx := context.Background()

	putProfile(t, repo, 1, "Ada")
	putProfile(t, repo, 2, "Boris")

	candidate, err := selector.Next(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []core.ID{candidate.Id}, selector.Viewed(1))
}

func TestNext_IndependentViewers(t *testing.T) {
	selector, repo := newTestSelector(t)
	ctx := context.Background()

	putProfile(t, repo, 1, "Ada")
	putProfile(t, repo, 2, "Boris")

	a, err := selector.Next(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, core.ID(2), a.Id)

	// Viewer 2's deck is unaffected by viewer 1's history.
	b, err := selector.Next(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, core.ID(1), b.Id)
}
