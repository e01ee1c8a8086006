package match

import (
	"context"
	"sync"
	"testing"

	"github.com/poiesic/mingle/core"
	"github.com/poiesic/mingle/storage"
	"github.com/poiesic/mingle/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDetector(t *testing.T) (*Detector, storage.ProfileRepository) {
	t.Helper()

	profileRepo, interestRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		interestRepo.Close()
		profileRepo.Close()
		backend.Close()
	})

	detector, err := NewDetector(profileRepo, interestRepo)
	require.NoError(t, err)

	ctx := context.Background()
	for id, name := range map[core.ID]string{1: "Ada", 2: "Boris"} {
		require.NoError(t, profileRepo.Put(ctx, &core.Profile{
			Id:     id,
			Name:   name,
			Branch: "Engineering",
			Role:   "Developer",
			About:  "Writes Go and reviews patches",
		}))
	}
	return detector, profileRepo
}

func TestNewDetector_Validation(t *testing.T) {
	detector, repo := newTestDetector(t)
	_ = detector

	_, err := NewDetector(nil, nil)
	assert.Equal(t, ErrProfilesRequired, err)

	_, err = NewDetector(repo, nil)
	assert.Equal(t, ErrInterestsRequired, err)
}

func TestRecordInterest_PendingThenMatched(t *testing.T) {
	detector, _ := newTestDetector(t)
	ctx := context.Background()

	outcome, err := detector.RecordInterest(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, outcome.Matched, "one-directional interest must be pending")

	outcome, err = detector.RecordInterest(ctx, 2, 1)
	require.NoError(t, err)
	require.True(t, outcome.Matched, "reverse interest must complete the match")
	assert.Equal(t, core.ID(2), outcome.A.Id)
	assert.Equal(t, core.ID(1), outcome.B.Id)
	assert.Equal(t, "Boris", outcome.A.Name)
	assert.Equal(t, "Ada", outcome.B.Name)
}

func TestRecordInterest_RepeatedIsPendingNoop(t *testing.T) {
	detector, _ := newTestDetector(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		outcome, err := detector.RecordInterest(ctx, 1, 2)
		require.NoError(t, err)
		assert.False(t, outcome.Matched)
	}

	has, err := detector.HasInterest(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestRecordInterest_SelfRejected(t *testing.T) {
	detector, _ := newTestDetector(t)

	_, err := detector.RecordInterest(context.Background(), 1, 1)
	assert.ErrorIs(t, err, core.ErrSelfInterest)
}

func TestRecordInterest_ConcurrentOppositeDirections(t *testing.T) {
	// Two near-simultaneous opposite-direction inserts must produce exactly
	// one Matched outcome: never two, never zero.
	for round := 0; round < 25; round++ {
		detector, _ := newTestDetector(t)
		ctx := context.Background()

		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			matched int
		)
		record := func(from, to core.ID) {
			defer wg.Done()
			outcome, err := detector.RecordInterest(ctx, from, to)
			assert.NoError(t, err)
			if outcome.Matched {
				mu.Lock()
				matched++
				mu.Unlock()
			}
		}

		wg.Add(2)
		go record(1, 2)
		go record(2, 1)
		wg.Wait()

		require.Equal(t, 1, matched, "round %d: expected exactly one Matched outcome", round)
	}
}
