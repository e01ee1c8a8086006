package mingle

import (
	"context"
	"testing"

	"github.com/poiesic/mingle/core"
	"github.com/poiesic/mingle/discover"
	"github.com/poiesic/mingle/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	app, err := NewInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { app.Close() })
	return app
}

func saveProfile(t *testing.T, app *App, id core.ID, name, about string) {
	t.Helper()
	require.NoError(t, app.SaveProfile(context.Background(), &core.Profile{
		Id:     id,
		Name:   name,
		Branch: "Engineering",
		Role:   "Developer",
		About:  about,
	}))
}

func TestSaveProfile_Validation(t *testing.T) {
	app := newTestApp(t)

	err := app.SaveProfile(context.Background(), &core.Profile{
		Id:     1,
		Name:   "A",
		Branch: "Engineering",
		Role:   "Developer",
		About:  "long enough about text",
	})
	assert.ErrorIs(t, err, core.ErrNameTooShort)

	count, err := app.ProfileCount(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count, "invalid profile must not be stored")
}

func TestBrowseLikeAndMatch(t *testing.T) {
	// The three-profile scenario: A browses, likes the dealt candidate, the
	// other party likes back, and exactly the second call reports the match.
	app := newTestApp(t)
	ctx := context.Background()

	saveProfile(t, app, 1, "Ada", "analytical engines and difference machines")
	saveProfile(t, app, 2, "Boris", "chess openings and endgames")
	saveProfile(t, app, 3, "Clara", "watercolor landscapes on weekends")

	candidate, err := app.NextCandidate(ctx, 1)
	require.NoError(t, err)
	assert.NotEqual(t, core.ID(1), candidate.Id)

	outcome, err := app.RecordInterest(ctx, 1, candidate.Id)
	require.NoError(t, err)
	assert.False(t, outcome.Matched, "one-directional interest must stay pending")

	mutual, err := app.Interests().IsMutual(ctx, 1, candidate.Id)
	require.NoError(t, err)
	assert.False(t, mutual)

	outcome, err = app.RecordInterest(ctx, candidate.Id, 1)
	require.NoError(t, err)
	require.True(t, outcome.Matched)
	assert.Equal(t, candidate.Id, outcome.A.Id)
	assert.Equal(t, core.ID(1), outcome.B.Id)
}

func TestDeleteProfile_FullCascade(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	saveProfile(t, app, 1, "Ada", "analytical engines and difference machines")
	saveProfile(t, app, 2, "Boris", "chess openings and endgames")

	// 2 likes 1, and 1 has already been shown 2.
	_, err := app.RecordInterest(ctx, 2, 1)
	require.NoError(t, err)
	_, err = app.NextCandidate(ctx, 1)
	require.NoError(t, err)

	require.NoError(t, app.DeleteProfile(ctx, 2))

	// Gone from the store, the graph, the index, and all view trackers.
	_, err = app.Profile(ctx, 2)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	mutual, err := app.Interests().IsMutual(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, mutual)

	results, err := app.SearchProfiles(ctx, 1, "chess")
	require.NoError(t, err)
	assert.Empty(t, results)

	viewed, err := app.ViewedProfiles(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, viewed)

	// The selector deals nothing for a population of one.
	_, err = app.NextCandidate(ctx, 1)
	assert.ErrorIs(t, err, discover.ErrExhausted)

	assert.ErrorIs(t, app.DeleteProfile(ctx, 2), storage.ErrNotFound)
}

func TestSearchProfiles(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	saveProfile(t, app, 1, "Ada", "works as a graphic designer downtown")
	saveProfile(t, app, 2, "Boris", "backend go services")

	// Infix rule: "designer" hits "graphic designer".
	results, err := app.SearchProfiles(ctx, 2, "designer")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, core.ID(1), results[0].Id)

	// Search results never include the querying viewer.
	results, err = app.SearchProfiles(ctx, 1, "designer")
	require.NoError(t, err)
	assert.Empty(t, results)

	// Empty query yields no results, not all profiles.
	results, err = app.SearchProfiles(ctx, 2, "   ")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchDoesNotTouchViewTracker(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	saveProfile(t, app, 1, "Ada", "works as a graphic designer downtown")
	saveProfile(t, app, 2, "Boris", "backend go services")

	results, err := app.SearchProfiles(ctx, 2, "designer")
	require.NoError(t, err)
	require.Len(t, results, 1)

	// Browsing after a search still deals the searched profile: search
	// results are not counted as browsed.
	candidate, err := app.NextCandidate(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, core.ID(1), candidate.Id)
}

func TestViewedProfiles_OrderedByName(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	saveProfile(t, app, 1, "Viewer", "just here to browse around")
	saveProfile(t, app, 2, "Clara", "watercolor landscapes on weekends")
	saveProfile(t, app, 3, "Ada", "analytical engines and difference machines")
	saveProfile(t, app, 4, "Boris", "chess openings and endgames")

	for i := 0; i < 3; i++ {
		_, err := app.NextCandidate(ctx, 1)
		require.NoError(t, err)
	}

	viewed, err := app.ViewedProfiles(ctx, 1)
	require.NoError(t, err)
	require.Len(t, viewed, 3)
	assert.Equal(t, "Ada", viewed[0].Name)
	assert.Equal(t, "Boris", viewed[1].Name)
	assert.Equal(t, "Clara", viewed[2].Name)
}

func TestClearViewed_RestartsTheDeck(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	saveProfile(t, app, 1, "Ada", "analytical engines and difference machines")
	saveProfile(t, app, 2, "Boris", "chess openings and endgames")

	_, err := app.NextCandidate(ctx, 1)
	require.NoError(t, err)
	_, err = app.NextCandidate(ctx, 1)
	assert.ErrorIs(t, err, discover.ErrExhausted)

	app.ClearViewed(1)
	candidate, err := app.NextCandidate(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, core.ID(2), candidate.Id)
}

func TestUpsertKeepsSearchIndexInStep(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	saveProfile(t, app, 1, "Ada", "loves chess")
	saveProfile(t, app, 2, "Boris", "backend go services")
	saveProfile(t, app, 1, "Ada", "loves painting")

	results, err := app.SearchProfiles(ctx, 2, "chess")
	require.NoError(t, err)
	assert.Empty(t, results, "stale terms must not match after an upsert")

	results, err = app.SearchProfiles(ctx, 2, "painting")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, core.ID(1), results[0].Id)
}
