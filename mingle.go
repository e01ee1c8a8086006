// Copyright 2026 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package mingle wires the discovery and matching engine together: profile
// storage, the interest graph, the view tracker, the discovery selector, the
// match detector and the keyword index, behind one App facade consumed by the
// chat transport.
package mingle

import (
	"context"
	"errors"
	"log/slog"

	"github.com/poiesic/mingle/core"
	"github.com/poiesic/mingle/discover"
	"github.com/poiesic/mingle/match"
	"github.com/poiesic/mingle/search"
	"github.com/poiesic/mingle/storage"
	"github.com/poiesic/mingle/storage/badger"
)

// App owns the engine components and their shared storage backend.
type App struct {
	backend      *badger.Backend
	profileRepo  storage.ProfileRepository
	interestRepo storage.InterestRepository
	tracker      *discover.Tracker
	selector     *discover.Selector
	detector     *match.Detector
	index        *search.Index
	logger       *slog.Logger
}

// New opens (or creates) the database at filePath and builds the engine.
// The search index is re-derived from the profile store before New returns.
func New(filePath string) (*App, error) {
	return open(filePath, false)
}

// NewInMemory builds the engine on a non-persistent in-memory backend.
// Used by tests and throwaway environments.
func NewInMemory() (*App, error) {
	return open("", true)
}

func open(filePath string, inMemory bool) (*App, error) {
	backend, err := badger.OpenBackend(filePath, inMemory)
	if err != nil {
		return nil, err
	}

	profileRepo := badger.NewProfileRepository(backend)
	interestRepo := badger.NewInterestRepository(backend)
	tracker := discover.NewTracker()

	selector, err := discover.NewSelector(profileRepo, tracker)
	if err != nil {
		backend.Close()
		return nil, err
	}

	detector, err := match.NewDetector(profileRepo, interestRepo)
	if err != nil {
		backend.Close()
		return nil, err
	}

	index := search.NewIndex()
	if err := index.Rebuild(context.Background(), profileRepo); err != nil {
		backend.Close()
		return nil, err
	}

	return &App{
		backend:      backend,
		profileRepo:  profileRepo,
		interestRepo: interestRepo,
		tracker:      tracker,
		selector:     selector,
		detector:     detector,
		index:        index,
		logger:       slog.Default(),
	}, nil
}

// Close closes the repositories and the storage backend.
func (a *App) Close() error {
	if err := a.interestRepo.Close(); err != nil {
		a.logger.Error("error closing interest repository", "err", err)
		return err
	}
	if err := a.profileRepo.Close(); err != nil {
		a.logger.Error("error closing profile repository", "err", err)
		return err
	}
	if err := a.backend.Close(); err != nil {
		a.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// SaveProfile validates and upserts the profile, then brings the search
// index in step.
func (a *App) SaveProfile(ctx context.Context, profile *core.Profile) error {
	if err := core.ValidateProfile(profile); err != nil {
		return err
	}
	if err := a.profileRepo.Put(ctx, profile); err != nil {
		return err
	}
	a.index.Upsert(profile)
	return nil
}

// Profile returns the profile with the given id, or storage.ErrNotFound.
func (a *App) Profile(ctx context.Context, id core.ID) (*core.Profile, error) {
	return a.profileRepo.Get(ctx, id)
}

// ProfileCount returns the number of stored profiles.
func (a *App) ProfileCount(ctx context.Context) (int, error) {
	return a.profileRepo.Count(ctx)
}

// DeleteProfile hard-deletes the profile: the record and every interest edge
// touching it go in one transaction, then the search index and every view
// tracker set drop the id.
func (a *App) DeleteProfile(ctx context.Context, id core.ID) error {
	if err := a.profileRepo.Delete(ctx, id); err != nil {
		return err
	}
	a.index.Remove(id)
	a.tracker.Forget(id)
	return nil
}

// NextCandidate deals the next unseen candidate to the viewer.
// Returns discover.ErrExhausted when none remains; the caller decides whether
// to clear the viewer's history and go around again.
func (a *App) NextCandidate(ctx context.Context, viewer core.ID) (*core.Profile, error) {
	return a.selector.Next(ctx, viewer)
}

// ClearViewed empties the viewer's shown-profile history.
func (a *App) ClearViewed(viewer core.ID) {
	a.selector.ClearViewed(viewer)
}

// ViewedProfiles resolves the viewer's shown ids against the store, ordered
// by name. Ids whose profile has since been deleted resolve to nothing.
func (a *App) ViewedProfiles(ctx context.Context, viewer core.ID) ([]*core.Profile, error) {
	ids := a.tracker.Get(viewer)
	if len(ids) == 0 {
		return nil, nil
	}
	return a.profileRepo.GetMany(ctx, ids...)
}

// RecordInterest records a directed interest edge and reports whether it
// completed a match.
func (a *App) RecordInterest(ctx context.Context, from, to core.ID) (core.MatchOutcome, error) {
	return a.detector.RecordInterest(ctx, from, to)
}

// SearchProfiles runs a keyword query over all profiles except the viewer's
// own. Results come back in rank order and are filtered against the store, so
// a profile deleted since indexing can never appear.
func (a *App) SearchProfiles(ctx context.Context, viewer core.ID, text string) ([]*core.Profile, error) {
	ids := a.index.Query(text, viewer, 0)
	if len(ids) == 0 {
		return nil, nil
	}

	profiles := make([]*core.Profile, 0, len(ids))
	for _, id := range ids {
		profile, err := a.profileRepo.Get(ctx, id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				continue
			}
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	return profiles, nil
}

// Profiles exposes the profile repository.
func (a *App) Profiles() storage.ProfileRepository {
	return a.profileRepo
}

// Interests exposes the interest repository.
func (a *App) Interests() storage.InterestRepository {
	return a.interestRepo
}

// SearchIndex exposes the keyword index.
func (a *App) SearchIndex() *search.Index {
	return a.index
}
