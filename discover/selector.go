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


package discover

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/poiesic/mingle/core"
	"github.com/poiesic/mingle/keylock"
	"github.com/poiesic/mingle/storage"
)

var (
	// ErrExhausted indicates that no unseen, non-self candidate remains for
	// the viewer. It is a defined terminal state of Next, not a failure; the
	// transport decides whether to clear the tracker and start over.
	ErrExhausted = errors.New("no unseen profiles remain")

	// ErrProfilesRequired indicates NewSelector was given no profile repository.
	ErrProfilesRequired = errors.New("profile repository is required")

	// ErrTrackerRequired indicates NewSelector was given no tracker.
	ErrTrackerRequired = errors.New("view tracker is required")
)

// Selector deals the next unseen candidate profile to a viewer.
type Selector struct {
	profiles storage.ProfileRepository
	tracker  *Tracker
	locks    *keylock.KeyedMutex
	logger   *slog.Logger
}

// Option configures a Selector.
type Option func(*Selector) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Selector) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSelector creates a new selector over the given store and tracker.
func NewSelector(profiles storage.ProfileRepository, tracker *Tracker, opts ...Option) (*Selector, error) {
	if profiles == nil {
		return nil, ErrProfilesRequired
	}
	if tracker == nil {
		return nil, ErrTrackerRequired
	}

	s := &Selector{
		profiles: profiles,
		tracker:  tracker,
		locks:    keylock.New(0),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Next picks one profile uniformly at random from all profiles the viewer has
// not seen, excluding the viewer themself, and records it as shown before
// returning. Returns ErrExhausted when no candidate remains.
//
// The whole pick-and-record runs under the viewer's lock, so concurrent Next
// calls for one viewer can never deal the same candidate twice.
func (s *Selector) Next(ctx context.Context, viewer core.ID) (*core.Profile, error) {
	unlock := s.locks.Lock(viewerKey(viewer))
	defer unlock()

	viewed := s.tracker.Get(viewer)
	exclude := make(map[core.ID]struct{}, len(viewed)+1)
	exclude[viewer] = struct{}{}
	for _, id := range viewed {
		exclude[id] = struct{}{}
	}

	candidate, err := s.profiles.RandomExcluding(ctx, exclude)
	if err != nil {
		if errors.Is(err, storage.ErrNoCandidates) {
			return nil, ErrExhausted
		}
		return nil, err
	}

	// Recording happens-before the candidate is considered shown.
	s.tracker.Record(viewer, candidate.Id)
	s.logger.Debug("dealt candidate", "viewer", viewer, "candidate", candidate.Id)

	return candidate, nil
}

// Viewed returns the viewer's shown ids in insertion order.
func (s *Selector) Viewed(viewer core.ID) []core.ID {
	return s.tracker.Get(viewer)
}

// ClearViewed empties the viewer's shown set.
func (s *Selector) ClearViewed(viewer core.ID) {
	s.tracker.Clear(viewer)
}

func viewerKey(id core.ID) string {
	return strconv.FormatUint(uint64(id), 10)
}
