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


package match

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/poiesic/mingle/core"
	"github.com/poiesic/mingle/keylock"
	"github.com/poiesic/mingle/storage"
)

var (
	// ErrProfilesRequired indicates NewDetector was given no profile repository.
	ErrProfilesRequired = errors.New("profile repository is required")

	// ErrInterestsRequired indicates NewDetector was given no interest repository.
	ErrInterestsRequired = errors.New("interest repository is required")
)

// Detector turns a directed interest into a match decision.
type Detector struct {
	profiles  storage.ProfileRepository
	interests storage.InterestRepository
	pairLocks *keylock.KeyedMutex
	logger    *slog.Logger
}

// Option configures a Detector.
type Option func(*Detector) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(d *Detector) error {
		if logger == nil {
			logger = slog.Default()
		}
		d.logger = logger
		return nil
	}
}

// NewDetector creates a new match detector.
func NewDetector(profiles storage.ProfileRepository, interests storage.InterestRepository, opts ...Option) (*Detector, error) {
	if profiles == nil {
		return nil, ErrProfilesRequired
	}
	if interests == nil {
		return nil, ErrInterestsRequired
	}

	d := &Detector{
		profiles:  profiles,
		interests: interests,
		pairLocks: keylock.New(0),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// RecordInterest inserts the edge from -> to and reports whether interest is
// now mutual. Repeated interest is a no-op insert and re-reports the current
// state.
//
// The insert and the mutuality check run under a lock scoped to the unordered
// pair {from, to}, and the check runs strictly after the insert committed.
// Two opposite-direction calls racing on the same pair therefore serialize:
// exactly one of them observes both edges and reports the match.
func (d *Detector) RecordInterest(ctx context.Context, from, to core.ID) (core.MatchOutcome, error) {
	if from == to {
		return core.Pending, core.ErrSelfInterest
	}

	unlock := d.pairLocks.Lock(core.PairKey(from, to))
	defer unlock()

	if err := d.interests.AddEdge(ctx, from, to); err != nil {
		return core.Pending, err
	}

	mutual, err := d.interests.IsMutual(ctx, from, to)
	if err != nil {
		return core.Pending, err
	}
	if !mutual {
		return core.Pending, nil
	}

	a, err := d.profiles.Get(ctx, from)
	if err != nil {
		return core.Pending, fmt.Errorf("loading profile %d: %w", from, err)
	}
	b, err := d.profiles.Get(ctx, to)
	if err != nil {
		return core.Pending, fmt.Errorf("loading profile %d: %w", to, err)
	}

	d.logger.Info("mutual interest detected", "a", from, "b", to)

	return core.MatchOutcome{Matched: true, A: a, B: b}, nil
}

// HasInterest reports whether from already expressed interest in to.
func (d *Detector) HasInterest(ctx context.Context, from, to core.ID) (bool, error) {
	return d.interests.HasEdge(ctx, from, to)
}
