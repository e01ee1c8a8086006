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


package bot

import (
	"sync"

	"github.com/poiesic/mingle/core"
)

// ProfileField identifies one editable profile field.
type ProfileField int

const (
	FieldName ProfileField = iota + 1
	FieldBranch
	FieldRole
	FieldAbout
	FieldPhoto
)

// FormStep is one stage of the profile creation form, in order.
type FormStep int

const (
	StepName FormStep = iota + 1
	StepBranch
	StepRole
	StepAbout
	StepPhoto
	StepDone
)

// State is the tagged variant a conversation can be in. Exactly one concrete
// type applies at a time; handlers switch on it exhaustively, with no
// implicit fallthrough between creating and editing.
type State interface {
	sessionState()
}

// Idle is the default state: no form in progress.
type Idle struct{}

// Creating means the user is filling out the profile form at Step.
// Draft accumulates the collected fields.
type Creating struct {
	Step  FormStep
	Draft core.Profile
}

// Editing means the user is replacing a single Field of an existing profile.
// Prior holds the snapshot the edit started from, so a save applies exactly
// one field on top of it.
type Editing struct {
	Field ProfileField
	Prior core.Profile
}

func (Idle) sessionState()     {}
func (Creating) sessionState() {}
func (Editing) sessionState()  {}

// Session is one user's transient conversation state: their form state and
// the candidate currently displayed to them.
type Session struct {
	State   State
	Current core.ID // currently displayed candidate; 0 when none
}

// Sessions is the process-wide session store, keyed by user. All access goes
// through Update or Peek, so read-modify-write on a session is atomic and
// concurrent updates for one user cannot interleave.
type Sessions struct {
	mu sync.Mutex
	m  map[core.ID]*Session
}

// NewSessions creates an empty session store.
func NewSessions() *Sessions {
	return &Sessions{m: make(map[core.ID]*Session)}
}

// Update runs fn with exclusive access to the user's session, creating an
// Idle session on first touch.
func (s *Sessions) Update(user core.ID, fn func(*Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.m[user]
	if !ok {
		session = &Session{State: Idle{}}
		s.m[user] = session
	}
	fn(session)
}

// Peek returns a copy of the user's session.
func (s *Sessions) Peek(user core.ID) Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session, ok := s.m[user]; ok {
		return *session
	}
	return Session{State: Idle{}}
}

// Reset puts the user's session back to Idle with no displayed candidate.
func (s *Sessions) Reset(user core.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, user)
}

// ValidateField applies the domain predicate for a single field.
func ValidateField(field ProfileField, value string) error {
	switch field {
	case FieldName:
		return core.ValidateName(value)
	case FieldBranch:
		return core.ValidateBranch(value)
	case FieldRole:
		return core.ValidateRole(value)
	case FieldAbout:
		return core.ValidateAbout(value)
	default:
		// FieldPhoto carries an opaque handle; anything goes.
		return nil
	}
}

// AssignField writes value into the profile's field.
func AssignField(profile *core.Profile, field ProfileField, value string) {
	switch field {
	case FieldName:
		profile.Name = value
	case FieldBranch:
		profile.Branch = value
	case FieldRole:
		profile.Role = value
	case FieldAbout:
		profile.About = value
	case FieldPhoto:
		profile.PhotoRef = value
	}
}

// StepField maps a form step to the field it collects.
func StepField(step FormStep) ProfileField {
	switch step {
	case StepName:
		return FieldName
	case StepBranch:
		return FieldBranch
	case StepRole:
		return FieldRole
	case StepAbout:
		return FieldAbout
	default:
		return FieldPhoto
	}
}

// Advance applies one text input to a creating-state form. Valid input fills
// the current field and moves to the next step; invalid input re-prompts at
// the same step. Every input either advances or re-prompts, never drops.
func (c Creating) Advance(input string) (next Creating, err error) {
	field := StepField(c.Step)
	if err := ValidateField(field, input); err != nil {
		return c, err
	}
	AssignField(&c.Draft, field, input)
	c.Step++
	return c, nil
}
