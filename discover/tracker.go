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
	"sync"

	"github.com/poiesic/mingle/core"
)

// Tracker holds, per viewer, the set of candidate ids already shown to them.
// State is process-wide and ephemeral: it is empty after a restart, which is
// an accepted property, not a bug.
//
// All mutations take the tracker lock, so concurrent Record calls for the
// same viewer cannot lose an entry.
type Tracker struct {
	mu    sync.RWMutex
	views map[core.ID]*viewSet
}

// viewSet is an insertion-ordered set of profile ids.
type viewSet struct {
	order []core.ID
	seen  map[core.ID]struct{}
}

// NewTracker creates an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{views: make(map[core.ID]*viewSet)}
}

// Record marks candidate as shown to viewer. Recording an id that is already
// present is a no-op; insertion order is retained for display.
func (t *Tracker) Record(viewer, candidate core.ID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	vs, ok := t.views[viewer]
	if !ok {
		vs = &viewSet{seen: make(map[core.ID]struct{})}
		t.views[viewer] = vs
	}
	if _, dup := vs.seen[candidate]; dup {
		return
	}
	vs.seen[candidate] = struct{}{}
	vs.order = append(vs.order, candidate)
}

// Get returns a copy of the viewer's shown ids, in insertion order.
func (t *Tracker) Get(viewer core.ID) []core.ID {
	t.mu.RLock()
	defer t.mu.RUnlock()

	vs, ok := t.views[viewer]
	if !ok {
		return nil
	}
	out := make([]core.ID, len(vs.order))
	copy(out, vs.order)
	return out
}

// Has reports whether candidate was already shown to viewer.
func (t *Tracker) Has(viewer, candidate core.ID) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	vs, ok := t.views[viewer]
	if !ok {
		return false
	}
	_, seen := vs.seen[candidate]
	return seen
}

// Clear empties the viewer's shown set.
func (t *Tracker) Clear(viewer core.ID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.views, viewer)
}

// Forget removes id from every viewer's shown set. Called after a profile
// hard-delete so trackers don't accumulate ids that no longer resolve.
func (t *Tracker) Forget(id core.ID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.views, id)
	for _, vs := range t.views {
		if _, ok := vs.seen[id]; !ok {
			continue
		}
		delete(vs.seen, id)
		for i, got := range vs.order {
			if got == id {
				vs.order = append(vs.order[:i], vs.order[i+1:]...)
				break
			}
		}
	}
}
