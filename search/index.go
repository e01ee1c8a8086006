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


// Package search provides a keyword index over profile text. The index is an
// in-memory derived structure: it is rebuilt from the profile store at startup
// and kept in step synchronously on every profile save and delete.
package search

import (
	"context"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/poiesic/mingle/core"
	"github.com/poiesic/mingle/storage"
)

// DefaultLimit caps Query results when the caller passes no positive limit.
const DefaultLimit = 50

// exact term hits count double relative to substring hits
const (
	exactWeight     = 2
	substringWeight = 1
)

// Index is a thread-safe keyword index over profile documents.
type Index struct {
	mu     sync.RWMutex
	docs   map[core.ID]*document
	logger *slog.Logger
}

// document is one profile's indexed form.
type document struct {
	id          core.ID
	name        string // ranking tie-break
	terms       []string
	termSet     map[string]struct{}
	fingerprint uint64
}

// Option configures an Index.
type Option func(*Index)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(idx *Index) {
		if logger == nil {
			logger = slog.Default()
		}
		idx.logger = logger
	}
}

// NewIndex creates an empty index.
func NewIndex(opts ...Option) *Index {
	idx := &Index{
		docs:   make(map[core.ID]*document),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// Upsert indexes (or reindexes) the profile. Unchanged searchable text is
// detected by content fingerprint and skipped.
func (idx *Index) Upsert(profile *core.Profile) {
	text := profile.SearchText()
	fingerprint := core.FingerprintText(text)

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if old, ok := idx.docs[profile.Id]; ok && old.fingerprint == fingerprint {
		return
	}

	terms := tokenize(text)
	termSet := make(map[string]struct{}, len(terms))
	for _, term := range terms {
		termSet[term] = struct{}{}
	}

	idx.docs[profile.Id] = &document{
		id:          profile.Id,
		name:        profile.Name,
		terms:       terms,
		termSet:     termSet,
		fingerprint: fingerprint,
	}
}

// Remove drops the profile from the index.
func (idx *Index) Remove(id core.ID) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	delete(idx.docs, id)
}

// Len returns the number of indexed documents.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.docs)
}

// Rebuild discards the index and re-derives it from every profile in the
// store. The index is fully re-derivable; this runs at startup.
func (idx *Index) Rebuild(ctx context.Context, profiles storage.ProfileRepository) error {
	idx.mu.Lock()
	idx.docs = make(map[core.ID]*document)
	idx.mu.Unlock()

	count := 0
	err := profiles.All(ctx, func(profile *core.Profile) error {
		idx.Upsert(profile)
		count++
		return nil
	})
	if err != nil {
		return err
	}

	idx.logger.Info("search index rebuilt", "profiles", count)
	return nil
}

// Query returns profile ids ranked by relevance to the query text. A profile
// matches when any query term equals an indexed term or is a substring of one
// (which subsumes prefix matches); matching is OR across query terms. Exact
// term hits outrank substring hits; ties break by profile name, then id. An
// empty or whitespace-only query yields no results. exclude (typically the
// querying viewer) is never returned; limit <= 0 means DefaultLimit.
func (idx *Index) Query(query string, exclude core.ID, limit int) []core.ID {
	queryTerms := tokenize(query)
	if len(queryTerms) == 0 {
		return nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	type hit struct {
		doc   *document
		score int
	}
	hits := make([]hit, 0, len(idx.docs))

	for _, doc := range idx.docs {
		if doc.id == exclude {
			continue
		}
		score := 0
		for _, q := range queryTerms {
			if _, exact := doc.termSet[q]; exact {
				score += exactWeight
				continue
			}
			for _, term := range doc.terms {
				if strings.Contains(term, q) {
					score += substringWeight
					break
				}
			}
		}
		if score > 0 {
			hits = append(hits, hit{doc: doc, score: score})
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		if hits[i].doc.name != hits[j].doc.name {
			return hits[i].doc.name < hits[j].doc.name
		}
		return hits[i].doc.id < hits[j].doc.id
	})

	if len(hits) > limit {
		hits = hits[:limit]
	}

	ids := make([]core.ID, len(hits))
	for i, h := range hits {
		ids[i] = h.doc.id
	}
	return ids
}

// Terms returns the indexed terms of a document, for diagnostics.
func (idx *Index) Terms(id core.ID) []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	doc, ok := idx.docs[id]
	if !ok {
		return nil
	}
	return slices.Clone(doc.terms)
}
