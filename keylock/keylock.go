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


// Package keylock provides a sharded mutex keyed by string. Operations on the
// same key are mutually exclusive; operations on different keys usually run in
// parallel (two keys may share a shard, which costs throughput, never safety).
package keylock

import (
	"hash/fnv"
	"sync"
)

const defaultShards = 64

// KeyedMutex is a fixed set of mutex shards addressed by key hash.
// The zero value is not usable; use New.
type KeyedMutex struct {
	shards []sync.Mutex
}

// New creates a KeyedMutex with the given shard count.
// A non-positive count falls back to the default.
func New(shards int) *KeyedMutex {
	if shards <= 0 {
		shards = defaultShards
	}
	return &KeyedMutex{shards: make([]sync.Mutex, shards)}
}

// Lock acquires the shard owning key and returns the matching unlock func.
func (m *KeyedMutex) Lock(key string) (unlock func()) {
	shard := &m.shards[m.index(key)]
	shard.Lock()
	return shard.Unlock
}

func (m *KeyedMutex) index(key string) int {
	h := fnv.New32a()
	h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(m.shards)))
}
