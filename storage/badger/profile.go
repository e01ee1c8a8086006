package badger

import (
	"context"
	"errors"
	"math/rand/v2"
	"slices"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/mingle/core"
	"github.com/poiesic/mingle/storage"
)

// ProfileRepository implements storage.ProfileRepository for BadgerDB.
type ProfileRepository struct {
	backend *Backend
}

var _ storage.ProfileRepository = (*ProfileRepository)(nil)

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(backend *Backend) *ProfileRepository {
	return &ProfileRepository{backend: backend}
}

// Close implements storage.ProfileRepository.
func (r *ProfileRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *ProfileRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// Put inserts or fully replaces the profile keyed by its Id.
func (r *ProfileRepository) Put(ctx context.Context, profile *core.Profile) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeProfileKey(profile.Id)

		old, err := readProfile(tx, key)
		if err != nil {
			return err
		}
		switch {
		case old != nil:
			// Upsert keeps the original creation time.
			profile.CreatedAt = old.CreatedAt
		case profile.CreatedAt.IsZero():
			profile.CreatedAt = time.Now().UTC()
		}

		if err := tx.Set(key, storage.MarshalProfile(profile)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Get retrieves a profile by id.
func (r *ProfileRepository) Get(ctx context.Context, id core.ID) (*core.Profile, error) {
	var profile *core.Profile

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		profile, err = readProfile(tx, makeProfileKey(id))
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, storage.ErrNotFound
	}
	return profile, nil
}

// Delete removes the profile and purges all interest edges referencing it
// within the same transaction.
func (r *ProfileRepository) Delete(ctx context.Context, id core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeProfileKey(id)

		if _, err := tx.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		if err := tx.Delete(key); err != nil {
			return err
		}
		if err := purgeEdgesTx(tx, id); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Count returns the number of stored profiles.
func (r *ProfileRepository) Count(ctx context.Context) (int, error) {
	var count int

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(profilePrefix + ":")
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)

	return count, err
}

// GetMany retrieves profiles by id, ordered by name. Missing ids are skipped.
func (r *ProfileRepository) GetMany(ctx context.Context, ids ...core.ID) ([]*core.Profile, error) {
	profiles := make([]*core.Profile, 0, len(ids))

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			profile, err := readProfile(tx, makeProfileKey(id))
			if err != nil {
				return err
			}
			if profile != nil {
				profiles = append(profiles, profile)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(profiles, func(a, b *core.Profile) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		if a.Id < b.Id {
			return -1
		}
		if a.Id > b.Id {
			return 1
		}
		return 0
	})

	return profiles, nil
}

// RandomExcluding returns one profile chosen uniformly at random from all
// profiles whose id is not in exclude, using a single-pass reservoir sample
// over the profile prefix.
func (r *ProfileRepository) RandomExcluding(ctx context.Context, exclude map[core.ID]struct{}) (*core.Profile, error) {
	var (
		chosen []byte
		seen   int
	)

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(profilePrefix + ":")
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()
			id, err := parseProfileKey(item.Key())
			if err != nil {
				return err
			}
			if _, excluded := exclude[id]; excluded {
				continue
			}

			// Reservoir sampling: the i-th eligible item replaces the
			// current choice with probability 1/i.
			seen++
			if rand.IntN(seen) == 0 {
				value, err := item.ValueCopy(nil)
				if err != nil {
					return err
				}
				chosen = value
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	if chosen == nil {
		return nil, storage.ErrNoCandidates
	}
	return storage.UnmarshalProfile(chosen)
}

// All iterates over every stored profile.
func (r *ProfileRepository) All(ctx context.Context, fn func(*core.Profile) error) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(profilePrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var profile *core.Profile
			err := iter.Item().Value(func(val []byte) error {
				var err error
				profile, err = storage.UnmarshalProfile(val)
				return err
			})
			if err != nil {
				return err
			}
			if err := fn(profile); err != nil {
				return err
			}
		}
		return nil
	}, false)
}

// readProfile reads and unmarshals a profile, returning nil if absent.
func readProfile(tx *badger.Txn, key []byte) (*core.Profile, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var profile *core.Profile
	err = item.Value(func(val []byte) error {
		var err error
		profile, err = storage.UnmarshalProfile(val)
		return err
	})
	return profile, err
}
