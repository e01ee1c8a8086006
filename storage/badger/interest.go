package badger

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/mingle/core"
	"github.com/poiesic/mingle/storage"
)

// InterestRepository implements storage.InterestRepository for BadgerDB.
type InterestRepository struct {
	backend *Backend
}

var _ storage.InterestRepository = (*InterestRepository)(nil)

// NewInterestRepository creates a new InterestRepository.
func NewInterestRepository(backend *Backend) *InterestRepository {
	return &InterestRepository{backend: backend}
}

// Close implements storage.InterestRepository.
func (r *InterestRepository) Close() error {
	return nil
}

// AddEdge inserts the edge (from, to) if absent. Re-inserting is a no-op.
func (r *InterestRepository) AddEdge(ctx context.Context, from, to core.ID) error {
	if from == to {
		return core.ErrSelfInterest
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeInterestKey(from, to)

		_, err := tx.Get(key)
		if err == nil {
			// Edge already present; repeated interest is not an error.
			return nil
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		edge := &core.InterestEdge{From: from, To: to, CreatedAt: time.Now().UTC()}
		if err := tx.Set(key, storage.MarshalInterestEdge(edge)); err != nil {
			return err
		}
		if err := tx.Set(makeInterestReverseKey(from, to), []byte{}); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// HasEdge reports whether the edge (from, to) exists.
func (r *InterestRepository) HasEdge(ctx context.Context, from, to core.ID) (bool, error) {
	var exists bool

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		exists, err = hasEdgeTx(tx, from, to)
		return err
	}, false)

	return exists, err
}

// IsMutual reports whether edges exist in both directions between a and b.
// Both lookups run inside a single transaction, so they observe one
// consistent snapshot.
func (r *InterestRepository) IsMutual(ctx context.Context, a, b core.ID) (bool, error) {
	var mutual bool

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		forward, err := hasEdgeTx(tx, a, b)
		if err != nil {
			return err
		}
		if !forward {
			return nil
		}
		backward, err := hasEdgeTx(tx, b, a)
		if err != nil {
			return err
		}
		mutual = backward
		return nil
	}, false)

	return mutual, err
}

// PurgeAll removes every edge with from == id or to == id.
func (r *InterestRepository) PurgeAll(ctx context.Context, id core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := purgeEdgesTx(tx, id); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// CountEdges returns the number of stored edges.
func (r *InterestRepository) CountEdges(ctx context.Context) (int, error) {
	var count int

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(interestPrefix + ":")
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

func hasEdgeTx(tx *badger.Txn, from, to core.ID) (bool, error) {
	_, err := tx.Get(makeInterestKey(from, to))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	return false, err
}

// purgeEdgesTx deletes every edge touching id, in both directions, without
// committing. Profile deletion calls this inside its own transaction so the
// cascade is atomic with the profile removal.
func purgeEdgesTx(tx *badger.Txn, id core.ID) error {
	var doomed [][]byte

	// Outgoing edges: forward keys under the (id, *) prefix.
	opts := badger.DefaultIteratorOptions
	opts.Prefix = makePartialInterestKey(id)
	opts.PrefetchValues = true
	iter := tx.NewIterator(opts)
	for iter.Rewind(); iter.Valid(); iter.Next() {
		var edge *core.InterestEdge
		err := iter.Item().Value(func(val []byte) error {
			var err error
			edge, err = storage.UnmarshalInterestEdge(val)
			return err
		})
		if err != nil {
			iter.Close()
			return err
		}
		doomed = append(doomed,
			iter.Item().KeyCopy(nil),
			makeInterestReverseKey(edge.From, edge.To))
	}
	iter.Close()

	// Incoming edges: reverse-index keys under the (*, id) prefix.
	opts = badger.DefaultIteratorOptions
	opts.Prefix = makePartialInterestReverseKey(id)
	opts.PrefetchValues = false
	iter = tx.NewIterator(opts)
	for iter.Rewind(); iter.Valid(); iter.Next() {
		from, to, err := parseInterestReverseKey(iter.Item().Key())
		if err != nil {
			iter.Close()
			return err
		}
		doomed = append(doomed,
			iter.Item().KeyCopy(nil),
			makeInterestKey(from, to))
	}
	iter.Close()

	for _, key := range doomed {
		if err := tx.Delete(key); err != nil {
			return err
		}
	}
	return nil
}
