package pebblebatch

import (
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pebble"
)

// Batch is an immutable batch in a Store. It is the storage its cursors
// address: cursor operations take the Batch they were created from.
type Batch struct {
	store  *Store
	id     uint64
	prefix []byte
	len    int
}

func (store *Store) newBatch(id uint64, n int) *Batch {
	return &Batch{store: store, id: id, prefix: batchPrefix(id), len: n}
}

// ID returns the batch id. Ids grow with Append order.
func (batch *Batch) ID() uint64 {
	return batch.id
}

// Len returns the number of updates.
func (batch *Batch) Len() int {
	return batch.len
}

// Cursor returns a cursor positioned at the first key.
//
// Important: Caller must call Close to release the underlying iterator.
func (batch *Batch) Cursor() (*Cursor, error) {
	store := batch.store
	store.mutex.RLock()
	defer store.mutex.RUnlock()

	if store.closed {
		return nil, ErrClosed
	}

	iter, err := store.db.NewIter(&pebble.IterOptions{
		LowerBound: batch.prefix,
		UpperBound: upperBound(batch.prefix),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open cursor on batch %d", batch.id)
	}
	c := &Cursor{iter: iter}
	c.RewindKeys(batch)
	return c, nil
}
