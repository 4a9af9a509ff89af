// Package pebblebatch persists immutable batches of byte-keyed update tuples
// in a Pebble database and reads them back through the trace cursor protocol.
//
// Each Append writes one batch atomically under a fresh batch id; batches are
// never modified afterwards, so any number of cursors may read them
// concurrently. A Store's batches, merged, form a log-structured trace.
package pebblebatch

import (
	"encoding/binary"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"go.uber.org/zap"

	"github.com/dacapoday/trace"
	"github.com/dacapoday/trace/borrow"
)

// Tuple is an update tuple as stored by a Store.
type Tuple = trace.Tuple[borrow.Bytes, borrow.Bytes, uint64, int64]

// Options configures Open.
type Options struct {
	// InMemory keeps the database in memory; the path is ignored.
	InMemory bool
	// Logger receives store and Pebble logs. Nil discards them.
	Logger *zap.SugaredLogger
	// NoSync skips the fsync on Append.
	NoSync bool
}

// Store is a Pebble database holding batches.
// Safe for concurrent use.
type Store struct {
	db     *pebble.DB
	log    *zap.SugaredLogger
	write  *pebble.WriteOptions
	mutex  sync.RWMutex
	nextID uint64
	closed bool
}

// Open opens or creates a store at path.
func Open(path string, opts Options) (*Store, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	pebbleOpts := &pebble.Options{Logger: log}
	if opts.InMemory {
		path = ""
		pebbleOpts.FS = vfs.NewMem()
	}
	db, err := pebble.Open(path, pebbleOpts)
	if err != nil {
		return nil, errors.Wrapf(err, "open pebble at %q", path)
	}

	store := &Store{db: db, log: log, write: pebble.Sync}
	if opts.NoSync {
		store.write = pebble.NoSync
	}
	if store.nextID, err = store.lastID(); err != nil {
		return nil, errors.CombineErrors(err, db.Close())
	}
	log.Debugw("opened batch store", "path", path, "nextID", store.nextID)
	return store, nil
}

// lastID returns one past the greatest persisted batch id.
func (store *Store) lastID() (uint64, error) {
	iter, err := store.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte{metaTag},
		UpperBound: []byte{metaTag + 1},
	})
	if err != nil {
		return 0, errors.Wrap(err, "scan batch ids")
	}
	defer iter.Close()
	if !iter.Last() {
		return 0, iter.Error()
	}
	k := iter.Key()
	if len(k) != 1+idLen {
		return 0, errors.Wrapf(ErrCorruptEntry, "meta key %x", k)
	}
	return binary.BigEndian.Uint64(k[1:]) + 1, nil
}

// Close closes the store. Open cursors must be closed first; afterwards
// every store and batch method returns ErrClosed.
func (store *Store) Close() error {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	if store.closed {
		return nil
	}
	store.closed = true
	return store.db.Close()
}

// Append writes tuples as a new batch and returns it.
// Tuples may be in any order; equal (key, val, time) tuples are all kept.
func (store *Store) Append(tuples []Tuple) (*Batch, error) {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	if store.closed {
		return nil, ErrClosed
	}

	id := store.nextID
	prefix := batchPrefix(id)
	wb := store.db.NewBatch()
	defer wb.Close()

	var diff []byte
	for seq, t := range tuples {
		diff = binary.AppendVarint(diff[:0], t.Diff)
		if err := wb.Set(entryKey(prefix, t.Key, t.Val, t.Time, uint64(seq)), diff, nil); err != nil {
			return nil, errors.Wrapf(err, "stage batch %d", id)
		}
	}
	if err := wb.Set(metaKey(id), binary.AppendUvarint(nil, uint64(len(tuples))), nil); err != nil {
		return nil, errors.Wrapf(err, "stage batch %d", id)
	}
	if err := wb.Commit(store.write); err != nil {
		return nil, errors.Wrapf(err, "commit batch %d", id)
	}

	store.nextID++
	store.log.Debugw("appended batch", "id", id, "updates", len(tuples))
	return store.newBatch(id, len(tuples)), nil
}

// Batch returns the batch with the given id.
func (store *Store) Batch(id uint64) (*Batch, error) {
	store.mutex.RLock()
	defer store.mutex.RUnlock()

	if store.closed {
		return nil, ErrClosed
	}

	val, closer, err := store.db.Get(metaKey(id))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, errors.Wrapf(ErrBatchNotFound, "batch %d", id)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read batch %d", id)
	}
	defer closer.Close()

	n, k := binary.Uvarint(val)
	if k <= 0 {
		return nil, errors.Wrapf(ErrCorruptEntry, "meta of batch %d", id)
	}
	return store.newBatch(id, int(n)), nil
}

// Batches returns every batch in id order.
func (store *Store) Batches() (batches []*Batch, err error) {
	store.mutex.RLock()
	defer store.mutex.RUnlock()

	if store.closed {
		return nil, ErrClosed
	}

	iter, err := store.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte{metaTag},
		UpperBound: []byte{metaTag + 1},
	})
	if err != nil {
		return nil, errors.Wrap(err, "scan batches")
	}
	defer iter.Close()

	for valid := iter.First(); valid; valid = iter.Next() {
		k := iter.Key()
		if len(k) != 1+idLen {
			return nil, errors.Wrapf(ErrCorruptEntry, "meta key %x", k)
		}
		n, size := binary.Uvarint(iter.Value())
		if size <= 0 {
			return nil, errors.Wrapf(ErrCorruptEntry, "meta key %x", k)
		}
		batches = append(batches, store.newBatch(binary.BigEndian.Uint64(k[1:]), int(n)))
	}
	return batches, iter.Error()
}
