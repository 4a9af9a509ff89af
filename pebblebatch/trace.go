package pebblebatch

import (
	"github.com/cockroachdb/errors"

	"github.com/dacapoday/trace/borrow"
	"github.com/dacapoday/trace/cursor"
)

// Trace is a merged cursor over batches of one Store.
// Its storage is Batches, which Trace passes to the embedded List.
type Trace struct {
	*cursor.List[*Batch, borrow.View, borrow.View, uint64, int64]
	Batches []*Batch
	cursors []*Cursor
}

// Trace opens a merged cursor over every batch in the store.
//
// Important: Caller must call Close to release the batch cursors.
func (store *Store) Trace() (*Trace, error) {
	batches, err := store.Batches()
	if err != nil {
		return nil, err
	}
	return OpenTrace(batches)
}

// OpenTrace opens a merged cursor over batches. Updates of equal (key, val)
// are reported batch by batch in slice order.
func OpenTrace(batches []*Batch) (*Trace, error) {
	t := &Trace{Batches: batches}
	cursors := make([]cursor.Cursor[*Batch, borrow.View, borrow.View, uint64, int64], 0, len(batches))
	for _, batch := range batches {
		c, err := batch.Cursor()
		if err != nil {
			return nil, errors.CombineErrors(err, t.Close())
		}
		t.cursors = append(t.cursors, c)
		cursors = append(cursors, c)
	}
	t.List = cursor.NewList(cursors, batches)
	return t, nil
}

// Error returns the first failure of any batch cursor.
func (t *Trace) Error() error {
	for _, c := range t.cursors {
		if err := c.Error(); err != nil {
			return err
		}
	}
	return nil
}

// Close releases every batch cursor.
func (t *Trace) Close() (err error) {
	for _, c := range t.cursors {
		err = errors.CombineErrors(err, c.Close())
	}
	t.cursors = nil
	return
}
