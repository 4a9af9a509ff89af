// Package ord provides an immutable in-memory batch of update tuples, sorted
// by (key, val), and a cursor over it.
//
// The batch is columnar: keys, vals and updates live in three flat slices,
// and two offset slices map each key to its range of vals and each val to
// its range of updates. A cursor is two integers.
//
// Example usage:
//
//	var b Builder[borrow.String, borrow.String, borrow.String, uint64, int64]
//	b.Push("apple", "red", 1, +1)
//	b.Push("apple", "red", 2, -1)
//	batch := b.Done()
//
//	c := batch.Cursor()
//	for ; c.KeyValid(batch); c.StepKey(batch) {
//		// ...
//	}
package ord

import (
	"github.com/dacapoday/trace"
	"github.com/dacapoday/trace/borrow"
)

// Batch is an immutable sorted set of update tuples.
// K is the borrowed key view, KO the owned key. Safe for concurrent reads.
type Batch[K borrow.Borrowed[K, KO], KO borrow.Owned[K], V borrow.Comparable[V], T, R any] struct {
	keys    []KO
	keyOffs []int // vals of keys[i] are vals[keyOffs[i]:keyOffs[i+1]]
	vals    []V
	valOffs []int // updates of vals[i] are updates[valOffs[i]:valOffs[i+1]]
	updates []trace.Update[T, R]
}

// Len returns the number of updates.
func (batch *Batch[K, KO, V, T, R]) Len() int {
	return len(batch.updates)
}

// Empty returns true if the batch has no keys.
func (batch *Batch[K, KO, V, T, R]) Empty() bool {
	return len(batch.keys) == 0
}

// Keys implements iter.Seq[K] over the distinct keys in ascending order.
func (batch *Batch[K, KO, V, T, R]) Keys(yield func(K) bool) {
	for i := range batch.keys {
		if !yield(batch.keys[i].Borrow()) {
			return
		}
	}
}

// Cursor returns a cursor positioned at the first key.
func (batch *Batch[K, KO, V, T, R]) Cursor() Cursor[K, KO, V, T, R] {
	return Cursor[K, KO, V, T, R]{}
}

func (batch *Batch[K, KO, V, T, R]) key(i int) K {
	return batch.keys[i].Borrow()
}

// valEnd returns the end of the val range of key i.
func (batch *Batch[K, KO, V, T, R]) valEnd(i int) int {
	return batch.keyOffs[i+1]
}
