package ord

import (
	"slices"

	"github.com/dacapoday/trace"
	"github.com/dacapoday/trace/borrow"
)

// Builder collects update tuples in any order and seals them into a Batch.
// Not thread-safe.
//
// Tuples with equal (key, val) keep their push order in the batch; updates
// are not consolidated.
type Builder[K borrow.Borrowed[K, KO], KO borrow.Owned[K], V borrow.Comparable[V], T, R any] struct {
	tuples []trace.Tuple[KO, V, T, R]
}

// Push adds one update tuple.
func (b *Builder[K, KO, V, T, R]) Push(key KO, val V, time T, diff R) {
	b.tuples = append(b.tuples, trace.Tuple[KO, V, T, R]{Key: key, Val: val, Time: time, Diff: diff})
}

// Extend adds every tuple of tuples.
func (b *Builder[K, KO, V, T, R]) Extend(tuples ...trace.Tuple[KO, V, T, R]) {
	b.tuples = append(b.tuples, tuples...)
}

// Len returns the number of pushed tuples.
func (b *Builder[K, KO, V, T, R]) Len() int {
	return len(b.tuples)
}

// Done sorts the pushed tuples into a Batch and resets the builder.
func (b *Builder[K, KO, V, T, R]) Done() *Batch[K, KO, V, T, R] {
	tuples := b.tuples
	b.tuples = nil

	slices.SortStableFunc(tuples, func(x, y trace.Tuple[KO, V, T, R]) int {
		if cmp := x.Key.Borrow().Compare(y.Key.Borrow()); cmp != 0 {
			return cmp
		}
		return x.Val.Compare(y.Val)
	})

	batch := &Batch[K, KO, V, T, R]{
		keyOffs: []int{0},
		valOffs: []int{0},
		updates: make([]trace.Update[T, R], 0, len(tuples)),
	}
	for i := range tuples {
		t := &tuples[i]
		newKey := i == 0 || t.Key.Borrow().Compare(tuples[i-1].Key.Borrow()) != 0
		if newKey || t.Val.Compare(tuples[i-1].Val) != 0 {
			if i != 0 {
				batch.valOffs = append(batch.valOffs, len(batch.updates))
			}
			if newKey {
				if i != 0 {
					batch.keyOffs = append(batch.keyOffs, len(batch.vals))
				}
				batch.keys = append(batch.keys, t.Key)
			}
			batch.vals = append(batch.vals, t.Val)
		}
		batch.updates = append(batch.updates, trace.Update[T, R]{Time: t.Time, Diff: t.Diff})
	}
	if len(tuples) != 0 {
		batch.keyOffs = append(batch.keyOffs, len(batch.vals))
		batch.valOffs = append(batch.valOffs, len(batch.updates))
	}
	return batch
}
