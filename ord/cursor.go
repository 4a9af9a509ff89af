package ord

import (
	"sort"

	"github.com/dacapoday/trace"
	"github.com/dacapoday/trace/borrow"
	"github.com/dacapoday/trace/cursor"
)

// Cursor is a position in a Batch. The zero value is at the first key.
type Cursor[K borrow.Borrowed[K, KO], KO borrow.Owned[K], V borrow.Comparable[V], T, R any] struct {
	key int
	val int
}

var _ cursor.Cursor[*Batch[borrow.View, borrow.Bytes, borrow.View, uint64, int64], borrow.View, borrow.View, uint64, int64] = (*Cursor[borrow.View, borrow.Bytes, borrow.View, uint64, int64])(nil)

// KeyValid reports whether the cursor is positioned at a key.
func (c *Cursor[K, KO, V, T, R]) KeyValid(batch *Batch[K, KO, V, T, R]) bool {
	return c.key < len(batch.keys)
}

// ValValid reports whether the cursor is positioned at a val of the current key.
func (c *Cursor[K, KO, V, T, R]) ValValid(batch *Batch[K, KO, V, T, R]) bool {
	return c.key < len(batch.keys) && c.val < batch.valEnd(c.key)
}

// Key returns the current key.
func (c *Cursor[K, KO, V, T, R]) Key(batch *Batch[K, KO, V, T, R]) K {
	if !c.KeyValid(batch) {
		panic(trace.ErrInvalidKey)
	}
	return batch.key(c.key)
}

// Val returns the current val.
func (c *Cursor[K, KO, V, T, R]) Val(batch *Batch[K, KO, V, T, R]) V {
	if !c.ValValid(batch) {
		panic(trace.ErrInvalidVal)
	}
	return batch.vals[c.val]
}

// GetKey returns the current key, or false if there is none.
func (c *Cursor[K, KO, V, T, R]) GetKey(batch *Batch[K, KO, V, T, R]) (key K, ok bool) {
	if ok = c.KeyValid(batch); ok {
		key = batch.key(c.key)
	}
	return
}

// GetVal returns the current val, or false if there is none.
func (c *Cursor[K, KO, V, T, R]) GetVal(batch *Batch[K, KO, V, T, R]) (val V, ok bool) {
	if ok = c.ValValid(batch); ok {
		val = batch.vals[c.val]
	}
	return
}

// MapTimes visits updates in the order they were pushed to the Builder.
func (c *Cursor[K, KO, V, T, R]) MapTimes(batch *Batch[K, KO, V, T, R], visit func(T, R)) {
	if !c.ValValid(batch) {
		return
	}
	for _, u := range batch.updates[batch.valOffs[c.val]:batch.valOffs[c.val+1]] {
		visit(u.Time, u.Diff)
	}
}

// StepKey advances to the next key.
func (c *Cursor[K, KO, V, T, R]) StepKey(batch *Batch[K, KO, V, T, R]) {
	if c.KeyValid(batch) {
		c.key++
		c.val = batch.keyOffs[c.key]
	}
}

// SeekKey gallops to the first key >= key.
func (c *Cursor[K, KO, V, T, R]) SeekKey(batch *Batch[K, KO, V, T, R], key K) {
	if !c.KeyValid(batch) {
		return
	}
	next := advance(c.key, len(batch.keys), func(i int) bool {
		return batch.key(i).Compare(key) < 0
	})
	if next != c.key {
		c.key = next
		c.val = batch.keyOffs[next]
	}
}

// StepVal advances to the next val of the current key.
func (c *Cursor[K, KO, V, T, R]) StepVal(batch *Batch[K, KO, V, T, R]) {
	if c.ValValid(batch) {
		c.val++
	}
}

// SeekVal gallops to the first val >= val of the current key.
func (c *Cursor[K, KO, V, T, R]) SeekVal(batch *Batch[K, KO, V, T, R], val V) {
	if !c.ValValid(batch) {
		return
	}
	c.val = advance(c.val, batch.valEnd(c.key), func(i int) bool {
		return batch.vals[i].Compare(val) < 0
	})
}

// RewindKeys moves to the first key.
func (c *Cursor[K, KO, V, T, R]) RewindKeys(batch *Batch[K, KO, V, T, R]) {
	c.key = 0
	c.val = batch.keyOffs[0]
}

// RewindVals moves to the first val of the current key.
func (c *Cursor[K, KO, V, T, R]) RewindVals(batch *Batch[K, KO, V, T, R]) {
	if c.KeyValid(batch) {
		c.val = batch.keyOffs[c.key]
	}
}

// advance returns the first index in [lo, hi) where less is false, or hi.
// less must hold on a prefix of the range. It gallops from lo, so the cost
// is logarithmic in the distance moved rather than in hi-lo.
func advance(lo, hi int, less func(int) bool) int {
	if lo >= hi || !less(lo) {
		return lo
	}
	step := 1
	for lo+step < hi && less(lo+step) {
		lo += step
		step <<= 1
	}
	end := min(lo+step, hi)
	return lo + 1 + sort.Search(end-lo-1, func(i int) bool {
		return !less(lo + 1 + i)
	})
}
