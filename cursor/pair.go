package cursor

import (
	"github.com/dacapoday/trace"
	"github.com/dacapoday/trace/borrow"
)

// PairStorage is the storage of a Pair: the storages of its two cursors.
type PairStorage[S1, S2 any] struct {
	First  S1
	Second S2
}

// Pair merges two cursors, possibly of different implementations, into one
// cursor over the union of their updates.
//
// The side with the smaller key (then val) is exposed; an exhausted side
// orders after every key. When both sides sit on the same (key, val), the
// updates of First are reported before those of Second. Updates are never
// consolidated: a source merged with itself reports each update twice.
/*
Pair State List
key{
	first:  First < Second, or Second exhausted
	second: Second < First, or First exhausted
	same{
		val{
			first:  First < Second, or Second exhausted
			second: Second < First, or First exhausted
			same:   equal vals, or both exhausted
		}
	}
}
*/
type Pair[S1, S2 any, K borrow.Comparable[K], V borrow.Comparable[V], T, R any] struct {
	first  Cursor[S1, K, V, T, R]
	second Cursor[S2, K, V, T, R]
	key    order
	val    order
}

type order int8

const (
	same order = iota
	first
	second
)

// NewPair positions a Pair at the current positions of first and second.
// Both cursors are owned by the Pair afterwards; moving them directly
// desynchronizes the Pair.
func NewPair[S1, S2 any, K borrow.Comparable[K], V borrow.Comparable[V], T, R any](
	first Cursor[S1, K, V, T, R],
	second Cursor[S2, K, V, T, R],
	s PairStorage[S1, S2],
) *Pair[S1, S2, K, V, T, R] {
	pair := &Pair[S1, S2, K, V, T, R]{first: first, second: second}
	pair.settleKey(s)
	return pair
}

var _ Cursor[PairStorage[any, any], borrow.View, borrow.View, uint64, int64] = (*Pair[any, any, borrow.View, borrow.View, uint64, int64])(nil)

// KeyValid returns true if either side has a key.
func (pair *Pair[S1, S2, K, V, T, R]) KeyValid(s PairStorage[S1, S2]) bool {
	return pair.first.KeyValid(s.First) || pair.second.KeyValid(s.Second)
}

// ValValid reports whether the cursor is positioned at a val of the current key.
func (pair *Pair[S1, S2, K, V, T, R]) ValValid(s PairStorage[S1, S2]) bool {
	switch pair.key {
	case first:
		return pair.first.ValValid(s.First)
	case second:
		return pair.second.ValValid(s.Second)
	}
	return pair.first.ValValid(s.First) || pair.second.ValValid(s.Second)
}

// Key returns the current key.
func (pair *Pair[S1, S2, K, V, T, R]) Key(s PairStorage[S1, S2]) K {
	if pair.key == second {
		return pair.second.Key(s.Second)
	}
	if !pair.first.KeyValid(s.First) {
		panic(trace.ErrInvalidKey)
	}
	return pair.first.Key(s.First)
}

// Val returns the current val.
func (pair *Pair[S1, S2, K, V, T, R]) Val(s PairStorage[S1, S2]) V {
	if pair.key == second || pair.key == same && pair.val == second {
		return pair.second.Val(s.Second)
	}
	if !pair.first.ValValid(s.First) {
		panic(trace.ErrInvalidVal)
	}
	return pair.first.Val(s.First)
}

// GetKey returns the current key, or false if there is none.
func (pair *Pair[S1, S2, K, V, T, R]) GetKey(s PairStorage[S1, S2]) (key K, ok bool) {
	if ok = pair.KeyValid(s); ok {
		key = pair.Key(s)
	}
	return
}

// GetVal returns the current val, or false if there is none.
func (pair *Pair[S1, S2, K, V, T, R]) GetVal(s PairStorage[S1, S2]) (val V, ok bool) {
	if ok = pair.ValValid(s); ok {
		val = pair.Val(s)
	}
	return
}

// MapTimes reports the updates of First, then those of Second.
func (pair *Pair[S1, S2, K, V, T, R]) MapTimes(s PairStorage[S1, S2], visit func(T, R)) {
	switch pair.key {
	case first:
		pair.first.MapTimes(s.First, visit)
	case second:
		pair.second.MapTimes(s.Second, visit)
	default:
		if pair.val != second {
			pair.first.MapTimes(s.First, visit)
		}
		if pair.val != first {
			pair.second.MapTimes(s.Second, visit)
		}
	}
}

// StepKey advances every side at the current key.
func (pair *Pair[S1, S2, K, V, T, R]) StepKey(s PairStorage[S1, S2]) {
	if pair.key != second {
		pair.first.StepKey(s.First)
	}
	if pair.key != first {
		pair.second.StepKey(s.Second)
	}
	pair.settleKey(s)
}

// SeekKey seeks both sides.
func (pair *Pair[S1, S2, K, V, T, R]) SeekKey(s PairStorage[S1, S2], key K) {
	pair.first.SeekKey(s.First, key)
	pair.second.SeekKey(s.Second, key)
	pair.settleKey(s)
}

// StepVal advances to the next val of the current key.
func (pair *Pair[S1, S2, K, V, T, R]) StepVal(s PairStorage[S1, S2]) {
	switch pair.key {
	case first:
		pair.first.StepVal(s.First)
	case second:
		pair.second.StepVal(s.Second)
	default:
		if pair.val != second {
			pair.first.StepVal(s.First)
		}
		if pair.val != first {
			pair.second.StepVal(s.Second)
		}
		pair.settleVal(s)
	}
}

// SeekVal advances to the first val >= val of the current key.
func (pair *Pair[S1, S2, K, V, T, R]) SeekVal(s PairStorage[S1, S2], val V) {
	switch pair.key {
	case first:
		pair.first.SeekVal(s.First, val)
	case second:
		pair.second.SeekVal(s.Second, val)
	default:
		pair.first.SeekVal(s.First, val)
		pair.second.SeekVal(s.Second, val)
		pair.settleVal(s)
	}
}

// RewindKeys moves to the first key.
func (pair *Pair[S1, S2, K, V, T, R]) RewindKeys(s PairStorage[S1, S2]) {
	pair.first.RewindKeys(s.First)
	pair.second.RewindKeys(s.Second)
	pair.settleKey(s)
}

// RewindVals moves to the first val of the current key.
func (pair *Pair[S1, S2, K, V, T, R]) RewindVals(s PairStorage[S1, S2]) {
	switch pair.key {
	case first:
		pair.first.RewindVals(s.First)
	case second:
		pair.second.RewindVals(s.Second)
	default:
		pair.first.RewindVals(s.First)
		pair.second.RewindVals(s.Second)
		pair.settleVal(s)
	}
}

// settleKey recomputes the key state after either side moved.
func (pair *Pair[S1, S2, K, V, T, R]) settleKey(s PairStorage[S1, S2]) {
	k1, ok1 := pair.first.GetKey(s.First)
	k2, ok2 := pair.second.GetKey(s.Second)
	pair.key = compare(k1, ok1, k2, ok2)
	if pair.key == same {
		pair.settleVal(s)
	} else {
		pair.val = same
	}
}

// settleVal recomputes the val state; only meaningful on a shared key.
func (pair *Pair[S1, S2, K, V, T, R]) settleVal(s PairStorage[S1, S2]) {
	v1, ok1 := pair.first.GetVal(s.First)
	v2, ok2 := pair.second.GetVal(s.Second)
	pair.val = compare(v1, ok1, v2, ok2)
}

// compare orders two optional positions, treating an absent one as largest.
func compare[B borrow.Comparable[B]](a B, aok bool, b B, bok bool) order {
	switch {
	case aok && bok:
		if cmp := a.Compare(b); cmp < 0 {
			return first
		} else if cmp > 0 {
			return second
		}
		return same
	case aok:
		return first
	case bok:
		return second
	}
	return same
}
