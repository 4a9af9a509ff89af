// Package cursor navigates sorted collections of (key, val, time, diff) updates.
//
// A Cursor differs from an iterator in two ways: it moves on two levels
// (keys, then the vals of the current key), and it seeks forward to a target
// instead of only stepping. Cursors never own their data. Every operation
// takes the storage the cursor was created from, so a cursor is a small
// position that many goroutines can hold independently over the same
// immutable storage. A single cursor is not safe for concurrent use.
//
// Usage:
//
//	for c.RewindKeys(s); c.KeyValid(s); c.StepKey(s) {
//		for c.RewindVals(s); c.ValValid(s); c.StepVal(s) {
//			c.MapTimes(s, func(t T, r R) {
//				// accumulate
//			})
//		}
//	}
package cursor

import (
	"iter"
)

// Cursor is a position within a sorted sequence of update tuples held by
// storage S. K is the borrowed view of the key type.
//
// Validity is two-level: ValValid is false whenever KeyValid is false.
// Exhaustion is not an error; it is reported only through the validity flags
// and is terminal until a rewind (or, for vals, a key step or seek).
type Cursor[S, K, V, T, R any] interface {
	// KeyValid reports whether the cursor is positioned at a key.
	KeyValid(s S) bool
	// ValValid reports whether the cursor is positioned at a val of the current key.
	ValValid(s S) bool

	// Key returns the current key. The returned view must stay valid as long
	// as the storage does, not just until the cursor moves: merges hold on
	// to keys across moves.
	// Panics with trace.ErrInvalidKey if KeyValid is false.
	Key(s S) K
	// Val returns the current val, valid as long as the storage.
	// Panics with trace.ErrInvalidVal if ValValid is false.
	Val(s S) V

	// GetKey returns the current key, or false if KeyValid is false.
	GetKey(s S) (K, bool)
	// GetVal returns the current val, or false if ValValid is false.
	GetVal(s S) (V, bool)

	// MapTimes calls visit once per (time, diff) pair of the current (key, val).
	// The order is unspecified but fixed for the storage. No-op if ValValid is false.
	MapTimes(s S, visit func(time T, diff R))

	// StepKey advances to the next key and its first val.
	StepKey(s S)
	// SeekKey advances to the first key >= key.
	// Keys at or behind the current position leave the cursor unchanged.
	SeekKey(s S, key K)

	// StepVal advances to the next val of the current key.
	StepVal(s S)
	// SeekVal advances to the first val >= val within the current key.
	SeekVal(s S, val V)

	// RewindKeys moves to the first key and its first val.
	RewindKeys(s S)
	// RewindVals moves to the first val of the current key.
	RewindVals(s S)
}

// Times returns the (time, diff) pairs of the current (key, val) as a sequence.
// The sequence is empty if the val position is invalid.
func Times[S, K, V, T, R any](c Cursor[S, K, V, T, R], s S) iter.Seq2[T, R] {
	return func(yield func(T, R) bool) {
		done := false
		c.MapTimes(s, func(time T, diff R) {
			if !done && !yield(time, diff) {
				done = true
			}
		})
	}
}
