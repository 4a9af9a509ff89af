// Package trace defines the data model shared by trace cursors and batches.
//
// A trace is the time-indexed history of a collection, kept as immutable
// batches of update tuples (key, val, time, diff). Each tuple contributes
// diff to the multiplicity of (key, val) at the logical time.
package trace

// Update is one (time, diff) pair of a (key, val) group.
type Update[T, R any] struct {
	Time T
	Diff R
}

// Tuple is a full update tuple.
type Tuple[K, V, T, R any] struct {
	Key  K
	Val  V
	Time T
	Diff R
}
