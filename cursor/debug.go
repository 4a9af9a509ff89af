package cursor

import (
	"github.com/dacapoday/trace"
	"github.com/dacapoday/trace/borrow"
)

// Entry is one (key, val) group with its updates.
type Entry[K, V, T, R any] struct {
	Key     K
	Val     V
	Updates []trace.Update[T, R]
}

// ToVec rewinds c and drains it into (key, val) groups in ascending order.
// Keys are converted to their owned form. Updates keep the order MapTimes
// reports them in.
//
// Intended for tests and debugging; it visits every update.
func ToVec[S any, K borrow.Borrowed[K, KO], KO, V, T, R any](c Cursor[S, K, V, T, R], s S) (out []Entry[KO, V, T, R]) {
	c.RewindKeys(s)
	c.RewindVals(s)
	for c.KeyValid(s) {
		for c.ValValid(s) {
			var updates []trace.Update[T, R]
			c.MapTimes(s, func(time T, diff R) {
				updates = append(updates, trace.Update[T, R]{Time: time, Diff: diff})
			})
			out = append(out, Entry[KO, V, T, R]{
				Key:     c.Key(s).ToOwned(),
				Val:     c.Val(s),
				Updates: updates,
			})
			c.StepVal(s)
		}
		c.StepKey(s)
	}
	return
}
