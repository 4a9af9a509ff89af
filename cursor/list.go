package cursor

import (
	"container/heap"
	"slices"

	"github.com/dacapoday/trace"
	"github.com/dacapoday/trace/borrow"
)

// List merges any number of cursors over storages of the same type, such as
// the batches of a log-structured trace. The storage of a List is the slice
// of constituent storages, aligned by index with the cursors.
//
// The current key is the least key among the key-valid constituents; every
// constituent positioned at it contributes its vals. Updates of one
// (key, val) are reported constituent by constituent in index order.
//
// Constituents that are not at the least key wait in a heap ordered by their
// key, so stepping costs O(a·log n) for a constituents at the least key out
// of n. Seeks and rewinds reach every constituent and rebuild the heap in O(n).
type List[S any, K borrow.Comparable[K], V borrow.Comparable[V], T, R any] struct {
	cursors []Cursor[S, K, V, T, R]
	waiting waiting[K]
	minKey  []int
	minVal  []int
}

// NewList positions a List at the current positions of cursors.
// With no cursors the List is exhausted.
func NewList[S any, K borrow.Comparable[K], V borrow.Comparable[V], T, R any](cursors []Cursor[S, K, V, T, R], s []S) *List[S, K, V, T, R] {
	list := &List[S, K, V, T, R]{cursors: cursors}
	list.rebuild(s)
	return list
}

var _ Cursor[[]any, borrow.View, borrow.View, uint64, int64] = (*List[any, borrow.View, borrow.View, uint64, int64])(nil)

// Len returns the number of constituents.
func (list *List[S, K, V, T, R]) Len() int {
	return len(list.cursors)
}

// KeyValid returns true if any constituent has a key.
func (list *List[S, K, V, T, R]) KeyValid(s []S) bool {
	return len(list.minKey) != 0
}

// ValValid reports whether the cursor is positioned at a val of the current key.
func (list *List[S, K, V, T, R]) ValValid(s []S) bool {
	return len(list.minVal) != 0
}

// Key returns the current key.
func (list *List[S, K, V, T, R]) Key(s []S) K {
	if len(list.minKey) == 0 {
		panic(trace.ErrInvalidKey)
	}
	i := list.minKey[0]
	return list.cursors[i].Key(s[i])
}

// Val returns the current val.
func (list *List[S, K, V, T, R]) Val(s []S) V {
	if len(list.minVal) == 0 {
		panic(trace.ErrInvalidVal)
	}
	i := list.minVal[0]
	return list.cursors[i].Val(s[i])
}

// GetKey returns the current key, or false if there is none.
func (list *List[S, K, V, T, R]) GetKey(s []S) (key K, ok bool) {
	if ok = list.KeyValid(s); ok {
		key = list.Key(s)
	}
	return
}

// GetVal returns the current val, or false if there is none.
func (list *List[S, K, V, T, R]) GetVal(s []S) (val V, ok bool) {
	if ok = list.ValValid(s); ok {
		val = list.Val(s)
	}
	return
}

// MapTimes reports updates constituent by constituent in index order.
func (list *List[S, K, V, T, R]) MapTimes(s []S, visit func(T, R)) {
	for _, i := range list.minVal {
		list.cursors[i].MapTimes(s[i], visit)
	}
}

// StepKey advances the constituents at the least key.
func (list *List[S, K, V, T, R]) StepKey(s []S) {
	for _, i := range list.minKey {
		list.cursors[i].StepKey(s[i])
		list.wait(s, i)
	}
	list.settleKey(s)
}

// SeekKey advances to the first key >= key.
func (list *List[S, K, V, T, R]) SeekKey(s []S, key K) {
	if cur, ok := list.GetKey(s); ok && key.Compare(cur) <= 0 {
		return
	}
	for i, c := range list.cursors {
		c.SeekKey(s[i], key)
	}
	list.rebuild(s)
}

// StepVal advances to the next val of the current key.
func (list *List[S, K, V, T, R]) StepVal(s []S) {
	for _, i := range list.minVal {
		list.cursors[i].StepVal(s[i])
	}
	list.settleVal(s)
}

// SeekVal advances to the first val >= val of the current key.
func (list *List[S, K, V, T, R]) SeekVal(s []S, val V) {
	for _, i := range list.minKey {
		list.cursors[i].SeekVal(s[i], val)
	}
	list.settleVal(s)
}

// RewindKeys rewinds every constituent.
func (list *List[S, K, V, T, R]) RewindKeys(s []S) {
	for i, c := range list.cursors {
		c.RewindKeys(s[i])
	}
	list.rebuild(s)
}

// RewindVals moves to the first val of the current key.
func (list *List[S, K, V, T, R]) RewindVals(s []S) {
	for _, i := range list.minKey {
		list.cursors[i].RewindVals(s[i])
	}
	list.settleVal(s)
}

// rebuild refills the heap from every key-valid constituent.
func (list *List[S, K, V, T, R]) rebuild(s []S) {
	list.waiting = list.waiting[:0]
	list.minKey = list.minKey[:0]
	for i, c := range list.cursors {
		if key, ok := c.GetKey(s[i]); ok {
			list.waiting = append(list.waiting, waiter[K]{key, i})
		}
	}
	heap.Init(&list.waiting)
	list.settleKey(s)
}

// wait puts constituent i back in the heap if it still has keys.
func (list *List[S, K, V, T, R]) wait(s []S, i int) {
	if key, ok := list.cursors[i].GetKey(s[i]); ok {
		heap.Push(&list.waiting, waiter[K]{key, i})
	}
}

// settleKey moves every constituent at the least waiting key into minKey.
func (list *List[S, K, V, T, R]) settleKey(s []S) {
	list.minKey = list.minKey[:0]
	if len(list.waiting) != 0 {
		least := list.waiting[0].key
		for len(list.waiting) != 0 && list.waiting[0].key.Compare(least) == 0 {
			list.minKey = append(list.minKey, heap.Pop(&list.waiting).(waiter[K]).index)
		}
		slices.Sort(list.minKey)
	}
	list.settleVal(s)
}

// settleVal collects the constituents of minKey at the least val.
func (list *List[S, K, V, T, R]) settleVal(s []S) {
	list.minVal = list.minVal[:0]
	var least V
	for _, i := range list.minKey {
		val, ok := list.cursors[i].GetVal(s[i])
		if !ok {
			continue
		}
		if len(list.minVal) != 0 {
			cmp := val.Compare(least)
			if cmp > 0 {
				continue
			}
			if cmp < 0 {
				list.minVal = list.minVal[:0]
			}
		}
		least = val
		list.minVal = append(list.minVal, i)
	}
}

type waiter[K borrow.Comparable[K]] struct {
	key   K
	index int
}

// waiting is a min-heap of constituents ordered by (key, index).
type waiting[K borrow.Comparable[K]] []waiter[K]

func (w waiting[K]) Len() int { return len(w) }

func (w waiting[K]) Less(i, j int) bool {
	if cmp := w[i].key.Compare(w[j].key); cmp != 0 {
		return cmp < 0
	}
	return w[i].index < w[j].index
}

func (w waiting[K]) Swap(i, j int) { w[i], w[j] = w[j], w[i] }

func (w *waiting[K]) Push(x any) { *w = append(*w, x.(waiter[K])) }

func (w *waiting[K]) Pop() any {
	old := *w
	n := len(old) - 1
	x := old[n]
	*w = old[:n]
	return x
}
