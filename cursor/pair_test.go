package cursor_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/dacapoday/trace"
	"github.com/dacapoday/trace/borrow"
	"github.com/dacapoday/trace/cursor"
)

type pairStorage = cursor.PairStorage[*batch, *batch]

func newPair(a, b *batch) (*cursor.Pair[*batch, *batch, borrow.String, borrow.String, uint64, int64], pairStorage) {
	s := pairStorage{First: a, Second: b}
	return cursor.NewPair(open(a), open(b), s), s
}

func TestPairInterleaves(t *testing.T) {
	a := build(tup("a", "1", 1, 1), tup("c", "1", 1, 1))
	b := build(tup("b", "1", 1, 1))
	pair, s := newPair(a, b)

	var keys []borrow.String
	for _, e := range cursor.ToVec(pair, s) {
		keys = append(keys, e.Key)
	}
	require.Equal(t, []borrow.String{"a", "b", "c"}, keys)
}

func TestPairWithItself(t *testing.T) {
	a := build(tup("a", "x", 1, 1), tup("a", "y", 2, -1), tup("b", "x", 3, 2))
	pair, s := newPair(a, a)

	require.Equal(t, []entry{
		{Key: "a", Val: "x", Updates: []update{{Time: 1, Diff: 1}, {Time: 1, Diff: 1}}},
		{Key: "a", Val: "y", Updates: []update{{Time: 2, Diff: -1}, {Time: 2, Diff: -1}}},
		{Key: "b", Val: "x", Updates: []update{{Time: 3, Diff: 2}, {Time: 3, Diff: 2}}},
	}, cursor.ToVec(pair, s))
}

func TestPairSharedKeyMergesVals(t *testing.T) {
	a := build(tup("k", "x", 1, 1), tup("k", "z", 1, 1))
	b := build(tup("k", "y", 2, 1), tup("k", "z", 2, 1))
	pair, s := newPair(a, b)

	require.Equal(t, borrow.String("k"), pair.Key(s))
	var vals []borrow.String
	for ; pair.ValValid(s); pair.StepVal(s) {
		vals = append(vals, pair.Val(s))
	}
	require.Equal(t, []borrow.String{"x", "y", "z"}, vals)

	pair.RewindVals(s)
	pair.SeekVal(s, "z")
	var times []uint64
	pair.MapTimes(s, func(time uint64, _ int64) { times = append(times, time) })
	require.Equal(t, []uint64{1, 2}, times)
}

func TestPairOneSideEmpty(t *testing.T) {
	a := build(tup("a", "x", 1, 1), tup("b", "x", 1, 1))
	empty := build()

	for _, order := range [][2]*batch{{a, empty}, {empty, a}} {
		pair, s := newPair(order[0], order[1])
		require.Equal(t, cursor.ToVec(open(a), a), cursor.ToVec(pair, s))
	}

	pair, s := newPair(empty, empty)
	require.False(t, pair.KeyValid(s))
	require.False(t, pair.ValValid(s))
	require.PanicsWithValue(t, trace.ErrInvalidKey, func() { pair.Key(s) })
	require.PanicsWithValue(t, trace.ErrInvalidVal, func() { pair.Val(s) })
}

func TestPairSeekMonotonic(t *testing.T) {
	a := build(tup("a", "x", 1, 1), tup("d", "x", 1, 1))
	b := build(tup("b", "x", 1, 1), tup("c", "x", 1, 1))
	pair, s := newPair(a, b)

	pair.SeekKey(s, "c")
	require.Equal(t, borrow.String("c"), pair.Key(s))
	pair.SeekKey(s, "a")
	require.Equal(t, borrow.String("c"), pair.Key(s))
	pair.StepKey(s)
	require.Equal(t, borrow.String("d"), pair.Key(s))
	pair.StepKey(s)
	require.False(t, pair.KeyValid(s))
	pair.SeekKey(s, "a")
	require.False(t, pair.KeyValid(s))
	pair.RewindKeys(s)
	require.Equal(t, borrow.String("a"), pair.Key(s))
}

// A Pair of different cursor implementations: a batch and a List of batches.
func TestPairHeterogeneous(t *testing.T) {
	a := build(tup("a", "x", 1, 1), tup("c", "x", 1, 1))
	b := build(tup("b", "x", 1, 1))
	c := build(tup("c", "x", 2, -1))

	list := cursor.NewList([]strCurs{open(b), open(c)}, []*batch{b, c})
	s := cursor.PairStorage[*batch, []*batch]{First: a, Second: []*batch{b, c}}
	pair := cursor.NewPair[*batch, []*batch](open(a), list, s)

	require.Equal(t, []entry{
		{Key: "a", Val: "x", Updates: []update{{Time: 1, Diff: 1}}},
		{Key: "b", Val: "x", Updates: []update{{Time: 1, Diff: 1}}},
		{Key: "c", Val: "x", Updates: []update{{Time: 1, Diff: 1}, {Time: 2, Diff: -1}}},
	}, cursor.ToVec(pair, s))
}

func TestPairMatchesModel(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		first, second := drawTuples(t, "first"), drawTuples(t, "second")
		a, b := build(first...), build(second...)
		w := build(append(append([]tuple(nil), first...), second...)...)

		pair, s := newPair(a, b)
		want := open(w)
		if got, exp := observe(pair, s), observe(want, w); !equalObservation(got, exp) {
			t.Fatalf("initial: got %+v, want %+v", got, exp)
		}
		walk(t, pair, s, want, w)
	})
}
