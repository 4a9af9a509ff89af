// Package borrow pairs owned key types with cheap borrowed views.
//
// Cursors hand out borrowed views of keys so that comparisons and seeks do
// not materialize an owned key on every step. A view converts back to its
// owned form with ToOwned, and both forms order and compare identically.
//
// Two shapes are provided:
//   - Bytes / View: a growable owned buffer and a slice aliasing storage
//   - String, Int64, Uint64, Unit: self-borrowing values where owned == borrowed
package borrow

// Comparable is a total order over B.
// Compare returns a negative number, zero or a positive number when the
// receiver is less than, equal to or greater than other.
type Comparable[B any] interface {
	Compare(other B) int
}

// Borrowed is a view B of an owned value O.
type Borrowed[B any, O any] interface {
	Comparable[B]

	// ToOwned returns an owned value equal to the view.
	// The result does not alias the storage the view points into.
	ToOwned() O
}

// Owned is an owned value that can lend a view B of itself.
type Owned[B any] interface {
	// Borrow returns a view of the receiver without copying.
	Borrow() B
}

// Equal reports whether a and b compare equal.
func Equal[B Comparable[B]](a, b B) bool {
	return a.Compare(b) == 0
}

// Less reports whether a orders before b.
func Less[B Comparable[B]](a, b B) bool {
	return a.Compare(b) < 0
}
