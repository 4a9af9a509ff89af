package borrow

import "bytes"

// Bytes is an owned byte sequence. Its borrowed form is View.
type Bytes []byte

var _ Owned[View] = Bytes(nil)

// Borrow returns a view sharing the receiver's backing array.
func (b Bytes) Borrow() View {
	return View(b)
}

// Compare orders byte sequences lexicographically, consistent with View.
func (b Bytes) Compare(other Bytes) int {
	return bytes.Compare(b, other)
}

func (b Bytes) String() string {
	return string(b)
}

// View is a borrowed byte sequence, typically aliasing immutable storage.
// A nil View and an empty View compare equal.
type View []byte

var _ Borrowed[View, Bytes] = View(nil)

// Compare orders views lexicographically.
func (v View) Compare(other View) int {
	return bytes.Compare(v, other)
}

// Equal reports whether v and other hold the same bytes.
func (v View) Equal(other View) bool {
	return bytes.Equal(v, other)
}

// ToOwned copies the view into a fresh buffer.
func (v View) ToOwned() Bytes {
	if v == nil {
		return nil
	}
	return Bytes(bytes.Clone(v))
}

func (v View) String() string {
	return string(v)
}
