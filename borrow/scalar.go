package borrow

import (
	"cmp"
	"strconv"
)

// String is an immutable string; it is its own borrowed form.
type String string

var (
	_ Owned[String]            = String("")
	_ Borrowed[String, String] = String("")
)

func (s String) Borrow() String { return s }
func (s String) ToOwned() String { return s }
func (s String) Compare(other String) int { return cmp.Compare(s, other) }

// Int64 is a signed integer; it is its own borrowed form.
type Int64 int64

var (
	_ Owned[Int64]           = Int64(0)
	_ Borrowed[Int64, Int64] = Int64(0)
)

func (i Int64) Borrow() Int64 { return i }
func (i Int64) ToOwned() Int64 { return i }
func (i Int64) Compare(other Int64) int { return cmp.Compare(i, other) }
func (i Int64) String() string { return strconv.FormatInt(int64(i), 10) }

// Uint64 is an unsigned integer; it is its own borrowed form.
type Uint64 uint64

var (
	_ Owned[Uint64]            = Uint64(0)
	_ Borrowed[Uint64, Uint64] = Uint64(0)
)

func (u Uint64) Borrow() Uint64 { return u }
func (u Uint64) ToOwned() Uint64 { return u }
func (u Uint64) Compare(other Uint64) int { return cmp.Compare(u, other) }
func (u Uint64) String() string { return strconv.FormatUint(uint64(u), 10) }

// Unit is the value of collections that carry keys only.
// All Unit values are equal.
type Unit struct{}

var (
	_ Owned[Unit]          = Unit{}
	_ Borrowed[Unit, Unit] = Unit{}
)

func (Unit) Borrow() Unit { return Unit{} }
func (Unit) ToOwned() Unit { return Unit{} }
func (Unit) Compare(Unit) int { return 0 }
func (Unit) String() string { return "()" }
