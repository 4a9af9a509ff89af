package pebblebatch

import "github.com/cockroachdb/errors"

var (
	ErrClosed        = errors.New("pebblebatch: store is closed")
	ErrBatchNotFound = errors.New("pebblebatch: batch not found")
	ErrCorruptEntry  = errors.New("pebblebatch: corrupt entry")
)
