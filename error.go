package trace

import "errors"

var (
	ErrInvalidKey = errors.New("key read on invalid cursor")
	ErrInvalidVal = errors.New("val read on invalid cursor")
)
