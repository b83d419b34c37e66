package source

import "errors"

// Sentinel errors for dataset reads.
var (
	ErrDecode = errors.New("malformed json")
	ErrRead   = errors.New("read failed")
)
