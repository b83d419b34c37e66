package objectstore

import "errors"

// Sentinel kinds for object storage errors.
var (
	ErrInvalidLocation = errors.New("invalid storage location")
	ErrNotFound        = errors.New("object not found")
	ErrNoMatch         = errors.New("path does not exist")
	ErrServiceIO       = errors.New("storage i/o failed")
)
