package sampledata

import "errors"

// Sentinel errors for dataset generation.
var (
	ErrInvalidConfig = errors.New("invalid sample config")
	ErrWrite         = errors.New("sample write failed")
)
