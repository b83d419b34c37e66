package service

import "errors"

// Sentinel errors for pipeline runs.
var (
	ErrMissingLocation = errors.New("missing location")
	ErrStage           = errors.New("stage failed")
)
