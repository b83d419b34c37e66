package parquet

import "errors"

// Sentinel errors for parquet output.
var (
	ErrInvalidTable = errors.New("invalid table")
	ErrEncode       = errors.New("parquet encode failed")
	ErrWrite        = errors.New("parquet write failed")
)
