package parquet

import "github.com/okian/songplays/pkg/logger"

const (
	defaultParallelism  = 4
	defaultRowGroupSize = 128 * 1024 * 1024
	defaultMaxFileRows  = 1_000_000
)

// Option type to configure WriteTable.
type Option func(*Config)

// Config for table writes.
type Config struct {
	parallelism  int64
	rowGroupSize int64
	maxFileRows  int
	jobID        string
	logger       logger.Logger
}

// WithParallelism sets the number of encoder goroutines per file.
func WithParallelism(n int64) Option {
	return func(c *Config) {
		if n > 0 {
			c.parallelism = n
		}
	}
}

// WithRowGroupSize sets the target row group size in bytes.
func WithRowGroupSize(size int64) Option {
	return func(c *Config) {
		if size > 0 {
			c.rowGroupSize = size
		}
	}
}

// WithMaxFileRows caps the rows written to one part file.
func WithMaxFileRows(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.maxFileRows = n
		}
	}
}

// WithJobID fixes the identifier embedded in part file names.
func WithJobID(id string) Option {
	return func(c *Config) {
		if id != "" {
			c.jobID = id
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Config) {
		if l != nil {
			c.logger = l
		}
	}
}
