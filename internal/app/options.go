package service

import (
	"github.com/okian/songplays/internal/adapters/objectstore"
	"github.com/okian/songplays/internal/adapters/parquet"
	"github.com/okian/songplays/internal/domain/transform"
	"github.com/okian/songplays/pkg/logger"
	"github.com/okian/songplays/pkg/metrics"
)

// Option applies a configuration option to the Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(l logger.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithSource sets the song and log dataset patterns.
func WithSource(songData, logData objectstore.Location) Option {
	return func(p *Pipeline) {
		p.songData = songData
		p.logData = logData
	}
}

// WithOutput sets the directory the tables are written under.
func WithOutput(output objectstore.Location) Option {
	return func(p *Pipeline) {
		p.output = output
	}
}

// WithBucketOpener sets how locations are turned into buckets.
func WithBucketOpener(open BucketOpener) Option {
	return func(p *Pipeline) {
		if open != nil {
			p.open = open
		}
	}
}

// WithFetchWorkers sets the number of concurrent object fetches.
func WithFetchWorkers(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.fetchWorkers = n
		}
	}
}

// WithClock sets the zone event timestamps are rendered in.
func WithClock(c transform.Clock) Option {
	return func(p *Pipeline) {
		p.clock = c
	}
}

// WithMetrics sets the metrics manager.
func WithMetrics(m *metrics.Manager) Option {
	return func(p *Pipeline) {
		if m != nil {
			p.metrics = m
		}
	}
}

// WithRunID sets the identifier embedded in output file names.
func WithRunID(id string) Option {
	return func(p *Pipeline) {
		if id != "" {
			p.runID = id
		}
	}
}

// WithParquetOptions passes extra options to every table write.
func WithParquetOptions(opts ...parquet.Option) Option {
	return func(p *Pipeline) {
		p.parquetOpts = append(p.parquetOpts, opts...)
	}
}
