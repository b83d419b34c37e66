package source

import (
	"github.com/okian/songplays/internal/adapters/worker"
	"github.com/okian/songplays/pkg/logger"
	"github.com/okian/songplays/pkg/metrics"
)

// Option type to configure the Reader.
type Option func(*Reader)

// WithPool sets the worker pool objects are fetched on.
func WithPool(p *worker.Pool) Option {
	return func(r *Reader) {
		if p != nil {
			r.pool = p
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(r *Reader) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithMetrics sets the metrics manager reads are recorded into.
func WithMetrics(m *metrics.Manager) Option {
	return func(r *Reader) {
		if m != nil {
			r.metrics = m
		}
	}
}
