// Package source reads the raw JSON datasets from a bucket.
package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/okian/songplays/internal/adapters/objectstore"
	"github.com/okian/songplays/internal/adapters/worker"
	"github.com/okian/songplays/internal/domain/model"
	"github.com/okian/songplays/pkg/logger"
	"github.com/okian/songplays/pkg/metrics"
)

// Dataset names used in logs and metrics.
const (
	DatasetSongs = "song_data"
	DatasetLogs  = "log_data"
)

// Reader fetches and decodes dataset objects concurrently.
type Reader struct {
	pool    *worker.Pool
	logger  logger.Logger
	metrics *metrics.Manager
}

// NewReader creates a Reader.
func NewReader(opts ...Option) *Reader {
	r := &Reader{}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logger.Get().Named("source")
	}
	if r.pool == nil {
		r.pool = worker.NewPool(0, worker.WithName("fetch"), worker.WithLogger(r.logger))
	}
	if r.metrics == nil {
		r.metrics = metrics.Default()
	}
	return r
}

// ReadSongs returns every song record matched by pattern.
func (r *Reader) ReadSongs(ctx context.Context, b objectstore.Bucket, pattern string) ([]model.SongRecord, error) {
	return read[model.SongRecord](ctx, r, b, pattern, DatasetSongs)
}

// ReadLogs returns every event matched by pattern.
func (r *Reader) ReadLogs(ctx context.Context, b objectstore.Bucket, pattern string) ([]model.LogRecord, error) {
	return read[model.LogRecord](ctx, r, b, pattern, DatasetLogs)
}

// read expands pattern and decodes every JSON value of every object.
// Records come back ordered by key, then by position in the object.
func read[T any](ctx context.Context, r *Reader, b objectstore.Bucket, pattern, dataset string) ([]T, error) {
	start := time.Now()
	keys, err := objectstore.Glob(ctx, b, pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRead, dataset, err)
	}

	parts := make([][]T, len(keys))
	jobs := make([]worker.Job, len(keys))
	for i, key := range keys {
		jobs[i] = func(ctx context.Context) error {
			body, err := b.Get(ctx, key)
			if err != nil {
				return fmt.Errorf("%w: %s: %w", ErrRead, key, err)
			}
			recs, err := decode[T](body)
			if err != nil {
				return fmt.Errorf("%w: %s: %w", ErrDecode, key, err)
			}
			parts[i] = recs
			r.metrics.RecordRead(dataset, len(body), len(recs))
			return nil
		}
	}
	if err := r.pool.Run(ctx, jobs); err != nil {
		return nil, err
	}

	total := 0
	for _, p := range parts {
		total += len(p)
	}
	out := make([]T, 0, total)
	for _, p := range parts {
		out = append(out, p...)
	}

	r.logger.Info(ctx, "dataset read",
		logger.String("dataset", dataset),
		logger.String("pattern", pattern),
		logger.Int("objects", len(keys)),
		logger.Int("records", len(out)),
		logger.Duration("elapsed", time.Since(start)))
	return out, nil
}

// decode reads consecutive JSON values: a single document or JSON lines.
func decode[T any](body []byte) ([]T, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	var out []T
	for {
		var rec T
		err := dec.Decode(&rec)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", len(out)+1, err)
		}
		out = append(out, rec)
	}
}
