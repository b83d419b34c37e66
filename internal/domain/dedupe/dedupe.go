// Package dedupe removes repeated rows by full-row identity.
package dedupe

import (
	"context"
	"sync"
)

// Keyed is implemented by rows that can render their full identity.
type Keyed interface {
	Key() string
}

// Deduper records seen row keys.
type Deduper interface {
	// SeenAndRecord atomically checks if key was seen and records it if not.
	// Returns true if key was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, key string) bool

	Size() int64
}

// inMemoryDeduper implements Deduper with a mutex-guarded set. It never
// evicts: forgetting a key would let a duplicate row through.
type inMemoryDeduper struct {
	mu           sync.Mutex
	seen         map[string]struct{}
	expectedSize int
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{}

	for _, opt := range opts {
		opt(d)
	}

	d.seen = make(map[string]struct{}, d.expectedSize)
	return d
}

// SeenAndRecord atomically checks if key was seen and records it if not.
func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[key]; exists {
		return true
	}
	d.seen[key] = struct{}{}
	return false
}

// Size returns the number of distinct keys recorded.
func (d *inMemoryDeduper) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(len(d.seen))
}

// Distinct returns rows with repeats removed, keeping the first occurrence
// and the input order, plus the number of rows dropped.
func Distinct[T Keyed](ctx context.Context, rows []T) ([]T, int) {
	d := NewInMemoryDeduper(WithExpectedSize(len(rows)))
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		if d.SeenAndRecord(ctx, row.Key()) {
			continue
		}
		out = append(out, row)
	}
	return out, len(rows) - len(out)
}
