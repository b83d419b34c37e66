package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

const (
	dirPermission  = 0o755
	filePermission = 0o644
)

// LocalBucket is a Bucket on the local filesystem. Keys are paths.
type LocalBucket struct{}

// NewLocalBucket returns a filesystem bucket.
func NewLocalBucket() *LocalBucket { return &LocalBucket{} }

// List walks the directory that holds prefix and returns matching files.
func (b *LocalBucket) List(ctx context.Context, prefix string) ([]string, error) {
	root := prefix
	if !strings.HasSuffix(prefix, "/") {
		root = path.Dir(prefix)
	}
	if root == "" {
		root = "."
	}

	var keys []string
	err := filepath.WalkDir(filepath.FromSlash(root), func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			return nil
		}
		key := filepath.ToSlash(p)
		if strings.HasPrefix(key, strings.TrimPrefix(prefix, "./")) {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: list %s: %w", ErrServiceIO, prefix, err)
	}
	sort.Strings(keys)
	return keys, nil
}

// Get reads a file.
func (b *LocalBucket) Get(_ context.Context, key string) ([]byte, error) {
	body, err := os.ReadFile(filepath.FromSlash(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrServiceIO, key, err)
	}
	return body, nil
}

// Put writes a file, creating parent directories.
func (b *LocalBucket) Put(_ context.Context, key string, body []byte) error {
	p := filepath.FromSlash(key)
	if err := os.MkdirAll(filepath.Dir(p), dirPermission); err != nil {
		return fmt.Errorf("%w: mkdir %s: %w", ErrServiceIO, key, err)
	}
	if err := os.WriteFile(p, body, filePermission); err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrServiceIO, key, err)
	}
	return nil
}

// Remove deletes a file.
func (b *LocalBucket) Remove(_ context.Context, key string) error {
	err := os.Remove(filepath.FromSlash(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: remove %s: %w", ErrServiceIO, key, err)
	}
	return nil
}
