package objectstore

import (
	"context"
	"fmt"
	"path"
	"strings"
)

const globMeta = `*?[\`

// Glob expands pattern against the bucket. Wildcards never cross a "/",
// exactly like path.Match. A pattern without wildcards names either one
// object or a directory whose objects are all returned. Objects whose
// base name starts with "_" or "." (markers, checksums) are skipped.
func Glob(ctx context.Context, b Bucket, pattern string) ([]string, error) {
	pattern = cleanPattern(pattern)
	if _, err := path.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("%w: bad pattern %q: %w", ErrInvalidLocation, pattern, err)
	}

	literal := pattern
	if i := strings.IndexAny(pattern, globMeta); i >= 0 {
		literal = pattern[:i]
	}

	keys, err := b.List(ctx, literal)
	if err != nil {
		return nil, err
	}

	var out []string
	if literal == pattern {
		dir := strings.TrimSuffix(pattern, "/") + "/"
		for _, key := range keys {
			if key == pattern || strings.HasPrefix(key, dir) {
				if !hidden(key) {
					out = append(out, key)
				}
			}
		}
	} else {
		for _, key := range keys {
			if ok, _ := path.Match(pattern, key); ok && !hidden(key) {
				out = append(out, key)
			}
		}
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoMatch, pattern)
	}
	return out, nil
}

// RemoveAll deletes every object under prefix and returns how many were removed.
func RemoveAll(ctx context.Context, b Bucket, prefix string) (int, error) {
	if strings.Trim(prefix, "/.") == "" {
		return 0, fmt.Errorf("%w: refusing to remove root %q", ErrInvalidLocation, prefix)
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	keys, err := b.List(ctx, prefix)
	if err != nil {
		return 0, err
	}
	for i, key := range keys {
		if err := b.Remove(ctx, key); err != nil {
			return i, err
		}
	}
	return len(keys), nil
}

// cleanPattern drops "./" and duplicate slashes so the pattern compares
// equal to listed keys. A trailing slash is kept.
func cleanPattern(pattern string) string {
	cleaned := path.Clean(pattern)
	if cleaned == "." {
		return pattern
	}
	if strings.HasSuffix(pattern, "/") && !strings.HasSuffix(cleaned, "/") {
		cleaned += "/"
	}
	return cleaned
}

func hidden(key string) bool {
	base := path.Base(key)
	return strings.HasPrefix(base, "_") || strings.HasPrefix(base, ".")
}
