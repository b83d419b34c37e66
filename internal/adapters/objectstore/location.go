package objectstore

import (
	"fmt"
	"path"
	"strings"
)

// Scheme names a storage backend.
type Scheme string

// Supported schemes. s3a and s3n are Hadoop spellings of s3.
const (
	SchemeS3   Scheme = "s3"
	SchemeFile Scheme = "file"
)

// Location is a parsed storage URL: scheme://bucket/path.
// For file locations Bucket is empty and Path is a filesystem path.
type Location struct {
	Scheme Scheme
	Bucket string
	Path   string
}

// ParseLocation parses s3://, s3a://, s3n:// and file:// URLs.
// A bare filesystem path is treated as file://. Glob meta characters are
// kept verbatim, so the raw string is split by hand rather than by net/url.
func ParseLocation(raw string) (Location, error) {
	if raw == "" {
		return Location{}, fmt.Errorf("%w: empty", ErrInvalidLocation)
	}
	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok {
		return Location{Scheme: SchemeFile, Path: raw}, nil
	}

	switch strings.ToLower(scheme) {
	case "s3", "s3a", "s3n":
		bucket, key, _ := strings.Cut(rest, "/")
		if bucket == "" {
			return Location{}, fmt.Errorf("%w: %s: missing bucket", ErrInvalidLocation, raw)
		}
		return Location{Scheme: SchemeS3, Bucket: bucket, Path: key}, nil
	case "file":
		if rest == "" {
			return Location{}, fmt.Errorf("%w: %s: missing path", ErrInvalidLocation, raw)
		}
		return Location{Scheme: SchemeFile, Path: rest}, nil
	default:
		return Location{}, fmt.Errorf("%w: %s: unsupported scheme %q", ErrInvalidLocation, raw, scheme)
	}
}

// Join returns a copy of loc with elem appended to its path.
// A trailing slash on the last element is kept so prefixes stay prefixes.
func (loc Location) Join(elem ...string) Location {
	parts := append([]string{loc.Path}, elem...)
	joined := path.Join(parts...)
	if n := len(elem); n > 0 && strings.HasSuffix(elem[n-1], "/") {
		joined += "/"
	}
	if loc.Scheme == SchemeS3 {
		joined = strings.TrimPrefix(joined, "/")
	}
	loc.Path = joined
	return loc
}

// Same reports whether both locations live in the same bucket (or filesystem).
func (loc Location) Same(other Location) bool {
	return loc.Scheme == other.Scheme && loc.Bucket == other.Bucket
}

func (loc Location) String() string {
	if loc.Scheme == SchemeFile {
		return "file://" + loc.Path
	}
	return string(loc.Scheme) + "://" + loc.Bucket + "/" + loc.Path
}
