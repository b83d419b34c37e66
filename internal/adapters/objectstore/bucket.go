// Package objectstore reads and writes objects on S3 or the local filesystem.
package objectstore

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Bucket is the minimal object API the pipeline needs.
// Keys are slash separated; for the local filesystem they are paths.
type Bucket interface {
	// List returns every key starting with prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)
	// Get returns the object body. Missing keys yield ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put creates or replaces an object.
	Put(ctx context.Context, key string, body []byte) error
	// Remove deletes an object; removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
}

// Option type to configure Open.
type Option func(*Config)

// Config for opening buckets.
type Config struct {
	region       string
	endpoint     string
	usePathStyle bool
	service      S3
}

// WithRegion sets the AWS region.
func WithRegion(region string) Option {
	return func(c *Config) {
		c.region = region
	}
}

// WithEndpoint overrides the S3 endpoint URL.
func WithEndpoint(endpoint string) Option {
	return func(c *Config) {
		c.endpoint = endpoint
	}
}

// WithPathStyle forces path-style addressing.
func WithPathStyle(enabled bool) Option {
	return func(c *Config) {
		c.usePathStyle = enabled
	}
}

// WithService injects an S3 client, bypassing credential loading.
func WithService(service S3) Option {
	return func(c *Config) {
		c.service = service
	}
}

// Open returns the bucket behind loc.
func Open(ctx context.Context, loc Location, opts ...Option) (Bucket, error) {
	conf := &Config{}
	for _, opt := range opts {
		opt(conf)
	}

	switch loc.Scheme {
	case SchemeFile:
		return NewLocalBucket(), nil
	case SchemeS3:
		service, err := newService(ctx, conf)
		if err != nil {
			return nil, err
		}
		return NewS3Bucket(service, loc.Bucket), nil
	default:
		return nil, fmt.Errorf("%w: scheme %q", ErrInvalidLocation, loc.Scheme)
	}
}

// newService builds an S3 client from the default credential chain,
// which picks up AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY.
func newService(ctx context.Context, conf *Config) (S3, error) {
	if conf.service != nil {
		return conf.service, nil
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if conf.region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(conf.region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: load aws config: %w", ErrServiceIO, err)
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if conf.endpoint != "" {
			o.BaseEndpoint = aws.String(conf.endpoint)
		}
		o.UsePathStyle = conf.usePathStyle
	}), nil
}
