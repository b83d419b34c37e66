package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// S3 declares AWS API used by the bucket.
type S3 interface {
	GetObject(context.Context, *s3.GetObjectInput, ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(context.Context, *s3.PutObjectInput, ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(context.Context, *s3.DeleteObjectInput, ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(context.Context, *s3.ListObjectsV2Input, ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3Bucket is a Bucket backed by an S3 bucket.
type S3Bucket struct {
	service S3
	bucket  *string
}

// NewS3Bucket wraps service for bucket.
func NewS3Bucket(service S3, bucket string) *S3Bucket {
	return &S3Bucket{service: service, bucket: aws.String(bucket)}
}

// List pages through ListObjectsV2 under prefix.
func (b *S3Bucket) List(ctx context.Context, prefix string) ([]string, error) {
	req := &s3.ListObjectsV2Input{
		Bucket: b.bucket,
		Prefix: aws.String(prefix),
	}

	var keys []string
	pages := s3.NewListObjectsV2Paginator(b.service, req)
	for pages.HasMorePages() {
		page, err := pages.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: list %s/%s: %w", ErrServiceIO, *b.bucket, prefix, err)
		}
		for _, obj := range page.Contents {
			if obj.Key != nil {
				keys = append(keys, *obj.Key)
			}
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Get fetches an object body.
func (b *S3Bucket) Get(ctx context.Context, key string) ([]byte, error) {
	req := &s3.GetObjectInput{
		Bucket: b.bucket,
		Key:    aws.String(key),
	}

	val, err := b.service.GetObject(ctx, req)
	if err != nil {
		if recoverNoSuchKey(err) {
			return nil, fmt.Errorf("%w: s3://%s/%s", ErrNotFound, *b.bucket, key)
		}
		return nil, fmt.Errorf("%w: get s3://%s/%s: %w", ErrServiceIO, *b.bucket, key, err)
	}
	defer val.Body.Close()

	body, err := io.ReadAll(val.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read s3://%s/%s: %w", ErrServiceIO, *b.bucket, key, err)
	}
	return body, nil
}

// Put uploads an object.
func (b *S3Bucket) Put(ctx context.Context, key string, body []byte) error {
	req := &s3.PutObjectInput{
		Bucket: b.bucket,
		Key:    aws.String(key),
		Body:   bytes.NewReader(body),
	}

	if _, err := b.service.PutObject(ctx, req); err != nil {
		return fmt.Errorf("%w: put s3://%s/%s: %w", ErrServiceIO, *b.bucket, key, err)
	}
	return nil
}

// Remove deletes an object. S3 reports success for missing keys.
func (b *S3Bucket) Remove(ctx context.Context, key string) error {
	req := &s3.DeleteObjectInput{
		Bucket: b.bucket,
		Key:    aws.String(key),
	}

	if _, err := b.service.DeleteObject(ctx, req); err != nil {
		return fmt.Errorf("%w: delete s3://%s/%s: %w", ErrServiceIO, *b.bucket, key, err)
	}
	return nil
}

func recoverNoSuchKey(err error) bool {
	var e smithy.APIError

	ok := errors.As(err, &e)
	return ok && (e.ErrorCode() == "NoSuchKey" || e.ErrorCode() == "NotFound")
}
