package blobstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/avast/retry-go"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"photo-archive/internal/logging"
	"photo-archive/internal/metrics"
)

// S3Config holds the connection settings for an S3-compatible store.
type S3Config struct {
	// Endpoint overrides the AWS endpoint, e.g. a MinIO URL. Empty
	// means the default AWS endpoint for the region.
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
}

// S3Store is a Store backed by an S3-compatible service.
type S3Store struct {
	client *s3.Client
	bucket string
}

// NewS3 builds an S3Store from static credentials, optionally pointed
// at a custom endpoint (MinIO-style path addressing).
func NewS3(ctx context.Context, cfg S3Config) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("loading s3 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Store{client: client, bucket: cfg.Bucket}, nil
}

// Put uploads data under key. Transient faults are retried a bounded
// number of times with backoff before the error is surfaced.
func (s *S3Store) Put(ctx context.Context, key string, data []byte, contentType string, metadata map[string]string) error {
	start := time.Now()
	var err error
	defer func() { metrics.RecordBlobOp("put", time.Since(start).Seconds(), err) }()

	err = retry.Do(
		func() error {
			_, putErr := s.client.PutObject(ctx, &s3.PutObjectInput{
				Bucket:      aws.String(s.bucket),
				Key:         aws.String(key),
				Body:        bytes.NewReader(data),
				ContentType: aws.String(contentType),
				Metadata:    metadata,
			})
			return putErr
		},
		retry.Attempts(3),
		retry.Delay(time.Second),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(error) bool { return ctx.Err() == nil }),
	)
	if err != nil {
		err = fmt.Errorf("putting object %s: %w", key, err)
		return err
	}

	metrics.BlobBytesWritten.Add(float64(len(data)))
	return nil
}

// Get streams the object under key, or ErrNotFound.
func (s *S3Store) Get(ctx context.Context, key string) (io.ReadCloser, *ObjectInfo, error) {
	start := time.Now()
	var err error
	defer func() { metrics.RecordBlobOp("get", time.Since(start).Seconds(), err) }()

	out, getErr := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if getErr != nil {
		if isNotFound(getErr) {
			err = fmt.Errorf("%w: %s", ErrNotFound, key)
			return nil, nil, err
		}
		err = fmt.Errorf("getting object %s: %w", key, getErr)
		return nil, nil, err
	}

	info := &ObjectInfo{
		ContentType: aws.ToString(out.ContentType),
		Size:        aws.ToInt64(out.ContentLength),
	}
	return out.Body, info, nil
}

// Delete removes the object under key. A missing object is success;
// the end state (no blob) already holds.
func (s *S3Store) Delete(ctx context.Context, key string) error {
	start := time.Now()
	var err error
	defer func() { metrics.RecordBlobOp("delete", time.Since(start).Seconds(), err) }()

	_, delErr := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if delErr != nil {
		if isNotFound(delErr) {
			logging.Debug("delete of absent object %s treated as success", key)
			return nil
		}
		err = fmt.Errorf("deleting object %s: %w", key, delErr)
		return err
	}
	return nil
}

// isNotFound reports whether err is any of the ways an S3-compatible
// service signals a missing object or bucket key.
func isNotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}
