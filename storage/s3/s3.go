// Package s3 answers storage queries from Amazon S3 or an S3-compatible
// service with HeadObject requests.
package s3

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	apperrors "github.com/kbukum/fileflow/errors"
	"github.com/kbukum/fileflow/logger"
	"github.com/kbukum/fileflow/storage"
	"github.com/kbukum/fileflow/util"
)

func init() {
	storage.RegisterFactory(storage.ProviderS3, func(ctx context.Context, cfg storage.Config, log *logger.Logger) (storage.Storage, error) {
		return NewStorage(ctx, cfg, log)
	})
}

// HeadObjectAPI is the slice of the S3 client the backend uses.
type HeadObjectAPI interface {
	HeadObject(ctx context.Context, params *awss3.HeadObjectInput, optFns ...func(*awss3.Options)) (*awss3.HeadObjectOutput, error)
}

// Storage implements storage.Storage for one bucket.
type Storage struct {
	client HeadObjectAPI
	bucket string
	log    *logger.Logger
}

// NewStorage creates an S3 storage client for cfg.Bucket.
func NewStorage(ctx context.Context, cfg storage.Config, log *logger.Logger) (*Storage, error) {
	if log == nil {
		log = logger.Nop()
	}
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		log.Debug("using static credentials", logger.Fields("access_key", util.MaskSecret(cfg.AccessKey, 4)))
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage: load aws config: %w", err)
	}

	client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			// S3-compatible services rarely support virtual-hosted buckets.
			o.UsePathStyle = true
		}
		if cfg.ForcePathStyle {
			o.UsePathStyle = true
		}
	})
	return NewWithClient(client, cfg.Bucket, log), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client HeadObjectAPI, bucket string, log *logger.Logger) *Storage {
	if log == nil {
		log = logger.Nop()
	}
	return &Storage{client: client, bucket: bucket, log: log.WithComponent("storage.s3")}
}

// Bucket returns the bucket this storage addresses.
func (s *Storage) Bucket() string { return s.bucket }

// Stat issues a HeadObject for key.
func (s *Storage) Stat(ctx context.Context, key string) (*storage.FileInfo, error) {
	out, err := s.client.HeadObject(ctx, &awss3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, s.classify(key, err)
	}

	info := &storage.FileInfo{
		Path: key,
		Size: aws.ToInt64(out.ContentLength),
	}
	if out.LastModified != nil {
		info.LastModified = *out.LastModified
	}
	return info, nil
}

// Exists checks whether an S3 object exists.
func (s *Storage) Exists(ctx context.Context, key string) (bool, error) {
	return storage.ExistsVia(ctx, s, key)
}

// Location returns the s3:// URL for key.
func (s *Storage) Location(key string) string {
	return fmt.Sprintf("s3://%s/%s", s.bucket, key)
}

// classify maps a HeadObject failure onto NOT_FOUND or PROBE_UNAVAILABLE.
// Access errors are not retryable; throttling and transport errors are.
func (s *Storage) classify(key string, err error) error {
	loc := s.Location(key)

	var nf *types.NotFound
	var nsk *types.NoSuchKey
	var nsb *types.NoSuchBucket
	if errors.As(err, &nf) || errors.As(err, &nsk) {
		return storage.NotFound(loc)
	}
	if errors.As(err, &nsb) {
		return apperrors.NotFound("bucket", s.bucket).WithCause(err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey":
			return storage.NotFound(loc)
		case "NoSuchBucket":
			return apperrors.NotFound("bucket", s.bucket).WithCause(err)
		}
	}

	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		switch respErr.HTTPStatusCode() {
		case http.StatusNotFound:
			return storage.NotFound(loc)
		case http.StatusForbidden, http.StatusUnauthorized:
			unavailable := apperrors.ProbeUnavailable(loc, err)
			unavailable.Retryable = false
			return unavailable
		}
	}

	s.log.Debug("head object failed", logger.Fields(logger.FieldFile, loc, logger.FieldError, err.Error()))
	return apperrors.ProbeUnavailable(loc, err)
}

// compile-time check
var _ storage.Storage = (*Storage)(nil)
