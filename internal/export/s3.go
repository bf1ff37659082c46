package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

const (
	// ErrNoCredentials is returned when AWS rejects the configured credentials.
	ErrNoCredentials Error = "no valid AWS credentials found"

	// ErrExpiredCredentials is returned when the AWS session expired.
	ErrExpiredCredentials Error = "AWS credentials have expired"

	csvContentType = "text/csv"
)

// PutObjectAPI is the slice of the S3 client used by the sink.
type PutObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Sink uploads exports to a bucket.
type S3Sink struct {
	client PutObjectAPI
	bucket string
	prefix string
}

// NewS3Sink loads the AWS configuration for the profile and region and
// returns a sink uploading under bucket/prefix.
func NewS3Sink(ctx context.Context, bucket, prefix string, opts S3Options) (*S3Sink, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	lo := make([]func(*config.LoadOptions) error, 0, 2)
	if opts.Region != "" {
		lo = append(lo, config.WithRegion(opts.Region))
	}
	if opts.Profile != "" {
		lo = append(lo, config.WithSharedConfigProfile(opts.Profile))
	}
	cfg, err := config.LoadDefaultConfig(ctx, lo...)
	if err != nil {
		return nil, WrapAWSError(err, "load AWS config")
	}

	return NewS3SinkWithClient(s3.NewFromConfig(cfg), bucket, prefix), nil
}

// NewS3SinkWithClient returns a sink using an existing client.
func NewS3SinkWithClient(c PutObjectAPI, bucket, prefix string) *S3Sink {
	return &S3Sink{client: c, bucket: bucket, prefix: prefix}
}

func (s *S3Sink) key(name string) string {
	if s.prefix == "" {
		return name
	}
	return path.Join(s.prefix, name)
}

func (s *S3Sink) Put(ctx context.Context, name string, data []byte) (string, error) {
	key := s.key(name)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(csvContentType),
	})
	if err != nil {
		return "", WrapAWSError(err, "upload export")
	}

	return s3Scheme + s.bucket + "/" + key, nil
}

// WrapAWSError wraps AWS SDK errors with additional context.
func WrapAWSError(err error, operation string) error {
	if err == nil {
		return nil
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AccessDenied", "AccessDeniedException":
			return fmt.Errorf("access denied for %s: %w", operation, err)
		case "ExpiredToken", "ExpiredTokenException":
			return fmt.Errorf("%w: %s", ErrExpiredCredentials, operation)
		case "InvalidAccessKeyId", "InvalidClientTokenId":
			return fmt.Errorf("%w: %s", ErrNoCredentials, operation)
		case "NoSuchBucket":
			return fmt.Errorf("bucket not found during %s: %w", operation, err)
		default:
			return fmt.Errorf("%s failed: %s (%s)", operation, apiErr.ErrorMessage(), apiErr.ErrorCode())
		}
	}

	return fmt.Errorf("%s failed: %w", operation, err)
}
