package filestorages

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3API is the subset of *s3.Client used by the S3 driver.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

type s3FileStorage struct {
	client S3API
	bucket string
	prefix string
}

// NewS3FileStorage builds an S3 client from the default AWS credential chain.
func NewS3FileStorage(ctx context.Context, region, bucket, prefix string) (FileStorage, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewS3FileStorageWithClient(s3.NewFromConfig(awsCfg), bucket, prefix)
}

func NewS3FileStorageWithClient(client S3API, bucket, prefix string) (FileStorage, error) {
	if strings.TrimSpace(bucket) == "" {
		return nil, fmt.Errorf("%w: bucket cannot be empty", ErrInvalidBucket)
	}
	return &s3FileStorage{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}, nil
}

// Put uploads r to bucket/prefix/key. Without AllowOverwrite an existing object is
// detected with HeadObject first, which is not atomic across writers.
func (s *s3FileStorage) Put(ctx context.Context, key string, r io.Reader, opts PutOptions) (*PutResult, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	objectKey := s.objectKey(key)

	if !opts.AllowOverwrite {
		exists, err := s.exists(ctx, objectKey)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrFileAlreadyExists
		}
	}

	body, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(objectKey),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
	}
	if opts.ContentType != "" {
		input.ContentType = aws.String(opts.ContentType)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return nil, fmt.Errorf("failed to put object %q: %w", objectKey, err)
	}
	return &PutResult{FileKey: objectKey}, nil
}

func (s *s3FileStorage) exists(ctx context.Context, objectKey string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
	})
	if err == nil {
		return true, nil
	}
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return false, nil
	}
	return false, fmt.Errorf("failed to head object %q: %w", objectKey, err)
}

func (s *s3FileStorage) objectKey(key string) string {
	if s.prefix == "" {
		return path.Clean(key)
	}
	return path.Join(s.prefix, key)
}
