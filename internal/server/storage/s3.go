package storage

import (
	"bytes"
	"context"
	"fmt"

	sc "github.com/estermelatii/wishkeeper/internal/server/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// seams for testing without a live S3 endpoint
var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in)
	}
	deleteObject = func(c *s3.Client, ctx context.Context, in *s3.DeleteObjectInput) (*s3.DeleteObjectOutput, error) {
		return c.DeleteObject(ctx, in)
	}
)

// S3BlobStore implements BlobStore against an S3-compatible backend
// (MinIO in development).
type S3BlobStore struct {
	client *s3.Client
	bucket string
}

// NewS3BlobStore builds an S3 client from the server config. Static
// credentials and a base endpoint are used so MinIO works out of the box.
func NewS3BlobStore(ctx context.Context, conf *sc.Config) (*S3BlobStore, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(conf.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			conf.S3RootUser,
			conf.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("aws config error: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(conf.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return &S3BlobStore{client: client, bucket: conf.S3Bucket}, nil
}

// Store uploads data under key and returns key as the blob reference.
func (s *S3BlobStore) Store(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	in := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}
	if _, err := putObject(s.client, ctx, in); err != nil {
		return "", fmt.Errorf("put object %q: %w", key, err)
	}
	return key, nil
}

// Delete removes the object behind ref. S3 deletes are idempotent, so a
// missing object still reports true.
func (s *S3BlobStore) Delete(ctx context.Context, ref string) (bool, error) {
	_, err := deleteObject(s.client, ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(ref),
	})
	if err != nil {
		return false, fmt.Errorf("delete object %q: %w", ref, err)
	}
	return true, nil
}
