package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"gt-go/internal/config"
)

// S3Client is the subset of the S3 API the backend needs.
// *s3.Client satisfies it.
type S3Client interface {
	manager.UploadAPIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Backend stores documents as S3 objects. Keys have the form "bucket/object/key",
// which is what remains of an s3://bucket/object/key locator after the scheme.
type S3Backend struct {
	client   S3Client
	uploader *manager.Uploader
}

// NewS3Backend builds an S3 client from the default AWS configuration chain,
// overridden by any region, endpoint or static credentials set in cfg.
func NewS3Backend(ctx context.Context, cfg config.S3Config) (*S3Backend, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return NewS3BackendFromClient(client), nil
}

// NewS3BackendFromClient wraps an existing client.
func NewS3BackendFromClient(client S3Client) *S3Backend {
	return &S3Backend{
		client:   client,
		uploader: manager.NewUploader(client),
	}
}

// Put uploads the document to the object named by key.
func (b *S3Backend) Put(key string, r io.Reader, size int64) error {
	bucket, objectKey, err := splitBucketKey(key)
	if err != nil {
		return err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}
	if int64(len(data)) != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, len(data))
	}

	_, err = b.uploader.Upload(context.Background(), &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("uploading s3://%s/%s: %w", bucket, objectKey, err)
	}
	return nil
}

// Get downloads the object named by key into w.
func (b *S3Backend) Get(key string, w io.Writer) error {
	bucket, objectKey, err := splitBucketKey(key)
	if err != nil {
		return err
	}

	out, err := b.client.GetObject(context.Background(), &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return fmt.Errorf("s3://%s/%s: %w", bucket, objectKey, ErrNotExist)
		}
		return fmt.Errorf("downloading s3://%s/%s: %w", bucket, objectKey, err)
	}
	defer out.Body.Close()

	if _, err := io.Copy(w, out.Body); err != nil {
		return fmt.Errorf("reading s3://%s/%s: %w", bucket, objectKey, err)
	}
	return nil
}

// splitBucketKey splits "bucket/object/key" into its bucket and object key.
func splitBucketKey(key string) (bucket, objectKey string, err error) {
	bucket, objectKey, ok := strings.Cut(key, "/")
	if !ok || bucket == "" || objectKey == "" {
		return "", "", fmt.Errorf("invalid s3 locator %q: want s3://bucket/key", "s3://"+key)
	}
	return bucket, objectKey, nil
}

// Compile-time check that S3Backend implements Backend
var _ Backend = (*S3Backend)(nil)
