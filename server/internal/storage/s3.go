package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/rexzheng324-c/pharos/server/internal/config"
)

// S3API is the subset of the S3 client used by the backend.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Presigner is the subset of the S3 presign client used by the backend.
type S3Presigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3 serves objects from an S3 bucket and resolves names to presigned URLs.
type S3 struct {
	client  S3API
	presign S3Presigner
	bucket  string
	prefix  string
	ttl     time.Duration
}

// NewS3 creates an S3 backend. prefix is prepended to every name.
func NewS3(client *s3.Client, bucket, prefix string, ttl time.Duration) *S3 {
	return newS3(client, s3.NewPresignClient(client), bucket, prefix, ttl)
}

func newS3(client S3API, presign S3Presigner, bucket, prefix string, ttl time.Duration) *S3 {
	if ttl <= 0 {
		ttl = config.DefaultPresignTTL
	}
	return &S3{
		client:  client,
		presign: presign,
		bucket:  bucket,
		prefix:  prefix,
		ttl:     ttl,
	}
}

// NewS3Client creates an S3 client from cfg. Static credentials are used when
// both keys resolve from the environment; otherwise the default AWS
// credential chain applies. Endpoint and UsePathStyle target S3-compatible
// services such as MinIO, LocalStack or R2.
func NewS3Client(ctx context.Context, cfg config.S3Config) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if ak, sk := cfg.AccessKey(), cfg.SecretKey(); ak != "" && sk != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(ak, sk, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	}), nil
}

func (s *S3) Name() string { return "s3" }

func (s *S3) key(name string) string {
	return path.Join(s.prefix, name)
}

func (s *S3) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	})
	if err != nil {
		if isS3NotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return out.Body, nil
}

func (s *S3) URL(ctx context.Context, name string) (string, error) {
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	}, s3.WithPresignExpires(s.ttl))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

func isS3NotFound(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound", "NoSuchBucket":
			return true
		}
	}
	return false
}
