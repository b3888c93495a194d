package exporter

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"protmerge/internal/config"
	apperrors "protmerge/internal/errors"
)

// ObjectAPI is the part of the S3 client the sink uses.
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Sink stores objects in one bucket under an optional key prefix.
type S3Sink struct {
	Client ObjectAPI
	Bucket string
	Prefix string
}

// NewS3Sink creates an S3 sink using the default AWS credential chain.
// A custom endpoint (e.g. MinIO) and path-style addressing come from cfg.
func NewS3Sink(ctx context.Context, bucket, prefix string, cfg config.S3Config) (*S3Sink, error) {
	if bucket == "" {
		return nil, apperrors.NewConfigError("s3 bucket required", nil)
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to load AWS configuration", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return &S3Sink{Client: client, Bucket: bucket, Prefix: prefix}, nil
}

// Put uploads body as one object. PutObject is atomic: the object appears only
// once the upload completes.
func (s *S3Sink) Put(ctx context.Context, name string, body io.Reader) error {
	key := objectKey(s.Prefix, name)
	_, err := s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType(name)),
	})
	if err != nil {
		return apperrors.NewStorageError("failed to upload output", err).WithContext("location", s.Location(name))
	}
	return nil
}

// Delete removes the object for name. S3 reports success for missing keys.
func (s *S3Sink) Delete(ctx context.Context, name string) error {
	_, err := s.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(objectKey(s.Prefix, name)),
	})
	if err != nil {
		return apperrors.NewStorageError("failed to remove output", err).WithContext("location", s.Location(name))
	}
	return nil
}

// Location returns the s3:// URL for name.
func (s *S3Sink) Location(name string) string {
	return fmt.Sprintf("s3://%s/%s", s.Bucket, objectKey(s.Prefix, name))
}
