package artifacts

import (
	"bytes"
	"context"
	"fmt"
	"path"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/de-tools/pulse-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
)

const DefaultRegion = "us-east-1"

// PutObjectAPI is the part of the S3 client the sink needs
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type s3Sink struct {
	client PutObjectAPI
	bucket string
	prefix string
}

func NewS3Sink(client PutObjectAPI, bucket, prefix string) (Sink, error) {
	if bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}
	return &s3Sink{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}, nil
}

// LoadAWSConfig loads the shared AWS configuration. Empty region falls back to DefaultRegion.
func LoadAWSConfig(ctx context.Context, region string) (awssdk.Config, error) {
	if region == "" {
		region = DefaultRegion
	}
	cfg, err := config.LoadDefaultConfig(ctx, config.WithDefaultRegion(region))
	if err != nil {
		return awssdk.Config{}, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}
	return cfg, nil
}

func NewS3SinkFromConfig(cfg awssdk.Config, bucket, prefix string) (Sink, error) {
	return NewS3Sink(s3.NewFromConfig(cfg), bucket, prefix)
}

func (s *s3Sink) Put(ctx context.Context, artifact *domain.Artifact) (string, error) {
	key := path.Join(s.prefix, artifact.FileName)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      awssdk.String(s.bucket),
		Key:         awssdk.String(key),
		Body:        bytes.NewReader(artifact.Data),
		ContentType: awssdk.String(artifact.ContentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s to s3://%s: %w", key, s.bucket, err)
	}

	location := fmt.Sprintf("s3://%s/%s", s.bucket, key)
	zerolog.Ctx(ctx).Info().
		Str("location", location).
		Int("bytes", len(artifact.Data)).
		Msg("report exported")
	return location, nil
}
