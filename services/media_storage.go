package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rpupo63/portfolio-site/config"
	"github.com/rs/zerolog/log"
)

// ObjectPutter is the part of the S3 API used here. It is satisfied by *s3.Client.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// MediaStorage stores uploaded media in one S3 bucket.
type MediaStorage struct {
	client        ObjectPutter
	bucket        string
	publicBaseURL string
}

// NewMediaStorage returns nil when MEDIA_BUCKET is not set.
func NewMediaStorage(ctx context.Context, cfg map[string]string) (*MediaStorage, error) {
	bucket := config.GetString(cfg, "MEDIA_BUCKET", "")
	if bucket == "" {
		log.Warn().Msg("MEDIA_BUCKET is not defined, uploads are disabled")
		return nil, nil
	}

	region := config.GetString(cfg, "AWS_REGION", "us-east-1")
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	baseURL := config.GetString(cfg, "MEDIA_PUBLIC_BASE_URL", fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region))
	return NewMediaStorageWith(s3.NewFromConfig(awsCfg), bucket, baseURL), nil
}

func NewMediaStorageWith(client ObjectPutter, bucket, publicBaseURL string) *MediaStorage {
	return &MediaStorage{
		client:        client,
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

// Upload puts body at key and returns its public URL.
func (s *MediaStorage) Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
		CacheControl:  aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to put %s: %w", key, err)
	}
	return s.publicBaseURL + "/" + key, nil
}

func (s *MediaStorage) Provider() string {
	return "aws-s3"
}

func (s *MediaStorage) Bucket() string {
	return s.bucket
}
