package s3

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	cfg "github.com/expenseflow/invoice-processor/config"
	"github.com/expenseflow/invoice-processor/pkg/logger"
	"github.com/expenseflow/invoice-processor/pkg/storage/bloburi"
)

type S3Storage struct {
	client *s3.Client
	logger logger.Logger
}

// Fetch 實作 BlobStore 介面的 Fetch 方法
func (s *S3Storage) Fetch(ctx context.Context, uri string) (io.ReadCloser, error) {
	bucket, key, err := bloburi.Parse(uri)
	if err != nil {
		return nil, err
	}

	input := &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}

	result, err := s.client.GetObject(ctx, input)
	if err != nil {
		s.logger.Error("Failed to fetch object from S3",
			logger.String("bucket", bucket),
			logger.String("key", key),
			logger.Error(err),
		)
		return nil, fmt.Errorf("failed to fetch %s: %w", uri, err)
	}

	return result.Body, nil
}

// Store 實作 BlobStore 介面的 Store 方法
func (s *S3Storage) Store(ctx context.Context, uri string, reader io.Reader, contentType string) (string, error) {
	bucket, key, err := bloburi.Parse(uri)
	if err != nil {
		return "", err
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        reader,
		ContentType: aws.String(contentType),
	}

	_, err = s.client.PutObject(ctx, input)
	if err != nil {
		s.logger.Error("Failed to store object to S3",
			logger.String("bucket", bucket),
			logger.String("key", key),
			logger.Error(err),
		)
		return "", fmt.Errorf("failed to store %s: %w", uri, err)
	}

	return uri, nil
}

func NewS3Storage(log logger.Logger) (*S3Storage, error) {
	return newS3Storage(cfg.GetS3Config(), log)
}

func newS3Storage(s3Config *cfg.S3Config, log logger.Logger) (*S3Storage, error) {
	awsCfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(s3Config.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s3Config.AccessKey,
			s3Config.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		// 自訂端點給 MinIO 等相容服務用，這類服務通常只支援 path-style
		if s3Config.Endpoint != "" {
			o.BaseEndpoint = aws.String(s3Config.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Storage{
		client: client,
		logger: log,
	}, nil
}

func GetClient(log logger.Logger) (*S3Storage, error) {
	return NewS3Storage(log)
}
