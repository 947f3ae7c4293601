package minio

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	cfg "github.com/expenseflow/invoice-processor/config"
	"github.com/expenseflow/invoice-processor/pkg/logger"
	"github.com/expenseflow/invoice-processor/pkg/storage/bloburi"
)

type MinioStorage struct {
	client *minio.Client
	logger logger.Logger
}

// Fetch implements BlobStore.Fetch
func (m *MinioStorage) Fetch(ctx context.Context, uri string) (io.ReadCloser, error) {
	bucket, key, err := bloburi.Parse(uri)
	if err != nil {
		return nil, err
	}

	obj, err := m.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		m.logger.Error("Failed to fetch object from MinIO",
			logger.String("bucket", bucket),
			logger.String("key", key),
			logger.Error(err),
		)
		return nil, fmt.Errorf("failed to fetch %s: %w", uri, err)
	}

	return obj, nil
}

// Store implements BlobStore.Store
func (m *MinioStorage) Store(ctx context.Context, uri string, reader io.Reader, contentType string) (string, error) {
	bucket, key, err := bloburi.Parse(uri)
	if err != nil {
		return "", err
	}

	_, err = m.client.PutObject(ctx, bucket, key, reader, -1, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		m.logger.Error("Failed to store object to MinIO",
			logger.String("bucket", bucket),
			logger.String("key", key),
			logger.Error(err),
		)
		return "", fmt.Errorf("failed to store %s: %w", uri, err)
	}

	return uri, nil
}

func NewMinioStorage(log logger.Logger) (*MinioStorage, error) {
	minioConfig := cfg.GetMinioConfig()
	client, err := minio.New(minioConfig.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(minioConfig.AccessKey, minioConfig.SecretKey, ""),
		Secure: minioConfig.UseSSL,
		Region: minioConfig.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	return &MinioStorage{
		client: client,
		logger: log,
	}, nil
}

func GetClient(log logger.Logger) (*MinioStorage, error) {
	return NewMinioStorage(log)
}
