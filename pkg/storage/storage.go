package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/expenseflow/invoice-processor/pkg/logger"
	"github.com/expenseflow/invoice-processor/pkg/storage/minio"
	"github.com/expenseflow/invoice-processor/pkg/storage/s3"
)

// StorageType 定義儲存後端種類
type StorageType string

const (
	StorageTypeMinio StorageType = "minio"
	StorageTypeS3    StorageType = "s3"
)

// BlobStore 以 scheme://container/path 形式的 URI 存取遠端文件
type BlobStore interface {
	// Fetch 取得文件內容
	Fetch(ctx context.Context, uri string) (io.ReadCloser, error)
	// Store 寫入文件內容，回傳實際儲存位置
	Store(ctx context.Context, uri string, reader io.Reader, contentType string) (string, error)
}

// NewBlobStore 建立儲存實例的工廠方法
func NewBlobStore(storageType StorageType, log logger.Logger) (BlobStore, error) {
	switch storageType {
	case StorageTypeMinio:
		return minio.GetClient(log)
	case StorageTypeS3:
		return s3.GetClient(log)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", storageType)
	}
}
