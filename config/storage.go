package config

import (
	"sync"
)

var (
	storageOnce   sync.Once
	storageConfig *StorageConfig
)

// StorageConfig 選擇 blob 儲存後端
type StorageConfig struct {
	Type string // "minio" or "s3"
}

func GetStorageConfig() *StorageConfig {
	storageOnce.Do(func() {
		loadEnv()

		storageConfig = &StorageConfig{
			Type: getenv("STORAGE_TYPE", "minio"),
		}
	})
	return storageConfig
}
