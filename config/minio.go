package config

import (
	"os"
	"sync"
)

var (
	minioOnce   sync.Once
	minioConfig *MinioConfig
)

type MinioConfig struct {
	AccessKey string
	SecretKey string
	Endpoint  string
	UseSSL    bool
	Region    string
}

func GetMinioConfig() *MinioConfig {
	minioOnce.Do(func() {
		loadEnv()

		minioConfig = &MinioConfig{
			AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
			SecretKey: os.Getenv("MINIO_SECRET_KEY"),
			Endpoint:  getenv("MINIO_ENDPOINT", "localhost:9000"),
			UseSSL:    os.Getenv("MINIO_USE_SSL") == "true",
			Region:    os.Getenv("MINIO_REGION"),
		}
	})
	return minioConfig
}
