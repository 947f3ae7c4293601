package config

import (
	"os"
	"sync"
)

var (
	s3Once   sync.Once
	s3Config *S3Config
)

type S3Config struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

func GetS3Config() *S3Config {
	s3Once.Do(func() {
		loadEnv()

		s3Config = &S3Config{
			Region:    getenv("AWS_REGION", "ap-northeast-1"),
			Endpoint:  os.Getenv("AWS_ENDPOINT"),
			AccessKey: os.Getenv("AWS_ACCESS_KEY"),
			SecretKey: os.Getenv("AWS_SECRET_KEY"),
		}
	})
	return s3Config
}
