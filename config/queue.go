package config

import (
	"os"
	"strconv"
	"sync"
)

var (
	queueOnce   sync.Once
	queueConfig *QueueConfig
)

type QueueConfig struct {
	RedisAddr     string
	RedisDB       int
	Concurrency   int
	ResultsBucket string
}

func GetQueueConfig() *QueueConfig {
	queueOnce.Do(func() {
		loadEnv()

		db := 0
		if v, err := strconv.Atoi(os.Getenv("REDIS_DB")); err == nil {
			db = v
		}

		queueConfig = &QueueConfig{
			RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
			RedisDB:       db,
			Concurrency:   5,
			ResultsBucket: getenv("RESULTS_BUCKET", "invoice-results"),
		}
	})
	return queueConfig
}
