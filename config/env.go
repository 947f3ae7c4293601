package config

import (
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/joho/godotenv"
)

var envOnce sync.Once

// loadEnv 載入專案根目錄的 .env，找不到就退回環境變數
func loadEnv() {
	envOnce.Do(func() {
		_, filename, _, _ := runtime.Caller(0)
		configDir := filepath.Dir(filename)

		rootDir := filepath.Dir(configDir)
		envPath := filepath.Join(rootDir, ".env")

		if err := godotenv.Load(envPath); err != nil {
			log.Printf("Warning: .env file not found at %s, falling back to environment variables", envPath)
		}
	})
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
