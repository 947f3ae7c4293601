package config

import (
	"sync"
)

var (
	serverOnce   sync.Once
	serverConfig *ServerConfig
)

type ServerConfig struct {
	Port     string
	LogLevel string
}

func GetServerConfig() *ServerConfig {
	serverOnce.Do(func() {
		loadEnv()

		serverConfig = &ServerConfig{
			Port:     getenv("SERVER_PORT", "8080"),
			LogLevel: getenv("LOG_LEVEL", "info"),
		}
	})
	return serverConfig
}
