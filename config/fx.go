package config

import (
	"os"
	"sync"
	"time"
)

var (
	fxOnce   sync.Once
	fxConfig *FXConfig
)

// FXConfig 匯率查詢服務的設定
// 憑證與端點屬於唯讀的程序層級設定，在建構時注入各元件
type FXConfig struct {
	Endpoint     string
	APIKey       string
	BaseCurrency string
	Timeout      time.Duration
}

func GetFXConfig() *FXConfig {
	fxOnce.Do(func() {
		loadEnv()

		fxConfig = &FXConfig{
			Endpoint:     getenv("FX_API_ENDPOINT", "https://api.exchangerate.host"),
			APIKey:       os.Getenv("FX_API_KEY"),
			BaseCurrency: getenv("BASE_CURRENCY", "TWD"),
			Timeout:      5 * time.Second,
		}
	})
	return fxConfig
}
