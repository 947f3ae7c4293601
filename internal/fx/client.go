package fx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/expenseflow/invoice-processor/config"
	"github.com/expenseflow/invoice-processor/pkg/logger"
)

// Client 向外部匯率服務查詢即時匯率
// 查詢失敗（網路錯誤、逾時、非 2xx、缺少基準幣別）一律回 ok=false，
// 呼叫端把 ok=false 當成「無法換算」而不是錯誤
type Client struct {
	endpoint string
	apiKey   string
	base     string
	http     *http.Client
	logger   logger.Logger
}

// ratesResponse 匯率服務回傳的全表，以查詢幣別為基準
type ratesResponse struct {
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}

func NewClient(cfg *config.FXConfig, log logger.Logger) *Client {
	return &Client{
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		apiKey:   cfg.APIKey,
		base:     cfg.BaseCurrency,
		http: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: log,
	}
}

// RateToBase fetches the full rate table anchored at currency and selects the
// base-currency entry. Single attempt, bounded timeout, never an error.
func (c *Client) RateToBase(ctx context.Context, currency string) (rate float64, asOf string, ok bool) {
	url := fmt.Sprintf("%s/latest?base=%s", c.endpoint, currency)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		c.logger.Warn("Failed to build rate request", logger.Error(err))
		return 0, "", false
	}
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("Rate service unreachable",
			logger.String("currency", currency),
			logger.Error(err),
		)
		return 0, "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("Rate service returned non-2xx status",
			logger.String("currency", currency),
			logger.Int("status", resp.StatusCode),
		)
		return 0, "", false
	}

	var table ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&table); err != nil {
		c.logger.Warn("Failed to decode rate response", logger.Error(err))
		return 0, "", false
	}

	rate, found := table.Rates[c.base]
	if !found {
		c.logger.Warn("Rate table missing base currency entry",
			logger.String("currency", currency),
			logger.String("base", c.base),
		)
		return 0, "", false
	}

	c.logger.Debug("Fetched exchange rate",
		logger.String("currency", currency),
		logger.Float64("rate", rate),
		logger.String("asOf", table.Date),
	)

	return rate, table.Date, true
}
