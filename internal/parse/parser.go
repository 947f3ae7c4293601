package parse

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/expenseflow/invoice-processor/internal/models"
	"github.com/expenseflow/invoice-processor/pkg/logger"
)

// RateSource 提匯率查詢能力，查不到一律回 ok=false，不丟錯誤
type RateSource interface {
	RateToBase(ctx context.Context, currency string) (rate float64, asOf string, ok bool)
}

// Parser 對擷取出的原始文字做逐行啟發式掃描
// Parse 是 total function：任何輸入都不會失敗，缺什麼就留空
type Parser struct {
	rates  RateSource
	base   string
	logger logger.Logger
}

func NewParser(rates RateSource, log logger.Logger) *Parser {
	return &Parser{
		rates:  rates,
		base:   models.BaseCurrency,
		logger: log,
	}
}

// Parse scans rawText line by line for invoice number, date, total amount and
// currency, then looks up the vendor dictionary over the full text. A nil
// rawText yields an all-default record. Multiple total-bearing lines may each
// overwrite currency and amount; the last match wins. Calling Parse twice on
// the same text yields an identical record.
func (p *Parser) Parse(ctx context.Context, rawText *string) *models.InvoiceFields {
	fields := models.NewInvoiceFields()
	if rawText == nil {
		return fields
	}
	fields.RawText = rawText

	for _, line := range splitLines(*rawText) {
		lower := strings.ToLower(line)

		if containsAny(lower, invoiceNumberLabels) {
			value := afterLastColon(line)
			fields.InvoiceNumber = &value
		}

		if containsAny(lower, invoiceDateLabels) {
			value := afterLastColon(line)
			fields.InvoiceDate = &value
		}

		if containsAny(lower, totalLabels) {
			p.scanTotalLine(line, fields)
		}
	}

	if vendor, ok := matchVendor(*rawText); ok {
		fields.VendorName = vendor
	}

	p.normalize(ctx, fields)

	return fields
}

// scanTotalLine 從總額行找幣別標記和金額，都是有找到才覆寫
func (p *Parser) scanTotalLine(line string, fields *models.InvoiceFields) {
	tokens := strings.Fields(line)

	// 美金標記優先於台幣標記，與標記在行內的位置無關
	hasUSD, hasTWD := false, false
	for _, token := range tokens {
		upper := strings.ToUpper(token)
		hasUSD = hasUSD || usdMarkers[upper]
		hasTWD = hasTWD || twdMarkers[upper]
	}
	if hasUSD {
		fields.Currency = "USD"
	} else if hasTWD {
		fields.Currency = "TWD"
	}

	// 金額從右往左找第一個能解析的數字
	for i := len(tokens) - 1; i >= 0; i-- {
		cleaned := strings.ReplaceAll(tokens[i], ",", "")
		if v, err := strconv.ParseFloat(cleaned, 64); err == nil {
			fields.TotalAmount = &v
			break
		}
	}
}

// normalize 幣別不是基準幣別且金額已知時才查匯率，
// 查詢失敗不是錯誤，fx 欄位保持未設定
func (p *Parser) normalize(ctx context.Context, fields *models.InvoiceFields) {
	if fields.Currency == p.base || fields.TotalAmount == nil || p.rates == nil {
		return
	}

	rate, asOf, ok := p.rates.RateToBase(ctx, fields.Currency)
	if !ok {
		p.logger.Warn("Rate lookup unavailable, leaving amount unnormalized",
			logger.String("currency", fields.Currency),
		)
		return
	}

	converted := round2(*fields.TotalAmount * rate)
	fields.FxRate = &rate
	fields.FxRateDate = &asOf
	fields.AmountInBaseCurrency = &converted
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func splitLines(s string) []string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

func containsAny(line string, labels []string) bool {
	for _, label := range labels {
		if strings.Contains(line, label) {
			return true
		}
	}
	return false
}

// afterLastColon 取行內最後一個冒號之後的文字（全形冒號也算）
func afterLastColon(line string) string {
	normalized := strings.ReplaceAll(line, "：", ":")
	parts := strings.Split(normalized, ":")
	return strings.TrimSpace(parts[len(parts)-1])
}

func matchVendor(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, entry := range vendorDictionary {
		if strings.Contains(lower, entry.fragment) {
			return entry.display, true
		}
	}
	return "", false
}
