package parse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/expenseflow/invoice-processor/internal/models"
	"github.com/expenseflow/invoice-processor/pkg/logger"
)

// stubRates 固定回傳的匯率來源
type stubRates struct {
	rate  float64
	asOf  string
	ok    bool
	calls int
}

func (s *stubRates) RateToBase(ctx context.Context, currency string) (float64, string, bool) {
	s.calls++
	return s.rate, s.asOf, s.ok
}

func newTestParser(rates RateSource) *Parser {
	return NewParser(rates, logger.NewTestLogger())
}

func strPtr(s string) *string { return &s }

func TestParseNilTextYieldsDefaults(t *testing.T) {
	p := newTestParser(&stubRates{})

	fields := p.Parse(context.Background(), nil)

	require.NotNil(t, fields)
	assert.Nil(t, fields.InvoiceNumber)
	assert.Nil(t, fields.InvoiceDate)
	assert.Nil(t, fields.TotalAmount)
	assert.Nil(t, fields.RawText)
	assert.Equal(t, models.UnknownVendor, fields.VendorName)
	assert.Equal(t, models.BaseCurrency, fields.Currency)
	assert.Nil(t, fields.FxRate)
	assert.Nil(t, fields.AmountInBaseCurrency)
}

func TestParseInvoiceNumberAndDate(t *testing.T) {
	p := newTestParser(&stubRates{})
	text := "Invoice Number: INV-2024-001\nInvoice Date: 2024-03-15"

	fields := p.Parse(context.Background(), &text)

	require.NotNil(t, fields.InvoiceNumber)
	assert.Equal(t, "INV-2024-001", *fields.InvoiceNumber)
	require.NotNil(t, fields.InvoiceDate)
	assert.Equal(t, "2024-03-15", *fields.InvoiceDate)
}

func TestParseChineseLabelsAndFullWidthColon(t *testing.T) {
	p := newTestParser(&stubRates{})
	text := "發票號碼：AB-12345678\n發票日期：2024/03/15\n合計 新台幣 1,500 元"

	fields := p.Parse(context.Background(), &text)

	require.NotNil(t, fields.InvoiceNumber)
	assert.Equal(t, "AB-12345678", *fields.InvoiceNumber)
	require.NotNil(t, fields.InvoiceDate)
	assert.Equal(t, "2024/03/15", *fields.InvoiceDate)
	assert.Equal(t, "TWD", fields.Currency)
	require.NotNil(t, fields.TotalAmount)
	assert.Equal(t, 1500.0, *fields.TotalAmount)
}

func TestParseCurrencyDefaultLaw(t *testing.T) {
	rates := &stubRates{rate: 31.5, asOf: "2024-01-01", ok: true}
	p := newTestParser(rates)
	text := "Total: 1,234.50"

	fields := p.Parse(context.Background(), &text)

	assert.Equal(t, models.BaseCurrency, fields.Currency)
	require.NotNil(t, fields.TotalAmount)
	assert.Equal(t, 1234.50, *fields.TotalAmount)
	assert.Nil(t, fields.FxRate)
	assert.Nil(t, fields.FxRateDate)
	assert.Nil(t, fields.AmountInBaseCurrency)
	assert.Zero(t, rates.calls, "base-currency amount must not trigger a rate lookup")
}

func TestParseNormalizationLaw(t *testing.T) {
	rates := &stubRates{rate: 31.5, asOf: "2024-01-01", ok: true}
	p := newTestParser(rates)
	text := "Total: USD 100.00"

	fields := p.Parse(context.Background(), &text)

	assert.Equal(t, "USD", fields.Currency)
	require.NotNil(t, fields.TotalAmount)
	assert.Equal(t, 100.0, *fields.TotalAmount)
	require.NotNil(t, fields.FxRate)
	assert.Equal(t, 31.5, *fields.FxRate)
	require.NotNil(t, fields.FxRateDate)
	assert.Equal(t, "2024-01-01", *fields.FxRateDate)
	require.NotNil(t, fields.AmountInBaseCurrency)
	assert.Equal(t, 3150.0, *fields.AmountInBaseCurrency)
}

func TestParseRateFailureLaw(t *testing.T) {
	p := newTestParser(&stubRates{ok: false})
	text := "Total: USD 100.00"

	fields := p.Parse(context.Background(), &text)

	assert.Equal(t, "USD", fields.Currency)
	require.NotNil(t, fields.TotalAmount)
	assert.Nil(t, fields.FxRate)
	assert.Nil(t, fields.FxRateDate)
	assert.Nil(t, fields.AmountInBaseCurrency)
}

func TestParseLastTotalLineWins(t *testing.T) {
	p := newTestParser(&stubRates{})
	text := "Total: USD 100.00\nTotal: NT$ 200"

	fields := p.Parse(context.Background(), &text)

	assert.Equal(t, "TWD", fields.Currency)
	require.NotNil(t, fields.TotalAmount)
	assert.Equal(t, 200.0, *fields.TotalAmount)
}

func TestParseVendorDictionary(t *testing.T) {
	p := newTestParser(&stubRates{})

	text := "STARBUCKS COFFEE COMPANY\nTotal: 150"
	fields := p.Parse(context.Background(), &text)
	assert.Equal(t, "Starbucks", fields.VendorName)

	text = "Some Unknown Shop\nTotal: 150"
	fields = p.Parse(context.Background(), &text)
	assert.Equal(t, models.UnknownVendor, fields.VendorName)
}

func TestParseIdempotent(t *testing.T) {
	rates := &stubRates{rate: 32.0, asOf: "2024-02-02", ok: true}
	p := newTestParser(rates)
	text := "Invoice Number: INV-7\nTotal: USD 49.99"

	first := p.Parse(context.Background(), &text)
	second := p.Parse(context.Background(), &text)

	assert.Equal(t, first, second)
}

func TestParseEndToEndScenario(t *testing.T) {
	rates := &stubRates{rate: 32.0, asOf: "2024-01-15", ok: true}
	p := newTestParser(rates)
	text := "Total: USD 49.99\nInvoice #: INV-1"

	fields := p.Parse(context.Background(), &text)

	require.NotNil(t, fields.InvoiceNumber)
	assert.Equal(t, "INV-1", *fields.InvoiceNumber)
	require.NotNil(t, fields.TotalAmount)
	assert.Equal(t, 49.99, *fields.TotalAmount)
	assert.Equal(t, "USD", fields.Currency)
	require.NotNil(t, fields.FxRate)
	assert.Equal(t, 32.0, *fields.FxRate)
	require.NotNil(t, fields.AmountInBaseCurrency)
	assert.Equal(t, 1599.68, *fields.AmountInBaseCurrency)
	assert.Equal(t, models.UnknownVendor, fields.VendorName)
}

func TestParseAmountScansRightToLeft(t *testing.T) {
	p := newTestParser(&stubRates{})
	// 行內有多個數字時取最右邊能解析的
	text := "Total 2 items: 350"

	fields := p.Parse(context.Background(), &text)

	require.NotNil(t, fields.TotalAmount)
	assert.Equal(t, 350.0, *fields.TotalAmount)
}

func TestParseTotalLineWithoutAmount(t *testing.T) {
	p := newTestParser(&stubRates{})
	text := "Total: pending"

	fields := p.Parse(context.Background(), &text)

	assert.Nil(t, fields.TotalAmount)
	assert.Equal(t, models.BaseCurrency, fields.Currency)
}

func TestParseKeepsRawText(t *testing.T) {
	p := newTestParser(&stubRates{})
	text := "Total: 42"

	fields := p.Parse(context.Background(), strPtr(text))

	require.NotNil(t, fields.RawText)
	assert.Equal(t, text, *fields.RawText)
}
