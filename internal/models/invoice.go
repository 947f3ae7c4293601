package models

import (
	"fmt"
	"path/filepath"
	"strings"
)

// BaseCurrency 系統基準幣別
const BaseCurrency = "TWD"

// UnknownVendor is the sentinel vendor name when no dictionary entry matches.
const UnknownVendor = "unknown vendor"

// DocumentFormat 文件格式
type DocumentFormat string

const (
	FormatPDF   DocumentFormat = "pdf"
	FormatImage DocumentFormat = "image"
)

// DocumentReference 指向遠端 blob store 裡的一份文件
// URI 形式為 scheme://container/path
type DocumentReference struct {
	Scheme    string `json:"scheme"`
	Container string `json:"container"`
	Path      string `json:"path"`
}

// ParseDocumentReference parses a scheme://container/path locator. A URI
// without a scheme separator is a caller contract violation and yields a
// ReferenceError.
func ParseDocumentReference(uri string) (DocumentReference, error) {
	idx := strings.Index(uri, "://")
	if idx <= 0 {
		return DocumentReference{}, &ReferenceError{URI: uri, Reason: "missing scheme"}
	}
	rest := uri[idx+3:]
	slash := strings.Index(rest, "/")
	if slash <= 0 || slash == len(rest)-1 {
		return DocumentReference{}, &ReferenceError{URI: uri, Reason: "missing container or path"}
	}
	return DocumentReference{
		Scheme:    uri[:idx],
		Container: rest[:slash],
		Path:      rest[slash+1:],
	}, nil
}

// URI returns the canonical scheme://container/path form.
func (d DocumentReference) URI() string {
	return fmt.Sprintf("%s://%s/%s", d.Scheme, d.Container, d.Path)
}

// Format infers the document format from the path's trailing extension only.
// Content sniffing is deliberately not done.
func (d DocumentReference) Format() DocumentFormat {
	if strings.EqualFold(filepath.Ext(d.Path), ".pdf") {
		return FormatPDF
	}
	return FormatImage
}

// LineItem 發票明細項目（目前尚未實作逐項解析，永遠為空）
type LineItem struct {
	Description string   `json:"description"`
	Quantity    float64  `json:"quantity"`
	UnitPrice   *float64 `json:"unitPrice,omitempty"`
}

// ExtractionResult 單次擷取的結果，建立後不再修改
type ExtractionResult struct {
	RawText *string           `json:"rawText"`
	Items   []LineItem        `json:"items"`
	Source  DocumentReference `json:"source"`
	Note    string            `json:"note,omitempty"`
}

// InvoiceFields 從原始文字解析出的發票欄位
// AmountInBaseCurrency 只有在幣別不是基準幣別、金額已知、
// 而且匯率查詢成功時才會有值
type InvoiceFields struct {
	InvoiceNumber        *string  `json:"invoice_number"`
	InvoiceDate          *string  `json:"invoice_date"`
	VendorName           string   `json:"vendor_name"`
	TotalAmount          *float64 `json:"total_amount"`
	Currency             string   `json:"currency"`
	FxRate               *float64 `json:"fx_rate"`
	FxRateDate           *string  `json:"fx_rate_date"`
	AmountInBaseCurrency *float64 `json:"amount_in_base_currency"`
	RawText              *string  `json:"raw_text"`
}

// NewInvoiceFields returns an all-default record: unknown vendor, base
// currency, every optional field unset.
func NewInvoiceFields() *InvoiceFields {
	return &InvoiceFields{
		VendorName: UnknownVendor,
		Currency:   BaseCurrency,
	}
}
