package document

import (
	"context"
	"io"

	"github.com/expenseflow/invoice-processor/internal/models"
)

// Content 單一文件解碼出的原始內容
type Content struct {
	RawText *string
	Note    string
}

// Processor 文件內容處理器介面
type Processor interface {
	// CanProcess 檢查是否能處理指定格式
	CanProcess(format models.DocumentFormat) bool

	// Process 解碼文件並回傳原始內容
	Process(ctx context.Context, file io.Reader) (*Content, error)
}
