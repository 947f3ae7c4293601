package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
	"golang.org/x/sync/errgroup"

	"github.com/expenseflow/invoice-processor/internal/extract/document"
	"github.com/expenseflow/invoice-processor/internal/models"
	"github.com/expenseflow/invoice-processor/pkg/logger"
)

// Note attached to every PDF extraction; field parsing is a downstream step.
const extractionNote = "pdf text extracted; invoice fields are parsed downstream"

type Processor struct {
	logger logger.Logger
}

func NewProcessor(log logger.Logger) *Processor {
	return &Processor{
		logger: log,
	}
}

func (p *Processor) CanProcess(format models.DocumentFormat) bool {
	return format == models.FormatPDF
}

// Process 逐頁抽出文字，依頁碼順序用換行符接成單一字串
func (p *Processor) Process(ctx context.Context, file io.Reader) (*document.Content, error) {
	content, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	// pdf.NewReader 需要 io.ReaderAt
	reader := bytes.NewReader(content)

	pdfReader, err := pdf.NewReader(reader, reader.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}

	numPages := pdfReader.NumPage()
	pageTexts := make([]string, numPages)

	// 頁面平行處理，結果寫進按頁碼定位的 slice，順序不受排程影響
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for i := 1; i <= numPages; i++ {
		pageNum := i
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			page := pdfReader.Page(pageNum)
			if page.V.IsNull() {
				return nil
			}

			text, err := page.GetPlainText(nil)
			if err != nil {
				return fmt.Errorf("failed to get text from page %d: %w", pageNum, err)
			}

			pageTexts[pageNum-1] = text
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	joined := strings.Join(pageTexts, "\n")

	p.logger.Debug("PDF text extraction completed",
		logger.Int("pages", numPages),
		logger.Int("textLength", len(joined)),
	)

	return &document.Content{
		RawText: &joined,
		Note:    extractionNote,
	}, nil
}
