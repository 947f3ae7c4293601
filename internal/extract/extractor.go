package extract

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/expenseflow/invoice-processor/internal/extract/document"
	"github.com/expenseflow/invoice-processor/internal/extract/document/image"
	"github.com/expenseflow/invoice-processor/internal/extract/document/pdf"
	"github.com/expenseflow/invoice-processor/internal/models"
	"github.com/expenseflow/invoice-processor/pkg/logger"
	"github.com/expenseflow/invoice-processor/pkg/storage"
)

// Extractor 負責單一文件的原始內容擷取：抓取 bytes、
// 依副檔名分派給對應的 Processor
type Extractor struct {
	store      storage.BlobStore
	processors map[models.DocumentFormat]document.Processor
	logger     logger.Logger
}

func NewExtractor(store storage.BlobStore, log logger.Logger) *Extractor {
	return &Extractor{
		store: store,
		processors: map[models.DocumentFormat]document.Processor{
			models.FormatPDF:   pdf.NewProcessor(log),
			models.FormatImage: image.NewProcessor(log),
		},
		logger: log,
	}
}

// Extract fetches the document exactly once, materializes it to transient
// local storage for decoding, and dispatches on the path extension. The
// transient file is removed before return on every path.
func (e *Extractor) Extract(ctx context.Context, doc models.DocumentReference) (*models.ExtractionResult, error) {
	e.logger.Info("Extracting document",
		logger.String("uri", doc.URI()),
		logger.String("format", string(doc.Format())),
	)

	tmpPath, cleanup, err := e.fetchToTemp(ctx, doc)
	if err != nil {
		return nil, &models.ExtractionError{Source: doc, Stage: "fetch", Err: err}
	}
	defer cleanup()

	processor, ok := e.processors[doc.Format()]
	if !ok {
		return nil, &models.ExtractionError{
			Source: doc,
			Stage:  "dispatch",
			Err:    fmt.Errorf("no processor for format %s", doc.Format()),
		}
	}

	file, err := os.Open(tmpPath)
	if err != nil {
		return nil, &models.ExtractionError{Source: doc, Stage: "open", Err: err}
	}
	defer file.Close()

	content, err := processor.Process(ctx, file)
	if err != nil {
		return nil, &models.ExtractionError{Source: doc, Stage: "decode", Err: err}
	}

	return &models.ExtractionResult{
		RawText: content.RawText,
		Items:   []models.LineItem{},
		Source:  doc,
		Note:    content.Note,
	}, nil
}

// fetchToTemp 把遠端文件寫進暫存檔，回傳路徑與清理函式
func (e *Extractor) fetchToTemp(ctx context.Context, doc models.DocumentReference) (string, func(), error) {
	reader, err := e.store.Fetch(ctx, doc.URI())
	if err != nil {
		return "", nil, err
	}
	defer reader.Close()

	tmp, err := os.CreateTemp("", "invoice-doc-*")
	if err != nil {
		return "", nil, err
	}

	cleanup := func() {
		if err := os.Remove(tmp.Name()); err != nil && !os.IsNotExist(err) {
			e.logger.Warn("Failed to remove transient file",
				logger.String("path", tmp.Name()),
				logger.Error(err),
			)
		}
	}

	if _, err := io.Copy(tmp, reader); err != nil {
		tmp.Close()
		cleanup()
		return "", nil, err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", nil, err
	}

	return tmp.Name(), cleanup, nil
}
