package image

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/disintegration/imaging"
	"github.com/makiuchi-d/gozxing"
	multiqr "github.com/makiuchi-d/gozxing/multi/qrcode"

	"github.com/expenseflow/invoice-processor/internal/extract/document"
	"github.com/expenseflow/invoice-processor/internal/models"
	"github.com/expenseflow/invoice-processor/pkg/logger"
)

// Processor 掃描影像裡的二維條碼（電子發票 QR code）
// 只取解碼順序上的第一個 payload，多碼情況不另做裁決
type Processor struct {
	logger logger.Logger
}

func NewProcessor(log logger.Logger) *Processor {
	return &Processor{
		logger: log,
	}
}

func (p *Processor) CanProcess(format models.DocumentFormat) bool {
	return format == models.FormatImage
}

func (p *Processor) Process(ctx context.Context, file io.Reader) (*document.Content, error) {
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	// 灰階化讓條碼二值化更穩定
	gray := imaging.Grayscale(img)

	bmp, err := gozxing.NewBinaryBitmapFromImage(gray)
	if err != nil {
		return nil, fmt.Errorf("failed to binarize image: %w", err)
	}

	reader := multiqr.NewQRCodeMultiReader()
	results, err := reader.DecodeMultiple(bmp, nil)
	if err != nil {
		if _, ok := err.(gozxing.NotFoundException); ok {
			// 影像裡沒有可解碼的條碼，不是錯誤
			p.logger.Debug("No decodable code found in image")
			return &document.Content{RawText: nil}, nil
		}
		return nil, fmt.Errorf("failed to scan image for codes: %w", err)
	}

	if len(results) == 0 {
		return &document.Content{RawText: nil}, nil
	}

	// 取解碼順序上的第一個
	payload := results[0].GetText()

	p.logger.Debug("Decoded code payload from image",
		logger.Int("codes", len(results)),
		logger.Int("payloadLength", len(payload)),
	)

	return &document.Content{
		RawText: &payload,
	}, nil
}
