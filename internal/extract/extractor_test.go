package extract

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/expenseflow/invoice-processor/internal/models"
	"github.com/expenseflow/invoice-processor/pkg/logger"
)

// memStore 記憶體版 BlobStore，測試用
type memStore struct {
	objects map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{objects: make(map[string][]byte)}
}

func (m *memStore) Fetch(ctx context.Context, uri string) (io.ReadCloser, error) {
	data, ok := m.objects[uri]
	if !ok {
		return nil, fmt.Errorf("object %s not found", uri)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memStore) Store(ctx context.Context, uri string, reader io.Reader, contentType string) (string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	m.objects[uri] = data
	return uri, nil
}

func mustRef(t *testing.T, uri string) models.DocumentReference {
	t.Helper()
	doc, err := models.ParseDocumentReference(uri)
	require.NoError(t, err)
	return doc
}

// qrImage 產生帶單一 QR code 的 PNG
func qrImage(t *testing.T, payload string) []byte {
	t.Helper()

	writer := qrcode.NewQRCodeWriter()
	matrix, err := writer.Encode(payload, gozxing.BarcodeFormat_QR_CODE, 200, 200, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, matrix))
	return buf.Bytes()
}

// twoCodeImage 把兩個 QR code 並排貼在白底畫布上
func twoCodeImage(t *testing.T, payloadA, payloadB string) []byte {
	t.Helper()

	writer := qrcode.NewQRCodeWriter()
	first, err := writer.Encode(payloadA, gozxing.BarcodeFormat_QR_CODE, 200, 200, nil)
	require.NoError(t, err)
	second, err := writer.Encode(payloadB, gozxing.BarcodeFormat_QR_CODE, 200, 200, nil)
	require.NoError(t, err)

	canvas := imaging.New(460, 240, color.White)
	composite := imaging.Paste(canvas, first, image.Pt(20, 20))
	composite = imaging.Paste(composite, second, image.Pt(240, 20))

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, composite))
	return buf.Bytes()
}

func blankImage(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, imaging.New(200, 200, color.White)))
	return buf.Bytes()
}

func escapePDFText(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "(", `\(`)
	s = strings.ReplaceAll(s, ")", `\)`)
	return s
}

// buildPDF 組出最小可解析的 PDF，每頁一段文字，xref 偏移量照實計算
func buildPDF(t *testing.T, pageTexts []string) []byte {
	t.Helper()

	n := len(pageTexts)
	kids := make([]string, n)
	for i := range pageTexts {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), n),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
	}

	for i, text := range pageTexts {
		content := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", escapePDFText(text))
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objects)+1)
	for i, obj := range objects {
		offsets[i+1] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xrefOffset := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= len(objects); i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xrefOffset)

	return buf.Bytes()
}

func TestExtractPDFJoinsPagesInOrder(t *testing.T) {
	cases := []struct {
		name  string
		pages []string
	}{
		{"zero pages", []string{}},
		{"one page", []string{"Total: USD 49.99"}},
		{"three pages", []string{"Page one", "Page two", "Page three"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newMemStore()
			uri := "store://bucket/invoice.pdf"
			store.objects[uri] = buildPDF(t, tc.pages)

			e := NewExtractor(store, logger.NewTestLogger())

			result, err := e.Extract(context.Background(), mustRef(t, uri))
			require.NoError(t, err)
			require.NotNil(t, result.RawText)
			assert.Equal(t, strings.Join(tc.pages, "\n"), *result.RawText)
			assert.Empty(t, result.Items)
			assert.NotEmpty(t, result.Note)
		})
	}
}

func TestExtractImageDecodesFirstCode(t *testing.T) {
	store := newMemStore()
	uri := "store://bucket/receipt.png"
	payload := "AB12345678|20240315|1500|TWD"
	store.objects[uri] = qrImage(t, payload)

	e := NewExtractor(store, logger.NewTestLogger())

	result, err := e.Extract(context.Background(), mustRef(t, uri))
	require.NoError(t, err)
	require.NotNil(t, result.RawText)
	assert.Equal(t, payload, *result.RawText)
	assert.Empty(t, result.Items)
}

func TestExtractImageWithoutCode(t *testing.T) {
	store := newMemStore()
	uri := "store://bucket/photo.png"
	store.objects[uri] = blankImage(t)

	e := NewExtractor(store, logger.NewTestLogger())

	result, err := e.Extract(context.Background(), mustRef(t, uri))
	require.NoError(t, err)
	assert.Nil(t, result.RawText)
	assert.Empty(t, result.Items)
}

func TestExtractImageTwoCodesTakesFirstAndIsStable(t *testing.T) {
	store := newMemStore()
	uri := "store://bucket/double.png"
	payloadA := "FIRST-PAYLOAD|100"
	payloadB := "SECOND-PAYLOAD|200"
	store.objects[uri] = twoCodeImage(t, payloadA, payloadB)

	e := NewExtractor(store, logger.NewTestLogger())
	doc := mustRef(t, uri)

	first, err := e.Extract(context.Background(), doc)
	require.NoError(t, err)
	require.NotNil(t, first.RawText)
	// 取解碼順序上的第一個，不保證空間順序
	assert.Contains(t, []string{payloadA, payloadB}, *first.RawText)

	// 同一張圖重複擷取結果不變
	second, err := e.Extract(context.Background(), doc)
	require.NoError(t, err)
	require.NotNil(t, second.RawText)
	assert.Equal(t, *first.RawText, *second.RawText)
}

func TestExtractUnreachableDocument(t *testing.T) {
	e := NewExtractor(newMemStore(), logger.NewTestLogger())

	_, err := e.Extract(context.Background(), mustRef(t, "store://bucket/missing.pdf"))

	var extErr *models.ExtractionError
	require.ErrorAs(t, err, &extErr)
	assert.Equal(t, "fetch", extErr.Stage)
}

func TestExtractCorruptStream(t *testing.T) {
	store := newMemStore()
	store.objects["store://bucket/bad.png"] = []byte("definitely not an image")
	store.objects["store://bucket/bad.pdf"] = []byte("definitely not a pdf")

	e := NewExtractor(store, logger.NewTestLogger())

	for _, uri := range []string{"store://bucket/bad.png", "store://bucket/bad.pdf"} {
		_, err := e.Extract(context.Background(), mustRef(t, uri))

		var extErr *models.ExtractionError
		require.ErrorAs(t, err, &extErr, "uri %q", uri)
		assert.Equal(t, "decode", extErr.Stage, "uri %q", uri)
	}
}
