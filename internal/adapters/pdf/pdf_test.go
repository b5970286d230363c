package pdf_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/nole/internal/adapters/fonts"
	"go.trai.ch/nole/internal/adapters/pdf"
	"go.trai.ch/nole/internal/core/domain"
	"go.trai.ch/nole/internal/core/ports"
	"go.trai.ch/nole/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
	"golang.org/x/image/bmp"
)

func meta() ports.ExportMeta {
	return ports.ExportMeta{
		ID:        "doc-<1>",
		Timestamp: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func textPage(s string) domain.Page {
	return domain.Page{Frame: domain.Frame{
		Size: domain.Size{W: 300, H: 200},
		Items: []domain.FrameItem{{
			Kind: domain.ItemText,
			Pos:  domain.Point{X: 20, Y: 40},
			Text: &domain.TextItem{Font: 0, Size: 12, Fill: domain.Black, Text: s},
		}},
	}}
}

func provider(t *testing.T) ports.FontProvider {
	t.Helper()
	font, err := fonts.NewLoader().Load(domain.FontInfo{Locator: fonts.EmbeddedPrefix + "go-regular"})
	require.NoError(t, err)

	p := mocks.NewMockFontProvider(gomock.NewController(t))
	p.EXPECT().Font(0).Return(font, true).AnyTimes()
	p.EXPECT().Font(gomock.Any()).Return(nil, false).AnyTimes()
	return p
}

func TestExport_Document(t *testing.T) {
	doc := &domain.Document{Title: "Notes", Pages: []domain.Page{textPage("Hello"), textPage("Grüße")}}

	var buf bytes.Buffer
	err := pdf.New(pdf.WithCompression(false)).Export(context.Background(), doc, provider(t), meta(), &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Contains(t, out, "/Count 2")
	assert.Contains(t, out, "<xmpMM:DocumentID>doc-&lt;1&gt;</xmpMM:DocumentID>")
	assert.Contains(t, out, "<xmp:CreateDate>2025-01-02T03:04:05Z</xmp:CreateDate>")
	assert.Contains(t, out, "D:20250102030405")
}

func TestExport_Shapes(t *testing.T) {
	black := domain.Black
	doc := &domain.Document{Pages: []domain.Page{{Frame: domain.Frame{
		Size: domain.Size{W: 100, H: 100},
		Items: []domain.FrameItem{
			{Kind: domain.ItemShape, Shape: &domain.ShapeItem{Kind: domain.ShapeRect, Size: domain.Size{W: 10, H: 10}, Fill: &black}},
			{Kind: domain.ItemShape, Shape: &domain.ShapeItem{Kind: domain.ShapeLine, Size: domain.Size{W: 50}, Stroke: &black, StrokeWidth: 1}},
			{Kind: domain.ItemShape, Shape: &domain.ShapeItem{Kind: domain.ShapeRect}},
		},
	}}}}

	var buf bytes.Buffer
	require.NoError(t, pdf.New().Export(context.Background(), doc, provider(t), meta(), &buf))
	assert.NotZero(t, buf.Len())
}

func TestExport_Images(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := range 4 {
		src.Set(i, i, color.NRGBA{B: 255, A: 255})
	}
	var pngBuf, bmpBuf bytes.Buffer
	require.NoError(t, png.Encode(&pngBuf, src))
	require.NoError(t, bmp.Encode(&bmpBuf, src))

	doc := &domain.Document{Pages: []domain.Page{{Frame: domain.Frame{
		Size: domain.Size{W: 100, H: 100},
		Items: []domain.FrameItem{
			{Kind: domain.ItemImage, Image: &domain.ImageItem{Data: pngBuf.Bytes(), Format: "png", Size: domain.Size{W: 20, H: 20}}},
			{Kind: domain.ItemImage, Pos: domain.Point{X: 30}, Image: &domain.ImageItem{Data: bmpBuf.Bytes(), Format: "bmp", Size: domain.Size{W: 20, H: 20}}},
		},
	}}}}

	var buf bytes.Buffer
	require.NoError(t, pdf.New(pdf.WithCompression(false)).Export(context.Background(), doc, provider(t), meta(), &buf))
	assert.Contains(t, buf.String(), "/Subtype /Image")
}

func TestExport_BrokenImage(t *testing.T) {
	doc := &domain.Document{Pages: []domain.Page{{Frame: domain.Frame{
		Size: domain.Size{W: 100, H: 100},
		Items: []domain.FrameItem{
			{Kind: domain.ItemImage, Image: &domain.ImageItem{Data: []byte("junk"), Format: "webp", Size: domain.Size{W: 1, H: 1}}},
		},
	}}}}

	err := pdf.New().Export(context.Background(), doc, provider(t), meta(), &bytes.Buffer{})
	require.ErrorIs(t, err, domain.ErrEncoding)
}

func TestExport_UnavailableFontFallsBack(t *testing.T) {
	page := textPage("fallback")
	page.Frame.Items[0].Text.Font = 7

	var buf bytes.Buffer
	err := pdf.New().Export(context.Background(), &domain.Document{Pages: []domain.Page{page}}, provider(t), meta(), &buf)
	require.NoError(t, err)
}

func TestExport_EmptyDocument(t *testing.T) {
	err := pdf.New().Export(context.Background(), &domain.Document{}, provider(t), meta(), &bytes.Buffer{})
	require.ErrorIs(t, err, domain.ErrNotReady)
}
