package raster_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/nole/internal/adapters/fonts"
	"go.trai.ch/nole/internal/adapters/raster"
	"go.trai.ch/nole/internal/core/domain"
	"go.trai.ch/nole/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func page(w, h float64, items ...domain.FrameItem) domain.Page {
	return domain.Page{Frame: domain.Frame{Size: domain.Size{W: w, H: h}, Items: items}}
}

func decode(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

func rgb(c color.Color) (r, g, b uint8) {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return n.R, n.G, n.B
}

func TestRasterize_Size(t *testing.T) {
	r := raster.New()

	out, err := r.Rasterize(context.Background(), page(100, 50), 2, nil)
	require.NoError(t, err)
	assert.Equal(t, 200, out.Width)
	assert.Equal(t, 100, out.Height)

	img := decode(t, out.PNG)
	assert.Equal(t, image.Rect(0, 0, 200, 100), img.Bounds())
	r8, g8, b8 := rgb(img.At(5, 5))
	assert.Equal(t, [3]uint8{255, 255, 255}, [3]uint8{r8, g8, b8}, "background is white")
}

func TestRasterize_FractionalSizeRoundsUp(t *testing.T) {
	out, err := raster.New().Rasterize(context.Background(), page(10.2, 0.1), 1, nil)
	require.NoError(t, err)
	assert.Equal(t, 11, out.Width)
	assert.Equal(t, 1, out.Height)
}

func TestRasterize_InvalidScale(t *testing.T) {
	for _, scale := range []float64{0, -1} {
		_, err := raster.New().Rasterize(context.Background(), page(10, 10), scale, nil)
		require.ErrorIs(t, err, domain.ErrInvalidScale)
	}
}

func TestRasterize_TooManyPixels(t *testing.T) {
	for _, scale := range []float64{50, 1e5} {
		_, err := raster.New().Rasterize(context.Background(), page(595.28, 841.89), scale, nil)
		require.ErrorIs(t, err, domain.ErrInvalidScale)
	}
}

func TestRasterize_Rect(t *testing.T) {
	black := domain.Black
	out, err := raster.New().Rasterize(context.Background(), page(100, 100, domain.FrameItem{
		Kind:  domain.ItemShape,
		Pos:   domain.Point{X: 10, Y: 10},
		Shape: &domain.ShapeItem{Kind: domain.ShapeRect, Size: domain.Size{W: 20, H: 20}, Fill: &black},
	}), 2, nil)
	require.NoError(t, err)

	img := decode(t, out.PNG)
	r8, g8, b8 := rgb(img.At(40, 40))
	assert.Equal(t, [3]uint8{0, 0, 0}, [3]uint8{r8, g8, b8})
	r8, g8, b8 = rgb(img.At(150, 150))
	assert.Equal(t, [3]uint8{255, 255, 255}, [3]uint8{r8, g8, b8})
}

func TestRasterize_Text(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := fonts.NewLoader()
	font, err := loader.Load(domain.FontInfo{Locator: fonts.EmbeddedPrefix + "go-bold"})
	require.NoError(t, err)

	provider := mocks.NewMockFontProvider(ctrl)
	provider.EXPECT().Font(0).Return(font, true).AnyTimes()

	out, err := raster.New().Rasterize(context.Background(), page(200, 60, domain.FrameItem{
		Kind: domain.ItemText,
		Pos:  domain.Point{X: 10, Y: 40},
		Text: &domain.TextItem{Font: 0, Size: 30, Fill: domain.Black, Text: "HHHH"},
	}), 1, provider)
	require.NoError(t, err)

	img := decode(t, out.PNG)
	inked := false
	for y := 10; y < 42 && !inked; y++ {
		for x := 10; x < 120; x++ {
			if r8, _, _ := rgb(img.At(x, y)); r8 < 128 {
				inked = true
				break
			}
		}
	}
	assert.True(t, inked, "glyphs are drawn above the baseline")
}

func TestRasterize_MissingFontSkipsText(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockFontProvider(ctrl)
	provider.EXPECT().Font(3).Return(nil, false)

	_, err := raster.New().Rasterize(context.Background(), page(50, 50, domain.FrameItem{
		Kind: domain.ItemText,
		Text: &domain.TextItem{Font: 3, Size: 12, Text: "x"},
	}), 1, provider)
	require.NoError(t, err)
}

func TestRasterize_Image(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for y := range 2 {
		for x := range 2 {
			src.Set(x, y, color.NRGBA{R: 255, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	item := domain.FrameItem{
		Kind:  domain.ItemImage,
		Pos:   domain.Point{X: 40, Y: 0},
		Image: &domain.ImageItem{Data: buf.Bytes(), Format: "png", Size: domain.Size{W: 40, H: 40}},
	}
	r := raster.New()
	for range 2 {
		out, err := r.Rasterize(context.Background(), page(100, 100, item), 1, nil)
		require.NoError(t, err)

		img := decode(t, out.PNG)
		r8, g8, b8 := rgb(img.At(60, 20))
		assert.Equal(t, [3]uint8{255, 0, 0}, [3]uint8{r8, g8, b8})
	}
}

func TestRasterize_BadImage(t *testing.T) {
	_, err := raster.New().Rasterize(context.Background(), page(10, 10, domain.FrameItem{
		Kind:  domain.ItemImage,
		Image: &domain.ImageItem{Data: []byte("nope"), Size: domain.Size{W: 1, H: 1}},
	}), 1, nil)
	require.ErrorIs(t, err, domain.ErrEncoding)
}

func TestRasterize_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := raster.New().Rasterize(ctx, page(10, 10, domain.FrameItem{Kind: domain.ItemShape}), 1, nil)
	require.ErrorIs(t, err, context.Canceled)
}
