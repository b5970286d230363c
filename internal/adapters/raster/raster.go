// Package raster draws compiled pages into PNG images.
package raster

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"math"
	"sync"

	// Decoders for every image format the compiler accepts.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/cespare/xxhash/v2"
	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"go.trai.ch/nole/internal/core/domain"
	"go.trai.ch/nole/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Rasterizer = (*Rasterizer)(nil)

const (
	// maxCachedImages bounds the decoded image cache.
	maxCachedImages = 64
	// maxPixels bounds the canvas so one render stays within a few hundred megabytes.
	maxPixels = 1 << 26
)

// Rasterizer implements ports.Rasterizer with the gg software renderer.
type Rasterizer struct {
	mu      sync.Mutex
	sources map[*domain.Font]*text.FontSource
	images  map[uint64]*gg.ImageBuf
}

// New creates a new Rasterizer.
func New() *Rasterizer {
	return &Rasterizer{
		sources: make(map[*domain.Font]*text.FontSource),
		images:  make(map[uint64]*gg.ImageBuf),
	}
}

// Rasterize draws page onto a white canvas at scale pixels per point.
func (r *Rasterizer) Rasterize(
	ctx context.Context,
	page domain.Page,
	scale float64,
	fonts ports.FontProvider,
) (*ports.Raster, error) {
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidScale, "rasterize"), "scale", scale)
	}

	w := max(1, math.Ceil(page.Width()*scale))
	h := max(1, math.Ceil(page.Height()*scale))
	if n := w * h; n > maxPixels || math.IsNaN(n) {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidScale, "page too large to rasterize"), "pixels", n)
	}
	width, height := int(w), int(h)

	dc := gg.NewContext(width, height)
	defer func() {
		_ = dc.Close()
	}()

	dc.ClearWithColor(gg.White)
	dc.Scale(scale, scale)

	for i := range page.Frame.Items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := r.draw(dc, &page.Frame.Items[i], fonts); err != nil {
			return nil, zerr.With(zerr.Wrap(domain.ErrEncoding, err.Error()), "item", i)
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, zerr.Wrap(domain.ErrEncoding, err.Error())
	}

	return &ports.Raster{PNG: buf.Bytes(), Width: width, Height: height}, nil
}

func (r *Rasterizer) draw(dc *gg.Context, item *domain.FrameItem, fonts ports.FontProvider) error {
	switch item.Kind {
	case domain.ItemText:
		t := item.Text
		if t == nil || t.Text == "" {
			return nil
		}
		source := r.fontSource(fonts, t.Font)
		if source == nil {
			return nil
		}
		dc.SetFont(source.Face(t.Size))
		dc.SetColor(nrgba(t.Fill))
		dc.DrawString(t.Text, item.Pos.X, item.Pos.Y)

	case domain.ItemShape:
		return drawShape(dc, item.Pos, item.Shape)

	case domain.ItemImage:
		img := item.Image
		if img == nil {
			return nil
		}
		buf, err := r.decode(img.Data)
		if err != nil {
			return err
		}
		dc.DrawImageEx(buf, gg.DrawImageOptions{
			X:         item.Pos.X,
			Y:         item.Pos.Y,
			DstWidth:  img.Size.W,
			DstHeight: img.Size.H,
		})
	}
	return nil
}

func drawShape(dc *gg.Context, pos domain.Point, s *domain.ShapeItem) error {
	if s == nil {
		return nil
	}

	path := func() {
		if s.Kind == domain.ShapeLine {
			dc.MoveTo(pos.X, pos.Y)
			dc.LineTo(pos.X+s.Size.W, pos.Y+s.Size.H)
			return
		}
		dc.DrawRectangle(pos.X, pos.Y, s.Size.W, s.Size.H)
	}

	if s.Fill != nil && s.Kind == domain.ShapeRect {
		path()
		dc.SetColor(nrgba(*s.Fill))
		if err := dc.Fill(); err != nil {
			return err
		}
	}
	if s.Stroke != nil && s.StrokeWidth > 0 {
		path()
		dc.SetColor(nrgba(*s.Stroke))
		dc.SetLineWidth(s.StrokeWidth)
		if err := dc.Stroke(); err != nil {
			return err
		}
	}
	return nil
}

// fontSource returns the shared glyph source for a catalog font, or nil when
// the slot is unavailable.
func (r *Rasterizer) fontSource(fonts ports.FontProvider, index int) *text.FontSource {
	f, ok := fonts.Font(index)
	if !ok {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sources[f]; ok {
		return s
	}
	s, err := text.NewFontSource(f.Data, text.WithCollectionIndex(f.Info.Index))
	if err != nil {
		s = nil
	}
	r.sources[f] = s
	return s
}

// decode returns the decoded image for data, keyed by content hash.
func (r *Rasterizer) decode(data []byte) (*gg.ImageBuf, error) {
	key := xxhash.Sum64(data)

	r.mu.Lock()
	buf, ok := r.images[key]
	r.mu.Unlock()
	if ok {
		return buf, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	buf = gg.ImageBufFromImage(img)

	r.mu.Lock()
	if len(r.images) >= maxCachedImages {
		clear(r.images)
	}
	r.images[key] = buf
	r.mu.Unlock()

	return buf, nil
}

func nrgba(c domain.Color) color.Color {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}
