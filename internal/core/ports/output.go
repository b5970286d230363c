package ports

import (
	"context"
	"io"
	"time"

	"go.trai.ch/nole/internal/core/domain"
)

//go:generate mockgen -source=output.go -destination=mocks/mock_output.go -package=mocks

// Raster is an encoded page image.
type Raster struct {
	PNG    []byte
	Width  int
	Height int
}

// Rasterizer draws a page onto a white canvas at scale pixels per point.
type Rasterizer interface {
	Rasterize(ctx context.Context, page domain.Page, scale float64, fonts FontProvider) (*Raster, error)
}

// ExportMeta is embedded into exported documents.
type ExportMeta struct {
	ID        string
	Timestamp time.Time
}

// DocumentExporter serializes a document to a portable format.
type DocumentExporter interface {
	Export(ctx context.Context, doc *domain.Document, fonts FontProvider, meta ExportMeta, w io.Writer) error
}
