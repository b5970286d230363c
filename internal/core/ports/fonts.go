package ports

import (
	"context"

	"go.trai.ch/nole/internal/core/domain"
)

//go:generate mockgen -source=fonts.go -destination=mocks/mock_fonts.go -package=mocks

// FontSearchOptions controls font discovery.
type FontSearchOptions struct {
	// Dirs are extra directories searched before the system locations.
	Dirs []string
	// System enables the operating system font directories.
	System bool
}

// FontSearcher enumerates available fonts without loading them.
type FontSearcher interface {
	Search(ctx context.Context, opts FontSearchOptions) ([]domain.FontInfo, error)
}

// FontLoader loads and parses the font described by info.
type FontLoader interface {
	Load(info domain.FontInfo) (*domain.Font, error)
}
