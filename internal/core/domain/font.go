package domain

import (
	"strings"

	"golang.org/x/image/font/sfnt"
)

// FontStyle is the closed set of faces the layout engine distinguishes.
type FontStyle uint8

const (
	// StyleRegular is the upright, normal-weight face.
	StyleRegular FontStyle = iota
	// StyleBold is the upright, bold face.
	StyleBold
	// StyleItalic is the italic, normal-weight face.
	StyleItalic
	// StyleBoldItalic is the italic, bold face.
	StyleBoldItalic
)

// String implements fmt.Stringer.
func (s FontStyle) String() string {
	switch s {
	case StyleBold:
		return "bold"
	case StyleItalic:
		return "italic"
	case StyleBoldItalic:
		return "bold-italic"
	default:
		return "regular"
	}
}

// With returns the style with the bold or italic flag added.
func (s FontStyle) With(bold, italic bool) FontStyle {
	b := bold || s == StyleBold || s == StyleBoldItalic
	i := italic || s == StyleItalic || s == StyleBoldItalic
	switch {
	case b && i:
		return StyleBoldItalic
	case b:
		return StyleBold
	case i:
		return StyleItalic
	default:
		return StyleRegular
	}
}

// ParseFontStyle maps an OpenType subfamily name onto a FontStyle.
func ParseFontStyle(subfamily string) FontStyle {
	s := strings.ToLower(subfamily)
	bold := strings.Contains(s, "bold") || strings.Contains(s, "black") || strings.Contains(s, "heavy")
	italic := strings.Contains(s, "italic") || strings.Contains(s, "oblique")
	return StyleRegular.With(bold, italic)
}

// FontInfo is the metadata of a discovered font. Locator tells the loader where
// the bytes live; Index selects a face inside a collection.
type FontInfo struct {
	Family  InternedString
	Style   FontStyle
	Locator string
	Index   int
}

// Font is a loaded, parsed font. The parsed sfnt.Font is safe for concurrent
// use as long as each caller supplies its own sfnt.Buffer.
type Font struct {
	Info FontInfo
	Data []byte
	SFNT *sfnt.Font
}

// FontBook holds the metadata of every font slot in discovery order.
type FontBook struct {
	infos []FontInfo
}

// NewFontBook builds a book over the given metadata.
func NewFontBook(infos []FontInfo) *FontBook {
	out := make([]FontInfo, len(infos))
	copy(out, infos)
	return &FontBook{infos: out}
}

// Len returns the number of fonts.
func (b *FontBook) Len() int {
	return len(b.infos)
}

// Info returns the metadata of the font at index.
func (b *FontBook) Info(index int) (FontInfo, bool) {
	if index < 0 || index >= len(b.infos) {
		return FontInfo{}, false
	}
	return b.infos[index], true
}

// Select finds the best font for a family and style: an exact match first,
// then any face of the family, preferring regular.
func (b *FontBook) Select(family string, style FontStyle) (int, bool) {
	fallback := -1
	for i, info := range b.infos {
		if !strings.EqualFold(info.Family.String(), family) {
			continue
		}
		if info.Style == style {
			return i, true
		}
		if fallback < 0 || info.Style == StyleRegular {
			fallback = i
		}
	}
	return fallback, fallback >= 0
}

// Families returns the distinct family names in discovery order.
func (b *FontBook) Families() []string {
	seen := make(map[InternedString]struct{}, len(b.infos))
	var out []string
	for _, info := range b.infos {
		if _, ok := seen[info.Family]; ok {
			continue
		}
		seen[info.Family] = struct{}{}
		out = append(out, info.Family.String())
	}
	return out
}
