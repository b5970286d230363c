package domain

// Point is a position in points, measured from the top-left corner of a frame.
type Point struct {
	X float64
	Y float64
}

// Size is an extent in points.
type Size struct {
	W float64
	H float64
}

// Color is a non-premultiplied RGBA color.
type Color struct {
	R, G, B, A uint8
}

// Black is opaque black.
var Black = Color{A: 0xff}

// Document is the result of a successful compile. It is never mutated after
// the compiler returns it.
type Document struct {
	Title string
	Pages []Page
}

// Page is one compiled page.
type Page struct {
	Frame Frame
}

// Width returns the page width in points.
func (p Page) Width() float64 {
	return p.Frame.Size.W
}

// Height returns the page height in points.
func (p Page) Height() float64 {
	return p.Frame.Size.H
}

// Frame is an ordered list of positioned drawing items.
type Frame struct {
	Size  Size
	Items []FrameItem
}

// ItemKind enumerates frame item payloads.
type ItemKind uint8

const (
	// ItemText draws a run of glyphs.
	ItemText ItemKind = iota
	// ItemShape draws a filled or stroked geometric shape.
	ItemShape
	// ItemImage draws a raster image.
	ItemImage
)

// FrameItem is a positioned item. Exactly one payload matches Kind. For text
// the position is the start of the baseline; otherwise it is the top-left corner.
type FrameItem struct {
	Kind  ItemKind
	Pos   Point
	Text  *TextItem
	Shape *ShapeItem
	Image *ImageItem
}

// TextItem is a shaped run of text in a single font.
type TextItem struct {
	Font  int
	Size  float64
	Fill  Color
	Text  string
	Width float64
}

// ShapeKind enumerates supported geometry.
type ShapeKind uint8

const (
	// ShapeRect is an axis-aligned rectangle.
	ShapeRect ShapeKind = iota
	// ShapeLine is a straight line from the item position.
	ShapeLine
)

// ShapeItem is a geometric shape. For lines Size holds the delta to the end point.
type ShapeItem struct {
	Kind        ShapeKind
	Size        Size
	Fill        *Color
	Stroke      *Color
	StrokeWidth float64
}

// ImageItem is an encoded raster image scaled to Size.
type ImageItem struct {
	Data   []byte
	Format string
	Size   Size
	Pixels Size
}
