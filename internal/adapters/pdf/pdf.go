// Package pdf writes compiled documents as PDF files.
package pdf

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/xml"
	"fmt"
	"image"
	"image/png"
	"io"
	"strconv"
	"time"

	// Formats fpdf cannot embed directly are decoded and re-encoded as PNG.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/go-pdf/fpdf"
	"golang.org/x/image/font/gofont/goregular"

	"go.trai.ch/nole/internal/core/domain"
	"go.trai.ch/nole/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.DocumentExporter = (*Exporter)(nil)

// defaultFamily is the family registered for text whose font cannot be embedded.
const defaultFamily = "nole-default"

// Producer is written into the document info dictionary.
const Producer = "nole"

// Exporter implements ports.DocumentExporter with fpdf.
type Exporter struct {
	compress bool
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithCompression toggles stream compression. Enabled by default.
func WithCompression(on bool) Option {
	return func(e *Exporter) {
		e.compress = on
	}
}

// New creates a new Exporter.
func New(opts ...Option) *Exporter {
	e := &Exporter{compress: true}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export writes doc to w, one PDF page per document page.
func (e *Exporter) Export(
	ctx context.Context,
	doc *domain.Document,
	fonts ports.FontProvider,
	meta ports.ExportMeta,
	w io.Writer,
) error {
	if doc == nil || len(doc.Pages) == 0 {
		return zerr.Wrap(domain.ErrDocumentNotReady, "nothing to export")
	}

	first := doc.Pages[0]
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: first.Width(), Ht: first.Height()},
	})
	pdf.SetCompression(e.compress)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.SetProducer(Producer, false)
	pdf.SetCreator(Producer, false)
	if doc.Title != "" {
		pdf.SetTitle(doc.Title, true)
	}
	pdf.SetCreationDate(meta.Timestamp)
	pdf.SetModificationDate(meta.Timestamp)
	pdf.SetXmpMetadata(xmpPacket(meta))

	pdf.AddUTF8FontFromBytes(defaultFamily, "", goregular.TTF)

	w2 := &writer{pdf: pdf, fonts: fonts, families: make(map[int]string)}
	for i, page := range doc.Pages {
		if err := ctx.Err(); err != nil {
			return err
		}
		pdf.AddPageFormat("P", fpdf.SizeType{Wd: page.Width(), Ht: page.Height()})
		for j := range page.Frame.Items {
			if err := w2.item(&page.Frame.Items[j]); err != nil {
				return zerr.With(zerr.Wrap(domain.ErrEncoding, err.Error()), "page", i)
			}
		}
		if err := pdf.Error(); err != nil {
			return zerr.With(zerr.Wrap(domain.ErrEncoding, err.Error()), "page", i)
		}
	}

	if err := pdf.Output(w); err != nil {
		return zerr.Wrap(domain.ErrEncoding, err.Error())
	}
	return nil
}

type writer struct {
	pdf      *fpdf.Fpdf
	fonts    ports.FontProvider
	families map[int]string
	images   int
}

func (w *writer) item(item *domain.FrameItem) error {
	switch item.Kind {
	case domain.ItemText:
		t := item.Text
		if t == nil || t.Text == "" {
			return nil
		}
		w.pdf.SetFont(w.family(t.Font), "", t.Size)
		w.pdf.SetTextColor(int(t.Fill.R), int(t.Fill.G), int(t.Fill.B))
		w.pdf.Text(item.Pos.X, item.Pos.Y, t.Text)

	case domain.ItemShape:
		s := item.Shape
		if s == nil {
			return nil
		}
		style := ""
		if s.Fill != nil && s.Kind == domain.ShapeRect {
			w.pdf.SetFillColor(int(s.Fill.R), int(s.Fill.G), int(s.Fill.B))
			style += "F"
		}
		if s.Stroke != nil && s.StrokeWidth > 0 {
			w.pdf.SetDrawColor(int(s.Stroke.R), int(s.Stroke.G), int(s.Stroke.B))
			w.pdf.SetLineWidth(s.StrokeWidth)
			style += "D"
		}
		if style == "" {
			return nil
		}
		if s.Kind == domain.ShapeLine {
			if s.Stroke != nil {
				w.pdf.Line(item.Pos.X, item.Pos.Y, item.Pos.X+s.Size.W, item.Pos.Y+s.Size.H)
			}
			return nil
		}
		w.pdf.Rect(item.Pos.X, item.Pos.Y, s.Size.W, s.Size.H, style)

	case domain.ItemImage:
		img := item.Image
		if img == nil {
			return nil
		}
		data, kind, err := embeddable(img)
		if err != nil {
			return err
		}
		w.images++
		name := "img" + strconv.Itoa(w.images)
		opts := fpdf.ImageOptions{ImageType: kind}
		w.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
		w.pdf.ImageOptions(name, item.Pos.X, item.Pos.Y, img.Size.W, img.Size.H, false, opts, 0, "")
	}
	return nil
}

// family registers the font at slot on first use and returns its family name.
// Fonts fpdf cannot embed fall back to the default family.
func (w *writer) family(slot int) string {
	if name, ok := w.families[slot]; ok {
		return name
	}
	name := defaultFamily
	if f, ok := w.fonts.Font(slot); ok && embeddableFont(f) {
		name = "f" + strconv.Itoa(slot)
		w.pdf.AddUTF8FontFromBytes(name, "", f.Data)
	}
	w.families[slot] = name
	return name
}

// embeddableFont reports whether f is a standalone TrueType font.
func embeddableFont(f *domain.Font) bool {
	if f == nil || f.Info.Index != 0 || len(f.Data) < 4 {
		return false
	}
	switch binary.BigEndian.Uint32(f.Data) {
	case 0x00010000, 0x74727565: // version 1.0, "true"
		return true
	default:
		return false
	}
}

// embeddable returns image bytes in a format fpdf understands.
func embeddable(img *domain.ImageItem) ([]byte, string, error) {
	switch img.Format {
	case "png", "jpeg", "jpg", "gif":
		return img.Data, img.Format, nil
	}

	decoded, _, err := image.Decode(bytes.NewReader(img.Data))
	if err != nil {
		return nil, "", err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, decoded); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), "png", nil
}

func xmpPacket(meta ports.ExportMeta) []byte {
	stamp := meta.Timestamp.UTC().Format(time.RFC3339)
	return fmt.Appendf(nil, `<?xpacket begin="" id="W5M0MpCehiHzreSzNTczkc9d"?>
<x:xmpmeta xmlns:x="adobe:ns:meta/">
 <rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">
  <rdf:Description rdf:about=""
    xmlns:xmp="http://ns.adobe.com/xap/1.0/"
    xmlns:xmpMM="http://ns.adobe.com/xap/1.0/mm/"
    xmlns:pdf="http://ns.adobe.com/pdf/1.3/">
   <xmp:CreateDate>%s</xmp:CreateDate>
   <xmp:ModifyDate>%s</xmp:ModifyDate>
   <xmpMM:DocumentID>%s</xmpMM:DocumentID>
   <pdf:Producer>%s</pdf:Producer>
  </rdf:Description>
 </rdf:RDF>
</x:xmpmeta>
<?xpacket end="w"?>`, stamp, stamp, xmlEscape(meta.ID), Producer)
}

func xmlEscape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
