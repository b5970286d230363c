package typeset

import (
	"maps"
	"slices"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"go.trai.ch/nole/internal/core/domain"
	"go.trai.ch/nole/internal/core/ports"
)

const (
	// DefaultFamily is the family used when a document selects no font.
	DefaultFamily = "Go"
	// MonoFamily is the family used for raw text.
	MonoFamily = "Go Mono"

	// DefaultFontSize is the body text size in points.
	DefaultFontSize = 11.0

	// DefaultMargin is 2.5cm on every side.
	DefaultMargin = 70.87

	leading          = 1.3
	paragraphSpacing = 0.6
	fallbackAscent   = 0.8
	fallbackAdvance  = 0.5
)

// A4 is the default page size in points.
var A4 = domain.Size{W: 595.28, H: 841.89}

var papers = map[string]domain.Size{
	"a4":     A4,
	"a5":     {W: 419.53, H: 595.28},
	"letter": {W: 612, H: 792},
	"legal":  {W: 612, H: 1008},
}

func paperNames() []string {
	return slices.Sorted(maps.Keys(papers))
}

// textStyle is the state set by #text and inline markup.
type textStyle struct {
	family string
	size   float64
	weight domain.FontStyle
	mono   bool
	fill   domain.Color
}

func (s textStyle) with(bold, italic bool) textStyle {
	s.weight = s.weight.With(bold, italic)
	return s
}

// piece is one measured word.
type piece struct {
	text  string
	font  int
	size  float64
	fill  domain.Color
	width float64
	space bool
}

// layouter places measured words into lines and lines into pages.
type layouter struct {
	fonts ports.FontProvider
	book  *domain.FontBook
	buf   sfnt.Buffer

	paper  domain.Size
	margin float64

	pages []domain.Page
	y     float64

	line      []piece
	lineWidth float64
	space     bool
}

func newLayouter(fonts ports.FontProvider, book *domain.FontBook) *layouter {
	return &layouter{fonts: fonts, book: book, paper: A4, margin: DefaultMargin}
}

func (l *layouter) frame() *domain.Frame {
	if len(l.pages) == 0 {
		l.newPage()
	}
	return &l.pages[len(l.pages)-1].Frame
}

func (l *layouter) newPage() {
	l.pages = append(l.pages, domain.Page{Frame: domain.Frame{Size: l.paper}})
	l.y = l.margin
}

// pageEmpty reports whether nothing was placed on the current page yet.
func (l *layouter) pageEmpty() bool {
	return len(l.pages) == 0 || len(l.pages[len(l.pages)-1].Frame.Items) == 0
}

func (l *layouter) width() float64 {
	return max(l.paper.W-2*l.margin, 1)
}

func (l *layouter) bottom() float64 {
	return l.paper.H - l.margin
}

// selectFont returns the font slot for a style, or -1 when no font exists.
func (l *layouter) selectFont(s textStyle) int {
	family := s.family
	if s.mono {
		family = MonoFamily
	}
	if i, ok := l.book.Select(family, s.weight); ok {
		return i
	}
	if i, ok := l.book.Select(DefaultFamily, s.weight); ok {
		return i
	}
	if l.book.Len() > 0 {
		return 0
	}
	return -1
}

// measure returns the advance width of text. Unavailable fonts are measured
// with a fixed fraction of the size per character.
func (l *layouter) measure(text string, slot int, size float64) float64 {
	f, ok := l.fonts.Font(slot)
	if !ok || f.SFNT == nil {
		return float64(utf8.RuneCountInString(text)) * size * fallbackAdvance
	}

	ppem := fixed.Int26_6(size * 64)
	var (
		total fixed.Int26_6
		prev  sfnt.GlyphIndex
	)
	for i, r := range []rune(text) {
		gi, err := f.SFNT.GlyphIndex(&l.buf, r)
		if err != nil {
			continue
		}
		if i > 0 {
			if k, err := f.SFNT.Kern(&l.buf, prev, gi, ppem, font.HintingNone); err == nil {
				total += k
			}
		}
		if adv, err := f.SFNT.GlyphAdvance(&l.buf, gi, ppem, font.HintingNone); err == nil {
			total += adv
		}
		prev = gi
	}
	return float64(total) / 64
}

func (l *layouter) ascent(slot int, size float64) float64 {
	f, ok := l.fonts.Font(slot)
	if !ok || f.SFNT == nil {
		return size * fallbackAscent
	}
	m, err := f.SFNT.Metrics(&l.buf, fixed.Int26_6(size*64), font.HintingNone)
	if err != nil {
		return size * fallbackAscent
	}
	return float64(m.Ascent) / 64
}

// spaceRequested marks a word boundary before the next word.
func (l *layouter) spaceRequested() {
	if len(l.line) > 0 {
		l.space = true
	}
}

// word appends a word, breaking the line first when it would overflow.
func (l *layouter) word(text string, s textStyle) {
	if text == "" {
		return
	}
	slot := l.selectFont(s)
	p := piece{text: text, font: slot, size: s.size, fill: s.fill, width: l.measure(text, slot, s.size), space: l.space}
	l.space = false

	gap := 0.0
	if p.space {
		gap = l.measure(" ", slot, s.size)
	}
	if len(l.line) > 0 && l.lineWidth+gap+p.width > l.width() {
		l.breakLine()
		p.space, gap = false, 0
	}
	l.line = append(l.line, p)
	l.lineWidth += gap + p.width
}

// breakLine places the pending line on the page.
func (l *layouter) breakLine() {
	l.space = false
	if len(l.line) == 0 {
		return
	}

	size, slot := 0.0, l.line[0].font
	for _, p := range l.line {
		if p.size > size {
			size, slot = p.size, p.font
		}
	}
	height := size * leading
	if l.y+height > l.bottom() && !l.pageEmpty() {
		l.newPage()
	}
	frame := l.frame()
	baseline := l.y + l.ascent(slot, size)

	x := l.margin
	var run *domain.TextItem
	for _, p := range l.line {
		gap := 0.0
		if p.space {
			gap = l.measure(" ", p.font, p.size)
		}
		if run != nil && run.Font == p.font && run.Size == p.size && run.Fill == p.fill {
			if p.space {
				run.Text += " "
			}
			run.Text += p.text
			run.Width += gap + p.width
			x += gap + p.width
			continue
		}

		x += gap
		frame.Items = append(frame.Items, domain.FrameItem{
			Kind: domain.ItemText,
			Pos:  domain.Point{X: x, Y: baseline},
			Text: &domain.TextItem{Font: p.font, Size: p.size, Fill: p.fill, Text: p.text, Width: p.width},
		})
		run = frame.Items[len(frame.Items)-1].Text
		x += p.width
	}

	l.y += height
	l.line = l.line[:0]
	l.lineWidth = 0
}

// endParagraph flushes the line and adds paragraph spacing.
func (l *layouter) endParagraph(size float64) {
	hadLine := len(l.line) > 0
	l.breakLine()
	if hadLine {
		l.y += size * paragraphSpacing
	}
}

// reserve flushes the line and claims a block of height, starting a new page
// when it does not fit. It returns the top of the block.
func (l *layouter) reserve(height float64) float64 {
	l.breakLine()
	if l.y+height > l.bottom() && !l.pageEmpty() {
		l.newPage()
	}
	l.frame()
	top := l.y
	l.y += height
	return top
}

func (l *layouter) place(item domain.FrameItem) {
	frame := l.frame()
	frame.Items = append(frame.Items, item)
}

// vspace adds vertical space. Space running past the bottom ends the page.
func (l *layouter) vspace(amount float64) {
	l.breakLine()
	l.frame()
	l.y += amount
	if l.y > l.bottom() {
		l.newPage()
	}
}

// pagebreak starts a new page unless the current one is still empty.
func (l *layouter) pagebreak() {
	l.breakLine()
	if l.pageEmpty() && len(l.pages) > 0 {
		l.y = l.margin
		return
	}
	l.newPage()
}

// setPage changes the paper for the current page when it is still empty and
// for all following pages otherwise.
func (l *layouter) setPage(paper domain.Size, margin float64) {
	l.breakLine()
	l.paper, l.margin = paper, margin
	if l.pageEmpty() {
		if len(l.pages) > 0 {
			l.pages = l.pages[:len(l.pages)-1]
		}
		l.newPage()
		return
	}
	l.newPage()
}

func (l *layouter) finish() []domain.Page {
	l.breakLine()
	l.frame()
	return l.pages
}
