package typeset

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"slices"
	"strings"

	// Image formats accepted by #image.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"go.trai.ch/nole/internal/core/domain"
	"go.trai.ch/nole/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Compiler = (*Compiler)(nil)

// maxImportDepth bounds nested imports independently of cycle detection.
const maxImportDepth = 64

// Compiler implements ports.Compiler for the nole markup.
type Compiler struct{}

// NewCompiler creates a new Compiler.
func NewCompiler() *Compiler {
	return &Compiler{}
}

// Compile evaluates the main source of world and lays it out into pages.
// Any error diagnostic yields a nil document. Missing or unreadable files
// referenced by the document are returned as errors.
func (c *Compiler) Compile(_ context.Context, world ports.World) (*domain.Document, domain.Diagnostics, error) {
	main, err := world.Source(world.Main())
	if err != nil {
		return nil, nil, err
	}

	e := &evaluator{
		world: world,
		lib:   world.Library(),
		out:   newLayouter(world, world.Book()),
		style: textStyle{family: DefaultFamily, size: DefaultFontSize, fill: domain.Black},
	}

	if main.HasErrors() {
		e.syntaxErrors(main)
		return nil, e.diags, nil
	}

	if err := e.source(main); err != nil {
		return nil, nil, err
	}
	if e.diags.HasErrors() {
		return nil, e.diags, nil
	}

	return &domain.Document{Title: e.title, Pages: e.out.finish()}, e.diags, nil
}

type evaluator struct {
	world ports.World
	lib   *domain.Library
	out   *layouter
	style textStyle
	title string
	diags domain.Diagnostics
	stack []domain.FileID
}

func (e *evaluator) report(file domain.FileID, span domain.Span, sev domain.Severity, msg string, hints ...string) {
	e.diags = append(e.diags, domain.Diagnostic{File: file, Span: span, Severity: sev, Message: msg, Hints: hints})
}

func (e *evaluator) syntaxErrors(src *domain.Source) {
	for _, se := range src.Errors {
		e.report(src.ID, se.Span, domain.SeverityError, se.Message, se.Hints...)
	}
}

func (e *evaluator) source(src *domain.Source) error {
	e.stack = append(e.stack, src.ID)
	defer func() {
		e.stack = e.stack[:len(e.stack)-1]
	}()

	for i := range src.Root.Blocks {
		if err := e.block(src, &src.Root.Blocks[i]); err != nil {
			return err
		}
	}
	return nil
}

func (e *evaluator) block(src *domain.Source, b *domain.Block) error {
	switch b.Kind {
	case domain.BlockHeading:
		return e.heading(src, b)

	case domain.BlockCall:
		if err := e.call(src, b.Call); err != nil {
			return err
		}
		e.out.endParagraph(e.style.size)

	default:
		if err := e.inlines(src, b.Inlines, e.style); err != nil {
			return err
		}
		e.out.endParagraph(e.style.size)
	}
	return nil
}

func (e *evaluator) heading(src *domain.Source, b *domain.Block) error {
	if len(b.Inlines) == 0 {
		e.report(src.ID, b.Span, domain.SeverityWarning, "heading is empty",
			"write the heading text after the '=' markers")
		return nil
	}

	if e.title == "" {
		e.title = plainText(b.Inlines)
	}

	style := e.style.with(true, false)
	style.size = e.style.size * headingScale(b.Level)

	e.out.endParagraph(e.style.size)
	if !e.out.pageEmpty() {
		e.out.vspace(style.size * 0.5)
	}
	if err := e.inlines(src, b.Inlines, style); err != nil {
		return err
	}
	e.out.endParagraph(style.size * 0.5)
	return nil
}

func headingScale(level int) float64 {
	switch level {
	case 1:
		return 1.6
	case 2:
		return 1.35
	case 3:
		return 1.15
	default:
		return 1
	}
}

func (e *evaluator) inlines(src *domain.Source, inlines []domain.Inline, style textStyle) error {
	for i := range inlines {
		in := &inlines[i]
		switch in.Kind {
		case domain.InlineText:
			e.words(in.Text, style)
		case domain.InlineSpace:
			e.out.spaceRequested()
		case domain.InlineStrong:
			if err := e.inlines(src, in.Children, style.with(true, false)); err != nil {
				return err
			}
		case domain.InlineEmph:
			if err := e.inlines(src, in.Children, style.with(false, true)); err != nil {
				return err
			}
		case domain.InlineRaw:
			raw := style
			raw.mono = true
			e.words(in.Text, raw)
		case domain.InlineCall:
			if err := e.call(src, in.Call); err != nil {
				return err
			}
		}
	}
	return nil
}

// words splits text at whitespace. Text directly adjacent to the previous word
// continues it without a gap.
func (e *evaluator) words(text string, style textStyle) {
	fields := strings.Fields(text)
	for i, w := range fields {
		if i > 0 {
			e.out.spaceRequested()
		}
		e.out.word(w, style)
	}
}

func (e *evaluator) call(src *domain.Source, call *domain.Call) error {
	def, ok := e.lib.Func(call.Name)
	if !ok {
		var hints []string
		for _, s := range suggestSimilar(call.Name, e.lib.Names(), 2) {
			hints = append(hints, fmt.Sprintf("did you mean `%s`?", s))
		}
		e.report(src.ID, call.NameSpan, domain.SeverityError, "unknown function: "+call.Name, hints...)
		return nil
	}
	if !e.checkArgs(src, call, def) {
		return nil
	}

	switch call.Name {
	case "import":
		return e.importFile(src, call)
	case "image":
		return e.image(src, call)
	case "pagebreak":
		e.out.pagebreak()
	case "page":
		e.page(src, call)
	case "text":
		e.text(src, call)
	case "today":
		e.words(e.world.Today().Format("2006-01-02"), e.style)
	case "line":
		e.line(call)
	case "v":
		if arg, ok := call.Positional(0); ok {
			e.out.vspace(e.length(arg.Value, e.out.paper.H))
		}
	}
	return nil
}

// checkArgs validates the arguments of a call against its definition and
// reports every mismatch.
func (e *evaluator) checkArgs(src *domain.Source, call *domain.Call, def *domain.FuncDef) bool {
	ok := true
	var positional []domain.ParamDef
	for _, p := range def.Params {
		if p.Positional {
			positional = append(positional, p)
		}
	}

	n := 0
	for _, arg := range call.Args {
		var param domain.ParamDef
		if arg.Name == "" {
			if n >= len(positional) {
				e.report(src.ID, arg.Span, domain.SeverityError, "unexpected argument")
				ok = false
				continue
			}
			param = positional[n]
			n++
		} else {
			p, found := def.Param(arg.Name)
			if !found || p.Positional {
				var names []string
				for _, q := range def.Params {
					if !q.Positional {
						names = append(names, q.Name)
					}
				}
				var hints []string
				for _, s := range suggestSimilar(arg.Name, names, 2) {
					hints = append(hints, fmt.Sprintf("did you mean `%s`?", s))
				}
				e.report(src.ID, arg.NameSpan, domain.SeverityError, "unexpected argument: "+arg.Name, hints...)
				ok = false
				continue
			}
			param = p
		}

		if arg.Value.Kind != param.Kind {
			e.report(src.ID, arg.Value.Span, domain.SeverityError,
				fmt.Sprintf("expected %s, found %s", param.Kind, arg.Value.Kind))
			ok = false
			continue
		}
		if len(param.Options) > 0 && !slices.Contains(param.Options, arg.Value.Str) {
			e.report(src.ID, arg.Value.Span, domain.SeverityError,
				fmt.Sprintf("invalid value for %s: %s", param.Name, arg.Value.Str),
				"expected one of "+strings.Join(param.Options, ", "))
			ok = false
		}
	}

	if n < len(positional) {
		e.report(src.ID, call.Span, domain.SeverityError, "missing argument: "+positional[n].Name)
		ok = false
	}
	return ok
}

func (e *evaluator) importFile(src *domain.Source, call *domain.Call) error {
	arg, _ := call.Positional(0)
	id, err := src.ID.Join(arg.Value.Str)
	if err != nil {
		e.report(src.ID, arg.Value.Span, domain.SeverityError, "cannot import "+arg.Value.Str,
			"imports must stay inside the workspace")
		return nil
	}

	for _, open := range e.stack {
		if open == id {
			e.report(src.ID, call.Span, domain.SeverityError, "cyclic import",
				"the file is already being imported through "+id.VPath())
			return nil
		}
	}
	if len(e.stack) >= maxImportDepth {
		e.report(src.ID, call.Span, domain.SeverityError, "maximum import depth exceeded")
		return nil
	}

	nested, err := e.world.Source(id)
	if err != nil {
		return zerr.With(zerr.With(zerr.Wrap(err, "import failed"), "file", src.ID.VPath()), "import", id.VPath())
	}
	if nested.HasErrors() {
		hints := make([]string, 0, len(nested.Errors))
		for _, se := range nested.Errors {
			hints = append(hints, fmt.Sprintf("%s: %s", id.VPath(), se.Message))
		}
		e.report(src.ID, call.Span, domain.SeverityError, "imported file has errors", hints...)
		e.syntaxErrors(nested)
		return nil
	}

	before := len(e.diags)
	if err := e.source(nested); err != nil {
		return err
	}
	for _, d := range e.diags[before:] {
		if d.Severity == domain.SeverityError && d.File == id {
			e.report(src.ID, call.Span, domain.SeverityError, "imported file has errors",
				fmt.Sprintf("%s: %s", id.VPath(), d.Message))
			break
		}
	}
	return nil
}

func (e *evaluator) image(src *domain.Source, call *domain.Call) error {
	arg, _ := call.Positional(0)
	id, err := src.ID.Join(arg.Value.Str)
	if err != nil {
		e.report(src.ID, arg.Value.Span, domain.SeverityError, "cannot load image "+arg.Value.Str,
			"images must stay inside the workspace")
		return nil
	}

	data, err := e.world.File(id)
	if err != nil {
		return zerr.With(zerr.With(zerr.Wrap(err, "image failed"), "file", src.ID.VPath()), "image", id.VPath())
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width == 0 || cfg.Height == 0 {
		e.report(src.ID, arg.Value.Span, domain.SeverityError, "failed to decode image",
			"supported formats are png, jpeg, gif, webp, bmp and tiff")
		return nil
	}

	pixels := domain.Size{W: float64(cfg.Width), H: float64(cfg.Height)}
	width := min(pixels.W, e.out.width())
	if w, ok := call.Named("width"); ok {
		width = e.length(w.Value, e.out.width())
	}
	if width <= 0 {
		e.report(src.ID, call.Span, domain.SeverityWarning, "image has no width")
		return nil
	}
	height := width * pixels.H / pixels.W

	top := e.out.reserve(height)
	e.out.place(domain.FrameItem{
		Kind:  domain.ItemImage,
		Pos:   domain.Point{X: e.out.margin, Y: top},
		Image: &domain.ImageItem{Data: data, Format: format, Size: domain.Size{W: width, H: height}, Pixels: pixels},
	})
	return nil
}

func (e *evaluator) page(src *domain.Source, call *domain.Call) {
	paper, margin := e.out.paper, e.out.margin
	if a, ok := call.Named("paper"); ok {
		paper = papers[a.Value.Str]
	}
	if a, ok := call.Named("width"); ok {
		paper.W = e.length(a.Value, e.out.paper.W)
	}
	if a, ok := call.Named("height"); ok {
		paper.H = e.length(a.Value, e.out.paper.H)
	}
	if a, ok := call.Named("margin"); ok {
		margin = e.length(a.Value, min(paper.W, paper.H))
	}

	if paper.W <= 0 || paper.H <= 0 || margin < 0 || 2*margin >= min(paper.W, paper.H) {
		e.report(src.ID, call.Span, domain.SeverityError, "invalid page geometry",
			"width and height must be positive and larger than twice the margin")
		return
	}
	e.out.setPage(paper, margin)
}

func (e *evaluator) text(src *domain.Source, call *domain.Call) {
	if a, ok := call.Named("size"); ok {
		size := e.length(a.Value, e.style.size)
		if size <= 0 {
			e.report(src.ID, a.Value.Span, domain.SeverityError, "font size must be positive")
			return
		}
		e.style.size = size
	}
	if a, ok := call.Named("font"); ok {
		if _, found := e.world.Book().Select(a.Value.Str, domain.StyleRegular); !found {
			var hints []string
			for _, s := range suggestSimilar(a.Value.Str, e.world.Book().Families(), 3) {
				hints = append(hints, fmt.Sprintf("did you mean `%s`?", s))
			}
			e.report(src.ID, a.Value.Span, domain.SeverityWarning, "unknown font family: "+a.Value.Str, hints...)
		} else {
			e.style.family = a.Value.Str
		}
	}
	if a, ok := call.Named("weight"); ok {
		bold := a.Value.Str == "bold"
		italic := e.style.weight == domain.StyleItalic || e.style.weight == domain.StyleBoldItalic
		e.style.weight = domain.StyleRegular.With(bold, italic)
	}
	if a, ok := call.Named("style"); ok {
		italic := a.Value.Str == "italic"
		bold := e.style.weight == domain.StyleBold || e.style.weight == domain.StyleBoldItalic
		e.style.weight = domain.StyleRegular.With(bold, italic)
	}
}

func (e *evaluator) line(call *domain.Call) {
	length := e.out.width()
	if a, ok := call.Named("length"); ok {
		length = e.length(a.Value, e.out.width())
	}
	stroke := 0.5
	if a, ok := call.Named("stroke"); ok {
		stroke = e.length(a.Value, 1)
	}

	gap := e.style.size * 0.5
	top := e.out.reserve(2*gap + stroke)
	black := domain.Black
	e.out.place(domain.FrameItem{
		Kind: domain.ItemShape,
		Pos:  domain.Point{X: e.out.margin, Y: top + gap},
		Shape: &domain.ShapeItem{
			Kind:        domain.ShapeLine,
			Size:        domain.Size{W: length},
			Stroke:      &black,
			StrokeWidth: stroke,
		},
	})
}

// length converts a number to points. Percentages are relative to base.
func (e *evaluator) length(v domain.Value, base float64) float64 {
	switch v.Unit {
	case "mm":
		return v.Num * 72 / 25.4
	case "cm":
		return v.Num * 72 / 2.54
	case "in":
		return v.Num * 72
	case "em":
		return v.Num * e.style.size
	case "%":
		return v.Num / 100 * base
	default:
		return v.Num
	}
}

// plainText flattens inline markup into its visible text.
func plainText(inlines []domain.Inline) string {
	var b strings.Builder
	for _, in := range inlines {
		switch in.Kind {
		case domain.InlineText, domain.InlineRaw:
			b.WriteString(in.Text)
		case domain.InlineSpace:
			b.WriteByte(' ')
		case domain.InlineStrong, domain.InlineEmph:
			b.WriteString(plainText(in.Children))
		}
	}
	return b.String()
}
