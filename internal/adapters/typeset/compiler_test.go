package typeset_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/nole/internal/adapters/typeset"
	"go.trai.ch/nole/internal/core/domain"
)

func compile(t *testing.T, w *memWorld) (*domain.Document, domain.Diagnostics) {
	t.Helper()
	doc, diags, err := typeset.NewCompiler().Compile(context.Background(), w)
	require.NoError(t, err)
	return doc, diags
}

func texts(page domain.Page) []string {
	var out []string
	for _, item := range page.Frame.Items {
		if item.Kind == domain.ItemText {
			out = append(out, item.Text.Text)
		}
	}
	return out
}

func pngBytes(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.NRGBA{G: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.String()
}

func TestCompile_HeadingAndParagraph(t *testing.T) {
	w := newWorld(t, "/main.txt", map[string]string{"/main.txt": "= Title\n\nHello world"})

	doc, diags := compile(t, w)
	require.NotNil(t, doc)
	assert.Empty(t, diags)
	assert.Equal(t, "Title", doc.Title)
	require.Len(t, doc.Pages, 1)

	page := doc.Pages[0]
	assert.Equal(t, typeset.A4, page.Frame.Size)
	assert.Equal(t, []string{"Title", "Hello world"}, texts(page))

	title := page.Frame.Items[0]
	body := page.Frame.Items[1]
	assert.InDelta(t, typeset.DefaultMargin, title.Pos.X, 1e-9)
	assert.InDelta(t, typeset.DefaultFontSize*1.6, title.Text.Size, 1e-9)
	assert.Equal(t, 1, title.Text.Font, "headings use the bold face")
	assert.Equal(t, 0, body.Text.Font)
	assert.Greater(t, body.Pos.Y, title.Pos.Y)
	assert.Greater(t, body.Text.Width, 0.0)
}

func TestCompile_EmptyDocumentHasOnePage(t *testing.T) {
	doc, diags := compile(t, newWorld(t, "/main.txt", map[string]string{"/main.txt": ""}))
	require.NotNil(t, doc)
	assert.Empty(t, diags)
	require.Len(t, doc.Pages, 1)
	assert.Empty(t, doc.Pages[0].Frame.Items)
}

func TestCompile_Markup(t *testing.T) {
	w := newWorld(t, "/main.txt", map[string]string{"/main.txt": "plain *bold* _it_ `mono`"})

	doc, _ := compile(t, w)
	require.NotNil(t, doc)

	fonts := map[string]int{}
	for _, item := range doc.Pages[0].Frame.Items {
		fonts[item.Text.Text] = item.Text.Font
	}
	assert.Equal(t, 0, fonts["plain"])
	assert.Equal(t, 1, fonts["bold"])
	assert.Equal(t, 2, fonts["it"])
	assert.Equal(t, 4, fonts["mono"])
}

func TestCompile_LineBreaking(t *testing.T) {
	text := strings.Repeat("word ", 200)
	doc, _ := compile(t, newWorld(t, "/main.txt", map[string]string{"/main.txt": text}))
	require.NotNil(t, doc)

	page := doc.Pages[0]
	right := page.Width() - typeset.DefaultMargin
	lines := map[float64]bool{}
	for _, item := range page.Frame.Items {
		lines[item.Pos.Y] = true
		assert.LessOrEqual(t, item.Pos.X+item.Text.Width, right+0.01)
	}
	assert.Greater(t, len(lines), 5)
}

func TestCompile_PageBreak(t *testing.T) {
	doc, _ := compile(t, newWorld(t, "/main.txt", map[string]string{"/main.txt": "A\n\n#pagebreak()\n\nB"}))
	require.NotNil(t, doc)
	require.Len(t, doc.Pages, 2)
	assert.Equal(t, []string{"A"}, texts(doc.Pages[0]))
	assert.Equal(t, []string{"B"}, texts(doc.Pages[1]))
}

func TestCompile_OverflowStartsNewPage(t *testing.T) {
	text := strings.Repeat("line\n\n", 80)
	doc, _ := compile(t, newWorld(t, "/main.txt", map[string]string{"/main.txt": text}))
	require.NotNil(t, doc)
	assert.Greater(t, len(doc.Pages), 1)
	for _, page := range doc.Pages {
		for _, item := range page.Frame.Items {
			assert.LessOrEqual(t, item.Pos.Y, page.Height()-typeset.DefaultMargin)
		}
	}
}

func TestCompile_PageSettings(t *testing.T) {
	doc, diags := compile(t, newWorld(t, "/main.txt", map[string]string{
		"/main.txt": "#page(paper: a5, margin: 1cm)\n\nHi",
	}))
	require.NotNil(t, doc)
	assert.Empty(t, diags)
	require.Len(t, doc.Pages, 1)
	assert.Equal(t, domain.Size{W: 419.53, H: 595.28}, doc.Pages[0].Frame.Size)
	assert.InDelta(t, 72/2.54, doc.Pages[0].Frame.Items[0].Pos.X, 1e-9)
}

func TestCompile_Today(t *testing.T) {
	doc, _ := compile(t, newWorld(t, "/main.txt", map[string]string{"/main.txt": "#today()"}))
	require.NotNil(t, doc)
	assert.Equal(t, []string{"2025-03-04"}, texts(doc.Pages[0]))
}

func TestCompile_UnknownFunction(t *testing.T) {
	doc, diags := compile(t, newWorld(t, "/main.txt", map[string]string{"/main.txt": `#imgae("x.png")`}))
	assert.Nil(t, doc)
	require.Len(t, diags, 1)
	assert.Equal(t, "unknown function: imgae", diags[0].Message)
	assert.Equal(t, domain.Span{Start: 1, End: 6}, diags[0].Span)
	assert.Contains(t, diags[0].Hints, "did you mean `image`?")
}

func TestCompile_ArgumentChecks(t *testing.T) {
	tests := []struct {
		text    string
		message string
	}{
		{`#v("x")`, "expected number, found string"},
		{`#image()`, "missing argument: path"},
		{`#text(colour: 1)`, "unexpected argument: colour"},
		{`#text(weight: heavy)`, "invalid value for weight: heavy"},
		{`#pagebreak(1)`, "unexpected argument"},
		{`#page(width: 10pt, margin: 20pt)`, "invalid page geometry"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			doc, diags := compile(t, newWorld(t, "/main.txt", map[string]string{"/main.txt": tt.text}))
			assert.Nil(t, doc)
			require.NotEmpty(t, diags)
			assert.Equal(t, tt.message, diags[0].Message)
		})
	}
}

func TestCompile_SyntaxErrorsBecomeDiagnostics(t *testing.T) {
	doc, diags := compile(t, newWorld(t, "/main.txt", map[string]string{"/main.txt": "a *b"}))
	assert.Nil(t, doc)
	require.Len(t, diags, 1)
	assert.Equal(t, domain.SeverityError, diags[0].Severity)
	assert.Equal(t, "unclosed delimiter", diags[0].Message)
	assert.Equal(t, domain.NewFileID("/main.txt"), diags[0].File)
}

func TestCompile_EmptyHeadingWarns(t *testing.T) {
	doc, diags := compile(t, newWorld(t, "/main.txt", map[string]string{"/main.txt": "=\n\nText"}))
	require.NotNil(t, doc)
	require.Len(t, diags, 1)
	assert.Equal(t, domain.SeverityWarning, diags[0].Severity)
	assert.Equal(t, "heading is empty", diags[0].Message)
}

func TestCompile_UnknownFontWarns(t *testing.T) {
	doc, diags := compile(t, newWorld(t, "/main.txt", map[string]string{"/main.txt": `#text(font: "Ga")` + "\n\nx"}))
	require.NotNil(t, doc)
	require.Len(t, diags, 1)
	assert.Equal(t, domain.SeverityWarning, diags[0].Severity)
	assert.Contains(t, diags[0].Hints, "did you mean `Go`?")
}

func TestCompile_Import(t *testing.T) {
	w := newWorld(t, "/main.txt", map[string]string{
		"/main.txt":   "#import(\"ch/one.txt\")\n\nEnd",
		"/ch/one.txt": "#import(\"two.txt\")",
		"/ch/two.txt": "Chapter",
		"/unused.txt": "ignored",
	})

	doc, diags := compile(t, w)
	require.NotNil(t, doc)
	assert.Empty(t, diags)
	assert.Equal(t, []string{"Chapter", "End"}, texts(doc.Pages[0]))
}

func TestCompile_ImportCycle(t *testing.T) {
	w := newWorld(t, "/main.txt", map[string]string{
		"/main.txt": `#import("b.txt")`,
		"/b.txt":    `#import("main.txt")`,
	})

	doc, diags := compile(t, w)
	assert.Nil(t, doc)
	require.Len(t, diags, 2)
	assert.Equal(t, domain.NewFileID("/b.txt"), diags[0].File)
	assert.Equal(t, "cyclic import", diags[0].Message)
	assert.Equal(t, domain.NewFileID("/main.txt"), diags[1].File)
	assert.Equal(t, domain.Span{Start: 0, End: 16}, diags[1].Span)
	assert.Equal(t, []string{"/b.txt: cyclic import"}, diags[1].Hints)
}

func TestCompile_ImportWithSyntaxErrors(t *testing.T) {
	w := newWorld(t, "/main.txt", map[string]string{
		"/main.txt": "Intro #import(\"b.txt\")",
		"/b.txt":    "*open",
	})

	doc, diags := compile(t, w)
	assert.Nil(t, doc)
	require.NotEmpty(t, diags)
	assert.Equal(t, domain.NewFileID("/main.txt"), diags[0].File)
	assert.Equal(t, domain.Span{Start: 6, End: 22}, diags[0].Span)
	assert.Equal(t, []string{"/b.txt: unclosed delimiter"}, diags[0].Hints)
}

func TestCompile_ImportEscape(t *testing.T) {
	_, diags := compile(t, newWorld(t, "/main.txt", map[string]string{"/main.txt": `#import("../x.txt")`}))
	require.Len(t, diags, 1)
	assert.Equal(t, "cannot import ../x.txt", diags[0].Message)
}

func TestCompile_MissingFilesAreHardErrors(t *testing.T) {
	for _, text := range []string{`#import("gone.txt")`, `#image("gone.png")`} {
		w := newWorld(t, "/main.txt", map[string]string{"/main.txt": text})
		doc, _, err := typeset.NewCompiler().Compile(context.Background(), w)
		require.ErrorIs(t, err, domain.ErrNotFound)
		assert.Nil(t, doc)
	}

	w := newWorld(t, "/missing.txt", map[string]string{})
	_, _, err := typeset.NewCompiler().Compile(context.Background(), w)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCompile_Image(t *testing.T) {
	w := newWorld(t, "/main.txt", map[string]string{
		"/main.txt":    "#image(\"img/pic.png\", width: 200pt)\n\n#image(\"img/pic.png\")",
		"/img/pic.png": pngBytes(t, 100, 50),
	})

	doc, diags := compile(t, w)
	require.NotNil(t, doc)
	assert.Empty(t, diags)

	items := doc.Pages[0].Frame.Items
	require.Len(t, items, 2)
	first := items[0]
	assert.Equal(t, domain.ItemImage, first.Kind)
	assert.Equal(t, "png", first.Image.Format)
	assert.Equal(t, domain.Size{W: 200, H: 100}, first.Image.Size)
	assert.Equal(t, domain.Size{W: 100, H: 50}, first.Image.Pixels)
	assert.InDelta(t, typeset.DefaultMargin, first.Pos.X, 1e-9)
	assert.InDelta(t, typeset.DefaultMargin, first.Pos.Y, 1e-9)

	second := items[1]
	assert.Equal(t, domain.Size{W: 100, H: 50}, second.Image.Size)
	assert.InDelta(t, first.Pos.Y+100, second.Pos.Y, 1e-9)
}

func TestCompile_BadImage(t *testing.T) {
	w := newWorld(t, "/main.txt", map[string]string{
		"/main.txt":  `#image("notes.png")`,
		"/notes.png": "not an image",
	})

	doc, diags := compile(t, w)
	assert.Nil(t, doc)
	require.Len(t, diags, 1)
	assert.Equal(t, "failed to decode image", diags[0].Message)
	assert.Equal(t, domain.Span{Start: 7, End: 18}, diags[0].Span)
}

func TestCompile_Line(t *testing.T) {
	doc, _ := compile(t, newWorld(t, "/main.txt", map[string]string{"/main.txt": "#line(length: 50%)"}))
	require.NotNil(t, doc)
	items := doc.Pages[0].Frame.Items
	require.Len(t, items, 1)
	assert.Equal(t, domain.ShapeLine, items[0].Shape.Kind)
	assert.InDelta(t, (typeset.A4.W-2*typeset.DefaultMargin)/2, items[0].Shape.Size.W, 1e-9)
}
