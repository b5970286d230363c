// Package report renders diagnostics and font listings for the terminal.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.trai.ch/nole/internal/core/domain"
	"go.trai.ch/nole/internal/ui/style"
)

// Printer writes styled reports to w.
type Printer struct {
	w io.Writer
	r *lipgloss.Renderer
}

// New creates a Printer using the given color profile.
func New(w io.Writer, profile termenv.Profile) *Printer {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(profile)
	return &Printer{w: w, r: r}
}

func (p *Printer) render(s lipgloss.Style, text string) string {
	return s.Renderer(p.r).Render(text)
}

// position is a 1-based line and column counted in characters.
type position struct {
	line, col int
}

// locate converts a character offset of text to a position and returns the
// line containing it.
func locate(text string, offset int) (position, string) {
	pos := position{line: 1, col: 1}
	lineStart := 0
	n := 0
	for i, r := range text {
		if n == offset {
			break
		}
		n++
		if r == '\n' {
			pos.line++
			pos.col = 1
			lineStart = i + 1
			continue
		}
		pos.col++
	}
	line := text[lineStart:]
	if end := strings.IndexByte(line, '\n'); end >= 0 {
		line = line[:end]
	}
	return pos, strings.TrimRight(line, "\r")
}

// Diagnostics prints every report with the offending line and a marker under
// the reported range.
func (p *Printer) Diagnostics(path, text string, reports []domain.DiagnosticReport) {
	for _, d := range reports {
		label := p.render(style.Failure.Bold(true), "error")
		if d.Severity == domain.SeverityWarning {
			label = p.render(style.Caution.Bold(true), "warning")
		}
		_, _ = fmt.Fprintf(p.w, "%s: %s\n", label, d.Message)

		pos, line := locate(text, d.Range[0])
		gutter := strings.Repeat(" ", len(strconv.Itoa(pos.line)))
		_, _ = fmt.Fprintf(p.w, "%s %s %s:%d:%d\n", gutter, p.render(style.Muted, style.Arrow), path, pos.line, pos.col)
		_, _ = fmt.Fprintf(p.w, "%s %s\n", gutter, p.render(style.Muted, "|"))
		_, _ = fmt.Fprintf(p.w, "%d %s %s\n", pos.line, p.render(style.Muted, "|"), line)

		width := max(1, min(d.Range[1]-d.Range[0], len([]rune(line))-pos.col+1))
		_, _ = fmt.Fprintf(p.w, "%s %s %s%s\n", gutter, p.render(style.Muted, "|"),
			strings.Repeat(" ", pos.col-1), p.render(style.Failure, strings.Repeat("^", width)))

		for _, hint := range d.Hints {
			_, _ = fmt.Fprintf(p.w, "%s %s hint: %s\n", gutter, p.render(style.Muted, "="), hint)
		}
		_, _ = fmt.Fprintln(p.w)
	}
}

// Summary prints a one-line outcome.
func (p *Printer) Summary(ok bool, message string) {
	if ok {
		_, _ = fmt.Fprintf(p.w, "%s %s\n", p.render(style.Success, style.Check), message)
		return
	}
	_, _ = fmt.Fprintf(p.w, "%s %s\n", p.render(style.Failure, style.Cross), message)
}

// Fonts prints the font catalog grouped by family in slot order.
func (p *Printer) Fonts(infos []domain.FontInfo) {
	var families []string
	byFamily := make(map[string][]int)
	for i, info := range infos {
		family := info.Family.String()
		if _, ok := byFamily[family]; !ok {
			families = append(families, family)
		}
		byFamily[family] = append(byFamily[family], i)
	}

	for _, family := range families {
		_, _ = fmt.Fprintln(p.w, p.render(style.Heading, family))
		for _, i := range byFamily[family] {
			info := infos[i]
			locator := info.Locator
			if info.Index > 0 {
				locator += "#" + strconv.Itoa(info.Index)
			}
			_, _ = fmt.Fprintf(p.w, "  %-12s %s\n", info.Style, p.render(style.Muted, locator))
		}
	}
	_, _ = fmt.Fprintf(p.w, "%d fonts in %d families\n", len(infos), len(families))
}
