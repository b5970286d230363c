package typeset

import (
	"path"
	"strconv"
	"strings"

	"go.trai.ch/nole/internal/core/domain"
	"go.trai.ch/nole/internal/core/ports"
)

var _ ports.Completer = (*Completer)(nil)

var imageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".webp": true, ".bmp": true, ".tif": true, ".tiff": true,
}

var syntaxSnippets = []domain.Completion{
	{Kind: domain.CompletionSyntax, Label: "heading", Apply: "= ${title}", Detail: "Starts a section."},
	{Kind: domain.CompletionSyntax, Label: "strong", Apply: "*${text}*", Detail: "Strong emphasis."},
	{Kind: domain.CompletionSyntax, Label: "emphasis", Apply: "_${text}_", Detail: "Emphasis."},
	{Kind: domain.CompletionSyntax, Label: "raw", Apply: "`${text}`", Detail: "Verbatim monospace text."},
	{Kind: domain.CompletionSyntax, Label: "comment", Apply: "// ${text}", Detail: "Ignored until the end of the line."},
}

// Completer implements ports.Completer for the nole markup.
type Completer struct{}

// NewCompleter creates a new Completer.
func NewCompleter() *Completer {
	return &Completer{}
}

// Complete returns suggestions for the byte offset cursor of src.
func (c *Completer) Complete(
	world ports.World,
	src *domain.Source,
	cursor int,
	explicit bool,
) (int, []domain.Completion, bool) {
	text := src.Text
	cursor = max(0, min(cursor, len(text)))
	lib := world.Library()

	if call := callAt(src.Root, cursor); call != nil {
		if def, ok := lib.Func(call.Name); ok {
			return c.inCall(world, src, call, def, cursor)
		}
	}

	start := identStart(text, cursor)
	if start > 0 && text[start-1] == '#' {
		items := funcs(lib, text[start:cursor], "")
		return start, items, len(items) > 0
	}

	if !explicit {
		return 0, nil, false
	}

	word := cursor
	for word > 0 && !strings.ContainsRune(" \t\n\r", rune(text[word-1])) {
		word--
	}
	prefix := text[word:cursor]
	var items []domain.Completion
	for _, s := range syntaxSnippets {
		if hasPrefixFold(s.Label, prefix) {
			items = append(items, s)
		}
	}
	items = append(items, funcs(lib, prefix, "#")...)
	return word, items, len(items) > 0
}

func (c *Completer) inCall(
	world ports.World,
	src *domain.Source,
	call *domain.Call,
	def *domain.FuncDef,
	cursor int,
) (int, []domain.Completion, bool) {
	text := src.Text

	n := 0
	for _, arg := range call.Args {
		var param domain.ParamDef
		if arg.Name == "" {
			param = positionalParam(def, n)
			n++
		} else {
			param, _ = def.Param(arg.Name)
		}
		if !insideString(text, arg.Value, cursor) {
			continue
		}

		offset := arg.Value.Span.Start + 1
		prefix := text[offset:cursor]
		var items []domain.Completion
		switch {
		case param.Name == "path":
			items = paths(world, src, call.Name == "image", prefix)
		case param.Name == "font":
			items = families(world, prefix, false)
		}
		return offset, items, len(items) > 0
	}

	start := identStart(text, cursor)
	before := strings.TrimRight(text[call.ArgsSpan.Start:start], " \t\r\n")

	if strings.HasSuffix(before, ":") {
		nameEnd := len(strings.TrimRight(before[:len(before)-1], " \t"))
		name := before[identStart(before, nameEnd):nameEnd]
		param, ok := def.Param(name)
		if !ok {
			return 0, nil, false
		}
		prefix := text[start:cursor]
		var items []domain.Completion
		for _, opt := range param.Options {
			if hasPrefixFold(opt, prefix) {
				items = append(items, domain.Completion{Kind: domain.CompletionConstant, Label: opt})
			}
		}
		if param.Name == "font" {
			items = append(items, families(world, prefix, true)...)
		}
		return start, items, len(items) > 0
	}

	if before == "(" || strings.HasSuffix(before, ",") {
		prefix := text[start:cursor]
		var items []domain.Completion
		for _, p := range def.Params {
			if p.Positional {
				continue
			}
			if _, used := call.Named(p.Name); used {
				continue
			}
			if hasPrefixFold(p.Name, prefix) {
				items = append(items, domain.Completion{
					Kind:   domain.CompletionParam,
					Label:  p.Name,
					Apply:  p.Name + ": ",
					Detail: p.Docs,
				})
			}
		}
		return start, items, len(items) > 0
	}

	return 0, nil, false
}

func funcs(lib *domain.Library, prefix, lead string) []domain.Completion {
	var items []domain.Completion
	for _, name := range lib.Names() {
		if !hasPrefixFold(name, prefix) {
			continue
		}
		def, _ := lib.Func(name)
		items = append(items, domain.Completion{
			Kind:   domain.CompletionFunc,
			Label:  name,
			Apply:  lead + def.Snippet,
			Detail: def.Docs,
		})
	}
	return items
}

// paths lists workspace files relative to the directory of src.
func paths(world ports.World, src *domain.Source, images bool, prefix string) []domain.Completion {
	dir := src.ID.Dir()
	var items []domain.Completion
	for _, id := range world.WorkspaceFiles() {
		if id == src.ID {
			continue
		}
		vpath := id.VPath()
		if imageExts[strings.ToLower(path.Ext(vpath))] != images {
			continue
		}

		label := vpath
		if rel, ok := strings.CutPrefix(vpath, strings.TrimSuffix(dir, "/")+"/"); ok {
			label = rel
		}
		if strings.HasPrefix(label, prefix) {
			items = append(items, domain.Completion{Kind: domain.CompletionPath, Label: label})
		}
	}
	return items
}

func families(world ports.World, prefix string, quote bool) []domain.Completion {
	var items []domain.Completion
	for _, family := range world.Book().Families() {
		if !hasPrefixFold(family, strings.TrimPrefix(prefix, `"`)) {
			continue
		}
		item := domain.Completion{Kind: domain.CompletionFont, Label: family}
		if quote {
			item.Apply = strconv.Quote(family)
		}
		items = append(items, item)
	}
	return items
}

func positionalParam(def *domain.FuncDef, n int) domain.ParamDef {
	for _, p := range def.Params {
		if !p.Positional {
			continue
		}
		if n == 0 {
			return p
		}
		n--
	}
	return domain.ParamDef{}
}

// insideString reports whether cursor lies after the opening quote of a string
// value and not after its closing quote.
func insideString(text string, v domain.Value, cursor int) bool {
	if v.Kind != domain.ValueString || cursor <= v.Span.Start {
		return false
	}
	raw := text[v.Span.Start:v.Span.End]
	closed := len(raw) >= 2 && strings.HasSuffix(raw, `"`)
	if closed {
		return cursor < v.Span.End
	}
	return cursor <= v.Span.End
}

// callAt finds the innermost call whose argument list contains offset.
func callAt(root *domain.Markup, offset int) *domain.Call {
	if root == nil {
		return nil
	}
	for i := range root.Blocks {
		b := &root.Blocks[i]
		if b.Call != nil && inArgs(b.Call, offset) {
			return b.Call
		}
		if c := callInInlines(b.Inlines, offset); c != nil {
			return c
		}
	}
	return nil
}

func callInInlines(inlines []domain.Inline, offset int) *domain.Call {
	for i := range inlines {
		in := &inlines[i]
		if in.Call != nil && inArgs(in.Call, offset) {
			return in.Call
		}
		if c := callInInlines(in.Children, offset); c != nil {
			return c
		}
	}
	return nil
}

func inArgs(c *domain.Call, offset int) bool {
	if c.ArgsSpan.Len() == 0 || offset <= c.ArgsSpan.Start {
		return false
	}
	if c.Closed {
		return offset < c.ArgsSpan.End
	}
	return offset <= c.ArgsSpan.End
}

// identStart returns the start of the identifier ending at offset.
func identStart(text string, offset int) int {
	start := offset
	for start > 0 && isIdentPart(rune(text[start-1])) {
		start--
	}
	for start < offset && !isIdentStart(rune(text[start])) {
		start++
	}
	return start
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
