package typeset

import "go.trai.ch/nole/internal/core/domain"

// NewLibrary returns the functions available to every document.
func NewLibrary() *domain.Library {
	return domain.NewLibrary(
		domain.FuncDef{
			Name:    "import",
			Docs:    "Includes the content of another file, relative to the current one.",
			Snippet: `import("${path}")`,
			Params: []domain.ParamDef{
				{Name: "path", Positional: true, Kind: domain.ValueString, Docs: "Path of the file to include."},
			},
		},
		domain.FuncDef{
			Name:    "image",
			Docs:    "Places a raster image as its own block.",
			Snippet: `image("${path}")`,
			Params: []domain.ParamDef{
				{Name: "path", Positional: true, Kind: domain.ValueString, Docs: "Path of a png, jpeg, gif, webp, bmp or tiff file."},
				{Name: "width", Kind: domain.ValueNumber, Docs: "Display width. Defaults to the natural size, capped at the text width."},
			},
		},
		domain.FuncDef{
			Name:    "pagebreak",
			Docs:    "Starts a new page.",
			Snippet: "pagebreak()",
		},
		domain.FuncDef{
			Name:    "page",
			Docs:    "Configures the size and margins of the following pages.",
			Snippet: "page(${})",
			Params: []domain.ParamDef{
				{Name: "paper", Kind: domain.ValueIdent, Docs: "Named paper size.", Options: paperNames()},
				{Name: "width", Kind: domain.ValueNumber, Docs: "Page width."},
				{Name: "height", Kind: domain.ValueNumber, Docs: "Page height."},
				{Name: "margin", Kind: domain.ValueNumber, Docs: "Margin on all four sides."},
			},
		},
		domain.FuncDef{
			Name:    "text",
			Docs:    "Configures the font of the following text.",
			Snippet: "text(${})",
			Params: []domain.ParamDef{
				{Name: "size", Kind: domain.ValueNumber, Docs: "Font size."},
				{Name: "font", Kind: domain.ValueString, Docs: "Font family name."},
				{Name: "weight", Kind: domain.ValueIdent, Docs: "Font weight.", Options: []string{"regular", "bold"}},
				{Name: "style", Kind: domain.ValueIdent, Docs: "Font style.", Options: []string{"normal", "italic"}},
			},
		},
		domain.FuncDef{
			Name:    "today",
			Docs:    "Inserts the current date as YYYY-MM-DD.",
			Snippet: "today()",
		},
		domain.FuncDef{
			Name:    "line",
			Docs:    "Draws a horizontal rule.",
			Snippet: "line(${})",
			Params: []domain.ParamDef{
				{Name: "length", Kind: domain.ValueNumber, Docs: "Length of the rule. Defaults to the text width."},
				{Name: "stroke", Kind: domain.ValueNumber, Docs: "Thickness of the rule."},
			},
		},
		domain.FuncDef{
			Name:    "v",
			Docs:    "Inserts vertical space.",
			Snippet: "v(${amount})",
			Params: []domain.ParamDef{
				{Name: "amount", Positional: true, Kind: domain.ValueNumber, Docs: "Height of the space."},
			},
		},
	)
}
