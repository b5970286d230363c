package domain

// Markup is the syntax tree of one source file.
type Markup struct {
	Blocks []Block
}

// BlockKind enumerates top-level constructs.
type BlockKind uint8

const (
	// BlockParagraph is a run of inline content terminated by a blank line.
	BlockParagraph BlockKind = iota
	// BlockHeading is a line starting with one or more '='.
	BlockHeading
	// BlockCall is a function call standing on its own line.
	BlockCall
)

// Block is a top-level construct.
type Block struct {
	Kind    BlockKind
	Span    Span
	Level   int
	Inlines []Inline
	Call    *Call
}

// InlineKind enumerates inline constructs.
type InlineKind uint8

const (
	// InlineText is literal text.
	InlineText InlineKind = iota
	// InlineSpace is whitespace, including a single line break.
	InlineSpace
	// InlineStrong is *strong* content.
	InlineStrong
	// InlineEmph is _emphasized_ content.
	InlineEmph
	// InlineRaw is `raw` text.
	InlineRaw
	// InlineCall is a function call embedded in text.
	InlineCall
)

// Inline is a piece of inline content.
type Inline struct {
	Kind     InlineKind
	Span     Span
	Text     string
	Children []Inline
	Call     *Call
}

// Call is a "#name(args)" expression.
type Call struct {
	Name     string
	NameSpan Span
	Span     Span
	// ArgsSpan covers the parenthesis, or is empty when the call has none.
	ArgsSpan Span
	Args     []Arg
	Closed   bool
}

// Arg is a positional or named call argument.
type Arg struct {
	Name     string
	NameSpan Span
	Value    Value
	Span     Span
}

// Named returns the argument with the given name.
func (c *Call) Named(name string) (Arg, bool) {
	for _, a := range c.Args {
		if a.Name == name {
			return a, true
		}
	}
	return Arg{}, false
}

// Positional returns the i-th positional argument.
func (c *Call) Positional(i int) (Arg, bool) {
	n := 0
	for _, a := range c.Args {
		if a.Name != "" {
			continue
		}
		if n == i {
			return a, true
		}
		n++
	}
	return Arg{}, false
}

// ValueKind enumerates literal kinds.
type ValueKind uint8

const (
	// ValueNone marks a missing value.
	ValueNone ValueKind = iota
	// ValueString is a quoted string.
	ValueString
	// ValueNumber is a number with an optional unit suffix.
	ValueNumber
	// ValueIdent is a bare identifier such as auto or true.
	ValueIdent
)

// String implements fmt.Stringer.
func (k ValueKind) String() string {
	switch k {
	case ValueString:
		return "string"
	case ValueNumber:
		return "number"
	case ValueIdent:
		return "identifier"
	default:
		return "none"
	}
}

// Value is a literal argument value.
type Value struct {
	Kind ValueKind
	Span Span
	Str  string
	Num  float64
	Unit string
}
