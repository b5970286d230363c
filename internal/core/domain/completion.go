package domain

import "go.trai.ch/zerr"

// CompletionKind is the closed set of suggestion kinds.
type CompletionKind uint8

const (
	// CompletionSyntax is a markup snippet.
	CompletionSyntax CompletionKind = iota
	// CompletionFunc is a library function.
	CompletionFunc
	// CompletionParam is a named parameter of the enclosing call.
	CompletionParam
	// CompletionConstant is a literal value.
	CompletionConstant
	// CompletionPath is a workspace file path.
	CompletionPath
	// CompletionFont is a font family name.
	CompletionFont
)

var completionKindNames = [...]string{
	CompletionSyntax:   "syntax",
	CompletionFunc:     "func",
	CompletionParam:    "param",
	CompletionConstant: "constant",
	CompletionPath:     "path",
	CompletionFont:     "font",
}

// String implements fmt.Stringer.
func (k CompletionKind) String() string {
	if int(k) < len(completionKindNames) {
		return completionKindNames[k]
	}
	return "syntax"
}

// MarshalText implements encoding.TextMarshaler.
func (k CompletionKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *CompletionKind) UnmarshalText(text []byte) error {
	for i, name := range completionKindNames {
		if name == string(text) {
			*k = CompletionKind(i)
			return nil
		}
	}
	return zerr.With(zerr.New("unknown completion kind"), "kind", string(text))
}

// Completion is one suggestion.
type Completion struct {
	Kind   CompletionKind `json:"kind"`
	Label  string         `json:"label"`
	Apply  string         `json:"insertText,omitempty"`
	Detail string         `json:"detail,omitempty"`
}

// Completions is the answer to an autocomplete request. Offset is where the
// suggestions replace text; its unit depends on the layer returning it.
type Completions struct {
	Offset int          `json:"insertionCharOffset"`
	Items  []Completion `json:"suggestions"`
}
