package domain

import "sort"

// ParamDef describes a function parameter.
type ParamDef struct {
	Name       string
	Positional bool
	Kind       ValueKind
	Docs       string
	// Options lists the accepted identifiers for ValueIdent parameters.
	Options []string
}

// FuncDef describes a library function callable as "#name(...)".
type FuncDef struct {
	Name    string
	Docs    string
	Params  []ParamDef
	Snippet string
}

// Param returns the named parameter definition.
func (f *FuncDef) Param(name string) (ParamDef, bool) {
	for _, p := range f.Params {
		if p.Name == name {
			return p, true
		}
	}
	return ParamDef{}, false
}

// Library is the immutable set of functions available to documents.
type Library struct {
	funcs map[string]*FuncDef
	names []string
}

// NewLibrary builds a library from the given definitions.
func NewLibrary(defs ...FuncDef) *Library {
	lib := &Library{funcs: make(map[string]*FuncDef, len(defs))}
	for i := range defs {
		def := defs[i]
		lib.funcs[def.Name] = &def
		lib.names = append(lib.names, def.Name)
	}
	sort.Strings(lib.names)
	return lib
}

// Func looks up a function by name.
func (l *Library) Func(name string) (*FuncDef, bool) {
	f, ok := l.funcs[name]
	return f, ok
}

// Names returns all function names in lexical order.
func (l *Library) Names() []string {
	out := make([]string, len(l.names))
	copy(out, l.names)
	return out
}

// Len returns the number of functions.
func (l *Library) Len() int {
	return len(l.names)
}
