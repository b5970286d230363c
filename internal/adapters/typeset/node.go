package typeset

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/nole/internal/core/ports"
)

const (
	// ParserNodeID is the unique identifier for the markup parser Graft node.
	ParserNodeID graft.ID = "adapter.typeset.parser"
	// CompilerNodeID is the unique identifier for the compiler Graft node.
	CompilerNodeID graft.ID = "adapter.typeset.compiler"
	// CompleterNodeID is the unique identifier for the completer Graft node.
	CompleterNodeID graft.ID = "adapter.typeset.completer"
)

func init() {
	graft.Register(graft.Node[ports.Parser]{
		ID:        ParserNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Parser, error) {
			return NewParser(), nil
		},
	})

	graft.Register(graft.Node[ports.Compiler]{
		ID:        CompilerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Compiler, error) {
			return NewCompiler(), nil
		},
	})

	graft.Register(graft.Node[ports.Completer]{
		ID:        CompleterNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Completer, error) {
			return NewCompleter(), nil
		},
	})
}
