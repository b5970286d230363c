package ports

import (
	"context"
	"time"

	"go.trai.ch/nole/internal/core/domain"
)

//go:generate mockgen -source=compiler.go -destination=mocks/mock_compiler.go -package=mocks

// FontProvider gives access to loaded fonts by catalog index.
type FontProvider interface {
	Font(index int) (*domain.Font, bool)
}

// World is the query surface a compiler uses to reach everything outside of
// itself. Answers are stable for the duration of one compilation pass.
type World interface {
	FontProvider
	Library() *domain.Library
	Book() *domain.FontBook
	Main() domain.FileID
	Source(id domain.FileID) (*domain.Source, error)
	File(id domain.FileID) ([]byte, error)
	WorkspaceFiles() []domain.FileID
	Today() time.Time
}

// Parser turns text into a syntax tree. Parsing never fails; malformed input
// is reported through domain.Source.Errors.
type Parser interface {
	Parse(id domain.FileID, text string) *domain.Source
}

// Compiler turns a world into a document. Recoverable problems are returned as
// diagnostics with a nil document; the error is reserved for hard failures
// such as unreadable files.
type Compiler interface {
	Compile(ctx context.Context, world World) (*domain.Document, domain.Diagnostics, error)
}

// Completer computes suggestions at a byte offset of a source. It returns the
// byte offset the suggestions replace from, or ok=false when nothing applies.
type Completer interface {
	Complete(world World, source *domain.Source, cursor int, explicit bool) (offset int, items []domain.Completion, ok bool)
}
