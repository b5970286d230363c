package typeset_test

import (
	"context"
	"maps"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.trai.ch/nole/internal/adapters/fonts"
	"go.trai.ch/nole/internal/adapters/fs"
	"go.trai.ch/nole/internal/adapters/typeset"
	"go.trai.ch/nole/internal/core/domain"
	"go.trai.ch/nole/internal/core/ports"
	"go.trai.ch/zerr"
)

var loadFonts = sync.OnceValues(func() ([]domain.FontInfo, error) {
	return fonts.NewSearcher(fs.NewWalker(), nil).Search(context.Background(), ports.FontSearchOptions{})
})

// memWorld serves sources from memory and the embedded fonts.
type memWorld struct {
	t      *testing.T
	parser *typeset.Parser
	files  map[string]string
	main   domain.FileID
	lib    *domain.Library
	book   *domain.FontBook
	fonts  []*domain.Font
	today  time.Time
}

func newWorld(t *testing.T, main string, files map[string]string) *memWorld {
	t.Helper()
	infos, err := loadFonts()
	require.NoError(t, err)

	loader := fonts.NewLoader()
	loaded := make([]*domain.Font, len(infos))
	for i, info := range infos {
		loaded[i], err = loader.Load(info)
		require.NoError(t, err)
	}

	return &memWorld{
		t:      t,
		parser: typeset.NewParser(),
		files:  files,
		main:   domain.NewFileID(main),
		lib:    typeset.NewLibrary(),
		book:   domain.NewFontBook(infos),
		fonts:  loaded,
		today:  time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC),
	}
}

func (w *memWorld) Font(index int) (*domain.Font, bool) {
	if index < 0 || index >= len(w.fonts) {
		return nil, false
	}
	return w.fonts[index], true
}

func (w *memWorld) Library() *domain.Library {
	return w.lib
}

func (w *memWorld) Book() *domain.FontBook {
	return w.book
}

func (w *memWorld) Main() domain.FileID {
	return w.main
}

func (w *memWorld) Today() time.Time {
	return w.today
}

func (w *memWorld) Source(id domain.FileID) (*domain.Source, error) {
	text, ok := w.files[id.VPath()]
	if !ok {
		return nil, zerr.With(zerr.Wrap(domain.ErrNotFound, "missing"), "path", id.VPath())
	}
	return w.parser.Parse(id, text), nil
}

func (w *memWorld) File(id domain.FileID) ([]byte, error) {
	text, ok := w.files[id.VPath()]
	if !ok {
		return nil, zerr.With(zerr.Wrap(domain.ErrNotFound, "missing"), "path", id.VPath())
	}
	return []byte(text), nil
}

func (w *memWorld) WorkspaceFiles() []domain.FileID {
	var out []domain.FileID
	for _, p := range slices.Sorted(maps.Keys(w.files)) {
		out = append(out, domain.NewFileID(p))
	}
	return out
}

// source parses the main file.
func (w *memWorld) source() *domain.Source {
	src, err := w.Source(w.main)
	require.NoError(w.t, err)
	return src
}
