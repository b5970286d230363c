package fonts_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/nole/internal/adapters/fonts"
	"go.trai.ch/nole/internal/adapters/fs"
	"go.trai.ch/nole/internal/core/domain"
	"go.trai.ch/nole/internal/core/ports"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

func TestSearcher_Embedded(t *testing.T) {
	s := fonts.NewSearcher(fs.NewWalker(), nil)

	infos, err := s.Search(context.Background(), ports.FontSearchOptions{})
	require.NoError(t, err)
	require.Len(t, infos, 6)

	assert.Equal(t, fonts.EmbeddedPrefix+"go-regular", infos[0].Locator)
	assert.Equal(t, "Go", infos[0].Family.String())
	assert.Equal(t, "Go Mono", infos[4].Family.String())
	assert.Equal(t, domain.StyleRegular, infos[0].Style)
	assert.Equal(t, domain.StyleBold, infos[1].Style)
	assert.Equal(t, domain.StyleItalic, infos[2].Style)
	assert.Equal(t, domain.StyleBoldItalic, infos[3].Style)
	assert.Equal(t, infos[0].Family, infos[1].Family)
	assert.NotEqual(t, infos[0].Family, infos[4].Family, "mono is its own family")

	book := domain.NewFontBook(infos)
	idx, ok := book.Select(infos[0].Family.String(), domain.StyleBold)
	require.True(t, ok)
	assert.Equal(t, 1, idx)
}

func TestSearcher_Directories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "Custom-Bold.ttf"), gobold.TTF, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Custom.TTF"), goregular.TTF, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.otf"), []byte("not a font"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o600))

	s := fonts.NewSearcher(fs.NewWalker(), nil)
	infos, err := s.Search(context.Background(), ports.FontSearchOptions{
		Dirs: []string{dir, dir, filepath.Join(dir, "missing")},
	})
	require.NoError(t, err)
	require.Len(t, infos, 8, "duplicate directories are reported once")

	extra := infos[6:]
	assert.Equal(t, filepath.Join(dir, "Custom.TTF"), extra[0].Locator)
	assert.Equal(t, domain.StyleRegular, extra[0].Style)
	assert.Equal(t, filepath.Join(dir, "nested", "Custom-Bold.ttf"), extra[1].Locator)
	assert.Equal(t, domain.StyleBold, extra[1].Style)
}

func TestSearcher_Canceled(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.ttf"), goregular.TTF, 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fonts.NewSearcher(fs.NewWalker(), nil).Search(ctx, ports.FontSearchOptions{Dirs: []string{dir}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoader(t *testing.T) {
	l := fonts.NewLoader()

	f, err := l.Load(domain.FontInfo{Locator: fonts.EmbeddedPrefix + "go-regular"})
	require.NoError(t, err)
	assert.NotNil(t, f.SFNT)
	assert.Positive(t, f.SFNT.NumGlyphs())
	assert.Equal(t, goregular.TTF, f.Data)

	path := filepath.Join(t.TempDir(), "font.ttf")
	require.NoError(t, os.WriteFile(path, goregular.TTF, 0o600))
	f, err = l.Load(domain.FontInfo{Locator: path})
	require.NoError(t, err)
	assert.NotNil(t, f.SFNT)

	_, err = l.Load(domain.FontInfo{Locator: filepath.Join(t.TempDir(), "gone.ttf")})
	assert.True(t, errors.Is(err, domain.ErrFontUnavailable))

	_, err = l.Load(domain.FontInfo{Locator: path, Index: 3})
	assert.True(t, errors.Is(err, domain.ErrFontUnavailable))
}
