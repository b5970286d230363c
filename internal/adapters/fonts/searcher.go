// Package fonts discovers and loads fonts from the binary and the file system.
package fonts

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"go.trai.ch/nole/internal/adapters/fs"
	"go.trai.ch/nole/internal/core/domain"
	"go.trai.ch/nole/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/sync/errgroup"
)

var _ ports.FontSearcher = (*Searcher)(nil)

var fontExtensions = []string{".ttf", ".otf", ".ttc", ".otc"}

// Searcher enumerates the embedded fonts followed by fonts found in
// configured and system directories.
type Searcher struct {
	walker *fs.Walker
	logger ports.Logger
}

// NewSearcher creates a new Searcher.
func NewSearcher(walker *fs.Walker, logger ports.Logger) *Searcher {
	return &Searcher{walker: walker, logger: logger}
}

// Search returns metadata for every usable font. Directories are scanned
// concurrently; the result order is deterministic.
func (s *Searcher) Search(ctx context.Context, opts ports.FontSearchOptions) ([]domain.FontInfo, error) {
	infos := make([]domain.FontInfo, 0, len(embedded))
	for _, e := range embedded {
		described, err := describe(e.data, EmbeddedPrefix+e.name)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to parse embedded font"), "font", e.name)
		}
		infos = append(infos, described...)
	}

	dirs := slices.Clone(opts.Dirs)
	if opts.System {
		dirs = append(dirs, SystemDirs()...)
	}

	found := make([][]domain.FontInfo, len(dirs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, dir := range dirs {
		g.Go(func() error {
			infos, err := s.scanDir(ctx, dir)
			found[i] = infos
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	type face struct {
		locator string
		index   int
	}
	seen := make(map[face]struct{})
	for _, dirInfos := range found {
		for _, info := range dirInfos {
			key := face{info.Locator, info.Index}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			infos = append(infos, info)
		}
	}
	return infos, nil
}

func (s *Searcher) scanDir(ctx context.Context, dir string) ([]domain.FontInfo, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, nil
	}
	if info, err := os.Stat(abs); err != nil || !info.IsDir() {
		return nil, nil
	}

	var paths []string
	for path := range s.walker.WalkFiles(abs, nil) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if slices.Contains(fontExtensions, strings.ToLower(filepath.Ext(path))) {
			paths = append(paths, path)
		}
	}
	slices.Sort(paths)

	var infos []domain.FontInfo
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		described, err := describe(data, path)
		if err != nil {
			if s.logger != nil {
				s.logger.Debug("skipping unreadable font " + path)
			}
			continue
		}
		infos = append(infos, described...)
	}
	return infos, nil
}

// describe reads the family and style of every face in data.
func describe(data []byte, locator string) ([]domain.FontInfo, error) {
	coll, err := sfnt.ParseCollection(data)
	if err != nil {
		return nil, err
	}

	var buf sfnt.Buffer
	infos := make([]domain.FontInfo, 0, coll.NumFonts())
	for i := range coll.NumFonts() {
		f, err := coll.Font(i)
		if err != nil {
			return nil, err
		}
		family := name(f, &buf, sfnt.NameIDTypographicFamily, sfnt.NameIDFamily)
		if family == "" {
			continue
		}
		infos = append(infos, domain.FontInfo{
			Family:  domain.NewInternedString(family),
			Style:   domain.ParseFontStyle(name(f, &buf, sfnt.NameIDTypographicSubfamily, sfnt.NameIDSubfamily)),
			Locator: locator,
			Index:   i,
		})
	}
	return infos, nil
}

// name returns the first non-empty entry among ids.
func name(f *sfnt.Font, buf *sfnt.Buffer, ids ...sfnt.NameID) string {
	for _, id := range ids {
		if v, err := f.Name(buf, id); err == nil && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// SystemDirs returns the conventional font directories of the host OS.
func SystemDirs() []string {
	home, _ := os.UserHomeDir()

	switch runtime.GOOS {
	case "darwin":
		return []string{
			"/System/Library/Fonts",
			"/Library/Fonts",
			filepath.Join(home, "Library", "Fonts"),
		}
	case "windows":
		windir := os.Getenv("WINDIR")
		if windir == "" {
			windir = `C:\Windows`
		}
		return []string{
			filepath.Join(windir, "Fonts"),
			filepath.Join(os.Getenv("LOCALAPPDATA"), "Microsoft", "Windows", "Fonts"),
		}
	default:
		dirs := []string{"/usr/share/fonts", "/usr/local/share/fonts"}
		if home != "" {
			dirs = append(dirs,
				filepath.Join(home, ".local", "share", "fonts"),
				filepath.Join(home, ".fonts"),
			)
		}
		return dirs
	}
}
