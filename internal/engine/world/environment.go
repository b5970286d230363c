// Package world implements the compilation environment: the only channel
// through which a compiler reaches sources, binary files, fonts and the clock.
package world

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"go.trai.ch/nole/internal/core/domain"
	"go.trai.ch/nole/internal/core/ports"
	"go.trai.ch/nole/internal/engine/resources"
	"go.trai.ch/zerr"
)

var _ ports.World = (*Environment)(nil)

// maxWorkspaceFiles bounds the listing used for path completion.
const maxWorkspaceFiles = 2000

type sourceSlot struct {
	source *domain.Source
	err    error
}

type fileSlot struct {
	data []byte
	err  error
}

// Environment is the per-document compilation context. Cached answers stay
// stable until the overlay for that file changes or the caches are reset.
type Environment struct {
	root     string
	main     domain.FileID
	mainPath string

	core   *resources.Core
	fs     ports.FileSystem
	parser ports.Parser
	clock  func() time.Time

	mu      sync.RWMutex
	overlay map[domain.FileID]string
	sources map[domain.FileID]*sourceSlot
	files   map[domain.FileID]*fileSlot
	exports *ExportCache
}

// Option configures an Environment.
type Option func(*Environment)

// WithClock overrides the wall clock used by Today.
func WithClock(clock func() time.Time) Option {
	return func(e *Environment) {
		e.clock = clock
	}
}

// Stats summarizes cache occupancy.
type Stats struct {
	Sources     int `json:"sources"`
	Files       int `json:"files"`
	Overlays    int `json:"overlays"`
	ExportSlots int `json:"exportSlots"`
}

// New creates an environment rooted at root whose main file is mainPath.
// mainPath may be absolute or relative to root; it does not need to exist on
// disk because its content normally arrives through the overlay.
func New(
	root, mainPath string,
	core *resources.Core,
	fsys ports.FileSystem,
	parser ports.Parser,
	opts ...Option,
) (*Environment, error) {
	if root == "" {
		return nil, zerr.Wrap(domain.ErrWorkspace, "workspace root is empty")
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrWorkspace, err.Error()), "root", root)
	}
	if !fsys.IsDir(absRoot) {
		return nil, zerr.With(zerr.Wrap(domain.ErrWorkspace, "workspace root is not a directory"), "root", absRoot)
	}

	e := &Environment{
		root:    absRoot,
		core:    core,
		fs:      fsys,
		parser:  parser,
		clock:   time.Now,
		overlay: make(map[domain.FileID]string),
		sources: make(map[domain.FileID]*sourceSlot),
		files:   make(map[domain.FileID]*fileSlot),
		exports: NewExportCache(),
	}
	for _, opt := range opts {
		opt(e)
	}

	main, err := e.Resolve(mainPath)
	if err != nil {
		return nil, err
	}
	e.main = main
	e.mainPath = e.Path(main)

	return e, nil
}

// Root returns the absolute workspace root.
func (e *Environment) Root() string {
	return e.root
}

// Main returns the identifier of the main file, fixed at construction.
func (e *Environment) Main() domain.FileID {
	return e.main
}

// MainPath returns the absolute on-disk path of the main file.
func (e *Environment) MainPath() string {
	return e.mainPath
}

// Exports returns the page hash cache owned by this environment.
func (e *Environment) Exports() *ExportCache {
	return e.exports
}

// Resolve maps an absolute or root-relative path to an identifier.
func (e *Environment) Resolve(p string) (domain.FileID, error) {
	if strings.TrimSpace(p) == "" {
		return domain.FileID{}, zerr.Wrap(domain.ErrNotFound, "empty path")
	}

	abs := p
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(e.root, abs)
	}
	abs = filepath.Clean(abs)

	rel, err := filepath.Rel(e.root, abs)
	if err != nil {
		return domain.FileID{}, zerr.With(zerr.Wrap(domain.ErrNotFound, err.Error()), "path", p)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return domain.FileID{}, zerr.With(zerr.Wrap(domain.ErrWorkspaceEscape, "path is outside the workspace"), "path", p)
	}
	if rel == "." {
		return domain.FileID{}, zerr.With(zerr.Wrap(domain.ErrNotFound, "path names the workspace root"), "path", p)
	}

	return domain.NewFileID(filepath.ToSlash(rel)), nil
}

// Path returns the on-disk location of id.
func (e *Environment) Path(id domain.FileID) string {
	return filepath.Join(e.root, filepath.FromSlash(strings.TrimPrefix(id.VPath(), "/")))
}

// SetOverlay makes text the content of id. The cached parse is dropped only
// when the text actually changed.
func (e *Environment) SetOverlay(id domain.FileID, text string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if prev, ok := e.overlay[id]; ok && prev == text {
		return
	}
	e.overlay[id] = text
	delete(e.sources, id)
}

// Source returns the parsed source of id. Both successes and read failures are
// cached so that repeated queries in one pass observe the same answer.
func (e *Environment) Source(id domain.FileID) (*domain.Source, error) {
	e.mu.RLock()
	slot, ok := e.sources[id]
	text, overlaid := e.overlay[id]
	e.mu.RUnlock()
	if ok {
		return slot.source, slot.err
	}

	slot = &sourceSlot{}
	if !overlaid {
		text, slot.err = e.readText(id)
	}
	if slot.err == nil {
		slot.source = e.parser.Parse(id, text)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if existing, ok := e.sources[id]; ok {
		return existing.source, existing.err
	}
	if current, ok := e.overlay[id]; ok && (!overlaid || current != text) {
		// The overlay changed while parsing; the result is stale.
		return slot.source, slot.err
	}
	e.sources[id] = slot
	return slot.source, slot.err
}

// File returns the raw bytes of id from disk. Overlays never apply.
func (e *Environment) File(id domain.FileID) ([]byte, error) {
	e.mu.RLock()
	slot, ok := e.files[id]
	e.mu.RUnlock()
	if ok {
		return slot.data, slot.err
	}

	data, err := e.read(id)
	slot = &fileSlot{data: data, err: err}

	e.mu.Lock()
	defer e.mu.Unlock()
	if existing, ok := e.files[id]; ok {
		return existing.data, existing.err
	}
	e.files[id] = slot
	return slot.data, slot.err
}

// Library returns the shared function library.
func (e *Environment) Library() *domain.Library {
	return e.core.Library()
}

// Book returns the shared font catalog metadata.
func (e *Environment) Book() *domain.FontBook {
	return e.core.Book()
}

// Font returns a font by catalog index.
func (e *Environment) Font(index int) (*domain.Font, bool) {
	return e.core.Font(index)
}

// Today returns the current wall-clock time. It is read on every call.
func (e *Environment) Today() time.Time {
	return e.clock()
}

// WorkspaceFiles lists files below the root, used for path completion.
func (e *Environment) WorkspaceFiles() []domain.FileID {
	paths, err := e.fs.Walk(e.root, maxWorkspaceFiles)
	if err != nil {
		return nil
	}
	ids := make([]domain.FileID, 0, len(paths))
	for _, p := range paths {
		ids = append(ids, domain.NewFileID(p))
	}
	return ids
}

// ResetCaches drops parsed sources, file bytes and page hashes. The overlay is
// kept, so edited text survives and is reparsed on demand.
func (e *Environment) ResetCaches() {
	e.mu.Lock()
	clear(e.sources)
	clear(e.files)
	e.mu.Unlock()

	e.exports.Clear()
}

// Invalidate drops disk-backed cache entries for the given absolute paths and
// returns how many entries were evicted. Overlaid sources are left alone.
func (e *Environment) Invalidate(paths []string) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	evicted := 0
	for _, p := range paths {
		id, err := e.Resolve(p)
		if err != nil {
			continue
		}
		if _, ok := e.overlay[id]; !ok {
			if _, ok := e.sources[id]; ok {
				delete(e.sources, id)
				evicted++
			}
		}
		if _, ok := e.files[id]; ok {
			delete(e.files, id)
			evicted++
		}
	}
	return evicted
}

// Stats reports cache occupancy.
func (e *Environment) Stats() Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return Stats{
		Sources:     len(e.sources),
		Files:       len(e.files),
		Overlays:    len(e.overlay),
		ExportSlots: e.exports.Len(),
	}
}

func (e *Environment) read(id domain.FileID) ([]byte, error) {
	data, err := e.fs.ReadFile(e.Path(id))
	if err != nil {
		return nil, zerr.With(err, "file", id.VPath())
	}
	return data, nil
}

func (e *Environment) readText(id domain.FileID) (string, error) {
	data, err := e.read(id)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", zerr.With(zerr.Wrap(domain.ErrRead, "file is not valid utf-8"), "file", id.VPath())
	}
	return string(data), nil
}
