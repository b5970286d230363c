// Package engine orchestrates compilation, rendering, export and completion
// for the single document currently being edited.
package engine

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.trai.ch/nole/internal/core/domain"
	"go.trai.ch/nole/internal/core/ports"
	"go.trai.ch/nole/internal/engine/resources"
	"go.trai.ch/nole/internal/engine/world"
	"go.trai.ch/zerr"
)

// Deps are the collaborators of an Engine.
type Deps struct {
	Core       *resources.Core
	FS         ports.FileSystem
	Parser     ports.Parser
	Compiler   ports.Compiler
	Completer  ports.Completer
	Rasterizer ports.Rasterizer
	Exporter   ports.DocumentExporter
	Tracer     ports.Tracer
	Logger     ports.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithStrict makes recovered internal faults re-panic instead of being
// reported as domain.ErrInternal.
func WithStrict(strict bool) Option {
	return func(e *Engine) {
		e.strict = strict
	}
}

// WithClock overrides the wall clock used for export timestamps and by the
// environments the engine creates.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		e.clock = clock
	}
}

// OnOpen registers fn to be called with the workspace root whenever a new
// environment is created. fn runs under the environment lock and must not
// block.
func OnOpen(fn func(root string)) Option {
	return func(e *Engine) {
		e.onOpen = fn
	}
}

// Engine owns the live compilation environment and the last good document.
//
// Lock order: envMu is never held while acquiring docMu.
type Engine struct {
	deps   Deps
	strict bool
	clock  func() time.Time
	onOpen func(root string)

	envMu sync.Mutex
	env   *world.Environment

	// seq counts compiles started under envMu.
	seq uint64

	docMu  sync.RWMutex
	doc    *domain.Document
	docSeq uint64
}

// New creates an engine with no environment and no document.
func New(deps Deps, opts ...Option) *Engine {
	e := &Engine{
		deps:  deps,
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CompileResult describes a successful compile.
type CompileResult struct {
	ChangedPages []int                     `json:"changedPageIndices"`
	PageCount    int                       `json:"pageCount"`
	PageWidth    float64                   `json:"pageWidthPt"`
	PageHeight   float64                   `json:"pageHeightPt"`
	Warnings     []domain.DiagnosticReport `json:"warnings,omitempty"`
}

// CompileError carries the diagnostics of a failed compile, anchored in the
// main file and measured in characters.
type CompileError struct {
	Diagnostics []domain.DiagnosticReport
}

// Error implements error.
func (e *CompileError) Error() string {
	errs := 0
	for _, d := range e.Diagnostics {
		if d.Severity == domain.SeverityError {
			errs++
		}
	}
	if errs == 1 {
		return fmt.Sprintf("%s: %s", domain.ErrCompileDiagnostics.Error(), e.firstError())
	}
	return fmt.Sprintf("%s: %d errors", domain.ErrCompileDiagnostics.Error(), errs)
}

// Unwrap makes errors.Is(err, domain.ErrCompileDiagnostics) hold.
func (e *CompileError) Unwrap() error {
	return domain.ErrCompileDiagnostics
}

func (e *CompileError) firstError() string {
	for _, d := range e.Diagnostics {
		if d.Severity == domain.SeverityError {
			return d.Message
		}
	}
	return ""
}

// RenderedPage is a rasterized page.
type RenderedPage struct {
	PNG         []byte
	Width       float64
	Height      float64
	PixelWidth  int
	PixelHeight int
}

// Compile makes text the content of the main file at mainPath inside
// workspace and compiles it. On failure the previous document stays servable.
func (e *Engine) Compile(ctx context.Context, workspace, mainPath, text string) (res *CompileResult, err error) {
	ctx, span := e.deps.Tracer.Start(ctx, "compile",
		ports.WithAttribute("workspace", workspace),
		ports.WithAttribute("path", mainPath),
	)
	defer span.End()
	defer e.recoverInternal("compile", &err)

	doc, seq, res, err := e.compileLocked(ctx, workspace, mainPath, text)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	e.storeDocument(seq, doc)

	span.SetAttribute("pages", res.PageCount)
	span.SetAttribute("changed", len(res.ChangedPages))
	return res, nil
}

// storeDocument publishes doc unless a later compile already published its
// own. Compiles run in envMu order but publish after releasing it.
func (e *Engine) storeDocument(seq uint64, doc *domain.Document) {
	e.docMu.Lock()
	defer e.docMu.Unlock()
	if seq <= e.docSeq {
		return
	}
	e.doc = doc
	e.docSeq = seq
}

func (e *Engine) compileLocked(
	ctx context.Context,
	workspace, mainPath, text string,
) (*domain.Document, uint64, *CompileResult, error) {
	e.envMu.Lock()
	defer e.envMu.Unlock()

	e.seq++
	seq := e.seq

	env, err := e.ensureEnv(workspace, mainPath)
	if err != nil {
		return nil, 0, nil, err
	}
	env.SetOverlay(env.Main(), text)

	doc, diags, err := e.deps.Compiler.Compile(ctx, env)
	if err != nil {
		return nil, 0, nil, err
	}

	reports := translate(env.Main(), text, diags)
	if doc == nil || diags.HasErrors() {
		return nil, 0, nil, &CompileError{Diagnostics: reports}
	}

	res := &CompileResult{
		ChangedPages: make([]int, 0, len(doc.Pages)),
		PageCount:    len(doc.Pages),
		Warnings:     reports,
	}
	for i := range doc.Pages {
		if !env.Exports().IsCached(i, &doc.Pages[i].Frame) {
			res.ChangedPages = append(res.ChangedPages, i)
		}
	}
	if len(doc.Pages) > 0 {
		res.PageWidth = doc.Pages[0].Width()
		res.PageHeight = doc.Pages[0].Height()
	}
	return doc, seq, res, nil
}

// ensureEnv returns the live environment, replacing it when the workspace or
// main path changed. Callers hold envMu.
func (e *Engine) ensureEnv(workspace, mainPath string) (*world.Environment, error) {
	if e.env != nil && e.sameMain(workspace, mainPath) {
		return e.env, nil
	}

	env, err := world.New(workspace, mainPath, e.deps.Core, e.deps.FS, e.deps.Parser, world.WithClock(e.clock))
	if err != nil {
		return nil, err
	}
	e.env = env
	e.deps.Logger.Info(fmt.Sprintf("opened %s", env.MainPath()))
	if e.onOpen != nil {
		e.onOpen(env.Root())
	}
	return env, nil
}

func (e *Engine) sameMain(workspace, mainPath string) bool {
	root, err := filepath.Abs(workspace)
	if err != nil || root != e.env.Root() {
		return false
	}
	if !filepath.IsAbs(mainPath) {
		mainPath = filepath.Join(root, mainPath)
	}
	return filepath.Clean(mainPath) == e.env.MainPath()
}

// translate keeps the diagnostics anchored in main and converts their byte
// spans into character ranges of text.
func translate(main domain.FileID, text string, diags domain.Diagnostics) []domain.DiagnosticReport {
	reports := make([]domain.DiagnosticReport, 0, len(diags))
	for _, d := range diags {
		if d.File != main {
			continue
		}
		hints := d.Hints
		if hints == nil {
			hints = []string{}
		}
		reports = append(reports, domain.DiagnosticReport{
			Range: domain.CharRange{
				domain.ByteToChar(text, d.Span.Start),
				domain.ByteToChar(text, d.Span.End),
			},
			Severity: d.Severity,
			Message:  d.Message,
			Hints:    hints,
		})
	}
	return reports
}

// Render rasterizes one page of the last compiled document at scale pixels
// per point.
func (e *Engine) Render(ctx context.Context, page int, scale float64) (rendered *RenderedPage, err error) {
	ctx, span := e.deps.Tracer.Start(ctx, "render", ports.WithAttribute("page", page))
	defer span.End()
	defer e.recoverInternal("render", &err)

	if scale <= 0 {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidScale, "render"), "scale", scale)
	}

	e.docMu.RLock()
	defer e.docMu.RUnlock()

	if e.doc == nil {
		return nil, zerr.Wrap(domain.ErrDocumentNotReady, "render")
	}
	if page < 0 || page >= len(e.doc.Pages) {
		return nil, zerr.With(zerr.With(zerr.Wrap(domain.ErrPageOutOfRange, "render"),
			"page", page), "pages", len(e.doc.Pages))
	}

	p := e.doc.Pages[page]
	raster, err := e.deps.Rasterizer.Rasterize(ctx, p, scale, e.deps.Core)
	if err != nil {
		span.RecordError(err)
		return nil, zerr.With(err, "page", page)
	}

	return &RenderedPage{
		PNG:         raster.PNG,
		Width:       p.Width(),
		Height:      p.Height(),
		PixelWidth:  raster.Width,
		PixelHeight: raster.Height,
	}, nil
}

// Export writes the last compiled document as PDF to destination, embedding
// id and the current UTC time.
func (e *Engine) Export(ctx context.Context, id, destination string) (err error) {
	ctx, span := e.deps.Tracer.Start(ctx, "export", ports.WithAttribute("destination", destination))
	defer span.End()
	defer e.recoverInternal("export", &err)

	if strings.TrimSpace(destination) == "" {
		return zerr.Wrap(domain.ErrNotFound, "empty export destination")
	}

	e.docMu.RLock()
	defer e.docMu.RUnlock()

	if e.doc == nil {
		return zerr.Wrap(domain.ErrDocumentNotReady, "export")
	}

	meta := ports.ExportMeta{ID: id, Timestamp: e.clock().UTC()}
	var buf bytes.Buffer
	if err = e.deps.Exporter.Export(ctx, e.doc, e.deps.Core, meta, &buf); err != nil {
		span.RecordError(err)
		return err
	}
	if err = e.deps.FS.WriteFile(destination, buf.Bytes()); err != nil {
		span.RecordError(err)
		return zerr.With(err, "destination", destination)
	}

	span.SetAttribute("bytes", buf.Len())
	return nil
}

// Reset drops every cached source, file and page hash of the live
// environment. The overlay and the last document are kept.
func (e *Engine) Reset() {
	e.envMu.Lock()
	defer e.envMu.Unlock()

	if e.env != nil {
		e.env.ResetCaches()
	}
}

// Autocomplete computes suggestions for text at cursor, both measured in
// characters. It requires a compile to have created the environment.
func (e *Engine) Autocomplete(
	ctx context.Context,
	text string,
	cursor int,
	explicit bool,
) (res *domain.Completions, err error) {
	_, span := e.deps.Tracer.Start(ctx, "autocomplete", ports.WithAttribute("cursor", cursor))
	defer span.End()
	defer e.recoverInternal("autocomplete", &err)

	e.envMu.Lock()
	defer e.envMu.Unlock()

	if e.env == nil {
		return nil, zerr.Wrap(domain.ErrEnvironmentNotReady, "autocomplete")
	}

	main := e.env.Main()
	e.env.SetOverlay(main, text)
	source, err := e.env.Source(main)
	if err != nil {
		return nil, err
	}

	at := domain.CharToByte(text, cursor)
	offset, items, ok := e.deps.Completer.Complete(e.env, source, at, explicit)
	if !ok {
		return &domain.Completions{Offset: domain.ByteToChar(text, at), Items: []domain.Completion{}}, nil
	}
	if items == nil {
		items = []domain.Completion{}
	}
	span.SetAttribute("suggestions", len(items))
	return &domain.Completions{Offset: domain.ByteToChar(text, offset), Items: items}, nil
}

// Invalidate forwards changed disk paths to the live environment.
func (e *Engine) Invalidate(paths []string) int {
	e.envMu.Lock()
	defer e.envMu.Unlock()

	if e.env == nil {
		return 0
	}
	return e.env.Invalidate(paths)
}

// Status is a point-in-time snapshot of the engine.
type Status struct {
	Workspace   string          `json:"workspace,omitempty"`
	MainPath    string          `json:"mainPath,omitempty"`
	HasDocument bool            `json:"hasDocument"`
	PageCount   int             `json:"pageCount"`
	Environment *world.Stats    `json:"environment,omitempty"`
	Fonts       resources.Stats `json:"fonts"`
}

// Status reports the engine state.
func (e *Engine) Status() Status {
	var s Status

	e.envMu.Lock()
	if e.env != nil {
		stats := e.env.Stats()
		s.Workspace = e.env.Root()
		s.MainPath = e.env.MainPath()
		s.Environment = &stats
	}
	e.envMu.Unlock()

	e.docMu.RLock()
	if e.doc != nil {
		s.HasDocument = true
		s.PageCount = len(e.doc.Pages)
	}
	e.docMu.RUnlock()

	if e.deps.Core != nil {
		s.Fonts = e.deps.Core.Stats()
	}
	return s
}

func (e *Engine) recoverInternal(op string, err *error) {
	r := recover()
	if r == nil {
		return
	}
	if e.strict {
		panic(r)
	}
	*err = zerr.With(zerr.Wrap(domain.ErrInternal, fmt.Sprint(r)), "operation", op)
	e.deps.Logger.Error(*err)
}
