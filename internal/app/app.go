// Package app implements the application layer for nole.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/spf13/pflag"
	"go.trai.ch/nole/internal/adapters/config"
	"go.trai.ch/nole/internal/adapters/daemon"
	"go.trai.ch/nole/internal/adapters/telemetry"
	"go.trai.ch/nole/internal/adapters/typeset"
	"go.trai.ch/nole/internal/adapters/watcher"
	"go.trai.ch/nole/internal/core/domain"
	"go.trai.ch/nole/internal/core/ports"
	"go.trai.ch/nole/internal/engine/engine"
	"go.trai.ch/nole/internal/engine/resources"
	"go.trai.ch/nole/internal/ui/output"
	"go.trai.ch/nole/internal/ui/report"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// LogSettings is the part of the logger the CLI reconfigures after loading
// the configuration.
type LogSettings interface {
	SetJSON(enable bool)
	SetDebug(enable bool)
}

// Spawner starts a compile server in the background.
type Spawner interface {
	Spawn(ctx context.Context, addr string, args []string, logPath string) error
}

// Deps are the collaborators of an App.
type Deps struct {
	ConfigLoader ports.ConfigLoader
	Logger       ports.Logger
	LogSettings  LogSettings
	FS           ports.FileSystem
	FontSearcher ports.FontSearcher
	FontLoader   ports.FontLoader
	Parser       ports.Parser
	Compiler     ports.Compiler
	Completer    ports.Completer
	Rasterizer   ports.Rasterizer
	Exporter     ports.DocumentExporter
	Watchers     watcher.Factory
	Metrics      *daemon.Metrics
	Spawner      Spawner
}

// App represents the main application logic.
type App struct {
	deps Deps
	cfg  *domain.Config
}

// Components bundles the wired objects the CLI needs.
type Components struct {
	App    *App
	Logger ports.Logger
}

// New creates a new App instance.
func New(deps Deps) *App {
	return &App{deps: deps}
}

// Configure loads the configuration and applies the logging settings.
func (a *App) Configure(configFile string, flags *pflag.FlagSet) error {
	cfg, err := a.deps.ConfigLoader.Load(configFile, flags)
	if err != nil {
		return err
	}
	a.cfg = cfg
	if a.deps.LogSettings != nil {
		a.deps.LogSettings.SetJSON(cfg.LogJSON)
		a.deps.LogSettings.SetDebug(cfg.Debug)
	}
	return nil
}

// Config returns the loaded configuration, or the defaults when Configure was
// never called.
func (a *App) Config() *domain.Config {
	if a.cfg == nil {
		if cfg, err := config.NewLoader(nil).Load("", nil); err == nil {
			a.cfg = cfg
		} else {
			a.cfg = &domain.Config{Listen: domain.DefaultSocketPath(), SystemFonts: true}
		}
	}
	return a.cfg
}

// newEngine discovers the fonts and builds an engine over them. The returned
// function flushes tracing.
func (a *App) newEngine(ctx context.Context, opts ...engine.Option) (*engine.Engine, func(context.Context) error, error) {
	cfg := a.Config()
	infos, err := a.deps.FontSearcher.Search(ctx, ports.FontSearchOptions{
		Dirs:   cfg.FontDirs,
		System: cfg.SystemFonts,
	})
	if err != nil {
		return nil, nil, zerr.Wrap(err, "font discovery failed")
	}
	a.deps.Logger.Debug(fmt.Sprintf("discovered %d fonts", len(infos)))

	shutdown := telemetry.Setup(telemetry.NewLogBridge(a.deps.Logger))
	core := resources.New(typeset.NewLibrary(), infos, a.deps.FontLoader, a.deps.Logger)

	opts = append([]engine.Option{engine.WithStrict(cfg.Strict)}, opts...)
	eng := engine.New(engine.Deps{
		Core:       core,
		FS:         a.deps.FS,
		Parser:     a.deps.Parser,
		Compiler:   a.deps.Compiler,
		Completer:  a.deps.Completer,
		Rasterizer: a.deps.Rasterizer,
		Exporter:   a.deps.Exporter,
		Tracer:     telemetry.NewOTelTracer("nole"),
		Logger:     a.deps.Logger,
	}, opts...)
	return eng, shutdown, nil
}

// Serve runs the compile server until it is stopped, idles out or ctx ends.
func (a *App) Serve(ctx context.Context) error {
	cfg := a.Config()

	roots := make(chan string, 1)
	var opts []engine.Option
	if cfg.Watch {
		opts = append(opts, engine.OnOpen(func(root string) {
			// Only the latest workspace matters; replace a pending one.
			select {
			case <-roots:
			default:
			}
			roots <- root
		}))
	}

	eng, shutdown, err := a.newEngine(ctx, opts...)
	if err != nil {
		return err
	}
	defer func() { _ = shutdown(context.WithoutCancel(ctx)) }()

	var serverOpts []daemon.Option
	if cfg.Metrics && a.deps.Metrics != nil {
		serverOpts = append(serverOpts, daemon.WithMetrics(a.deps.Metrics))
	}
	if pidFile := daemon.PIDFileFor(cfg.Listen); pidFile != "" {
		serverOpts = append(serverOpts, daemon.WithPIDFile(pidFile))
	}
	srv := daemon.NewServer(eng, daemon.NewLifecycle(cfg.IdleTimeout), a.deps.Logger, serverOpts...)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return srv.Serve(gctx, cfg.Listen)
	})
	if cfg.Watch {
		g.Go(func() error {
			a.watch(gctx, roots, eng)
			return nil
		})
	}
	return g.Wait()
}

// Start runs the compile server in the background with the given serve
// arguments. It does nothing when a server already answers.
func (a *App) Start(ctx context.Context, args []string) error {
	cfg := a.Config()

	client := daemon.NewClient(cfg.Listen)
	defer client.Close()
	if status, err := client.Status(ctx); err == nil {
		a.deps.Logger.Info(fmt.Sprintf("compile server already running (pid %d)", status.PID))
		return nil
	}

	logPath := daemon.LogFileFor(cfg.Listen)
	if err := a.deps.Spawner.Spawn(ctx, cfg.Listen, args, logPath); err != nil {
		return err
	}
	a.deps.Logger.Info("compile server started on " + cfg.Listen)
	return nil
}

// watch follows the workspace of the live environment and forwards changes
// below it to the engine. Watch failures are logged, never fatal.
func (a *App) watch(ctx context.Context, roots <-chan string, eng *engine.Engine) {
	debouncer := watcher.NewDebouncer(domain.DefaultWatchDebounce, func(paths []string) {
		if n := eng.Invalidate(paths); n > 0 {
			a.deps.Logger.Debug(fmt.Sprintf("invalidated %d cached files", n))
		}
	})

	var current ports.Watcher
	stop := func() {
		if current != nil {
			_ = current.Stop()
			current = nil
		}
	}
	defer stop()

	for {
		select {
		case <-ctx.Done():
			debouncer.Flush()
			return
		case root := <-roots:
			stop()
			w, err := a.deps.Watchers()
			if err != nil {
				a.deps.Logger.Error(err)
				continue
			}
			if err := w.Start(ctx, root); err != nil {
				_ = w.Stop()
				a.deps.Logger.Error(zerr.With(err, "workspace", root))
				continue
			}
			current = w
			go watcher.Forward(w, debouncer)
			a.deps.Logger.Debug("watching " + root)
		}
	}
}

// Output formats of the compile command.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// CompileOptions configure a one-shot compile.
type CompileOptions struct {
	// Workspace defaults to the directory of the main file.
	Workspace string
	// Output is a .pdf or .png path. It defaults to the main file with a .pdf
	// extension.
	Output string
	// Page selects the page written to a .png output.
	Page int
	// Scale is the number of pixels per point for a .png output.
	Scale float64
	// DocumentID is embedded into the PDF. It defaults to a hash of the main
	// file path.
	DocumentID string
	Format     string
}

// compileReport is the machine readable result of a one-shot compile.
type compileReport struct {
	Output      string                    `json:"output,omitempty"  yaml:"output,omitempty"`
	PageCount   int                       `json:"pageCount"         yaml:"pageCount"`
	Diagnostics []domain.DiagnosticReport `json:"diagnostics"       yaml:"diagnostics"`
}

// Compile compiles the file at path once and writes it as PDF or PNG.
// Diagnostics are printed to w; a failed compile returns an error matching
// domain.ErrCompileDiagnostics.
func (a *App) Compile(ctx context.Context, w io.Writer, path string, opts CompileOptions) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "invalid path"), "path", path)
	}
	data, err := a.deps.FS.ReadFile(abs)
	if err != nil {
		return err
	}
	text := string(data)

	if opts.Workspace == "" {
		opts.Workspace = filepath.Dir(abs)
	}
	if opts.Output == "" {
		opts.Output = strings.TrimSuffix(abs, filepath.Ext(abs)) + ".pdf"
	}
	if opts.DocumentID == "" {
		opts.DocumentID = fmt.Sprintf("nole-%016x", xxhash.Sum64String(abs))
	}
	if opts.Scale == 0 {
		opts.Scale = 1
	}

	eng, shutdown, err := a.newEngine(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = shutdown(context.WithoutCancel(ctx)) }()

	res, err := eng.Compile(ctx, opts.Workspace, abs, text)
	var compileErr *engine.CompileError
	if errors.As(err, &compileErr) {
		if printErr := a.printCompile(w, path, text, opts, compileReport{Diagnostics: compileErr.Diagnostics}); printErr != nil {
			return printErr
		}
		return err
	}
	if err != nil {
		return err
	}

	if err := a.write(ctx, eng, opts); err != nil {
		return err
	}

	return a.printCompile(w, path, text, opts, compileReport{
		Output:      opts.Output,
		PageCount:   res.PageCount,
		Diagnostics: res.Warnings,
	})
}

func (a *App) write(ctx context.Context, eng *engine.Engine, opts CompileOptions) error {
	if !strings.EqualFold(filepath.Ext(opts.Output), ".png") {
		return eng.Export(ctx, opts.DocumentID, opts.Output)
	}
	page, err := eng.Render(ctx, opts.Page, opts.Scale)
	if err != nil {
		return err
	}
	if err := a.deps.FS.WriteFile(opts.Output, page.PNG); err != nil {
		return zerr.With(err, "destination", opts.Output)
	}
	return nil
}

func (a *App) printCompile(w io.Writer, path, text string, opts CompileOptions, r compileReport) error {
	if r.Diagnostics == nil {
		r.Diagnostics = []domain.DiagnosticReport{}
	}
	switch opts.Format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		defer func() { _ = enc.Close() }()
		return enc.Encode(r)
	default:
		p := report.New(w, output.ProfileFor(w))
		p.Diagnostics(path, text, r.Diagnostics)
		if r.Output == "" {
			p.Summary(false, "compilation failed")
			return nil
		}
		p.Summary(true, fmt.Sprintf("wrote %s (%d pages)", r.Output, r.PageCount))
		return nil
	}
}

// Fonts lists the fonts available to documents.
func (a *App) Fonts(ctx context.Context, w io.Writer, format string) error {
	cfg := a.Config()
	infos, err := a.deps.FontSearcher.Search(ctx, ports.FontSearchOptions{
		Dirs:   cfg.FontDirs,
		System: cfg.SystemFonts,
	})
	if err != nil {
		return zerr.Wrap(err, "font discovery failed")
	}

	type fontEntry struct {
		Family  string `json:"family"          yaml:"family"`
		Style   string `json:"style"           yaml:"style"`
		Locator string `json:"locator"         yaml:"locator"`
		Index   int    `json:"index,omitempty" yaml:"index,omitempty"`
	}
	entries := make([]fontEntry, len(infos))
	for i, info := range infos {
		entries[i] = fontEntry{
			Family:  info.Family.String(),
			Style:   info.Style.String(),
			Locator: info.Locator,
			Index:   info.Index,
		}
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		defer func() { _ = enc.Close() }()
		return enc.Encode(entries)
	default:
		report.New(w, output.ProfileFor(w)).Fonts(infos)
		return nil
	}
}

// Status prints the state of the running compile server.
func (a *App) Status(ctx context.Context, w io.Writer) error {
	client := daemon.NewClient(a.Config().Listen)
	defer client.Close()

	status, err := client.Status(ctx)
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(w)
	defer func() { _ = enc.Close() }()
	return enc.Encode(map[string]any{
		"pid":           status.PID,
		"listen":        status.Listen,
		"uptime":        status.Uptime.Round(1e9).String(),
		"idleRemaining": status.IdleRemaining.Round(1e9).String(),
		"workspace":     status.Engine.Workspace,
		"main":          status.Engine.MainPath,
		"pages":         status.Engine.PageCount,
		"fonts":         status.Engine.Fonts,
	})
}

// Stop asks the running compile server to shut down.
func (a *App) Stop(ctx context.Context) error {
	client := daemon.NewClient(a.Config().Listen)
	defer client.Close()

	if err := client.Shutdown(ctx); err != nil {
		return err
	}
	a.deps.Logger.Info("compile server stopped")
	return nil
}
