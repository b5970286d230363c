package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/nole/internal/adapters/daemon"
	"go.trai.ch/nole/internal/adapters/fonts"
	"go.trai.ch/nole/internal/adapters/fs"
	"go.trai.ch/nole/internal/adapters/logger"
	"go.trai.ch/nole/internal/adapters/pdf"
	"go.trai.ch/nole/internal/adapters/raster"
	"go.trai.ch/nole/internal/adapters/typeset"
	"go.trai.ch/nole/internal/adapters/watcher"
	"go.trai.ch/nole/internal/app"
	"go.trai.ch/nole/internal/core/domain"
	"go.trai.ch/nole/internal/core/ports"
	"go.trai.ch/nole/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
	"gopkg.in/yaml.v3"
)

type logSettings struct {
	json, debug bool
}

func (l *logSettings) SetJSON(enable bool)  { l.json = enable }
func (l *logSettings) SetDebug(enable bool) { l.debug = enable }

type fakeSpawner struct {
	calls   int
	addr    string
	args    []string
	logPath string
}

func (f *fakeSpawner) Spawn(_ context.Context, addr string, args []string, logPath string) error {
	f.calls++
	f.addr, f.args, f.logPath = addr, args, logPath
	return nil
}

// newApp wires the real adapters and configures the app with cfg.
func newApp(t *testing.T, cfg *domain.Config) (*app.App, *logSettings) {
	t.Helper()
	return newAppWith(t, cfg, &fakeSpawner{})
}

func newAppWith(t *testing.T, cfg *domain.Config, spawner app.Spawner) (*app.App, *logSettings) {
	t.Helper()
	ctrl := gomock.NewController(t)

	log := logger.New()
	log.SetOutput(io.Discard)

	walker := fs.NewWalker()
	loader := mocks.NewMockConfigLoader(ctrl)
	loader.EXPECT().Load(gomock.Any(), gomock.Any()).Return(cfg, nil).AnyTimes()

	settings := &logSettings{}
	a := app.New(app.Deps{
		ConfigLoader: loader,
		Logger:       log,
		LogSettings:  settings,
		FS:           fs.NewFileSystem(walker),
		FontSearcher: fonts.NewSearcher(walker, log),
		FontLoader:   fonts.NewLoader(),
		Parser:       typeset.NewParser(),
		Compiler:     typeset.NewCompiler(),
		Completer:    typeset.NewCompleter(),
		Rasterizer:   raster.New(),
		Exporter:     pdf.New(),
		Watchers: func() (ports.Watcher, error) {
			return watcher.NewWatcher(walker, log)
		},
		Metrics: daemon.NewMetrics(),
		Spawner: spawner,
	})
	require.NoError(t, a.Configure("", nil))
	return a, settings
}

func testConfig(t *testing.T) *domain.Config {
	t.Helper()
	return &domain.Config{
		Listen:      filepath.Join(t.TempDir(), "nole.sock"),
		IdleTimeout: domain.DefaultIdleTimeout,
		Metrics:     true,
	}
}

func writeDoc(t *testing.T, text string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "main.txt")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o600))
	return path
}

func TestApp_Configure(t *testing.T) {
	cfg := testConfig(t)
	cfg.LogJSON = true
	cfg.Debug = true

	a, settings := newApp(t, cfg)

	assert.Same(t, cfg, a.Config())
	assert.True(t, settings.json)
	assert.True(t, settings.debug)
}

func TestApp_ConfigureError(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)
	loader.EXPECT().Load("missing.yaml", nil).Return(nil, domain.ErrConfigLoadFailed)

	a := app.New(app.Deps{ConfigLoader: loader})
	err := a.Configure("missing.yaml", nil)
	require.ErrorIs(t, err, domain.ErrConfigLoadFailed)
}

func TestApp_Compile_PDF(t *testing.T) {
	a, _ := newApp(t, testConfig(t))
	path := writeDoc(t, "= Title\n\nHello *world*.")
	out := filepath.Join(filepath.Dir(path), "out.pdf")

	var buf bytes.Buffer
	err := a.Compile(context.Background(), &buf, path, app.CompileOptions{
		Output: out,
		Format: app.FormatJSON,
	})
	require.NoError(t, err)

	var report struct {
		Output      string            `json:"output"`
		PageCount   int               `json:"pageCount"`
		Diagnostics []json.RawMessage `json:"diagnostics"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	assert.Equal(t, out, report.Output)
	assert.Equal(t, 1, report.PageCount)
	assert.Empty(t, report.Diagnostics)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestApp_Compile_DefaultOutput(t *testing.T) {
	a, _ := newApp(t, testConfig(t))
	path := writeDoc(t, "Hello")

	var buf bytes.Buffer
	require.NoError(t, a.Compile(context.Background(), &buf, path, app.CompileOptions{}))

	_, err := os.Stat(filepath.Join(filepath.Dir(path), "main.pdf"))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "main.pdf (1 pages)")
}

func TestApp_Compile_PNG(t *testing.T) {
	a, _ := newApp(t, testConfig(t))
	path := writeDoc(t, "Hello\n\n#pagebreak()\n\nWorld")
	out := filepath.Join(filepath.Dir(path), "page.png")

	var buf bytes.Buffer
	err := a.Compile(context.Background(), &buf, path, app.CompileOptions{
		Output: out,
		Page:   1,
		Scale:  0.5,
		Format: app.FormatYAML,
	})
	require.NoError(t, err)

	var report map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &report))
	assert.Equal(t, 2, report["pageCount"])

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
}

func TestApp_Compile_PageOutOfRange(t *testing.T) {
	a, _ := newApp(t, testConfig(t))
	path := writeDoc(t, "Hello")

	err := a.Compile(context.Background(), io.Discard, path, app.CompileOptions{
		Output: filepath.Join(filepath.Dir(path), "page.png"),
		Page:   3,
	})
	require.ErrorIs(t, err, domain.ErrPageOutOfRange)
}

func TestApp_Compile_Diagnostics(t *testing.T) {
	a, _ := newApp(t, testConfig(t))
	path := writeDoc(t, `#imgae("x.png")`)

	var buf bytes.Buffer
	err := a.Compile(context.Background(), &buf, path, app.CompileOptions{})
	require.ErrorIs(t, err, domain.ErrCompileDiagnostics)

	assert.Contains(t, buf.String(), "unknown function: imgae")
	assert.Contains(t, buf.String(), "compilation failed")

	_, statErr := os.Stat(filepath.Join(filepath.Dir(path), "main.pdf"))
	assert.True(t, errors.Is(statErr, os.ErrNotExist))
}

func TestApp_Compile_MissingFile(t *testing.T) {
	a, _ := newApp(t, testConfig(t))

	err := a.Compile(context.Background(), io.Discard, filepath.Join(t.TempDir(), "nope.txt"), app.CompileOptions{})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApp_Fonts(t *testing.T) {
	a, _ := newApp(t, testConfig(t))

	var buf bytes.Buffer
	require.NoError(t, a.Fonts(context.Background(), &buf, app.FormatJSON))

	var entries []struct {
		Family  string `json:"family"`
		Style   string `json:"style"`
		Locator string `json:"locator"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entries))
	require.NotEmpty(t, entries)
	assert.Equal(t, "Go", entries[0].Family)
	assert.Equal(t, fonts.EmbeddedPrefix+"go-regular", entries[0].Locator)

	buf.Reset()
	require.NoError(t, a.Fonts(context.Background(), &buf, app.FormatText))
	assert.Contains(t, buf.String(), "fonts in")
}

func TestApp_StatusAndStop_NotRunning(t *testing.T) {
	a, _ := newApp(t, testConfig(t))

	err := a.Status(context.Background(), io.Discard)
	require.ErrorIs(t, err, domain.ErrDaemonNotRunning)

	err = a.Stop(context.Background())
	require.ErrorIs(t, err, domain.ErrDaemonNotRunning)
}

func TestApp_Serve(t *testing.T) {
	cfg := testConfig(t)
	cfg.Watch = true
	a, _ := newApp(t, cfg)

	errCh := make(chan error, 1)
	go func() { errCh <- a.Serve(context.Background()) }()

	client := daemon.NewClient(cfg.Listen)
	defer client.Close()
	require.Eventually(t, func() bool {
		_, err := client.Status(context.Background())
		return err == nil
	}, 5*time.Second, 10*time.Millisecond)

	var buf bytes.Buffer
	require.NoError(t, a.Status(context.Background(), &buf))
	assert.Contains(t, buf.String(), "listen: "+cfg.Listen)

	require.NoError(t, a.Stop(context.Background()))

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}

	_, err := os.Stat(cfg.Listen)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestApp_Serve_ContextCancel(t *testing.T) {
	a, _ := newApp(t, testConfig(t))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- a.Serve(ctx) }()

	client := daemon.NewClient(a.Config().Listen)
	defer client.Close()
	require.Eventually(t, func() bool {
		_, err := client.Status(context.Background())
		return err == nil
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestApp_Start(t *testing.T) {
	cfg := testConfig(t)
	spawner := &fakeSpawner{}
	a, _ := newAppWith(t, cfg, spawner)

	args := []string{"serve", "--watch=true"}
	require.NoError(t, a.Start(context.Background(), args))

	assert.Equal(t, 1, spawner.calls)
	assert.Equal(t, cfg.Listen, spawner.addr)
	assert.Equal(t, args, spawner.args)
	assert.Equal(t, filepath.Join(filepath.Dir(cfg.Listen), domain.LogFileName), spawner.logPath)
}

func TestApp_Start_AlreadyRunning(t *testing.T) {
	cfg := testConfig(t)
	spawner := &fakeSpawner{}
	a, _ := newAppWith(t, cfg, spawner)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- a.Serve(ctx) }()
	defer func() {
		cancel()
		<-errCh
	}()

	client := daemon.NewClient(cfg.Listen)
	defer client.Close()
	require.Eventually(t, func() bool {
		_, err := client.Status(context.Background())
		return err == nil
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, a.Start(context.Background(), []string{"serve"}))
	assert.Equal(t, 0, spawner.calls)
}
