package commands_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/nole/cmd/nole/commands"
	"go.trai.ch/nole/internal/app"
	"go.trai.ch/nole/internal/build"
)

type mockApp struct {
	configured  int
	configFile  string
	flags       *pflag.FlagSet
	configErr   error
	serveFunc   func(ctx context.Context) error
	startArgs   []string
	compileFunc func(ctx context.Context, w io.Writer, path string, opts app.CompileOptions) error
	fontsFormat string
	statusCalls int
	stopCalls   int
}

func (m *mockApp) Configure(configFile string, flags *pflag.FlagSet) error {
	m.configured++
	m.configFile = configFile
	m.flags = flags
	return m.configErr
}

func (m *mockApp) Serve(ctx context.Context) error {
	if m.serveFunc != nil {
		return m.serveFunc(ctx)
	}
	return nil
}

func (m *mockApp) Start(_ context.Context, args []string) error {
	m.startArgs = args
	return nil
}

func (m *mockApp) Compile(ctx context.Context, w io.Writer, path string, opts app.CompileOptions) error {
	if m.compileFunc != nil {
		return m.compileFunc(ctx, w, path, opts)
	}
	return nil
}

func (m *mockApp) Fonts(_ context.Context, _ io.Writer, format string) error {
	m.fontsFormat = format
	return nil
}

func (m *mockApp) Status(_ context.Context, w io.Writer) error {
	m.statusCalls++
	_, _ = io.WriteString(w, "pid: 1\n")
	return nil
}

func (m *mockApp) Stop(_ context.Context) error {
	m.stopCalls++
	return nil
}

func TestCommands_Compile(t *testing.T) {
	t.Run("wires flags correctly", func(t *testing.T) {
		var (
			capturedPath string
			capturedOpts app.CompileOptions
		)
		mock := &mockApp{
			compileFunc: func(_ context.Context, _ io.Writer, path string, opts app.CompileOptions) error {
				capturedPath = path
				capturedOpts = opts
				return nil
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{
			"compile", "doc/main.txt",
			"-o", "out.png",
			"--workspace", "doc",
			"--format", "json",
			"--page", "2",
			"--scale", "2.5",
			"--id", "report",
		})

		err := cli.Execute(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "doc/main.txt", capturedPath)
		assert.Equal(t, app.CompileOptions{
			Workspace:  "doc",
			Output:     "out.png",
			Page:       2,
			Scale:      2.5,
			DocumentID: "report",
			Format:     "json",
		}, capturedOpts)
		assert.Equal(t, 1, mock.configured)
	})

	t.Run("defaults", func(t *testing.T) {
		var capturedOpts app.CompileOptions
		mock := &mockApp{
			compileFunc: func(_ context.Context, _ io.Writer, _ string, opts app.CompileOptions) error {
				capturedOpts = opts
				return nil
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"compile", "main.txt"})

		require.NoError(t, cli.Execute(context.Background()))
		assert.Equal(t, app.FormatText, capturedOpts.Format)
		assert.InDelta(t, 1.0, capturedOpts.Scale, 1e-9)
		assert.Empty(t, capturedOpts.Output)
	})

	t.Run("returns error on compile failure", func(t *testing.T) {
		mock := &mockApp{
			compileFunc: func(context.Context, io.Writer, string, app.CompileOptions) error {
				return errors.New("simulated error")
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"compile", "main.txt"})
		cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))

		err := cli.Execute(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "simulated error")
	})

	t.Run("requires a file", func(t *testing.T) {
		mock := &mockApp{}

		cli := commands.New(mock)
		cli.SetArgs([]string{"compile"})
		cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))

		require.Error(t, cli.Execute(context.Background()))
	})
}

func TestCommands_PersistentFlags(t *testing.T) {
	mock := &mockApp{}

	cli := commands.New(mock)
	cli.SetArgs([]string{"status", "-c", "custom.yaml", "--listen", "127.0.0.1:7777", "--idle-timeout", "5m", "--font-dir", "a", "--font-dir", "b"})
	cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))

	require.NoError(t, cli.Execute(context.Background()))
	assert.Equal(t, 1, mock.statusCalls)
	assert.Equal(t, "custom.yaml", mock.configFile)
	require.NotNil(t, mock.flags)

	listen := mock.flags.Lookup("listen")
	require.NotNil(t, listen)
	assert.True(t, listen.Changed)
	assert.Equal(t, "127.0.0.1:7777", listen.Value.String())

	timeout, err := mock.flags.GetDuration("idle-timeout")
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, timeout)

	dirs, err := mock.flags.GetStringSlice("font-dir")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, dirs)

	assert.False(t, mock.flags.Lookup("watch").Changed)
}

func TestCommands_ConfigError(t *testing.T) {
	mock := &mockApp{configErr: errors.New("bad config")}

	cli := commands.New(mock)
	cli.SetArgs([]string{"stop"})
	cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))

	err := cli.Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad config")
	assert.Equal(t, 0, mock.stopCalls)
}

func TestCommands_Serve(t *testing.T) {
	called := false
	mock := &mockApp{
		serveFunc: func(ctx context.Context) error {
			called = true
			assert.NotNil(t, ctx)
			return nil
		},
	}

	cli := commands.New(mock)
	cli.SetArgs([]string{"serve", "--watch"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.True(t, called)
	assert.True(t, mock.flags.Lookup("watch").Changed)
}

func TestCommands_ServeDetach(t *testing.T) {
	mock := &mockApp{
		serveFunc: func(context.Context) error {
			panic("should not be called")
		},
	}

	cli := commands.New(mock)
	cli.SetArgs([]string{"serve", "-d", "--watch", "--font-dir", "a", "--font-dir", "b", "-c", "n.yaml"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.ElementsMatch(t, []string{
		"serve",
		"--config=n.yaml",
		"--font-dir=a",
		"--font-dir=b",
		"--watch=true",
	}, mock.startArgs)
	assert.Equal(t, "serve", mock.startArgs[0])
}

func TestCommands_StatusAndStop(t *testing.T) {
	mock := &mockApp{}

	buf := new(bytes.Buffer)
	cli := commands.New(mock)
	cli.SetOutput(buf, buf)
	cli.SetArgs([]string{"status"})
	require.NoError(t, cli.Execute(context.Background()))
	assert.Equal(t, "pid: 1\n", buf.String())

	cli = commands.New(mock)
	cli.SetArgs([]string{"stop"})
	require.NoError(t, cli.Execute(context.Background()))
	assert.Equal(t, 1, mock.stopCalls)
}

func TestCommands_Fonts(t *testing.T) {
	mock := &mockApp{}

	cli := commands.New(mock)
	cli.SetArgs([]string{"fonts", "--format", "yaml"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.Equal(t, "yaml", mock.fontsFormat)
}

func TestCommands_Version(t *testing.T) {
	mock := &mockApp{}
	cli := commands.New(mock)

	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs([]string{"version"})

	err := cli.Execute(context.Background())
	require.NoError(t, err)

	assert.Contains(t, buf.String(), build.Version)
	assert.Equal(t, 0, mock.configured)
}
