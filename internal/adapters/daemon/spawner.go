package daemon

import (
	"context"
	"os"
	"os/exec"
	"syscall"
	"time"

	"go.trai.ch/nole/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	pollInterval    = 100 * time.Millisecond
	maxPollDuration = 5 * time.Second
)

// Spawner starts the compile server as a detached process.
type Spawner struct {
	executable string
	timeout    time.Duration
}

// NewSpawner creates a Spawner that re-executes the running binary.
func NewSpawner() (*Spawner, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to determine executable path")
	}
	return NewSpawnerFor(exe), nil
}

// NewSpawnerFor creates a Spawner for the given executable.
func NewSpawnerFor(executable string) *Spawner {
	return &Spawner{executable: executable, timeout: maxPollDuration}
}

// WithTimeout sets how long Spawn waits for the server to answer.
func (s *Spawner) WithTimeout(d time.Duration) *Spawner {
	s.timeout = d
	return s
}

// Spawn starts the executable with args in a new session, appending its
// output to logPath, and waits until a server answers on addr.
func (s *Spawner) Spawn(ctx context.Context, addr string, args []string, logPath string) error {
	if err := os.MkdirAll(parentDir(logPath), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create log directory"), "path", logPath)
	}
	//nolint:gosec // G304: logPath is derived from the listen address
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, domain.PrivateFilePerm)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to open server log"), "path", logPath)
	}

	//nolint:gosec // G204: executable is our own binary
	cmd := exec.Command(s.executable, args...)
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		_ = logFile.Close()
		return zerr.With(zerr.Wrap(domain.ErrDaemonSpawnFailed, err.Error()), "executable", s.executable)
	}

	go func() {
		_ = cmd.Wait()
		_ = logFile.Close()
	}()

	return s.waitForStartup(ctx, addr, logPath)
}

func (s *Spawner) waitForStartup(ctx context.Context, addr, logPath string) error {
	client := NewClient(addr)
	defer client.Close()

	deadline := time.Now().Add(s.timeout)
	for time.Now().Before(deadline) {
		statusCtx, cancel := context.WithTimeout(ctx, time.Second)
		_, err := client.Status(statusCtx)
		cancel()
		if err == nil {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pollInterval):
		}
	}
	return zerr.With(zerr.Wrap(domain.ErrDaemonSpawnFailed, "no answer within "+s.timeout.String()), "log", logPath)
}
