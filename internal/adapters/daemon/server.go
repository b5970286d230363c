// Package daemon serves the engine over HTTP on a unix socket or TCP address
// and provides the client used by the CLI to reach it.
package daemon

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.trai.ch/nole/internal/core/domain"
	"go.trai.ch/nole/internal/core/ports"
	"go.trai.ch/nole/internal/engine/engine"
	"go.trai.ch/zerr"
)

const shutdownGrace = 5 * time.Second

// Engine is the part of *engine.Engine the server exposes.
type Engine interface {
	Compile(ctx context.Context, workspace, mainPath, text string) (*engine.CompileResult, error)
	Render(ctx context.Context, page int, scale float64) (*engine.RenderedPage, error)
	Export(ctx context.Context, id, destination string) error
	Reset()
	Autocomplete(ctx context.Context, text string, cursor int, explicit bool) (*domain.Completions, error)
	Status() engine.Status
}

var _ Engine = (*engine.Engine)(nil)

// Option configures a Server.
type Option func(*Server)

// WithMetrics exposes m on GET /metrics and records request metrics.
func WithMetrics(m *Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithPIDFile makes Serve write the process id to path and remove it on exit.
func WithPIDFile(path string) Option {
	return func(s *Server) {
		s.pidFile = path
	}
}

// Server is the HTTP front end of the engine.
type Server struct {
	engine    Engine
	lifecycle *Lifecycle
	logger    ports.Logger
	metrics   *Metrics
	pidFile   string
	listen    string
	router    chi.Router
}

// NewServer creates a server for eng. The lifecycle is touched on every
// request and ends Serve once it shuts down.
func NewServer(eng Engine, lifecycle *Lifecycle, logger ports.Logger, opts ...Option) *Server {
	s := &Server{
		engine:    eng,
		lifecycle: lifecycle,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	if s.metrics != nil {
		r.Use(s.metrics.middleware)
	}
	r.Use(s.touch)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/compile", s.handleCompile)
		r.Post("/render", s.handleRender)
		r.Post("/export", s.handleExport)
		r.Post("/autocomplete", s.handleAutocomplete)
		r.Post("/reset", s.handleReset)
		r.Get("/status", s.handleStatus)
		r.Post("/shutdown", s.handleShutdown)
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}
	return r
}

func (s *Server) touch(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.lifecycle.Touch()
		next.ServeHTTP(w, r)
	})
}

// Serve listens on addr and serves until ctx is done or the lifecycle shuts
// down. The socket and pid file are removed on return.
func (s *Server) Serve(ctx context.Context, addr string) error {
	lis, err := Listen(addr)
	if err != nil {
		return err
	}
	s.listen = addr
	defer cleanupSocket(addr)

	if s.pidFile != "" {
		if err := writePIDFile(s.pidFile); err != nil {
			_ = lis.Close()
			return err
		}
		defer func() { _ = os.Remove(s.pidFile) }()
	}

	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(lis)
	}()
	s.logger.Info("listening on " + addr)

	select {
	case <-ctx.Done():
	case <-s.lifecycle.Done():
		s.logger.Info("shutting down")
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return zerr.Wrap(err, "server failed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return zerr.Wrap(err, "failed to shut down server")
	}
	return nil
}

func writePIDFile(path string) error {
	if err := os.MkdirAll(parentDir(path), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create state directory"), "path", path)
	}
	if err := os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), domain.PrivateFilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write pid file"), "path", path)
	}
	return nil
}
