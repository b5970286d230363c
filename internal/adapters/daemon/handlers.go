package daemon

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"

	"go.trai.ch/nole/internal/core/domain"
	"go.trai.ch/nole/internal/engine/engine"
	"go.trai.ch/zerr"
)

const maxBodyBytes = 32 << 20

func (s *Server) handleCompile(w http.ResponseWriter, r *http.Request) {
	var req CompileRequest
	if !s.decode(w, r, &req) {
		return
	}

	res, err := s.engine.Compile(r.Context(), req.Workspace, req.Path, req.Content)
	var compileErr *engine.CompileError
	switch {
	case errors.As(err, &compileErr):
		s.record("diagnostics", -1)
		s.writeJSON(w, http.StatusUnprocessableEntity, DiagnosticsResponse{Diagnostics: compileErr.Diagnostics})
	case err != nil:
		s.record("error", -1)
		s.writeError(w, err)
	default:
		s.record("ok", res.PageCount)
		s.writeJSON(w, http.StatusOK, res)
	}
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req RenderRequest
	if !s.decode(w, r, &req) {
		return
	}

	page, err := s.engine.Render(r.Context(), req.Page, req.Scale)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, RenderResponse{
		Image:       page.PNG,
		Width:       page.Width,
		Height:      page.Height,
		PixelWidth:  page.PixelWidth,
		PixelHeight: page.PixelHeight,
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req ExportRequest
	if !s.decode(w, r, &req) {
		return
	}

	if err := s.engine.Export(r.Context(), req.DocumentID, req.Destination); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAutocomplete(w http.ResponseWriter, r *http.Request) {
	var req AutocompleteRequest
	if !s.decode(w, r, &req) {
		return
	}

	res, err := s.engine.Autocomplete(r.Context(), req.Content, req.Cursor, req.Explicit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleReset(w http.ResponseWriter, _ *http.Request) {
	s.engine.Reset()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, StatusResponse{
		PID:           os.Getpid(),
		Listen:        s.listen,
		Uptime:        s.lifecycle.Uptime(),
		LastActivity:  s.lifecycle.LastActivity(),
		IdleRemaining: s.lifecycle.IdleRemaining(),
		Engine:        s.engine.Status(),
	})
}

func (s *Server) handleShutdown(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusAccepted)
	s.lifecycle.Shutdown()
}

func (s *Server) record(outcome string, pages int) {
	if s.metrics != nil {
		s.metrics.compiled(outcome, pages)
	}
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return false
	}
	return true
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotReady):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidScale),
		errors.Is(err, domain.ErrWorkspace),
		errors.Is(err, domain.ErrWorkspaceEscape):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error(err)
	}
	s.writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error(zerr.Wrap(err, "failed to write response"))
	}
}
