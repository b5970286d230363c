package daemon

import (
	"time"

	"go.trai.ch/nole/internal/core/domain"
	"go.trai.ch/nole/internal/engine/engine"
)

// CompileRequest is the body of POST /v1/compile.
type CompileRequest struct {
	Workspace string `json:"workspace"`
	Path      string `json:"path"`
	Content   string `json:"content"`
}

// DiagnosticsResponse is returned with 422 when a compile fails.
type DiagnosticsResponse struct {
	Diagnostics []domain.DiagnosticReport `json:"diagnostics"`
}

// RenderRequest is the body of POST /v1/render.
type RenderRequest struct {
	Page  int     `json:"page"`
	Scale float64 `json:"scale"`
}

// RenderResponse carries one rasterized page. encoding/json encodes the
// image bytes as base64.
type RenderResponse struct {
	Image       []byte  `json:"imageBytesBase64"`
	Width       float64 `json:"widthPt"`
	Height      float64 `json:"heightPt"`
	PixelWidth  int     `json:"widthPx"`
	PixelHeight int     `json:"heightPx"`
}

// ExportRequest is the body of POST /v1/export.
type ExportRequest struct {
	DocumentID  string `json:"documentId"`
	Destination string `json:"destinationPath"`
}

// AutocompleteRequest is the body of POST /v1/autocomplete.
type AutocompleteRequest struct {
	Content  string `json:"content"`
	Cursor   int    `json:"cursor"`
	Explicit bool   `json:"explicit"`
}

// StatusResponse is returned by GET /v1/status.
type StatusResponse struct {
	PID           int           `json:"pid"`
	Listen        string        `json:"listen"`
	Uptime        time.Duration `json:"uptimeNs"`
	LastActivity  time.Time     `json:"lastActivity"`
	IdleRemaining time.Duration `json:"idleRemainingNs"`
	Engine        engine.Status `json:"engine"`
}

// ErrorResponse is the body of every other failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}
