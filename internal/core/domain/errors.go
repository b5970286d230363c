package domain

import "go.trai.ch/zerr"

var (
	// ErrWorkspace is returned when the workspace root is missing or not a directory.
	ErrWorkspace = zerr.New("invalid workspace root")

	// ErrWorkspaceEscape is returned when a path resolves outside the workspace root.
	ErrWorkspaceEscape = zerr.New("path escapes workspace root")

	// ErrNotFound is returned when a path cannot be resolved to a file.
	ErrNotFound = zerr.New("file not found")

	// ErrRead is returned when a file exists but cannot be read.
	ErrRead = zerr.New("failed to read file")

	// ErrCompileDiagnostics is returned when compilation produced error diagnostics.
	ErrCompileDiagnostics = zerr.New("compilation failed")

	// ErrNotReady is returned when an operation needs state that does not exist yet.
	ErrNotReady = zerr.New("not ready")

	// ErrDocumentNotReady is returned when no document has been compiled yet.
	ErrDocumentNotReady = zerr.Wrap(ErrNotReady, "no compiled document")

	// ErrEnvironmentNotReady is returned when no compilation environment exists yet.
	ErrEnvironmentNotReady = zerr.Wrap(ErrNotReady, "no compilation environment")

	// ErrPageOutOfRange is returned when a page index is outside the compiled document.
	ErrPageOutOfRange = zerr.Wrap(ErrNotReady, "page index out of range")

	// ErrEncoding is returned when a raster or document encoder fails.
	ErrEncoding = zerr.New("failed to encode output")

	// ErrInternal is returned when an unexpected fault was recovered.
	ErrInternal = zerr.New("internal error")

	// ErrInvalidScale is returned when a render scale is not positive.
	ErrInvalidScale = zerr.New("render scale must be positive")

	// ErrFontUnavailable is returned when a font slot could not be loaded.
	ErrFontUnavailable = zerr.New("font unavailable")

	// ErrConfigLoadFailed is returned when the configuration cannot be loaded.
	ErrConfigLoadFailed = zerr.New("failed to load configuration")

	// ErrDaemonNotRunning is returned when the compile server cannot be reached.
	ErrDaemonNotRunning = zerr.New("compile server is not running")

	// ErrDaemonRequestFailed is returned when the compile server rejects a request.
	ErrDaemonRequestFailed = zerr.New("compile server request failed")

	// ErrDaemonSpawnFailed is returned when a background compile server does not come up.
	ErrDaemonSpawnFailed = zerr.New("failed to start compile server")
)
