package domain

import (
	"os"
	"path/filepath"
)

const (
	// NoleDirName is the per-user state directory name.
	NoleDirName = "nole"

	// ConfigFileName is the name of the optional configuration file.
	ConfigFileName = "nole.yaml"

	// SocketFileName is the name of the compile server socket.
	SocketFileName = "nole.sock"

	// PIDFileName is the name of the compile server pid file.
	PIDFileName = "nole.pid"

	// LogFileName is the log of a compile server started in the background.
	LogFileName = "nole.log"

	// EnvPrefix is the prefix for configuration environment variables.
	EnvPrefix = "NOLE_"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600

	// SocketPerm restricts the server socket to the owning user.
	SocketPerm = 0o600

	// PointsPerInch converts typographic points to inches.
	PointsPerInch = 72.0
)

// DefaultStatePath returns the directory holding the socket and pid file.
// It prefers the user cache dir and falls back to the temp dir.
func DefaultStatePath() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, NoleDirName)
	}
	return filepath.Join(os.TempDir(), NoleDirName)
}

// DefaultSocketPath returns the default unix socket path of the compile server.
func DefaultSocketPath() string {
	return filepath.Join(DefaultStatePath(), SocketFileName)
}

// DefaultPIDPath returns the default pid file path of the compile server.
func DefaultPIDPath() string {
	return filepath.Join(DefaultStatePath(), PIDFileName)
}
