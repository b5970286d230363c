package daemon

import (
	"net"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/nole/internal/core/domain"
	"go.trai.ch/zerr"
)

const unixPrefix = "unix:"

// network splits a listen address into a net network and address. Paths,
// anything ending in .sock and unix: addresses are unix sockets; everything
// else is a tcp host:port.
func network(addr string) (string, string) {
	if rest, ok := strings.CutPrefix(addr, unixPrefix); ok {
		return "unix", rest
	}
	if strings.ContainsRune(addr, filepath.Separator) || strings.HasSuffix(addr, ".sock") {
		return "unix", addr
	}
	return "tcp", addr
}

// Listen opens addr. A stale unix socket is replaced and the new one is
// restricted to the owning user.
func Listen(addr string) (net.Listener, error) {
	netw, path := network(addr)
	if netw == "tcp" {
		lis, err := net.Listen(netw, path)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to listen"), "address", addr)
		}
		return lis, nil
	}

	if err := os.MkdirAll(parentDir(path), domain.DirPerm); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to create socket directory"), "path", path)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, zerr.With(zerr.Wrap(err, "failed to remove stale socket"), "path", path)
	}
	lis, err := net.Listen(netw, path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to listen"), "path", path)
	}
	if err := os.Chmod(path, domain.SocketPerm); err != nil {
		_ = lis.Close()
		return nil, zerr.With(zerr.Wrap(err, "failed to set socket permissions"), "path", path)
	}
	return lis, nil
}

func cleanupSocket(addr string) {
	if netw, path := network(addr); netw == "unix" {
		_ = os.Remove(path)
	}
}

func parentDir(path string) string {
	dir := filepath.Dir(path)
	if dir == "" {
		return "."
	}
	return dir
}

// PIDFileFor returns the pid file kept next to the unix socket addr, or ""
// when addr is a tcp address.
func PIDFileFor(addr string) string {
	netw, path := network(addr)
	if netw != "unix" {
		return ""
	}
	return filepath.Join(parentDir(path), domain.PIDFileName)
}

// LogFileFor returns the log file of a background server listening on addr.
// It lives next to a unix socket and in the state directory otherwise.
func LogFileFor(addr string) string {
	netw, path := network(addr)
	if netw != "unix" {
		return filepath.Join(domain.DefaultStatePath(), domain.LogFileName)
	}
	return filepath.Join(parentDir(path), domain.LogFileName)
}
