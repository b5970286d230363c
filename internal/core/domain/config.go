package domain

import "time"

const (
	// DefaultIdleTimeout is how long the compile server waits for requests before exiting.
	DefaultIdleTimeout = 30 * time.Minute

	// DefaultWatchDebounce coalesces bursts of file system events.
	DefaultWatchDebounce = 50 * time.Millisecond
)

// Config is the merged runtime configuration.
type Config struct {
	// Listen is either a unix socket path or a tcp host:port.
	Listen      string        `koanf:"listen"`
	IdleTimeout time.Duration `koanf:"idle_timeout"`
	FontDirs    []string      `koanf:"font_dirs"`
	SystemFonts bool          `koanf:"system_fonts"`
	LogJSON     bool          `koanf:"log_json"`
	Debug       bool          `koanf:"debug"`
	// Strict re-raises recovered internal faults instead of degrading them.
	Strict  bool   `koanf:"strict"`
	Watch   bool   `koanf:"watch"`
	Metrics bool   `koanf:"metrics"`
	Source  string `koanf:"-"`
}
