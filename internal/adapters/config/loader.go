// Package config loads the nole configuration from defaults, an optional
// YAML file, NOLE_ environment variables and command line flags.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
	"go.trai.ch/nole/internal/core/domain"
	"go.trai.ch/nole/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// flagKeys maps flag names whose config key is not the snake_case of the name.
var flagKeys = map[string]string{
	"font-dir": "font_dirs",
}

// Loader implements ports.ConfigLoader on koanf.
type Loader struct {
	logger ports.Logger
	// dir is searched for nole.yaml when no file is given explicitly.
	dir string
}

// NewLoader creates a Loader that looks for nole.yaml in the working directory.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{logger: logger, dir: "."}
}

// NewLoaderIn creates a Loader that looks for nole.yaml in dir.
func NewLoaderIn(logger ports.Logger, dir string) *Loader {
	return &Loader{logger: logger, dir: dir}
}

// Defaults returns the configuration used when nothing overrides it.
func Defaults() map[string]any {
	return map[string]any{
		"listen":       domain.DefaultSocketPath(),
		"idle_timeout": domain.DefaultIdleTimeout.String(),
		"font_dirs":    []string{},
		"system_fonts": true,
		"log_json":     false,
		"debug":        false,
		"strict":       false,
		"watch":        false,
		"metrics":      true,
	}
}

// Load merges the configuration layers. Precedence, lowest first: defaults,
// config file, environment, explicitly set flags.
func (l *Loader) Load(configFile string, flags *pflag.FlagSet) (*domain.Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, zerr.Wrap(domain.ErrConfigLoadFailed, "defaults: "+err.Error())
	}

	source, err := l.findConfigFile(configFile)
	if err != nil {
		return nil, err
	}
	if source != "" {
		if err := k.Load(file.Provider(source), yaml.Parser()); err != nil {
			return nil, zerr.With(zerr.Wrap(domain.ErrConfigLoadFailed, err.Error()), "file", source)
		}
		if l.logger != nil {
			l.logger.Debug("loaded config file " + source)
		}
	}

	if err := k.Load(env.ProviderWithValue(domain.EnvPrefix, ".", envValue), nil); err != nil {
		return nil, zerr.Wrap(domain.ErrConfigLoadFailed, err.Error())
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				key = strings.ReplaceAll(f.Name, "-", "_")
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, zerr.Wrap(domain.ErrConfigLoadFailed, err.Error())
		}
	}

	var cfg domain.Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, zerr.Wrap(domain.ErrConfigLoadFailed, err.Error())
	}
	cfg.Source = source

	if cfg.IdleTimeout < 0 {
		return nil, zerr.With(zerr.Wrap(domain.ErrConfigLoadFailed, "idle_timeout must not be negative"),
			"idle_timeout", cfg.IdleTimeout.String())
	}
	if strings.TrimSpace(cfg.Listen) == "" {
		return nil, zerr.Wrap(domain.ErrConfigLoadFailed, "listen address is empty")
	}
	return &cfg, nil
}

// findConfigFile returns the explicit file, which must exist, or nole.yaml in
// the search directory when present.
func (l *Loader) findConfigFile(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", zerr.With(zerr.Wrap(domain.ErrConfigLoadFailed, "config file not found"), "file", explicit)
		}
		return explicit, nil
	}
	candidate := filepath.Join(l.dir, domain.ConfigFileName)
	if _, err := os.Stat(candidate); err == nil {
		return candidate, nil
	}
	return "", nil
}

// envValue maps NOLE_FONT_DIRS to font_dirs. Directory lists use the
// platform's path list separator.
func envValue(key, value string) (string, any) {
	key = strings.ToLower(strings.TrimPrefix(key, domain.EnvPrefix))
	if key == "font_dirs" {
		return key, filepath.SplitList(value)
	}
	return key, value
}
