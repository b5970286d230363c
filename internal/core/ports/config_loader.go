package ports

import (
	"github.com/spf13/pflag"
	"go.trai.ch/nole/internal/core/domain"
)

//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks

// ConfigLoader defines the interface for loading the configuration.
type ConfigLoader interface {
	// Load merges defaults, the optional config file, the environment and the
	// explicitly set flags, in increasing precedence.
	Load(configFile string, flags *pflag.FlagSet) (*domain.Config, error)
}
