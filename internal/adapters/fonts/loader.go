package fonts

import (
	"os"

	"go.trai.ch/nole/internal/core/domain"
	"go.trai.ch/nole/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/image/font/sfnt"
)

var _ ports.FontLoader = (*Loader)(nil)

// Loader reads and parses font bytes by locator.
type Loader struct{}

// NewLoader creates a new Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load returns the parsed face described by info.
func (l *Loader) Load(info domain.FontInfo) (*domain.Font, error) {
	data, ok := embeddedData(info.Locator)
	if !ok {
		var err error
		data, err = os.ReadFile(info.Locator)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(domain.ErrFontUnavailable, err.Error()), "locator", info.Locator)
		}
	}

	coll, err := sfnt.ParseCollection(data)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrFontUnavailable, err.Error()), "locator", info.Locator)
	}
	f, err := coll.Font(info.Index)
	if err != nil {
		return nil, zerr.With(zerr.With(zerr.Wrap(domain.ErrFontUnavailable, err.Error()),
			"locator", info.Locator), "index", info.Index)
	}

	return &domain.Font{Info: info, Data: data, SFNT: f}, nil
}
