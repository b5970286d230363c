package fonts

import (
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
)

// EmbeddedPrefix marks locators of fonts compiled into the binary.
const EmbeddedPrefix = "embedded:"

// embedded lists the built-in fonts in catalog order. The first entry is the
// default body font.
var embedded = []struct {
	name string
	data []byte
}{
	{"go-regular", goregular.TTF},
	{"go-bold", gobold.TTF},
	{"go-italic", goitalic.TTF},
	{"go-bold-italic", gobolditalic.TTF},
	{"go-mono", gomono.TTF},
	{"go-mono-bold", gomonobold.TTF},
}

func embeddedData(locator string) ([]byte, bool) {
	name, ok := strings.CutPrefix(locator, EmbeddedPrefix)
	if !ok {
		return nil, false
	}
	for _, e := range embedded {
		if e.name == name {
			return e.data, true
		}
	}
	return nil, false
}
