package output_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/nole/internal/ui/output"
)

func TestColorProfile(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.Equal(t, termenv.Ascii, output.ColorProfile())

	t.Setenv("NO_COLOR", "")
	p := output.ColorProfile()
	assert.True(t, p >= termenv.TrueColor && p <= termenv.Ascii)
}

func TestNewWithProfile(t *testing.T) {
	var buf bytes.Buffer
	out := output.NewWithProfile(&buf, func() termenv.Profile { return termenv.Ascii })

	_, err := out.WriteString(out.String("plain").Foreground(termenv.RGBColor("#FF0000")).String())
	assert.NoError(t, err)
	assert.Equal(t, "plain", buf.String())
}

func TestProfileFor(t *testing.T) {
	assert.Equal(t, termenv.Ascii, output.ProfileFor(new(bytes.Buffer)))

	f, err := os.Create(filepath.Join(t.TempDir(), "out.txt"))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	assert.Equal(t, termenv.Ascii, output.ProfileFor(f))
}
