package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/nole/internal/core/domain"
)

func TestInternedString(t *testing.T) {
	a := domain.NewInternedString("chapter/intro.txt")
	b := domain.NewInternedString("chapter/intro.txt")

	assert.Equal(t, a.Value(), b.Value())
	assert.Equal(t, "chapter/intro.txt", a.String())
	assert.False(t, a.IsZero())

	var zero domain.InternedString
	assert.True(t, zero.IsZero())
	assert.Empty(t, zero.String())
}

func TestInternedStringJSON(t *testing.T) {
	original := domain.NewInternedString("Go Regular")

	data, err := json.Marshal(original)
	require.NoError(t, err)
	assert.JSONEq(t, `"Go Regular"`, string(data))

	var decoded domain.InternedString
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, original, decoded)
}
