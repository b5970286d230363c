package world_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/nole/internal/core/domain"
	"go.trai.ch/nole/internal/engine/world"
)

func textFrame(s string) *domain.Frame {
	return &domain.Frame{
		Size: domain.Size{W: 595, H: 842},
		Items: []domain.FrameItem{{
			Kind: domain.ItemText,
			Pos:  domain.Point{X: 72, Y: 90},
			Text: &domain.TextItem{Font: 0, Size: 11, Fill: domain.Black, Text: s},
		}},
	}
}

func TestExportCache_IsCached(t *testing.T) {
	cache := world.NewExportCache()

	assert.False(t, cache.IsCached(0, textFrame("Hello")), "first sighting is never cached")
	assert.True(t, cache.IsCached(0, textFrame("Hello")), "identical frame is cached")
	assert.False(t, cache.IsCached(0, textFrame("Hello!")), "changed frame is reported")
	assert.True(t, cache.IsCached(0, textFrame("Hello!")), "changed hash was stored")
}

func TestExportCache_PerIndexOverwrite(t *testing.T) {
	cache := world.NewExportCache()

	cache.IsCached(0, textFrame("a"))
	cache.IsCached(1, textFrame("b"))
	cache.IsCached(2, textFrame("c"))

	assert.False(t, cache.IsCached(1, textFrame("B")))
	assert.True(t, cache.IsCached(0, textFrame("a")), "other slots are untouched")
	assert.True(t, cache.IsCached(2, textFrame("c")), "other slots are untouched")
	assert.Equal(t, 3, cache.Len())
}

func TestExportCache_Clear(t *testing.T) {
	cache := world.NewExportCache()
	cache.IsCached(0, textFrame("a"))

	cache.Clear()
	assert.Zero(t, cache.Len())
	assert.False(t, cache.IsCached(0, textFrame("a")))
}

func TestExportCache_SparseIndex(t *testing.T) {
	cache := world.NewExportCache()

	assert.False(t, cache.IsCached(2, textFrame("c")))
	assert.Equal(t, 3, cache.Len())
	assert.True(t, cache.IsCached(2, textFrame("c")))
}

func TestHashFrame(t *testing.T) {
	a := textFrame("Hello")
	b := textFrame("Hello")
	assert.Equal(t, world.HashFrame(a), world.HashFrame(b), "independent of memory identity")

	moved := textFrame("Hello")
	moved.Items[0].Pos.Y++
	assert.NotEqual(t, world.HashFrame(a), world.HashFrame(moved))

	recolored := textFrame("Hello")
	recolored.Items[0].Text.Fill = domain.Color{R: 0xff, A: 0xff}
	assert.NotEqual(t, world.HashFrame(a), world.HashFrame(recolored))

	img := &domain.Frame{Items: []domain.FrameItem{{
		Kind:  domain.ItemImage,
		Image: &domain.ImageItem{Data: []byte{1, 2, 3}, Format: "png"},
	}}}
	other := &domain.Frame{Items: []domain.FrameItem{{
		Kind:  domain.ItemImage,
		Image: &domain.ImageItem{Data: []byte{1, 2, 4}, Format: "png"},
	}}}
	assert.NotEqual(t, world.HashFrame(img), world.HashFrame(other))
}
