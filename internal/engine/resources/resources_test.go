package resources_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/nole/internal/core/domain"
	"go.trai.ch/nole/internal/core/ports/mocks"
	"go.trai.ch/nole/internal/engine/resources"
	"go.uber.org/mock/gomock"
)

func catalog() []domain.FontInfo {
	return []domain.FontInfo{
		{Family: domain.NewInternedString("Go"), Style: domain.StyleRegular, Locator: "embedded:go-regular"},
		{Family: domain.NewInternedString("Broken"), Style: domain.StyleRegular, Locator: "/fonts/broken.ttf"},
		{Family: domain.NewInternedString("Go"), Style: domain.StyleBold, Locator: "embedded:go-bold"},
	}
}

func TestCore_FontLoadsOnceUnderConcurrency(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockFontLoader(ctrl)
	infos := catalog()

	loaded := &domain.Font{Info: infos[0]}
	loader.EXPECT().Load(infos[0]).Return(loaded, nil).Times(1)

	core := resources.New(domain.NewLibrary(), infos, loader, nil)

	var wg sync.WaitGroup
	results := make([]*domain.Font, 32)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			font, ok := core.Font(0)
			assert.True(t, ok)
			results[i] = font
		}()
	}
	wg.Wait()

	for _, font := range results {
		assert.Same(t, loaded, font)
	}
	assert.Equal(t, resources.Stats{Slots: 3, Resolved: 1}, core.Stats())
}

func TestCore_FailedSlotStaysUnavailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockFontLoader(ctrl)
	logger := mocks.NewMockLogger(ctrl)
	infos := catalog()

	loader.EXPECT().Load(infos[1]).Return(nil, errors.New("bad magic")).Times(1)
	loader.EXPECT().Load(infos[2]).Return(&domain.Font{Info: infos[2]}, nil).Times(1)
	logger.EXPECT().Warn(gomock.Any()).Times(1)

	core := resources.New(domain.NewLibrary(), infos, loader, logger)

	_, ok := core.Font(1)
	assert.False(t, ok)
	_, ok = core.Font(1)
	assert.False(t, ok, "failure is permanent and not retried")

	font, ok := core.Font(2)
	require.True(t, ok, "other slots are unaffected")
	assert.Equal(t, domain.StyleBold, font.Info.Style)

	assert.Equal(t, resources.Stats{Slots: 3, Resolved: 1, Failed: 1}, core.Stats())
}

func TestCore_FontOutOfRange(t *testing.T) {
	core := resources.New(domain.NewLibrary(), nil, nil, nil)

	_, ok := core.Font(0)
	assert.False(t, ok)
	_, ok = core.Font(-1)
	assert.False(t, ok)
}

