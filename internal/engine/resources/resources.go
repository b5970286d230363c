// Package resources holds the process-wide, read-only compilation inputs: the
// function library and the lazily loaded font catalog.
package resources

import (
	"sync"
	"sync/atomic"

	"go.trai.ch/nole/internal/core/domain"
	"go.trai.ch/nole/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.FontProvider = (*Core)(nil)

// SlotState is the resolution state of a font slot.
type SlotState uint32

const (
	// SlotUnresolved means the font bytes were never requested.
	SlotUnresolved SlotState = iota
	// SlotResolved means the font loaded and is cached.
	SlotResolved
	// SlotFailed means loading failed; the slot stays unavailable.
	SlotFailed
)

// FontSlot is a catalog entry whose font is loaded on first access.
type FontSlot struct {
	info  domain.FontInfo
	once  sync.Once
	state atomic.Uint32
	font  *domain.Font
}

// State returns the current resolution state.
func (s *FontSlot) State() SlotState {
	return SlotState(s.state.Load())
}

// Core is shared by every compilation environment. Nothing in it changes after
// New returns except the one-time resolution of font slots.
type Core struct {
	library *domain.Library
	book    *domain.FontBook
	slots   []*FontSlot
	loader  ports.FontLoader
	logger  ports.Logger
}

// Stats summarizes the font catalog.
type Stats struct {
	Slots    int `json:"slots"`
	Resolved int `json:"resolved"`
	Failed   int `json:"failed"`
}

// New builds the core over a discovered font catalog.
func New(lib *domain.Library, fonts []domain.FontInfo, loader ports.FontLoader, logger ports.Logger) *Core {
	slots := make([]*FontSlot, len(fonts))
	for i, info := range fonts {
		slots[i] = &FontSlot{info: info}
	}
	return &Core{
		library: lib,
		book:    domain.NewFontBook(fonts),
		slots:   slots,
		loader:  loader,
		logger:  logger,
	}
}

// Library returns the function library.
func (c *Core) Library() *domain.Library {
	return c.library
}

// Book returns the font metadata catalog.
func (c *Core) Book() *domain.FontBook {
	return c.book
}

// Font returns the font at index, loading it on first use. A slot whose load
// failed reports false forever after.
func (c *Core) Font(index int) (*domain.Font, bool) {
	if index < 0 || index >= len(c.slots) {
		return nil, false
	}
	slot := c.slots[index]
	slot.once.Do(func() {
		font, err := c.loader.Load(slot.info)
		if err != nil {
			slot.state.Store(uint32(SlotFailed))
			if c.logger != nil {
				c.logger.Warn(zerr.With(zerr.Wrap(domain.ErrFontUnavailable, err.Error()), "font", slot.info.Locator).Error())
			}
			return
		}
		slot.font = font
		slot.state.Store(uint32(SlotResolved))
	})
	return slot.font, slot.State() == SlotResolved
}

// Stats reports how many slots were resolved or failed so far.
func (c *Core) Stats() Stats {
	s := Stats{Slots: len(c.slots)}
	for _, slot := range c.slots {
		switch slot.State() {
		case SlotResolved:
			s.Resolved++
		case SlotFailed:
			s.Failed++
		case SlotUnresolved:
		}
	}
	return s
}
