package world

import (
	"sync"

	"go.trai.ch/nole/internal/core/domain"
)

// ExportCache remembers the structural hash of every page index seen since the
// environment was created or last reset. A page inserted mid-document shifts
// all later indices, so those pages report as changed.
type ExportCache struct {
	mu     sync.Mutex
	hashes []uint64
}

// NewExportCache returns an empty cache.
func NewExportCache() *ExportCache {
	return &ExportCache{}
}

// IsCached reports whether frame is unchanged at index, and records its hash.
// The first sighting of an index is never cached. A changed frame overwrites
// only its own slot.
func (c *ExportCache) IsCached(index int, frame *domain.Frame) bool {
	hash := HashFrame(frame)

	c.mu.Lock()
	defer c.mu.Unlock()

	if index >= len(c.hashes) {
		for len(c.hashes) < index {
			c.hashes = append(c.hashes, 0)
		}
		c.hashes = append(c.hashes, hash)
		return false
	}

	if c.hashes[index] == hash {
		return true
	}
	c.hashes[index] = hash
	return false
}

// Clear forgets every page so the next lookups all report changes.
func (c *ExportCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hashes = nil
}

// Len returns the number of page slots observed.
func (c *ExportCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.hashes)
}
