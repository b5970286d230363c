package raster

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/nole/internal/core/ports"
)

// NodeID is the unique identifier for the rasterizer Graft node.
const NodeID graft.ID = "adapter.raster"

func init() {
	graft.Register(graft.Node[ports.Rasterizer]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Rasterizer, error) {
			return New(), nil
		},
	})
}
