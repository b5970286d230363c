package pdf

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/nole/internal/core/ports"
)

// NodeID is the unique identifier for the PDF exporter Graft node.
const NodeID graft.ID = "adapter.pdf"

func init() {
	graft.Register(graft.Node[ports.DocumentExporter]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.DocumentExporter, error) {
			return New(), nil
		},
	})
}
