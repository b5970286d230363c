package daemon

import (
	"context"

	"github.com/grindlemire/graft"
)

const (
	// MetricsNodeID is the unique identifier for the metrics Graft node.
	MetricsNodeID graft.ID = "adapter.daemon.metrics"
	// SpawnerNodeID is the unique identifier for the background spawner Graft node.
	SpawnerNodeID graft.ID = "adapter.daemon.spawner"
)

func init() {
	graft.Register(graft.Node[*Metrics]{
		ID:        MetricsNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Metrics, error) {
			return NewMetrics(), nil
		},
	})

	graft.Register(graft.Node[*Spawner]{
		ID:        SpawnerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Spawner, error) {
			return NewSpawner()
		},
	})
}
