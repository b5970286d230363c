package fonts

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/nole/internal/adapters/fs"
	"go.trai.ch/nole/internal/adapters/logger"
	"go.trai.ch/nole/internal/core/ports"
)

const (
	// SearcherNodeID is the unique identifier for the font searcher Graft node.
	SearcherNodeID graft.ID = "adapter.fonts.searcher"
	// LoaderNodeID is the unique identifier for the font loader Graft node.
	LoaderNodeID graft.ID = "adapter.fonts.loader"
)

func init() {
	graft.Register(graft.Node[ports.FontSearcher]{
		ID:        SearcherNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.WalkerNodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.FontSearcher, error) {
			walker, err := graft.Dep[*fs.Walker](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewSearcher(walker, log), nil
		},
	})

	graft.Register(graft.Node[ports.FontLoader]{
		ID:        LoaderNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.FontLoader, error) {
			return NewLoader(), nil
		},
	})
}
