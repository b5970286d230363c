package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/nole/internal/adapters/config" //nolint:depguard // Wired in app layer
	"go.trai.ch/nole/internal/adapters/daemon" //nolint:depguard // Wired in app layer
	"go.trai.ch/nole/internal/adapters/fonts"  //nolint:depguard // Wired in app layer
	"go.trai.ch/nole/internal/adapters/fs"     //nolint:depguard // Wired in app layer
	"go.trai.ch/nole/internal/adapters/logger" //nolint:depguard // Wired in app layer
	"go.trai.ch/nole/internal/adapters/pdf"    //nolint:depguard // Wired in app layer
	"go.trai.ch/nole/internal/adapters/raster" //nolint:depguard // Wired in app layer
	"go.trai.ch/nole/internal/adapters/typeset"
	"go.trai.ch/nole/internal/adapters/watcher"
	"go.trai.ch/nole/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			logger.NodeID,
			logger.ConcreteNodeID,
			fs.FileSystemNodeID,
			fonts.SearcherNodeID,
			fonts.LoaderNodeID,
			typeset.ParserNodeID,
			typeset.CompilerNodeID,
			typeset.CompleterNodeID,
			raster.NodeID,
			pdf.NodeID,
			watcher.NodeID,
			daemon.MetricsNodeID,
			daemon.SpawnerNodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return &Components{App: app, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	var (
		deps Deps
		err  error
	)
	if deps.ConfigLoader, err = graft.Dep[ports.ConfigLoader](ctx); err != nil {
		return nil, err
	}
	if deps.Logger, err = graft.Dep[ports.Logger](ctx); err != nil {
		return nil, err
	}
	concrete, err := graft.Dep[*logger.Logger](ctx)
	if err != nil {
		return nil, err
	}
	deps.LogSettings = concrete
	if deps.FS, err = graft.Dep[ports.FileSystem](ctx); err != nil {
		return nil, err
	}
	if deps.FontSearcher, err = graft.Dep[ports.FontSearcher](ctx); err != nil {
		return nil, err
	}
	if deps.FontLoader, err = graft.Dep[ports.FontLoader](ctx); err != nil {
		return nil, err
	}
	if deps.Parser, err = graft.Dep[ports.Parser](ctx); err != nil {
		return nil, err
	}
	if deps.Compiler, err = graft.Dep[ports.Compiler](ctx); err != nil {
		return nil, err
	}
	if deps.Completer, err = graft.Dep[ports.Completer](ctx); err != nil {
		return nil, err
	}
	if deps.Rasterizer, err = graft.Dep[ports.Rasterizer](ctx); err != nil {
		return nil, err
	}
	if deps.Exporter, err = graft.Dep[ports.DocumentExporter](ctx); err != nil {
		return nil, err
	}
	if deps.Watchers, err = graft.Dep[watcher.Factory](ctx); err != nil {
		return nil, err
	}
	if deps.Metrics, err = graft.Dep[*daemon.Metrics](ctx); err != nil {
		return nil, err
	}
	spawner, err := graft.Dep[*daemon.Spawner](ctx)
	if err != nil {
		return nil, err
	}
	deps.Spawner = spawner
	return New(deps), nil
}
