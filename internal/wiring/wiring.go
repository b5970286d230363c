// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/nole/internal/adapters/config"
	_ "go.trai.ch/nole/internal/adapters/daemon"
	_ "go.trai.ch/nole/internal/adapters/fonts"
	_ "go.trai.ch/nole/internal/adapters/fs"
	_ "go.trai.ch/nole/internal/adapters/logger"
	_ "go.trai.ch/nole/internal/adapters/pdf"
	_ "go.trai.ch/nole/internal/adapters/raster"
	_ "go.trai.ch/nole/internal/adapters/typeset"
	_ "go.trai.ch/nole/internal/adapters/watcher"
	// Register the app node.
	_ "go.trai.ch/nole/internal/app"
)
