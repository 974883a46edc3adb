// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/knowgraph/internal/adapters/cache"
	_ "go.trai.ch/knowgraph/internal/adapters/config"
	_ "go.trai.ch/knowgraph/internal/adapters/fs"
	_ "go.trai.ch/knowgraph/internal/adapters/logger"
	_ "go.trai.ch/knowgraph/internal/adapters/metrics"
	_ "go.trai.ch/knowgraph/internal/adapters/telemetry"
	_ "go.trai.ch/knowgraph/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "go.trai.ch/knowgraph/internal/app"
	_ "go.trai.ch/knowgraph/internal/engine/builder"
	_ "go.trai.ch/knowgraph/internal/engine/parser"
)
