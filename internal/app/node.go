package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/knowgraph/internal/adapters/cache"   //nolint:depguard // Wired in app layer
	"go.trai.ch/knowgraph/internal/adapters/config"  //nolint:depguard // Wired in app layer
	"go.trai.ch/knowgraph/internal/adapters/fs"      //nolint:depguard // Wired in app layer
	"go.trai.ch/knowgraph/internal/adapters/logger"  //nolint:depguard // Wired in app layer
	"go.trai.ch/knowgraph/internal/adapters/metrics" //nolint:depguard // Wired in app layer
	"go.trai.ch/knowgraph/internal/adapters/watcher" //nolint:depguard // Wired in app layer
	"go.trai.ch/knowgraph/internal/core/domain"
	"go.trai.ch/knowgraph/internal/core/ports"
	"go.trai.ch/knowgraph/internal/engine/builder"
	"go.trai.ch/knowgraph/internal/engine/parser"
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
			config.ConfigNodeID,
			parser.NodeID,
			builder.NodeID,
			fs.EnumeratorNodeID,
			cache.NodeID,
			logger.NodeID,
			metrics.NodeID,
			watcher.NodeID,
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
			a, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewComponents(a, log), nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	cfg, err := graft.Dep[*domain.Config](ctx)
	if err != nil {
		return nil, err
	}
	p, err := graft.Dep[ports.LinkParser](ctx)
	if err != nil {
		return nil, err
	}
	b, err := graft.Dep[*builder.Builder](ctx)
	if err != nil {
		return nil, err
	}
	posts, err := graft.Dep[ports.PostEnumerator](ctx)
	if err != nil {
		return nil, err
	}
	c, err := graft.Dep[ports.Cache](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}
	m, err := graft.Dep[*metrics.Collector](ctx)
	if err != nil {
		return nil, err
	}
	newWatcher, err := graft.Dep[watcher.Factory](ctx)
	if err != nil {
		return nil, err
	}
	return New(cfg, p, b, posts, c, log, m, newWatcher), nil
}
