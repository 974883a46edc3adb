package parser

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/knowgraph/internal/adapters/cache"
	"go.trai.ch/knowgraph/internal/adapters/config"
	"go.trai.ch/knowgraph/internal/adapters/fs"
	"go.trai.ch/knowgraph/internal/adapters/logger"
	"go.trai.ch/knowgraph/internal/adapters/metrics"
	"go.trai.ch/knowgraph/internal/adapters/telemetry"
	"go.trai.ch/knowgraph/internal/core/domain"
	"go.trai.ch/knowgraph/internal/core/ports"
)

// NodeID is the unique identifier for the link parser Graft node.
const NodeID graft.ID = "engine.parser"

func init() {
	graft.Register(graft.Node[ports.LinkParser]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.ConfigNodeID,
			fs.TemplateStoreNodeID,
			fs.EnumeratorNodeID,
			cache.NodeID,
			logger.NodeID,
			metrics.NodeID,
			telemetry.TracerNodeID,
		},
		Run: func(ctx context.Context) (ports.LinkParser, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			store, err := graft.Dep[ports.TemplateStore](ctx)
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
			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}
			return New(cfg, store, posts, c, log, m, tracer), nil
		},
	})
}
