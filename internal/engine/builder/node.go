package builder

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
	"go.trai.ch/knowgraph/internal/engine/parser"
)

// NodeID is the unique identifier for the graph builder Graft node.
const NodeID graft.ID = "engine.builder"

func init() {
	graft.Register(graft.Node[*Builder]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.ConfigNodeID,
			parser.NodeID,
			fs.EnumeratorNodeID,
			fs.TemplateStoreNodeID,
			cache.NodeID,
			logger.NodeID,
			metrics.NodeID,
			telemetry.TracerNodeID,
		},
		Run: func(ctx context.Context) (*Builder, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			p, err := graft.Dep[ports.LinkParser](ctx)
			if err != nil {
				return nil, err
			}
			posts, err := graft.Dep[ports.PostEnumerator](ctx)
			if err != nil {
				return nil, err
			}
			store, err := graft.Dep[ports.TemplateStore](ctx)
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
			return New(cfg, p, posts, store, c, log, m, tracer), nil
		},
	})
}
