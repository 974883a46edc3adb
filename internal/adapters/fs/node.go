package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/knowgraph/internal/adapters/config"
	"go.trai.ch/knowgraph/internal/core/domain"
	"go.trai.ch/knowgraph/internal/core/ports"
)

const (
	// WalkerNodeID is the unique identifier for the file walker Graft node.
	WalkerNodeID graft.ID = "adapter.fs.walker"
	// EnumeratorNodeID is the unique identifier for the post enumerator Graft node.
	EnumeratorNodeID graft.ID = "adapter.fs.enumerator"
	// TemplateStoreNodeID is the unique identifier for the template store Graft node.
	TemplateStoreNodeID graft.ID = "adapter.fs.templates"
)

func init() {
	graft.Register(graft.Node[*Walker]{
		ID:        WalkerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Walker, error) {
			return NewWalker(), nil
		},
	})

	graft.Register(graft.Node[ports.PostEnumerator]{
		ID:        EnumeratorNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{WalkerNodeID, config.ConfigNodeID},
		Run: func(ctx context.Context) (ports.PostEnumerator, error) {
			walker, err := graft.Dep[*Walker](ctx)
			if err != nil {
				return nil, err
			}
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			return NewEnumerator(walker, cfg.TemplatesDir), nil
		},
	})

	graft.Register(graft.Node[ports.TemplateStore]{
		ID:        TemplateStoreNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.ConfigNodeID},
		Run: func(ctx context.Context) (ports.TemplateStore, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			return NewTemplateStore(cfg.TemplatesDir), nil
		},
	})
}
