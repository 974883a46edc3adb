package config

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/knowgraph/internal/adapters/logger"
	"go.trai.ch/knowgraph/internal/core/domain"
	"go.trai.ch/knowgraph/internal/core/ports"
)

const (
	// NodeID is the unique identifier for the config loader Graft node.
	NodeID graft.ID = "adapter.config_loader"
	// ConfigNodeID is the unique identifier for the resolved configuration Graft node.
	ConfigNodeID graft.ID = "adapter.config"
)

func init() {
	graft.Register(graft.Node[ports.ConfigLoader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.ConfigLoader, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewLoader(log), nil
		},
	})

	graft.Register(graft.Node[*domain.Config]{
		ID:        ConfigNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{NodeID},
		Run: func(ctx context.Context) (*domain.Config, error) {
			loader, err := graft.Dep[ports.ConfigLoader](ctx)
			if err != nil {
				return nil, err
			}
			return Resolve(loader, os.Getenv(domain.ConfigEnvVar))
		},
	})
}

// Resolve loads the configuration from explicitPath when set and otherwise
// discovers it from the working directory.
func Resolve(loader ports.ConfigLoader, explicitPath string) (*domain.Config, error) {
	if explicitPath != "" {
		return loader.LoadFile(explicitPath)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return loader.Load(cwd)
}
