//go:build wireinject

package cli

import (
	"github.com/google/wire"

	"github.com/toyz/injector/internal/processor"
	"github.com/toyz/injector/internal/writer"
)

// Host is everything a generate command needs
type Host struct {
	Driver *Driver
	Store  writer.ArtifactStore
	Target OutputTarget
}

func InitializeHost(cfg Config, logger processor.Logger) (*Host, error) {
	wire.Build(
		ProviderSet,
		wire.Struct(new(Host), "*"),
	)
	return nil, nil
}
