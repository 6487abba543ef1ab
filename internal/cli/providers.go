package cli

import (
	"github.com/google/wire"

	"github.com/toyz/injector/internal/parser"
	"github.com/toyz/injector/internal/processor"
	"github.com/toyz/injector/internal/writer"
)

// ProviderSet assembles the host object graph from a Config and a sink
var ProviderSet = wire.NewSet(
	provideTarget,
	provideNaming,
	provideStore,
	provideCounter,
	provideCleaner,
	provideLoader,
	writer.NewModuleWriter,
	processor.New,
	NewDriver,
	wire.Bind(new(processor.Sequencer), new(*processor.Counter)),
	wire.Bind(new(DeclarationSource), new(*parser.Loader)),
)

// provideTarget resolves the import path the output directory will have
func provideTarget(cfg Config) (OutputTarget, error) {
	return NewModuleResolver().ResolveOutput(cfg.Dir, cfg.OutputDir)
}

func provideNaming(cfg Config, target OutputTarget) writer.Naming {
	naming := cfg.Naming()
	naming.ImportPath = target.ImportPath
	return naming
}

// provideStore keeps artifacts in memory for dry runs
func provideStore(cfg Config) (writer.ArtifactStore, error) {
	if cfg.DryRun {
		return writer.NewMemoryStore(), nil
	}
	return writer.NewDirStore(cfg.OutputDir)
}

// provideCounter always starts at 0: the driver clears earlier modules
// before the first round, so a build replaces them instead of adding to them
func provideCounter() *processor.Counter {
	return processor.NewCounter(0)
}

// provideCleaner only lists stale modules in a dry run
func provideCleaner(cfg Config) *Cleaner {
	return NewCleaner(cfg.FilePrefix, cfg.DryRun)
}

func provideLoader(cfg Config) *parser.Loader {
	return parser.NewLoader(cfg.Dir, cfg.BuildTags...)
}
