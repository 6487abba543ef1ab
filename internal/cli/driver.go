package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/toyz/injector/internal/errors"
	"github.com/toyz/injector/internal/models"
	"github.com/toyz/injector/internal/parser"
	"github.com/toyz/injector/internal/processor"
)

// DeclarationSource loads the declarations visible to a round
type DeclarationSource interface {
	Load(ctx context.Context, patterns ...string) (*parser.LoadResult, error)
}

// phaseLogger is implemented by sinks that group output per round
type phaseLogger interface {
	PhaseHeader(phase string)
	Indent()
	Unindent()
}

// Summary describes a finished generation run
type Summary struct {
	Replaced    []string // modules from an earlier build, removed before round 0
	Rounds      int
	Modules     []*models.GeneratedModule
	Bindings    int
	Unresolved  int
	Diagnostics int
	Duration    time.Duration
}

// Files returns the names of the generated modules
func (s Summary) Files() []string {
	files := make([]string, len(s.Modules))
	for i, m := range s.Modules {
		files[i] = m.FileName
	}
	return files
}

// Driver is the host: it owns the round loop and decides when to stop
type Driver struct {
	cfg       Config
	source    DeclarationSource
	processor *processor.Processor
	cleaner   *Cleaner
	logger    processor.Logger
}

// NewDriver creates the round loop host. The cleaner clears the output
// directory of earlier modules before the first round.
func NewDriver(cfg Config, source DeclarationSource, proc *processor.Processor, cleaner *Cleaner, logger processor.Logger) *Driver {
	return &Driver{cfg: cfg, source: source, processor: proc, cleaner: cleaner, logger: logger}
}

// Run executes rounds until nothing is deferred, a round makes no progress,
// or the round limit is reached. Declarations still deferred at that point
// are reported as unresolved. Any rejected declaration makes Run return an
// error after all rounds have completed.
func (d *Driver) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()
	summary := &Summary{}
	diagnostics := errors.NewMultipleErrors()

	if err := ctx.Err(); err != nil {
		return summary, err
	}
	replaced, err := d.cleaner.CleanGeneratedFiles([]string{d.cfg.OutputDir})
	summary.Replaced = replaced
	if err != nil {
		return summary, err
	}
	for _, file := range replaced {
		d.logger.Debug("replacing %s", file)
	}

	phases, _ := d.logger.(phaseLogger)
	seen := make(map[string]bool)
	var deferred []models.Declaration

	for round := 0; round < d.cfg.MaxRounds; round++ {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		loaded, err := d.source.Load(ctx, d.cfg.Patterns...)
		if err != nil {
			return summary, err
		}
		if round == 0 {
			d.logger.Debug("loaded %d packages, %d type errors tolerated", len(loaded.Packages), loaded.TypeErrors)
		}

		presented := d.present(loaded.Declarations, seen, deferred)
		if phases != nil {
			phases.PhaseHeader(fmt.Sprintf("Round %d", round))
			phases.Indent()
		}
		result, err := d.processor.Process(processor.Round{Number: round, Declarations: presented})
		if phases != nil {
			phases.Unindent()
		}
		summary.Rounds++
		for _, diag := range result.Diagnostics {
			diagnostics.Add(diag)
		}
		if err != nil {
			return summary, err
		}

		if result.Module != nil {
			summary.Modules = append(summary.Modules, result.Module)
			summary.Bindings += len(result.Module.Bindings)
		}
		deferred = result.Deferred

		if len(deferred) == 0 {
			break
		}
		if !result.Progressed() {
			d.logger.Debug("round %d made no progress, %d declarations still deferred", round, len(deferred))
			break
		}
	}

	if err := d.processor.Finish(deferred); err != nil {
		var unresolved *errors.MultipleErrors
		if !stderrors.As(err, &unresolved) {
			return summary, err
		}
		summary.Unresolved = len(unresolved.GetByCode(errors.UnresolvedErrorCode))
		for _, e := range unresolved.Errors {
			diagnostics.Add(e)
		}
	}

	summary.Diagnostics = diagnostics.Count()
	summary.Duration = time.Since(start)
	return summary, diagnostics.ErrOrNil()
}

// present selects what the round sees: declarations never presented before
// plus the ones deferred by the previous round
func (d *Driver) present(all []models.Declaration, seen map[string]bool, deferred []models.Declaration) []models.Declaration {
	retry := make(map[string]bool, len(deferred))
	for _, decl := range deferred {
		retry[decl.QualifiedName()] = true
	}

	var out []models.Declaration
	for _, decl := range all {
		name := decl.QualifiedName()
		if seen[name] && !retry[name] {
			continue
		}
		seen[name] = true
		out = append(out, decl)
	}
	return out
}
