// Package processor drives one generation round: scan the visible
// declarations, validate them, emit bindings for the ready ones and write
// them as a single module. Whatever is not ready yet goes back to the host.
package processor

import (
	stderrors "errors"
	"strings"

	"github.com/toyz/injector/internal/errors"
	"github.com/toyz/injector/internal/generator"
	"github.com/toyz/injector/internal/models"
	"github.com/toyz/injector/internal/scanner"
	"github.com/toyz/injector/internal/validator"
	"github.com/toyz/injector/internal/writer"
)

// Processor is the round controller. It is not safe for concurrent rounds.
type Processor struct {
	writer  *writer.ModuleWriter
	emitter *generator.Emitter
	seq     Sequencer
	logger  Logger
	state   State
	emitted map[string]bool
}

// New creates a round controller
func New(w *writer.ModuleWriter, seq Sequencer, logger Logger) *Processor {
	if logger == nil {
		logger = NopLogger{}
	}
	return &Processor{
		writer:  w,
		emitter: generator.NewEmitter(),
		seq:     seq,
		logger:  logger,
		state:   Idle,
		emitted: make(map[string]bool),
	}
}

// State returns where the controller is inside the current round
func (p *Processor) State() State {
	return p.state
}

// Emitted reports whether a declaration has already been written in this build
func (p *Processor) Emitted(qualifiedName string) bool {
	return p.emitted[qualifiedName]
}

// Process runs one round. Per-declaration problems are returned as
// diagnostics and never stop the round. A write failure is returned as the
// error: nothing is left behind, the sequence does not advance and none of
// the round's declarations count as emitted.
func (p *Processor) Process(round Round) (RoundResult, error) {
	defer p.transition(Idle)
	result := RoundResult{Round: round.Number}

	p.transition(Scanning)
	var candidates []models.Declaration
	for _, decl := range scanner.Scan(round.Declarations) {
		if p.emitted[decl.QualifiedName()] {
			p.logger.Debug("skipping %s, already emitted", decl.QualifiedName())
			continue
		}
		candidates = append(candidates, decl)
	}
	p.logger.Debug("round %d: %d marked declarations", round.Number, len(candidates))

	p.transition(Validating)
	validated := validator.New(p.writer.Naming().ImportPath).Validate(candidates)
	result.Deferred = validated.Deferred
	result.Diagnostics = append(result.Diagnostics, validated.Diagnostics...)
	for _, diag := range validated.Diagnostics {
		p.report(diag)
	}
	for _, decl := range validated.Deferred {
		p.logger.Debug("deferring %s until its types resolve", decl.QualifiedName())
	}

	p.transition(Emitting)
	index := p.seq.Current()
	builder := p.writer.NewBuilder(index)
	qualifier := builder.Imports().Qualifier()
	var bindings []models.BindingDescriptor
	for _, decl := range validated.Ready {
		binding, line, err := p.emitter.Emit(decl, qualifier)
		if err != nil {
			diag := errors.WrapGenerateError("emit", decl.QualifiedName(), err)
			diag.WithLocation(decl.Location())
			result.Diagnostics = append(result.Diagnostics, diag)
			p.report(diag)
			continue
		}
		builder.AddLine(line)
		bindings = append(bindings, binding)
		result.Emitted = append(result.Emitted, decl)
	}

	if len(bindings) == 0 {
		p.logger.Debug("round %d: nothing ready, no module written", round.Number)
		result.Emitted = nil
		return result, nil
	}

	p.transition(Writing)
	module, err := p.writer.Write(index, builder, bindings)
	if err != nil {
		result.Emitted = nil
		return result, asRoundError(err, p.writer.Naming().FileName(index))
	}

	p.seq.Advance()
	for _, decl := range result.Emitted {
		p.emitted[decl.QualifiedName()] = true
	}
	result.Module = module
	p.logger.Info("wrote %s with %d bindings", module.FileName, len(bindings))
	return result, nil
}

// Finish is called once the host will run no further rounds. Every
// declaration still deferred becomes an UnresolvedError.
func (p *Processor) Finish(deferred []models.Declaration) error {
	errs := errors.NewMultipleErrors()
	for _, decl := range deferred {
		if p.emitted[decl.QualifiedName()] {
			continue
		}
		unresolved := errors.NewUnresolvedError(decl.QualifiedName())
		unresolved.WithLocation(decl.Location())
		p.report(unresolved)
		errs.Add(unresolved)
	}
	return errs.ErrOrNil()
}

func (p *Processor) transition(to State) {
	p.state = to
}

func (p *Processor) report(diag errors.InjectorError) {
	var sb strings.Builder
	sb.WriteString(diag.Error())
	for _, hint := range diag.Suggestions() {
		sb.WriteString("\n  hint: ")
		sb.WriteString(hint)
	}
	p.logger.Error("%s", sb.String())
}

// asRoundError makes sure a write failure carries a round-fatal code
func asRoundError(err error, target string) error {
	var injErr errors.InjectorError
	if stderrors.As(err, &injErr) && injErr.ErrorCode().IsRoundFatal() {
		return err
	}
	return errors.WrapGenerateError("write", target, err)
}
