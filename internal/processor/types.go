package processor

import (
	"github.com/toyz/injector/internal/errors"
	"github.com/toyz/injector/internal/models"
)

// Logger is the diagnostic sink the host provides
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// NopLogger discards everything
type NopLogger struct{}

func (NopLogger) Debug(string, ...interface{}) {}
func (NopLogger) Info(string, ...interface{})  {}
func (NopLogger) Warn(string, ...interface{})  {}
func (NopLogger) Error(string, ...interface{}) {}

// State is the controller's position inside a round
type State int

const (
	Idle State = iota
	Scanning
	Validating
	Emitting
	Writing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Scanning:
		return "scanning"
	case Validating:
		return "validating"
	case Emitting:
		return "emitting"
	case Writing:
		return "writing"
	default:
		return "unknown"
	}
}

// Round is one pass of the host: the declarations visible to it
type Round struct {
	Number       int
	Declarations []models.Declaration
}

// RoundResult is what the controller hands back to the host after a round
type RoundResult struct {
	Round       int
	Module      *models.GeneratedModule // nil when nothing was ready
	Emitted     []*models.ClassDecl
	Deferred    []models.Declaration
	Diagnostics []errors.InjectorError
}

// HasErrors reports whether any declaration was rejected this round
func (r RoundResult) HasErrors() bool {
	return len(r.Diagnostics) > 0
}

// Progressed reports whether the round emitted anything
func (r RoundResult) Progressed() bool {
	return len(r.Emitted) > 0
}
