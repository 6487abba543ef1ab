package errors

import "fmt"

// ConfigurationError reports a marker placed on a declaration that can never
// produce a binding. It is fatal for that declaration only.
type ConfigurationError struct {
	*BaseError
	Declaration string // qualified name of the offending declaration
	Reason      string // short machine friendly reason
}

// NewConfigurationError creates a configuration error for a declaration
func NewConfigurationError(declaration, reason, message string) *ConfigurationError {
	return &ConfigurationError{
		BaseError: New(ConfigurationErrorCode, fmt.Sprintf("%s: %s", declaration, message)).
			WithContext("declaration", declaration).
			WithContext("reason", reason),
		Declaration: declaration,
		Reason:      reason,
	}
}

// SyntaxError reports a malformed marker comment
type SyntaxError struct {
	*BaseError
	Raw string // the marker text as written
}

// NewSyntaxError creates a syntax error for a marker
func NewSyntaxError(raw, message string) *SyntaxError {
	return &SyntaxError{
		BaseError: New(SyntaxErrorCode, message).WithContext("marker", raw),
		Raw:       raw,
	}
}

// WrapParseError wraps a marker parsing error
func WrapParseError(raw string, cause error) *SyntaxError {
	return &SyntaxError{
		BaseError: Wrap(SyntaxErrorCode, fmt.Sprintf("failed to parse marker %q", raw), cause).
			WithContext("marker", raw),
		Raw: raw,
	}
}

// UnresolvedError reports a declaration that was still deferred when the
// host signalled that no further rounds will run
type UnresolvedError struct {
	*BaseError
	Declaration string
}

// NewUnresolvedError creates an unresolved error for a declaration
func NewUnresolvedError(declaration string) *UnresolvedError {
	return &UnresolvedError{
		BaseError: New(UnresolvedErrorCode, fmt.Sprintf("%s: types never became resolvable", declaration)).
			WithContext("declaration", declaration).
			WithSuggestions(
				"Check that every constructor parameter type is declared and imported",
				"Run the generator after the code that defines the missing types has been generated",
			),
		Declaration: declaration,
	}
}

// GenerationError reports a failure while producing a module artifact
type GenerationError struct {
	*BaseError
	TargetFile string
	Stage      string
}

// WrapGenerateError wraps an error with a "failed to generate" message
func WrapGenerateError(stage, target string, cause error) *GenerationError {
	return &GenerationError{
		BaseError: Wrap(GenerationErrorCode, fmt.Sprintf("failed to generate %s", target), cause).
			WithContext("stage", stage),
		TargetFile: target,
		Stage:      stage,
	}
}

// WrapFileSystemError reports a failed artifact operation; it is round fatal
func WrapFileSystemError(operation, path string, cause error) *BaseError {
	return Newf(FileSystemErrorCode, "failed to %s file '%s'", operation, path).
		WithCause(cause).
		WithContext("operation", operation).
		WithContext("path", path)
}
