package annotations

import (
	"fmt"
	"go/token"
)

// ConstructorOption names the function used to build the bound type
const ConstructorOption = "Constructor"

// ParameterSpec defines the specification for a marker option
type ParameterSpec struct {
	Required    bool
	NeedsValue  bool
	Description string
	Validator   func(string) error
}

// MarkerSchema defines the options accepted by one marker kind
type MarkerSchema struct {
	Kind        MarkerKind
	Description string
	Parameters  map[string]ParameterSpec
	Examples    []string
}

// SingleMarkerSchema defines the schema for //inject::single markers
var SingleMarkerSchema = MarkerSchema{
	Kind:        SingleMarker,
	Description: "Registers a struct as a singleton built from its constructor",
	Parameters: map[string]ParameterSpec{
		ConstructorOption: {
			NeedsValue:  true,
			Description: "Constructor function name, defaults to New<Type>",
			Validator:   ValidateIdentifier,
		},
	},
	Examples: []string{
		"//inject::single",
		"//inject::single -Constructor=MakeTrackLoader",
	},
}

var schemas = map[MarkerKind]MarkerSchema{
	SingleMarker: SingleMarkerSchema,
}

// SchemaFor returns the schema registered for a marker kind
func SchemaFor(kind MarkerKind) (MarkerSchema, bool) {
	schema, ok := schemas[kind]
	return schema, ok
}

// ValidateIdentifier checks that v is a valid exported Go identifier
func ValidateIdentifier(v string) error {
	if !token.IsIdentifier(v) {
		return fmt.Errorf("'%s' is not a valid Go identifier", v)
	}
	if !token.IsExported(v) {
		return fmt.Errorf("'%s' must be exported to be callable from generated code", v)
	}
	return nil
}

// Validate checks the marker options against the schema
func (s MarkerSchema) Validate(options map[string]string, present map[string]bool) error {
	for name := range present {
		spec, exists := s.Parameters[name]
		if !exists {
			return fmt.Errorf("unknown option '-%s' for marker %s", name, s.Kind)
		}
		value, hasValue := options[name]
		if spec.NeedsValue && !hasValue {
			return fmt.Errorf("option '-%s' requires a value", name)
		}
		if hasValue && spec.Validator != nil {
			if err := spec.Validator(value); err != nil {
				return fmt.Errorf("option '-%s': %w", name, err)
			}
		}
	}

	for name, spec := range s.Parameters {
		if spec.Required && !present[name] {
			return fmt.Errorf("missing required option '-%s' for marker %s", name, s.Kind)
		}
	}

	return nil
}
