package annotations

import (
	"fmt"

	"github.com/toyz/injector/internal/errors"
)

// MarkerPrefix is the text every marker comment starts with after "//"
const MarkerPrefix = "inject::"

// MarkerKind represents the kind of binding a marker asks for
type MarkerKind int

const (
	UnknownMarker MarkerKind = iota
	SingleMarker
)

// String returns the string representation of the marker kind
func (k MarkerKind) String() string {
	switch k {
	case SingleMarker:
		return "single"
	default:
		return "unknown"
	}
}

// ParseMarkerKind converts string to MarkerKind
func ParseMarkerKind(s string) (MarkerKind, error) {
	switch s {
	case "single":
		return SingleMarker, nil
	default:
		return UnknownMarker, fmt.Errorf("unknown marker kind: %s", s)
	}
}

// Marker is one parsed marker comment attached to a declaration. A marker
// that failed to parse keeps its raw text and the parse error in Err so the
// declaration still counts as marked.
type Marker struct {
	Kind     MarkerKind
	Options  map[string]string
	Raw      string
	Location errors.SourceLocation
	Err      error
}

// Valid reports whether the marker parsed and passed schema validation
func (m Marker) Valid() bool {
	return m.Err == nil && m.Kind != UnknownMarker
}

// Option returns a named option value with optional default
func (m Marker) Option(name string, defaultValue ...string) string {
	if value, exists := m.Options[name]; exists {
		return value
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

// Constructor returns the constructor override, or "" when the New<Type>
// convention applies
func (m Marker) Constructor() string {
	return m.Option(ConstructorOption)
}
