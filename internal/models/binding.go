package models

import "github.com/toyz/injector/internal/errors"

// BindingDescriptor is everything needed to render one singleton
// registration: the type it is bound as and the dependencies its
// constructor takes, in source order.
type BindingDescriptor struct {
	Declaration  string        // qualified name of the ClassDecl
	Target       TypeRef       // constructor result, the type the binding is registered as
	Constructor  TypeRef       // the constructor function, rendered like a named type
	Dependencies []TypeRef     // one per constructor parameter, never reordered or deduplicated
	Variadic     bool          // last dependency is spread with ...
	Location     errors.SourceLocation
}

// LookupCount is the number of dependency lookups the binding renders
func (b BindingDescriptor) LookupCount() int {
	return len(b.Dependencies)
}

// Packages returns every package the rendered binding refers to
func (b BindingDescriptor) Packages() []PackageRef {
	var refs []PackageRef
	seen := make(map[string]bool)
	add := func(t TypeRef) {
		for _, ref := range t.Packages() {
			if !seen[ref.Path] {
				seen[ref.Path] = true
				refs = append(refs, ref)
			}
		}
	}
	add(b.Constructor)
	add(b.Target)
	for _, dep := range b.Dependencies {
		add(dep)
	}
	return refs
}
