// Package generator turns ready declarations into singleton registrations.
package generator

import (
	"fmt"
	"strings"

	"github.com/toyz/injector/internal/models"
	"github.com/toyz/injector/internal/templates"
)

// Emitter converts ready declarations into binding descriptors and rendered
// registration lines. It performs no dependency-graph resolution: every
// constructor parameter becomes one lookup, left to the runtime container.
type Emitter struct{}

// NewEmitter creates a new binding emitter
func NewEmitter() *Emitter {
	return &Emitter{}
}

// Describe builds the binding descriptor for a ready declaration's constructor
func (e *Emitter) Describe(decl *models.ClassDecl) (models.BindingDescriptor, error) {
	if decl == nil {
		return models.BindingDescriptor{}, fmt.Errorf("declaration cannot be nil")
	}
	ctor := decl.Constructor
	if ctor == nil {
		return models.BindingDescriptor{}, fmt.Errorf("%s has no constructor", decl.QualifiedName())
	}
	if len(ctor.Results) != 1 {
		return models.BindingDescriptor{}, fmt.Errorf("constructor %s must have exactly one result, has %d", ctor.Name, len(ctor.Results))
	}

	deps := make([]models.TypeRef, len(ctor.Params))
	for i, param := range ctor.Params {
		deps[i] = param.Type
	}

	return models.BindingDescriptor{
		Declaration:  decl.QualifiedName(),
		Target:       ctor.Results[0],
		Constructor:  models.Named(decl.PkgPath, decl.PkgName, ctor.Name),
		Dependencies: deps,
		Variadic:     ctor.Variadic && len(deps) > 0,
		Location:     decl.Location(),
	}, nil
}

// Render writes one registration line, qualifying packages through q:
//
//	inject.Single[T](b, func(r inject.Resolver) T { return pkg.NewT(inject.Get[A](r), ...) })
func (e *Emitter) Render(binding models.BindingDescriptor, q models.Qualifier) string {
	contract := templates.ContractAlias
	target := binding.Target.Render(q)

	lookups := make([]string, len(binding.Dependencies))
	for i, dep := range binding.Dependencies {
		lookups[i] = fmt.Sprintf("%s.Get[%s](%s)", contract, dep.Render(q), templates.ResolverVar)
	}
	args := strings.Join(lookups, ", ")
	if binding.Variadic {
		args += "..."
	}

	return fmt.Sprintf("%s.Single[%s](%s, func(%s %s.Resolver) %s { return %s(%s) })",
		contract, target, templates.BinderVar,
		templates.ResolverVar, contract, target,
		binding.Constructor.Render(q), args)
}

// Emit describes and renders one ready declaration
func (e *Emitter) Emit(decl *models.ClassDecl, q models.Qualifier) (models.BindingDescriptor, string, error) {
	binding, err := e.Describe(decl)
	if err != nil {
		return models.BindingDescriptor{}, "", err
	}
	return binding, e.Render(binding, q), nil
}
