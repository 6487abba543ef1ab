// Package inject is the contract generated injection modules compile against.
// A module registers singleton bindings with a Binder; the container behind
// the Binder decides how and when they are built.
package inject

import (
	"fmt"
	"reflect"
	"sync"
)

// Resolver looks up an already bound value by type
type Resolver interface {
	Resolve(t reflect.Type) (any, error)
}

// Binder accepts singleton registrations. The factory is invoked at most once
// by the container, with a Resolver for the binding's dependencies.
type Binder interface {
	BindSingleton(t reflect.Type, factory func(Resolver) any)
}

// Module is implemented by every generated injection module
type Module interface {
	Register(b Binder)
}

// Single registers factory as the singleton provider of T
func Single[T any](b Binder, factory func(r Resolver) T) {
	b.BindSingleton(reflect.TypeFor[T](), func(r Resolver) any {
		return factory(r)
	})
}

// Get resolves a T from r. A missing or mistyped binding is a wiring bug in
// the container setup and panics with a ResolveError.
func Get[T any](r Resolver) T {
	t := reflect.TypeFor[T]()
	v, err := r.Resolve(t)
	if err != nil {
		panic(&ResolveError{Type: t, Cause: err})
	}
	if v == nil {
		var zero T
		return zero
	}
	typed, ok := v.(T)
	if !ok {
		panic(&ResolveError{Type: t, Cause: fmt.Errorf("resolver returned %T", v)})
	}
	return typed
}

// ResolveError is the panic value of Get
type ResolveError struct {
	Type  reflect.Type
	Cause error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("inject: cannot resolve %s: %v", e.Type, e.Cause)
}

func (e *ResolveError) Unwrap() error {
	return e.Cause
}

var (
	modulesMu sync.Mutex
	modules   []Module
)

// RegisterModule records a generated module so a container can discover it.
// Generated files call it from init.
func RegisterModule(m Module) {
	modulesMu.Lock()
	defer modulesMu.Unlock()
	modules = append(modules, m)
}

// Modules returns every registered module in registration order
func Modules() []Module {
	modulesMu.Lock()
	defer modulesMu.Unlock()
	out := make([]Module, len(modules))
	copy(out, modules)
	return out
}

// Install registers every discovered module with b
func Install(b Binder) {
	for _, m := range Modules() {
		m.Register(b)
	}
}
