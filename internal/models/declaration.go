package models

import (
	"github.com/toyz/injector/internal/annotations"
	"github.com/toyz/injector/internal/errors"
)

// Declaration is a marked source definition visible in the current round.
// It is a closed set: *ClassDecl, *FunctionDecl or *OtherDecl.
type Declaration interface {
	QualifiedName() string
	Location() errors.SourceLocation
	Markers() []annotations.Marker
	Resolved() bool
	declaration()
}

// DeclBase holds the fields every declaration variant shares
type DeclBase struct {
	PkgPath  string                // import path of the declaring package
	PkgName  string                // package name as written in the package clause
	Name     string                // identifier of the declaration
	Loc      errors.SourceLocation // where the declaration starts
	Marks    []annotations.Marker  // markers found in the doc comment
	Complete bool                  // whether every type the declaration mentions resolved
}

// QualifiedName returns importpath.Name
func (d DeclBase) QualifiedName() string {
	if d.PkgPath == "" {
		return d.Name
	}
	return d.PkgPath + "." + d.Name
}

// Location returns the source location of the declaration
func (d DeclBase) Location() errors.SourceLocation {
	return d.Loc
}

// Markers returns the markers attached to the declaration
func (d DeclBase) Markers() []annotations.Marker {
	return d.Marks
}

// Resolved reports whether the host could resolve the declaration's own type
func (d DeclBase) Resolved() bool {
	return d.Complete
}

// ClassDecl is a named struct type, the only shape that can be bound
type ClassDecl struct {
	DeclBase
	Exported    bool
	Generic     bool
	Constructor *Constructor // nil when no constructor function was found
}

// Constructor describes the function that builds a ClassDecl
type Constructor struct {
	Name     string
	Exported bool
	Params   []Param   // in source order
	Results  []TypeRef // every declared result, in order
	Variadic bool      // last parameter is ...T; its TypeRef is the slice type
	Loc      errors.SourceLocation
}

// Param is one constructor parameter
type Param struct {
	Name string
	Type TypeRef
}

// Resolved reports whether every parameter and result type is resolvable
func (c *Constructor) Resolved() bool {
	for _, p := range c.Params {
		if !p.Type.Valid() {
			return false
		}
	}
	for _, r := range c.Results {
		if !r.Valid() {
			return false
		}
	}
	return true
}

// FunctionDecl is a marked package-level function
type FunctionDecl struct {
	DeclBase
}

// OtherDecl is any other marked declaration: a non-struct named type, an
// interface, a variable or a constant
type OtherDecl struct {
	DeclBase
	Kind string
}

func (*ClassDecl) declaration()    {}
func (*FunctionDecl) declaration() {}
func (*OtherDecl) declaration()    {}
