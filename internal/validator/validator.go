// Package validator splits marked declarations into the ones that can be
// bound this round and the ones that must wait for a later round.
package validator

import (
	"fmt"
	"strings"

	"github.com/toyz/injector/internal/errors"
	"github.com/toyz/injector/internal/models"
)

// Reasons attached to configuration errors
const (
	ReasonNotAClass      = "not_a_class"
	ReasonNoConstructor  = "no_constructor"
	ReasonUnexported     = "unexported"
	ReasonGeneric        = "generic"
	ReasonBadResult      = "bad_constructor_result"
	ReasonBadParameter   = "unrenderable_parameter"
	ReasonUnknownVariant = "unknown_declaration"
	ReasonMainPackage    = "main_package"
	ReasonOutputPackage  = "output_package"
	ReasonInternal       = "internal_package"
)

// Result is the partition of one round's candidates. Ready and Deferred are
// disjoint; a candidate in neither produced a diagnostic.
type Result struct {
	Ready       []*models.ClassDecl
	Deferred    []models.Declaration
	Diagnostics []errors.InjectorError
}

// Validator checks candidates against the package the module is written to
type Validator struct {
	outputPath string
}

// New creates a validator for modules written to the package outputPath. An
// empty path skips the checks that depend on where the module lives.
func New(outputPath string) *Validator {
	return &Validator{outputPath: outputPath}
}

// Validate partitions candidates without knowing the output package
func Validate(candidates []models.Declaration) Result {
	return New("").Validate(candidates)
}

// Validate partitions candidates into ready, deferred and rejected
func (v *Validator) Validate(candidates []models.Declaration) Result {
	var result Result
	for _, decl := range candidates {
		if diag := checkMarkers(decl); diag != nil {
			result.Diagnostics = append(result.Diagnostics, diag)
			continue
		}

		switch d := decl.(type) {
		case *models.ClassDecl:
			ready, diag := v.checkClass(d)
			switch {
			case diag != nil:
				result.Diagnostics = append(result.Diagnostics, diag)
			case ready:
				result.Ready = append(result.Ready, d)
			default:
				result.Deferred = append(result.Deferred, d)
			}
		case *models.FunctionDecl:
			result.Diagnostics = append(result.Diagnostics,
				configError(d, ReasonNotAClass, "marker is on a function, only struct types can be bound",
					fmt.Sprintf("Move the marker to the struct type %s returns", d.Name)))
		case *models.OtherDecl:
			result.Diagnostics = append(result.Diagnostics,
				configError(d, ReasonNotAClass, fmt.Sprintf("marker is on a %s, only struct types can be bound", d.Kind)))
		default:
			result.Diagnostics = append(result.Diagnostics,
				configError(decl, ReasonUnknownVariant, fmt.Sprintf("unsupported declaration %T", decl)))
		}
	}
	return result
}

func checkMarkers(decl models.Declaration) errors.InjectorError {
	for _, marker := range decl.Markers() {
		if marker.Err == nil {
			continue
		}
		if injErr, ok := marker.Err.(errors.InjectorError); ok {
			return injErr
		}
		syntaxErr := errors.WrapParseError(marker.Raw, marker.Err)
		syntaxErr.WithLocation(marker.Location)
		return syntaxErr
	}
	return nil
}

// checkClass reports ready=true when d can be emitted now, ready=false with a
// nil diagnostic when it must be deferred
func (v *Validator) checkClass(d *models.ClassDecl) (bool, errors.InjectorError) {
	if !d.Resolved() {
		return false, nil
	}
	if d.Generic {
		return false, configError(d, ReasonGeneric, "generic types cannot be bound as singletons",
			"Declare a non-generic named type that wraps the instantiation")
	}
	if !d.Exported {
		return false, configError(d, ReasonUnexported, "type is unexported and cannot be referenced by the generated module")
	}

	ctor := d.Constructor
	if ctor == nil {
		return false, configError(d, ReasonNoConstructor, "no constructor found",
			fmt.Sprintf("Add func New%s(...) *%s to the package", d.Name, d.Name),
			"Or name an existing constructor with //inject::single -Constructor=<Func>")
	}
	if !ctor.Resolved() {
		return false, nil
	}
	if !ctor.Exported {
		return false, atConstructor(configError(d, ReasonUnexported,
			fmt.Sprintf("constructor %s is unexported", ctor.Name)), ctor)
	}
	if len(ctor.Results) != 1 || !returnsSelf(d, ctor.Results[0]) {
		return false, atConstructor(configError(d, ReasonBadResult,
			fmt.Sprintf("constructor %s must return exactly %s or *%s", ctor.Name, d.Name, d.Name)), ctor)
	}
	for _, param := range ctor.Params {
		if err := param.Type.Renderable(); err != nil {
			return false, atConstructor(configError(d, ReasonBadParameter,
				fmt.Sprintf("parameter %s of %s: %v", param.Name, ctor.Name, err)), ctor)
		}
	}
	if diag := v.checkImports(d); diag != nil {
		return false, diag
	}
	return true, nil
}

// checkImports rejects bindings whose packages the output package cannot import
func (v *Validator) checkImports(d *models.ClassDecl) errors.InjectorError {
	if d.PkgName == "main" {
		return configError(d, ReasonMainPackage, "package main cannot be imported by the generated module",
			"Move the type and its constructor to a non-main package")
	}
	if v.outputPath == "" {
		return nil
	}

	refs := []models.PackageRef{{Path: d.PkgPath, Name: d.PkgName}}
	for _, param := range d.Constructor.Params {
		refs = append(refs, param.Type.Packages()...)
	}
	for _, ref := range refs {
		if ref.Path == v.outputPath {
			return configError(d, ReasonOutputPackage,
				fmt.Sprintf("%s is the output package, the generated module would import itself", ref.Path),
				"Write generated modules to a separate directory")
		}
		if parent, ok := visibleFrom(v.outputPath, ref.Path); !ok {
			return configError(d, ReasonInternal,
				fmt.Sprintf("internal package %s is not importable from %s", ref.Path, v.outputPath),
				fmt.Sprintf("Place the output directory inside %s", parent))
		}
	}
	return nil
}

// visibleFrom applies the internal/ import rule: path may be imported only by
// packages rooted at the parent of each of its internal elements. On failure
// it returns the parent that importer is outside of.
func visibleFrom(importer, path string) (string, bool) {
	elems := strings.Split(path, "/")
	for i, elem := range elems {
		if elem != "internal" {
			continue
		}
		parent := strings.Join(elems[:i], "/")
		if parent == "" || (importer != parent && !strings.HasPrefix(importer, parent+"/")) {
			return parent, false
		}
	}
	return "", true
}

func returnsSelf(d *models.ClassDecl, result models.TypeRef) bool {
	if result.Kind == models.PointerType && result.Elem != nil {
		result = *result.Elem
	}
	return result.Kind == models.NamedType &&
		result.PkgPath == d.PkgPath &&
		result.Name == d.Name &&
		len(result.Args) == 0
}

func configError(decl models.Declaration, reason, message string, suggestions ...string) *errors.ConfigurationError {
	err := errors.NewConfigurationError(decl.QualifiedName(), reason, message)
	err.WithLocation(decl.Location())
	err.WithSuggestions(suggestions...)
	return err
}

func atConstructor(err *errors.ConfigurationError, ctor *models.Constructor) *errors.ConfigurationError {
	if !ctor.Loc.IsEmpty() {
		err.WithLocation(ctor.Loc)
	}
	return err
}
