package parser

import (
	"go/types"
	"sort"

	"github.com/toyz/injector/internal/models"
)

// typeRef converts a checked type into a package-independent TypeRef.
// Anything the checker could not resolve becomes an invalid TypeRef.
func typeRef(t types.Type) models.TypeRef {
	switch t := t.(type) {
	case *types.Basic:
		if t.Kind() == types.Invalid {
			return models.Invalid(t.String())
		}
		return models.Basic(t.Name())
	case *types.Alias:
		obj := t.Obj()
		if obj.Pkg() == nil {
			return models.Basic(obj.Name())
		}
		return models.Named(obj.Pkg().Path(), obj.Pkg().Name(), obj.Name(), typeArgs(t.TypeArgs())...)
	case *types.Named:
		obj := t.Obj()
		if obj.Pkg() == nil {
			return models.Basic(obj.Name())
		}
		return models.Named(obj.Pkg().Path(), obj.Pkg().Name(), obj.Name(), typeArgs(t.TypeArgs())...)
	case *types.Pointer:
		return models.PointerTo(typeRef(t.Elem()))
	case *types.Slice:
		return models.SliceOf(typeRef(t.Elem()))
	case *types.Array:
		return models.ArrayOf(t.Len(), typeRef(t.Elem()))
	case *types.Map:
		return models.MapOf(typeRef(t.Key()), typeRef(t.Elem()))
	case *types.Chan:
		return models.ChanOf(chanDir(t.Dir()), typeRef(t.Elem()))
	case *types.TypeParam:
		return models.Literal(t.Obj().Name(), "type parameter "+t.Obj().Name())
	default:
		// func, struct and interface literals are carried as source text
		if !resolved(t, nil) {
			return models.Invalid(types.TypeString(t, nil))
		}
		paths := make(map[string]bool)
		src := types.TypeString(t, func(pkg *types.Package) string {
			paths[pkg.Path()] = true
			return pkg.Name()
		})
		qualified := make([]string, 0, len(paths))
		for p := range paths {
			qualified = append(qualified, p)
		}
		sort.Strings(qualified)
		return models.Literal(src, qualified...)
	}
}

func typeArgs(list *types.TypeList) []models.TypeRef {
	if list == nil || list.Len() == 0 {
		return nil
	}
	args := make([]models.TypeRef, list.Len())
	for i := range list.Len() {
		args[i] = typeRef(list.At(i))
	}
	return args
}

func chanDir(dir types.ChanDir) models.ChanDir {
	switch dir {
	case types.SendOnly:
		return models.ChanSend
	case types.RecvOnly:
		return models.ChanRecv
	default:
		return models.ChanBoth
	}
}

// resolved reports whether t mentions no invalid type. Named types are not
// expanded: their own declaration is checked where they are declared.
func resolved(t types.Type, seen map[types.Type]bool) bool {
	if seen == nil {
		seen = make(map[types.Type]bool)
	}
	if seen[t] {
		return true
	}
	seen[t] = true

	switch t := t.(type) {
	case *types.Basic:
		return t.Kind() != types.Invalid
	case *types.Alias:
		return typeListResolved(t.TypeArgs(), seen)
	case *types.Named:
		return typeListResolved(t.TypeArgs(), seen)
	case *types.Pointer:
		return resolved(t.Elem(), seen)
	case *types.Slice:
		return resolved(t.Elem(), seen)
	case *types.Array:
		return resolved(t.Elem(), seen)
	case *types.Map:
		return resolved(t.Key(), seen) && resolved(t.Elem(), seen)
	case *types.Chan:
		return resolved(t.Elem(), seen)
	case *types.Struct:
		for i := range t.NumFields() {
			if !resolved(t.Field(i).Type(), seen) {
				return false
			}
		}
		return true
	case *types.Tuple:
		for i := range t.Len() {
			if !resolved(t.At(i).Type(), seen) {
				return false
			}
		}
		return true
	case *types.Signature:
		return resolved(t.Params(), seen) && resolved(t.Results(), seen)
	case *types.Interface:
		for i := range t.NumExplicitMethods() {
			if !resolved(t.ExplicitMethod(i).Type(), seen) {
				return false
			}
		}
		for i := range t.NumEmbeddeds() {
			if !resolved(t.EmbeddedType(i), seen) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

func typeListResolved(list *types.TypeList, seen map[types.Type]bool) bool {
	if list == nil {
		return true
	}
	for i := range list.Len() {
		if !resolved(list.At(i), seen) {
			return false
		}
	}
	return true
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
