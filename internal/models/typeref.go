package models

import (
	"fmt"
	"go/token"
	"strings"
)

// TypeKind identifies the shape of a TypeRef
type TypeKind int

const (
	InvalidType TypeKind = iota
	BasicType
	NamedType
	PointerType
	SliceType
	ArrayType
	MapType
	ChanType
	LiteralType
)

// ChanDir is the direction of a channel type
type ChanDir int

const (
	ChanBoth ChanDir = iota
	ChanSend
	ChanRecv
)

// TypeRef is a package-independent description of a Go type that can be
// rendered into any file once its packages have import aliases.
type TypeRef struct {
	Kind    TypeKind
	Name    string    // basic or named type identifier, literal source, or invalid type text
	PkgPath string    // import path for named types, "" for predeclared ones
	PkgName string    // package name for named types
	Args    []TypeRef // type arguments of an instantiated generic type
	Elem    *TypeRef  // pointer, slice, array, map value and chan element
	Key     *TypeRef  // map key
	Len     int64     // array length
	Dir     ChanDir   // chan direction

	// Qualified holds the import paths a literal type mentions. Literals are
	// rendered verbatim, so any package reference makes them unrenderable.
	Qualified []string
}

// Qualifier returns the identifier used to reference a package in the
// rendered output
type Qualifier func(pkgPath, pkgName string) string

// Basic returns a predeclared type such as int or string
func Basic(name string) TypeRef {
	return TypeRef{Kind: BasicType, Name: name}
}

// Named returns a named type, optionally instantiated with type arguments
func Named(pkgPath, pkgName, name string, args ...TypeRef) TypeRef {
	return TypeRef{Kind: NamedType, PkgPath: pkgPath, PkgName: pkgName, Name: name, Args: args}
}

// PointerTo returns *elem
func PointerTo(elem TypeRef) TypeRef {
	return TypeRef{Kind: PointerType, Elem: &elem}
}

// SliceOf returns []elem
func SliceOf(elem TypeRef) TypeRef {
	return TypeRef{Kind: SliceType, Elem: &elem}
}

// ArrayOf returns [n]elem
func ArrayOf(n int64, elem TypeRef) TypeRef {
	return TypeRef{Kind: ArrayType, Len: n, Elem: &elem}
}

// MapOf returns map[key]elem
func MapOf(key, elem TypeRef) TypeRef {
	return TypeRef{Kind: MapType, Key: &key, Elem: &elem}
}

// ChanOf returns a channel of elem with the given direction
func ChanOf(dir ChanDir, elem TypeRef) TypeRef {
	return TypeRef{Kind: ChanType, Dir: dir, Elem: &elem}
}

// Literal returns an unnamed func, struct or interface type written as src
func Literal(src string, qualified ...string) TypeRef {
	return TypeRef{Kind: LiteralType, Name: src, Qualified: qualified}
}

// Invalid returns a type the host could not resolve
func Invalid(src string) TypeRef {
	return TypeRef{Kind: InvalidType, Name: src}
}

// Valid reports whether the type and everything it mentions resolved
func (t TypeRef) Valid() bool {
	switch t.Kind {
	case InvalidType:
		return false
	case NamedType:
		for _, arg := range t.Args {
			if !arg.Valid() {
				return false
			}
		}
		return true
	case PointerType, SliceType, ArrayType, ChanType:
		return t.Elem != nil && t.Elem.Valid()
	case MapType:
		return t.Key != nil && t.Elem != nil && t.Key.Valid() && t.Elem.Valid()
	default:
		return true
	}
}

// Renderable returns an error when the type cannot be written outside its
// declaring package
func (t TypeRef) Renderable() error {
	switch t.Kind {
	case InvalidType:
		return fmt.Errorf("type %s is not resolved", t.Name)
	case NamedType:
		if t.PkgPath != "" && !token.IsExported(t.Name) {
			return fmt.Errorf("type %s.%s is unexported", t.PkgName, t.Name)
		}
		for _, arg := range t.Args {
			if err := arg.Renderable(); err != nil {
				return err
			}
		}
	case LiteralType:
		if len(t.Qualified) > 0 {
			return fmt.Errorf("type %s refers to packages %s; declare a named type for it", t.Name, strings.Join(t.Qualified, ", "))
		}
	case MapType:
		if err := t.Key.Renderable(); err != nil {
			return err
		}
		return t.Elem.Renderable()
	case PointerType, SliceType, ArrayType, ChanType:
		return t.Elem.Renderable()
	}
	return nil
}

// Packages returns the import paths of every named type in t, in first-seen order
func (t TypeRef) Packages() []PackageRef {
	var refs []PackageRef
	seen := make(map[string]bool)
	t.walk(func(n TypeRef) {
		if n.Kind == NamedType && n.PkgPath != "" && !seen[n.PkgPath] {
			seen[n.PkgPath] = true
			refs = append(refs, PackageRef{Path: n.PkgPath, Name: n.PkgName})
		}
	})
	return refs
}

func (t TypeRef) walk(fn func(TypeRef)) {
	fn(t)
	for _, arg := range t.Args {
		arg.walk(fn)
	}
	if t.Key != nil {
		t.Key.walk(fn)
	}
	if t.Elem != nil {
		t.Elem.walk(fn)
	}
}

// Render writes the type using q to qualify package references
func (t TypeRef) Render(q Qualifier) string {
	var sb strings.Builder
	t.render(&sb, q)
	return sb.String()
}

// String renders the type qualified by package name, for diagnostics
func (t TypeRef) String() string {
	return t.Render(func(_, name string) string { return name })
}

func (t TypeRef) render(sb *strings.Builder, q Qualifier) {
	switch t.Kind {
	case InvalidType, BasicType, LiteralType:
		sb.WriteString(t.Name)
	case NamedType:
		if t.PkgPath != "" {
			if prefix := q(t.PkgPath, t.PkgName); prefix != "" {
				sb.WriteString(prefix)
				sb.WriteByte('.')
			}
		}
		sb.WriteString(t.Name)
		if len(t.Args) > 0 {
			sb.WriteByte('[')
			for i, arg := range t.Args {
				if i > 0 {
					sb.WriteString(", ")
				}
				arg.render(sb, q)
			}
			sb.WriteByte(']')
		}
	case PointerType:
		sb.WriteByte('*')
		t.Elem.render(sb, q)
	case SliceType:
		sb.WriteString("[]")
		t.Elem.render(sb, q)
	case ArrayType:
		fmt.Fprintf(sb, "[%d]", t.Len)
		t.Elem.render(sb, q)
	case MapType:
		sb.WriteString("map[")
		t.Key.render(sb, q)
		sb.WriteByte(']')
		t.Elem.render(sb, q)
	case ChanType:
		switch t.Dir {
		case ChanSend:
			sb.WriteString("chan<- ")
		case ChanRecv:
			sb.WriteString("<-chan ")
		default:
			sb.WriteString("chan ")
		}
		// chan (<-chan T) needs parentheses to keep its meaning
		if t.Dir != ChanRecv && t.Elem.Kind == ChanType && t.Elem.Dir == ChanRecv {
			sb.WriteByte('(')
			t.Elem.render(sb, q)
			sb.WriteByte(')')
			return
		}
		t.Elem.render(sb, q)
	}
}

// PackageRef is an import path with the package's declared name
type PackageRef struct {
	Path string
	Name string
}
