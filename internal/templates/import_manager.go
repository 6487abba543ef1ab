package templates

import (
	"fmt"
	"go/token"
	"path"
	"sort"
	"strings"
)

// ImportSpec is one line of a generated import block
type ImportSpec struct {
	Alias string // empty when the package name already matches
	Path  string
}

// ImportManager assigns stable, collision-free aliases to the packages a
// generated file refers to
type ImportManager struct {
	byPath   map[string]string // path -> alias
	byAlias  map[string]string // alias -> path
	names    map[string]string // path -> declared package name
	reserved map[string]bool
}

// NewImportManager creates a new import manager. Reserved identifiers are
// never handed out as aliases.
func NewImportManager(reserved ...string) *ImportManager {
	im := &ImportManager{
		byPath:   make(map[string]string),
		byAlias:  make(map[string]string),
		names:    make(map[string]string),
		reserved: make(map[string]bool),
	}
	for _, name := range reserved {
		im.reserved[name] = true
	}
	return im
}

// AddImport registers a package and returns the identifier that refers to it.
// Adding the same path twice returns the same alias.
func (im *ImportManager) AddImport(importPath, pkgName string) string {
	if alias, exists := im.byPath[importPath]; exists {
		return alias
	}

	base := sanitizeIdent(pkgName)
	if base == "" {
		base = sanitizeIdent(path.Base(importPath))
	}
	if base == "" || base == "_" {
		base = "pkg"
	}

	alias := base
	for n := 2; im.taken(alias); n++ {
		alias = fmt.Sprintf("%s%d", base, n)
	}

	im.byPath[importPath] = alias
	im.byAlias[alias] = importPath
	im.names[importPath] = pkgName
	return alias
}

// AddFixedImport registers a package under an exact alias, failing if the
// alias is already used by another path
func (im *ImportManager) AddFixedImport(importPath, alias string) error {
	if existing, exists := im.byAlias[alias]; exists && existing != importPath {
		return fmt.Errorf("alias %s already used by %s", alias, existing)
	}
	im.byPath[importPath] = alias
	im.byAlias[alias] = importPath
	im.names[importPath] = alias
	return nil
}

// Alias returns the alias assigned to a path
func (im *ImportManager) Alias(importPath string) (string, bool) {
	alias, exists := im.byPath[importPath]
	return alias, exists
}

// Qualifier returns a function suitable for models.TypeRef.Render that
// registers packages as it meets them
func (im *ImportManager) Qualifier() func(importPath, pkgName string) string {
	return func(importPath, pkgName string) string {
		return im.AddImport(importPath, pkgName)
	}
}

// Specs returns the import lines sorted by path
func (im *ImportManager) Specs() []ImportSpec {
	paths := make([]string, 0, len(im.byPath))
	for p := range im.byPath {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	specs := make([]ImportSpec, 0, len(paths))
	for _, p := range paths {
		alias := im.byPath[p]
		spec := ImportSpec{Path: p}
		if alias != im.names[p] || alias != path.Base(p) {
			spec.Alias = alias
		}
		specs = append(specs, spec)
	}
	return specs
}

// Len returns the number of registered imports
func (im *ImportManager) Len() int {
	return len(im.byPath)
}

func (im *ImportManager) taken(alias string) bool {
	if im.reserved[alias] || token.IsKeyword(alias) {
		return true
	}
	_, used := im.byAlias[alias]
	return used
}

// sanitizeIdent turns a package name or path element into an identifier
func sanitizeIdent(s string) string {
	var sb strings.Builder
	for i, r := range s {
		switch {
		case r == '_' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z'):
			sb.WriteRune(r)
		case '0' <= r && r <= '9' && i > 0:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
