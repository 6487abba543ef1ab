package writer

import (
	"fmt"
	"go/token"

	"github.com/toyz/injector/internal/errors"
	"github.com/toyz/injector/internal/models"
	"github.com/toyz/injector/internal/templates"
)

// Default naming of generated modules
const (
	DefaultFilePrefix  = "injection_module_"
	DefaultTypePrefix  = "InjectionModule"
	DefaultPackageName = "injectgen"
)

// Naming controls how generated modules are named
type Naming struct {
	FilePrefix  string
	TypePrefix  string
	PackageName string
	ImportPath  string // import path of the output package, empty when unknown
}

// DefaultNaming returns the standard naming scheme
func DefaultNaming() Naming {
	return Naming{
		FilePrefix:  DefaultFilePrefix,
		TypePrefix:  DefaultTypePrefix,
		PackageName: DefaultPackageName,
	}
}

// Validate checks that the naming produces legal Go identifiers and file names
func (n Naming) Validate() error {
	if n.FilePrefix == "" {
		return fmt.Errorf("file prefix cannot be empty")
	}
	if err := validateName(n.FilePrefix + "0.go"); err != nil {
		return err
	}
	if !token.IsIdentifier(n.TypePrefix + "0") {
		return fmt.Errorf("type prefix %q does not form an identifier", n.TypePrefix)
	}
	if !token.IsIdentifier(n.PackageName) {
		return fmt.Errorf("package name %q is not an identifier", n.PackageName)
	}
	return nil
}

// FileName returns the artifact name for a module index
func (n Naming) FileName(index int) string {
	return fmt.Sprintf("%s%d.go", n.FilePrefix, index)
}

// TypeName returns the module type name for a module index
func (n Naming) TypeName(index int) string {
	return fmt.Sprintf("%s%d", n.TypePrefix, index)
}

// ModuleWriter turns a round's registration lines into one artifact
type ModuleWriter struct {
	store  ArtifactStore
	naming Naming
}

// NewModuleWriter creates a writer backed by store
func NewModuleWriter(store ArtifactStore, naming Naming) *ModuleWriter {
	return &ModuleWriter{store: store, naming: naming}
}

// Naming returns the writer's naming scheme
func (w *ModuleWriter) Naming() Naming {
	return w.naming
}

// NewBuilder starts the module for index. Renderers qualify packages through
// the builder's import manager so the import block matches the lines.
func (w *ModuleWriter) NewBuilder(index int) *templates.ModuleBuilder {
	return templates.NewModuleBuilder(w.naming.PackageName, w.naming.TypeName(index), index)
}

// Write renders the builder and stores it as one artifact. An empty builder
// writes nothing and returns a nil module. On any failure nothing is left in
// the store.
func (w *ModuleWriter) Write(index int, builder *templates.ModuleBuilder, bindings []models.BindingDescriptor) (*models.GeneratedModule, error) {
	if len(builder.Lines()) == 0 {
		return nil, nil
	}

	name := w.naming.FileName(index)
	content, err := builder.Build()
	if err != nil {
		return nil, errors.WrapGenerateError("format", name, err)
	}

	artifact, err := w.store.Create(name)
	if err != nil {
		return nil, err
	}
	if _, err := artifact.Write(content); err != nil {
		_ = artifact.Abort()
		return nil, errors.WrapFileSystemError("write", name, err)
	}
	if err := artifact.Close(); err != nil {
		return nil, err
	}

	return &models.GeneratedModule{
		Index:       index,
		FileName:    name,
		TypeName:    w.naming.TypeName(index),
		PackageName: w.naming.PackageName,
		Bindings:    bindings,
		Lines:       builder.Lines(),
		Content:     content,
	}, nil
}
