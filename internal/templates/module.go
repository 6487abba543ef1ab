// Package templates renders generated module files through a fixed grammar:
// header, package clause, import block, module type, registration block.
package templates

import (
	"bytes"
	"fmt"
	"go/format"
	"go/token"
	"text/template"
)

// ContractImportPath is the package every generated module implements
const ContractImportPath = "github.com/toyz/injector/pkg/inject"

// ContractAlias is the identifier generated code uses for ContractImportPath
const ContractAlias = "inject"

// Identifiers used inside the generated Register method
const (
	BinderVar   = "b"
	ResolverVar = "r"
)

var moduleTemplate = template.Must(template.New("module").Parse(`// Code generated by injector. DO NOT EDIT.

package {{.Package}}

import (
{{- range .Imports}}
	{{if .Alias}}{{.Alias}} {{end}}"{{.Path}}"
{{- end}}
)

// {{.TypeName}} holds the singleton bindings found in generation round {{.Index}}.
type {{.TypeName}} struct{}

var _ {{.Contract}}.Module = {{.TypeName}}{}

func init() {
	{{.Contract}}.RegisterModule({{.TypeName}}{})
}

// Register implements {{.Contract}}.Module.
func ({{.TypeName}}) Register({{.Binder}} {{.Contract}}.Binder) {
{{- range .Lines}}
	{{.}}
{{- end}}
}
`))

type moduleData struct {
	Package  string
	Imports  []ImportSpec
	TypeName string
	Index    int
	Contract string
	Binder   string
	Lines    []string
}

// ModuleBuilder assembles one generated module. Lines are added in order and
// the file is only produced by Build, which guarantees well-formed output.
type ModuleBuilder struct {
	packageName string
	typeName    string
	index       int
	imports     *ImportManager
	lines       []string
}

// NewModuleBuilder creates a builder for the module type typeName in package
// packageName. The contract import is always present.
func NewModuleBuilder(packageName, typeName string, index int) *ModuleBuilder {
	imports := NewImportManager(BinderVar, ResolverVar, typeName)
	// the contract alias is registered first so it can never collide
	_ = imports.AddFixedImport(ContractImportPath, ContractAlias)
	return &ModuleBuilder{
		packageName: packageName,
		typeName:    typeName,
		index:       index,
		imports:     imports,
	}
}

// Imports exposes the builder's import manager so renderers can qualify types
func (b *ModuleBuilder) Imports() *ImportManager {
	return b.imports
}

// AddLine appends one registration statement
func (b *ModuleBuilder) AddLine(line string) {
	b.lines = append(b.lines, line)
}

// Lines returns the registration statements added so far
func (b *ModuleBuilder) Lines() []string {
	return b.lines
}

// Build renders and gofmt-formats the module. Any syntax problem in the
// assembled file is returned as an error and no content is produced.
func (b *ModuleBuilder) Build() ([]byte, error) {
	if !token.IsIdentifier(b.packageName) {
		return nil, fmt.Errorf("invalid package name %q", b.packageName)
	}
	if !token.IsIdentifier(b.typeName) {
		return nil, fmt.Errorf("invalid module type name %q", b.typeName)
	}

	var buf bytes.Buffer
	err := moduleTemplate.Execute(&buf, moduleData{
		Package:  b.packageName,
		Imports:  b.imports.Specs(),
		TypeName: b.typeName,
		Index:    b.index,
		Contract: ContractAlias,
		Binder:   BinderVar,
		Lines:    b.lines,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute module template: %w", err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("generated module is not valid Go: %w", err)
	}
	return formatted, nil
}
