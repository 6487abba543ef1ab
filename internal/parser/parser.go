// Package parser presents type-checked Go declarations to the generator.
// Type errors never stop extraction: a declaration that mentions something
// the checker could not resolve is reported as unresolved instead.
package parser

import (
	"go/ast"
	"go/token"
	"go/types"

	"github.com/toyz/injector/internal/annotations"
	"github.com/toyz/injector/internal/errors"
	"github.com/toyz/injector/internal/models"
)

// Parser turns a checked package into declarations
type Parser struct {
	markers *annotations.Parser
}

// NewParser creates a new declaration parser
func NewParser() *Parser {
	return &Parser{markers: annotations.NewParser()}
}

// Package is the part of a loaded package the parser needs
type Package struct {
	Fset  *token.FileSet
	Types *types.Package
	Files []*ast.File
}

// Declarations returns every top-level declaration of pkg in file order.
// Methods are skipped; they cannot carry a binding.
func (p *Parser) Declarations(pkg Package) []models.Declaration {
	if pkg.Types == nil {
		return nil
	}

	var decls []models.Declaration
	for _, file := range pkg.Files {
		for _, node := range file.Decls {
			switch node := node.(type) {
			case *ast.GenDecl:
				decls = append(decls, p.genDecl(pkg, node)...)
			case *ast.FuncDecl:
				if node.Recv != nil {
					continue
				}
				decls = append(decls, &models.FunctionDecl{
					DeclBase: p.base(pkg, node.Name, node.Doc, node.Pos()),
				})
			}
		}
	}
	return decls
}

func (p *Parser) genDecl(pkg Package, node *ast.GenDecl) []models.Declaration {
	var decls []models.Declaration
	for _, spec := range node.Specs {
		switch spec := spec.(type) {
		case *ast.TypeSpec:
			doc := spec.Doc
			if doc == nil && !node.Lparen.IsValid() {
				doc = node.Doc
			}
			decls = append(decls, p.typeDecl(pkg, spec, doc))
		case *ast.ValueSpec:
			doc := spec.Doc
			if doc == nil && !node.Lparen.IsValid() {
				doc = node.Doc
			}
			for _, name := range spec.Names {
				if name.Name == "_" {
					continue
				}
				base := p.base(pkg, name, doc, name.Pos())
				if obj := pkg.Types.Scope().Lookup(name.Name); obj != nil {
					base.Complete = resolved(obj.Type(), nil)
				}
				decls = append(decls, &models.OtherDecl{DeclBase: base, Kind: node.Tok.String()})
			}
		}
	}
	return decls
}

func (p *Parser) typeDecl(pkg Package, spec *ast.TypeSpec, doc *ast.CommentGroup) models.Declaration {
	base := p.base(pkg, spec.Name, doc, spec.Pos())

	obj, _ := pkg.Types.Scope().Lookup(spec.Name.Name).(*types.TypeName)
	if obj == nil {
		base.Complete = false
		return &models.OtherDecl{DeclBase: base, Kind: "type"}
	}

	if spec.Assign.IsValid() {
		base.Complete = resolved(types.Unalias(obj.Type()), nil)
		return &models.OtherDecl{DeclBase: base, Kind: "alias"}
	}

	underlying := obj.Type().Underlying()
	base.Complete = resolved(underlying, nil)

	switch underlying.(type) {
	case *types.Struct:
	case *types.Interface:
		return &models.OtherDecl{DeclBase: base, Kind: "interface"}
	case *types.Basic:
		if !base.Complete {
			// the underlying type itself did not resolve; it may still
			// turn out to be a struct
			return &models.ClassDecl{DeclBase: base, Exported: obj.Exported()}
		}
		return &models.OtherDecl{DeclBase: base, Kind: "type"}
	default:
		return &models.OtherDecl{DeclBase: base, Kind: "type"}
	}

	decl := &models.ClassDecl{
		DeclBase: base,
		Exported: obj.Exported(),
		Generic:  spec.TypeParams != nil && spec.TypeParams.NumFields() > 0,
	}
	decl.Constructor = p.constructor(pkg, decl)
	return decl
}

// constructor finds New<Type>, or the function named by the marker's
// Constructor option
func (p *Parser) constructor(pkg Package, decl *models.ClassDecl) *models.Constructor {
	name := "New" + decl.Name
	for _, marker := range decl.Marks {
		if override := marker.Constructor(); override != "" {
			name = override
		}
	}

	fn, ok := pkg.Types.Scope().Lookup(name).(*types.Func)
	if !ok {
		return nil
	}
	sig, ok := fn.Type().(*types.Signature)
	if !ok || sig.Recv() != nil {
		return nil
	}

	ctor := &models.Constructor{
		Name:     fn.Name(),
		Exported: fn.Exported(),
		Variadic: sig.Variadic(),
		Loc:      location(pkg.Fset, fn.Pos()),
	}
	params := sig.Params()
	for i := range params.Len() {
		param := params.At(i)
		ctor.Params = append(ctor.Params, models.Param{Name: param.Name(), Type: typeRef(param.Type())})
	}
	results := sig.Results()
	for i := range results.Len() {
		ctor.Results = append(ctor.Results, typeRef(results.At(i).Type()))
	}
	return ctor
}

func (p *Parser) base(pkg Package, name *ast.Ident, doc *ast.CommentGroup, pos token.Pos) models.DeclBase {
	base := models.DeclBase{
		PkgPath:  pkg.Types.Path(),
		PkgName:  pkg.Types.Name(),
		Name:     name.Name,
		Loc:      location(pkg.Fset, pos),
		Complete: true,
	}
	if doc == nil {
		return base
	}
	for _, comment := range doc.List {
		if !annotations.IsMarker(comment.Text) {
			continue
		}
		// a marker that fails to parse is kept with its error attached
		marker, _ := p.markers.Parse(comment.Text, location(pkg.Fset, comment.Pos()))
		base.Marks = append(base.Marks, marker)
	}
	return base
}

func location(fset *token.FileSet, pos token.Pos) errors.SourceLocation {
	if fset == nil || !pos.IsValid() {
		return errors.SourceLocation{}
	}
	position := fset.Position(pos)
	return errors.SourceLocation{
		File:   position.Filename,
		Line:   position.Line,
		Column: position.Column,
	}
}
