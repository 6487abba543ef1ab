package parser

import (
	"context"
	"fmt"
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/toyz/injector/internal/errors"
	"github.com/toyz/injector/internal/models"
)

const loadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// LoadResult is one round's view of the source tree
type LoadResult struct {
	Declarations []models.Declaration
	Packages     []string // import paths, in load order
	TypeErrors   int      // errors the checker tolerated
}

// Loader loads packages with go/packages and extracts their declarations
type Loader struct {
	dir       string
	buildTags []string
	parser    *Parser
}

// NewLoader creates a loader resolving patterns relative to dir
func NewLoader(dir string, buildTags ...string) *Loader {
	return &Loader{dir: dir, buildTags: buildTags, parser: NewParser()}
}

// Load type-checks the packages matching patterns. Type errors are counted,
// not returned; only a failure to run the loader at all is an error.
func (l *Loader) Load(ctx context.Context, patterns ...string) (*LoadResult, error) {
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}
	cfg := &packages.Config{
		Context: ctx,
		Mode:    loadMode,
		Dir:     l.dir,
		Tests:   false,
	}
	if len(l.buildTags) > 0 {
		cfg.BuildFlags = []string{"-tags=" + joinTags(l.buildTags)}
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, errors.Wrapf(errors.FileSystemErrorCode, err, "failed to load packages %v", patterns)
	}

	result := &LoadResult{}
	for _, pkg := range pkgs {
		result.TypeErrors += len(pkg.Errors)
		if pkg.Types == nil {
			continue
		}
		result.Packages = append(result.Packages, pkg.PkgPath)
		result.Declarations = append(result.Declarations, l.parser.Declarations(Package{
			Fset:  pkg.Fset,
			Types: pkg.Types,
			Files: pkg.Syntax,
		})...)
	}
	return result, nil
}

func joinTags(tags []string) string {
	return strings.Join(tags, ",")
}

// ParseSource type-checks standalone files as the package pkgPath and
// returns its declarations. Imports resolve through the compiler's export
// data when available; anything else is left unresolved.
func (p *Parser) ParseSource(pkgPath string, sources map[string]string) ([]models.Declaration, error) {
	fset := token.NewFileSet()
	var files []*ast.File
	for _, name := range sortedKeys(sources) {
		file, err := parser.ParseFile(fset, name, sources[name], parser.ParseComments)
		if err != nil {
			return nil, fmt.Errorf("failed to parse source: %w", err)
		}
		files = append(files, file)
	}

	conf := types.Config{
		Importer: importer.ForCompiler(fset, "source", nil),
		Error:    func(error) {},
	}
	pkg, _ := conf.Check(pkgPath, fset, files, nil)
	return p.Declarations(Package{Fset: fset, Types: pkg, Files: files}), nil
}
