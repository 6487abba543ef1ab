package cli

import (
	"fmt"

	"github.com/toyz/injector/internal/utils"
)

// OutputTarget is where generated modules go, in module terms
type OutputTarget struct {
	Module     utils.ModuleInfo
	ImportPath string // import path of the output package
}

// ModuleResolver handles resolving Go module information
type ModuleResolver struct {
	gomod *utils.GoModParser
}

// NewModuleResolver creates a new module resolver
func NewModuleResolver() *ModuleResolver {
	return &ModuleResolver{gomod: utils.NewGoModParser()}
}

// ResolveModule finds the module governing dir
func (r *ModuleResolver) ResolveModule(dir string) (utils.ModuleInfo, error) {
	info, err := r.gomod.Resolve(dir)
	if err != nil {
		return utils.ModuleInfo{}, fmt.Errorf("failed to determine module: %w", err)
	}
	return info, nil
}

// ResolveOutput resolves the import path the output directory will have.
// The output package must live inside the scanned module so the generated
// imports resolve against the same go.mod.
func (r *ModuleResolver) ResolveOutput(dir, outputDir string) (OutputTarget, error) {
	info, err := r.ResolveModule(dir)
	if err != nil {
		return OutputTarget{}, err
	}
	importPath, err := info.ImportPath(outputDir)
	if err != nil {
		return OutputTarget{}, fmt.Errorf("output directory: %w", err)
	}
	return OutputTarget{Module: info, ImportPath: importPath}, nil
}
