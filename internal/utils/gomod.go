package utils

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
)

// ModuleInfo describes the module a directory belongs to
type ModuleInfo struct {
	Path    string // module path from the module directive
	Root    string // directory holding go.mod
	GoMod   string // path of the go.mod file
	Version string // go directive, "" when absent
}

// ImportPath returns the import path of dir, which must lie inside the module
func (m ModuleInfo) ImportPath(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	rel, err := filepath.Rel(m.Root, abs)
	if err != nil {
		return "", fmt.Errorf("%s is not inside module %s: %w", dir, m.Path, err)
	}
	if rel == "." {
		return m.Path, nil
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is not inside module %s", dir, m.Path)
	}
	return path.Join(m.Path, filepath.ToSlash(rel)), nil
}

// GoModParser provides utilities for parsing go.mod files
type GoModParser struct{}

// NewGoModParser creates a new go.mod parser
func NewGoModParser() *GoModParser {
	return &GoModParser{}
}

// Parse reads the module directive of a go.mod file
func (p *GoModParser) Parse(goModPath string) (ModuleInfo, error) {
	cleanPath := filepath.Clean(goModPath)
	if filepath.Base(cleanPath) != "go.mod" {
		return ModuleInfo{}, fmt.Errorf("file is not a go.mod file: %s", goModPath)
	}

	content, err := os.ReadFile(cleanPath)
	if err != nil {
		return ModuleInfo{}, fmt.Errorf("failed to read go.mod file: %w", err)
	}

	modFile, err := modfile.ParseLax(cleanPath, content, nil)
	if err != nil {
		return ModuleInfo{}, fmt.Errorf("failed to parse go.mod file: %w", err)
	}
	if modFile.Module == nil {
		return ModuleInfo{}, fmt.Errorf("no module declaration found in %s", cleanPath)
	}

	root, err := filepath.Abs(filepath.Dir(cleanPath))
	if err != nil {
		return ModuleInfo{}, err
	}
	info := ModuleInfo{Path: modFile.Module.Mod.Path, Root: root, GoMod: cleanPath}
	if modFile.Go != nil {
		info.Version = modFile.Go.Version
	}
	return info, nil
}

// FindGoModFile searches for go.mod starting from startDir and walking up
func (p *GoModParser) FindGoModFile(startDir string) (string, error) {
	currentDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		goModPath := filepath.Join(currentDir, "go.mod")
		if info, err := os.Stat(goModPath); err == nil && !info.IsDir() {
			return goModPath, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return "", fmt.Errorf("go.mod file not found above %s", startDir)
}

// Resolve finds and parses the go.mod governing dir
func (p *GoModParser) Resolve(dir string) (ModuleInfo, error) {
	goModPath, err := p.FindGoModFile(dir)
	if err != nil {
		return ModuleInfo{}, err
	}
	return p.Parse(goModPath)
}
