package utils

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const prefix = "injection_module_"

func TestGeneratedFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"injection_module_0.go", "injection_module_12.go", "injection_module_x.go", "injection_module_1.go.tmp", "main.go"} {
		writeFile(t, filepath.Join(dir, name), "package gen\n")
	}

	files, err := GeneratedFiles(dir, prefix)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "injection_module_0.go"),
		filepath.Join(dir, "injection_module_12.go"),
	}, files)

	files, err = GeneratedFiles(filepath.Join(dir, "missing"), prefix)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestWalkGeneratedFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "injection_module_0.go"), "package a\n")
	writeFile(t, filepath.Join(root, "a", "b", "injection_module_3.go"), "package b\n")
	writeFile(t, filepath.Join(root, "vendor", "x", "injection_module_0.go"), "package x\n")
	writeFile(t, filepath.Join(root, ".hidden", "injection_module_0.go"), "package h\n")

	files, err := WalkGeneratedFiles(root, prefix)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a", "b", "injection_module_3.go"),
		filepath.Join(root, "a", "injection_module_0.go"),
	}, files)
}
