package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, []string{"./..."}, cfg.Patterns)
	assert.Equal(t, "injectgen", cfg.Package)
	assert.Equal(t, "injection_module_", cfg.FilePrefix)
	assert.Equal(t, "InjectionModule", cfg.TypePrefix)
	assert.Equal(t, DefaultMaxRounds, cfg.MaxRounds)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "injector.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
patterns:
  - ./internal/...
output: internal/di
package: di
max_rounds: 3
build_tags: [integration]
level: debug
`), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, []string{"./internal/..."}, cfg.Patterns)
	assert.Equal(t, "internal/di", cfg.OutputDir)
	assert.Equal(t, "di", cfg.Package)
	assert.Equal(t, 3, cfg.MaxRounds)
	assert.Equal(t, []string{"integration"}, cfg.BuildTags)
	assert.Equal(t, "debug", cfg.Level)
	// unset keys keep their defaults
	assert.Equal(t, "injection_module_", cfg.FilePrefix)
}

func TestLoadConfig_Missing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)

	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(wd)

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "injector.yaml")
	require.NoError(t, os.WriteFile(path, []byte("patterns: [unterminated"), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "no patterns", mutate: func(c *Config) { c.Patterns = nil }, wantErr: "patterns is required"},
		{name: "empty pattern", mutate: func(c *Config) { c.Patterns = []string{""} }, wantErr: "is required"},
		{name: "bad package", mutate: func(c *Config) { c.Package = "my-pkg" }, wantErr: "package must be a Go identifier"},
		{name: "bad type prefix", mutate: func(c *Config) { c.TypePrefix = "9Module" }, wantErr: "typeprefix must be a Go identifier"},
		{name: "prefix with slash", mutate: func(c *Config) { c.FilePrefix = "gen/x_" }, wantErr: "path separators"},
		{name: "zero rounds", mutate: func(c *Config) { c.MaxRounds = 0 }, wantErr: "maxrounds must be at least 1"},
		{name: "unknown level", mutate: func(c *Config) { c.Level = "loud" }, wantErr: "level must be one of"},
		{name: "no output", mutate: func(c *Config) { c.OutputDir = "" }, wantErr: "outputdir is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
