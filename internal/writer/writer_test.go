package writer

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/injector/internal/errors"
)

const bazLine = "inject.Single[int](b, func(r inject.Resolver) int { return 42 })"

func TestNaming(t *testing.T) {
	n := DefaultNaming()
	require.NoError(t, n.Validate())
	assert.Equal(t, "injection_module_0.go", n.FileName(0))
	assert.Equal(t, "injection_module_12.go", n.FileName(12))
	assert.Equal(t, "InjectionModule3", n.TypeName(3))

	assert.Error(t, Naming{FilePrefix: "", TypePrefix: "M", PackageName: "p"}.Validate())
	assert.Error(t, Naming{FilePrefix: "sub/x_", TypePrefix: "M", PackageName: "p"}.Validate())
	assert.Error(t, Naming{FilePrefix: "x_", TypePrefix: "1M", PackageName: "p"}.Validate())
	assert.Error(t, Naming{FilePrefix: "x_", TypePrefix: "M", PackageName: "my-pkg"}.Validate())
}

func TestDirStore_CreateAndClose(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDirStore(filepath.Join(dir, "gen"))
	require.NoError(t, err)

	artifact, err := store.Create("a.go")
	require.NoError(t, err)
	assert.Equal(t, "a.go", artifact.Name())
	_, err = artifact.Write([]byte("package gen\n"))
	require.NoError(t, err)

	// not visible until committed
	assert.False(t, store.Exists("a.go"))
	require.NoError(t, artifact.Close())
	assert.True(t, store.Exists("a.go"))

	content, err := os.ReadFile(store.Path("a.go"))
	require.NoError(t, err)
	assert.Equal(t, "package gen\n", string(content))

	entries, err := os.ReadDir(store.Dir())
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must be gone")

	_, err = store.Create("a.go")
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, os.ErrExist))
}

func TestDirStore_Abort(t *testing.T) {
	store, err := NewDirStore(t.TempDir())
	require.NoError(t, err)

	artifact, err := store.Create("a.go")
	require.NoError(t, err)
	_, err = artifact.Write([]byte("partial"))
	require.NoError(t, err)
	require.NoError(t, artifact.Abort())

	entries, err := os.ReadDir(store.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Error(t, artifact.Close())
}

func TestDirStore_RejectsPaths(t *testing.T) {
	store, err := NewDirStore(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"", "../x.go", "sub/x.go", ".."} {
		_, err := store.Create(name)
		assert.Error(t, err, name)
	}

	_, err = NewDirStore("")
	assert.Error(t, err)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()

	b, err := store.Create("b.go")
	require.NoError(t, err)
	a, err := store.Create("a.go")
	require.NoError(t, err)

	_, _ = b.Write([]byte("b"))
	require.NoError(t, b.Close())
	_, _ = a.Write([]byte("a"))
	require.NoError(t, a.Abort())

	assert.Equal(t, []string{"b.go"}, store.Names())
	content, ok := store.File("b.go")
	assert.True(t, ok)
	assert.Equal(t, "b", string(content))

	_, err = store.Create("b.go")
	assert.Error(t, err)
}

func TestModuleWriter_Write(t *testing.T) {
	store := NewMemoryStore()
	w := NewModuleWriter(store, DefaultNaming())

	builder := w.NewBuilder(2)
	builder.AddLine(bazLine)

	module, err := w.Write(2, builder, nil)
	require.NoError(t, err)
	require.NotNil(t, module)

	assert.Equal(t, "injection_module_2.go", module.FileName)
	assert.Equal(t, "InjectionModule2", module.TypeName)
	assert.Equal(t, "injectgen", module.PackageName)
	assert.Equal(t, []string{bazLine}, module.Lines)

	content, ok := store.File("injection_module_2.go")
	require.True(t, ok)
	assert.Equal(t, module.Content, content)
	assert.Contains(t, string(content), "type InjectionModule2 struct{}")
}

func TestModuleWriter_EmptyWritesNothing(t *testing.T) {
	store := NewMemoryStore()
	w := NewModuleWriter(store, DefaultNaming())

	module, err := w.Write(0, w.NewBuilder(0), nil)
	require.NoError(t, err)
	assert.Nil(t, module)
	assert.Empty(t, store.Names())
}

func TestModuleWriter_FormatFailureWritesNothing(t *testing.T) {
	store := NewMemoryStore()
	w := NewModuleWriter(store, DefaultNaming())

	builder := w.NewBuilder(0)
	builder.AddLine("inject.Single[(b,")

	_, err := w.Write(0, builder, nil)
	require.Error(t, err)
	var genErr *errors.GenerationError
	require.True(t, stderrors.As(err, &genErr))
	assert.Equal(t, "format", genErr.Stage)
	assert.Empty(t, store.Names())
}

type failingArtifact struct {
	aborted *bool
}

func (failingArtifact) Name() string { return "x" }
func (failingArtifact) Write(p []byte) (int, error) { return 0, stderrors.New("disk full") }
func (failingArtifact) Close() error { return nil }
func (f failingArtifact) Abort() error {
	*f.aborted = true
	return nil
}

type failingStore struct {
	aborted bool
}

func (s *failingStore) Create(string) (Artifact, error) { return failingArtifact{aborted: &s.aborted}, nil }
func (s *failingStore) Exists(string) bool { return false }

func TestModuleWriter_WriteFailureAborts(t *testing.T) {
	store := &failingStore{}
	w := NewModuleWriter(store, DefaultNaming())

	builder := w.NewBuilder(0)
	builder.AddLine(bazLine)

	module, err := w.Write(0, builder, nil)
	require.Error(t, err)
	assert.Nil(t, module)
	assert.True(t, store.aborted)
	assert.Contains(t, err.Error(), "disk full")

	var injErr errors.InjectorError
	require.True(t, stderrors.As(err, &injErr))
	assert.Equal(t, errors.FileSystemErrorCode, injErr.ErrorCode())
}
