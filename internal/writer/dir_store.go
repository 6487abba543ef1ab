package writer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/toyz/injector/internal/errors"
)

// DirStore writes artifacts into a single directory. Content goes to a
// uniquely named temp file which is renamed into place on Close.
type DirStore struct {
	dir  string
	perm os.FileMode
}

// NewDirStore creates a store rooted at dir, creating the directory if needed
func NewDirStore(dir string) (*DirStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("output directory cannot be empty")
	}
	clean := filepath.Clean(dir)
	if err := os.MkdirAll(clean, 0755); err != nil {
		return nil, errors.WrapFileSystemError("create directory", clean, err)
	}
	return &DirStore{dir: clean, perm: 0644}, nil
}

// Dir returns the directory artifacts are written to
func (s *DirStore) Dir() string {
	return s.dir
}

// Path returns the full path an artifact name maps to
func (s *DirStore) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// Exists reports whether an artifact with this name is already on disk
func (s *DirStore) Exists(name string) bool {
	_, err := os.Stat(s.Path(name))
	return err == nil
}

// Create opens a temp file for name. The name must be a plain file name.
func (s *DirStore) Create(name string) (Artifact, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	target := s.Path(name)
	if s.Exists(name) {
		return nil, errors.WrapFileSystemError("create artifact", target, os.ErrExist)
	}

	tmp := filepath.Join(s.dir, fmt.Sprintf(".%s.%s.tmp", name, uuid.NewString()))
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, s.perm)
	if err != nil {
		return nil, errors.WrapFileSystemError("create artifact", tmp, err)
	}
	return &fileArtifact{name: name, target: target, tmp: tmp, file: f}, nil
}

type fileArtifact struct {
	name   string
	target string
	tmp    string
	file   *os.File
	done   bool
}

func (a *fileArtifact) Name() string {
	return a.name
}

func (a *fileArtifact) Write(p []byte) (int, error) {
	if a.done {
		return 0, os.ErrClosed
	}
	n, err := a.file.Write(p)
	if err != nil {
		return n, errors.WrapFileSystemError("write artifact", a.tmp, err)
	}
	return n, nil
}

// Close flushes the temp file and renames it over the target. On failure
// the temp file is removed.
func (a *fileArtifact) Close() error {
	if a.done {
		return os.ErrClosed
	}
	a.done = true

	if err := a.file.Close(); err != nil {
		_ = os.Remove(a.tmp)
		return errors.WrapFileSystemError("close artifact", a.tmp, err)
	}
	if _, err := os.Stat(a.target); err == nil {
		_ = os.Remove(a.tmp)
		return errors.WrapFileSystemError("commit artifact", a.target, os.ErrExist)
	}
	if err := os.Rename(a.tmp, a.target); err != nil {
		_ = os.Remove(a.tmp)
		return errors.WrapFileSystemError("commit artifact", a.target, err)
	}
	return nil
}

func (a *fileArtifact) Abort() error {
	if a.done {
		return nil
	}
	a.done = true
	_ = a.file.Close()
	if err := os.Remove(a.tmp); err != nil && !os.IsNotExist(err) {
		return errors.WrapFileSystemError("abort artifact", a.tmp, err)
	}
	return nil
}

func validateName(name string) error {
	if name == "" {
		return errors.New(errors.FileSystemErrorCode, "artifact name cannot be empty")
	}
	if name != filepath.Base(name) || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return errors.Newf(errors.FileSystemErrorCode, "artifact name %q must be a plain file name", name)
	}
	return nil
}
