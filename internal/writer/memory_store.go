package writer

import (
	"bytes"
	"os"
	"sort"
	"sync"

	"github.com/toyz/injector/internal/errors"
)

// MemoryStore keeps artifacts in memory. It backs dry runs and tests.
type MemoryStore struct {
	mu    sync.Mutex
	files map[string][]byte
	order []string
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{files: make(map[string][]byte)}
}

// Exists reports whether name has been committed
func (s *MemoryStore) Exists(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.files[name]
	return ok
}

// Create starts a buffered artifact
func (s *MemoryStore) Create(name string) (Artifact, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if s.Exists(name) {
		return nil, errors.WrapFileSystemError("create artifact", name, os.ErrExist)
	}
	return &memoryArtifact{store: s, name: name}, nil
}

// File returns the committed content of name
func (s *MemoryStore) File(name string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	content, ok := s.files[name]
	return content, ok
}

// Names returns committed artifact names in commit order
func (s *MemoryStore) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// SortedNames returns committed artifact names in lexical order
func (s *MemoryStore) SortedNames() []string {
	names := s.Names()
	sort.Strings(names)
	return names
}

func (s *MemoryStore) commit(name string, content []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[name]; ok {
		return errors.WrapFileSystemError("commit artifact", name, os.ErrExist)
	}
	s.files[name] = content
	s.order = append(s.order, name)
	return nil
}

type memoryArtifact struct {
	store *MemoryStore
	name  string
	buf   bytes.Buffer
	done  bool
}

func (a *memoryArtifact) Name() string {
	return a.name
}

func (a *memoryArtifact) Write(p []byte) (int, error) {
	if a.done {
		return 0, os.ErrClosed
	}
	return a.buf.Write(p)
}

func (a *memoryArtifact) Close() error {
	if a.done {
		return os.ErrClosed
	}
	a.done = true
	return a.store.commit(a.name, bytes.Clone(a.buf.Bytes()))
}

func (a *memoryArtifact) Abort() error {
	a.done = true
	a.buf.Reset()
	return nil
}
