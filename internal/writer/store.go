// Package writer persists generated modules through an artifact store.
package writer

import "io"

// Artifact is an in-progress output file. Nothing is visible under its name
// until Close succeeds; Abort discards everything written so far.
type Artifact interface {
	io.Writer
	Name() string
	Close() error
	Abort() error
}

// ArtifactStore creates named artifacts. Creating a name that already
// exists fails.
type ArtifactStore interface {
	Create(name string) (Artifact, error)
	Exists(name string) bool
}
