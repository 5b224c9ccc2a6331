package model

import (
	"fmt"
	"sync/atomic"
)

// Store holds the artifact the serving path reads. The pointer swaps
// atomically, so readers either see the previous artifact or the new one,
// never a partial load; a failed load or reload leaves the installed
// artifact untouched.
type Store struct {
	path string
	ptr  atomic.Pointer[Artifact]
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string { return s.path }

// Current returns the installed artifact, nil when none has loaded yet.
// Callers take the snapshot once per request so a concurrent swap cannot
// split a batch across two artifacts.
func (s *Store) Current() *Artifact {
	return s.ptr.Load()
}

func (s *Store) Loaded() bool {
	return s.ptr.Load() != nil
}

// Load reads the configured path and installs the artifact on success.
// Used both at startup and for admin-triggered reloads.
func (s *Store) Load() (Info, error) {
	artifact, err := Load(s.path)
	if err != nil {
		return Info{}, fmt.Errorf("load model from %s: %w", s.path, err)
	}
	s.ptr.Store(artifact)
	return artifact.Metadata(), nil
}

// Install swaps in an already-built artifact. Tests use it to avoid disk
// fixtures.
func (s *Store) Install(a *Artifact) {
	s.ptr.Store(a)
}
