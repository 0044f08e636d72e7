package bindstate

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Store manages persistence of a single bind record to a file, as an
// opaque DER blob. The sink is atomic at the blob level: Save never
// leaves a partially-written file visible at path.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore creates a Store writing to path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Save DER-encodes record and atomically replaces the file at path: the
// new content is written to a temporary file in the same directory and
// then renamed over the destination, so a crash or concurrent Load never
// observes a half-written blob.
func (s *Store) Save(record *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := Encode(record)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("bindstate: creating %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("bindstate: creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("bindstate: writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("bindstate: closing temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("bindstate: renaming into place: %w", err)
	}
	return nil
}

// Load reads and decodes the bind record from path. It returns nil, nil
// if no record has been saved yet.
func (s *Store) Load() (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("bindstate: reading %s: %w", s.path, err)
	}

	return Decode(data)
}

// Clear removes the persisted record, if any.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
