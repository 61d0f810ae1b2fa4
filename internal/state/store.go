package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ivlev/reelprep/internal/fault"
)

// Store owns the on-disk checkpoint file. It does no locking: one run per
// checkpoint at a time is a usage precondition.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string {
	return s.path
}

// Exists reports whether a checkpoint has been written before.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load reads the checkpoint, returning an empty state when there is none yet.
func (s *Store) Load() (*GenerationState, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", fault.ErrCorruptState, s.path, err)
	}

	var st GenerationState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", fault.ErrCorruptState, s.path, err)
	}
	if st.Slides == nil {
		st.Slides = []SlideMetadata{}
	}
	return &st, nil
}

// Save writes the whole document to a temp file and renames it over the
// checkpoint, so a reader never sees a half-written state.
func (s *Store) Save(st *GenerationState) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".state-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write state: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
