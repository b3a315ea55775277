package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/samdwyer/duelsim/internal/game"
)

// FileStore keeps one JSON document per challenge in a directory. Writes go
// to a temp file that is renamed over the original.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore creates the directory if needed and returns a store over it.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store dir %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// Create stores a new challenge.
func (s *FileStore) Create(_ context.Context, c *game.Challenge) error {
	if err := checkID(c.ID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path(c.ID)); err == nil {
		return fmt.Errorf("%w: %s", ErrExists, c.ID)
	}
	return s.write(c)
}

// Get loads a challenge.
func (s *FileStore) Get(_ context.Context, id string) (*game.Challenge, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(id)
}

// Update applies fn to the stored challenge and writes the result. Nothing is
// written when fn fails.
func (s *FileStore) Update(_ context.Context, id string, fn func(*game.Challenge) error) (*game.Challenge, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.read(id)
	if err != nil {
		return nil, err
	}
	if err := fn(c); err != nil {
		return nil, err
	}
	c.ID = id
	if err := s.write(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *FileStore) read(id string) (*game.Challenge, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("reading challenge %s: %w", id, err)
	}
	var c game.Challenge
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decoding challenge %s: %w", id, err)
	}
	return &c, nil
}

func (s *FileStore) write(c *game.Challenge) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding challenge %s: %w", c.ID, err)
	}
	tmp, err := os.CreateTemp(s.dir, c.ID+".*.tmp")
	if err != nil {
		return fmt.Errorf("writing challenge %s: %w", c.ID, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing challenge %s: %w", c.ID, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing challenge %s: %w", c.ID, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing challenge %s: %w", c.ID, err)
	}
	if err := os.Rename(tmp.Name(), s.path(c.ID)); err != nil {
		return fmt.Errorf("replacing challenge %s: %w", c.ID, err)
	}
	return nil
}

var _ game.ChallengeStore = (*FileStore)(nil)
