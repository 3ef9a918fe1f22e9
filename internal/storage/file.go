package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileStore keeps the token in a single file under a state directory.
type FileStore struct {
	dir string
	key string
}

// DefaultDir returns ~/.shopdesk.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".shopdesk"), nil
}

// NewFileStore returns a store writing dir/key. An empty key means DefaultKey.
func NewFileStore(dir, key string) *FileStore {
	if key == "" {
		key = DefaultKey
	}
	return &FileStore{dir: dir, key: key}
}

// Path returns the token file path.
func (s *FileStore) Path() string {
	return filepath.Join(s.dir, s.key)
}

func (s *FileStore) Load(_ context.Context) (string, error) {
	data, err := os.ReadFile(s.Path())
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("storage.FileStore.Load: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *FileStore) Save(_ context.Context, token string) error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("storage.FileStore.Save: create %s: %w", s.dir, err)
	}
	if err := os.WriteFile(s.Path(), []byte(token), 0600); err != nil {
		return fmt.Errorf("storage.FileStore.Save: %w", err)
	}
	return nil
}

func (s *FileStore) Remove(_ context.Context) error {
	if err := os.Remove(s.Path()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage.FileStore.Remove: %w", err)
	}
	return nil
}
