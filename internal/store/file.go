package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
)

// FileStore keeps a single snapshot in a JSON file on disk. The key is only
// used for logging; every key shares the file.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Path() string {
	return f.path
}

// SaveSnapshot replaces the file atomically via a temp file and rename.
func (f *FileStore) SaveSnapshot(_ context.Context, key string, data []byte) error {
	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, ".aimline-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace %s: %w", f.path, err)
	}
	log.Printf("[STORE] saved snapshot for %s to %s (%d bytes)", key, f.path, len(data))
	return nil
}

func (f *FileStore) LoadSnapshot(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	log.Printf("[STORE] loaded snapshot for %s from %s", key, f.path)
	return data, nil
}

// DeleteSnapshot removes the file. Every key shares it.
func (f *FileStore) DeleteSnapshot(_ context.Context, key string) error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", f.path, err)
	}
	log.Printf("[STORE] removed snapshot for %s at %s", key, f.path)
	return nil
}
