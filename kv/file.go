package kv

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
)

// File stores each key as a file in a directory.
//
// Set writes to a temporary file in the same directory and renames it over
// the target, so readers never observe a partially written value.
type File struct {
	dir string
}

// NewFile returns a File store rooted at dir, creating it if needed.
func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create store directory %q: %w", dir, err)
	}
	return &File{dir: dir}, nil
}

// path maps a key to a file name that is safe on any filesystem.
func (f *File) path(key string) string {
	return filepath.Join(f.dir, url.PathEscape(key)+".blob")
}

func (f *File) Get(_ context.Context, key string) ([]byte, error) {
	content, err := os.ReadFile(f.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read %q: %w", key, err)
	}
	return content, nil
}

func (f *File) Set(_ context.Context, key string, value []byte) (err error) {
	tmp, err := os.CreateTemp(f.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("cannot create temporary file for %q: %w", key, err)
	}
	defer func() {
		if err != nil {
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(value); err != nil {
		tmp.Close()
		return fmt.Errorf("cannot write %q: %w", key, err)
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("cannot sync %q: %w", key, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("cannot close %q: %w", key, err)
	}
	if err = os.Rename(tmp.Name(), f.path(key)); err != nil {
		return fmt.Errorf("cannot replace %q: %w", key, err)
	}
	return nil
}
