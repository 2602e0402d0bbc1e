package cache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"

	"github.com/go-git/go-billy/v5"
	"github.com/google/uuid"
)

// File is a Provider storing one file per key under a directory on a billy
// filesystem. Writes go to a temporary file that is renamed into place, so
// readers never observe a partial entry. Processes on one host can share it.
type File struct {
	fs  billy.Filesystem
	dir string
}

// NewFile creates a File provider rooted at dir on fs.
//
// Example:
//
//	p, err := cache.NewFile(osfs.New("/"), "/var/cache/repometa")
func NewFile(fs billy.Filesystem, dir string) (*File, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	return &File{fs: fs, dir: dir}, nil
}

func (f *File) Get(_ context.Context, key string) ([]byte, bool, error) {
	file, err := f.fs.Open(f.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to open cache entry: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache entry: %w", err)
	}

	return data, true, nil
}

func (f *File) Set(_ context.Context, key string, value []byte) error {
	target := f.path(key)

	// Unique temp name so concurrent writers never share a temp file
	tmpPath := target + "." + uuid.NewString() + ".tmp"
	tmpFile, err := f.fs.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create temporary cache file: %w", err)
	}

	if _, err := tmpFile.Write(value); err != nil {
		_ = tmpFile.Close()
		_ = f.fs.Remove(tmpPath)
		return fmt.Errorf("failed to write temporary cache file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		_ = f.fs.Remove(tmpPath)
		return fmt.Errorf("failed to close temporary cache file: %w", err)
	}

	if err := f.fs.Rename(tmpPath, target); err != nil {
		_ = f.fs.Remove(tmpPath)
		return fmt.Errorf("failed to rename cache file: %w", err)
	}

	return nil
}

func (f *File) Delete(_ context.Context, key string) error {
	err := f.fs.Remove(f.path(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove cache entry: %w", err)
	}

	return nil
}

// path maps a key onto a single flat file name; identifiers contain slashes.
func (f *File) path(key string) string {
	return path.Join(f.dir, url.QueryEscape(key))
}
