package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// ErrStorageDirRequired is returned when no directory is configured.
var ErrStorageDirRequired = errors.New("storage directory not provided")

// FileBackend keeps one JSON file per key inside a directory.
type FileBackend struct {
	fs  afero.Fs
	dir string
}

// NewFileBackend creates the directory on fs when needed.
func NewFileBackend(fs afero.Fs, dir string) (*FileBackend, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, ErrStorageDirRequired
	}
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &FileBackend{fs: fs, dir: dir}, nil
}

func (b *FileBackend) path(key string) string {
	return filepath.Join(b.dir, key+".json")
}

// Get returns the file contents for key.
func (b *FileBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	data, err := afero.ReadFile(b.fs, b.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", key, err)
	}
	return data, true, nil
}

// Put replaces the file for key through a temp file and rename.
func (b *FileBackend) Put(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target := b.path(key)
	tmp := target + ".tmp"

	file, err := b.fs.Create(tmp)
	if err != nil {
		return fmt.Errorf("create %s temp file: %w", key, err)
	}
	if _, err := file.Write(value); err != nil {
		file.Close()
		_ = b.fs.Remove(tmp)
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		_ = b.fs.Remove(tmp)
		return fmt.Errorf("sync %s: %w", key, err)
	}
	if err := file.Close(); err != nil {
		_ = b.fs.Remove(tmp)
		return fmt.Errorf("close %s temp file: %w", key, err)
	}
	if err := b.fs.Rename(tmp, target); err != nil {
		return fmt.Errorf("replace %s: %w", key, err)
	}
	return nil
}
