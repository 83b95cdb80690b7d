package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/opencontainers/go-digest"
)

// diskCache is the second tier: one file per image under dir, named by the
// sha256 digest of the URI so arbitrary URIs map to safe filenames. Writes
// go through a temp file and rename, so readers never observe a partial
// payload.
type diskCache struct {
	dir string

	// mu serializes clear against reads and writes; entry operations for
	// different URIs otherwise run concurrently.
	mu sync.RWMutex
}

func newDiskCache(dir string) (*diskCache, error) {
	if dir == "" {
		return nil, errors.New("empty disk cache dir")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir %s: %w", dir, err)
	}
	return &diskCache{dir: dir}, nil
}

func (d *diskCache) path(uri string) string {
	return filepath.Join(d.dir, digest.FromString(uri).Encoded())
}

func (d *diskCache) read(uri string) ([]byte, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	data, err := os.ReadFile(d.path(uri))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotCached
		}
		return nil, fmt.Errorf("read cached image: %w", err)
	}
	return data, nil
}

func (d *diskCache) write(uri string, data []byte) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	tmp, err := os.CreateTemp(d.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), d.path(uri)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("publish cached image: %w", err)
	}
	return nil
}

func (d *diskCache) remove(uri string) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	os.Remove(d.path(uri))
}

func (d *diskCache) contains(uri string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	info, err := os.Stat(d.path(uri))
	return err == nil && info.Mode().IsRegular()
}

// clear removes the whole tier and recreates the directory.
func (d *diskCache) clear() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := os.RemoveAll(d.dir); err != nil {
		return fmt.Errorf("clear disk cache: %w", err)
	}
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("recreate cache dir: %w", err)
	}
	return nil
}
