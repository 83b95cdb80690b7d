// Package pipeline implements the default two-tier image engine behind the
// fastimage orchestration layer: an in-memory LRU over a content-addressed
// disk cache, filled by HTTP fetches that are validated as decodable images
// before anything is cached. Concurrent loads of the same URI collapse into
// one fetch.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"
	"path/filepath"

	"golang.org/x/sync/singleflight"

	"github.com/kryonlabs/kryon-fastimage/fastimage"
)

// Tier identifies where an image currently resides.
type Tier uint8

const (
	TierNone Tier = iota
	TierMemory
	TierDisk
)

func (t Tier) String() string {
	switch t {
	case TierMemory:
		return "memory"
	case TierDisk:
		return "disk"
	default:
		return "none"
	}
}

// Engine is the default fastimage.Engine. All methods are safe for
// concurrent use.
type Engine struct {
	memory  *memoryCache
	disk    *diskCache
	fetcher fetcher
	group   singleflight.Group
}

var _ fastimage.Engine = (*Engine)(nil)

// New builds an Engine. Without options it caches under the user cache
// directory, holds 128 images in memory, and bounds fetches to 30s and
// 32 MiB.
func New(opts ...Option) (*Engine, error) {
	o := buildOptions(opts)

	dir := o.CacheDir
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			base = os.TempDir()
		}
		dir = filepath.Join(base, "kryon-fastimage")
	}
	disk, err := newDiskCache(dir)
	if err != nil {
		return nil, err
	}
	memory, err := newMemoryCache(o.MemoryEntries, o.MemoryTTL)
	if err != nil {
		return nil, err
	}
	log.Printf("Pipeline New: disk cache at %s.", dir)
	return &Engine{
		memory: memory,
		disk:   disk,
		fetcher: fetcher{
			client:    o.HTTPClient,
			userAgent: o.UserAgent,
			timeout:   o.RequestTimeout,
			maxBody:   o.MaxBodyBytes,
		},
	}, nil
}

// loaded is the payload a collapsed load resolves to.
type loaded struct {
	data   []byte
	format string
}

// LoadImage resolves req into the caches: memory hit, then disk hit (which
// repopulates memory), then a validated network fetch that fills both tiers.
// SkipMemoryCache keeps this URI out of the memory tier in every branch.
func (e *Engine) LoadImage(ctx context.Context, req fastimage.Request) error {
	_, _, err := e.Fetch(ctx, req)
	return err
}

// Fetch is LoadImage plus access to the payload: the encoded image bytes and
// the sniffed container format ("png", "jpeg", "gif"). Backends decode from
// these. The returned slice is shared with the cache and must be treated as
// read-only.
func (e *Engine) Fetch(ctx context.Context, req fastimage.Request) ([]byte, string, error) {
	if req.URI == "" {
		return nil, "", errors.New("empty image uri")
	}
	if !req.SkipMemoryCache {
		if entry, ok := e.memory.get(req.URI); ok {
			return entry.data, entry.format, nil
		}
	}
	v, err, _ := e.group.Do(req.URI, func() (any, error) {
		return e.load(ctx, req)
	})
	if err != nil {
		return nil, "", err
	}
	got := v.(loaded)
	return got.data, got.format, nil
}

func (e *Engine) load(ctx context.Context, req fastimage.Request) (any, error) {
	if data, err := e.disk.read(req.URI); err == nil {
		format, sniffErr := sniffImage(data)
		if sniffErr == nil {
			if !req.SkipMemoryCache {
				e.memory.add(req.URI, data, format)
			}
			return loaded{data: data, format: format}, nil
		}
		// A corrupt cache file is treated as a miss.
		log.Printf("WARN Pipeline load: dropping corrupt cache entry for %s: %v", req.URI, sniffErr)
		e.disk.remove(req.URI)
	}

	data, err := e.fetcher.fetch(ctx, req)
	if err != nil {
		return nil, err
	}
	format, err := sniffImage(data)
	if err != nil {
		return nil, err
	}
	if err := e.disk.write(req.URI, data); err != nil {
		// The image is still usable; only persistence suffered.
		log.Printf("WARN Pipeline load: disk cache write failed for %s: %v", req.URI, err)
	}
	if !req.SkipMemoryCache {
		e.memory.add(req.URI, data, format)
	}
	return loaded{data: data, format: format}, nil
}

// sniffImage validates that data decodes as an image and returns its
// container format. Anything undecodable is rejected before it can reach a
// cache tier.
func sniffImage(data []byte) (string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return format, nil
}

// CachedTier reports where uri currently resides, preferring memory. Purely
// diagnostic; the load path does its own tier checks.
func (e *Engine) CachedTier(uri string) Tier {
	if e.memory.contains(uri) {
		return TierMemory
	}
	if e.disk.contains(uri) {
		return TierDisk
	}
	return TierNone
}

// CacheDir is the disk tier's directory.
func (e *Engine) CacheDir() string {
	return e.disk.dir
}

// MemoryLen reports how many images the memory tier holds.
func (e *Engine) MemoryLen() int {
	return e.memory.len()
}

// ClearMemoryCache drops every memory tier entry.
func (e *Engine) ClearMemoryCache(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.memory.purge()
	log.Println("Pipeline ClearMemoryCache: memory tier purged.")
	return nil
}

// ClearDiskCache removes every file in the disk tier.
func (e *Engine) ClearDiskCache(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := e.disk.clear(); err != nil {
		return err
	}
	log.Println("Pipeline ClearDiskCache: disk tier cleared.")
	return nil
}

// ClearAllCaches drops both tiers.
func (e *Engine) ClearAllCaches(ctx context.Context) error {
	if err := e.ClearMemoryCache(ctx); err != nil {
		return err
	}
	return e.ClearDiskCache(ctx)
}
