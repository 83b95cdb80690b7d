package fastimage

import (
	"context"
	"log"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Client binds views and batch operations to one Engine. A process typically
// holds a single Client for its image pipeline and creates views through it.
type Client struct {
	engine       Engine
	preloadLimit int
}

// ClientOption configures a Client at construction time.
type ClientOption func(*Client)

// WithPreloadConcurrency caps how many preload fetches run in parallel per
// batch. Zero or negative means unlimited.
func WithPreloadConcurrency(n int) ClientOption {
	return func(c *Client) {
		c.preloadLimit = n
	}
}

// NewClient wraps engine for use by views and preloads.
func NewClient(engine Engine, opts ...ClientOption) (*Client, error) {
	if engine == nil {
		return nil, ErrNilEngine
	}
	c := &Client{engine: engine}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Preload warms the engine's caches for every source in the batch and
// returns a channel that is closed exactly once, after all of them have
// settled. The batch never fails as a whole: individual load errors are
// logged and counted, invalid sources count as failures, local sources
// settle immediately, and an empty batch yields an already-closed channel.
//
// Preloading is fire and forget; nothing cancels it and callers are free to
// ignore the returned channel.
func (c *Client) Preload(sources ...Source) <-chan struct{} {
	done := make(chan struct{})
	if len(sources) == 0 {
		close(done)
		return done
	}

	var loaded, failed atomic.Int64
	var g errgroup.Group
	if c.preloadLimit > 0 {
		g.SetLimit(c.preloadLimit)
	}
	go func() {
		// The fan-out runs off the caller's goroutine: with a concurrency
		// limit set, g.Go blocks while every slot is busy.
		for _, src := range sources {
			g.Go(func() error {
				if err := c.preloadOne(src); err != nil {
					failed.Add(1)
					log.Printf("WARN Preload: %v", err)
					return nil
				}
				loaded.Add(1)
				return nil
			})
		}
		// The workers never return errors; Wait is purely the settlement
		// counter for the batch.
		_ = g.Wait()
		log.Printf("Preload: batch settled: %d loaded, %d failed.", loaded.Load(), failed.Load())
		close(done)
	}()
	return done
}

func (c *Client) preloadOne(src Source) error {
	if err := src.Validate(); err != nil {
		return err
	}
	req, ok := src.Request()
	if !ok {
		// Bundled assets have nothing to warm.
		return nil
	}
	if err := c.engine.LoadImage(context.Background(), req); err != nil {
		return &LoadError{Op: "preload", URI: req.URI, Err: err}
	}
	return nil
}

// ClearMemoryCache drops the engine's memory tier.
func (c *Client) ClearMemoryCache(ctx context.Context) error {
	return c.engine.ClearMemoryCache(ctx)
}

// ClearDiskCache drops the engine's disk tier.
func (c *Client) ClearDiskCache(ctx context.Context) error {
	return c.engine.ClearDiskCache(ctx)
}

// ClearAllCaches drops both tiers.
func (c *Client) ClearAllCaches(ctx context.Context) error {
	return c.engine.ClearAllCaches(ctx)
}
