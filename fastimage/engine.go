package fastimage

import "context"

// Request is the unit of work handed to the Engine for a remote source: the
// URI to fetch, optional request headers, and whether the memory tier should
// be bypassed for this image.
type Request struct {
	URI             string
	Headers         map[string]string
	SkipMemoryCache bool
}

// Engine is the loading and caching boundary this package orchestrates but
// never implements. LoadImage resolves the request into the engine's caches
// (memory and disk tiers) and returns once the image is resident or the load
// has definitively failed; repeated calls for a cached request are cheap.
// The Clear methods drop cache tiers independently.
//
// Engines must be safe for concurrent use; the coordinator and the preload
// controller call LoadImage from multiple goroutines.
type Engine interface {
	LoadImage(ctx context.Context, req Request) error
	ClearMemoryCache(ctx context.Context) error
	ClearDiskCache(ctx context.Context) error
	ClearAllCaches(ctx context.Context) error
}
