package pipeline

import (
	"net/http"
	"time"
)

const (
	defaultMemoryEntries  = 128
	defaultRequestTimeout = 30 * time.Second
	defaultMaxBodyBytes   = 32 << 20 // 32 MiB
)

// Options contains the tunables of an Engine. Zero values fall back to the
// defaults documented on each option.
type Options struct {
	// CacheDir is the directory of the disk tier. Defaults to a
	// "kryon-fastimage" directory under the user cache dir.
	CacheDir string

	// MemoryEntries caps the number of decoded-payload entries in the
	// memory tier. Defaults to 128.
	MemoryEntries int

	// MemoryTTL expires memory entries after this duration. Zero keeps
	// entries until evicted by capacity, which is the default.
	MemoryTTL time.Duration

	// HTTPClient performs remote fetches. Defaults to a plain client;
	// per-request deadlines come from RequestTimeout.
	HTTPClient *http.Client

	// RequestTimeout bounds each fetch. Defaults to 30s; a negative value
	// disables the bound.
	RequestTimeout time.Duration

	// MaxBodyBytes rejects image payloads larger than this. Defaults to
	// 32 MiB; a negative value disables the limit.
	MaxBodyBytes int64

	// UserAgent is sent with every fetch when non-empty.
	UserAgent string
}

// Option configures an Engine at construction time.
type Option func(*Options)

// WithCacheDir places the disk tier at dir.
func WithCacheDir(dir string) Option {
	return func(o *Options) {
		o.CacheDir = dir
	}
}

// WithMemoryEntries caps the memory tier at n entries.
func WithMemoryEntries(n int) Option {
	return func(o *Options) {
		o.MemoryEntries = n
	}
}

// WithMemoryTTL expires memory entries after ttl.
func WithMemoryTTL(ttl time.Duration) Option {
	return func(o *Options) {
		o.MemoryTTL = ttl
	}
}

// WithHTTPClient fetches through client instead of the default.
func WithHTTPClient(client *http.Client) Option {
	return func(o *Options) {
		o.HTTPClient = client
	}
}

// WithRequestTimeout bounds each fetch to d.
func WithRequestTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.RequestTimeout = d
	}
}

// WithMaxBodyBytes rejects responses larger than n bytes.
func WithMaxBodyBytes(n int64) Option {
	return func(o *Options) {
		o.MaxBodyBytes = n
	}
}

// WithUserAgent sets the User-Agent header on fetches.
func WithUserAgent(ua string) Option {
	return func(o *Options) {
		o.UserAgent = ua
	}
}

func buildOptions(opts []Option) Options {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	if o.MemoryEntries <= 0 {
		o.MemoryEntries = defaultMemoryEntries
	}
	if o.HTTPClient == nil {
		o.HTTPClient = &http.Client{}
	}
	if o.RequestTimeout == 0 {
		o.RequestTimeout = defaultRequestTimeout
	}
	if o.MaxBodyBytes == 0 {
		o.MaxBodyBytes = defaultMaxBodyBytes
	}
	return o
}
