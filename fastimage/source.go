package fastimage

import (
	_ "embed"
)

//go:embed assets/placeholder.png
var placeholderPNG []byte

// Asset is an opaque handle to a local image: either a file on disk (Path)
// or bytes bundled with the application (Data). Local assets never touch the
// network or the cache engine.
type Asset struct {
	// Name identifies the asset for logging and texture keying. For file
	// assets an empty Name falls back to Path.
	Name string

	// Path locates the asset on disk. Ignored when Data is set.
	Path string

	// Data holds the encoded image bytes, typically from go:embed.
	Data []byte
}

// Key is the identity assets are cached and keyed under by backends.
func (a Asset) Key() string {
	if a.Name != "" {
		return "asset:" + a.Name
	}
	return "asset:" + a.Path
}

func (a Asset) isZero() bool {
	return a.Name == "" && a.Path == "" && len(a.Data) == 0
}

// Placeholder returns the built-in asset painted when a load fails and no
// fallback source is configured.
func Placeholder() Asset {
	return Asset{Name: "builtin/placeholder", Data: placeholderPNG}
}

type sourceKind uint8

const (
	sourceZero sourceKind = iota
	sourceLocal
	sourceRemote
)

// Source identifies what image to show: exactly one of a local asset or a
// remote descriptor (URI + optional headers). The zero Source is invalid and
// yields ErrInvalidSource from Validate.
type Source struct {
	kind  sourceKind
	asset Asset

	uri     string
	headers map[string]string
	skipMem bool
}

// RemoteOption customizes a remote Source.
type RemoteOption func(*Source)

// WithHeaders attaches request headers sent when fetching the image.
func WithHeaders(headers map[string]string) RemoteOption {
	return func(s *Source) {
		for k, v := range headers {
			if s.headers == nil {
				s.headers = make(map[string]string, len(headers))
			}
			s.headers[k] = v
		}
	}
}

// WithHeader attaches a single request header.
func WithHeader(key, value string) RemoteOption {
	return func(s *Source) {
		if s.headers == nil {
			s.headers = make(map[string]string, 1)
		}
		s.headers[key] = value
	}
}

// WithSkipMemoryCache keeps this image out of the engine's memory tier; it is
// still cached on disk.
func WithSkipMemoryCache() RemoteOption {
	return func(s *Source) {
		s.skipMem = true
	}
}

// Remote builds a Source for an image fetched over the network and cached by
// the pipeline engine. An empty uri produces an invalid Source.
func Remote(uri string, opts ...RemoteOption) Source {
	s := Source{kind: sourceRemote, uri: uri}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Local builds a Source for a bundled or on-disk asset.
func Local(asset Asset) Source {
	return Source{kind: sourceLocal, asset: asset}
}

// Validate reports whether the Source is usable: a local asset with content,
// or a remote descriptor with a non-empty URI.
func (s Source) Validate() error {
	switch s.kind {
	case sourceLocal:
		if s.asset.isZero() {
			return ErrInvalidSource
		}
		return nil
	case sourceRemote:
		if s.uri == "" {
			return ErrInvalidSource
		}
		return nil
	default:
		return ErrInvalidSource
	}
}

// IsZero reports whether the Source carries no variant at all.
func (s Source) IsZero() bool {
	return s.kind == sourceZero
}

// IsLocal reports whether the Source is a local asset.
func (s Source) IsLocal() bool {
	return s.kind == sourceLocal
}

// Asset returns the local asset variant.
func (s Source) Asset() (Asset, bool) {
	return s.asset, s.kind == sourceLocal
}

// Request returns the engine request for the remote variant.
func (s Source) Request() (Request, bool) {
	if s.kind != sourceRemote {
		return Request{}, false
	}
	return Request{URI: s.uri, Headers: s.headers, SkipMemoryCache: s.skipMem}, true
}

// URI returns the remote URI, or "" for local and zero Sources.
func (s Source) URI() string {
	return s.uri
}

// Key is the identity the coordinator and backends cache under: the URI for
// remote sources, the asset name or path for local ones. Two Sources with the
// same Key address the same image; a Key change restarts the load state
// machine.
func (s Source) Key() string {
	switch s.kind {
	case sourceLocal:
		return s.asset.Key()
	case sourceRemote:
		return s.uri
	default:
		return ""
	}
}
