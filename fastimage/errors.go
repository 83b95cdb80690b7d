// Package fastimage renders remote or local images inside a layout-aware,
// bordered box and coordinates loading them into a two-tier cache owned by an
// image pipeline engine. The package holds the orchestration layer: request
// coordination, batch preloading, dimension resolution, and the render-state
// machine. Painting is delegated to a backend (see the raylib subpackage) and
// caching to an Engine (see the pipeline package).
package fastimage

import (
	"errors"
	"fmt"
)

// Sentinel errors for the orchestration layer. Check with errors.Is.
var (
	// ErrInvalidSource indicates a missing or malformed source descriptor:
	// a zero Source, or a remote source with an empty URI. Detected
	// synchronously; views with an invalid source render nothing.
	ErrInvalidSource = errors.New("invalid image source")

	// ErrViewClosed indicates an operation on a view after Close.
	ErrViewClosed = errors.New("image view closed")

	// ErrNilEngine indicates a Client was constructed without an engine.
	ErrNilEngine = errors.New("nil image engine")
)

// LoadError wraps an engine failure with the operation and URI it belongs to.
// It supports errors.Is / errors.As through Unwrap.
type LoadError struct {
	// Op is the operation that failed ("load", "preload").
	Op string

	// URI identifies the remote resource being loaded.
	URI string

	// Err is the underlying engine error.
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URI, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
