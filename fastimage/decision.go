package fastimage

// Visual is what a render pass paints inside a view: exactly one of a local
// asset, a remote image, the configured fallback asset, or the built-in
// placeholder. Backends consume the variants with a type switch.
type Visual interface {
	visual()
}

// VisualLocal paints a bundled asset.
type VisualLocal struct {
	Asset Asset
}

// VisualRemote paints a remote image out of the engine's caches.
type VisualRemote struct {
	Request Request
}

// VisualFallback paints the view's fallback asset after a failed load.
type VisualFallback struct {
	Asset Asset
}

// VisualPlaceholder paints the built-in placeholder after a failed load when
// no fallback is configured.
type VisualPlaceholder struct{}

func (VisualLocal) visual()       {}
func (VisualRemote) visual()      {}
func (VisualFallback) visual()    {}
func (VisualPlaceholder) visual() {}

// Decide picks the visual for a view. A failed load paints the fallback when
// one is configured and the placeholder otherwise, regardless of whether the
// source was local or remote. Without a failure the source kind decides.
// Invalid sources yield nil; the caller renders nothing for them.
func Decide(src Source, failed bool, fallback Asset) Visual {
	if failed {
		if !fallback.isZero() {
			return VisualFallback{Asset: fallback}
		}
		return VisualPlaceholder{}
	}
	if req, ok := src.Request(); ok {
		return VisualRemote{Request: req}
	}
	if asset, ok := src.Asset(); ok {
		return VisualLocal{Asset: asset}
	}
	return nil
}
