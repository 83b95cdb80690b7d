package fastimage

import "sync"

// DefaultDimension is the requested size, in pixels, used for a width or
// height left unset in Props.
const DefaultDimension = 100

// Props is the declarative configuration of an ImageView. Source is
// required; everything else has a usable zero value (100x100 box, cover
// resize, no borders, no fallback).
type Props struct {
	// Source selects the image. Views keep state per source identity:
	// updating to a Source with the same Key is free, a different Key
	// restarts the load.
	Source Source

	// Width and Height are the requested dimensions. Percentages resolve
	// against the parent bounds from SetParentBounds. Unset dimensions
	// default to DefaultDimension pixels.
	Width, Height Dimension

	// Style paints the box: background fill, border widths and color.
	Style Style

	// ResizeMode maps the image onto the content box. Zero value is cover.
	ResizeMode ResizeMode

	// Background lays the image under other content: the visual expands
	// to the full outer box and callers draw their own children in an
	// overlay matching the content box, conventionally centered.
	Background bool

	// Fallback is painted instead of the built-in placeholder when the
	// load fails.
	Fallback Asset

	// OnLoad and OnError observe settlement of the current load request.
	// Exactly one of them fires per settled request, from the goroutine
	// that completed the load. Local and invalid sources settle without
	// the engine, so their callback fires on the goroutine calling
	// NewView or Update, before that call returns. Neither fires after
	// Close.
	OnLoad  func()
	OnError func(error)
}

// RenderPlan is one frame's worth of paint instructions for a view, in
// view-local coordinates. Backends position the plan themselves.
type RenderPlan struct {
	// Box is the resolved outer box. Style background and borders fill it.
	Box LayoutBox

	// Content is Box shrunk by the border insets. It may be zero or
	// negative; painting primitives clip.
	Content LayoutBox

	Style      Style
	ResizeMode ResizeMode

	// Visual is what to paint inside ImageBox. Nil paints no image.
	Visual Visual

	// State is the load state the plan was computed under. Backends skip
	// painting a remote visual until StateLoaded.
	State LoadState

	// Background reports background mode.
	Background bool
}

// ImageBox is where the visual paints: the content box normally, the full
// outer box in background mode.
func (p RenderPlan) ImageBox() LayoutBox {
	if p.Background {
		return p.Box
	}
	return p.Content
}

// ImageView is one image slot in a layout: requested dimensions, box
// styling, a load coordinator for the current source, and the decision logic
// that picks what to paint each frame.
//
// Views are safe for concurrent use. Layout code calls SetParentBounds and
// Plan; any goroutine may call Update or Close.
type ImageView struct {
	coord *coordinator

	mu               sync.Mutex
	props            Props
	parentW, parentH float64
	closed           bool
}

// NewView creates a view bound to the client's engine and starts loading
// props.Source immediately. Sources that settle without an engine round
// trip (local assets, invalid sources) fire OnLoad or OnError before
// NewView returns, so those callbacks must not assume the view variable is
// already assigned.
func (c *Client) NewView(props Props) *ImageView {
	v := &ImageView{coord: newCoordinator(c.engine)}
	v.props = props
	v.coord.setObservers(props.OnLoad, props.OnError)
	v.coord.begin(props.Source)
	return v
}

// Update replaces the view's configuration. A Source with a new identity
// restarts the load state machine; the same identity keeps its state, even
// after an error. Returns ErrViewClosed after Close.
func (v *ImageView) Update(props Props) error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return ErrViewClosed
	}
	v.props = props
	v.mu.Unlock()

	v.coord.setObservers(props.OnLoad, props.OnError)
	v.coord.begin(props.Source)
	return nil
}

// SetParentBounds records the parent's measured size, the base for
// percentage dimensions. Before the first call the base is 0, so percentage
// sized views resolve to an empty box and stay unrendered until layout runs.
func (v *ImageView) SetParentBounds(w, h float64) {
	v.mu.Lock()
	if !v.closed {
		v.parentW, v.parentH = w, h
	}
	v.mu.Unlock()
}

// State reports the load state and, when errored, the settling error.
func (v *ImageView) State() (LoadState, error) {
	return v.coord.snapshot()
}

// Plan computes the current frame's paint instructions. The second return is
// false when there is nothing to paint at all: the view is closed, the
// source is invalid, or the resolved box has no area (including percentage
// dimensions awaiting their first layout pass).
func (v *ImageView) Plan() (RenderPlan, bool) {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return RenderPlan{}, false
	}
	props := v.props
	pw, ph := v.parentW, v.parentH
	v.mu.Unlock()

	if props.Source.Validate() != nil {
		return RenderPlan{}, false
	}

	width, height := props.Width, props.Height
	if width.unit == unitUnset {
		width = Px(DefaultDimension)
	}
	if height.unit == unitUnset {
		height = Px(DefaultDimension)
	}
	box := LayoutBox{W: width.Resolve(pw), H: height.Resolve(ph)}
	if !box.IsRenderable() {
		return RenderPlan{}, false
	}

	state, _ := v.coord.snapshot()
	return RenderPlan{
		Box:        box,
		Content:    ContentBox(box, props.Style.Borders),
		Style:      props.Style,
		ResizeMode: props.ResizeMode,
		Visual:     Decide(props.Source, state == StateErrored, props.Fallback),
		State:      state,
		Background: props.Background,
	}, true
}

// Close detaches the view: observer callbacks stop firing and Plan returns
// nothing. Loads already handed to the engine run to completion so the
// caches stay warm. Close is idempotent.
func (v *ImageView) Close() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	v.mu.Unlock()
	v.coord.close()
}
