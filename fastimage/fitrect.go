package fastimage

// ResizeMode selects how a decoded image maps onto the content box.
type ResizeMode uint8

const (
	// ResizeCover scales the image to fill the content box, cropping the
	// overflow on one axis. This is the default.
	ResizeCover ResizeMode = iota
	// ResizeContain scales the image to fit entirely inside the content
	// box, letterboxing one axis.
	ResizeContain
	// ResizeStretch maps the image onto the content box ignoring aspect
	// ratio.
	ResizeStretch
	// ResizeCenter centers the image unscaled, shrinking it uniformly only
	// when it is larger than the content box.
	ResizeCenter
)

// ParseResizeMode maps a configuration string to a ResizeMode. Unknown
// values fall back to ResizeCover.
func ParseResizeMode(s string) ResizeMode {
	switch s {
	case "contain":
		return ResizeContain
	case "stretch":
		return ResizeStretch
	case "center":
		return ResizeCenter
	default:
		return ResizeCover
	}
}

func (m ResizeMode) String() string {
	switch m {
	case ResizeContain:
		return "contain"
	case ResizeStretch:
		return "stretch"
	case ResizeCenter:
		return "center"
	default:
		return "cover"
	}
}

// Rect is an axis-aligned rectangle in pixels. X and Y of a destination rect
// are offsets within the content box.
type Rect struct {
	X, Y, W, H float64
}

// IsEmpty reports whether the rect has no paintable area.
func (r Rect) IsEmpty() bool {
	return r.W <= 0 || r.H <= 0
}

// FitRect computes the source crop (in image pixels) and destination
// placement (in content-box coordinates) for drawing an imgW x imgH image
// into box under the given resize mode. Degenerate inputs yield empty rects;
// backends skip those instead of erroring.
func FitRect(mode ResizeMode, imgW, imgH int, box LayoutBox) (src, dst Rect) {
	if imgW <= 0 || imgH <= 0 || !box.IsRenderable() {
		return Rect{}, Rect{}
	}
	iw, ih := float64(imgW), float64(imgH)
	src = Rect{W: iw, H: ih}
	dst = Rect{W: box.W, H: box.H}

	switch mode {
	case ResizeStretch:
		return src, dst

	case ResizeContain:
		scale := box.W / iw
		if s := box.H / ih; s < scale {
			scale = s
		}
		dst.W, dst.H = iw*scale, ih*scale
		dst.X = (box.W - dst.W) / 2
		dst.Y = (box.H - dst.H) / 2
		return src, dst

	case ResizeCenter:
		scale := box.W / iw
		if s := box.H / ih; s < scale {
			scale = s
		}
		if scale > 1 {
			scale = 1
		}
		dst.W, dst.H = iw*scale, ih*scale
		dst.X = (box.W - dst.W) / 2
		dst.Y = (box.H - dst.H) / 2
		return src, dst

	default: // cover
		scale := box.W / iw
		if s := box.H / ih; s > scale {
			scale = s
		}
		src.W = box.W / scale
		src.H = box.H / scale
		src.X = (iw - src.W) / 2
		src.Y = (ih - src.H) / 2
		return src, dst
	}
}
