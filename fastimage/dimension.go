package fastimage

import (
	"math"
	"strconv"
	"strings"
)

type dimensionUnit uint8

const (
	unitUnset dimensionUnit = iota
	unitPixels
	unitPercent
	unitInvalid
)

// Dimension is a requested width or height: an absolute pixel value or a
// percentage of the parent's measured size. The zero Dimension is unset and
// resolves to NaN; Props substitute the default (100px) for unset values.
type Dimension struct {
	amount float64
	unit   dimensionUnit
}

// Px returns an absolute pixel Dimension.
func Px(n float64) Dimension {
	return Dimension{amount: n, unit: unitPixels}
}

// Percent returns a Dimension resolved against the parent's size on a 0-100
// scale (Percent(50) is half the parent).
func Percent(p float64) Dimension {
	return Dimension{amount: p, unit: unitPercent}
}

// ParseDimension accepts the loosely typed forms a view configuration may
// carry: Go numbers, numeric strings ("120"), and percentage strings ("50%").
// Anything else parses as an invalid Dimension which resolves to NaN.
func ParseDimension(v any) Dimension {
	switch val := v.(type) {
	case nil:
		return Dimension{}
	case Dimension:
		return val
	case int:
		return Px(float64(val))
	case int32:
		return Px(float64(val))
	case int64:
		return Px(float64(val))
	case float32:
		return Px(float64(val))
	case float64:
		return Px(val)
	case string:
		return parseDimensionString(val)
	default:
		return Dimension{unit: unitInvalid}
	}
}

func parseDimensionString(s string) Dimension {
	s = strings.TrimSpace(s)
	if s == "" {
		return Dimension{unit: unitInvalid}
	}
	if strings.HasSuffix(s, "%") {
		pct, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil {
			return Dimension{unit: unitInvalid}
		}
		return Percent(pct)
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Dimension{unit: unitInvalid}
	}
	return Px(n)
}

// Resolve computes the dimension in pixels against the parent's measured
// size. Percentages resolve as base*amount/100; pixel values ignore base.
// Unset or unparseable dimensions resolve to NaN, which callers must treat
// as "unresolved, await the next layout pass". Before the first layout
// measurement base is 0, so percentages legitimately resolve to 0.
func (d Dimension) Resolve(base float64) float64 {
	switch d.unit {
	case unitPixels:
		return d.amount
	case unitPercent:
		return base * d.amount / 100
	default:
		return math.NaN()
	}
}

func (d Dimension) String() string {
	switch d.unit {
	case unitPixels:
		return strconv.FormatFloat(d.amount, 'f', -1, 64)
	case unitPercent:
		return strconv.FormatFloat(d.amount, 'f', -1, 64) + "%"
	case unitInvalid:
		return "<invalid>"
	default:
		return "<unset>"
	}
}

// LayoutBox is a resolved width/height in pixels. Boxes are recomputed on
// every parent layout or requested-dimension change and never persisted.
type LayoutBox struct {
	W, H float64
}

// IsRenderable reports whether both sides are finite and positive. Views with
// unrenderable boxes are skipped by backends, not an error.
func (b LayoutBox) IsRenderable() bool {
	return b.W > 0 && b.H > 0 && !math.IsInf(b.W, 1) && !math.IsInf(b.H, 1)
}

// BorderInsets are per-edge border widths in pixels, derived from the view
// style once per resolve pass.
type BorderInsets struct {
	Top, Right, Bottom, Left float64
}

// UniformInsets returns insets with the same width on every edge.
func UniformInsets(w float64) BorderInsets {
	return BorderInsets{Top: w, Right: w, Bottom: w, Left: w}
}

// Horizontal is the combined left+right inset.
func (in BorderInsets) Horizontal() float64 {
	return in.Left + in.Right
}

// Vertical is the combined top+bottom inset.
func (in BorderInsets) Vertical() float64 {
	return in.Top + in.Bottom
}

// IsZero reports whether no edge has a border.
func (in BorderInsets) IsZero() bool {
	return in.Top == 0 && in.Right == 0 && in.Bottom == 0 && in.Left == 0
}

// ContentBox shrinks box by the border insets. Negative results are passed
// through unclamped; consumers must tolerate zero or negative content boxes
// (native painting primitives clip).
func ContentBox(box LayoutBox, in BorderInsets) LayoutBox {
	return LayoutBox{
		W: box.W - in.Horizontal(),
		H: box.H - in.Vertical(),
	}
}

// Color is an 8-bit RGBA color. Kept free of backend types so the core
// package stays testable without a GL context; backends convert as needed.
type Color struct {
	R, G, B, A uint8
}

// RGBA builds an opaque-or-not color.
func RGBA(r, g, b, a uint8) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// Transparent reports whether the color would paint nothing.
func (c Color) Transparent() bool {
	return c.A == 0
}

// Style carries the box-model attributes a view honors: border widths per
// edge, border color, and a background fill painted behind the image.
type Style struct {
	Borders     BorderInsets
	BorderColor Color
	Background  Color
}
