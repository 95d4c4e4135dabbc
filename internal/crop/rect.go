package crop

import (
	"fmt"
	"math"

	"clipmark/internal/services"
)

// Rect is a fractional crop rectangle. All fields live in [0,1] with
// X+W <= 1 and Y+H <= 1, so it stays valid regardless of source resolution.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// PixelRect is a crop converted into source pixel coordinates.
type PixelRect struct {
	X int
	Y int
	W int
	H int
}

// Point is a pointer location in on-screen pixels.
type Point struct {
	X float64
	Y float64
}

// FromDrag converts a pointer drag over the rendered preview into a
// fractional rectangle. Coordinates are divided by the rendered dimensions
// and clamped; the two corners may arrive in any order. Drags whose width
// or height fall below minFraction return ok=false, meaning "no crop".
func FromDrag(start, end Point, renderedW, renderedH float64, minFraction float64) (Rect, bool) {
	if renderedW <= 0 || renderedH <= 0 {
		return Rect{}, false
	}

	x0 := clamp01(math.Min(start.X, end.X) / renderedW)
	x1 := clamp01(math.Max(start.X, end.X) / renderedW)
	y0 := clamp01(math.Min(start.Y, end.Y) / renderedH)
	y1 := clamp01(math.Max(start.Y, end.Y) / renderedH)

	rect := Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
	if rect.W < minFraction || rect.H < minFraction {
		return Rect{}, false
	}
	return rect.Clamped(), true
}

// Clamped returns a copy with every field forced into bounds: coordinates
// into [0,1] and extents shrunk so the rectangle stays inside the frame.
func (r Rect) Clamped() Rect {
	out := Rect{
		X: clamp01(r.X),
		Y: clamp01(r.Y),
		W: clamp01(r.W),
		H: clamp01(r.H),
	}
	if out.X+out.W > 1 {
		out.W = 1 - out.X
	}
	if out.Y+out.H > 1 {
		out.H = 1 - out.Y
	}
	return out
}

// Validate reports whether the rectangle satisfies the fractional bounds.
func (r Rect) Validate() error {
	for name, v := range map[string]float64{"x": r.X, "y": r.Y, "w": r.W, "h": r.H} {
		if v < 0 || v > 1 {
			return services.Wrap(services.ErrInvalidCrop, "crop", "validate", fmt.Sprintf("%s=%v outside [0,1]", name, v), nil)
		}
	}
	if r.X+r.W > 1+1e-9 {
		return services.Wrap(services.ErrInvalidCrop, "crop", "validate", fmt.Sprintf("x+w=%v exceeds 1", r.X+r.W), nil)
	}
	if r.Y+r.H > 1+1e-9 {
		return services.Wrap(services.ErrInvalidCrop, "crop", "validate", fmt.Sprintf("y+h=%v exceeds 1", r.Y+r.H), nil)
	}
	return nil
}

// Pixels converts the rectangle against the source's native decoded
// resolution. Width and height are rounded then masked down to even values;
// libx264 rejects odd dimensions.
func (r Rect) Pixels(nativeW, nativeH int) PixelRect {
	px := PixelRect{
		X: int(math.Round(r.X * float64(nativeW))),
		Y: int(math.Round(r.Y * float64(nativeH))),
		W: int(math.Round(r.W*float64(nativeW))) &^ 1,
		H: int(math.Round(r.H*float64(nativeH))) &^ 1,
	}
	if px.X+px.W > nativeW {
		px.X = nativeW - px.W
	}
	if px.Y+px.H > nativeH {
		px.Y = nativeH - px.H
	}
	return px
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
