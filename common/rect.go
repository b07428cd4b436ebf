package common

// Rect is an axis-aligned rectangle. Camera viewports use it with normalized
// coordinates in [0, 1]; pass and queue viewports use it in pixels.
type Rect struct {
	X, Y          float32
	Width, Height float32
}

// FullRect is the normalized rectangle covering an entire target.
var FullRect = Rect{X: 0, Y: 0, Width: 1, Height: 1}

// Scale maps a normalized rectangle onto a target of the given pixel size.
//
// Parameters:
//   - width: target width in pixels
//   - height: target height in pixels
//
// Returns:
//   - Rect: the rectangle in pixel units
func (r Rect) Scale(width, height uint32) Rect {
	return Rect{
		X:      r.X * float32(width),
		Y:      r.Y * float32(height),
		Width:  r.Width * float32(width),
		Height: r.Height * float32(height),
	}
}
