package render

import (
	"fmt"
	"math"
)

// FarDepth is the value every depth sample starts at. Writes that compare
// greater (nearer, in this pipeline's convention) replace it.
const FarDepth = -math.MaxFloat64

// DepthBuffer holds one depth value per pixel.
type DepthBuffer struct {
	Width  int
	Height int
	Data   []float64 // Row-major depth values
}

// NewDepthBuffer creates a depth buffer cleared to FarDepth.
func NewDepthBuffer(width, height int) *DepthBuffer {
	d := &DepthBuffer{
		Width:  width,
		Height: height,
		Data:   make([]float64, width*height),
	}
	d.Clear()
	return d
}

// Clear resets every sample to FarDepth.
func (d *DepthBuffer) Clear() {
	if len(d.Data) == 0 {
		return
	}
	// Fill by doubling copies
	d.Data[0] = FarDepth
	for i := 1; i < len(d.Data); i *= 2 {
		copy(d.Data[i:], d.Data[:i])
	}
}

// Get returns the depth at (x, y). The caller guarantees the bounds.
func (d *DepthBuffer) Get(x, y int) float64 {
	return d.Data[y*d.Width+x]
}

// Set stores the depth at (x, y). The caller guarantees the bounds.
func (d *DepthBuffer) Set(x, y int, z float64) {
	d.Data[y*d.Width+x] = z
}

// At returns the depth at (x, y), or ErrSampleOutOfRange.
func (d *DepthBuffer) At(x, y int) (float64, error) {
	if x < 0 || x >= d.Width || y < 0 || y >= d.Height {
		return 0, fmt.Errorf("depth (%d,%d) outside %dx%d: %w", x, y, d.Width, d.Height, ErrSampleOutOfRange)
	}
	return d.Data[y*d.Width+x], nil
}

// Clamped returns the depth nearest to (x, y), clamping the coordinates to
// the buffer edges.
func (d *DepthBuffer) Clamped(x, y int) float64 {
	x = min(max(x, 0), d.Width-1)
	y = min(max(y, 0), d.Height-1)
	return d.Data[y*d.Width+x]
}

// Written reports whether (x, y) has been written since the last Clear.
func (d *DepthBuffer) Written(x, y int) bool {
	return d.Data[y*d.Width+x] != FarDepth
}

// Framebuffer renders the buffer as grayscale: level = depth * scale.
// Unwritten samples stay black.
func (d *DepthBuffer) Framebuffer(scale float64) *Framebuffer {
	fb := NewFramebuffer(d.Width, d.Height)
	for i, z := range d.Data {
		if z == FarDepth {
			fb.Pixels[i] = ColorBlack
			continue
		}
		fb.Pixels[i] = Gray(z * scale)
	}
	return fb
}
