// Package render implements the CPU rasterization pipeline: output and depth
// buffers, textures, the camera transform chain, and the triangle fillers
// that drive programmable shaders.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
)

// ErrSampleOutOfRange is returned by strict accessors when a coordinate falls
// outside a buffer or texture.
var ErrSampleOutOfRange = errors.New("render: sample out of range")

// Framebuffer is the RGBA output image of one render.
// Row 0 is the bottom of the picture until FlipVertical is applied.
type Framebuffer struct {
	Width  int
	Height int
	Pixels []Color // Row-major pixel data
}

// NewFramebuffer creates a new framebuffer filled with transparent black.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
	}
}

// Clear fills the framebuffer with a solid color.
func (fb *Framebuffer) Clear(c Color) {
	for i := range fb.Pixels {
		fb.Pixels[i] = c
	}
}

// SetPixel sets a pixel at (x, y) to the given color.
// Writes outside the framebuffer are dropped.
func (fb *Framebuffer) SetPixel(x, y int, c Color) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// GetPixel returns the color at (x, y).
// Returns transparent black if out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) Color {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return Color{}
	}
	return fb.Pixels[y*fb.Width+x]
}

// At returns the color at (x, y), or ErrSampleOutOfRange.
func (fb *Framebuffer) At(x, y int) (Color, error) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return Color{}, fmt.Errorf("pixel (%d,%d) outside %dx%d: %w", x, y, fb.Width, fb.Height, ErrSampleOutOfRange)
	}
	return fb.Pixels[y*fb.Width+x], nil
}

// Count returns how many pixels equal c.
func (fb *Framebuffer) Count(c Color) int {
	n := 0
	for _, p := range fb.Pixels {
		if p == c {
			n++
		}
	}
	return n
}

// FlipVertical mirrors the rows in place, turning the bottom-up raster into
// top-down image order.
func (fb *Framebuffer) FlipVertical() {
	for top, bot := 0, fb.Height-1; top < bot; top, bot = top+1, bot-1 {
		a := fb.Pixels[top*fb.Width : (top+1)*fb.Width]
		b := fb.Pixels[bot*fb.Width : (bot+1)*fb.Width]
		for i := range a {
			a[i], b[i] = b[i], a[i]
		}
	}
}

// ToImage converts the framebuffer to a standard Go image.RGBA.
// Rows are copied as stored; call FlipVertical first for display order.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			img.SetRGBA(x, y, fb.Pixels[y*fb.Width+x])
		}
	}
	return img
}

// EncodePNG writes the framebuffer as PNG.
func (fb *Framebuffer) EncodePNG(w io.Writer) error {
	if err := png.Encode(w, fb.ToImage()); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// SavePNG saves the framebuffer as a PNG file.
func (fb *Framebuffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fb.EncodePNG(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
