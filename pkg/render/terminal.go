package render

import (
	"image"
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
	xdraw "golang.org/x/image/draw"
)

// HalfBlockSize returns the framebuffer size that fills a cols×rows terminal
// area, two pixels per cell.
func HalfBlockSize(cols, rows int) (width, height int) {
	return cols, rows * 2
}

// Draw writes the framebuffer to the screen as half-block cells, so it
// satisfies uv.Drawable. Each terminal row shows two framebuffer rows:
// ▀ with the top pixel as foreground and the bottom pixel as background.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := (row - area.Min.Y) * 2
		if topY >= fb.Height {
			break
		}
		botY := topY + 1

		for col := area.Min.X; col < area.Max.X; col++ {
			x := col - area.Min.X
			if x >= fb.Width {
				break
			}
			scr.SetCell(col, row, &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: cellColor(fb.GetPixel(x, topY)),
					Bg: cellColor(fb.GetPixel(x, botY)),
				},
			})
		}
	}
}

// cellColor maps transparent pixels to the terminal default.
func cellColor(c Color) color.Color {
	if c.A == 0 {
		return nil
	}
	return c
}

// Fit scales the framebuffer into a width×height box, keeping its aspect
// ratio and centering it on a transparent background.
func (fb *Framebuffer) Fit(width, height int) *Framebuffer {
	out := NewFramebuffer(width, height)
	if fb.Width == 0 || fb.Height == 0 || width == 0 || height == 0 {
		return out
	}

	scale := min(float64(width)/float64(fb.Width), float64(height)/float64(fb.Height))
	w := max(1, int(float64(fb.Width)*scale))
	h := max(1, int(float64(fb.Height)*scale))
	x0 := (width - w) / 2
	y0 := (height - h) / 2

	src := fb.ToImage()
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.ApproxBiLinear.Scale(dst, image.Rect(x0, y0, x0+w, y0+h), src, src.Bounds(), xdraw.Src, nil)

	for y := range height {
		for x := range width {
			out.Pixels[y*width+x] = dst.RGBAAt(x, y)
		}
	}
	return out
}
