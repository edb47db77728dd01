package render

import (
	"image/color"
	"math"
)

// Color is an alias for color.RGBA for convenience.
type Color = color.RGBA

// Colors for convenience
var (
	ColorBlack = color.RGBA{0, 0, 0, 255}
	ColorWhite = color.RGBA{255, 255, 255, 255}
	ColorRed   = color.RGBA{255, 0, 0, 255}
	ColorGreen = color.RGBA{0, 255, 0, 255}
	ColorBlue  = color.RGBA{0, 0, 255, 255}
)

// RGB creates a color from RGB values.
func RGB(r, g, b uint8) color.RGBA {
	return color.RGBA{r, g, b, 255}
}

// RGBA creates a color from RGBA values.
func RGBA(r, g, b, a uint8) color.RGBA {
	return color.RGBA{r, g, b, a}
}

// Gray returns an opaque gray of the given level, clamped to [0, 255].
func Gray(level float64) Color {
	v := Clamp8(level)
	return Color{v, v, v, 255}
}

// Clamp8 truncates v into a byte, saturating at 0 and 255.
func Clamp8(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}

// MultiplyColor multiplies a color by a scalar (for lighting).
// Alpha is kept and channels saturate at 255.
func MultiplyColor(c Color, intensity float64) Color {
	return Color{
		R: Clamp8(float64(c.R) * intensity),
		G: Clamp8(float64(c.G) * intensity),
		B: Clamp8(float64(c.B) * intensity),
		A: c.A,
	}
}
