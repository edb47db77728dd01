package render

// DrawLine draws a line with the error-accumulating integer walk.
//
// Steep lines are walked along y. The walk covers x0 up to but not including
// x1, so the far endpoint is not plotted. Pixels outside the framebuffer are
// dropped.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, c Color) {
	steep := false
	if abs(x0-x1) < abs(y0-y1) {
		x0, y0 = y0, x0
		x1, y1 = y1, x1
		steep = true
	}
	if x0 > x1 {
		x0, x1 = x1, x0
		y0, y1 = y1, y0
	}

	dx := x1 - x0
	dy := y1 - y0
	if dx == 0 {
		return
	}
	derror := float64(abs(dy)) / float64(dx)
	step := 1
	if y1 < y0 {
		step = -1
	}

	var acc float64
	y := y0
	for x := x0; x < x1; x++ {
		if steep {
			fb.SetPixel(y, x, c)
		} else {
			fb.SetPixel(x, y, c)
		}
		acc += derror
		if acc > 0.5 {
			y += step
			acc--
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
