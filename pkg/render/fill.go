package render

import (
	"math"

	"github.com/taigrr/tinyrender/pkg/math3d"
)

// CrossBarycentric returns the weights of p in the triangle pts using the
// cross product of the edge vectors. When the triangle's doubled area is
// below one pixel it returns (-1, 1, 1). Unlike Barycentric it accepts either
// winding.
func CrossBarycentric(pts [3]math3d.Vec2, p math3d.Vec2) math3d.Vec3 {
	u := math3d.V3(pts[2].X-pts[0].X, pts[1].X-pts[0].X, pts[0].X-p.X).
		Cross(math3d.V3(pts[2].Y-pts[0].Y, pts[1].Y-pts[0].Y, pts[0].Y-p.Y))
	if math.Abs(u.Z) < 1 {
		return outside
	}
	return math3d.V3(1-(u.X+u.Y)/u.Z, u.Y/u.Z, u.X/u.Z)
}

// FillTriangle fills the integer triangle pts with a flat color, testing
// every pixel of its clamped bounding box.
func (fb *Framebuffer) FillTriangle(pts [3]math3d.Vec2i, c Color) {
	fpts := [3]math3d.Vec2{pts[0].Vec2(), pts[1].Vec2(), pts[2].Vec2()}
	minX, minY, maxX, maxY, ok := boxOf(fpts, fb.Width, fb.Height)
	if !ok {
		return
	}
	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			bc := CrossBarycentric(fpts, math3d.V2(float64(x), float64(y)))
			if bc.X < 0 || bc.Y < 0 || bc.Z < 0 {
				continue
			}
			fb.SetPixel(x, y, c)
		}
	}
}

// FillTriangleDepth fills a screen-space triangle with a flat color,
// interpolating Z across it. A pixel is written only when its depth is
// strictly greater than the stored one.
func (r *Rasterizer) FillTriangleDepth(pts [3]math3d.Vec3, c Color) {
	fpts := [3]math3d.Vec2{pts[0].Proj(), pts[1].Proj(), pts[2].Proj()}
	minX, minY, maxX, maxY, ok := boxOf(fpts, r.Width(), r.Height())
	if !ok {
		return
	}
	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			bc := CrossBarycentric(fpts, math3d.V2(float64(x), float64(y)))
			if bc.X < 0 || bc.Y < 0 || bc.Z < 0 {
				continue
			}
			z := pts[0].Z*bc.X + pts[1].Z*bc.Y + pts[2].Z*bc.Z
			if r.depth.Get(x, y) < z {
				r.depth.Set(x, y, z)
				if r.fb != nil {
					r.fb.SetPixel(x, y, c)
				}
			}
		}
	}
}

// boxOf clamps the bounding box of pts to a width×height target.
func boxOf(pts [3]math3d.Vec2, width, height int) (minX, minY, maxX, maxY int, ok bool) {
	lo := pts[0].Min(pts[1]).Min(pts[2])
	hi := pts[0].Max(pts[1]).Max(pts[2])
	if math.IsNaN(lo.X) || math.IsNaN(lo.Y) || math.IsNaN(hi.X) || math.IsNaN(hi.Y) {
		return 0, 0, 0, 0, false
	}
	lo.X, lo.Y = math.Max(0, lo.X), math.Max(0, lo.Y)
	hi.X, hi.Y = math.Min(float64(width-1), hi.X), math.Min(float64(height-1), hi.Y)
	if hi.X < lo.X || hi.Y < lo.Y {
		return 0, 0, 0, 0, false
	}
	return int(lo.X), int(lo.Y), int(hi.X), int(hi.Y), true
}
