package render

import (
	"math"

	"github.com/taigrr/tinyrender/pkg/math3d"
)

// degenerateDet is the smallest screen-space determinant a triangle may have.
// Smaller (or negative, i.e. clockwise) triangles are skipped.
const degenerateDet = 1e-3

// outside is the barycentric sentinel for degenerate triangles. Its negative
// weight fails every in-triangle test.
var outside = math3d.V3(-1, 1, 1)

// Rasterizer fills triangles into a framebuffer and depth buffer. With a nil
// framebuffer only depth is written, which is how depth pre-passes run.
type Rasterizer struct {
	fb    *Framebuffer
	depth *DepthBuffer
}

// NewRasterizer creates a rasterizer over fb and depth. fb may be nil.
func NewRasterizer(fb *Framebuffer, depth *DepthBuffer) *Rasterizer {
	return &Rasterizer{fb: fb, depth: depth}
}

// Width returns the target width.
func (r *Rasterizer) Width() int {
	return r.depth.Width
}

// Height returns the target height.
func (r *Rasterizer) Height() int {
	return r.depth.Height
}

// Framebuffer returns the color target, possibly nil.
func (r *Rasterizer) Framebuffer() *Framebuffer {
	return r.fb
}

// Depth returns the depth target.
func (r *Rasterizer) Depth() *DepthBuffer {
	return r.depth
}

// barySolver holds the inverse-transpose of [[x0,y0,1],[x1,y1,1],[x2,y2,1]],
// which maps (px, py, 1) straight to barycentric weights.
type barySolver struct {
	m [9]float64
}

// newBarySolver returns false for degenerate or clockwise triangles.
func newBarySolver(pts [3]math3d.Vec2) (barySolver, bool) {
	abc, err := math3d.MatFrom(
		[]float64{pts[0].X, pts[0].Y, 1},
		[]float64{pts[1].X, pts[1].Y, 1},
		[]float64{pts[2].X, pts[2].Y, 1},
	)
	if err != nil {
		return barySolver{}, false
	}
	det, err := abc.Det()
	if err != nil || det < degenerateDet {
		return barySolver{}, false
	}
	it, err := abc.InverseTranspose()
	if err != nil {
		return barySolver{}, false
	}
	var s barySolver
	for row := range 3 {
		for col := range 3 {
			s.m[row*3+col] = it.At(row, col)
		}
	}
	return s, true
}

func (s *barySolver) at(px, py float64) math3d.Vec3 {
	return math3d.Vec3{
		X: s.m[0]*px + s.m[1]*py + s.m[2],
		Y: s.m[3]*px + s.m[4]*py + s.m[5],
		Z: s.m[6]*px + s.m[7]*py + s.m[8],
	}
}

// Barycentric returns the weights of p with respect to the triangle pts.
// Degenerate or clockwise triangles yield (-1, 1, 1).
func Barycentric(pts [3]math3d.Vec2, p math3d.Vec2) math3d.Vec3 {
	s, ok := newBarySolver(pts)
	if !ok {
		return outside
	}
	return s.at(p.X, p.Y)
}

// Triangle rasterizes one face given its three clip-space vertices.
//
// Each vertex is perspective divided, the screen bounding box is clamped to
// the target, and every integer pixel inside it is tested. Depth is
// z/w + 0.5 interpolated from the undivided clip coordinates and clamped to
// [0, Depth]; a pixel is written when its depth is >= the stored value.
func (r *Rasterizer) Triangle(clip [3]math3d.Vec4, s Shader) {
	var pts [3]math3d.Vec2
	for i, v := range clip {
		pts[i] = v.PerspectiveDivide().Proj()
	}

	solver, ok := newBarySolver(pts)
	if !ok {
		return
	}

	minX, minY, maxX, maxY, ok := boxOf(pts, r.Width(), r.Height())
	if !ok {
		return
	}

	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			bc := solver.at(float64(x), float64(y))
			if bc.X < 0 || bc.Y < 0 || bc.Z < 0 {
				continue
			}

			z := clip[0].Z*bc.X + clip[1].Z*bc.Y + clip[2].Z*bc.Z
			w := clip[0].W*bc.X + clip[1].W*bc.Y + clip[2].W*bc.Z
			fragDepth := math.Max(0, math.Min(Depth, z/w+0.5))
			if r.depth.Get(x, y) > fragDepth {
				continue
			}

			c, discard := s.Fragment(bc, math3d.V3(float64(x), float64(y), fragDepth))
			if discard {
				continue
			}
			r.depth.Set(x, y, fragDepth)
			if r.fb != nil {
				r.fb.SetPixel(x, y, c)
			}
		}
	}
}
