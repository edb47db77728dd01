package render

import "github.com/taigrr/tinyrender/pkg/math3d"

// FitScreen maps an object-space point with X and Y in [-1, 1] onto a
// width×height canvas without any camera: ((v+1)*size - 1) / 2. Z passes
// through unchanged.
func FitScreen(v math3d.Vec3, width, height int) math3d.Vec3 {
	return math3d.V3(
		((v.X+1)*float64(width)-1)/2,
		((v.Y+1)*float64(height)-1)/2,
		v.Z,
	)
}

// FitScreenInt is FitScreen truncated to whole pixels.
func FitScreenInt(v math3d.Vec3, width, height int) math3d.Vec2i {
	s := FitScreen(v, width, height)
	return math3d.Vec2i{X: int(s.X), Y: int(s.Y)}
}

// Wireframe draws triangle outlines onto a framebuffer.
type Wireframe struct {
	fb    *Framebuffer
	color Color
}

// NewWireframe creates a wireframe renderer drawing in c.
func NewWireframe(fb *Framebuffer, c Color) *Wireframe {
	return &Wireframe{fb: fb, color: c}
}

// DrawTriangle outlines an object-space triangle placed with FitScreen.
func (w *Wireframe) DrawTriangle(v [3]math3d.Vec3) {
	for j := range 3 {
		a := FitScreenInt(v[j], w.fb.Width, w.fb.Height)
		b := FitScreenInt(v[(j+1)%3], w.fb.Width, w.fb.Height)
		w.fb.DrawLine(a.X, a.Y, b.X, b.Y, w.color)
	}
}

// DrawClip outlines a triangle given in clip space, as returned by a
// shader's Vertex. Vertices are perspective divided and truncated.
func (w *Wireframe) DrawClip(clip [3]math3d.Vec4) {
	var pts [3]math3d.Vec2i
	for i, v := range clip {
		p := v.PerspectiveDivide()
		pts[i] = math3d.Vec2i{X: int(p.X), Y: int(p.Y)}
	}
	for j := range 3 {
		a, b := pts[j], pts[(j+1)%3]
		w.fb.DrawLine(a.X, a.Y, b.X, b.Y, w.color)
	}
}

// DrawMesh outlines every face of s, running only its vertex stage.
func (w *Wireframe) DrawMesh(faces int, s Shader) {
	var clip [3]math3d.Vec4
	for f := range faces {
		for n := range 3 {
			clip[n] = s.Vertex(f, n)
		}
		w.DrawClip(clip)
	}
}
