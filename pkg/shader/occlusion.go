package shader

import (
	"math"

	"github.com/taigrr/tinyrender/pkg/math3d"
	"github.com/taigrr/tinyrender/pkg/render"
)

// Z is the first ambient-occlusion pass. It only fills the depth buffer;
// every fragment is black.
type Z struct {
	scene     *Scene
	transform math3d.Mat4
}

// NewZ returns the depth pre-pass shader.
func NewZ(p *render.Pipeline, scene *Scene) (*Z, error) {
	if err := scene.Require(); err != nil {
		return nil, err
	}
	return &Z{scene: scene, transform: p.Transform()}, nil
}

// Vertex returns the divided screen position with w = 1, so the rasterizer
// sees already projected points.
func (s *Z) Vertex(face, nth int) math3d.Vec4 {
	v := s.transform.MulVec4(s.scene.Mesh.Vert(face, nth).Embed(1))
	return v.PerspectiveDivide().Embed(1)
}

func (s *Z) Fragment(_, _ math3d.Vec3) (render.Color, bool) {
	return render.ColorBlack, false
}

// AmbientOcclusion shades every written pixel of depth by how open its
// horizon is: eight directions, each scored by its steepest elevation
// angle, averaged and raised to the 10th power. Unwritten pixels are left
// alone.
func AmbientOcclusion(depth *render.DepthBuffer, fb *render.Framebuffer) {
	const directions = 8
	for x := range depth.Width {
		for y := range depth.Height {
			if !depth.Written(x, y) {
				continue
			}
			p := math3d.V2(float64(x), float64(y))
			total := 0.0
			for a := 0.0; a < 2*math.Pi-1e-4; a += math.Pi / 4 {
				dir := math3d.V2(math.Cos(a), math.Sin(a))
				total += math.Pi/2 - MaxElevationAngle(depth, p, dir)
			}
			total /= math.Pi / 2 * directions
			fb.SetPixel(x, y, render.Gray(math.Pow(total, 10)*255))
		}
	}
}

// MaxElevationAngle marches from p along dir, up to 1000 steps or the edge
// of the buffer, and returns the largest atan(Δdepth / distance) seen,
// never less than zero.
func MaxElevationAngle(depth *render.DepthBuffer, p, dir math3d.Vec2) float64 {
	w, h := float64(depth.Width), float64(depth.Height)
	base := depth.Get(int(p.X), int(p.Y))

	maxAngle := 0.0
	for t := 1.0; t <= 1000; t++ {
		cur := p.Add(dir.Scale(t))
		if cur.X >= w || cur.Y >= h || cur.X < 0 || cur.Y < 0 {
			return maxAngle
		}
		distance := p.Sub(cur).Len()
		if distance < 1 {
			continue
		}
		elevation := depth.Get(int(cur.X), int(cur.Y)) - base
		maxAngle = math.Max(maxAngle, math.Atan(elevation/distance))
	}
	return maxAngle
}
