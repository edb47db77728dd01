package shader

import (
	"math"

	"github.com/taigrr/tinyrender/pkg/math3d"
	"github.com/taigrr/tinyrender/pkg/render"
)

// Gouraud lights each vertex with max(0, n·l) and interpolates the result
// across the face as a gray level.
type Gouraud struct {
	scene     *Scene
	light     math3d.Vec3
	transform math3d.Mat4

	intensity [3]float64
}

// NewGouraud returns a Gouraud shader for scene seen through p.
func NewGouraud(p *render.Pipeline, scene *Scene) (*Gouraud, error) {
	if err := scene.Require(); err != nil {
		return nil, err
	}
	return &Gouraud{scene: scene, light: p.Light, transform: p.Transform()}, nil
}

func (s *Gouraud) Vertex(face, nth int) math3d.Vec4 {
	s.intensity[nth] = vertexIntensity(s.scene, s.light, face, nth)
	return s.transform.MulVec4(s.scene.Mesh.Vert(face, nth).Embed(1))
}

func (s *Gouraud) Fragment(bar, _ math3d.Vec3) (render.Color, bool) {
	return render.Gray(render.Interpolate3(s.intensity, bar) * 255), false
}

// Toon is Gouraud lighting quantized into six bands over an orange base.
type Toon struct {
	Gouraud
}

// NewToon returns a six-band toon shader.
func NewToon(p *render.Pipeline, scene *Scene) (*Toon, error) {
	g, err := NewGouraud(p, scene)
	if err != nil {
		return nil, err
	}
	return &Toon{Gouraud: *g}, nil
}

func (s *Toon) Fragment(bar, _ math3d.Vec3) (render.Color, bool) {
	i := ToonBand(render.Interpolate3(s.intensity, bar))
	return render.RGB(render.Clamp8(255*i), render.Clamp8(155*i), 0), false
}

// ToonBand quantizes an intensity into one of six levels.
func ToonBand(intensity float64) float64 {
	switch {
	case intensity > 0.85:
		return 1
	case intensity > 0.60:
		return 0.80
	case intensity > 0.45:
		return 0.60
	case intensity > 0.30:
		return 0.45
	case intensity > 0.15:
		return 0.30
	default:
		return 0
	}
}

// Textured modulates the diffuse map by Gouraud intensity.
type Textured struct {
	Gouraud
	uv [3]math3d.Vec2
}

// NewTextured returns a textured Gouraud shader. The scene needs a diffuse map.
func NewTextured(p *render.Pipeline, scene *Scene) (*Textured, error) {
	if err := scene.Require(MapDiffuse); err != nil {
		return nil, err
	}
	g, err := NewGouraud(p, scene)
	if err != nil {
		return nil, err
	}
	return &Textured{Gouraud: *g}, nil
}

func (s *Textured) Vertex(face, nth int) math3d.Vec4 {
	s.uv[nth] = s.scene.Mesh.UV(face, nth)
	return s.Gouraud.Vertex(face, nth)
}

func (s *Textured) Fragment(bar, _ math3d.Vec3) (render.Color, bool) {
	intensity := render.Interpolate3(s.intensity, bar)
	c := s.scene.DiffuseAt(render.InterpolateVec2(s.uv, bar))
	c = render.MultiplyColor(c, intensity)
	c.A = 255
	return c, false
}

func vertexIntensity(scene *Scene, light math3d.Vec3, face, nth int) float64 {
	return math.Max(0, scene.Mesh.Normal(face, nth).Dot(light))
}
