package shader

import (
	"fmt"
	"math"

	"github.com/taigrr/tinyrender/pkg/math3d"
	"github.com/taigrr/tinyrender/pkg/render"
)

// surface is the per-fragment lighting shared by the mapped shaders: the
// normal from the normal map carried by uniformM and the light carried by
// uniformIT, where M = Projection * ModelView and IT its inverse transpose.
type surface struct {
	scene     *Scene
	light     math3d.Vec3
	transform math3d.Mat4
	uniformM  math3d.Mat4
	uniformIT math3d.Mat4

	uv [3]math3d.Vec2
}

func newSurface(p *render.Pipeline, scene *Scene, maps ...Map) (surface, error) {
	if err := scene.Require(maps...); err != nil {
		return surface{}, err
	}
	m := p.Clip()
	mit, err := m.InverseTranspose()
	if err != nil {
		return surface{}, fmt.Errorf("normal transform: %w", err)
	}
	return surface{
		scene:     scene,
		light:     p.Light,
		transform: p.Transform(),
		uniformM:  m,
		uniformIT: mit,
	}, nil
}

func (s *surface) vertex(face, nth int) math3d.Vec4 {
	s.uv[nth] = s.scene.Mesh.UV(face, nth)
	return s.transform.MulVec4(s.scene.Mesh.Vert(face, nth).Embed(1))
}

// shade returns the interpolated UV, normal and light direction.
func (s *surface) shade(bar math3d.Vec3) (uv math3d.Vec2, n, l math3d.Vec3) {
	uv = render.InterpolateVec2(s.uv, bar)
	n = s.uniformM.MulVec4(s.scene.NormalAt(uv).Embed(1)).Proj().Normalize()
	l = s.uniformIT.MulVec4(s.light.Embed(1)).Proj().Normalize()
	return uv, n, l
}

// NormalMapped lights the diffuse map with per-pixel normals from the
// normal map.
type NormalMapped struct {
	surface
}

// NewNormalMapped needs diffuse and normal maps. It fails with
// math3d.ErrSingularMatrix when Projection * ModelView cannot be inverted.
func NewNormalMapped(p *render.Pipeline, scene *Scene) (*NormalMapped, error) {
	s, err := newSurface(p, scene, MapDiffuse, MapNormal)
	if err != nil {
		return nil, err
	}
	return &NormalMapped{surface: s}, nil
}

func (s *NormalMapped) Vertex(face, nth int) math3d.Vec4 {
	return s.vertex(face, nth)
}

func (s *NormalMapped) Fragment(bar, _ math3d.Vec3) (render.Color, bool) {
	uv, n, l := s.shade(bar)
	c := render.MultiplyColor(s.scene.DiffuseAt(uv), math.Max(0, n.Dot(l)))
	c.A = 255
	return c, false
}

// Specular adds a Phong highlight whose exponent comes from the specular map.
type Specular struct {
	surface
}

// NewSpecular needs diffuse, normal and specular maps.
func NewSpecular(p *render.Pipeline, scene *Scene) (*Specular, error) {
	s, err := newSurface(p, scene, MapDiffuse, MapNormal, MapSpecular)
	if err != nil {
		return nil, err
	}
	return &Specular{surface: s}, nil
}

func (s *Specular) Vertex(face, nth int) math3d.Vec4 {
	return s.vertex(face, nth)
}

func (s *Specular) Fragment(bar, _ math3d.Vec3) (render.Color, bool) {
	uv, n, l := s.shade(bar)
	diff, spec := phong(n, l, s.scene.SpecularAt(uv))
	return combine(s.scene.DiffuseAt(uv), 5, diff+0.6*spec), false
}

// phong returns the diffuse term max(0, n·l) and the specular term
// max(r.z, 0)^exp, where r reflects l about n.
func phong(n, l math3d.Vec3, exp float64) (diff, spec float64) {
	r := n.Scale(2 * n.Dot(l)).Sub(l).Normalize()
	return math.Max(0, n.Dot(l)), math.Pow(math.Max(r.Z, 0), exp)
}

// combine computes min(ambient + c*k, 255) per channel.
func combine(c render.Color, ambient, k float64) render.Color {
	return render.RGB(
		render.Clamp8(ambient+float64(c.R)*k),
		render.Clamp8(ambient+float64(c.G)*k),
		render.Clamp8(ambient+float64(c.B)*k),
	)
}
