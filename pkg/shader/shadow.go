package shader

import (
	"fmt"
	"math"

	"github.com/taigrr/tinyrender/pkg/math3d"
	"github.com/taigrr/tinyrender/pkg/render"
)

// shadowEpsilon is the depth tolerance, one unit of the 0..Depth range, of
// the shadow test. The point is brought to the z/w + 0.5 depth the rasterizer
// stores, so a surface lit by the light compares against its own depth.
const shadowEpsilon = 1.0

// Depth is the first shadow-mapping pass: it rasterizes the scene from the
// light and colors each fragment by its depth.
type Depth struct {
	scene     *Scene
	transform math3d.Mat4
	tri       [3]math3d.Vec3
}

// NewDepth returns a depth shader for the light pipeline.
func NewDepth(light *render.Pipeline, scene *Scene) (*Depth, error) {
	if err := scene.Require(); err != nil {
		return nil, err
	}
	return &Depth{scene: scene, transform: light.Transform()}, nil
}

func (s *Depth) Vertex(face, nth int) math3d.Vec4 {
	v := s.transform.MulVec4(s.scene.Mesh.Vert(face, nth).Embed(1))
	s.tri[nth] = v.PerspectiveDivide()
	return v
}

func (s *Depth) Fragment(bar, _ math3d.Vec3) (render.Color, bool) {
	p := render.InterpolateVec3(s.tri, bar)
	return render.Gray(p.Z / render.Depth * 255), false
}

// ShadowMap runs the depth pass for scene as seen by the light pipeline and
// returns the resulting depth buffer. No color target is written.
func ShadowMap(light *render.Pipeline, scene *Scene) (*render.DepthBuffer, error) {
	s, err := NewDepth(light, scene)
	if err != nil {
		return nil, err
	}
	depth := render.NewDepthBuffer(light.Width, light.Height)
	render.NewRasterizer(nil, depth).DrawMesh(scene.Faces(), s)
	return depth, nil
}

// Shadow is the second shadow-mapping pass: specular lighting attenuated
// where the shadow map sees something nearer to the light.
type Shadow struct {
	surface
	shadow        *render.DepthBuffer
	uniformShadow math3d.Mat4

	tri [3]math3d.Vec3
}

// NewShadow builds the lighting pass. main and light must share a canvas
// size; shadowMap comes from ShadowMap over the light pipeline. It fails with
// math3d.ErrSingularMatrix when the main transform cannot be inverted.
func NewShadow(main, light *render.Pipeline, scene *Scene, shadowMap *render.DepthBuffer) (*Shadow, error) {
	surf, err := newSurface(main, scene, MapDiffuse, MapNormal, MapSpecular)
	if err != nil {
		return nil, err
	}
	inv, err := main.Transform().Inverse()
	if err != nil {
		return nil, fmt.Errorf("shadow transform: %w", err)
	}
	return &Shadow{
		surface:       surf,
		shadow:        shadowMap,
		uniformShadow: light.Transform().Mul(inv),
	}, nil
}

func (s *Shadow) Vertex(face, nth int) math3d.Vec4 {
	v := s.vertex(face, nth)
	s.tri[nth] = v.PerspectiveDivide()
	return v
}

func (s *Shadow) Fragment(bar, _ math3d.Vec3) (render.Color, bool) {
	factor := s.ShadowFactor(render.InterpolateVec3(s.tri, bar))
	uv, n, l := s.shade(bar)
	diff, spec := phong(n, l, s.scene.SpecularAt(uv))
	return combine(s.scene.DiffuseAt(uv), 20, factor*(1.2*diff+0.6*spec)), false
}

// ShadowFactor maps a screen-space point of the main pass into the shadow
// map and returns 1 when it is lit and 0.3 when something nearer to the
// light covers it. Lookups outside the map use its nearest edge.
func (s *Shadow) ShadowFactor(screen math3d.Vec3) float64 {
	sb := s.uniformShadow.MulVec4(screen.Embed(1)).PerspectiveDivide()
	z := math.Max(0, math.Min(render.Depth, sb.Z+0.5))
	lit := 0.0
	if s.shadow.Clamped(int(sb.X), int(sb.Y)) < z+shadowEpsilon {
		lit = 1
	}
	return 0.3 + 0.7*lit
}
