package render

import (
	"log/slog"

	"github.com/taigrr/tinyrender/pkg/math3d"
)

// Depth is the span of the depth axis after the viewport transform.
const Depth = 255.0

// LookAt builds the model-view matrix for a camera at eye looking at center.
//
// The basis rows are x = normalize(up × z), y = normalize(z × x) and
// z = normalize(eye - center). The translation column holds -center rather
// than -eye; renders are tuned for that placement.
func LookAt(eye, center, up math3d.Vec3) math3d.Mat4 {
	z := eye.Sub(center).Normalize()
	x := up.Cross(z).Normalize()
	y := z.Cross(x).Normalize()

	return math3d.Mat4FromRows(
		math3d.V4(x.X, x.Y, x.Z, -center.X),
		math3d.V4(y.X, y.Y, y.Z, -center.Y),
		math3d.V4(z.X, z.Y, z.Z, -center.Z),
		math3d.V4(0, 0, 0, 1),
	)
}

// Projection returns the identity with element [3][2] set to coeff, the
// single-term perspective divide. The conventional coeff is -1/|eye-center|;
// 0 gives an orthographic view.
func Projection(coeff float64) math3d.Mat4 {
	m := math3d.Identity()
	m.Set(3, 2, coeff)
	return m
}

// Viewport maps the [-1,1] cube onto the w×h pixel box at (x, y), with depth
// rescaled into [0, Depth].
func Viewport(x, y, w, h int) math3d.Mat4 {
	fx, fy, fw, fh := float64(x), float64(y), float64(w), float64(h)
	return math3d.Mat4FromRows(
		math3d.V4(fw/2, 0, 0, fx+fw/2),
		math3d.V4(0, fh/2, 0, fy+fh/2),
		math3d.V4(0, 0, Depth/2, Depth/2),
		math3d.V4(0, 0, 0, 1),
	)
}

// Pipeline is the transform chain and lighting shared by the shaders of one
// render. It is read-only once the face loop starts.
type Pipeline struct {
	ModelView  math3d.Mat4
	Projection math3d.Mat4
	Viewport   math3d.Mat4

	Light  math3d.Vec3 // Direction towards the light, normalized
	Width  int
	Height int
}

// NewPipeline returns a pipeline for a width×height canvas with identity
// transforms.
func NewPipeline(width, height int, light math3d.Vec3) *Pipeline {
	return &Pipeline{
		ModelView:  math3d.Identity(),
		Projection: math3d.Identity(),
		Viewport:   math3d.Identity(),
		Light:      light.Normalize(),
		Width:      width,
		Height:     height,
	}
}

// LookAt sets the model-view matrix. See the package-level LookAt.
func (p *Pipeline) LookAt(eye, center, up math3d.Vec3) {
	p.ModelView = LookAt(eye, center, up)
}

// SetProjection sets the perspective coefficient.
func (p *Pipeline) SetProjection(coeff float64) {
	p.Projection = Projection(coeff)
}

// SetViewport sets the viewport box.
func (p *Pipeline) SetViewport(x, y, w, h int) {
	p.Viewport = Viewport(x, y, w, h)
}

// Camera configures the usual perspective camera: look-at, projection
// coefficient -1/|eye-center| and a viewport covering the whole canvas.
func (p *Pipeline) Camera(eye, center, up math3d.Vec3) {
	p.LookAt(eye, center, up)
	p.SetProjection(-1 / eye.Sub(center).Len())
	p.SetViewport(0, 0, p.Width, p.Height)
}

// Clip returns Projection * ModelView.
func (p *Pipeline) Clip() math3d.Mat4 {
	return p.Projection.Mul(p.ModelView)
}

// Transform returns the full chain Viewport * Projection * ModelView.
func (p *Pipeline) Transform() math3d.Mat4 {
	return p.Viewport.Mul(p.Projection).Mul(p.ModelView)
}

// Screen transforms an object-space point through the full chain, keeping W.
func (p *Pipeline) Screen(v math3d.Vec3) math3d.Vec4 {
	return p.Transform().MulVec4(v.Embed(1))
}

// LogValue implements slog.LogValuer.
func (p *Pipeline) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("modelview", p.ModelView.String()),
		slog.String("projection", p.Projection.String()),
		slog.String("viewport", p.Viewport.String()),
		slog.String("transform", p.Transform().String()),
		slog.Int("width", p.Width),
		slog.Int("height", p.Height),
	)
}
