package scenes

import (
	"math/rand/v2"

	"github.com/taigrr/tinyrender/pkg/math3d"
	"github.com/taigrr/tinyrender/pkg/render"
)

const demoSize = 801

// Wire outlines every face of the mesh, placed straight onto the canvas
// without a camera.
func Wire(o Options) (*render.Framebuffer, error) {
	fb, _, err := o.canvas(demoSize)
	if err != nil {
		return nil, err
	}
	sc, err := o.scene(o.Mesh, DefaultMesh)
	if err != nil {
		return nil, err
	}

	w := render.NewWireframe(fb, render.ColorBlack)
	mesh := sc.Mesh
	for f := range sc.Faces() {
		w.DrawTriangle([3]math3d.Vec3{mesh.Vert(f, 0), mesh.Vert(f, 1), mesh.Vert(f, 2)})
	}
	fb.FlipVertical()
	return fb, nil
}

// Line draws a single diagonal. The picture is not flipped.
func Line(o Options) (*render.Framebuffer, error) {
	fb, _, err := o.canvas(demoSize)
	if err != nil {
		return nil, err
	}
	fb.DrawLine(0, 0, 400, 400, render.ColorBlack)
	return fb, nil
}

// Triangle fills one fixed red triangle on a 200 pixel canvas.
func Triangle(o Options) (*render.Framebuffer, error) {
	fb, _, err := o.canvas(200)
	if err != nil {
		return nil, err
	}
	fb.FillTriangle([3]math3d.Vec2i{{X: 10, Y: 10}, {X: 100, Y: 30}, {X: 190, Y: 160}}, render.ColorRed)
	fb.FlipVertical()
	return fb, nil
}

// FlatShading fills each face with a random color drawn from a generator
// seeded by Options.Seed.
func FlatShading(o Options) (*render.Framebuffer, error) {
	fb, _, err := o.canvas(DefaultSize)
	if err != nil {
		return nil, err
	}
	sc, err := o.scene(o.Mesh, DefaultMesh)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewPCG(o.Seed, o.Seed))
	for f := range sc.Faces() {
		var pts [3]math3d.Vec2i
		for n := range 3 {
			pts[n] = render.FitScreenInt(sc.Mesh.Vert(f, n), fb.Width, fb.Height)
		}
		c := render.RGB(uint8(rng.IntN(255)), uint8(rng.IntN(255)), uint8(rng.IntN(255)))
		fb.FillTriangle(pts, c)
	}
	fb.FlipVertical()
	return fb, nil
}

// faceIntensity is the flat lighting of face f: its geometric normal
// (v2-v0)×(v1-v0), normalized, against light.
func faceIntensity(v [3]math3d.Vec3, light math3d.Vec3) float64 {
	n := v[2].Sub(v[0]).Cross(v[1].Sub(v[0])).Normalize()
	return n.Dot(light)
}

// LinearLight flat-lights each face against a light looking down -Z and
// skips faces turned away from it. Faces are drawn in mesh order with no
// depth test.
func LinearLight(o Options) (*render.Framebuffer, error) {
	fb, _, err := o.canvas(DefaultSize)
	if err != nil {
		return nil, err
	}
	sc, err := o.scene(o.Mesh, DefaultMesh)
	if err != nil {
		return nil, err
	}

	light := o.light(math3d.V3(0, 0, -1))
	for f := range sc.Faces() {
		var pts [3]math3d.Vec2i
		var world [3]math3d.Vec3
		for n := range 3 {
			world[n] = sc.Mesh.Vert(f, n)
			pts[n] = render.FitScreenInt(world[n], fb.Width, fb.Height)
		}
		if i := faceIntensity(world, light); i > 0 {
			fb.FillTriangle(pts, render.Gray(i*255))
		}
	}
	fb.FlipVertical()
	return fb, nil
}

// ZBuffer is LinearLight with a depth test on the object-space Z.
func ZBuffer(o Options) (*render.Framebuffer, error) {
	fb, depth, err := o.canvas(DefaultSize)
	if err != nil {
		return nil, err
	}
	sc, err := o.scene(o.Mesh, DefaultMesh)
	if err != nil {
		return nil, err
	}

	r := render.NewRasterizer(fb, depth)
	light := o.light(math3d.V3(0, 0, -1))
	for f := range sc.Faces() {
		var pts, world [3]math3d.Vec3
		for n := range 3 {
			world[n] = sc.Mesh.Vert(f, n)
			pts[n] = render.FitScreen(world[n], fb.Width, fb.Height)
		}
		if i := faceIntensity(world, light); i > 0 {
			r.FillTriangleDepth(pts, render.Gray(i*255))
		}
	}
	fb.FlipVertical()
	return fb, nil
}

// moveCamera runs the scanline filler through the full transform chain with
// per-vertex intensities, returning both targets unflipped.
func moveCamera(o Options) (*render.Framebuffer, *render.DepthBuffer, error) {
	fb, depth, err := o.canvas(DefaultSize)
	if err != nil {
		return nil, nil, err
	}
	sc, err := o.scene(o.Mesh, DefaultMesh)
	if err != nil {
		return nil, nil, err
	}
	p, err := o.pipeline(fb.Width, o.eye(defaultEye), o.light(math3d.V3(1, -1, 1)))
	if err != nil {
		return nil, nil, err
	}

	fb.Clear(render.ColorBlack)
	r := render.NewRasterizer(fb, depth)
	transform := p.Transform()
	for f := range sc.Faces() {
		var t [3]math3d.Vec3i
		var ity [3]float64
		for n := range 3 {
			t[n] = transform.MulVec4(sc.Mesh.Vert(f, n).Embed(1)).PerspectiveDivide().Round()
			ity[n] = sc.Mesh.Normal(f, n).Dot(p.Light)
		}
		r.Scanline(t, ity)
	}
	return fb, depth, nil
}

// MoveCamera renders the mesh through the look-at camera with the scanline
// filler and per-vertex lighting.
func MoveCamera(o Options) (*render.Framebuffer, error) {
	fb, _, err := moveCamera(o)
	if err != nil {
		return nil, err
	}
	fb.FlipVertical()
	return fb, nil
}

// MoveCameraDepth is the depth buffer MoveCamera leaves behind, one gray
// level per depth unit.
func MoveCameraDepth(o Options) (*render.Framebuffer, error) {
	_, depth, err := moveCamera(o)
	if err != nil {
		return nil, err
	}
	fb := depth.Framebuffer(1)
	fb.FlipVertical()
	return fb, nil
}
