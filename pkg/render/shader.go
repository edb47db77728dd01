package render

import "github.com/taigrr/tinyrender/pkg/math3d"

// Shader is the programmable stage of the barycentric rasterizer.
//
// Vertex is called for nth = 0, 1, 2 of a face before that face is
// rasterized. It returns the clip-space position (before the perspective
// divide) and stashes whatever per-vertex varyings Fragment will need.
//
// Fragment is called once per covered pixel that passed the depth test.
// bar holds the barycentric weights of the pixel, fragCoord its screen
// position and depth. Returning discard leaves the pixel and its depth
// untouched.
type Shader interface {
	Vertex(face, nth int) math3d.Vec4
	Fragment(bar, fragCoord math3d.Vec3) (c Color, discard bool)
}

// DrawMesh runs the face loop: three Vertex calls then one Triangle per face.
func (r *Rasterizer) DrawMesh(faces int, s Shader) {
	var clip [3]math3d.Vec4
	for f := range faces {
		for n := range 3 {
			clip[n] = s.Vertex(f, n)
		}
		r.Triangle(clip, s)
	}
}

// Interpolate3 blends three values by barycentric weights.
func Interpolate3(v [3]float64, bar math3d.Vec3) float64 {
	return v[0]*bar.X + v[1]*bar.Y + v[2]*bar.Z
}

// InterpolateVec2 blends three Vec2 varyings by barycentric weights.
func InterpolateVec2(v [3]math3d.Vec2, bar math3d.Vec3) math3d.Vec2 {
	return v[0].Scale(bar.X).Add(v[1].Scale(bar.Y)).Add(v[2].Scale(bar.Z))
}

// InterpolateVec3 blends three Vec3 varyings by barycentric weights.
func InterpolateVec3(v [3]math3d.Vec3, bar math3d.Vec3) math3d.Vec3 {
	return v[0].Scale(bar.X).Add(v[1].Scale(bar.Y)).Add(v[2].Scale(bar.Z))
}
