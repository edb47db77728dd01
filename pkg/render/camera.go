package render

import (
	"math"

	"github.com/taigrr/tinyrender/pkg/math3d"
)

// Orbit is a camera that circles a center point at a fixed distance. Yaw
// turns around the Y axis and pitch tilts towards it. The zero angles put
// the eye on +Z.
type Orbit struct {
	Center   math3d.Vec3
	Up       math3d.Vec3
	Distance float64
	Yaw      float64 // Radians around Y
	Pitch    float64 // Radians above the XZ plane
}

// maxPitch keeps the eye off the poles, where up × z vanishes.
const maxPitch = math.Pi/2 - 0.01

// NewOrbit returns an orbit placed so its eye is at eye.
func NewOrbit(eye, center math3d.Vec3) *Orbit {
	o := &Orbit{Center: center, Up: math3d.Up()}
	o.SetEye(eye)
	return o
}

// Eye returns the camera position.
func (o *Orbit) Eye() math3d.Vec3 {
	cp := math.Cos(o.Pitch)
	dir := math3d.V3(math.Sin(o.Yaw)*cp, math.Sin(o.Pitch), math.Cos(o.Yaw)*cp)
	return o.Center.Add(dir.Scale(o.Distance))
}

// SetEye recovers yaw, pitch and distance from an eye position.
func (o *Orbit) SetEye(eye math3d.Vec3) {
	d := eye.Sub(o.Center)
	o.Distance = d.Len()
	if o.Distance == 0 {
		o.Yaw, o.Pitch = 0, 0
		return
	}
	o.Pitch = math.Asin(d.Y / o.Distance)
	o.Yaw = math.Atan2(d.X, d.Z)
	o.clamp()
}

// Rotate adds to the orbit angles (radians).
func (o *Orbit) Rotate(deltaYaw, deltaPitch float64) {
	o.Yaw += deltaYaw
	o.Pitch += deltaPitch
	o.clamp()
}

// Zoom scales the distance, which never drops below min.
func (o *Orbit) Zoom(factor, min float64) {
	o.Distance = math.Max(min, o.Distance*factor)
}

func (o *Orbit) clamp() {
	o.Pitch = math.Max(-maxPitch, math.Min(maxPitch, o.Pitch))
}

// Apply configures p to look through the orbit camera.
func (o *Orbit) Apply(p *Pipeline) {
	p.Camera(o.Eye(), o.Center, o.Up)
}
