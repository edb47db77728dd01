// Package scenes holds the complete renders: each one loads its mesh,
// builds the camera, runs one or more passes and returns the finished
// picture, top row first.
package scenes

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/taigrr/tinyrender/pkg/math3d"
	"github.com/taigrr/tinyrender/pkg/render"
	"github.com/taigrr/tinyrender/pkg/shader"
)

var (
	// ErrUnknownScene is returned by Render for a name not in the registry.
	ErrUnknownScene = errors.New("scenes: unknown scene")
	// ErrInvalidOptions is returned when the options describe no usable camera.
	ErrInvalidOptions = errors.New("scenes: invalid options")
)

// Defaults used when the matching Options field is zero.
const (
	DefaultSize       = 800
	DefaultMesh       = "obj/african_head/african_head.obj"
	DefaultShadowMesh = "obj/diablo3_pose/diablo3_pose.obj"
)

var (
	defaultEye   = math3d.V3(1, 1, 3)
	defaultUp    = math3d.V3(0, 1, 0)
	defaultLight = math3d.V3(1, 1, 1)
)

// LoadFunc resolves a mesh path to a scene.
type LoadFunc func(path string) (*shader.Scene, error)

// Options configures a render. Zero fields take the render's own default,
// so the zero Options reproduces every picture as originally tuned.
type Options struct {
	Assets     string // Directory mesh paths are relative to
	Mesh       string
	ShadowMesh string // Mesh of the shadow-mapping render
	Size       int    // Canvas width and height

	Eye    math3d.Vec3
	Center math3d.Vec3
	Up     math3d.Vec3
	Light  math3d.Vec3 // Direction towards the light

	Seed uint64 // Seeds the random face colors of flat shading
	Load LoadFunc
}

func (o Options) size(def int) int {
	if o.Size != 0 {
		return o.Size
	}
	return def
}

func (o Options) eye(def math3d.Vec3) math3d.Vec3 {
	return orDefault(o.Eye, def)
}

func (o Options) light(def math3d.Vec3) math3d.Vec3 {
	return orDefault(o.Light, def).Normalize()
}

func (o Options) up() math3d.Vec3 {
	return orDefault(o.Up, defaultUp)
}

func orDefault(v, def math3d.Vec3) math3d.Vec3 {
	if v == (math3d.Vec3{}) {
		return def
	}
	return v
}

// scene loads the mesh at path, or the default mesh when path is empty.
func (o Options) scene(path, def string) (*shader.Scene, error) {
	if path == "" {
		path = def
	}
	if o.Assets != "" && !filepath.IsAbs(path) {
		path = filepath.Join(o.Assets, path)
	}
	load := o.Load
	if load == nil {
		load = shader.LoadScene
	}
	return load(path)
}

// canvas validates the size and allocates the color and depth targets.
func (o Options) canvas(def int) (*render.Framebuffer, *render.DepthBuffer, error) {
	size := o.size(def)
	if size <= 0 {
		return nil, nil, fmt.Errorf("canvas size %d: %w", size, ErrInvalidOptions)
	}
	return render.NewFramebuffer(size, size), render.NewDepthBuffer(size, size), nil
}

// pipeline builds the standard camera: look-at from eye, a viewport over
// the middle three quarters of the canvas and the -1/|eye-center|
// perspective term.
func (o Options) pipeline(size int, eye, light math3d.Vec3) (*render.Pipeline, error) {
	dist := eye.Sub(o.Center).Len()
	if dist == 0 {
		return nil, fmt.Errorf("eye %v at the center: %w", eye, ErrInvalidOptions)
	}
	p := render.NewPipeline(size, size, light)
	p.LookAt(eye, o.Center, o.up())
	p.SetViewport(size/8, size/8, size*3/4, size*3/4)
	p.SetProjection(-1 / dist)
	render.Logger().Debug("pipeline", "eye", eye, "pipeline", p)
	return p, nil
}
