package scenes

import (
	"github.com/taigrr/tinyrender/pkg/math3d"
	"github.com/taigrr/tinyrender/pkg/render"
	"github.com/taigrr/tinyrender/pkg/shader"
)

// shaderFunc builds a shader for one render.
type shaderFunc func(p *render.Pipeline, sc *shader.Scene) (render.Shader, error)

// shaded renders the default mesh on black through the standard camera
// with the shader newShader builds.
func shaded(o Options, newShader shaderFunc) (*render.Framebuffer, error) {
	fb, depth, err := o.canvas(DefaultSize)
	if err != nil {
		return nil, err
	}
	sc, err := o.scene(o.Mesh, DefaultMesh)
	if err != nil {
		return nil, err
	}
	p, err := o.pipeline(fb.Width, o.eye(defaultEye), o.light(defaultLight))
	if err != nil {
		return nil, err
	}
	s, err := newShader(p, sc)
	if err != nil {
		return nil, err
	}

	fb.Clear(render.ColorBlack)
	render.NewRasterizer(fb, depth).DrawMesh(sc.Faces(), s)
	fb.FlipVertical()
	return fb, nil
}

// Gouraud is smooth per-vertex lighting in gray.
func Gouraud(o Options) (*render.Framebuffer, error) {
	return shaded(o, func(p *render.Pipeline, sc *shader.Scene) (render.Shader, error) {
		return shader.NewGouraud(p, sc)
	})
}

// Toon is Gouraud lighting quantized into six orange bands.
func Toon(o Options) (*render.Framebuffer, error) {
	return shaded(o, func(p *render.Pipeline, sc *shader.Scene) (render.Shader, error) {
		return shader.NewToon(p, sc)
	})
}

// Texture modulates the diffuse map by Gouraud lighting.
func Texture(o Options) (*render.Framebuffer, error) {
	return shaded(o, func(p *render.Pipeline, sc *shader.Scene) (render.Shader, error) {
		return shader.NewTextured(p, sc)
	})
}

// NormalMapping lights the diffuse map with per-pixel normals.
func NormalMapping(o Options) (*render.Framebuffer, error) {
	return shaded(o, func(p *render.Pipeline, sc *shader.Scene) (render.Shader, error) {
		return shader.NewNormalMapped(p, sc)
	})
}

// SpecularMapping adds a Phong highlight to NormalMapping.
func SpecularMapping(o Options) (*render.Framebuffer, error) {
	return shaded(o, func(p *render.Pipeline, sc *shader.Scene) (render.Shader, error) {
		return shader.NewSpecular(p, sc)
	})
}

// ShadowMapping renders in two passes: depth from the light, then specular
// lighting darkened where the light's depth pass saw something nearer.
func ShadowMapping(o Options) (*render.Framebuffer, error) {
	fb, depth, err := o.canvas(DefaultSize)
	if err != nil {
		return nil, err
	}
	sc, err := o.scene(o.ShadowMesh, DefaultShadowMesh)
	if err != nil {
		return nil, err
	}
	lightDir := o.light(defaultLight)

	// The light looks at the center from its own direction with no
	// perspective.
	light := render.NewPipeline(fb.Width, fb.Height, lightDir)
	light.LookAt(lightDir, o.Center, o.up())
	light.SetViewport(fb.Width/8, fb.Height/8, fb.Width*3/4, fb.Height*3/4)
	light.SetProjection(0)
	render.Logger().Debug("light pipeline", "pipeline", light)

	shadowMap, err := shader.ShadowMap(light, sc)
	if err != nil {
		return nil, err
	}

	p, err := o.pipeline(fb.Width, o.eye(defaultEye), lightDir)
	if err != nil {
		return nil, err
	}
	s, err := shader.NewShadow(p, light, sc, shadowMap)
	if err != nil {
		return nil, err
	}

	fb.Clear(render.ColorBlack)
	render.NewRasterizer(fb, depth).DrawMesh(sc.Faces(), s)
	fb.FlipVertical()
	return fb, nil
}

// AmbientOcclusion renders the depth of the mesh and shades each covered
// pixel by how much of its horizon the depth buffer leaves open.
func AmbientOcclusion(o Options) (*render.Framebuffer, error) {
	fb, depth, err := o.canvas(DefaultSize)
	if err != nil {
		return nil, err
	}
	sc, err := o.scene(o.Mesh, DefaultMesh)
	if err != nil {
		return nil, err
	}
	p, err := o.pipeline(fb.Width, o.eye(math3d.V3(1.2, -0.8, 3)), o.light(defaultLight))
	if err != nil {
		return nil, err
	}
	z, err := shader.NewZ(p, sc)
	if err != nil {
		return nil, err
	}

	fb.Clear(render.ColorBlack)
	render.NewRasterizer(fb, depth).DrawMesh(sc.Faces(), z)
	shader.AmbientOcclusion(depth, fb)
	fb.FlipVertical()
	return fb, nil
}
