// Package shader implements the shading variants run by the barycentric
// rasterizer, and the scene they read from.
package shader

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/taigrr/tinyrender/pkg/math3d"
	"github.com/taigrr/tinyrender/pkg/models"
	"github.com/taigrr/tinyrender/pkg/render"
)

// Map names a texture map of a scene.
type Map int

const (
	MapDiffuse Map = iota
	MapNormal
	MapSpecular
)

func (m Map) String() string {
	switch m {
	case MapDiffuse:
		return "diffuse"
	case MapNormal:
		return "normal"
	case MapSpecular:
		return "specular"
	default:
		return fmt.Sprintf("Map(%d)", int(m))
	}
}

// suffix is the file name suffix of each map next to an OBJ mesh.
func (m Map) suffix() string {
	switch m {
	case MapNormal:
		return "_nm.tga"
	case MapSpecular:
		return "_spec.tga"
	default:
		return "_diffuse.tga"
	}
}

// Scene holds the immutable inputs of a render: the mesh and its texture
// maps. It is never written after loading, so any number of shaders and
// concurrent renders may share one Scene.
type Scene struct {
	Mesh      *models.Mesh
	Diffuse   *render.Texture
	NormalMap *render.Texture
	Specular  *render.Texture
}

// NewScene wraps a mesh with no texture maps.
func NewScene(mesh *models.Mesh) *Scene {
	return &Scene{Mesh: mesh}
}

// LoadScene loads a mesh and the texture maps stored beside it.
//
// For foo.obj the maps are foo_diffuse.tga, foo_nm.tga and foo_spec.tga.
// A missing map is left nil; a map that exists but fails to decode is an
// error. glTF meshes take their diffuse map from the first material texture.
func LoadScene(meshPath string) (*Scene, error) {
	mesh, err := models.Load(meshPath)
	if err != nil {
		return nil, err
	}
	s := NewScene(mesh)

	if img := mesh.BaseMap(); img != nil {
		s.Diffuse = render.TextureFromImage(img)
	}

	base := strings.TrimSuffix(meshPath, filepath.Ext(meshPath))
	for _, m := range []Map{MapDiffuse, MapNormal, MapSpecular} {
		if s.texture(m) != nil {
			continue
		}
		path := base + m.suffix()
		tex, err := render.LoadTexture(path)
		if errors.Is(err, fs.ErrNotExist) {
			render.Logger().Warn("texture map not found", "map", m, "path", path)
			continue
		}
		if err != nil {
			return nil, err
		}
		s.setTexture(m, tex)
	}

	render.Logger().Info("scene loaded",
		"mesh", meshPath,
		"faces", mesh.TriangleCount(),
		"vertices", mesh.VertexCount(),
		"diffuse", s.Diffuse != nil,
		"normal", s.NormalMap != nil,
		"specular", s.Specular != nil,
	)
	return s, nil
}

func (s *Scene) texture(m Map) *render.Texture {
	switch m {
	case MapDiffuse:
		return s.Diffuse
	case MapNormal:
		return s.NormalMap
	case MapSpecular:
		return s.Specular
	}
	return nil
}

func (s *Scene) setTexture(m Map, t *render.Texture) {
	switch m {
	case MapDiffuse:
		s.Diffuse = t
	case MapNormal:
		s.NormalMap = t
	case MapSpecular:
		s.Specular = t
	}
}

// Require fails with render.ErrTextureLoad unless every named map is present.
func (s *Scene) Require(maps ...Map) error {
	if s == nil || s.Mesh == nil {
		return fmt.Errorf("scene has no mesh: %w", models.ErrMeshLoad)
	}
	for _, m := range maps {
		if s.texture(m) == nil {
			return fmt.Errorf("scene %q has no %s map: %w", s.Mesh.Name, m, render.ErrTextureLoad)
		}
	}
	return nil
}

// Faces returns the number of faces to draw.
func (s *Scene) Faces() int {
	return len(s.Mesh.Faces)
}

// DiffuseAt samples the diffuse map.
func (s *Scene) DiffuseAt(uv math3d.Vec2) render.Color {
	return s.Diffuse.SampleUV(uv)
}

// NormalAt samples the tangent-free normal map, mapping each channel from
// [0, 255] to [-1, 1].
func (s *Scene) NormalAt(uv math3d.Vec2) math3d.Vec3 {
	c := s.NormalMap.SampleUV(uv)
	return math3d.V3(float64(c.R), float64(c.G), float64(c.B)).Scale(2.0 / 255).Sub(math3d.V3(1, 1, 1))
}

// SpecularAt returns the specular exponent stored in the first channel of
// the specular map.
func (s *Scene) SpecularAt(uv math3d.Vec2) float64 {
	return float64(s.Specular.SampleUV(uv).R)
}
