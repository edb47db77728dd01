// Package models provides mesh loading and representation for the renderer.
package models

import (
	"errors"
	"fmt"
	"image"

	"github.com/taigrr/tinyrender/pkg/math3d"
)

// ErrMeshLoad is returned when a mesh file cannot be read or is malformed.
var ErrMeshLoad = errors.New("models: mesh load failed")

// Mesh is a triangle mesh with independent position, normal, and UV streams.
// Faces reference each stream separately, the way OBJ files do.
type Mesh struct {
	Name      string
	Positions []math3d.Vec3
	Normals   []math3d.Vec3
	UVs       []math3d.Vec2
	Faces     []Face
	Materials []Material

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// Corner holds the 0-based stream indices for one face vertex.
// UV and Normal are -1 when the source had none.
type Corner struct {
	Vertex int
	UV     int
	Normal int
}

// Face is a triangle with a material reference.
type Face struct {
	Corners  [3]Corner
	Material int // Index into Mesh.Materials (-1 for no material)
}

// Material carries the base color of a glTF material and its decoded texture.
type Material struct {
	Name      string
	BaseColor [4]float64  // RGBA in 0-1 range
	BaseMap   image.Image // Optional base color texture
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Positions) == 0 {
		return
	}

	m.BoundsMin = m.Positions[0]
	m.BoundsMax = m.Positions[0]

	for _, p := range m.Positions[1:] {
		m.BoundsMin = m.BoundsMin.Min(p)
		m.BoundsMax = m.BoundsMax.Max(p)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of positions.
func (m *Mesh) VertexCount() int {
	return len(m.Positions)
}

// Vert returns the object-space position of corner nth of face.
func (m *Mesh) Vert(face, nth int) math3d.Vec3 {
	return m.Positions[m.Faces[face].Corners[nth].Vertex]
}

// Normal returns the unit normal of corner nth of face.
func (m *Mesh) Normal(face, nth int) math3d.Vec3 {
	i := m.Faces[face].Corners[nth].Normal
	if i < 0 {
		return math3d.Vec3{}
	}
	return m.Normals[i].Normalize()
}

// UV returns the texture coordinate of corner nth of face.
func (m *Mesh) UV(face, nth int) math3d.Vec2 {
	i := m.Faces[face].Corners[nth].UV
	if i < 0 {
		return math3d.Vec2{}
	}
	return m.UVs[i]
}

// Validate checks that every face index points into its stream.
func (m *Mesh) Validate() error {
	for fi, f := range m.Faces {
		for _, c := range f.Corners {
			if c.Vertex < 0 || c.Vertex >= len(m.Positions) {
				return fmt.Errorf("face %d: vertex index %d out of range [0,%d): %w", fi, c.Vertex, len(m.Positions), ErrMeshLoad)
			}
			if c.UV < -1 || c.UV >= len(m.UVs) {
				return fmt.Errorf("face %d: uv index %d out of range [0,%d): %w", fi, c.UV, len(m.UVs), ErrMeshLoad)
			}
			if c.Normal < -1 || c.Normal >= len(m.Normals) {
				return fmt.Errorf("face %d: normal index %d out of range [0,%d): %w", fi, c.Normal, len(m.Normals), ErrMeshLoad)
			}
		}
	}
	return nil
}

// HasNormals reports whether every corner references a normal.
func (m *Mesh) HasNormals() bool {
	for _, f := range m.Faces {
		for _, c := range f.Corners {
			if c.Normal < 0 {
				return false
			}
		}
	}
	return len(m.Faces) > 0
}

// CalculateSmoothNormals replaces the normal stream with area-weighted
// per-position normals and points every corner at them.
func (m *Mesh) CalculateSmoothNormals() {
	m.Normals = make([]math3d.Vec3, len(m.Positions))

	for _, f := range m.Faces {
		v0 := m.Positions[f.Corners[0].Vertex]
		v1 := m.Positions[f.Corners[1].Vertex]
		v2 := m.Positions[f.Corners[2].Vertex]

		normal := v1.Sub(v0).Cross(v2.Sub(v0)) // Don't normalize yet

		for _, c := range f.Corners {
			m.Normals[c.Vertex] = m.Normals[c.Vertex].Add(normal)
		}
	}

	for i := range m.Normals {
		m.Normals[i] = m.Normals[i].Normalize()
	}
	for i := range m.Faces {
		for j := range m.Faces[i].Corners {
			m.Faces[i].Corners[j].Normal = m.Faces[i].Corners[j].Vertex
		}
	}
}

// FitUnit recenters the mesh on the origin and scales it uniformly so its
// largest extent spans [-1, 1]. Normals are unaffected by uniform scaling.
func (m *Mesh) FitUnit() {
	m.CalculateBounds()
	size := m.Size()
	extent := max(size.X, size.Y, size.Z)
	if extent == 0 {
		return
	}
	center := m.Center()
	s := 2 / extent
	for i, p := range m.Positions {
		m.Positions[i] = p.Sub(center).Scale(s)
	}
	m.CalculateBounds()
}

// FaceMaterial returns the material index for face i.
// Returns -1 if no material assigned.
func (m *Mesh) FaceMaterial(i int) int {
	return m.Faces[i].Material
}

// GetMaterial returns the material at index i.
// Returns nil if index is out of bounds or -1.
func (m *Mesh) GetMaterial(i int) *Material {
	if i < 0 || i >= len(m.Materials) {
		return nil
	}
	return &m.Materials[i]
}

// BaseMap returns the first material texture, or nil if the mesh has none.
func (m *Mesh) BaseMap() image.Image {
	for _, mat := range m.Materials {
		if mat.BaseMap != nil {
			return mat.BaseMap
		}
	}
	return nil
}
