package models

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/taigrr/tinyrender/pkg/math3d"
)

func quadMesh() *Mesh {
	m := NewMesh("quad")
	m.Positions = []math3d.Vec3{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 2}, {X: 0, Y: 2}}
	m.Faces = []Face{
		{Corners: [3]Corner{{0, -1, -1}, {1, -1, -1}, {2, -1, -1}}, Material: -1},
		{Corners: [3]Corner{{0, -1, -1}, {2, -1, -1}, {3, -1, -1}}, Material: -1},
	}
	return m
}

func TestMeshSmoothNormals(t *testing.T) {
	m := quadMesh()
	if m.HasNormals() {
		t.Fatal("HasNormals should be false before calculation")
	}

	m.CalculateSmoothNormals()

	if !m.HasNormals() {
		t.Fatal("HasNormals should be true after calculation")
	}
	for f := range m.Faces {
		for n := range 3 {
			if diff := cmp.Diff(math3d.V3(0, 0, 1), m.Normal(f, n)); diff != "" {
				t.Errorf("Normal(%d,%d) mismatch (-want +got):\n%s", f, n, diff)
			}
		}
	}
}

func TestMeshFitUnit(t *testing.T) {
	m := quadMesh()
	m.FitUnit()

	opt := cmpopts.EquateApprox(0, 1e-12)
	if diff := cmp.Diff(math3d.V3(-1, -0.5, 0), m.BoundsMin, opt); diff != "" {
		t.Errorf("BoundsMin mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(math3d.V3(1, 0.5, 0), m.BoundsMax, opt); diff != "" {
		t.Errorf("BoundsMax mismatch (-want +got):\n%s", diff)
	}
}

func TestMeshValidate(t *testing.T) {
	tests := []struct {
		name   string
		corner Corner
		ok     bool
	}{
		{"valid", Corner{Vertex: 3, UV: -1, Normal: -1}, true},
		{"vertex past end", Corner{Vertex: 4, UV: -1, Normal: -1}, false},
		{"negative vertex", Corner{Vertex: -1, UV: -1, Normal: -1}, false},
		{"uv past end", Corner{Vertex: 0, UV: 0, Normal: -1}, false},
		{"normal past end", Corner{Vertex: 0, UV: -1, Normal: 2}, false},
		{"negative normal", Corner{Vertex: 0, UV: -1, Normal: -3}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := quadMesh()
			m.Faces[1].Corners[2] = tt.corner
			err := m.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.ok && !errors.Is(err, ErrMeshLoad) {
				t.Errorf("Validate() = %v, want ErrMeshLoad", err)
			}
		})
	}
}

func TestMeshAccessorsWithoutStreams(t *testing.T) {
	m := quadMesh()
	if got := m.UV(0, 1); got != (math3d.Vec2{}) {
		t.Errorf("UV without stream = %v, want zero", got)
	}
	if got := m.Normal(0, 1); got != (math3d.Vec3{}) {
		t.Errorf("Normal without stream = %v, want zero", got)
	}
	if got := m.Vert(1, 2); got != math3d.V3(0, 2, 0) {
		t.Errorf("Vert(1,2) = %v", got)
	}
}

// TestFaceMaterialIndex verifies per-face material assignment.
func TestFaceMaterialIndex(t *testing.T) {
	mesh := quadMesh()
	mesh.Materials = []Material{
		{Name: "red", BaseColor: [4]float64{1, 0, 0, 1}},
	}
	mesh.Faces[0].Material = 0

	if mesh.FaceMaterial(0) != 0 {
		t.Errorf("Face 0 should have material 0, got %d", mesh.FaceMaterial(0))
	}
	if mesh.FaceMaterial(1) != -1 {
		t.Errorf("Face 1 should have material -1, got %d", mesh.FaceMaterial(1))
	}
	if mat := mesh.GetMaterial(0); mat == nil || mat.Name != "red" {
		t.Errorf("GetMaterial(0) should return 'red' material")
	}
	if mesh.GetMaterial(-1) != nil || mesh.GetMaterial(99) != nil {
		t.Errorf("GetMaterial should return nil out of range")
	}
	if mesh.BaseMap() != nil {
		t.Errorf("BaseMap should be nil without textures")
	}
}

func TestNormalIsUnit(t *testing.T) {
	m := quadMesh()
	m.Normals = []math3d.Vec3{{X: 0, Y: 3, Z: 4}}
	m.Faces[0].Corners[0].Normal = 0
	if l := m.Normal(0, 0).Len(); math.Abs(l-1) > 1e-12 {
		t.Errorf("Normal length = %v, want 1", l)
	}
}
