package models

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/tinyrender/pkg/math3d"
)

// LoadOBJ loads a Wavefront OBJ file.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w: %w", ErrMeshLoad, err)
	}
	defer f.Close()

	return ParseOBJ(f, filepath.Base(path))
}

// ParseOBJ reads OBJ text from r. Supported statements are v, vt, vn and f;
// everything else is ignored. Faces with more than three corners are fan
// triangulated. Missing normals are computed from the geometry.
func ParseOBJ(r io.Reader, name string) (*Mesh, error) {
	mesh := NewMesh(name)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		var err error
		switch fields[0] {
		case "v":
			var v math3d.Vec3
			v, err = parseVec3(fields[1:])
			mesh.Positions = append(mesh.Positions, v)
		case "vn":
			var v math3d.Vec3
			v, err = parseVec3(fields[1:])
			mesh.Normals = append(mesh.Normals, v)
		case "vt":
			var v math3d.Vec2
			v, err = parseVec2(fields[1:])
			mesh.UVs = append(mesh.UVs, v)
		case "f":
			err = mesh.parseFace(fields[1:])
		}
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w: %w", name, line, ErrMeshLoad, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w: %w", ErrMeshLoad, err)
	}

	if err := mesh.Validate(); err != nil {
		return nil, err
	}
	if !mesh.HasNormals() {
		mesh.CalculateSmoothNormals()
	}
	mesh.CalculateBounds()

	return mesh, nil
}

func parseVec3(fields []string) (math3d.Vec3, error) {
	if len(fields) < 3 {
		return math3d.Vec3{}, fmt.Errorf("want 3 components, got %d", len(fields))
	}
	var c [3]float64
	for i := range c {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return math3d.Vec3{}, err
		}
		c[i] = f
	}
	return math3d.V3(c[0], c[1], c[2]), nil
}

// parseVec2 reads a texture coordinate. The optional third (w) component is dropped.
func parseVec2(fields []string) (math3d.Vec2, error) {
	if len(fields) < 2 {
		return math3d.Vec2{}, fmt.Errorf("want 2 components, got %d", len(fields))
	}
	u, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return math3d.Vec2{}, err
	}
	v, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return math3d.Vec2{}, err
	}
	return math3d.V2(u, v), nil
}

func (m *Mesh) parseFace(fields []string) error {
	if len(fields) < 3 {
		return fmt.Errorf("face needs at least 3 corners, got %d", len(fields))
	}
	corners := make([]Corner, len(fields))
	for i, f := range fields {
		c, err := m.parseCorner(f)
		if err != nil {
			return err
		}
		corners[i] = c
	}
	for i := 1; i+1 < len(corners); i++ {
		m.Faces = append(m.Faces, Face{
			Corners:  [3]Corner{corners[0], corners[i], corners[i+1]},
			Material: -1,
		})
	}
	return nil
}

// parseCorner handles v, v/vt, v//vn and v/vt/vn. Indices are 1-based in the
// file; negative indices count back from the end of the stream read so far.
func (m *Mesh) parseCorner(s string) (Corner, error) {
	parts := strings.Split(s, "/")
	if len(parts) > 3 {
		return Corner{}, fmt.Errorf("malformed face corner %q", s)
	}
	c := Corner{UV: -1, Normal: -1}
	streams := [3]int{len(m.Positions), len(m.UVs), len(m.Normals)}
	dst := [3]*int{&c.Vertex, &c.UV, &c.Normal}
	for i, p := range parts {
		if p == "" {
			if i == 0 {
				return Corner{}, fmt.Errorf("face corner %q has no vertex index", s)
			}
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return Corner{}, fmt.Errorf("face corner %q: %w", s, err)
		}
		switch {
		case n > 0:
			*dst[i] = n - 1
		case n < 0:
			*dst[i] = streams[i] + n
		default:
			return Corner{}, fmt.Errorf("face corner %q: index 0 is invalid", s)
		}
	}
	return c, nil
}
