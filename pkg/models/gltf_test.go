package models

import (
	"errors"
	"testing"
)

func TestLoadGLBInvalidPath(t *testing.T) {
	_, err := LoadGLB("/nonexistent/path.glb")
	if err == nil {
		t.Fatal("Expected error for nonexistent file")
	}
	if !errors.Is(err, ErrMeshLoad) {
		t.Errorf("err = %v, want ErrMeshLoad", err)
	}
}

func TestGLTFLoaderCreation(t *testing.T) {
	loader := NewGLTFLoader()
	if loader == nil {
		t.Fatal("NewGLTFLoader returned nil")
	}
	if !loader.CalculateNormals {
		t.Error("CalculateNormals should default to true")
	}
	if !loader.FitUnit {
		t.Error("FitUnit should default to true")
	}
	if !loader.LoadTextures {
		t.Error("LoadTextures should default to true")
	}
}

func TestLoadByExtension(t *testing.T) {
	tests := []struct {
		path string
	}{
		{"/nonexistent/head.obj"},
		{"/nonexistent/head.glb"},
		{"/nonexistent/head.stl"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if _, err := Load(tt.path); !errors.Is(err, ErrMeshLoad) {
				t.Errorf("Load(%q) err = %v, want ErrMeshLoad", tt.path, err)
			}
		})
	}
}

func TestWiden(t *testing.T) {
	got := widen([]uint16{0, 7, 65535})
	want := []int{0, 7, 65535}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("widen[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestReadFloat32(t *testing.T) {
	// 1.5 in IEEE-754 little endian
	if got := readFloat32([]byte{0x00, 0x00, 0xc0, 0x3f}); got != 1.5 {
		t.Errorf("readFloat32 = %v, want 1.5", got)
	}
}
