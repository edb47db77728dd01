package render

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/taigrr/tinyrender/pkg/math3d"
)

func TestDrawLine(t *testing.T) {
	tests := []struct {
		name           string
		x0, y0, x1, y1 int
		wantCount      int
		wantSet        [][2]int
		wantUnset      [][2]int
	}{
		{
			name: "diagonal", x0: 0, y0: 0, x1: 400, y1: 400,
			wantCount: 400,
			wantSet:   [][2]int{{0, 0}, {200, 200}, {399, 399}},
			wantUnset: [][2]int{{400, 400}, {1, 0}},
		},
		{
			name: "horizontal", x0: 0, y0: 5, x1: 10, y1: 5,
			wantCount: 10,
			wantSet:   [][2]int{{0, 5}, {9, 5}},
			wantUnset: [][2]int{{10, 5}},
		},
		{
			name: "vertical", x0: 3, y0: 0, x1: 3, y1: 10,
			wantCount: 10,
			wantSet:   [][2]int{{3, 0}, {3, 9}},
			wantUnset: [][2]int{{3, 10}},
		},
		{
			name: "reversed", x0: 10, y0: 5, x1: 0, y1: 5,
			wantCount: 10,
			wantSet:   [][2]int{{0, 5}, {9, 5}},
		},
		{
			name: "single point", x0: 5, y0: 5, x1: 5, y1: 5,
			wantCount: 0,
		},
		{
			name: "clipped", x0: -10, y0: 0, x1: 10, y1: 0,
			wantCount: 10,
			wantSet:   [][2]int{{0, 0}, {9, 0}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fb := NewFramebuffer(401, 401)
			fb.DrawLine(tc.x0, tc.y0, tc.x1, tc.y1, ColorBlack)

			if got := fb.Count(ColorBlack); got != tc.wantCount {
				t.Errorf("drew %d pixels, want %d", got, tc.wantCount)
			}
			for _, p := range tc.wantSet {
				if fb.GetPixel(p[0], p[1]) != ColorBlack {
					t.Errorf("pixel %v not drawn", p)
				}
			}
			for _, p := range tc.wantUnset {
				if fb.GetPixel(p[0], p[1]) == ColorBlack {
					t.Errorf("pixel %v drawn", p)
				}
			}
		})
	}
}

func TestDrawLineShallowSlope(t *testing.T) {
	fb := NewFramebuffer(20, 20)
	fb.DrawLine(0, 0, 10, 2, ColorWhite)

	// derror is 0.2, so y steps after the third and eighth pixels
	want := []int{0, 0, 0, 1, 1, 1, 1, 1, 2, 2}
	for x, y := range want {
		if fb.GetPixel(x, y) != ColorWhite {
			t.Errorf("pixel (%d,%d) not drawn", x, y)
		}
	}
}

func TestCrossBarycentric(t *testing.T) {
	tri := [3]math3d.Vec2{math3d.V2(0, 0), math3d.V2(10, 0), math3d.V2(0, 10)}

	tests := []struct {
		name string
		p    math3d.Vec2
		want math3d.Vec3
	}{
		{"vertex 0", math3d.V2(0, 0), math3d.V3(1, 0, 0)},
		{"vertex 1", math3d.V2(10, 0), math3d.V3(0, 1, 0)},
		{"vertex 2", math3d.V2(0, 10), math3d.V3(0, 0, 1)},
		{"midpoint", math3d.V2(5, 5), math3d.V3(0, 0.5, 0.5)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := CrossBarycentric(tri, tc.p)
			if diff := cmp.Diff(tc.want, got, approx); diff != "" {
				t.Errorf("CrossBarycentric(%v) mismatch (-want +got):\n%s", tc.p, diff)
			}
		})
	}

	t.Run("either winding", func(t *testing.T) {
		cw := [3]math3d.Vec2{tri[0], tri[2], tri[1]}
		got := CrossBarycentric(cw, math3d.V2(2, 2))
		if got.X < 0 || got.Y < 0 || got.Z < 0 {
			t.Errorf("CrossBarycentric(clockwise) = %v, want all weights >= 0", got)
		}
	})

	t.Run("sub-pixel area", func(t *testing.T) {
		tiny := [3]math3d.Vec2{math3d.V2(0, 0), math3d.V2(0.5, 0), math3d.V2(0, 0.5)}
		if got := CrossBarycentric(tiny, math3d.V2(0, 0)); got != outside {
			t.Errorf("CrossBarycentric(tiny) = %v, want %v", got, outside)
		}
	})
}

func TestFillTriangle(t *testing.T) {
	fb := NewFramebuffer(200, 200)
	fb.FillTriangle([3]math3d.Vec2i{{X: 10, Y: 10}, {X: 100, Y: 30}, {X: 190, Y: 160}}, ColorRed)

	if fb.Count(ColorRed) == 0 {
		t.Fatal("no red pixels drawn")
	}
	if fb.GetPixel(100, 66) != ColorRed {
		t.Error("interior pixel not red")
	}
	if fb.GetPixel(0, 0) == ColorRed || fb.GetPixel(199, 199) == ColorRed {
		t.Error("corner pixel is red")
	}

	before := fb.Count(ColorRed)
	fb.FillTriangle([3]math3d.Vec2i{{X: 0, Y: 0}, {X: 50, Y: 50}, {X: 100, Y: 100}}, ColorBlue)
	if fb.Count(ColorBlue) != 0 || fb.Count(ColorRed) != before {
		t.Error("collinear triangle drew pixels")
	}
}

func TestFillTriangleDepth(t *testing.T) {
	r, fb, _ := newTestTarget(50, 50)
	pts := func(z float64) [3]math3d.Vec3 {
		return [3]math3d.Vec3{math3d.V3(5, 5, z), math3d.V3(45, 5, z), math3d.V3(5, 45, z)}
	}

	r.FillTriangleDepth(pts(1), ColorRed)
	r.FillTriangleDepth(pts(0.5), ColorGreen)
	if got := fb.GetPixel(10, 10); got != ColorRed {
		t.Errorf("farther triangle overwrote pixel: got %v", got)
	}

	r.FillTriangleDepth(pts(1), ColorBlue)
	if got := fb.GetPixel(10, 10); got != ColorRed {
		t.Errorf("equal depth overwrote pixel: got %v, want red", got)
	}

	r.FillTriangleDepth(pts(2), ColorBlue)
	if got := fb.GetPixel(10, 10); got != ColorBlue {
		t.Errorf("nearer triangle did not overwrite: got %v", got)
	}
}

func TestScanline(t *testing.T) {
	tri := [3]math3d.Vec3i{{X: 10, Y: 10, Z: 5}, {X: 50, Y: 10, Z: 5}, {X: 30, Y: 40, Z: 5}}

	t.Run("fills interior", func(t *testing.T) {
		r, fb, depth := newTestTarget(64, 64)
		r.Scanline(tri, [3]float64{1, 1, 1})

		for _, p := range [][2]int{{30, 10}, {30, 20}, {11, 10}} {
			if got := fb.GetPixel(p[0], p[1]); got != ColorWhite {
				t.Errorf("pixel %v = %v, want white", p, got)
			}
		}
		if fb.GetPixel(30, 40) == ColorWhite {
			t.Error("last row drawn")
		}
		if got, _ := depth.At(30, 20); got != 5 {
			t.Errorf("depth = %v, want 5", got)
		}
	})

	t.Run("vertex order", func(t *testing.T) {
		r1, fb1, _ := newTestTarget(64, 64)
		r2, fb2, _ := newTestTarget(64, 64)
		r1.Scanline(tri, [3]float64{1, 1, 1})
		r2.Scanline([3]math3d.Vec3i{tri[2], tri[0], tri[1]}, [3]float64{1, 1, 1})
		if diff := cmp.Diff(fb1.Pixels, fb2.Pixels); diff != "" {
			t.Errorf("vertex order changed output (-first +second):\n%s", diff)
		}
	})

	t.Run("flat", func(t *testing.T) {
		r, fb, _ := newTestTarget(64, 64)
		r.Scanline([3]math3d.Vec3i{{X: 0, Y: 7}, {X: 20, Y: 7}, {X: 40, Y: 7}}, [3]float64{1, 1, 1})
		if n := fb.Count(ColorWhite); n != 0 {
			t.Errorf("flat triangle drew %d pixels", n)
		}
	})

	t.Run("strict depth", func(t *testing.T) {
		r, fb, depth := newTestTarget(64, 64)
		for i := range depth.Data {
			depth.Data[i] = 5
		}
		r.Scanline(tri, [3]float64{1, 1, 1})
		if n := fb.Count(ColorWhite); n != 0 {
			t.Errorf("equal depth drew %d pixels", n)
		}
	})

	t.Run("intensity clamp", func(t *testing.T) {
		r, fb, _ := newTestTarget(64, 64)
		r.Scanline(tri, [3]float64{3, 3, 3})
		if fb.GetPixel(30, 20) != ColorWhite {
			t.Error("intensity above 1 not clamped to white")
		}

		r2, fb2, _ := newTestTarget(64, 64)
		r2.Scanline(tri, [3]float64{-1, -1, -1})
		if fb2.GetPixel(30, 20) != ColorBlack {
			t.Error("negative intensity not clamped to black")
		}
	})

	t.Run("partly offscreen", func(t *testing.T) {
		r, fb, _ := newTestTarget(32, 32)
		r.Scanline([3]math3d.Vec3i{{X: -20, Y: -20}, {X: 60, Y: 0}, {X: 10, Y: 50}}, [3]float64{1, 1, 1})
		if fb.Count(ColorWhite) == 0 {
			t.Error("visible part not drawn")
		}
	})
}

func TestWireframe(t *testing.T) {
	fb := NewFramebuffer(801, 801)
	w := NewWireframe(fb, ColorBlack)
	w.DrawTriangle([3]math3d.Vec3{math3d.V3(-1, -1, 0), math3d.V3(1, -1, 0), math3d.V3(0, 1, 0)})

	if fb.GetPixel(400, 0) != ColorBlack {
		t.Error("bottom edge not drawn")
	}
	if fb.GetPixel(400, 400) == ColorBlack {
		t.Error("interior pixel drawn")
	}

	fb.Clear(Color{})
	w.DrawClip([3]math3d.Vec4{math3d.V4(20, 20, 0, 2), math3d.V4(60, 20, 0, 2), math3d.V4(20, 60, 0, 2)})
	if fb.GetPixel(20, 10) != ColorBlack {
		t.Error("divided edge not drawn")
	}
}

func TestFitScreen(t *testing.T) {
	tests := []struct {
		v    math3d.Vec3
		want math3d.Vec2i
	}{
		{math3d.V3(-1, -1, 0), math3d.Vec2i{X: 0, Y: 0}},
		{math3d.V3(1, 1, 0), math3d.Vec2i{X: 799, Y: 799}},
		{math3d.V3(0, 0, 0), math3d.Vec2i{X: 399, Y: 399}},
	}
	for _, tc := range tests {
		if got := FitScreenInt(tc.v, 800, 800); got != tc.want {
			t.Errorf("FitScreenInt(%v) = %v, want %v", tc.v, got, tc.want)
		}
	}
	if got := FitScreen(math3d.V3(0, 0, 0.25), 800, 800).Z; got != 0.25 {
		t.Errorf("FitScreen kept z = %v, want 0.25", got)
	}
}
