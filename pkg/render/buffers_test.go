package render

import (
	"bytes"
	"errors"
	"math"
	"testing"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/google/go-cmp/cmp"
	"github.com/taigrr/tinyrender/pkg/math3d"
)

func TestClamp8(t *testing.T) {
	tests := []struct {
		in   float64
		want uint8
	}{
		{math.NaN(), 0},
		{-5, 0},
		{0, 0},
		{127.9, 127},
		{254.99, 254},
		{255, 255},
		{300, 255},
		{math.Inf(1), 255},
	}
	for _, tc := range tests {
		if got := Clamp8(tc.in); got != tc.want {
			t.Errorf("Clamp8(%v) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestMultiplyColor(t *testing.T) {
	c := RGBA(100, 200, 50, 128)
	if got, want := MultiplyColor(c, 0.5), RGBA(50, 100, 25, 128); got != want {
		t.Errorf("MultiplyColor(0.5) = %v, want %v", got, want)
	}
	if got, want := MultiplyColor(c, 2), RGBA(200, 255, 100, 128); got != want {
		t.Errorf("MultiplyColor(2) = %v, want %v", got, want)
	}
}

func TestFramebufferFlipVertical(t *testing.T) {
	fb := NewFramebuffer(2, 3)
	fb.SetPixel(0, 0, ColorRed)
	fb.SetPixel(1, 2, ColorBlue)
	fb.FlipVertical()

	if fb.GetPixel(0, 2) != ColorRed {
		t.Error("top row did not move to bottom")
	}
	if fb.GetPixel(1, 0) != ColorBlue {
		t.Error("bottom row did not move to top")
	}
}

func TestFramebufferBounds(t *testing.T) {
	fb := NewFramebuffer(4, 4)
	fb.SetPixel(-1, 0, ColorRed)
	fb.SetPixel(4, 0, ColorRed)
	fb.SetPixel(0, 4, ColorRed)
	if n := fb.Count(ColorRed); n != 0 {
		t.Errorf("out-of-bounds writes landed: %d", n)
	}

	if _, err := fb.At(4, 0); !errors.Is(err, ErrSampleOutOfRange) {
		t.Errorf("At(4,0) error = %v, want ErrSampleOutOfRange", err)
	}
	if _, err := fb.At(3, 3); err != nil {
		t.Errorf("At(3,3) error = %v", err)
	}
}

func TestFramebufferPNGRoundTrip(t *testing.T) {
	fb := NewFramebuffer(3, 2)
	fb.Clear(ColorWhite)
	fb.SetPixel(1, 1, ColorGreen)

	var buf bytes.Buffer
	if err := fb.EncodePNG(&buf); err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	tex, err := DecodeTexture(&buf, false)
	if err != nil {
		t.Fatalf("DecodeTexture: %v", err)
	}
	if diff := cmp.Diff(fb.Pixels, tex.Pixels); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDepthBuffer(t *testing.T) {
	d := NewDepthBuffer(3, 3)
	for i, z := range d.Data {
		if z != FarDepth {
			t.Fatalf("Data[%d] = %v, want FarDepth", i, z)
		}
	}
	if d.Written(1, 1) {
		t.Error("fresh buffer reports written sample")
	}

	d.Set(1, 1, 42)
	if got, err := d.At(1, 1); err != nil || got != 42 {
		t.Errorf("At(1,1) = %v, %v; want 42, nil", got, err)
	}
	if !d.Written(1, 1) {
		t.Error("Written(1,1) = false after Set")
	}

	d.Set(2, 2, 7)
	if got := d.Clamped(10, 10); got != 7 {
		t.Errorf("Clamped(10,10) = %v, want 7", got)
	}

	for _, p := range [][2]int{{-1, 0}, {0, -1}, {3, 0}, {0, 3}} {
		if _, err := d.At(p[0], p[1]); !errors.Is(err, ErrSampleOutOfRange) {
			t.Errorf("At%v error = %v, want ErrSampleOutOfRange", p, err)
		}
	}

	img := d.Framebuffer(1)
	if got := img.GetPixel(1, 1); got != Gray(42) {
		t.Errorf("depth image (1,1) = %v, want gray 42", got)
	}
	if got := img.GetPixel(0, 0); got != ColorBlack {
		t.Errorf("depth image unwritten = %v, want black", got)
	}

	d.Clear()
	if d.Written(1, 1) {
		t.Error("Clear left a written sample")
	}
}

func TestTextureSample(t *testing.T) {
	tex := NewCheckerTexture(4, 4, 2, ColorWhite, ColorBlack)

	// V is flipped: uv (0,0) is the bottom-left pixel (0,3).
	if got := tex.Sample(0, 0); got != tex.GetPixel(0, 3) {
		t.Errorf("Sample(0,0) = %v, want pixel (0,3)", got)
	}
	if got := tex.Sample(0, 0.99); got != ColorWhite {
		t.Errorf("Sample(0,0.99) = %v, want top-left white", got)
	}

	if got, want := tex.Sample(-3, 5), tex.Sample(0, 1); got != want {
		t.Errorf("clamped Sample(-3,5) = %v, want %v", got, want)
	}

	tex.WrapU, tex.WrapV = WrapRepeat, WrapRepeat
	if got, want := tex.Sample(1.1, 0.1), tex.Sample(0.1, 0.1); got != want {
		t.Errorf("repeat Sample(1.1,0.1) = %v, want %v", got, want)
	}
}

func TestTextureSampleStrict(t *testing.T) {
	tex := NewSolidTexture(ColorRed)

	if got, err := tex.SampleStrict(math3d.V2(0.5, 0.5)); err != nil || got != ColorRed {
		t.Errorf("SampleStrict(inside) = %v, %v", got, err)
	}
	if got, err := tex.SampleStrict(math3d.V2(1, 1)); err != nil || got != ColorRed {
		t.Errorf("SampleStrict(1,1) = %v, %v", got, err)
	}
	for _, uv := range []math3d.Vec2{math3d.V2(-0.1, 0.5), math3d.V2(0.5, 1.1), math3d.V2(math.NaN(), 0)} {
		if _, err := tex.SampleStrict(uv); !errors.Is(err, ErrSampleOutOfRange) {
			t.Errorf("SampleStrict(%v) error = %v, want ErrSampleOutOfRange", uv, err)
		}
	}
}

func TestDecodeTextureTGA(t *testing.T) {
	// Uncompressed 24-bit true color, 2x1, pixels stored BGR, with a
	// version 2 footer and no extension area.
	data := []byte{
		0, 0, 2,
		0, 0, 0, 0, 0,
		0, 0, 0, 0,
		2, 0, 1, 0,
		24, 0,
		0, 0, 255,
		255, 0, 0,
		0, 0, 0, 0,
		0, 0, 0, 0,
	}
	data = append(data, "TRUEVISION-XFILE.\x00"...)
	tex, err := DecodeTexture(bytes.NewReader(data), true)
	if err != nil {
		t.Fatalf("DecodeTexture: %v", err)
	}
	if tex.Width != 2 || tex.Height != 1 {
		t.Fatalf("size = %dx%d, want 2x1", tex.Width, tex.Height)
	}
	if got := tex.GetPixel(0, 0); got != ColorRed {
		t.Errorf("pixel 0 = %v, want red", got)
	}
	if got := tex.GetPixel(1, 0); got != ColorBlue {
		t.Errorf("pixel 1 = %v, want blue", got)
	}
}

func TestDecodeTextureErrors(t *testing.T) {
	if _, err := DecodeTexture(bytes.NewReader([]byte("not an image")), false); !errors.Is(err, ErrTextureLoad) {
		t.Errorf("garbage error = %v, want ErrTextureLoad", err)
	}
	if _, err := LoadTexture("does/not/exist.tga"); !errors.Is(err, ErrTextureLoad) {
		t.Errorf("missing file error = %v, want ErrTextureLoad", err)
	}
}

func TestFramebufferDraw(t *testing.T) {
	fb := NewFramebuffer(2, 4)
	fb.Clear(ColorBlack)
	fb.SetPixel(0, 0, ColorRed)
	fb.SetPixel(0, 1, ColorBlue)

	scr := uv.NewScreenBuffer(2, 2)
	fb.Draw(scr, scr.Bounds())

	cell := scr.CellAt(0, 0)
	if cell == nil || cell.Content != "▀" {
		t.Fatalf("cell (0,0) = %+v, want half block", cell)
	}
	if cell.Style.Fg != ColorRed || cell.Style.Bg != ColorBlue {
		t.Errorf("cell colors = fg %v bg %v, want red over blue", cell.Style.Fg, cell.Style.Bg)
	}
}

func TestFramebufferFit(t *testing.T) {
	fb := NewFramebuffer(10, 10)
	fb.Clear(ColorWhite)

	out := fb.Fit(20, 10)
	if out.Width != 20 || out.Height != 10 {
		t.Fatalf("Fit size = %dx%d, want 20x10", out.Width, out.Height)
	}
	if got := out.GetPixel(10, 5); got != ColorWhite {
		t.Errorf("center = %v, want white", got)
	}
	if got := out.GetPixel(0, 5); got.A != 0 {
		t.Errorf("letterbox = %v, want transparent", got)
	}

	if w, h := HalfBlockSize(80, 24); w != 80 || h != 48 {
		t.Errorf("HalfBlockSize = %dx%d, want 80x48", w, h)
	}
}
