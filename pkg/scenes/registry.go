package scenes

import (
	"fmt"
	"time"

	"github.com/taigrr/tinyrender/pkg/render"
)

// Func produces one finished picture.
type Func func(Options) (*render.Framebuffer, error)

// Entry is a named render and the path it is served under.
type Entry struct {
	Name   string
	Path   string
	Title  string
	Render Func
}

var registry = []Entry{
	{"wire", "/wire", "Wireframe", Wire},
	{"line", "/line", "Sample line", Line},
	{"triangle", "/triangle", "Sample triangle", Triangle},
	{"flat-shading", "/flat-shading", "Random face colors", FlatShading},
	{"linear-light", "/linear-light", "Flat lighting", LinearLight},
	{"z-buf", "/z-buf", "Flat lighting with a depth test", ZBuffer},
	{"move-camera", "/move-camera", "Look-at camera, scanline filler", MoveCamera},
	{"z-buf-depth", "/z-buf-depth", "Depth buffer of move-camera", MoveCameraDepth},
	{"gouraud", "/shaders/gouraud", "Gouraud shading", Gouraud},
	{"gouraud6l", "/shaders/gouraud6l", "Six-band toon shading", Toon},
	{"texture", "/shaders/texture", "Textured Gouraud", Texture},
	{"normalmapping", "/shaders/normalmapping", "Normal mapping", NormalMapping},
	{"specularmapping", "/shaders/specularmapping", "Specular mapping", SpecularMapping},
	{"shadowmapping", "/shaders/shadowmapping", "Shadow mapping", ShadowMapping},
	{"ambientocclusion", "/shaders/ambientocclusion", "Screen-space ambient occlusion", AmbientOcclusion},
}

// All returns every registered render in serving order.
func All() []Entry {
	return append([]Entry(nil), registry...)
}

// Lookup finds a render by name.
func Lookup(name string) (Entry, bool) {
	for _, e := range registry {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// Render runs the named render.
func Render(name string, o Options) (*render.Framebuffer, error) {
	e, ok := Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownScene)
	}
	start := time.Now()
	fb, err := e.Render(o)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	render.Logger().Debug("rendered", "scene", name, "width", fb.Width, "height", fb.Height, "elapsed", time.Since(start))
	return fb, nil
}
