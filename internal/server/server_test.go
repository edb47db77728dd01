package server

import (
	"context"
	"errors"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/taigrr/tinyrender/pkg/math3d"
	"github.com/taigrr/tinyrender/pkg/models"
	"github.com/taigrr/tinyrender/pkg/scenes"
	"github.com/taigrr/tinyrender/pkg/shader"
)

func triangleScene() *shader.Scene {
	m := models.NewMesh("tri")
	m.Positions = []math3d.Vec3{math3d.V3(-1, -1, 0), math3d.V3(1, -1, 0), math3d.V3(0, 1, 0)}
	m.Normals = []math3d.Vec3{math3d.V3(0, 0, 1)}
	m.Faces = []models.Face{{Corners: [3]models.Corner{{0, -1, 0}, {1, -1, 0}, {2, -1, 0}}, Material: -1}}
	return shader.NewScene(m)
}

func newTestServer(t *testing.T, loads *atomic.Int32) *httptest.Server {
	t.Helper()
	s := New(scenes.Options{
		Size: 32,
		Load: func(string) (*shader.Scene, error) {
			loads.Add(1)
			return triangleScene(), nil
		},
	})
	ts := httptest.NewServer(s)
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestServePNG(t *testing.T) {
	var loads atomic.Int32
	ts := newTestServer(t, &loads)

	resp := get(t, ts.URL+"/shaders/gouraud")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q, want image/png", ct)
	}
	img, err := png.Decode(resp.Body)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 32 {
		t.Errorf("image size = %v, want 32x32", b.Size())
	}
}

func TestServeQuery(t *testing.T) {
	var loads atomic.Int32
	ts := newTestServer(t, &loads)

	resp := get(t, ts.URL+"/triangle?size=50&seed=3")
	img, err := png.Decode(resp.Body)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 50 {
		t.Errorf("width = %d, want 50", b.Dx())
	}

	for _, q := range []string{"size=0", "size=big", "size=99999", "seed=-1"} {
		if resp := get(t, ts.URL+"/triangle?"+q); resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", q, resp.StatusCode)
		}
	}
}

func TestSizeLimit(t *testing.T) {
	tests := []struct {
		name string
		want int
	}{
		{"triangle", MaxSize},
		{"shadowmapping", MaxSize},
		{"ambientocclusion", MaxOcclusionSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sizeLimit(tt.name); got != tt.want {
				t.Errorf("sizeLimit(%q) = %d, want %d", tt.name, got, tt.want)
			}
		})
	}

	var loads atomic.Int32
	ts := newTestServer(t, &loads)
	q := "?size=" + strconv.Itoa(MaxOcclusionSize+1)
	if resp := get(t, ts.URL+"/shaders/ambientocclusion"+q); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("ambientocclusion%s: status = %d, want 400", q, resp.StatusCode)
	}
	if loads.Load() != 0 {
		t.Errorf("rejected request loaded %d meshes", loads.Load())
	}
}

func TestServeErrors(t *testing.T) {
	var loads atomic.Int32
	ts := newTestServer(t, &loads)

	tests := []struct {
		path string
		want int
	}{
		{"/nope", http.StatusNotFound},
		{"/shaders/texture", http.StatusInternalServerError}, // no diffuse map
	}
	for _, tt := range tests {
		resp := get(t, ts.URL+tt.path)
		if resp.StatusCode != tt.want {
			t.Errorf("GET %s: status = %d, want %d", tt.path, resp.StatusCode, tt.want)
		}
		if ct := resp.Header.Get("Content-Type"); ct == "image/png" {
			t.Errorf("GET %s: error response sent as image", tt.path)
		}
	}
}

func TestIndex(t *testing.T) {
	var loads atomic.Int32
	ts := newTestServer(t, &loads)

	body, err := io.ReadAll(get(t, ts.URL+"/").Body)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range scenes.All() {
		if !strings.Contains(string(body), e.Path) {
			t.Errorf("index lacks %s", e.Path)
		}
	}
}

func TestCacheLoadsOnce(t *testing.T) {
	var loads atomic.Int32
	release := make(chan struct{})
	c := NewCache(func(string) (*shader.Scene, error) {
		loads.Add(1)
		<-release
		return triangleScene(), nil
	})

	var wg sync.WaitGroup
	got := make([]*shader.Scene, 8)
	for i := range got {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sc, err := c.Load("head.obj")
			if err != nil {
				t.Error(err)
			}
			got[i] = sc
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if _, err := c.Load("head.obj"); err != nil {
		t.Fatal(err)
	}
	if n := loads.Load(); n != 1 {
		t.Errorf("loader ran %d times, want 1", n)
	}
	for i, sc := range got {
		if sc != got[0] {
			t.Errorf("caller %d got a different scene", i)
		}
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}

func TestCacheForgetsFailures(t *testing.T) {
	var calls int
	c := NewCache(func(string) (*shader.Scene, error) {
		calls++
		if calls == 1 {
			return nil, models.ErrMeshLoad
		}
		return triangleScene(), nil
	})
	if _, err := c.Load("a.obj"); !errors.Is(err, models.ErrMeshLoad) {
		t.Fatalf("first load err = %v, want ErrMeshLoad", err)
	}
	if _, err := c.Load("a.obj"); err != nil {
		t.Fatalf("second load: %v", err)
	}
	if calls != 2 {
		t.Errorf("loader ran %d times, want 2", calls)
	}
}

func TestListenAndServeShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- ListenAndServe(ctx, "127.0.0.1:0", http.NotFoundHandler())
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe = %v, want nil after cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServerUsesCache(t *testing.T) {
	var loads atomic.Int32
	ts := newTestServer(t, &loads)
	for range 3 {
		get(t, ts.URL+"/shaders/gouraud")
	}
	if n := loads.Load(); n != 1 {
		t.Errorf("mesh loaded %d times, want 1", n)
	}
}
