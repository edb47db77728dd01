// Package server serves every render as a PNG over HTTP.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/taigrr/tinyrender/pkg/render"
	"github.com/taigrr/tinyrender/pkg/scenes"
	"golang.org/x/sync/errgroup"
)

// MaxSize caps the canvas size a request may ask for. A render holds about
// a dozen bytes per pixel across its color and depth buffers, so the largest
// canvas allocates roughly 200 MB.
const MaxSize = 4096

// MaxOcclusionSize caps the ambient-occlusion render, whose post pass marches
// up to 8 × 1000 depth samples for every pixel.
const MaxOcclusionSize = 1024

// sizeLimit returns the largest canvas a request for the named render may
// ask for.
func sizeLimit(name string) int {
	if name == "ambientocclusion" {
		return MaxOcclusionSize
	}
	return MaxSize
}

const shutdownTimeout = 5 * time.Second

// Server routes each registered render to its path.
type Server struct {
	opts  scenes.Options
	cache *Cache
	mux   *http.ServeMux
}

// New returns a server rendering with opts. Meshes are loaded through a
// Cache wrapping opts.Load.
func New(opts scenes.Options) *Server {
	s := &Server{
		cache: NewCache(opts.Load),
		mux:   http.NewServeMux(),
	}
	opts.Load = s.cache.Load
	s.opts = opts

	s.mux.HandleFunc("GET /{$}", s.index)
	for _, e := range scenes.All() {
		s.mux.Handle("GET "+e.Path, s.handle(e))
	}
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Cache returns the server's scene cache.
func (s *Server) Cache() *Cache {
	return s.cache
}

func (s *Server) index(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	for _, e := range scenes.All() {
		fmt.Fprintf(w, "%-28s %s\n", e.Path, e.Title)
	}
}

func (s *Server) handle(e scenes.Entry) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := render.Logger().With("scene", e.Name, "remote", r.RemoteAddr)

		opts, err := s.requestOptions(r, sizeLimit(e.Name))
		if err != nil {
			log.Warn("bad request", "err", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		fb, err := scenes.Render(e.Name, opts)
		if err != nil {
			log.Error("render failed", "err", err)
			http.Error(w, "render failed", http.StatusInternalServerError)
			return
		}

		// Encode fully before writing so a failure never sends a partial image.
		var buf bytes.Buffer
		if err := fb.EncodePNG(&buf); err != nil {
			log.Error("encode failed", "err", err)
			http.Error(w, "encode failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
		if _, err := buf.WriteTo(w); err != nil {
			log.Warn("write response", "err", err)
			return
		}
		log.Info("served", "bytes", buf.Len(), "elapsed", time.Since(start))
	})
}

// requestOptions applies the size and seed query parameters. Sizes above
// limit are rejected.
func (s *Server) requestOptions(r *http.Request, limit int) (scenes.Options, error) {
	opts := s.opts
	q := r.URL.Query()
	if v := q.Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > limit {
			return opts, fmt.Errorf("size must be an integer in [1, %d]", limit)
		}
		opts.Size = n
	}
	if v := q.Get("seed"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return opts, fmt.Errorf("seed must be an unsigned integer")
		}
		opts.Seed = n
	}
	return opts, nil
}

// ListenAndServe serves h on addr until ctx is done, then shuts down
// gracefully.
func ListenAndServe(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		render.Logger().Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
