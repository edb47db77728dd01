// tinyrender - CPU software renderer
// Serves, writes or previews the classic rasterizer renders.
//
// Commands:
//
//	serve   - Serve every render as a PNG over HTTP
//	render  - Write one render (or all of them) to PNG files
//	view    - Preview a render in the terminal with an orbiting camera
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"syscall"

	"github.com/taigrr/tinyrender/internal/server"
	"github.com/taigrr/tinyrender/pkg/math3d"
	"github.com/taigrr/tinyrender/pkg/render"
	"github.com/taigrr/tinyrender/pkg/scenes"
	"golang.org/x/sync/errgroup"
)

func usage() {
	fmt.Fprintf(os.Stderr, "tinyrender - CPU software renderer\n\n")
	fmt.Fprintf(os.Stderr, "Usage: tinyrender <command> [options]\n\n")
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  serve   Serve every render over HTTP\n")
	fmt.Fprintf(os.Stderr, "  render  Write renders to PNG files\n")
	fmt.Fprintf(os.Stderr, "  view    Preview a render in the terminal\n\n")
	fmt.Fprintf(os.Stderr, "Renders:\n")
	for _, e := range scenes.All() {
		fmt.Fprintf(os.Stderr, "  %-18s %s\n", e.Name, e.Title)
	}
	fmt.Fprintf(os.Stderr, "\nRun 'tinyrender <command> -h' for command options.\n")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "serve":
		err = serve(ctx, args)
	case "render":
		err = renderCmd(ctx, args)
	case "view":
		err = view(ctx, args)
	case "-h", "-help", "--help", "help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		usage()
		os.Exit(2)
	}
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// vec3Flag parses "x,y,z".
type vec3Flag struct {
	v math3d.Vec3
}

func (f *vec3Flag) String() string {
	if f == nil || f.v == (math3d.Vec3{}) {
		return ""
	}
	return fmt.Sprintf("%g,%g,%g", f.v.X, f.v.Y, f.v.Z)
}

func (f *vec3Flag) Set(s string) error {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return fmt.Errorf("want x,y,z, got %q", s)
	}
	var xyz [3]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return fmt.Errorf("component %d: %w", i, err)
		}
		xyz[i] = v
	}
	f.v = math3d.V3(xyz[0], xyz[1], xyz[2])
	return nil
}

// common holds the options shared by every command.
type common struct {
	assets   string
	mesh     string
	shadow   string
	size     int
	seed     uint64
	logLevel string
	eye      vec3Flag
	center   vec3Flag
	light    vec3Flag
}

func (c *common) register(fs *flag.FlagSet) {
	fs.StringVar(&c.assets, "assets", ".", "Directory holding the obj/ meshes and textures")
	fs.StringVar(&c.mesh, "mesh", "", "Mesh path relative to -assets (default "+scenes.DefaultMesh+")")
	fs.StringVar(&c.shadow, "shadow-mesh", "", "Mesh of the shadow-mapping render (default "+scenes.DefaultShadowMesh+")")
	fs.IntVar(&c.size, "size", 0, "Canvas width and height in pixels (0 uses each render's default)")
	fs.Uint64Var(&c.seed, "seed", 1, "Seed for the random face colors of flat-shading")
	fs.StringVar(&c.logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	fs.Var(&c.eye, "eye", "Camera position x,y,z (default per render)")
	fs.Var(&c.center, "center", "Point the camera looks at x,y,z")
	fs.Var(&c.light, "light", "Direction towards the light x,y,z (default per render)")
}

func (c *common) options() scenes.Options {
	return scenes.Options{
		Assets:     c.assets,
		Mesh:       c.mesh,
		ShadowMesh: c.shadow,
		Size:       c.size,
		Eye:        c.eye.v,
		Center:     c.center.v,
		Light:      c.light.v,
		Seed:       c.seed,
	}
}

func (c *common) setupLogger() error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.logLevel)); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	render.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

func parse(name string, args []string, c *common, extra func(fs *flag.FlagSet)) error {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	c.register(fs)
	if extra != nil {
		extra(fs)
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return c.setupLogger()
}

func serve(ctx context.Context, args []string) error {
	var c common
	var addr string
	err := parse("serve", args, &c, func(fs *flag.FlagSet) {
		fs.StringVar(&addr, "addr", ":8080", "Listen address")
	})
	if err != nil {
		return err
	}
	return server.ListenAndServe(ctx, addr, server.New(c.options()))
}

func renderCmd(ctx context.Context, args []string) error {
	var c common
	var name, out string
	err := parse("render", args, &c, func(fs *flag.FlagSet) {
		fs.StringVar(&name, "name", "gouraud", "Render to write, or \"all\"")
		fs.StringVar(&out, "o", "", "Output file (default <name>.png); a directory with -name all")
	})
	if err != nil {
		return err
	}

	opts := c.options()
	opts.Load = server.NewCache(nil).Load

	if name != "all" {
		if out == "" {
			out = name + ".png"
		}
		return writeRender(name, opts, out)
	}

	if out == "" {
		out = "."
	}
	if err := os.MkdirAll(out, 0o755); err != nil {
		return err
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for _, e := range scenes.All() {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return writeRender(e.Name, opts, filepath.Join(out, e.Name+".png"))
		})
	}
	return g.Wait()
}

func writeRender(name string, opts scenes.Options, path string) error {
	fb, err := scenes.Render(name, opts)
	if err != nil {
		return err
	}
	if err := fb.SavePNG(path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	render.Logger().Info("wrote", "scene", name, "path", path)
	return nil
}
