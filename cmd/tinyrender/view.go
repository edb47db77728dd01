package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/tinyrender/internal/server"
	"github.com/taigrr/tinyrender/pkg/math3d"
	"github.com/taigrr/tinyrender/pkg/render"
	"github.com/taigrr/tinyrender/pkg/scenes"
)

// RotationAxis tracks position and velocity for one orbit angle with spring decay
type RotationAxis struct {
	Position  float64
	Velocity  float64
	velSpring harmonica.Spring
	velAccel  float64 // internal spring velocity (for animating Velocity toward 0)
}

// NewRotationAxis creates an axis with a critically damped spring.
func NewRotationAxis(fps int) RotationAxis {
	return RotationAxis{
		velSpring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// Update applies velocity to position, decays velocity toward 0 and returns
// the step taken.
func (a *RotationAxis) Update() float64 {
	step := a.Velocity
	a.Position += step
	a.Velocity, a.velAccel = a.velSpring.Update(a.Velocity, a.velAccel, 0)
	return step
}

// orbitState is the camera state shared by the event and render loops.
type orbitState struct {
	mu         sync.Mutex
	orbit      *render.Orbit
	home       math3d.Vec3
	yaw, pitch RotationAxis
	fps        int

	torqueYaw, torquePitch float64
	cols, rows             int
}

func newOrbitState(eye, center math3d.Vec3, fps, cols, rows int) *orbitState {
	return &orbitState{
		orbit: render.NewOrbit(eye, center),
		home:  eye,
		yaw:   NewRotationAxis(fps),
		pitch: NewRotationAxis(fps),
		fps:   fps,
		cols:  cols,
		rows:  rows,
	}
}

func (s *orbitState) reset() {
	s.orbit.SetEye(s.home)
	s.yaw = NewRotationAxis(s.fps)
	s.pitch = NewRotationAxis(s.fps)
}

// step advances the springs by one frame of dt seconds and returns the eye
// and the terminal size to render for.
func (s *orbitState) step(dt float64) (eye math3d.Vec3, cols, rows int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.yaw.Velocity += s.torqueYaw * dt
	s.pitch.Velocity += s.torquePitch * dt
	// Key release events are unreliable, so held keys fade out.
	s.torqueYaw *= 0.9
	s.torquePitch *= 0.9

	s.orbit.Rotate(s.yaw.Update(), s.pitch.Update())
	return s.orbit.Eye(), s.cols, s.rows
}

func view(ctx context.Context, args []string) error {
	var c common
	var name string
	var fps, maxSize int
	err := parse("view", args, &c, func(fs *flag.FlagSet) {
		fs.StringVar(&name, "name", "gouraud", "Render to preview")
		fs.IntVar(&fps, "fps", 30, "Target FPS")
		fs.IntVar(&maxSize, "max-size", 400, "Largest canvas rendered per frame")
	})
	if err != nil {
		return err
	}
	if _, ok := scenes.Lookup(name); !ok {
		return fmt.Errorf("%q: %w", name, scenes.ErrUnknownScene)
	}
	if fps <= 0 {
		return fmt.Errorf("fps must be positive")
	}

	opts := c.options()
	opts.Load = server.NewCache(nil).Load
	eye := opts.Eye
	if eye == (math3d.Vec3{}) {
		eye = math3d.V3(1, 1, 3)
	}
	// Load once up front so a bad mesh fails before the screen switches.
	if _, err := scenes.Render(name, withCanvas(opts, eye, 8)); err != nil {
		return err
	}

	term := uv.DefaultTerminal()
	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	// The log handler writes to the terminal being drawn on.
	render.SetLogger(nil)

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	cleanup := func() {
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}
	defer cleanup()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	state := newOrbitState(eye, opts.Center, fps, width, height)
	const torqueStrength = 3.0

	go func() {
		for ev := range term.Events() {
			state.mu.Lock()
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				state.cols, state.rows = ev.Width, ev.Height
				term.Erase()
				term.Resize(ev.Width, ev.Height)

			case uv.KeyPressEvent:
				switch {
				case ev.MatchString("escape", "ctrl+c", "q"):
					cancel()
				case ev.MatchString("r"):
					state.reset()
				case ev.MatchString("w", "up"):
					state.torquePitch = torqueStrength
				case ev.MatchString("s", "down"):
					state.torquePitch = -torqueStrength
				case ev.MatchString("a", "left"):
					state.torqueYaw = -torqueStrength
				case ev.MatchString("d", "right"):
					state.torqueYaw = torqueStrength
				case ev.MatchString("space"):
					state.yaw.Velocity += (rand.Float64() - 0.5) * 0.5
					state.pitch.Velocity += (rand.Float64() - 0.5) * 0.5
				case ev.MatchString("+", "="):
					state.orbit.Zoom(0.9, 1.2)
				case ev.MatchString("-", "_"):
					state.orbit.Zoom(1.1, 1.2)
				}

			case uv.KeyReleaseEvent:
				switch {
				case ev.MatchString("w", "up", "s", "down"):
					state.torquePitch = 0
				case ev.MatchString("a", "left", "d", "right"):
					state.torqueYaw = 0
				}
			}
			state.mu.Unlock()
		}
	}()

	targetDuration := time.Second / time.Duration(fps)
	lastFrame := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		now := time.Now()
		dt := min(now.Sub(lastFrame).Seconds(), 0.1)
		lastFrame = now

		eye, cols, rows := state.step(dt)
		w, h := render.HalfBlockSize(cols, rows)
		size := min(max(w, h), maxSize)

		fb, err := scenes.Render(name, withCanvas(opts, eye, size))
		if err != nil {
			return err
		}
		term.Draw(fb.Fit(w, h))
		if err := term.Display(); err != nil {
			return fmt.Errorf("display: %w", err)
		}

		if elapsed := time.Since(now); elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}

func withCanvas(opts scenes.Options, eye math3d.Vec3, size int) scenes.Options {
	opts.Eye = eye
	opts.Size = size
	return opts
}
