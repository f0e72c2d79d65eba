// Package driver runs the render loop: it initializes a backend once, then
// polls input, advances the spin and presents frames until the window is
// closed, Escape is pressed, or a frame limit is reached.
package driver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/taigrr/phong/pkg/math3d"
	"github.com/taigrr/phong/pkg/pipeline"
	"github.com/taigrr/phong/pkg/render"
	"github.com/taigrr/phong/pkg/shader"
)

// State is the phase of a run.
type State int

const (
	Initializing State = iota
	Rendering
	Terminated
)

func (s State) String() string {
	switch s {
	case Initializing:
		return "initializing"
	case Rendering:
		return "rendering"
	case Terminated:
		return "terminated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Input is what a backend saw since the previous poll.
type Input struct {
	Escape bool

	// Zoom counts zoom key presses: positive zooms in, negative out.
	Zoom int

	// Width and Height are set when the drawable was resized.
	Width, Height int

	ToggleTexture   bool
	ToggleWireframe bool
	ToggleHUD       bool
}

// Frame is everything a backend needs to draw one frame.
type Frame struct {
	Index        int
	Time         float64 // Seconds since rendering started
	Transforms   pipeline.Transforms
	NormalMatrix math3d.Mat3
	ViewPos      math3d.Vec3
}

// Backend is a place frames can be drawn: a GL window, a terminal or an
// offscreen image.
type Backend interface {
	// Init creates the backend's resources. A failure aborts the run.
	Init(rc *RenderContext) error
	// Poll is called once per frame, before drawing.
	Poll(rc *RenderContext) Input
	// ShouldClose reports a close request from outside the key handling,
	// such as the window manager's close button.
	ShouldClose() bool
	Draw(rc *RenderContext, f Frame) error
	Present(rc *RenderContext) error
	Close() error
}

// Driver owns the render loop for one backend.
type Driver struct {
	backend Backend
	rc      *RenderContext
	logger  *log.Logger
	state   State
	closing bool

	// Clock returns seconds since rendering started. The default measures
	// wall time from the first frame.
	Clock func() float64

	// FPS caps the frame rate by sleeping out the rest of each frame. Zero
	// leaves pacing to the backend (vsync) or runs unthrottled.
	FPS int

	// MaxFrames stops the loop after this many frames; zero runs until
	// closed.
	MaxFrames int
}

// New returns a driver for backend drawing rc.
func New(backend Backend, rc *RenderContext) *Driver {
	logger := rc.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Driver{
		backend: backend,
		rc:      rc,
		logger:  logger,
		state:   Initializing,
	}
}

// State returns the current phase.
func (d *Driver) State() State {
	return d.state
}

// Close sets the close flag; the loop exits before the next frame.
func (d *Driver) Close() {
	d.closing = true
}

// Run initializes the backend and renders until the close flag is set,
// the backend asks to close, MaxFrames is reached or ctx is done. Only
// initialization and drawing failures are returned; cancellation is a
// normal exit.
func (d *Driver) Run(ctx context.Context) (err error) {
	d.state = Initializing
	if err := d.backend.Init(d.rc); err != nil {
		d.state = Terminated
		d.logInitError(err)
		return fmt.Errorf("initialize: %w", err)
	}
	defer func() {
		d.state = Terminated
		if cerr := d.backend.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close backend: %w", cerr)
		}
	}()

	clock := d.Clock
	if clock == nil {
		start := time.Now()
		clock = func() float64 { return time.Since(start).Seconds() }
	}

	var budget time.Duration
	if d.FPS > 0 {
		budget = time.Second / time.Duration(d.FPS)
	}

	d.state = Rendering
	d.logger.Debug("rendering", "width", d.rc.Width, "height", d.rc.Height, "lights", len(d.rc.Scene.Lights))

	for {
		select {
		case <-ctx.Done():
			d.logger.Debug("render loop cancelled", "frames", d.rc.Frames)
			return nil
		default:
		}

		if d.closing || d.backend.ShouldClose() {
			return nil
		}

		started := time.Now()
		d.apply(d.backend.Poll(d.rc))
		if d.closing {
			return nil
		}

		f := d.frame(clock())
		if err := d.backend.Draw(d.rc, f); err != nil {
			return fmt.Errorf("draw frame %d: %w", f.Index, err)
		}
		if err := d.backend.Present(d.rc); err != nil {
			return fmt.Errorf("present frame %d: %w", f.Index, err)
		}
		d.rc.Frames++

		if d.MaxFrames > 0 && d.rc.Frames >= d.MaxFrames {
			d.logger.Debug("frame limit reached", "frames", d.rc.Frames)
			return nil
		}

		if budget > 0 {
			if elapsed := time.Since(started); elapsed < budget {
				time.Sleep(budget - elapsed)
			}
		}
	}
}

// apply folds one poll's input into the context.
func (d *Driver) apply(in Input) {
	rc := d.rc
	if in.Escape {
		d.Close()
		return
	}
	if in.Width > 0 && in.Height > 0 && (in.Width != rc.Width || in.Height != rc.Height) {
		rc.Resize(in.Width, in.Height)
		d.logger.Debug("resized", "width", in.Width, "height", in.Height)
	}
	if in.Zoom != 0 {
		rc.Zoom.Nudge(-float64(in.Zoom) * ZoomStep)
	}
	if in.ToggleTexture {
		rc.ToggleTexture()
		d.logger.Info("material switched", "textured", rc.Scene.Textured())
	}
	if in.ToggleWireframe {
		rc.Wireframe = !rc.Wireframe
	}
	if in.ToggleHUD {
		rc.ShowHUD = !rc.ShowHUD
	}
}

// frame advances the zoom spring and builds the transforms for time t.
func (d *Driver) frame(t float64) Frame {
	rc := d.rc
	rc.Camera.SetDistance(rc.Zoom.Update())
	return FrameAt(rc.Camera, rc.Spin, rc.Frames, t)
}

// FrameAt builds frame index at time t seen through cam.
func FrameAt(cam *render.Camera, spin pipeline.SpinRates, index int, t float64) Frame {
	tf := pipeline.Transforms{
		Model:      pipeline.SpinModel(t, spin),
		View:       cam.ViewMatrix(),
		Projection: cam.ProjectionMatrix(),
	}
	return Frame{
		Index:        index,
		Time:         t,
		Transforms:   tf,
		NormalMatrix: tf.NormalMatrix(),
		ViewPos:      cam.Position,
	}
}

func (d *Driver) logInitError(err error) {
	if info := shader.InfoLog(err); info != "" {
		d.logger.Error("initialization failed", "err", err, "info_log", info)
		return
	}
	d.logger.Error("initialization failed", "err", err)
}

// ExitCode maps the error returned by Run to a process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil, errors.Is(err, context.Canceled):
		return 0
	default:
		return 1
	}
}
