// Package termview draws the scene in the terminal with the software
// rasterizer, two pixels per cell.
//
// Controls:
//
//	+/-  Zoom
//	T    Toggle texture
//	X    Toggle wireframe overlay
//	?    Toggle HUD
//	Esc  Quit
package termview

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/phong/internal/driver"
	"github.com/taigrr/phong/pkg/render"
)

// shutdownTimeout bounds how long restoring the terminal may take.
const shutdownTimeout = 2 * time.Second

// Backend renders into a framebuffer and paints it onto the terminal.
type Backend struct {
	logger *log.Logger

	term   *uv.Terminal
	events chan uv.Event
	done   chan struct{}
	closed bool // The terminal's event stream ended

	cols, rows int
	fb         *render.Framebuffer
	raster     *render.Rasterizer
	hud        *hud
}

var _ driver.Backend = (*Backend)(nil)

// New returns a backend that logs to logger. The logger must not write to
// the terminal being drawn on.
func New(logger *log.Logger) *Backend {
	return &Backend{logger: logger}
}

// Init takes over the terminal and starts the event reader.
func (b *Backend) Init(rc *driver.RenderContext) error {
	b.term = uv.DefaultTerminal()

	cols, rows, err := b.term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := b.term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	b.term.EnterAltScreen()
	b.term.HideCursor()

	b.resize(cols, rows)
	rc.Resize(b.fb.Width, b.fb.Height)
	b.raster = render.NewRasterizer(rc.Camera, b.fb)
	b.hud = newHUD(rc.Scene.Mesh.Name, rc.Scene.Mesh.TriangleCount(), time.Now())

	b.events = make(chan uv.Event, 64)
	b.done = make(chan struct{})
	go b.readEvents()

	b.logger.Debug("terminal ready", "cols", cols, "rows", rows)
	return nil
}

// readEvents forwards terminal events until Close.
func (b *Backend) readEvents() {
	defer close(b.events)
	for ev := range b.term.Events() {
		select {
		case b.events <- ev:
		case <-b.done:
			return
		}
	}
}

func (b *Backend) resize(cols, rows int) {
	b.cols, b.rows = cols, rows
	b.term.Resize(cols, rows)
	if b.fb == nil {
		b.fb = render.NewFramebuffer(cols, rows*2)
	} else {
		b.fb.Resize(cols, rows*2)
	}
	if b.raster != nil {
		b.raster.Resize()
	}
}

// Poll drains the events that arrived since the last frame.
func (b *Backend) Poll(*driver.RenderContext) driver.Input {
	var in driver.Input
	for {
		select {
		case ev, ok := <-b.events:
			if !ok {
				b.closed = true
				return in
			}
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				b.term.Erase()
				b.resize(ev.Width, ev.Height)
				in.Width, in.Height = b.fb.Width, b.fb.Height
			case uv.KeyPressEvent:
				applyKey(ev, &in)
			}
		default:
			return in
		}
	}
}

// applyKey folds one key press into in.
func applyKey(ev uv.KeyPressEvent, in *driver.Input) {
	switch {
	case ev.MatchString("escape"), ev.MatchString("ctrl+c"):
		in.Escape = true
	case ev.MatchString("+", "="):
		in.Zoom++
	case ev.MatchString("-", "_"):
		in.Zoom--
	case ev.MatchString("t"):
		in.ToggleTexture = true
	case ev.MatchString("x"):
		in.ToggleWireframe = true
	case ev.MatchString("?"), ev.MatchString("shift+/"):
		in.ToggleHUD = true
	}
}

// ShouldClose reports whether the terminal stopped delivering events.
func (b *Backend) ShouldClose() bool {
	return b.closed
}

// Draw rasterizes the frame and paints it, with the HUD on top.
func (b *Backend) Draw(rc *driver.RenderContext, f driver.Frame) error {
	driver.Rasterize(b.raster, b.fb, rc, f)
	b.fb.Draw(b.term, uv.Rect(0, 0, b.cols, b.rows))

	b.hud.tick(time.Now())
	if rc.ShowHUD && b.rows > 1 {
		top, bottom := b.hud.lines(rc, b.raster.Stats)
		uv.NewStyledString(top).Draw(b.term, uv.Rect(0, 0, b.cols, 1))
		uv.NewStyledString(bottom).Draw(b.term, uv.Rect(0, b.rows-1, b.cols, 1))
	}
	return nil
}

// Present flushes the changed cells to the terminal.
func (b *Backend) Present(*driver.RenderContext) error {
	if err := b.term.Display(); err != nil {
		return fmt.Errorf("display: %w", err)
	}
	return nil
}

// Close stops the event reader and restores the terminal.
func (b *Backend) Close() error {
	if b.term == nil {
		return nil
	}
	if b.done != nil {
		close(b.done)
	}
	b.term.ExitAltScreen()
	b.term.ShowCursor()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := b.term.Shutdown(ctx); err != nil {
		return fmt.Errorf("restore terminal: %w", err)
	}
	return nil
}
