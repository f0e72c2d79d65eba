// phong - Phong-lit spinning cube
//
// Draws a cube (or a glTF model) lit per fragment by point lights, in an
// OpenGL window, in the terminal, or offscreen to PNG.
//
// Controls:
//
//	+/-  Zoom
//	Esc  Quit
//	T    Toggle texture (terminal)
//	X    Toggle wireframe overlay (terminal)
//	?    Toggle HUD (terminal)
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"

	"github.com/taigrr/phong/internal/driver"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := fang.Execute(ctx, newRootCmd(), fang.WithVersion(version))
	stop()
	os.Exit(driver.ExitCode(err))
}
