// Package snapshot renders frames offscreen to PNG files.
package snapshot

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/taigrr/phong/internal/driver"
	"github.com/taigrr/phong/pkg/render"
)

// Backend draws into an in-memory framebuffer and writes every presented
// frame to Path. Path may hold a %d verb for the frame index; without one
// later frames overwrite earlier ones. Any other % is taken literally.
type Backend struct {
	Path string

	logger *log.Logger
	fb     *render.Framebuffer
	raster *render.Rasterizer
}

var _ driver.Backend = (*Backend)(nil)

// New returns a backend writing to path.
func New(path string, logger *log.Logger) *Backend {
	return &Backend{Path: path, logger: logger}
}

func (b *Backend) Init(rc *driver.RenderContext) error {
	if rc.Width <= 0 || rc.Height <= 0 {
		return fmt.Errorf("snapshot size %dx%d", rc.Width, rc.Height)
	}
	b.fb = render.NewFramebuffer(rc.Width, rc.Height)
	b.raster = render.NewRasterizer(rc.Camera, b.fb)
	return nil
}

// Poll never reports input.
func (b *Backend) Poll(*driver.RenderContext) driver.Input { return driver.Input{} }

func (b *Backend) ShouldClose() bool { return false }

func (b *Backend) Draw(rc *driver.RenderContext, f driver.Frame) error {
	driver.Rasterize(b.raster, b.fb, rc, f)
	return nil
}

// Present writes the frame just drawn.
func (b *Backend) Present(rc *driver.RenderContext) error {
	path, _ := formatFrame(b.Path, rc.Frames)
	if err := b.fb.SavePNG(path); err != nil {
		return err
	}
	b.logger.Info("wrote snapshot", "path", path, "frame", rc.Frames,
		"triangles", b.raster.Stats.TrianglesDrawn, "fragments", b.raster.Stats.Fragments)
	return nil
}

func (b *Backend) Close() error { return nil }

// frameVerb matches the integer verb a path may carry, like %d or %04d.
var frameVerb = regexp.MustCompile(`%\d*d`)

// formatFrame substitutes i for the first integer verb in pattern and
// reports whether there was one. The rest of pattern is kept as is.
func formatFrame(pattern string, i int) (string, bool) {
	loc := frameVerb.FindStringIndex(pattern)
	if loc == nil {
		return pattern, false
	}
	return pattern[:loc[0]] + fmt.Sprintf(pattern[loc[0]:loc[1]], i) + pattern[loc[1]:], true
}

// FramePath returns the file for frame i of a sequence. A pattern with a
// %d verb is formatted with i; otherwise the index is added before the
// extension ("out.png" becomes "out-002.png").
func FramePath(pattern string, i int) string {
	if path, ok := formatFrame(pattern, i); ok {
		return path
	}
	ext := filepath.Ext(pattern)
	return fmt.Sprintf("%s-%03d%s", strings.TrimSuffix(pattern, ext), i, ext)
}

// Sequence renders one frame per entry of times, in parallel, and returns
// the files written in order. Each frame gets its own copy of the camera
// and its own framebuffer; the scene is shared read-only.
func Sequence(ctx context.Context, rc *driver.RenderContext, times []float64, pattern string) ([]string, error) {
	if len(times) == 0 {
		return nil, nil
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	paths := make([]string, len(times))
	for i, t := range times {
		paths[i] = FramePath(pattern, i)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			cam := *rc.Camera
			fb := render.NewFramebuffer(rc.Width, rc.Height)
			raster := render.NewRasterizer(&cam, fb)

			driver.Rasterize(raster, fb, rc, driver.FrameAt(&cam, rc.Spin, i, t))
			if err := fb.SavePNG(paths[i]); err != nil {
				return fmt.Errorf("frame %d: %w", i, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if rc.Logger != nil {
		rc.Logger.Info("wrote sequence", "frames", len(paths), "first", paths[0])
	}
	return paths, nil
}
