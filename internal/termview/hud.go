package termview

import (
	"fmt"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/taigrr/phong/internal/driver"
	"github.com/taigrr/phong/pkg/render"
)

var (
	hudBg      = lipgloss.Color("#000000")
	fpsStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#5fff5f")).Background(hudBg).Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Background(hudBg).Bold(true).Padding(0, 1)
	countStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5fffff")).Background(hudBg).Padding(0, 1)
	modeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Background(hudBg).Padding(0, 1)
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffff5f")).Background(hudBg).Faint(true).Padding(0, 1)
)

// hud tracks the numbers shown in the overlay.
type hud struct {
	name      string
	triangles int

	fps       float64
	fpsFrames int
	fpsSince  time.Time
}

func newHUD(name string, triangles int, now time.Time) *hud {
	if name == "" {
		name = "cube"
	}
	return &hud{name: name, triangles: triangles, fpsSince: now}
}

// tick counts a frame and refreshes the FPS once a second.
func (h *hud) tick(now time.Time) {
	h.fpsFrames++
	if elapsed := now.Sub(h.fpsSince); elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsSince = now
	}
}

// lines renders the top and bottom rows of the overlay.
func (h *hud) lines(rc *driver.RenderContext, stats render.Stats) (top, bottom string) {
	top = lipgloss.JoinHorizontal(lipgloss.Top,
		fpsStyle.Render(fmt.Sprintf("%.0f FPS", h.fps)),
		titleStyle.Render(h.name),
		countStyle.Render(fmt.Sprintf("%d/%d tris", stats.TrianglesDrawn, h.triangles)),
	)
	bottom = lipgloss.JoinHorizontal(lipgloss.Top,
		modeStyle.Render(fmt.Sprintf("%s Texture  %s X-Ray", check(rc.Scene.Textured()), check(rc.Wireframe))),
		countStyle.Render(fmt.Sprintf("%d lights", len(rc.Scene.Lights))),
		hintStyle.Render("+/- zoom  ? hud  esc quit"),
	)
	return top, bottom
}

func check(on bool) string {
	if on {
		return "[✓]"
	}
	return "[ ]"
}
