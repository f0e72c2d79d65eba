package config

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/taigrr/phong/pkg/math3d"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsClassroomScene(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	if cfg.Width != 640 || cfg.Height != 480 || cfg.Title != "My spinning cube" {
		t.Errorf("window = %dx%d %q", cfg.Width, cfg.Height, cfg.Title)
	}

	lights := cfg.PointLights()
	if len(lights) != 2 {
		t.Fatalf("lights = %d, want 2", len(lights))
	}
	if lights[0].Position != lights[1].Position.Negate() {
		t.Errorf("lights not symmetric: %v, %v", lights[0].Position, lights[1].Position)
	}
	if lights[0].Ambient != math3d.Splat3(0.2) || lights[0].Diffuse != math3d.Splat3(0.5) || lights[0].Specular != math3d.Splat3(1) {
		t.Errorf("light intensities = %+v", lights[0])
	}

	m := cfg.Material.FlatMaterial()
	if got := m.Diffuse.At(math3d.Vec2{}); got != math3d.V3(1, 0.5, 0.31) {
		t.Errorf("diffuse = %v", got)
	}
	if m.Shininess != 32 || cfg.Textured() {
		t.Errorf("shininess %v, textured %v", m.Shininess, cfg.Textured())
	}
	if r := cfg.SpinRates(); r.Yaw != 45 || r.Pitch != 81 {
		t.Errorf("spin = %+v", r)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `{
		"width": 800,
		"material": {"diffuse": "#ff8000", "shininess": 64},
		"camera": {"position": [0, 1, 4]}
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Width != 800 || cfg.Height != 480 {
		t.Errorf("size = %dx%d, want 800x480", cfg.Width, cfg.Height)
	}
	if cfg.Material.Shininess != 64 {
		t.Errorf("shininess = %v", cfg.Material.Shininess)
	}
	if got := cfg.Material.Diffuse; got[0] != 1 || got[2] != 0 || got[1] < 0.5 || got[1] > 0.51 {
		t.Errorf("diffuse = %v, want #ff8000", got)
	}
	if cfg.Material.Ambient != (Color{1, 0.5, 0.31}) {
		t.Errorf("ambient changed to %v", cfg.Material.Ambient)
	}
	if cfg.Camera.Position != (Vec{0, 1, 4}) || cfg.Camera.FOV != 50 {
		t.Errorf("camera = %+v", cfg.Camera)
	}
	if len(cfg.Lights) != 2 {
		t.Errorf("lights = %d, want defaults", len(cfg.Lights))
	}
}

func TestLoadReplacesLights(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"one light", `{"lights": [{"position": [0, 5, 0], "diffuse": 1}]}`, 1},
		{"no lights", `{"lights": []}`, 0},
		{"three lights", `{"lights": [{}, {}, {}]}`, 3},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, tc.body))
			if err != nil {
				t.Fatal(err)
			}
			if len(cfg.Lights) != tc.want {
				t.Fatalf("lights = %d, want %d", len(cfg.Lights), tc.want)
			}
			if tc.want == 1 {
				l := cfg.Lights[0]
				if l.Diffuse != Grey(1) || l.Ambient != (Color{}) {
					t.Errorf("light merged with defaults: %+v", l)
				}
			}
		})
	}
}

func TestColorNotations(t *testing.T) {
	tests := []struct {
		json string
		want Color
		ok   bool
	}{
		{`"#000000"`, Color{0, 0, 0}, true},
		{`"#ffffff"`, Color{1, 1, 1}, true},
		{`[1, 0.5, 0.31]`, Color{1, 0.5, 0.31}, true},
		{`0.2`, Grey(0.2), true},
		{`"coral"`, Color{}, false},
		{`{"r": 1}`, Color{}, false},
	}
	for _, tc := range tests {
		t.Run(tc.json, func(t *testing.T) {
			var c Color
			err := c.UnmarshalJSON([]byte(tc.json))
			if (err == nil) != tc.ok {
				t.Fatalf("err = %v, want ok=%v", err, tc.ok)
			}
			if tc.ok && c != tc.want {
				t.Errorf("color = %v, want %v", c, tc.want)
			}
		})
	}
}

func TestColorConversions(t *testing.T) {
	c := Color{1.5, 0.5, -1}
	if got := c.ToRGBA(); got != (color.RGBA{255, 128, 0, 255}) {
		t.Errorf("ToRGBA = %v", got)
	}
	if got := (Color{1, 0, 0}).Hex(); got != "#ff0000" {
		t.Errorf("Hex = %q", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"zero width", func(c *Config) { c.Width = 0 }, ErrInvalidSize},
		{"negative fps", func(c *Config) { c.FPS = -1 }, ErrInvalidFPS},
		{"zero shininess", func(c *Config) { c.Material.Shininess = 0 }, ErrInvalidShininess},
		{"flat fov", func(c *Config) { c.Camera.FOV = 180 }, ErrInvalidFOV},
		{"near beyond far", func(c *Config) { c.Camera.Near = 2000 }, ErrInvalidClip},
		{"camera on target", func(c *Config) { c.Camera.Position = c.Camera.Target }, ErrCameraOnTarget},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tc.want) {
				t.Errorf("Validate = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"unknown field", `{"colour": "#fff"}`, "unknown field"},
		{"bad json", `{"width": }`, "parse"},
		{"invalid value", `{"height": -4}`, "window size"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.body))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("err = %v, want mention of %q", err, tc.want)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file err = %v", err)
	}
}
