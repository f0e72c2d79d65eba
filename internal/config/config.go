// Package config describes a scene and window: the defaults reproduce the
// classroom spinning cube, and a JSON file can override any of them.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"os"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/taigrr/phong/pkg/lighting"
	"github.com/taigrr/phong/pkg/math3d"
	"github.com/taigrr/phong/pkg/pipeline"
)

// Validation errors.
var (
	ErrInvalidSize      = errors.New("window size must be positive")
	ErrInvalidFPS       = errors.New("fps must not be negative")
	ErrInvalidShininess = errors.New("shininess must be positive")
	ErrInvalidFOV       = errors.New("field of view must be in (0, 180) degrees")
	ErrInvalidClip      = errors.New("clip planes must satisfy 0 < near < far")
	ErrCameraOnTarget   = errors.New("camera position equals its target")
)

// Config is the complete scene and window description.
type Config struct {
	Width      int      `json:"width"`
	Height     int      `json:"height"`
	Title      string   `json:"title"`
	FPS        int      `json:"fps"`    // 0 means unthrottled
	Frames     int      `json:"frames"` // Stop after this many frames, 0 for no limit
	Camera     Camera   `json:"camera"`
	Material   Material `json:"material"`
	Lights     []Light  `json:"lights"`
	Spin       Spin     `json:"spin"`
	Model      string   `json:"model,omitempty"`      // glTF/GLB file; empty for the cube
	ShaderDir  string   `json:"shader_dir,omitempty"` // Overrides the embedded shaders
	Background Color    `json:"background"`
}

// Camera places the viewer.
type Camera struct {
	Position Vec     `json:"position"`
	Target   Vec     `json:"target"`
	FOV      float64 `json:"fov"` // Vertical, degrees
	Near     float64 `json:"near"`
	Far      float64 `json:"far"`
}

// Material is the surface of the model. When DiffuseMap is set the
// textured variant is used and the flat colors are ignored.
type Material struct {
	Ambient     Color   `json:"ambient"`
	Diffuse     Color   `json:"diffuse"`
	Specular    Color   `json:"specular"`
	Shininess   float64 `json:"shininess"`
	DiffuseMap  string  `json:"diffuse_map,omitempty"`
	SpecularMap string  `json:"specular_map,omitempty"`
}

// Light is one point light.
type Light struct {
	Position Vec   `json:"position"`
	Ambient  Color `json:"ambient"`
	Diffuse  Color `json:"diffuse"`
	Specular Color `json:"specular"`
}

// Spin holds the rotation rates in degrees per second.
type Spin struct {
	Yaw   float64 `json:"yaw"`
	Pitch float64 `json:"pitch"`
}

// Default returns the classroom scene: a coral cube seen from (0,0,3) and
// lit by two grey lights placed symmetrically about the origin.
func Default() Config {
	light := Light{
		Position: Vec{1.2, 1, 2},
		Ambient:  Grey(0.2),
		Diffuse:  Grey(0.5),
		Specular: Grey(1),
	}
	second := light
	second.Position = Vec{-1.2, -1, -2}

	return Config{
		Width:  640,
		Height: 480,
		Title:  "My spinning cube",
		FPS:    60,
		Camera: Camera{
			Position: Vec{0, 0, 3},
			Target:   Vec{0, 0, 0},
			FOV:      50,
			Near:     0.1,
			Far:      1000,
		},
		Material: Material{
			Ambient:   Color{1, 0.5, 0.31},
			Diffuse:   Color{1, 0.5, 0.31},
			Specular:  Grey(0.5),
			Shininess: 32,
		},
		Lights:     []Light{light, second},
		Spin:       Spin{Yaw: pipeline.DefaultSpin.Yaw, Pitch: pipeline.DefaultSpin.Pitch},
		Background: Color{0, 0, 0},
	}
}

// Load reads a JSON file over the defaults and validates the result.
// Fields absent from the file keep their default values; a "lights" array
// replaces the whole list, and an empty array means no lights.
func Load(path string) (Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	// Decoding into the default slice would merge file lights into the
	// default ones field by field.
	defaultLights := cfg.Lights
	cfg.Lights = nil

	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Lights == nil {
		cfg.Lights = defaultLights
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports the first setting that cannot produce a picture.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, c.Width, c.Height)
	case c.FPS < 0:
		return fmt.Errorf("%w: %d", ErrInvalidFPS, c.FPS)
	case c.Material.Shininess <= 0:
		return fmt.Errorf("%w: %v", ErrInvalidShininess, c.Material.Shininess)
	case c.Camera.FOV <= 0 || c.Camera.FOV >= 180:
		return fmt.Errorf("%w: %v", ErrInvalidFOV, c.Camera.FOV)
	case c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near:
		return fmt.Errorf("%w: near %v, far %v", ErrInvalidClip, c.Camera.Near, c.Camera.Far)
	case c.Camera.Position == c.Camera.Target:
		return ErrCameraOnTarget
	}
	return nil
}

// Textured reports whether the material samples texture maps.
func (c Config) Textured() bool {
	return c.Material.DiffuseMap != ""
}

// SpinRates returns the spin as pipeline rates.
func (c Config) SpinRates() pipeline.SpinRates {
	return pipeline.SpinRates{Yaw: c.Spin.Yaw, Pitch: c.Spin.Pitch}
}

// PointLights converts the configured lights.
func (c Config) PointLights() []lighting.PointLight {
	out := make([]lighting.PointLight, len(c.Lights))
	for i, l := range c.Lights {
		out[i] = lighting.PointLight{
			Position: l.Position.Vec3(),
			Ambient:  l.Ambient.Vec3(),
			Diffuse:  l.Diffuse.Vec3(),
			Specular: l.Specular.Vec3(),
		}
	}
	return out
}

// FlatMaterial converts the configured colors into a lighting material.
func (m Material) FlatMaterial() lighting.Material {
	return lighting.FlatMaterial(m.Ambient.Vec3(), m.Diffuse.Vec3(), m.Specular.Vec3(), m.Shininess)
}

// Vec is a 3D point written as a JSON array.
type Vec [3]float64

// Vec3 converts to a math3d vector.
func (v Vec) Vec3() math3d.Vec3 {
	return math3d.V3(v[0], v[1], v[2])
}

// Color is a linear RGB triple in [0, 1] per channel. In JSON it may be
// written as "#rrggbb", as [r, g, b], or as a single grey level.
type Color [3]float64

// Grey returns a color with all channels set to v.
func Grey(v float64) Color {
	return Color{v, v, v}
}

// UnmarshalJSON accepts the three color notations.
func (c *Color) UnmarshalJSON(data []byte) error {
	var hex string
	if err := json.Unmarshal(data, &hex); err == nil {
		cf, err := colorful.Hex(hex)
		if err != nil {
			return fmt.Errorf("color %q: %w", hex, err)
		}
		*c = Color{cf.R, cf.G, cf.B}
		return nil
	}

	var grey float64
	if err := json.Unmarshal(data, &grey); err == nil {
		*c = Grey(grey)
		return nil
	}

	var rgb [3]float64
	if err := json.Unmarshal(data, &rgb); err != nil {
		return fmt.Errorf("color must be \"#rrggbb\", a number or [r, g, b]: %s", data)
	}
	*c = Color(rgb)
	return nil
}

// Vec3 converts to a math3d vector.
func (c Color) Vec3() math3d.Vec3 {
	return math3d.V3(c[0], c[1], c[2])
}

// ToRGBA returns the color clamped to 8 bits, fully opaque.
func (c Color) ToRGBA() color.RGBA {
	r, g, b := colorful.Color{R: c[0], G: c[1], B: c[2]}.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// Hex formats the color as #rrggbb.
func (c Color) Hex() string {
	return colorful.Color{R: c[0], G: c[1], B: c[2]}.Clamped().Hex()
}
