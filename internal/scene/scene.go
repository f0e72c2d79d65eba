// Package scene turns a configuration into the things a frame draws: a
// mesh, its material, the lights, and any texture maps.
package scene

import (
	"fmt"
	"image/color"

	"github.com/charmbracelet/log"

	"github.com/taigrr/phong/internal/config"
	"github.com/taigrr/phong/pkg/lighting"
	"github.com/taigrr/phong/pkg/models"
	"github.com/taigrr/phong/pkg/render"
)

// ModelSize is the edge of the default cube; loaded models are scaled so
// their largest extent matches it.
const ModelSize = 0.5

// Scene is everything that stays fixed between frames.
type Scene struct {
	Mesh     *models.Mesh
	Material lighting.Material
	Lights   []lighting.PointLight

	// Texture maps of the textured variant. A map that failed to load is
	// nil and samples black.
	DiffuseMap  *render.Texture
	SpecularMap *render.Texture

	Background color.RGBA
}

// Textured reports whether the material samples maps.
func (s *Scene) Textured() bool {
	return s.Material.Textured()
}

// Load builds the scene described by cfg. Only a model that cannot be read
// is an error; texture failures are logged and leave a black map.
func Load(cfg config.Config, logger *log.Logger) (*Scene, error) {
	s := &Scene{
		Lights:     cfg.PointLights(),
		Background: cfg.Background.ToRGBA(),
	}

	if cfg.Model == "" {
		s.Mesh = models.Cube(ModelSize)
	} else {
		mesh, err := models.LoadGLB(cfg.Model)
		if err != nil {
			return nil, fmt.Errorf("load model: %w", err)
		}
		mesh.Normalize(ModelSize)
		s.Mesh = mesh
		logger.Info("loaded model", "path", cfg.Model,
			"vertices", mesh.VertexCount(), "triangles", mesh.TriangleCount(), "materials", mesh.MaterialCount())
	}

	switch {
	case cfg.Textured():
		s.DiffuseMap = loadMap(logger, "diffuse", cfg.Material.DiffuseMap)
		s.SpecularMap = loadMap(logger, "specular", cfg.Material.SpecularMap)
		s.Material = lighting.MappedMaterial(s.DiffuseMap, s.SpecularMap, cfg.Material.Shininess)
	case cfg.Model != "" && s.Mesh.MaterialCount() > 0:
		s.Material = s.modelMaterial(logger)
	default:
		s.Material = cfg.Material.FlatMaterial()
	}

	logger.Debug("scene ready", "lights", len(s.Lights), "textured", s.Textured(), "background", cfg.Background.Hex())
	return s, nil
}

// modelMaterial uses the first material of a loaded model. A base color
// texture becomes the diffuse map.
func (s *Scene) modelMaterial(logger *log.Logger) lighting.Material {
	src := s.Mesh.Materials[0]
	m := models.PhongFromPBR(src)
	if src.HasTexture && src.BaseMap != nil {
		s.DiffuseMap = render.TextureFromImage(src.BaseMap)
		s.DiffuseMap.Name = src.Name
		m = lighting.MappedMaterial(s.DiffuseMap, nil, m.Shininess)
	}
	logger.Debug("using model material", "name", src.Name, "shininess", m.Shininess, "textured", m.Textured())
	return m
}

// loadMap loads one texture map, or returns nil when path is empty or the
// file cannot be decoded.
func loadMap(logger *log.Logger, kind, path string) *render.Texture {
	if path == "" {
		return nil
	}
	tex, err := render.LoadTexture(path)
	if err != nil {
		logger.Warn("texture failed to load; sampling black", "map", kind, "err", err)
		return nil
	}
	logger.Info("loaded texture", "map", kind, "path", path, "width", tex.Width, "height", tex.Height)
	return tex
}

// ToggleTexture swaps between the configured material and a checkerboard
// map, for backends that let the user flip variants at run time.
func (s *Scene) ToggleTexture(flat lighting.Material) {
	if s.Textured() {
		s.Material = flat
		return
	}
	if s.DiffuseMap == nil {
		s.DiffuseMap = render.NewCheckerTexture(64, 64, 8, render.RGB(255, 255, 255), render.RGB(60, 60, 60))
		s.DiffuseMap.Name = "checker"
	}
	s.Material = lighting.MappedMaterial(s.DiffuseMap, s.SpecularMap, flat.Shininess)
}
