package shader

import "fmt"

// Fixed uniform names.
const (
	Model          = "model"
	View           = "view"
	Projection     = "projection"
	NormalToWorld  = "normal_to_world"
	ViewPos        = "view_pos"
	MatAmbient     = "material.ambient"
	MatDiffuse     = "material.diffuse"
	MatSpecular    = "material.specular"
	MatShininess   = "material.shininess"
	pointLightsArr = "pointLights"
)

// LightFields are the members of the PointLight struct in upload order.
var LightFields = []string{"position", "ambient", "diffuse", "specular"}

// LightUniform returns the uniform name of a member of light i, for example
// "pointLights[1].diffuse".
func LightUniform(i int, field string) string {
	return fmt.Sprintf("%s[%d].%s", pointLightsArr, i, field)
}

// Uniforms lists every uniform the host sets for a program variant. In the
// textured variant material.diffuse and material.specular are samplers and
// there is no material.ambient.
func Uniforms(lights int, textured bool) []string {
	names := []string{Model, View, Projection, NormalToWorld, ViewPos}
	if textured {
		names = append(names, MatDiffuse, MatSpecular)
	} else {
		names = append(names, MatAmbient, MatDiffuse, MatSpecular)
	}
	names = append(names, MatShininess)

	for i := range lights {
		for _, f := range LightFields {
			names = append(names, LightUniform(i, f))
		}
	}
	return names
}
