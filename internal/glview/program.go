package glview

import (
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/taigrr/phong/internal/driver"
	"github.com/taigrr/phong/pkg/lighting"
	"github.com/taigrr/phong/pkg/math3d"
	"github.com/taigrr/phong/pkg/shader"
)

// program is a linked Phong program and its uniform locations.
type program struct {
	id       uint32
	lights   int
	textured bool
	loc      map[string]int32
}

// buildProgram compiles and links the variant opts selects and resolves
// every uniform it uses.
func buildProgram(src shader.Set, opts shader.Options, logger *log.Logger) (*program, error) {
	vsrc, err := src.Source(shader.Vertex, opts)
	if err != nil {
		return nil, err
	}
	fsrc, err := src.Source(shader.Fragment, opts)
	if err != nil {
		return nil, err
	}

	vs, err := compileShader(vsrc, shader.Vertex)
	if err != nil {
		return nil, err
	}
	defer gl.DeleteShader(vs)

	fs, err := compileShader(fsrc, shader.Fragment)
	if err != nil {
		return nil, err
	}
	defer gl.DeleteShader(fs)

	id := gl.CreateProgram()
	gl.AttachShader(id, vs)
	gl.AttachShader(id, fs)
	gl.LinkProgram(id)

	var status int32
	gl.GetProgramiv(id, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(id, gl.INFO_LOG_LENGTH, &logLength)

		infoLog := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(id, logLength, nil, gl.Str(infoLog))
		gl.DeleteProgram(id)

		return nil, &shader.LinkError{Log: infoLog}
	}

	p := &program{
		id:       id,
		lights:   opts.Lights,
		textured: opts.Textured,
		loc:      make(map[string]int32),
	}
	for _, name := range shader.Uniforms(opts.Lights, opts.Textured) {
		l := gl.GetUniformLocation(id, gl.Str(name+"\x00"))
		p.loc[name] = l
		if l < 0 {
			// Unused uniforms are optimised away by the driver.
			logger.Debug("uniform inactive", "name", name)
			continue
		}
		logger.Debug("uniform", "name", name, "location", l)
	}

	if p.textured {
		p.use()
		gl.Uniform1i(p.loc[shader.MatDiffuse], shader.DiffuseUnit)
		gl.Uniform1i(p.loc[shader.MatSpecular], shader.SpecularUnit)
	}
	return p, nil
}

func compileShader(source string, kind shader.Kind) (uint32, error) {
	glType := uint32(gl.VERTEX_SHADER)
	if kind == shader.Fragment {
		glType = gl.FRAGMENT_SHADER
	}
	id := gl.CreateShader(glType)

	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(id, 1, csources, nil)
	free()
	gl.CompileShader(id)

	var status int32
	gl.GetShaderiv(id, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(id, gl.INFO_LOG_LENGTH, &logLength)

		infoLog := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(id, logLength, nil, gl.Str(infoLog))
		gl.DeleteShader(id)

		return 0, &shader.CompileError{Stage: kind, Log: infoLog}
	}
	return id, nil
}

func (p *program) use() {
	gl.UseProgram(p.id)
}

func (p *program) delete() {
	gl.DeleteProgram(p.id)
}

func (p *program) setFrame(f driver.Frame) {
	p.setMat4(shader.Model, f.Transforms.Model)
	p.setMat4(shader.View, f.Transforms.View)
	p.setMat4(shader.Projection, f.Transforms.Projection)

	normal := mgl32.Mat3(f.NormalMatrix.Float32())
	gl.UniformMatrix3fv(p.loc[shader.NormalToWorld], 1, false, &normal[0])

	p.setVec3(shader.ViewPos, f.ViewPos)
}

// setMaterial uploads flat colors; the textured variant only takes the
// shininess, the maps being bound to their units.
func (p *program) setMaterial(m lighting.Material) {
	if !p.textured {
		a, d, s := flatColors(m)
		gl.Uniform3fv(p.loc[shader.MatAmbient], 1, &a[0])
		gl.Uniform3fv(p.loc[shader.MatDiffuse], 1, &d[0])
		gl.Uniform3fv(p.loc[shader.MatSpecular], 1, &s[0])
	}
	gl.Uniform1f(p.loc[shader.MatShininess], float32(m.Shininess))
}

// setLights uploads at most as many lights as the program was built for.
func (p *program) setLights(lights []lighting.PointLight) {
	for i, l := range lights[:min(len(lights), p.lights)] {
		p.setVec3(shader.LightUniform(i, "position"), l.Position)
		p.setVec3(shader.LightUniform(i, "ambient"), l.Ambient)
		p.setVec3(shader.LightUniform(i, "diffuse"), l.Diffuse)
		p.setVec3(shader.LightUniform(i, "specular"), l.Specular)
	}
}

func (p *program) setMat4(name string, m math3d.Mat4) {
	v := mgl32.Mat4(m.Float32())
	gl.UniformMatrix4fv(p.loc[name], 1, false, &v[0])
}

func (p *program) setVec3(name string, v math3d.Vec3) {
	f := vec3(v)
	gl.Uniform3fv(p.loc[name], 1, &f[0])
}

func vec3(v math3d.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{float32(v.X), float32(v.Y), float32(v.Z)}
}

// flatColors reads the three reflectances of a flat material. Any color
// source works; it is sampled at the origin.
func flatColors(m lighting.Material) (ambient, diffuse, specular mgl32.Vec3) {
	var origin math3d.Vec2
	return vec3(m.Ambient.At(origin)), vec3(m.Diffuse.At(origin)), vec3(m.Specular.At(origin))
}
