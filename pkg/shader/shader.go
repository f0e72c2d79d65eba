// Package shader holds the GLSL program used by the OpenGL backend and the
// host-side knowledge about it: how the sources are specialised for a light
// count and material variant, and which uniforms the host must set.
package shader

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
)

//go:embed glsl/phong.vert glsl/phong.frag
var embedded embed.FS

// Kind identifies a shader stage.
type Kind int

const (
	Vertex Kind = iota
	Fragment
)

func (k Kind) String() string {
	switch k {
	case Vertex:
		return "vertex"
	case Fragment:
		return "fragment"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// file returns the file name of the stage inside a shader directory.
func (k Kind) file() string {
	switch k {
	case Vertex:
		return "phong.vert"
	case Fragment:
		return "phong.frag"
	default:
		return ""
	}
}

// Texture units the textured variant samples from.
const (
	DiffuseUnit  = 0
	SpecularUnit = 1
)

// Options select the program variant.
type Options struct {
	Lights   int  // Number of point lights, >= 0
	Textured bool // Sample diffuse/specular maps instead of flat colors
}

// Set is a pair of shader sources. The zero value is not usable; use
// Embedded or Dir.
type Set struct {
	fsys fs.FS
	root string
}

// Embedded returns the sources compiled into the binary.
func Embedded() Set {
	return Set{fsys: embedded, root: "glsl"}
}

// Dir returns sources read from dir, which must contain phong.vert and
// phong.frag. Files are read lazily by Source.
func Dir(dir string) Set {
	return Set{fsys: os.DirFS(dir), root: "."}
}

// Source returns the stage source specialised for opts.
func (s Set) Source(kind Kind, opts Options) (string, error) {
	name := kind.file()
	if name == "" {
		return "", fmt.Errorf("unknown shader stage %v", kind)
	}
	if opts.Lights < 0 {
		return "", fmt.Errorf("negative light count %d", opts.Lights)
	}

	src, err := fs.ReadFile(s.fsys, path.Join(s.root, name))
	if err != nil {
		return "", fmt.Errorf("read %s shader: %w", kind, err)
	}
	return Preprocess(string(src), opts), nil
}

// Preprocess injects the variant defines right after the #version line.
// GLSL forbids anything but comments before #version, so sources without
// one get the defines at the very top.
func Preprocess(src string, opts Options) string {
	defines := Defines(opts)

	lines := strings.SplitAfter(src, "\n")
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "#version") {
			if !strings.HasSuffix(line, "\n") {
				lines[i] = line + "\n"
			}
			head := strings.Join(lines[:i+1], "")
			return head + defines + strings.Join(lines[i+1:], "")
		}
	}
	return defines + src
}

// Defines returns the preprocessor block for opts. The light array is sized
// at least one so a zero-light program still declares valid GLSL.
func Defines(opts Options) string {
	var b strings.Builder
	fmt.Fprintf(&b, "#define NR_POINT_LIGHTS %d\n", opts.Lights)
	fmt.Fprintf(&b, "#define MAX_POINT_LIGHTS %d\n", max(opts.Lights, 1))
	if opts.Textured {
		b.WriteString("#define TEXTURED\n")
	}
	return b.String()
}
