package shader

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/meshview/internal/engine/shader/shaders"
)

// Stage file names, shared by the embedded set and shader_dir overrides.
const (
	VertexFile         = "VertexShader.glsl"
	TessControlFile    = "TesselationControlShader.glsl"
	TessEvaluationFile = "TessellationEvaluationShader.glsl"
	FragmentFile       = "FragmentShader.glsl"
	FlatVertexFile     = "FlatVertexShader.glsl"
)

// Uniform names the mesh program exposes.
const (
	UniformProjection = "projectionMat"
	UniformModelView  = "modelViewMat"
	UniformTexture    = "Texture"
)

type stageFile struct {
	kind uint32
	name string
	file string
}

var (
	patchStages = []stageFile{
		{gl.VERTEX_SHADER, "vertex", VertexFile},
		{gl.TESS_CONTROL_SHADER, "tess control", TessControlFile},
		{gl.TESS_EVALUATION_SHADER, "tess evaluation", TessEvaluationFile},
		{gl.FRAGMENT_SHADER, "fragment", FragmentFile},
	}
	triangleStages = []stageFile{
		{gl.VERTEX_SHADER, "vertex", FlatVertexFile},
		{gl.FRAGMENT_SHADER, "fragment", FragmentFile},
	}
)

// MeshStages returns the stages of the mesh program. With tessellate the
// tessellation pipeline is used, otherwise vertex and fragment only.
// An empty dir selects the embedded sources.
func MeshStages(dir string, tessellate bool) ([]Stage, error) {
	var fsys fs.FS = shaders.FS
	if dir != "" {
		fsys = os.DirFS(dir)
	}
	return loadStages(fsys, tessellate)
}

func loadStages(fsys fs.FS, tessellate bool) ([]Stage, error) {
	files := triangleStages
	if tessellate {
		files = patchStages
	}

	stages := make([]Stage, 0, len(files))
	for _, f := range files {
		src, err := fs.ReadFile(fsys, f.file)
		if err != nil {
			return nil, fmt.Errorf("read %s shader: %w", f.name, err)
		}
		stages = append(stages, Stage{Kind: f.kind, Name: f.name, Source: string(src)})
	}
	return stages, nil
}
