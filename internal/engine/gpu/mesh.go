package gpu

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/logger"
	"github.com/Faultbox/meshview/pkg/formats"
)

// Vertex attribute slots of the mesh vertex array.
const (
	PositionSlot = 0
	NormalSlot   = 1
)

// ErrEmptyMesh is returned when a mesh has nothing to draw.
var ErrEmptyMesh = errors.New("mesh has no triangles")

// AllocError reports a GPU object that could not be created.
type AllocError struct {
	Resource string
	Err      error
}

func (e *AllocError) Error() string {
	return fmt.Sprintf("allocate %s: %v", e.Resource, e.Err)
}

func (e *AllocError) Unwrap() error { return e.Err }

// MeshBuffers is the GPU copy of a mesh: one buffer per CPU array and a
// vertex array binding positions, normals and position indices.
type MeshBuffers struct {
	dev Device

	Positions       uint32
	Normals         uint32
	PositionIndices uint32
	NormalIndices   uint32
	VertexArray     uint32

	// IndexCount is the number of indices a full draw consumes.
	IndexCount int32
}

// Upload creates the GPU resource set for mesh. Each buffer gets fixed-size
// storage, then one full write. On error nothing stays allocated.
func Upload(dev Device, mesh *formats.Mesh) (*MeshBuffers, error) {
	if mesh == nil || mesh.TriangleCount() == 0 || mesh.VertexCount() == 0 {
		return nil, ErrEmptyMesh
	}

	b := &MeshBuffers{dev: dev}
	ok := false
	defer func() {
		if !ok {
			b.Release()
		}
	}()

	var err error
	if b.Positions, err = b.floatBuffer("position buffer", mesh.Positions); err != nil {
		return nil, err
	}
	if b.Normals, err = b.floatBuffer("normal buffer", mesh.Normals); err != nil {
		return nil, err
	}
	if b.PositionIndices, err = b.indexBuffer("position index buffer", mesh.PositionIndices); err != nil {
		return nil, err
	}
	if b.NormalIndices, err = b.indexBuffer("normal index buffer", mesh.NormalIndices); err != nil {
		return nil, err
	}

	if b.VertexArray, err = dev.CreateVertexArray(); err != nil {
		return nil, &AllocError{Resource: "vertex array", Err: err}
	}
	dev.VertexAttrib(b.VertexArray, PositionSlot, b.Positions, 3)
	dev.VertexAttrib(b.VertexArray, NormalSlot, b.Normals, 3)
	// The draw walks position indices. Normal indices are uploaded for
	// shaders that fetch them, the attribute stream stays position-indexed.
	dev.ElementSource(b.VertexArray, b.PositionIndices)

	b.IndexCount = int32(len(mesh.PositionIndices))
	ok = true

	logger.Debug("mesh uploaded",
		zap.Uint32("vao", b.VertexArray),
		zap.Int("vertices", mesh.VertexCount()),
		zap.Int("normals", mesh.NormalCount()),
		zap.Int32("indices", b.IndexCount),
	)
	return b, nil
}

func (b *MeshBuffers) floatBuffer(name string, data []float32) (uint32, error) {
	buf, err := b.dev.CreateBuffer(len(data) * 4)
	if err != nil {
		return 0, &AllocError{Resource: name, Err: err}
	}
	b.dev.WriteFloats(buf, data)
	return buf, nil
}

func (b *MeshBuffers) indexBuffer(name string, data []uint32) (uint32, error) {
	buf, err := b.dev.CreateBuffer(len(data) * 4)
	if err != nil {
		return 0, &AllocError{Resource: name, Err: err}
	}
	b.dev.WriteIndices(buf, data)
	return buf, nil
}

// Release deletes every GPU object. Calling it again is a no-op.
func (b *MeshBuffers) Release() {
	if b == nil || b.dev == nil {
		return
	}
	b.dev.DeleteVertexArray(b.VertexArray)
	for _, buf := range []*uint32{&b.Positions, &b.Normals, &b.PositionIndices, &b.NormalIndices} {
		b.dev.DeleteBuffer(*buf)
		*buf = 0
	}
	b.VertexArray = 0
	b.IndexCount = 0
	b.dev = nil
}

// Released reports whether Release has run.
func (b *MeshBuffers) Released() bool {
	return b == nil || b.dev == nil
}
