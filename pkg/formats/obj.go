package formats

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// OBJ format errors.
var (
	ErrFaceArity   = errors.New("face must reference exactly 3 vertices")
	ErrFaceVertex  = errors.New("face vertex must be written as position//normal")
	ErrBadVector   = errors.New("malformed vector record")
	ErrIndexRange  = errors.New("index out of range")
	ErrLineTooLong = errors.New("line too long")
)

const maxOBJLineBytes = 1 << 20

// ParseError reports why a mesh file could not be loaded.
type ParseError struct {
	Path string // File path, empty when parsing a reader
	Line int    // 1-based line number, 0 when not tied to a line
	Err  error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("parse mesh")
	if e.Path != "" {
		b.WriteString(" ")
		b.WriteString(e.Path)
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, ":%d", e.Line)
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *ParseError) Unwrap() error { return e.Err }

// RecordKind identifies the tag a record was read from.
type RecordKind uint8

const (
	RecordPosition RecordKind = iota + 1 // "v x y z"
	RecordNormal                         // "vn x y z"
	RecordFace                           // "f p//n p//n p//n"
)

// String returns the OBJ tag for the kind.
func (k RecordKind) String() string {
	switch k {
	case RecordPosition:
		return "v"
	case RecordNormal:
		return "vn"
	case RecordFace:
		return "f"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// FaceVertex is one corner of a face, with indices exactly as written (1-based).
type FaceVertex struct {
	Position int
	Normal   int
}

// Record is a single typed line of an OBJ file.
type Record struct {
	Kind RecordKind
	Line int
	Vec  [3]float32    // RecordPosition, RecordNormal
	Face [3]FaceVertex // RecordFace
}

// Mesh holds the CPU-side arrays of a loaded mesh.
// Indices are 0-based; each consecutive triple is one triangle.
type Mesh struct {
	Positions       []float32 // [x0, y0, z0, x1, y1, z1, ...]
	Normals         []float32 // [nx0, ny0, nz0, ...]
	PositionIndices []uint32
	NormalIndices   []uint32
}

// VertexCount returns the number of positions.
func (m *Mesh) VertexCount() int { return len(m.Positions) / 3 }

// NormalCount returns the number of normals.
func (m *Mesh) NormalCount() int { return len(m.Normals) / 3 }

// TriangleCount returns the number of faces.
func (m *Mesh) TriangleCount() int { return len(m.PositionIndices) / 3 }

// IndexCount returns the length of the position index sequence.
func (m *Mesh) IndexCount() int { return len(m.PositionIndices) }

// Bounds returns the axis-aligned bounding box of the positions.
// An empty mesh has zero bounds.
func (m *Mesh) Bounds() (lo, hi mgl32.Vec3) {
	if len(m.Positions) < 3 {
		return lo, hi
	}
	lo = mgl32.Vec3{m.Positions[0], m.Positions[1], m.Positions[2]}
	hi = lo
	for i := 3; i+2 < len(m.Positions); i += 3 {
		for a := 0; a < 3; a++ {
			v := m.Positions[i+a]
			if v < lo[a] {
				lo[a] = v
			}
			if v > hi[a] {
				hi[a] = v
			}
		}
	}
	return lo, hi
}

// Radius returns half the bounding-box diagonal.
func (m *Mesh) Radius() float32 {
	lo, hi := m.Bounds()
	return hi.Sub(lo).Len() / 2
}

// Records returns the typed records of an OBJ stream in file order.
// Lines with any other tag are skipped. The sequence stops after the first
// error, which is always a *ParseError. It can be ranged over only once.
func Records(r io.Reader) iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 0, 64*1024), maxOBJLineBytes)

		line := 0
		for sc.Scan() {
			line++
			fields := strings.Fields(sc.Text())
			if len(fields) == 0 {
				continue
			}

			var (
				rec Record
				err error
			)
			switch fields[0] {
			case "v":
				rec.Kind = RecordPosition
				rec.Vec, err = parseVec(fields[1:], 4)
			case "vn":
				rec.Kind = RecordNormal
				rec.Vec, err = parseVec(fields[1:], 3)
			case "f":
				rec.Kind = RecordFace
				rec.Face, err = parseFace(fields[1:])
			default:
				continue
			}
			rec.Line = line

			if err != nil {
				yield(rec, &ParseError{Line: line, Err: err})
				return
			}
			if !yield(rec, nil) {
				return
			}
		}

		if err := sc.Err(); err != nil {
			if errors.Is(err, bufio.ErrTooLong) {
				err = ErrLineTooLong
			}
			yield(Record{}, &ParseError{Line: line + 1, Err: err})
		}
	}
}

// parseVec reads three floats; up to maxFields are accepted and the rest ignored
// (the optional w of a position).
func parseVec(fields []string, maxFields int) ([3]float32, error) {
	var v [3]float32
	if len(fields) < 3 || len(fields) > maxFields {
		return v, fmt.Errorf("%w: want 3 components, got %d", ErrBadVector, len(fields))
	}
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return v, fmt.Errorf("%w: %q", ErrBadVector, fields[i])
		}
		v[i] = float32(f)
	}
	return v, nil
}

func parseFace(fields []string) ([3]FaceVertex, error) {
	var face [3]FaceVertex
	if len(fields) != 3 {
		return face, fmt.Errorf("%w, got %d", ErrFaceArity, len(fields))
	}
	for i, tok := range fields {
		p, n, ok := strings.Cut(tok, "//")
		if !ok || p == "" || n == "" || strings.Contains(n, "/") {
			return face, fmt.Errorf("%w: %q", ErrFaceVertex, tok)
		}
		// Relative (negative) indices are not part of the subset.
		pi, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			return face, fmt.Errorf("%w: %q", ErrFaceVertex, tok)
		}
		ni, err := strconv.ParseUint(n, 10, 32)
		if err != nil {
			return face, fmt.Errorf("%w: %q", ErrFaceVertex, tok)
		}
		face[i] = FaceVertex{Position: int(pi), Normal: int(ni)}
	}
	return face, nil
}

// ParseOBJ reads a mesh from an OBJ stream restricted to v, vn and
// triangular "p//n" faces. Nothing is returned on error.
func ParseOBJ(r io.Reader) (*Mesh, error) {
	m := &Mesh{}
	var faceLines []int

	for rec, err := range Records(r) {
		if err != nil {
			return nil, err
		}
		switch rec.Kind {
		case RecordPosition:
			m.Positions = append(m.Positions, rec.Vec[:]...)
		case RecordNormal:
			m.Normals = append(m.Normals, rec.Vec[:]...)
		case RecordFace:
			for _, fv := range rec.Face {
				// Range is checked below once all counts are known.
				m.PositionIndices = append(m.PositionIndices, uint32(fv.Position-1))
				m.NormalIndices = append(m.NormalIndices, uint32(fv.Normal-1))
			}
			faceLines = append(faceLines, rec.Line)
		}
	}

	nPos := uint32(m.VertexCount())
	nNorm := uint32(m.NormalCount())
	for i := range m.PositionIndices {
		// A source index of 0 wraps to MaxUint32 here.
		if m.PositionIndices[i] >= nPos {
			return nil, &ParseError{
				Line: faceLines[i/3],
				Err:  fmt.Errorf("%w: position %d of %d", ErrIndexRange, m.PositionIndices[i]+1, nPos),
			}
		}
		if m.NormalIndices[i] >= nNorm {
			return nil, &ParseError{
				Line: faceLines[i/3],
				Err:  fmt.Errorf("%w: normal %d of %d", ErrIndexRange, m.NormalIndices[i]+1, nNorm),
			}
		}
	}

	return m, nil
}

// ParseOBJFile loads a mesh from an OBJ file on disk.
func ParseOBJFile(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	defer f.Close()

	m, err := ParseOBJ(f)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	return m, nil
}
