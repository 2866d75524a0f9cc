package formats

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const triangleOBJ = `
v 0 0 0
v 1 0 0
v 0 1 0
vn 0 0 1
f 1//1 2//1 3//1
`

func TestParseOBJ_Cube(t *testing.T) {
	m, err := ParseOBJFile(filepath.Join("testdata", "cube.obj"))
	if err != nil {
		t.Fatalf("ParseOBJFile failed: %v", err)
	}

	if m.VertexCount() != 8 {
		t.Errorf("expected 8 positions, got %d", m.VertexCount())
	}
	if m.NormalCount() != 8 {
		t.Errorf("expected 8 normals, got %d", m.NormalCount())
	}
	if m.TriangleCount() != 12 {
		t.Errorf("expected 12 triangles, got %d", m.TriangleCount())
	}
	if m.IndexCount() != 36 {
		t.Errorf("expected 36 indices, got %d", m.IndexCount())
	}
	if len(m.NormalIndices) != len(m.PositionIndices) {
		t.Errorf("normal indices %d != position indices %d", len(m.NormalIndices), len(m.PositionIndices))
	}

	// Every well-formed mesh: positions packed by 3, indices 0-based and in range.
	if len(m.Positions)%3 != 0 {
		t.Errorf("positions length %d is not a multiple of 3", len(m.Positions))
	}
	for i, idx := range m.PositionIndices {
		if int(idx) >= m.VertexCount() {
			t.Errorf("position index %d = %d out of range", i, idx)
		}
	}
	for i, idx := range m.NormalIndices {
		if int(idx) >= m.NormalCount() {
			t.Errorf("normal index %d = %d out of range", i, idx)
		}
	}

	// First face is "1//1 2//2 3//3".
	want := []uint32{0, 1, 2}
	for i, w := range want {
		if m.PositionIndices[i] != w {
			t.Errorf("PositionIndices[%d] = %d, want %d", i, m.PositionIndices[i], w)
		}
	}
}

func TestParseOBJ_SkipsUnknownTags(t *testing.T) {
	src := `# comment
mtllib cube.mtl
o thing
g group
usemtl red
vt 0.5 0.5
s 1
` + triangleOBJ

	m, err := ParseOBJ(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}
	if m.VertexCount() != 3 || m.NormalCount() != 1 || m.TriangleCount() != 1 {
		t.Errorf("got %d positions, %d normals, %d triangles; want 3, 1, 1",
			m.VertexCount(), m.NormalCount(), m.TriangleCount())
	}
}

func TestParseOBJ_PositionWeightIgnored(t *testing.T) {
	src := "v 1 2 3 1.0\nvn 0 0 1\nv 0 0 0\nv 1 1 1\nf 1//1 2//1 3//1\n"
	m, err := ParseOBJ(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}
	if m.Positions[0] != 1 || m.Positions[1] != 2 || m.Positions[2] != 3 {
		t.Errorf("first position = %v, want [1 2 3]", m.Positions[:3])
	}
}

func TestParseOBJ_Errors(t *testing.T) {
	base := "v 0 0 0\nv 1 0 0\nv 0 1 0\nv 1 1 0\nvn 0 0 1\n"

	tests := []struct {
		name     string
		src      string
		wantErr  error
		wantLine int
	}{
		{"quad face", base + "f 1//1 2//1 3//1 4//1\n", ErrFaceArity, 6},
		{"two vertex face", base + "f 1//1 2//1\n", ErrFaceArity, 6},
		{"empty face", base + "f\n", ErrFaceArity, 6},
		{"missing normal", base + "f 1// 2//1 3//1\n", ErrFaceVertex, 6},
		{"missing position", base + "f //1 2//1 3//1\n", ErrFaceVertex, 6},
		{"position only", base + "f 1 2 3\n", ErrFaceVertex, 6},
		{"with texcoord", base + "f 1/1/1 2/1/1 3/1/1\n", ErrFaceVertex, 6},
		{"negative index", base + "f -1//1 2//1 3//1\n", ErrFaceVertex, 6},
		{"not a number", base + "f a//1 2//1 3//1\n", ErrFaceVertex, 6},
		{"zero index", base + "f 0//1 2//1 3//1\n", ErrIndexRange, 6},
		{"position out of range", base + "f 1//1 2//1 9//1\n", ErrIndexRange, 6},
		{"normal out of range", base + "f 1//1 2//2 3//1\n", ErrIndexRange, 6},
		{"short vertex", "v 1 2\n", ErrBadVector, 1},
		{"bad float", "v 1 2 x\n", ErrBadVector, 1},
		{"long normal", "vn 0 0 1 0\n", ErrBadVector, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParseOBJ(strings.NewReader(tt.src))
			if err == nil {
				t.Fatalf("expected error, got mesh %+v", m)
			}
			if m != nil {
				t.Errorf("expected nil mesh on error, got %+v", m)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected *ParseError, got %T", err)
			}
			if pe.Line != tt.wantLine {
				t.Errorf("expected line %d, got %d", tt.wantLine, pe.Line)
			}
		})
	}
}

func TestParseOBJFile_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.obj")
	_, err := ParseOBJFile(path)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if pe.Path != path {
		t.Errorf("expected path %s, got %s", path, pe.Path)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist in chain, got %v", err)
	}
}

func TestParseOBJFile_ErrorCarriesPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.obj")
	if err := os.WriteFile(path, []byte("v 0 0 0\nf 1//1 1//1\n"), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	_, err := ParseOBJFile(path)
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if pe.Path != path || pe.Line != 2 {
		t.Errorf("got %s:%d, want %s:2", pe.Path, pe.Line, path)
	}
	if !strings.Contains(err.Error(), "bad.obj:2") {
		t.Errorf("error message %q lacks location", err.Error())
	}
}

func TestRecords_Order(t *testing.T) {
	var kinds []RecordKind
	for rec, err := range Records(strings.NewReader(triangleOBJ)) {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		kinds = append(kinds, rec.Kind)
	}

	want := []RecordKind{RecordPosition, RecordPosition, RecordPosition, RecordNormal, RecordFace}
	if len(kinds) != len(want) {
		t.Fatalf("got %d records, want %d", len(kinds), len(want))
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("record %d: got %s, want %s", i, kinds[i], want[i])
		}
	}
}

func TestRecords_StopsEarly(t *testing.T) {
	count := 0
	for range Records(strings.NewReader(triangleOBJ)) {
		count++
		if count == 2 {
			break
		}
	}
	if count != 2 {
		t.Errorf("expected to stop after 2 records, got %d", count)
	}
}

func TestRecords_FaceIndicesAsWritten(t *testing.T) {
	for rec, err := range Records(strings.NewReader("f 3//7 2//8 1//9\n")) {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := [3]FaceVertex{{3, 7}, {2, 8}, {1, 9}}
		if rec.Face != want {
			t.Errorf("face = %v, want %v", rec.Face, want)
		}
		if rec.Line != 1 {
			t.Errorf("line = %d, want 1", rec.Line)
		}
	}
}

func TestMesh_Bounds(t *testing.T) {
	m, err := ParseOBJFile(filepath.Join("testdata", "cube.obj"))
	if err != nil {
		t.Fatalf("ParseOBJFile failed: %v", err)
	}

	lo, hi := m.Bounds()
	for a := 0; a < 3; a++ {
		if lo[a] != -1 || hi[a] != 1 {
			t.Errorf("axis %d bounds = [%f, %f], want [-1, 1]", a, lo[a], hi[a])
		}
	}

	// Half of the diagonal of a 2x2x2 box is sqrt(3).
	if r := m.Radius(); r < 1.7320 || r > 1.7321 {
		t.Errorf("Radius() = %f, want ~1.73205", r)
	}

	empty := &Mesh{}
	if r := empty.Radius(); r != 0 {
		t.Errorf("empty Radius() = %f, want 0", r)
	}
}

func TestRecordKind_String(t *testing.T) {
	tests := []struct {
		kind RecordKind
		want string
	}{
		{RecordPosition, "v"},
		{RecordNormal, "vn"},
		{RecordFace, "f"},
		{RecordKind(99), "Unknown(99)"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
