// Package gputest provides a recording gpu.Device for tests that cannot
// open a GL context.
package gputest

import (
	"fmt"
	"slices"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/meshview/internal/engine/gpu"
	"github.com/Faultbox/meshview/internal/engine/shader"
)

// Call is one recorded Device method call.
type Call struct {
	Method string
	Args   []any
}

func (c Call) String() string {
	return fmt.Sprintf("%s%v", c.Method, c.Args)
}

// Device records every call and hands out increasing handles.
// Set Fail to make a create method return an error.
type Device struct {
	Calls []Call

	// Fail maps a create method name ("CreateBuffer", "CreateVertexArray",
	// "CreateProgram", "CreateTexture1D") to the 1-based call number that
	// fails. Zero fails nothing.
	Fail map[string]int

	// Buffers holds the last data written to each live buffer.
	Buffers map[uint32][]float32
	Indices map[uint32][]uint32

	// Pixels is returned by ReadPixels when it has the requested size.
	Pixels []byte

	// DoubleFrees counts deletes of handles that were not live.
	DoubleFrees int

	next    uint32
	live    map[uint32]string
	created map[string]int
	uniform map[string]int32
}

var _ gpu.Device = (*Device)(nil)

// New returns an empty recording device.
func New() *Device {
	return &Device{
		Fail:    map[string]int{},
		Buffers: map[uint32][]float32{},
		Indices: map[uint32][]uint32{},
		live:    map[uint32]string{},
		created: map[string]int{},
		uniform: map[string]int32{},
	}
}

func (d *Device) record(method string, args ...any) {
	d.Calls = append(d.Calls, Call{Method: method, Args: args})
}

func (d *Device) create(method, kind string) (uint32, error) {
	d.created[method]++
	if n := d.Fail[method]; n > 0 && d.created[method] == n {
		d.record(method, "failed")
		return 0, fmt.Errorf("gputest: %s #%d failed", method, n)
	}
	d.next++
	d.live[d.next] = kind
	return d.next, nil
}

func (d *Device) destroy(method string, h uint32) {
	d.record(method, h)
	if h == 0 {
		return
	}
	if _, ok := d.live[h]; !ok {
		d.DoubleFrees++
		return
	}
	delete(d.live, h)
	delete(d.Buffers, h)
	delete(d.Indices, h)
}

// Live returns the number of handles created and not yet deleted.
func (d *Device) Live() int {
	return len(d.live)
}

// Count returns how many times method was called.
func (d *Device) Count(method string) int {
	n := 0
	for _, c := range d.Calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

// Last returns the most recent call of method.
func (d *Device) Last(method string) (Call, bool) {
	for i := len(d.Calls) - 1; i >= 0; i-- {
		if d.Calls[i].Method == method {
			return d.Calls[i], true
		}
	}
	return Call{}, false
}

// Methods returns the recorded method names in call order.
func (d *Device) Methods() []string {
	out := make([]string, len(d.Calls))
	for i, c := range d.Calls {
		out[i] = c.Method
	}
	return out
}

// Reset forgets the recorded calls but keeps live handles.
func (d *Device) Reset() {
	d.Calls = nil
}

func (d *Device) CreateBuffer(size int) (uint32, error) {
	h, err := d.create("CreateBuffer", "buffer")
	if err != nil {
		return 0, err
	}
	d.record("CreateBuffer", size)
	return h, nil
}

func (d *Device) WriteFloats(buffer uint32, data []float32) {
	d.record("WriteFloats", buffer, len(data))
	d.Buffers[buffer] = slices.Clone(data)
}

func (d *Device) WriteIndices(buffer uint32, data []uint32) {
	d.record("WriteIndices", buffer, len(data))
	d.Indices[buffer] = slices.Clone(data)
}

func (d *Device) DeleteBuffer(buffer uint32) { d.destroy("DeleteBuffer", buffer) }

func (d *Device) CreateVertexArray() (uint32, error) {
	h, err := d.create("CreateVertexArray", "vertex array")
	if err != nil {
		return 0, err
	}
	d.record("CreateVertexArray")
	return h, nil
}

func (d *Device) VertexAttrib(vao, slot, buffer uint32, components int32) {
	d.record("VertexAttrib", vao, slot, buffer, components)
}

func (d *Device) ElementSource(vao, buffer uint32) {
	d.record("ElementSource", vao, buffer)
}

func (d *Device) BindVertexArray(vao uint32) { d.record("BindVertexArray", vao) }

func (d *Device) DeleteVertexArray(vao uint32) { d.destroy("DeleteVertexArray", vao) }

func (d *Device) CreateProgram(stages []shader.Stage) (uint32, error) {
	h, err := d.create("CreateProgram", "program")
	if err != nil {
		return 0, err
	}
	names := make([]string, len(stages))
	for i, s := range stages {
		names[i] = s.Name
	}
	d.record("CreateProgram", names)
	return h, nil
}

func (d *Device) UseProgram(program uint32) { d.record("UseProgram", program) }

// UniformLocation hands out a stable location per name.
func (d *Device) UniformLocation(program uint32, name string) int32 {
	loc, ok := d.uniform[name]
	if !ok {
		loc = int32(len(d.uniform))
		d.uniform[name] = loc
	}
	d.record("UniformLocation", program, name)
	return loc
}

func (d *Device) UniformMat4(location int32, m mgl32.Mat4) {
	d.record("UniformMat4", location, m)
}

func (d *Device) Uniform1i(location int32, v int32) { d.record("Uniform1i", location, v) }

func (d *Device) DeleteProgram(program uint32) { d.destroy("DeleteProgram", program) }

func (d *Device) CreateTexture1D(data []float32) (uint32, error) {
	h, err := d.create("CreateTexture1D", "texture")
	if err != nil {
		return 0, err
	}
	d.record("CreateTexture1D", len(data))
	d.Buffers[h] = slices.Clone(data)
	return h, nil
}

func (d *Device) BindTexture1D(unit, texture uint32) { d.record("BindTexture1D", unit, texture) }

func (d *Device) DeleteTexture(texture uint32) { d.destroy("DeleteTexture", texture) }

func (d *Device) Enable(c gpu.Capability) { d.record("Enable", c) }

func (d *Device) ClearColor(c [4]float32) { d.record("ClearColor", c) }

func (d *Device) Clear() { d.record("Clear") }

func (d *Device) Viewport(width, height int) { d.record("Viewport", width, height) }

func (d *Device) PolygonMode(mode gpu.PolygonMode) { d.record("PolygonMode", mode) }

func (d *Device) PatchVertices(n int32) { d.record("PatchVertices", n) }

func (d *Device) DrawElements(mode gpu.Primitive, count int32) {
	d.record("DrawElements", mode, count)
}

func (d *Device) ReadPixels(width, height int) []byte {
	d.record("ReadPixels", width, height)
	if len(d.Pixels) == width*height*4 {
		return slices.Clone(d.Pixels)
	}
	return make([]byte, width*height*4)
}

// UniformLoc returns the location handed out for name, or -1.
func (d *Device) UniformLoc(name string) int32 {
	if loc, ok := d.uniform[name]; ok {
		return loc
	}
	return -1
}
