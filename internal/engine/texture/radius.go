// Package texture builds the lookup textures sampled by the mesh shaders.
package texture

import (
	"fmt"
	"math/rand/v2"

	"github.com/Faultbox/meshview/internal/engine/gpu"
)

// DefaultRadiusSamples is the width of the fiber radius lookup table.
const DefaultRadiusSamples = 64

// RadiusTable returns n radius factors drawn uniformly from [0, 1).
func RadiusTable(rng *rand.Rand, n int) []float32 {
	if n <= 0 {
		return nil
	}
	values := make([]float32, n)
	for i := range values {
		values[i] = rng.Float32()
	}
	return values
}

// NewRadiusRNG returns the generator used for a seeded radius table.
func NewRadiusRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), 0x9e3779b97f4a7c15))
}

// Radius is the radius lookup texture bound to sampler unit 0.
type Radius struct {
	dev     gpu.Device
	Handle  uint32
	Samples int
}

// UploadRadius builds a seeded table of n samples and uploads it as a
// single channel float texture.
func UploadRadius(dev gpu.Device, seed int64, n int) (*Radius, error) {
	values := RadiusTable(NewRadiusRNG(seed), n)
	if len(values) == 0 {
		return nil, fmt.Errorf("radius table needs at least one sample, got %d", n)
	}
	h, err := dev.CreateTexture1D(values)
	if err != nil {
		return nil, &gpu.AllocError{Resource: "radius texture", Err: err}
	}
	return &Radius{dev: dev, Handle: h, Samples: n}, nil
}

// Bind binds the texture to unit.
func (r *Radius) Bind(unit uint32) {
	r.dev.BindTexture1D(unit, r.Handle)
}

// Release deletes the texture. Calling it again is a no-op.
func (r *Radius) Release() {
	if r == nil || r.dev == nil {
		return
	}
	r.dev.DeleteTexture(r.Handle)
	r.Handle = 0
	r.dev = nil
}
