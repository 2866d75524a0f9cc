// Package camera provides the viewer's Euler-angle camera model.
package camera

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera invariant errors.
var (
	ErrNearPlane   = errors.New("near plane must be positive")
	ErrClipRange   = errors.New("near plane must be closer than far plane")
	ErrAspectRatio = errors.New("aspect ratio must be positive")
)

// Pose is the extrinsic part of the camera: where it is and how it is turned.
type Pose struct {
	Position mgl32.Vec3
	Rotation mgl32.Vec3 // Euler angles in radians, applied X then Y then Z
}

// DefaultPose places the camera 10 units back along +Z, looking at the origin.
func DefaultPose() Pose {
	return Pose{Position: mgl32.Vec3{0, 0, 10}}
}

// Camera holds the camera placement and its projection parameters.
// Setters do not validate; call Validate after changing the clip planes.
type Camera struct {
	position mgl32.Vec3
	rotation mgl32.Vec3

	fov         float32 // Vertical field of view, degrees
	aspectRatio float32 // Width / height of the image
	near        float32 // Distance before which geometry is clipped
	far         float32 // Distance after which geometry is clipped

	home Pose
}

// New creates a camera at the default pose: 45° field of view, aspect 1,
// clip planes at 0.1 and 1000.
func New() *Camera {
	c := &Camera{
		fov:         45,
		aspectRatio: 1,
		near:        0.1,
		far:         1000,
		home:        DefaultPose(),
	}
	c.Reset()
	return c
}

// Position returns the camera position in world space.
func (c *Camera) Position() mgl32.Vec3 { return c.position }

// SetPosition moves the camera.
func (c *Camera) SetPosition(p mgl32.Vec3) { c.position = p }

// Rotation returns the Euler angles (radians).
func (c *Camera) Rotation() mgl32.Vec3 { return c.rotation }

// SetRotation sets the Euler angles (radians).
func (c *Camera) SetRotation(r mgl32.Vec3) { c.rotation = r }

// FOV returns the vertical field of view in degrees.
func (c *Camera) FOV() float32 { return c.fov }

// SetFOV sets the vertical field of view in degrees.
func (c *Camera) SetFOV(deg float32) { c.fov = deg }

// AspectRatio returns width / height.
func (c *Camera) AspectRatio() float32 { return c.aspectRatio }

// SetAspectRatio sets width / height.
func (c *Camera) SetAspectRatio(a float32) { c.aspectRatio = a }

// Near returns the near clip distance.
func (c *Camera) Near() float32 { return c.near }

// SetNear sets the near clip distance.
func (c *Camera) SetNear(n float32) { c.near = n }

// Far returns the far clip distance.
func (c *Camera) Far() float32 { return c.far }

// SetFar sets the far clip distance.
func (c *Camera) SetFar(f float32) { c.far = f }

// SetHome sets the pose Reset returns to.
func (c *Camera) SetHome(p Pose) { c.home = p }

// Reset moves the camera back to its home pose.
func (c *Camera) Reset() {
	c.position = c.home.Position
	c.rotation = c.home.Rotation
}

// Resize updates the aspect ratio from a framebuffer size.
// A zero-height (minimised) window leaves it unchanged.
func (c *Camera) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.aspectRatio = float32(width) / float32(height)
}

// Validate checks near > 0, near < far and aspect > 0.
func (c *Camera) Validate() error {
	if c.near <= 0 {
		return fmt.Errorf("%w: %g", ErrNearPlane, c.near)
	}
	if c.near >= c.far {
		return fmt.Errorf("%w: near %g, far %g", ErrClipRange, c.near, c.far)
	}
	if c.aspectRatio <= 0 {
		return fmt.Errorf("%w: %g", ErrAspectRatio, c.aspectRatio)
	}
	return nil
}

// Transform returns the camera's own model transform: rotations about its
// local X, Y and Z axes, then the translation.
func (c *Camera) Transform() mgl32.Mat4 {
	rot := mgl32.HomogRotate3DX(c.rotation[0]).
		Mul4(mgl32.HomogRotate3DY(c.rotation[1])).
		Mul4(mgl32.HomogRotate3DZ(c.rotation[2]))
	trn := mgl32.Translate3D(c.position[0], c.position[1], c.position[2])
	return rot.Mul4(trn)
}

// ViewMatrix returns the world-to-camera transform, the inverse of Transform.
func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return c.Transform().Inv()
}

// ProjectionMatrix returns the perspective projection for the intrinsics.
func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.fov), c.aspectRatio, c.near, c.far)
}
