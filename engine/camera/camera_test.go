package camera

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestNewCameraDefaults(t *testing.T) {
	c := NewCamera()
	assert.Equal(t, mgl32.Vec3{0, 0, 5}, c.Position())
	assert.Equal(t, mgl32.Vec3{}, c.Target())
	assert.InDelta(t, mgl32.DegToRad(70), c.Fov(), 1e-6)

	// the origin sits 5 units in front of the eye
	p := c.ViewMatrix().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.InDeltaSlice(t, []float32{0, 0, -5, 1}, p[:], 1e-5)
}

func TestProjectionDepthRange(t *testing.T) {
	c := NewCamera(WithClip(1, 10), WithAspect(2))
	proj := c.ProjectionMatrix()

	near := proj.Mul4x1(mgl32.Vec4{0, 0, -1, 1})
	far := proj.Mul4x1(mgl32.Vec4{0, 0, -10, 1})
	assert.InDelta(t, 0, near[2]/near[3], 1e-5)
	assert.InDelta(t, 1, far[2]/far[3], 1e-5)
	assert.Equal(t, float32(2), c.Aspect())
}

func TestSettersRecomputeState(t *testing.T) {
	c := NewCamera()
	c.SetPosition(mgl32.Vec3{3, 0, 0})
	s := c.State()
	assert.Equal(t, mgl32.Vec3{3, 0, 0}, s.Position)

	p := s.View.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.InDeltaSlice(t, []float32{0, 0, -3, 1}, p[:], 1e-5)

	c.SetFov(mgl32.DegToRad(90))
	assert.NotEqual(t, s.Projection, c.ProjectionMatrix())
}
