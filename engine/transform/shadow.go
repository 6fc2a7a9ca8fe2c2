package transform

import (
	"github.com/Carmen-Shannon/oxy-shade/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Default orthographic volume for a sun shadow caster.
const (
	DefaultShadowHalfExtent float32 = 8
	DefaultShadowNear       float32 = 0.1
	DefaultShadowFar        float32 = 16
)

// ShadowCaster describes the orthographic volume a sun light renders its shadow map over.
type ShadowCaster struct {
	Center     mgl32.Vec3
	HalfExtent float32
	Near       float32
	Far        float32
}

// DefaultShadowCaster returns a caster centered on the origin with the default volume.
func DefaultShadowCaster() ShadowCaster {
	return ShadowCaster{
		HalfExtent: DefaultShadowHalfExtent,
		Near:       DefaultShadowNear,
		Far:        DefaultShadowFar,
	}
}

// Matrix builds the caster's combined projection * view for a sun whose direction
// toward the light is toSun. The eye sits half the far distance back along toSun
// so the whole volume straddles the center.
//
// Parameters:
//   - toSun: direction from the scene toward the sun; need not be normalized
//
// Returns:
//   - mgl32.Mat4: world to shadow clip space, depth in [0, 1]
func (c ShadowCaster) Matrix(toSun mgl32.Vec3) mgl32.Mat4 {
	dir := toSun
	if dir.Len() == 0 {
		dir = mgl32.Vec3{0, 1, 0}
	}
	dir = dir.Normalize()
	eye := c.Center.Add(dir.Mul(c.Far * 0.5))

	// a stable up vector that is not parallel to the light direction
	up := mgl32.Vec3{0, 1, 0}
	if abs32(dir[1]) > 0.99 {
		up = mgl32.Vec3{1, 0, 0}
	}

	view := mgl32.LookAtV(eye, c.Center, up)
	h := c.HalfExtent
	proj := common.DepthZeroToOne.Mul4(mgl32.Ortho(-h, h, -h, h, c.Near, c.Far))
	return proj.Mul4(view)
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
