package transform

import (
	_ "embed"
	"fmt"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-shade/common"
	"github.com/go-gl/mathgl/mgl32"
)

// GPUUniformsSource is the canonical WGSL definition of the Uniforms struct.
// Matches GPUUniforms layout exactly (240 bytes).
//
//go:embed assets/uniforms.wgsl
var GPUUniformsSource string

// GPUShadowedUniformsSource is the canonical WGSL definition of the ShadowedUniforms struct.
// Matches GPUShadowedUniforms layout exactly (304 bytes).
//
//go:embed assets/shadowed_uniforms.wgsl
var GPUShadowedUniformsSource string

// GPUUniforms is the per-draw transform block bound at the Uniforms slot.
// All matrices are column-major. Size: 240 bytes.
type GPUUniforms struct {
	ModelMatrix      mgl32.Mat4        // offset   0: object to world
	ViewMatrix       mgl32.Mat4        // offset  64: world to camera
	ProjectionMatrix mgl32.Mat4        // offset 128: camera to clip, depth in [0, 1]
	NormalMatrix     common.PaddedMat3 // offset 192: inverse-transpose of the model's upper-left 3x3, columns padded to 16 bytes
}

// Size returns the size of the GPUUniforms struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (240)
func (u *GPUUniforms) Size() int {
	return int(unsafe.Sizeof(*u))
}

// Marshal serializes the uniforms into a 240-byte little-endian buffer.
//
// Returns:
//   - []byte: buffer ready for GPU upload
func (u *GPUUniforms) Marshal() []byte {
	buf := make([]byte, u.Size())
	u.put(buf)
	return buf
}

func (u *GPUUniforms) put(buf []byte) {
	common.PutMat4(buf, 0, u.ModelMatrix)
	common.PutMat4(buf, 64, u.ViewMatrix)
	common.PutMat4(buf, 128, u.ProjectionMatrix)
	common.PutPaddedMat3(buf, 192, u.NormalMatrix)
}

// UnmarshalUniforms reads a GPUUniforms block back out of a buffer.
//
// Parameters:
//   - buf: at least 240 bytes
//
// Returns:
//   - GPUUniforms: the decoded block
//   - error: non-nil if buf is too short
func UnmarshalUniforms(buf []byte) (GPUUniforms, error) {
	var u GPUUniforms
	if len(buf) < u.Size() {
		return u, fmt.Errorf("uniforms buffer is %d bytes, need %d", len(buf), u.Size())
	}
	u.ModelMatrix = common.Mat4At(buf, 0)
	u.ViewMatrix = common.Mat4At(buf, 64)
	u.ProjectionMatrix = common.Mat4At(buf, 128)
	u.NormalMatrix = common.PaddedMat3At(buf, 192)
	return u, nil
}

// GPUShadowedUniforms extends GPUUniforms with the shadow caster's view-projection,
// for pipelines that sample a shadow map. Size: 304 bytes.
type GPUShadowedUniforms struct {
	GPUUniforms             // offset   0: 240 bytes
	ShadowMatrix mgl32.Mat4 // offset 240: world to shadow clip space
}

// Size returns the size of the GPUShadowedUniforms struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (304)
func (u *GPUShadowedUniforms) Size() int {
	return int(unsafe.Sizeof(*u))
}

// Marshal serializes the uniforms into a 304-byte little-endian buffer.
//
// Returns:
//   - []byte: buffer ready for GPU upload
func (u *GPUShadowedUniforms) Marshal() []byte {
	buf := make([]byte, u.Size())
	u.GPUUniforms.put(buf)
	common.PutMat4(buf, 240, u.ShadowMatrix)
	return buf
}

// UnmarshalShadowedUniforms reads a GPUShadowedUniforms block back out of a buffer.
//
// Parameters:
//   - buf: at least 304 bytes
//
// Returns:
//   - GPUShadowedUniforms: the decoded block
//   - error: non-nil if buf is too short
func UnmarshalShadowedUniforms(buf []byte) (GPUShadowedUniforms, error) {
	var u GPUShadowedUniforms
	if len(buf) < u.Size() {
		return u, fmt.Errorf("shadowed uniforms buffer is %d bytes, need %d", len(buf), u.Size())
	}
	base, _ := UnmarshalUniforms(buf)
	u.GPUUniforms = base
	u.ShadowMatrix = common.Mat4At(buf, 240)
	return u, nil
}
