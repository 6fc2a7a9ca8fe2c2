package common

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// PaddedMat3 is a 3x3 matrix laid out as three columns, each padded to 16 bytes.
// This is how a mat3x3<f32> sits in a uniform buffer.
type PaddedMat3 [12]float32

// PadMat3 expands a column-major mgl32.Mat3 into its padded GPU form.
//
// Parameters:
//   - m: the source matrix
//
// Returns:
//   - PaddedMat3: the matrix with a zero fourth component per column
func PadMat3(m mgl32.Mat3) PaddedMat3 {
	var p PaddedMat3
	for c := range 3 {
		copy(p[c*4:c*4+3], m[c*3:c*3+3])
	}
	return p
}

// Mat3 collapses a padded matrix back into an mgl32.Mat3, dropping the padding lanes.
//
// Returns:
//   - mgl32.Mat3: the unpadded matrix
func (p PaddedMat3) Mat3() mgl32.Mat3 {
	var m mgl32.Mat3
	for c := range 3 {
		copy(m[c*3:c*3+3], p[c*4:c*4+3])
	}
	return m
}

// PutFloat32 writes a little-endian float at off.
func PutFloat32(buf []byte, off int, v float32) {
	binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(v))
}

// PutUint32 writes a little-endian unsigned integer at off.
func PutUint32(buf []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(buf[off:off+4], v)
}

// PutVec3 writes a vec3 into a 16-byte slot at off. The fourth lane is zeroed.
//
// Parameters:
//   - buf: destination buffer
//   - off: byte offset of the slot
//   - v: the vector to write
func PutVec3(buf []byte, off int, v mgl32.Vec3) {
	for i := range 3 {
		PutFloat32(buf, off+i*4, v[i])
	}
	PutUint32(buf, off+12, 0)
}

// PutMat4 writes a column-major 4x4 matrix (64 bytes) at off.
func PutMat4(buf []byte, off int, m mgl32.Mat4) {
	for i := range 16 {
		PutFloat32(buf, off+i*4, m[i])
	}
}

// PutPaddedMat3 writes a padded 3x3 matrix (48 bytes) at off.
func PutPaddedMat3(buf []byte, off int, m PaddedMat3) {
	for i := range 12 {
		PutFloat32(buf, off+i*4, m[i])
	}
}

// Float32At reads a little-endian float at off.
func Float32At(buf []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[off : off+4]))
}

// Uint32At reads a little-endian unsigned integer at off.
func Uint32At(buf []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(buf[off : off+4])
}

// Vec3At reads the first three lanes of a 16-byte vec3 slot at off.
func Vec3At(buf []byte, off int) mgl32.Vec3 {
	return mgl32.Vec3{Float32At(buf, off), Float32At(buf, off+4), Float32At(buf, off+8)}
}

// Mat4At reads a column-major 4x4 matrix at off.
func Mat4At(buf []byte, off int) mgl32.Mat4 {
	var m mgl32.Mat4
	for i := range 16 {
		m[i] = Float32At(buf, off+i*4)
	}
	return m
}

// PaddedMat3At reads a padded 3x3 matrix at off.
func PaddedMat3At(buf []byte, off int) PaddedMat3 {
	var m PaddedMat3
	for i := range 12 {
		m[i] = Float32At(buf, off+i*4)
	}
	return m
}

// DepthZeroToOne remaps OpenGL clip depth [-1, 1] into the [0, 1] range WebGPU and
// Metal expect. Left-multiply an mgl32 projection by it.
var DepthZeroToOne = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}
