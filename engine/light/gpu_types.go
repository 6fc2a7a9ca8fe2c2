package light

import (
	_ "embed"
	"errors"
	"fmt"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-shade/common"
	"github.com/go-gl/mathgl/mgl32"
)

// GPULightSize is the size and array stride of one GPU light record.
const GPULightSize = 128

// ErrUnusedSlot is returned when decoding a record tagged LightTypeUnused.
var ErrUnusedSlot = errors.New("unused light slot")

// GPULightSource is the canonical WGSL definition of the Light struct.
// Matches GPULight layout exactly (128 bytes).
//
//go:embed assets/light.wgsl
var GPULightSource string

// GPULight is the GPU-aligned representation of a single light source.
// Every vec3 occupies a 16-byte slot. Matches the WGSL Light struct layout exactly
// (see GPULightSource).
// Size: 128 bytes.
type GPULight struct {
	Position        mgl32.Vec3 // offset   0: world position (point/spot) or direction toward the light (sun)
	_               float32    // offset  12
	Color           mgl32.Vec3 // offset  16: RGB color
	_               float32    // offset  28
	SpecularColor   mgl32.Vec3 // offset  32: RGB color of highlights
	_               float32    // offset  44
	Intensity       float32    // offset  48: scalar multiplier
	_               [3]float32 // offset  52
	Attenuation     mgl32.Vec3 // offset  64: constant, linear, quadratic falloff
	_               float32    // offset  76
	LightType       uint32     // offset  80: LightType tag
	ConeAngle       float32    // offset  84: cone half-angle in radians (spot)
	_               [2]float32 // offset  88
	ConeDirection   mgl32.Vec3 // offset  96: unit cone axis (spot)
	_               float32    // offset 108
	ConeAttenuation float32    // offset 112: angular falloff exponent (spot)
	_               [3]float32 // offset 116: padding to 128 bytes
}

// Size returns the size of the GPULight struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (128)
func (g *GPULight) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPULight struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 128-byte buffer ready for GPU upload
func (g *GPULight) Marshal() []byte {
	buf := make([]byte, GPULightSize)
	g.put(buf)
	return buf
}

// put writes the record into buf[0:128], zeroing all padding.
func (g *GPULight) put(buf []byte) {
	common.PutVec3(buf, 0, g.Position)
	common.PutVec3(buf, 16, g.Color)
	common.PutVec3(buf, 32, g.SpecularColor)
	common.PutFloat32(buf, 48, g.Intensity)
	for off := 52; off < 64; off += 4 {
		common.PutUint32(buf, off, 0)
	}
	common.PutVec3(buf, 64, g.Attenuation)
	common.PutUint32(buf, 80, g.LightType)
	common.PutFloat32(buf, 84, g.ConeAngle)
	common.PutUint32(buf, 88, 0)
	common.PutUint32(buf, 92, 0)
	common.PutVec3(buf, 96, g.ConeDirection)
	common.PutFloat32(buf, 112, g.ConeAttenuation)
	for off := 116; off < GPULightSize; off += 4 {
		common.PutUint32(buf, off, 0)
	}
}

// UnmarshalGPULight reads one light record from buf[0:128].
//
// Parameters:
//   - buf: at least 128 bytes
//
// Returns:
//   - GPULight: the record
//   - error: non-nil if buf is too short
func UnmarshalGPULight(buf []byte) (GPULight, error) {
	if len(buf) < GPULightSize {
		return GPULight{}, fmt.Errorf("light record is %d bytes, need %d", len(buf), GPULightSize)
	}
	return GPULight{
		Position:        common.Vec3At(buf, 0),
		Color:           common.Vec3At(buf, 16),
		SpecularColor:   common.Vec3At(buf, 32),
		Intensity:       common.Float32At(buf, 48),
		Attenuation:     common.Vec3At(buf, 64),
		LightType:       common.Uint32At(buf, 80),
		ConeAngle:       common.Float32At(buf, 84),
		ConeDirection:   common.Vec3At(buf, 96),
		ConeAttenuation: common.Float32At(buf, 112),
	}, nil
}

// Type returns the record's tag.
func (g *GPULight) Type() LightType {
	return LightType(g.LightType)
}

// Decode rebuilds the typed light the record was written from. Fields that do not
// belong to the tagged kind are ignored.
//
// Returns:
//   - Light: the typed light
//   - error: ErrUnusedSlot for a tombstone, or an error naming an unknown tag
func (g *GPULight) Decode() (Light, error) {
	e := Emitter{Color: g.Color, SpecularColor: g.SpecularColor, Intensity: g.Intensity}
	switch g.Type() {
	case LightTypeUnused:
		return nil, ErrUnusedSlot
	case Sunlight:
		return Sun{Emitter: e, ToLight: g.Position}, nil
	case Pointlight:
		return Point{Emitter: e, Position: g.Position, Attenuation: g.Attenuation}, nil
	case Spotlight:
		return Spot{
			Emitter:         e,
			Position:        g.Position,
			Attenuation:     g.Attenuation,
			ConeDirection:   g.ConeDirection,
			ConeAngle:       g.ConeAngle,
			ConeAttenuation: g.ConeAttenuation,
		}, nil
	case Ambientlight:
		return Ambient{Emitter: e}, nil
	}
	return nil, fmt.Errorf("unknown light tag %d", g.LightType)
}

// ToGPULight converts a Light into the GPU-aligned record. Cone fields are zero for
// every kind but Spot.
//
// Parameters:
//   - l: the Light to convert
//
// Returns:
//   - GPULight: the GPU-aligned representation
func ToGPULight(l Light) GPULight {
	return l.gpuLight()
}

// GPUFragmentUniformsSource is the canonical WGSL definition of the FragmentUniforms struct.
// Matches GPUFragmentUniforms layout exactly (32 bytes).
//
//go:embed assets/fragment_uniforms.wgsl
var GPUFragmentUniformsSource string

// GPUFragmentUniforms is the per-frame fragment block bound at the FragmentUniforms slot.
// LightCount is authoritative: light records at or beyond it are never read.
// Size: 32 bytes.
type GPUFragmentUniforms struct {
	LightCount     uint32     // offset  0: number of live records in the light array
	_              [3]uint32  // offset  4
	CameraPosition mgl32.Vec3 // offset 16: world-space eye position
	_              float32    // offset 28
}

// Size returns the size of the GPUFragmentUniforms struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (32)
func (u *GPUFragmentUniforms) Size() int {
	return int(unsafe.Sizeof(*u))
}

// Marshal serializes the fragment uniforms into a 32-byte little-endian buffer.
//
// Returns:
//   - []byte: buffer ready for GPU upload
func (u *GPUFragmentUniforms) Marshal() []byte {
	buf := make([]byte, u.Size())
	common.PutUint32(buf, 0, u.LightCount)
	common.PutVec3(buf, 16, u.CameraPosition)
	return buf
}

// UnmarshalFragmentUniforms reads a GPUFragmentUniforms block from buf.
//
// Parameters:
//   - buf: at least 32 bytes
//
// Returns:
//   - GPUFragmentUniforms: the decoded block
//   - error: non-nil if buf is too short
func UnmarshalFragmentUniforms(buf []byte) (GPUFragmentUniforms, error) {
	var u GPUFragmentUniforms
	if len(buf) < u.Size() {
		return u, fmt.Errorf("fragment uniforms buffer is %d bytes, need %d", len(buf), u.Size())
	}
	u.LightCount = common.Uint32At(buf, 0)
	u.CameraPosition = common.Vec3At(buf, 16)
	return u, nil
}

// GPUTiledFragmentUniformsSource is the canonical WGSL definition of the TiledFragmentUniforms struct.
// Matches GPUTiledFragmentUniforms layout exactly (48 bytes).
//
//go:embed assets/tiled_fragment_uniforms.wgsl
var GPUTiledFragmentUniformsSource string

// GPUTiledFragmentUniforms is the fragment block for pipelines that tile texture
// coordinates. Size: 48 bytes.
type GPUTiledFragmentUniforms struct {
	LightCount     uint32     // offset  0: number of live records in the light array
	_              [3]uint32  // offset  4
	CameraPosition mgl32.Vec3 // offset 16: world-space eye position
	_              float32    // offset 28
	Tiling         uint32     // offset 32: texture coordinate repeat count
	_              [3]uint32  // offset 36: padding to 48 bytes
}

// Size returns the size of the GPUTiledFragmentUniforms struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (48)
func (u *GPUTiledFragmentUniforms) Size() int {
	return int(unsafe.Sizeof(*u))
}

// Marshal serializes the tiled fragment uniforms into a 48-byte little-endian buffer.
//
// Returns:
//   - []byte: buffer ready for GPU upload
func (u *GPUTiledFragmentUniforms) Marshal() []byte {
	buf := make([]byte, u.Size())
	common.PutUint32(buf, 0, u.LightCount)
	common.PutVec3(buf, 16, u.CameraPosition)
	common.PutUint32(buf, 32, u.Tiling)
	return buf
}

// UnmarshalTiledFragmentUniforms reads a GPUTiledFragmentUniforms block from buf.
//
// Parameters:
//   - buf: at least 48 bytes
//
// Returns:
//   - GPUTiledFragmentUniforms: the decoded block
//   - error: non-nil if buf is too short
func UnmarshalTiledFragmentUniforms(buf []byte) (GPUTiledFragmentUniforms, error) {
	var u GPUTiledFragmentUniforms
	if len(buf) < u.Size() {
		return u, fmt.Errorf("tiled fragment uniforms buffer is %d bytes, need %d", len(buf), u.Size())
	}
	u.LightCount = common.Uint32At(buf, 0)
	u.CameraPosition = common.Vec3At(buf, 16)
	u.Tiling = common.Uint32At(buf, 32)
	return u, nil
}
