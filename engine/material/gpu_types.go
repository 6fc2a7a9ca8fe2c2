package material

import (
	_ "embed"
	"fmt"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-shade/common"
	"github.com/go-gl/mathgl/mgl32"
)

// GPUMaterial is the closed set of surface records a pipeline can bind at the
// Materials slot: GPUPBRMaterial or GPUEmissiveMaterial.
type GPUMaterial interface {
	// Schema returns the pipeline schema this record belongs to.
	//
	// Returns:
	//   - Schema: the material schema
	Schema() Schema

	// Size returns the size of the record in bytes.
	//
	// Returns:
	//   - int: the record size
	Size() int

	// Marshal serializes the record for upload.
	//
	// Returns:
	//   - []byte: the little-endian record
	Marshal() []byte

	// Shading returns the fields every consumer reads, whatever the schema.
	//
	// Returns:
	//   - Surface: the shared surface terms
	Shading() Surface

	sealed()
}

// Surface is the schema-independent view of a material that a lighting pass needs.
type Surface struct {
	BaseColor        mgl32.Vec3
	SpecularColor    mgl32.Vec3
	Shininess        float32
	AmbientOcclusion mgl32.Vec3
	EmissionColor    mgl32.Vec3
}

// GPUPBRMaterialSource is the canonical WGSL definition of the PBRMaterial struct.
// Matches GPUPBRMaterial layout exactly (80 bytes).
//
//go:embed assets/pbr_material.wgsl
var GPUPBRMaterialSource string

// GPUPBRMaterial is the GPU-aligned surface record for the PBR schema.
// Size: 80 bytes.
type GPUPBRMaterial struct {
	BaseColor        mgl32.Vec3 // offset  0: albedo
	_                float32    // offset 12
	SpecularColor    mgl32.Vec3 // offset 16: highlight tint
	_                float32    // offset 28
	Roughness        float32    // offset 32: [0, 1]
	Metallic         float32    // offset 36: [0, 1]
	_                [2]float32 // offset 40
	AmbientOcclusion mgl32.Vec3 // offset 48: per-channel ambient multiplier
	_                float32    // offset 60
	Shininess        float32    // offset 64: Phong exponent, > 0
	_                [3]float32 // offset 68: padding to 80 bytes
}

var _ GPUMaterial = &GPUPBRMaterial{}

func (*GPUPBRMaterial) sealed() {}

// Schema returns SchemaPBR.
func (*GPUPBRMaterial) Schema() Schema {
	return SchemaPBR
}

// Size returns the size of the GPUPBRMaterial struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (80)
func (g *GPUPBRMaterial) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the material into an 80-byte little-endian buffer with zeroed padding.
//
// Returns:
//   - []byte: buffer ready for upload to the Materials slot
func (g *GPUPBRMaterial) Marshal() []byte {
	buf := make([]byte, g.Size())
	common.PutVec3(buf, 0, g.BaseColor)
	common.PutVec3(buf, 16, g.SpecularColor)
	common.PutFloat32(buf, 32, g.Roughness)
	common.PutFloat32(buf, 36, g.Metallic)
	common.PutVec3(buf, 48, g.AmbientOcclusion)
	common.PutFloat32(buf, 64, g.Shininess)
	return buf
}

func (g *GPUPBRMaterial) Shading() Surface {
	return Surface{
		BaseColor:        g.BaseColor,
		SpecularColor:    g.SpecularColor,
		Shininess:        g.Shininess,
		AmbientOcclusion: g.AmbientOcclusion,
	}
}

// UnmarshalPBRMaterial reads a GPUPBRMaterial from buf.
//
// Parameters:
//   - buf: at least 80 bytes
//
// Returns:
//   - GPUPBRMaterial: the decoded record
//   - error: non-nil if buf is too short
func UnmarshalPBRMaterial(buf []byte) (GPUPBRMaterial, error) {
	var g GPUPBRMaterial
	if len(buf) < g.Size() {
		return g, fmt.Errorf("pbr material buffer is %d bytes, need %d", len(buf), g.Size())
	}
	g.BaseColor = common.Vec3At(buf, 0)
	g.SpecularColor = common.Vec3At(buf, 16)
	g.Roughness = common.Float32At(buf, 32)
	g.Metallic = common.Float32At(buf, 36)
	g.AmbientOcclusion = common.Vec3At(buf, 48)
	g.Shininess = common.Float32At(buf, 64)
	return g, nil
}

// GPUEmissiveMaterialSource is the canonical WGSL definition of the EmissiveMaterial struct.
// Matches GPUEmissiveMaterial layout exactly (64 bytes).
//
//go:embed assets/emissive_material.wgsl
var GPUEmissiveMaterialSource string

// GPUEmissiveMaterial is the GPU-aligned surface record for the emissive schema.
// Size: 64 bytes.
type GPUEmissiveMaterial struct {
	EmissionColor mgl32.Vec3 // offset  0: self-illumination added after lighting
	_             float32    // offset 12
	BaseColor     mgl32.Vec3 // offset 16: albedo
	_             float32    // offset 28
	SpecularColor mgl32.Vec3 // offset 32: highlight tint
	_             float32    // offset 44
	Shininess     float32    // offset 48: Phong exponent, > 0
	_             [3]float32 // offset 52: padding to 64 bytes
}

var _ GPUMaterial = &GPUEmissiveMaterial{}

func (*GPUEmissiveMaterial) sealed() {}

// Schema returns SchemaEmissive.
func (*GPUEmissiveMaterial) Schema() Schema {
	return SchemaEmissive
}

// Size returns the size of the GPUEmissiveMaterial struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (64)
func (g *GPUEmissiveMaterial) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the material into a 64-byte little-endian buffer with zeroed padding.
//
// Returns:
//   - []byte: buffer ready for upload to the Materials slot
func (g *GPUEmissiveMaterial) Marshal() []byte {
	buf := make([]byte, g.Size())
	common.PutVec3(buf, 0, g.EmissionColor)
	common.PutVec3(buf, 16, g.BaseColor)
	common.PutVec3(buf, 32, g.SpecularColor)
	common.PutFloat32(buf, 48, g.Shininess)
	return buf
}

// Shading reports full ambient occlusion, since the emissive schema carries none.
func (g *GPUEmissiveMaterial) Shading() Surface {
	return Surface{
		BaseColor:        g.BaseColor,
		SpecularColor:    g.SpecularColor,
		Shininess:        g.Shininess,
		AmbientOcclusion: mgl32.Vec3{1, 1, 1},
		EmissionColor:    g.EmissionColor,
	}
}

// UnmarshalEmissiveMaterial reads a GPUEmissiveMaterial from buf.
//
// Parameters:
//   - buf: at least 64 bytes
//
// Returns:
//   - GPUEmissiveMaterial: the decoded record
//   - error: non-nil if buf is too short
func UnmarshalEmissiveMaterial(buf []byte) (GPUEmissiveMaterial, error) {
	var g GPUEmissiveMaterial
	if len(buf) < g.Size() {
		return g, fmt.Errorf("emissive material buffer is %d bytes, need %d", len(buf), g.Size())
	}
	g.EmissionColor = common.Vec3At(buf, 0)
	g.BaseColor = common.Vec3At(buf, 16)
	g.SpecularColor = common.Vec3At(buf, 32)
	g.Shininess = common.Float32At(buf, 48)
	return g, nil
}

// Unmarshal decodes a record of the given schema from buf.
//
// Parameters:
//   - schema: which record layout buf holds
//   - buf: the marshaled record
//
// Returns:
//   - GPUMaterial: the decoded record
//   - error: non-nil if buf is too short or the schema is unknown
func Unmarshal(schema Schema, buf []byte) (GPUMaterial, error) {
	switch schema {
	case SchemaPBR:
		g, err := UnmarshalPBRMaterial(buf)
		return &g, err
	case SchemaEmissive:
		g, err := UnmarshalEmissiveMaterial(buf)
		return &g, err
	}
	return nil, fmt.Errorf("unknown material schema %q", schema)
}
