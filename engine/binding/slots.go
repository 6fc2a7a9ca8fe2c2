package binding

import "fmt"

// BufferIndex is a buffer argument slot shared by the CPU producer and the shader stages.
type BufferIndex uint32

const (
	// BufferVertices is the interleaved vertex buffer. It is the only buffer that
	// shares the low slot range with vertex attributes.
	BufferVertices BufferIndex = 0
	// BufferUniforms holds the per-draw transform uniforms.
	BufferUniforms BufferIndex = 11
	// BufferLights holds the fixed-capacity light array.
	BufferLights BufferIndex = 12
	// BufferFragmentUniforms holds the light count and camera position.
	BufferFragmentUniforms BufferIndex = 13
	// BufferMaterials holds the active material variant.
	BufferMaterials BufferIndex = 14
)

func (b BufferIndex) String() string {
	switch b {
	case BufferVertices:
		return "Vertices"
	case BufferUniforms:
		return "Uniforms"
	case BufferLights:
		return "Lights"
	case BufferFragmentUniforms:
		return "FragmentUniforms"
	case BufferMaterials:
		return "Materials"
	}
	return fmt.Sprintf("BufferIndex(%d)", uint32(b))
}

// Attribute is a vertex attribute location within the vertex buffer at BufferVertices.
type Attribute uint32

const (
	AttributePosition Attribute = iota
	AttributeNormal
	AttributeUV
	AttributeTangent
	AttributeBitangent

	// attributeCount bounds the slot range reserved for vertex attributes.
	attributeCount
)

func (a Attribute) String() string {
	switch a {
	case AttributePosition:
		return "Position"
	case AttributeNormal:
		return "Normal"
	case AttributeUV:
		return "UV"
	case AttributeTangent:
		return "Tangent"
	case AttributeBitangent:
		return "Bitangent"
	}
	return fmt.Sprintf("Attribute(%d)", uint32(a))
}

// TextureIndex is a texture unit index.
type TextureIndex uint32

const (
	TextureBaseColor TextureIndex = 0
	TextureNormal    TextureIndex = 1
	TextureRoughness TextureIndex = 2
)

func (t TextureIndex) String() string {
	switch t {
	case TextureBaseColor:
		return "BaseColorTexture"
	case TextureNormal:
		return "NormalTexture"
	case TextureRoughness:
		return "RoughnessTexture"
	}
	return fmt.Sprintf("TextureIndex(%d)", uint32(t))
}

// SamplerIndex is a sampler slot.
type SamplerIndex uint32

const (
	SamplerMaterial SamplerIndex = 0
)

func (s SamplerIndex) String() string {
	if s == SamplerMaterial {
		return "MaterialSampler"
	}
	return fmt.Sprintf("SamplerIndex(%d)", uint32(s))
}

// Kind is the category a slot belongs to. Slot numbers are unique within a kind.
type Kind int

const (
	KindBuffer Kind = iota
	KindAttribute
	KindTexture
	KindSampler
)

func (k Kind) String() string {
	switch k {
	case KindBuffer:
		return "buffer"
	case KindAttribute:
		return "attribute"
	case KindTexture:
		return "texture"
	case KindSampler:
		return "sampler"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Bind group numbers used when the registry is expressed as WGSL resource bindings.
// Buffers bind at their buffer index in GroupBuffers, textures at their texture index
// in GroupTextures, and samplers in GroupSamplers.
const (
	GroupBuffers  uint32 = 0
	GroupTextures uint32 = 1
	GroupSamplers uint32 = 2
)

// Group returns the WGSL bind group a slot kind lives in. Vertex attributes are
// not bind group resources.
//
// Returns:
//   - uint32: the bind group number
//   - bool: false for KindAttribute
func (k Kind) Group() (uint32, bool) {
	switch k {
	case KindBuffer:
		return GroupBuffers, true
	case KindTexture:
		return GroupTextures, true
	case KindSampler:
		return GroupSamplers, true
	}
	return 0, false
}
