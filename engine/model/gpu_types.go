package model

import (
	"unsafe"

	"github.com/Carmen-Shannon/oxy-shade/common"
	"github.com/go-gl/mathgl/mgl32"
)

// GPUVertex is one interleaved vertex as presented in the buffer at the Vertices slot.
// Attributes are tightly packed in location order, matching the VertexIn struct of
// the shader interface.
// Size: 56 bytes.
type GPUVertex struct {
	Position  [3]float32 // offset  0: location 0, model-space position
	Normal    [3]float32 // offset 12: location 1, unit surface normal
	UV        [2]float32 // offset 24: location 2, texture coordinate
	Tangent   [3]float32 // offset 32: location 3, unit tangent along +U
	Bitangent [3]float32 // offset 44: location 4, unit bitangent along +V
}

// Size returns the size of the GPUVertex struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes (56)
func (g *GPUVertex) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the vertex into a 56-byte little-endian buffer.
//
// Returns:
//   - []byte: buffer ready for GPU upload
func (g *GPUVertex) Marshal() []byte {
	buf := make([]byte, g.Size())
	g.put(buf)
	return buf
}

func (g *GPUVertex) put(buf []byte) {
	for i := range 3 {
		common.PutFloat32(buf, 0+i*4, g.Position[i])
		common.PutFloat32(buf, 12+i*4, g.Normal[i])
		common.PutFloat32(buf, 32+i*4, g.Tangent[i])
		common.PutFloat32(buf, 44+i*4, g.Bitangent[i])
	}
	common.PutFloat32(buf, 24, g.UV[0])
	common.PutFloat32(buf, 28, g.UV[1])
}

// MarshalVertices serializes a vertex slice into one contiguous buffer.
//
// Parameters:
//   - vertices: the vertices in draw order
//
// Returns:
//   - []byte: len(vertices)*56 bytes
func MarshalVertices(vertices []GPUVertex) []byte {
	var v GPUVertex
	stride := v.Size()
	buf := make([]byte, len(vertices)*stride)
	for i := range vertices {
		vertices[i].put(buf[i*stride : (i+1)*stride])
	}
	return buf
}

// NewVertex builds a vertex from a position, normal, texture coordinate and a
// tangent carrying handedness in w, as imported meshes usually provide it. The
// bitangent is derived as cross(normal, tangent) * w.
//
// Parameters:
//   - position: model-space position
//   - normal: surface normal, normalized on the way in
//   - uv: texture coordinate
//   - tangent: tangent xyz with handedness (+1 or -1) in w
//
// Returns:
//   - GPUVertex: the packed vertex
func NewVertex(position, normal mgl32.Vec3, uv mgl32.Vec2, tangent mgl32.Vec4) GPUVertex {
	n := normal.Normalize()
	t := tangent.Vec3().Normalize()
	w := tangent[3]
	if w == 0 {
		w = 1
	}
	b := n.Cross(t).Mul(w)
	return GPUVertex{
		Position:  position,
		Normal:    n,
		UV:        uv,
		Tangent:   t,
		Bitangent: b,
	}
}
