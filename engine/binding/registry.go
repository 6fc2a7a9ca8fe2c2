// Package binding holds the process-wide table of slot assignments shared by the
// CPU producer and the shader stages: buffer arguments, vertex attributes,
// texture units and samplers.
package binding

import (
	"fmt"
	"sort"
	"sync"

	"github.com/Carmen-Shannon/oxy-shade/common"
	"github.com/Carmen-Shannon/oxy-shade/engine/layout"
	"github.com/cogentcore/webgpu/wgpu"
)

// Slot is a single named entry in the registry.
type Slot struct {
	Name  string
	Kind  Kind
	Index uint32

	// Visibility is the set of shader stages that read the slot.
	Visibility wgpu.ShaderStage
	// BufferType is set for buffers bound through a bind group. The vertex buffer leaves it undefined.
	BufferType wgpu.BufferBindingType
	// Format is set for vertex attributes.
	Format wgpu.VertexFormat
}

// Group returns the WGSL bind group of the slot.
//
// Returns:
//   - uint32: the bind group number
//   - bool: false if the slot is not a bind group resource
func (s Slot) Group() (uint32, bool) {
	if s.Kind == KindBuffer && s.BufferType == wgpu.BufferBindingTypeUndefined {
		return 0, false
	}
	return s.Kind.Group()
}

// Registry is an immutable slot table. It is built once and shared by pointer;
// all methods are safe for concurrent use.
type Registry struct {
	byName  map[string]Slot
	ordered []Slot
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// DefaultSlots returns the slot assignments every shading pipeline is compiled against.
//
// Returns:
//   - []Slot: a fresh copy of the default table
func DefaultSlots() []Slot {
	fragment := wgpu.ShaderStageFragment
	return []Slot{
		{Name: BufferVertices.String(), Kind: KindBuffer, Index: uint32(BufferVertices), Visibility: wgpu.ShaderStageVertex},
		{Name: BufferUniforms.String(), Kind: KindBuffer, Index: uint32(BufferUniforms), Visibility: wgpu.ShaderStageVertex | fragment, BufferType: wgpu.BufferBindingTypeUniform},
		{Name: BufferLights.String(), Kind: KindBuffer, Index: uint32(BufferLights), Visibility: fragment, BufferType: wgpu.BufferBindingTypeReadOnlyStorage},
		{Name: BufferFragmentUniforms.String(), Kind: KindBuffer, Index: uint32(BufferFragmentUniforms), Visibility: fragment, BufferType: wgpu.BufferBindingTypeUniform},
		{Name: BufferMaterials.String(), Kind: KindBuffer, Index: uint32(BufferMaterials), Visibility: fragment, BufferType: wgpu.BufferBindingTypeUniform},

		{Name: AttributePosition.String(), Kind: KindAttribute, Index: uint32(AttributePosition), Visibility: wgpu.ShaderStageVertex, Format: wgpu.VertexFormatFloat32x3},
		{Name: AttributeNormal.String(), Kind: KindAttribute, Index: uint32(AttributeNormal), Visibility: wgpu.ShaderStageVertex, Format: wgpu.VertexFormatFloat32x3},
		{Name: AttributeUV.String(), Kind: KindAttribute, Index: uint32(AttributeUV), Visibility: wgpu.ShaderStageVertex, Format: wgpu.VertexFormatFloat32x2},
		{Name: AttributeTangent.String(), Kind: KindAttribute, Index: uint32(AttributeTangent), Visibility: wgpu.ShaderStageVertex, Format: wgpu.VertexFormatFloat32x3},
		{Name: AttributeBitangent.String(), Kind: KindAttribute, Index: uint32(AttributeBitangent), Visibility: wgpu.ShaderStageVertex, Format: wgpu.VertexFormatFloat32x3},

		{Name: TextureBaseColor.String(), Kind: KindTexture, Index: uint32(TextureBaseColor), Visibility: fragment},
		{Name: TextureNormal.String(), Kind: KindTexture, Index: uint32(TextureNormal), Visibility: fragment},
		{Name: TextureRoughness.String(), Kind: KindTexture, Index: uint32(TextureRoughness), Visibility: fragment},

		{Name: SamplerMaterial.String(), Kind: KindSampler, Index: uint32(SamplerMaterial), Visibility: fragment},
	}
}

// Default returns the shared registry built from DefaultSlots. It panics if the
// default table is inconsistent, since no pipeline could run against it.
//
// Returns:
//   - *Registry: the process-wide registry
func Default() *Registry {
	defaultOnce.Do(func() {
		r, err := New(DefaultSlots()...)
		if err != nil {
			panic(err)
		}
		defaultRegistry = r
	})
	return defaultRegistry
}

// New validates a slot table and freezes it into a Registry. Names must be unique,
// slot numbers must be unique within a kind, and no bind group buffer may sit in
// the range reserved for vertex attributes.
//
// Parameters:
//   - slots: the slot assignments
//
// Returns:
//   - *Registry: the immutable registry
//   - error: an error wrapping common.ErrBindingMismatch if the table is inconsistent
func New(slots ...Slot) (*Registry, error) {
	r := &Registry{
		byName:  make(map[string]Slot, len(slots)),
		ordered: make([]Slot, 0, len(slots)),
	}

	type kindIndex struct {
		kind  Kind
		index uint32
	}
	taken := make(map[kindIndex]string, len(slots))
	maxAttribute := -1

	for _, s := range slots {
		if s.Name == "" {
			return nil, fmt.Errorf("%w: %s slot %d has no name", common.ErrBindingMismatch, s.Kind, s.Index)
		}
		if _, dup := r.byName[s.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate slot name %s", common.ErrBindingMismatch, s.Name)
		}
		key := kindIndex{s.Kind, s.Index}
		if other, dup := taken[key]; dup {
			return nil, fmt.Errorf("%w: %s and %s share %s slot %d", common.ErrBindingMismatch, other, s.Name, s.Kind, s.Index)
		}
		taken[key] = s.Name
		if s.Kind == KindAttribute {
			maxAttribute = max(maxAttribute, int(s.Index))
		}
		r.byName[s.Name] = s
		r.ordered = append(r.ordered, s)
	}

	for _, s := range r.ordered {
		if _, bound := s.Group(); bound && s.Kind == KindBuffer && int(s.Index) <= maxAttribute {
			return nil, fmt.Errorf("%w: buffer %s at slot %d overlaps vertex attribute slots 0-%d", common.ErrBindingMismatch, s.Name, s.Index, maxAttribute)
		}
	}

	sort.SliceStable(r.ordered, func(i, j int) bool {
		if r.ordered[i].Kind != r.ordered[j].Kind {
			return r.ordered[i].Kind < r.ordered[j].Kind
		}
		return r.ordered[i].Index < r.ordered[j].Index
	})
	return r, nil
}

// Lookup resolves a symbolic name to its slot.
//
// Parameters:
//   - name: the slot name, e.g. "Lights" or "NormalTexture"
//
// Returns:
//   - Slot: the slot
//   - error: an error wrapping common.ErrBindingMismatch if the name is not registered
func (r *Registry) Lookup(name string) (Slot, error) {
	s, ok := r.byName[name]
	if !ok {
		return Slot{}, fmt.Errorf("%w: no slot named %q", common.ErrBindingMismatch, name)
	}
	return s, nil
}

// MustLookup is Lookup for startup wiring, where an unknown name is a programming error.
func (r *Registry) MustLookup(name string) Slot {
	s, err := r.Lookup(name)
	if err != nil {
		panic(err)
	}
	return s
}

// Buffer returns the slot of a buffer index.
func (r *Registry) Buffer(b BufferIndex) Slot {
	return r.MustLookup(b.String())
}

// Texture returns the slot of a texture unit.
func (r *Registry) Texture(t TextureIndex) Slot {
	return r.MustLookup(t.String())
}

// Slots returns every slot ordered by kind then index. The slice is a copy.
func (r *Registry) Slots() []Slot {
	return append([]Slot(nil), r.ordered...)
}

// Attributes returns the vertex attribute slots ordered by location.
func (r *Registry) Attributes() []Slot {
	var out []Slot
	for _, s := range r.ordered {
		if s.Kind == KindAttribute {
			out = append(out, s)
		}
	}
	return out
}

// BindGroupLayoutEntries builds the wgpu layout entries for one bind group.
//
// Parameters:
//   - group: the bind group number (GroupBuffers, GroupTextures or GroupSamplers)
//   - minSizes: optional minimum binding sizes keyed by slot name
//
// Returns:
//   - []wgpu.BindGroupLayoutEntry: entries ordered by binding
func (r *Registry) BindGroupLayoutEntries(group uint32, minSizes map[string]uint64) []wgpu.BindGroupLayoutEntry {
	var entries []wgpu.BindGroupLayoutEntry
	for _, s := range r.ordered {
		g, ok := s.Group()
		if !ok || g != group {
			continue
		}
		entry := wgpu.BindGroupLayoutEntry{
			Binding:    s.Index,
			Visibility: s.Visibility,
		}
		switch s.Kind {
		case KindBuffer:
			entry.Buffer.Type = s.BufferType
			entry.Buffer.MinBindingSize = minSizes[s.Name]
		case KindTexture:
			entry.Texture.SampleType = wgpu.TextureSampleTypeFloat
			entry.Texture.ViewDimension = wgpu.TextureViewDimension2D
		case KindSampler:
			entry.Sampler.Type = wgpu.SamplerBindingTypeFiltering
		}
		entries = append(entries, entry)
	}
	return entries
}

// VertexBufferLayout describes the interleaved vertex buffer bound at BufferVertices,
// with attributes tightly packed in location order.
//
// Returns:
//   - wgpu.VertexBufferLayout: the layout with ArrayStride covering every attribute
func (r *Registry) VertexBufferLayout() wgpu.VertexBufferLayout {
	attrs := r.Attributes()
	out := wgpu.VertexBufferLayout{
		StepMode:   wgpu.VertexStepModeVertex,
		Attributes: make([]wgpu.VertexAttribute, 0, len(attrs)),
	}
	var offset uint64
	for _, a := range attrs {
		out.Attributes = append(out.Attributes, wgpu.VertexAttribute{
			Format:         a.Format,
			Offset:         offset,
			ShaderLocation: a.Index,
		})
		offset += layout.VertexFormatSize(a.Format)
	}
	out.ArrayStride = offset
	return out
}
