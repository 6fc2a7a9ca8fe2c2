package binding

import (
	"strings"
	"sync"
	"testing"

	"github.com/Carmen-Shannon/oxy-shade/common"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSlots(t *testing.T) {
	r := Default()
	cases := []struct {
		name  string
		kind  Kind
		index uint32
	}{
		{"Vertices", KindBuffer, 0},
		{"Uniforms", KindBuffer, 11},
		{"Lights", KindBuffer, 12},
		{"FragmentUniforms", KindBuffer, 13},
		{"Materials", KindBuffer, 14},
		{"Position", KindAttribute, 0},
		{"Normal", KindAttribute, 1},
		{"UV", KindAttribute, 2},
		{"Tangent", KindAttribute, 3},
		{"Bitangent", KindAttribute, 4},
		{"BaseColorTexture", KindTexture, 0},
		{"NormalTexture", KindTexture, 1},
		{"RoughnessTexture", KindTexture, 2},
	}
	for _, c := range cases {
		s, err := r.Lookup(c.name)
		require.NoError(t, err, c.name)
		assert.Equal(t, c.kind, s.Kind, c.name)
		assert.Equal(t, c.index, s.Index, c.name)
	}
	assert.Equal(t, uint32(BufferLights), r.Buffer(BufferLights).Index)
	assert.Equal(t, uint32(TextureNormal), r.Texture(TextureNormal).Index)
}

func TestDefaultIsShared(t *testing.T) {
	var wg sync.WaitGroup
	got := make([]*Registry, 8)
	for i := range got {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got[i] = Default()
			_, _ = got[i].Lookup("Lights")
		}()
	}
	wg.Wait()
	for _, r := range got {
		assert.Same(t, got[0], r)
	}
}

func TestLookupUnknown(t *testing.T) {
	r := Default()
	_, err := r.Lookup("ShadowMap")
	assert.ErrorIs(t, err, common.ErrBindingMismatch)
	assert.Panics(t, func() { r.MustLookup("ShadowMap") })
}

func TestSlotsIsCopy(t *testing.T) {
	r := Default()
	slots := r.Slots()
	slots[0].Index = 99
	assert.NotEqual(t, uint32(99), r.Slots()[0].Index)
}

func TestNewRejectsOverlaps(t *testing.T) {
	_, err := New(
		Slot{Name: "A", Kind: KindTexture, Index: 1},
		Slot{Name: "B", Kind: KindTexture, Index: 1},
	)
	assert.ErrorIs(t, err, common.ErrBindingMismatch)

	_, err = New(
		Slot{Name: "A", Kind: KindTexture, Index: 1},
		Slot{Name: "A", Kind: KindSampler, Index: 0},
	)
	assert.ErrorIs(t, err, common.ErrBindingMismatch)

	// a uniform buffer inside the attribute range
	_, err = New(
		Slot{Name: "Position", Kind: KindAttribute, Index: 0, Format: wgpu.VertexFormatFloat32x3},
		Slot{Name: "Normal", Kind: KindAttribute, Index: 1, Format: wgpu.VertexFormatFloat32x3},
		Slot{Name: "Uniforms", Kind: KindBuffer, Index: 1, BufferType: wgpu.BufferBindingTypeUniform},
	)
	assert.ErrorIs(t, err, common.ErrBindingMismatch)

	// same number in different kinds is fine
	_, err = New(
		Slot{Name: "Vertices", Kind: KindBuffer, Index: 0},
		Slot{Name: "Position", Kind: KindAttribute, Index: 0},
		Slot{Name: "BaseColorTexture", Kind: KindTexture, Index: 0},
	)
	assert.NoError(t, err)
}

func TestVertexBufferLayout(t *testing.T) {
	vbl := Default().VertexBufferLayout()
	assert.EqualValues(t, 56, vbl.ArrayStride)
	assert.Equal(t, wgpu.VertexStepModeVertex, vbl.StepMode)
	require.Len(t, vbl.Attributes, 5)

	wantOffsets := []uint64{0, 12, 24, 32, 44}
	for i, a := range vbl.Attributes {
		assert.EqualValues(t, i, a.ShaderLocation)
		assert.Equal(t, wantOffsets[i], a.Offset)
	}
	assert.Equal(t, wgpu.VertexFormatFloat32x2, vbl.Attributes[AttributeUV].Format)
}

func TestBindGroupLayoutEntries(t *testing.T) {
	r := Default()
	buffers := r.BindGroupLayoutEntries(GroupBuffers, map[string]uint64{"Uniforms": 240})
	require.Len(t, buffers, 4)
	assert.EqualValues(t, 11, buffers[0].Binding)
	assert.EqualValues(t, 240, buffers[0].Buffer.MinBindingSize)
	assert.Equal(t, wgpu.BufferBindingTypeReadOnlyStorage, buffers[1].Buffer.Type)
	assert.Equal(t, wgpu.ShaderStageFragment, buffers[3].Visibility)

	textures := r.BindGroupLayoutEntries(GroupTextures, nil)
	require.Len(t, textures, 3)
	assert.Equal(t, wgpu.TextureSampleTypeFloat, textures[0].Texture.SampleType)

	samplers := r.BindGroupLayoutEntries(GroupSamplers, nil)
	require.Len(t, samplers, 1)
	assert.Equal(t, wgpu.SamplerBindingTypeFiltering, samplers[0].Sampler.Type)
}

func TestVerifyInterface(t *testing.T) {
	require.NoError(t, Default().Verify(InterfaceSource))
}

func TestVerifyDetectsMismatch(t *testing.T) {
	cases := map[string]struct{ from, to string }{
		"moved buffer":     {"@binding(13) var<uniform> fragment_uniforms", "@binding(15) var<uniform> fragment_uniforms"},
		"renamed texture":  {"var normal_texture", "var bump_texture"},
		"wrong space":      {"var<storage, read> lights", "var<uniform> lights"},
		"swapped location": {"@location(3) tangent", "@location(5) tangent"},
		"wrong format":     {"uv: vec2<f32>", "uv: vec3<f32>"},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			src := strings.Replace(InterfaceSource, c.from, c.to, 1)
			require.NotEqual(t, InterfaceSource, src)
			assert.ErrorIs(t, Default().Verify(src), common.ErrBindingMismatch)
		})
	}
}

func TestBufferWriteEnd(t *testing.T) {
	w := BufferWrite{Slot: Default().Buffer(BufferLights), Offset: 128, Data: make([]byte, 128)}
	assert.EqualValues(t, 256, w.End())
}
