package shading

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/Carmen-Shannon/oxy-shade/engine/camera"
	"github.com/Carmen-Shannon/oxy-shade/engine/light"
	"github.com/Carmen-Shannon/oxy-shade/engine/material"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pbrRecord(t *testing.T, opts ...material.MaterialBuilderOption) []byte {
	t.Helper()
	s, err := material.NewSelector(material.SchemaPBR, material.PolicyReject)
	require.NoError(t, err)
	m, err := s.Select(material.NewAuthored(opts...))
	require.NoError(t, err)
	return m.Marshal()
}

func TestSingleSunEndToEnd(t *testing.T) {
	cam := camera.NewCamera()
	state := cam.State()

	a, err := light.NewAssembler(4)
	require.NoError(t, err)
	arr, err := a.Assemble([]light.Light{light.NewSun(mgl32.Vec3{0, 0, 1})})
	require.NoError(t, err)

	fu := arr.FragmentUniforms(state.Position)
	b := Bindings{
		Lights:           arr.Marshal(),
		FragmentUniforms: fu.Marshal(),
		Material:         pbrRecord(t, material.WithBaseColor(mgl32.Vec3{0.8, 0.2, 0.2})),
		Schema:           material.SchemaPBR,
	}

	s, err := NewShader(b)
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec3{0, 0, 5}, s.CameraPosition())
	require.Len(t, s.Lights(), 1)
	assert.Equal(t, light.Sunlight, s.Lights()[0].Type())

	// full lambert plus a head-on highlight of 0.6 * 0.5
	c := s.Shade(mgl32.Vec3{}, mgl32.Vec3{0, 0, 1})
	assert.InDelta(t, 1.1, c[0], 1e-5)
	assert.InDelta(t, 0.5, c[1], 1e-5)
	assert.InDelta(t, 0.5, c[2], 1e-5)

	// facing away: no diffuse and no highlight
	c = s.Shade(mgl32.Vec3{}, mgl32.Vec3{0, 0, -1})
	assert.Equal(t, mgl32.Vec3{}, c)
}

func TestAmbientOcclusionAndEmission(t *testing.T) {
	a, err := light.NewAssembler(2)
	require.NoError(t, err)
	arr, err := a.Assemble([]light.Light{light.NewAmbient(light.WithColor(0.2, 0.4, 0.6))})
	require.NoError(t, err)
	fu := arr.TiledFragmentUniforms(mgl32.Vec3{0, 0, 5}, 3)

	s, err := NewShader(Bindings{
		Lights:           arr.Marshal(),
		FragmentUniforms: fu.Marshal(),
		Material:         pbrRecord(t, material.WithAmbientOcclusion(mgl32.Vec3{0.5, 0.5, 1})),
		Schema:           material.SchemaPBR,
		Tiled:            true,
	})
	require.NoError(t, err)
	assert.Equal(t, uint32(3), s.Tiling())
	c := s.Shade(mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	assert.InDelta(t, 0.1, c[0], 1e-6)
	assert.InDelta(t, 0.2, c[1], 1e-6)
	assert.InDelta(t, 0.6, c[2], 1e-6)

	emissive := material.GPUEmissiveMaterial{EmissionColor: mgl32.Vec3{2, 0, 0}, Shininess: 1}
	s, err = NewShader(Bindings{
		Lights:           arr.Marshal(),
		FragmentUniforms: fu.Marshal(),
		Material:         emissive.Marshal(),
		Schema:           material.SchemaEmissive,
		Tiled:            true,
	})
	require.NoError(t, err)
	c = s.Shade(mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	assert.InDelta(t, 2.2, c[0], 1e-6)
	assert.InDelta(t, 0.4, c[1], 1e-6)
}

func TestPointAndSpotFalloff(t *testing.T) {
	point := light.NewPoint(mgl32.Vec3{0, 2, 0}, light.WithAttenuation(1, 0, 1))
	spot := light.NewSpot(mgl32.Vec3{0, 2, 0}, mgl32.Vec3{0, -1, 0}, light.WithCone(10, 1), light.WithAttenuation(1, 0, 0))
	mat := pbrRecord(t, material.WithBaseColor(mgl32.Vec3{1, 1, 1}), material.WithSpecularColor(mgl32.Vec3{}))

	shade := func(l light.Light, at mgl32.Vec3) mgl32.Vec3 {
		a, err := light.NewAssembler(1)
		require.NoError(t, err)
		arr, err := a.Assemble([]light.Light{l})
		require.NoError(t, err)
		fu := arr.FragmentUniforms(mgl32.Vec3{0, 5, 0})
		s, err := NewShader(Bindings{Lights: arr.Marshal(), FragmentUniforms: fu.Marshal(), Material: mat, Schema: material.SchemaPBR})
		require.NoError(t, err)
		return s.Shade(at, mgl32.Vec3{0, 1, 0})
	}

	// distance 2: 1 / (1 + 4)
	assert.InDelta(t, 0.2, shade(point, mgl32.Vec3{})[0], 1e-6)
	// directly under the spot: full intensity
	assert.InDelta(t, 1, shade(spot, mgl32.Vec3{})[0], 1e-5)
	// 45 degrees off the axis is outside a 10 degree cone
	assert.Equal(t, mgl32.Vec3{}, shade(spot, mgl32.Vec3{2, 0, 0}))
}

func garbageRecord(r *rand.Rand, tag uint32) light.GPULight {
	f := func() float32 {
		switch r.IntN(8) {
		case 0:
			return float32(math.NaN())
		case 1:
			return float32(math.Inf(1))
		}
		return r.Float32()*2000 - 1000
	}
	return light.GPULight{
		Position:        mgl32.Vec3{f(), f(), f()},
		Color:           mgl32.Vec3{f(), f(), f()},
		SpecularColor:   mgl32.Vec3{f(), f(), f()},
		Intensity:       f(),
		Attenuation:     mgl32.Vec3{f(), f(), f()},
		LightType:       tag,
		ConeAngle:       f(),
		ConeDirection:   mgl32.Vec3{f(), f(), f()},
		ConeAttenuation: f(),
	}
}

func randomLight(r *rand.Rand) light.Light {
	pos := mgl32.Vec3{r.Float32()*4 - 2, r.Float32()*4 + 1, r.Float32()*4 - 2}
	color := light.WithColor(r.Float32(), r.Float32(), r.Float32())
	switch r.IntN(4) {
	case 0:
		return light.NewSun(pos, color)
	case 1:
		return light.NewPoint(pos, color, light.WithAttenuation(1, 0.5, 0.25))
	case 2:
		return light.NewSpot(pos, mgl32.Vec3{0, -1, 0}, color, light.WithCone(60, 2))
	}
	return light.NewAmbient(color)
}

// Tombstoned records inside lightCount and stale records past it must not change
// the result, whatever they hold.
func TestTombstonesAndStaleRecordsIgnored(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 5))
	mat := pbrRecord(t, material.WithBaseColor(mgl32.Vec3{0.7, 0.6, 0.5}))
	const capacity = 8

	for trial := range 200 {
		var live []light.GPULight
		var bound []light.GPULight
		count := r.IntN(capacity + 1)
		for range count {
			if r.IntN(3) == 0 {
				bound = append(bound, garbageRecord(r, uint32(light.LightTypeUnused)))
				continue
			}
			rec := light.ToGPULight(randomLight(r))
			live = append(live, rec)
			bound = append(bound, rec)
		}
		for len(bound) < capacity {
			bound = append(bound, garbageRecord(r, r.Uint32N(6)))
		}

		marshal := func(recs []light.GPULight) []byte {
			var buf []byte
			for i := range recs {
				buf = append(buf, recs[i].Marshal()...)
			}
			return buf
		}
		camPos := mgl32.Vec3{0, 0, 5}

		reference, err := NewShader(Bindings{
			Lights:           marshal(live),
			FragmentUniforms: (&light.GPUFragmentUniforms{LightCount: uint32(len(live)), CameraPosition: camPos}).Marshal(),
			Material:         mat,
			Schema:           material.SchemaPBR,
		})
		require.NoError(t, err)
		noisy, err := NewShader(Bindings{
			Lights:           marshal(bound),
			FragmentUniforms: (&light.GPUFragmentUniforms{LightCount: uint32(count), CameraPosition: camPos}).Marshal(),
			Material:         mat,
			Schema:           material.SchemaPBR,
		})
		require.NoError(t, err)

		p := mgl32.Vec3{r.Float32() - 0.5, 0, r.Float32() - 0.5}
		want := reference.Shade(p, mgl32.Vec3{0, 1, 0})
		got := noisy.Shade(p, mgl32.Vec3{0, 1, 0})
		require.Equal(t, want, got, "trial %d", trial)
		require.False(t, math.IsNaN(float64(got[0])), "trial %d", trial)
	}
}

func TestLightCountBeyondBuffer(t *testing.T) {
	arr := light.NewLightArray(2)
	fu := light.GPUFragmentUniforms{LightCount: 3}
	_, err := NewShader(Bindings{
		Lights:           arr.Marshal(),
		FragmentUniforms: fu.Marshal(),
		Material:         material.Fallback(material.SchemaPBR).Marshal(),
		Schema:           material.SchemaPBR,
	})
	assert.ErrorContains(t, err, "exceeds")

	_, err = NewShader(Bindings{FragmentUniforms: make([]byte, 8)})
	assert.Error(t, err)
}
