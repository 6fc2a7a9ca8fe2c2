package transform

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-shade/common"
	"github.com/Carmen-Shannon/oxy-shade/engine/layout"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniformLayouts(t *testing.T) {
	var u GPUUniforms
	var s GPUShadowedUniforms
	assert.Equal(t, 240, u.Size())
	assert.Equal(t, 304, s.Size())
	require.NoError(t, layout.VerifyStruct(u, GPUUniformsSource, "Uniforms"))
	require.NoError(t, layout.VerifyStruct(s, GPUShadowedUniformsSource, "ShadowedUniforms"))
}

func TestNormalMatrixNonUniformScale(t *testing.T) {
	model := mgl32.Scale3D(2, 1, 1)
	n, err := NormalMatrix(model)
	require.NoError(t, err)

	// a surface whose tangent and normal are orthogonal before the transform
	tangent := mgl32.Vec3{1, 1, 0}.Normalize()
	normal := mgl32.Vec3{1, -1, 0}.Normalize()
	require.InDelta(t, 0, tangent.Dot(normal), 1e-6)

	tWorld := model.Mat3().Mul3x1(tangent)
	nWorld := n.Mul3x1(normal)
	assert.InDelta(t, 0, tWorld.Dot(nWorld), 1e-6)

	// the plain upper-left 3x3 would tilt the normal off the surface
	naive := model.Mat3().Mul3x1(normal)
	assert.Greater(t, math.Abs(float64(tWorld.Dot(naive))), 0.5)
}

func TestNormalMatrixRigidIsRotation(t *testing.T) {
	rot := mgl32.HomogRotate3DY(mgl32.DegToRad(30)).Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(-45)))
	model := mgl32.Translate3D(4, -2, 9).Mul4(rot)
	n, err := NormalMatrix(model)
	require.NoError(t, err)
	assert.True(t, n.ApproxEqualThreshold(rot.Mat3(), 1e-5))
}

func TestNormalMatrixDegenerate(t *testing.T) {
	cases := map[string]mgl32.Mat4{
		"zero scale": mgl32.Scale3D(0, 1, 1),
		"nan":        {float32(math.NaN()), 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1},
		"inf":        mgl32.Scale3D(float32(math.Inf(1)), 1, 1),
	}
	for name, m := range cases {
		t.Run(name, func(t *testing.T) {
			n, err := NormalMatrix(m)
			assert.ErrorIs(t, err, common.ErrInvalidTransform)
			assert.Equal(t, mgl32.Ident3(), n)
		})
	}
}

func TestNormalMatrixIgnoresUniformScale(t *testing.T) {
	for _, scale := range []float32{1e-5, 1e-3, 1e4} {
		n, err := NormalMatrix(mgl32.Scale3D(scale, scale, scale))
		require.NoError(t, err, "scale %g", scale)
		assert.InEpsilon(t, 1/scale, n.At(0, 0), 1e-4)
		assert.InEpsilon(t, 1/scale, n.At(2, 2), 1e-4)
	}

	// columns almost in one plane are rejected whatever their length
	flat := mgl32.Mat4{
		1, 0, 0, 0,
		1, 1e-8, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
	_, err := NormalMatrix(flat)
	assert.ErrorIs(t, err, common.ErrInvalidTransform)
	_, err = NormalMatrix(mgl32.Scale3D(1e3, 1e3, 1e3).Mul4(flat))
	assert.ErrorIs(t, err, common.ErrInvalidTransform)
}

func TestBuildPolicies(t *testing.T) {
	view := mgl32.LookAtV(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	proj := mgl32.Perspective(1, 1, 0.1, 100)
	flat := mgl32.Scale3D(1, 0, 1)

	u, err := NewBuilder(PolicyFallback).Build(flat, view, proj)
	require.ErrorIs(t, err, common.ErrInvalidTransform)
	assert.Equal(t, flat, u.ModelMatrix)
	assert.Equal(t, common.PadMat3(mgl32.Ident3()), u.NormalMatrix)
	assert.Equal(t, view, u.ViewMatrix)

	nan := mgl32.Translate3D(float32(math.NaN()), 0, 0)
	u, err = NewBuilder(PolicyFallback).Build(nan, view, proj)
	require.ErrorIs(t, err, common.ErrInvalidTransform)
	assert.Equal(t, mgl32.Ident4(), u.ModelMatrix)

	u, err = NewBuilder(PolicyPropagate).Build(flat, view, proj)
	require.ErrorIs(t, err, common.ErrInvalidTransform)
	assert.Equal(t, GPUUniforms{}, u)

	s, err := NewBuilder(PolicyPropagate).BuildShadowed(flat, view, proj, mgl32.Ident4())
	require.ErrorIs(t, err, common.ErrInvalidTransform)
	assert.Equal(t, GPUShadowedUniforms{}, s)
}

func TestBuildRecomputesNormal(t *testing.T) {
	b := NewBuilder(PolicyFallback)
	first, err := b.Build(mgl32.Scale3D(2, 1, 1), mgl32.Ident4(), mgl32.Ident4())
	require.NoError(t, err)
	second, err := b.Build(mgl32.Scale3D(1, 4, 1), mgl32.Ident4(), mgl32.Ident4())
	require.NoError(t, err)

	assert.InDelta(t, 0.5, first.NormalMatrix[0], 1e-6)
	assert.InDelta(t, 0.25, second.NormalMatrix[5], 1e-6)
	assert.InDelta(t, 1, second.NormalMatrix[0], 1e-6)
}

func TestMarshalOffsets(t *testing.T) {
	model := mgl32.Translate3D(7, 8, 9)
	s, err := NewBuilder(PolicyFallback).BuildShadowed(model, mgl32.Ident4(), mgl32.Ident4(), mgl32.Scale3D(3, 3, 3))
	require.NoError(t, err)

	buf := s.Marshal()
	require.Len(t, buf, 304)
	assert.Equal(t, float32(7), common.Float32At(buf, 48))
	assert.Equal(t, float32(1), common.Float32At(buf, 192))
	assert.Equal(t, float32(0), common.Float32At(buf, 192+12))
	assert.Equal(t, float32(1), common.Float32At(buf, 192+16+4))
	assert.Equal(t, float32(3), common.Float32At(buf, 240))

	back, err := UnmarshalShadowedUniforms(buf)
	require.NoError(t, err)
	assert.Equal(t, s, back)

	_, err = UnmarshalUniforms(buf[:100])
	assert.Error(t, err)
}

func TestShadowCaster(t *testing.T) {
	toSun := mgl32.Vec3{1, 2, -2}
	m := DefaultShadowCaster().Matrix(toSun)

	center := m.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.InDelta(t, 0, center[0], 1e-5)
	assert.InDelta(t, 0, center[1], 1e-5)
	assert.Greater(t, center[2], float32(0))
	assert.Less(t, center[2], float32(1))

	towardSun := m.Mul4x1(toSun.Normalize().Vec4(1))
	assert.Less(t, towardSun[2], center[2])

	// straight overhead uses the alternate up vector and stays finite
	overhead := DefaultShadowCaster().Matrix(mgl32.Vec3{0, 1, 0})
	assert.True(t, common.Finite(overhead[:]...))
}
