package material

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-shade/common"
	"github.com/Carmen-Shannon/oxy-shade/engine/layout"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaterialLayouts(t *testing.T) {
	var pbr GPUPBRMaterial
	var emissive GPUEmissiveMaterial
	assert.Equal(t, 80, pbr.Size())
	assert.Equal(t, 64, emissive.Size())
	require.NoError(t, layout.VerifyStruct(pbr, SchemaPBR.Source(), SchemaPBR.StructName()))
	require.NoError(t, layout.VerifyStruct(emissive, SchemaEmissive.Source(), SchemaEmissive.StructName()))
}

func TestMarshalOffsets(t *testing.T) {
	pbr := GPUPBRMaterial{
		BaseColor:        mgl32.Vec3{0.8, 0.2, 0.2},
		SpecularColor:    mgl32.Vec3{1, 1, 1},
		Roughness:        0.4,
		Metallic:         0.9,
		AmbientOcclusion: mgl32.Vec3{0.5, 0.6, 0.7},
		Shininess:        64,
	}
	buf := pbr.Marshal()
	assert.Equal(t, pbr.BaseColor, common.Vec3At(buf, 0))
	assert.Equal(t, float32(0.4), common.Float32At(buf, 32))
	assert.Equal(t, float32(0.9), common.Float32At(buf, 36))
	assert.Equal(t, pbr.AmbientOcclusion, common.Vec3At(buf, 48))
	assert.Equal(t, float32(64), common.Float32At(buf, 64))

	back, err := Unmarshal(SchemaPBR, buf)
	require.NoError(t, err)
	assert.Equal(t, &pbr, back)

	emissive := GPUEmissiveMaterial{
		EmissionColor: mgl32.Vec3{2, 1, 0},
		BaseColor:     mgl32.Vec3{0.1, 0.1, 0.1},
		SpecularColor: mgl32.Vec3{0.3, 0.3, 0.3},
		Shininess:     8,
	}
	buf = emissive.Marshal()
	assert.Equal(t, emissive.EmissionColor, common.Vec3At(buf, 0))
	assert.Equal(t, emissive.BaseColor, common.Vec3At(buf, 16))
	assert.Equal(t, emissive.SpecularColor, common.Vec3At(buf, 32))
	assert.Equal(t, float32(8), common.Float32At(buf, 48))
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, emissive.Shading().AmbientOcclusion)

	_, err = Unmarshal(SchemaEmissive, buf[:40])
	assert.Error(t, err)
	_, err = Unmarshal("toon", buf)
	assert.Error(t, err)
}

func TestValidateRanges(t *testing.T) {
	nan := float32(math.NaN())
	inf := float32(math.Inf(1))
	cases := []struct {
		name   string
		schema Schema
		opts   []MaterialBuilderOption
		field  string
	}{
		{"defaults", SchemaPBR, nil, ""},
		{"hdr color", SchemaPBR, []MaterialBuilderOption{WithBaseColor(mgl32.Vec3{4, 2, 0})}, ""},
		{"roughness bounds", SchemaPBR, []MaterialBuilderOption{WithRoughness(0), WithMetallic(1)}, ""},
		{"tiny shininess", SchemaPBR, []MaterialBuilderOption{WithShininess(0.01)}, ""},
		{"roughness low", SchemaPBR, []MaterialBuilderOption{WithRoughness(-0.1)}, "roughness"},
		{"roughness high", SchemaPBR, []MaterialBuilderOption{WithRoughness(1.1)}, "roughness"},
		{"metallic high", SchemaPBR, []MaterialBuilderOption{WithMetallic(2)}, "metallic"},
		{"metallic negative", SchemaPBR, []MaterialBuilderOption{WithMetallic(-0.2)}, "metallic"},
		{"half rough metal", SchemaPBR, []MaterialBuilderOption{WithRoughness(0.5), WithMetallic(1.0)}, ""},
		{"zero shininess", SchemaPBR, []MaterialBuilderOption{WithShininess(0)}, "shininess"},
		{"negative shininess", SchemaEmissive, []MaterialBuilderOption{WithShininess(-3)}, "shininess"},
		{"negative channel", SchemaPBR, []MaterialBuilderOption{WithBaseColor(mgl32.Vec3{0.5, -0.01, 0})}, "base_color.g"},
		{"nan specular", SchemaEmissive, []MaterialBuilderOption{WithSpecularColor(mgl32.Vec3{nan, 0, 0})}, "specular_color.r"},
		{"inf roughness", SchemaPBR, []MaterialBuilderOption{WithRoughness(inf)}, "roughness"},
		{"ao above one", SchemaPBR, []MaterialBuilderOption{WithAmbientOcclusion(mgl32.Vec3{1, 1, 1.5})}, "ambient_occlusion.b"},
		{"negative emission", SchemaEmissive, []MaterialBuilderOption{WithEmissionColor(mgl32.Vec3{0, 0, -1})}, "emission_color.b"},
		{"emissive ignores roughness", SchemaEmissive, []MaterialBuilderOption{WithRoughness(5)}, ""},
		{"pbr ignores emission", SchemaPBR, []MaterialBuilderOption{WithEmissionColor(mgl32.Vec3{nan, 0, 0})}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.schema, NewAuthored(append(tc.opts, WithName(tc.name))...))
			if tc.field == "" {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, common.ErrMaterialValidation)
			var verr *MaterialValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tc.field, verr.Field)
			assert.Equal(t, tc.name, verr.Material)
		})
	}
}

func TestSelectReject(t *testing.T) {
	s, err := NewSelector(SchemaPBR, PolicyReject)
	require.NoError(t, err)

	good, err := s.Select(NewAuthored(WithName("brick"), WithBaseColor(mgl32.Vec3{0.8, 0.2, 0.2}), WithRoughness(0.7)))
	require.NoError(t, err)
	pbr, ok := good.(*GPUPBRMaterial)
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec3{0.8, 0.2, 0.2}, pbr.BaseColor)
	assert.Equal(t, float32(0.7), pbr.Roughness)

	bad, err := s.Select(NewAuthored(WithName("broken"), WithRoughness(3), WithShininess(0)))
	require.ErrorIs(t, err, common.ErrMaterialValidation)
	assert.Equal(t, Fallback(SchemaPBR), bad)
	assert.NoError(t, Validate(SchemaPBR, NewAuthored()))
	assert.Contains(t, err.Error(), "roughness")
	assert.Contains(t, err.Error(), "shininess")
}

func TestSelectClamp(t *testing.T) {
	var out bytes.Buffer
	common.SetLogOutput(&out)
	t.Cleanup(func() { common.SetLogOutput(os.Stderr) })

	s, err := NewSelector(SchemaPBR, PolicyClamp)
	require.NoError(t, err)

	record, err := s.Select(NewAuthored(
		WithName("hot"),
		WithRoughness(1.5),
		WithMetallic(-1),
		WithShininess(-2),
		WithBaseColor(mgl32.Vec3{float32(math.NaN()), 3, -1}),
	))
	require.NoError(t, err)
	pbr := record.(*GPUPBRMaterial)
	assert.Equal(t, float32(1), pbr.Roughness)
	assert.Equal(t, float32(0), pbr.Metallic)
	assert.Equal(t, MinShininess, pbr.Shininess)
	assert.Equal(t, mgl32.Vec3{DefaultBaseColor[0], 3, 0}, pbr.BaseColor)
	assert.Contains(t, out.String(), "clamped")
	assert.Contains(t, out.String(), "roughness")
}

func TestSelectorRejectsUnknown(t *testing.T) {
	_, err := NewSelector("toon", PolicyReject)
	assert.Error(t, err)
	_, err = NewSelector(SchemaPBR, "ignore")
	assert.Error(t, err)
	_, err = ParseSchema("emissive")
	assert.NoError(t, err)
	_, err = ParsePolicy("clamp")
	assert.NoError(t, err)
}

const tomlMaterials = `
[[material]]
name = "brick"
base_color = [0.8, 0.2, 0.2]
roughness = 0.7

[[material]]
name = "lamp"
emission_color = [4.0, 3.0, 1.0]
shininess = 8
`

const yamlMaterials = `
material:
  - name: brick
    base_color: [0.8, 0.2, 0.2]
    roughness: 0.7
  - name: lamp
    emission_color: [4.0, 3.0, 1.0]
    shininess: 8
`

func TestDecodeFormats(t *testing.T) {
	for format, data := range map[Format]string{FormatTOML: tomlMaterials, FormatYAML: yamlMaterials} {
		t.Run(string(format), func(t *testing.T) {
			materials, err := Decode([]byte(data), format)
			require.NoError(t, err)
			require.Len(t, materials, 2)

			brick := materials[0]
			assert.Equal(t, "brick", brick.Name)
			assert.Equal(t, mgl32.Vec3{0.8, 0.2, 0.2}, brick.BaseColor)
			assert.Equal(t, float32(0.7), brick.Roughness)
			assert.Equal(t, DefaultShininess, brick.Shininess)
			assert.Equal(t, DefaultAmbientOcclusion, brick.AmbientOcclusion)

			lamp := materials[1]
			assert.Equal(t, mgl32.Vec3{4, 3, 1}, lamp.EmissionColor)
			assert.Equal(t, float32(8), lamp.Shininess)
			assert.Equal(t, DefaultRoughness, lamp.Roughness)
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode([]byte("[[material]]\nname = \"x\"\nglossiness = 3\n"), FormatTOML)
	assert.Error(t, err)
	_, err = Decode([]byte("material:\n  - name: x\n    glossiness: 3\n"), FormatYAML)
	assert.Error(t, err)
	_, err = Decode([]byte("[[material]]\nroughness = 0.5\n"), FormatTOML)
	assert.ErrorContains(t, err, "no name")
	_, err = Decode([]byte("{}"), "json")
	assert.Error(t, err)

	materials, err := Decode(nil, FormatYAML)
	require.NoError(t, err)
	assert.Empty(t, materials)
}

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
}

func TestLibraryLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.toml"), tomlMaterials)
	writeFile(t, filepath.Join(dir, "b.yml"), "material:\n  - name: glass\n    roughness: 0.05\n  - name: bad\n    metallic: 7\n")
	writeFile(t, filepath.Join(dir, "notes.txt"), "ignored")

	s, err := NewSelector(SchemaPBR, PolicyReject)
	require.NoError(t, err)
	lib := NewLibrary(s)

	err = lib.LoadDir(dir)
	require.ErrorIs(t, err, common.ErrMaterialValidation)
	assert.Equal(t, []string{"bad", "brick", "glass", "lamp"}, lib.Names())

	bad, ok := lib.Get("bad")
	require.True(t, ok)
	assert.Equal(t, Fallback(SchemaPBR), bad)

	assert.Equal(t, Fallback(SchemaPBR), lib.Resolve("missing"))
	glass := lib.Resolve("glass").(*GPUPBRMaterial)
	assert.Equal(t, float32(0.05), glass.Roughness)

	// a duplicate name publishes nothing
	writeFile(t, filepath.Join(dir, "c.toml"), "[[material]]\nname = \"glass\"\n")
	err = lib.LoadDir(dir)
	assert.ErrorContains(t, err, "defined twice")
	assert.Len(t, lib.Names(), 4)

	require.NoError(t, lib.Add(NewAuthored(WithName("chrome"), WithMetallic(1))))
	assert.Contains(t, lib.Names(), "chrome")
	assert.Error(t, lib.Add(NewAuthored()))
}

// replaceFile swaps in new contents with a rename so the watcher never reads a
// half-written file.
func replaceFile(t *testing.T, path, data string) {
	t.Helper()
	tmp := path + ".tmp"
	writeFile(t, tmp, data)
	require.NoError(t, os.Rename(tmp, path))
}

func TestWatcherReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.toml")
	writeFile(t, path, "[[material]]\nname = \"wall\"\nbase_color = [0.5, 0.5, 0.5]\n")

	s, err := NewSelector(SchemaEmissive, PolicyReject)
	require.NoError(t, err)
	lib := NewLibrary(s)
	w, err := NewWatcher(lib, dir)
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })

	wall, ok := lib.Get("wall")
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec3{0.5, 0.5, 0.5}, wall.Shading().BaseColor)

	replaceFile(t, path, "[[material]]\nname = \"wall\"\nbase_color = [0.9, 0.1, 0.1]\nemission_color = [1.0, 0.0, 0.0]\n")
	require.Eventually(t, func() bool {
		wall, ok := lib.Get("wall")
		return ok && wall.Shading().BaseColor == mgl32.Vec3{0.9, 0.1, 0.1}
	}, 5*time.Second, 20*time.Millisecond)

	// a broken file keeps the previous generation
	replaceFile(t, path, "[[material]\n")
	timeout := time.After(5 * time.Second)
	for failed := false; !failed; {
		select {
		case err := <-w.Reloads():
			failed = err != nil
		case <-timeout:
			t.Fatal("no failed reload after broken write")
		}
	}
	wall, ok = lib.Get("wall")
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, wall.Shading().EmissionColor)

	require.NoError(t, w.Close())
	assert.NoError(t, w.Close())
}
