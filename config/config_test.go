package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-shade/engine/material"
	"github.com/Carmen-Shannon/oxy-shade/engine/transform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, material.SchemaPBR, cfg.MaterialSchema())
	assert.Equal(t, material.PolicyReject, cfg.MaterialPolicy())
	assert.Equal(t, transform.PolicyFallback, cfg.TransformPolicy())
	assert.False(t, cfg.Tiled())
	assert.False(t, cfg.Pipeline.Shadows)
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
[lights]
capacity = 8

[materials]
schema = "emissive"
policy = "clamp"
dir = "assets/materials"

[transform]
invalid_policy = "propagate"

[pipeline]
shadows = true
tiling = 4
workers = 2

[log]
level = "debug"
`))
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Lights.Capacity)
	assert.Equal(t, material.SchemaEmissive, cfg.MaterialSchema())
	assert.Equal(t, material.PolicyClamp, cfg.MaterialPolicy())
	assert.Equal(t, "assets/materials", cfg.Materials.Dir)
	assert.Equal(t, transform.PolicyPropagate, cfg.TransformPolicy())
	assert.True(t, cfg.Pipeline.Shadows)
	assert.True(t, cfg.Tiled())
	assert.Equal(t, uint32(4), cfg.Pipeline.Tiling)
	assert.Equal(t, 2, cfg.Pipeline.Workers)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestParseKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte("[pipeline]\nshadows = true\n"))
	require.NoError(t, err)
	want := Default()
	want.Pipeline.Shadows = true
	assert.Equal(t, want, cfg)

	cfg, err = Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseRejects(t *testing.T) {
	cases := map[string]string{
		"unknown key":       "[lights]\ncount = 3\n",
		"syntax":            "[lights\n",
		"zero capacity":     "[lights]\ncapacity = 0\n",
		"huge capacity":     "[lights]\ncapacity = 5000\n",
		"schema":            "[materials]\nschema = \"toon\"\n",
		"policy":            "[materials]\npolicy = \"ignore\"\n",
		"transform policy":  "[transform]\ninvalid_policy = \"panic\"\n",
		"workers":           "[pipeline]\nworkers = 0\n",
		"log level":         "[log]\nlevel = \"loud\"\n",
		"wrong value types": "[pipeline]\nshadows = \"yes\"\n",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(data))
			assert.Error(t, err)
		})
	}
}

func TestValidateJoinsErrors(t *testing.T) {
	cfg := Default()
	cfg.Lights.Capacity = -1
	cfg.Pipeline.Workers = 0
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lights.capacity")
	assert.Contains(t, err.Error(), "pipeline.workers")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shade.toml")
	require.NoError(t, os.WriteFile(path, []byte("[lights]\ncapacity = 2\n"), 0o644))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Lights.Capacity)
	require.NoError(t, cfg.Apply())

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
