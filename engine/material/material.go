package material

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Schema names the material record layout a pipeline is built against. Exactly one
// schema is active per pipeline configuration.
type Schema string

const (
	// SchemaPBR selects GPUPBRMaterial.
	SchemaPBR Schema = "pbr"
	// SchemaEmissive selects GPUEmissiveMaterial.
	SchemaEmissive Schema = "emissive"
)

// ParseSchema converts a configuration value into a Schema.
//
// Parameters:
//   - s: "pbr" or "emissive"
//
// Returns:
//   - Schema: the schema
//   - error: non-nil for any other value
func ParseSchema(s string) (Schema, error) {
	switch Schema(s) {
	case SchemaPBR, SchemaEmissive:
		return Schema(s), nil
	}
	return "", fmt.Errorf("unknown material schema %q", s)
}

// Source returns the WGSL struct declaration for the schema's record.
func (s Schema) Source() string {
	if s == SchemaEmissive {
		return GPUEmissiveMaterialSource
	}
	return GPUPBRMaterialSource
}

// StructName returns the WGSL struct name declared by Source.
func (s Schema) StructName() string {
	if s == SchemaEmissive {
		return "EmissiveMaterial"
	}
	return "PBRMaterial"
}

// Policy decides what the Selector does with authored values out of range.
type Policy string

const (
	// PolicyReject returns the schema's fallback material with a validation error.
	PolicyReject Policy = "reject"
	// PolicyClamp pulls values into range, logs a warning, and returns no error.
	PolicyClamp Policy = "clamp"
)

// ParsePolicy converts a configuration value into a Policy.
//
// Parameters:
//   - s: "reject" or "clamp"
//
// Returns:
//   - Policy: the policy
//   - error: non-nil for any other value
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyReject, PolicyClamp:
		return Policy(s), nil
	}
	return "", fmt.Errorf("unknown material policy %q", s)
}

// Defaults applied before options and before decoding a material file.
var (
	DefaultBaseColor        = mgl32.Vec3{1, 1, 1}
	DefaultSpecularColor    = mgl32.Vec3{0.5, 0.5, 0.5}
	DefaultAmbientOcclusion = mgl32.Vec3{1, 1, 1}
)

const (
	DefaultRoughness float32 = 1
	DefaultMetallic  float32 = 0
	DefaultShininess float32 = 32
)

// Authored holds the surface properties as written by an artist or a material file,
// before validation. It carries the union of both schemas' fields; the Selector
// picks the ones its schema uses.
type Authored struct {
	Name             string     `toml:"name" yaml:"name"`
	BaseColor        mgl32.Vec3 `toml:"base_color" yaml:"base_color"`
	SpecularColor    mgl32.Vec3 `toml:"specular_color" yaml:"specular_color"`
	EmissionColor    mgl32.Vec3 `toml:"emission_color" yaml:"emission_color"`
	AmbientOcclusion mgl32.Vec3 `toml:"ambient_occlusion" yaml:"ambient_occlusion"`
	Roughness        float32    `toml:"roughness" yaml:"roughness"`
	Metallic         float32    `toml:"metallic" yaml:"metallic"`
	Shininess        float32    `toml:"shininess" yaml:"shininess"`
}

// NewAuthored creates an Authored material from the defaults and applies the options.
//
// Parameters:
//   - options: functional options to configure the material
//
// Returns:
//   - Authored: the material description
func NewAuthored(options ...MaterialBuilderOption) Authored {
	a := Authored{
		BaseColor:        DefaultBaseColor,
		SpecularColor:    DefaultSpecularColor,
		AmbientOcclusion: DefaultAmbientOcclusion,
		Roughness:        DefaultRoughness,
		Metallic:         DefaultMetallic,
		Shininess:        DefaultShininess,
	}
	for _, opt := range options {
		opt(&a)
	}
	return a
}

// Fallback returns the record bound in place of a rejected material: the default
// surface for the schema.
//
// Parameters:
//   - schema: the active schema
//
// Returns:
//   - GPUMaterial: a record that passes validation
func Fallback(schema Schema) GPUMaterial {
	return populate(schema, NewAuthored())
}

// populate copies the schema's fields from a into a GPU record without checking them.
func populate(schema Schema, a Authored) GPUMaterial {
	if schema == SchemaEmissive {
		return &GPUEmissiveMaterial{
			EmissionColor: a.EmissionColor,
			BaseColor:     a.BaseColor,
			SpecularColor: a.SpecularColor,
			Shininess:     a.Shininess,
		}
	}
	return &GPUPBRMaterial{
		BaseColor:        a.BaseColor,
		SpecularColor:    a.SpecularColor,
		Roughness:        a.Roughness,
		Metallic:         a.Metallic,
		AmbientOcclusion: a.AmbientOcclusion,
		Shininess:        a.Shininess,
	}
}
