package material

import "github.com/go-gl/mathgl/mgl32"

// MaterialBuilderOption is a function that configures an authored material during construction.
type MaterialBuilderOption func(*Authored)

// WithName is an option builder that sets the name of the material.
//
// Parameters:
//   - name: the identifier for the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(a *Authored) {
		a.Name = name
	}
}

// WithBaseColor is an option builder that sets the albedo of the material.
//
// Parameters:
//   - color: the base color as RGB, channels may exceed 1
//
// Returns:
//   - MaterialBuilderOption: a function that applies the base color option to a material
func WithBaseColor(color mgl32.Vec3) MaterialBuilderOption {
	return func(a *Authored) {
		a.BaseColor = color
	}
}

// WithSpecularColor is an option builder that sets the tint of specular highlights.
//
// Parameters:
//   - color: the specular color as RGB
//
// Returns:
//   - MaterialBuilderOption: a function that applies the specular color option to a material
func WithSpecularColor(color mgl32.Vec3) MaterialBuilderOption {
	return func(a *Authored) {
		a.SpecularColor = color
	}
}

// WithEmissionColor is an option builder that sets the self-illumination of the material.
// Only the emissive schema binds it.
//
// Parameters:
//   - color: the emission color as RGB
//
// Returns:
//   - MaterialBuilderOption: a function that applies the emission option to a material
func WithEmissionColor(color mgl32.Vec3) MaterialBuilderOption {
	return func(a *Authored) {
		a.EmissionColor = color
	}
}

// WithRoughness is an option builder that sets the roughness factor of the material.
//
// Parameters:
//   - roughness: the roughness factor (0.0 = smooth, 1.0 = fully rough)
//
// Returns:
//   - MaterialBuilderOption: a function that applies the roughness option to a material
func WithRoughness(roughness float32) MaterialBuilderOption {
	return func(a *Authored) {
		a.Roughness = roughness
	}
}

// WithMetallic is an option builder that sets the metallic factor of the material.
//
// Parameters:
//   - metallic: the metallic factor (0.0 = dielectric, 1.0 = metal)
//
// Returns:
//   - MaterialBuilderOption: a function that applies the metallic option to a material
func WithMetallic(metallic float32) MaterialBuilderOption {
	return func(a *Authored) {
		a.Metallic = metallic
	}
}

// WithAmbientOcclusion is an option builder that sets the per-channel ambient multiplier.
//
// Parameters:
//   - ao: the ambient occlusion factors
//
// Returns:
//   - MaterialBuilderOption: a function that applies the ambient occlusion option to a material
func WithAmbientOcclusion(ao mgl32.Vec3) MaterialBuilderOption {
	return func(a *Authored) {
		a.AmbientOcclusion = ao
	}
}

// WithShininess is an option builder that sets the Phong specular exponent.
//
// Parameters:
//   - shininess: the exponent, must be positive
//
// Returns:
//   - MaterialBuilderOption: a function that applies the shininess option to a material
func WithShininess(shininess float32) MaterialBuilderOption {
	return func(a *Authored) {
		a.Shininess = shininess
	}
}
