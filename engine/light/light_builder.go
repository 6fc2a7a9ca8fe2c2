package light

import "github.com/go-gl/mathgl/mgl32"

// Defaults applied before options, matching the scene defaults the shaders were tuned against.
var (
	DefaultColor         = mgl32.Vec3{1, 1, 1}
	DefaultSpecularColor = mgl32.Vec3{0.6, 0.6, 0.6}
	DefaultAttenuation   = mgl32.Vec3{1, 0, 0}
)

const (
	DefaultIntensity       float32 = 1
	DefaultConeAngleDeg    float32 = 40
	DefaultConeAttenuation float32 = 8
)

// lightParams collects every option; each constructor reads the fields its kind carries.
type lightParams struct {
	emitter         Emitter
	attenuation     mgl32.Vec3
	coneAngle       float32
	coneAttenuation float32
}

// LightBuilderOption is a function that configures a light during construction.
type LightBuilderOption func(*lightParams)

func newParams(opts []LightBuilderOption) lightParams {
	p := lightParams{
		emitter: Emitter{
			Color:         DefaultColor,
			SpecularColor: DefaultSpecularColor,
			Intensity:     DefaultIntensity,
		},
		attenuation:     DefaultAttenuation,
		coneAngle:       mgl32.DegToRad(DefaultConeAngleDeg),
		coneAttenuation: DefaultConeAttenuation,
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// WithColor is an option builder that sets the RGB color of the light.
//
// Parameters:
//   - r: the red color component
//   - g: the green color component
//   - b: the blue color component
//
// Returns:
//   - LightBuilderOption: a function that applies the color option
func WithColor(r, g, b float32) LightBuilderOption {
	return func(p *lightParams) {
		p.emitter.Color = mgl32.Vec3{r, g, b}
	}
}

// WithSpecularColor is an option builder that sets the color of specular highlights.
//
// Parameters:
//   - r: the red color component
//   - g: the green color component
//   - b: the blue color component
//
// Returns:
//   - LightBuilderOption: a function that applies the specular color option
func WithSpecularColor(r, g, b float32) LightBuilderOption {
	return func(p *lightParams) {
		p.emitter.SpecularColor = mgl32.Vec3{r, g, b}
	}
}

// WithIntensity is an option builder that sets the scalar intensity multiplier.
//
// Parameters:
//   - intensity: the intensity value
//
// Returns:
//   - LightBuilderOption: a function that applies the intensity option
func WithIntensity(intensity float32) LightBuilderOption {
	return func(p *lightParams) {
		p.emitter.Intensity = intensity
	}
}

// WithAttenuation is an option builder that sets the constant, linear and quadratic
// distance falloff for point and spot lights. Other kinds ignore it.
//
// Parameters:
//   - constant: the constant term
//   - linear: the coefficient on distance
//   - quadratic: the coefficient on squared distance
//
// Returns:
//   - LightBuilderOption: a function that applies the attenuation option
func WithAttenuation(constant, linear, quadratic float32) LightBuilderOption {
	return func(p *lightParams) {
		p.attenuation = mgl32.Vec3{constant, linear, quadratic}
	}
}

// WithCone is an option builder that sets the spotlight cone. Other kinds ignore it.
//
// Parameters:
//   - angleDeg: the cone half-angle in degrees
//   - attenuation: the exponent applied to the angular falloff
//
// Returns:
//   - LightBuilderOption: a function that applies the cone option
func WithCone(angleDeg, attenuation float32) LightBuilderOption {
	return func(p *lightParams) {
		p.coneAngle = mgl32.DegToRad(angleDeg)
		p.coneAttenuation = attenuation
	}
}

// normalize returns v scaled to unit length, or v unchanged if it has zero length.
func normalize(v mgl32.Vec3) mgl32.Vec3 {
	if v.Len() == 0 {
		return v
	}
	return v.Normalize()
}
