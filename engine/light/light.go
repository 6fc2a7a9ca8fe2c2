package light

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// LightType is the tag stored in every GPU light record.
type LightType uint32

const (
	// LightTypeUnused marks an empty slot. Consumers skip it regardless of the
	// other fields, so a slot can be retired by overwriting only the tag.
	LightTypeUnused LightType = iota

	// Sunlight is a distant source with no position, only a direction. Affects all
	// fragments uniformly with no distance attenuation.
	Sunlight

	// Spotlight emits in a cone from a position along a direction. Attenuates with
	// distance and with the angle from the cone axis.
	Spotlight

	// Pointlight emits in all directions from a position and attenuates with distance.
	Pointlight

	// Ambientlight adds a constant term to every fragment.
	Ambientlight

	lightTypeCount
)

func (t LightType) String() string {
	switch t {
	case LightTypeUnused:
		return "unused"
	case Sunlight:
		return "sunlight"
	case Spotlight:
		return "spotlight"
	case Pointlight:
		return "pointlight"
	case Ambientlight:
		return "ambientlight"
	}
	return fmt.Sprintf("LightType(%d)", uint32(t))
}

// Valid reports whether t is one of the defined tags, including LightTypeUnused.
func (t LightType) Valid() bool {
	return t < lightTypeCount
}

// Emitter holds the fields every light kind shares.
type Emitter struct {
	Color         mgl32.Vec3
	SpecularColor mgl32.Vec3
	Intensity     float32
}

// Light is a closed set of light kinds: Sun, Spot, Point and Ambient. Each kind
// carries only the fields that mean something for it, so reading a cone from a
// Sun is a compile error rather than a zero value.
type Light interface {
	// Type returns the tag written into the GPU record.
	//
	// Returns:
	//   - LightType: the light kind
	Type() LightType

	// Emission returns the shared color, specular color and intensity.
	//
	// Returns:
	//   - Emitter: the shared fields
	Emission() Emitter

	gpuLight() GPULight
}

// Sun is a directional light. ToLight points from the scene toward the light and is
// carried in the position slot of the GPU record; consumers only ever read it as a
// direction and never attenuate it.
type Sun struct {
	Emitter
	ToLight mgl32.Vec3
}

// Point is an omnidirectional light with distance attenuation.
type Point struct {
	Emitter
	Position mgl32.Vec3
	// Attenuation holds the constant, linear and quadratic falloff coefficients.
	Attenuation mgl32.Vec3
}

// Spot is a cone light with distance and angular attenuation.
type Spot struct {
	Emitter
	Position    mgl32.Vec3
	Attenuation mgl32.Vec3
	// ConeDirection is the unit axis of the cone.
	ConeDirection mgl32.Vec3
	// ConeAngle is the half-angle of the cone in radians.
	ConeAngle float32
	// ConeAttenuation is the exponent applied to the angular falloff.
	ConeAttenuation float32
}

// Ambient is a constant term added to every lit fragment.
type Ambient struct {
	Emitter
}

var (
	_ Light = Sun{}
	_ Light = Point{}
	_ Light = Spot{}
	_ Light = Ambient{}
)

func (Sun) Type() LightType     { return Sunlight }
func (Point) Type() LightType   { return Pointlight }
func (Spot) Type() LightType    { return Spotlight }
func (Ambient) Type() LightType { return Ambientlight }

func (l Sun) Emission() Emitter     { return l.Emitter }
func (l Point) Emission() Emitter   { return l.Emitter }
func (l Spot) Emission() Emitter    { return l.Emitter }
func (l Ambient) Emission() Emitter { return l.Emitter }

func (l Sun) gpuLight() GPULight {
	g := l.Emitter.gpuLight(Sunlight)
	g.Position = l.ToLight
	return g
}

func (l Point) gpuLight() GPULight {
	g := l.Emitter.gpuLight(Pointlight)
	g.Position = l.Position
	g.Attenuation = l.Attenuation
	return g
}

func (l Spot) gpuLight() GPULight {
	g := l.Emitter.gpuLight(Spotlight)
	g.Position = l.Position
	g.Attenuation = l.Attenuation
	g.ConeDirection = l.ConeDirection
	g.ConeAngle = l.ConeAngle
	g.ConeAttenuation = l.ConeAttenuation
	return g
}

func (l Ambient) gpuLight() GPULight {
	return l.Emitter.gpuLight(Ambientlight)
}

func (e Emitter) gpuLight(t LightType) GPULight {
	return GPULight{
		Color:         e.Color,
		SpecularColor: e.SpecularColor,
		Intensity:     e.Intensity,
		LightType:     uint32(t),
		// constant-only attenuation keeps a 1/att consumer finite for every kind
		Attenuation: mgl32.Vec3{1, 0, 0},
	}
}

// NewSun creates a sunlight shining from toLight.
//
// Parameters:
//   - toLight: direction from the scene toward the sun; normalized on the way in
//   - opts: shared emitter options
//
// Returns:
//   - Sun: the light
func NewSun(toLight mgl32.Vec3, opts ...LightBuilderOption) Sun {
	p := newParams(opts)
	return Sun{Emitter: p.emitter, ToLight: normalize(toLight)}
}

// NewPoint creates a point light at position.
//
// Parameters:
//   - position: world-space position
//   - opts: shared emitter options and WithAttenuation
//
// Returns:
//   - Point: the light
func NewPoint(position mgl32.Vec3, opts ...LightBuilderOption) Point {
	p := newParams(opts)
	return Point{Emitter: p.emitter, Position: position, Attenuation: p.attenuation}
}

// NewSpot creates a spotlight at position aimed along direction.
//
// Parameters:
//   - position: world-space position
//   - direction: cone axis; normalized on the way in
//   - opts: shared emitter options, WithAttenuation and WithCone
//
// Returns:
//   - Spot: the light
func NewSpot(position, direction mgl32.Vec3, opts ...LightBuilderOption) Spot {
	p := newParams(opts)
	return Spot{
		Emitter:         p.emitter,
		Position:        position,
		Attenuation:     p.attenuation,
		ConeDirection:   normalize(direction),
		ConeAngle:       p.coneAngle,
		ConeAttenuation: p.coneAttenuation,
	}
}

// NewAmbient creates an ambient term.
//
// Parameters:
//   - opts: shared emitter options
//
// Returns:
//   - Ambient: the light
func NewAmbient(opts ...LightBuilderOption) Ambient {
	p := newParams(opts)
	return Ambient{Emitter: p.emitter}
}
