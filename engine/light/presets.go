package light

import "github.com/go-gl/mathgl/mgl32"

// DefaultSun is a white sun high over the scene.
func DefaultSun() Sun {
	return NewSun(mgl32.Vec3{1, 2, -2})
}

// DefaultAmbient is a faint green-tinted fill.
func DefaultAmbient() Ambient {
	return NewAmbient(WithColor(0.05, 0.1, 0), WithIntensity(1))
}

// DefaultRedPoint is a red point light with steep falloff.
func DefaultRedPoint() Point {
	return NewPoint(mgl32.Vec3{-0.8, 0.76, -0.18},
		WithColor(1, 0, 0),
		WithAttenuation(0.5, 2, 1),
	)
}

// DefaultMagentaSpot is a magenta spotlight with a 40 degree cone.
func DefaultMagentaSpot() Spot {
	return NewSpot(mgl32.Vec3{-0.64, 0.64, -1.07}, mgl32.Vec3{0.5, -0.7, 1},
		WithColor(1, 0, 1),
		WithAttenuation(1, 0.5, 0),
		WithCone(40, 8),
	)
}

// DefaultScene returns the four preset lights in submission order: sun, ambient, point, spot.
func DefaultScene() []Light {
	return []Light{DefaultSun(), DefaultAmbient(), DefaultRedPoint(), DefaultMagentaSpot()}
}
