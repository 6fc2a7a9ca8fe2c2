package light

import (
	"errors"
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-shade/common"
	"github.com/go-gl/mathgl/mgl32"
)

// LightValidationError reports one field of a submitted light that no shader can use.
type LightValidationError struct {
	// Index is the light's position in the submitted list.
	Index  int
	Kind   LightType
	Field  string
	Value  float32
	Reason string
}

func (e *LightValidationError) Error() string {
	return fmt.Sprintf("%s: %s %d: %s = %g %s", common.ErrInvalidLight, e.Kind, e.Index, e.Field, e.Value, e.Reason)
}

func (e *LightValidationError) Unwrap() error {
	return common.ErrInvalidLight
}

type lightCheck struct {
	index int
	kind  LightType
	errs  []error
}

func (c *lightCheck) fail(field string, v float32, reason string) {
	c.errs = append(c.errs, &LightValidationError{Index: c.index, Kind: c.kind, Field: field, Value: v, Reason: reason})
}

func (c *lightCheck) finite(field string, v mgl32.Vec3) {
	for i, ch := range []string{"x", "y", "z"} {
		if !common.Finite(v[i]) {
			c.fail(field+"."+ch, v[i], "is not finite")
		}
	}
}

func (c *lightCheck) nonNegative(field string, v mgl32.Vec3) {
	for i, ch := range []string{"r", "g", "b"} {
		switch {
		case !common.Finite(v[i]):
			c.fail(field+"."+ch, v[i], "is not finite")
		case v[i] < 0:
			c.fail(field+"."+ch, v[i], "is negative")
		}
	}
}

func (c *lightCheck) direction(field string, v mgl32.Vec3) {
	before := len(c.errs)
	c.finite(field, v)
	if len(c.errs) == before && v.Len() == 0 {
		c.fail(field, 0, "has zero length")
	}
}

func (c *lightCheck) attenuation(v mgl32.Vec3) {
	before := len(c.errs)
	for i, term := range []string{"constant", "linear", "quadratic"} {
		switch {
		case !common.Finite(v[i]):
			c.fail("attenuation."+term, v[i], "is not finite")
		case v[i] < 0:
			c.fail("attenuation."+term, v[i], "is negative")
		}
	}
	if len(c.errs) == before && v[0]+v[1]+v[2] == 0 {
		c.fail("attenuation", 0, "has no positive term")
	}
}

// ValidateLight checks every field the light's kind carries: colors and intensity
// finite and non-negative, positions finite, directions finite and non-zero,
// attenuation non-negative with at least one positive term, cone angle in [0, pi].
//
// Parameters:
//   - index: the light's position in the submitted list, used in the errors
//   - l: the light
//
// Returns:
//   - error: nil, or every *LightValidationError joined
func ValidateLight(index int, l Light) error {
	c := &lightCheck{index: index, kind: l.Type()}

	e := l.Emission()
	c.nonNegative("color", e.Color)
	c.nonNegative("specular_color", e.SpecularColor)
	switch {
	case !common.Finite(e.Intensity):
		c.fail("intensity", e.Intensity, "is not finite")
	case e.Intensity < 0:
		c.fail("intensity", e.Intensity, "is negative")
	}

	switch v := l.(type) {
	case Sun:
		c.direction("to_light", v.ToLight)
	case Point:
		c.finite("position", v.Position)
		c.attenuation(v.Attenuation)
	case Spot:
		c.finite("position", v.Position)
		c.attenuation(v.Attenuation)
		c.direction("cone_direction", v.ConeDirection)
		if !common.Finite(v.ConeAngle) || v.ConeAngle < 0 || v.ConeAngle > math.Pi {
			c.fail("cone_angle", v.ConeAngle, "is outside [0, pi]")
		}
		switch {
		case !common.Finite(v.ConeAttenuation):
			c.fail("cone_attenuation", v.ConeAttenuation, "is not finite")
		case v.ConeAttenuation < 0:
			c.fail("cone_attenuation", v.ConeAttenuation, "is negative")
		}
	}
	return errors.Join(c.errs...)
}
