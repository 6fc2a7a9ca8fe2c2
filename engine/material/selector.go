package material

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/Carmen-Shannon/oxy-shade/common"
	"github.com/go-gl/mathgl/mgl32"
)

// MinShininess is the exponent a non-positive shininess is clamped to.
const MinShininess float32 = 1

// MaterialValidationError describes one authored value outside its valid range.
type MaterialValidationError struct {
	Material string
	Field    string
	Value    float32
	Reason   string
}

func (e *MaterialValidationError) Error() string {
	return fmt.Sprintf("%s: material %q: %s = %g: %s", common.ErrMaterialValidation, e.Material, e.Field, e.Value, e.Reason)
}

func (e *MaterialValidationError) Unwrap() error {
	return common.ErrMaterialValidation
}

// check is one scalar rule over a field of an Authored value.
type check struct {
	field    string
	value    *float32
	lo, hi   float32
	positive bool
	fallback float32
}

// fix returns the in-range replacement for the current value and why it was needed,
// or ok if the value already satisfies the rule.
func (c check) fix() (replacement float32, reason string, ok bool) {
	v := *c.value
	switch {
	case !common.Finite(v):
		return c.fallback, "not finite", false
	case c.positive && v <= 0:
		return MinShininess, "must be positive", false
	case v < c.lo:
		return c.lo, fmt.Sprintf("below %g", c.lo), false
	case v > c.hi:
		return c.hi, fmt.Sprintf("above %g", c.hi), false
	}
	return v, "", true
}

// checks lists the rules for every field the schema binds, pointing into a.
func checks(schema Schema, a *Authored) []check {
	inf := float32(math.Inf(1))
	var cs []check
	color := func(name string, v *mgl32.Vec3, def mgl32.Vec3, hi float32) {
		for i, ch := range [3]string{"r", "g", "b"} {
			cs = append(cs, check{field: name + "." + ch, value: &v[i], hi: hi, fallback: def[i]})
		}
	}

	color("base_color", &a.BaseColor, DefaultBaseColor, inf)
	color("specular_color", &a.SpecularColor, DefaultSpecularColor, inf)
	cs = append(cs, check{field: "shininess", value: &a.Shininess, hi: inf, positive: true, fallback: DefaultShininess})

	switch schema {
	case SchemaPBR:
		cs = append(cs,
			check{field: "roughness", value: &a.Roughness, hi: 1, fallback: DefaultRoughness},
			check{field: "metallic", value: &a.Metallic, hi: 1, fallback: DefaultMetallic},
		)
		color("ambient_occlusion", &a.AmbientOcclusion, DefaultAmbientOcclusion, 1)
	case SchemaEmissive:
		color("emission_color", &a.EmissionColor, mgl32.Vec3{}, inf)
	}
	return cs
}

// Validate reports every field of a that the schema binds and that is out of range.
// Colors must be finite and non-negative (values above 1 are allowed), roughness,
// metallic and ambient occlusion must lie in [0, 1], and shininess must be positive.
//
// Parameters:
//   - schema: the schema whose fields are checked
//   - a: the authored material
//
// Returns:
//   - error: nil, or every *MaterialValidationError joined
func Validate(schema Schema, a Authored) error {
	var errs []error
	for _, c := range checks(schema, &a) {
		if _, reason, ok := c.fix(); !ok {
			errs = append(errs, &MaterialValidationError{Material: a.Name, Field: c.field, Value: *c.value, Reason: reason})
		}
	}
	return errors.Join(errs...)
}

// Clamp pulls every out-of-range field the schema binds back into range. Non-finite
// values take the field's default.
//
// Parameters:
//   - schema: the schema whose fields are clamped
//   - a: the authored material
//
// Returns:
//   - Authored: the clamped copy
//   - []string: the names of the fields that changed
func Clamp(schema Schema, a Authored) (Authored, []string) {
	var changed []string
	for _, c := range checks(schema, &a) {
		if v, _, ok := c.fix(); !ok {
			*c.value = v
			changed = append(changed, c.field)
		}
	}
	return a, changed
}

// Selector resolves authored materials into the GPU record for one pipeline schema.
type Selector struct {
	schema Schema
	policy Policy
}

// NewSelector creates a Selector.
//
// Parameters:
//   - schema: the pipeline's material schema
//   - policy: what to do with out-of-range values
//
// Returns:
//   - *Selector: the selector
//   - error: non-nil if schema or policy is unknown
func NewSelector(schema Schema, policy Policy) (*Selector, error) {
	if _, err := ParseSchema(string(schema)); err != nil {
		return nil, err
	}
	if _, err := ParsePolicy(string(policy)); err != nil {
		return nil, err
	}
	return &Selector{schema: schema, policy: policy}, nil
}

// Schema returns the schema the selector produces records for.
func (s *Selector) Schema() Schema {
	return s.schema
}

// Policy returns the selector's out-of-range policy.
func (s *Selector) Policy() Policy {
	return s.policy
}

// Select validates a and builds the schema's GPU record from it. Under PolicyReject an
// invalid material yields Fallback(schema) together with the validation errors; under
// PolicyClamp it is clamped, a warning is logged, and no error is returned.
//
// Parameters:
//   - a: the authored material
//
// Returns:
//   - GPUMaterial: a record whose values are all in range
//   - error: validation errors wrapping common.ErrMaterialValidation, or nil
func (s *Selector) Select(a Authored) (GPUMaterial, error) {
	err := Validate(s.schema, a)
	if err == nil {
		return populate(s.schema, a), nil
	}
	if s.policy == PolicyClamp {
		clamped, changed := Clamp(s.schema, a)
		common.LogWarn("material %q: clamped %s", a.Name, strings.Join(changed, ", "))
		return populate(s.schema, clamped), nil
	}
	return Fallback(s.schema), err
}
