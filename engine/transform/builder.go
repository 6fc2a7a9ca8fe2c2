// Package transform builds the per-draw transform uniforms: model, view, projection,
// the derived normal matrix and, for shadowed pipelines, the shadow caster matrix.
package transform

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-shade/common"
	"github.com/go-gl/mathgl/mgl32"
)

// InvalidPolicy decides what the Builder hands back when a model matrix is unusable.
type InvalidPolicy int

const (
	// PolicyFallback substitutes an identity normal matrix (and an identity model
	// matrix if the model is not finite) and still returns the error for reporting.
	PolicyFallback InvalidPolicy = iota

	// PolicyPropagate returns a zero value along with the error.
	PolicyPropagate
)

func (p InvalidPolicy) String() string {
	switch p {
	case PolicyFallback:
		return "fallback"
	case PolicyPropagate:
		return "propagate"
	}
	return fmt.Sprintf("InvalidPolicy(%d)", int(p))
}

// ParseInvalidPolicy reads a policy name as written in configuration.
//
// Parameters:
//   - s: "fallback" or "propagate", case-insensitive
//
// Returns:
//   - InvalidPolicy: the policy
//   - error: non-nil for any other name
func ParseInvalidPolicy(s string) (InvalidPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fallback", "":
		return PolicyFallback, nil
	case "propagate":
		return PolicyPropagate, nil
	}
	return PolicyFallback, fmt.Errorf("unknown invalid transform policy %q", s)
}

// Builder produces transform uniforms. It holds no per-draw state, so one Builder
// can serve any number of concurrent draws.
type Builder struct {
	policy InvalidPolicy
}

// NewBuilder creates a Builder with the given invalid-transform policy.
//
// Parameters:
//   - policy: what to return for an unusable model matrix
//
// Returns:
//   - *Builder: the builder
func NewBuilder(policy InvalidPolicy) *Builder {
	return &Builder{policy: policy}
}

// Policy returns the builder's invalid-transform policy.
func (b *Builder) Policy() InvalidPolicy {
	return b.policy
}

// Build assembles the uniforms for one draw. The normal matrix is always derived
// from model here and never taken from the caller.
//
// Parameters:
//   - model: the draw's world transform
//   - view: the camera view matrix
//   - projection: the camera projection matrix
//
// Returns:
//   - GPUUniforms: the uniforms, or the policy's substitute if model is unusable
//   - error: an error wrapping common.ErrInvalidTransform if model is unusable
func (b *Builder) Build(model, view, projection mgl32.Mat4) (GPUUniforms, error) {
	normal, err := NormalMatrix(model)
	if err == nil && !common.Finite(model[:]...) {
		err = fmt.Errorf("%w: model translation is not finite", common.ErrInvalidTransform)
	}
	if err != nil {
		if b.policy == PolicyPropagate {
			return GPUUniforms{}, err
		}
		if !common.Finite(model[:]...) {
			model = mgl32.Ident4()
		}
	}
	return GPUUniforms{
		ModelMatrix:      model,
		ViewMatrix:       view,
		ProjectionMatrix: projection,
		NormalMatrix:     common.PadMat3(normal),
	}, err
}

// BuildShadowed is Build plus the shadow caster's view-projection.
//
// Parameters:
//   - model: the draw's world transform
//   - view: the camera view matrix
//   - projection: the camera projection matrix
//   - shadow: the shadow caster's combined projection * view
//
// Returns:
//   - GPUShadowedUniforms: the uniforms, or the policy's substitute if model is unusable
//   - error: an error wrapping common.ErrInvalidTransform if model is unusable
func (b *Builder) BuildShadowed(model, view, projection, shadow mgl32.Mat4) (GPUShadowedUniforms, error) {
	u, err := b.Build(model, view, projection)
	if err != nil && b.policy == PolicyPropagate {
		return GPUShadowedUniforms{}, err
	}
	return GPUShadowedUniforms{GPUUniforms: u, ShadowMatrix: shadow}, err
}
