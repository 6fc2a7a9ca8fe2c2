package binding

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-shade/common"
	"github.com/Carmen-Shannon/oxy-shade/engine/layout"
	"github.com/cogentcore/webgpu/wgpu"
)

// InterfaceSource is the canonical WGSL resource interface: every bind group
// resource of the registry plus the VertexIn struct for the vertex buffer.
//
//go:embed assets/interface.wgsl
var InterfaceSource string

// VertexInputStruct is the WGSL struct that carries the vertex attributes.
const VertexInputStruct = "VertexIn"

// Verify checks shader source against the registry. Every bind group slot must be
// declared at its group and binding under its snake_case name with a matching buffer
// address space, every declaration in a registry group must belong to a slot, and
// VertexIn must present each attribute at its location with its format.
//
// Parameters:
//   - source: WGSL source declaring the resource interface
//
// Returns:
//   - error: nil if producer and consumer agree, otherwise every disagreement joined
//     and wrapped in common.ErrBindingMismatch
func (r *Registry) Verify(source string) error {
	var errs []error

	type groupBinding struct{ group, binding uint32 }
	declared := make(map[groupBinding]layout.Binding)
	for _, b := range layout.ParseBindings(source, wgpu.ShaderStageNone) {
		declared[groupBinding{b.Group, b.Binding}] = b
	}

	claimed := make(map[groupBinding]bool)
	for _, s := range r.ordered {
		g, ok := s.Group()
		if !ok {
			continue
		}
		key := groupBinding{g, s.Index}
		claimed[key] = true
		decl, ok := declared[key]
		if !ok {
			errs = append(errs, fmt.Errorf("%s not declared at @group(%d) @binding(%d)", s.Name, g, s.Index))
			continue
		}
		if want := layout.SnakeCase(s.Name); decl.Name != want {
			errs = append(errs, fmt.Errorf("@group(%d) @binding(%d) is %s, want %s", g, s.Index, decl.Name, want))
		}
		if s.Kind == KindBuffer && decl.Entry.Buffer.Type != s.BufferType {
			errs = append(errs, fmt.Errorf("%s declared as var<%s>, registry expects %v", s.Name, decl.AddressSpace, s.BufferType))
		}
		if s.Kind == KindTexture && decl.Entry.Texture.SampleType == wgpu.TextureSampleTypeUndefined {
			errs = append(errs, fmt.Errorf("%s declared as %s, registry expects a texture", s.Name, decl.Type))
		}
		if s.Kind == KindSampler && decl.Entry.Sampler.Type == wgpu.SamplerBindingTypeUndefined {
			errs = append(errs, fmt.Errorf("%s declared as %s, registry expects a sampler", s.Name, decl.Type))
		}
	}
	for key, decl := range declared {
		if key.group <= GroupSamplers && !claimed[key] {
			errs = append(errs, fmt.Errorf("%s at @group(%d) @binding(%d) has no registry slot", decl.Name, key.group, key.binding))
		}
	}

	inputs, err := layout.ParseVertexInputs(source, VertexInputStruct)
	if err != nil {
		errs = append(errs, err)
	} else {
		byName := make(map[string]layout.VertexInput, len(inputs))
		for _, in := range inputs {
			byName[in.Name] = in
		}
		for _, a := range r.Attributes() {
			name := layout.SnakeCase(a.Name)
			in, ok := byName[name]
			switch {
			case !ok:
				errs = append(errs, fmt.Errorf("vertex attribute %s missing from %s", a.Name, VertexInputStruct))
			case in.Location != a.Index:
				errs = append(errs, fmt.Errorf("vertex attribute %s at @location(%d), registry expects %d", a.Name, in.Location, a.Index))
			case in.Format != a.Format:
				errs = append(errs, fmt.Errorf("vertex attribute %s is %v, registry expects %v", a.Name, in.Format, a.Format))
			}
		}
		if len(inputs) != len(r.Attributes()) {
			errs = append(errs, fmt.Errorf("%s has %d attributes, registry has %d", VertexInputStruct, len(inputs), len(r.Attributes())))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", common.ErrBindingMismatch, errors.Join(errs...))
	}
	return nil
}
