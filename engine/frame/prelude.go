// Package frame prepares everything a draw pass uploads for one frame: per-draw
// transform uniforms and materials, the light array and the fragment block. It also
// generates the WGSL prelude that declares the struct variants the configuration
// selects, and checks at startup that every Go layout matches its WGSL twin.
package frame

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-shade/common"
	"github.com/Carmen-Shannon/oxy-shade/config"
	"github.com/Carmen-Shannon/oxy-shade/engine/binding"
	"github.com/Carmen-Shannon/oxy-shade/engine/layout"
	"github.com/Carmen-Shannon/oxy-shade/engine/light"
	"github.com/Carmen-Shannon/oxy-shade/engine/material"
	"github.com/Carmen-Shannon/oxy-shade/engine/transform"
	"github.com/cogentcore/webgpu/wgpu"
)

// DynamicOffsetAlignment is the minimum dynamic offset alignment WebGPU guarantees.
// Per-draw records start on multiples of it.
const DynamicOffsetAlignment = 256

// variant is one Go GPU type, its WGSL declaration and the block alias it fills.
type variant struct {
	alias  string
	name   string
	source string
	value  any
}

func variants(cfg config.Config) []variant {
	vs := []variant{{name: "Light", source: light.GPULightSource, value: light.GPULight{}}}

	if cfg.Pipeline.Shadows {
		vs = append(vs, variant{"UniformBlock", "ShadowedUniforms", transform.GPUShadowedUniformsSource, transform.GPUShadowedUniforms{}})
	} else {
		vs = append(vs, variant{"UniformBlock", "Uniforms", transform.GPUUniformsSource, transform.GPUUniforms{}})
	}

	if cfg.Tiled() {
		vs = append(vs, variant{"FragmentBlock", "TiledFragmentUniforms", light.GPUTiledFragmentUniformsSource, light.GPUTiledFragmentUniforms{}})
	} else {
		vs = append(vs, variant{"FragmentBlock", "FragmentUniforms", light.GPUFragmentUniformsSource, light.GPUFragmentUniforms{}})
	}

	schema := cfg.MaterialSchema()
	var m any = material.GPUPBRMaterial{}
	if schema == material.SchemaEmissive {
		m = material.GPUEmissiveMaterial{}
	}
	return append(vs, variant{"MaterialBlock", schema.StructName(), schema.Source(), m})
}

// Prelude returns the WGSL every shader of the pipeline is compiled with: the struct
// declarations of the selected variants, the block aliases the resource interface
// refers to, and the interface itself.
//
// Parameters:
//   - cfg: a validated configuration
//
// Returns:
//   - string: WGSL source
func Prelude(cfg config.Config) string {
	var sb strings.Builder
	vs := variants(cfg)
	for _, v := range vs {
		sb.WriteString(strings.TrimSpace(v.source))
		sb.WriteString("\n\n")
	}
	for _, v := range vs {
		if v.alias != "" {
			fmt.Fprintf(&sb, "alias %s = %s;\n", v.alias, v.name)
		}
	}
	sb.WriteString("\n")
	sb.WriteString(binding.InterfaceSource)
	return sb.String()
}

// DrawStride returns the spacing of per-draw records in the Uniforms and Materials
// buffers: the larger of the selected uniform and material blocks, rounded up to
// DynamicOffsetAlignment. Draw i owns bytes [i*stride, (i+1)*stride) of both.
//
// Parameters:
//   - cfg: a validated configuration
//
// Returns:
//   - uint64: the stride in bytes (256, or 512 with shadows)
func DrawStride(cfg config.Config) uint64 {
	var largest uint64
	for _, v := range variants(cfg) {
		if perDraw[v.alias] {
			largest = max(largest, blockSize(v))
		}
	}
	return roundUp(largest, DynamicOffsetAlignment)
}

// VerifyLayouts checks each Go type the configuration selects against its WGSL
// declaration, checks that every per-draw block fits its stride, then checks the
// prelude against the registry.
//
// Parameters:
//   - cfg: a validated configuration
//   - registry: the slot table shaders are compiled against
//
// Returns:
//   - error: nil, or every mismatch joined (wrapping common.ErrLayoutMismatch or
//     common.ErrBindingMismatch)
func VerifyLayouts(cfg config.Config, registry *binding.Registry) error {
	var errs []error
	stride := DrawStride(cfg)
	if stride == 0 || stride%DynamicOffsetAlignment != 0 {
		errs = append(errs, fmt.Errorf("%w: draw stride %d is not a positive multiple of %d", common.ErrLayoutMismatch, stride, DynamicOffsetAlignment))
	}
	for _, v := range variants(cfg) {
		if err := layout.VerifyStruct(v.value, v.source, v.name); err != nil {
			errs = append(errs, err)
		}
		if size := blockSize(v); perDraw[v.alias] && size > stride {
			errs = append(errs, fmt.Errorf("%w: %s is %d bytes, past the %d byte draw stride", common.ErrLayoutMismatch, v.name, size, stride))
		}
	}
	if err := registry.Verify(Prelude(cfg)); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// BindGroupLayoutEntries returns the layout entries of the buffer bind group with
// minimum binding sizes taken from the selected variants. The Lights binding is
// sized for a full array. The per-draw Uniforms and Materials bindings take a
// dynamic offset, a multiple of DrawStride, to select the draw's record.
//
// Parameters:
//   - cfg: a validated configuration
//   - registry: the slot table
//
// Returns:
//   - []wgpu.BindGroupLayoutEntry: entries for binding.GroupBuffers
func BindGroupLayoutEntries(cfg config.Config, registry *binding.Registry) []wgpu.BindGroupLayoutEntry {
	sizes := map[string]uint64{
		binding.BufferLights.String(): uint64(cfg.Lights.Capacity * light.GPULightSize),
	}
	dynamic := map[uint32]bool{}
	for _, v := range variants(cfg) {
		slot, ok := blockSlot[v.alias]
		if !ok {
			continue
		}
		sizes[slot.String()] = blockSize(v)
		if perDraw[v.alias] {
			dynamic[registry.Buffer(slot).Index] = true
		}
	}

	entries := registry.BindGroupLayoutEntries(binding.GroupBuffers, sizes)
	for i := range entries {
		entries[i].Buffer.HasDynamicOffset = dynamic[entries[i].Binding]
	}
	return entries
}

var blockSlot = map[string]binding.BufferIndex{
	"UniformBlock":  binding.BufferUniforms,
	"FragmentBlock": binding.BufferFragmentUniforms,
	"MaterialBlock": binding.BufferMaterials,
}

// perDraw marks the blocks written once per draw at a stride.
var perDraw = map[string]bool{
	"UniformBlock":  true,
	"MaterialBlock": true,
}

func blockSize(v variant) uint64 {
	var size int
	switch t := v.value.(type) {
	case light.GPULight:
		size = t.Size()
	case transform.GPUUniforms:
		size = t.Size()
	case transform.GPUShadowedUniforms:
		size = t.Size()
	case light.GPUFragmentUniforms:
		size = t.Size()
	case light.GPUTiledFragmentUniforms:
		size = t.Size()
	case material.GPUPBRMaterial:
		size = t.Size()
	case material.GPUEmissiveMaterial:
		size = t.Size()
	}
	return uint64(size)
}

func roundUp(v, align uint64) uint64 {
	return (v + align - 1) / align * align
}
