// Package layout reads WGSL struct, binding and vertex input declarations and
// places them using the WGSL host-shareable memory layout rules, so Go-side GPU
// structs can be checked against the shader source they are uploaded to.
package layout

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

var (
	// structBlockRegex matches struct declarations and captures the name and body
	structBlockRegex = regexp.MustCompile(`struct\s+(\w+)\s*\{([^}]*)\}`)

	// locationRegex matches @location(N) attributes
	locationRegex = regexp.MustCompile(`@location\((\d+)\)`)

	// builtinRegex matches @builtin(...) attributes
	builtinRegex = regexp.MustCompile(`@builtin\(\w+\)`)

	// sizeAttrRegex matches an explicit @size(N) member attribute
	sizeAttrRegex = regexp.MustCompile(`@size\((\d+)\)`)

	// alignAttrRegex matches an explicit @align(N) member attribute
	alignAttrRegex = regexp.MustCompile(`@align\((\d+)\)`)

	// fieldRegex matches a struct field line: optional attributes, name, colon, type.
	// The type capture (.+) is greedy to handle parameterized types like array<T, N>.
	fieldRegex = regexp.MustCompile(`(?:(?:@\w+\([^)]*\)\s*)*)*\s*(\w+)\s*:\s*(.+)`)

	// bindGroupDeclRegex captures group, binding, optional address space, variable name, and type
	// from declarations like: @group(0) @binding(11) var<uniform> uniforms: Uniforms;
	bindGroupDeclRegex = regexp.MustCompile(`@group\((\d+)\)\s*@binding\((\d+)\)\s*var(?:<([^>]*)>)?\s+(\w+)\s*:\s*([^;]+?)\s*;`)
)

// ParseStructs extracts every struct block from WGSL source and computes its field
// offsets, size and alignment. Structs may reference each other in any order.
//
// Parameters:
//   - source: the raw WGSL source code string
//
// Returns:
//   - map[string]Struct: resolved structs keyed by name
//   - error: non-nil if a struct references a type that cannot be resolved
func ParseStructs(source string) (map[string]Struct, error) {
	structs := parseStructBlocks(stripComments(source))
	resolved, pending := resolveStructs(structs)
	if len(pending) > 0 {
		names := make([]string, 0, len(pending))
		for _, ps := range pending {
			names = append(names, ps.name)
		}
		sort.Strings(names)
		return resolved, fmt.Errorf("unresolvable WGSL struct(s): %s", strings.Join(names, ", "))
	}
	return resolved, nil
}

// ParseBindings extracts all @group(N) @binding(M) resource declarations from WGSL
// source. Buffer bindings get MinBindingSize from the bound struct when it resolves.
// The result is ordered by group then binding.
//
// Parameters:
//   - source: the raw WGSL source code string
//   - visibility: the shader stage visibility flag to set on each entry
//
// Returns:
//   - []Binding: the declarations found
func ParseBindings(source string, visibility wgpu.ShaderStage) []Binding {
	cleaned := stripComments(source)
	structs, _ := resolveStructs(parseStructBlocks(cleaned))
	known := make(map[string]typeLayout, len(structs))
	for name, s := range structs {
		known[name] = typeLayout{s.Size, s.Align}
	}

	matches := bindGroupDeclRegex.FindAllStringSubmatch(cleaned, -1)
	out := make([]Binding, 0, len(matches))
	for _, match := range matches {
		group, _ := strconv.ParseUint(match[1], 10, 32)
		binding, _ := strconv.ParseUint(match[2], 10, 32)
		b := Binding{
			Group:        uint32(group),
			Binding:      uint32(binding),
			AddressSpace: strings.TrimSpace(match[3]),
			Name:         strings.TrimSpace(match[4]),
			Type:         strings.TrimSpace(match[5]),
		}
		b.Entry = classifyResource(b.Binding, visibility, b.AddressSpace, b.Type)
		if b.Entry.Buffer.Type != wgpu.BufferBindingTypeUndefined {
			if tl, ok := resolveTypeLayout(b.Type, known); ok && tl.size > 0 {
				b.Entry.Buffer.MinBindingSize = tl.size
			}
		}
		out = append(out, b)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Group != out[j].Group {
			return out[i].Group < out[j].Group
		}
		return out[i].Binding < out[j].Binding
	})
	return out
}

// ParseVertexInputs returns the attributes of the named vertex input struct, with
// tightly packed offsets in declaration order.
//
// Parameters:
//   - source: the raw WGSL source code string
//   - structName: the vertex input struct to read
//
// Returns:
//   - []VertexInput: one entry per @location field
//   - error: non-nil if the struct is missing, is not a pure vertex input, or uses a non-vertex type
func ParseVertexInputs(source, structName string) ([]VertexInput, error) {
	for _, ps := range parseStructBlocks(stripComments(source)) {
		if ps.name != structName {
			continue
		}
		if !isVertexInputStruct(ps) {
			return nil, fmt.Errorf("WGSL struct %s is not a vertex input struct", structName)
		}
		inputs := make([]VertexInput, 0, len(ps.fields))
		var offset uint64
		for _, f := range ps.fields {
			info, ok := wgslVertexFormatMap[f.typeName]
			if !ok {
				return nil, fmt.Errorf("WGSL struct %s field %s: %s is not a vertex format", structName, f.name, f.typeName)
			}
			inputs = append(inputs, VertexInput{
				Name:     f.name,
				Type:     f.typeName,
				Location: uint32(f.location),
				Format:   info.format,
				Offset:   offset,
			})
			offset += info.size
		}
		return inputs, nil
	}
	return nil, fmt.Errorf("WGSL struct %s not found", structName)
}

// parseStructBlocks finds all struct { ... } blocks in the cleaned WGSL source
// and parses their fields including member attributes
//
// Parameters:
//   - source: WGSL source with comments already stripped
//
// Returns:
//   - []parsedStruct: all struct blocks found in the source
func parseStructBlocks(source string) []parsedStruct {
	matches := structBlockRegex.FindAllStringSubmatch(source, -1)
	structs := make([]parsedStruct, 0, len(matches))
	for _, match := range matches {
		structs = append(structs, parsedStruct{
			name:   match[1],
			fields: parseStructFields(match[2]),
		})
	}
	return structs
}

// parseStructFields parses the body of a struct block into individual fields.
//
// Parameters:
//   - body: the content between { and } of a struct declaration
//
// Returns:
//   - []parsedField: all fields found in the struct body
func parseStructFields(body string) []parsedField {
	lines := splitAtTopLevelCommas(body)
	fields := make([]parsedField, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		field := parsedField{location: -1}
		field.isBuiltin = builtinRegex.MatchString(line)
		if m := locationRegex.FindStringSubmatch(line); m != nil {
			field.location, _ = strconv.Atoi(m[1])
		}
		if m := sizeAttrRegex.FindStringSubmatch(line); m != nil {
			field.sizeAttr, _ = strconv.ParseUint(m[1], 10, 64)
		}
		if m := alignAttrRegex.FindStringSubmatch(line); m != nil {
			field.alignAttr, _ = strconv.ParseUint(m[1], 10, 64)
		}

		fm := fieldRegex.FindStringSubmatch(line)
		if fm == nil {
			continue
		}
		field.name = fm[1]
		field.typeName = strings.TrimSpace(fm[2])
		fields = append(fields, field)
	}

	return fields
}
