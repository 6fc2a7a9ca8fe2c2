package layout

import "github.com/cogentcore/webgpu/wgpu"

// typeLayout holds the byte size and alignment of a WGSL type.
type typeLayout struct {
	size  uint64
	align uint64
}

// vertexFormatInfo holds the wgpu vertex format and its byte size for offset calculation
type vertexFormatInfo struct {
	format wgpu.VertexFormat
	size   uint64
}

// Field is a single member of a WGSL struct with its resolved placement.
type Field struct {
	Name     string
	Type     string
	Offset   uint64
	Size     uint64 // includes an explicit @size override
	Align    uint64
	Location int // -1 unless the field carries @location(N)
	Builtin  bool
}

// Struct is a WGSL struct with every field placed per the WGSL host-shareable layout rules.
type Struct struct {
	Name   string
	Fields []Field
	Size   uint64
	Align  uint64
}

// Field looks up a member by name.
//
// Parameters:
//   - name: the WGSL member name
//
// Returns:
//   - Field: the member
//   - bool: false if no member has that name
func (s Struct) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Binding is a single @group(N) @binding(M) resource declaration.
type Binding struct {
	Group        uint32
	Binding      uint32
	AddressSpace string
	Name         string
	Type         string
	Entry        wgpu.BindGroupLayoutEntry
}

// VertexInput is one @location field of a pure vertex input struct.
type VertexInput struct {
	Name     string
	Type     string
	Location uint32
	Format   wgpu.VertexFormat
	Offset   uint64
}

// parsedField represents a single field extracted from a WGSL struct during parsing
type parsedField struct {
	name      string
	typeName  string
	location  int
	isBuiltin bool
	sizeAttr  uint64
	alignAttr uint64
}

// parsedStruct represents a WGSL struct block extracted during parsing
type parsedStruct struct {
	name   string
	fields []parsedField
}
