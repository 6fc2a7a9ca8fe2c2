package layout

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/Carmen-Shannon/oxy-shade/common"
)

// goField is a data-carrying member of a Go GPU struct, flattened through embedded structs.
type goField struct {
	name   string
	offset uint64
	size   uint64
}

// VerifyStruct checks that the Go value v has the same byte layout as the WGSL struct
// named structName in source. Padding members (blank or named with a leading
// underscore) are ignored; every remaining Go member must line up with the WGSL
// member of the same snake_case name, in order, at the same offset, and the total
// sizes must agree.
//
// Parameters:
//   - v: a Go struct value or pointer to one
//   - source: WGSL source that declares the struct
//   - structName: the WGSL struct name
//
// Returns:
//   - error: nil if the layouts agree, otherwise an error wrapping common.ErrLayoutMismatch
func VerifyStruct(v any, source, structName string) error {
	structs, err := ParseStructs(source)
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrLayoutMismatch, err)
	}
	ws, ok := structs[structName]
	if !ok {
		return fmt.Errorf("%w: WGSL struct %s not declared", common.ErrLayoutMismatch, structName)
	}
	return Compare(v, ws)
}

// Compare checks the Go value v against an already-parsed WGSL struct.
//
// Parameters:
//   - v: a Go struct value or pointer to one
//   - ws: the placed WGSL struct
//
// Returns:
//   - error: nil if the layouts agree, otherwise every disagreement joined and wrapped in common.ErrLayoutMismatch
func Compare(v any, ws Struct) error {
	t := reflect.TypeOf(v)
	if t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return fmt.Errorf("%w: %T is not a struct", common.ErrLayoutMismatch, v)
	}

	goFields := flattenFields(t, 0)
	wgslFields := make([]Field, 0, len(ws.Fields))
	for _, f := range ws.Fields {
		if !f.Builtin {
			wgslFields = append(wgslFields, f)
		}
	}

	var errs []error
	if uint64(t.Size()) != ws.Size {
		errs = append(errs, fmt.Errorf("size: Go %s is %d bytes, WGSL %s is %d", t.Name(), t.Size(), ws.Name, ws.Size))
	}
	if len(goFields) != len(wgslFields) {
		errs = append(errs, fmt.Errorf("field count: Go %s has %d, WGSL %s has %d", t.Name(), len(goFields), ws.Name, len(wgslFields)))
	}
	for i := range min(len(goFields), len(wgslFields)) {
		gf, wf := goFields[i], wgslFields[i]
		if gf.name != wf.Name {
			errs = append(errs, fmt.Errorf("field %d: Go %s does not match WGSL %s", i, gf.name, wf.Name))
			continue
		}
		if gf.offset != wf.Offset {
			errs = append(errs, fmt.Errorf("field %s: Go offset %d, WGSL offset %d", wf.Name, gf.offset, wf.Offset))
		}
		if gf.size > wf.Size {
			errs = append(errs, fmt.Errorf("field %s: Go size %d exceeds WGSL size %d", wf.Name, gf.size, wf.Size))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s: %w", common.ErrLayoutMismatch, ws.Name, errors.Join(errs...))
	}
	return nil
}

func flattenFields(t reflect.Type, base uint64) []goField {
	var out []goField
	for i := range t.NumField() {
		sf := t.Field(i)
		if sf.Name == "_" || strings.HasPrefix(sf.Name, "_") {
			continue
		}
		if sf.Anonymous && sf.Type.Kind() == reflect.Struct {
			out = append(out, flattenFields(sf.Type, base+uint64(sf.Offset))...)
			continue
		}
		out = append(out, goField{
			name:   SnakeCase(sf.Name),
			offset: base + uint64(sf.Offset),
			size:   uint64(sf.Type.Size()),
		})
	}
	return out
}

// SnakeCase converts a Go identifier such as CameraPosition or UVScale into the
// WGSL member spelling camera_position or uv_scale.
//
// Parameters:
//   - name: the Go identifier
//
// Returns:
//   - string: the snake_case form
func SnakeCase(name string) string {
	runes := []rune(name)
	var sb strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			prevLower := i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1]))
			acronymEnd := i > 0 && unicode.IsUpper(runes[i-1]) && i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if prevLower || acronymEnd {
				sb.WriteByte('_')
			}
			sb.WriteRune(unicode.ToLower(r))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
