package material

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a material file.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatFor picks the format from a file extension.
//
// Parameters:
//   - path: the file path
//
// Returns:
//   - Format: the format
//   - bool: false if the extension is not .toml, .yaml or .yml
func FormatFor(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, true
	case ".yaml", ".yml":
		return FormatYAML, true
	}
	return "", false
}

// fileEntry mirrors Authored with every field optional, so fields left out of a file
// keep their defaults.
type fileEntry struct {
	Name             string      `toml:"name" yaml:"name"`
	BaseColor        *mgl32.Vec3 `toml:"base_color" yaml:"base_color"`
	SpecularColor    *mgl32.Vec3 `toml:"specular_color" yaml:"specular_color"`
	EmissionColor    *mgl32.Vec3 `toml:"emission_color" yaml:"emission_color"`
	AmbientOcclusion *mgl32.Vec3 `toml:"ambient_occlusion" yaml:"ambient_occlusion"`
	Roughness        *float32    `toml:"roughness" yaml:"roughness"`
	Metallic         *float32    `toml:"metallic" yaml:"metallic"`
	Shininess        *float32    `toml:"shininess" yaml:"shininess"`
}

type materialFile struct {
	Materials []fileEntry `toml:"material" yaml:"material"`
}

func (e fileEntry) authored() Authored {
	a := NewAuthored(WithName(e.Name))
	if e.BaseColor != nil {
		a.BaseColor = *e.BaseColor
	}
	if e.SpecularColor != nil {
		a.SpecularColor = *e.SpecularColor
	}
	if e.EmissionColor != nil {
		a.EmissionColor = *e.EmissionColor
	}
	if e.AmbientOcclusion != nil {
		a.AmbientOcclusion = *e.AmbientOcclusion
	}
	if e.Roughness != nil {
		a.Roughness = *e.Roughness
	}
	if e.Metallic != nil {
		a.Metallic = *e.Metallic
	}
	if e.Shininess != nil {
		a.Shininess = *e.Shininess
	}
	return a
}

// Decode parses a material file. Each entry of the top-level "material" list becomes
// one Authored value; missing fields take the defaults.
//
// Parameters:
//   - data: the file contents
//   - format: the encoding of data
//
// Returns:
//   - []Authored: the materials in file order
//   - error: non-nil on a syntax error, an unknown field, or an unnamed entry
func Decode(data []byte, format Format) ([]Authored, error) {
	var f materialFile
	switch format {
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("failed to decode toml materials: %w", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to decode yaml materials: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown material format %q", format)
	}

	out := make([]Authored, 0, len(f.Materials))
	for i, e := range f.Materials {
		if e.Name == "" {
			return nil, fmt.Errorf("material %d has no name", i)
		}
		out = append(out, e.authored())
	}
	return out, nil
}

// LoadFile reads and decodes a material file, choosing the format by extension.
//
// Parameters:
//   - path: a .toml, .yaml or .yml file
//
// Returns:
//   - []Authored: the materials in file order
//   - error: non-nil if the file cannot be read or decoded
func LoadFile(path string) ([]Authored, error) {
	format, ok := FormatFor(path)
	if !ok {
		return nil, fmt.Errorf("unsupported material file %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read material file: %w", err)
	}
	materials, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return materials, nil
}
