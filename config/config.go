// Package config reads the pipeline configuration that selects between the layout
// variants and error policies of the shading contract.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/Carmen-Shannon/oxy-shade/common"
	"github.com/Carmen-Shannon/oxy-shade/engine/material"
	"github.com/Carmen-Shannon/oxy-shade/engine/transform"
	"github.com/charmbracelet/log"
	"github.com/pelletier/go-toml/v2"
)

// MaxLightCapacity bounds lights.capacity so the light buffer stays within a
// storage binding on every backend.
const MaxLightCapacity = 1024

// Config is the full configuration file.
type Config struct {
	Lights    LightsConfig    `toml:"lights"`
	Materials MaterialsConfig `toml:"materials"`
	Transform TransformConfig `toml:"transform"`
	Pipeline  PipelineConfig  `toml:"pipeline"`
	Log       LogConfig       `toml:"log"`
}

type LightsConfig struct {
	// Capacity is the fixed number of records in the light array.
	Capacity int `toml:"capacity"`
}

type MaterialsConfig struct {
	// Schema is "pbr" or "emissive".
	Schema string `toml:"schema"`
	// Policy is "reject" or "clamp".
	Policy string `toml:"policy"`
	// Dir, if set, is watched for material files.
	Dir string `toml:"dir"`
}

type TransformConfig struct {
	// InvalidPolicy is "fallback" or "propagate".
	InvalidPolicy string `toml:"invalid_policy"`
}

type PipelineConfig struct {
	// Shadows selects the shadowed uniform block.
	Shadows bool `toml:"shadows"`
	// Tiling selects the tiled fragment block when non-zero and is written into it.
	Tiling uint32 `toml:"tiling"`
	// Workers is the number of goroutines preparing draws in parallel.
	Workers int `toml:"workers"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the configuration used for anything a file leaves out.
func Default() Config {
	return Config{
		Lights:    LightsConfig{Capacity: 16},
		Materials: MaterialsConfig{Schema: string(material.SchemaPBR), Policy: string(material.PolicyReject)},
		Transform: TransformConfig{InvalidPolicy: transform.PolicyFallback.String()},
		Pipeline:  PipelineConfig{Workers: 4},
		Log:       LogConfig{Level: "info"},
	}
}

// Parse decodes TOML over the defaults and validates the result.
//
// Parameters:
//   - data: the TOML document
//
// Returns:
//   - Config: the configuration
//   - error: non-nil on a syntax error, an unknown key, or an invalid value
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads and parses the TOML file at path.
//
// Parameters:
//   - path: the config file
//
// Returns:
//   - Config: the configuration
//   - error: non-nil if the file cannot be read or parsed
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every invalid value.
//
// Returns:
//   - error: nil, or all problems joined
func (c Config) Validate() error {
	var errs []error
	if c.Lights.Capacity < 1 || c.Lights.Capacity > MaxLightCapacity {
		errs = append(errs, fmt.Errorf("lights.capacity must be in [1, %d], got %d", MaxLightCapacity, c.Lights.Capacity))
	}
	if _, err := material.ParseSchema(c.Materials.Schema); err != nil {
		errs = append(errs, fmt.Errorf("materials.schema: %w", err))
	}
	if _, err := material.ParsePolicy(c.Materials.Policy); err != nil {
		errs = append(errs, fmt.Errorf("materials.policy: %w", err))
	}
	if _, err := transform.ParseInvalidPolicy(c.Transform.InvalidPolicy); err != nil {
		errs = append(errs, fmt.Errorf("transform.invalid_policy: %w", err))
	}
	if c.Pipeline.Workers < 1 {
		errs = append(errs, fmt.Errorf("pipeline.workers must be at least 1, got %d", c.Pipeline.Workers))
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	return errors.Join(errs...)
}

// MaterialSchema returns the parsed materials.schema. Call only on a validated Config.
func (c Config) MaterialSchema() material.Schema {
	return material.Schema(c.Materials.Schema)
}

// MaterialPolicy returns the parsed materials.policy. Call only on a validated Config.
func (c Config) MaterialPolicy() material.Policy {
	return material.Policy(c.Materials.Policy)
}

// TransformPolicy returns the parsed transform.invalid_policy. Call only on a validated Config.
func (c Config) TransformPolicy() transform.InvalidPolicy {
	p, _ := transform.ParseInvalidPolicy(c.Transform.InvalidPolicy)
	return p
}

// Tiled reports whether the pipeline uses the tiled fragment block.
func (c Config) Tiled() bool {
	return c.Pipeline.Tiling > 0
}

// Apply pushes the process-wide settings, currently the log level, into effect.
//
// Returns:
//   - error: non-nil if the log level is invalid
func (c Config) Apply() error {
	return common.SetLogLevel(c.Log.Level)
}
