// Package shading is a CPU rendition of the fragment stage. It reads the light,
// fragment-uniform and material buffers byte for byte as the shader does and
// evaluates Phong lighting, so the layouts can be exercised without a GPU.
package shading

import (
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-shade/engine/light"
	"github.com/Carmen-Shannon/oxy-shade/engine/material"
	"github.com/go-gl/mathgl/mgl32"
)

// Bindings are the raw buffers bound at the Lights, FragmentUniforms and Materials slots.
type Bindings struct {
	Lights           []byte
	FragmentUniforms []byte
	Material         []byte

	Schema material.Schema
	// Tiled selects the tiled fragment block layout.
	Tiled bool
}

// Shader holds the decoded state of one draw's fragment stage.
type Shader struct {
	cameraPosition mgl32.Vec3
	tiling         uint32
	surface        material.Surface
	lights         []light.GPULight
}

// NewShader decodes the bindings. Only the first lightCount records of the light
// buffer are read; everything past them is ignored whatever it holds.
//
// Parameters:
//   - b: the bound buffers
//
// Returns:
//   - *Shader: the decoded stage
//   - error: non-nil if a buffer is too short for what the fragment block declares
func NewShader(b Bindings) (*Shader, error) {
	s := &Shader{}

	var count uint32
	if b.Tiled {
		fu, err := light.UnmarshalTiledFragmentUniforms(b.FragmentUniforms)
		if err != nil {
			return nil, err
		}
		count, s.cameraPosition, s.tiling = fu.LightCount, fu.CameraPosition, fu.Tiling
	} else {
		fu, err := light.UnmarshalFragmentUniforms(b.FragmentUniforms)
		if err != nil {
			return nil, err
		}
		count, s.cameraPosition = fu.LightCount, fu.CameraPosition
	}

	if int(count)*light.GPULightSize > len(b.Lights) {
		return nil, fmt.Errorf("light count %d exceeds the %d records bound", count, len(b.Lights)/light.GPULightSize)
	}
	s.lights = make([]light.GPULight, 0, count)
	for i := range int(count) {
		rec, err := light.UnmarshalGPULight(b.Lights[i*light.GPULightSize:])
		if err != nil {
			return nil, err
		}
		s.lights = append(s.lights, rec)
	}

	m, err := material.Unmarshal(b.Schema, b.Material)
	if err != nil {
		return nil, err
	}
	s.surface = m.Shading()
	return s, nil
}

// CameraPosition returns the eye position read from the fragment block.
func (s *Shader) CameraPosition() mgl32.Vec3 {
	return s.cameraPosition
}

// Tiling returns the repeat count read from a tiled fragment block, or 0.
func (s *Shader) Tiling() uint32 {
	return s.tiling
}

// Lights returns the records within lightCount, tombstones included.
func (s *Shader) Lights() []light.GPULight {
	return s.lights
}

// Shade evaluates the color of a fragment.
//
// Parameters:
//   - position: world-space fragment position
//   - normal: world-space surface normal
//
// Returns:
//   - mgl32.Vec3: diffuse + specular + ambient * occlusion + emission
func (s *Shader) Shade(position, normal mgl32.Vec3) mgl32.Vec3 {
	n := normal.Normalize()
	view := s.cameraPosition.Sub(position).Normalize()
	m := s.surface

	var diffuse, specular, ambient mgl32.Vec3
	for i := range s.lights {
		l := &s.lights[i]
		switch l.Type() {
		case light.Sunlight:
			toLight := l.Position.Normalize()
			d, sp := phong(l, m, toLight, n, view)
			diffuse = diffuse.Add(d)
			specular = specular.Add(sp)

		case light.Pointlight:
			toLight, att, ok := attenuate(l, position)
			if !ok {
				continue
			}
			d, sp := phong(l, m, toLight, n, view)
			diffuse = diffuse.Add(d.Mul(att))
			specular = specular.Add(sp.Mul(att))

		case light.Spotlight:
			toLight, att, ok := attenuate(l, position)
			if !ok {
				continue
			}
			spot := toLight.Dot(l.ConeDirection.Normalize().Mul(-1))
			if spot <= float32(math.Cos(float64(l.ConeAngle))) {
				continue
			}
			att *= float32(math.Pow(float64(spot), float64(l.ConeAttenuation)))
			d, sp := phong(l, m, toLight, n, view)
			diffuse = diffuse.Add(d.Mul(att))
			specular = specular.Add(sp.Mul(att))

		case light.Ambientlight:
			ambient = ambient.Add(l.Color.Mul(l.Intensity))
		}
		// unused and unknown tags contribute nothing
	}

	return diffuse.Add(specular).Add(mul(ambient, m.AmbientOcclusion)).Add(m.EmissionColor)
}

// phong returns the unattenuated diffuse and specular terms for one light.
func phong(l *light.GPULight, m material.Surface, toLight, normal, view mgl32.Vec3) (diffuse, specular mgl32.Vec3) {
	lambert := saturate(toLight.Dot(normal))
	diffuse = mul(l.Color, m.BaseColor).Mul(lambert * l.Intensity)
	if lambert <= 0 {
		return diffuse, specular
	}
	reflection := reflect(toLight.Mul(-1), normal)
	highlight := float32(math.Pow(float64(saturate(reflection.Dot(view))), float64(m.Shininess)))
	specular = mul(l.SpecularColor, m.SpecularColor).Mul(highlight * l.Intensity)
	return diffuse, specular
}

// attenuate returns the direction toward a positioned light and its distance falloff.
// ok is false when the falloff is not finite and positive.
func attenuate(l *light.GPULight, position mgl32.Vec3) (toLight mgl32.Vec3, att float32, ok bool) {
	offset := l.Position.Sub(position)
	d := offset.Len()
	if d == 0 {
		return mgl32.Vec3{}, 0, false
	}
	denom := l.Attenuation[0] + l.Attenuation[1]*d + l.Attenuation[2]*d*d
	if !(denom > 0) {
		return mgl32.Vec3{}, 0, false
	}
	return offset.Mul(1 / d), 1 / denom, true
}

func saturate(v float32) float32 {
	return min(max(v, 0), 1)
}

func reflect(incident, normal mgl32.Vec3) mgl32.Vec3 {
	return incident.Sub(normal.Mul(2 * normal.Dot(incident)))
}

func mul(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}
