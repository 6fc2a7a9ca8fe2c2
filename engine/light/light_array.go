package light

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrOutOfRange is returned when reading a light record at or beyond the live count.
var ErrOutOfRange = errors.New("light index out of range")

// LightArray is a fixed-capacity run of GPU light records plus the count of live
// records at its front. Records past the count keep whatever was last written and
// must never be read, so At refuses them and Marshal copies them through untouched.
type LightArray struct {
	records []GPULight
	count   int
}

// NewLightArray allocates an array of capacity records, all tagged unused.
//
// Parameters:
//   - capacity: the fixed number of records
//
// Returns:
//   - *LightArray: the empty array
func NewLightArray(capacity int) *LightArray {
	return &LightArray{records: make([]GPULight, capacity)}
}

// Capacity returns the fixed number of records.
func (a *LightArray) Capacity() int {
	return len(a.records)
}

// Count returns the number of live records.
func (a *LightArray) Count() int {
	return a.count
}

// At returns the live record at index i.
//
// Parameters:
//   - i: the record index
//
// Returns:
//   - GPULight: the record
//   - error: ErrOutOfRange if i is negative or not below Count
func (a *LightArray) At(i int) (GPULight, error) {
	if i < 0 || i >= a.count {
		return GPULight{}, fmt.Errorf("%w: %d of %d", ErrOutOfRange, i, a.count)
	}
	return a.records[i], nil
}

// Tombstone retires the live record at index i by tagging it unused. The count and
// the other fields are left alone; consumers skip the slot on the tag alone.
//
// Parameters:
//   - i: the record index
//
// Returns:
//   - error: ErrOutOfRange if i is not a live index
func (a *LightArray) Tombstone(i int) error {
	if i < 0 || i >= a.count {
		return fmt.Errorf("%w: %d of %d", ErrOutOfRange, i, a.count)
	}
	a.records[i].LightType = uint32(LightTypeUnused)
	return nil
}

// Marshal serializes every record, live or stale, into Capacity()*128 bytes.
//
// Returns:
//   - []byte: buffer ready for upload to the Lights slot
func (a *LightArray) Marshal() []byte {
	buf := make([]byte, len(a.records)*GPULightSize)
	for i := range a.records {
		a.records[i].put(buf[i*GPULightSize : (i+1)*GPULightSize])
	}
	return buf
}

// FragmentUniforms pairs the live count with the eye position.
//
// Parameters:
//   - cameraPosition: world-space eye position
//
// Returns:
//   - GPUFragmentUniforms: the fragment block for this array
func (a *LightArray) FragmentUniforms(cameraPosition mgl32.Vec3) GPUFragmentUniforms {
	return GPUFragmentUniforms{LightCount: uint32(a.count), CameraPosition: cameraPosition}
}

// TiledFragmentUniforms is FragmentUniforms for pipelines that tile texture coordinates.
//
// Parameters:
//   - cameraPosition: world-space eye position
//   - tiling: texture coordinate repeat count
//
// Returns:
//   - GPUTiledFragmentUniforms: the tiled fragment block for this array
func (a *LightArray) TiledFragmentUniforms(cameraPosition mgl32.Vec3, tiling uint32) GPUTiledFragmentUniforms {
	return GPUTiledFragmentUniforms{LightCount: uint32(a.count), CameraPosition: cameraPosition, Tiling: tiling}
}

// Sun returns the direction toward the first live Sunlight in the array.
//
// Returns:
//   - mgl32.Vec3: the direction carried in the record's position slot
//   - bool: false if no live record is a Sunlight
func (a *LightArray) Sun() (mgl32.Vec3, bool) {
	for i := range a.count {
		if a.records[i].Type() == Sunlight {
			return a.records[i].Position, true
		}
	}
	return mgl32.Vec3{}, false
}

// fill writes lights into the front of the array and sets the count. Records past
// len(lights) are not touched.
func (a *LightArray) fill(lights []Light) {
	for i, l := range lights {
		a.records[i] = ToGPULight(l)
	}
	a.count = len(lights)
}
