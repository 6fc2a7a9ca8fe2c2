package transform

import (
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-shade/common"
	"github.com/go-gl/mathgl/mgl32"
)

// degenerateRatio is the smallest |det| of the upper-left 3x3, relative to the product
// of its column lengths, that still yields a usable inverse. The ratio is the volume
// of the unit-scaled columns, so it ignores uniform scale and measures only how close
// the columns are to lying in a plane.
const degenerateRatio = 1e-6

// NormalMatrix derives the matrix that carries surface normals from object space to
// world space: the inverse-transpose of the model matrix's upper-left 3x3. Under
// non-uniform scale this keeps normals perpendicular to the transformed surface,
// which the plain upper-left 3x3 does not.
//
// Parameters:
//   - model: the model matrix
//
// Returns:
//   - mgl32.Mat3: the normal matrix
//   - error: an error wrapping common.ErrInvalidTransform if the 3x3 is singular or not finite
func NormalMatrix(model mgl32.Mat4) (mgl32.Mat3, error) {
	m := model.Mat3()
	if !common.Finite(m[:]...) {
		return mgl32.Ident3(), fmt.Errorf("%w: model matrix has non-finite entries", common.ErrInvalidTransform)
	}
	det := m.Det()
	volume := float64(m.Col(0).Len()) * float64(m.Col(1).Len()) * float64(m.Col(2).Len())
	if !common.Finite(det) || !(math.Abs(float64(det)) > degenerateRatio*volume) {
		return mgl32.Ident3(), fmt.Errorf("%w: model matrix is singular (det %g)", common.ErrInvalidTransform, det)
	}
	n := m.Inv().Transpose()
	if !common.Finite(n[:]...) {
		return mgl32.Ident3(), fmt.Errorf("%w: normal matrix overflowed", common.ErrInvalidTransform)
	}
	return n, nil
}
