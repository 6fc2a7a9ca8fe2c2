package common

import (
	"errors"
)

var (
	// ErrInvalidTransform is returned when a model matrix has a degenerate or
	// non-finite upper-left 3x3 block and no normal matrix can be derived from it.
	ErrInvalidTransform = errors.New("invalid transform")

	// ErrLightOverflow is returned when more lights are submitted than the
	// light array can hold. The array is still assembled from a truncated set.
	ErrLightOverflow = errors.New("light overflow")

	// ErrInvalidLight is returned when a submitted light carries values no shader
	// can use. The light is left out of the array.
	ErrInvalidLight = errors.New("invalid light")

	// ErrMaterialValidation is returned when authored material values fall
	// outside their valid ranges.
	ErrMaterialValidation = errors.New("material validation failed")

	// ErrBindingMismatch is returned when a binding name is unknown or the
	// producer and consumer disagree on a slot. It is fatal at startup.
	ErrBindingMismatch = errors.New("binding mismatch")

	// ErrLayoutMismatch is returned when a Go GPU struct does not match the
	// byte layout of its WGSL counterpart.
	ErrLayoutMismatch = errors.New("layout mismatch")
)
