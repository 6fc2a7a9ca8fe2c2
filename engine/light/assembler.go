package light

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-shade/common"
)

// Assembler turns the scene's ordered light list into a fixed-capacity LightArray.
// It writes into a back buffer and publishes the finished array with a single
// pointer swap, so a reader of Current never sees a half-written array. The array
// returned by Current stays untouched until the Assemble after next.
type Assembler struct {
	mu       sync.Mutex
	capacity int
	buffers  [2]*LightArray
	back     int

	current atomic.Pointer[LightArray]

	// logged holds one bit per overflow class already reported.
	logged atomic.Uint64
	// warned holds the kind and field of every invalid light already reported.
	warned sync.Map
}

// NewAssembler creates an Assembler whose arrays hold capacity records.
//
// Parameters:
//   - capacity: the number of records per array, at least 1
//
// Returns:
//   - *Assembler: the assembler
//   - error: non-nil if capacity is below 1
func NewAssembler(capacity int) (*Assembler, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("light capacity must be at least 1, got %d", capacity)
	}
	return &Assembler{
		capacity: capacity,
		buffers:  [2]*LightArray{NewLightArray(capacity), NewLightArray(capacity)},
	}, nil
}

// Capacity returns the number of records per array.
func (a *Assembler) Capacity() int {
	return a.capacity
}

// Assemble validates lights, truncates the valid ones to capacity, writes them into
// the back buffer and publishes it. Invalid lights are left out before truncation so
// they never push a usable light out of the array. On overflow the published array
// holds the truncated set and the returned error wraps common.ErrLightOverflow; each
// distinct set of dropped kinds is logged once for the life of the Assembler, as is
// each kind and field of invalid light.
//
// Parameters:
//   - lights: the active lights in submission order
//
// Returns:
//   - *LightArray: the published array
//   - error: nil, or a *LightOverflowError and any *LightValidationError joined
func (a *Assembler) Assemble(lights []Light) (*LightArray, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var errs []error
	valid := make([]Light, 0, len(lights))
	for i, l := range lights {
		if l == nil {
			continue
		}
		if err := ValidateLight(i, l); err != nil {
			a.warn(err)
			errs = append(errs, err)
			continue
		}
		valid = append(valid, l)
	}

	kept, overflow := Truncate(valid, a.capacity)

	arr := a.buffers[a.back]
	arr.fill(kept)
	a.current.Store(arr)
	a.back ^= 1

	if overflow != nil {
		a.report(overflow)
		errs = append([]error{overflow}, errs...)
	}
	return arr, errors.Join(errs...)
}

// Current returns the most recently published array, or nil before the first Assemble.
func (a *Assembler) Current() *LightArray {
	return a.current.Load()
}

func (a *Assembler) report(overflow *LightOverflowError) {
	bit := uint64(1) << overflow.class()
	for {
		seen := a.logged.Load()
		if seen&bit != 0 {
			return
		}
		if a.logged.CompareAndSwap(seen, seen|bit) {
			break
		}
	}
	common.LogWarn("%s; further overflows dropping the same kinds are not logged", overflow.Error())
}

func (a *Assembler) warn(err error) {
	var joined interface{ Unwrap() []error }
	causes := []error{err}
	if errors.As(err, &joined) {
		causes = joined.Unwrap()
	}
	for _, cause := range causes {
		var invalid *LightValidationError
		if !errors.As(cause, &invalid) {
			continue
		}
		key := invalid.Kind.String() + "." + invalid.Field
		if _, seen := a.warned.LoadOrStore(key, struct{}{}); !seen {
			common.LogWarn("%s; further %s lights with a bad %s are not logged", invalid.Error(), invalid.Kind, invalid.Field)
		}
	}
}

// IsOverflow reports whether err is a light overflow and returns its details.
func IsOverflow(err error) (*LightOverflowError, bool) {
	var overflow *LightOverflowError
	if errors.As(err, &overflow) {
		return overflow, true
	}
	return nil, false
}
