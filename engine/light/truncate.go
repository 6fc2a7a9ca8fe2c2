package light

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Carmen-Shannon/oxy-shade/common"
)

// keepPriority orders kinds for truncation; lower values are kept first.
var keepPriority = [lightTypeCount]int{
	Ambientlight: 0,
	Sunlight:     1,
	Spotlight:    2,
	Pointlight:   3,
}

// LightOverflowError reports a truncated light list.
type LightOverflowError struct {
	Capacity  int
	Submitted int
	// Dropped counts the discarded lights per kind.
	Dropped map[LightType]int
}

func (e *LightOverflowError) Error() string {
	kinds := make([]string, 0, len(e.Dropped))
	for _, t := range e.droppedKinds() {
		kinds = append(kinds, fmt.Sprintf("%d %s", e.Dropped[t], t))
	}
	return fmt.Sprintf("%s: %d lights submitted, capacity %d, dropped %s",
		common.ErrLightOverflow, e.Submitted, e.Capacity, strings.Join(kinds, ", "))
}

func (e *LightOverflowError) Unwrap() error {
	return common.ErrLightOverflow
}

// class identifies the overflow by the set of kinds it dropped.
func (e *LightOverflowError) class() uint32 {
	var mask uint32
	for t := range e.Dropped {
		mask |= 1 << uint32(t)
	}
	return mask
}

func (e *LightOverflowError) droppedKinds() []LightType {
	kinds := make([]LightType, 0, len(e.Dropped))
	for t := range e.Dropped {
		kinds = append(kinds, t)
	}
	slices.Sort(kinds)
	return kinds
}

// Truncate selects at most capacity lights. Lights are ranked by kind (ambient, sun,
// spot, point) and then by submission index; the best capacity of them are kept and
// returned in their original submission order. The result depends only on the input
// order and kinds. Nil entries are ignored.
//
// Parameters:
//   - lights: the submitted lights in order
//   - capacity: the maximum number to keep
//
// Returns:
//   - []Light: the kept lights in submission order
//   - *LightOverflowError: nil unless lights were dropped
func Truncate(lights []Light, capacity int) ([]Light, *LightOverflowError) {
	live := make([]Light, 0, len(lights))
	for _, l := range lights {
		if l != nil {
			live = append(live, l)
		}
	}
	if len(live) <= capacity {
		return live, nil
	}

	order := make([]int, len(live))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(i, j int) int {
		return keepPriority[live[i].Type()] - keepPriority[live[j].Type()]
	})

	keep := order[:max(capacity, 0)]
	slices.Sort(keep)

	kept := make([]Light, 0, len(keep))
	for _, i := range keep {
		kept = append(kept, live[i])
	}

	overflow := &LightOverflowError{
		Capacity:  capacity,
		Submitted: len(live),
		Dropped:   make(map[LightType]int),
	}
	for _, i := range order[len(keep):] {
		overflow.Dropped[live[i].Type()]++
	}
	return kept, overflow
}
