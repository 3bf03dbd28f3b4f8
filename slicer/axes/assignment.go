// Package axes holds the mapping of source dimensions onto the display axes
// of an inspector. Dimensions that no axis shows are pinned to one index.
//
// An Assignment is a plain value owned by the caller. UI code edits it
// through SetAxis and SetPinnedIndex and re-renders from it; every mutation
// either succeeds and leaves both invariants intact or fails and changes
// nothing:
//
//   - no real dimension is bound to more than one axis;
//   - every dimension is either bound to an axis or pinned.
package axes

import (
	"fmt"

	"github.com/batchatco/go-native-slicer/internal"
)

var (
	logger = internal.NewLogger("axes")
)

// SetLogLevel sets the logging level to the given level, and returns
// the old level.
func SetLogLevel(level int) int {
	return int(logger.SetLogLevel(internal.LevelFromInt(level)))
}

// Assignment maps display axes to source dimensions. Each axis is bound
// to at most one real dimension or to a fake length-1 dimension, and every
// dimension not bound to an axis is pinned to an index.
type Assignment struct {
	sizes []int
	names []string
	axes  []DimRef
	// pins holds a value for every dimension, bound or not, so that a
	// dimension released by its axis gets its old pin back.
	pins []int
}

// New returns the default assignment for a source with the given dimension
// sizes and an inspector with axisCount axes. See Reset.
func New(dimSizes []int, dimNames []string, axisCount int) (*Assignment, error) {
	a := &Assignment{}
	if err := a.Reset(len(dimSizes), dimSizes, dimNames, axisCount); err != nil {
		return nil, err
	}
	return a, nil
}

// Reset replaces the assignment by the default one. The last axisCount
// dimensions go to the axes in order, so the last dimension is shown on the
// last axis (the NetCDF-CF convention lists the fastest varying dimension
// last). With fewer dimensions than axes, axis k shows dimension k and the
// remaining axes are fake. Unbound dimensions are pinned halfway.
//
// Missing or empty names default to "dim-<i>". On error the assignment is
// unchanged.
func (a *Assignment) Reset(dimCount int, dimSizes []int, dimNames []string, axisCount int) error {
	if dimCount < 0 || len(dimSizes) != dimCount {
		return fmt.Errorf("%w: %d sizes given for %d dimensions", ErrOutOfRange, len(dimSizes), dimCount)
	}
	if axisCount < 0 {
		return fmt.Errorf("%w: negative axis count %d", ErrOutOfRange, axisCount)
	}
	for i, s := range dimSizes {
		if s < 1 {
			return fmt.Errorf("%w: dimension %d has size %d", ErrOutOfRange, i, s)
		}
	}

	names := make([]string, dimCount)
	for i := range names {
		if i < len(dimNames) && dimNames[i] != "" {
			names[i] = dimNames[i]
		} else {
			names[i] = fmt.Sprintf("dim-%d", i)
		}
	}

	axes := make([]DimRef, axisCount)
	for k := range axes {
		switch {
		case dimCount >= axisCount:
			axes[k] = Dim(dimCount - axisCount + k)
		case k < dimCount:
			axes[k] = Dim(k)
		default:
			axes[k] = Fake(k)
		}
	}

	pins := make([]int, dimCount)
	for i, s := range dimSizes {
		pins[i] = s / 2
	}

	a.sizes = internal.CopyInts(dimSizes)
	a.names = names
	a.axes = axes
	a.pins = pins
	logger.Debugf("reset: sizes %v, axes %v, pins %v", a.sizes, a.axes, a.PinnedIndex())
	return nil
}

// AxisCount is the number of display axes.
func (a *Assignment) AxisCount() int { return len(a.axes) }

// DimCount is the rank of the source the assignment was made for.
func (a *Assignment) DimCount() int { return len(a.sizes) }

// DimSize returns the length of dimension i.
func (a *Assignment) DimSize(i int) int { return a.sizes[i] }

// DimSizes returns a copy of all dimension lengths.
func (a *Assignment) DimSizes() []int { return internal.CopyInts(a.sizes) }

// DimName returns the name of dimension i.
func (a *Assignment) DimName(i int) string { return a.names[i] }

// Axis returns what axis k shows.
func (a *Assignment) Axis(k int) DimRef { return a.axes[k] }

// Axes returns a copy of the axis bindings in axis order.
func (a *Assignment) Axes() []DimRef {
	c := make([]DimRef, len(a.axes))
	copy(c, a.axes)
	return c
}

// AxisLabel is the name of the dimension shown on axis k, or "-" for a
// fake dimension.
func (a *Assignment) AxisLabel(k int) string {
	if d, ok := a.axes[k].DimIndex(); ok {
		return a.names[d]
	}
	return "-"
}

// AxisOf returns the axis that shows dimension dim.
func (a *Assignment) AxisOf(dim int) (int, bool) {
	for k, r := range a.axes {
		if d, ok := r.DimIndex(); ok && d == dim {
			return k, true
		}
	}
	return 0, false
}

// IsDimAssigned reports whether some axis shows dimension dim.
func (a *Assignment) IsDimAssigned(dim int) bool {
	_, ok := a.AxisOf(dim)
	return ok
}

// PinnedIndex maps every dimension not shown on an axis to its index.
func (a *Assignment) PinnedIndex() map[int]int {
	m := make(map[int]int, len(a.pins))
	for d, p := range a.pins {
		if !a.IsDimAssigned(d) {
			m[d] = p
		}
	}
	return m
}

// Pin returns the pinned index of dimension dim. For a dimension shown on
// an axis it is the value it will get back when released.
func (a *Assignment) Pin(dim int) int { return a.pins[dim] }

// SetAxis binds axis to ref. If ref is a real dimension already shown on
// another axis, that axis falls back to its fake dimension. Fake references
// always refer to the axis they are set on.
func (a *Assignment) SetAxis(axis int, ref DimRef) error {
	if axis < 0 || axis >= len(a.axes) {
		return fmt.Errorf("%w: axis %d of %d", ErrOutOfRange, axis, len(a.axes))
	}
	if ref.fake {
		a.axes[axis] = Fake(axis)
		return nil
	}
	if ref.n < 0 || ref.n >= len(a.sizes) {
		return fmt.Errorf("%w: dimension %d of %d", ErrOutOfRange, ref.n, len(a.sizes))
	}
	if other, ok := a.AxisOf(ref.n); ok && other != axis {
		logger.Debugf("axis %d takes %v from axis %d", axis, ref, other)
		a.axes[other] = Fake(other)
	}
	a.axes[axis] = ref
	return nil
}

// SetPinnedIndex pins dimension dim at value. Pinning a dimension that an
// axis shows stores the value for when the axis releases it.
func (a *Assignment) SetPinnedIndex(dim, value int) error {
	if dim < 0 || dim >= len(a.sizes) {
		return fmt.Errorf("%w: dimension %d of %d", ErrOutOfRange, dim, len(a.sizes))
	}
	if value < 0 || value >= a.sizes[dim] {
		return fmt.Errorf("%w: index %d for %s of size %d", ErrOutOfRange, value, a.names[dim], a.sizes[dim])
	}
	a.pins[dim] = value
	return nil
}

// Validate checks both invariants. Mutations keep them, so a failure means
// the assignment was built by hand or corrupted.
func (a *Assignment) Validate() error {
	if len(a.pins) != len(a.sizes) || len(a.names) != len(a.sizes) {
		return fmt.Errorf("%w: %d sizes, %d names, %d pins", ErrInvariant, len(a.sizes), len(a.names), len(a.pins))
	}
	bound := make([]int, len(a.sizes))
	for k, r := range a.axes {
		if r.fake {
			if r.n != k {
				return fmt.Errorf("%w: axis %d holds %v", ErrInvariant, k, r)
			}
			continue
		}
		if r.n < 0 || r.n >= len(a.sizes) {
			return fmt.Errorf("%w: axis %d holds %v of %d dimensions", ErrInvariant, k, r, len(a.sizes))
		}
		bound[r.n]++
	}
	pinned := a.PinnedIndex()
	for d, n := range bound {
		_, isPinned := pinned[d]
		if n > 1 || (n == 1) == isPinned {
			return fmt.Errorf("%w: dimension %d bound %d times, pinned %v", ErrInvariant, d, n, isPinned)
		}
		if isPinned && (a.pins[d] < 0 || a.pins[d] >= a.sizes[d]) {
			return fmt.Errorf("%w: pin %d outside dimension %d of size %d", ErrInvariant, a.pins[d], d, a.sizes[d])
		}
	}
	return nil
}

// Clone returns an independent copy.
func (a *Assignment) Clone() *Assignment {
	c := &Assignment{
		sizes: internal.CopyInts(a.sizes),
		names: make([]string, len(a.names)),
		axes:  a.Axes(),
		pins:  internal.CopyInts(a.pins),
	}
	copy(c.names, a.names)
	return c
}

// Describe returns the slice description, see the package function.
func (a *Assignment) Describe() string {
	return Describe(a)
}

func (a *Assignment) String() string {
	return fmt.Sprintf("axes %v %s", a.axes, Describe(a))
}
