package masked

import (
	"github.com/batchatco/go-native-slicer/internal"
)

// Mask is either one boolean for every element or one boolean per element.
// The zero value is the uniform mask false (nothing masked).
type Mask struct {
	uniform bool
	elems   []bool
	shape   []int
}

// NoMask masks nothing.
var NoMask = Mask{}

// Uniform returns a mask that reports masked for every element.
func Uniform(masked bool) Mask {
	return Mask{uniform: masked}
}

// Elementwise returns a per-element mask. The slice is copied.
func Elementwise(elems []bool, shape []int) Mask {
	e := make([]bool, len(elems))
	copy(e, elems)
	return Mask{elems: e, shape: internal.CopyInts(shape)}
}

// IsUniform reports whether the mask is one boolean for every element.
func (m Mask) IsUniform() bool {
	return m.elems == nil && m.shape == nil
}

// Value is the uniform value. It is false for elementwise masks.
func (m Mask) Value() bool {
	return m.uniform
}

// Shape is the shape of an elementwise mask, nil for uniform masks.
func (m Mask) Shape() []int {
	if m.IsUniform() {
		return nil
	}
	return internal.CopyInts(m.shape)
}

// Elems returns a copy of the per-element values, nil for uniform masks.
func (m Mask) Elems() []bool {
	if m.IsUniform() {
		return nil
	}
	e := make([]bool, len(m.elems))
	copy(e, m.elems)
	return e
}

// Any reports whether at least one element is masked.
func (m Mask) Any() bool {
	if m.IsUniform() {
		return m.uniform
	}
	for _, b := range m.elems {
		if b {
			return true
		}
	}
	return false
}

func (m Mask) check(shape []int) bool {
	if m.IsUniform() {
		return true
	}
	return internal.EqualInts(m.shape, shape) && len(m.elems) == internal.Product(shape)
}
