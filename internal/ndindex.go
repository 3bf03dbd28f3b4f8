package internal

// Row-major index arithmetic shared by the masked array and the sources.

import (
	"reflect"
)

// Product returns the number of elements of an array with the given shape.
// The product of an empty shape is 1 (a scalar).
func Product(shape []int) int {
	n := 1
	for _, s := range shape {
		n *= s
	}
	return n
}

// Strides returns the row-major strides, in elements, for shape.
func Strides(shape []int) []int {
	strides := make([]int, len(shape))
	stride := 1
	for i := len(shape) - 1; i >= 0; i-- {
		strides[i] = stride
		stride *= shape[i]
	}
	return strides
}

// Offset returns the flat offset of index, or -1 if the index has the wrong
// rank or any component is out of range.
func Offset(index, shape []int) int {
	if len(index) != len(shape) {
		return -1
	}
	off := 0
	for i, ix := range index {
		if ix < 0 || ix >= shape[i] {
			return -1
		}
		off = off*shape[i] + ix
	}
	return off
}

// Walk calls fn for every multi-index of shape in row-major order. The slice
// passed to fn is reused between calls.
func Walk(shape []int, fn func(index []int)) {
	n := Product(shape)
	if n == 0 {
		return
	}
	index := make([]int, len(shape))
	for count := 0; count < n; count++ {
		fn(index)
		for d := len(shape) - 1; d >= 0; d-- {
			index[d]++
			if index[d] < shape[d] {
				break
			}
			index[d] = 0
		}
	}
}

// IsPermutation reports whether perm is a permutation of 0..rank-1.
func IsPermutation(perm []int, rank int) bool {
	if len(perm) != rank {
		return false
	}
	seen := make([]bool, rank)
	for _, p := range perm {
		if p < 0 || p >= rank || seen[p] {
			return false
		}
		seen[p] = true
	}
	return true
}

// TransposeOffsets returns, for each element of the transposed array in
// row-major order, its flat offset in the source array. Output axis k is
// source axis perm[k]. perm must be a valid permutation.
func TransposeOffsets(shape, perm []int) (outShape, offsets []int) {
	outShape = make([]int, len(shape))
	for k, p := range perm {
		outShape[k] = shape[p]
	}
	strides := Strides(shape)
	offsets = make([]int, 0, Product(shape))
	Walk(outShape, func(index []int) {
		off := 0
		for k, ix := range index {
			off += ix * strides[perm[k]]
		}
		offsets = append(offsets, off)
	})
	return outShape, offsets
}

// SelectOffsets returns the offsets of a selection that keeps the dims for
// which full[d] is true and fixes the others at at[d]. Pinned positions must
// already be validated against shape.
func SelectOffsets(shape []int, full []bool, at []int) (outShape, offsets []int) {
	strides := Strides(shape)
	base := 0
	var kept []int
	outShape = []int{}
	for d := range shape {
		if full[d] {
			kept = append(kept, d)
			outShape = append(outShape, shape[d])
		} else {
			base += at[d] * strides[d]
		}
	}
	offsets = make([]int, 0, Product(outShape))
	Walk(outShape, func(index []int) {
		off := base
		for k, ix := range index {
			off += ix * strides[kept[k]]
		}
		offsets = append(offsets, off)
	})
	return outShape, offsets
}

// TakeValues gathers src[offsets[i]] into a new slice of the same type.
func TakeValues(src reflect.Value, offsets []int) reflect.Value {
	dst := reflect.MakeSlice(src.Type(), len(offsets), len(offsets))
	for i, off := range offsets {
		dst.Index(i).Set(src.Index(off))
	}
	return dst
}

// TakeBools is TakeValues for bool masks.
func TakeBools(src []bool, offsets []int) []bool {
	dst := make([]bool, len(offsets))
	for i, off := range offsets {
		dst[i] = src[off]
	}
	return dst
}

// CopyInts returns a copy of s that is never nil.
func CopyInts(s []int) []int {
	c := make([]int, len(s))
	copy(c, s)
	return c
}

// EqualInts reports whether two shapes are identical.
func EqualInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
