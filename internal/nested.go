package internal

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/batchatco/go-thrower"
)

// ErrRagged is returned by Flatten for nested slices of unequal lengths.
var ErrRagged = errors.New("ragged nested slice")

// Flatten turns nested Go slices, such as the [][]float32 values the NetCDF
// readers return, into one row-major slice and its shape. A value that is
// not a slice is a scalar of shape [].
func Flatten(values any) (flat reflect.Value, shape []int, err error) {
	defer thrower.RecoverError(&err)
	v := reflect.ValueOf(values)
	if !v.IsValid() {
		return reflect.Value{}, nil, fmt.Errorf("%w: nil value", ErrRagged)
	}
	shape, elem := NestedShape(v)
	flat = reflect.MakeSlice(reflect.SliceOf(elem), 0, Product(shape))
	flat = flatten(v, shape, flat)
	return flat, shape, nil
}

// NestedShape follows the first element down to the scalar type. Empty
// slices give zero lengths for everything below them.
func NestedShape(v reflect.Value) ([]int, reflect.Type) {
	shape := []int{}
	t := v.Type()
	for t.Kind() == reflect.Slice || t.Kind() == reflect.Array {
		n := 0
		if v.IsValid() {
			n = v.Len()
			if n > 0 {
				v = v.Index(0)
			} else {
				v = reflect.Value{}
			}
		}
		shape = append(shape, n)
		t = t.Elem()
	}
	return shape, t
}

func flatten(v reflect.Value, shape []int, flat reflect.Value) reflect.Value {
	if len(shape) == 0 {
		return reflect.Append(flat, v)
	}
	if v.Len() != shape[0] {
		thrower.Throw(fmt.Errorf("%w: length %d where %d expected", ErrRagged, v.Len(), shape[0]))
	}
	for i := 0; i < v.Len(); i++ {
		flat = flatten(v.Index(i), shape[1:], flat)
	}
	return flat
}
