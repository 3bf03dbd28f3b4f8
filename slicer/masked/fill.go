package masked

import (
	"fmt"
	"math"
	"reflect"
)

// Default fill values follow the NumPy masked array conventions so that
// values exported from a Python toolchain compare equal.
const (
	defaultIntFill   = 999999
	defaultFloatFill = 1e20
	defaultTextFill  = "N/A"
)

// DefaultFillValue returns the fill value used when none is given for
// elements of type t.
func DefaultFillValue(t reflect.Type) any {
	v := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.Bool:
		v.SetBool(true)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		// Truncates for the small types, like NumPy does.
		v.SetInt(defaultIntFill)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		v.SetUint(defaultIntFill)
	case reflect.Float32, reflect.Float64:
		v.SetFloat(defaultFloatFill)
	case reflect.Complex64, reflect.Complex128:
		v.SetComplex(complex(defaultFloatFill, 0))
	case reflect.String:
		v.SetString(defaultTextFill)
	}
	return v.Interface()
}

// convertFill converts a caller supplied fill value to the element type.
func convertFill(fill any, t reflect.Type) (any, error) {
	if fill == nil {
		return DefaultFillValue(t), nil
	}
	fv := reflect.ValueOf(fill)
	if fv.Type() == t {
		return fill, nil
	}
	if !fv.Type().ConvertibleTo(t) || isNumeric(fv.Kind()) != isNumeric(t.Kind()) {
		return nil, fmt.Errorf("%w: fill value %v (%T) is not a %v", ErrConsistency, fill, fill, t)
	}
	return fv.Convert(t).Interface(), nil
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	}
	return false
}

func isFloat(k reflect.Kind) bool {
	switch k {
	case reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	}
	return false
}

// representable converts v to t if t can hold it without losing the value.
// NaN and infinities are only representable by floating point types.
func representable(v reflect.Value, t reflect.Type) (reflect.Value, bool) {
	if v.Type() == t {
		return v, true
	}
	if isComplexKind(t.Kind()) && isNumeric(v.Kind()) && !isComplexKind(v.Kind()) {
		f := v.Convert(reflect.TypeOf(float64(0))).Float()
		return reflect.ValueOf(complex(f, 0)).Convert(t), true
	}
	if isNumeric(v.Kind()) != isNumeric(t.Kind()) || !v.Type().ConvertibleTo(t) {
		return reflect.Value{}, false
	}
	if !isNumeric(t.Kind()) || isFloat(t.Kind()) {
		return v.Convert(t), true
	}
	// Integer target: the sign must carry over and the value must survive
	// the round trip.
	switch {
	case isFloat(v.Kind()):
		f := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
			return reflect.Value{}, false
		}
		if f < 0 && isUnsigned(t.Kind()) {
			return reflect.Value{}, false
		}
	case isUnsigned(v.Kind()):
		if !isUnsigned(t.Kind()) && v.Uint() > math.MaxInt64 {
			return reflect.Value{}, false
		}
	default:
		if isUnsigned(t.Kind()) && v.Int() < 0 {
			return reflect.Value{}, false
		}
	}
	c := v.Convert(t)
	if !c.Convert(v.Type()).Equal(v) {
		return reflect.Value{}, false
	}
	return c, true
}

func isUnsigned(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

func isComplexKind(k reflect.Kind) bool {
	return k == reflect.Complex64 || k == reflect.Complex128
}
