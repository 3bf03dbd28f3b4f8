package internal

import (
	"math"
	"reflect"
)

// NetCDFFill returns the value NetCDF libraries write for elements that were
// never written, converted to t, or nil for types without one (strings,
// compounds).
func NetCDFFill(t reflect.Type) any {
	var fv any
	switch t.Kind() {
	case reflect.Float32:
		fv = math.Float32frombits(0x7cf00000)
	case reflect.Float64:
		fv = math.Float64frombits(0x479e000000000000)
	case reflect.Int8:
		fv = int8(-127)
	case reflect.Uint8:
		fv = uint8(0xff)
	case reflect.Int16:
		fv = int16(-32767)
	case reflect.Uint16:
		fv = uint16(0xffff)
	case reflect.Int32:
		fv = int32(-2147483647)
	case reflect.Uint32:
		fv = uint32(0xffffffff)
	case reflect.Int64:
		fv = int64(-9223372036854775806)
	case reflect.Uint64:
		fv = uint64(0xfffffffffffffffe)
	default:
		return nil
	}
	return reflect.ValueOf(fv).Convert(t).Interface()
}
