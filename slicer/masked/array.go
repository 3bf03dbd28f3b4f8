// Package masked implements a dense n-dimensional array that carries a mask
// and a fill value, the unit of exchange between data sources, the slicing
// engine and the inspectors that render its result.
//
// Data is stored row-major in a flat Go slice of any element type. Every
// operation returns a new Array; an Array never aliases the slice it was
// built from.
package masked

import (
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/batchatco/go-native-slicer/internal"
)

var (
	logger = internal.NewLogger("masked")
)

// SetLogLevel sets the logging level to the given level, and returns
// the old level. The lowest level is 0 (fatal only) and the highest is 4
// (debug).
func SetLogLevel(level int) int {
	return int(logger.SetLogLevel(internal.LevelFromInt(level)))
}

// Array is a dense array with a mask and a fill value.
type Array struct {
	values reflect.Value // flat slice, len == product(shape)
	shape  []int
	mask   Mask
	fill   any
}

// FromDense builds an array from a flat row-major slice. A nil fill value
// selects DefaultFillValue for the element type.
func FromDense(values any, shape []int, mask Mask, fill any) (*Array, error) {
	v := reflect.ValueOf(values)
	if v.Kind() != reflect.Slice {
		return nil, fmt.Errorf("%w: data is a %T, not a slice", ErrConsistency, values)
	}
	for _, s := range shape {
		if s < 0 {
			return nil, fmt.Errorf("%w: negative dimension in shape %v", ErrConsistency, shape)
		}
	}
	if v.Len() != internal.Product(shape) {
		return nil, fmt.Errorf("%w: %d elements do not fill shape %v",
			ErrConsistency, v.Len(), shape)
	}
	if !mask.check(shape) {
		err := fmt.Errorf("%w: mask shape %v (%d elements) differs from data shape %v",
			ErrConsistency, mask.shape, len(mask.elems), shape)
		logger.Error(err)
		return nil, err
	}
	fv, err := convertFill(fill, v.Type().Elem())
	if err != nil {
		return nil, err
	}
	return &Array{
		values: internal.TakeValues(v, identity(v.Len())),
		shape:  internal.CopyInts(shape),
		mask:   mask,
		fill:   fv,
	}, nil
}

// Scalar builds a rank-0 array holding one value.
func Scalar(value any, masked bool, fill any) (*Array, error) {
	if value == nil {
		return nil, fmt.Errorf("%w: nil scalar", ErrConsistency)
	}
	v := reflect.ValueOf(value)
	s := reflect.MakeSlice(reflect.SliceOf(v.Type()), 1, 1)
	s.Index(0).Set(v)
	return FromDense(s.Interface(), []int{}, Uniform(masked), fill)
}

func identity(n int) []int {
	ix := make([]int, n)
	for i := range ix {
		ix[i] = i
	}
	return ix
}

// Shape returns a copy of the shape.
func (a *Array) Shape() []int { return internal.CopyInts(a.shape) }

// Rank is the number of dimensions.
func (a *Array) Rank() int { return len(a.shape) }

// Len is the number of elements.
func (a *Array) Len() int { return a.values.Len() }

// ElemType is the Go type of the elements.
func (a *Array) ElemType() reflect.Type { return a.values.Type().Elem() }

// FillValue returns the fill value, of the element type.
func (a *Array) FillValue() any { return a.fill }

// Mask returns the mask.
func (a *Array) Mask() Mask { return a.mask }

// Values returns a copy of the flat row-major data slice.
func (a *Array) Values() any {
	return internal.TakeValues(a.values, identity(a.values.Len())).Interface()
}

// At returns the element at index. It panics if the index is out of range.
func (a *Array) At(index ...int) any {
	off := internal.Offset(index, a.shape)
	if off < 0 {
		panic(fmt.Sprintf("masked: index %v out of range for shape %v", index, a.shape))
	}
	return a.values.Index(off).Interface()
}

// MaskAt returns the mask value at index. A uniform mask is returned for
// any index, valid or not. An elementwise mask panics on an invalid index.
func (a *Array) MaskAt(index ...int) bool {
	if a.mask.IsUniform() {
		return a.mask.uniform
	}
	off := internal.Offset(index, a.shape)
	if off < 0 {
		panic(fmt.Sprintf("masked: index %v out of range for shape %v", index, a.shape))
	}
	return a.mask.elems[off]
}

// MaskAsArray materializes the mask with one value per element.
func (a *Array) MaskAsArray() []bool {
	if !a.mask.IsUniform() {
		return a.mask.Elems()
	}
	m := make([]bool, a.Len())
	if a.mask.uniform {
		for i := range m {
			m[i] = true
		}
	}
	return m
}

// WithElementwiseMask returns a copy whose mask is always elementwise.
func (a *Array) WithElementwiseMask() *Array {
	c := a.clone()
	c.mask = Mask{elems: a.MaskAsArray(), shape: internal.CopyInts(a.shape)}
	return c
}

func (a *Array) clone() *Array {
	return &Array{
		values: internal.TakeValues(a.values, identity(a.values.Len())),
		shape:  internal.CopyInts(a.shape),
		mask:   a.mask,
		fill:   a.fill,
	}
}

// Transpose permutes the dimensions: axis k of the result is axis perm[k]
// of a. An elementwise mask is permuted the same way.
func (a *Array) Transpose(perm ...int) (*Array, error) {
	if !internal.IsPermutation(perm, len(a.shape)) {
		err := fmt.Errorf("%w: %v for rank %d", ErrInvalidPermutation, perm, len(a.shape))
		logger.Error(err)
		return nil, err
	}
	shape, offsets := internal.TransposeOffsets(a.shape, perm)
	out := &Array{
		values: internal.TakeValues(a.values, offsets),
		shape:  shape,
		mask:   a.mask,
		fill:   a.fill,
	}
	if !a.mask.IsUniform() {
		out.mask = Mask{elems: internal.TakeBools(a.mask.elems, offsets), shape: internal.CopyInts(shape)}
	}
	return out, nil
}

// ExpandDims inserts a dimension of length 1 before axis. axis may equal
// the rank to append.
func (a *Array) ExpandDims(axis int) (*Array, error) {
	if axis < 0 || axis > len(a.shape) {
		return nil, fmt.Errorf("%w: cannot insert at %d in rank %d", ErrInvalidAxis, axis, len(a.shape))
	}
	shape := make([]int, 0, len(a.shape)+1)
	shape = append(shape, a.shape[:axis]...)
	shape = append(shape, 1)
	shape = append(shape, a.shape[axis:]...)

	out := a.clone()
	out.shape = shape
	if !a.mask.IsUniform() {
		out.mask = Mask{elems: a.mask.Elems(), shape: internal.CopyInts(shape)}
	}
	return out, nil
}

// Slice applies one Index per dimension. Pinned dimensions are removed, so
// the result rank is CountFull(indices).
func (a *Array) Slice(indices []Index) (*Array, error) {
	if len(indices) != len(a.shape) {
		return nil, fmt.Errorf("%w: %d indices for rank %d", ErrIndex, len(indices), len(a.shape))
	}
	full := make([]bool, len(indices))
	at := make([]int, len(indices))
	for d, ix := range indices {
		if ix.full {
			full[d] = true
			continue
		}
		if ix.at < 0 || ix.at >= a.shape[d] {
			return nil, fmt.Errorf("%w: index %d for dimension %d of size %d", ErrIndex, ix.at, d, a.shape[d])
		}
		at[d] = ix.at
	}
	shape, offsets := internal.SelectOffsets(a.shape, full, at)
	out := &Array{
		values: internal.TakeValues(a.values, offsets),
		shape:  shape,
		mask:   a.mask,
		fill:   a.fill,
	}
	if !a.mask.IsUniform() {
		out.mask = Mask{elems: internal.TakeBools(a.mask.elems, offsets), shape: internal.CopyInts(shape)}
	}
	return out, nil
}

// ReplaceMaskedWith returns a copy in which every masked element is value.
// If the element type cannot represent value (NaN into integers, a string
// into numbers) the copy is returned unchanged; promote with Float64s first.
// The mask and fill value are kept.
func (a *Array) ReplaceMaskedWith(value any) *Array {
	out := a.clone()
	if !a.mask.Any() || value == nil {
		return out
	}
	rv, ok := representable(reflect.ValueOf(value), a.ElemType())
	if !ok {
		logger.Infof("%v cannot represent %v, masked values left as is", a.ElemType(), value)
		return out
	}
	if a.mask.IsUniform() {
		for i := 0; i < out.values.Len(); i++ {
			out.values.Index(i).Set(rv)
		}
		return out
	}
	for i, m := range a.mask.elems {
		if m {
			out.values.Index(i).Set(rv)
		}
	}
	return out
}

// Filled returns a copy with masked elements replaced by the fill value.
func (a *Array) Filled() *Array {
	return a.ReplaceMaskedWith(a.fill)
}

// Float64s promotes numeric data and the fill value to float64. Complex
// values keep their real part.
func (a *Array) Float64s() (*Array, error) {
	et := a.ElemType()
	if !isNumeric(et.Kind()) {
		return nil, fmt.Errorf("%w: %v", ErrNotNumeric, et)
	}
	n := a.values.Len()
	f := make([]float64, n)
	for i := 0; i < n; i++ {
		f[i] = toFloat64(a.values.Index(i))
	}
	return &Array{
		values: reflect.ValueOf(f),
		shape:  internal.CopyInts(a.shape),
		mask:   a.mask,
		fill:   toFloat64(reflect.ValueOf(a.fill)),
	}, nil
}

// FilledNaN promotes to float64 and replaces masked elements with NaN,
// which is what plotting consumers expect.
func (a *Array) FilledNaN() (*Array, error) {
	f, err := a.Float64s()
	if err != nil {
		return nil, err
	}
	return f.ReplaceMaskedWith(math.NaN()), nil
}

func toFloat64(v reflect.Value) float64 {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(v.Uint())
	case reflect.Float32, reflect.Float64:
		return v.Float()
	case reflect.Complex64, reflect.Complex128:
		return real(v.Complex())
	}
	return math.NaN()
}

// Field extracts one field of a struct element type. Masks apply to whole
// records, so the field shares the record mask. The field's fill value is
// taken from the record fill value.
func (a *Array) Field(name string) (*Array, error) {
	et := a.ElemType()
	if et.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %q, elements are %v", ErrNoSuchField, name, et)
	}
	sf, ok := et.FieldByName(name)
	if !ok || !sf.IsExported() {
		return nil, fmt.Errorf("%w: %q in %v", ErrNoSuchField, name, et)
	}
	n := a.values.Len()
	vals := reflect.MakeSlice(reflect.SliceOf(sf.Type), n, n)
	for i := 0; i < n; i++ {
		vals.Index(i).Set(a.values.Index(i).FieldByIndex(sf.Index))
	}
	return &Array{
		values: vals,
		shape:  internal.CopyInts(a.shape),
		mask:   a.mask,
		fill:   reflect.ValueOf(a.fill).FieldByIndex(sf.Index).Interface(),
	}, nil
}

// FieldNames lists the exported fields of a struct element type.
func (a *Array) FieldNames() []string {
	et := a.ElemType()
	if et.Kind() != reflect.Struct {
		return nil
	}
	var names []string
	for i := 0; i < et.NumField(); i++ {
		if et.Field(i).IsExported() {
			names = append(names, et.Field(i).Name)
		}
	}
	return names
}

// Equal reports whether b has the same shape, element type, data, mask and
// fill value. Elements are compared with reflect.DeepEqual, so NaN never
// equals NaN.
func (a *Array) Equal(b *Array) bool {
	if a == nil || b == nil {
		return a == b
	}
	if !internal.EqualInts(a.shape, b.shape) || a.ElemType() != b.ElemType() {
		return false
	}
	if a.mask.IsUniform() != b.mask.IsUniform() || a.mask.uniform != b.mask.uniform {
		return false
	}
	if !reflect.DeepEqual(a.MaskAsArray(), b.MaskAsArray()) {
		return false
	}
	return reflect.DeepEqual(a.values.Interface(), b.values.Interface()) &&
		reflect.DeepEqual(a.fill, b.fill)
}

// String renders small arrays for debugging; masked elements print as --.
func (a *Array) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("masked.Array%v ", a.shape))
	if len(a.shape) == 0 {
		a.writeElem(&sb, 0)
		return sb.String()
	}
	mask := a.MaskAsArray()
	a.writeDim(&sb, 0, 0, internal.Strides(a.shape), mask)
	return sb.String()
}

func (a *Array) writeDim(sb *strings.Builder, dim, base int, strides []int, mask []bool) {
	sb.WriteByte('[')
	for i := 0; i < a.shape[dim]; i++ {
		if i > 0 {
			sb.WriteByte(' ')
		}
		off := base + i*strides[dim]
		if dim == len(a.shape)-1 {
			if mask[off] {
				sb.WriteString("--")
			} else {
				sb.WriteString(fmt.Sprint(a.values.Index(off).Interface()))
			}
			continue
		}
		a.writeDim(sb, dim+1, off, strides, mask)
	}
	sb.WriteByte(']')
}

func (a *Array) writeElem(sb *strings.Builder, off int) {
	if a.MaskAt() {
		sb.WriteString("--")
		return
	}
	sb.WriteString(fmt.Sprint(a.values.Index(off).Interface()))
}
