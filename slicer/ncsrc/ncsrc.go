// Package ncsrc serves NetCDF variables (classic CDF and HDF5 based NetCDF4)
// as slicer sources. Reading is done by go-native-netcdf; this package only
// turns indices into hyperslabs, flattens the nested values and builds the
// mask from the CF missing data attributes.
package ncsrc

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/batchatco/go-native-netcdf/netcdf"
	ncapi "github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/batchatco/go-native-slicer/internal"
	"github.com/batchatco/go-native-slicer/slicer/api"
	"github.com/batchatco/go-native-slicer/slicer/masked"
	"github.com/batchatco/go-thrower"
)

const (
	fillValueKey    = "_FillValue"
	missingValueKey = "missing_value"
)

var (
	// ErrShape is returned when the values read from a file do not have the
	// shape the variable announced.
	ErrShape = errors.New("variable values do not match their shape")

	// ErrFillValue is returned for a fill value attribute that is not a scalar.
	ErrFillValue = errors.New("fill value not a scalar")
)

var (
	logger = internal.NewLogger("ncsrc")
)

// SetLogLevel sets the logging level to the given level, and returns
// the old level.
func SetLogLevel(level int) int {
	return int(logger.SetLogLevel(internal.LevelFromInt(level)))
}

// File is an open NetCDF file or one of its groups.
type File struct {
	group ncapi.Group
	path  string
}

// Open opens a NetCDF file by name.
func Open(fname string) (*File, error) {
	g, err := netcdf.Open(fname)
	if err != nil {
		return nil, err
	}
	return &File{group: g, path: "/"}, nil
}

// Close closes the group and the file when no other group uses it.
func (f *File) Close() {
	f.group.Close()
}

// Path is the absolute group path.
func (f *File) Path() string { return f.path }

// ListVariables lists the variables of this group.
func (f *File) ListVariables() []string {
	return f.group.ListVariables()
}

// ListSubgroups lists the groups below this one.
func (f *File) ListSubgroups() []string {
	return f.group.ListSubgroups()
}

// Group opens a subgroup, relative to this one or absolute.
func (f *File) Group(name string) (*File, error) {
	if rel := strings.Trim(name, "/"); rel != "" {
		for _, part := range strings.Split(rel, "/") {
			if err := internal.CheckName("group", part); err != nil {
				return nil, err
			}
		}
	}
	g, err := f.group.GetGroup(name)
	if err != nil {
		return nil, err
	}
	path := name
	if len(name) == 0 || name[0] != '/' {
		if f.path == "/" {
			path = "/" + name
		} else {
			path = f.path + "/" + name
		}
	}
	return &File{group: g, path: path}, nil
}

// Variable returns the named variable as a source.
func (f *File) Variable(name string) (*Variable, error) {
	if err := internal.CheckName("variable", name); err != nil {
		return nil, err
	}
	vg, err := f.group.GetVarGetter(name)
	if err != nil {
		return nil, fmt.Errorf("variable %q: %w", name, err)
	}
	return New(name, vg)
}

type attrGetter interface {
	Get(key string) (val any, has bool)
}

// reader is the part of a go-native-netcdf VarGetter that a Variable uses.
type reader interface {
	Shape() []int64
	Dimensions() []string
	Type() string
	GoType() string
	GetSlice(begin, end int64) (any, error)
	GetSliceMD(begin, end []int64) (any, error)
}

// Go types of the basic NetCDF types, used when an empty variable leaves
// nothing to sample.
var goTypes = map[string]reflect.Type{
	"int8":    reflect.TypeOf(int8(0)),
	"int16":   reflect.TypeOf(int16(0)),
	"int32":   reflect.TypeOf(int32(0)),
	"int64":   reflect.TypeOf(int64(0)),
	"uint8":   reflect.TypeOf(uint8(0)),
	"uint16":  reflect.TypeOf(uint16(0)),
	"uint32":  reflect.TypeOf(uint32(0)),
	"uint64":  reflect.TypeOf(uint64(0)),
	"float32": reflect.TypeOf(float32(0)),
	"float64": reflect.TypeOf(float64(0)),
	"string":  reflect.TypeOf(""),
}

// Variable is a NetCDF variable. Every Slice call reads only the
// hyperslab its indices select.
type Variable struct {
	name     string
	r        reader
	fileDims []int64 // as stored, including a folded character dimension
	folded   bool
	shape    []int
	dimNames []string
	fill     any
	missing  []reflect.Value
	elemType reflect.Type
}

var (
	_ api.Source    = (*Variable)(nil)
	_ api.Sliceable = (*Variable)(nil)
)

// New wraps a getter obtained from go-native-netcdf.
func New(name string, vg ncapi.VarGetter) (*Variable, error) {
	return newVariable(name, vg, vg.Attributes())
}

func newVariable(name string, r reader, attrs attrGetter) (v *Variable, err error) {
	defer thrower.RecoverError(&err)

	fileDims := r.Shape()
	v = &Variable{name: name, r: r, fileDims: append([]int64(nil), fileDims...)}
	rank := len(fileDims)
	empty := false
	for _, d := range fileDims {
		if d < 0 {
			thrower.Throw(fmt.Errorf("%w: %s has dimension lengths %v", ErrShape, name, fileDims))
		}
		empty = empty || d == 0
	}

	// Character dimensions are folded into strings by the readers, so the
	// values can have a lower rank than the file. A one-element read tells
	// the element type and how many trailing dimensions were folded.
	var elemType reflect.Type
	if t, ok := goTypes[r.GoType()]; ok && empty {
		elemType = t
		if r.Type() == "char" && rank > 0 {
			rank--
		}
	} else {
		sample := v.read(func(i int) (int64, int64) {
			return 0, min(fileDims[i], 1)
		})
		_, sampleShape := flatten(sample)
		_, elemType = internal.NestedShape(reflect.ValueOf(sample))
		if len(sampleShape) < rank {
			rank = len(sampleShape)
		}
	}

	v.folded = rank < len(fileDims)
	v.shape = make([]int, rank)
	for i := range v.shape {
		v.shape[i] = int(fileDims[i])
	}
	dimNames := r.Dimensions()
	v.dimNames = make([]string, rank)
	copy(v.dimNames, dimNames)
	v.elemType = elemType

	v.fill = fillValue(attrs, elemType)
	v.missing = missingValues(attrs, elemType, v.fill)
	logger.Debugf("%s: shape %v (file %v), dims %v, %v, fill %v",
		name, v.shape, fileDims, v.dimNames, elemType, v.fill)
	return v, nil
}

// read reads the hyperslab that span gives for each file dimension.
func (v *Variable) read(span func(i int) (begin, end int64)) any {
	if len(v.fileDims) == 0 {
		raw, err := v.r.GetSlice(0, 1)
		thrower.ThrowIfError(err)
		return raw
	}
	begin := make([]int64, len(v.fileDims))
	end := make([]int64, len(v.fileDims))
	for i := range v.fileDims {
		begin[i], end[i] = span(i)
	}
	logger.Debugf("%s: reading %v to %v", v.name, begin, end)
	raw, err := v.r.GetSliceMD(begin, end)
	thrower.ThrowIfError(err)
	return raw
}

func flatten(values any) (reflect.Value, []int) {
	flat, shape, err := internal.Flatten(values)
	if err != nil {
		thrower.Throw(fmt.Errorf("%w: %v", ErrShape, err))
	}
	return flat, shape
}

// Name is the variable name.
func (v *Variable) Name() string { return v.name }

func (v *Variable) Rank() int { return len(v.shape) }

func (v *Variable) Shape() []int { return internal.CopyInts(v.shape) }

func (v *Variable) DimName(i int) string {
	if v.dimNames[i] == "" {
		return fmt.Sprintf("dim-%d", i)
	}
	return v.dimNames[i]
}

// FillValue is the _FillValue attribute or the NetCDF default fill value.
func (v *Variable) FillValue() any { return v.fill }

// IsSliceable is false for variables with an empty dimension, such as a
// record variable without records.
func (v *Variable) IsSliceable() bool {
	for _, s := range v.shape {
		if s < 1 {
			return false
		}
	}
	return true
}

// Slice reads the hyperslab that indices select: the whole of a full range
// dimension and one element of a pinned one. The pinned dimensions are
// dropped from the result.
func (v *Variable) Slice(indices []api.Index) (arr *masked.Array, err error) {
	defer thrower.RecoverError(&err)
	if len(indices) != len(v.shape) {
		return nil, fmt.Errorf("%w: %d indices for rank %d", masked.ErrIndex, len(indices), len(v.shape))
	}

	want := make([]int, len(v.shape))
	rest := make([]api.Index, len(indices))
	for i, idx := range indices {
		if idx.IsFull() {
			want[i] = v.shape[i]
			rest[i] = api.Full
			continue
		}
		p := idx.Pos()
		if p < 0 || p >= v.shape[i] {
			return nil, fmt.Errorf("%w: index %d for %s of size %d",
				masked.ErrIndex, p, v.DimName(i), v.shape[i])
		}
		want[i] = 1
		rest[i] = api.At(0)
	}
	raw := v.read(func(i int) (int64, int64) {
		if i >= len(indices) || indices[i].IsFull() {
			// Folded character dimensions are always read whole.
			return 0, v.fileDims[i]
		}
		p := int64(indices[i].Pos())
		return p, p + 1
	})
	flat, shape := flatten(raw)
	if v.folded {
		trimPadding(flat)
	}

	if len(shape) < len(want) || !internal.EqualInts(shape[:len(want)], want) ||
		flat.Len() != internal.Product(want) {
		return nil, fmt.Errorf("%w: %s read as %v, want %v", ErrShape, v.name, shape, want)
	}
	block, err := masked.FromDense(flat.Interface(), want, v.mask(flat, want), v.fill)
	thrower.ThrowIfError(err)
	return block.Slice(rest)
}

// trimPadding drops the NUL bytes that pad character data to the length
// of its dimension.
func trimPadding(flat reflect.Value) {
	if flat.Type().Elem().Kind() != reflect.String {
		return
	}
	for i := 0; i < flat.Len(); i++ {
		e := flat.Index(i)
		e.SetString(strings.TrimRight(e.String(), "\x00"))
	}
}

// mask flags fill values, missing values and NaN.
func (v *Variable) mask(flat reflect.Value, shape []int) masked.Mask {
	elems := make([]bool, flat.Len())
	found := false
	float := flat.Type().Elem().Kind() == reflect.Float32 || flat.Type().Elem().Kind() == reflect.Float64
	for i := range elems {
		e := flat.Index(i)
		if float && math.IsNaN(e.Float()) {
			elems[i] = true
		} else {
			for _, m := range v.missing {
				if e.Equal(m) {
					elems[i] = true
					break
				}
			}
		}
		found = found || elems[i]
	}
	if !found {
		return masked.NoMask
	}
	return masked.Elementwise(elems, shape)
}

func getAttr(attrs attrGetter, key string) (any, bool) {
	if attrs == nil {
		return nil, false
	}
	if rv := reflect.ValueOf(attrs); rv.Kind() == reflect.Ptr && rv.IsNil() {
		return nil, false
	}
	return attrs.Get(key)
}

// fillValue returns the _FillValue attribute converted to the element type,
// or the NetCDF default for the type.
func fillValue(attrs attrGetter, elemType reflect.Type) any {
	if fv, has := getAttr(attrs, fillValueKey); has {
		val := reflect.ValueOf(fv)
		if val.Kind() == reflect.Slice {
			if val.Len() != 1 {
				thrower.Throw(ErrFillValue)
			}
			val = val.Index(0)
		}
		if convertible(val.Type(), elemType) {
			return val.Convert(elemType).Interface()
		}
		logger.Warnf("%s %v does not convert to %v, using default", fillValueKey, fv, elemType)
	}
	return internal.NetCDFFill(elemType)
}

// missingValues lists the values that mask an element: the fill value and
// every entry of the missing_value attribute that fits the element type.
func missingValues(attrs attrGetter, elemType reflect.Type, fill any) []reflect.Value {
	var missing []reflect.Value
	if fill != nil {
		missing = append(missing, reflect.ValueOf(fill))
	}
	mv, has := getAttr(attrs, missingValueKey)
	if !has {
		return missing
	}
	val := reflect.ValueOf(mv)
	var candidates []reflect.Value
	if val.Kind() == reflect.Slice && elemType.Kind() != reflect.Slice {
		for i := 0; i < val.Len(); i++ {
			candidates = append(candidates, val.Index(i))
		}
	} else {
		candidates = append(candidates, val)
	}
	for _, c := range candidates {
		if !convertible(c.Type(), elemType) {
			logger.Warnf("%s %v does not convert to %v", missingValueKey, c, elemType)
			continue
		}
		missing = append(missing, c.Convert(elemType))
	}
	return missing
}

// convertible refuses conversions that change the meaning of a value, like
// an integer attribute turned into a one-rune string.
func convertible(from, to reflect.Type) bool {
	return from.ConvertibleTo(to) && isNumber(from.Kind()) == isNumber(to.Kind())
}

func isNumber(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Complex128
}
