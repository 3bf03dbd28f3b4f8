package masked

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func grid(t *testing.T) *Array {
	t.Helper()
	// [[1 2 3]
	//  [4 5 6]] with 2 and 6 masked
	a, err := FromDense([]int32{1, 2, 3, 4, 5, 6}, []int{2, 3},
		Elementwise([]bool{false, true, false, false, false, true}, []int{2, 3}), int32(-1))
	require.NoError(t, err)
	return a
}

func TestFromDense(t *testing.T) {
	a := grid(t)
	assert.Equal(t, []int{2, 3}, a.Shape())
	assert.Equal(t, 2, a.Rank())
	assert.Equal(t, 6, a.Len())
	assert.Equal(t, int32(-1), a.FillValue())
	assert.Equal(t, int32(5), a.At(1, 1))
	assert.True(t, a.MaskAt(0, 1))
	assert.False(t, a.MaskAt(1, 0))
}

func TestFromDenseCopies(t *testing.T) {
	data := []float64{1, 2}
	a, err := FromDense(data, []int{2}, NoMask, nil)
	require.NoError(t, err)
	data[0] = 99
	assert.Equal(t, 1.0, a.At(0))

	vals := a.Values().([]float64)
	vals[1] = 99
	assert.Equal(t, 2.0, a.At(1))
}

func TestFromDenseInconsistent(t *testing.T) {
	_, err := FromDense([]int{1, 2, 3}, []int{2, 2}, NoMask, nil)
	assert.True(t, errors.Is(err, ErrConsistency))

	_, err = FromDense([]int{1, 2, 3, 4}, []int{2, 2},
		Elementwise([]bool{true, false}, []int{2}), nil)
	assert.True(t, errors.Is(err, ErrConsistency))

	_, err = FromDense(7, []int{}, NoMask, nil)
	assert.True(t, errors.Is(err, ErrConsistency))

	_, err = FromDense([]int{1}, []int{1}, NoMask, "x")
	assert.True(t, errors.Is(err, ErrConsistency), "a string fill for integers")
}

func TestDefaultFill(t *testing.T) {
	a, err := FromDense([]float32{1}, []int{1}, NoMask, nil)
	require.NoError(t, err)
	assert.Equal(t, float32(1e20), a.FillValue())

	a, err = FromDense([]string{"x"}, []int{1}, NoMask, nil)
	require.NoError(t, err)
	assert.Equal(t, "N/A", a.FillValue())

	a, err = FromDense([]int64{1}, []int{1}, NoMask, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), a.FillValue(), "fill converted to the element type")
}

func TestUniformMaskBroadcast(t *testing.T) {
	a, err := FromDense([]int{1, 2, 3, 4}, []int{2, 2}, Uniform(true), nil)
	require.NoError(t, err)
	assert.True(t, a.MaskAt(1, 1))
	assert.True(t, a.MaskAt(7, 7), "uniform mask has a value for any index")
	assert.Equal(t, []bool{true, true, true, true}, a.MaskAsArray())

	tr, err := a.Transpose(1, 0)
	require.NoError(t, err)
	assert.True(t, tr.Mask().IsUniform(), "transpose keeps a uniform mask")
	assert.True(t, tr.MaskAt(0, 1))
	assert.True(t, tr.MaskAt(1, 0))
	assert.Equal(t, []bool{true, true, true, true}, tr.MaskAsArray())

	b, err := FromDense([]int{1, 2}, []int{2}, NoMask, nil)
	require.NoError(t, err)
	assert.False(t, b.MaskAt(5))
	assert.Equal(t, []bool{false, false}, b.MaskAsArray())
}

func TestElementwiseMaskAtPanics(t *testing.T) {
	a := grid(t)
	assert.Panics(t, func() { a.MaskAt(2, 0) })
	assert.Panics(t, func() { a.At(0, 3) })
}

func TestScalar(t *testing.T) {
	s, err := Scalar(2.5, true, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Rank())
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 2.5, s.At())
	assert.True(t, s.MaskAt())

	e := s.WithElementwiseMask()
	assert.False(t, e.Mask().IsUniform())
	assert.Equal(t, []int{}, e.Mask().Shape())
	assert.Equal(t, []bool{true}, e.Mask().Elems())

	_, err = Scalar(nil, false, nil)
	assert.True(t, errors.Is(err, ErrConsistency))
}

func TestTranspose(t *testing.T) {
	a := grid(t)
	tr, err := a.Transpose(1, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2}, tr.Shape())
	assert.Equal(t, []int32{1, 4, 2, 5, 3, 6}, tr.Values())
	assert.Equal(t, []bool{false, false, true, false, false, true}, tr.MaskAsArray())
	assert.Equal(t, []int{3, 2}, tr.Mask().Shape())
	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			assert.Equal(t, a.At(i, j), tr.At(j, i))
			assert.Equal(t, a.MaskAt(i, j), tr.MaskAt(j, i))
		}
	}

	back, err := tr.Transpose(1, 0)
	require.NoError(t, err)
	assert.True(t, back.Equal(a))
}

func TestTransposeInvalid(t *testing.T) {
	a := grid(t)
	for _, perm := range [][]int{{0}, {0, 0}, {1, 2}, {0, 1, 2}} {
		_, err := a.Transpose(perm...)
		assert.True(t, errors.Is(err, ErrInvalidPermutation), "perm %v", perm)
	}
}

func TestExpandDims(t *testing.T) {
	a := grid(t)
	for axis, want := range [][]int{{1, 2, 3}, {2, 1, 3}, {2, 3, 1}} {
		e, err := a.ExpandDims(axis)
		require.NoError(t, err)
		assert.Equal(t, want, e.Shape())
		assert.Equal(t, want, e.Mask().Shape())
		assert.Equal(t, a.Values(), e.Values())
		assert.Equal(t, a.MaskAsArray(), e.MaskAsArray())
	}
	_, err := a.ExpandDims(3)
	assert.True(t, errors.Is(err, ErrInvalidAxis))
	_, err = a.ExpandDims(-1)
	assert.True(t, errors.Is(err, ErrInvalidAxis))

	u, err := FromDense([]int{1, 2}, []int{2}, Uniform(true), nil)
	require.NoError(t, err)
	e, err := u.ExpandDims(0)
	require.NoError(t, err)
	assert.True(t, e.Mask().IsUniform(), "uniform masks stay uniform")
	assert.True(t, e.MaskAt(0, 1))
}

func TestSlice(t *testing.T) {
	a := grid(t)

	row, err := a.Slice([]Index{At(0), Full})
	require.NoError(t, err)
	assert.Equal(t, []int{3}, row.Shape())
	assert.Equal(t, []int32{1, 2, 3}, row.Values())
	assert.Equal(t, []bool{false, true, false}, row.MaskAsArray())

	col, err := a.Slice([]Index{Full, At(2)})
	require.NoError(t, err)
	assert.Equal(t, []int32{3, 6}, col.Values())
	assert.Equal(t, []bool{false, true}, col.MaskAsArray())

	cell, err := a.Slice([]Index{At(1), At(2)})
	require.NoError(t, err)
	assert.Equal(t, 0, cell.Rank())
	assert.Equal(t, int32(6), cell.At())
	assert.True(t, cell.MaskAt())

	all, err := a.Slice([]Index{Full, Full})
	require.NoError(t, err)
	assert.True(t, all.Equal(a))

	_, err = a.Slice([]Index{At(2), Full})
	assert.True(t, errors.Is(err, ErrIndex))
	_, err = a.Slice([]Index{Full})
	assert.True(t, errors.Is(err, ErrIndex))
}

func TestCountFull(t *testing.T) {
	assert.Equal(t, 0, CountFull(nil))
	assert.Equal(t, 2, CountFull([]Index{Full, At(3), Full}))
	assert.Equal(t, ":", Full.String())
	assert.Equal(t, "3", At(3).String())
}

func TestReplaceMaskedWith(t *testing.T) {
	a := grid(t)
	r := a.ReplaceMaskedWith(int32(0))
	assert.Equal(t, []int32{1, 0, 3, 4, 5, 0}, r.Values())
	assert.Equal(t, a.MaskAsArray(), r.MaskAsArray(), "mask is kept")
	assert.Equal(t, a.FillValue(), r.FillValue())
	assert.Equal(t, []int32{1, 2, 3, 4, 5, 6}, a.Values(), "receiver untouched")

	assert.Equal(t, []int32{1, -1, 3, 4, 5, -1}, a.Filled().Values())

	// NaN has no integer representation.
	n := a.ReplaceMaskedWith(math.NaN())
	assert.True(t, n.Equal(a))

	// Neither has 1.5 nor a value out of range.
	assert.True(t, a.ReplaceMaskedWith(1.5).Equal(a))
	assert.True(t, a.ReplaceMaskedWith(int64(math.MaxInt64)).Equal(a))

	assert.Equal(t, []int32{1, 7, 3, 4, 5, 7}, a.ReplaceMaskedWith(7.0).Values())

	// The sign must survive a signed/unsigned conversion.
	u, err := FromDense([]uint64{1, 2}, []int{2}, Elementwise([]bool{true, false}, []int{2}), nil)
	require.NoError(t, err)
	assert.True(t, u.ReplaceMaskedWith(-1).Equal(u))
	assert.True(t, u.ReplaceMaskedWith(int8(-1)).Equal(u))
	assert.True(t, u.ReplaceMaskedWith(-1.0).Equal(u))
	assert.Equal(t, []uint64{9, 2}, u.ReplaceMaskedWith(9).Values())

	s, err := FromDense([]int64{1, 2}, []int{2}, Elementwise([]bool{true, false}, []int{2}), nil)
	require.NoError(t, err)
	assert.True(t, s.ReplaceMaskedWith(uint64(math.MaxUint64)).Equal(s))
	assert.Equal(t, []int64{math.MaxInt64, 2}, s.ReplaceMaskedWith(uint64(math.MaxInt64)).Values())
}

func TestReplaceUniform(t *testing.T) {
	a, err := FromDense([]float32{1, 2}, []int{2}, Uniform(true), nil)
	require.NoError(t, err)
	r := a.ReplaceMaskedWith(math.NaN())
	vals := r.Values().([]float32)
	assert.True(t, math.IsNaN(float64(vals[0])))
	assert.True(t, math.IsNaN(float64(vals[1])))

	b, err := FromDense([]float32{1, 2}, []int{2}, NoMask, nil)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2}, b.ReplaceMaskedWith(math.NaN()).Values())
}

func TestFilledNaN(t *testing.T) {
	a := grid(t)
	f, err := a.FilledNaN()
	require.NoError(t, err)
	vals := f.Values().([]float64)
	assert.Equal(t, 1.0, vals[0])
	assert.True(t, math.IsNaN(vals[1]))
	assert.Equal(t, 5.0, vals[4])
	assert.True(t, math.IsNaN(vals[5]))
	assert.Equal(t, -1.0, f.FillValue())

	s, err := FromDense([]string{"a"}, []int{1}, NoMask, nil)
	require.NoError(t, err)
	_, err = s.FilledNaN()
	assert.True(t, errors.Is(err, ErrNotNumeric))
}

func TestComplexReplace(t *testing.T) {
	a, err := FromDense([]complex128{1, 2}, []int{2}, Elementwise([]bool{true, false}, []int{2}), nil)
	require.NoError(t, err)
	assert.Equal(t, complex(1e20, 0), a.FillValue())
	r := a.ReplaceMaskedWith(3.0)
	assert.Equal(t, []complex128{3, 2}, r.Values())
}

type reading struct {
	Temp    float32
	Station string
	hidden  int
}

func TestField(t *testing.T) {
	recs := []reading{{20.5, "a", 1}, {21, "b", 2}}
	a, err := FromDense(recs, []int{2}, Elementwise([]bool{false, true}, []int{2}),
		reading{Temp: -999, Station: "?"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Temp", "Station"}, a.FieldNames())

	temp, err := a.Field("Temp")
	require.NoError(t, err)
	assert.Equal(t, []float32{20.5, 21}, temp.Values())
	assert.Equal(t, float32(-999), temp.FillValue())
	assert.Equal(t, []bool{false, true}, temp.MaskAsArray())

	_, err = a.Field("hidden")
	assert.True(t, errors.Is(err, ErrNoSuchField))
	_, err = a.Field("Missing")
	assert.True(t, errors.Is(err, ErrNoSuchField))

	_, err = temp.Field("Temp")
	assert.True(t, errors.Is(err, ErrNoSuchField))
	assert.Nil(t, temp.FieldNames())
}

func TestEqual(t *testing.T) {
	a := grid(t)
	b := grid(t)
	assert.True(t, a.Equal(b))

	c := a.ReplaceMaskedWith(int32(0))
	assert.False(t, a.Equal(c))

	u := a.WithElementwiseMask()
	assert.True(t, a.Equal(u))

	var n *Array
	assert.True(t, n.Equal(nil))
	assert.False(t, a.Equal(nil))
}

func TestString(t *testing.T) {
	a := grid(t)
	assert.Equal(t, "masked.Array[2 3] [[1 -- 3] [4 5 --]]", a.String())

	s, err := Scalar(int8(4), false, nil)
	require.NoError(t, err)
	assert.Equal(t, "masked.Array[] 4", s.String())
}

func TestMask(t *testing.T) {
	assert.True(t, NoMask.IsUniform())
	assert.False(t, NoMask.Any())
	assert.Nil(t, NoMask.Shape())
	assert.Nil(t, NoMask.Elems())
	assert.True(t, Uniform(true).Any())
	assert.True(t, Uniform(true).Value())

	elems := []bool{false, true}
	m := Elementwise(elems, []int{2})
	elems[1] = false
	assert.True(t, m.Any(), "Elementwise copies its input")
	assert.False(t, m.IsUniform())
	assert.False(t, Elementwise([]bool{false}, []int{1}).Any())
}
