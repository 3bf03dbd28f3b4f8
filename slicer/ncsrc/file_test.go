package ncsrc_test

import (
	"errors"
	"path/filepath"
	"testing"

	ncapi "github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/batchatco/go-native-netcdf/netcdf/cdf"
	"github.com/batchatco/go-native-netcdf/netcdf/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/batchatco/go-native-slicer/slicer"
	"github.com/batchatco/go-native-slicer/slicer/api"
	"github.com/batchatco/go-native-slicer/slicer/axes"
	"github.com/batchatco/go-native-slicer/slicer/ncsrc"
)

func attributes(t *testing.T, kv map[string]any, keys ...string) *util.OrderedMap {
	t.Helper()
	om, err := util.NewOrderedMap(keys, kv)
	require.NoError(t, err)
	return om
}

// writeStation writes a classic CDF file with a masked 2-D variable, a
// string variable, a scalar and a record variable that has no records yet.
func writeStation(t *testing.T) string {
	t.Helper()
	fname := filepath.Join(t.TempDir(), "station.nc")
	cw, err := cdf.OpenWriter(fname)
	require.NoError(t, err)

	vars := []struct {
		name string
		v    ncapi.Variable
	}{
		{"temp", ncapi.Variable{
			Values:     [][]float32{{1, -999, 3}, {-1, 5, 6}},
			Dimensions: []string{"time", "station"},
			Attributes: attributes(t, map[string]any{
				"_FillValue":    float32(-999),
				"missing_value": []float32{-1, -2},
			}, "_FillValue", "missing_value"),
		}},
		{"names", ncapi.Variable{
			Values:     []string{"short", "abcdefg", "ab"},
			Dimensions: []string{"station"},
			Attributes: attributes(t, nil),
		}},
		{"t0", ncapi.Variable{
			Values:     float64(273.15),
			Attributes: attributes(t, nil),
		}},
		{"obs", ncapi.Variable{
			Values:     []int32{},
			Dimensions: []string{"record"},
			Attributes: attributes(t, nil),
		}},
	}
	for _, v := range vars {
		require.NoError(t, cw.AddVar(v.name, v.v), v.name)
	}
	require.NoError(t, cw.Close())
	return fname
}

func openStation(t *testing.T) *ncsrc.File {
	t.Helper()
	f, err := ncsrc.Open(writeStation(t))
	require.NoError(t, err)
	t.Cleanup(f.Close)
	return f
}

func TestFileListVariables(t *testing.T) {
	f := openStation(t)
	assert.Equal(t, "/", f.Path())
	assert.ElementsMatch(t, []string{"temp", "names", "t0", "obs"}, f.ListVariables())
	assert.Empty(t, f.ListSubgroups())

	_, err := f.Variable("missing")
	assert.Error(t, err)
}

func TestFileMaskedGrid(t *testing.T) {
	f := openStation(t)
	v, err := f.Variable("temp")
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, v.Shape())
	assert.Equal(t, []string{"time", "station"}, api.DimNames(v))
	assert.Equal(t, float32(-999), v.FillValue())

	a, err := axes.New(v.Shape(), api.DimNames(v), 2)
	require.NoError(t, err)
	arr, err := slicer.Slice(v, a)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, arr.Shape())
	assert.Equal(t, []float32{1, -999, 3, -1, 5, 6}, arr.Values())
	assert.Equal(t, []bool{false, true, false, true, false, false}, arr.MaskAsArray())

	// One axis: station is shown, time is pinned halfway, at 1.
	a, err = axes.New(v.Shape(), api.DimNames(v), 1)
	require.NoError(t, err)
	row, err := slicer.Slice(v, a)
	require.NoError(t, err)
	assert.Equal(t, []int{3}, row.Shape())
	assert.Equal(t, []float32{-1, 5, 6}, row.Values())
	assert.Equal(t, []bool{true, false, false}, row.MaskAsArray())

	// Transposed, with station pinned.
	require.NoError(t, a.SetAxis(0, axes.Dim(0)))
	require.NoError(t, a.SetPinnedIndex(1, 1))
	col, err := slicer.Slice(v, a)
	require.NoError(t, err)
	assert.Equal(t, []float32{-999, 5}, col.Values())
	assert.Equal(t, []bool{true, false}, col.MaskAsArray())
}

func TestFileStrings(t *testing.T) {
	f := openStation(t)
	v, err := f.Variable("names")
	require.NoError(t, err)
	assert.Equal(t, []int{3}, v.Shape(), "the string length dimension is folded")
	assert.Equal(t, []string{"station"}, api.DimNames(v))

	a, err := axes.New(v.Shape(), api.DimNames(v), 1)
	require.NoError(t, err)
	arr, err := slicer.Slice(v, a)
	require.NoError(t, err)
	assert.Equal(t, []string{"short", "abcdefg", "ab"}, arr.Values())
	assert.Equal(t, []bool{false, false, false}, arr.MaskAsArray())
}

func TestFileScalar(t *testing.T) {
	f := openStation(t)
	v, err := f.Variable("t0")
	require.NoError(t, err)
	assert.Equal(t, 0, v.Rank())

	a, err := axes.New(nil, nil, 2)
	require.NoError(t, err)
	arr, err := slicer.Slice(v, a)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 1}, arr.Shape())
	assert.Equal(t, 273.15, arr.At(0, 0))
	assert.False(t, arr.MaskAt(0, 0))
}

func TestFileEmptyRecordVariable(t *testing.T) {
	f := openStation(t)
	v, err := f.Variable("obs")
	require.NoError(t, err)
	assert.Equal(t, []int{0}, v.Shape())
	assert.Equal(t, []string{"record"}, api.DimNames(v))
	assert.False(t, v.IsSliceable())
	assert.Equal(t, int32(-2147483647), v.FillValue())

	a, err := axes.New([]int{1}, nil, 1)
	require.NoError(t, err)
	_, err = slicer.Slice(v, a)
	assert.True(t, errors.Is(err, slicer.ErrNotSliceable))
	assert.True(t, slicer.Recoverable(err))
}
