package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/batchatco/go-native-slicer/slicer/api"
	"github.com/batchatco/go-native-slicer/slicer/masked"
	"github.com/batchatco/go-native-slicer/slicer/memsrc"
)

func holes(t *testing.T) *memsrc.Source {
	t.Helper()
	arr, err := masked.FromDense([]int32{1, 2, 3, 4}, []int{2, 2},
		masked.Elementwise([]bool{false, true, false, false}, []int{2, 2}), nil)
	require.NoError(t, err)
	return memsrc.New(arr, "y", "x")
}

func TestRunGrid(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, run(&buf, "temp", ocean(t), &viewConfig{Axes: 2, Pins: map[string]int{"time": 1}}))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "temp[1, :, :] axes=(lat, lon) shape=[3 2]", lines[0])
	assert.Equal(t, []string{"0", "1"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"2", "120", "121"}, strings.Fields(lines[4]))
}

func TestRunColumnAndScalar(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, run(&buf, "h", holes(t), &viewConfig{Axes: 1, Dims: []string{"y"}, Pins: map[string]int{"x": 1}}))
	assert.Equal(t, "h[:, 1] axes=(y) shape=[2]\n0\t--\n1\t4\n", buf.String())

	buf.Reset()
	require.NoError(t, run(&buf, "h", holes(t), &viewConfig{Axes: 0, Pins: map[string]int{"y": 1, "x": 0}}))
	assert.Equal(t, "h[1, 0] axes=() shape=[]\n3\n", buf.String())
}

func TestRunFakeAxis(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, run(&buf, "h", holes(t), &viewConfig{Axes: 3}))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, "h[:, :] axes=(y, x, -) shape=[2 2 1]", lines[0])
	assert.Equal(t, "masked.Array[2 2 1] [[[1] [--]] [[3] [4]]]", lines[1])
}

func TestRunNaN(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, run(&buf, "h", holes(t), &viewConfig{Axes: 1, Pins: map[string]int{"y": 0}, NaN: true}))
	assert.Equal(t, "h[0, :] axes=(x) shape=[2]\n0\t1\n1\tNaN\n", buf.String())
}

func TestRunJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, run(&buf, "h", holes(t), &viewConfig{Axes: 2, JSON: true}))
	assert.Equal(t, "{\"0\":1,\"1\":null}\n{\"0\":3,\"1\":4}\n", buf.String())
}

type empty struct{ *memsrc.Source }

func (empty) IsSliceable() bool { return false }

func TestRunNothingToShow(t *testing.T) {
	var buf bytes.Buffer
	var src api.Source = empty{holes(t)}
	require.NoError(t, run(&buf, "h", src, &viewConfig{Axes: 2}))
	assert.True(t, strings.HasPrefix(buf.String(), "h: nothing to show: "))
}

func TestUnmaskedNaNKeepsStrings(t *testing.T) {
	arr, err := masked.FromDense([]string{"a"}, []int{1}, masked.Uniform(true), nil)
	require.NoError(t, err)
	out, err := unmaskedNaN(arr)
	require.NoError(t, err)
	assert.Same(t, arr, out)
}
