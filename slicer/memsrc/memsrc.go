// Package memsrc provides an in-memory data source, for arrays computed by
// the application and for tests.
package memsrc

import (
	"fmt"

	"github.com/batchatco/go-native-slicer/internal"
	"github.com/batchatco/go-native-slicer/slicer/api"
	"github.com/batchatco/go-native-slicer/slicer/masked"
)

// Source serves slices of a masked array held in memory.
type Source struct {
	arr   *masked.Array
	names []string
}

var _ api.Source = (*Source)(nil)

// New wraps arr. Names default to "dim-<i>" where missing.
func New(arr *masked.Array, names ...string) *Source {
	n := make([]string, arr.Rank())
	for i := range n {
		if i < len(names) && names[i] != "" {
			n[i] = names[i]
		} else {
			n[i] = fmt.Sprintf("dim-%d", i)
		}
	}
	return &Source{arr: arr, names: n}
}

// FromNested builds a source from nested Go slices such as [][]float32, the
// shape the NetCDF readers return. Ragged input is an error. The mask is
// uniform.
func FromNested(values any, mask bool, fill any, names ...string) (*Source, error) {
	flat, shape, err := internal.Flatten(values)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", masked.ErrConsistency, err)
	}
	arr, err := masked.FromDense(flat.Interface(), shape, masked.Uniform(mask), fill)
	if err != nil {
		return nil, err
	}
	return New(arr, names...), nil
}

func (s *Source) Rank() int { return s.arr.Rank() }

func (s *Source) Shape() []int { return s.arr.Shape() }

func (s *Source) DimName(i int) string { return s.names[i] }

// Array returns the wrapped array.
func (s *Source) Array() *masked.Array { return s.arr }

func (s *Source) Slice(indices []api.Index) (*masked.Array, error) {
	return s.arr.Slice(indices)
}
