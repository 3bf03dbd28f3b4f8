// Package api is the contract between the slicing engine and the data
// sources it reads from (NetCDF variables, in-memory arrays, lazily loaded
// tree nodes).
package api

import (
	"github.com/batchatco/go-native-slicer/slicer/masked"
)

// Index selects a full dimension or one position along it.
type Index = masked.Index

// Full keeps a whole dimension.
var Full = masked.Full

// At pins a dimension to position i.
func At(i int) Index { return masked.At(i) }

// Source is an N-dimensional, possibly masked, dataset the engine slices.
// Dimensions are numbered 0..Rank()-1 in the source's own order.
type Source interface {
	// Rank is the number of dimensions. It may be 0 for scalars.
	Rank() int

	// Shape returns Rank() dimension lengths, each at least 1.
	Shape() []int

	// DimName returns a human readable name for dimension i.
	DimName(i int) string

	// Slice returns the selected part of the data. indices has one entry
	// per dimension; the result's rank is the number of full-range entries.
	// Calling Slice twice with the same indices must give the same result.
	Slice(indices []Index) (*masked.Array, error)
}

// Sliceable is implemented by sources that may be unable to produce data,
// for instance a group node in a dataset tree.
type Sliceable interface {
	IsSliceable() bool
}

// DimNames collects all dimension names of a source.
func DimNames(src Source) []string {
	names := make([]string, src.Rank())
	for i := range names {
		names[i] = src.DimName(i)
	}
	return names
}
