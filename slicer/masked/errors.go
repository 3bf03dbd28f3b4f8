package masked

import "errors"

var (
	// ErrConsistency is returned when the data, shape and mask of an array
	// disagree. It always indicates a bug in whoever produced the array.
	ErrConsistency = errors.New("inconsistent masked array")

	// ErrInvalidPermutation is returned by Transpose for anything that is
	// not a permutation of 0..rank-1.
	ErrInvalidPermutation = errors.New("invalid permutation")

	// ErrInvalidAxis is returned by ExpandDims for an insertion point
	// outside 0..rank.
	ErrInvalidAxis = errors.New("invalid axis")

	// ErrIndex is returned by Slice for an index vector of the wrong length
	// or a scalar index outside its dimension.
	ErrIndex = errors.New("index out of range")

	// ErrNotNumeric is returned when numeric promotion is requested for
	// non-numeric data.
	ErrNotNumeric = errors.New("element type is not numeric")

	// ErrNoSuchField is returned by Field for non-struct element types or
	// unknown field names.
	ErrNoSuchField = errors.New("no such field")
)
