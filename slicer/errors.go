package slicer

import (
	"errors"

	"github.com/batchatco/go-native-slicer/slicer/axes"
	"github.com/batchatco/go-native-slicer/slicer/masked"
)

var (
	// ErrNotSliceable is returned when there is no source, the source cannot
	// be sliced, or the assignment was made for a source of another rank.
	// Callers should draw nothing.
	ErrNotSliceable = errors.New("not sliceable")

	// ErrInternalInvariant is the panic value (wrapped) raised when the
	// engine produces an array of the wrong rank. It is never returned.
	ErrInternalInvariant = errors.New("internal invariant violation")

	// ErrOutOfRange is returned for a pinned index outside the source.
	ErrOutOfRange = axes.ErrOutOfRange

	// ErrConsistency is returned when a source produces an inconsistent array.
	ErrConsistency = masked.ErrConsistency

	// ErrInvalidPermutation signals a malformed permutation in the pipeline.
	ErrInvalidPermutation = masked.ErrInvalidPermutation
)

// Recoverable reports whether err is caused by user input or UI state
// (nothing selected, an index out of range) rather than by a bug in the
// engine or a source. Recoverable errors should be handled by drawing
// nothing or rejecting the edit.
func Recoverable(err error) bool {
	return errors.Is(err, ErrNotSliceable) || errors.Is(err, ErrOutOfRange)
}
