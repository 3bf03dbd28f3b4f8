// Package slicer cuts a rank-K view out of an array of any rank for an
// inspector with K display axes.
//
// The caller supplies a Source and an axes.Assignment. Dimensions bound to
// an axis are read in full, the others at their pinned index. The result is
// padded with length-1 dimensions for fake axes and transposed into axis
// order, so it always has exactly K dimensions: axis k of the result is the
// dimension shown on display axis k.
package slicer

import (
	"fmt"
	"sort"
	"time"

	"github.com/batchatco/go-native-slicer/internal"
	"github.com/batchatco/go-native-slicer/slicer/api"
	"github.com/batchatco/go-native-slicer/slicer/axes"
	"github.com/batchatco/go-native-slicer/slicer/masked"
	"github.com/batchatco/go-thrower"
)

var (
	logger = internal.NewLogger("slicer")

	defaultEngine = &Engine{opts: defaultEngineOptions()}
)

// SetLogLevel sets the logging level to the given level, and returns
// the old level. This is for internal debugging use. The lowest level is 0
// (fatal only) and the highest level is 4 (a trace line per slice).
func SetLogLevel(level int) int {
	return int(logger.SetLogLevel(internal.LevelFromInt(level)))
}

// Engine slices sources. It keeps no state between calls apart from its
// metrics and is safe for concurrent use; the assignments are not.
type Engine struct {
	opts    *engineOptions
	metrics *metrics
}

// NewEngine returns an engine configured by opts. It fails only when the
// metrics cannot be registered.
func NewEngine(opts ...Option) (*Engine, error) {
	o := defaultEngineOptions()
	for _, opt := range opts {
		opt(o)
	}
	e := &Engine{opts: o}
	if o.registerer != nil {
		m := newMetrics(o.namespace)
		if err := m.register(o.registerer); err != nil {
			return nil, fmt.Errorf("registering slicer metrics: %w", err)
		}
		e.metrics = m
	}
	return e, nil
}

// Slice slices src with the default engine.
func Slice(src api.Source, a *axes.Assignment) (*masked.Array, error) {
	return defaultEngine.Slice(src, a)
}

// Slice returns the part of src selected by a, with one dimension per
// display axis in axis order. ErrNotSliceable and ErrOutOfRange mean there
// is nothing to draw. A result of the wrong rank is a bug in the engine and
// panics with ErrInternalInvariant.
func (e *Engine) Slice(src api.Source, a *axes.Assignment) (result *masked.Array, err error) {
	start := time.Now()
	fakes := 0
	defer func() {
		if r := recover(); r != nil {
			if e.metrics != nil {
				e.metrics.slices.WithLabelValues("invariant").Inc()
			}
			panic(r)
		}
		n := 0
		if result != nil {
			n = result.Len()
		}
		e.metrics.observe(start, err, fakes, n)
	}()
	defer thrower.RecoverError(&err)

	if src == nil || a == nil {
		logger.Info("nothing selected")
		return nil, fmt.Errorf("%w: no source or assignment", ErrNotSliceable)
	}
	if s, ok := src.(api.Sliceable); ok && !s.IsSliceable() {
		logger.Info("source is not sliceable")
		return nil, fmt.Errorf("%w: source reports it cannot be sliced", ErrNotSliceable)
	}
	if a.DimCount() != src.Rank() {
		logger.Infof("assignment for %d dimensions, source has %d", a.DimCount(), src.Rank())
		return nil, fmt.Errorf("%w: assignment has %d dimensions, source has %d",
			ErrNotSliceable, a.DimCount(), src.Rank())
	}
	if e.opts.validate {
		if err := a.Validate(); err != nil {
			logger.Error(err)
			return nil, err
		}
	}

	indices, err := buildIndices(src, a)
	if err != nil {
		return nil, err
	}
	sliced, err := src.Slice(indices)
	if err != nil {
		return nil, err
	}
	if sliced == nil || sliced.Rank() != masked.CountFull(indices) {
		rank := -1
		if sliced != nil {
			rank = sliced.Rank()
		}
		err := fmt.Errorf("%w: source returned rank %d for indices %v",
			ErrConsistency, rank, indices)
		logger.Error(err)
		return nil, err
	}

	refs := a.Axes()
	arr := normalizeScalar(sliced, len(refs))
	arr, fakes = padFake(arr, refs)
	arr = permuteToAxes(arr, refs)
	checkRank(arr, len(refs))

	logger.Debugf("sliced %s with %v: shape %v", a.Describe(), refs, arr.Shape())
	return arr, nil
}

// buildIndices selects the full range of every axis-bound dimension and the
// pinned index of the others.
func buildIndices(src api.Source, a *axes.Assignment) ([]api.Index, error) {
	shape := src.Shape()
	if len(shape) != src.Rank() {
		err := fmt.Errorf("%w: source of rank %d has shape %v", ErrConsistency, src.Rank(), shape)
		logger.Error(err)
		return nil, err
	}
	if !internal.EqualInts(shape, a.DimSizes()) {
		logger.Infof("assignment made for shape %v, source has shape %v", a.DimSizes(), shape)
	}
	pinned := a.PinnedIndex()
	indices := make([]api.Index, len(shape))
	for d := range shape {
		p, isPinned := pinned[d]
		if !isPinned {
			indices[d] = api.Full
			continue
		}
		if p < 0 || p >= shape[d] {
			return nil, fmt.Errorf("%w: index %d for %s of size %d",
				ErrOutOfRange, p, src.DimName(d), shape[d])
		}
		indices[d] = api.At(p)
	}
	return indices, nil
}

// normalizeScalar makes sure a zero-axis result is a rank-0 array with a
// rank-0 mask, so consumers never special case bare scalars.
func normalizeScalar(arr *masked.Array, axisCount int) *masked.Array {
	if axisCount != 0 {
		return arr
	}
	if arr.Rank() != 0 || arr.Len() != 1 {
		failInvariant("zero axes but sliced shape %v", arr.Shape())
	}
	return arr.WithElementwiseMask()
}

// padFake inserts a length-1 dimension at every fake axis position. The
// positions are handled in increasing order so that earlier insertions do
// not shift later ones.
func padFake(arr *masked.Array, refs []axes.DimRef) (*masked.Array, int) {
	fakes := 0
	for k, r := range refs {
		if !r.IsFake() {
			continue
		}
		var err error
		arr, err = arr.ExpandDims(k)
		thrower.ThrowIfError(err)
		fakes++
	}
	return arr, fakes
}

// permuteToAxes transposes a padded array into axis order. Before the
// transpose the fake dimensions already sit at their axis positions and
// the real dimensions fill the remaining positions in increasing source
// dimension order.
func permuteToAxes(arr *masked.Array, refs []axes.DimRef) *masked.Array {
	var slots, dims []int
	for k, r := range refs {
		if d, ok := r.DimIndex(); ok {
			slots = append(slots, k)
			dims = append(dims, d)
		}
	}
	sorted := append([]int(nil), dims...)
	sort.Ints(sorted)
	rank := make(map[int]int, len(sorted))
	for i, d := range sorted {
		rank[d] = i
	}

	perm := make([]int, len(refs))
	identity := true
	for k, r := range refs {
		perm[k] = k
		if d, ok := r.DimIndex(); ok {
			perm[k] = slots[rank[d]]
		}
		if perm[k] != k {
			identity = false
		}
	}
	if identity {
		return arr
	}
	out, err := arr.Transpose(perm...)
	thrower.ThrowIfError(err)
	return out
}

func checkRank(arr *masked.Array, axisCount int) {
	if arr.Rank() != axisCount {
		failInvariant("result has rank %d (shape %v) for %d axes", arr.Rank(), arr.Shape(), axisCount)
	}
}

// failInvariant panics past thrower.RecoverError: a wrong rank is a logic
// error in the engine, not something a caller can handle.
func failInvariant(format string, v ...any) {
	err := fmt.Errorf("%w: "+format, append([]any{ErrInternalInvariant}, v...)...)
	logger.Error(err)
	panic(err)
}
