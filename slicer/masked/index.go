package masked

import "strconv"

// Index selects along one dimension: either the full range or one scalar
// position, which removes the dimension from the result.
type Index struct {
	full bool
	at   int
}

// Full keeps the whole dimension.
var Full = Index{full: true}

// At pins a dimension to position i.
func At(i int) Index {
	return Index{at: i}
}

// IsFull reports whether the index keeps the whole dimension.
func (ix Index) IsFull() bool { return ix.full }

// Pos is the pinned position. It is meaningless when IsFull is true.
func (ix Index) Pos() int { return ix.at }

func (ix Index) String() string {
	if ix.full {
		return ":"
	}
	return strconv.Itoa(ix.at)
}

// CountFull returns the number of full-range entries, which is the rank of
// the array produced by slicing with indices.
func CountFull(indices []Index) int {
	n := 0
	for _, ix := range indices {
		if ix.full {
			n++
		}
	}
	return n
}
