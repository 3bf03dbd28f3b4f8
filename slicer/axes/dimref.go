package axes

import "fmt"

// DimRef is what a display axis shows: a real dimension of the source, or a
// fake length-1 dimension reserved for that axis.
type DimRef struct {
	fake bool
	n    int
}

// Dim refers to source dimension i.
func Dim(i int) DimRef { return DimRef{n: i} }

// Fake refers to the synthesized dimension of axis k.
func Fake(k int) DimRef { return DimRef{fake: true, n: k} }

// IsFake reports whether r is a fake dimension.
func (r DimRef) IsFake() bool { return r.fake }

// Index is the dimension index of a real reference or the axis of a fake one.
func (r DimRef) Index() int { return r.n }

// DimIndex returns the source dimension and true for real references.
func (r DimRef) DimIndex() (int, bool) {
	if r.fake {
		return 0, false
	}
	return r.n, true
}

func (r DimRef) String() string {
	if r.fake {
		return fmt.Sprintf("Fake(%d)", r.n)
	}
	return fmt.Sprintf("Dim(%d)", r.n)
}
