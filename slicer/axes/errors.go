package axes

import "errors"

var (
	// ErrOutOfRange is returned when an axis, a dimension or a pinned index
	// is outside its valid range. The assignment is left unchanged.
	ErrOutOfRange = errors.New("out of range")

	// ErrBadDescription is returned when a slice description cannot be parsed.
	ErrBadDescription = errors.New("malformed slice description")

	// ErrInvariant is returned by Validate when an assignment binds a
	// dimension twice or leaves one uncovered.
	ErrInvariant = errors.New("assignment invariant violated")
)
