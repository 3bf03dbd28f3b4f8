package axes

import (
	"fmt"
	"strconv"
	"strings"
)

// Describe renders the pinned indices in dimension order, with ":" for
// dimensions shown on an axis, e.g. "[2, :, :]". The order of the axes does
// not matter: swapping two axes gives the same description.
func Describe(a *Assignment) string {
	parts := make([]string, a.DimCount())
	for d := range parts {
		if a.IsDimAssigned(d) {
			parts[d] = ":"
		} else {
			parts[d] = strconv.Itoa(a.pins[d])
		}
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// ParseDescription reads back a description made by Describe. It returns the
// pinned indices and the number of dimensions.
func ParseDescription(s string) (pinned map[int]int, dimCount int, err error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return nil, 0, fmt.Errorf("%w: %q", ErrBadDescription, s)
	}
	pinned = map[int]int{}
	body := strings.TrimSpace(s[1 : len(s)-1])
	if body == "" {
		return pinned, 0, nil
	}
	fields := strings.Split(body, ",")
	for d, f := range fields {
		f = strings.TrimSpace(f)
		if f == ":" {
			continue
		}
		v, err := strconv.Atoi(f)
		if err != nil || v < 0 {
			return nil, 0, fmt.Errorf("%w: element %d is %q", ErrBadDescription, d, f)
		}
		pinned[d] = v
	}
	return pinned, len(fields), nil
}
