package internal

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalidName is returned for names no NetCDF file can contain.
var ErrInvalidName = errors.New("invalid NetCDF name")

var (
	// First character a letter, digit or underscore, then anything but
	// control characters and slash.
	nameRe = regexp.MustCompile(`^[\pL\pN_][^\pC/]*$`)
	// No trailing whitespace, no CDL type keywords.
	reservedRe = regexp.MustCompile(`(\pZ|^(u?byte|char|string|u?short|u?int|u?int64|float|double|enum|opaque|compound))$`)
)

// CheckName returns an error naming kind ("variable", "group") if name is
// not a valid NetCDF object name.
func CheckName(kind, name string) error {
	if nameRe.MatchString(name) && !reservedRe.MatchString(name) {
		return nil
	}
	return fmt.Errorf("%w: %s %q", ErrInvalidName, kind, name)
}
