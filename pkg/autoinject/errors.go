package autoinject

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is matched (via errors.Is) by every ArgumentError.
var ErrInvalidArgument = errors.New("invalid argument")

// ArgumentError reports a required argument that was not supplied.
// Nothing is registered when a scan fails with an ArgumentError.
type ArgumentError struct {
	Param string // name of the offending parameter
}

// Error implements the error interface
func (e *ArgumentError) Error() string {
	return fmt.Sprintf("autoinject: %s: %s must not be nil", ErrInvalidArgument, e.Param)
}

// Is reports whether target is ErrInvalidArgument
func (e *ArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}
