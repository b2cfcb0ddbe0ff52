package similarity

import (
	"errors"
	"fmt"
)

var (
	// ErrDegenerateSpectrum is returned when a spectrum's total intensity is
	// zero, so its intensity vector cannot be normalized.
	ErrDegenerateSpectrum = errors.New("degenerate spectrum: total intensity is zero")

	// ErrInvalidParameter is the sentinel wrapped by every ParameterError.
	ErrInvalidParameter = errors.New("invalid parameter")
)

// ParameterError reports an argument outside its valid range.
type ParameterError struct {
	Field   string
	Message string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s: %s", e.Field, e.Message)
}

func (e *ParameterError) Unwrap() error {
	return ErrInvalidParameter
}
