package core

import (
	"errors"
	"fmt"
)

// Error categories. Every error returned by this package wraps exactly one of
// these, so callers can branch with errors.Is on the category or on the
// specific sentinel below it.
var (
	ErrValidation = errors.New("validation error")
	ErrDomain     = errors.New("domain error")
	ErrFormat     = errors.New("format error")
	ErrIndex      = errors.New("index error")
)

var (
	ErrEmptyEphemeris  = fmt.Errorf("%w: ephemeris has no states", ErrDomain)
	ErrOutOfRange      = fmt.Errorf("%w: time outside ephemeris span", ErrDomain)
	ErrTimeMismatch    = fmt.Errorf("%w: state times differ", ErrDomain)
	ErrPropagation     = fmt.Errorf("%w: propagation failed", ErrDomain)
	ErrNotIncreasing   = fmt.Errorf("%w: state times must be strictly increasing", ErrValidation)
	ErrInvalidStep     = fmt.Errorf("%w: step must be a positive number of seconds", ErrValidation)
	ErrInvalidTLE      = fmt.Errorf("%w: invalid two-line element set", ErrValidation)
	ErrTLENotFound     = fmt.Errorf("%w: no matching two-line element set", ErrValidation)
	ErrIndexOutOfRange = fmt.Errorf("%w: state component index out of range", ErrIndex)
)
