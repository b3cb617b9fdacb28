package go_bsmodel

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidParameters = errors.New("invalid option parameters")
	ErrInvalidOptionType = errors.New("invalid option type")
)

// InvalidParametersError names the parameter that made an evaluation
// impossible and why.
type InvalidParametersError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *InvalidParametersError) Error() string {
	return fmt.Sprintf("%v: %s=%v %s", ErrInvalidParameters, e.Field, e.Value, e.Reason)
}

func (e *InvalidParametersError) Unwrap() error {
	return ErrInvalidParameters
}

func newInvalidParameters(field string, value float64, reason string) *InvalidParametersError {
	return &InvalidParametersError{Field: field, Value: value, Reason: reason}
}

// InvalidOptionTypeError is returned by the PnL helpers when the option type
// is neither "call" nor "put".
type InvalidOptionTypeError struct {
	Value string
}

func (e *InvalidOptionTypeError) Error() string {
	return fmt.Sprintf("%v: %q, must be either 'call' or 'put'", ErrInvalidOptionType, e.Value)
}

func (e *InvalidOptionTypeError) Unwrap() error {
	return ErrInvalidOptionType
}
