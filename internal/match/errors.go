package match

import (
	"errors"
	"fmt"
)

// Sentinel errors for construction and input validation.
var (
	ErrEmptyDetailed    = errors.New("detailed dataset is empty")
	ErrEmptySummary     = errors.New("summary dataset is empty")
	ErrUnknownPolicy    = errors.New("unknown match policy")
	ErrInvalidThreshold = errors.New("similarity threshold outside [0,1]")
)

// OptionError reports an invalid matcher option with its offending value.
type OptionError struct {
	Option string
	Value  any
	Err    error
}

func (e *OptionError) Error() string {
	return fmt.Sprintf("option %s=%v: %v", e.Option, e.Value, e.Err)
}

func (e *OptionError) Unwrap() error {
	return e.Err
}
