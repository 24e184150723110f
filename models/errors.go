package models

import "fmt"

// LoadError reports a malformed or incomplete panel source.
type LoadError struct {
	Reason string
}

// Error implements the error interface
func (e *LoadError) Error() string {
	return "load panel: " + e.Reason
}

// DegenerateInputError reports a zero-variance field that breaks standardization.
type DegenerateInputError struct {
	Field Field
}

// Error implements the error interface
func (e *DegenerateInputError) Error() string {
	return fmt.Sprintf("field %s has zero variance and cannot be standardized", e.Field)
}

// InsufficientHistoryError reports too few periods for seasonal decomposition.
type InsufficientHistoryError struct {
	Have int
	Need int
}

// Error implements the error interface
func (e *InsufficientHistoryError) Error() string {
	return fmt.Sprintf("seasonal decomposition needs at least %d periods, have %d", e.Need, e.Have)
}

// ModelFitError reports a forecast model that could not be fit.
type ModelFitError struct {
	Reason string
	Err    error
}

// Error implements the error interface
func (e *ModelFitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("forecast fit: %s: %v", e.Reason, e.Err)
	}
	return "forecast fit: " + e.Reason
}

func (e *ModelFitError) Unwrap() error { return e.Err }
