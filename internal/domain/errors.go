package domain

import (
	"errors"
	"fmt"
)

// Error kinds returned by the lifecycle services. Callers match them with
// errors.Is; the concrete error usually carries a more specific message.
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidState       = errors.New("invalid state")
	ErrVehicleUnavailable = errors.New("vehicle unavailable")
	ErrMileageRegression  = errors.New("mileage regression")
	ErrValidationFailed   = errors.New("validation failed")
	ErrStoreFailure       = errors.New("store failure")
	ErrForbidden          = errors.New("forbidden")
)

// StoreError wraps a persistence failure. The unit of work it happened in has
// been rolled back, so the operation is safe to retry.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrStoreFailure, e.Op, e.Err)
}

func (e *StoreError) Unwrap() []error {
	return []error{ErrStoreFailure, e.Err}
}

// Validationf builds an ErrValidationFailed error with a formatted reason.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidationFailed, fmt.Sprintf(format, args...))
}

var kinds = []struct {
	err  error
	name string
}{
	{ErrStoreFailure, "store_failure"},
	{ErrNotFound, "not_found"},
	{ErrInvalidState, "invalid_state"},
	{ErrVehicleUnavailable, "vehicle_unavailable"},
	{ErrMileageRegression, "mileage_regression"},
	{ErrValidationFailed, "validation_failed"},
	{ErrForbidden, "forbidden"},
}

// KindOf names the error kind of err, "" for nil and "unknown" for errors
// outside the domain set.
func KindOf(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "unknown"
}

// IsKnown reports whether err already carries a domain error kind.
func IsKnown(err error) bool {
	k := KindOf(err)
	return k != "" && k != "unknown"
}
