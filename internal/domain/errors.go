package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidDateRange    = errors.New("return date must be after pickup date")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrVehicleUnavailable  = errors.New("vehicle unavailable")
	ErrDriverRequired      = errors.New("organizations must select the driver who will pick up the vehicle")
	ErrDriverNotAffiliated = errors.New("selected driver is not affiliated with the organization")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidArgument     = errors.New("invalid argument")
)

// InvalidTransitionError reports an operation attempted from a status that does not allow it.
type InvalidTransitionError struct {
	Operation Operation
	Current   ReservationStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s reservation: current status is %s", e.Operation, e.Current)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}
