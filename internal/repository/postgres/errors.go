package postgres

import (
	"errors"
	"fmt"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/repository"

	"github.com/lib/pq"
)

// SQLSTATE codes that mean "try again", not "this can never succeed".
const (
	codeLockNotAvailable     pq.ErrorCode = "55P03"
	codeSerializationFailure pq.ErrorCode = "40001"
	codeDeadlockDetected     pq.ErrorCode = "40P01"
	codeUniqueViolation      pq.ErrorCode = "23505"
)

const liveReservationIndex = "reservations_vehicle_live_idx"

func isLockContention(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	switch pqErr.Code {
	case codeLockNotAvailable, codeSerializationFailure, codeDeadlockDetected:
		return true
	}
	return false
}

// mapError tags transient lock failures with repository.ErrLockContention and a
// second live reservation on one vehicle with domain.ErrVehicleUnavailable.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if isLockContention(err) {
		return fmt.Errorf("%w: %v", repository.ErrLockContention, err)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == codeUniqueViolation && pqErr.Constraint == liveReservationIndex {
		return fmt.Errorf("%w: %v", domain.ErrVehicleUnavailable, err)
	}
	return err
}
