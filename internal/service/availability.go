package service

import (
	"context"
	"errors"
	"fmt"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/logger"
	"vehicle-rental-backend/internal/repository"
)

// VehicleAvailability keeps vehicle status in step with the reservations that hold it.
// It works on whatever VehicleRepository it is handed, normally one bound to the
// caller's unit of work.
type VehicleAvailability struct {
	// retries on lock contention before giving the vehicle up
	retries int
}

func NewVehicleAvailability() *VehicleAvailability {
	return &VehicleAvailability{retries: 1}
}

// TryReserve flips the vehicle from AVAILABLE to RESERVED and reports whether the
// caller won it. Losing a contended lock twice counts as losing the vehicle.
func (a *VehicleAvailability) TryReserve(ctx context.Context, vehicles repository.VehicleRepository, vehicleID int64) (bool, error) {
	for attempt := 0; ; attempt++ {
		won, err := vehicles.TryReserve(ctx, vehicleID)
		if err == nil {
			return won, nil
		}
		if !errors.Is(err, repository.ErrLockContention) {
			return false, err
		}
		if attempt >= a.retries {
			logger.Warn("Vehicle reservation gave up on lock contention", "vehicle_id", vehicleID, "attempts", attempt+1)
			return false, nil
		}
		logger.Debug("Retrying vehicle reservation after lock contention", "vehicle_id", vehicleID, "error", err)
	}
}

// SetStatus applies one of the deterministic vehicle moves of a transition. The
// reservation being transitioned already owns the vehicle, so no compare is needed;
// a vehicle found outside the expected source status is logged, not rejected.
func (a *VehicleAvailability) SetStatus(ctx context.Context, vehicles repository.VehicleRepository, vehicleID int64, change domain.VehicleStatusChange) error {
	v, err := vehicles.GetByID(ctx, vehicleID)
	if err != nil {
		return err
	}
	if v.Status != change.From {
		logger.Warn("Vehicle status out of step with reservation",
			"vehicle_id", vehicleID, "expected", change.From, "actual", v.Status, "target", change.To)
	}
	if err := vehicles.SetStatus(ctx, vehicleID, change.To); err != nil {
		return fmt.Errorf("set vehicle %d to %s: %w", vehicleID, change.To, err)
	}
	return nil
}
