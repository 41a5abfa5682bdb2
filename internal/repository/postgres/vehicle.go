package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/logger"
	"vehicle-rental-backend/internal/repository"
)

type vehicleRepository struct {
	db DBTX
	// inTx enables the savepoint around TryReserve; savepoints only exist inside a transaction.
	inTx bool
}

func NewVehicleRepository(db DBTX) repository.VehicleRepository {
	return newVehicleRepository(db, false)
}

func newVehicleRepository(db DBTX, inTx bool) *vehicleRepository {
	return &vehicleRepository{db: db, inTx: inTx}
}

func (r *vehicleRepository) GetByID(ctx context.Context, id int64) (*domain.Vehicle, error) {
	v := &domain.Vehicle{}
	query := `SELECT id, kind, plate, daily_rate_cents, status, updated_on FROM vehicles WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&v.ID, &v.Kind, &v.Plate, &v.DailyRateCents, &v.Status, &v.UpdatedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("vehicle %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get vehicle %d: %w", id, mapError(err))
	}
	return v, nil
}

// TryReserve is a single conditional UPDATE, so two callers racing for the same
// vehicle serialize on the row lock and only one sees a row affected.
func (r *vehicleRepository) TryReserve(ctx context.Context, id int64) (bool, error) {
	query := `UPDATE vehicles SET status = $1, updated_on = $2 WHERE id = $3 AND status = $4`
	logger.DatabaseCall("vehicles.try_reserve", query, "vehicle_id", id)

	if r.inTx {
		if _, err := r.db.ExecContext(ctx, `SAVEPOINT try_reserve`); err != nil {
			return false, fmt.Errorf("savepoint: %w", err)
		}
	}

	res, err := r.db.ExecContext(ctx, query, domain.VehicleStatusReserved, time.Now(), id, domain.VehicleStatusAvailable)
	if err != nil {
		logger.DatabaseResult("vehicles.try_reserve", 0, err)
		if r.inTx && isLockContention(err) {
			// Rolling back to the savepoint keeps the outer transaction usable for a retry.
			if _, rbErr := r.db.ExecContext(ctx, `ROLLBACK TO SAVEPOINT try_reserve`); rbErr != nil {
				return false, fmt.Errorf("rollback to savepoint: %w", rbErr)
			}
		}
		return false, fmt.Errorf("reserve vehicle %d: %w", id, mapError(err))
	}

	if r.inTx {
		if _, err := r.db.ExecContext(ctx, `RELEASE SAVEPOINT try_reserve`); err != nil {
			return false, fmt.Errorf("release savepoint: %w", err)
		}
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reserve vehicle %d: %w", id, err)
	}
	logger.DatabaseResult("vehicles.try_reserve", n, nil)
	return n == 1, nil
}

func (r *vehicleRepository) SetStatus(ctx context.Context, id int64, status domain.VehicleStatus) error {
	query := `UPDATE vehicles SET status = $1, updated_on = $2 WHERE id = $3`
	res, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("set vehicle %d status: %w", id, mapError(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set vehicle %d status: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("vehicle %d: %w", id, domain.ErrNotFound)
	}
	return nil
}
