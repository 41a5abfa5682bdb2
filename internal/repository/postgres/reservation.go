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

const reservationColumns = `id, client_id, vehicle_id, driver_id, pickup_at, scheduled_return_at, returned_at,
	daily_rate_cents, total_cents, personal_insurance, third_party_insurance, status, created_on, updated_on`

type reservationRepository struct {
	db DBTX
}

func NewReservationRepository(db DBTX) repository.ReservationRepository {
	return &reservationRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReservation(row rowScanner) (*domain.Reservation, error) {
	var rt domain.Reservation
	var returnedAt sql.NullTime
	err := row.Scan(
		&rt.ID,
		&rt.ClientID,
		&rt.VehicleID,
		&rt.DriverID,
		&rt.PickupAt,
		&rt.ScheduledReturnAt,
		&returnedAt,
		&rt.DailyRateCents,
		&rt.TotalCents,
		&rt.PersonalInsurance,
		&rt.ThirdPartyInsurance,
		&rt.Status,
		&rt.CreatedOn,
		&rt.UpdatedOn,
	)
	if err != nil {
		return nil, err
	}
	if returnedAt.Valid {
		t := returnedAt.Time
		rt.ReturnedAt = &t
	}
	return &rt, nil
}

func (r *reservationRepository) Create(ctx context.Context, rt *domain.Reservation) error {
	query := `INSERT INTO reservations (client_id, vehicle_id, driver_id, pickup_at, scheduled_return_at,
	              daily_rate_cents, total_cents, personal_insurance, third_party_insurance, status, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id`
	logger.DatabaseCall("reservations.create", query, "vehicle_id", rt.VehicleID, "client_id", rt.ClientID)

	err := r.db.QueryRowContext(ctx, query,
		rt.ClientID, rt.VehicleID, rt.DriverID, rt.PickupAt, rt.ScheduledReturnAt,
		rt.DailyRateCents, rt.TotalCents, rt.PersonalInsurance, rt.ThirdPartyInsurance,
		rt.Status, rt.CreatedOn, rt.UpdatedOn,
	).Scan(&rt.ID)
	if err != nil {
		logger.DatabaseResult("reservations.create", 0, err)
		return fmt.Errorf("create reservation: %w", mapError(err))
	}
	logger.DatabaseResult("reservations.create", 1, nil, "reservation_id", rt.ID)
	return nil
}

func (r *reservationRepository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	return r.get(ctx, query, id)
}

func (r *reservationRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1 FOR UPDATE`
	return r.get(ctx, query, id)
}

func (r *reservationRepository) get(ctx context.Context, query string, id int64) (*domain.Reservation, error) {
	rt, err := scanReservation(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("reservation %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get reservation %d: %w", id, mapError(err))
	}
	return rt, nil
}

func (r *reservationRepository) Update(ctx context.Context, rt *domain.Reservation) error {
	query := `UPDATE reservations
	          SET pickup_at = $1, scheduled_return_at = $2, returned_at = $3, total_cents = $4,
	              personal_insurance = $5, third_party_insurance = $6, status = $7, updated_on = $8
	          WHERE id = $9`
	logger.DatabaseCall("reservations.update", query, "reservation_id", rt.ID, "status", rt.Status)

	res, err := r.db.ExecContext(ctx, query,
		rt.PickupAt, rt.ScheduledReturnAt, rt.ReturnedAt, rt.TotalCents,
		rt.PersonalInsurance, rt.ThirdPartyInsurance, rt.Status, rt.UpdatedOn, rt.ID,
	)
	if err != nil {
		logger.DatabaseResult("reservations.update", 0, err)
		return fmt.Errorf("update reservation %d: %w", rt.ID, mapError(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update reservation %d: %w", rt.ID, err)
	}
	logger.DatabaseResult("reservations.update", n, nil)
	if n == 0 {
		return fmt.Errorf("reservation %d: %w", rt.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *reservationRepository) ListByStatus(ctx context.Context, status domain.ReservationStatus) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations`
	var args []any
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY pickup_at ASC, id ASC`
	return r.list(ctx, query, args...)
}

func (r *reservationRepository) ListByClient(ctx context.Context, clientID int64) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE client_id = $1 ORDER BY pickup_at DESC, id DESC`
	return r.list(ctx, query, clientID)
}

func (r *reservationRepository) ListOverdue(ctx context.Context, now time.Time) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations
	          WHERE status = $1 AND scheduled_return_at < $2 ORDER BY scheduled_return_at ASC`
	return r.list(ctx, query, domain.ReservationStatusInProgress, now)
}

func (r *reservationRepository) list(ctx context.Context, query string, args ...any) ([]domain.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", mapError(err))
	}
	defer rows.Close()

	var reservations []domain.Reservation
	for rows.Next() {
		rt, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		reservations = append(reservations, *rt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reservations: %w", err)
	}
	return reservations, nil
}

func (r *reservationRepository) CountByStatus(ctx context.Context) (map[domain.ReservationStatus]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, count(*) FROM reservations GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count reservations: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.ReservationStatus]int64, len(domain.AllReservationStatuses))
	for rows.Next() {
		var status domain.ReservationStatus
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan reservation count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}
