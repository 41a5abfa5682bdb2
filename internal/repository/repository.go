package repository

import (
	"context"
	"errors"
	"time"

	"vehicle-rental-backend/internal/domain"
)

// ErrLockContention marks a transient lock failure (lock timeout, serialization
// failure, deadlock). The unit of work is still usable after it is returned.
var ErrLockContention = errors.New("lock contention")

type ReservationRepository interface {
	Create(ctx context.Context, r *domain.Reservation) error
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	// GetByIDForUpdate locks the row until the surrounding unit of work ends.
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Reservation, error)
	// Update rewrites everything except the identity, the references, the rate
	// snapshot and the creation instant.
	Update(ctx context.Context, r *domain.Reservation) error
	// ListByStatus returns reservations ordered by pickup; an empty status lists all.
	ListByStatus(ctx context.Context, status domain.ReservationStatus) ([]domain.Reservation, error)
	// ListByClient returns a client's reservations, latest pickup first.
	ListByClient(ctx context.Context, clientID int64) ([]domain.Reservation, error)
	// ListOverdue returns IN_PROGRESS reservations whose scheduled return is before now.
	ListOverdue(ctx context.Context, now time.Time) ([]domain.Reservation, error)
	CountByStatus(ctx context.Context) (map[domain.ReservationStatus]int64, error)
}

type VehicleRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Vehicle, error)
	// TryReserve flips AVAILABLE to RESERVED in one conditional write and reports
	// whether this caller won the vehicle.
	TryReserve(ctx context.Context, id int64) (bool, error)
	SetStatus(ctx context.Context, id int64, status domain.VehicleStatus) error
}

// PartyRepository is the read side of the party directory.
type PartyRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Party, error)
}

// Repositories groups the repositories that share one unit of work.
type Repositories struct {
	Reservations ReservationRepository
	Vehicles     VehicleRepository
	Parties      PartyRepository
}

// Store hands out repositories, either standalone or bound to a unit of work.
type Store interface {
	// Repositories returns repositories for reads outside a unit of work.
	Repositories() Repositories
	// WithinTx runs fn in one unit of work. Every write made through tx commits
	// when fn returns nil and is discarded otherwise.
	WithinTx(ctx context.Context, fn func(tx Repositories) error) error
	Ping(ctx context.Context) error
}
