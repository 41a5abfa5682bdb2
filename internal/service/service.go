package service

import (
	"context"
	"time"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/utils"
)

type ReservationService interface {
	// Simulate prices a rental without persisting anything.
	Simulate(ctx context.Context, req SimulateRequest) (*utils.RentalQuote, error)
	Create(ctx context.Context, actor domain.Actor, req CreateReservationRequest) (*domain.Reservation, error)
	Confirm(ctx context.Context, actor domain.Actor, id int64) (*domain.Reservation, error)
	Pickup(ctx context.Context, actor domain.Actor, id int64) (*domain.Reservation, error)
	Finalize(ctx context.Context, actor domain.Actor, id int64) (*domain.Reservation, error)
	Cancel(ctx context.Context, actor domain.Actor, id int64) (*domain.Reservation, error)
	Modify(ctx context.Context, actor domain.Actor, id int64, changes domain.ReservationChanges) (*domain.Reservation, error)
	Get(ctx context.Context, actor domain.Actor, id int64) (*domain.Reservation, error)
	ListByStatus(ctx context.Context, actor domain.Actor, status domain.ReservationStatus) ([]domain.Reservation, error)
	ListForClient(ctx context.Context, actor domain.Actor, clientID int64) ([]domain.Reservation, error)
}

type SimulateRequest struct {
	VehicleID           int64     `json:"vehicle_id"`
	PickupAt            time.Time `json:"pickup_at"`
	ScheduledReturnAt   time.Time `json:"scheduled_return_at"`
	PersonalInsurance   bool      `json:"personal_insurance"`
	ThirdPartyInsurance bool      `json:"third_party_insurance"`
}

type CreateReservationRequest struct {
	VehicleID           int64     `json:"vehicle_id"`
	PickupAt            time.Time `json:"pickup_at"`
	ScheduledReturnAt   time.Time `json:"scheduled_return_at"`
	PersonalInsurance   bool      `json:"personal_insurance"`
	ThirdPartyInsurance bool      `json:"third_party_insurance"`
	// Required for organization clients, ignored for individuals.
	DriverID *int64 `json:"driver_id,omitempty"`
}

type EmailService interface {
	SendReservationConfirmed(ctx context.Context, to *domain.Party, r *domain.Reservation) error
	SendReservationCancelled(ctx context.Context, to *domain.Party, r *domain.Reservation) error
	SendReservationFinalized(ctx context.Context, to *domain.Party, r *domain.Reservation) error
	SendOverdueReminder(ctx context.Context, to *domain.Party, r *domain.Reservation) error
}

// EventPublisher fans committed lifecycle events out to other services.
type EventPublisher interface {
	Publish(ctx context.Context, evt domain.ReservationEvent) error
	Close() error
}
