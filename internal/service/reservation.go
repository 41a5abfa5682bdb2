package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/logger"
	"vehicle-rental-backend/internal/metrics"
	"vehicle-rental-backend/internal/repository"
	"vehicle-rental-backend/internal/utils"

	"github.com/google/uuid"
)

type reservationService struct {
	store        repository.Store
	availability *VehicleAvailability
	emailSvc     EmailService
	publisher    EventPublisher
	metrics      *metrics.Metrics
	now          func() time.Time
}

type Option func(*reservationService)

// WithClock replaces time.Now as the source of "now" for settlement and date checks.
func WithClock(now func() time.Time) Option {
	return func(s *reservationService) {
		s.now = now
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *reservationService) {
		s.metrics = m
	}
}

func NewReservationService(
	store repository.Store,
	emailSvc EmailService,
	publisher EventPublisher,
	opts ...Option,
) ReservationService {
	s := &reservationService{
		store:        store,
		availability: NewVehicleAvailability(),
		emailSvc:     emailSvc,
		publisher:    publisher,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *reservationService) Simulate(ctx context.Context, req SimulateRequest) (*utils.RentalQuote, error) {
	vehicle, err := s.store.Repositories().Vehicles.GetByID(ctx, req.VehicleID)
	if err != nil {
		return nil, err
	}
	quote, err := utils.EstimateRentalCost(req.PickupAt, req.ScheduledReturnAt, vehicle.DailyRateCents, req.PersonalInsurance, req.ThirdPartyInsurance)
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

func (s *reservationService) Create(ctx context.Context, actor domain.Actor, req CreateReservationRequest) (*domain.Reservation, error) {
	logger.EnterMethod("reservationService.Create", "client_id", actor.PartyID, "vehicle_id", req.VehicleID)

	t, _ := domain.TransitionFor(domain.OperationCreate)
	now := s.now()

	var created *domain.Reservation
	err := func() error {
		if err := t.Authorize(actor, nil); err != nil {
			return err
		}
		if req.PickupAt.Before(now) {
			return fmt.Errorf("pickup %s is in the past: %w", req.PickupAt.Format(time.RFC3339), domain.ErrInvalidDateRange)
		}
		return s.store.WithinTx(ctx, func(tx repository.Repositories) error {
			driverID, err := s.resolveDriver(ctx, tx.Parties, actor.PartyID, req.DriverID)
			if err != nil {
				return err
			}

			vehicle, err := tx.Vehicles.GetByID(ctx, req.VehicleID)
			if err != nil {
				return err
			}
			if vehicle.Status != t.Vehicle.From {
				return fmt.Errorf("vehicle %d is %s: %w", vehicle.ID, vehicle.Status, domain.ErrVehicleUnavailable)
			}

			quote, err := utils.EstimateRentalCost(req.PickupAt, req.ScheduledReturnAt, vehicle.DailyRateCents, req.PersonalInsurance, req.ThirdPartyInsurance)
			if err != nil {
				return err
			}

			won, err := s.availability.TryReserve(ctx, tx.Vehicles, vehicle.ID)
			if err != nil {
				return err
			}
			if !won {
				return fmt.Errorf("vehicle %d was taken: %w", vehicle.ID, domain.ErrVehicleUnavailable)
			}

			rt := &domain.Reservation{
				ClientID:            actor.PartyID,
				VehicleID:           vehicle.ID,
				DriverID:            driverID,
				PickupAt:            req.PickupAt,
				ScheduledReturnAt:   req.ScheduledReturnAt,
				DailyRateCents:      vehicle.DailyRateCents,
				TotalCents:          quote.TotalCents,
				PersonalInsurance:   req.PersonalInsurance,
				ThirdPartyInsurance: req.ThirdPartyInsurance,
				Status:              t.To,
				CreatedOn:           now,
				UpdatedOn:           now,
			}
			if err := tx.Reservations.Create(ctx, rt); err != nil {
				return err
			}
			created = rt
			return nil
		})
	}()

	s.metrics.ObserveOperation(string(domain.OperationCreate), outcomeOf(err))
	if err != nil {
		logger.ExitMethodWithError("reservationService.Create", err, "client_id", actor.PartyID)
		return nil, err
	}

	s.afterCommit(ctx, domain.OperationCreate, actor, created)
	logger.ExitMethod("reservationService.Create", "reservation_id", created.ID)
	return created, nil
}

// resolveDriver returns who will drive. An individual always drives their own rental;
// an organization names an individual it currently employs.
func (s *reservationService) resolveDriver(ctx context.Context, parties repository.PartyRepository, clientID int64, driverID *int64) (int64, error) {
	client, err := parties.GetByID(ctx, clientID)
	if err != nil {
		return 0, fmt.Errorf("client: %w", err)
	}

	switch client.Kind {
	case domain.PartyKindIndividual:
		return client.ID, nil
	case domain.PartyKindOrganization:
		if driverID == nil {
			return 0, domain.ErrDriverRequired
		}
		driver, err := parties.GetByID(ctx, *driverID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return 0, fmt.Errorf("driver %d: %w", *driverID, domain.ErrDriverNotAffiliated)
			}
			return 0, err
		}
		if !driver.IsAffiliatedWith(client.ID) {
			return 0, fmt.Errorf("driver %d for organization %d: %w", driver.ID, client.ID, domain.ErrDriverNotAffiliated)
		}
		return driver.ID, nil
	default:
		return 0, fmt.Errorf("client %d has unknown kind %q: %w", client.ID, client.Kind, domain.ErrInvalidArgument)
	}
}

func (s *reservationService) Confirm(ctx context.Context, actor domain.Actor, id int64) (*domain.Reservation, error) {
	return s.execute(ctx, actor, domain.OperationConfirm, id, nil)
}

func (s *reservationService) Pickup(ctx context.Context, actor domain.Actor, id int64) (*domain.Reservation, error) {
	return s.execute(ctx, actor, domain.OperationPickup, id, nil)
}

func (s *reservationService) Finalize(ctx context.Context, actor domain.Actor, id int64) (*domain.Reservation, error) {
	return s.execute(ctx, actor, domain.OperationFinalize, id, func(r *domain.Reservation, now time.Time) error {
		returned := now
		r.ReturnedAt = &returned
		r.TotalCents = utils.SettleRentalCost(r.PickupAt, r.ScheduledReturnAt, returned, r.DailyRateCents, r.PersonalInsurance, r.ThirdPartyInsurance)
		return nil
	})
}

func (s *reservationService) Cancel(ctx context.Context, actor domain.Actor, id int64) (*domain.Reservation, error) {
	return s.execute(ctx, actor, domain.OperationCancel, id, nil)
}

func (s *reservationService) Modify(ctx context.Context, actor domain.Actor, id int64, changes domain.ReservationChanges) (*domain.Reservation, error) {
	if changes.IsEmpty() {
		s.metrics.ObserveOperation(string(domain.OperationModify), outcomeOf(domain.ErrInvalidArgument))
		return nil, fmt.Errorf("nothing to modify: %w", domain.ErrInvalidArgument)
	}
	return s.execute(ctx, actor, domain.OperationModify, id, func(r *domain.Reservation, now time.Time) error {
		pickupMoved := changes.PickupAt != nil && !changes.PickupAt.Equal(r.PickupAt)
		r.Apply(changes)
		if pickupMoved && r.PickupAt.Before(now) {
			return fmt.Errorf("pickup %s is in the past: %w", r.PickupAt.Format(time.RFC3339), domain.ErrInvalidDateRange)
		}
		quote, err := utils.EstimateRentalCost(r.PickupAt, r.ScheduledReturnAt, r.DailyRateCents, r.PersonalInsurance, r.ThirdPartyInsurance)
		if err != nil {
			return err
		}
		r.TotalCents = quote.TotalCents
		return nil
	})
}

// execute runs one lifecycle transition on an existing reservation. The reservation
// row is locked for the whole unit of work, so a concurrent operation on the same
// reservation waits and then fails the source-status check.
func (s *reservationService) execute(
	ctx context.Context,
	actor domain.Actor,
	op domain.Operation,
	id int64,
	mutate func(r *domain.Reservation, now time.Time) error,
) (*domain.Reservation, error) {
	method := "reservationService." + string(op)
	logger.EnterMethod(method, "reservation_id", id, "actor_id", actor.PartyID)

	t, ok := domain.TransitionFor(op)
	if !ok {
		return nil, fmt.Errorf("unknown operation %q: %w", op, domain.ErrInvalidArgument)
	}

	var updated *domain.Reservation
	err := s.store.WithinTx(ctx, func(tx repository.Repositories) error {
		r, err := tx.Reservations.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := t.Authorize(actor, r); err != nil {
			return err
		}
		if err := t.Check(r); err != nil {
			return err
		}

		now := s.now()
		if mutate != nil {
			if err := mutate(r, now); err != nil {
				return err
			}
		}
		r.Status = t.Target(r.Status)
		r.UpdatedOn = now

		if err := tx.Reservations.Update(ctx, r); err != nil {
			return err
		}
		if t.Vehicle != nil {
			if err := s.availability.SetStatus(ctx, tx.Vehicles, r.VehicleID, *t.Vehicle); err != nil {
				return err
			}
		}
		updated = r
		return nil
	})

	s.metrics.ObserveOperation(string(op), outcomeOf(err))
	if err != nil {
		logger.ExitMethodWithError(method, err, "reservation_id", id)
		return nil, err
	}

	s.afterCommit(ctx, op, actor, updated)
	logger.ExitMethod(method, "reservation_id", id, "status", updated.Status)
	return updated, nil
}

func (s *reservationService) Get(ctx context.Context, actor domain.Actor, id int64) (*domain.Reservation, error) {
	r, err := s.store.Repositories().Reservations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsStaff() && !actor.Owns(r) {
		return nil, domain.ErrForbidden
	}
	return r, nil
}

func (s *reservationService) ListByStatus(ctx context.Context, actor domain.Actor, status domain.ReservationStatus) ([]domain.Reservation, error) {
	if !actor.IsStaff() {
		return nil, domain.ErrForbidden
	}
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("unknown reservation status %q: %w", status, domain.ErrInvalidArgument)
	}
	return s.store.Repositories().Reservations.ListByStatus(ctx, status)
}

func (s *reservationService) ListForClient(ctx context.Context, actor domain.Actor, clientID int64) ([]domain.Reservation, error) {
	if !actor.IsStaff() && !(actor.IsClient() && actor.PartyID == clientID) {
		return nil, domain.ErrForbidden
	}
	return s.store.Repositories().Reservations.ListByClient(ctx, clientID)
}

// afterCommit publishes the lifecycle event and notifies the client. Both are best
// effort: the transition has already committed.
func (s *reservationService) afterCommit(ctx context.Context, op domain.Operation, actor domain.Actor, r *domain.Reservation) {
	evt := domain.ReservationEvent{
		ID:          uuid.NewString(),
		Type:        domain.EventFor(op),
		OccurredAt:  r.UpdatedOn,
		ActorID:     actor.PartyID,
		Reservation: r.Clone(),
	}
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, evt); err != nil {
			logger.Warn("Failed to publish reservation event", "event", evt.Type, "reservation_id", r.ID, "error", err)
		}
	}

	if s.emailSvc == nil {
		return
	}
	var send func(context.Context, *domain.Party, *domain.Reservation) error
	switch op {
	case domain.OperationConfirm:
		send = s.emailSvc.SendReservationConfirmed
	case domain.OperationCancel:
		send = s.emailSvc.SendReservationCancelled
	case domain.OperationFinalize:
		send = s.emailSvc.SendReservationFinalized
	default:
		return
	}
	client, err := s.store.Repositories().Parties.GetByID(ctx, r.ClientID)
	if err != nil {
		logger.Warn("Failed to load client for notification", "client_id", r.ClientID, "error", err)
		return
	}
	if err := send(ctx, client, r); err != nil {
		logger.Warn("Failed to send reservation email", "operation", op, "reservation_id", r.ID, "error", err)
	}
}

// outcomeOf buckets an operation result into a low-cardinality metric label.
func outcomeOf(err error) string {
	var invalid *domain.InvalidTransitionError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &invalid):
		return "invalid_transition"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrVehicleUnavailable):
		return "vehicle_unavailable"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domain.ErrInvalidDateRange),
		errors.Is(err, domain.ErrDriverRequired),
		errors.Is(err, domain.ErrDriverNotAffiliated),
		errors.Is(err, domain.ErrInvalidArgument):
		return "rejected"
	default:
		return "error"
	}
}
