package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"vehicle-rental-backend/internal/domain"
)

type reservationRepository struct {
	a access
}

func (r *reservationRepository) Create(ctx context.Context, rt *domain.Reservation) error {
	return r.a.update(func(st *state) error {
		for _, other := range st.reservations {
			if other.VehicleID == rt.VehicleID && other.Status.HoldsVehicle() {
				return fmt.Errorf("vehicle %d already held by reservation %d: %w", rt.VehicleID, other.ID, domain.ErrVehicleUnavailable)
			}
		}
		st.nextID++
		rt.ID = st.nextID
		st.reservations[rt.ID] = rt.Clone()
		return nil
	})
}

func (r *reservationRepository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	var out *domain.Reservation
	err := r.a.view(func(st *state) error {
		rt, ok := st.reservations[id]
		if !ok {
			return fmt.Errorf("reservation %d: %w", id, domain.ErrNotFound)
		}
		out = rt.Clone()
		return nil
	})
	return out, err
}

// GetByIDForUpdate needs no row lock here: units of work are already serialized.
func (r *reservationRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Reservation, error) {
	return r.GetByID(ctx, id)
}

func (r *reservationRepository) Update(ctx context.Context, rt *domain.Reservation) error {
	return r.a.update(func(st *state) error {
		cur, ok := st.reservations[rt.ID]
		if !ok {
			return fmt.Errorf("reservation %d: %w", rt.ID, domain.ErrNotFound)
		}
		next := rt.Clone()
		next.ClientID = cur.ClientID
		next.VehicleID = cur.VehicleID
		next.DriverID = cur.DriverID
		next.DailyRateCents = cur.DailyRateCents
		next.CreatedOn = cur.CreatedOn
		st.reservations[rt.ID] = next
		return nil
	})
}

func (r *reservationRepository) ListByStatus(ctx context.Context, status domain.ReservationStatus) ([]domain.Reservation, error) {
	list, err := r.filter(func(rt *domain.Reservation) bool {
		return status == "" || rt.Status == status
	})
	sort.Slice(list, func(i, j int) bool {
		if !list[i].PickupAt.Equal(list[j].PickupAt) {
			return list[i].PickupAt.Before(list[j].PickupAt)
		}
		return list[i].ID < list[j].ID
	})
	return list, err
}

func (r *reservationRepository) ListByClient(ctx context.Context, clientID int64) ([]domain.Reservation, error) {
	list, err := r.filter(func(rt *domain.Reservation) bool {
		return rt.ClientID == clientID
	})
	sort.Slice(list, func(i, j int) bool {
		if !list[i].PickupAt.Equal(list[j].PickupAt) {
			return list[i].PickupAt.After(list[j].PickupAt)
		}
		return list[i].ID > list[j].ID
	})
	return list, err
}

func (r *reservationRepository) ListOverdue(ctx context.Context, now time.Time) ([]domain.Reservation, error) {
	list, err := r.filter(func(rt *domain.Reservation) bool {
		return rt.Status == domain.ReservationStatusInProgress && rt.ScheduledReturnAt.Before(now)
	})
	sort.Slice(list, func(i, j int) bool {
		return list[i].ScheduledReturnAt.Before(list[j].ScheduledReturnAt)
	})
	return list, err
}

func (r *reservationRepository) CountByStatus(ctx context.Context) (map[domain.ReservationStatus]int64, error) {
	counts := make(map[domain.ReservationStatus]int64, len(domain.AllReservationStatuses))
	err := r.a.view(func(st *state) error {
		for _, rt := range st.reservations {
			counts[rt.Status]++
		}
		return nil
	})
	return counts, err
}

func (r *reservationRepository) filter(keep func(rt *domain.Reservation) bool) ([]domain.Reservation, error) {
	var out []domain.Reservation
	err := r.a.view(func(st *state) error {
		for _, rt := range st.reservations {
			if keep(rt) {
				out = append(out, *rt.Clone())
			}
		}
		return nil
	})
	return out, err
}

type vehicleRepository struct {
	a access
}

func (r *vehicleRepository) GetByID(ctx context.Context, id int64) (*domain.Vehicle, error) {
	var out *domain.Vehicle
	err := r.a.view(func(st *state) error {
		v, ok := st.vehicles[id]
		if !ok {
			return fmt.Errorf("vehicle %d: %w", id, domain.ErrNotFound)
		}
		vc := *v
		out = &vc
		return nil
	})
	return out, err
}

func (r *vehicleRepository) TryReserve(ctx context.Context, id int64) (bool, error) {
	var won bool
	err := r.a.update(func(st *state) error {
		v, ok := st.vehicles[id]
		if !ok || v.Status != domain.VehicleStatusAvailable {
			return nil
		}
		v.Status = domain.VehicleStatusReserved
		v.UpdatedOn = time.Now()
		won = true
		return nil
	})
	return won, err
}

func (r *vehicleRepository) SetStatus(ctx context.Context, id int64, status domain.VehicleStatus) error {
	return r.a.update(func(st *state) error {
		v, ok := st.vehicles[id]
		if !ok {
			return fmt.Errorf("vehicle %d: %w", id, domain.ErrNotFound)
		}
		v.Status = status
		v.UpdatedOn = time.Now()
		return nil
	})
}

type partyRepository struct {
	a access
}

func (r *partyRepository) GetByID(ctx context.Context, id int64) (*domain.Party, error) {
	var out *domain.Party
	err := r.a.view(func(st *state) error {
		p, ok := st.parties[id]
		if !ok {
			return fmt.Errorf("party %d: %w", id, domain.ErrNotFound)
		}
		pc := *p
		out = &pc
		return nil
	})
	return out, err
}
