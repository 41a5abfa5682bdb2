package service_test

import (
	"context"
	"sync"
	"time"

	"vehicle-rental-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendReservationConfirmed(ctx context.Context, to *domain.Party, r *domain.Reservation) error {
	return m.Called(ctx, to, r).Error(0)
}

func (m *MockEmailService) SendReservationCancelled(ctx context.Context, to *domain.Party, r *domain.Reservation) error {
	return m.Called(ctx, to, r).Error(0)
}

func (m *MockEmailService) SendReservationFinalized(ctx context.Context, to *domain.Party, r *domain.Reservation) error {
	return m.Called(ctx, to, r).Error(0)
}

func (m *MockEmailService) SendOverdueReminder(ctx context.Context, to *domain.Party, r *domain.Reservation) error {
	return m.Called(ctx, to, r).Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, evt domain.ReservationEvent) error {
	return m.Called(ctx, evt).Error(0)
}

func (m *MockPublisher) Close() error {
	return m.Called().Error(0)
}

type MockVehicleRepo struct {
	mock.Mock
}

func (m *MockVehicleRepo) GetByID(ctx context.Context, id int64) (*domain.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}

func (m *MockVehicleRepo) TryReserve(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockVehicleRepo) SetStatus(ctx context.Context, id int64, status domain.VehicleStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

// fakeClock is a settable time source.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}
