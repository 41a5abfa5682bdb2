package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"vehicle-rental-backend/internal/config"
	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/repository"
	"vehicle-rental-backend/internal/repository/memory"
	"vehicle-rental-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storeWithPendingReservation(t *testing.T) *memory.Store {
	t.Helper()
	store := memory.NewStore()
	require.NoError(t, store.Apply(memory.Seed{
		Vehicles: []domain.Vehicle{{ID: 1, Kind: domain.VehicleKindPassenger, Plate: "CRN0001", DailyRateCents: 10000}},
		Parties:  []domain.Party{{ID: 100, Kind: domain.PartyKindIndividual, Name: "Ana", Email: "ana@example.com"}},
	}))
	pickup := time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, store.WithinTx(context.Background(), func(tx repository.Repositories) error {
		return tx.Reservations.Create(context.Background(), &domain.Reservation{
			ClientID: 100, VehicleID: 1, DriverID: 100,
			PickupAt: pickup, ScheduledReturnAt: pickup.Add(48 * time.Hour),
			DailyRateCents: 10000, Status: domain.ReservationStatusPending,
		})
	}))
	return store
}

func TestNewJobRunner_ExposesStatusGauge(t *testing.T) {
	cfg := &config.Config{Metrics: config.MetricsConfig{Enabled: true, Namespace: "vehicle_rental"}}
	runner, handler := newJobRunner(cfg, storeWithPendingReservation(t), service.NewLogEmailService())
	require.NotNil(t, handler)

	runner.RecordStatusSnapshot()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `vehicle_rental_reservations{status="PENDING"} 1`)
	assert.Contains(t, rec.Body.String(), `vehicle_rental_reservations{status="CANCELLED"} 0`)
}

func TestNewJobRunner_MetricsDisabled(t *testing.T) {
	runner, handler := newJobRunner(&config.Config{}, storeWithPendingReservation(t), service.NewLogEmailService())
	assert.Nil(t, handler)
	assert.NotPanics(t, runner.RunAll)
}
