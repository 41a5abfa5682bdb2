package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"vehicle-rental-backend/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_ExposesCollectors(t *testing.T) {
	m := metrics.New("test")
	m.ObserveOperation("confirm", "ok")
	m.ObserveOperation("confirm", "ok")
	m.ObserveOperation("cancel", "invalid_transition")
	m.ObserveRequest("/api/v1/reservations", http.MethodPost, http.StatusCreated, 20*time.Millisecond)
	m.SetReservationCounts([]string{"PENDING", "FINALIZED"}, map[string]int64{"PENDING": 3})
	m.SetOverdue(2)

	expected := `
# HELP test_reservation_operations_total Reservation lifecycle operations by outcome.
# TYPE test_reservation_operations_total counter
test_reservation_operations_total{operation="cancel",outcome="invalid_transition"} 1
test_reservation_operations_total{operation="confirm",outcome="ok"} 2
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "test_reservation_operations_total"))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `test_reservations{status="PENDING"} 3`)
	assert.Contains(t, body, `test_reservations{status="FINALIZED"} 0`)
	assert.Contains(t, body, `test_reservations_overdue 2`)
	assert.Contains(t, body, `test_http_requests_total{method="POST",route="/api/v1/reservations",status="201"} 1`)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.ObserveOperation("confirm", "ok")
		m.ObserveRequest("/", http.MethodGet, 200, time.Millisecond)
		m.SetOverdue(1)
	})
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
