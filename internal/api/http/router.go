package http

import (
	"context"
	"net/http"
	"time"

	"vehicle-rental-backend/internal/metrics"
	"vehicle-rental-backend/internal/security"
	"vehicle-rental-backend/internal/service"

	"github.com/gorilla/mux"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type RouterDeps struct {
	Service      service.ReservationService
	TokenManager security.TokenManager
	Store        Pinger
	Metrics      *metrics.Metrics
}

// NewRouter wires every HTTP route. Auth runs after routing so the
// middleware can see the matched route template.
func NewRouter(deps RouterDeps) *mux.Router {
	router := mux.NewRouter()
	router.Use(RecoveryMiddleware, RequestIDMiddleware, ObservabilityMiddleware(deps.Metrics))
	router.Use(NewAuthMiddleware(deps.TokenManager).Handler)

	router.HandleFunc("/healthz", healthHandler(deps.Store)).Methods(http.MethodGet)
	router.Handle("/metrics", deps.Metrics.Handler()).Methods(http.MethodGet)

	RegisterReservationRoutes(router.PathPrefix("/api/v1").Subrouter(), NewReservationHandler(deps.Service))
	return router
}

// NewMetricsRouter serves only /healthz and /metrics, for processes without the API.
func NewMetricsRouter(m *metrics.Metrics, store Pinger) *mux.Router {
	router := mux.NewRouter()
	router.Use(RecoveryMiddleware)
	router.HandleFunc("/healthz", healthHandler(store)).Methods(http.MethodGet)
	router.Handle("/metrics", m.Handler()).Methods(http.MethodGet)
	return router
}

func RegisterReservationRoutes(api *mux.Router, h *ReservationHandler) {
	api.HandleFunc("/reservations/simulate", h.Simulate).Methods(http.MethodPost)

	api.HandleFunc("/reservations", h.Create).Methods(http.MethodPost)
	api.HandleFunc("/reservations", h.ListByStatus).Methods(http.MethodGet)
	api.HandleFunc("/reservations/mine", h.ListMine).Methods(http.MethodGet)
	api.HandleFunc("/reservations/mine/{id}", h.Get).Methods(http.MethodGet)
	api.HandleFunc("/reservations/{id}", h.Get).Methods(http.MethodGet)
	api.HandleFunc("/reservations/{id}", h.Modify).Methods(http.MethodPut)

	api.Handle("/reservations/{id}/confirm", h.Confirm()).Methods(http.MethodPut)
	api.Handle("/reservations/{id}/pickup", h.Pickup()).Methods(http.MethodPut)
	api.Handle("/reservations/{id}/finalize", h.Finalize()).Methods(http.MethodPut)
	api.Handle("/reservations/{id}/cancel", h.Cancel()).Methods(http.MethodPut)
}

func healthHandler(store Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			writeErrorMessage(w, r, http.StatusServiceUnavailable, "store unavailable")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
