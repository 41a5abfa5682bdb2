package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/service"

	"github.com/gorilla/mux"
)

const maxBodyBytes = 1 << 20

// ReservationHandler exposes the reservation lifecycle over HTTP/JSON.
type ReservationHandler struct {
	svc service.ReservationService
}

func NewReservationHandler(svc service.ReservationService) *ReservationHandler {
	return &ReservationHandler{svc: svc}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("malformed request body: %v: %w", err, domain.ErrInvalidArgument)
	}
	return nil
}

func pathID(r *http.Request) (int64, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid reservation id %q: %w", raw, domain.ErrInvalidArgument)
	}
	return id, nil
}

func (h *ReservationHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	var req service.SimulateRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	quote, err := h.svc.Simulate(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFromContext(r.Context())
	var req service.CreateReservationRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.VehicleID <= 0 {
		writeError(w, r, fmt.Errorf("vehicle_id is required: %w", domain.ErrInvalidArgument))
		return
	}
	res, err := h.svc.Create(r.Context(), actor, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *ReservationHandler) Modify(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var changes domain.ReservationChanges
	if err := decodeBody(w, r, &changes); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.svc.Modify(r.Context(), actor, id, changes)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// transition adapts a body-less lifecycle command to an HTTP handler.
func (h *ReservationHandler) transition(op func(r *http.Request, actor domain.Actor, id int64) (*domain.Reservation, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := ActorFromContext(r.Context())
		id, err := pathID(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		res, err := op(r, actor, id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func (h *ReservationHandler) Confirm() http.HandlerFunc {
	return h.transition(func(r *http.Request, actor domain.Actor, id int64) (*domain.Reservation, error) {
		return h.svc.Confirm(r.Context(), actor, id)
	})
}

func (h *ReservationHandler) Pickup() http.HandlerFunc {
	return h.transition(func(r *http.Request, actor domain.Actor, id int64) (*domain.Reservation, error) {
		return h.svc.Pickup(r.Context(), actor, id)
	})
}

func (h *ReservationHandler) Finalize() http.HandlerFunc {
	return h.transition(func(r *http.Request, actor domain.Actor, id int64) (*domain.Reservation, error) {
		return h.svc.Finalize(r.Context(), actor, id)
	})
}

func (h *ReservationHandler) Cancel() http.HandlerFunc {
	return h.transition(func(r *http.Request, actor domain.Actor, id int64) (*domain.Reservation, error) {
		return h.svc.Cancel(r.Context(), actor, id)
	})
}

func (h *ReservationHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.svc.Get(r.Context(), actor, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *ReservationHandler) ListByStatus(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFromContext(r.Context())
	var status domain.ReservationStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		parsed, err := domain.ParseReservationStatus(raw)
		if err != nil {
			writeError(w, r, err)
			return
		}
		status = parsed
	}
	list, err := h.svc.ListByStatus(r.Context(), actor, status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reservationList(list))
}

func (h *ReservationHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFromContext(r.Context())
	list, err := h.svc.ListForClient(r.Context(), actor, actor.PartyID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reservationList(list))
}

type listResponse struct {
	Reservations []domain.Reservation `json:"reservations"`
	Count        int                  `json:"count"`
}

func reservationList(list []domain.Reservation) listResponse {
	if list == nil {
		list = []domain.Reservation{}
	}
	return listResponse{Reservations: list, Count: len(list)}
}
