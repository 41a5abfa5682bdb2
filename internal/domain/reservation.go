package domain

import (
	"fmt"
	"strings"
	"time"
)

type ReservationStatus string

const (
	ReservationStatusPending    ReservationStatus = "PENDING"
	ReservationStatusConfirmed  ReservationStatus = "CONFIRMED"
	ReservationStatusInProgress ReservationStatus = "IN_PROGRESS"
	ReservationStatusFinalized  ReservationStatus = "FINALIZED"
	ReservationStatusCancelled  ReservationStatus = "CANCELLED"
)

// AllReservationStatuses lists every status in lifecycle order.
var AllReservationStatuses = []ReservationStatus{
	ReservationStatusPending,
	ReservationStatusConfirmed,
	ReservationStatusInProgress,
	ReservationStatusFinalized,
	ReservationStatusCancelled,
}

func (s ReservationStatus) Valid() bool {
	for _, known := range AllReservationStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition can leave s.
func (s ReservationStatus) IsTerminal() bool {
	return s == ReservationStatusFinalized || s == ReservationStatusCancelled
}

// HoldsVehicle reports whether a reservation in status s keeps its vehicle out of the pool.
func (s ReservationStatus) HoldsVehicle() bool {
	return s == ReservationStatusPending || s == ReservationStatusConfirmed || s == ReservationStatusInProgress
}

// ParseReservationStatus accepts any letter case, e.g. "in_progress".
func ParseReservationStatus(raw string) (ReservationStatus, error) {
	s := ReservationStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("unknown reservation status %q: %w", raw, ErrInvalidArgument)
	}
	return s, nil
}

type Reservation struct {
	ID        int64 `json:"id"`
	ClientID  int64 `json:"client_id"`
	VehicleID int64 `json:"vehicle_id"`
	DriverID  int64 `json:"driver_id"`

	PickupAt          time.Time  `json:"pickup_at"`
	ScheduledReturnAt time.Time  `json:"scheduled_return_at"`
	ReturnedAt        *time.Time `json:"returned_at,omitempty"`

	// Captured from the vehicle at creation time and never rewritten.
	// Every later estimate and the settlement price from this value.
	DailyRateCents int64 `json:"daily_rate_cents"`
	// Estimate while the rental is open, settlement once FINALIZED.
	TotalCents int64 `json:"total_cents"`

	PersonalInsurance   bool `json:"personal_insurance"`
	ThirdPartyInsurance bool `json:"third_party_insurance"`

	Status    ReservationStatus `json:"status"`
	CreatedOn time.Time         `json:"created_on"`
	UpdatedOn time.Time         `json:"updated_on"`
}

// ReservationChanges is a partial update; nil fields are left untouched.
type ReservationChanges struct {
	PickupAt            *time.Time `json:"pickup_at,omitempty"`
	ScheduledReturnAt   *time.Time `json:"scheduled_return_at,omitempty"`
	PersonalInsurance   *bool      `json:"personal_insurance,omitempty"`
	ThirdPartyInsurance *bool      `json:"third_party_insurance,omitempty"`
}

func (c ReservationChanges) IsEmpty() bool {
	return c.PickupAt == nil && c.ScheduledReturnAt == nil && c.PersonalInsurance == nil && c.ThirdPartyInsurance == nil
}

// Apply copies the supplied fields onto r. It does not re-price or validate.
func (r *Reservation) Apply(c ReservationChanges) {
	if c.PickupAt != nil {
		r.PickupAt = *c.PickupAt
	}
	if c.ScheduledReturnAt != nil {
		r.ScheduledReturnAt = *c.ScheduledReturnAt
	}
	if c.PersonalInsurance != nil {
		r.PersonalInsurance = *c.PersonalInsurance
	}
	if c.ThirdPartyInsurance != nil {
		r.ThirdPartyInsurance = *c.ThirdPartyInsurance
	}
}

// Clone returns a deep copy.
func (r *Reservation) Clone() *Reservation {
	cp := *r
	if r.ReturnedAt != nil {
		t := *r.ReturnedAt
		cp.ReturnedAt = &t
	}
	return &cp
}
