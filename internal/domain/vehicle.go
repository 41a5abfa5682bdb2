package domain

import "time"

type VehicleStatus string

const (
	VehicleStatusAvailable     VehicleStatus = "AVAILABLE"
	VehicleStatusReserved      VehicleStatus = "RESERVED"
	VehicleStatusRented        VehicleStatus = "RENTED"
	VehicleStatusInMaintenance VehicleStatus = "IN_MAINTENANCE"
	VehicleStatusUnavailable   VehicleStatus = "UNAVAILABLE"
)

func (s VehicleStatus) Valid() bool {
	switch s {
	case VehicleStatusAvailable, VehicleStatusReserved, VehicleStatusRented,
		VehicleStatusInMaintenance, VehicleStatusUnavailable:
		return true
	}
	return false
}

// VehicleKind discriminates the catalog subtype. Subtype attributes live in the
// catalog service; only the tag travels with the status view.
type VehicleKind string

const (
	VehicleKindPassenger  VehicleKind = "PASSENGER"
	VehicleKindUtility    VehicleKind = "UTILITY"
	VehicleKindMotorcycle VehicleKind = "MOTORCYCLE"
)

func (k VehicleKind) Valid() bool {
	switch k {
	case VehicleKindPassenger, VehicleKindUtility, VehicleKindMotorcycle:
		return true
	}
	return false
}

// Vehicle is the status-relevant view of a catalog vehicle.
type Vehicle struct {
	ID             int64         `json:"id" yaml:"id"`
	Kind           VehicleKind   `json:"kind" yaml:"kind"`
	Plate          string        `json:"plate" yaml:"plate"`
	DailyRateCents int64         `json:"daily_rate_cents" yaml:"daily_rate_cents"`
	Status         VehicleStatus `json:"status" yaml:"status"`
	UpdatedOn      time.Time     `json:"updated_on" yaml:"-"`
}
