package domain

type Operation string

const (
	OperationCreate   Operation = "create"
	OperationConfirm  Operation = "confirm"
	OperationPickup   Operation = "pickup"
	OperationFinalize Operation = "finalize"
	OperationCancel   Operation = "cancel"
	OperationModify   Operation = "modify"
)

// ActorRequirement names who may run an operation.
type ActorRequirement string

const (
	ActorAnyClient ActorRequirement = "client"
	ActorStaff     ActorRequirement = "staff"
	ActorOwner     ActorRequirement = "owner"
)

// VehicleStatusChange is the vehicle half of a transition.
type VehicleStatusChange struct {
	From VehicleStatus
	To   VehicleStatus
}

// Transition describes one lifecycle command: which statuses it may start from, where
// it lands and what happens to the vehicle. The reservation and vehicle writes it
// implies are always committed together.
type Transition struct {
	Operation Operation
	From      []ReservationStatus
	// Empty To keeps the current status.
	To      ReservationStatus
	Vehicle *VehicleStatusChange
	Actor   ActorRequirement
}

var transitions = map[Operation]Transition{
	OperationCreate: {
		Operation: OperationCreate,
		To:        ReservationStatusPending,
		Vehicle:   &VehicleStatusChange{From: VehicleStatusAvailable, To: VehicleStatusReserved},
		Actor:     ActorAnyClient,
	},
	OperationConfirm: {
		Operation: OperationConfirm,
		From:      []ReservationStatus{ReservationStatusPending},
		To:        ReservationStatusConfirmed,
		Actor:     ActorStaff,
	},
	OperationPickup: {
		Operation: OperationPickup,
		From:      []ReservationStatus{ReservationStatusConfirmed},
		To:        ReservationStatusInProgress,
		Vehicle:   &VehicleStatusChange{From: VehicleStatusReserved, To: VehicleStatusRented},
		Actor:     ActorStaff,
	},
	OperationFinalize: {
		Operation: OperationFinalize,
		From:      []ReservationStatus{ReservationStatusInProgress},
		To:        ReservationStatusFinalized,
		Vehicle:   &VehicleStatusChange{From: VehicleStatusRented, To: VehicleStatusAvailable},
		Actor:     ActorStaff,
	},
	OperationCancel: {
		Operation: OperationCancel,
		From:      []ReservationStatus{ReservationStatusPending, ReservationStatusConfirmed},
		To:        ReservationStatusCancelled,
		Vehicle:   &VehicleStatusChange{From: VehicleStatusReserved, To: VehicleStatusAvailable},
		Actor:     ActorOwner,
	},
	OperationModify: {
		Operation: OperationModify,
		From:      []ReservationStatus{ReservationStatusPending},
		Actor:     ActorOwner,
	},
}

// TransitionFor returns the transition for op. The second result is false for an
// unknown operation.
func TransitionFor(op Operation) (Transition, bool) {
	t, ok := transitions[op]
	return t, ok
}

// Allows reports whether the transition may start from s.
func (t Transition) Allows(s ReservationStatus) bool {
	for _, from := range t.From {
		if from == s {
			return true
		}
	}
	return false
}

// Check returns an *InvalidTransitionError when r is not in a source status.
func (t Transition) Check(r *Reservation) error {
	if !t.Allows(r.Status) {
		return &InvalidTransitionError{Operation: t.Operation, Current: r.Status}
	}
	return nil
}

// Target is the status a reservation currently in s ends up in.
func (t Transition) Target(s ReservationStatus) ReservationStatus {
	if t.To == "" {
		return s
	}
	return t.To
}

// Authorize checks the actor against the transition's requirement. r may be nil for create.
func (t Transition) Authorize(actor Actor, r *Reservation) error {
	switch t.Actor {
	case ActorStaff:
		if actor.IsStaff() {
			return nil
		}
	case ActorAnyClient:
		if actor.IsClient() {
			return nil
		}
	case ActorOwner:
		if r != nil && actor.Owns(r) {
			return nil
		}
	}
	return ErrForbidden
}
