package domain

import "time"

type EventType string

const (
	EventReservationCreated   EventType = "reservation.created"
	EventReservationConfirmed EventType = "reservation.confirmed"
	EventReservationPickedUp  EventType = "reservation.picked_up"
	EventReservationFinalized EventType = "reservation.finalized"
	EventReservationCancelled EventType = "reservation.cancelled"
	EventReservationModified  EventType = "reservation.modified"
)

var operationEvents = map[Operation]EventType{
	OperationCreate:   EventReservationCreated,
	OperationConfirm:  EventReservationConfirmed,
	OperationPickup:   EventReservationPickedUp,
	OperationFinalize: EventReservationFinalized,
	OperationCancel:   EventReservationCancelled,
	OperationModify:   EventReservationModified,
}

// EventFor maps a committed operation to the event it emits.
func EventFor(op Operation) EventType {
	return operationEvents[op]
}

// ReservationEvent is published after a lifecycle operation commits.
type ReservationEvent struct {
	ID          string       `json:"id"`
	Type        EventType    `json:"type"`
	OccurredAt  time.Time    `json:"occurred_at"`
	ActorID     int64        `json:"actor_id"`
	Reservation *Reservation `json:"reservation"`
}
