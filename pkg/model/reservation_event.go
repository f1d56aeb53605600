package model

import "time"

type EventType string

const (
	EventReservationCreated   EventType = "reservation.created"
	EventReservationApproved  EventType = "reservation.approved"
	EventReservationRejected  EventType = "reservation.rejected"
	EventReservationCancelled EventType = "reservation.cancelled"
)

// ReservationEvent is handed to the notification collaborator after a transition commits.
// Reason is only set for rejections and is never stored on the reservation.
type ReservationEvent struct {
	Type        EventType    `json:"type"`
	Reservation *Reservation `json:"reservation"`
	Reason      string       `json:"reason,omitempty"`
	ActorID     string       `json:"actor_id,omitempty"`
	OccurredAt  time.Time    `json:"occurred_at"`
}
