package model

import (
	"time"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusCancelled Status = "CANCELLED"
)

// ActiveStatuses occupy a facility and take part in conflict checks.
var ActiveStatuses = []Status{StatusPending, StatusApproved}

func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusApproved
}

// IsTerminal reports whether no further transition is allowed out of s.
func (s Status) IsTerminal() bool {
	return s == StatusRejected || s == StatusCancelled
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

type Reservation struct {
	ID          string    `json:"id" bson:"_id"`
	FacilityID  string    `json:"facility_id" bson:"facility_id"`
	RequesterID string    `json:"requester_id" bson:"requester_id"`
	StartTime   time.Time `json:"start_time" bson:"start_time"`
	EndTime     time.Time `json:"end_time" bson:"end_time"`
	Purpose     string    `json:"purpose" bson:"purpose"`
	Status      Status    `json:"status" bson:"status"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

func (r *Reservation) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}

func (r *Reservation) OverlapsWith(start, end time.Time) bool {
	return Overlaps(r.StartTime, r.EndTime, start, end)
}

type CreateReservationInput struct {
	FacilityID  string    `json:"facility_id" validate:"required,max=64,resource_id"`
	RequesterID string    `json:"-" validate:"required,max=64"`
	StartTime   time.Time `json:"start_time" validate:"required"`
	EndTime     time.Time `json:"end_time" validate:"required,gtfield=StartTime"`
	Purpose     string    `json:"purpose,omitempty" validate:"omitempty,max=500"`
}

type RejectReservationInput struct {
	Reason string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

type ReservationFilter struct {
	Status      Status     `validate:"omitempty,oneof=PENDING APPROVED REJECTED CANCELLED"`
	FacilityID  string     `validate:"omitempty,max=64,resource_id"`
	RequesterID string     `validate:"omitempty,max=64"`
	From        *time.Time `validate:"omitempty"`
	To          *time.Time `validate:"omitempty"`
}

// Actor is the caller on whose behalf a lifecycle operation runs.
type Actor struct {
	ID      string
	IsAdmin bool
}

func (a Actor) CanManage(r *Reservation) bool {
	return a.IsAdmin || (a.ID != "" && a.ID == r.RequesterID)
}
