package notifications

import (
	"fmt"
	"time"

	"facilityhub/pkg/model"
)

const displayLayout = "2006-01-02 15:04"

// Notification is the rendered, user-facing form of a reservation event.
type Notification struct {
	RecipientID string    `json:"recipient_id"`
	Subject     string    `json:"subject"`
	Message     string    `json:"message"`
	EventType   string    `json:"event_type"`
	SentAt      time.Time `json:"sent_at"`
}

// Render builds the notification text for event. facilityName may be empty; times are shown
// in loc (UTC when nil).
func Render(event model.ReservationEvent, facilityName string, loc *time.Location) Notification {
	if facilityName == "" {
		facilityName = "Facility"
	}
	if loc == nil {
		loc = time.UTC
	}

	r := event.Reservation
	start := r.StartTime.In(loc).Format(displayLayout)
	end := r.EndTime.In(loc).Format(displayLayout)

	n := Notification{
		RecipientID: r.RequesterID,
		EventType:   string(event.Type),
		SentAt:      event.OccurredAt,
	}

	switch event.Type {
	case model.EventReservationCreated:
		n.Subject = "Booking request submitted"
		n.Message = fmt.Sprintf("Your booking request for %s from %s to %s has been submitted and is pending approval.", facilityName, start, end)
	case model.EventReservationApproved:
		n.Subject = "Your booking has been approved"
		n.Message = fmt.Sprintf("Your booking for %s from %s to %s has been approved. You can now use the facility during this time.", facilityName, start, end)
	case model.EventReservationRejected:
		n.Subject = "Your booking has been rejected"
		detail := "Please contact admin for more information."
		if event.Reason != "" {
			detail = "Reason: " + event.Reason
		}
		n.Message = fmt.Sprintf("Your booking for %s from %s to %s has been rejected. %s", facilityName, start, end, detail)
	case model.EventReservationCancelled:
		n.Subject = "Your booking has been cancelled"
		n.Message = fmt.Sprintf("Your booking for %s from %s to %s has been cancelled.", facilityName, start, end)
	default:
		n.Subject = "Booking update"
		n.Message = fmt.Sprintf("Your booking for %s has been updated.", facilityName)
	}
	return n
}
