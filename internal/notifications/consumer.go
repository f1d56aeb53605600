package notifications

import (
	"context"
	"errors"
	"time"

	facilitieserrors "facilityhub/internal/facilities/errors"
	facilitiesrepo "facilityhub/internal/facilities/repository"
	"facilityhub/pkg/kafka"
	"facilityhub/pkg/logger"
	"facilityhub/pkg/model"
)

// EventHandler renders consumed reservation events. Facility names are looked up so the
// message reads like the booking page; a missing facility is not fatal.
type EventHandler struct {
	facilities facilitiesrepo.FacilityRepository
	log        *logger.Logger
	location   *time.Location
}

func NewEventHandler(facilities facilitiesrepo.FacilityRepository, log *logger.Logger, location *time.Location) *EventHandler {
	return &EventHandler{facilities: facilities, log: log, location: location}
}

func (h *EventHandler) Handle(ctx context.Context, msg kafka.Message) error {
	var event model.ReservationEvent
	if err := msg.DecodeValue(&event); err != nil {
		return err
	}
	if event.Reservation == nil {
		return kafka.NewPermanentError("event without reservation", nil)
	}

	log := h.log.FromContext(logger.WithRequestID(ctx, msg.GetCorrelationID()))

	name := ""
	if h.facilities != nil {
		facility, err := h.facilities.FindByID(ctx, event.Reservation.FacilityID)
		switch {
		case err == nil:
			name = facility.Name
		case errors.Is(err, facilitieserrors.ErrNotFound), errors.Is(err, facilitieserrors.ErrInvalidID):
			log.Warn("Facility of reservation event not found", "facility_id", event.Reservation.FacilityID)
		default:
			return kafka.NewTransientError("facility lookup failed", err)
		}
	}

	logNotification(log, event, Render(event, name, h.location))
	return nil
}
