package service

import (
	"context"
	"fmt"
	"iter"
	"time"

	"facilityhub/internal/reservations/repository"
	"facilityhub/pkg/model"
)

type AvailabilityProjector struct {
	repo     repository.ReservationRepository
	calendar Calendar
	slot     time.Duration
}

func NewAvailabilityProjector(repo repository.ReservationRepository, calendar Calendar, slot time.Duration) *AvailabilityProjector {
	if slot <= 0 {
		slot = time.Hour
	}
	return &AvailabilityProjector{repo: repo, calendar: calendar, slot: slot}
}

// DayProjection is one day's active reservations and the free/busy grid derived from them.
type DayProjection struct {
	Day          time.Time
	Reservations []*model.Reservation
	Slots        iter.Seq[model.AvailabilitySlot]
}

// ProjectDay fetches the day's active reservations once. The returned Slots sequence reads
// only that snapshot, so it can be ranged over any number of times.
func (p *AvailabilityProjector) ProjectDay(ctx context.Context, facility *model.Facility, date time.Time) (*DayProjection, error) {
	hours, err := p.calendar.hours(facility)
	if err != nil {
		return nil, err
	}

	day := p.calendar.day(date)
	reservations, err := p.repo.FindActiveByFacilityAndRange(ctx, facility.ID, day.UTC(), day.AddDate(0, 0, 1).UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to load reservations for availability: %w", err)
	}

	open, closeAt := hours.Window(day)
	step := p.slot

	slots := func(yield func(model.AvailabilitySlot) bool) {
		for start := open; start.Before(closeAt); start = start.Add(step) {
			end := start.Add(step)
			if end.After(closeAt) {
				end = closeAt
			}
			slot := model.AvailabilitySlot{
				StartTime: start.UTC(),
				EndTime:   end.UTC(),
				Available: !HasConflictIn(reservations, start, end, ""),
			}
			if !yield(slot) {
				return
			}
		}
	}

	return &DayProjection{Day: day, Reservations: reservations, Slots: slots}, nil
}

func (p *AvailabilityProjector) Project(ctx context.Context, facility *model.Facility, date time.Time) (iter.Seq[model.AvailabilitySlot], error) {
	projection, err := p.ProjectDay(ctx, facility, date)
	if err != nil {
		return nil, err
	}
	return projection.Slots, nil
}
