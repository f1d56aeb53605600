package service

import (
	"context"
	"fmt"
	"time"

	"facilityhub/internal/reservations/repository"
	"facilityhub/pkg/clock"
	"facilityhub/pkg/model"
)

type SlotFinderConfig struct {
	MaxSuggestions int
	HorizonDays    int
	Step           time.Duration
}

// SlotFinder proposes free windows of a given length when a request conflicts.
type SlotFinder struct {
	repo     repository.ReservationRepository
	clock    clock.Clock
	calendar Calendar
	cfg      SlotFinderConfig
}

func NewSlotFinder(repo repository.ReservationRepository, clk clock.Clock, calendar Calendar, cfg SlotFinderConfig) *SlotFinder {
	if cfg.MaxSuggestions <= 0 {
		cfg.MaxSuggestions = 3
	}
	if cfg.HorizonDays <= 0 {
		cfg.HorizonDays = 7
	}
	if cfg.Step <= 0 {
		cfg.Step = time.Hour
	}
	return &SlotFinder{repo: repo, clock: clk, calendar: calendar, cfg: cfg}
}

// FindAlternatives scans from midnight of anchorStart's day through the horizon, trying slot
// starts at every step between opening (inclusive) and closing (exclusive). Candidates that
// run past closing, start in the past, or overlap an active reservation are skipped. The
// result is chronological, holds at most MaxSuggestions windows, and is never nil.
func (f *SlotFinder) FindAlternatives(ctx context.Context, facility *model.Facility, anchorStart time.Time, duration time.Duration) ([]model.TimeSlot, error) {
	alternatives := make([]model.TimeSlot, 0, f.cfg.MaxSuggestions)
	if duration <= 0 {
		return alternatives, nil
	}

	hours, err := f.calendar.hours(facility)
	if err != nil {
		return nil, err
	}

	horizonStart := f.calendar.day(anchorStart)
	horizonEnd := horizonStart.AddDate(0, 0, f.cfg.HorizonDays)

	existing, err := f.repo.FindActiveByFacilityAndRange(ctx, facility.ID, horizonStart.UTC(), horizonEnd.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to load reservations for alternatives: %w", err)
	}

	now := f.clock.Now()
	for d := 0; d < f.cfg.HorizonDays; d++ {
		open, closeAt := hours.Window(horizonStart.AddDate(0, 0, d))

		for start := open; start.Before(closeAt); start = start.Add(f.cfg.Step) {
			end := start.Add(duration)
			if end.After(closeAt) {
				break
			}
			if start.Before(now) || HasConflictIn(existing, start, end, "") {
				continue
			}

			alternatives = append(alternatives, model.TimeSlot{StartTime: start.UTC(), EndTime: end.UTC()})
			if len(alternatives) == f.cfg.MaxSuggestions {
				return alternatives, nil
			}
		}
	}

	return alternatives, nil
}
