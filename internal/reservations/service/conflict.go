package service

import (
	"context"
	"fmt"
	"time"

	"facilityhub/internal/reservations/repository"
	"facilityhub/pkg/model"
)

type ConflictChecker struct {
	repo repository.ReservationRepository
}

func NewConflictChecker(repo repository.ReservationRepository) *ConflictChecker {
	return &ConflictChecker{repo: repo}
}

// HasConflict reports whether [start, end) overlaps an active reservation of the facility
// other than excludeID. A repository failure is returned, never read as "free".
func (c *ConflictChecker) HasConflict(ctx context.Context, facilityID string, start, end time.Time, excludeID string) (bool, error) {
	existing, err := c.repo.FindActiveByFacility(ctx, facilityID, excludeID)
	if err != nil {
		return false, fmt.Errorf("failed to load active reservations for %s: %w", facilityID, err)
	}
	return HasConflictIn(existing, start, end, excludeID), nil
}

// HasConflictIn is the in-memory form of HasConflict over an already fetched set.
func HasConflictIn(reservations []*model.Reservation, start, end time.Time, excludeID string) bool {
	for _, r := range reservations {
		if r.ID == excludeID && excludeID != "" {
			continue
		}
		if r.Status.IsActive() && r.OverlapsWith(start, end) {
			return true
		}
	}
	return false
}
