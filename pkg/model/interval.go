package model

import "time"

// Overlaps reports whether the half-open intervals [aStart,aEnd) and [bStart,bEnd) intersect.
// Intervals that only touch at a boundary do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// TimeSlot is a candidate window offered when a request conflicts.
type TimeSlot struct {
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

func (s TimeSlot) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}

type AvailabilitySlot struct {
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Available bool      `json:"available"`
}

type Availability struct {
	Facility     *Facility          `json:"facility"`
	Date         time.Time          `json:"date"`
	Reservations []*Reservation     `json:"reservations"`
	Slots        []AvailabilitySlot `json:"availabilitySlots"`
}
