package model

import (
	"fmt"
	"time"
)

const timeOfDayLayout = "15:04"

type Facility struct {
	ID          string    `json:"id" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	Type        string    `json:"type" bson:"type"`
	Location    string    `json:"location,omitempty" bson:"location,omitempty"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Capacity    int       `json:"capacity,omitempty" bson:"capacity,omitempty"`
	OpensAt     string    `json:"opens_at,omitempty" bson:"opens_at,omitempty"`
	ClosesAt    string    `json:"closes_at,omitempty" bson:"closes_at,omitempty"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

// OperatingHours holds opening and closing times as offsets from local midnight.
type OperatingHours struct {
	Opens  time.Duration
	Closes time.Duration
}

// Window returns the absolute opening and closing instants for the calendar day of day.
// Offsets are applied as wall-clock minutes so DST transitions keep the local hours.
func (h OperatingHours) Window(day time.Time) (time.Time, time.Time) {
	return AtOffset(day, h.Opens), AtOffset(day, h.Closes)
}

// AtOffset returns the wall-clock instant offset from midnight of t's calendar day.
func AtOffset(t time.Time, offset time.Duration) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, int(offset/time.Minute), 0, 0, t.Location())
}

// OperatingHours resolves the facility's hours, falling back to the given defaults
// for values the facility does not set.
func (f *Facility) OperatingHours(defaultOpens, defaultCloses string) (OperatingHours, error) {
	opens, closes := f.OpensAt, f.ClosesAt
	if opens == "" {
		opens = defaultOpens
	}
	if closes == "" {
		closes = defaultCloses
	}

	o, err := ParseTimeOfDay(opens)
	if err != nil {
		return OperatingHours{}, fmt.Errorf("facility %s opens_at: %w", f.ID, err)
	}
	c, err := ParseTimeOfDay(closes)
	if err != nil {
		return OperatingHours{}, fmt.Errorf("facility %s closes_at: %w", f.ID, err)
	}
	if c <= o {
		return OperatingHours{}, fmt.Errorf("facility %s closes (%s) before it opens (%s)", f.ID, closes, opens)
	}
	return OperatingHours{Opens: o, Closes: c}, nil
}

// ParseTimeOfDay parses "HH:MM" into an offset from midnight.
func ParseTimeOfDay(s string) (time.Duration, error) {
	t, err := time.Parse(timeOfDayLayout, s)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q, expected HH:MM", s)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
