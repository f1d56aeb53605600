package service

import (
	"time"

	"facilityhub/pkg/config"
	"facilityhub/pkg/model"
)

// Calendar resolves facility hours and calendar days in the service's configured location.
type Calendar struct {
	Location        *time.Location
	DefaultOpensAt  string
	DefaultClosesAt string
}

func CalendarFromConfig(cfg *config.Config) Calendar {
	return Calendar{
		Location:        cfg.Location,
		DefaultOpensAt:  cfg.DefaultOpensAt,
		DefaultClosesAt: cfg.DefaultClosesAt,
	}
}

func (c Calendar) location() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

func (c Calendar) hours(f *model.Facility) (model.OperatingHours, error) {
	opens, closes := c.DefaultOpensAt, c.DefaultClosesAt
	if opens == "" {
		opens = config.DefaultOpensAt
	}
	if closes == "" {
		closes = config.DefaultClosesAt
	}
	return f.OperatingHours(opens, closes)
}

// day returns local midnight of t's calendar day.
func (c Calendar) day(t time.Time) time.Time {
	return model.StartOfDay(t.In(c.location()))
}
