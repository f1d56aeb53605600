package model

import (
	"testing"
	"time"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Duration
		wantErr bool
	}{
		{"08:00", 8 * time.Hour, false},
		{"20:00", 20 * time.Hour, false},
		{"09:30", 9*time.Hour + 30*time.Minute, false},
		{"00:00", 0, false},
		{"24:00", 0, true},
		{"8am", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTimeOfDay(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseTimeOfDay(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFacility_OperatingHours(t *testing.T) {
	t.Run("falls back to defaults", func(t *testing.T) {
		f := &Facility{ID: "f1"}
		hours, err := f.OperatingHours("08:00", "20:00")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if hours.Opens != 8*time.Hour || hours.Closes != 20*time.Hour {
			t.Errorf("got %v-%v, want 8h-20h", hours.Opens, hours.Closes)
		}
	})

	t.Run("facility overrides", func(t *testing.T) {
		f := &Facility{ID: "f1", OpensAt: "10:00"}
		hours, err := f.OperatingHours("08:00", "20:00")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if hours.Opens != 10*time.Hour || hours.Closes != 20*time.Hour {
			t.Errorf("got %v-%v, want 10h-20h", hours.Opens, hours.Closes)
		}
	})

	t.Run("closing before opening", func(t *testing.T) {
		f := &Facility{ID: "f1", OpensAt: "18:00", ClosesAt: "09:00"}
		if _, err := f.OperatingHours("08:00", "20:00"); err == nil {
			t.Error("expected error for inverted hours")
		}
	})
}

func TestOperatingHours_Window(t *testing.T) {
	hours := OperatingHours{Opens: 8 * time.Hour, Closes: 20 * time.Hour}
	day := time.Date(2030, 3, 4, 15, 42, 0, 0, time.UTC)

	open, closeAt := hours.Window(day)

	if !open.Equal(time.Date(2030, 3, 4, 8, 0, 0, 0, time.UTC)) {
		t.Errorf("open = %v", open)
	}
	if !closeAt.Equal(time.Date(2030, 3, 4, 20, 0, 0, 0, time.UTC)) {
		t.Errorf("close = %v", closeAt)
	}
}
