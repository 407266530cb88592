package service

import (
	"errors"
	"testing"
	"time"

	"github.com/Ashutoshverma77/store-app-be/internal/apperr"
)

func TestPeriodRange(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		period string
		start  time.Time
	}{
		{"", time.Date(2025, 6, 14, 12, 0, 0, 0, time.UTC)},
		{"day", time.Date(2025, 6, 14, 12, 0, 0, 0, time.UTC)},
		{"week", time.Date(2025, 6, 8, 12, 0, 0, 0, time.UTC)},
		{"month", time.Date(2025, 5, 15, 12, 0, 0, 0, time.UTC)},
	}
	for _, c := range cases {
		start, end, err := periodRange(c.period, now)
		if err != nil {
			t.Fatalf("periodRange(%q): %v", c.period, err)
		}
		if !start.Equal(c.start) {
			t.Errorf("periodRange(%q) start = %v, want %v", c.period, start, c.start)
		}
		if !end.Equal(now) {
			t.Errorf("periodRange(%q) end = %v, want %v", c.period, end, now)
		}
	}

	if _, _, err := periodRange("year", now); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("unknown period: expected ErrValidation, got %v", err)
	}
}
