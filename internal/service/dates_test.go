package service

import (
	"errors"
	"testing"
)

func TestDaysInclusive(t *testing.T) {
	cases := []struct {
		start, end string
		days       int
		err        error
	}{
		{"2025-06-01", "2025-06-03", 3, nil},
		{"2025-06-01", "2025-06-01", 1, nil},
		{"2025-12-30", "2026-01-02", 4, nil},
		{"2025-06-03", "2025-06-01", 0, ErrInvalidRange},
		{"2025-6-1", "2025-06-03", 0, ErrInvalidRange},
		{"not-a-date", "2025-06-03", 0, ErrInvalidRange},
		{"2025-06-01", "", 0, ErrInvalidRange},
	}
	for _, c := range cases {
		days, err := DaysInclusive(c.start, c.end)
		if !errors.Is(err, c.err) {
			t.Errorf("DaysInclusive(%q, %q) err = %v, want %v", c.start, c.end, err, c.err)
			continue
		}
		if days != c.days {
			t.Errorf("DaysInclusive(%q, %q) = %d, want %d", c.start, c.end, days, c.days)
		}
	}
}
