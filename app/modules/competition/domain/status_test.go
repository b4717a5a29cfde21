package competitiondomain

import (
	"testing"
	"time"
)

func ptrTime(t time.Time) *time.Time { return &t }
func ptrInt(n int) *int              { return &n }

func TestStatusAt(t *testing.T) {
	now := time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)
	opens := now.Add(-24 * time.Hour)
	closes := now.Add(24 * time.Hour)

	tests := []struct {
		name   string
		window RegistrationWindow
		want   Status
	}{
		{
			"before open",
			RegistrationWindow{OpensAt: now.Add(time.Hour)},
			StatusUpcoming,
		},
		{
			"inside window unconstrained",
			RegistrationWindow{OpensAt: opens},
			StatusOpen,
		},
		{
			"inside window with room",
			RegistrationWindow{OpensAt: opens, ClosesAt: ptrTime(closes), Capacity: ptrInt(100), Registered: 99},
			StatusOpen,
		},
		{
			"after close",
			RegistrationWindow{OpensAt: opens, ClosesAt: ptrTime(now.Add(-time.Hour))},
			StatusClosed,
		},
		{
			"at capacity",
			RegistrationWindow{OpensAt: opens, ClosesAt: ptrTime(closes), Capacity: ptrInt(100), Registered: 100},
			StatusFull,
		},
		{
			"over capacity",
			RegistrationWindow{OpensAt: opens, Capacity: ptrInt(100), Registered: 150},
			StatusFull,
		},
		{
			// Window precedence beats capacity: not-yet-open stays upcoming
			// even when already full, and a closed window reads closed.
			"upcoming beats full",
			RegistrationWindow{OpensAt: now.Add(time.Hour), Capacity: ptrInt(10), Registered: 10},
			StatusUpcoming,
		},
		{
			"closed beats full",
			RegistrationWindow{OpensAt: opens, ClosesAt: ptrTime(now.Add(-time.Hour)), Capacity: ptrInt(10), Registered: 10},
			StatusClosed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.window.StatusAt(now); got != tt.want {
				t.Errorf("StatusAt() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAcceptsRegistrations(t *testing.T) {
	now := time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)

	open := RegistrationWindow{OpensAt: now.Add(-time.Hour)}
	if !open.AcceptsRegistrations(now) {
		t.Error("open window should accept registrations")
	}

	full := RegistrationWindow{OpensAt: now.Add(-time.Hour), Capacity: ptrInt(1), Registered: 1}
	if full.AcceptsRegistrations(now) {
		t.Error("full window should not accept registrations")
	}
}
