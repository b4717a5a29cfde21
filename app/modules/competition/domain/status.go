package competitiondomain

import "time"

// Status is a competition's registration availability.
type Status string

const (
	// StatusUpcoming means the registration window has not opened yet.
	StatusUpcoming Status = "upcoming"
	// StatusOpen means registrations are accepted.
	StatusOpen Status = "open"
	// StatusClosed means the registration window has passed.
	StatusClosed Status = "closed"
	// StatusFull means capacity is reached inside an otherwise open window.
	StatusFull Status = "full"
)

// RegistrationWindow carries the inputs of the status decision. Nil close time
// and nil capacity mean unconstrained.
type RegistrationWindow struct {
	OpensAt    time.Time
	ClosesAt   *time.Time
	Capacity   *int
	Registered int
}

// StatusAt evaluates the registration status, in precedence order:
// not yet open, past close, capacity reached, open. The window check runs
// before the capacity check, so an upcoming competition is upcoming no matter
// how many registrations already exist.
func (w RegistrationWindow) StatusAt(now time.Time) Status {
	if now.Before(w.OpensAt) {
		return StatusUpcoming
	}
	if w.ClosesAt != nil && now.After(*w.ClosesAt) {
		return StatusClosed
	}
	if w.Capacity != nil && w.Registered >= *w.Capacity {
		return StatusFull
	}
	return StatusOpen
}

// AcceptsRegistrations reports whether a registration write may proceed.
func (w RegistrationWindow) AcceptsRegistrations(now time.Time) bool {
	return w.StatusAt(now) == StatusOpen
}
