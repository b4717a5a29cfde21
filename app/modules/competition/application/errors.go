package competitionservice

import (
	"errors"
	"fmt"

	competitiondomain "github.com/Protea-Shooting-Federation/psf-backend/app/modules/competition/domain"
)

var (
	// ErrRegistrationNotOpen wraps the three not-open statuses; callers inspect
	// Status on the returned StatusError for the exact one.
	ErrRegistrationNotOpen = errors.New("registration is not open")

	// ErrDisciplineNotOffered indicates the competition does not run the
	// requested discipline.
	ErrDisciplineNotOffered = errors.New("discipline not offered by this competition")

	// ErrDisciplineFull indicates the discipline's entry cap is reached.
	ErrDisciplineFull = errors.New("discipline entry cap reached")

	// ErrAlreadyRegistered indicates an existing (member, competition,
	// discipline) registration.
	ErrAlreadyRegistered = errors.New("already registered for this discipline")

	// ErrUnknownMatch indicates a selected match does not belong to the competition.
	ErrUnknownMatch = errors.New("unknown match selection")

	// ErrForbidden indicates the actor may not touch the target registration.
	ErrForbidden = errors.New("not allowed to modify this registration")
)

// StatusError reports the competition status that blocked a registration.
// errors.Is(err, ErrRegistrationNotOpen) matches every variant.
type StatusError struct {
	Status competitiondomain.Status
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("registration is not open: competition is %s", e.Status)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrRegistrationNotOpen
}

