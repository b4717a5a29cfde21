package scoreservice

import "errors"

var (
	// ErrEmptyReason indicates a rejection without a reason.
	ErrEmptyReason = errors.New("rejection requires a reason")

	// ErrForbidden indicates the actor may not submit for this registration.
	ErrForbidden = errors.New("not allowed to submit for this registration")

	// ErrStageMismatch indicates the stage belongs to another competition.
	ErrStageMismatch = errors.New("stage does not belong to the registration's competition")

	// ErrScoreOutOfRange indicates the score exceeds the stage maximum.
	ErrScoreOutOfRange = errors.New("score exceeds the stage maximum")

	// ErrNoScoresSelected indicates a bulk verify with an empty selection.
	ErrNoScoresSelected = errors.New("no scores selected")
)
