// Package storage translates driver-level failures into domain error kinds at
// the storage boundary, so no service ever pattern-matches on raw SQLSTATE codes.
package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun/driver/pgdriver"
)

// Kind classifies a storage failure.
type Kind int

const (
	// KindUnknown covers anything the taxonomy cannot classify.
	KindUnknown Kind = iota
	// KindConflict is a uniqueness violation the caller can correct
	// (e.g. a member number already taken).
	KindConflict
	// KindReferentialTiming is a foreign-key violation caused by a referenced
	// row not being durable yet. Retryable with backoff.
	KindReferentialTiming
	// KindPermissionDenied is a privilege failure. Not retryable.
	KindPermissionDenied
	// KindNotFound means the requested row does not exist.
	KindNotFound
	// KindValidation is a data-shape failure rejected by the database.
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindConflict:
		return "conflict"
	case KindReferentialTiming:
		return "referential_timing"
	case KindPermissionDenied:
		return "permission_denied"
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// Error carries the classified kind plus the constraint that fired, if any.
type Error struct {
	Kind       Kind
	Constraint string
	cause      error
}

func (e *Error) Error() string {
	if e.Constraint != "" {
		return fmt.Sprintf("storage %s (constraint %s): %v", e.Kind, e.Constraint, e.cause)
	}
	return fmt.Sprintf("storage %s: %v", e.Kind, e.cause)
}

func (e *Error) Unwrap() error { return e.cause }

// Classify wraps err with its storage kind. Already-classified and nil errors
// pass through unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var already *Error
	if errors.As(err, &already) {
		return err
	}

	if errors.Is(err, sql.ErrNoRows) {
		return &Error{Kind: KindNotFound, cause: err}
	}

	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		code := pgErr.Field('C')
		constraint := pgErr.Field('n')
		switch {
		case code == "23505":
			return &Error{Kind: KindConflict, Constraint: constraint, cause: err}
		case code == "23503":
			return &Error{Kind: KindReferentialTiming, Constraint: constraint, cause: err}
		case code == "42501":
			return &Error{Kind: KindPermissionDenied, cause: err}
		case code == "23502" || (len(code) >= 2 && code[:2] == "22"):
			return &Error{Kind: KindValidation, Constraint: constraint, cause: err}
		}
	}

	return &Error{Kind: KindUnknown, cause: err}
}

// KindOf extracts the kind from a classified error chain.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	if errors.Is(err, sql.ErrNoRows) {
		return KindNotFound
	}
	return KindUnknown
}

// ConstraintOf returns the violated constraint name, if the error carries one.
func ConstraintOf(err error) string {
	var se *Error
	if errors.As(err, &se) {
		return se.Constraint
	}
	return ""
}

// IsKind reports whether err is classified as kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
