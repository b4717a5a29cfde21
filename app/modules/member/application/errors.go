package memberservice

import "errors"

// Domain errors for the member service. These are business outcomes the HTTP
// layer maps to user-correctable responses, not transport failures.
var (
	// ErrMemberNumberTaken indicates the member number is already registered.
	ErrMemberNumberTaken = errors.New("member number already registered")

	// ErrEmailTaken indicates an identity already exists for the email.
	ErrEmailTaken = errors.New("email already registered")

	// ErrIdentityNotVisible indicates the identity never became visible within
	// the bounded wait after signup.
	ErrIdentityNotVisible = errors.New("identity not visible after signup")

	// ErrDraftNotFound indicates no draft exists for the supplied token.
	ErrDraftNotFound = errors.New("draft not found")
)
