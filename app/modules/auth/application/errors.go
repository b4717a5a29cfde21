package authservice

import "errors"

var (
	// ErrInvalidCredentials covers both unknown email and wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidLoginCode indicates the one-time code is unknown, expired or used.
	ErrInvalidLoginCode = errors.New("invalid or expired login code")

	// ErrSessionRevoked indicates the refresh token (or its family) was revoked.
	ErrSessionRevoked = errors.New("session revoked")

	// ErrSessionExpired indicates the refresh token passed its lifetime.
	ErrSessionExpired = errors.New("session expired")
)
