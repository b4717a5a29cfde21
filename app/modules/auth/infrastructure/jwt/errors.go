package authjwt

import "errors"

var (
	// ErrInvalidToken indicates a malformed or otherwise unusable token.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken indicates the token's lifetime has passed.
	ErrExpiredToken = errors.New("token expired")

	// ErrInvalidSignature indicates the token was not signed with our key.
	ErrInvalidSignature = errors.New("invalid token signature")
)
