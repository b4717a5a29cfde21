package authservice

import (
	"context"

	authdomain "github.com/Protea-Shooting-Federation/psf-backend/app/modules/auth/domain"
)

// Session is the result of any successful authentication.
type Session struct {
	AccessToken  string
	RefreshToken string
	Claims       *authdomain.Claims
}

// Service is the auth module's application surface.
type Service interface {
	// Login authenticates email+password.
	Login(ctx context.Context, email, password string) (*Session, error)

	// ExchangeLoginCode trades a one-time code (issued at registration) for a
	// session and marks the identity's email verified.
	ExchangeLoginCode(ctx context.Context, code string) (*Session, error)

	// Refresh rotates a refresh token. Reuse of a rotated token revokes the
	// whole token family.
	Refresh(ctx context.Context, rawRefreshToken string) (*Session, error)

	// Logout revokes the presented refresh token.
	Logout(ctx context.Context, rawRefreshToken string) error

	// ValidateAccess parses and validates an access token.
	ValidateAccess(tokenString string) (*authdomain.Claims, error)
}
