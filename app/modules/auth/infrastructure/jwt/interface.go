package authjwt

import (
	"time"

	authdomain "github.com/Protea-Shooting-Federation/psf-backend/app/modules/auth/domain"
)

// Provider issues and validates access tokens.
type Provider interface {
	GenerateToken(claims *authdomain.Claims, ttl time.Duration) (string, error)
	ValidateToken(tokenString string) (*authdomain.Claims, error)
}
