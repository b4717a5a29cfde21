package authdomain

import (
	"time"

	"github.com/google/uuid"
)

// Claims are the session claims carried in an access token.
type Claims struct {
	MemberID     uuid.UUID
	Email        string
	MemberNumber string
	Role         Role
	IssuedAt     time.Time
	ExpiresAt    time.Time
}
