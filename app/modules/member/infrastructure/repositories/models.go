package memberdb

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	authdomain "github.com/Protea-Shooting-Federation/psf-backend/app/modules/auth/domain"
	memberdomain "github.com/Protea-Shooting-Federation/psf-backend/app/modules/member/domain"
)

// Identity is an authentication identity. Profiles are provisioned against it
// after signup; the two writes are not transactional, which is why the
// provisioning path tolerates a visibility window.
type Identity struct {
	bun.BaseModel `bun:"table:identities,alias:i"`

	ID              uuid.UUID  `bun:"id,pk,type:uuid" json:"id"`
	Email           string     `bun:"email,unique,notnull" json:"email"`
	PasswordHash    string     `bun:"password_hash,notnull" json:"-"`
	EmailVerifiedAt *time.Time `bun:"email_verified_at,nullzero" json:"email_verified_at,omitempty"`
	CreatedAt       time.Time  `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

// MemberProfile is the federation membership record, 1:1 with an identity.
// The profile id always equals the owning identity's id, enforced by FK.
type MemberProfile struct {
	bun.BaseModel `bun:"table:member_profiles,alias:mp"`

	ID           uuid.UUID                      `bun:"id,pk,type:uuid" json:"id"`
	MemberNumber string                         `bun:"member_number,unique,notnull" json:"member_number"`
	FirstName    string                         `bun:"first_name,notnull" json:"first_name"`
	LastName     string                         `bun:"last_name,notnull" json:"last_name"`
	Gender       string                         `bun:"gender,notnull" json:"gender"`
	Citizen      bool                           `bun:"citizen,notnull,default:false" json:"citizen"`
	NationalID   string                         `bun:"national_id,notnull" json:"national_id"`
	DateOfBirth  time.Time                      `bun:"date_of_birth,notnull" json:"date_of_birth"`
	Phone        string                         `bun:"phone,notnull" json:"phone"`
	AltPhone     *string                        `bun:"alternate_phone,nullzero" json:"alternate_phone,omitempty"`
	Email        string                         `bun:"email,notnull" json:"email"`
	AddressLine1 string                         `bun:"address_line1" json:"address_line1"`
	AddressLine2 *string                        `bun:"address_line2,nullzero" json:"address_line2,omitempty"`
	City         string                         `bun:"city" json:"city"`
	PostalCode   string                         `bun:"postal_code" json:"postal_code"`
	Club         string                         `bun:"club" json:"club"`
	EmergencyName  string                       `bun:"emergency_name" json:"emergency_name"`
	EmergencyPhone string                       `bun:"emergency_phone" json:"emergency_phone"`
	PreferredDisciplines []string               `bun:"preferred_disciplines,array" json:"preferred_disciplines"`
	DominantHand   string                       `bun:"dominant_hand" json:"dominant_hand"`
	DominantEye    string                       `bun:"dominant_eye" json:"dominant_eye"`
	FirearmLicence *string                      `bun:"firearm_licence,nullzero" json:"firearm_licence,omitempty"`
	Role           authdomain.Role              `bun:"role,notnull,default:'shooter'" json:"role"`
	CreatedAt      time.Time                    `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt      time.Time                    `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`

	// ORM relationships
	Identity *Identity `bun:"rel:belongs-to,join:id=id" json:"-"`
}

// AgeClassification derives the profile's eligibility bucket as of now.
func (p *MemberProfile) AgeClassification(now time.Time) (memberdomain.AgeClassification, error) {
	return memberdomain.Classify(p.DateOfBirth, now)
}

// FullName returns the member's display name.
func (p *MemberProfile) FullName() string {
	return p.FirstName + " " + p.LastName
}

// RegistrationDraft is a server-persisted wizard snapshot, keyed by a draft
// token the client holds. Sensitive fields are stripped before save.
type RegistrationDraft struct {
	bun.BaseModel `bun:"table:registration_drafts,alias:rd"`

	Token     uuid.UUID                     `bun:"token,pk,type:uuid" json:"token"`
	Form      memberdomain.RegistrationForm `bun:"form,type:jsonb" json:"form"`
	CreatedAt time.Time                     `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time                     `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

// LoginCode is a one-time code exchanged for a session by the auth callback.
type LoginCode struct {
	bun.BaseModel `bun:"table:login_codes,alias:lc"`

	Code       string     `bun:"code,pk"`
	IdentityID uuid.UUID  `bun:"identity_id,notnull,type:uuid"`
	ExpiresAt  time.Time  `bun:"expires_at,notnull"`
	CreatedAt  time.Time  `bun:"created_at,notnull,default:current_timestamp"`
	Used       bool       `bun:"used,notnull,default:false"`
	UsedAt     *time.Time `bun:"used_at"`
}

// RefreshToken is a long-lived session token, stored hashed.
type RefreshToken struct {
	bun.BaseModel `bun:"table:refresh_tokens,alias:rt"`

	Hash        string     `bun:"hash,pk"`
	IdentityID  uuid.UUID  `bun:"identity_id,notnull,type:uuid"`
	TokenFamily string     `bun:"token_family,notnull"` // Detect token reuse
	ExpiresAt   time.Time  `bun:"expires_at,notnull"`
	CreatedAt   time.Time  `bun:"created_at,notnull,default:current_timestamp"`
	LastUsedAt  *time.Time `bun:"last_used_at"`
	Revoked     bool       `bun:"revoked,notnull,default:false"`
	RevokedAt   *time.Time `bun:"revoked_at"`
	RevokedBy   *string    `bun:"revoked_by"` // 'user' | 'admin' | 'security'
}
