package memberservice

import (
	"context"
	"time"

	"github.com/google/uuid"

	memberdomain "github.com/Protea-Shooting-Federation/psf-backend/app/modules/member/domain"
	memberdb "github.com/Protea-Shooting-Federation/psf-backend/app/modules/member/infrastructure/repositories"
)

// Service is the member module's application surface.
type Service interface {
	// Registration wizard
	ValidateStep(ctx context.Context, form *memberdomain.RegistrationForm, step memberdomain.Step) memberdomain.FieldErrors
	MemberNumberAvailable(ctx context.Context, memberNumber string) (bool, error)
	SaveDraft(ctx context.Context, token uuid.UUID, form *memberdomain.RegistrationForm) error
	LoadDraft(ctx context.Context, token uuid.UUID) (*memberdomain.RegistrationForm, time.Time, error)
	ClearDraft(ctx context.Context, token uuid.UUID) error
	Register(ctx context.Context, form *memberdomain.RegistrationForm, draftToken *uuid.UUID) (*RegistrationResult, error)

	// Provisioning (privileged)
	ProvisionProfile(ctx context.Context, identityID uuid.UUID, profile *memberdb.MemberProfile) (*memberdb.MemberProfile, error)

	// Profiles
	GetProfile(ctx context.Context, id uuid.UUID) (*memberdb.MemberProfile, error)
	UpdateProfile(ctx context.Context, actor uuid.UUID, actorIsAdmin bool, profile *memberdb.MemberProfile) (*memberdb.MemberProfile, error)

	// Admin/debug
	ListOrphanIdentities(ctx context.Context) ([]memberdb.Identity, error)
}

// RegistrationResult reports a completed registration.
type RegistrationResult struct {
	MemberID         uuid.UUID `json:"member_id"`
	MemberNumber     string    `json:"member_number"`
	VerificationCode string    `json:"-"`
	PendingEmail     string    `json:"pending_email"`
}
