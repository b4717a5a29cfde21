package memberservice

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	authdomain "github.com/Protea-Shooting-Federation/psf-backend/app/modules/auth/domain"
	memberdomain "github.com/Protea-Shooting-Federation/psf-backend/app/modules/member/domain"
	memberdb "github.com/Protea-Shooting-Federation/psf-backend/app/modules/member/infrastructure/repositories"
	"github.com/Protea-Shooting-Federation/psf-backend/app/shared/observability/attr"
	"github.com/Protea-Shooting-Federation/psf-backend/app/shared/retry"
	"github.com/Protea-Shooting-Federation/psf-backend/app/shared/storage"
)

const loginCodeTTL = 24 * time.Hour

// ValidateStep runs one wizard step's field-subset validation.
func (s *MemberService) ValidateStep(_ context.Context, form *memberdomain.RegistrationForm, step memberdomain.Step) memberdomain.FieldErrors {
	return form.Validate(step, s.now())
}

// MemberNumberAvailable reports whether a member number is still free.
// Advisory only: the unique index on member_profiles is the enforcement point,
// so two concurrent registrations can both pass here and one still fails at
// insert time with a conflict.
func (s *MemberService) MemberNumberAvailable(ctx context.Context, memberNumber string) (bool, error) {
	return withTelemetry(s, ctx, "MemberNumberAvailable", func(ctx context.Context) (bool, error) {
		exists, err := s.repo.MemberNumberExists(ctx, nil, memberNumber)
		if err != nil {
			return false, err
		}
		return !exists, nil
	})
}

// SaveDraft persists the wizard state under the draft token, minus sensitive fields.
func (s *MemberService) SaveDraft(ctx context.Context, token uuid.UUID, form *memberdomain.RegistrationForm) error {
	_, err := withTelemetry(s, ctx, "SaveDraft", func(ctx context.Context) (struct{}, error) {
		draft := &memberdb.RegistrationDraft{
			Token: token,
			Form:  form.SanitizeForDraft(),
		}
		return struct{}{}, s.repo.SaveDraft(ctx, nil, draft)
	})
	return err
}

// LoadDraft returns the stored wizard state and its last-save time.
func (s *MemberService) LoadDraft(ctx context.Context, token uuid.UUID) (*memberdomain.RegistrationForm, time.Time, error) {
	type loaded struct {
		form    *memberdomain.RegistrationForm
		savedAt time.Time
	}
	res, err := withTelemetry(s, ctx, "LoadDraft", func(ctx context.Context) (loaded, error) {
		draft, err := s.repo.GetDraft(ctx, nil, token)
		if err != nil {
			if storage.IsKind(err, storage.KindNotFound) {
				return loaded{}, ErrDraftNotFound
			}
			return loaded{}, err
		}
		form := draft.Form
		return loaded{form: &form, savedAt: draft.UpdatedAt}, nil
	})
	if err != nil {
		return nil, time.Time{}, err
	}
	return res.form, res.savedAt, nil
}

// ClearDraft removes a draft. Clearing a missing draft is not an error.
func (s *MemberService) ClearDraft(ctx context.Context, token uuid.UUID) error {
	_, err := withTelemetry(s, ctx, "ClearDraft", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.repo.DeleteDraft(ctx, nil, token)
	})
	return err
}

// Register runs the full submission protocol:
// revalidate every step, re-check member-number uniqueness, create the
// identity, wait for it to become visible, clamp the role, provision the
// profile, issue the email-verification login code and clear the draft.
//
// The identity write and the profile write are deliberately not one
// transaction; they model two separate stores. A failure after identity
// creation leaves an orphan identity that ListOrphanIdentities surfaces; there
// is no automatic rollback.
func (s *MemberService) Register(ctx context.Context, form *memberdomain.RegistrationForm, draftToken *uuid.UUID) (*RegistrationResult, error) {
	return withTelemetry(s, ctx, "Register", func(ctx context.Context) (*RegistrationResult, error) {
		now := s.now()

		if fe := form.ValidateAll(now); fe != nil {
			return nil, fe
		}

		// Race-safety re-check of the step-1 pre-check. Still advisory; the
		// unique index catches whatever slips through the window.
		exists, err := s.repo.MemberNumberExists(ctx, nil, form.MemberNumber)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrMemberNumberTaken
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}

		identity := &memberdb.Identity{
			ID:           uuid.New(),
			Email:        form.Email,
			PasswordHash: string(hash),
		}
		if err := s.repo.CreateIdentity(ctx, nil, identity); err != nil {
			if storage.IsKind(err, storage.KindConflict) {
				return nil, ErrEmailTaken
			}
			return nil, err
		}

		if err := s.awaitIdentityVisible(ctx, identity.ID); err != nil {
			s.logger.ErrorContext(ctx, "Identity never became visible",
				attr.UUID("identity_id", identity.ID),
				attr.Error(err),
			)
			return nil, ErrIdentityNotVisible
		}

		profile := profileFromForm(form, identity.ID)

		provisioned, err := s.ProvisionProfile(ctx, identity.ID, profile)
		if err != nil {
			// Orphaned identity left behind on purpose; see ListOrphanIdentities.
			return nil, err
		}

		code, err := s.issueLoginCode(ctx, identity.ID)
		if err != nil {
			s.logger.WarnContext(ctx, "Failed to issue verification code",
				attr.UUID("identity_id", identity.ID),
				attr.Error(err),
			)
			// The account exists; the code can be re-issued later.
		}

		if draftToken != nil {
			if err := s.repo.DeleteDraft(ctx, nil, *draftToken); err != nil {
				s.logger.WarnContext(ctx, "Failed to clear draft after registration",
					attr.UUID("draft_token", *draftToken),
					attr.Error(err),
				)
			}
		}

		s.logger.InfoContext(ctx, "Member registered",
			attr.UUID("member_id", provisioned.ID),
			attr.String("member_number", provisioned.MemberNumber),
		)

		return &RegistrationResult{
			MemberID:         provisioned.ID,
			MemberNumber:     provisioned.MemberNumber,
			VerificationCode: code,
			PendingEmail:     identity.Email,
		}, nil
	})
}

// awaitIdentityVisible polls until the freshly created identity is readable.
// Bounded fixed-delay schedule; retries only on not-found.
func (s *MemberService) awaitIdentityVisible(ctx context.Context, id uuid.UUID) error {
	policy := retry.Policy{
		MaxAttempts: s.cfg.IdentityWaitAttempts,
		Delay:       retry.Fixed(s.cfg.IdentityWaitDelay),
		Retryable: func(err error) bool {
			return storage.IsKind(err, storage.KindNotFound)
		},
	}
	return policy.Do(ctx, func(ctx context.Context) error {
		_, err := s.repo.GetIdentityByID(ctx, nil, id)
		return err
	})
}

func (s *MemberService) issueLoginCode(ctx context.Context, identityID uuid.UUID) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate login code: %w", err)
	}
	code := hex.EncodeToString(buf)

	lc := &memberdb.LoginCode{
		Code:       code,
		IdentityID: identityID,
		ExpiresAt:  s.now().Add(loginCodeTTL),
	}
	if err := s.repo.SaveLoginCode(ctx, nil, lc); err != nil {
		return "", err
	}
	return code, nil
}

func profileFromForm(form *memberdomain.RegistrationForm, identityID uuid.UUID) *memberdb.MemberProfile {
	return &memberdb.MemberProfile{
		ID:                   identityID,
		MemberNumber:         form.MemberNumber,
		FirstName:            form.FirstName,
		LastName:             form.LastName,
		Gender:               form.Gender,
		Citizen:              form.Citizen,
		NationalID:           form.NationalID,
		DateOfBirth:          form.DateOfBirth,
		Phone:                form.Phone,
		AltPhone:             optional(form.AlternatePhone),
		Email:                form.Email,
		AddressLine1:         form.AddressLine1,
		AddressLine2:         optional(form.AddressLine2),
		City:                 form.City,
		PostalCode:           form.PostalCode,
		Club:                 form.Club,
		EmergencyName:        form.EmergencyName,
		EmergencyPhone:       form.EmergencyPhone,
		PreferredDisciplines: form.PreferredDisciplines,
		DominantHand:         form.DominantHand,
		DominantEye:          form.DominantEye,
		FirearmLicence:       optional(form.FirearmLicence),
		// Clamped again at the provisioning boundary; set here for the payload.
		Role: authdomain.ClampSelfAssignable(form.Role),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// ListOrphanIdentities surfaces identities whose profile provisioning never
// completed, the manual-reconciliation scenario.
func (s *MemberService) ListOrphanIdentities(ctx context.Context) ([]memberdb.Identity, error) {
	return withTelemetry(s, ctx, "ListOrphanIdentities", func(ctx context.Context) ([]memberdb.Identity, error) {
		return s.repo.ListOrphanIdentities(ctx, nil)
	})
}
