package memberservice

import (
	"context"
	"time"

	"github.com/google/uuid"

	authdomain "github.com/Protea-Shooting-Federation/psf-backend/app/modules/auth/domain"
	memberdb "github.com/Protea-Shooting-Federation/psf-backend/app/modules/member/infrastructure/repositories"
	"github.com/Protea-Shooting-Federation/psf-backend/app/shared/observability/attr"
	"github.com/Protea-Shooting-Federation/psf-backend/app/shared/retry"
	"github.com/Protea-Shooting-Federation/psf-backend/app/shared/storage"
)

// ProvisionProfile upserts the profile row keyed by the identity id. The
// identity and the profile live in separate stores with no transactional
// boundary, so the FK to the identity can fail transiently if the upsert runs
// before the identity write is durable. Only that error class is retried:
// three attempts with 1s/2s/3s backoff. A member-number conflict is a
// user-correctable problem and returns immediately.
//
// This is the trust boundary for role assignment: whatever the caller sent is
// clamped to the self-assignable subset unless it is already admin-assigned.
func (s *MemberService) ProvisionProfile(ctx context.Context, identityID uuid.UUID, profile *memberdb.MemberProfile) (*memberdb.MemberProfile, error) {
	return withTelemetry(s, ctx, "ProvisionProfile", func(ctx context.Context) (*memberdb.MemberProfile, error) {
		profile.ID = identityID
		profile.Role = authdomain.ClampSelfAssignable(profile.Role)

		policy := retry.Policy{
			MaxAttempts: s.cfg.ProvisionAttempts,
			Delay:       retry.Linear(time.Second),
			Retryable: func(err error) bool {
				return storage.IsKind(err, storage.KindReferentialTiming)
			},
		}

		err := policy.Do(ctx, func(ctx context.Context) error {
			return s.repo.UpsertProfile(ctx, nil, profile)
		})
		if err != nil {
			if storage.IsKind(err, storage.KindConflict) {
				s.logger.WarnContext(ctx, "Provisioning hit member-number conflict",
					attr.UUID("identity_id", identityID),
					attr.String("member_number", profile.MemberNumber),
				)
				return nil, ErrMemberNumberTaken
			}
			return nil, err
		}

		return profile, nil
	})
}
