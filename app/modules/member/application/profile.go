package memberservice

import (
	"context"
	"errors"

	"github.com/google/uuid"

	memberdb "github.com/Protea-Shooting-Federation/psf-backend/app/modules/member/infrastructure/repositories"
)

// ErrForbidden indicates the actor may not touch the target profile.
var ErrForbidden = errors.New("not allowed to modify this profile")

// GetProfile fetches a member profile by id.
func (s *MemberService) GetProfile(ctx context.Context, id uuid.UUID) (*memberdb.MemberProfile, error) {
	return withTelemetry(s, ctx, "GetProfile", func(ctx context.Context) (*memberdb.MemberProfile, error) {
		return s.repo.GetProfile(ctx, nil, id)
	})
}

// UpdateProfile lets the owner or an administrator mutate a profile. The role
// field only changes when the actor is an administrator; owners keep whatever
// role they already hold.
func (s *MemberService) UpdateProfile(ctx context.Context, actor uuid.UUID, actorIsAdmin bool, profile *memberdb.MemberProfile) (*memberdb.MemberProfile, error) {
	return withTelemetry(s, ctx, "UpdateProfile", func(ctx context.Context) (*memberdb.MemberProfile, error) {
		if !actorIsAdmin && actor != profile.ID {
			return nil, ErrForbidden
		}

		current, err := s.repo.GetProfile(ctx, nil, profile.ID)
		if err != nil {
			return nil, err
		}
		if !actorIsAdmin {
			profile.Role = current.Role
			// The member number is externally issued; owners cannot rewrite it.
			profile.MemberNumber = current.MemberNumber
		}
		profile.CreatedAt = current.CreatedAt

		if err := s.repo.UpdateProfile(ctx, nil, profile); err != nil {
			return nil, err
		}
		return profile, nil
	})
}
