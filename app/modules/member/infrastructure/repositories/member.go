package memberdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/Protea-Shooting-Federation/psf-backend/app/shared/storage"
)

// MemberDBImpl implements Repository on bun.
type MemberDBImpl struct {
	DB *bun.DB
}

func (r *MemberDBImpl) idb(db bun.IDB) bun.IDB {
	if db != nil {
		return db
	}
	return r.DB
}

// --- Identities ---

func (r *MemberDBImpl) CreateIdentity(ctx context.Context, db bun.IDB, identity *Identity) error {
	_, err := r.idb(db).NewInsert().
		Model(identity).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create identity: %w", storage.Classify(err))
	}
	return nil
}

func (r *MemberDBImpl) GetIdentityByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*Identity, error) {
	identity := new(Identity)
	err := r.idb(db).NewSelect().
		Model(identity).
		Where("i.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch identity %s: %w", id, storage.Classify(err))
	}
	return identity, nil
}

func (r *MemberDBImpl) GetIdentityByEmail(ctx context.Context, db bun.IDB, email string) (*Identity, error) {
	identity := new(Identity)
	err := r.idb(db).NewSelect().
		Model(identity).
		Where("lower(i.email) = lower(?)", email).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch identity by email: %w", storage.Classify(err))
	}
	return identity, nil
}

func (r *MemberDBImpl) MarkEmailVerified(ctx context.Context, db bun.IDB, id uuid.UUID) error {
	_, err := r.idb(db).NewUpdate().
		Model((*Identity)(nil)).
		Set("email_verified_at = ?", time.Now()).
		Where("id = ? AND email_verified_at IS NULL", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to mark email verified for %s: %w", id, storage.Classify(err))
	}
	return nil
}

// ListOrphanIdentities returns identities without a provisioned profile, the
// known partial-failure state of the registration pipeline.
func (r *MemberDBImpl) ListOrphanIdentities(ctx context.Context, db bun.IDB) ([]Identity, error) {
	var identities []Identity
	err := r.idb(db).NewSelect().
		Model(&identities).
		Where("NOT EXISTS (SELECT 1 FROM member_profiles mp WHERE mp.id = i.id)").
		Order("i.created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list orphan identities: %w", storage.Classify(err))
	}
	return identities, nil
}

// --- Profiles ---

func (r *MemberDBImpl) MemberNumberExists(ctx context.Context, db bun.IDB, memberNumber string) (bool, error) {
	exists, err := r.idb(db).NewSelect().
		Model((*MemberProfile)(nil)).
		Where("member_number = ?", memberNumber).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check member number: %w", storage.Classify(err))
	}
	return exists, nil
}

// UpsertProfile inserts or replaces the profile keyed by the identity id.
// Idempotent so the provisioning endpoint can be retried safely.
func (r *MemberDBImpl) UpsertProfile(ctx context.Context, db bun.IDB, profile *MemberProfile) error {
	profile.UpdatedAt = time.Now()
	_, err := r.idb(db).NewInsert().
		Model(profile).
		On("CONFLICT (id) DO UPDATE").
		Set("member_number = EXCLUDED.member_number").
		Set("first_name = EXCLUDED.first_name").
		Set("last_name = EXCLUDED.last_name").
		Set("gender = EXCLUDED.gender").
		Set("citizen = EXCLUDED.citizen").
		Set("national_id = EXCLUDED.national_id").
		Set("date_of_birth = EXCLUDED.date_of_birth").
		Set("phone = EXCLUDED.phone").
		Set("alternate_phone = EXCLUDED.alternate_phone").
		Set("email = EXCLUDED.email").
		Set("address_line1 = EXCLUDED.address_line1").
		Set("address_line2 = EXCLUDED.address_line2").
		Set("city = EXCLUDED.city").
		Set("postal_code = EXCLUDED.postal_code").
		Set("club = EXCLUDED.club").
		Set("emergency_name = EXCLUDED.emergency_name").
		Set("emergency_phone = EXCLUDED.emergency_phone").
		Set("preferred_disciplines = EXCLUDED.preferred_disciplines").
		Set("dominant_hand = EXCLUDED.dominant_hand").
		Set("dominant_eye = EXCLUDED.dominant_eye").
		Set("firearm_licence = EXCLUDED.firearm_licence").
		Set("role = EXCLUDED.role").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert profile %s: %w", profile.ID, storage.Classify(err))
	}
	return nil
}

func (r *MemberDBImpl) GetProfile(ctx context.Context, db bun.IDB, id uuid.UUID) (*MemberProfile, error) {
	profile := new(MemberProfile)
	err := r.idb(db).NewSelect().
		Model(profile).
		Where("mp.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile %s: %w", id, storage.Classify(err))
	}
	return profile, nil
}

func (r *MemberDBImpl) GetProfileByMemberNumber(ctx context.Context, db bun.IDB, memberNumber string) (*MemberProfile, error) {
	profile := new(MemberProfile)
	err := r.idb(db).NewSelect().
		Model(profile).
		Where("mp.member_number = ?", memberNumber).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile by member number: %w", storage.Classify(err))
	}
	return profile, nil
}

func (r *MemberDBImpl) UpdateProfile(ctx context.Context, db bun.IDB, profile *MemberProfile) error {
	profile.UpdatedAt = time.Now()
	res, err := r.idb(db).NewUpdate().
		Model(profile).
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update profile %s: %w", profile.ID, storage.Classify(err))
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return fmt.Errorf("profile %s not found for update: %w", profile.ID, storage.Classify(sql.ErrNoRows))
	}
	return nil
}

// --- Drafts ---

func (r *MemberDBImpl) SaveDraft(ctx context.Context, db bun.IDB, draft *RegistrationDraft) error {
	draft.UpdatedAt = time.Now()
	_, err := r.idb(db).NewInsert().
		Model(draft).
		On("CONFLICT (token) DO UPDATE").
		Set("form = EXCLUDED.form").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to save draft: %w", storage.Classify(err))
	}
	return nil
}

func (r *MemberDBImpl) GetDraft(ctx context.Context, db bun.IDB, token uuid.UUID) (*RegistrationDraft, error) {
	draft := new(RegistrationDraft)
	err := r.idb(db).NewSelect().
		Model(draft).
		Where("rd.token = ?", token).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch draft: %w", storage.Classify(err))
	}
	return draft, nil
}

func (r *MemberDBImpl) DeleteDraft(ctx context.Context, db bun.IDB, token uuid.UUID) error {
	_, err := r.idb(db).NewDelete().
		Model((*RegistrationDraft)(nil)).
		Where("token = ?", token).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete draft: %w", storage.Classify(err))
	}
	return nil
}

// --- Login codes ---

func (r *MemberDBImpl) SaveLoginCode(ctx context.Context, db bun.IDB, code *LoginCode) error {
	_, err := r.idb(db).NewInsert().
		Model(code).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to save login code: %w", storage.Classify(err))
	}
	return nil
}

// ConsumeLoginCode marks an unused, unexpired code as used and returns it.
// A second consume of the same code reports not found.
func (r *MemberDBImpl) ConsumeLoginCode(ctx context.Context, db bun.IDB, code string) (*LoginCode, error) {
	lc := new(LoginCode)
	err := r.idb(db).NewUpdate().
		Model(lc).
		Set("used = TRUE").
		Set("used_at = ?", time.Now()).
		Where("code = ? AND used = FALSE AND expires_at > ?", code, time.Now()).
		Returning("*").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("login code invalid or already used: %w", storage.Classify(err))
		}
		return nil, fmt.Errorf("failed to consume login code: %w", storage.Classify(err))
	}
	return lc, nil
}

// --- Refresh tokens ---

func (r *MemberDBImpl) SaveRefreshToken(ctx context.Context, db bun.IDB, token *RefreshToken) error {
	_, err := r.idb(db).NewInsert().
		Model(token).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to save refresh token: %w", storage.Classify(err))
	}
	return nil
}

func (r *MemberDBImpl) GetRefreshToken(ctx context.Context, db bun.IDB, hash string) (*RefreshToken, error) {
	token := new(RefreshToken)
	err := r.idb(db).NewSelect().
		Model(token).
		Where("rt.hash = ?", hash).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch refresh token: %w", storage.Classify(err))
	}
	return token, nil
}

func (r *MemberDBImpl) RevokeRefreshToken(ctx context.Context, db bun.IDB, hash string, revokedBy string) error {
	_, err := r.idb(db).NewUpdate().
		Model((*RefreshToken)(nil)).
		Set("revoked = TRUE").
		Set("revoked_at = ?", time.Now()).
		Set("revoked_by = ?", revokedBy).
		Where("hash = ?", hash).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", storage.Classify(err))
	}
	return nil
}

// RevokeTokenFamily revokes every token in a family after reuse is detected.
func (r *MemberDBImpl) RevokeTokenFamily(ctx context.Context, db bun.IDB, family string, revokedBy string) error {
	_, err := r.idb(db).NewUpdate().
		Model((*RefreshToken)(nil)).
		Set("revoked = TRUE").
		Set("revoked_at = ?", time.Now()).
		Set("revoked_by = ?", revokedBy).
		Where("token_family = ?", family).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to revoke token family: %w", storage.Classify(err))
	}
	return nil
}
