package memberdb

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// FakeRepository is a hand-written fake for service tests. Each method records
// its name and delegates to the matching Fn field when set.
type FakeRepository struct {
	trace []string

	CreateIdentityFn       func(ctx context.Context, db bun.IDB, identity *Identity) error
	GetIdentityByIDFn      func(ctx context.Context, db bun.IDB, id uuid.UUID) (*Identity, error)
	GetIdentityByEmailFn   func(ctx context.Context, db bun.IDB, email string) (*Identity, error)
	MarkEmailVerifiedFn    func(ctx context.Context, db bun.IDB, id uuid.UUID) error
	ListOrphanIdentitiesFn func(ctx context.Context, db bun.IDB) ([]Identity, error)

	MemberNumberExistsFn       func(ctx context.Context, db bun.IDB, memberNumber string) (bool, error)
	UpsertProfileFn            func(ctx context.Context, db bun.IDB, profile *MemberProfile) error
	GetProfileFn               func(ctx context.Context, db bun.IDB, id uuid.UUID) (*MemberProfile, error)
	GetProfileByMemberNumberFn func(ctx context.Context, db bun.IDB, memberNumber string) (*MemberProfile, error)
	UpdateProfileFn            func(ctx context.Context, db bun.IDB, profile *MemberProfile) error

	SaveDraftFn   func(ctx context.Context, db bun.IDB, draft *RegistrationDraft) error
	GetDraftFn    func(ctx context.Context, db bun.IDB, token uuid.UUID) (*RegistrationDraft, error)
	DeleteDraftFn func(ctx context.Context, db bun.IDB, token uuid.UUID) error

	SaveLoginCodeFn    func(ctx context.Context, db bun.IDB, code *LoginCode) error
	ConsumeLoginCodeFn func(ctx context.Context, db bun.IDB, code string) (*LoginCode, error)

	SaveRefreshTokenFn   func(ctx context.Context, db bun.IDB, token *RefreshToken) error
	GetRefreshTokenFn    func(ctx context.Context, db bun.IDB, hash string) (*RefreshToken, error)
	RevokeRefreshTokenFn func(ctx context.Context, db bun.IDB, hash string, revokedBy string) error
	RevokeTokenFamilyFn  func(ctx context.Context, db bun.IDB, family string, revokedBy string) error
}

func (f *FakeRepository) Trace() []string { return f.trace }

func (f *FakeRepository) record(step string) { f.trace = append(f.trace, step) }

func (f *FakeRepository) CreateIdentity(ctx context.Context, db bun.IDB, identity *Identity) error {
	f.record("CreateIdentity")
	if f.CreateIdentityFn != nil {
		return f.CreateIdentityFn(ctx, db, identity)
	}
	return nil
}

func (f *FakeRepository) GetIdentityByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*Identity, error) {
	f.record("GetIdentityByID")
	if f.GetIdentityByIDFn != nil {
		return f.GetIdentityByIDFn(ctx, db, id)
	}
	return &Identity{ID: id}, nil
}

func (f *FakeRepository) GetIdentityByEmail(ctx context.Context, db bun.IDB, email string) (*Identity, error) {
	f.record("GetIdentityByEmail")
	if f.GetIdentityByEmailFn != nil {
		return f.GetIdentityByEmailFn(ctx, db, email)
	}
	return &Identity{ID: uuid.New(), Email: email}, nil
}

func (f *FakeRepository) MarkEmailVerified(ctx context.Context, db bun.IDB, id uuid.UUID) error {
	f.record("MarkEmailVerified")
	if f.MarkEmailVerifiedFn != nil {
		return f.MarkEmailVerifiedFn(ctx, db, id)
	}
	return nil
}

func (f *FakeRepository) ListOrphanIdentities(ctx context.Context, db bun.IDB) ([]Identity, error) {
	f.record("ListOrphanIdentities")
	if f.ListOrphanIdentitiesFn != nil {
		return f.ListOrphanIdentitiesFn(ctx, db)
	}
	return nil, nil
}

func (f *FakeRepository) MemberNumberExists(ctx context.Context, db bun.IDB, memberNumber string) (bool, error) {
	f.record("MemberNumberExists")
	if f.MemberNumberExistsFn != nil {
		return f.MemberNumberExistsFn(ctx, db, memberNumber)
	}
	return false, nil
}

func (f *FakeRepository) UpsertProfile(ctx context.Context, db bun.IDB, profile *MemberProfile) error {
	f.record("UpsertProfile")
	if f.UpsertProfileFn != nil {
		return f.UpsertProfileFn(ctx, db, profile)
	}
	return nil
}

func (f *FakeRepository) GetProfile(ctx context.Context, db bun.IDB, id uuid.UUID) (*MemberProfile, error) {
	f.record("GetProfile")
	if f.GetProfileFn != nil {
		return f.GetProfileFn(ctx, db, id)
	}
	return &MemberProfile{ID: id}, nil
}

func (f *FakeRepository) GetProfileByMemberNumber(ctx context.Context, db bun.IDB, memberNumber string) (*MemberProfile, error) {
	f.record("GetProfileByMemberNumber")
	if f.GetProfileByMemberNumberFn != nil {
		return f.GetProfileByMemberNumberFn(ctx, db, memberNumber)
	}
	return &MemberProfile{ID: uuid.New(), MemberNumber: memberNumber}, nil
}

func (f *FakeRepository) UpdateProfile(ctx context.Context, db bun.IDB, profile *MemberProfile) error {
	f.record("UpdateProfile")
	if f.UpdateProfileFn != nil {
		return f.UpdateProfileFn(ctx, db, profile)
	}
	return nil
}

func (f *FakeRepository) SaveDraft(ctx context.Context, db bun.IDB, draft *RegistrationDraft) error {
	f.record("SaveDraft")
	if f.SaveDraftFn != nil {
		return f.SaveDraftFn(ctx, db, draft)
	}
	return nil
}

func (f *FakeRepository) GetDraft(ctx context.Context, db bun.IDB, token uuid.UUID) (*RegistrationDraft, error) {
	f.record("GetDraft")
	if f.GetDraftFn != nil {
		return f.GetDraftFn(ctx, db, token)
	}
	return &RegistrationDraft{Token: token}, nil
}

func (f *FakeRepository) DeleteDraft(ctx context.Context, db bun.IDB, token uuid.UUID) error {
	f.record("DeleteDraft")
	if f.DeleteDraftFn != nil {
		return f.DeleteDraftFn(ctx, db, token)
	}
	return nil
}

func (f *FakeRepository) SaveLoginCode(ctx context.Context, db bun.IDB, code *LoginCode) error {
	f.record("SaveLoginCode")
	if f.SaveLoginCodeFn != nil {
		return f.SaveLoginCodeFn(ctx, db, code)
	}
	return nil
}

func (f *FakeRepository) ConsumeLoginCode(ctx context.Context, db bun.IDB, code string) (*LoginCode, error) {
	f.record("ConsumeLoginCode")
	if f.ConsumeLoginCodeFn != nil {
		return f.ConsumeLoginCodeFn(ctx, db, code)
	}
	return &LoginCode{Code: code, IdentityID: uuid.New()}, nil
}

func (f *FakeRepository) SaveRefreshToken(ctx context.Context, db bun.IDB, token *RefreshToken) error {
	f.record("SaveRefreshToken")
	if f.SaveRefreshTokenFn != nil {
		return f.SaveRefreshTokenFn(ctx, db, token)
	}
	return nil
}

func (f *FakeRepository) GetRefreshToken(ctx context.Context, db bun.IDB, hash string) (*RefreshToken, error) {
	f.record("GetRefreshToken")
	if f.GetRefreshTokenFn != nil {
		return f.GetRefreshTokenFn(ctx, db, hash)
	}
	return &RefreshToken{Hash: hash}, nil
}

func (f *FakeRepository) RevokeRefreshToken(ctx context.Context, db bun.IDB, hash string, revokedBy string) error {
	f.record("RevokeRefreshToken")
	if f.RevokeRefreshTokenFn != nil {
		return f.RevokeRefreshTokenFn(ctx, db, hash, revokedBy)
	}
	return nil
}

func (f *FakeRepository) RevokeTokenFamily(ctx context.Context, db bun.IDB, family string, revokedBy string) error {
	f.record("RevokeTokenFamily")
	if f.RevokeTokenFamilyFn != nil {
		return f.RevokeTokenFamilyFn(ctx, db, family, revokedBy)
	}
	return nil
}
