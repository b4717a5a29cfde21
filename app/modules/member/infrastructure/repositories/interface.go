package memberdb

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository is the storage surface for identities, profiles, drafts and
// session artifacts. Every method accepts a bun.IDB so callers can pass a
// transaction; a nil IDB means the repository's own connection.
type Repository interface {
	// Identities
	CreateIdentity(ctx context.Context, db bun.IDB, identity *Identity) error
	GetIdentityByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*Identity, error)
	GetIdentityByEmail(ctx context.Context, db bun.IDB, email string) (*Identity, error)
	MarkEmailVerified(ctx context.Context, db bun.IDB, id uuid.UUID) error
	ListOrphanIdentities(ctx context.Context, db bun.IDB) ([]Identity, error)

	// Profiles
	MemberNumberExists(ctx context.Context, db bun.IDB, memberNumber string) (bool, error)
	UpsertProfile(ctx context.Context, db bun.IDB, profile *MemberProfile) error
	GetProfile(ctx context.Context, db bun.IDB, id uuid.UUID) (*MemberProfile, error)
	GetProfileByMemberNumber(ctx context.Context, db bun.IDB, memberNumber string) (*MemberProfile, error)
	UpdateProfile(ctx context.Context, db bun.IDB, profile *MemberProfile) error

	// Drafts
	SaveDraft(ctx context.Context, db bun.IDB, draft *RegistrationDraft) error
	GetDraft(ctx context.Context, db bun.IDB, token uuid.UUID) (*RegistrationDraft, error)
	DeleteDraft(ctx context.Context, db bun.IDB, token uuid.UUID) error

	// Login codes
	SaveLoginCode(ctx context.Context, db bun.IDB, code *LoginCode) error
	ConsumeLoginCode(ctx context.Context, db bun.IDB, code string) (*LoginCode, error)

	// Refresh tokens
	SaveRefreshToken(ctx context.Context, db bun.IDB, token *RefreshToken) error
	GetRefreshToken(ctx context.Context, db bun.IDB, hash string) (*RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, db bun.IDB, hash string, revokedBy string) error
	RevokeTokenFamily(ctx context.Context, db bun.IDB, family string, revokedBy string) error
}
