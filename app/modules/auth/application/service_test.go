package authservice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"golang.org/x/crypto/bcrypt"

	authdomain "github.com/Protea-Shooting-Federation/psf-backend/app/modules/auth/domain"
	authjwt "github.com/Protea-Shooting-Federation/psf-backend/app/modules/auth/infrastructure/jwt"
	memberdb "github.com/Protea-Shooting-Federation/psf-backend/app/modules/member/infrastructure/repositories"
	"github.com/Protea-Shooting-Federation/psf-backend/app/shared/observability"
	"github.com/Protea-Shooting-Federation/psf-backend/app/shared/storage"
)

var testNow = time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)

func newTestService(repo *memberdb.FakeRepository) *AuthService {
	obs := observability.NewForTest()
	svc := NewAuthService(
		authjwt.NewProvider("test-secret"),
		repo,
		Config{AccessTTL: time.Hour, RefreshTTL: 30 * 24 * time.Hour},
		obs.Logger,
		obs.Tracer,
	)
	svc.now = func() time.Time { return testNow }
	return svc
}

func hashPassword(t *testing.T, pw string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	return string(hash)
}

func TestLogin(t *testing.T) {
	identityID := uuid.New()
	passwordHash := hashPassword(t, "Sup3rSecret")

	repo := &memberdb.FakeRepository{
		GetIdentityByEmailFn: func(ctx context.Context, db bun.IDB, email string) (*memberdb.Identity, error) {
			if email != "anna@example.com" {
				return nil, &storage.Error{Kind: storage.KindNotFound}
			}
			return &memberdb.Identity{ID: identityID, Email: email, PasswordHash: passwordHash}, nil
		},
		GetProfileFn: func(ctx context.Context, db bun.IDB, id uuid.UUID) (*memberdb.MemberProfile, error) {
			return &memberdb.MemberProfile{
				ID:           id,
				MemberNumber: "PSF12345",
				Email:        "anna@example.com",
				Role:         authdomain.RoleStatsOfficer,
			}, nil
		},
	}
	svc := newTestService(repo)

	session, err := svc.Login(context.Background(), "anna@example.com", "Sup3rSecret")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if session.Claims.Role != authdomain.RoleStatsOfficer {
		t.Errorf("role = %s, want stats_officer", session.Claims.Role)
	}
	if session.Claims.MemberNumber != "PSF12345" {
		t.Errorf("member number = %s", session.Claims.MemberNumber)
	}

	// The issued access token must validate back to the same claims.
	claims, err := svc.ValidateAccess(session.AccessToken)
	if err != nil {
		t.Fatalf("ValidateAccess() error = %v", err)
	}
	if claims.MemberID != identityID {
		t.Errorf("member id = %s, want %s", claims.MemberID, identityID)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	passwordHash := hashPassword(t, "Sup3rSecret")
	repo := &memberdb.FakeRepository{
		GetIdentityByEmailFn: func(ctx context.Context, db bun.IDB, email string) (*memberdb.Identity, error) {
			if email != "anna@example.com" {
				return nil, &storage.Error{Kind: storage.KindNotFound}
			}
			return &memberdb.Identity{ID: uuid.New(), Email: email, PasswordHash: passwordHash}, nil
		},
	}
	svc := newTestService(repo)

	for _, tt := range []struct {
		name     string
		email    string
		password string
	}{
		{"unknown email", "nobody@example.com", "Sup3rSecret"},
		{"wrong password", "anna@example.com", "WrongPassword1"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Login(context.Background(), tt.email, tt.password); !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("Login() error = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

func TestLoginWithoutProfileFallsBackToShooter(t *testing.T) {
	passwordHash := hashPassword(t, "Sup3rSecret")
	repo := &memberdb.FakeRepository{
		GetIdentityByEmailFn: func(ctx context.Context, db bun.IDB, email string) (*memberdb.Identity, error) {
			return &memberdb.Identity{ID: uuid.New(), Email: email, PasswordHash: passwordHash}, nil
		},
		GetProfileFn: func(ctx context.Context, db bun.IDB, id uuid.UUID) (*memberdb.MemberProfile, error) {
			return nil, &storage.Error{Kind: storage.KindNotFound}
		},
	}
	svc := newTestService(repo)

	session, err := svc.Login(context.Background(), "orphan@example.com", "Sup3rSecret")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if session.Claims.Role != authdomain.RoleShooter {
		t.Errorf("role = %s, want shooter fallback", session.Claims.Role)
	}
	if session.Claims.MemberNumber != "" {
		t.Errorf("member number = %q, want empty", session.Claims.MemberNumber)
	}
}

func TestExchangeLoginCode(t *testing.T) {
	identityID := uuid.New()
	consumed := false
	repo := &memberdb.FakeRepository{
		ConsumeLoginCodeFn: func(ctx context.Context, db bun.IDB, code string) (*memberdb.LoginCode, error) {
			if consumed || code != "one-time" {
				return nil, &storage.Error{Kind: storage.KindNotFound}
			}
			consumed = true
			return &memberdb.LoginCode{Code: code, IdentityID: identityID}, nil
		},
		GetProfileFn: func(ctx context.Context, db bun.IDB, id uuid.UUID) (*memberdb.MemberProfile, error) {
			return nil, &storage.Error{Kind: storage.KindNotFound}
		},
	}
	svc := newTestService(repo)

	session, err := svc.ExchangeLoginCode(context.Background(), "one-time")
	if err != nil {
		t.Fatalf("ExchangeLoginCode() error = %v", err)
	}
	if session.Claims.MemberID != identityID {
		t.Errorf("member id = %s", session.Claims.MemberID)
	}

	// Replay must fail.
	if _, err := svc.ExchangeLoginCode(context.Background(), "one-time"); !errors.Is(err, ErrInvalidLoginCode) {
		t.Errorf("replay error = %v, want ErrInvalidLoginCode", err)
	}

	marked := false
	for _, step := range repo.Trace() {
		if step == "MarkEmailVerified" {
			marked = true
		}
	}
	if !marked {
		t.Error("expected MarkEmailVerified to be called")
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	identityID := uuid.New()
	var saved *memberdb.RefreshToken
	revokedHashes := []string{}

	repo := &memberdb.FakeRepository{
		SaveRefreshTokenFn: func(ctx context.Context, db bun.IDB, token *memberdb.RefreshToken) error {
			saved = token
			return nil
		},
		GetProfileFn: func(ctx context.Context, db bun.IDB, id uuid.UUID) (*memberdb.MemberProfile, error) {
			return nil, &storage.Error{Kind: storage.KindNotFound}
		},
		RevokeRefreshTokenFn: func(ctx context.Context, db bun.IDB, hash string, revokedBy string) error {
			revokedHashes = append(revokedHashes, hash)
			return nil
		},
	}
	repo.GetRefreshTokenFn = func(ctx context.Context, db bun.IDB, hash string) (*memberdb.RefreshToken, error) {
		if saved == nil || saved.Hash != hash {
			return nil, &storage.Error{Kind: storage.KindNotFound}
		}
		return saved, nil
	}
	svc := newTestService(repo)

	first, err := svc.openSession(context.Background(), identityID, "family-1")
	if err != nil {
		t.Fatalf("openSession() error = %v", err)
	}
	firstHash := saved.Hash

	second, err := svc.Refresh(context.Background(), first.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if second.RefreshToken == first.RefreshToken {
		t.Error("refresh token was not rotated")
	}
	if saved.TokenFamily != "family-1" {
		t.Errorf("token family = %s, want family-1", saved.TokenFamily)
	}
	if len(revokedHashes) != 1 || revokedHashes[0] != firstHash {
		t.Errorf("revoked hashes = %v, want the presented token's hash", revokedHashes)
	}
}

func TestRefreshReuseRevokesFamily(t *testing.T) {
	familyRevoked := ""
	stored := &memberdb.RefreshToken{
		Hash:        hashToken("stolen"),
		IdentityID:  uuid.New(),
		TokenFamily: "family-1",
		ExpiresAt:   testNow.Add(time.Hour),
		Revoked:     true,
	}
	repo := &memberdb.FakeRepository{
		GetRefreshTokenFn: func(ctx context.Context, db bun.IDB, hash string) (*memberdb.RefreshToken, error) {
			return stored, nil
		},
		RevokeTokenFamilyFn: func(ctx context.Context, db bun.IDB, family string, revokedBy string) error {
			familyRevoked = family
			return nil
		},
	}
	svc := newTestService(repo)

	if _, err := svc.Refresh(context.Background(), "stolen"); !errors.Is(err, ErrSessionRevoked) {
		t.Fatalf("Refresh() error = %v, want ErrSessionRevoked", err)
	}
	if familyRevoked != "family-1" {
		t.Errorf("revoked family = %q, want family-1", familyRevoked)
	}
}

func TestRefreshExpired(t *testing.T) {
	repo := &memberdb.FakeRepository{
		GetRefreshTokenFn: func(ctx context.Context, db bun.IDB, hash string) (*memberdb.RefreshToken, error) {
			return &memberdb.RefreshToken{
				Hash:        hash,
				IdentityID:  uuid.New(),
				TokenFamily: "family-1",
				ExpiresAt:   testNow.Add(-time.Minute),
			}, nil
		},
	}
	svc := newTestService(repo)

	if _, err := svc.Refresh(context.Background(), "old"); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("Refresh() error = %v, want ErrSessionExpired", err)
	}
}
