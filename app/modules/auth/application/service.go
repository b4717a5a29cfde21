package authservice

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"

	authdomain "github.com/Protea-Shooting-Federation/psf-backend/app/modules/auth/domain"
	authjwt "github.com/Protea-Shooting-Federation/psf-backend/app/modules/auth/infrastructure/jwt"
	memberdb "github.com/Protea-Shooting-Federation/psf-backend/app/modules/member/infrastructure/repositories"
	"github.com/Protea-Shooting-Federation/psf-backend/app/shared/observability/attr"
	"github.com/Protea-Shooting-Federation/psf-backend/app/shared/storage"
)

// Config holds the auth service tunables.
type Config struct {
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// AuthService implements the Service interface.
type AuthService struct {
	jwtProvider authjwt.Provider
	repo        memberdb.Repository
	cfg         Config
	logger      *slog.Logger
	tracer      trace.Tracer

	now func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	jwtProvider authjwt.Provider,
	repo memberdb.Repository,
	cfg Config,
	logger *slog.Logger,
	tracer trace.Tracer,
) *AuthService {
	return &AuthService{
		jwtProvider: jwtProvider,
		repo:        repo,
		cfg:         cfg,
		logger:      logger,
		tracer:      tracer,
		now:         time.Now,
	}
}

// Login authenticates an email+password pair.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.Login")
	defer span.End()

	identity, err := s.repo.GetIdentityByEmail(ctx, nil, email)
	if err != nil {
		if storage.IsKind(err, storage.KindNotFound) {
			// Burn comparable time so unknown emails are not distinguishable.
			_ = bcrypt.CompareHashAndPassword([]byte("$2a$10$invalidinvalidinvalidinvalidinvalidinvalidinvalidinva"), []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.openSession(ctx, identity.ID, uuid.NewString())
}

// ExchangeLoginCode trades a one-time code for a session. The code is consumed
// atomically; a replay reports an invalid code.
func (s *AuthService) ExchangeLoginCode(ctx context.Context, code string) (*Session, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.ExchangeLoginCode")
	defer span.End()

	lc, err := s.repo.ConsumeLoginCode(ctx, nil, code)
	if err != nil {
		if storage.IsKind(err, storage.KindNotFound) {
			return nil, ErrInvalidLoginCode
		}
		return nil, err
	}

	// The code arrived by email, so the address is verified.
	if err := s.repo.MarkEmailVerified(ctx, nil, lc.IdentityID); err != nil {
		s.logger.WarnContext(ctx, "Failed to mark email verified",
			attr.UUID("identity_id", lc.IdentityID),
			attr.Error(err),
		)
	}

	return s.openSession(ctx, lc.IdentityID, uuid.NewString())
}

// Refresh rotates the refresh token within its family. Presenting an already
// revoked token is treated as reuse and revokes the whole family.
func (s *AuthService) Refresh(ctx context.Context, rawRefreshToken string) (*Session, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.Refresh")
	defer span.End()

	stored, err := s.repo.GetRefreshToken(ctx, nil, hashToken(rawRefreshToken))
	if err != nil {
		if storage.IsKind(err, storage.KindNotFound) {
			return nil, ErrSessionRevoked
		}
		return nil, err
	}

	if stored.Revoked {
		s.logger.WarnContext(ctx, "Refresh token reuse detected; revoking family",
			attr.String("token_family", stored.TokenFamily),
		)
		if err := s.repo.RevokeTokenFamily(ctx, nil, stored.TokenFamily, "security"); err != nil {
			s.logger.ErrorContext(ctx, "Failed to revoke token family", attr.Error(err))
		}
		return nil, ErrSessionRevoked
	}
	if s.now().After(stored.ExpiresAt) {
		return nil, ErrSessionExpired
	}

	if err := s.repo.RevokeRefreshToken(ctx, nil, stored.Hash, "user"); err != nil {
		return nil, err
	}

	return s.openSession(ctx, stored.IdentityID, stored.TokenFamily)
}

// Logout revokes the presented refresh token. Unknown tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, rawRefreshToken string) error {
	ctx, span := s.tracer.Start(ctx, "AuthService.Logout")
	defer span.End()

	return s.repo.RevokeRefreshToken(ctx, nil, hashToken(rawRefreshToken), "user")
}

// ValidateAccess parses and validates an access token.
func (s *AuthService) ValidateAccess(tokenString string) (*authdomain.Claims, error) {
	return s.jwtProvider.ValidateToken(tokenString)
}

// openSession builds claims from the member profile (falling back to
// shooter-role identity-only claims when no profile is provisioned yet),
// issues the access token and stores a hashed refresh token.
func (s *AuthService) openSession(ctx context.Context, identityID uuid.UUID, family string) (*Session, error) {
	claims := &authdomain.Claims{
		MemberID: identityID,
		Role:     authdomain.RoleShooter,
	}

	profile, err := s.repo.GetProfile(ctx, nil, identityID)
	switch {
	case err == nil:
		claims.MemberNumber = profile.MemberNumber
		claims.Email = profile.Email
		claims.Role = profile.Role
	case storage.IsKind(err, storage.KindNotFound):
		// Orphaned identity: session works, but only identity-level claims.
	default:
		return nil, err
	}

	access, err := s.jwtProvider.GenerateToken(claims, s.cfg.AccessTTL)
	if err != nil {
		return nil, err
	}

	raw, err := randomToken()
	if err != nil {
		return nil, err
	}

	refresh := &memberdb.RefreshToken{
		Hash:        hashToken(raw),
		IdentityID:  identityID,
		TokenFamily: family,
		ExpiresAt:   s.now().Add(s.cfg.RefreshTTL),
	}
	if err := s.repo.SaveRefreshToken(ctx, nil, refresh); err != nil {
		return nil, err
	}

	return &Session{
		AccessToken:  access,
		RefreshToken: raw,
		Claims:       claims,
	}, nil
}

func randomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
