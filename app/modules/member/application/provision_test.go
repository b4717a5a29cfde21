package memberservice

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	authdomain "github.com/Protea-Shooting-Federation/psf-backend/app/modules/auth/domain"
	memberdb "github.com/Protea-Shooting-Federation/psf-backend/app/modules/member/infrastructure/repositories"
	"github.com/Protea-Shooting-Federation/psf-backend/app/shared/storage"
)

func TestProvisionProfileClampsRole(t *testing.T) {
	var stored *memberdb.MemberProfile
	repo := &memberdb.FakeRepository{
		UpsertProfileFn: func(ctx context.Context, db bun.IDB, profile *memberdb.MemberProfile) error {
			stored = profile
			return nil
		},
	}
	svc := newTestService(repo)

	identityID := uuid.New()
	profile := &memberdb.MemberProfile{
		MemberNumber: "PSF99999",
		Role:         authdomain.RoleAdmin,
	}

	got, err := svc.ProvisionProfile(context.Background(), identityID, profile)
	if err != nil {
		t.Fatalf("ProvisionProfile() error = %v", err)
	}
	if stored.Role != authdomain.RoleShooter {
		t.Errorf("stored role = %s, want shooter", stored.Role)
	}
	if got.ID != identityID {
		t.Errorf("profile id = %s, want identity id %s", got.ID, identityID)
	}
}

func TestProvisionProfileKeepsSelfAssignableRole(t *testing.T) {
	repo := &memberdb.FakeRepository{}
	svc := newTestService(repo)

	profile := &memberdb.MemberProfile{Role: authdomain.RoleStatsOfficer}
	got, err := svc.ProvisionProfile(context.Background(), uuid.New(), profile)
	if err != nil {
		t.Fatalf("ProvisionProfile() error = %v", err)
	}
	if got.Role != authdomain.RoleStatsOfficer {
		t.Errorf("role = %s, want stats_officer", got.Role)
	}
}

func TestProvisionProfileRetriesReferentialTiming(t *testing.T) {
	attempts := 0
	repo := &memberdb.FakeRepository{
		UpsertProfileFn: func(ctx context.Context, db bun.IDB, profile *memberdb.MemberProfile) error {
			attempts++
			if attempts < 2 {
				return &storage.Error{Kind: storage.KindReferentialTiming, Constraint: "member_profiles_id_fkey"}
			}
			return nil
		},
	}
	svc := newTestService(repo)

	if _, err := svc.ProvisionProfile(context.Background(), uuid.New(), &memberdb.MemberProfile{}); err != nil {
		t.Fatalf("ProvisionProfile() error = %v", err)
	}
	if attempts != 2 {
		t.Errorf("upsert attempts = %d, want 2", attempts)
	}
}

func TestProvisionProfileConflictReturnsImmediately(t *testing.T) {
	attempts := 0
	repo := &memberdb.FakeRepository{
		UpsertProfileFn: func(ctx context.Context, db bun.IDB, profile *memberdb.MemberProfile) error {
			attempts++
			return &storage.Error{Kind: storage.KindConflict, Constraint: "member_profiles_member_number_key"}
		},
	}
	svc := newTestService(repo)

	_, err := svc.ProvisionProfile(context.Background(), uuid.New(), &memberdb.MemberProfile{MemberNumber: "PSF1"})
	if !errors.Is(err, ErrMemberNumberTaken) {
		t.Fatalf("expected ErrMemberNumberTaken, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("upsert attempts = %d, want 1 (conflicts are not retried)", attempts)
	}
}
