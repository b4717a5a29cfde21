package member_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	memberservice "github.com/Protea-Shooting-Federation/psf-backend/app/modules/member/application"
	"github.com/Protea-Shooting-Federation/psf-backend/integration_tests/testutils"
)

func TestRegistrationPipeline(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test")
	}
	ctx := context.Background()
	env, err := testutils.GetTestEnvironment(ctx)
	if err != nil {
		t.Fatalf("test environment: %v", err)
	}

	form := testutils.NewRegistrationForm()
	result, err := env.MemberService.Register(ctx, form, nil)
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if result.MemberID == uuid.Nil {
		t.Fatal("no member id assigned")
	}
	if result.VerificationCode == "" {
		t.Error("no verification code issued")
	}

	profile, err := env.MemberService.GetProfile(ctx, result.MemberID)
	if err != nil {
		t.Fatalf("GetProfile() error = %v", err)
	}
	if profile.MemberNumber != form.MemberNumber {
		t.Errorf("MemberNumber = %s, want %s", profile.MemberNumber, form.MemberNumber)
	}
	if profile.FirstName != form.FirstName || profile.LastName != form.LastName {
		t.Errorf("profile name = %s %s, want %s %s", profile.FirstName, profile.LastName, form.FirstName, form.LastName)
	}
}

func TestRegistrationRejectsDuplicateMemberNumber(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test")
	}
	ctx := context.Background()
	env, err := testutils.GetTestEnvironment(ctx)
	if err != nil {
		t.Fatalf("test environment: %v", err)
	}

	form := testutils.NewRegistrationForm()
	if _, err := env.MemberService.Register(ctx, form, nil); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}

	duplicate := testutils.NewRegistrationForm()
	duplicate.MemberNumber = form.MemberNumber
	_, err = env.MemberService.Register(ctx, duplicate, nil)
	if !errors.Is(err, memberservice.ErrMemberNumberTaken) {
		t.Fatalf("duplicate Register() error = %v, want ErrMemberNumberTaken", err)
	}

	available, err := env.MemberService.MemberNumberAvailable(ctx, form.MemberNumber)
	if err != nil {
		t.Fatalf("MemberNumberAvailable() error = %v", err)
	}
	if available {
		t.Error("taken member number reported available")
	}
}

func TestDraftRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test")
	}
	ctx := context.Background()
	env, err := testutils.GetTestEnvironment(ctx)
	if err != nil {
		t.Fatalf("test environment: %v", err)
	}

	token := uuid.New()
	form := testutils.NewRegistrationForm()
	if err := env.MemberService.SaveDraft(ctx, token, form); err != nil {
		t.Fatalf("SaveDraft() error = %v", err)
	}

	loaded, savedAt, err := env.MemberService.LoadDraft(ctx, token)
	if err != nil {
		t.Fatalf("LoadDraft() error = %v", err)
	}
	if loaded.MemberNumber != form.MemberNumber || loaded.Email != form.Email {
		t.Errorf("loaded draft = %s/%s, want %s/%s", loaded.MemberNumber, loaded.Email, form.MemberNumber, form.Email)
	}
	if time.Since(savedAt) > time.Minute {
		t.Errorf("savedAt = %v, not recent", savedAt)
	}

	// Registering with the draft token consumes the draft.
	if _, err := env.MemberService.Register(ctx, form, &token); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if _, _, err := env.MemberService.LoadDraft(ctx, token); err == nil {
		t.Error("draft should be deleted after a successful registration")
	}
}
