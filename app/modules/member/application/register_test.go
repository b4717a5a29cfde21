package memberservice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	authdomain "github.com/Protea-Shooting-Federation/psf-backend/app/modules/auth/domain"
	memberdomain "github.com/Protea-Shooting-Federation/psf-backend/app/modules/member/domain"
	memberdb "github.com/Protea-Shooting-Federation/psf-backend/app/modules/member/infrastructure/repositories"
	"github.com/Protea-Shooting-Federation/psf-backend/app/shared/observability"
	"github.com/Protea-Shooting-Federation/psf-backend/app/shared/storage"
	"github.com/Protea-Shooting-Federation/psf-backend/config"
)

var testNow = time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)

func newTestService(repo *memberdb.FakeRepository) *MemberService {
	svc := NewMemberService(repo, observability.NewForTest(), nil, config.RegistrationConfig{
		IdentityWaitAttempts: 3,
		IdentityWaitDelay:    time.Millisecond,
		ProvisionAttempts:    3,
	})
	svc.now = func() time.Time { return testNow }
	return svc
}

func registrationForm() *memberdomain.RegistrationForm {
	return &memberdomain.RegistrationForm{
		MemberNumber:    "PSF12345",
		FirstName:       "Anna",
		LastName:        "van Wyk",
		Gender:          "female",
		Citizen:         true,
		NationalID:      "9001015009087",
		DateOfBirth:     time.Date(1990, time.January, 1, 0, 0, 0, 0, time.UTC),
		Phone:           "0821234567",
		Email:           "anna@example.com",
		Password:        "Sup3rSecret",
		PasswordConfirm: "Sup3rSecret",

		AddressLine1:         "1 Range Road",
		City:                 "Bloemfontein",
		PostalCode:           "9301",
		Club:                 "Free State Shooting Club",
		EmergencyName:        "Piet van Wyk",
		EmergencyPhone:       "0837654321",
		PreferredDisciplines: []string{"air_rifle"},

		DominantHand: "right",
		DominantEye:  "right",
		Role:         authdomain.RoleShooter,
	}
}

func TestRegisterHappyPath(t *testing.T) {
	repo := &memberdb.FakeRepository{}
	svc := newTestService(repo)

	draftToken := uuid.New()
	result, err := svc.Register(context.Background(), registrationForm(), &draftToken)
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if result.MemberNumber != "PSF12345" {
		t.Errorf("MemberNumber = %q, want PSF12345", result.MemberNumber)
	}
	if result.PendingEmail != "anna@example.com" {
		t.Errorf("PendingEmail = %q", result.PendingEmail)
	}
	if result.VerificationCode == "" {
		t.Error("expected a verification code")
	}

	want := []string{
		"MemberNumberExists",
		"CreateIdentity",
		"GetIdentityByID",
		"UpsertProfile",
		"SaveLoginCode",
		"DeleteDraft",
	}
	got := repo.Trace()
	if len(got) != len(want) {
		t.Fatalf("trace = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("trace = %v, want %v", got, want)
		}
	}
}

func TestRegisterInvalidForm(t *testing.T) {
	repo := &memberdb.FakeRepository{}
	svc := newTestService(repo)

	form := registrationForm()
	form.Email = "nope"

	_, err := svc.Register(context.Background(), form, nil)
	var fe memberdomain.FieldErrors
	if !errors.As(err, &fe) {
		t.Fatalf("expected FieldErrors, got %v", err)
	}
	if _, ok := fe["email"]; !ok {
		t.Errorf("expected email error, got %v", fe)
	}
	if len(repo.Trace()) != 0 {
		t.Errorf("no repository calls expected, got %v", repo.Trace())
	}
}

func TestRegisterMemberNumberTaken(t *testing.T) {
	repo := &memberdb.FakeRepository{
		MemberNumberExistsFn: func(ctx context.Context, db bun.IDB, memberNumber string) (bool, error) {
			return true, nil
		},
	}
	svc := newTestService(repo)

	_, err := svc.Register(context.Background(), registrationForm(), nil)
	if !errors.Is(err, ErrMemberNumberTaken) {
		t.Fatalf("expected ErrMemberNumberTaken, got %v", err)
	}
	for _, step := range repo.Trace() {
		if step == "CreateIdentity" {
			t.Error("identity must not be created when the member number is taken")
		}
	}
}

func TestRegisterEmailTaken(t *testing.T) {
	repo := &memberdb.FakeRepository{
		CreateIdentityFn: func(ctx context.Context, db bun.IDB, identity *memberdb.Identity) error {
			return &storage.Error{Kind: storage.KindConflict, Constraint: "identities_email_key"}
		},
	}
	svc := newTestService(repo)

	_, err := svc.Register(context.Background(), registrationForm(), nil)
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestRegisterWaitsForIdentityVisibility(t *testing.T) {
	attempts := 0
	repo := &memberdb.FakeRepository{
		GetIdentityByIDFn: func(ctx context.Context, db bun.IDB, id uuid.UUID) (*memberdb.Identity, error) {
			attempts++
			if attempts < 3 {
				return nil, &storage.Error{Kind: storage.KindNotFound}
			}
			return &memberdb.Identity{ID: id}, nil
		},
	}
	svc := newTestService(repo)

	_, err := svc.Register(context.Background(), registrationForm(), nil)
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if attempts != 3 {
		t.Errorf("identity poll attempts = %d, want 3", attempts)
	}
}

func TestRegisterIdentityNeverVisible(t *testing.T) {
	repo := &memberdb.FakeRepository{
		GetIdentityByIDFn: func(ctx context.Context, db bun.IDB, id uuid.UUID) (*memberdb.Identity, error) {
			return nil, &storage.Error{Kind: storage.KindNotFound}
		},
	}
	svc := newTestService(repo)

	_, err := svc.Register(context.Background(), registrationForm(), nil)
	if !errors.Is(err, ErrIdentityNotVisible) {
		t.Fatalf("expected ErrIdentityNotVisible, got %v", err)
	}
	for _, step := range repo.Trace() {
		if step == "UpsertProfile" {
			t.Error("profile must not be provisioned when the identity never became visible")
		}
	}
}

func TestRegisterSurvivesLoginCodeFailure(t *testing.T) {
	repo := &memberdb.FakeRepository{
		SaveLoginCodeFn: func(ctx context.Context, db bun.IDB, code *memberdb.LoginCode) error {
			return errors.New("smtp relay down")
		},
	}
	svc := newTestService(repo)

	result, err := svc.Register(context.Background(), registrationForm(), nil)
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if result.VerificationCode != "" {
		t.Error("expected empty verification code after issue failure")
	}
}
