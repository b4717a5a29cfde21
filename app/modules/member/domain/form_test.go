package memberdomain

import (
	"testing"
	"time"

	authdomain "github.com/Protea-Shooting-Federation/psf-backend/app/modules/auth/domain"
)

func validForm() RegistrationForm {
	return RegistrationForm{
		MemberNumber:    "PSF12345",
		FirstName:       "Anna",
		LastName:        "van Wyk",
		Gender:          "female",
		Citizen:         true,
		NationalID:      "9001015009087",
		DateOfBirth:     date(1990, time.January, 1),
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

func TestValidateStepSubsets(t *testing.T) {
	now := date(2026, time.June, 15)

	// A form with only step 1 filled in must pass step 1 and fail steps 2 and 3.
	form := validForm()
	form.AddressLine1 = ""
	form.City = ""
	form.PostalCode = ""
	form.Club = ""
	form.EmergencyName = ""
	form.EmergencyPhone = ""
	form.PreferredDisciplines = nil
	form.DominantHand = ""
	form.DominantEye = ""
	form.Role = ""

	if fe := form.Validate(StepIdentity, now); fe != nil {
		t.Errorf("step 1 should pass, got %v", fe)
	}
	if fe := form.Validate(StepContact, now); fe == nil {
		t.Error("step 2 should fail with empty contact fields")
	}
	if fe := form.Validate(StepPreferences, now); fe == nil {
		t.Error("step 3 should fail with empty preference fields")
	}
}

func TestValidateIdentity(t *testing.T) {
	now := date(2026, time.June, 15)

	tests := []struct {
		name      string
		mutate    func(f *RegistrationForm)
		wantField string
	}{
		{"missing member number", func(f *RegistrationForm) { f.MemberNumber = " " }, "member_number"},
		{"missing first name", func(f *RegistrationForm) { f.FirstName = "" }, "first_name"},
		{"bad gender", func(f *RegistrationForm) { f.Gender = "unknown" }, "gender"},
		{"short national id", func(f *RegistrationForm) { f.NationalID = "12345" }, "national_id"},
		{"alpha national id", func(f *RegistrationForm) { f.NationalID = "90010150090AB" }, "national_id"},
		{"future dob", func(f *RegistrationForm) { f.DateOfBirth = date(2030, time.January, 1) }, "date_of_birth"},
		{"bad email", func(f *RegistrationForm) { f.Email = "not-an-email" }, "email"},
		{"short password", func(f *RegistrationForm) { f.Password, f.PasswordConfirm = "Ab1", "Ab1" }, "password"},
		{"no digit password", func(f *RegistrationForm) { f.Password, f.PasswordConfirm = "NoDigitsHere", "NoDigitsHere" }, "password"},
		{"mismatched confirm", func(f *RegistrationForm) { f.PasswordConfirm = "Different1" }, "password_confirm"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			tt.mutate(&form)

			fe := form.Validate(StepIdentity, now)
			if fe == nil {
				t.Fatal("expected validation errors, got none")
			}
			if _, ok := fe[tt.wantField]; !ok {
				t.Errorf("expected error on %q, got %v", tt.wantField, fe)
			}
		})
	}
}

func TestValidatePreferencesRole(t *testing.T) {
	now := date(2026, time.June, 15)

	form := validForm()
	form.Role = authdomain.RoleAdmin

	fe := form.Validate(StepPreferences, now)
	if fe == nil {
		t.Fatal("expected validation errors, got none")
	}
	if _, ok := fe["role"]; !ok {
		t.Errorf("expected error on role, got %v", fe)
	}

	for _, role := range authdomain.SelfAssignableRoles {
		form.Role = role
		if fe := form.Validate(StepPreferences, now); fe != nil {
			t.Errorf("role %s should be accepted, got %v", role, fe)
		}
	}
}

func TestValidateAll(t *testing.T) {
	now := date(2026, time.June, 15)

	form := validForm()
	if fe := form.ValidateAll(now); fe != nil {
		t.Errorf("valid form should pass, got %v", fe)
	}

	form.Email = "nope"
	form.Club = ""
	fe := form.ValidateAll(now)
	if len(fe) != 2 {
		t.Errorf("expected 2 errors, got %v", fe)
	}
}
