package memberdomain

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode"

	authdomain "github.com/Protea-Shooting-Federation/psf-backend/app/modules/auth/domain"
)

// Step identifies one of the three registration wizard steps.
type Step int

const (
	// StepIdentity collects credentials and personal identity fields.
	StepIdentity Step = 1
	// StepContact collects address, club, emergency contact and preferred disciplines.
	StepContact Step = 2
	// StepPreferences collects shooting preferences and the self-selectable role.
	StepPreferences Step = 3
)

// RegistrationForm is the full wizard state. Each step validates a disjoint
// subset of its fields; Validate(step) never inspects another step's fields.
type RegistrationForm struct {
	// Step 1: identity/credentials
	MemberNumber    string    `json:"member_number"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	Gender          string    `json:"gender"`
	Citizen         bool      `json:"citizen"`
	NationalID      string    `json:"national_id"`
	DateOfBirth     time.Time `json:"date_of_birth"`
	Phone           string    `json:"phone"`
	AlternatePhone  string    `json:"alternate_phone,omitempty"`
	Email           string    `json:"email"`
	Password        string    `json:"password"`
	PasswordConfirm string    `json:"password_confirm"`

	// Step 2: address/club/emergency contact/preferred disciplines
	AddressLine1         string   `json:"address_line1"`
	AddressLine2         string   `json:"address_line2,omitempty"`
	City                 string   `json:"city"`
	PostalCode           string   `json:"postal_code"`
	Club                 string   `json:"club"`
	EmergencyName        string   `json:"emergency_name"`
	EmergencyPhone       string   `json:"emergency_phone"`
	PreferredDisciplines []string `json:"preferred_disciplines"`

	// Step 3: shooting preferences and role
	DominantHand   string          `json:"dominant_hand"`
	DominantEye    string          `json:"dominant_eye"`
	FirearmLicence string          `json:"firearm_licence,omitempty"`
	Role           authdomain.Role `json:"role"`
}

// FieldErrors maps field names to their validation message.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for field, msg := range fe {
		parts = append(parts, field+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validate checks the field subset belonging to one step. A nil return means
// the step may advance. Uniqueness of the member number is checked separately
// against the store; it is not a pure-form concern.
func (f *RegistrationForm) Validate(step Step, now time.Time) FieldErrors {
	fe := FieldErrors{}

	switch step {
	case StepIdentity:
		f.validateIdentity(fe, now)
	case StepContact:
		f.validateContact(fe)
	case StepPreferences:
		f.validatePreferences(fe)
	default:
		fe["step"] = fmt.Sprintf("unknown step %d", step)
	}

	if len(fe) == 0 {
		return nil
	}
	return fe
}

// ValidateAll runs every step's subset, for the final-submission re-check.
func (f *RegistrationForm) ValidateAll(now time.Time) FieldErrors {
	fe := FieldErrors{}
	f.validateIdentity(fe, now)
	f.validateContact(fe)
	f.validatePreferences(fe)
	if len(fe) == 0 {
		return nil
	}
	return fe
}

func (f *RegistrationForm) validateIdentity(fe FieldErrors, now time.Time) {
	if strings.TrimSpace(f.MemberNumber) == "" {
		fe["member_number"] = "required"
	}
	if strings.TrimSpace(f.FirstName) == "" {
		fe["first_name"] = "required"
	}
	if strings.TrimSpace(f.LastName) == "" {
		fe["last_name"] = "required"
	}
	if f.Gender != "male" && f.Gender != "female" && f.Gender != "other" {
		fe["gender"] = "must be one of male, female, other"
	}
	if !isDigits(f.NationalID) || len(f.NationalID) != 13 {
		fe["national_id"] = "must be exactly 13 digits"
	}
	if _, err := Classify(f.DateOfBirth, now); err != nil {
		fe["date_of_birth"] = "must be a past date"
	}
	if strings.TrimSpace(f.Phone) == "" {
		fe["phone"] = "required"
	}
	if _, err := mail.ParseAddress(f.Email); err != nil {
		fe["email"] = "must be a valid email address"
	}
	if msg := passwordComplexity(f.Password); msg != "" {
		fe["password"] = msg
	}
	if f.PasswordConfirm != f.Password {
		fe["password_confirm"] = "must match password"
	}
}

func (f *RegistrationForm) validateContact(fe FieldErrors) {
	if strings.TrimSpace(f.AddressLine1) == "" {
		fe["address_line1"] = "required"
	}
	if strings.TrimSpace(f.City) == "" {
		fe["city"] = "required"
	}
	if strings.TrimSpace(f.PostalCode) == "" {
		fe["postal_code"] = "required"
	}
	if strings.TrimSpace(f.Club) == "" {
		fe["club"] = "required"
	}
	if strings.TrimSpace(f.EmergencyName) == "" {
		fe["emergency_name"] = "required"
	}
	if strings.TrimSpace(f.EmergencyPhone) == "" {
		fe["emergency_phone"] = "required"
	}
	if len(f.PreferredDisciplines) == 0 {
		fe["preferred_disciplines"] = "select at least one discipline"
	}
}

func (f *RegistrationForm) validatePreferences(fe FieldErrors) {
	if f.DominantHand != "left" && f.DominantHand != "right" {
		fe["dominant_hand"] = "must be left or right"
	}
	if f.DominantEye != "left" && f.DominantEye != "right" {
		fe["dominant_eye"] = "must be left or right"
	}
	if f.Role == "" {
		fe["role"] = "required"
	} else if !f.Role.IsSelfAssignable() {
		// The provisioning endpoint clamps regardless; rejecting here is UX only.
		fe["role"] = "not self-assignable"
	}
}

func passwordComplexity(pw string) string {
	if len(pw) < 8 {
		return "must be at least 8 characters"
	}
	var upper, lower, digit bool
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper || !lower || !digit {
		return "must contain upper case, lower case and a digit"
	}
	return ""
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
