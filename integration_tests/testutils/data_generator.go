package testutils

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"

	authdomain "github.com/Protea-Shooting-Federation/psf-backend/app/modules/auth/domain"
	competitiondb "github.com/Protea-Shooting-Federation/psf-backend/app/modules/competition/infrastructure/repositories"
	memberdomain "github.com/Protea-Shooting-Federation/psf-backend/app/modules/member/domain"
)

var memberSeq atomic.Int64

// NextMemberNumber returns a member number unique within the test binary.
func NextMemberNumber() string {
	return fmt.Sprintf("PSF%06d", memberSeq.Add(1))
}

// NewRegistrationForm builds a complete, valid wizard form with generated
// personal data and a unique member number and email.
func NewRegistrationForm() *memberdomain.RegistrationForm {
	n := memberSeq.Add(1)
	return &memberdomain.RegistrationForm{
		MemberNumber:    fmt.Sprintf("PSF%06d", n),
		FirstName:       gofakeit.FirstName(),
		LastName:        gofakeit.LastName(),
		Gender:          "female",
		Citizen:         true,
		NationalID:      gofakeit.DigitN(13),
		DateOfBirth:     gofakeit.DateRange(time.Date(1960, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)),
		Phone:           gofakeit.Phone(),
		Email:           fmt.Sprintf("member%d@%s", n, gofakeit.DomainName()),
		Password:        "Str0ngPass",
		PasswordConfirm: "Str0ngPass",

		AddressLine1:         gofakeit.Street(),
		City:                 gofakeit.City(),
		PostalCode:           gofakeit.Zip(),
		Club:                 gofakeit.Company(),
		EmergencyName:        gofakeit.Name(),
		EmergencyPhone:       gofakeit.Phone(),
		PreferredDisciplines: []string{"Air Rifle"},

		DominantHand: "right",
		DominantEye:  "right",
		Role:         authdomain.RoleShooter,
	}
}

// NewOpenCompetition builds a competition whose registration window is open
// around now.
func NewOpenCompetition() *competitiondb.Competition {
	now := time.Now().UTC()
	closes := now.Add(7 * 24 * time.Hour)
	return &competitiondb.Competition{
		ID:                 uuid.New(),
		Name:               gofakeit.Company() + " Open",
		Venue:              gofakeit.City(),
		StartsAt:           now.Add(14 * 24 * time.Hour),
		EndsAt:             now.Add(16 * 24 * time.Hour),
		RegistrationOpens:  now.Add(-24 * time.Hour),
		RegistrationCloses: &closes,
	}
}
