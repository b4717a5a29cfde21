package memberdomain

import (
	"errors"
	"time"
)

// AgeClassification is the eligibility bucket derived from age, used for fee
// tiers and results grouping.
type AgeClassification string

const (
	ClassOpen      AgeClassification = "open"
	ClassUnder19   AgeClassification = "under_19"
	ClassUnder25   AgeClassification = "under_25"
	ClassVeteran60 AgeClassification = "veteran_60_plus"
	ClassVeteran70 AgeClassification = "veteran_70_plus"
)

// ErrInvalidDateOfBirth indicates a zero or future date of birth.
var ErrInvalidDateOfBirth = errors.New("invalid date of birth")

// Classify maps a date of birth to its age classification as of now.
// Buckets are evaluated top to bottom, first match wins:
// under 19, under 25, 70 and over, 60 and over, otherwise open.
func Classify(dob, now time.Time) (AgeClassification, error) {
	if dob.IsZero() || dob.After(now) {
		return "", ErrInvalidDateOfBirth
	}

	age := ageInFullYears(dob, now)

	switch {
	case age < 19:
		return ClassUnder19, nil
	case age < 25:
		return ClassUnder25, nil
	case age >= 70:
		return ClassVeteran70, nil
	case age >= 60:
		return ClassVeteran60, nil
	default:
		return ClassOpen, nil
	}
}

// ageInFullYears is the year difference, decremented by one if the birthday has
// not yet occurred this year.
func ageInFullYears(dob, now time.Time) int {
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	return age
}
