package competitiondomain

import (
	memberdomain "github.com/Protea-Shooting-Federation/psf-backend/app/modules/member/domain"
)

// FeeSchedule is a discipline's entry fee per age classification, in cents.
// A zero class-specific fee falls back to the open fee.
type FeeSchedule struct {
	OpenCents      int64
	Under19Cents   int64
	Under25Cents   int64
	Veteran60Cents int64
	Veteran70Cents int64
}

// ForClass resolves the fee for one age classification.
func (f FeeSchedule) ForClass(class memberdomain.AgeClassification) int64 {
	var cents int64
	switch class {
	case memberdomain.ClassUnder19:
		cents = f.Under19Cents
	case memberdomain.ClassUnder25:
		cents = f.Under25Cents
	case memberdomain.ClassVeteran60:
		cents = f.Veteran60Cents
	case memberdomain.ClassVeteran70:
		cents = f.Veteran70Cents
	}
	if cents == 0 {
		cents = f.OpenCents
	}
	return cents
}

// TotalFee computes a registration's total: the discipline tier fee for the
// member's age class plus the entry fees of the selected matches.
func TotalFee(schedule FeeSchedule, class memberdomain.AgeClassification, matchFeesCents []int64) int64 {
	total := schedule.ForClass(class)
	for _, fee := range matchFeesCents {
		total += fee
	}
	return total
}
