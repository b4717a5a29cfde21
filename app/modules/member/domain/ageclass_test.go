package memberdomain

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestClassify(t *testing.T) {
	now := date(2026, time.June, 15)

	tests := []struct {
		name string
		dob  time.Time
		want AgeClassification
	}{
		{"ten year old", date(2016, time.January, 1), ClassUnder19},
		{"eighteen year old", date(2008, time.January, 1), ClassUnder19},
		{"nineteen year old", date(2007, time.January, 1), ClassUnder25},
		{"twenty four year old", date(2002, time.January, 1), ClassUnder25},
		{"twenty five year old", date(2001, time.January, 1), ClassOpen},
		{"fifty nine year old", date(1967, time.January, 1), ClassOpen},
		{"sixty year old", date(1966, time.January, 1), ClassVeteran60},
		{"sixty nine year old", date(1957, time.January, 1), ClassVeteran60},
		{"seventy year old", date(1956, time.January, 1), ClassVeteran70},
		{"ninety year old", date(1936, time.January, 1), ClassVeteran70},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(tt.dob, now)
			if err != nil {
				t.Fatalf("Classify() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassifyBirthdayBoundary(t *testing.T) {
	// Someone born 2007-06-16 is still 18 on 2026-06-15 and turns 19 the next day.
	dob := date(2007, time.June, 16)

	got, err := Classify(dob, date(2026, time.June, 15))
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if got != ClassUnder19 {
		t.Errorf("day before birthday: got %v, want %v", got, ClassUnder19)
	}

	got, err = Classify(dob, date(2026, time.June, 16))
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if got != ClassUnder25 {
		t.Errorf("on birthday: got %v, want %v", got, ClassUnder25)
	}
}

func TestClassifyInvalidDOB(t *testing.T) {
	now := date(2026, time.June, 15)

	for _, tt := range []struct {
		name string
		dob  time.Time
	}{
		{"zero", time.Time{}},
		{"future", date(2030, time.January, 1)},
	} {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Classify(tt.dob, now); !errors.Is(err, ErrInvalidDateOfBirth) {
				t.Errorf("Classify() error = %v, want ErrInvalidDateOfBirth", err)
			}
		})
	}
}
