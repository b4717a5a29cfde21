package competitionservice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	competitiondomain "github.com/Protea-Shooting-Federation/psf-backend/app/modules/competition/domain"
	competitiondb "github.com/Protea-Shooting-Federation/psf-backend/app/modules/competition/infrastructure/repositories"
	memberdb "github.com/Protea-Shooting-Federation/psf-backend/app/modules/member/infrastructure/repositories"
	"github.com/Protea-Shooting-Federation/psf-backend/app/shared/observability"
	"github.com/Protea-Shooting-Federation/psf-backend/app/shared/storage"
)

var testNow = time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)

func intPtr(n int) *int { return &n }

func newTestService(repo *competitiondb.FakeRepository, memberRepo *memberdb.FakeRepository) *CompetitionService {
	svc := NewCompetitionService(repo, memberRepo, observability.NewForTest(), nil)
	svc.now = func() time.Time { return testNow }
	return svc
}

// openCompetition returns a competition whose window is open at testNow.
func openCompetition(id uuid.UUID) *competitiondb.Competition {
	closes := testNow.Add(24 * time.Hour)
	return &competitiondb.Competition{
		ID:                 id,
		Name:               "Free State Open",
		RegistrationOpens:  testNow.Add(-24 * time.Hour),
		RegistrationCloses: &closes,
	}
}

func memberRepoWithProfile(dob time.Time) *memberdb.FakeRepository {
	return &memberdb.FakeRepository{
		GetProfileFn: func(ctx context.Context, db bun.IDB, id uuid.UUID) (*memberdb.MemberProfile, error) {
			return &memberdb.MemberProfile{ID: id, MemberNumber: "PSF12345", DateOfBirth: dob}, nil
		},
	}
}

func TestRegisterComputesFee(t *testing.T) {
	competitionID := uuid.New()
	disciplineID := uuid.New()
	matchID := uuid.New()

	repo := &competitiondb.FakeRepository{
		GetCompetitionFn: func(ctx context.Context, db bun.IDB, id uuid.UUID) (*competitiondb.Competition, error) {
			return openCompetition(id), nil
		},
		GetCompetitionDisciplineFn: func(ctx context.Context, db bun.IDB, cid, did uuid.UUID) (*competitiondb.CompetitionDiscipline, error) {
			return &competitiondb.CompetitionDiscipline{
				CompetitionID:   cid,
				DisciplineID:    did,
				FeeOpenCents:    50000,
				FeeUnder19Cents: 25000,
			}, nil
		},
		GetMatchesFn: func(ctx context.Context, db bun.IDB, cid uuid.UUID, ids []uuid.UUID) ([]competitiondb.Match, error) {
			return []competitiondb.Match{{ID: matchID, CompetitionID: cid, EntryFeeCents: 10000}}, nil
		},
		NextEntryNumberFn: func(ctx context.Context, db bun.IDB, cid uuid.UUID) (int, error) {
			return 42, nil
		},
	}
	// Born 2010: under 19 at testNow, so the junior tier applies.
	svc := newTestService(repo, memberRepoWithProfile(time.Date(2010, time.March, 1, 0, 0, 0, 0, time.UTC)))

	registration, err := svc.Register(context.Background(), uuid.New(), RegistrationInput{
		CompetitionID: competitionID,
		DisciplineID:  disciplineID,
		MatchIDs:      []uuid.UUID{matchID},
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if registration.TotalFeeCents != 35000 {
		t.Errorf("TotalFeeCents = %d, want 35000 (25000 tier + 10000 match)", registration.TotalFeeCents)
	}
	if registration.EntryNumber != 42 {
		t.Errorf("EntryNumber = %d, want 42", registration.EntryNumber)
	}
	if registration.Status != competitiondb.RegistrationPending {
		t.Errorf("Status = %s, want pending", registration.Status)
	}
	if registration.PaymentStatus != competitiondb.PaymentUnpaid {
		t.Errorf("PaymentStatus = %s, want unpaid", registration.PaymentStatus)
	}
}

func TestRegisterGate(t *testing.T) {
	dob := time.Date(1990, time.January, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		mutate     func(c *competitiondb.Competition)
		registered int
		wantStatus competitiondomain.Status
	}{
		{
			"upcoming",
			func(c *competitiondb.Competition) { c.RegistrationOpens = testNow.Add(time.Hour) },
			0,
			competitiondomain.StatusUpcoming,
		},
		{
			"closed",
			func(c *competitiondb.Competition) {
				closed := testNow.Add(-time.Hour)
				c.RegistrationCloses = &closed
			},
			0,
			competitiondomain.StatusClosed,
		},
		{
			"full",
			func(c *competitiondb.Competition) { c.Capacity = intPtr(10) },
			10,
			competitiondomain.StatusFull,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &competitiondb.FakeRepository{
				GetCompetitionFn: func(ctx context.Context, db bun.IDB, id uuid.UUID) (*competitiondb.Competition, error) {
					c := openCompetition(id)
					tt.mutate(c)
					return c, nil
				},
				CountRegistrationsFn: func(ctx context.Context, db bun.IDB, cid uuid.UUID) (int, error) {
					return tt.registered, nil
				},
			}
			svc := newTestService(repo, memberRepoWithProfile(dob))

			_, err := svc.Register(context.Background(), uuid.New(), RegistrationInput{
				CompetitionID: uuid.New(),
				DisciplineID:  uuid.New(),
			})
			if !errors.Is(err, ErrRegistrationNotOpen) {
				t.Fatalf("Register() error = %v, want ErrRegistrationNotOpen", err)
			}
			var se *StatusError
			if !errors.As(err, &se) || se.Status != tt.wantStatus {
				t.Errorf("status = %v, want %v", se, tt.wantStatus)
			}
			for _, step := range repo.Trace() {
				if step == "CreateRegistration" {
					t.Error("no registration may be created when the window is not open")
				}
			}
		})
	}
}

func TestRegisterDisciplineNotOffered(t *testing.T) {
	repo := &competitiondb.FakeRepository{
		GetCompetitionFn: func(ctx context.Context, db bun.IDB, id uuid.UUID) (*competitiondb.Competition, error) {
			return openCompetition(id), nil
		},
		GetCompetitionDisciplineFn: func(ctx context.Context, db bun.IDB, cid, did uuid.UUID) (*competitiondb.CompetitionDiscipline, error) {
			return nil, &storage.Error{Kind: storage.KindNotFound}
		},
	}
	svc := newTestService(repo, memberRepoWithProfile(time.Date(1990, time.January, 1, 0, 0, 0, 0, time.UTC)))

	_, err := svc.Register(context.Background(), uuid.New(), RegistrationInput{CompetitionID: uuid.New(), DisciplineID: uuid.New()})
	if !errors.Is(err, ErrDisciplineNotOffered) {
		t.Fatalf("Register() error = %v, want ErrDisciplineNotOffered", err)
	}
}

func TestRegisterDisciplineFull(t *testing.T) {
	repo := &competitiondb.FakeRepository{
		GetCompetitionFn: func(ctx context.Context, db bun.IDB, id uuid.UUID) (*competitiondb.Competition, error) {
			return openCompetition(id), nil
		},
		GetCompetitionDisciplineFn: func(ctx context.Context, db bun.IDB, cid, did uuid.UUID) (*competitiondb.CompetitionDiscipline, error) {
			return &competitiondb.CompetitionDiscipline{CompetitionID: cid, DisciplineID: did, MaxEntries: intPtr(20)}, nil
		},
		CountDisciplineRegistrationsFn: func(ctx context.Context, db bun.IDB, cid, did uuid.UUID) (int, error) {
			return 20, nil
		},
	}
	svc := newTestService(repo, memberRepoWithProfile(time.Date(1990, time.January, 1, 0, 0, 0, 0, time.UTC)))

	_, err := svc.Register(context.Background(), uuid.New(), RegistrationInput{CompetitionID: uuid.New(), DisciplineID: uuid.New()})
	if !errors.Is(err, ErrDisciplineFull) {
		t.Fatalf("Register() error = %v, want ErrDisciplineFull", err)
	}
}

func TestRegisterUnknownMatch(t *testing.T) {
	repo := &competitiondb.FakeRepository{
		GetCompetitionFn: func(ctx context.Context, db bun.IDB, id uuid.UUID) (*competitiondb.Competition, error) {
			return openCompetition(id), nil
		},
		GetMatchesFn: func(ctx context.Context, db bun.IDB, cid uuid.UUID, ids []uuid.UUID) ([]competitiondb.Match, error) {
			// One of the two requested matches belongs to another competition.
			return []competitiondb.Match{{ID: ids[0], CompetitionID: cid}}, nil
		},
	}
	svc := newTestService(repo, memberRepoWithProfile(time.Date(1990, time.January, 1, 0, 0, 0, 0, time.UTC)))

	_, err := svc.Register(context.Background(), uuid.New(), RegistrationInput{
		CompetitionID: uuid.New(),
		DisciplineID:  uuid.New(),
		MatchIDs:      []uuid.UUID{uuid.New(), uuid.New()},
	})
	if !errors.Is(err, ErrUnknownMatch) {
		t.Fatalf("Register() error = %v, want ErrUnknownMatch", err)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	repo := &competitiondb.FakeRepository{
		GetCompetitionFn: func(ctx context.Context, db bun.IDB, id uuid.UUID) (*competitiondb.Competition, error) {
			return openCompetition(id), nil
		},
		CreateRegistrationFn: func(ctx context.Context, db bun.IDB, registration *competitiondb.Registration) error {
			return &storage.Error{Kind: storage.KindConflict, Constraint: "competition_registrations_member_key"}
		},
	}
	svc := newTestService(repo, memberRepoWithProfile(time.Date(1990, time.January, 1, 0, 0, 0, 0, time.UTC)))

	_, err := svc.Register(context.Background(), uuid.New(), RegistrationInput{CompetitionID: uuid.New(), DisciplineID: uuid.New()})
	if !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("Register() error = %v, want ErrAlreadyRegistered", err)
	}
}

func TestCancelRegistration(t *testing.T) {
	owner := uuid.New()
	var updated *competitiondb.Registration
	repo := &competitiondb.FakeRepository{
		GetRegistrationFn: func(ctx context.Context, db bun.IDB, id uuid.UUID) (*competitiondb.Registration, error) {
			return &competitiondb.Registration{ID: id, MemberID: owner, Status: competitiondb.RegistrationPending}, nil
		},
		UpdateRegistrationFn: func(ctx context.Context, db bun.IDB, registration *competitiondb.Registration) error {
			updated = registration
			return nil
		},
	}
	svc := newTestService(repo, &memberdb.FakeRepository{})

	t.Run("owner cancels", func(t *testing.T) {
		if err := svc.CancelRegistration(context.Background(), owner, false, uuid.New()); err != nil {
			t.Fatalf("CancelRegistration() error = %v", err)
		}
		if updated.Status != competitiondb.RegistrationCancelled {
			t.Errorf("status = %s, want cancelled", updated.Status)
		}
	})

	t.Run("stranger forbidden", func(t *testing.T) {
		err := svc.CancelRegistration(context.Background(), uuid.New(), false, uuid.New())
		if !errors.Is(err, ErrForbidden) {
			t.Fatalf("CancelRegistration() error = %v, want ErrForbidden", err)
		}
	})

	t.Run("admin cancels any", func(t *testing.T) {
		if err := svc.CancelRegistration(context.Background(), uuid.New(), true, uuid.New()); err != nil {
			t.Fatalf("CancelRegistration() error = %v", err)
		}
	})
}
