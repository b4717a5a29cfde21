package competitiondb

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// FakeRepository is a hand-written fake for service tests. Each method records
// its name and delegates to the matching Fn field when set.
type FakeRepository struct {
	trace []string

	CreateCompetitionFn func(ctx context.Context, db bun.IDB, competition *Competition) error
	GetCompetitionFn    func(ctx context.Context, db bun.IDB, id uuid.UUID) (*Competition, error)
	ListCompetitionsFn  func(ctx context.Context, db bun.IDB) ([]Competition, error)
	UpdateCompetitionFn func(ctx context.Context, db bun.IDB, competition *Competition) error

	CreateDisciplineFn         func(ctx context.Context, db bun.IDB, discipline *Discipline) error
	ListDisciplinesFn          func(ctx context.Context, db bun.IDB) ([]Discipline, error)
	AttachDisciplineFn         func(ctx context.Context, db bun.IDB, link *CompetitionDiscipline) error
	GetCompetitionDisciplineFn func(ctx context.Context, db bun.IDB, competitionID, disciplineID uuid.UUID) (*CompetitionDiscipline, error)

	CreateMatchFn func(ctx context.Context, db bun.IDB, match *Match) error
	GetMatchesFn  func(ctx context.Context, db bun.IDB, competitionID uuid.UUID, ids []uuid.UUID) ([]Match, error)
	CreateStageFn func(ctx context.Context, db bun.IDB, stage *Stage) error
	GetStageFn    func(ctx context.Context, db bun.IDB, id uuid.UUID) (*Stage, error)
	ListStagesFn  func(ctx context.Context, db bun.IDB, competitionID uuid.UUID) ([]Stage, error)

	CountRegistrationsFn              func(ctx context.Context, db bun.IDB, competitionID uuid.UUID) (int, error)
	CountDisciplineRegistrationsFn    func(ctx context.Context, db bun.IDB, competitionID, disciplineID uuid.UUID) (int, error)
	NextEntryNumberFn                 func(ctx context.Context, db bun.IDB, competitionID uuid.UUID) (int, error)
	CreateRegistrationFn              func(ctx context.Context, db bun.IDB, registration *Registration) error
	GetRegistrationFn                 func(ctx context.Context, db bun.IDB, id uuid.UUID) (*Registration, error)
	ListRegistrationsFn               func(ctx context.Context, db bun.IDB, competitionID uuid.UUID) ([]Registration, error)
	ListMemberRegistrationsFn         func(ctx context.Context, db bun.IDB, memberID uuid.UUID) ([]Registration, error)
	UpdateRegistrationFn              func(ctx context.Context, db bun.IDB, registration *Registration) error
	CountRegistrationsPerDisciplineFn func(ctx context.Context, db bun.IDB, competitionID uuid.UUID) (map[string]int, error)
}

func (f *FakeRepository) Trace() []string { return f.trace }

func (f *FakeRepository) record(step string) { f.trace = append(f.trace, step) }

func (f *FakeRepository) CreateCompetition(ctx context.Context, db bun.IDB, competition *Competition) error {
	f.record("CreateCompetition")
	if f.CreateCompetitionFn != nil {
		return f.CreateCompetitionFn(ctx, db, competition)
	}
	return nil
}

func (f *FakeRepository) GetCompetition(ctx context.Context, db bun.IDB, id uuid.UUID) (*Competition, error) {
	f.record("GetCompetition")
	if f.GetCompetitionFn != nil {
		return f.GetCompetitionFn(ctx, db, id)
	}
	return &Competition{ID: id}, nil
}

func (f *FakeRepository) ListCompetitions(ctx context.Context, db bun.IDB) ([]Competition, error) {
	f.record("ListCompetitions")
	if f.ListCompetitionsFn != nil {
		return f.ListCompetitionsFn(ctx, db)
	}
	return nil, nil
}

func (f *FakeRepository) UpdateCompetition(ctx context.Context, db bun.IDB, competition *Competition) error {
	f.record("UpdateCompetition")
	if f.UpdateCompetitionFn != nil {
		return f.UpdateCompetitionFn(ctx, db, competition)
	}
	return nil
}

func (f *FakeRepository) CreateDiscipline(ctx context.Context, db bun.IDB, discipline *Discipline) error {
	f.record("CreateDiscipline")
	if f.CreateDisciplineFn != nil {
		return f.CreateDisciplineFn(ctx, db, discipline)
	}
	return nil
}

func (f *FakeRepository) ListDisciplines(ctx context.Context, db bun.IDB) ([]Discipline, error) {
	f.record("ListDisciplines")
	if f.ListDisciplinesFn != nil {
		return f.ListDisciplinesFn(ctx, db)
	}
	return nil, nil
}

func (f *FakeRepository) AttachDiscipline(ctx context.Context, db bun.IDB, link *CompetitionDiscipline) error {
	f.record("AttachDiscipline")
	if f.AttachDisciplineFn != nil {
		return f.AttachDisciplineFn(ctx, db, link)
	}
	return nil
}

func (f *FakeRepository) GetCompetitionDiscipline(ctx context.Context, db bun.IDB, competitionID, disciplineID uuid.UUID) (*CompetitionDiscipline, error) {
	f.record("GetCompetitionDiscipline")
	if f.GetCompetitionDisciplineFn != nil {
		return f.GetCompetitionDisciplineFn(ctx, db, competitionID, disciplineID)
	}
	return &CompetitionDiscipline{CompetitionID: competitionID, DisciplineID: disciplineID}, nil
}

func (f *FakeRepository) CreateMatch(ctx context.Context, db bun.IDB, match *Match) error {
	f.record("CreateMatch")
	if f.CreateMatchFn != nil {
		return f.CreateMatchFn(ctx, db, match)
	}
	return nil
}

func (f *FakeRepository) GetMatches(ctx context.Context, db bun.IDB, competitionID uuid.UUID, ids []uuid.UUID) ([]Match, error) {
	f.record("GetMatches")
	if f.GetMatchesFn != nil {
		return f.GetMatchesFn(ctx, db, competitionID, ids)
	}
	return nil, nil
}

func (f *FakeRepository) CreateStage(ctx context.Context, db bun.IDB, stage *Stage) error {
	f.record("CreateStage")
	if f.CreateStageFn != nil {
		return f.CreateStageFn(ctx, db, stage)
	}
	return nil
}

func (f *FakeRepository) GetStage(ctx context.Context, db bun.IDB, id uuid.UUID) (*Stage, error) {
	f.record("GetStage")
	if f.GetStageFn != nil {
		return f.GetStageFn(ctx, db, id)
	}
	return &Stage{ID: id}, nil
}

func (f *FakeRepository) ListStages(ctx context.Context, db bun.IDB, competitionID uuid.UUID) ([]Stage, error) {
	f.record("ListStages")
	if f.ListStagesFn != nil {
		return f.ListStagesFn(ctx, db, competitionID)
	}
	return nil, nil
}

func (f *FakeRepository) CountRegistrations(ctx context.Context, db bun.IDB, competitionID uuid.UUID) (int, error) {
	f.record("CountRegistrations")
	if f.CountRegistrationsFn != nil {
		return f.CountRegistrationsFn(ctx, db, competitionID)
	}
	return 0, nil
}

func (f *FakeRepository) CountDisciplineRegistrations(ctx context.Context, db bun.IDB, competitionID, disciplineID uuid.UUID) (int, error) {
	f.record("CountDisciplineRegistrations")
	if f.CountDisciplineRegistrationsFn != nil {
		return f.CountDisciplineRegistrationsFn(ctx, db, competitionID, disciplineID)
	}
	return 0, nil
}

func (f *FakeRepository) NextEntryNumber(ctx context.Context, db bun.IDB, competitionID uuid.UUID) (int, error) {
	f.record("NextEntryNumber")
	if f.NextEntryNumberFn != nil {
		return f.NextEntryNumberFn(ctx, db, competitionID)
	}
	return 1, nil
}

func (f *FakeRepository) CreateRegistration(ctx context.Context, db bun.IDB, registration *Registration) error {
	f.record("CreateRegistration")
	if f.CreateRegistrationFn != nil {
		return f.CreateRegistrationFn(ctx, db, registration)
	}
	return nil
}

func (f *FakeRepository) GetRegistration(ctx context.Context, db bun.IDB, id uuid.UUID) (*Registration, error) {
	f.record("GetRegistration")
	if f.GetRegistrationFn != nil {
		return f.GetRegistrationFn(ctx, db, id)
	}
	return &Registration{ID: id}, nil
}

func (f *FakeRepository) ListRegistrations(ctx context.Context, db bun.IDB, competitionID uuid.UUID) ([]Registration, error) {
	f.record("ListRegistrations")
	if f.ListRegistrationsFn != nil {
		return f.ListRegistrationsFn(ctx, db, competitionID)
	}
	return nil, nil
}

func (f *FakeRepository) ListMemberRegistrations(ctx context.Context, db bun.IDB, memberID uuid.UUID) ([]Registration, error) {
	f.record("ListMemberRegistrations")
	if f.ListMemberRegistrationsFn != nil {
		return f.ListMemberRegistrationsFn(ctx, db, memberID)
	}
	return nil, nil
}

func (f *FakeRepository) UpdateRegistration(ctx context.Context, db bun.IDB, registration *Registration) error {
	f.record("UpdateRegistration")
	if f.UpdateRegistrationFn != nil {
		return f.UpdateRegistrationFn(ctx, db, registration)
	}
	return nil
}

func (f *FakeRepository) CountRegistrationsPerDiscipline(ctx context.Context, db bun.IDB, competitionID uuid.UUID) (map[string]int, error) {
	f.record("CountRegistrationsPerDiscipline")
	if f.CountRegistrationsPerDisciplineFn != nil {
		return f.CountRegistrationsPerDisciplineFn(ctx, db, competitionID)
	}
	return nil, nil
}
