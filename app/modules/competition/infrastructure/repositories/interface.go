package competitiondb

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository is the competition module's storage surface. The db parameter
// lets callers supply a transaction; nil uses the repository's own handle.
type Repository interface {
	// Competitions
	CreateCompetition(ctx context.Context, db bun.IDB, competition *Competition) error
	GetCompetition(ctx context.Context, db bun.IDB, id uuid.UUID) (*Competition, error)
	ListCompetitions(ctx context.Context, db bun.IDB) ([]Competition, error)
	UpdateCompetition(ctx context.Context, db bun.IDB, competition *Competition) error

	// Disciplines
	CreateDiscipline(ctx context.Context, db bun.IDB, discipline *Discipline) error
	ListDisciplines(ctx context.Context, db bun.IDB) ([]Discipline, error)
	AttachDiscipline(ctx context.Context, db bun.IDB, link *CompetitionDiscipline) error
	GetCompetitionDiscipline(ctx context.Context, db bun.IDB, competitionID, disciplineID uuid.UUID) (*CompetitionDiscipline, error)

	// Matches and stages
	CreateMatch(ctx context.Context, db bun.IDB, match *Match) error
	GetMatches(ctx context.Context, db bun.IDB, competitionID uuid.UUID, ids []uuid.UUID) ([]Match, error)
	CreateStage(ctx context.Context, db bun.IDB, stage *Stage) error
	GetStage(ctx context.Context, db bun.IDB, id uuid.UUID) (*Stage, error)
	ListStages(ctx context.Context, db bun.IDB, competitionID uuid.UUID) ([]Stage, error)

	// Registrations
	CountRegistrations(ctx context.Context, db bun.IDB, competitionID uuid.UUID) (int, error)
	CountDisciplineRegistrations(ctx context.Context, db bun.IDB, competitionID, disciplineID uuid.UUID) (int, error)
	NextEntryNumber(ctx context.Context, db bun.IDB, competitionID uuid.UUID) (int, error)
	CreateRegistration(ctx context.Context, db bun.IDB, registration *Registration) error
	GetRegistration(ctx context.Context, db bun.IDB, id uuid.UUID) (*Registration, error)
	ListRegistrations(ctx context.Context, db bun.IDB, competitionID uuid.UUID) ([]Registration, error)
	ListMemberRegistrations(ctx context.Context, db bun.IDB, memberID uuid.UUID) ([]Registration, error)
	UpdateRegistration(ctx context.Context, db bun.IDB, registration *Registration) error
	CountRegistrationsPerDiscipline(ctx context.Context, db bun.IDB, competitionID uuid.UUID) (map[string]int, error)
}
