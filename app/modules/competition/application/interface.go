package competitionservice

import (
	"context"

	"github.com/google/uuid"

	competitiondomain "github.com/Protea-Shooting-Federation/psf-backend/app/modules/competition/domain"
	competitiondb "github.com/Protea-Shooting-Federation/psf-backend/app/modules/competition/infrastructure/repositories"
)

// CompetitionView is a competition together with its derived registration
// status and current registration count.
type CompetitionView struct {
	*competitiondb.Competition
	Status     competitiondomain.Status `json:"status"`
	Registered int                      `json:"registered"`
}

// RegistrationInput is a member's registration request.
type RegistrationInput struct {
	CompetitionID uuid.UUID   `json:"competition_id"`
	DisciplineID  uuid.UUID   `json:"discipline_id"`
	MatchIDs      []uuid.UUID `json:"match_ids,omitempty"`
}

// Service is the competition module's application surface.
type Service interface {
	// Admin CRUD
	CreateCompetition(ctx context.Context, competition *competitiondb.Competition) (*competitiondb.Competition, error)
	UpdateCompetition(ctx context.Context, competition *competitiondb.Competition) (*competitiondb.Competition, error)
	CreateDiscipline(ctx context.Context, name string) (*competitiondb.Discipline, error)
	AttachDiscipline(ctx context.Context, link *competitiondb.CompetitionDiscipline) (*competitiondb.CompetitionDiscipline, error)
	CreateMatch(ctx context.Context, match *competitiondb.Match) (*competitiondb.Match, error)
	CreateStage(ctx context.Context, stage *competitiondb.Stage) (*competitiondb.Stage, error)

	// Reads
	GetCompetition(ctx context.Context, id uuid.UUID) (*CompetitionView, error)
	ListCompetitions(ctx context.Context) ([]CompetitionView, error)
	ListDisciplines(ctx context.Context) ([]competitiondb.Discipline, error)
	ListStages(ctx context.Context, competitionID uuid.UUID) ([]competitiondb.Stage, error)

	// Registration
	Register(ctx context.Context, memberID uuid.UUID, input RegistrationInput) (*competitiondb.Registration, error)
	CancelRegistration(ctx context.Context, actor uuid.UUID, actorIsAdmin bool, registrationID uuid.UUID) error
	ListRegistrations(ctx context.Context, competitionID uuid.UUID) ([]competitiondb.Registration, error)
	ListMemberRegistrations(ctx context.Context, memberID uuid.UUID) ([]competitiondb.Registration, error)

	// Reporting
	RegistrationsPerDiscipline(ctx context.Context, competitionID uuid.UUID) (map[string]int, error)
}
