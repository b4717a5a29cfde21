package competitionservice

import (
	"context"

	"github.com/google/uuid"

	competitiondb "github.com/Protea-Shooting-Federation/psf-backend/app/modules/competition/infrastructure/repositories"
)

// CreateCompetition stores a new competition.
func (s *CompetitionService) CreateCompetition(ctx context.Context, competition *competitiondb.Competition) (*competitiondb.Competition, error) {
	return withTelemetry(s, ctx, "CreateCompetition", func(ctx context.Context) (*competitiondb.Competition, error) {
		if competition.ID == uuid.Nil {
			competition.ID = uuid.New()
		}
		if err := s.repo.CreateCompetition(ctx, nil, competition); err != nil {
			return nil, err
		}
		return competition, nil
	})
}

// UpdateCompetition mutates an existing competition's event and window fields.
func (s *CompetitionService) UpdateCompetition(ctx context.Context, competition *competitiondb.Competition) (*competitiondb.Competition, error) {
	return withTelemetry(s, ctx, "UpdateCompetition", func(ctx context.Context) (*competitiondb.Competition, error) {
		current, err := s.repo.GetCompetition(ctx, nil, competition.ID)
		if err != nil {
			return nil, err
		}
		competition.CreatedAt = current.CreatedAt

		if err := s.repo.UpdateCompetition(ctx, nil, competition); err != nil {
			return nil, err
		}
		return competition, nil
	})
}

// CreateDiscipline stores a new discipline.
func (s *CompetitionService) CreateDiscipline(ctx context.Context, name string) (*competitiondb.Discipline, error) {
	return withTelemetry(s, ctx, "CreateDiscipline", func(ctx context.Context) (*competitiondb.Discipline, error) {
		discipline := &competitiondb.Discipline{
			ID:   uuid.New(),
			Name: name,
		}
		if err := s.repo.CreateDiscipline(ctx, nil, discipline); err != nil {
			return nil, err
		}
		return discipline, nil
	})
}

// AttachDiscipline links a discipline to a competition with its fee tier.
func (s *CompetitionService) AttachDiscipline(ctx context.Context, link *competitiondb.CompetitionDiscipline) (*competitiondb.CompetitionDiscipline, error) {
	return withTelemetry(s, ctx, "AttachDiscipline", func(ctx context.Context) (*competitiondb.CompetitionDiscipline, error) {
		if link.ID == uuid.Nil {
			link.ID = uuid.New()
		}
		if err := s.repo.AttachDiscipline(ctx, nil, link); err != nil {
			return nil, err
		}
		return link, nil
	})
}

// CreateMatch stores a new match under a competition.
func (s *CompetitionService) CreateMatch(ctx context.Context, match *competitiondb.Match) (*competitiondb.Match, error) {
	return withTelemetry(s, ctx, "CreateMatch", func(ctx context.Context) (*competitiondb.Match, error) {
		if match.ID == uuid.Nil {
			match.ID = uuid.New()
		}
		if err := s.repo.CreateMatch(ctx, nil, match); err != nil {
			return nil, err
		}
		return match, nil
	})
}

// CreateStage stores a new stage. Stages are immutable after creation; there
// is no update path.
func (s *CompetitionService) CreateStage(ctx context.Context, stage *competitiondb.Stage) (*competitiondb.Stage, error) {
	return withTelemetry(s, ctx, "CreateStage", func(ctx context.Context) (*competitiondb.Stage, error) {
		if stage.ID == uuid.Nil {
			stage.ID = uuid.New()
		}
		if err := s.repo.CreateStage(ctx, nil, stage); err != nil {
			return nil, err
		}
		return stage, nil
	})
}

// GetCompetition returns a competition with its derived status.
func (s *CompetitionService) GetCompetition(ctx context.Context, id uuid.UUID) (*CompetitionView, error) {
	return withTelemetry(s, ctx, "GetCompetition", func(ctx context.Context) (*CompetitionView, error) {
		competition, err := s.repo.GetCompetition(ctx, nil, id)
		if err != nil {
			return nil, err
		}
		registered, err := s.repo.CountRegistrations(ctx, nil, id)
		if err != nil {
			return nil, err
		}
		return &CompetitionView{
			Competition: competition,
			Status:      competition.Window(registered).StatusAt(s.now()),
			Registered:  registered,
		}, nil
	})
}

// ListCompetitions returns all competitions with derived statuses.
func (s *CompetitionService) ListCompetitions(ctx context.Context) ([]CompetitionView, error) {
	return withTelemetry(s, ctx, "ListCompetitions", func(ctx context.Context) ([]CompetitionView, error) {
		competitions, err := s.repo.ListCompetitions(ctx, nil)
		if err != nil {
			return nil, err
		}

		now := s.now()
		views := make([]CompetitionView, 0, len(competitions))
		for i := range competitions {
			competition := competitions[i]
			registered, err := s.repo.CountRegistrations(ctx, nil, competition.ID)
			if err != nil {
				return nil, err
			}
			views = append(views, CompetitionView{
				Competition: &competition,
				Status:      competition.Window(registered).StatusAt(now),
				Registered:  registered,
			})
		}
		return views, nil
	})
}

// ListDisciplines returns all disciplines.
func (s *CompetitionService) ListDisciplines(ctx context.Context) ([]competitiondb.Discipline, error) {
	return withTelemetry(s, ctx, "ListDisciplines", func(ctx context.Context) ([]competitiondb.Discipline, error) {
		return s.repo.ListDisciplines(ctx, nil)
	})
}

// ListStages returns a competition's stages.
func (s *CompetitionService) ListStages(ctx context.Context, competitionID uuid.UUID) ([]competitiondb.Stage, error) {
	return withTelemetry(s, ctx, "ListStages", func(ctx context.Context) ([]competitiondb.Stage, error) {
		return s.repo.ListStages(ctx, nil, competitionID)
	})
}

// RegistrationsPerDiscipline aggregates active registrations by discipline.
func (s *CompetitionService) RegistrationsPerDiscipline(ctx context.Context, competitionID uuid.UUID) (map[string]int, error) {
	return withTelemetry(s, ctx, "RegistrationsPerDiscipline", func(ctx context.Context) (map[string]int, error) {
		return s.repo.CountRegistrationsPerDiscipline(ctx, nil, competitionID)
	})
}
