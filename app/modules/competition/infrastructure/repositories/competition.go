package competitiondb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/Protea-Shooting-Federation/psf-backend/app/shared/storage"
)

// CompetitionDBImpl implements Repository on bun.
type CompetitionDBImpl struct {
	DB *bun.DB
}

func (r *CompetitionDBImpl) idb(db bun.IDB) bun.IDB {
	if db != nil {
		return db
	}
	return r.DB
}

// --- Competitions ---

func (r *CompetitionDBImpl) CreateCompetition(ctx context.Context, db bun.IDB, competition *Competition) error {
	_, err := r.idb(db).NewInsert().
		Model(competition).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create competition: %w", storage.Classify(err))
	}
	return nil
}

func (r *CompetitionDBImpl) GetCompetition(ctx context.Context, db bun.IDB, id uuid.UUID) (*Competition, error) {
	competition := new(Competition)
	err := r.idb(db).NewSelect().
		Model(competition).
		Relation("Disciplines").
		Relation("Disciplines.Discipline").
		Relation("Matches").
		Relation("Stages").
		Where("c.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch competition %s: %w", id, storage.Classify(err))
	}
	return competition, nil
}

func (r *CompetitionDBImpl) ListCompetitions(ctx context.Context, db bun.IDB) ([]Competition, error) {
	var competitions []Competition
	err := r.idb(db).NewSelect().
		Model(&competitions).
		Order("c.starts_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list competitions: %w", storage.Classify(err))
	}
	return competitions, nil
}

func (r *CompetitionDBImpl) UpdateCompetition(ctx context.Context, db bun.IDB, competition *Competition) error {
	competition.UpdatedAt = time.Now()
	res, err := r.idb(db).NewUpdate().
		Model(competition).
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update competition %s: %w", competition.ID, storage.Classify(err))
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return fmt.Errorf("competition %s not found for update: %w", competition.ID, storage.Classify(sql.ErrNoRows))
	}
	return nil
}

// --- Disciplines ---

func (r *CompetitionDBImpl) CreateDiscipline(ctx context.Context, db bun.IDB, discipline *Discipline) error {
	_, err := r.idb(db).NewInsert().
		Model(discipline).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create discipline: %w", storage.Classify(err))
	}
	return nil
}

func (r *CompetitionDBImpl) ListDisciplines(ctx context.Context, db bun.IDB) ([]Discipline, error) {
	var disciplines []Discipline
	err := r.idb(db).NewSelect().
		Model(&disciplines).
		Order("d.name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list disciplines: %w", storage.Classify(err))
	}
	return disciplines, nil
}

func (r *CompetitionDBImpl) AttachDiscipline(ctx context.Context, db bun.IDB, link *CompetitionDiscipline) error {
	_, err := r.idb(db).NewInsert().
		Model(link).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to attach discipline: %w", storage.Classify(err))
	}
	return nil
}

func (r *CompetitionDBImpl) GetCompetitionDiscipline(ctx context.Context, db bun.IDB, competitionID, disciplineID uuid.UUID) (*CompetitionDiscipline, error) {
	link := new(CompetitionDiscipline)
	err := r.idb(db).NewSelect().
		Model(link).
		Relation("Discipline").
		Where("cd.competition_id = ? AND cd.discipline_id = ?", competitionID, disciplineID).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch competition discipline: %w", storage.Classify(err))
	}
	return link, nil
}

// --- Matches and stages ---

func (r *CompetitionDBImpl) CreateMatch(ctx context.Context, db bun.IDB, match *Match) error {
	_, err := r.idb(db).NewInsert().
		Model(match).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create match: %w", storage.Classify(err))
	}
	return nil
}

// GetMatches returns the named matches, restricted to one competition so a
// registration cannot pick up another event's matches.
func (r *CompetitionDBImpl) GetMatches(ctx context.Context, db bun.IDB, competitionID uuid.UUID, ids []uuid.UUID) ([]Match, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var matches []Match
	err := r.idb(db).NewSelect().
		Model(&matches).
		Where("m.competition_id = ?", competitionID).
		Where("m.id IN (?)", bun.In(ids)).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch matches: %w", storage.Classify(err))
	}
	return matches, nil
}

func (r *CompetitionDBImpl) CreateStage(ctx context.Context, db bun.IDB, stage *Stage) error {
	_, err := r.idb(db).NewInsert().
		Model(stage).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create stage: %w", storage.Classify(err))
	}
	return nil
}

func (r *CompetitionDBImpl) GetStage(ctx context.Context, db bun.IDB, id uuid.UUID) (*Stage, error) {
	stage := new(Stage)
	err := r.idb(db).NewSelect().
		Model(stage).
		Where("st.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch stage %s: %w", id, storage.Classify(err))
	}
	return stage, nil
}

func (r *CompetitionDBImpl) ListStages(ctx context.Context, db bun.IDB, competitionID uuid.UUID) ([]Stage, error) {
	var stages []Stage
	err := r.idb(db).NewSelect().
		Model(&stages).
		Where("st.competition_id = ?", competitionID).
		Order("st.created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list stages: %w", storage.Classify(err))
	}
	return stages, nil
}

// --- Registrations ---

func (r *CompetitionDBImpl) CountRegistrations(ctx context.Context, db bun.IDB, competitionID uuid.UUID) (int, error) {
	count, err := r.idb(db).NewSelect().
		Model((*Registration)(nil)).
		Where("competition_id = ? AND status != ?", competitionID, RegistrationCancelled).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count registrations: %w", storage.Classify(err))
	}
	return count, nil
}

func (r *CompetitionDBImpl) CountDisciplineRegistrations(ctx context.Context, db bun.IDB, competitionID, disciplineID uuid.UUID) (int, error) {
	count, err := r.idb(db).NewSelect().
		Model((*Registration)(nil)).
		Where("competition_id = ? AND discipline_id = ? AND status != ?", competitionID, disciplineID, RegistrationCancelled).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count discipline registrations: %w", storage.Classify(err))
	}
	return count, nil
}

// NextEntryNumber allocates the next entry number for a competition. Callers
// run this inside the registration transaction so concurrent registrations
// serialize on the insert.
func (r *CompetitionDBImpl) NextEntryNumber(ctx context.Context, db bun.IDB, competitionID uuid.UUID) (int, error) {
	var next int
	err := r.idb(db).NewSelect().
		Model((*Registration)(nil)).
		ColumnExpr("COALESCE(MAX(entry_number), 0) + 1").
		Where("competition_id = ?", competitionID).
		Scan(ctx, &next)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate entry number: %w", storage.Classify(err))
	}
	return next, nil
}

func (r *CompetitionDBImpl) CreateRegistration(ctx context.Context, db bun.IDB, registration *Registration) error {
	_, err := r.idb(db).NewInsert().
		Model(registration).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create registration: %w", storage.Classify(err))
	}
	return nil
}

func (r *CompetitionDBImpl) GetRegistration(ctx context.Context, db bun.IDB, id uuid.UUID) (*Registration, error) {
	registration := new(Registration)
	err := r.idb(db).NewSelect().
		Model(registration).
		Where("cr.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch registration %s: %w", id, storage.Classify(err))
	}
	return registration, nil
}

func (r *CompetitionDBImpl) ListRegistrations(ctx context.Context, db bun.IDB, competitionID uuid.UUID) ([]Registration, error) {
	var registrations []Registration
	err := r.idb(db).NewSelect().
		Model(&registrations).
		Where("cr.competition_id = ?", competitionID).
		Order("cr.entry_number ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", storage.Classify(err))
	}
	return registrations, nil
}

func (r *CompetitionDBImpl) ListMemberRegistrations(ctx context.Context, db bun.IDB, memberID uuid.UUID) ([]Registration, error) {
	var registrations []Registration
	err := r.idb(db).NewSelect().
		Model(&registrations).
		Where("cr.member_id = ?", memberID).
		Order("cr.created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list member registrations: %w", storage.Classify(err))
	}
	return registrations, nil
}

func (r *CompetitionDBImpl) UpdateRegistration(ctx context.Context, db bun.IDB, registration *Registration) error {
	registration.UpdatedAt = time.Now()
	res, err := r.idb(db).NewUpdate().
		Model(registration).
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update registration %s: %w", registration.ID, storage.Classify(err))
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return fmt.Errorf("registration %s not found for update: %w", registration.ID, storage.Classify(sql.ErrNoRows))
	}
	return nil
}

// CountRegistrationsPerDiscipline aggregates active registrations by
// discipline name, for the admin report.
func (r *CompetitionDBImpl) CountRegistrationsPerDiscipline(ctx context.Context, db bun.IDB, competitionID uuid.UUID) (map[string]int, error) {
	var rows []struct {
		Name  string `bun:"name"`
		Count int    `bun:"count"`
	}
	err := r.idb(db).NewSelect().
		Model((*Registration)(nil)).
		ColumnExpr("d.name AS name").
		ColumnExpr("COUNT(*) AS count").
		Join("JOIN disciplines AS d ON d.id = cr.discipline_id").
		Where("cr.competition_id = ? AND cr.status != ?", competitionID, RegistrationCancelled).
		GroupExpr("d.name").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate registrations: %w", storage.Classify(err))
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Name] = row.Count
	}
	return counts, nil
}
