package scoredb

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// FakeRepository is a hand-written fake for service tests. Each method records
// its name and delegates to the matching Fn field when set.
type FakeRepository struct {
	trace []string

	CreateScoreFn  func(ctx context.Context, db bun.IDB, score *Score) error
	GetScoreFn     func(ctx context.Context, db bun.IDB, id uuid.UUID) (*Score, error)
	ListScoresFn   func(ctx context.Context, db bun.IDB, filter Filter) ([]Score, error)
	UpdateScoreFn  func(ctx context.Context, db bun.IDB, score *Score) error
	VerifyScoresFn func(ctx context.Context, db bun.IDB, ids []uuid.UUID, verifiedBy uuid.UUID, verifiedAt time.Time) (int64, error)

	AddHistoryFn  func(ctx context.Context, db bun.IDB, entry *ScoreStatusHistory) error
	ListHistoryFn func(ctx context.Context, db bun.IDB, scoreID uuid.UUID) ([]ScoreStatusHistory, error)

	ListExportRowsFn func(ctx context.Context, db bun.IDB, filter Filter) ([]ExportRow, error)
	CountByStatusFn  func(ctx context.Context, db bun.IDB, competitionID uuid.UUID) (map[ScoreStatus]int, error)
}

func (f *FakeRepository) Trace() []string { return f.trace }

func (f *FakeRepository) record(step string) { f.trace = append(f.trace, step) }

func (f *FakeRepository) CreateScore(ctx context.Context, db bun.IDB, score *Score) error {
	f.record("CreateScore")
	if f.CreateScoreFn != nil {
		return f.CreateScoreFn(ctx, db, score)
	}
	return nil
}

func (f *FakeRepository) GetScore(ctx context.Context, db bun.IDB, id uuid.UUID) (*Score, error) {
	f.record("GetScore")
	if f.GetScoreFn != nil {
		return f.GetScoreFn(ctx, db, id)
	}
	return &Score{ID: id}, nil
}

func (f *FakeRepository) ListScores(ctx context.Context, db bun.IDB, filter Filter) ([]Score, error) {
	f.record("ListScores")
	if f.ListScoresFn != nil {
		return f.ListScoresFn(ctx, db, filter)
	}
	return nil, nil
}

func (f *FakeRepository) UpdateScore(ctx context.Context, db bun.IDB, score *Score) error {
	f.record("UpdateScore")
	if f.UpdateScoreFn != nil {
		return f.UpdateScoreFn(ctx, db, score)
	}
	return nil
}

func (f *FakeRepository) VerifyScores(ctx context.Context, db bun.IDB, ids []uuid.UUID, verifiedBy uuid.UUID, verifiedAt time.Time) (int64, error) {
	f.record("VerifyScores")
	if f.VerifyScoresFn != nil {
		return f.VerifyScoresFn(ctx, db, ids, verifiedBy, verifiedAt)
	}
	return int64(len(ids)), nil
}

func (f *FakeRepository) AddHistory(ctx context.Context, db bun.IDB, entry *ScoreStatusHistory) error {
	f.record("AddHistory")
	if f.AddHistoryFn != nil {
		return f.AddHistoryFn(ctx, db, entry)
	}
	return nil
}

func (f *FakeRepository) ListHistory(ctx context.Context, db bun.IDB, scoreID uuid.UUID) ([]ScoreStatusHistory, error) {
	f.record("ListHistory")
	if f.ListHistoryFn != nil {
		return f.ListHistoryFn(ctx, db, scoreID)
	}
	return nil, nil
}

func (f *FakeRepository) ListExportRows(ctx context.Context, db bun.IDB, filter Filter) ([]ExportRow, error) {
	f.record("ListExportRows")
	if f.ListExportRowsFn != nil {
		return f.ListExportRowsFn(ctx, db, filter)
	}
	return nil, nil
}

func (f *FakeRepository) CountByStatus(ctx context.Context, db bun.IDB, competitionID uuid.UUID) (map[ScoreStatus]int, error) {
	f.record("CountByStatus")
	if f.CountByStatusFn != nil {
		return f.CountByStatusFn(ctx, db, competitionID)
	}
	return nil, nil
}
