package scoredb

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository is the score module's storage surface. The db parameter lets
// callers supply a transaction; nil uses the repository's own handle.
type Repository interface {
	CreateScore(ctx context.Context, db bun.IDB, score *Score) error
	GetScore(ctx context.Context, db bun.IDB, id uuid.UUID) (*Score, error)
	ListScores(ctx context.Context, db bun.IDB, filter Filter) ([]Score, error)
	UpdateScore(ctx context.Context, db bun.IDB, score *Score) error

	// VerifyScores stamps all given ids in one UPDATE and returns the number
	// of rows touched.
	VerifyScores(ctx context.Context, db bun.IDB, ids []uuid.UUID, verifiedBy uuid.UUID, verifiedAt time.Time) (int64, error)

	AddHistory(ctx context.Context, db bun.IDB, entry *ScoreStatusHistory) error
	ListHistory(ctx context.Context, db bun.IDB, scoreID uuid.UUID) ([]ScoreStatusHistory, error)

	ListExportRows(ctx context.Context, db bun.IDB, filter Filter) ([]ExportRow, error)
	CountByStatus(ctx context.Context, db bun.IDB, competitionID uuid.UUID) (map[ScoreStatus]int, error)
}
