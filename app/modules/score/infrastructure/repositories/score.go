package scoredb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/Protea-Shooting-Federation/psf-backend/app/shared/storage"
)

// ScoreDBImpl implements Repository on bun.
type ScoreDBImpl struct {
	DB *bun.DB
}

func (r *ScoreDBImpl) idb(db bun.IDB) bun.IDB {
	if db != nil {
		return db
	}
	return r.DB
}

func (r *ScoreDBImpl) CreateScore(ctx context.Context, db bun.IDB, score *Score) error {
	_, err := r.idb(db).NewInsert().
		Model(score).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create score: %w", storage.Classify(err))
	}
	return nil
}

func (r *ScoreDBImpl) GetScore(ctx context.Context, db bun.IDB, id uuid.UUID) (*Score, error) {
	score := new(Score)
	err := r.idb(db).NewSelect().
		Model(score).
		Where("s.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch score %s: %w", id, storage.Classify(err))
	}
	return score, nil
}

// applyFilter narrows a score query. The status filter works on the stored
// columns that back the derived state.
func applyFilter(q *bun.SelectQuery, filter Filter) *bun.SelectQuery {
	if filter.CompetitionID != uuid.Nil {
		q = q.Where("cr.competition_id = ?", filter.CompetitionID)
	}
	if filter.StageID != uuid.Nil {
		q = q.Where("s.stage_id = ?", filter.StageID)
	}
	if len(filter.IDs) > 0 {
		q = q.Where("s.id IN (?)", bun.In(filter.IDs))
	}
	switch filter.Status {
	case ScorePending:
		q = q.Where("s.verified_at IS NULL AND s.rejection_reason IS NULL")
	case ScoreVerified:
		q = q.Where("s.verified_at IS NOT NULL AND s.verified_by IS NOT NULL")
	case ScoreRejected:
		q = q.Where("s.verified_at IS NULL AND s.rejection_reason IS NOT NULL")
	}
	return q
}

func (r *ScoreDBImpl) ListScores(ctx context.Context, db bun.IDB, filter Filter) ([]Score, error) {
	var scores []Score
	q := r.idb(db).NewSelect().
		Model(&scores).
		Join("JOIN competition_registrations AS cr ON cr.id = s.registration_id").
		Order("s.submitted_at ASC")
	err := applyFilter(q, filter).Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list scores: %w", storage.Classify(err))
	}
	return scores, nil
}

func (r *ScoreDBImpl) UpdateScore(ctx context.Context, db bun.IDB, score *Score) error {
	score.UpdatedAt = time.Now()
	res, err := r.idb(db).NewUpdate().
		Model(score).
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update score %s: %w", score.ID, storage.Classify(err))
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return fmt.Errorf("score %s not found for update: %w", score.ID, storage.Classify(sql.ErrNoRows))
	}
	return nil
}

// VerifyScores stamps every selected score in one UPDATE. All-or-nothing at
// the storage layer; all rows get the same verified_by and verified_at.
func (r *ScoreDBImpl) VerifyScores(ctx context.Context, db bun.IDB, ids []uuid.UUID, verifiedBy uuid.UUID, verifiedAt time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := r.idb(db).NewUpdate().
		Model((*Score)(nil)).
		Set("verified_at = ?", verifiedAt).
		Set("verified_by = ?", verifiedBy).
		Set("rejection_reason = NULL").
		Set("updated_at = ?", verifiedAt).
		Where("id IN (?)", bun.In(ids)).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to verify scores: %w", storage.Classify(err))
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read verify result: %w", err)
	}
	return rows, nil
}

func (r *ScoreDBImpl) AddHistory(ctx context.Context, db bun.IDB, entry *ScoreStatusHistory) error {
	_, err := r.idb(db).NewInsert().
		Model(entry).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to record score history: %w", storage.Classify(err))
	}
	return nil
}

func (r *ScoreDBImpl) ListHistory(ctx context.Context, db bun.IDB, scoreID uuid.UUID) ([]ScoreStatusHistory, error) {
	var entries []ScoreStatusHistory
	err := r.idb(db).NewSelect().
		Model(&entries).
		Where("ssh.score_id = ?", scoreID).
		Order("ssh.created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list score history: %w", storage.Classify(err))
	}
	return entries, nil
}

// ListExportRows returns the flattened export projection.
func (r *ScoreDBImpl) ListExportRows(ctx context.Context, db bun.IDB, filter Filter) ([]ExportRow, error) {
	var rows []ExportRow
	q := r.idb(db).NewSelect().
		Model((*Score)(nil)).
		ColumnExpr("cr.entry_number AS entry_number").
		ColumnExpr("mp.first_name AS first_name").
		ColumnExpr("mp.last_name AS last_name").
		ColumnExpr("mp.member_number AS member_number").
		ColumnExpr("c.name AS competition").
		ColumnExpr("d.name AS discipline").
		ColumnExpr("st.name AS stage").
		ColumnExpr("s.score AS score").
		ColumnExpr("s.x_count AS x_count").
		ColumnExpr("s.v_count AS v_count").
		ColumnExpr("s.dnf AS dnf").
		ColumnExpr("s.dq AS dq").
		ColumnExpr("s.rejection_reason AS rejection_reason").
		ColumnExpr("s.submitted_at AS submitted_at").
		ColumnExpr("s.verified_at AS verified_at").
		ColumnExpr("s.verified_by AS verified_by").
		ColumnExpr("s.notes AS notes").
		Join("JOIN competition_registrations AS cr ON cr.id = s.registration_id").
		Join("JOIN member_profiles AS mp ON mp.id = cr.member_id").
		Join("JOIN competitions AS c ON c.id = cr.competition_id").
		Join("JOIN disciplines AS d ON d.id = cr.discipline_id").
		Join("JOIN stages AS st ON st.id = s.stage_id").
		Order("cr.entry_number ASC", "st.name ASC", "s.submitted_at ASC")
	err := applyFilter(q, filter).Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to list export rows: %w", storage.Classify(err))
	}
	return rows, nil
}

// CountByStatus aggregates a competition's scores by derived status.
func (r *ScoreDBImpl) CountByStatus(ctx context.Context, db bun.IDB, competitionID uuid.UUID) (map[ScoreStatus]int, error) {
	var rows []struct {
		Status string `bun:"status"`
		Count  int    `bun:"count"`
	}
	err := r.idb(db).NewSelect().
		Model((*Score)(nil)).
		ColumnExpr(`CASE
			WHEN s.verified_at IS NOT NULL AND s.verified_by IS NOT NULL THEN 'verified'
			WHEN s.rejection_reason IS NOT NULL THEN 'rejected'
			ELSE 'pending'
		END AS status`).
		ColumnExpr("COUNT(*) AS count").
		Join("JOIN competition_registrations AS cr ON cr.id = s.registration_id").
		Where("cr.competition_id = ?", competitionID).
		GroupExpr("1").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to count scores by status: %w", storage.Classify(err))
	}

	counts := make(map[ScoreStatus]int, len(rows))
	for _, row := range rows {
		counts[ScoreStatus(row.Status)] = row.Count
	}
	return counts, nil
}
