package contactdb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/Protea-Shooting-Federation/psf-backend/app/shared/storage"
)

// ContactDBImpl implements Repository on bun.
type ContactDBImpl struct {
	DB *bun.DB
}

func (r *ContactDBImpl) idb(db bun.IDB) bun.IDB {
	if db != nil {
		return db
	}
	return r.DB
}

func (r *ContactDBImpl) CreateSubmission(ctx context.Context, db bun.IDB, submission *ContactSubmission) error {
	_, err := r.idb(db).NewInsert().
		Model(submission).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create contact submission: %w", storage.Classify(err))
	}
	return nil
}

func (r *ContactDBImpl) GetSubmission(ctx context.Context, db bun.IDB, id uuid.UUID) (*ContactSubmission, error) {
	submission := new(ContactSubmission)
	err := r.idb(db).NewSelect().
		Model(submission).
		Where("cs.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contact submission %s: %w", id, storage.Classify(err))
	}
	return submission, nil
}

func (r *ContactDBImpl) ListSubmissions(ctx context.Context, db bun.IDB, unreadOnly bool) ([]ContactSubmission, error) {
	var submissions []ContactSubmission
	q := r.idb(db).NewSelect().
		Model(&submissions).
		Order("cs.created_at DESC")
	if unreadOnly {
		q = q.Where("cs.unread = TRUE")
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list contact submissions: %w", storage.Classify(err))
	}
	return submissions, nil
}

func (r *ContactDBImpl) MarkRead(ctx context.Context, db bun.IDB, id uuid.UUID) error {
	res, err := r.idb(db).NewUpdate().
		Model((*ContactSubmission)(nil)).
		Set("unread = FALSE").
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to mark contact submission read: %w", storage.Classify(err))
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return fmt.Errorf("contact submission %s not found: %w", id, storage.Classify(sql.ErrNoRows))
	}
	return nil
}
