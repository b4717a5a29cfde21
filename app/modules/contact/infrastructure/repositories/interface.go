package contactdb

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository defines storage operations for contact submissions.
type Repository interface {
	CreateSubmission(ctx context.Context, db bun.IDB, submission *ContactSubmission) error
	GetSubmission(ctx context.Context, db bun.IDB, id uuid.UUID) (*ContactSubmission, error)
	ListSubmissions(ctx context.Context, db bun.IDB, unreadOnly bool) ([]ContactSubmission, error)
	MarkRead(ctx context.Context, db bun.IDB, id uuid.UUID) error
}
