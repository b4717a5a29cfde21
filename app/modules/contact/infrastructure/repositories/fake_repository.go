package contactdb

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// FakeRepository is a hand-written fake for service tests. Each method records
// its name and delegates to the matching Fn field when set.
type FakeRepository struct {
	trace []string

	CreateSubmissionFn func(ctx context.Context, db bun.IDB, submission *ContactSubmission) error
	GetSubmissionFn    func(ctx context.Context, db bun.IDB, id uuid.UUID) (*ContactSubmission, error)
	ListSubmissionsFn  func(ctx context.Context, db bun.IDB, unreadOnly bool) ([]ContactSubmission, error)
	MarkReadFn         func(ctx context.Context, db bun.IDB, id uuid.UUID) error
}

func (f *FakeRepository) Trace() []string { return f.trace }

func (f *FakeRepository) record(step string) { f.trace = append(f.trace, step) }

func (f *FakeRepository) CreateSubmission(ctx context.Context, db bun.IDB, submission *ContactSubmission) error {
	f.record("CreateSubmission")
	if f.CreateSubmissionFn != nil {
		return f.CreateSubmissionFn(ctx, db, submission)
	}
	return nil
}

func (f *FakeRepository) GetSubmission(ctx context.Context, db bun.IDB, id uuid.UUID) (*ContactSubmission, error) {
	f.record("GetSubmission")
	if f.GetSubmissionFn != nil {
		return f.GetSubmissionFn(ctx, db, id)
	}
	return &ContactSubmission{ID: id}, nil
}

func (f *FakeRepository) ListSubmissions(ctx context.Context, db bun.IDB, unreadOnly bool) ([]ContactSubmission, error) {
	f.record("ListSubmissions")
	if f.ListSubmissionsFn != nil {
		return f.ListSubmissionsFn(ctx, db, unreadOnly)
	}
	return nil, nil
}

func (f *FakeRepository) MarkRead(ctx context.Context, db bun.IDB, id uuid.UUID) error {
	f.record("MarkRead")
	if f.MarkReadFn != nil {
		return f.MarkReadFn(ctx, db, id)
	}
	return nil
}
