package contactservice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	contactdomain "github.com/Protea-Shooting-Federation/psf-backend/app/modules/contact/domain"
	contactdb "github.com/Protea-Shooting-Federation/psf-backend/app/modules/contact/infrastructure/repositories"
	"github.com/Protea-Shooting-Federation/psf-backend/app/shared/observability"
)

var testNow = time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)

func newTestService(repo *contactdb.FakeRepository) *ContactService {
	svc := NewContactService(repo, observability.NewForTest())
	svc.now = func() time.Time { return testNow }
	return svc
}

func TestSubmit(t *testing.T) {
	var created *contactdb.ContactSubmission
	repo := &contactdb.FakeRepository{
		CreateSubmissionFn: func(ctx context.Context, db bun.IDB, submission *contactdb.ContactSubmission) error {
			created = submission
			return nil
		},
	}
	svc := newTestService(repo)

	submission, err := svc.Submit(context.Background(), contactdomain.ContactForm{
		Name:    "Anna Smith",
		Email:   "anna@example.com",
		Subject: "Range booking",
		Message: "Is the 50m range open on Saturdays?",
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if created == nil {
		t.Fatal("CreateSubmission was not called")
	}
	if !submission.Unread {
		t.Error("new submissions must be tagged unread")
	}
	if !submission.CreatedAt.Equal(testNow) {
		t.Errorf("CreatedAt = %v, want %v", submission.CreatedAt, testNow)
	}
}

func TestSubmitInvalidForm(t *testing.T) {
	repo := &contactdb.FakeRepository{}
	svc := newTestService(repo)

	_, err := svc.Submit(context.Background(), contactdomain.ContactForm{Name: "Anna Smith"})
	var fe contactdomain.FieldErrors
	if !errors.As(err, &fe) {
		t.Fatalf("Submit() error = %v, want FieldErrors", err)
	}
	for _, field := range []string{"email", "subject", "message"} {
		if _, ok := fe[field]; !ok {
			t.Errorf("missing validation error for %q in %v", field, fe)
		}
	}
	if len(repo.Trace()) != 0 {
		t.Errorf("no repository calls expected, got %v", repo.Trace())
	}
}

func TestMarkRead(t *testing.T) {
	id := uuid.New()
	repo := &contactdb.FakeRepository{
		GetSubmissionFn: func(ctx context.Context, db bun.IDB, got uuid.UUID) (*contactdb.ContactSubmission, error) {
			return &contactdb.ContactSubmission{ID: got, Unread: false}, nil
		},
	}
	svc := newTestService(repo)

	submission, err := svc.MarkRead(context.Background(), id)
	if err != nil {
		t.Fatalf("MarkRead() error = %v", err)
	}
	if submission.Unread {
		t.Error("submission should read as read after MarkRead")
	}

	want := []string{"MarkRead", "GetSubmission"}
	got := repo.Trace()
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("trace = %v, want %v", got, want)
	}
}

func TestListPassesUnreadFilter(t *testing.T) {
	var gotUnreadOnly bool
	repo := &contactdb.FakeRepository{
		ListSubmissionsFn: func(ctx context.Context, db bun.IDB, unreadOnly bool) ([]contactdb.ContactSubmission, error) {
			gotUnreadOnly = unreadOnly
			return []contactdb.ContactSubmission{{ID: uuid.New()}}, nil
		},
	}
	svc := newTestService(repo)

	if _, err := svc.List(context.Background(), true); err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if !gotUnreadOnly {
		t.Error("unreadOnly filter was not passed through")
	}
}
