package scoreservice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	competitiondb "github.com/Protea-Shooting-Federation/psf-backend/app/modules/competition/infrastructure/repositories"
	scoredb "github.com/Protea-Shooting-Federation/psf-backend/app/modules/score/infrastructure/repositories"
	"github.com/Protea-Shooting-Federation/psf-backend/app/shared/observability"
)

var testNow = time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)

func newTestService(repo *scoredb.FakeRepository, competitionRepo *competitiondb.FakeRepository) *ScoreService {
	svc := NewScoreService(repo, competitionRepo, observability.NewForTest(), nil)
	svc.now = func() time.Time { return testNow }
	return svc
}

// competitionRepoFor wires a registration and a stage belonging to the same
// competition, the shape every valid submission needs.
func competitionRepoFor(memberID uuid.UUID, maxScore int) *competitiondb.FakeRepository {
	competitionID := uuid.New()
	return &competitiondb.FakeRepository{
		GetRegistrationFn: func(ctx context.Context, db bun.IDB, id uuid.UUID) (*competitiondb.Registration, error) {
			return &competitiondb.Registration{ID: id, MemberID: memberID, CompetitionID: competitionID}, nil
		},
		GetStageFn: func(ctx context.Context, db bun.IDB, id uuid.UUID) (*competitiondb.Stage, error) {
			return &competitiondb.Stage{ID: id, CompetitionID: competitionID, MaxScore: maxScore}, nil
		},
	}
}

func TestSubmitCreatesPendingScore(t *testing.T) {
	member := uuid.New()
	var created *scoredb.Score
	repo := &scoredb.FakeRepository{
		CreateScoreFn: func(ctx context.Context, db bun.IDB, score *scoredb.Score) error {
			created = score
			return nil
		},
	}
	svc := newTestService(repo, competitionRepoFor(member, 600))

	score, err := svc.Submit(context.Background(), member, false, SubmitInput{
		RegistrationID: uuid.New(),
		StageID:        uuid.New(),
		Score:          587,
		XCount:         12,
		VCount:         3,
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if created == nil {
		t.Fatal("CreateScore was not called")
	}
	if score.Status() != scoredb.ScorePending {
		t.Errorf("Status() = %s, want pending", score.Status())
	}
	if score.SubmittedBy != member {
		t.Errorf("SubmittedBy = %s, want the submitting member", score.SubmittedBy)
	}
	if !score.SubmittedAt.Equal(testNow) {
		t.Errorf("SubmittedAt = %v, want %v", score.SubmittedAt, testNow)
	}
}

func TestSubmitForbiddenForOtherMember(t *testing.T) {
	repo := &scoredb.FakeRepository{}
	svc := newTestService(repo, competitionRepoFor(uuid.New(), 600))

	_, err := svc.Submit(context.Background(), uuid.New(), false, SubmitInput{
		RegistrationID: uuid.New(),
		StageID:        uuid.New(),
		Score:          100,
	})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("Submit() error = %v, want ErrForbidden", err)
	}
	if len(repo.Trace()) != 0 {
		t.Errorf("no score writes expected, got %v", repo.Trace())
	}
}

func TestSubmitOfficerMaySubmitForAnyone(t *testing.T) {
	svc := newTestService(&scoredb.FakeRepository{}, competitionRepoFor(uuid.New(), 600))

	_, err := svc.Submit(context.Background(), uuid.New(), true, SubmitInput{
		RegistrationID: uuid.New(),
		StageID:        uuid.New(),
		Score:          100,
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
}

func TestSubmitStageMismatch(t *testing.T) {
	member := uuid.New()
	competitionRepo := competitionRepoFor(member, 600)
	competitionRepo.GetStageFn = func(ctx context.Context, db bun.IDB, id uuid.UUID) (*competitiondb.Stage, error) {
		return &competitiondb.Stage{ID: id, CompetitionID: uuid.New(), MaxScore: 600}, nil
	}
	svc := newTestService(&scoredb.FakeRepository{}, competitionRepo)

	_, err := svc.Submit(context.Background(), member, false, SubmitInput{
		RegistrationID: uuid.New(),
		StageID:        uuid.New(),
		Score:          100,
	})
	if !errors.Is(err, ErrStageMismatch) {
		t.Fatalf("Submit() error = %v, want ErrStageMismatch", err)
	}
}

func TestSubmitScoreRange(t *testing.T) {
	member := uuid.New()

	tests := []struct {
		name    string
		input   SubmitInput
		wantErr error
	}{
		{"over max", SubmitInput{Score: 601}, ErrScoreOutOfRange},
		{"negative", SubmitInput{Score: -1}, ErrScoreOutOfRange},
		{"at max", SubmitInput{Score: 600}, nil},
		{"dnf bypasses range", SubmitInput{Score: 601, DNF: true}, nil},
		{"dq bypasses range", SubmitInput{Score: -1, DQ: true}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(&scoredb.FakeRepository{}, competitionRepoFor(member, 600))
			tt.input.RegistrationID = uuid.New()
			tt.input.StageID = uuid.New()

			_, err := svc.Submit(context.Background(), member, false, tt.input)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Submit() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Submit() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestVerifySetsStampsAndHistory(t *testing.T) {
	admin := uuid.New()
	scoreID := uuid.New()
	var history *scoredb.ScoreStatusHistory
	repo := &scoredb.FakeRepository{
		AddHistoryFn: func(ctx context.Context, db bun.IDB, entry *scoredb.ScoreStatusHistory) error {
			history = entry
			return nil
		},
	}
	svc := newTestService(repo, &competitiondb.FakeRepository{})

	score, err := svc.Verify(context.Background(), admin, scoreID)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if score.Status() != scoredb.ScoreVerified {
		t.Errorf("Status() = %s, want verified", score.Status())
	}
	if score.VerifiedBy == nil || *score.VerifiedBy != admin {
		t.Errorf("VerifiedBy = %v, want %s", score.VerifiedBy, admin)
	}
	if score.VerifiedAt == nil || !score.VerifiedAt.Equal(testNow) {
		t.Errorf("VerifiedAt = %v, want %v", score.VerifiedAt, testNow)
	}
	if history == nil {
		t.Fatal("no history entry written")
	}
	if history.FromStatus != scoredb.ScorePending || history.ToStatus != scoredb.ScoreVerified {
		t.Errorf("history transition = %s -> %s, want pending -> verified", history.FromStatus, history.ToStatus)
	}
	if history.ActorID != admin {
		t.Errorf("history actor = %s, want %s", history.ActorID, admin)
	}
}

func TestBulkVerify(t *testing.T) {
	admin := uuid.New()
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

	var entries []*scoredb.ScoreStatusHistory
	var verifiedBy uuid.UUID
	var verifiedAt time.Time
	repo := &scoredb.FakeRepository{
		ListScoresFn: func(ctx context.Context, db bun.IDB, filter scoredb.Filter) ([]scoredb.Score, error) {
			scores := make([]scoredb.Score, len(filter.IDs))
			for i, id := range filter.IDs {
				scores[i] = scoredb.Score{ID: id}
			}
			return scores, nil
		},
		VerifyScoresFn: func(ctx context.Context, db bun.IDB, ids []uuid.UUID, by uuid.UUID, at time.Time) (int64, error) {
			verifiedBy, verifiedAt = by, at
			return int64(len(ids)), nil
		},
		AddHistoryFn: func(ctx context.Context, db bun.IDB, entry *scoredb.ScoreStatusHistory) error {
			entries = append(entries, entry)
			return nil
		},
	}
	svc := newTestService(repo, &competitiondb.FakeRepository{})

	rows, err := svc.BulkVerify(context.Background(), admin, ids)
	if err != nil {
		t.Fatalf("BulkVerify() error = %v", err)
	}
	if rows != 3 {
		t.Errorf("rows = %d, want 3", rows)
	}
	if verifiedBy != admin {
		t.Errorf("verified_by = %s, want %s", verifiedBy, admin)
	}
	if !verifiedAt.Equal(testNow) {
		t.Errorf("verified_at = %v, want %v", verifiedAt, testNow)
	}
	if len(entries) != 3 {
		t.Fatalf("history entries = %d, want one per score", len(entries))
	}
	for _, entry := range entries {
		if entry.ToStatus != scoredb.ScoreVerified || !entry.CreatedAt.Equal(testNow) {
			t.Errorf("entry %s: transition to %s at %v, want verified at %v", entry.ScoreID, entry.ToStatus, entry.CreatedAt, testNow)
		}
	}
}

func TestBulkVerifyRequiresSelection(t *testing.T) {
	repo := &scoredb.FakeRepository{}
	svc := newTestService(repo, &competitiondb.FakeRepository{})

	_, err := svc.BulkVerify(context.Background(), uuid.New(), nil)
	if !errors.Is(err, ErrNoScoresSelected) {
		t.Fatalf("BulkVerify() error = %v, want ErrNoScoresSelected", err)
	}
	if len(repo.Trace()) != 0 {
		t.Errorf("no repository calls expected, got %v", repo.Trace())
	}
}

func TestRejectRequiresReason(t *testing.T) {
	svc := newTestService(&scoredb.FakeRepository{}, &competitiondb.FakeRepository{})

	for _, reason := range []string{"", "   "} {
		if _, err := svc.Reject(context.Background(), uuid.New(), uuid.New(), reason); !errors.Is(err, ErrEmptyReason) {
			t.Errorf("Reject(%q) error = %v, want ErrEmptyReason", reason, err)
		}
	}
}

func TestRejectClearsStampsAndTagsNotes(t *testing.T) {
	admin := uuid.New()
	scoreID := uuid.New()
	verifiedAt := testNow.Add(-time.Hour)

	var history *scoredb.ScoreStatusHistory
	repo := &scoredb.FakeRepository{
		GetScoreFn: func(ctx context.Context, db bun.IDB, id uuid.UUID) (*scoredb.Score, error) {
			return &scoredb.Score{ID: id, VerifiedAt: &verifiedAt, VerifiedBy: &admin}, nil
		},
		AddHistoryFn: func(ctx context.Context, db bun.IDB, entry *scoredb.ScoreStatusHistory) error {
			history = entry
			return nil
		},
	}
	svc := newTestService(repo, &competitiondb.FakeRepository{})

	score, err := svc.Reject(context.Background(), admin, scoreID, "bad target")
	if err != nil {
		t.Fatalf("Reject() error = %v", err)
	}
	if score.Status() != scoredb.ScoreRejected {
		t.Errorf("Status() = %s, want rejected", score.Status())
	}
	if score.VerifiedAt != nil || score.VerifiedBy != nil {
		t.Error("verification stamps must be cleared on rejection")
	}
	if score.RejectionReason == nil || *score.RejectionReason != "bad target" {
		t.Errorf("RejectionReason = %v, want bad target", score.RejectionReason)
	}
	if score.Notes != "REJECTED: bad target" {
		t.Errorf("Notes = %q, want %q", score.Notes, "REJECTED: bad target")
	}
	if history == nil {
		t.Fatal("no history entry written")
	}
	if history.FromStatus != scoredb.ScoreVerified || history.ToStatus != scoredb.ScoreRejected {
		t.Errorf("history transition = %s -> %s, want verified -> rejected", history.FromStatus, history.ToStatus)
	}
	if history.Reason == nil || *history.Reason != "bad target" {
		t.Errorf("history reason = %v, want bad target", history.Reason)
	}
}

func TestRejectPreservesPreviousNotes(t *testing.T) {
	repo := &scoredb.FakeRepository{
		GetScoreFn: func(ctx context.Context, db bun.IDB, id uuid.UUID) (*scoredb.Score, error) {
			return &scoredb.Score{ID: id, Notes: "windy conditions"}, nil
		},
	}
	svc := newTestService(repo, &competitiondb.FakeRepository{})

	score, err := svc.Reject(context.Background(), uuid.New(), uuid.New(), "wrong stage")
	if err != nil {
		t.Fatalf("Reject() error = %v", err)
	}
	want := "REJECTED: wrong stage\nPrevious notes: windy conditions"
	if score.Notes != want {
		t.Errorf("Notes = %q, want %q", score.Notes, want)
	}
}

func TestEditVerifiedScoreResetsToPending(t *testing.T) {
	admin := uuid.New()
	verifiedAt := testNow.Add(-time.Hour)

	var history *scoredb.ScoreStatusHistory
	repo := &scoredb.FakeRepository{
		GetScoreFn: func(ctx context.Context, db bun.IDB, id uuid.UUID) (*scoredb.Score, error) {
			return &scoredb.Score{ID: id, Score: 500, VerifiedAt: &verifiedAt, VerifiedBy: &admin}, nil
		},
		AddHistoryFn: func(ctx context.Context, db bun.IDB, entry *scoredb.ScoreStatusHistory) error {
			history = entry
			return nil
		},
	}
	svc := newTestService(repo, &competitiondb.FakeRepository{})

	score, err := svc.Edit(context.Background(), admin, uuid.New(), EditInput{Score: 512, XCount: 9, VCount: 2})
	if err != nil {
		t.Fatalf("Edit() error = %v", err)
	}
	if score.Score != 512 || score.XCount != 9 || score.VCount != 2 {
		t.Errorf("edited fields = %d/%d/%d, want 512/9/2", score.Score, score.XCount, score.VCount)
	}
	if score.Status() != scoredb.ScorePending {
		t.Errorf("Status() = %s, want pending after editing a verified score", score.Status())
	}
	if history == nil {
		t.Fatal("no history entry written")
	}
	if history.Reason == nil || *history.Reason != "edited after verification" {
		t.Errorf("history reason = %v, want edited after verification", history.Reason)
	}
}

func TestEditPendingScoreWritesNoHistory(t *testing.T) {
	repo := &scoredb.FakeRepository{}
	svc := newTestService(repo, &competitiondb.FakeRepository{})

	if _, err := svc.Edit(context.Background(), uuid.New(), uuid.New(), EditInput{Score: 100}); err != nil {
		t.Fatalf("Edit() error = %v", err)
	}
	for _, step := range repo.Trace() {
		if step == "AddHistory" {
			t.Error("editing a pending score must not write history")
		}
	}
}
