package score_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"

	competitionservice "github.com/Protea-Shooting-Federation/psf-backend/app/modules/competition/application"
	competitiondb "github.com/Protea-Shooting-Federation/psf-backend/app/modules/competition/infrastructure/repositories"
	scoreservice "github.com/Protea-Shooting-Federation/psf-backend/app/modules/score/application"
	scoredb "github.com/Protea-Shooting-Federation/psf-backend/app/modules/score/infrastructure/repositories"
	"github.com/Protea-Shooting-Federation/psf-backend/integration_tests/testutils"
)

// fixture seeds a competition offering one discipline with one stage and
// registers a freshly created member for it.
type fixture struct {
	memberID       uuid.UUID
	adminID        uuid.UUID
	competitionID  uuid.UUID
	stageID        uuid.UUID
	registrationID uuid.UUID
}

func newFixture(t *testing.T, ctx context.Context, env *testutils.TestEnvironment) fixture {
	t.Helper()
	repo := env.CompetitionRepo()

	member, err := env.MemberService.Register(ctx, testutils.NewRegistrationForm(), nil)
	if err != nil {
		t.Fatalf("member Register() error = %v", err)
	}
	admin, err := env.MemberService.Register(ctx, testutils.NewRegistrationForm(), nil)
	if err != nil {
		t.Fatalf("admin Register() error = %v", err)
	}

	competition := testutils.NewOpenCompetition()
	if err := repo.CreateCompetition(ctx, nil, competition); err != nil {
		t.Fatalf("CreateCompetition() error = %v", err)
	}

	discipline := &competitiondb.Discipline{
		ID:   uuid.New(),
		Name: fmt.Sprintf("Air Rifle %s", uuid.New()),
	}
	if err := repo.CreateDiscipline(ctx, nil, discipline); err != nil {
		t.Fatalf("CreateDiscipline() error = %v", err)
	}
	if err := repo.AttachDiscipline(ctx, nil, &competitiondb.CompetitionDiscipline{
		ID:            uuid.New(),
		CompetitionID: competition.ID,
		DisciplineID:  discipline.ID,
		FeeOpenCents:  50000,
	}); err != nil {
		t.Fatalf("AttachDiscipline() error = %v", err)
	}

	stage := &competitiondb.Stage{
		ID:            uuid.New(),
		CompetitionID: competition.ID,
		Name:          "Stage 1",
		RoundCount:    60,
		MaxScore:      600,
	}
	if err := repo.CreateStage(ctx, nil, stage); err != nil {
		t.Fatalf("CreateStage() error = %v", err)
	}

	registration, err := env.CompetitionService.Register(ctx, member.MemberID, competitionservice.RegistrationInput{
		CompetitionID: competition.ID,
		DisciplineID:  discipline.ID,
	})
	if err != nil {
		t.Fatalf("competition Register() error = %v", err)
	}

	return fixture{
		memberID:       member.MemberID,
		adminID:        admin.MemberID,
		competitionID:  competition.ID,
		stageID:        stage.ID,
		registrationID: registration.ID,
	}
}

func TestScoreVerificationFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test")
	}
	ctx := context.Background()
	env, err := testutils.GetTestEnvironment(ctx)
	if err != nil {
		t.Fatalf("test environment: %v", err)
	}
	fx := newFixture(t, ctx, env)

	score, err := env.ScoreService.Submit(ctx, fx.memberID, false, scoreservice.SubmitInput{
		RegistrationID: fx.registrationID,
		StageID:        fx.stageID,
		Score:          587,
		XCount:         12,
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if score.Status() != scoredb.ScorePending {
		t.Fatalf("fresh score status = %s, want pending", score.Status())
	}

	verified, err := env.ScoreService.Verify(ctx, fx.adminID, score.ID)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if verified.Status() != scoredb.ScoreVerified {
		t.Errorf("status = %s, want verified", verified.Status())
	}

	rejected, err := env.ScoreService.Reject(ctx, fx.adminID, score.ID, "target scanned incorrectly")
	if err != nil {
		t.Fatalf("Reject() error = %v", err)
	}
	if rejected.Status() != scoredb.ScoreRejected {
		t.Errorf("status = %s, want rejected", rejected.Status())
	}
	if !strings.HasPrefix(rejected.Notes, "REJECTED: ") {
		t.Errorf("Notes = %q, want REJECTED prefix", rejected.Notes)
	}

	history, err := env.ScoreService.History(ctx, score.ID)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history entries = %d, want 2", len(history))
	}
	if history[0].ToStatus != scoredb.ScoreVerified || history[1].ToStatus != scoredb.ScoreRejected {
		t.Errorf("history transitions = %s, %s; want verified then rejected", history[0].ToStatus, history[1].ToStatus)
	}
	if history[1].Reason == nil || *history[1].Reason != "target scanned incorrectly" {
		t.Errorf("rejection reason in history = %v", history[1].Reason)
	}
}

func TestScoreExportRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test")
	}
	ctx := context.Background()
	env, err := testutils.GetTestEnvironment(ctx)
	if err != nil {
		t.Fatalf("test environment: %v", err)
	}
	fx := newFixture(t, ctx, env)

	score, err := env.ScoreService.Submit(ctx, fx.memberID, false, scoreservice.SubmitInput{
		RegistrationID: fx.registrationID,
		StageID:        fx.stageID,
		Score:          574,
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if _, err := env.ScoreService.Verify(ctx, fx.adminID, score.ID); err != nil {
		t.Fatalf("Verify() error = %v", err)
	}

	var buf bytes.Buffer
	if err := env.ScoreService.ExportCSV(ctx, scoredb.Filter{CompetitionID: fx.competitionID}, &buf); err != nil {
		t.Fatalf("ExportCSV() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want header plus 1 row", len(records))
	}
	row := records[1]
	if row[6] != "574" {
		t.Errorf("score cell = %q, want 574", row[6])
	}
	if row[9] != "verified" {
		t.Errorf("status cell = %q, want verified", row[9])
	}
}
