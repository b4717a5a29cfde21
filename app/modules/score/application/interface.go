package scoreservice

import (
	"context"
	"io"

	"github.com/google/uuid"

	scoredb "github.com/Protea-Shooting-Federation/psf-backend/app/modules/score/infrastructure/repositories"
)

// SubmitInput is one stage result submission.
type SubmitInput struct {
	RegistrationID uuid.UUID `json:"registration_id"`
	StageID        uuid.UUID `json:"stage_id"`
	Score          int       `json:"score"`
	XCount         int       `json:"x_count"`
	VCount         int       `json:"v_count"`
	DNF            bool      `json:"dnf"`
	DQ             bool      `json:"dq"`
	Notes          string    `json:"notes"`
}

// EditInput overwrites a score's numeric fields.
type EditInput struct {
	Score  int `json:"score"`
	XCount int `json:"x_count"`
	VCount int `json:"v_count"`
}

// Report aggregates a competition's verification and registration state.
type Report struct {
	CompetitionID      uuid.UUID                  `json:"competition_id"`
	ScoresByStatus     map[scoredb.ScoreStatus]int `json:"scores_by_status"`
	PerDiscipline      map[string]int             `json:"registrations_per_discipline"`
	TotalRegistrations int                        `json:"total_registrations"`
}

// Service is the score module's application surface.
type Service interface {
	// Submit creates a pending score. Members submit for their own
	// registrations; officers and admins submit on anyone's behalf.
	Submit(ctx context.Context, actor uuid.UUID, actorIsOfficer bool, input SubmitInput) (*scoredb.Score, error)

	// Verify stamps one score verified.
	Verify(ctx context.Context, adminID, scoreID uuid.UUID) (*scoredb.Score, error)

	// BulkVerify stamps all selected scores in one write and returns the
	// number of rows touched.
	BulkVerify(ctx context.Context, adminID uuid.UUID, scoreIDs []uuid.UUID) (int64, error)

	// Reject clears the verification stamps and records the reason.
	Reject(ctx context.Context, adminID, scoreID uuid.UUID, reason string) (*scoredb.Score, error)

	// Edit overwrites the numeric fields. Editing a verified score resets it
	// to pending for re-review.
	Edit(ctx context.Context, adminID, scoreID uuid.UUID, input EditInput) (*scoredb.Score, error)

	ListScores(ctx context.Context, filter scoredb.Filter) ([]scoredb.Score, error)
	History(ctx context.Context, scoreID uuid.UUID) ([]scoredb.ScoreStatusHistory, error)

	// ExportCSV writes the filtered (or selected) scores as CSV.
	ExportCSV(ctx context.Context, filter scoredb.Filter, w io.Writer) error

	// Reporting
	BuildReport(ctx context.Context, competitionID uuid.UUID) (*Report, error)
	ExportReportXLSX(ctx context.Context, competitionID uuid.UUID, w io.Writer) error
	RenderDisciplineChart(ctx context.Context, competitionID uuid.UUID, w io.Writer) error
}
