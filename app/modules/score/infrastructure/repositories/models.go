package scoredb

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ScoreStatus is the score's verification state. It is derived, not stored:
// a score is pending iff verified_at is null, verified iff verified_at and
// verified_by are both set, and rejected iff the stamps are clear but a
// rejection reason is recorded.
type ScoreStatus string

const (
	ScorePending  ScoreStatus = "pending"
	ScoreVerified ScoreStatus = "verified"
	ScoreRejected ScoreStatus = "rejected"
)

// Score is one stage result for a registration. Duplicate (registration,
// stage) rows are allowed; a resubmission is a new pending row.
type Score struct {
	bun.BaseModel `bun:"table:scores,alias:s"`

	ID              uuid.UUID  `bun:"id,pk,type:uuid" json:"id"`
	RegistrationID  uuid.UUID  `bun:"registration_id,notnull,type:uuid" json:"registration_id"`
	StageID         uuid.UUID  `bun:"stage_id,notnull,type:uuid" json:"stage_id"`
	Score           int        `bun:"score,notnull" json:"score"`
	XCount          int        `bun:"x_count,notnull,default:0" json:"x_count"`
	VCount          int        `bun:"v_count,notnull,default:0" json:"v_count"`
	DNF             bool       `bun:"dnf,notnull,default:false" json:"dnf"`
	DQ              bool       `bun:"dq,notnull,default:false" json:"dq"`
	Notes           string     `bun:"notes,notnull,default:''" json:"notes"`
	RejectionReason *string    `bun:"rejection_reason,nullzero" json:"rejection_reason,omitempty"`
	SubmittedAt     time.Time  `bun:"submitted_at,notnull,default:current_timestamp" json:"submitted_at"`
	SubmittedBy     uuid.UUID  `bun:"submitted_by,notnull,type:uuid" json:"submitted_by"`
	VerifiedAt      *time.Time `bun:"verified_at,nullzero" json:"verified_at,omitempty"`
	VerifiedBy      *uuid.UUID `bun:"verified_by,nullzero,type:uuid" json:"verified_by,omitempty"`
	UpdatedAt       time.Time  `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

// Status derives the verification state.
func (s *Score) Status() ScoreStatus {
	switch {
	case s.VerifiedAt != nil && s.VerifiedBy != nil:
		return ScoreVerified
	case s.RejectionReason != nil:
		return ScoreRejected
	default:
		return ScorePending
	}
}

// ScoreStatusHistory records every verification-state transition, so rejection
// reasons survive later edits to the notes field.
type ScoreStatusHistory struct {
	bun.BaseModel `bun:"table:score_status_history,alias:ssh"`

	ID         uuid.UUID   `bun:"id,pk,type:uuid" json:"id"`
	ScoreID    uuid.UUID   `bun:"score_id,notnull,type:uuid" json:"score_id"`
	FromStatus ScoreStatus `bun:"from_status,notnull" json:"from_status"`
	ToStatus   ScoreStatus `bun:"to_status,notnull" json:"to_status"`
	Reason     *string     `bun:"reason,nullzero" json:"reason,omitempty"`
	ActorID    uuid.UUID   `bun:"actor_id,notnull,type:uuid" json:"actor_id"`
	CreatedAt  time.Time   `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

// ExportRow is the flattened projection behind the CSV export and the admin
// report, joining a score to its registration, shooter, competition, discipline
// and stage.
type ExportRow struct {
	EntryNumber     int        `bun:"entry_number"`
	FirstName       string     `bun:"first_name"`
	LastName        string     `bun:"last_name"`
	MemberNumber    string     `bun:"member_number"`
	Competition     string     `bun:"competition"`
	Discipline      string     `bun:"discipline"`
	Stage           string     `bun:"stage"`
	Score           int        `bun:"score"`
	XCount          int        `bun:"x_count"`
	VCount          int        `bun:"v_count"`
	DNF             bool       `bun:"dnf"`
	DQ              bool       `bun:"dq"`
	RejectionReason *string    `bun:"rejection_reason"`
	SubmittedAt     time.Time  `bun:"submitted_at"`
	VerifiedAt      *time.Time `bun:"verified_at"`
	VerifiedBy      *uuid.UUID `bun:"verified_by"`
	Notes           string     `bun:"notes"`
}

// Status derives the row's verification state the same way Score.Status does.
func (r *ExportRow) Status() ScoreStatus {
	switch {
	case r.VerifiedAt != nil && r.VerifiedBy != nil:
		return ScoreVerified
	case r.RejectionReason != nil:
		return ScoreRejected
	default:
		return ScorePending
	}
}

// Filter restricts score listings and exports. Zero values mean unfiltered;
// a non-empty IDs set exports only the selected rows.
type Filter struct {
	CompetitionID uuid.UUID
	StageID       uuid.UUID
	Status        ScoreStatus
	IDs           []uuid.UUID
}
