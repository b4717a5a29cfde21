package competitiondb

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	competitiondomain "github.com/Protea-Shooting-Federation/psf-backend/app/modules/competition/domain"
)

// Competition is an event members register for.
type Competition struct {
	bun.BaseModel `bun:"table:competitions,alias:c"`

	ID                 uuid.UUID  `bun:"id,pk,type:uuid" json:"id"`
	Name               string     `bun:"name,notnull" json:"name"`
	Venue              string     `bun:"venue" json:"venue"`
	StartsAt           time.Time  `bun:"starts_at,notnull" json:"starts_at"`
	EndsAt             time.Time  `bun:"ends_at,notnull" json:"ends_at"`
	RegistrationOpens  time.Time  `bun:"registration_opens,notnull" json:"registration_opens"`
	RegistrationCloses *time.Time `bun:"registration_closes,nullzero" json:"registration_closes,omitempty"`
	Capacity           *int       `bun:"capacity,nullzero" json:"capacity,omitempty"`
	CreatedAt          time.Time  `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt          time.Time  `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`

	Disciplines []*CompetitionDiscipline `bun:"rel:has-many,join:id=competition_id" json:"disciplines,omitempty"`
	Matches     []*Match                 `bun:"rel:has-many,join:id=competition_id" json:"matches,omitempty"`
	Stages      []*Stage                 `bun:"rel:has-many,join:id=competition_id" json:"stages,omitempty"`
}

// Window builds the registration-status inputs for this competition.
func (c *Competition) Window(registered int) competitiondomain.RegistrationWindow {
	return competitiondomain.RegistrationWindow{
		OpensAt:    c.RegistrationOpens,
		ClosesAt:   c.RegistrationCloses,
		Capacity:   c.Capacity,
		Registered: registered,
	}
}

// Discipline is a shooting discipline members compete in.
type Discipline struct {
	bun.BaseModel `bun:"table:disciplines,alias:d"`

	ID        uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	Name      string    `bun:"name,unique,notnull" json:"name"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

// CompetitionDiscipline joins a competition to a discipline, carrying that
// discipline's per-age-class fee tier and entry cap for the event.
type CompetitionDiscipline struct {
	bun.BaseModel `bun:"table:competition_disciplines,alias:cd"`

	ID            uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	CompetitionID uuid.UUID `bun:"competition_id,notnull,type:uuid" json:"competition_id"`
	DisciplineID  uuid.UUID `bun:"discipline_id,notnull,type:uuid" json:"discipline_id"`

	FeeOpenCents      int64 `bun:"fee_open_cents,notnull,default:0" json:"fee_open_cents"`
	FeeUnder19Cents   int64 `bun:"fee_under_19_cents,notnull,default:0" json:"fee_under_19_cents"`
	FeeUnder25Cents   int64 `bun:"fee_under_25_cents,notnull,default:0" json:"fee_under_25_cents"`
	FeeVeteran60Cents int64 `bun:"fee_veteran_60_cents,notnull,default:0" json:"fee_veteran_60_cents"`
	FeeVeteran70Cents int64 `bun:"fee_veteran_70_cents,notnull,default:0" json:"fee_veteran_70_cents"`
	MaxEntries        *int  `bun:"max_entries,nullzero" json:"max_entries,omitempty"`

	Discipline *Discipline `bun:"rel:belongs-to,join:discipline_id=id" json:"discipline,omitempty"`
}

// FeeSchedule converts the stored tier columns into the domain schedule.
func (cd *CompetitionDiscipline) FeeSchedule() competitiondomain.FeeSchedule {
	return competitiondomain.FeeSchedule{
		OpenCents:      cd.FeeOpenCents,
		Under19Cents:   cd.FeeUnder19Cents,
		Under25Cents:   cd.FeeUnder25Cents,
		Veteran60Cents: cd.FeeVeteran60Cents,
		Veteran70Cents: cd.FeeVeteran70Cents,
	}
}

// Match is an individually priced segment of a competition.
type Match struct {
	bun.BaseModel `bun:"table:matches,alias:m"`

	ID            uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	CompetitionID uuid.UUID `bun:"competition_id,notnull,type:uuid" json:"competition_id"`
	Name          string    `bun:"name,notnull" json:"name"`
	EntryFeeCents int64     `bun:"entry_fee_cents,notnull,default:0" json:"entry_fee_cents"`
	Optional      bool      `bun:"optional,notnull,default:false" json:"optional"`
}

// Stage is a scored segment of a competition. Immutable after creation.
type Stage struct {
	bun.BaseModel `bun:"table:stages,alias:st"`

	ID             uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	CompetitionID  uuid.UUID `bun:"competition_id,notnull,type:uuid" json:"competition_id"`
	Name           string    `bun:"name,notnull" json:"name"`
	RoundCount     int       `bun:"round_count,notnull" json:"round_count"`
	DistanceMeters int       `bun:"distance_meters" json:"distance_meters"`
	MatchType      string    `bun:"match_type" json:"match_type"`
	MaxScore       int       `bun:"max_score,notnull" json:"max_score"`
	CreatedAt      time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

// RegistrationStatus is a registration's lifecycle state.
type RegistrationStatus string

const (
	RegistrationDraft     RegistrationStatus = "draft"
	RegistrationPending   RegistrationStatus = "pending"
	RegistrationConfirmed RegistrationStatus = "confirmed"
	RegistrationCancelled RegistrationStatus = "cancelled"
)

// PaymentStatus tracks whether the registration fee is settled. Data only;
// payment processing lives outside this system.
type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// Registration links a member to a competition and discipline. One per
// (member, competition, discipline), enforced by a unique index.
type Registration struct {
	bun.BaseModel `bun:"table:competition_registrations,alias:cr"`

	ID            uuid.UUID          `bun:"id,pk,type:uuid" json:"id"`
	MemberID      uuid.UUID          `bun:"member_id,notnull,type:uuid" json:"member_id"`
	CompetitionID uuid.UUID          `bun:"competition_id,notnull,type:uuid" json:"competition_id"`
	DisciplineID  uuid.UUID          `bun:"discipline_id,notnull,type:uuid" json:"discipline_id"`
	MatchIDs      []uuid.UUID        `bun:"match_ids,array" json:"match_ids,omitempty"`
	Status        RegistrationStatus `bun:"status,notnull,default:'pending'" json:"status"`
	PaymentStatus PaymentStatus      `bun:"payment_status,notnull,default:'unpaid'" json:"payment_status"`
	EntryNumber   int                `bun:"entry_number,notnull" json:"entry_number"`
	SquadNumber   *int               `bun:"squad_number,nullzero" json:"squad_number,omitempty"`
	TargetNumber  *int               `bun:"target_number,nullzero" json:"target_number,omitempty"`
	TotalFeeCents int64              `bun:"total_fee_cents,notnull,default:0" json:"total_fee_cents"`
	CreatedAt     time.Time          `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time          `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`

	Competition *Competition `bun:"rel:belongs-to,join:competition_id=id" json:"-"`
	Discipline  *Discipline  `bun:"rel:belongs-to,join:discipline_id=id" json:"-"`
}
