package contactdb

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ContactSubmission is a public contact-form message. It has no relation to
// the member pipeline; the unread flag is its only state.
type ContactSubmission struct {
	bun.BaseModel `bun:"table:contact_submissions,alias:cs"`

	ID        uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	Name      string    `bun:"name,notnull" json:"name"`
	Email     string    `bun:"email,notnull" json:"email"`
	Phone     *string   `bun:"phone" json:"phone,omitempty"`
	Subject   string    `bun:"subject,notnull" json:"subject"`
	Message   string    `bun:"message,notnull" json:"message"`
	Unread    bool      `bun:"unread,notnull,default:true" json:"unread"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}
