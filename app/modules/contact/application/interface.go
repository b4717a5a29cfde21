package contactservice

import (
	"context"

	"github.com/google/uuid"

	contactdomain "github.com/Protea-Shooting-Federation/psf-backend/app/modules/contact/domain"
	contactdb "github.com/Protea-Shooting-Federation/psf-backend/app/modules/contact/infrastructure/repositories"
)

// Service defines the contact module's operations.
type Service interface {
	Submit(ctx context.Context, form contactdomain.ContactForm) (*contactdb.ContactSubmission, error)
	List(ctx context.Context, unreadOnly bool) ([]contactdb.ContactSubmission, error)
	MarkRead(ctx context.Context, id uuid.UUID) (*contactdb.ContactSubmission, error)
}
