package contacthandlers

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	contactservice "github.com/Protea-Shooting-Federation/psf-backend/app/modules/contact/application"
)

// ContactHandlers serves the public contact form and its admin inbox.
type ContactHandlers struct {
	service contactservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewContactHandlers creates a new ContactHandlers instance.
func NewContactHandlers(
	service contactservice.Service,
	logger *slog.Logger,
	tracer trace.Tracer,
) *ContactHandlers {
	return &ContactHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}
