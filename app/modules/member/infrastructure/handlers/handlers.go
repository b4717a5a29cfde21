package memberhandlers

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	memberservice "github.com/Protea-Shooting-Federation/psf-backend/app/modules/member/application"
)

// MemberHandlers serves the registration wizard and profile endpoints.
type MemberHandlers struct {
	service memberservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewMemberHandlers creates a new MemberHandlers instance.
func NewMemberHandlers(
	service memberservice.Service,
	logger *slog.Logger,
	tracer trace.Tracer,
) *MemberHandlers {
	return &MemberHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}
