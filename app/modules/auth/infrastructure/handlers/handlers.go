package authhandlers

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	authservice "github.com/Protea-Shooting-Federation/psf-backend/app/modules/auth/application"
)

// AuthHandlers serves the HTTP auth surface.
type AuthHandlers struct {
	service       authservice.Service
	logger        *slog.Logger
	tracer        trace.Tracer
	secureCookies bool
}

// NewAuthHandlers creates a new AuthHandlers instance.
func NewAuthHandlers(
	service authservice.Service,
	logger *slog.Logger,
	tracer trace.Tracer,
	secureCookies bool,
) *AuthHandlers {
	return &AuthHandlers{
		service:       service,
		logger:        logger,
		tracer:        tracer,
		secureCookies: secureCookies,
	}
}
