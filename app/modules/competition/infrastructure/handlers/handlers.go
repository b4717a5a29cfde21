package competitionhandlers

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	competitionservice "github.com/Protea-Shooting-Federation/psf-backend/app/modules/competition/application"
)

// CompetitionHandlers serves competition, stage and registration endpoints.
type CompetitionHandlers struct {
	service competitionservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewCompetitionHandlers creates a new CompetitionHandlers instance.
func NewCompetitionHandlers(
	service competitionservice.Service,
	logger *slog.Logger,
	tracer trace.Tracer,
) *CompetitionHandlers {
	return &CompetitionHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}
