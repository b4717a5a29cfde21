package scorehandlers

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	scoreservice "github.com/Protea-Shooting-Federation/psf-backend/app/modules/score/application"
)

// ScoreHandlers serves score submission, verification and export endpoints.
type ScoreHandlers struct {
	service scoreservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewScoreHandlers creates a new ScoreHandlers instance.
func NewScoreHandlers(
	service scoreservice.Service,
	logger *slog.Logger,
	tracer trace.Tracer,
) *ScoreHandlers {
	return &ScoreHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}
