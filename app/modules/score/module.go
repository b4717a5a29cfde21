package score

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"

	authservice "github.com/Protea-Shooting-Federation/psf-backend/app/modules/auth/application"
	authdomain "github.com/Protea-Shooting-Federation/psf-backend/app/modules/auth/domain"
	authhandlers "github.com/Protea-Shooting-Federation/psf-backend/app/modules/auth/infrastructure/handlers"
	competitiondb "github.com/Protea-Shooting-Federation/psf-backend/app/modules/competition/infrastructure/repositories"
	scoreservice "github.com/Protea-Shooting-Federation/psf-backend/app/modules/score/application"
	scorehandlers "github.com/Protea-Shooting-Federation/psf-backend/app/modules/score/infrastructure/handlers"
	scoredb "github.com/Protea-Shooting-Federation/psf-backend/app/modules/score/infrastructure/repositories"
	"github.com/Protea-Shooting-Federation/psf-backend/app/shared/observability"
	"github.com/Protea-Shooting-Federation/psf-backend/config"
)

// Module represents the score module.
type Module struct {
	config   *config.Config
	service  scoreservice.Service
	handlers *scorehandlers.ScoreHandlers
	logger   *slog.Logger
}

// NewModule creates a new score module and registers its HTTP routes.
func NewModule(
	ctx context.Context,
	cfg *config.Config,
	obs *observability.Observability,
	competitionRepo competitiondb.Repository,
	authSvc authservice.Service,
	db *bun.DB,
	httpRouter chi.Router,
) (*Module, error) {
	logger := obs.Logger

	logger.InfoContext(ctx, "Initializing score module")

	repo := &scoredb.ScoreDBImpl{DB: db}
	service := scoreservice.NewScoreService(repo, competitionRepo, obs, db)
	handlers := scorehandlers.NewScoreHandlers(service, logger, obs.Tracer)

	if httpRouter != nil {
		httpRouter.Route("/api/scores", func(r chi.Router) {
			r.Use(authhandlers.CORSMiddleware(cfg.HTTP.AllowedOrigins))
			r.Use(authhandlers.RequireAuth(authSvc))

			// Members submit their own scores; officers submit on behalf.
			r.Post("/", handlers.HandleSubmit)

			// Review surface. Stats officers run verification day to day,
			// admins retain the same access.
			r.Group(func(r chi.Router) {
				r.Use(authhandlers.RequireRole(
					authdomain.RoleStatsOfficer,
					authdomain.RoleAdmin,
					authdomain.RoleSuperAdmin,
				))
				r.Get("/", handlers.HandleList)
				r.Get("/export.csv", handlers.HandleExportCSV)
				r.Post("/bulk-verify", handlers.HandleBulkVerify)
				r.Post("/{scoreID}/verify", handlers.HandleVerify)
				r.Post("/{scoreID}/reject", handlers.HandleReject)
				r.Put("/{scoreID}", handlers.HandleEdit)
				r.Get("/{scoreID}/history", handlers.HandleHistory)
			})
		})

		httpRouter.Route("/api/reports", func(r chi.Router) {
			r.Use(authhandlers.CORSMiddleware(cfg.HTTP.AllowedOrigins))
			r.Use(authhandlers.RequireAuth(authSvc))
			r.Use(authhandlers.RequireRole(
				authdomain.RoleStatsOfficer,
				authdomain.RoleAdmin,
				authdomain.RoleSuperAdmin,
			))
			r.Get("/{competitionID}", handlers.HandleReport)
			r.Get("/{competitionID}/report.xlsx", handlers.HandleReportXLSX)
			r.Get("/{competitionID}/chart.png", handlers.HandleDisciplineChart)
		})
	}

	return &Module{
		config:   cfg,
		service:  service,
		handlers: handlers,
		logger:   logger,
	}, nil
}

// GetService returns the score service for use by other modules.
func (m *Module) GetService() scoreservice.Service {
	return m.service
}
