package competition

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"

	authservice "github.com/Protea-Shooting-Federation/psf-backend/app/modules/auth/application"
	authhandlers "github.com/Protea-Shooting-Federation/psf-backend/app/modules/auth/infrastructure/handlers"
	competitionservice "github.com/Protea-Shooting-Federation/psf-backend/app/modules/competition/application"
	competitionhandlers "github.com/Protea-Shooting-Federation/psf-backend/app/modules/competition/infrastructure/handlers"
	competitiondb "github.com/Protea-Shooting-Federation/psf-backend/app/modules/competition/infrastructure/repositories"
	memberdb "github.com/Protea-Shooting-Federation/psf-backend/app/modules/member/infrastructure/repositories"
	"github.com/Protea-Shooting-Federation/psf-backend/app/shared/observability"
	"github.com/Protea-Shooting-Federation/psf-backend/config"
)

// Module represents the competition module.
type Module struct {
	config   *config.Config
	service  competitionservice.Service
	handlers *competitionhandlers.CompetitionHandlers
	repo     competitiondb.Repository
	logger   *slog.Logger
}

// NewModule creates a new competition module and registers its HTTP routes.
func NewModule(
	ctx context.Context,
	cfg *config.Config,
	obs *observability.Observability,
	memberRepo memberdb.Repository,
	authSvc authservice.Service,
	db *bun.DB,
	httpRouter chi.Router,
) (*Module, error) {
	logger := obs.Logger

	logger.InfoContext(ctx, "Initializing competition module")

	repo := &competitiondb.CompetitionDBImpl{DB: db}
	service := competitionservice.NewCompetitionService(repo, memberRepo, obs, db)
	handlers := competitionhandlers.NewCompetitionHandlers(service, logger, obs.Tracer)

	if httpRouter != nil {
		httpRouter.Route("/api/competitions", func(r chi.Router) {
			r.Use(authhandlers.CORSMiddleware(cfg.HTTP.AllowedOrigins))

			// Public reads
			r.Get("/", handlers.HandleListCompetitions)
			r.Get("/{competitionID}", handlers.HandleGetCompetition)
			r.Get("/{competitionID}/stages", handlers.HandleListStages)

			// Member actions
			r.Group(func(r chi.Router) {
				r.Use(authhandlers.RequireAuth(authSvc))
				r.Post("/{competitionID}/registrations", handlers.HandleRegister)
			})

			// Admin actions
			r.Group(func(r chi.Router) {
				r.Use(authhandlers.RequireAuth(authSvc))
				r.Use(authhandlers.RequireAdmin())
				r.Post("/", handlers.HandleCreateCompetition)
				r.Put("/{competitionID}", handlers.HandleUpdateCompetition)
				r.Post("/{competitionID}/disciplines", handlers.HandleAttachDiscipline)
				r.Post("/{competitionID}/matches", handlers.HandleCreateMatch)
				r.Post("/{competitionID}/stages", handlers.HandleCreateStage)
				r.Get("/{competitionID}/registrations", handlers.HandleListRegistrations)
			})
		})

		httpRouter.Route("/api/disciplines", func(r chi.Router) {
			r.Use(authhandlers.CORSMiddleware(cfg.HTTP.AllowedOrigins))
			r.Get("/", handlers.HandleListDisciplines)

			r.Group(func(r chi.Router) {
				r.Use(authhandlers.RequireAuth(authSvc))
				r.Use(authhandlers.RequireAdmin())
				r.Post("/", handlers.HandleCreateDiscipline)
			})
		})

		httpRouter.Route("/api/registrations", func(r chi.Router) {
			r.Use(authhandlers.CORSMiddleware(cfg.HTTP.AllowedOrigins))
			r.Use(authhandlers.RequireAuth(authSvc))
			r.Get("/mine", handlers.HandleListMyRegistrations)
			r.Delete("/{registrationID}", handlers.HandleCancelRegistration)
		})
	}

	return &Module{
		config:   cfg,
		service:  service,
		handlers: handlers,
		repo:     repo,
		logger:   logger,
	}, nil
}

// GetService returns the competition service for use by other modules.
func (m *Module) GetService() competitionservice.Service {
	return m.service
}

// GetRepository exposes the competition repository to the score module, which
// joins scores to registrations and stages.
func (m *Module) GetRepository() competitiondb.Repository {
	return m.repo
}
