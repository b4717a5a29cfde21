package member

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"

	authservice "github.com/Protea-Shooting-Federation/psf-backend/app/modules/auth/application"
	authhandlers "github.com/Protea-Shooting-Federation/psf-backend/app/modules/auth/infrastructure/handlers"
	memberservice "github.com/Protea-Shooting-Federation/psf-backend/app/modules/member/application"
	memberhandlers "github.com/Protea-Shooting-Federation/psf-backend/app/modules/member/infrastructure/handlers"
	memberdb "github.com/Protea-Shooting-Federation/psf-backend/app/modules/member/infrastructure/repositories"
	"github.com/Protea-Shooting-Federation/psf-backend/app/shared/observability"
	"github.com/Protea-Shooting-Federation/psf-backend/config"
)

// Module represents the member module.
type Module struct {
	config   *config.Config
	service  memberservice.Service
	handlers *memberhandlers.MemberHandlers
	logger   *slog.Logger
}

// NewModule creates a new member module and registers its HTTP routes.
func NewModule(
	ctx context.Context,
	cfg *config.Config,
	obs *observability.Observability,
	repo memberdb.Repository,
	authSvc authservice.Service,
	db *bun.DB,
	httpRouter chi.Router,
) (*Module, error) {
	logger := obs.Logger

	logger.InfoContext(ctx, "Initializing member module")

	service := memberservice.NewMemberService(repo, obs, db, cfg.Registration)
	handlers := memberhandlers.NewMemberHandlers(service, logger, obs.Tracer)

	if httpRouter != nil {
		// Registration endpoints are public and abuse-prone, so they get a
		// tighter limiter than the rest of the API.
		limiter := authhandlers.NewIPRateLimiter(2, 10)

		httpRouter.Route("/api/register", func(r chi.Router) {
			r.Use(authhandlers.CORSMiddleware(cfg.HTTP.AllowedOrigins))
			r.Use(authhandlers.RateLimitMiddleware(limiter))

			r.Post("/", handlers.HandleRegister)
			r.Post("/validate-step", handlers.HandleValidateStep)
			r.Get("/member-number/{memberNumber}/available", handlers.HandleMemberNumberAvailable)

			r.Post("/draft", handlers.HandleSaveDraft)
			r.Get("/draft/{token}", handlers.HandleLoadDraft)
			r.Delete("/draft/{token}", handlers.HandleClearDraft)
		})

		httpRouter.Route("/api/members", func(r chi.Router) {
			r.Use(authhandlers.CORSMiddleware(cfg.HTTP.AllowedOrigins))
			r.Use(authhandlers.RequireAuth(authSvc))

			r.Get("/{memberID}", handlers.HandleGetProfile)
			r.Put("/{memberID}", handlers.HandleUpdateProfile)

			r.Group(func(r chi.Router) {
				r.Use(authhandlers.RequireAdmin())
				r.Get("/orphan-identities", handlers.HandleListOrphanIdentities)
			})
		})

		// Server-to-server provisioning, shared-secret guarded.
		httpRouter.Route("/api/internal", func(r chi.Router) {
			r.Use(authhandlers.InternalTokenMiddleware(cfg.HTTP.InternalToken))
			r.Post("/provision", handlers.HandleProvision)
		})
	}

	return &Module{
		config:   cfg,
		service:  service,
		handlers: handlers,
		logger:   logger,
	}, nil
}

// GetService returns the member service for use by other modules.
func (m *Module) GetService() memberservice.Service {
	return m.service
}
