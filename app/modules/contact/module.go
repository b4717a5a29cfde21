package contact

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"

	authservice "github.com/Protea-Shooting-Federation/psf-backend/app/modules/auth/application"
	authhandlers "github.com/Protea-Shooting-Federation/psf-backend/app/modules/auth/infrastructure/handlers"
	contactservice "github.com/Protea-Shooting-Federation/psf-backend/app/modules/contact/application"
	contacthandlers "github.com/Protea-Shooting-Federation/psf-backend/app/modules/contact/infrastructure/handlers"
	contactdb "github.com/Protea-Shooting-Federation/psf-backend/app/modules/contact/infrastructure/repositories"
	"github.com/Protea-Shooting-Federation/psf-backend/app/shared/observability"
	"github.com/Protea-Shooting-Federation/psf-backend/config"
)

// Module represents the contact module.
type Module struct {
	config   *config.Config
	service  contactservice.Service
	handlers *contacthandlers.ContactHandlers
	logger   *slog.Logger
}

// NewModule creates a new contact module and registers its HTTP routes.
func NewModule(
	ctx context.Context,
	cfg *config.Config,
	obs *observability.Observability,
	authSvc authservice.Service,
	db *bun.DB,
	httpRouter chi.Router,
) (*Module, error) {
	logger := obs.Logger

	logger.InfoContext(ctx, "Initializing contact module")

	repo := &contactdb.ContactDBImpl{DB: db}
	service := contactservice.NewContactService(repo, obs)
	handlers := contacthandlers.NewContactHandlers(service, logger, obs.Tracer)

	if httpRouter != nil {
		httpRouter.Route("/api/contact", func(r chi.Router) {
			r.Use(authhandlers.CORSMiddleware(cfg.HTTP.AllowedOrigins))

			// Public write, rate limited per IP.
			limiter := authhandlers.NewIPRateLimiter(2, 5)
			r.Group(func(r chi.Router) {
				r.Use(authhandlers.RateLimitMiddleware(limiter))
				r.Post("/", handlers.HandleSubmit)
			})

			// Admin inbox
			r.Group(func(r chi.Router) {
				r.Use(authhandlers.RequireAuth(authSvc))
				r.Use(authhandlers.RequireAdmin())
				r.Get("/", handlers.HandleList)
				r.Post("/{submissionID}/read", handlers.HandleMarkRead)
			})
		})
	}

	return &Module{
		config:   cfg,
		service:  service,
		handlers: handlers,
		logger:   logger,
	}, nil
}

// GetService returns the contact service.
func (m *Module) GetService() contactservice.Service {
	return m.service
}
