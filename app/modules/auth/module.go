package auth

import (
	"context"
	"log/slog"
	"strings"

	"github.com/go-chi/chi/v5"

	authservice "github.com/Protea-Shooting-Federation/psf-backend/app/modules/auth/application"
	authhandlers "github.com/Protea-Shooting-Federation/psf-backend/app/modules/auth/infrastructure/handlers"
	authjwt "github.com/Protea-Shooting-Federation/psf-backend/app/modules/auth/infrastructure/jwt"
	memberdb "github.com/Protea-Shooting-Federation/psf-backend/app/modules/member/infrastructure/repositories"
	"github.com/Protea-Shooting-Federation/psf-backend/app/shared/observability"
	"github.com/Protea-Shooting-Federation/psf-backend/config"
)

// Module represents the auth module.
type Module struct {
	config   *config.Config
	service  authservice.Service
	handlers *authhandlers.AuthHandlers
	logger   *slog.Logger
}

// NewModule creates a new auth module and registers its HTTP routes.
func NewModule(
	ctx context.Context,
	cfg *config.Config,
	obs *observability.Observability,
	memberRepo memberdb.Repository,
	httpRouter chi.Router,
) (*Module, error) {
	logger := obs.Logger
	tracer := obs.Tracer

	logger.InfoContext(ctx, "Initializing auth module")

	jwtProvider := authjwt.NewProvider(cfg.JWT.Secret)

	service := authservice.NewAuthService(
		jwtProvider,
		memberRepo,
		authservice.Config{
			AccessTTL:  cfg.JWT.DefaultTTL,
			RefreshTTL: cfg.JWT.RefreshTTL,
		},
		logger,
		tracer,
	)

	// Use secure cookies unless in development or serving plain HTTP.
	secureCookies := cfg.Observability.Environment != "development"
	if strings.Contains(cfg.HTTP.BaseURL, "localhost") || strings.HasPrefix(cfg.HTTP.BaseURL, "http://") {
		secureCookies = false
	}

	handlers := authhandlers.NewAuthHandlers(service, logger, tracer, secureCookies)

	if httpRouter != nil {
		limiter := authhandlers.NewIPRateLimiter(5, 10)
		httpRouter.Route("/api/auth", func(r chi.Router) {
			r.Use(authhandlers.CORSMiddleware(cfg.HTTP.AllowedOrigins))
			r.Use(authhandlers.RateLimitMiddleware(limiter))

			// Public routes
			r.Post("/login", handlers.HandleLogin)
			r.Get("/callback", handlers.HandleCallback)
			r.Post("/refresh", handlers.HandleRefresh)
			r.Post("/logout", handlers.HandleLogout)

			// Protected routes
			r.Group(func(r chi.Router) {
				r.Use(authhandlers.RequireAuth(service))
				r.Get("/me", handlers.HandleMe)
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

// GetService returns the auth service for use by other modules.
func (m *Module) GetService() authservice.Service {
	return m.service
}
