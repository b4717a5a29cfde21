// Package app wires the modules into one HTTP application.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Protea-Shooting-Federation/psf-backend/app/modules/auth"
	"github.com/Protea-Shooting-Federation/psf-backend/app/modules/competition"
	"github.com/Protea-Shooting-Federation/psf-backend/app/modules/contact"
	"github.com/Protea-Shooting-Federation/psf-backend/app/modules/member"
	"github.com/Protea-Shooting-Federation/psf-backend/app/modules/score"
	"github.com/Protea-Shooting-Federation/psf-backend/app/shared/observability"
	"github.com/Protea-Shooting-Federation/psf-backend/config"
	"github.com/Protea-Shooting-Federation/psf-backend/db/bundb"
)

// Modules holds every initialized module.
type Modules struct {
	Auth        *auth.Module
	Member      *member.Module
	Competition *competition.Module
	Score       *score.Module
	Contact     *contact.Module
}

// App is the composition root.
type App struct {
	Config  *config.Config
	Obs     *observability.Observability
	Router  chi.Router
	Modules Modules

	dbService *bundb.DBService
}

// NewApp builds the database service, the router and every module.
// Module order matters: auth needs the member repository, competition needs
// auth, score needs competition.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	obs := observability.New(cfg)

	dbService, err := bundb.NewBunDBService(ctx, cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	authModule, err := auth.NewModule(ctx, cfg, obs, dbService.MemberDB, router)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize auth module: %w", err)
	}

	memberModule, err := member.NewModule(ctx, cfg, obs, dbService.MemberDB, authModule.GetService(), dbService.GetDB(), router)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize member module: %w", err)
	}

	competitionModule, err := competition.NewModule(ctx, cfg, obs, dbService.MemberDB, authModule.GetService(), dbService.GetDB(), router)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize competition module: %w", err)
	}

	scoreModule, err := score.NewModule(ctx, cfg, obs, competitionModule.GetRepository(), authModule.GetService(), dbService.GetDB(), router)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize score module: %w", err)
	}

	contactModule, err := contact.NewModule(ctx, cfg, obs, authModule.GetService(), dbService.GetDB(), router)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize contact module: %w", err)
	}

	obs.ServeMetrics(cfg.Observability.MetricsAddress)

	return &App{
		Config: cfg,
		Obs:    obs,
		Router: router,
		Modules: Modules{
			Auth:        authModule,
			Member:      memberModule,
			Competition: competitionModule,
			Score:       scoreModule,
			Contact:     contactModule,
		},
		dbService: dbService,
	}, nil
}

// DB exposes the database service for shutdown and tests.
func (a *App) DB() *bundb.DBService {
	return a.dbService
}

// Close releases the metrics endpoint and the database pool.
func (a *App) Close(ctx context.Context) error {
	if err := a.Obs.Close(ctx); err != nil {
		return err
	}
	return a.dbService.GetDB().Close()
}
