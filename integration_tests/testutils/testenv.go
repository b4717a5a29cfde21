package testutils

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"

	competitionservice "github.com/Protea-Shooting-Federation/psf-backend/app/modules/competition/application"
	competitiondb "github.com/Protea-Shooting-Federation/psf-backend/app/modules/competition/infrastructure/repositories"
	competitionmigrations "github.com/Protea-Shooting-Federation/psf-backend/app/modules/competition/infrastructure/repositories/migrations"
	contactmigrations "github.com/Protea-Shooting-Federation/psf-backend/app/modules/contact/infrastructure/repositories/migrations"
	memberservice "github.com/Protea-Shooting-Federation/psf-backend/app/modules/member/application"
	membermigrations "github.com/Protea-Shooting-Federation/psf-backend/app/modules/member/infrastructure/repositories/migrations"
	scoreservice "github.com/Protea-Shooting-Federation/psf-backend/app/modules/score/application"
	scoredb "github.com/Protea-Shooting-Federation/psf-backend/app/modules/score/infrastructure/repositories"
	scoremigrations "github.com/Protea-Shooting-Federation/psf-backend/app/modules/score/infrastructure/repositories/migrations"
	"github.com/Protea-Shooting-Federation/psf-backend/app/shared/observability"
	"github.com/Protea-Shooting-Federation/psf-backend/config"
	"github.com/Protea-Shooting-Federation/psf-backend/db/bundb"
	"github.com/Protea-Shooting-Federation/psf-backend/integration_tests/containers"
)

// TestEnvironment bundles a migrated Postgres instance and the services wired
// against it. One environment is shared per test binary; tests isolate through
// unique member numbers and emails from the data generator.
type TestEnvironment struct {
	DB        *bun.DB
	DBService *bundb.DBService
	Obs       *observability.Observability

	MemberService      *memberservice.MemberService
	CompetitionService *competitionservice.CompetitionService
	ScoreService       *scoreservice.ScoreService

	container *postgres.PostgresContainer
}

var (
	envOnce sync.Once
	env     *TestEnvironment
	envErr  error
)

// GetTestEnvironment starts (once) the shared Postgres container, runs every
// module's migrations in dependency order and wires the services.
func GetTestEnvironment(ctx context.Context) (*TestEnvironment, error) {
	envOnce.Do(func() {
		env, envErr = newTestEnvironment(ctx)
	})
	return env, envErr
}

func newTestEnvironment(ctx context.Context) (*TestEnvironment, error) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	var container *postgres.PostgresContainer
	if dsn == "" {
		var err error
		container, dsn, err = containers.SetupPostgresContainer(ctx)
		if err != nil {
			return nil, err
		}
	}

	dbService, err := bundb.NewBunDBService(ctx, config.PostgresConfig{DSN: dsn})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test database: %w", err)
	}
	db := dbService.GetDB()

	if err := runMigrations(ctx, db); err != nil {
		return nil, err
	}

	obs := observability.NewForTest()

	memberSvc := memberservice.NewMemberService(dbService.MemberDB, obs, db, config.RegistrationConfig{
		IdentityWaitAttempts: 3,
		IdentityWaitDelay:    10 * time.Millisecond,
		ProvisionAttempts:    3,
	})
	competitionSvc := competitionservice.NewCompetitionService(dbService.CompetitionDB, dbService.MemberDB, obs, db)
	scoreSvc := scoreservice.NewScoreService(dbService.ScoreDB, dbService.CompetitionDB, obs, db)

	return &TestEnvironment{
		DB:                 db,
		DBService:          dbService,
		Obs:                obs,
		MemberService:      memberSvc,
		CompetitionService: competitionSvc,
		ScoreService:       scoreSvc,
		container:          container,
	}, nil
}

func runMigrations(ctx context.Context, db *bun.DB) error {
	// Same order as cmd/bun: scores depend on registrations, registrations
	// on profiles.
	sets := []struct {
		name       string
		migrations *migrate.Migrations
	}{
		{"member", membermigrations.Migrations},
		{"competition", competitionmigrations.Migrations},
		{"score", scoremigrations.Migrations},
		{"contact", contactmigrations.Migrations},
	}

	for _, set := range sets {
		migrator := migrate.NewMigrator(db, set.migrations)
		if err := migrator.Init(ctx); err != nil {
			return fmt.Errorf("init %s migrations: %w", set.name, err)
		}
		if _, err := migrator.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate %s: %w", set.name, err)
		}
	}
	return nil
}

// Close terminates the container when one was started.
func (e *TestEnvironment) Close(ctx context.Context) error {
	if err := e.DB.Close(); err != nil {
		return err
	}
	if e.container != nil {
		return e.container.Terminate(ctx)
	}
	return nil
}

// CompetitionRepo exposes the raw repository for test fixtures.
func (e *TestEnvironment) CompetitionRepo() *competitiondb.CompetitionDBImpl {
	return e.DBService.CompetitionDB
}

// ScoreRepo exposes the raw repository for test fixtures.
func (e *TestEnvironment) ScoreRepo() *scoredb.ScoreDBImpl {
	return e.DBService.ScoreDB
}
