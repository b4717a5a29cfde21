// Package bundb owns the Postgres connection and model registration.
package bundb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	competitiondb "github.com/Protea-Shooting-Federation/psf-backend/app/modules/competition/infrastructure/repositories"
	contactdb "github.com/Protea-Shooting-Federation/psf-backend/app/modules/contact/infrastructure/repositories"
	memberdb "github.com/Protea-Shooting-Federation/psf-backend/app/modules/member/infrastructure/repositories"
	scoredb "github.com/Protea-Shooting-Federation/psf-backend/app/modules/score/infrastructure/repositories"
	"github.com/Protea-Shooting-Federation/psf-backend/config"
)

// DBService bundles the connection pool with the per-module repositories.
type DBService struct {
	MemberDB      *memberdb.MemberDBImpl
	CompetitionDB *competitiondb.CompetitionDBImpl
	ScoreDB       *scoredb.ScoreDBImpl
	ContactDB     *contactdb.ContactDBImpl

	db *bun.DB
}

// GetDB returns the underlying database connection pool.
func (s *DBService) GetDB() *bun.DB {
	return s.db
}

// NewBunDBService opens the Postgres pool and registers every model.
func NewBunDBService(ctx context.Context, cfg config.PostgresConfig) (*DBService, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.DSN)))
	if err := sqldb.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := bun.NewDB(sqldb, pgdialect.New())

	db.RegisterModel(
		(*memberdb.Identity)(nil),
		(*memberdb.MemberProfile)(nil),
		(*memberdb.RegistrationDraft)(nil),
		(*memberdb.LoginCode)(nil),
		(*memberdb.RefreshToken)(nil),
		(*competitiondb.Competition)(nil),
		(*competitiondb.Discipline)(nil),
		(*competitiondb.CompetitionDiscipline)(nil),
		(*competitiondb.Match)(nil),
		(*competitiondb.Stage)(nil),
		(*competitiondb.Registration)(nil),
		(*scoredb.Score)(nil),
		(*scoredb.ScoreStatusHistory)(nil),
		(*contactdb.ContactSubmission)(nil),
	)

	return &DBService{
		MemberDB:      &memberdb.MemberDBImpl{DB: db},
		CompetitionDB: &competitiondb.CompetitionDBImpl{DB: db},
		ScoreDB:       &scoredb.ScoreDBImpl{DB: db},
		ContactDB:     &contactdb.ContactDBImpl{DB: db},
		db:            db,
	}, nil
}
