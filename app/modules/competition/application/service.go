package competitionservice

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	competitiondb "github.com/Protea-Shooting-Federation/psf-backend/app/modules/competition/infrastructure/repositories"
	memberdb "github.com/Protea-Shooting-Federation/psf-backend/app/modules/member/infrastructure/repositories"
	"github.com/Protea-Shooting-Federation/psf-backend/app/shared/observability"
	"github.com/Protea-Shooting-Federation/psf-backend/app/shared/observability/attr"
)

const moduleName = "competition"

// CompetitionService implements the Service interface. It reads member
// profiles through the member repository for age-class fee resolution.
type CompetitionService struct {
	repo       competitiondb.Repository
	memberRepo memberdb.Repository
	logger     *slog.Logger
	metrics    *observability.Metrics
	tracer     trace.Tracer
	db         *bun.DB

	// now is swappable for tests.
	now func() time.Time
}

// NewCompetitionService creates a new CompetitionService.
func NewCompetitionService(
	repo competitiondb.Repository,
	memberRepo memberdb.Repository,
	obs *observability.Observability,
	db *bun.DB,
) *CompetitionService {
	return &CompetitionService{
		repo:       repo,
		memberRepo: memberRepo,
		logger:     obs.Logger,
		metrics:    obs.Metrics,
		tracer:     obs.Tracer,
		db:         db,
		now:        time.Now,
	}
}

// operationFunc is the generic signature for service operation functions.
type operationFunc[T any] func(ctx context.Context) (T, error)

// withTelemetry wraps a service operation with tracing, metrics and panic recovery.
func withTelemetry[T any](
	s *CompetitionService,
	ctx context.Context,
	operationName string,
	op operationFunc[T],
) (result T, err error) {
	ctx, span := s.tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("operation", operationName),
	))
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, moduleName, operationName)

	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, moduleName, operationName, time.Since(startTime))
	}()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.String("operation", operationName),
				attr.Error(err),
			)
			s.metrics.RecordOperationFailure(ctx, moduleName, operationName)
			span.RecordError(err)
		}
	}()

	result, err = op(ctx)

	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed",
			attr.String("operation", operationName),
			attr.Error(wrappedErr),
		)
		s.metrics.RecordOperationFailure(ctx, moduleName, operationName)
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	s.metrics.RecordOperationSuccess(ctx, moduleName, operationName)
	return result, nil
}

// runInTx ensures the operation runs within a transaction.
func runInTx[T any](
	s *CompetitionService,
	ctx context.Context,
	fn func(ctx context.Context, db bun.IDB) (T, error),
) (T, error) {
	if s.db == nil {
		return fn(ctx, nil)
	}

	var result T
	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		return txErr
	})

	return result, err
}
