package contactservice

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	contactdomain "github.com/Protea-Shooting-Federation/psf-backend/app/modules/contact/domain"
	contactdb "github.com/Protea-Shooting-Federation/psf-backend/app/modules/contact/infrastructure/repositories"
	"github.com/Protea-Shooting-Federation/psf-backend/app/shared/observability"
	"github.com/Protea-Shooting-Federation/psf-backend/app/shared/observability/attr"
)

const moduleName = "contact"

// ContactService implements the Service interface.
type ContactService struct {
	repo    contactdb.Repository
	logger  *slog.Logger
	metrics *observability.Metrics
	tracer  trace.Tracer

	// now is swappable for tests.
	now func() time.Time
}

// NewContactService creates a new ContactService.
func NewContactService(repo contactdb.Repository, obs *observability.Observability) *ContactService {
	return &ContactService{
		repo:    repo,
		logger:  obs.Logger,
		metrics: obs.Metrics,
		tracer:  obs.Tracer,
		now:     time.Now,
	}
}

// operationFunc is the generic signature for service operation functions.
type operationFunc[T any] func(ctx context.Context) (T, error)

// withTelemetry wraps a service operation with tracing, metrics and panic recovery.
func withTelemetry[T any](
	s *ContactService,
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

// Submit validates and stores a public contact message, tagged unread.
func (s *ContactService) Submit(ctx context.Context, form contactdomain.ContactForm) (*contactdb.ContactSubmission, error) {
	return withTelemetry(s, ctx, "Submit", func(ctx context.Context) (*contactdb.ContactSubmission, error) {
		if fe := form.Validate(); fe != nil {
			return nil, fe
		}

		submission := &contactdb.ContactSubmission{
			ID:        uuid.New(),
			Name:      form.Name,
			Email:     form.Email,
			Phone:     form.Phone,
			Subject:   form.Subject,
			Message:   form.Message,
			Unread:    true,
			CreatedAt: s.now(),
		}
		if err := s.repo.CreateSubmission(ctx, nil, submission); err != nil {
			return nil, err
		}

		s.logger.InfoContext(ctx, "Contact submission received",
			attr.UUID("submission_id", submission.ID),
		)
		return submission, nil
	})
}

// List returns submissions, newest first.
func (s *ContactService) List(ctx context.Context, unreadOnly bool) ([]contactdb.ContactSubmission, error) {
	return withTelemetry(s, ctx, "List", func(ctx context.Context) ([]contactdb.ContactSubmission, error) {
		return s.repo.ListSubmissions(ctx, nil, unreadOnly)
	})
}

// MarkRead clears the unread flag and returns the updated submission.
func (s *ContactService) MarkRead(ctx context.Context, id uuid.UUID) (*contactdb.ContactSubmission, error) {
	return withTelemetry(s, ctx, "MarkRead", func(ctx context.Context) (*contactdb.ContactSubmission, error) {
		if err := s.repo.MarkRead(ctx, nil, id); err != nil {
			return nil, err
		}
		return s.repo.GetSubmission(ctx, nil, id)
	})
}
