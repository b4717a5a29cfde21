package scoreservice

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	scoredb "github.com/Protea-Shooting-Federation/psf-backend/app/modules/score/infrastructure/repositories"
	"github.com/Protea-Shooting-Federation/psf-backend/app/shared/observability/attr"
)

// Submit creates a pending score for a (registration, stage) pair. Duplicate
// submissions for the same pair are allowed; each lands as its own pending row.
func (s *ScoreService) Submit(ctx context.Context, actor uuid.UUID, actorIsOfficer bool, input SubmitInput) (*scoredb.Score, error) {
	return withTelemetry(s, ctx, "Submit", func(ctx context.Context) (*scoredb.Score, error) {
		registration, err := s.competitionRepo.GetRegistration(ctx, nil, input.RegistrationID)
		if err != nil {
			return nil, err
		}
		if !actorIsOfficer && registration.MemberID != actor {
			return nil, ErrForbidden
		}

		stage, err := s.competitionRepo.GetStage(ctx, nil, input.StageID)
		if err != nil {
			return nil, err
		}
		if stage.CompetitionID != registration.CompetitionID {
			return nil, ErrStageMismatch
		}
		if !input.DNF && !input.DQ && (input.Score < 0 || input.Score > stage.MaxScore) {
			return nil, ErrScoreOutOfRange
		}

		score := &scoredb.Score{
			ID:             uuid.New(),
			RegistrationID: input.RegistrationID,
			StageID:        input.StageID,
			Score:          input.Score,
			XCount:         input.XCount,
			VCount:         input.VCount,
			DNF:            input.DNF,
			DQ:             input.DQ,
			Notes:          input.Notes,
			SubmittedAt:    s.now(),
			SubmittedBy:    actor,
		}
		if err := s.repo.CreateScore(ctx, nil, score); err != nil {
			return nil, err
		}

		s.logger.InfoContext(ctx, "Score submitted",
			attr.UUID("score_id", score.ID),
			attr.UUID("registration_id", input.RegistrationID),
		)
		return score, nil
	})
}

// Verify stamps a single score verified. Verifying an already-verified score
// overwrites the stamp.
func (s *ScoreService) Verify(ctx context.Context, adminID, scoreID uuid.UUID) (*scoredb.Score, error) {
	return withTelemetry(s, ctx, "Verify", func(ctx context.Context) (*scoredb.Score, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (*scoredb.Score, error) {
			score, err := s.repo.GetScore(ctx, db, scoreID)
			if err != nil {
				return nil, err
			}
			fromStatus := score.Status()

			now := s.now()
			if _, err := s.repo.VerifyScores(ctx, db, []uuid.UUID{scoreID}, adminID, now); err != nil {
				return nil, err
			}

			if err := s.repo.AddHistory(ctx, db, &scoredb.ScoreStatusHistory{
				ID:         uuid.New(),
				ScoreID:    scoreID,
				FromStatus: fromStatus,
				ToStatus:   scoredb.ScoreVerified,
				ActorID:    adminID,
				CreatedAt:  now,
			}); err != nil {
				return nil, err
			}

			score.VerifiedAt = &now
			score.VerifiedBy = &adminID
			score.RejectionReason = nil
			return score, nil
		})
	})
}

// BulkVerify stamps every selected score in one UPDATE inside a transaction,
// so a partial failure rolls the whole batch back. All rows share the same
// verified_by and verified_at.
func (s *ScoreService) BulkVerify(ctx context.Context, adminID uuid.UUID, scoreIDs []uuid.UUID) (int64, error) {
	return withTelemetry(s, ctx, "BulkVerify", func(ctx context.Context) (int64, error) {
		if len(scoreIDs) == 0 {
			return 0, ErrNoScoresSelected
		}

		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (int64, error) {
			// Snapshot current statuses for the history trail before the batch
			// write flattens them.
			scores, err := s.repo.ListScores(ctx, db, scoredb.Filter{IDs: scoreIDs})
			if err != nil {
				return 0, err
			}

			now := s.now()
			rows, err := s.repo.VerifyScores(ctx, db, scoreIDs, adminID, now)
			if err != nil {
				return 0, err
			}

			for i := range scores {
				if err := s.repo.AddHistory(ctx, db, &scoredb.ScoreStatusHistory{
					ID:         uuid.New(),
					ScoreID:    scores[i].ID,
					FromStatus: scores[i].Status(),
					ToStatus:   scoredb.ScoreVerified,
					ActorID:    adminID,
					CreatedAt:  now,
				}); err != nil {
					return 0, err
				}
			}

			s.logger.InfoContext(ctx, "Bulk verified scores",
				attr.UUID("verified_by", adminID),
				attr.Int("count", int(rows)),
			)
			return rows, nil
		})
	})
}

// Reject clears the verification stamps, records the reason and prefixes the
// notes with the REJECTED tag. The structured reason and history entry survive
// later edits to the notes.
func (s *ScoreService) Reject(ctx context.Context, adminID, scoreID uuid.UUID, reason string) (*scoredb.Score, error) {
	return withTelemetry(s, ctx, "Reject", func(ctx context.Context) (*scoredb.Score, error) {
		reason = strings.TrimSpace(reason)
		if reason == "" {
			return nil, ErrEmptyReason
		}

		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (*scoredb.Score, error) {
			score, err := s.repo.GetScore(ctx, db, scoreID)
			if err != nil {
				return nil, err
			}
			fromStatus := score.Status()

			notes := "REJECTED: " + reason
			if score.Notes != "" {
				notes += "\nPrevious notes: " + score.Notes
			}

			score.VerifiedAt = nil
			score.VerifiedBy = nil
			score.RejectionReason = &reason
			score.Notes = notes
			if err := s.repo.UpdateScore(ctx, db, score); err != nil {
				return nil, err
			}

			if err := s.repo.AddHistory(ctx, db, &scoredb.ScoreStatusHistory{
				ID:         uuid.New(),
				ScoreID:    scoreID,
				FromStatus: fromStatus,
				ToStatus:   scoredb.ScoreRejected,
				Reason:     &reason,
				ActorID:    adminID,
				CreatedAt:  s.now(),
			}); err != nil {
				return nil, err
			}

			return score, nil
		})
	})
}

// Edit overwrites the numeric fields. Editing a verified score clears the
// stamps and returns it to pending so the new values get re-reviewed.
func (s *ScoreService) Edit(ctx context.Context, adminID, scoreID uuid.UUID, input EditInput) (*scoredb.Score, error) {
	return withTelemetry(s, ctx, "Edit", func(ctx context.Context) (*scoredb.Score, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (*scoredb.Score, error) {
			score, err := s.repo.GetScore(ctx, db, scoreID)
			if err != nil {
				return nil, err
			}
			wasVerified := score.Status() == scoredb.ScoreVerified

			score.Score = input.Score
			score.XCount = input.XCount
			score.VCount = input.VCount
			if wasVerified {
				score.VerifiedAt = nil
				score.VerifiedBy = nil
			}

			if err := s.repo.UpdateScore(ctx, db, score); err != nil {
				return nil, err
			}

			if wasVerified {
				reason := "edited after verification"
				if err := s.repo.AddHistory(ctx, db, &scoredb.ScoreStatusHistory{
					ID:         uuid.New(),
					ScoreID:    scoreID,
					FromStatus: scoredb.ScoreVerified,
					ToStatus:   scoredb.ScorePending,
					Reason:     &reason,
					ActorID:    adminID,
					CreatedAt:  s.now(),
				}); err != nil {
					return nil, err
				}
			}

			return score, nil
		})
	})
}

// ListScores returns scores matching the filter, oldest submission first.
func (s *ScoreService) ListScores(ctx context.Context, filter scoredb.Filter) ([]scoredb.Score, error) {
	return withTelemetry(s, ctx, "ListScores", func(ctx context.Context) ([]scoredb.Score, error) {
		return s.repo.ListScores(ctx, nil, filter)
	})
}

// History returns a score's status transitions, oldest first.
func (s *ScoreService) History(ctx context.Context, scoreID uuid.UUID) ([]scoredb.ScoreStatusHistory, error) {
	return withTelemetry(s, ctx, "History", func(ctx context.Context) ([]scoredb.ScoreStatusHistory, error) {
		return s.repo.ListHistory(ctx, nil, scoreID)
	})
}
