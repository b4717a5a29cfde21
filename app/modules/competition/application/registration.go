package competitionservice

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	competitiondomain "github.com/Protea-Shooting-Federation/psf-backend/app/modules/competition/domain"
	competitiondb "github.com/Protea-Shooting-Federation/psf-backend/app/modules/competition/infrastructure/repositories"
	"github.com/Protea-Shooting-Federation/psf-backend/app/shared/observability/attr"
	"github.com/Protea-Shooting-Federation/psf-backend/app/shared/storage"
)

// Register creates a registration for an authenticated member. The whole
// operation runs in one transaction: status gate, fee computation, entry
// number allocation and the insert. The unique (member, competition,
// discipline) index is the final arbiter against concurrent duplicates.
func (s *CompetitionService) Register(ctx context.Context, memberID uuid.UUID, input RegistrationInput) (*competitiondb.Registration, error) {
	return withTelemetry(s, ctx, "Register", func(ctx context.Context) (*competitiondb.Registration, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (*competitiondb.Registration, error) {
			now := s.now()

			competition, err := s.repo.GetCompetition(ctx, db, input.CompetitionID)
			if err != nil {
				return nil, err
			}

			registered, err := s.repo.CountRegistrations(ctx, db, competition.ID)
			if err != nil {
				return nil, err
			}

			// Server-side gate. The status shown to the browser is advisory;
			// this check is the enforcement point.
			if status := competition.Window(registered).StatusAt(now); status != competitiondomain.StatusOpen {
				return nil, &StatusError{Status: status}
			}

			link, err := s.repo.GetCompetitionDiscipline(ctx, db, competition.ID, input.DisciplineID)
			if err != nil {
				if storage.IsKind(err, storage.KindNotFound) {
					return nil, ErrDisciplineNotOffered
				}
				return nil, err
			}

			if link.MaxEntries != nil {
				disciplineCount, err := s.repo.CountDisciplineRegistrations(ctx, db, competition.ID, input.DisciplineID)
				if err != nil {
					return nil, err
				}
				if disciplineCount >= *link.MaxEntries {
					return nil, ErrDisciplineFull
				}
			}

			profile, err := s.memberRepo.GetProfile(ctx, nil, memberID)
			if err != nil {
				return nil, err
			}
			class, err := profile.AgeClassification(now)
			if err != nil {
				return nil, err
			}

			matchFees, err := s.resolveMatchFees(ctx, db, competition.ID, input.MatchIDs)
			if err != nil {
				return nil, err
			}

			entryNumber, err := s.repo.NextEntryNumber(ctx, db, competition.ID)
			if err != nil {
				return nil, err
			}

			registration := &competitiondb.Registration{
				ID:            uuid.New(),
				MemberID:      memberID,
				CompetitionID: competition.ID,
				DisciplineID:  input.DisciplineID,
				MatchIDs:      input.MatchIDs,
				Status:        competitiondb.RegistrationPending,
				PaymentStatus: competitiondb.PaymentUnpaid,
				EntryNumber:   entryNumber,
				TotalFeeCents: competitiondomain.TotalFee(link.FeeSchedule(), class, matchFees),
			}

			if err := s.repo.CreateRegistration(ctx, db, registration); err != nil {
				if storage.IsKind(err, storage.KindConflict) {
					return nil, ErrAlreadyRegistered
				}
				return nil, err
			}

			s.logger.InfoContext(ctx, "Member registered for competition",
				attr.UUID("member_id", memberID),
				attr.UUID("competition_id", competition.ID),
				attr.Int("entry_number", entryNumber),
			)

			return registration, nil
		})
	})
}

// resolveMatchFees checks the selected matches belong to the competition and
// returns their fees.
func (s *CompetitionService) resolveMatchFees(ctx context.Context, db bun.IDB, competitionID uuid.UUID, matchIDs []uuid.UUID) ([]int64, error) {
	if len(matchIDs) == 0 {
		return nil, nil
	}

	matches, err := s.repo.GetMatches(ctx, db, competitionID, matchIDs)
	if err != nil {
		return nil, err
	}
	if len(matches) != len(matchIDs) {
		return nil, ErrUnknownMatch
	}

	fees := make([]int64, 0, len(matches))
	for _, match := range matches {
		fees = append(fees, match.EntryFeeCents)
	}
	return fees, nil
}

// CancelRegistration marks a registration cancelled. Owners cancel their own;
// administrators cancel any.
func (s *CompetitionService) CancelRegistration(ctx context.Context, actor uuid.UUID, actorIsAdmin bool, registrationID uuid.UUID) error {
	_, err := withTelemetry(s, ctx, "CancelRegistration", func(ctx context.Context) (struct{}, error) {
		registration, err := s.repo.GetRegistration(ctx, nil, registrationID)
		if err != nil {
			return struct{}{}, err
		}
		if !actorIsAdmin && registration.MemberID != actor {
			return struct{}{}, ErrForbidden
		}

		registration.Status = competitiondb.RegistrationCancelled
		return struct{}{}, s.repo.UpdateRegistration(ctx, nil, registration)
	})
	return err
}

// ListRegistrations returns a competition's registrations ordered by entry number.
func (s *CompetitionService) ListRegistrations(ctx context.Context, competitionID uuid.UUID) ([]competitiondb.Registration, error) {
	return withTelemetry(s, ctx, "ListRegistrations", func(ctx context.Context) ([]competitiondb.Registration, error) {
		return s.repo.ListRegistrations(ctx, nil, competitionID)
	})
}

// ListMemberRegistrations returns one member's registrations, newest first.
func (s *CompetitionService) ListMemberRegistrations(ctx context.Context, memberID uuid.UUID) ([]competitiondb.Registration, error) {
	return withTelemetry(s, ctx, "ListMemberRegistrations", func(ctx context.Context) ([]competitiondb.Registration, error) {
		return s.repo.ListMemberRegistrations(ctx, nil, memberID)
	})
}
