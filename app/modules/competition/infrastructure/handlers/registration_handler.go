package competitionhandlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	authhandlers "github.com/Protea-Shooting-Federation/psf-backend/app/modules/auth/infrastructure/handlers"
	competitionservice "github.com/Protea-Shooting-Federation/psf-backend/app/modules/competition/application"
	"github.com/Protea-Shooting-Federation/psf-backend/app/shared/httputils"
	"github.com/Protea-Shooting-Federation/psf-backend/app/shared/observability/attr"
)

// HandleRegister registers the authenticated member for a competition discipline.
func (h *CompetitionHandlers) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ctx, span := h.tracer.Start(ctx, "CompetitionHandlers.HandleRegister")
	defer span.End()

	claims := authhandlers.ClaimsFromContext(ctx)
	if claims == nil {
		httputils.RespondError(w, http.StatusUnauthorized, httputils.ErrorBody{Error: "missing bearer token"})
		return
	}

	competitionID, err := uuid.Parse(chi.URLParam(r, "competitionID"))
	if err != nil {
		httputils.RespondError(w, http.StatusBadRequest, httputils.ErrorBody{Error: "invalid competition id"})
		return
	}

	var input competitionservice.RegistrationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httputils.RespondError(w, http.StatusBadRequest, httputils.ErrorBody{Error: "invalid request body"})
		return
	}
	input.CompetitionID = competitionID
	if input.DisciplineID == uuid.Nil {
		httputils.RespondError(w, http.StatusBadRequest, httputils.ErrorBody{Error: "discipline_id is required"})
		return
	}

	registration, err := h.service.Register(ctx, claims.MemberID, input)
	if err != nil {
		var statusErr *competitionservice.StatusError
		switch {
		case errors.As(err, &statusErr):
			httputils.RespondError(w, http.StatusConflict, httputils.ErrorBody{
				Error: "registration is not open",
				Code:  string(statusErr.Status),
			})
		case errors.Is(err, competitionservice.ErrAlreadyRegistered):
			httputils.RespondError(w, http.StatusConflict, httputils.ErrorBody{
				Error: "already registered",
				Hint:  "you already hold an entry for this discipline",
			})
		case errors.Is(err, competitionservice.ErrDisciplineNotOffered),
			errors.Is(err, competitionservice.ErrUnknownMatch):
			httputils.RespondError(w, http.StatusBadRequest, httputils.ErrorBody{Error: "invalid data", Details: err.Error()})
		case errors.Is(err, competitionservice.ErrDisciplineFull):
			httputils.RespondError(w, http.StatusConflict, httputils.ErrorBody{Error: "discipline entry cap reached"})
		default:
			h.logger.ErrorContext(ctx, "Registration failed",
				attr.UUID("member_id", claims.MemberID),
				attr.Error(err),
			)
			httputils.RespondStorageError(w, err)
		}
		return
	}

	httputils.RespondJSON(w, http.StatusCreated, registration)
}

// HandleCancelRegistration cancels a registration. Owner or admin.
func (h *CompetitionHandlers) HandleCancelRegistration(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims := authhandlers.ClaimsFromContext(ctx)
	if claims == nil {
		httputils.RespondError(w, http.StatusUnauthorized, httputils.ErrorBody{Error: "missing bearer token"})
		return
	}

	registrationID, err := uuid.Parse(chi.URLParam(r, "registrationID"))
	if err != nil {
		httputils.RespondError(w, http.StatusBadRequest, httputils.ErrorBody{Error: "invalid registration id"})
		return
	}

	if err := h.service.CancelRegistration(ctx, claims.MemberID, claims.Role.IsAdmin(), registrationID); err != nil {
		if errors.Is(err, competitionservice.ErrForbidden) {
			httputils.RespondError(w, http.StatusForbidden, httputils.ErrorBody{Error: "not allowed"})
			return
		}
		httputils.RespondStorageError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleListRegistrations returns a competition's registrations. Admin only.
func (h *CompetitionHandlers) HandleListRegistrations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	competitionID, err := uuid.Parse(chi.URLParam(r, "competitionID"))
	if err != nil {
		httputils.RespondError(w, http.StatusBadRequest, httputils.ErrorBody{Error: "invalid competition id"})
		return
	}

	registrations, err := h.service.ListRegistrations(ctx, competitionID)
	if err != nil {
		httputils.RespondStorageError(w, err)
		return
	}

	httputils.RespondJSON(w, http.StatusOK, registrations)
}

// HandleListMyRegistrations returns the authenticated member's registrations.
func (h *CompetitionHandlers) HandleListMyRegistrations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims := authhandlers.ClaimsFromContext(ctx)
	if claims == nil {
		httputils.RespondError(w, http.StatusUnauthorized, httputils.ErrorBody{Error: "missing bearer token"})
		return
	}

	registrations, err := h.service.ListMemberRegistrations(ctx, claims.MemberID)
	if err != nil {
		httputils.RespondStorageError(w, err)
		return
	}

	httputils.RespondJSON(w, http.StatusOK, registrations)
}
