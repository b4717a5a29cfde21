package memberhandlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	memberservice "github.com/Protea-Shooting-Federation/psf-backend/app/modules/member/application"
	memberdomain "github.com/Protea-Shooting-Federation/psf-backend/app/modules/member/domain"
	"github.com/Protea-Shooting-Federation/psf-backend/app/shared/httputils"
	"github.com/Protea-Shooting-Federation/psf-backend/app/shared/observability/attr"
	"github.com/Protea-Shooting-Federation/psf-backend/app/shared/storage"
)

type validateStepRequest struct {
	Step int                           `json:"step"`
	Form memberdomain.RegistrationForm `json:"form"`
}

type validateStepResponse struct {
	Valid  bool                     `json:"valid"`
	Errors memberdomain.FieldErrors `json:"errors,omitempty"`
}

// HandleValidateStep validates one wizard step's field subset.
func (h *MemberHandlers) HandleValidateStep(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req validateStepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputils.RespondError(w, http.StatusBadRequest, httputils.ErrorBody{Error: "invalid request body"})
		return
	}

	fe := h.service.ValidateStep(ctx, &req.Form, memberdomain.Step(req.Step))
	if fe != nil {
		httputils.RespondJSON(w, http.StatusBadRequest, validateStepResponse{Valid: false, Errors: fe})
		return
	}
	httputils.RespondJSON(w, http.StatusOK, validateStepResponse{Valid: true})
}

// HandleMemberNumberAvailable reports whether a member number is still free.
// The answer is advisory; the unique index decides at submission time.
func (h *MemberHandlers) HandleMemberNumberAvailable(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	memberNumber := chi.URLParam(r, "memberNumber")
	if memberNumber == "" {
		httputils.RespondError(w, http.StatusBadRequest, httputils.ErrorBody{Error: "missing member number"})
		return
	}

	available, err := h.service.MemberNumberAvailable(ctx, memberNumber)
	if err != nil {
		h.logger.ErrorContext(ctx, "Member number check failed", attr.Error(err))
		httputils.RespondStorageError(w, err)
		return
	}

	httputils.RespondJSON(w, http.StatusOK, map[string]bool{"available": available})
}

type saveDraftRequest struct {
	Token *uuid.UUID                    `json:"token,omitempty"`
	Form  memberdomain.RegistrationForm `json:"form"`
}

// HandleSaveDraft persists the wizard state under a draft token. A missing
// token mints a new one, which the client keeps for later loads.
func (h *MemberHandlers) HandleSaveDraft(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req saveDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputils.RespondError(w, http.StatusBadRequest, httputils.ErrorBody{Error: "invalid request body"})
		return
	}

	token := uuid.New()
	if req.Token != nil {
		token = *req.Token
	}

	if err := h.service.SaveDraft(ctx, token, &req.Form); err != nil {
		h.logger.ErrorContext(ctx, "Failed to save draft", attr.Error(err))
		httputils.RespondStorageError(w, err)
		return
	}

	httputils.RespondJSON(w, http.StatusOK, map[string]string{"token": token.String()})
}

// HandleLoadDraft returns the stored wizard state for a draft token.
func (h *MemberHandlers) HandleLoadDraft(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token, err := uuid.Parse(chi.URLParam(r, "token"))
	if err != nil {
		httputils.RespondError(w, http.StatusBadRequest, httputils.ErrorBody{Error: "invalid draft token"})
		return
	}

	form, savedAt, err := h.service.LoadDraft(ctx, token)
	if err != nil {
		if errors.Is(err, memberservice.ErrDraftNotFound) {
			httputils.RespondError(w, http.StatusNotFound, httputils.ErrorBody{Error: "draft not found"})
			return
		}
		h.logger.ErrorContext(ctx, "Failed to load draft", attr.Error(err))
		httputils.RespondStorageError(w, err)
		return
	}

	httputils.RespondJSON(w, http.StatusOK, struct {
		Form    *memberdomain.RegistrationForm `json:"form"`
		SavedAt time.Time                      `json:"saved_at"`
	}{Form: form, SavedAt: savedAt})
}

// HandleClearDraft removes a draft. Clearing a missing draft succeeds.
func (h *MemberHandlers) HandleClearDraft(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token, err := uuid.Parse(chi.URLParam(r, "token"))
	if err != nil {
		httputils.RespondError(w, http.StatusBadRequest, httputils.ErrorBody{Error: "invalid draft token"})
		return
	}

	if err := h.service.ClearDraft(ctx, token); err != nil {
		h.logger.ErrorContext(ctx, "Failed to clear draft", attr.Error(err))
		httputils.RespondStorageError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type registerRequest struct {
	Form       memberdomain.RegistrationForm `json:"form"`
	DraftToken *uuid.UUID                    `json:"draft_token,omitempty"`
}

// HandleRegister runs the full registration submission.
func (h *MemberHandlers) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ctx, span := h.tracer.Start(ctx, "MemberHandlers.HandleRegister")
	defer span.End()

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputils.RespondError(w, http.StatusBadRequest, httputils.ErrorBody{Error: "invalid request body"})
		return
	}

	result, err := h.service.Register(ctx, &req.Form, req.DraftToken)
	if err != nil {
		var fe memberdomain.FieldErrors
		switch {
		case errors.As(err, &fe):
			httputils.RespondJSON(w, http.StatusBadRequest, validateStepResponse{Valid: false, Errors: fe})
		case errors.Is(err, memberservice.ErrMemberNumberTaken):
			httputils.RespondError(w, http.StatusConflict, httputils.ErrorBody{
				Error: "already registered",
				Code:  storage.KindConflict.String(),
				Hint:  "this member number is taken, check it or contact support",
			})
		case errors.Is(err, memberservice.ErrEmailTaken):
			httputils.RespondError(w, http.StatusConflict, httputils.ErrorBody{
				Error: "already registered",
				Code:  storage.KindConflict.String(),
				Hint:  "an account with this email exists, sign in instead",
			})
		case errors.Is(err, memberservice.ErrIdentityNotVisible):
			httputils.RespondError(w, http.StatusInternalServerError, httputils.ErrorBody{
				Error: "registration incomplete",
				Hint:  "your account was created but setup did not finish, contact support",
			})
		default:
			h.logger.ErrorContext(ctx, "Registration failed", attr.Error(err))
			httputils.RespondStorageError(w, err)
		}
		return
	}

	httputils.RespondJSON(w, http.StatusCreated, result)
}
