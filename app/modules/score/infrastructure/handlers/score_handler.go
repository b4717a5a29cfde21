package scorehandlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	authdomain "github.com/Protea-Shooting-Federation/psf-backend/app/modules/auth/domain"
	authhandlers "github.com/Protea-Shooting-Federation/psf-backend/app/modules/auth/infrastructure/handlers"
	scoreservice "github.com/Protea-Shooting-Federation/psf-backend/app/modules/score/application"
	scoredb "github.com/Protea-Shooting-Federation/psf-backend/app/modules/score/infrastructure/repositories"
	"github.com/Protea-Shooting-Federation/psf-backend/app/shared/httputils"
	"github.com/Protea-Shooting-Federation/psf-backend/app/shared/observability/attr"
)

// isOfficer reports whether the role may submit scores on another member's behalf.
func isOfficer(role authdomain.Role) bool {
	return role == authdomain.RoleRangeOfficer || role == authdomain.RoleStatsOfficer || role.IsAdmin()
}

// HandleSubmit creates a pending score.
func (h *ScoreHandlers) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ctx, span := h.tracer.Start(ctx, "ScoreHandlers.HandleSubmit")
	defer span.End()

	claims := authhandlers.ClaimsFromContext(ctx)
	if claims == nil {
		httputils.RespondError(w, http.StatusUnauthorized, httputils.ErrorBody{Error: "missing bearer token"})
		return
	}

	var input scoreservice.SubmitInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httputils.RespondError(w, http.StatusBadRequest, httputils.ErrorBody{Error: "invalid request body"})
		return
	}
	if input.RegistrationID == uuid.Nil || input.StageID == uuid.Nil {
		httputils.RespondError(w, http.StatusBadRequest, httputils.ErrorBody{Error: "registration_id and stage_id are required"})
		return
	}

	score, err := h.service.Submit(ctx, claims.MemberID, isOfficer(claims.Role), input)
	if err != nil {
		switch {
		case errors.Is(err, scoreservice.ErrForbidden):
			httputils.RespondError(w, http.StatusForbidden, httputils.ErrorBody{Error: "not allowed"})
		case errors.Is(err, scoreservice.ErrStageMismatch),
			errors.Is(err, scoreservice.ErrScoreOutOfRange):
			httputils.RespondError(w, http.StatusBadRequest, httputils.ErrorBody{Error: "invalid data", Details: err.Error()})
		default:
			h.logger.ErrorContext(ctx, "Score submission failed", attr.Error(err))
			httputils.RespondStorageError(w, err)
		}
		return
	}

	httputils.RespondJSON(w, http.StatusCreated, score)
}

// HandleList returns scores matching the query filter. Admin only.
func (h *ScoreHandlers) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter, err := filterFromQuery(r)
	if err != nil {
		httputils.RespondError(w, http.StatusBadRequest, httputils.ErrorBody{Error: err.Error()})
		return
	}

	scores, err := h.service.ListScores(ctx, filter)
	if err != nil {
		httputils.RespondStorageError(w, err)
		return
	}

	httputils.RespondJSON(w, http.StatusOK, scores)
}

// HandleVerify stamps one score verified. Admin only.
func (h *ScoreHandlers) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims := authhandlers.ClaimsFromContext(ctx)
	if claims == nil {
		httputils.RespondError(w, http.StatusUnauthorized, httputils.ErrorBody{Error: "missing bearer token"})
		return
	}

	scoreID, err := uuid.Parse(chi.URLParam(r, "scoreID"))
	if err != nil {
		httputils.RespondError(w, http.StatusBadRequest, httputils.ErrorBody{Error: "invalid score id"})
		return
	}

	score, err := h.service.Verify(ctx, claims.MemberID, scoreID)
	if err != nil {
		httputils.RespondStorageError(w, err)
		return
	}

	httputils.RespondJSON(w, http.StatusOK, score)
}

type bulkVerifyRequest struct {
	ScoreIDs []uuid.UUID `json:"score_ids"`
}

// HandleBulkVerify stamps all selected scores in one write. Admin only.
func (h *ScoreHandlers) HandleBulkVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ctx, span := h.tracer.Start(ctx, "ScoreHandlers.HandleBulkVerify")
	defer span.End()

	claims := authhandlers.ClaimsFromContext(ctx)
	if claims == nil {
		httputils.RespondError(w, http.StatusUnauthorized, httputils.ErrorBody{Error: "missing bearer token"})
		return
	}

	var req bulkVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputils.RespondError(w, http.StatusBadRequest, httputils.ErrorBody{Error: "invalid request body"})
		return
	}

	verified, err := h.service.BulkVerify(ctx, claims.MemberID, req.ScoreIDs)
	if err != nil {
		if errors.Is(err, scoreservice.ErrNoScoresSelected) {
			httputils.RespondError(w, http.StatusBadRequest, httputils.ErrorBody{Error: "no scores selected"})
			return
		}
		h.logger.ErrorContext(ctx, "Bulk verify failed", attr.Error(err))
		httputils.RespondStorageError(w, err)
		return
	}

	httputils.RespondJSON(w, http.StatusOK, map[string]int64{"verified": verified})
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

// HandleReject rejects a score with a reason. Admin only.
func (h *ScoreHandlers) HandleReject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims := authhandlers.ClaimsFromContext(ctx)
	if claims == nil {
		httputils.RespondError(w, http.StatusUnauthorized, httputils.ErrorBody{Error: "missing bearer token"})
		return
	}

	scoreID, err := uuid.Parse(chi.URLParam(r, "scoreID"))
	if err != nil {
		httputils.RespondError(w, http.StatusBadRequest, httputils.ErrorBody{Error: "invalid score id"})
		return
	}

	var req rejectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputils.RespondError(w, http.StatusBadRequest, httputils.ErrorBody{Error: "invalid request body"})
		return
	}

	score, err := h.service.Reject(ctx, claims.MemberID, scoreID, req.Reason)
	if err != nil {
		if errors.Is(err, scoreservice.ErrEmptyReason) {
			httputils.RespondError(w, http.StatusBadRequest, httputils.ErrorBody{Error: "rejection requires a reason"})
			return
		}
		httputils.RespondStorageError(w, err)
		return
	}

	httputils.RespondJSON(w, http.StatusOK, score)
}

// HandleEdit overwrites a score's numeric fields. Admin only.
func (h *ScoreHandlers) HandleEdit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims := authhandlers.ClaimsFromContext(ctx)
	if claims == nil {
		httputils.RespondError(w, http.StatusUnauthorized, httputils.ErrorBody{Error: "missing bearer token"})
		return
	}

	scoreID, err := uuid.Parse(chi.URLParam(r, "scoreID"))
	if err != nil {
		httputils.RespondError(w, http.StatusBadRequest, httputils.ErrorBody{Error: "invalid score id"})
		return
	}

	var input scoreservice.EditInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httputils.RespondError(w, http.StatusBadRequest, httputils.ErrorBody{Error: "invalid request body"})
		return
	}

	score, err := h.service.Edit(ctx, claims.MemberID, scoreID, input)
	if err != nil {
		httputils.RespondStorageError(w, err)
		return
	}

	httputils.RespondJSON(w, http.StatusOK, score)
}

// HandleHistory returns a score's status transition trail. Admin only.
func (h *ScoreHandlers) HandleHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	scoreID, err := uuid.Parse(chi.URLParam(r, "scoreID"))
	if err != nil {
		httputils.RespondError(w, http.StatusBadRequest, httputils.ErrorBody{Error: "invalid score id"})
		return
	}

	history, err := h.service.History(ctx, scoreID)
	if err != nil {
		httputils.RespondStorageError(w, err)
		return
	}

	httputils.RespondJSON(w, http.StatusOK, history)
}

// filterFromQuery parses the shared score filter query parameters.
func filterFromQuery(r *http.Request) (scoredb.Filter, error) {
	var filter scoredb.Filter

	if v := r.URL.Query().Get("competition_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return filter, errors.New("invalid competition_id")
		}
		filter.CompetitionID = id
	}
	if v := r.URL.Query().Get("stage_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return filter, errors.New("invalid stage_id")
		}
		filter.StageID = id
	}
	if v := r.URL.Query().Get("status"); v != "" {
		switch scoredb.ScoreStatus(v) {
		case scoredb.ScorePending, scoredb.ScoreVerified, scoredb.ScoreRejected:
			filter.Status = scoredb.ScoreStatus(v)
		default:
			return filter, errors.New("invalid status")
		}
	}
	for _, raw := range r.URL.Query()["id"] {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, errors.New("invalid id selection")
		}
		filter.IDs = append(filter.IDs, id)
	}

	return filter, nil
}
