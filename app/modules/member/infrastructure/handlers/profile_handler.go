package memberhandlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	authhandlers "github.com/Protea-Shooting-Federation/psf-backend/app/modules/auth/infrastructure/handlers"
	memberservice "github.com/Protea-Shooting-Federation/psf-backend/app/modules/member/application"
	memberdb "github.com/Protea-Shooting-Federation/psf-backend/app/modules/member/infrastructure/repositories"
	"github.com/Protea-Shooting-Federation/psf-backend/app/shared/httputils"
	"github.com/Protea-Shooting-Federation/psf-backend/app/shared/observability/attr"
)

// HandleGetProfile returns a member profile. Members read their own profile;
// administrators read any.
func (h *MemberHandlers) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "memberID"))
	if err != nil {
		httputils.RespondError(w, http.StatusBadRequest, httputils.ErrorBody{Error: "invalid member id"})
		return
	}

	claims := authhandlers.ClaimsFromContext(ctx)
	if claims == nil {
		httputils.RespondError(w, http.StatusUnauthorized, httputils.ErrorBody{Error: "missing bearer token"})
		return
	}
	if claims.MemberID != id && !claims.Role.IsAdmin() {
		httputils.RespondError(w, http.StatusForbidden, httputils.ErrorBody{Error: "not allowed"})
		return
	}

	profile, err := h.service.GetProfile(ctx, id)
	if err != nil {
		httputils.RespondStorageError(w, err)
		return
	}

	httputils.RespondJSON(w, http.StatusOK, profile)
}

// HandleUpdateProfile mutates a profile. Owners cannot change their role or
// member number; administrators can.
func (h *MemberHandlers) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "memberID"))
	if err != nil {
		httputils.RespondError(w, http.StatusBadRequest, httputils.ErrorBody{Error: "invalid member id"})
		return
	}

	claims := authhandlers.ClaimsFromContext(ctx)
	if claims == nil {
		httputils.RespondError(w, http.StatusUnauthorized, httputils.ErrorBody{Error: "missing bearer token"})
		return
	}

	var profile memberdb.MemberProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		httputils.RespondError(w, http.StatusBadRequest, httputils.ErrorBody{Error: "invalid request body"})
		return
	}
	profile.ID = id

	updated, err := h.service.UpdateProfile(ctx, claims.MemberID, claims.Role.IsAdmin(), &profile)
	if err != nil {
		if errors.Is(err, memberservice.ErrForbidden) {
			httputils.RespondError(w, http.StatusForbidden, httputils.ErrorBody{Error: "not allowed"})
			return
		}
		h.logger.ErrorContext(ctx, "Profile update failed",
			attr.UUID("member_id", id),
			attr.Error(err),
		)
		httputils.RespondStorageError(w, err)
		return
	}

	httputils.RespondJSON(w, http.StatusOK, updated)
}

// HandleListOrphanIdentities lists identities with no provisioned profile.
// Admin-only; used for manual reconciliation of interrupted registrations.
func (h *MemberHandlers) HandleListOrphanIdentities(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orphans, err := h.service.ListOrphanIdentities(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to list orphan identities", attr.Error(err))
		httputils.RespondStorageError(w, err)
		return
	}

	httputils.RespondJSON(w, http.StatusOK, orphans)
}
