package memberhandlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	memberservice "github.com/Protea-Shooting-Federation/psf-backend/app/modules/member/application"
	memberdb "github.com/Protea-Shooting-Federation/psf-backend/app/modules/member/infrastructure/repositories"
	"github.com/Protea-Shooting-Federation/psf-backend/app/shared/httputils"
	"github.com/Protea-Shooting-Federation/psf-backend/app/shared/observability/attr"
	"github.com/Protea-Shooting-Federation/psf-backend/app/shared/storage"
)

type provisionRequest struct {
	UserID      string                 `json:"userId"`
	ProfileData *memberdb.MemberProfile `json:"profileData"`
}

type provisionSuccess struct {
	Success bool                   `json:"success"`
	Data    *memberdb.MemberProfile `json:"data"`
}

// HandleProvision is the server-to-server profile provisioning endpoint. It is
// guarded by the internal token middleware and runs the same bounded retry and
// role clamp as the registration flow.
func (h *MemberHandlers) HandleProvision(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ctx, span := h.tracer.Start(ctx, "MemberHandlers.HandleProvision")
	defer span.End()

	var req provisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputils.RespondError(w, http.StatusBadRequest, httputils.ErrorBody{Error: "invalid request body"})
		return
	}
	if req.ProfileData == nil {
		httputils.RespondError(w, http.StatusBadRequest, httputils.ErrorBody{Error: "missing profileData"})
		return
	}

	identityID, err := uuid.Parse(req.UserID)
	if err != nil {
		httputils.RespondError(w, http.StatusBadRequest, httputils.ErrorBody{Error: "invalid userId"})
		return
	}

	profile, err := h.service.ProvisionProfile(ctx, identityID, req.ProfileData)
	if err != nil {
		if errors.Is(err, memberservice.ErrMemberNumberTaken) {
			httputils.RespondError(w, http.StatusConflict, httputils.ErrorBody{
				Error:   "already registered",
				Code:    storage.KindConflict.String(),
				Details: "member_profiles_member_number_key",
				Hint:    "this member number is taken",
			})
			return
		}
		h.logger.ErrorContext(ctx, "Provisioning failed",
			attr.UUID("identity_id", identityID),
			attr.Error(err),
		)
		httputils.RespondStorageError(w, err)
		return
	}

	httputils.RespondJSON(w, http.StatusOK, provisionSuccess{Success: true, Data: profile})
}
