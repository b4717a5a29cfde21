package contacthandlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	contactdomain "github.com/Protea-Shooting-Federation/psf-backend/app/modules/contact/domain"
	"github.com/Protea-Shooting-Federation/psf-backend/app/shared/httputils"
	"github.com/Protea-Shooting-Federation/psf-backend/app/shared/observability/attr"
)

type submitResponse struct {
	ID uuid.UUID `json:"id"`
}

type validationResponse struct {
	Errors contactdomain.FieldErrors `json:"errors"`
}

// HandleSubmit accepts a public contact message.
func (h *ContactHandlers) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ctx, span := h.tracer.Start(ctx, "ContactHandlers.HandleSubmit")
	defer span.End()

	var form contactdomain.ContactForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		httputils.RespondError(w, http.StatusBadRequest, httputils.ErrorBody{Error: "invalid request body"})
		return
	}

	submission, err := h.service.Submit(ctx, form)
	if err != nil {
		var fe contactdomain.FieldErrors
		if errors.As(err, &fe) {
			httputils.RespondJSON(w, http.StatusBadRequest, validationResponse{Errors: fe})
			return
		}
		h.logger.ErrorContext(ctx, "Contact submission failed", attr.Error(err))
		httputils.RespondStorageError(w, err)
		return
	}

	httputils.RespondJSON(w, http.StatusCreated, submitResponse{ID: submission.ID})
}

// HandleList returns the inbox. Admin only; ?unread=true filters to unread.
func (h *ContactHandlers) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	unreadOnly := r.URL.Query().Get("unread") == "true"
	submissions, err := h.service.List(ctx, unreadOnly)
	if err != nil {
		httputils.RespondStorageError(w, err)
		return
	}

	httputils.RespondJSON(w, http.StatusOK, submissions)
}

// HandleMarkRead clears a submission's unread flag. Admin only.
func (h *ContactHandlers) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "submissionID"))
	if err != nil {
		httputils.RespondError(w, http.StatusBadRequest, httputils.ErrorBody{Error: "invalid submission id"})
		return
	}

	submission, err := h.service.MarkRead(ctx, id)
	if err != nil {
		httputils.RespondStorageError(w, err)
		return
	}

	httputils.RespondJSON(w, http.StatusOK, submission)
}
