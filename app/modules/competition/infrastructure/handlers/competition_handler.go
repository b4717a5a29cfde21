package competitionhandlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	competitiondb "github.com/Protea-Shooting-Federation/psf-backend/app/modules/competition/infrastructure/repositories"
	"github.com/Protea-Shooting-Federation/psf-backend/app/shared/httputils"
	"github.com/Protea-Shooting-Federation/psf-backend/app/shared/observability/attr"
)

// HandleListCompetitions returns every competition with its derived status.
func (h *CompetitionHandlers) HandleListCompetitions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	views, err := h.service.ListCompetitions(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to list competitions", attr.Error(err))
		httputils.RespondStorageError(w, err)
		return
	}

	httputils.RespondJSON(w, http.StatusOK, views)
}

// HandleGetCompetition returns one competition with disciplines, matches,
// stages and derived status.
func (h *CompetitionHandlers) HandleGetCompetition(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "competitionID"))
	if err != nil {
		httputils.RespondError(w, http.StatusBadRequest, httputils.ErrorBody{Error: "invalid competition id"})
		return
	}

	view, err := h.service.GetCompetition(ctx, id)
	if err != nil {
		httputils.RespondStorageError(w, err)
		return
	}

	httputils.RespondJSON(w, http.StatusOK, view)
}

// HandleCreateCompetition creates a competition. Admin only.
func (h *CompetitionHandlers) HandleCreateCompetition(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var competition competitiondb.Competition
	if err := json.NewDecoder(r.Body).Decode(&competition); err != nil {
		httputils.RespondError(w, http.StatusBadRequest, httputils.ErrorBody{Error: "invalid request body"})
		return
	}
	if competition.Name == "" {
		httputils.RespondError(w, http.StatusBadRequest, httputils.ErrorBody{Error: "name is required"})
		return
	}

	created, err := h.service.CreateCompetition(ctx, &competition)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to create competition", attr.Error(err))
		httputils.RespondStorageError(w, err)
		return
	}

	httputils.RespondJSON(w, http.StatusCreated, created)
}

// HandleUpdateCompetition updates a competition. Admin only.
func (h *CompetitionHandlers) HandleUpdateCompetition(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "competitionID"))
	if err != nil {
		httputils.RespondError(w, http.StatusBadRequest, httputils.ErrorBody{Error: "invalid competition id"})
		return
	}

	var competition competitiondb.Competition
	if err := json.NewDecoder(r.Body).Decode(&competition); err != nil {
		httputils.RespondError(w, http.StatusBadRequest, httputils.ErrorBody{Error: "invalid request body"})
		return
	}
	competition.ID = id

	updated, err := h.service.UpdateCompetition(ctx, &competition)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to update competition", attr.Error(err))
		httputils.RespondStorageError(w, err)
		return
	}

	httputils.RespondJSON(w, http.StatusOK, updated)
}

type createDisciplineRequest struct {
	Name string `json:"name"`
}

// HandleCreateDiscipline creates a discipline. Admin only.
func (h *CompetitionHandlers) HandleCreateDiscipline(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createDisciplineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		httputils.RespondError(w, http.StatusBadRequest, httputils.ErrorBody{Error: "name is required"})
		return
	}

	discipline, err := h.service.CreateDiscipline(ctx, req.Name)
	if err != nil {
		httputils.RespondStorageError(w, err)
		return
	}

	httputils.RespondJSON(w, http.StatusCreated, discipline)
}

// HandleListDisciplines returns all disciplines.
func (h *CompetitionHandlers) HandleListDisciplines(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	disciplines, err := h.service.ListDisciplines(ctx)
	if err != nil {
		httputils.RespondStorageError(w, err)
		return
	}

	httputils.RespondJSON(w, http.StatusOK, disciplines)
}

// HandleAttachDiscipline links a discipline and its fee tier to a competition.
// Admin only.
func (h *CompetitionHandlers) HandleAttachDiscipline(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	competitionID, err := uuid.Parse(chi.URLParam(r, "competitionID"))
	if err != nil {
		httputils.RespondError(w, http.StatusBadRequest, httputils.ErrorBody{Error: "invalid competition id"})
		return
	}

	var link competitiondb.CompetitionDiscipline
	if err := json.NewDecoder(r.Body).Decode(&link); err != nil {
		httputils.RespondError(w, http.StatusBadRequest, httputils.ErrorBody{Error: "invalid request body"})
		return
	}
	link.CompetitionID = competitionID

	created, err := h.service.AttachDiscipline(ctx, &link)
	if err != nil {
		httputils.RespondStorageError(w, err)
		return
	}

	httputils.RespondJSON(w, http.StatusCreated, created)
}

// HandleCreateMatch adds a match to a competition. Admin only.
func (h *CompetitionHandlers) HandleCreateMatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	competitionID, err := uuid.Parse(chi.URLParam(r, "competitionID"))
	if err != nil {
		httputils.RespondError(w, http.StatusBadRequest, httputils.ErrorBody{Error: "invalid competition id"})
		return
	}

	var match competitiondb.Match
	if err := json.NewDecoder(r.Body).Decode(&match); err != nil {
		httputils.RespondError(w, http.StatusBadRequest, httputils.ErrorBody{Error: "invalid request body"})
		return
	}
	match.CompetitionID = competitionID

	created, err := h.service.CreateMatch(ctx, &match)
	if err != nil {
		httputils.RespondStorageError(w, err)
		return
	}

	httputils.RespondJSON(w, http.StatusCreated, created)
}

// HandleCreateStage adds a stage to a competition. Admin only; stages are
// immutable afterwards.
func (h *CompetitionHandlers) HandleCreateStage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	competitionID, err := uuid.Parse(chi.URLParam(r, "competitionID"))
	if err != nil {
		httputils.RespondError(w, http.StatusBadRequest, httputils.ErrorBody{Error: "invalid competition id"})
		return
	}

	var stage competitiondb.Stage
	if err := json.NewDecoder(r.Body).Decode(&stage); err != nil {
		httputils.RespondError(w, http.StatusBadRequest, httputils.ErrorBody{Error: "invalid request body"})
		return
	}
	stage.CompetitionID = competitionID

	created, err := h.service.CreateStage(ctx, &stage)
	if err != nil {
		httputils.RespondStorageError(w, err)
		return
	}

	httputils.RespondJSON(w, http.StatusCreated, created)
}

// HandleListStages returns a competition's stages.
func (h *CompetitionHandlers) HandleListStages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	competitionID, err := uuid.Parse(chi.URLParam(r, "competitionID"))
	if err != nil {
		httputils.RespondError(w, http.StatusBadRequest, httputils.ErrorBody{Error: "invalid competition id"})
		return
	}

	stages, err := h.service.ListStages(ctx, competitionID)
	if err != nil {
		httputils.RespondStorageError(w, err)
		return
	}

	httputils.RespondJSON(w, http.StatusOK, stages)
}
