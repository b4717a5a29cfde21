package scorehandlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Protea-Shooting-Federation/psf-backend/app/shared/httputils"
	"github.com/Protea-Shooting-Federation/psf-backend/app/shared/observability/attr"
)

// HandleExportCSV streams the filtered scores as a CSV download. The same
// query parameters as the list endpoint apply, so a selection of ids exports
// just those rows.
func (h *ScoreHandlers) HandleExportCSV(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ctx, span := h.tracer.Start(ctx, "ScoreHandlers.HandleExportCSV")
	defer span.End()

	filter, err := filterFromQuery(r)
	if err != nil {
		httputils.RespondError(w, http.StatusBadRequest, httputils.ErrorBody{Error: err.Error()})
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="scores.csv"`)
	if err := h.service.ExportCSV(ctx, filter, w); err != nil {
		// Headers are already out; the truncated body is all we can signal.
		h.logger.ErrorContext(ctx, "CSV export failed", attr.Error(err))
	}
}

// HandleReport returns the aggregate competition report as JSON.
func (h *ScoreHandlers) HandleReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	competitionID, err := uuid.Parse(chi.URLParam(r, "competitionID"))
	if err != nil {
		httputils.RespondError(w, http.StatusBadRequest, httputils.ErrorBody{Error: "invalid competition id"})
		return
	}

	report, err := h.service.BuildReport(ctx, competitionID)
	if err != nil {
		httputils.RespondStorageError(w, err)
		return
	}

	httputils.RespondJSON(w, http.StatusOK, report)
}

// HandleReportXLSX streams the competition report workbook.
func (h *ScoreHandlers) HandleReportXLSX(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ctx, span := h.tracer.Start(ctx, "ScoreHandlers.HandleReportXLSX")
	defer span.End()

	competitionID, err := uuid.Parse(chi.URLParam(r, "competitionID"))
	if err != nil {
		httputils.RespondError(w, http.StatusBadRequest, httputils.ErrorBody{Error: "invalid competition id"})
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="report.xlsx"`)
	if err := h.service.ExportReportXLSX(ctx, competitionID, w); err != nil {
		h.logger.ErrorContext(ctx, "Workbook export failed", attr.Error(err))
	}
}

// HandleDisciplineChart streams the registrations-per-discipline bar chart.
func (h *ScoreHandlers) HandleDisciplineChart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	competitionID, err := uuid.Parse(chi.URLParam(r, "competitionID"))
	if err != nil {
		httputils.RespondError(w, http.StatusBadRequest, httputils.ErrorBody{Error: "invalid competition id"})
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if err := h.service.RenderDisciplineChart(ctx, competitionID, w); err != nil {
		h.logger.ErrorContext(ctx, "Chart render failed", attr.Error(err))
	}
}
