package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/lpireis/frota/internal/model"
	"github.com/lpireis/frota/internal/printout"
	"github.com/lpireis/frota/internal/report"
	"github.com/lpireis/frota/internal/store"
)

// ReportsHandler serves the derived statistics, the printable documents, and
// the deletion audit trail.
type ReportsHandler struct {
	DB *sql.DB
}

type summaryResponse struct {
	WeeklyAverage int `json:"weekly_average"`
	Streak        int `json:"streak"`
}

// Summary handles GET /api/reports/summary: the dashboard numbers.
func (h *ReportsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	checklists, err := store.ListChecklists(r.Context(), h.DB, store.ChecklistFilter{})
	if err != nil {
		slog.Error("failed to list checklists", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to build summary")
		return
	}

	now := time.Now()
	jsonResponse(w, http.StatusOK, summaryResponse{
		WeeklyAverage: report.WeeklyAverage(checklists, now),
		Streak:        report.Streak(checklists, now),
	})
}

// consumptionRows loads everything the consumption table needs.
func (h *ReportsHandler) consumptionRows(r *http.Request) ([]report.ConsumptionRow, error) {
	checklists, err := store.ListChecklists(r.Context(), h.DB, store.ChecklistFilter{})
	if err != nil {
		return nil, err
	}
	vehicles, err := store.ListVehicles(r.Context(), h.DB)
	if err != nil {
		return nil, err
	}
	return report.ConsumptionTable(checklists, vehicles), nil
}

// Consumption handles GET /api/reports/consumption.
func (h *ReportsHandler) Consumption(w http.ResponseWriter, r *http.Request) {
	rows, err := h.consumptionRows(r)
	if err != nil {
		slog.Error("failed to build consumption table", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to build consumption table")
		return
	}
	if rows == nil {
		rows = []report.ConsumptionRow{}
	}
	jsonResponse(w, http.StatusOK, rows)
}

// ConsumptionPrint handles GET /api/reports/consumption/print.
func (h *ReportsHandler) ConsumptionPrint(w http.ResponseWriter, r *http.Request) {
	rows, err := h.consumptionRows(r)
	if err != nil {
		slog.Error("failed to build consumption table", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to build consumption table")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := printout.Consumption(w, rows); err != nil {
		slog.Error("failed to render consumption printout", "error", err)
	}
}

// monthlySummary parses the monthly report parameters and builds the summary.
// A nil summary with a nil error means the vehicle was not found.
func (h *ReportsHandler) monthlySummary(r *http.Request) (*report.MonthlySummary, string, error) {
	vehicleID, err := strconv.ParseInt(r.URL.Query().Get("vehicle_id"), 10, 64)
	if err != nil {
		return nil, "invalid vehicle_id", nil
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || month < 1 || month > 12 {
		return nil, "invalid month", nil
	}
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		return nil, "invalid year", nil
	}

	vehicle, err := store.GetVehicle(r.Context(), h.DB, vehicleID)
	if err != nil {
		return nil, "", err
	}
	if vehicle == nil {
		return nil, "", nil
	}

	checklists, err := store.ListChecklists(r.Context(), h.DB, store.ChecklistFilter{VehicleID: vehicleID})
	if err != nil {
		return nil, "", err
	}

	summary := report.Monthly(checklists, vehicle, time.Month(month), year)
	return &summary, "", nil
}

// Monthly handles GET /api/reports/monthly?vehicle_id=&month=&year=.
func (h *ReportsHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	summary, badParam, err := h.monthlySummary(r)
	if badParam != "" {
		jsonError(w, http.StatusBadRequest, badParam)
		return
	}
	if err != nil {
		slog.Error("failed to build monthly report", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to build monthly report")
		return
	}
	if summary == nil {
		jsonError(w, http.StatusNotFound, "vehicle not found")
		return
	}
	jsonResponse(w, http.StatusOK, summary)
}

// MonthlyPrint handles GET /api/reports/monthly/print with the same
// parameters as Monthly.
func (h *ReportsHandler) MonthlyPrint(w http.ResponseWriter, r *http.Request) {
	summary, badParam, err := h.monthlySummary(r)
	if badParam != "" {
		jsonError(w, http.StatusBadRequest, badParam)
		return
	}
	if err != nil {
		slog.Error("failed to build monthly report", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to build monthly report")
		return
	}
	if summary == nil {
		jsonError(w, http.StatusNotFound, "vehicle not found")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := printout.Monthly(w, *summary); err != nil {
		slog.Error("failed to render monthly printout", "error", err)
	}
}

// ChecklistPrint handles GET /api/checklists/{id}/print.
func (h *ReportsHandler) ChecklistPrint(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid checklist id")
		return
	}

	checklist, err := store.GetChecklist(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("failed to get checklist", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get checklist")
		return
	}
	if checklist == nil {
		jsonError(w, http.StatusNotFound, "checklist not found")
		return
	}

	// The vehicle may have been deleted since the trip; the printout falls
	// back to a placeholder label.
	vehicle, err := store.GetVehicle(r.Context(), h.DB, checklist.VehicleID)
	if err != nil {
		slog.Error("failed to get vehicle", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get vehicle")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := printout.Checklist(w, checklist, vehicle); err != nil {
		slog.Error("failed to render checklist printout", "error", err)
	}
}

// Deletions handles GET /api/reports/deletions.
func (h *ReportsHandler) Deletions(w http.ResponseWriter, r *http.Request) {
	reports, err := store.ListDeletionReports(r.Context(), h.DB)
	if err != nil {
		slog.Error("failed to list deletion reports", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list deletion reports")
		return
	}
	if reports == nil {
		reports = []model.DeletionReport{}
	}
	jsonResponse(w, http.StatusOK, reports)
}

// DeleteDeletion handles DELETE /api/reports/deletions/{id}: removing the
// audit record itself once it has served its purpose.
func (h *ReportsHandler) DeleteDeletion(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid report id")
		return
	}

	rep, err := store.GetDeletionReport(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get deletion report")
		return
	}
	if rep == nil {
		jsonError(w, http.StatusNotFound, "deletion report not found")
		return
	}

	if err := store.DeleteDeletionReport(r.Context(), h.DB, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			jsonError(w, http.StatusNotFound, "deletion report not found")
			return
		}
		slog.Error("failed to delete deletion report", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to delete deletion report")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("deletion report removed", "user", claims.Username, "report", rep.Reference)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "deletion report removed"})
}
