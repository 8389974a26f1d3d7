package api

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/lpireis/frota/internal/catalog"
	"github.com/lpireis/frota/internal/diagnosis"
	"github.com/lpireis/frota/internal/model"
	"github.com/lpireis/frota/internal/report"
	"github.com/lpireis/frota/internal/store"
)

// ChecklistsHandler handles the trip checklist endpoints.
type ChecklistsHandler struct {
	DB        *sql.DB
	Diagnosis *diagnosis.Client
}

type departureRequest struct {
	VehicleID        int64             `json:"vehicle_id"`
	DriverName       string            `json:"driver_name"`
	DepartureMileage int64             `json:"departure_mileage"`
	Items            map[string]string `json:"items"`
	Notes            string            `json:"notes"`
}

type arrivalRequest struct {
	ArrivalMileage int64             `json:"arrival_mileage"`
	Refuelings     []model.Refueling `json:"refuelings"`
}

// isChecklistValidationErr reports whether a checklist save failed on input
// validation. These map to 400; anything else from the store is a
// persistence failure and must not leak its detail to the client.
func isChecklistValidationErr(err error) bool {
	return errors.Is(err, store.ErrMileageOrder) ||
		errors.Is(err, store.ErrSubmissionWindowClosed) ||
		errors.Is(err, store.ErrDriverNameRequired) ||
		errors.Is(err, store.ErrInvalidRefueling) ||
		errors.Is(err, catalog.ErrUnknownItem)
}

// Create handles POST /api/checklists: it records a departure, advancing the
// vehicle odometer, and when the inspection flags a defect it triggers the
// diagnosis enrichment in the background.
func (h *ChecklistsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req departureRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims := GetClaims(r.Context())
	in := store.DepartureInput{
		VehicleID:        req.VehicleID,
		DriverName:       req.DriverName,
		DepartureMileage: req.DepartureMileage,
		Items:            req.Items,
		Notes:            req.Notes,
	}
	if claims != nil {
		in.DriverID = &claims.UserID
	}

	checklist, err := store.CreateDeparture(r.Context(), h.DB, in, time.Now())
	if err != nil {
		if isChecklistValidationErr(err) {
			jsonError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("failed to record departure", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to record departure")
		return
	}
	if checklist == nil {
		jsonError(w, http.StatusNotFound, "vehicle not found")
		return
	}

	slog.Info("departure recorded", "user", claims.Username, "checklist", checklist.ID, "vehicle", checklist.VehicleID, "status", checklist.Status)

	if checklist.Status == model.StatusProblem {
		h.requestDiagnosis(checklist)
	}

	jsonResponse(w, http.StatusCreated, checklist)
}

// requestDiagnosis kicks off the background diagnosis call for a checklist
// that departed with flagged items. The checklist is already committed;
// failures are logged and otherwise ignored.
func (h *ChecklistsHandler) requestDiagnosis(checklist *model.Checklist) {
	if !h.Diagnosis.Enabled() {
		return
	}

	id := checklist.ID
	vehicleID := checklist.VehicleID
	items := checklist.Items
	notes := checklist.Notes

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), diagnosis.RequestTimeout)
		defer cancel()

		vehicleInfo := "unknown vehicle"
		if v, err := store.GetVehicle(ctx, h.DB, vehicleID); err == nil && v != nil {
			vehicleInfo = fmt.Sprintf("%s, year %d", v.Label(), v.Year)
		}

		responses := strings.Join(report.DefectLabels(items), "; ")
		if notes != "" {
			responses += "\nDriver notes: " + notes
		}

		text, err := h.Diagnosis.Diagnose(ctx, vehicleInfo, responses)
		if err != nil {
			slog.Error("diagnosis request failed", "checklist", id, "error", err)
			return
		}

		if err := store.SetDiagnosis(ctx, h.DB, id, text); err != nil {
			slog.Error("failed to store diagnosis", "checklist", id, "error", err)
			return
		}
		slog.Info("diagnosis stored", "checklist", id)
	}()
}

// Arrive handles PUT /api/checklists/{id}/arrival.
func (h *ChecklistsHandler) Arrive(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid checklist id")
		return
	}

	var req arrivalRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims := GetClaims(r.Context())
	in := store.ArrivalInput{
		ArrivalMileage: req.ArrivalMileage,
		Refuelings:     req.Refuelings,
	}

	checklist, err := store.CompleteArrival(r.Context(), h.DB, id, in, claims.Role, time.Now())
	if err != nil {
		if errors.Is(err, store.ErrNotAllowed) {
			jsonError(w, http.StatusForbidden, err.Error())
			return
		}
		if isChecklistValidationErr(err) {
			jsonError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("failed to record arrival", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to record arrival")
		return
	}
	if checklist == nil {
		jsonError(w, http.StatusNotFound, "checklist not found")
		return
	}

	slog.Info("arrival recorded", "user", claims.Username, "checklist", checklist.ID, "status", checklist.Status)
	jsonResponse(w, http.StatusOK, checklist)
}

// List handles GET /api/checklists with optional vehicle_id, from, and to
// query parameters.
func (h *ChecklistsHandler) List(w http.ResponseWriter, r *http.Request) {
	var filter store.ChecklistFilter
	if s := r.URL.Query().Get("vehicle_id"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid vehicle_id")
			return
		}
		filter.VehicleID = id
	}
	filter.FromDate = r.URL.Query().Get("from")
	filter.ToDate = r.URL.Query().Get("to")

	checklists, err := store.ListChecklists(r.Context(), h.DB, filter)
	if err != nil {
		slog.Error("failed to list checklists", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list checklists")
		return
	}
	if checklists == nil {
		checklists = []model.Checklist{}
	}
	jsonResponse(w, http.StatusOK, checklists)
}

// Get handles GET /api/checklists/{id}.
func (h *ChecklistsHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	jsonResponse(w, http.StatusOK, checklist)
}

// Delete handles DELETE /api/checklists/{id}.
func (h *ChecklistsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid checklist id")
		return
	}

	checklist, err := store.GetChecklist(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get checklist")
		return
	}
	if checklist == nil {
		jsonError(w, http.StatusNotFound, "checklist not found")
		return
	}

	if err := store.DeleteChecklist(r.Context(), h.DB, id); err != nil {
		slog.Error("failed to delete checklist", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to delete checklist")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("checklist deleted", "user", claims.Username, "checklist", id)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "checklist deleted"})
}
