package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/lpireis/frota/internal/imaging"
	"github.com/lpireis/frota/internal/model"
	"github.com/lpireis/frota/internal/store"
)

// VehiclesHandler handles vehicle registry endpoints.
type VehiclesHandler struct {
	DB *sql.DB
}

type vehicleRequest struct {
	Brand        string `json:"brand"`
	Model        string `json:"model"`
	Year         int    `json:"year"`
	LicensePlate string `json:"license_plate"`
	Color        string `json:"color"`
	Mileage      int64  `json:"mileage"`
}

// List handles GET /api/vehicles.
func (h *VehiclesHandler) List(w http.ResponseWriter, r *http.Request) {
	vehicles, err := store.ListVehicles(r.Context(), h.DB)
	if err != nil {
		slog.Error("failed to list vehicles", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list vehicles")
		return
	}
	if vehicles == nil {
		vehicles = []model.Vehicle{}
	}
	jsonResponse(w, http.StatusOK, vehicles)
}

// Create handles POST /api/vehicles.
func (h *VehiclesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req vehicleRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Brand == "" || req.Model == "" || req.LicensePlate == "" || req.Year == 0 {
		jsonError(w, http.StatusBadRequest, "brand, model, year, and license_plate required")
		return
	}

	vehicle, err := store.CreateVehicle(r.Context(), h.DB, req.Brand, req.Model, req.Year, req.LicensePlate, req.Color, req.Mileage)
	if err != nil {
		jsonError(w, http.StatusConflict, "license plate already registered")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("vehicle created", "user", claims.Username, "vehicle", vehicle.Label())
	jsonResponse(w, http.StatusCreated, vehicle)
}

// Get handles GET /api/vehicles/{id}.
func (h *VehiclesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid vehicle id")
		return
	}

	vehicle, err := store.GetVehicle(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("failed to get vehicle", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get vehicle")
		return
	}
	if vehicle == nil {
		jsonError(w, http.StatusNotFound, "vehicle not found")
		return
	}

	jsonResponse(w, http.StatusOK, vehicle)
}

// Update handles PUT /api/vehicles/{id}.
func (h *VehiclesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid vehicle id")
		return
	}

	var req vehicleRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Brand == "" || req.Model == "" || req.LicensePlate == "" || req.Year == 0 {
		jsonError(w, http.StatusBadRequest, "brand, model, year, and license_plate required")
		return
	}

	existing, err := store.GetVehicle(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get vehicle")
		return
	}
	if existing == nil {
		jsonError(w, http.StatusNotFound, "vehicle not found")
		return
	}

	if err := store.UpdateVehicle(r.Context(), h.DB, id, req.Brand, req.Model, req.Year, req.LicensePlate, req.Color, req.Mileage); err != nil {
		slog.Error("failed to update vehicle", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to update vehicle")
		return
	}

	vehicle, _ := store.GetVehicle(r.Context(), h.DB, id)
	claims := GetClaims(r.Context())
	slog.Info("vehicle updated", "user", claims.Username, "vehicle", vehicle.Label())
	jsonResponse(w, http.StatusOK, vehicle)
}

// Delete handles DELETE /api/vehicles/{id}.
func (h *VehiclesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid vehicle id")
		return
	}

	vehicle, err := store.GetVehicle(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get vehicle")
		return
	}
	if vehicle == nil {
		jsonError(w, http.StatusNotFound, "vehicle not found")
		return
	}

	if err := store.DeleteVehicle(r.Context(), h.DB, id); err != nil {
		slog.Error("failed to delete vehicle", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to delete vehicle")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("vehicle deleted", "user", claims.Username, "vehicle", vehicle.Label())
	jsonResponse(w, http.StatusOK, map[string]string{"message": "vehicle deleted"})
}

// UploadPhoto handles PUT /api/vehicles/{id}/photo.
func (h *VehiclesHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid vehicle id")
		return
	}

	vehicle, err := store.GetVehicle(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get vehicle")
		return
	}
	if vehicle == nil {
		jsonError(w, http.StatusNotFound, "vehicle not found")
		return
	}

	result, err := imaging.Process(http.MaxBytesReader(w, r.Body, 10<<20))
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := store.SetVehiclePhoto(r.Context(), h.DB, id, result.Data, result.MIME); err != nil {
		slog.Error("failed to store vehicle photo", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to store photo")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "photo updated"})
}

// GetPhoto handles GET /api/vehicles/{id}/photo.
func (h *VehiclesHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid vehicle id")
		return
	}

	photo, mime, err := store.GetVehiclePhoto(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get photo")
		return
	}
	if len(photo) == 0 {
		jsonError(w, http.StatusNotFound, "no photo")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Write(photo)
}
