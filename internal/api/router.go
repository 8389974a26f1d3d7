package api

import (
	"database/sql"
	"net/http"

	"github.com/lpireis/frota/internal/catalog"
	"github.com/lpireis/frota/internal/diagnosis"
	"github.com/lpireis/frota/internal/model"
)

// NewRouter creates the HTTP router with all API routes. Every route except
// login goes through the JWT middleware; mutating routes additionally pass
// the policy gate for their action.
func NewRouter(db *sql.DB, jwtSecret string, diag *diagnosis.Client) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	usersHandler := &UsersHandler{DB: db}
	vehiclesHandler := &VehiclesHandler{DB: db}
	checklistsHandler := &ChecklistsHandler{DB: db, Diagnosis: diag}
	reportsHandler := &ReportsHandler{DB: db}

	authMW := AuthMiddleware(jwtSecret, db)
	requireAction := func(action model.Action, h http.HandlerFunc) http.Handler {
		return authMW(RequireAction(action)(h))
	}

	// Auth.
	mux.Handle("POST /api/auth/login", http.HandlerFunc(authHandler.Login))
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))

	// User management (admin only).
	mux.Handle("GET /api/users", requireAction(model.ActionManageUsers, usersHandler.List))
	mux.Handle("POST /api/users", requireAction(model.ActionManageUsers, usersHandler.Create))
	mux.Handle("GET /api/users/{id}", requireAction(model.ActionManageUsers, usersHandler.Get))
	mux.Handle("PUT /api/users/{id}/role", requireAction(model.ActionChangeRole, usersHandler.UpdateRole))
	mux.Handle("PUT /api/users/{id}/password", requireAction(model.ActionManageUsers, usersHandler.ResetPassword))
	mux.Handle("DELETE /api/users/{id}", requireAction(model.ActionDeleteUser, usersHandler.Delete))

	// Vehicle registry.
	mux.Handle("GET /api/vehicles", authMW(http.HandlerFunc(vehiclesHandler.List)))
	mux.Handle("POST /api/vehicles", requireAction(model.ActionManageVehicles, vehiclesHandler.Create))
	mux.Handle("GET /api/vehicles/{id}", authMW(http.HandlerFunc(vehiclesHandler.Get)))
	mux.Handle("PUT /api/vehicles/{id}", requireAction(model.ActionManageVehicles, vehiclesHandler.Update))
	mux.Handle("DELETE /api/vehicles/{id}", requireAction(model.ActionManageVehicles, vehiclesHandler.Delete))
	mux.Handle("PUT /api/vehicles/{id}/photo", requireAction(model.ActionManageVehicles, vehiclesHandler.UploadPhoto))
	mux.Handle("GET /api/vehicles/{id}/photo", authMW(http.HandlerFunc(vehiclesHandler.GetPhoto)))

	// The inspection item catalog is static; clients read it to build forms.
	mux.Handle("GET /api/catalog", authMW(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, catalog.Items())
	})))

	// Trip checklists.
	mux.Handle("POST /api/checklists", requireAction(model.ActionRecordTrip, checklistsHandler.Create))
	mux.Handle("GET /api/checklists", authMW(http.HandlerFunc(checklistsHandler.List)))
	mux.Handle("GET /api/checklists/{id}", authMW(http.HandlerFunc(checklistsHandler.Get)))
	mux.Handle("PUT /api/checklists/{id}/arrival", requireAction(model.ActionRecordTrip, checklistsHandler.Arrive))
	mux.Handle("DELETE /api/checklists/{id}", requireAction(model.ActionDeleteChecklist, checklistsHandler.Delete))
	mux.Handle("GET /api/checklists/{id}/print", requireAction(model.ActionViewReports, reportsHandler.ChecklistPrint))

	// Reports.
	mux.Handle("GET /api/reports/summary", requireAction(model.ActionViewReports, reportsHandler.Summary))
	mux.Handle("GET /api/reports/consumption", requireAction(model.ActionViewReports, reportsHandler.Consumption))
	mux.Handle("GET /api/reports/consumption/print", requireAction(model.ActionViewReports, reportsHandler.ConsumptionPrint))
	mux.Handle("GET /api/reports/monthly", requireAction(model.ActionViewReports, reportsHandler.Monthly))
	mux.Handle("GET /api/reports/monthly/print", requireAction(model.ActionViewReports, reportsHandler.MonthlyPrint))
	mux.Handle("GET /api/reports/deletions", requireAction(model.ActionViewDeletionReports, reportsHandler.Deletions))
	mux.Handle("DELETE /api/reports/deletions/{id}", requireAction(model.ActionDeleteDeletionReport, reportsHandler.DeleteDeletion))

	return mux
}
