package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lpireis/frota/internal/catalog"
	"github.com/lpireis/frota/internal/model"
)

// CutoffHour is the local hour (24h clock) at which departure submissions
// close for the day.
const CutoffHour = 22

// DepartureInput is the data recorded when a trip starts.
type DepartureInput struct {
	VehicleID        int64
	DriverName       string
	DriverID         *int64
	DepartureMileage int64
	Items            map[string]string
	Notes            string
}

// ArrivalInput is the data recorded when a trip ends.
type ArrivalInput struct {
	ArrivalMileage int64
	Refuelings     []model.Refueling
}

// classifyItems resolves raw inspection values through the catalog and
// reports whether any of them is a defect. Unknown item keys are rejected.
func classifyItems(items map[string]string) (bool, error) {
	anyProblem := false
	for key, value := range items {
		problem, err := catalog.IsProblem(key, value)
		if err != nil {
			return false, err
		}
		if problem {
			anyProblem = true
		}
	}
	return anyProblem, nil
}

// validateRefuelings checks the supplied refueling entries.
func validateRefuelings(refuelings []model.Refueling) error {
	for i, r := range refuelings {
		if r.Liters <= 0 {
			return fmt.Errorf("%w %d: liters must be positive", ErrInvalidRefueling, i+1)
		}
		if r.Amount < 0 {
			return fmt.Errorf("%w %d: amount must not be negative", ErrInvalidRefueling, i+1)
		}
		if r.FuelType != model.FuelGasoline && r.FuelType != model.FuelDiesel {
			return fmt.Errorf("%w %d: unknown fuel type %q", ErrInvalidRefueling, i+1, r.FuelType)
		}
	}
	return nil
}

// CreateDeparture records the start of a trip: it validates the submission
// window and mileage ordering, classifies the inspection values, and inserts
// the checklist while advancing the vehicle's odometer in the same
// transaction, so the two can never diverge.
//
// Returns nil, nil when the vehicle does not exist.
func CreateDeparture(ctx context.Context, db *sql.DB, in DepartureInput, now time.Time) (*model.Checklist, error) {
	if in.DriverName == "" {
		return nil, ErrDriverNameRequired
	}
	if now.Hour() >= CutoffHour {
		return nil, ErrSubmissionWindowClosed
	}

	anyProblem, err := classifyItems(in.Items)
	if err != nil {
		return nil, err
	}

	status := model.StatusPendingArrival
	if anyProblem {
		// The trip is flagged before it even departs.
		status = model.StatusProblem
	}

	itemsJSON, err := json.Marshal(in.Items)
	if err != nil {
		return nil, fmt.Errorf("encoding items: %w", err)
	}
	if in.Items == nil {
		itemsJSON = []byte("{}")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var currentMileage int64
	err = tx.QueryRowContext(ctx,
		`SELECT mileage FROM vehicles WHERE id = ?`, in.VehicleID,
	).Scan(&currentMileage)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting vehicle mileage: %w", err)
	}

	if in.DepartureMileage < currentMileage {
		return nil, fmt.Errorf("%w: departure %d below odometer %d", ErrMileageOrder, in.DepartureMileage, currentMileage)
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO checklists (vehicle_id, driver_name, driver_id, departure_ts, departure_mileage, items, notes, status, date)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.VehicleID, in.DriverName, in.DriverID, now, in.DepartureMileage,
		string(itemsJSON), in.Notes, status, now.Format("2006-01-02"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating checklist: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE vehicles SET mileage = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		in.DepartureMileage, in.VehicleID,
	)
	if err != nil {
		return nil, fmt.Errorf("updating vehicle odometer: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing departure: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting checklist id: %w", err)
	}
	return GetChecklist(ctx, db, id)
}

// CompleteArrival records the end of a trip. On an open checklist it
// derives the final status from the stored inspection values, stamps the
// arrival time, and sets the arrival mileage. On an already finished
// checklist the status and arrival time stay untouched: only an admin may
// correct the arrival mileage, while any role may replace the refuelings.
// Refuelings are always replaced wholesale, never merged.
//
// The checklist update and the vehicle odometer update run in one
// transaction. Returns nil, nil when the checklist does not exist.
func CompleteArrival(ctx context.Context, db *sql.DB, id int64, in ArrivalInput, actorRole string, now time.Time) (*model.Checklist, error) {
	if err := validateRefuelings(in.Refuelings); err != nil {
		return nil, err
	}

	refuelingsJSON, err := json.Marshal(in.Refuelings)
	if err != nil {
		return nil, fmt.Errorf("encoding refuelings: %w", err)
	}
	if in.Refuelings == nil {
		refuelingsJSON = []byte("[]")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var (
		vehicleID        int64
		departureMileage int64
		storedArrival    sql.NullInt64
		itemsJSON        string
		status           string
	)
	err = tx.QueryRowContext(ctx,
		`SELECT vehicle_id, departure_mileage, arrival_mileage, items, status
		 FROM checklists WHERE id = ?`, id,
	).Scan(&vehicleID, &departureMileage, &storedArrival, &itemsJSON, &status)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting checklist: %w", err)
	}

	if in.ArrivalMileage < departureMileage {
		return nil, fmt.Errorf("%w: arrival %d below departure %d", ErrMileageOrder, in.ArrivalMileage, departureMileage)
	}

	switch status {
	case model.StatusPendingArrival:
		var items map[string]string
		if err := json.Unmarshal([]byte(itemsJSON), &items); err != nil {
			return nil, fmt.Errorf("decoding items: %w", err)
		}
		anyProblem, err := classifyItems(items)
		if err != nil {
			return nil, err
		}
		final := model.StatusCompleted
		if anyProblem {
			final = model.StatusProblem
		}
		if !model.CanTransition(status, final) {
			return nil, fmt.Errorf("invalid checklist status transition: %s -> %s", status, final)
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE checklists SET status = ?, arrival_ts = ?, arrival_mileage = ?,
			        refuelings = ?, updated_at = CURRENT_TIMESTAMP
			 WHERE id = ?`,
			final, now, in.ArrivalMileage, string(refuelingsJSON), id,
		)
		if err != nil {
			return nil, fmt.Errorf("completing checklist: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE vehicles SET mileage = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
			in.ArrivalMileage, vehicleID,
		)
		if err != nil {
			return nil, fmt.Errorf("updating vehicle odometer: %w", err)
		}

	case model.StatusCompleted, model.StatusProblem:
		mileageChanged := !storedArrival.Valid || storedArrival.Int64 != in.ArrivalMileage
		if mileageChanged && !model.CanPerform(actorRole, model.ActionCorrectArrival) {
			return nil, fmt.Errorf("%w: only an admin may correct the arrival mileage", ErrNotAllowed)
		}

		if mileageChanged {
			_, err = tx.ExecContext(ctx,
				`UPDATE checklists SET arrival_mileage = ?, refuelings = ?, updated_at = CURRENT_TIMESTAMP
				 WHERE id = ?`,
				in.ArrivalMileage, string(refuelingsJSON), id,
			)
			if err != nil {
				return nil, fmt.Errorf("correcting checklist: %w", err)
			}
			_, err = tx.ExecContext(ctx,
				`UPDATE vehicles SET mileage = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
				in.ArrivalMileage, vehicleID,
			)
			if err != nil {
				return nil, fmt.Errorf("updating vehicle odometer: %w", err)
			}
		} else {
			_, err = tx.ExecContext(ctx,
				`UPDATE checklists SET refuelings = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
				string(refuelingsJSON), id,
			)
			if err != nil {
				return nil, fmt.Errorf("updating refuelings: %w", err)
			}
		}

	default:
		return nil, fmt.Errorf("checklist %d has unknown status %q", id, status)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing arrival: %w", err)
	}

	return GetChecklist(ctx, db, id)
}

// SetDiagnosis stores the external diagnosis text for a checklist. Called
// as a post-commit enrichment step; a failure here never affects the trip
// record itself.
func SetDiagnosis(ctx context.Context, db *sql.DB, id int64, text string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE checklists SET ai_diagnosis = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		text, id,
	)
	if err != nil {
		return fmt.Errorf("setting diagnosis: %w", err)
	}
	return nil
}

const checklistColumns = `c.id, c.vehicle_id, c.driver_name, c.driver_id,
	c.departure_ts, c.arrival_ts, c.departure_mileage, c.arrival_mileage,
	c.items, c.notes, c.status, c.date, c.ai_diagnosis, c.refuelings,
	v.brand, v.model, v.license_plate`

// checklistFrom joins the vehicle for the display label; the join is LEFT
// because checklists outlive their vehicle.
const checklistFrom = ` FROM checklists c LEFT JOIN vehicles v ON v.id = c.vehicle_id`

// GetChecklist returns a checklist by ID.
func GetChecklist(ctx context.Context, db *sql.DB, id int64) (*model.Checklist, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+checklistColumns+checklistFrom+` WHERE c.id = ?`, id,
	)
	c, err := scanChecklist(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting checklist: %w", err)
	}
	return c, nil
}

// ChecklistFilter narrows ListChecklists results. Zero values mean "no filter".
type ChecklistFilter struct {
	VehicleID int64
	FromDate  string // inclusive, YYYY-MM-DD
	ToDate    string // inclusive, YYYY-MM-DD
}

// ListChecklists returns checklists sorted by departure descending.
func ListChecklists(ctx context.Context, db *sql.DB, filter ChecklistFilter) ([]model.Checklist, error) {
	query := `SELECT ` + checklistColumns + checklistFrom + ` WHERE 1=1`
	var args []any

	if filter.VehicleID > 0 {
		query += ` AND c.vehicle_id = ?`
		args = append(args, filter.VehicleID)
	}
	if filter.FromDate != "" {
		query += ` AND c.date >= ?`
		args = append(args, filter.FromDate)
	}
	if filter.ToDate != "" {
		query += ` AND c.date <= ?`
		args = append(args, filter.ToDate)
	}

	query += ` ORDER BY c.departure_ts DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing checklists: %w", err)
	}
	defer rows.Close()

	var checklists []model.Checklist
	for rows.Next() {
		c, err := scanChecklist(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning checklist: %w", err)
		}
		checklists = append(checklists, *c)
	}
	return checklists, rows.Err()
}

// DeleteChecklist hard-deletes a checklist.
func DeleteChecklist(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx, `DELETE FROM checklists WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting checklist: %w", err)
	}
	return nil
}

// scanChecklist reads one checklist row, decoding the JSON columns.
func scanChecklist(scan func(...any) error) (*model.Checklist, error) {
	c := &model.Checklist{}
	var (
		arrivalTS              sql.NullTime
		arrivalMileage         sql.NullInt64
		notes                  sql.NullString
		diagnosis              sql.NullString
		itemsJSON              string
		refuelingsJSON         string
		vBrand, vModel, vPlate sql.NullString
	)
	err := scan(&c.ID, &c.VehicleID, &c.DriverName, &c.DriverID,
		&c.DepartureTimestamp, &arrivalTS, &c.DepartureMileage, &arrivalMileage,
		&itemsJSON, &notes, &c.Status, &c.Date, &diagnosis, &refuelingsJSON,
		&vBrand, &vModel, &vPlate)
	if err != nil {
		return nil, err
	}

	if vBrand.Valid {
		label := model.Vehicle{Brand: vBrand.String, Model: vModel.String, LicensePlate: vPlate.String}
		c.VehicleLabel = label.Label()
	}

	if arrivalTS.Valid {
		t := arrivalTS.Time
		c.ArrivalTimestamp = &t
	}
	if arrivalMileage.Valid {
		v := arrivalMileage.Int64
		c.ArrivalMileage = &v
	}
	c.Notes = notes.String
	c.AIDiagnosis = diagnosis.String

	if err := json.Unmarshal([]byte(itemsJSON), &c.Items); err != nil {
		return nil, fmt.Errorf("decoding items: %w", err)
	}
	if err := json.Unmarshal([]byte(refuelingsJSON), &c.Refuelings); err != nil {
		return nil, fmt.Errorf("decoding refuelings: %w", err)
	}
	if c.Items == nil {
		c.Items = map[string]string{}
	}
	if c.Refuelings == nil {
		c.Refuelings = []model.Refueling{}
	}

	return c, nil
}
