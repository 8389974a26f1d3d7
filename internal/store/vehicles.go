package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lpireis/frota/internal/model"
)

// CreateVehicle registers a new vehicle. Color is stored NULL when blank
// so a later edit form does not see a degenerate empty value.
func CreateVehicle(ctx context.Context, db *sql.DB, brand, vmodel string, year int, licensePlate, color string, mileage int64) (*model.Vehicle, error) {
	var colorVal any
	if color != "" {
		colorVal = color
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO vehicles (brand, model, year, license_plate, color, mileage)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		brand, vmodel, year, licensePlate, colorVal, mileage,
	)
	if err != nil {
		return nil, fmt.Errorf("creating vehicle: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting vehicle id: %w", err)
	}

	return GetVehicle(ctx, db, id)
}

// GetVehicle returns a vehicle by ID.
func GetVehicle(ctx context.Context, db *sql.DB, id int64) (*model.Vehicle, error) {
	v := &model.Vehicle{}
	var color, photoMime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, brand, model, year, license_plate, color, mileage, photo_mime, created_at, updated_at
		 FROM vehicles WHERE id = ?`, id,
	).Scan(&v.ID, &v.Brand, &v.Model, &v.Year, &v.LicensePlate, &color, &v.Mileage, &photoMime, &v.CreatedAt, &v.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting vehicle: %w", err)
	}
	v.Color = color.String
	v.PhotoMime = photoMime.String
	return v, nil
}

// ListVehicles returns all vehicles ordered by brand and model.
func ListVehicles(ctx context.Context, db *sql.DB) ([]model.Vehicle, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, brand, model, year, license_plate, color, mileage, photo_mime, created_at, updated_at
		 FROM vehicles ORDER BY brand, model, license_plate`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing vehicles: %w", err)
	}
	defer rows.Close()

	var vehicles []model.Vehicle
	for rows.Next() {
		var v model.Vehicle
		var color, photoMime sql.NullString
		if err := rows.Scan(&v.ID, &v.Brand, &v.Model, &v.Year, &v.LicensePlate, &color, &v.Mileage, &photoMime, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning vehicle: %w", err)
		}
		v.Color = color.String
		v.PhotoMime = photoMime.String
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

// UpdateVehicle updates a vehicle's registration data. Mileage may be set
// lower than the current reading here: the edit form is the explicit
// correction path for odometer mistakes.
func UpdateVehicle(ctx context.Context, db *sql.DB, id int64, brand, vmodel string, year int, licensePlate, color string, mileage int64) error {
	var colorVal any
	if color != "" {
		colorVal = color
	}

	_, err := db.ExecContext(ctx,
		`UPDATE vehicles SET brand = ?, model = ?, year = ?, license_plate = ?, color = ?,
		        mileage = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		brand, vmodel, year, licensePlate, colorVal, mileage, id,
	)
	if err != nil {
		return fmt.Errorf("updating vehicle: %w", err)
	}
	return nil
}

// DeleteVehicle hard-deletes a vehicle. Checklists referencing it are kept;
// renderers fall back to "vehicle not found" for the orphaned reference.
func DeleteVehicle(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx, `DELETE FROM vehicles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting vehicle: %w", err)
	}
	return nil
}

// SetVehiclePhoto sets a vehicle's photo data.
func SetVehiclePhoto(ctx context.Context, db *sql.DB, id int64, photo []byte, mime string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE vehicles SET photo = ?, photo_mime = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		photo, mime, id,
	)
	if err != nil {
		return fmt.Errorf("setting vehicle photo: %w", err)
	}
	return nil
}

// GetVehiclePhoto returns a vehicle's photo data and MIME type.
func GetVehiclePhoto(ctx context.Context, db *sql.DB, id int64) ([]byte, string, error) {
	var photo []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT photo, photo_mime FROM vehicles WHERE id = ?`, id,
	).Scan(&photo, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting vehicle photo: %w", err)
	}
	return photo, mime.String, nil
}
