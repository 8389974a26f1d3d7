package model

import (
	"fmt"
	"time"
)

// Vehicle represents a fleet vehicle. Mileage is the last known odometer
// reading; it is advanced as a side effect of saving a checklist departure
// or arrival, never by the checklist itself.
type Vehicle struct {
	ID           int64     `json:"id"`
	Brand        string    `json:"brand"`
	Model        string    `json:"model"`
	Year         int       `json:"year"`
	LicensePlate string    `json:"license_plate"`
	Color        string    `json:"color,omitempty"`
	Mileage      int64     `json:"mileage"`
	PhotoMime    string    `json:"photo_mime,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Label returns the display name used in reports, e.g. "Fiat Strada (ABC-1234)".
func (v *Vehicle) Label() string {
	return fmt.Sprintf("%s %s (%s)", v.Brand, v.Model, v.LicensePlate)
}
