package model

import "time"

// Checklist statuses (persisted as strings).
const (
	StatusPendingArrival = "pending_arrival"
	StatusCompleted      = "completed"
	StatusProblem        = "problem"
)

// allowedTransitions defines the checklist status state machine.
// Both finished states are terminal: an admin may still correct the
// arrival mileage or refuelings in place, but the status never moves.
var allowedTransitions = map[string][]string{
	StatusPendingArrival: {StatusCompleted, StatusProblem},
	StatusCompleted:      {},
	StatusProblem:        {},
}

// CanTransition reports whether from -> to is an allowed status change.
// A no-op transition (from == to) is always allowed.
func CanTransition(from, to string) bool {
	if from == to {
		return true
	}
	allowed, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// Fuel types.
const (
	FuelGasoline = "gasolina"
	FuelDiesel   = "diesel"
)

// Refueling is a single fuel purchase attached to a trip. Amount is the
// flat total paid; the per-liter price is not persisted.
type Refueling struct {
	Amount   float64 `json:"amount"`
	Liters   float64 `json:"liters"`
	FuelType string  `json:"fuel_type"`
}

// Checklist is one record per vehicle trip: created at departure,
// completed (or flagged) at arrival.
type Checklist struct {
	ID                 int64      `json:"id"`
	VehicleID          int64      `json:"vehicle_id"`
	DriverName         string     `json:"driver_name"`
	DriverID           *int64     `json:"driver_id,omitempty"`
	DepartureTimestamp time.Time  `json:"departure_timestamp"`
	ArrivalTimestamp   *time.Time `json:"arrival_timestamp,omitempty"`
	DepartureMileage   int64      `json:"departure_mileage"`
	ArrivalMileage     *int64     `json:"arrival_mileage,omitempty"`

	// Items maps catalog item keys to the raw inspection value the driver
	// selected. The coarse ok/problem classification is derived through
	// the catalog, not stored.
	Items map[string]string `json:"items"`

	Notes       string      `json:"notes,omitempty"`
	Status      string      `json:"status"`
	Date        string      `json:"date"` // YYYY-MM-DD of departure, fixed at creation
	AIDiagnosis string      `json:"ai_diagnosis,omitempty"`
	Refuelings  []Refueling `json:"refuelings"`

	// Joined fields (not always populated).
	VehicleLabel string `json:"vehicle_label,omitempty"`
}

// Finished reports whether the trip has reached a terminal status.
func (c *Checklist) Finished() bool {
	return c.Status == StatusCompleted || c.Status == StatusProblem
}

// Distance returns the trip distance, or 0 if the arrival mileage is unset.
func (c *Checklist) Distance() int64 {
	if c.ArrivalMileage == nil {
		return 0
	}
	return *c.ArrivalMileage - c.DepartureMileage
}

// TotalLiters sums the liters across all refuelings.
func (c *Checklist) TotalLiters() float64 {
	var total float64
	for _, r := range c.Refuelings {
		total += r.Liters
	}
	return total
}

// TotalCost sums the amounts across all refuelings.
func (c *Checklist) TotalCost() float64 {
	var total float64
	for _, r := range c.Refuelings {
		total += r.Amount
	}
	return total
}

// Efficiency returns km per liter for the trip. The second return value is
// false when efficiency is undefined (no distance or no fuel recorded);
// callers must render that as "N/A", never as zero.
func (c *Checklist) Efficiency() (float64, bool) {
	distance := c.Distance()
	liters := c.TotalLiters()
	if distance <= 0 || liters <= 0 {
		return 0, false
	}
	return float64(distance) / liters, true
}

// Efficiency ratings.
const (
	EfficiencyExcellent = "excellent"
	EfficiencyGood      = "good"
	EfficiencyFair      = "fair"
	EfficiencyPoor      = "poor"
)

// EfficiencyRating buckets a defined efficiency value for display.
// Bounds are strict: exactly 8.0 km/l rates "fair", not "good".
func EfficiencyRating(kmPerLiter float64) string {
	switch {
	case kmPerLiter > 12:
		return EfficiencyExcellent
	case kmPerLiter > 8:
		return EfficiencyGood
	case kmPerLiter > 5:
		return EfficiencyFair
	default:
		return EfficiencyPoor
	}
}
