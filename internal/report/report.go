// Package report computes derived fleet statistics from checklist
// collections. All functions are pure: they operate on slices fetched by
// the caller and never touch the database.
package report

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/lpireis/frota/internal/catalog"
	"github.com/lpireis/frota/internal/model"
)

// dateLayout matches the checklist date column.
const dateLayout = "2006-01-02"

// WeeklyAverage returns the percentage of ok inspection items across all
// finished checklists from the trailing 7 days, rounded to the nearest
// integer. With no qualifying checklists (or no countable items) the
// average is vacuously 100.
func WeeklyAverage(checklists []model.Checklist, today time.Time) int {
	cutoff := today.AddDate(0, 0, -6).Format(dateLayout)
	limit := today.Format(dateLayout)

	var okCount, total int
	for _, c := range checklists {
		if !c.Finished() {
			continue
		}
		if c.Date < cutoff || c.Date > limit {
			continue
		}
		for key, value := range c.Items {
			problem, err := catalog.IsProblem(key, value)
			if err != nil {
				continue // stale keys from an older catalog are not counted
			}
			total++
			if !problem {
				okCount++
			}
		}
	}

	if total == 0 {
		return 100
	}
	return int(math.Round(float64(okCount) / float64(total) * 100))
}

// StreakLimit caps the consecutive-day walk.
const StreakLimit = 30

// Streak counts consecutive days with at least one checklist, walking
// backward from today inclusive and stopping at the first gap.
func Streak(checklists []model.Checklist, today time.Time) int {
	days := make(map[string]bool, len(checklists))
	for _, c := range checklists {
		days[c.Date] = true
	}

	streak := 0
	for i := 0; i < StreakLimit; i++ {
		day := today.AddDate(0, 0, -i).Format(dateLayout)
		if !days[day] {
			break
		}
		streak++
	}
	return streak
}

// ConsumptionRow is one line of the trip/consumption table.
type ConsumptionRow struct {
	ChecklistID   int64     `json:"checklist_id"`
	VehicleLabel  string    `json:"vehicle_label"`
	DriverName    string    `json:"driver_name"`
	Date          string    `json:"date"`
	Departure     time.Time `json:"departure"`
	Distance      int64     `json:"distance"`
	Liters        float64   `json:"liters"`
	Cost          float64   `json:"cost"`
	Efficiency    float64   `json:"efficiency,omitempty"`
	HasEfficiency bool      `json:"has_efficiency"`
	Rating        string    `json:"rating,omitempty"`
}

// missingVehicleLabel is shown for trips whose vehicle was deleted.
const missingVehicleLabel = "vehicle not found"

// ConsumptionTable builds one row per finished trip that has both mileage
// readings, an arrival timestamp, and a positive distance. Rows are sorted
// by departure descending.
func ConsumptionTable(checklists []model.Checklist, vehicles []model.Vehicle) []ConsumptionRow {
	labels := make(map[int64]string, len(vehicles))
	for i := range vehicles {
		labels[vehicles[i].ID] = vehicles[i].Label()
	}

	var rows []ConsumptionRow
	for _, c := range checklists {
		if !c.Finished() || c.ArrivalMileage == nil || c.ArrivalTimestamp == nil {
			continue
		}
		distance := c.Distance()
		if distance <= 0 {
			continue
		}

		label, ok := labels[c.VehicleID]
		if !ok {
			label = missingVehicleLabel
		}

		row := ConsumptionRow{
			ChecklistID:  c.ID,
			VehicleLabel: label,
			DriverName:   c.DriverName,
			Date:         c.Date,
			Departure:    c.DepartureTimestamp,
			Distance:     distance,
			Liters:       c.TotalLiters(),
			Cost:         c.TotalCost(),
		}
		if eff, ok := c.Efficiency(); ok {
			row.Efficiency = eff
			row.HasEfficiency = true
			row.Rating = model.EfficiencyRating(eff)
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Departure.After(rows[j].Departure)
	})
	return rows
}

// MonthlyEntry is one checklist in a monthly vehicle report.
type MonthlyEntry struct {
	ChecklistID int64     `json:"checklist_id"`
	Date        string    `json:"date"`
	Departure   time.Time `json:"departure"`
	DriverName  string    `json:"driver_name"`
	Status      string    `json:"status"`
	Defects     []string  `json:"defects,omitempty"`
	Notes       string    `json:"notes,omitempty"`
}

// MonthlySummary is the per-vehicle monthly report.
type MonthlySummary struct {
	VehicleLabel string         `json:"vehicle_label"`
	Month        int            `json:"month"`
	Year         int            `json:"year"`
	Total        int            `json:"total"`
	WithProblems int            `json:"with_problems"`
	Entries      []MonthlyEntry `json:"entries"`
}

// Monthly builds the report for one vehicle and calendar month: all its
// checklists whose departure day falls within the month, newest first, with
// a human-readable defect listing per checklist. Membership is decided on
// the stored date string, which was fixed in the server's local calendar at
// creation, so trips near midnight never shift months with the timezone.
func Monthly(checklists []model.Checklist, vehicle *model.Vehicle, month time.Month, year int) MonthlySummary {
	prefix := fmt.Sprintf("%04d-%02d", year, int(month))

	summary := MonthlySummary{
		VehicleLabel: vehicle.Label(),
		Month:        int(month),
		Year:         year,
	}

	for _, c := range checklists {
		if c.VehicleID != vehicle.ID {
			continue
		}
		if !strings.HasPrefix(c.Date, prefix) {
			continue
		}

		entry := MonthlyEntry{
			ChecklistID: c.ID,
			Date:        c.Date,
			Departure:   c.DepartureTimestamp,
			DriverName:  c.DriverName,
			Status:      c.Status,
			Defects:     DefectLabels(c.Items),
			Notes:       c.Notes,
		}
		summary.Total++
		if c.Status == model.StatusProblem {
			summary.WithProblems++
		}
		summary.Entries = append(summary.Entries, entry)
	}

	sort.Slice(summary.Entries, func(i, j int) bool {
		return summary.Entries[i].Departure.After(summary.Entries[j].Departure)
	})
	return summary
}

// DefectLabels lists the defective inspection values of a checklist as
// "<item title>: <value label>" strings, in catalog display order.
func DefectLabels(items map[string]string) []string {
	var defects []string
	for _, item := range catalog.Items() {
		value, ok := items[item.Key]
		if !ok {
			continue
		}
		if item.IsProblem(value) {
			defects = append(defects, fmt.Sprintf("%s: %s", item.Title, catalog.Label(item.Key, value)))
		}
	}
	return defects
}
