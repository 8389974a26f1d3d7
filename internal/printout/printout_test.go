package printout

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/lpireis/frota/internal/model"
	"github.com/lpireis/frota/internal/report"
)

func sampleChecklist() *model.Checklist {
	departure := time.Date(2025, 3, 10, 8, 30, 0, 0, time.UTC)
	arrival := departure.Add(6 * time.Hour)
	arrivalMileage := int64(50220)
	return &model.Checklist{
		ID:                 7,
		VehicleID:          1,
		DriverName:         "Ana",
		DepartureTimestamp: departure,
		ArrivalTimestamp:   &arrival,
		DepartureMileage:   50000,
		ArrivalMileage:     &arrivalMileage,
		Items: map[string]string{
			"fuel_level":    "half",
			"tire_pressure": "flat",
		},
		Notes:  "pulling to the left",
		Status: model.StatusProblem,
		Date:   "2025-03-10",
		Refuelings: []model.Refueling{
			{Amount: 80, Liters: 40, FuelType: model.FuelDiesel},
		},
	}
}

func TestChecklistPrintout(t *testing.T) {
	vehicle := &model.Vehicle{Brand: "Fiat", Model: "Ducato", LicensePlate: "AB-123-CD"}

	var buf bytes.Buffer
	if err := Checklist(&buf, sampleChecklist(), vehicle); err != nil {
		t.Fatalf("rendering: %v", err)
	}
	html := buf.String()

	for _, want := range []string{
		"Fiat Ducato (AB-123-CD)",
		"Ana",
		"Tire pressure",
		"220 km",
		"40.00 L",
		"pulling to the left",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("printout missing %q", want)
		}
	}
}

func TestChecklistPrintoutMissingVehicle(t *testing.T) {
	var buf bytes.Buffer
	if err := Checklist(&buf, sampleChecklist(), nil); err != nil {
		t.Fatalf("rendering: %v", err)
	}
	if !strings.Contains(buf.String(), "vehicle not found") {
		t.Error("expected placeholder label for deleted vehicle")
	}
}

func TestConsumptionPrintout(t *testing.T) {
	rows := []report.ConsumptionRow{
		{
			ChecklistID:   1,
			VehicleLabel:  "Fiat Ducato (AB-123-CD)",
			DriverName:    "Ana",
			Date:          "2025-03-10",
			Distance:      220,
			Liters:        40,
			Cost:          80,
			Efficiency:    5.5,
			HasEfficiency: true,
			Rating:        model.EfficiencyFair,
		},
		{
			ChecklistID:  2,
			VehicleLabel: "Renault Master (EF-456-GH)",
			DriverName:   "Bruno",
			Date:         "2025-03-11",
			Distance:     30,
		},
	}

	var buf bytes.Buffer
	if err := Consumption(&buf, rows); err != nil {
		t.Fatalf("rendering: %v", err)
	}
	html := buf.String()

	if !strings.Contains(html, "5.5 km/L") || !strings.Contains(html, "fair") {
		t.Error("expected efficiency and rating for the first row")
	}
	// No fuel recorded: efficiency must render as a dash, never as zero.
	if strings.Contains(html, "0.0 km/L") {
		t.Error("undefined efficiency must not render as zero")
	}
}

func TestMonthlyPrintout(t *testing.T) {
	summary := report.MonthlySummary{
		VehicleLabel: "Fiat Ducato (AB-123-CD)",
		Month:        3,
		Year:         2025,
		Total:        2,
		WithProblems: 1,
		Entries: []report.MonthlyEntry{
			{
				ChecklistID: 7,
				Date:        "2025-03-10",
				DriverName:  "Ana",
				Status:      model.StatusProblem,
				Defects:     []string{"Tire pressure: Flat tire"},
			},
		},
	}

	var buf bytes.Buffer
	if err := Monthly(&buf, summary); err != nil {
		t.Fatalf("rendering: %v", err)
	}
	html := buf.String()

	if !strings.Contains(html, "March 2025") {
		t.Error("expected month heading")
	}
	if !strings.Contains(html, "Tire pressure: Flat tire") {
		t.Error("expected defect label")
	}
	if !strings.Contains(html, "2 checklists, 1 with problems") {
		t.Error("expected totals line")
	}
}
