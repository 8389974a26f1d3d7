package report

import (
	"testing"
	"time"

	"github.com/lpireis/frota/internal/catalog"
	"github.com/lpireis/frota/internal/model"
)

var today = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func ptrInt64(v int64) *int64 { return &v }

func ptrTime(t time.Time) *time.Time { return &t }

func finishedChecklist(id, vehicleID int64, departure time.Time, items map[string]string) model.Checklist {
	status := model.StatusCompleted
	for k, v := range items {
		if problem, _ := catalog.IsProblem(k, v); problem {
			status = model.StatusProblem
		}
	}
	return model.Checklist{
		ID:                 id,
		VehicleID:          vehicleID,
		DriverName:         "Carlos",
		DepartureTimestamp: departure,
		ArrivalTimestamp:   ptrTime(departure.Add(8 * time.Hour)),
		DepartureMileage:   1000,
		ArrivalMileage:     ptrInt64(1120),
		Items:              items,
		Status:             status,
		Date:               departure.Format("2006-01-02"),
		Refuelings:         []model.Refueling{{Amount: 60, Liters: 10, FuelType: model.FuelGasoline}},
	}
}

func okItems() map[string]string {
	return map[string]string{
		catalog.KeyFuelLevel:    "full",
		catalog.KeyTirePressure: "ok",
	}
}

func TestWeeklyAverageEmpty(t *testing.T) {
	// Vacuous success: no qualifying checklists means 100, not 0.
	if got := WeeklyAverage(nil, today); got != 100 {
		t.Errorf("WeeklyAverage(nil) = %d, want 100", got)
	}

	// A pending checklist in the window does not qualify either.
	pending := model.Checklist{
		Status: model.StatusPendingArrival,
		Date:   today.Format("2006-01-02"),
		Items:  okItems(),
	}
	if got := WeeklyAverage([]model.Checklist{pending}, today); got != 100 {
		t.Errorf("WeeklyAverage(pending only) = %d, want 100", got)
	}
}

func TestWeeklyAverage(t *testing.T) {
	items := okItems()
	items[catalog.KeyLights] = "failed"
	items[catalog.KeyFluids] = "ok"

	// 3 ok out of 4 items = 75.
	checklists := []model.Checklist{
		finishedChecklist(1, 1, today.Add(-24*time.Hour), items),
	}
	if got := WeeklyAverage(checklists, today); got != 75 {
		t.Errorf("WeeklyAverage = %d, want 75", got)
	}
}

func TestWeeklyAverageIgnoresOldChecklists(t *testing.T) {
	items := map[string]string{catalog.KeyFuelLevel: "empty"}
	old := finishedChecklist(1, 1, today.AddDate(0, 0, -10), items)

	if got := WeeklyAverage([]model.Checklist{old}, today); got != 100 {
		t.Errorf("WeeklyAverage = %d, want 100 (outside window)", got)
	}
}

func TestStreak(t *testing.T) {
	// Checklists today, yesterday, and 3 days ago: gap at day-2 ends the
	// streak at 2.
	checklists := []model.Checklist{
		{Date: today.Format("2006-01-02")},
		{Date: today.AddDate(0, 0, -1).Format("2006-01-02")},
		{Date: today.AddDate(0, 0, -3).Format("2006-01-02")},
	}
	if got := Streak(checklists, today); got != 2 {
		t.Errorf("Streak = %d, want 2", got)
	}
}

func TestStreakNoChecklistToday(t *testing.T) {
	checklists := []model.Checklist{
		{Date: today.AddDate(0, 0, -1).Format("2006-01-02")},
	}
	if got := Streak(checklists, today); got != 0 {
		t.Errorf("Streak = %d, want 0", got)
	}
}

func TestStreakCapped(t *testing.T) {
	var checklists []model.Checklist
	for i := 0; i < 60; i++ {
		checklists = append(checklists, model.Checklist{
			Date: today.AddDate(0, 0, -i).Format("2006-01-02"),
		})
	}
	if got := Streak(checklists, today); got != StreakLimit {
		t.Errorf("Streak = %d, want cap %d", got, StreakLimit)
	}
}

func TestConsumptionTable(t *testing.T) {
	vehicles := []model.Vehicle{
		{ID: 1, Brand: "Fiat", Model: "Strada", LicensePlate: "ABC-1234"},
	}

	first := finishedChecklist(1, 1, today.Add(-48*time.Hour), okItems())
	second := finishedChecklist(2, 1, today.Add(-24*time.Hour), okItems())

	// Excluded rows: still pending, zero distance, no arrival timestamp.
	pending := finishedChecklist(3, 1, today, okItems())
	pending.Status = model.StatusPendingArrival
	zeroDistance := finishedChecklist(4, 1, today, okItems())
	zeroDistance.ArrivalMileage = ptrInt64(zeroDistance.DepartureMileage)
	noArrivalTS := finishedChecklist(5, 1, today, okItems())
	noArrivalTS.ArrivalTimestamp = nil

	rows := ConsumptionTable([]model.Checklist{first, second, pending, zeroDistance, noArrivalTS}, vehicles)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	// Newest trip first.
	if rows[0].ChecklistID != 2 {
		t.Errorf("expected checklist 2 first, got %d", rows[0].ChecklistID)
	}
	if rows[0].VehicleLabel != "Fiat Strada (ABC-1234)" {
		t.Errorf("unexpected label %q", rows[0].VehicleLabel)
	}
	if rows[0].Distance != 120 {
		t.Errorf("expected distance 120, got %d", rows[0].Distance)
	}
	if !rows[0].HasEfficiency || rows[0].Efficiency != 12.0 {
		t.Errorf("expected efficiency 12.0, got %v (defined=%v)", rows[0].Efficiency, rows[0].HasEfficiency)
	}
	if rows[0].Rating != model.EfficiencyGood {
		t.Errorf("expected good at exactly 12.0, got %q", rows[0].Rating)
	}
}

func TestConsumptionTableMissingVehicle(t *testing.T) {
	c := finishedChecklist(1, 77, today, okItems())
	rows := ConsumptionTable([]model.Checklist{c}, nil)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].VehicleLabel != "vehicle not found" {
		t.Errorf("expected fallback label, got %q", rows[0].VehicleLabel)
	}
}

func TestConsumptionTableNoFuel(t *testing.T) {
	c := finishedChecklist(1, 1, today, okItems())
	c.Refuelings = nil

	rows := ConsumptionTable([]model.Checklist{c}, nil)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	// Efficiency undefined without fuel: rendered as N/A, never zero.
	if rows[0].HasEfficiency {
		t.Error("expected undefined efficiency with no refuelings")
	}
	if rows[0].Rating != "" {
		t.Errorf("expected no rating, got %q", rows[0].Rating)
	}
}

func TestMonthly(t *testing.T) {
	vehicle := &model.Vehicle{ID: 1, Brand: "Fiat", Model: "Strada", LicensePlate: "ABC-1234"}

	problemItems := okItems()
	problemItems[catalog.KeyTirePressure] = "flat"

	inMonth1 := finishedChecklist(1, 1, time.Date(2025, 3, 5, 8, 0, 0, 0, time.UTC), okItems())
	inMonth2 := finishedChecklist(2, 1, time.Date(2025, 3, 20, 8, 0, 0, 0, time.UTC), problemItems)
	otherMonth := finishedChecklist(3, 1, time.Date(2025, 2, 28, 8, 0, 0, 0, time.UTC), okItems())
	otherVehicle := finishedChecklist(4, 2, time.Date(2025, 3, 6, 8, 0, 0, 0, time.UTC), okItems())

	summary := Monthly([]model.Checklist{inMonth1, inMonth2, otherMonth, otherVehicle}, vehicle, time.March, 2025)

	if summary.Total != 2 {
		t.Fatalf("expected 2 checklists, got %d", summary.Total)
	}
	if summary.WithProblems != 1 {
		t.Errorf("expected 1 with problems, got %d", summary.WithProblems)
	}
	// Sorted descending.
	if summary.Entries[0].ChecklistID != 2 {
		t.Errorf("expected checklist 2 first, got %d", summary.Entries[0].ChecklistID)
	}
	if len(summary.Entries[0].Defects) != 1 {
		t.Fatalf("expected 1 defect, got %d", len(summary.Entries[0].Defects))
	}
	if summary.Entries[0].Defects[0] != "Tire pressure: Flat tire" {
		t.Errorf("unexpected defect label %q", summary.Entries[0].Defects[0])
	}
}

func TestMonthlyUsesDepartureDay(t *testing.T) {
	vehicle := &model.Vehicle{ID: 1, Brand: "Fiat", Model: "Strada", LicensePlate: "ABC-1234"}

	// A trip recorded just before midnight on a server ahead of UTC: the
	// timestamp still reads March in UTC, but the stored departure day is
	// April 1st. The day decides the month, not the instant.
	c := finishedChecklist(1, 1, time.Date(2025, 3, 31, 23, 30, 0, 0, time.UTC), okItems())
	c.Date = "2025-04-01"

	march := Monthly([]model.Checklist{c}, vehicle, time.March, 2025)
	if march.Total != 0 {
		t.Errorf("expected 0 checklists in March, got %d", march.Total)
	}

	april := Monthly([]model.Checklist{c}, vehicle, time.April, 2025)
	if april.Total != 1 {
		t.Errorf("expected 1 checklist in April, got %d", april.Total)
	}
}

func TestDefectLabelsOrder(t *testing.T) {
	items := map[string]string{
		catalog.KeyDocumentation: "incomplete",
		catalog.KeyFuelLevel:     "empty",
	}
	defects := DefectLabels(items)
	if len(defects) != 2 {
		t.Fatalf("expected 2 defects, got %d", len(defects))
	}
	// Catalog display order, not map order.
	if defects[0] != "Fuel level: Empty" {
		t.Errorf("expected fuel level first, got %q", defects[0])
	}
	if defects[1] != "Documentation: Incomplete" {
		t.Errorf("expected documentation second, got %q", defects[1])
	}
}
