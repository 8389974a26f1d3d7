// Package printout renders print-ready HTML documents from fleet records:
// a single checklist sheet, the consumption table, and the monthly vehicle
// report. Templates are embedded so the binary stays self-contained.
package printout

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/lpireis/frota/internal/catalog"
	"github.com/lpireis/frota/internal/model"
	"github.com/lpireis/frota/internal/report"
)

//go:embed templates
var content embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"datetime": func(t time.Time) string { return t.Format("2006-01-02 15:04") },
	"liters":   func(v float64) string { return fmt.Sprintf("%.2f L", v) },
	"money":    func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"kmpl":     func(v float64) string { return fmt.Sprintf("%.1f km/L", v) },
}).ParseFS(content, "templates/*.tmpl"))

// itemRow is one inspection line on the checklist sheet, in catalog order.
type itemRow struct {
	Title   string
	Value   string
	Problem bool
}

type checklistData struct {
	Checklist    *model.Checklist
	VehicleLabel string
	Items        []itemRow
	Distance     int64
	HasDistance  bool
}

// Checklist renders a single trip checklist as a printable sheet. A nil
// vehicle renders with a placeholder label, matching the on-screen reports.
func Checklist(w io.Writer, c *model.Checklist, vehicle *model.Vehicle) error {
	label := "vehicle not found"
	if vehicle != nil {
		label = vehicle.Label()
	}

	data := checklistData{
		Checklist:    c,
		VehicleLabel: label,
	}
	for _, item := range catalog.Items() {
		value, ok := c.Items[item.Key]
		if !ok {
			continue
		}
		data.Items = append(data.Items, itemRow{
			Title:   item.Title,
			Value:   catalog.Label(item.Key, value),
			Problem: item.IsProblem(value),
		})
	}
	if c.Finished() && c.ArrivalMileage != nil {
		data.Distance = c.Distance()
		data.HasDistance = true
	}

	if err := templates.ExecuteTemplate(w, "checklist.tmpl", data); err != nil {
		return fmt.Errorf("rendering checklist printout: %w", err)
	}
	return nil
}

type consumptionData struct {
	Generated time.Time
	Rows      []report.ConsumptionRow
}

// Consumption renders the trip consumption table.
func Consumption(w io.Writer, rows []report.ConsumptionRow) error {
	data := consumptionData{Generated: time.Now(), Rows: rows}
	if err := templates.ExecuteTemplate(w, "consumption.tmpl", data); err != nil {
		return fmt.Errorf("rendering consumption printout: %w", err)
	}
	return nil
}

type monthlyData struct {
	Generated time.Time
	Summary   report.MonthlySummary
	MonthName string
}

// Monthly renders the per-vehicle monthly report.
func Monthly(w io.Writer, summary report.MonthlySummary) error {
	data := monthlyData{
		Generated: time.Now(),
		Summary:   summary,
		MonthName: time.Month(summary.Month).String(),
	}
	if err := templates.ExecuteTemplate(w, "monthly.tmpl", data); err != nil {
		return fmt.Errorf("rendering monthly printout: %w", err)
	}
	return nil
}
