package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/wallclock"
)

const (
	AppointmentsSheet = "Appointments"
	SummarySheet      = "Summary"
)

var appointmentColumns = []string{
	"ID", "Date", "Start", "End", "Client", "Phone", "Service", "Status", "Price", "Rating", "Notes",
}

// Period is the exported range. Nil bounds are open.
type Period struct {
	From *wallclock.Date
	To   *wallclock.Date
}

func (p Period) String() string {
	bound := func(d *wallclock.Date, open string) string {
		if d == nil {
			return open
		}
		return d.String()
	}
	return fmt.Sprintf("%s - %s", bound(p.From, "open"), bound(p.To, "open"))
}

// WriteAppointments renders one row per appointment plus a summary sheet.
func WriteAppointments(w io.Writer, period Period, list []models.Appointment, stats *domain.Stats) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", AppointmentsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	for i, title := range appointmentColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(AppointmentsSheet, cell, title)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(appointmentColumns), 1)
	_ = f.SetCellStyle(AppointmentsSheet, "A1", lastHeader, header)
	_ = f.SetColWidth(AppointmentsSheet, "E", "G", 22)
	_ = f.SetColWidth(AppointmentsSheet, "K", "K", 40)

	for i, ap := range list {
		row := i + 2
		values := []any{
			ap.ID,
			ap.Date.String(),
			ap.StartTime.String(),
			ap.EndTime.String(),
			ap.Name,
			ap.Phone,
			ap.Service.Name,
			ap.Status,
			priceValue(ap),
			ratingValue(ap),
			ap.BarberNotes,
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(AppointmentsSheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", row, err)
		}
	}

	if err := writeSummary(f, period, stats, header); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, period Period, stats *domain.Stats, header int) error {
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}
	if stats == nil {
		stats = domain.NewStats()
	}

	rows := [][]any{
		{"Period", period.String()},
		{"Total appointments", stats.Total},
	}
	for _, st := range domain.AllStatuses {
		rows = append(rows, []any{string(st), stats.ByStatus[st]})
	}
	rows = append(rows,
		[]any{"Total revenue", stats.TotalRevenue.InexactFloat64()},
		[]any{"Average rating", stats.AverageRating},
	)

	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(SummarySheet, cell, &r); err != nil {
			return fmt.Errorf("write summary row: %w", err)
		}
	}
	_ = f.SetCellStyle(SummarySheet, "A1", fmt.Sprintf("A%d", len(rows)), header)
	_ = f.SetColWidth(SummarySheet, "A", "B", 24)
	return nil
}

func priceValue(ap models.Appointment) any {
	if !ap.Price.Valid {
		return ""
	}
	return ap.Price.Decimal.InexactFloat64()
}

func ratingValue(ap models.Appointment) any {
	if ap.ClientRating == nil {
		return ""
	}
	return *ap.ClientRating
}
