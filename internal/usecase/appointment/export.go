package appointment

import (
	"context"
	"io"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/report"
)

// ExportAppointments writes the appointments and stats of a date range as
// an xlsx workbook.
type ExportAppointments struct {
	repo domain.Repository
}

func NewExportAppointments(repo domain.Repository) *ExportAppointments {
	return &ExportAppointments{repo: repo}
}

func (uc *ExportAppointments) Execute(ctx context.Context, in StatsInput, w io.Writer) error {
	from, to, err := parseRange(in.StartDate, in.EndDate)
	if err != nil {
		return err
	}

	list, err := uc.repo.ListAppointments(ctx, domain.ListFilter{From: from, To: to})
	if err != nil {
		return err
	}

	stats, err := uc.repo.AppointmentStats(ctx, domain.StatsFilter{From: from, To: to})
	if err != nil {
		return err
	}

	return report.WriteAppointments(w, report.Period{From: from, To: to}, list, stats)
}
