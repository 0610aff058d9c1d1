package appointment

import (
	"context"
	"strings"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/wallclock"
)

// ListAppointmentsInput takes raw query values. Date selects one day;
// otherwise From/To bound an inclusive range. All empty lists everything.
type ListAppointmentsInput struct {
	Date string
	From string
	To   string
}

type ListAppointments struct {
	repo domain.Repository
}

func NewListAppointments(repo domain.Repository) *ListAppointments {
	return &ListAppointments{repo: repo}
}

func (uc *ListAppointments) Execute(
	ctx context.Context,
	in ListAppointmentsInput,
) ([]models.Appointment, error) {

	var filter domain.ListFilter

	date, err := parseOptionalDate(in.Date, "date")
	if err != nil {
		return nil, err
	}
	filter.Date = date

	if filter.Date == nil {
		if filter.From, filter.To, err = parseRange(in.From, in.To); err != nil {
			return nil, err
		}
	}

	return uc.repo.ListAppointments(ctx, filter)
}

func parseOptionalDate(raw, field string) (*wallclock.Date, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	d, err := wallclock.ParseDate(raw)
	if err != nil {
		return nil, httperr.ErrValidation("invalid_date_or_time", field)
	}
	return &d, nil
}

func parseRange(rawFrom, rawTo string) (*wallclock.Date, *wallclock.Date, error) {
	from, err := parseOptionalDate(rawFrom, "start_date")
	if err != nil {
		return nil, nil, err
	}
	to, err := parseOptionalDate(rawTo, "end_date")
	if err != nil {
		return nil, nil, err
	}
	if from != nil && to != nil && from.After(*to) {
		return nil, nil, httperr.ErrValidation("invalid_date_range", "start_date", "end_date")
	}
	return from, to, nil
}
