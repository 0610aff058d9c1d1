package appointment

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/validators"
	"github.com/BruksfildServices01/barber-booking/internal/wallclock"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	ServiceID uint
	Name      string
	Phone     string
	Date      string
	StartTime string
	Message   string
}

func (in CreateAppointmentInput) missingFields() []string {
	var missing []string
	if in.ServiceID == 0 {
		missing = append(missing, "service_id")
	}
	if strings.TrimSpace(in.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(in.Phone) == "" {
		missing = append(missing, "phone")
	}
	if strings.TrimSpace(in.Date) == "" {
		missing = append(missing, "date")
	}
	if strings.TrimSpace(in.StartTime) == "" {
		missing = append(missing, "start_time")
	}
	return missing
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo  domain.Repository
	cache SlotCache
	audit *audit.Dispatcher
}

func NewCreateAppointment(
	repo domain.Repository,
	cache SlotCache,
	audit *audit.Dispatcher,
) *CreateAppointment {
	return &CreateAppointment{
		repo:  repo,
		cache: cache,
		audit: audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	ap, err := uc.execute(ctx, in)
	switch {
	case err == nil:
		metrics.IncBooking(metrics.BookingCreated)
	case httperr.IsKind(err, httperr.KindSlotUnavailable):
		metrics.IncBooking(metrics.BookingRejectedSlot)
	case httperr.IsKind(err, httperr.KindValidation), httperr.IsKind(err, httperr.KindNotFound):
		metrics.IncBooking(metrics.BookingRejectedValidation)
	}
	return ap, err
}

func (uc *CreateAppointment) execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// Required fields
	// --------------------------------------------------
	if missing := in.missingFields(); len(missing) > 0 {
		return nil, httperr.ErrValidation("missing_required_fields", missing...)
	}

	// --------------------------------------------------
	// Date / time
	// --------------------------------------------------
	date, err := wallclock.ParseDate(in.Date)
	if err != nil {
		return nil, httperr.ErrValidation("invalid_date_or_time", "date")
	}
	start, err := wallclock.ParseTimeOfDay(in.StartTime)
	if err != nil {
		return nil, httperr.ErrValidation("invalid_date_or_time", "start_time")
	}

	name := strings.TrimSpace(in.Name)
	if !validators.IsNameLengthValid(name) {
		return nil, httperr.ErrValidation("name_too_long", "name")
	}

	phone := strings.TrimSpace(in.Phone)
	if !validators.IsPhoneValid(phone) {
		return nil, httperr.ErrValidation("invalid_phone", "phone")
	}

	// --------------------------------------------------
	// Service
	// --------------------------------------------------
	service, err := bookableService(ctx, uc.repo, in.ServiceID)
	if err != nil {
		return nil, err
	}

	ap := &models.Appointment{
		ServiceID: service.ID,
		Name:      name,
		Phone:     phone,
		Message:   strings.TrimSpace(in.Message),
		Date:      date,
		StartTime: start,
		EndTime:   start.Add(service.DurationMin),
		Status:    string(domain.InitialStatus()),
		Price:     decimal.NewNullDecimal(service.Price),
	}

	// --------------------------------------------------
	// Check + insert under the date lock
	// --------------------------------------------------
	err = uc.repo.WithDateLock(ctx, date, func(ctx context.Context, tx domain.Repository) error {
		if err := domain.CheckAvailability(ctx, tx, date, ap.StartTime, ap.EndTime, 0); err != nil {
			return err
		}
		return tx.CreateAppointment(ctx, ap)
	})
	if err != nil {
		if httperr.IsKind(err, httperr.KindSlotUnavailable) {
			zerolog.Ctx(ctx).Info().
				Str("date", date.String()).
				Str("start_time", start.String()).
				Uint("service_id", service.ID).
				Msg("booking rejected: slot unavailable")

			uc.audit.Dispatch(audit.Event{
				Action: audit.ActionAppointmentConflict,
				Entity: audit.EntityAppointment,
				Metadata: map[string]any{
					"date":       date.String(),
					"start_time": start.String(),
					"service_id": service.ID,
				},
			})
		}
		return nil, err
	}

	uc.cache.InvalidateDate(ctx, date)

	uc.audit.Dispatch(audit.Event{
		Action:   audit.ActionAppointmentCreated,
		Entity:   audit.EntityAppointment,
		EntityID: &ap.ID,
		Metadata: map[string]any{
			"date":       date.String(),
			"start_time": start.String(),
			"service_id": service.ID,
		},
	})

	ap.Service = *service
	return ap, nil
}
