package appointment

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/validators"
	"github.com/BruksfildServices01/barber-booking/internal/wallclock"
)

// ======================================================
// INPUT
// ======================================================

// UpdateAppointmentInput is a partial update: nil fields keep their stored
// value.
type UpdateAppointmentInput struct {
	ServiceID      *uint
	Name           *string
	Phone          *string
	Message        *string
	Date           *string
	StartTime      *string
	Status         *string
	BarberNotes    *string
	ClientRating   *int
	ClientFeedback *string
}

// ======================================================
// USE CASE
// ======================================================

type UpdateAppointment struct {
	repo  domain.Repository
	cache SlotCache
	audit *audit.Dispatcher
}

func NewUpdateAppointment(
	repo domain.Repository,
	cache SlotCache,
	audit *audit.Dispatcher,
) *UpdateAppointment {
	return &UpdateAppointment{
		repo:  repo,
		cache: cache,
		audit: audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

// an update whose target keeps moving under it gives up after this many
// rounds
const maxUpdateAttempts = 3

// errStaleRead means the row's slot changed between the unlocked read and
// the locked one, so the locks held are not the ones the write needs.
var errStaleRead = errors.New("appointment changed since read")

func (uc *UpdateAppointment) Execute(
	ctx context.Context,
	actorID *uint,
	id uint,
	in UpdateAppointmentInput,
) (*models.Appointment, error) {

	var (
		res *updatePlan
		err error
	)
	for attempt := 1; attempt <= maxUpdateAttempts; attempt++ {
		res, err = uc.attempt(ctx, id, in)
		if !errors.Is(err, errStaleRead) {
			break
		}
		zerolog.Ctx(ctx).Debug().
			Uint("appointment_id", id).
			Int("attempt", attempt).
			Msg("appointment moved meanwhile, retrying update")
	}
	if errors.Is(err, errStaleRead) {
		return nil, httperr.ErrConflict("concurrent_update")
	}
	if err != nil {
		if httperr.IsKind(err, httperr.KindSlotUnavailable) {
			zerolog.Ctx(ctx).Info().
				Uint("appointment_id", id).
				Msg("reschedule rejected: slot unavailable")
		}
		return nil, err
	}

	next := res.after

	uc.cache.InvalidateDate(ctx, res.before.Date)
	if !next.Date.Equal(res.before.Date) {
		uc.cache.InvalidateDate(ctx, next.Date)
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   actorID,
		Action:   audit.ActionAppointmentUpdated,
		Entity:   audit.EntityAppointment,
		EntityID: &next.ID,
		Metadata: map[string]any{
			"rescheduled": res.moved,
			"status":      next.Status,
		},
	})

	loadService(ctx, uc.repo, next)
	return next, nil
}

// attempt plans the update against an unlocked read to learn which date
// locks it needs, then plans again against the row read under those locks
// and writes only the columns that plan changes.
func (uc *UpdateAppointment) attempt(
	ctx context.Context,
	id uint,
	in UpdateAppointmentInput,
) (*updatePlan, error) {

	current, err := uc.repo.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	planned, err := uc.plan(ctx, uc.repo, current, in)
	if err != nil {
		return nil, err
	}

	var result *updatePlan
	run := func(ctx context.Context, tx domain.Repository) error {
		fresh, err := tx.LockAppointment(ctx, id)
		if err != nil {
			return err
		}
		p, err := uc.plan(ctx, tx, fresh, in)
		if err != nil {
			return err
		}

		if p.needsCheck() {
			if !planned.needsCheck() || !fresh.Date.Equal(current.Date) {
				return errStaleRead
			}
			if err := domain.CheckAvailability(ctx, tx, p.after.Date, p.after.StartTime, p.after.EndTime, id); err != nil {
				return err
			}
		}

		if fields := domain.Changes(fresh, p.after); len(fields) > 0 {
			if err := tx.UpdateAppointmentFields(ctx, id, fields); err != nil {
				return err
			}
		}
		result = p
		return nil
	}

	if planned.needsCheck() {
		err = uc.repo.WithDateLocks(ctx, []wallclock.Date{current.Date, planned.after.Date}, run)
	} else {
		err = uc.repo.WithinTx(ctx, run)
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

type updatePlan struct {
	before  *models.Appointment
	after   *models.Appointment
	moved   bool
	revived bool
}

// needsCheck is true when the update claims a range that was not held
// before: a new service, date or start, or a cancelled row coming back.
func (p *updatePlan) needsCheck() bool {
	return (p.moved || p.revived) && domain.Status(p.after.Status).HoldsSlot()
}

func (uc *UpdateAppointment) plan(
	ctx context.Context,
	repo domain.Repository,
	current *models.Appointment,
	in UpdateAppointmentInput,
) (*updatePlan, error) {

	// all changes go to a copy; current stays what is stored
	next := *current

	service, err := apply(ctx, repo, &next, in)
	if err != nil {
		return nil, err
	}

	moved := next.ServiceID != current.ServiceID ||
		!next.Date.Equal(current.Date) ||
		next.StartTime != current.StartTime
	revived := !domain.Status(current.Status).HoldsSlot() && domain.Status(next.Status).HoldsSlot()

	if moved {
		if service == nil {
			if service, err = repo.GetService(ctx, next.ServiceID); err != nil {
				return nil, err
			}
		}
		next.EndTime = next.StartTime.Add(service.DurationMin)
	}
	if service != nil {
		next.Service = *service
	}

	return &updatePlan{
		before:  current,
		after:   &next,
		moved:   moved,
		revived: revived,
	}, nil
}

// apply validates every present field and writes it into ap. It returns the
// newly selected service when service_id was given.
func apply(
	ctx context.Context,
	repo domain.Repository,
	ap *models.Appointment,
	in UpdateAppointmentInput,
) (*models.Service, error) {

	var service *models.Service

	if in.ServiceID != nil {
		if *in.ServiceID == 0 {
			return nil, httperr.ErrValidation("missing_required_fields", "service_id")
		}
		if *in.ServiceID != ap.ServiceID {
			svc, err := bookableService(ctx, repo, *in.ServiceID)
			if err != nil {
				return nil, err
			}
			service = svc
			ap.ServiceID = svc.ID
		}
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, httperr.ErrValidation("missing_required_fields", "name")
		}
		if !validators.IsNameLengthValid(name) {
			return nil, httperr.ErrValidation("name_too_long", "name")
		}
		ap.Name = name
	}

	if in.Phone != nil {
		phone := strings.TrimSpace(*in.Phone)
		if phone == "" {
			return nil, httperr.ErrValidation("missing_required_fields", "phone")
		}
		if !validators.IsPhoneValid(phone) {
			return nil, httperr.ErrValidation("invalid_phone", "phone")
		}
		ap.Phone = phone
	}

	if in.Message != nil {
		ap.Message = strings.TrimSpace(*in.Message)
	}

	if in.Date != nil {
		date, err := wallclock.ParseDate(*in.Date)
		if err != nil {
			return nil, httperr.ErrValidation("invalid_date_or_time", "date")
		}
		ap.Date = date
	}

	if in.StartTime != nil {
		start, err := wallclock.ParseTimeOfDay(*in.StartTime)
		if err != nil {
			return nil, httperr.ErrValidation("invalid_date_or_time", "start_time")
		}
		ap.StartTime = start
	}

	if in.Status != nil {
		st, err := domain.ParseStatus(*in.Status)
		if err != nil {
			return nil, err
		}
		if string(st) != ap.Status {
			now := wallclock.Now()
			switch st {
			case domain.StatusCancelled:
				ap.CancelledAt = &now
			case domain.StatusCompleted:
				ap.CompletedAt = &now
			}
		}
		ap.Status = string(st)
	}

	if in.BarberNotes != nil {
		ap.BarberNotes = *in.BarberNotes
	}

	if in.ClientRating != nil {
		if *in.ClientRating < 1 || *in.ClientRating > 5 {
			return nil, httperr.ErrValidation("invalid_rating", "client_rating")
		}
		rating := *in.ClientRating
		ap.ClientRating = &rating
	}

	if in.ClientFeedback != nil {
		ap.ClientFeedback = *in.ClientFeedback
	}

	return service, nil
}
