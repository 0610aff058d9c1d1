package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/wallclock"
)

type CancelAppointment struct {
	repo  domain.Repository
	cache SlotCache
	audit *audit.Dispatcher
}

func NewCancelAppointment(
	repo domain.Repository,
	cache SlotCache,
	audit *audit.Dispatcher,
) *CancelAppointment {
	return &CancelAppointment{
		repo:  repo,
		cache: cache,
		audit: audit,
	}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	actorID *uint,
	appointmentID uint,
) (*models.Appointment, error) {

	ap, err := transition(ctx, uc.repo, appointmentID, domain.Cancel)
	if err != nil {
		return nil, err
	}

	uc.cache.InvalidateDate(ctx, ap.Date)

	uc.audit.Dispatch(audit.Event{
		UserID:   actorID,
		Action:   audit.ActionAppointmentCancelled,
		Entity:   audit.EntityAppointment,
		EntityID: &ap.ID,
	})

	loadService(ctx, uc.repo, ap)
	return ap, nil
}

// transition applies a status change to the row read under lock and writes
// back only the columns it touched.
func transition(
	ctx context.Context,
	repo domain.Repository,
	id uint,
	change func(ap *models.Appointment, now time.Time) error,
) (*models.Appointment, error) {

	var next models.Appointment
	err := repo.WithinTx(ctx, func(ctx context.Context, tx domain.Repository) error {
		current, err := tx.LockAppointment(ctx, id)
		if err != nil {
			return err
		}

		next = *current
		if err := change(&next, wallclock.Now()); err != nil {
			return err
		}
		return tx.UpdateAppointmentFields(ctx, id, domain.Changes(current, &next))
	})
	if err != nil {
		return nil, err
	}
	return &next, nil
}
