package appointment

import (
	"context"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
)

// DeleteAppointment removes a row for good. Regular cancellations go
// through CancelAppointment and keep the history.
type DeleteAppointment struct {
	repo  domain.Repository
	cache SlotCache
	audit *audit.Dispatcher
}

func NewDeleteAppointment(
	repo domain.Repository,
	cache SlotCache,
	audit *audit.Dispatcher,
) *DeleteAppointment {
	return &DeleteAppointment{
		repo:  repo,
		cache: cache,
		audit: audit,
	}
}

func (uc *DeleteAppointment) Execute(
	ctx context.Context,
	actorID *uint,
	id uint,
) error {

	ap, err := uc.repo.GetAppointment(ctx, id)
	if err != nil {
		return err
	}

	if err := uc.repo.DeleteAppointment(ctx, id); err != nil {
		return err
	}

	uc.cache.InvalidateDate(ctx, ap.Date)

	uc.audit.Dispatch(audit.Event{
		UserID:   actorID,
		Action:   audit.ActionAppointmentDeleted,
		Entity:   audit.EntityAppointment,
		EntityID: &id,
		Metadata: map[string]any{
			"date":       ap.Date.String(),
			"start_time": ap.StartTime.String(),
			"name":       ap.Name,
		},
	})

	return nil
}
