package appointment

import (
	"context"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type CompleteAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCompleteAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CompleteAppointment {
	return &CompleteAppointment{
		repo:  repo,
		audit: audit,
	}
}

func (uc *CompleteAppointment) Execute(
	ctx context.Context,
	actorID *uint,
	appointmentID uint,
) (*models.Appointment, error) {

	// the range stays occupied, so no slot cache change
	ap, err := transition(ctx, uc.repo, appointmentID, domain.Complete)
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   actorID,
		Action:   audit.ActionAppointmentCompleted,
		Entity:   audit.EntityAppointment,
		EntityID: &ap.ID,
	})

	loadService(ctx, uc.repo, ap)
	return ap, nil
}
