package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// bookableService resolves a service that can take new bookings. An
// inactive service is reported like a missing one.
func bookableService(ctx context.Context, repo domain.Repository, id uint) (*models.Service, error) {
	svc, err := repo.GetService(ctx, id)
	if err != nil {
		return nil, err
	}
	if !svc.Active {
		return nil, httperr.ErrNotFound("service_not_found")
	}
	return svc, nil
}

// loadService fills ap.Service for responses built from a row read without
// it. A failed lookup leaves it empty.
func loadService(ctx context.Context, repo domain.Repository, ap *models.Appointment) {
	if ap.Service.ID == ap.ServiceID {
		return
	}
	if svc, err := repo.GetService(ctx, ap.ServiceID); err == nil {
		ap.Service = *svc
	}
}
