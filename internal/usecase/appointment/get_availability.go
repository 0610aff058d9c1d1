package appointment

import (
	"context"

	"github.com/rs/zerolog"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
)

type GetAvailability struct {
	repo  domain.Repository
	cache SlotCache
}

func NewGetAvailability(repo domain.Repository, cache SlotCache) *GetAvailability {
	return &GetAvailability{
		repo:  repo,
		cache: cache,
	}
}

// Execute lists the day's slot starts for the service duration. A blocked,
// closed or unconfigured day yields three empty lists. An unknown service
// falls back to the default duration.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) (domain.DaySlots, error) {

	duration := domain.DefaultSlotDuration
	if in.ServiceID != nil && *in.ServiceID != 0 {
		svc, err := uc.repo.GetService(ctx, *in.ServiceID)
		switch {
		case err == nil:
			duration = svc.DurationMin
		case httperr.IsKind(err, httperr.KindNotFound):
		default:
			return domain.DaySlots{}, err
		}
	}

	// the version is read before the data the slots are computed from
	cached, version, ok := uc.cache.Get(ctx, in.Date, duration)
	if ok {
		return cached, nil
	}

	slots, err := uc.compute(ctx, in, duration)
	if err != nil {
		return domain.DaySlots{}, err
	}

	uc.cache.Set(ctx, in.Date, duration, version, slots)

	zerolog.Ctx(ctx).Debug().
		Str("date", in.Date.String()).
		Int("duration", duration).
		Int("available", len(slots.Available)).
		Msg("slots computed")

	return slots, nil
}

func (uc *GetAvailability) compute(
	ctx context.Context,
	in domain.AvailabilityInput,
	duration int,
) (domain.DaySlots, error) {

	blocked, err := uc.repo.IsDateBlocked(ctx, in.Date)
	if err != nil {
		return domain.DaySlots{}, err
	}
	if blocked {
		return domain.EmptySlots(), nil
	}

	hours, err := uc.repo.GetBusinessHours(ctx, in.Date.Weekday())
	if err != nil {
		return domain.DaySlots{}, err
	}
	if hours == nil || !hours.IsOpen {
		return domain.EmptySlots(), nil
	}

	booked, err := uc.repo.ListBookedIntervals(ctx, in.Date)
	if err != nil {
		return domain.DaySlots{}, err
	}

	return domain.EnumerateSlots(hours.OpenTime, hours.CloseTime, duration, booked), nil
}
