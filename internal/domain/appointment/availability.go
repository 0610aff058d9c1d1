package appointment

import (
	"context"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/wallclock"
)

type AvailabilityInput struct {
	Date      wallclock.Date
	ServiceID *uint
}

// DaySlots splits a day's candidate starts. All is Available plus Booked,
// everything in ascending order.
type DaySlots struct {
	All       []wallclock.TimeOfDay `json:"all_slots"`
	Available []wallclock.TimeOfDay `json:"available_slots"`
	Booked    []wallclock.TimeOfDay `json:"booked_slots"`
}

func EmptySlots() DaySlots {
	return DaySlots{
		All:       []wallclock.TimeOfDay{},
		Available: []wallclock.TimeOfDay{},
		Booked:    []wallclock.TimeOfDay{},
	}
}

// PolicyReader is the read side the availability rules need. Both the plain
// and the transactional repository satisfy it.
type PolicyReader interface {
	IsDateBlocked(ctx context.Context, date wallclock.Date) (bool, error)
	GetBusinessHours(ctx context.Context, dayOfWeek int) (*models.BusinessHours, error)
	ListBookedIntervals(ctx context.Context, date wallclock.Date) ([]Interval, error)
}

// WithinBusinessHours is false for absent or closed days.
func WithinBusinessHours(hours *models.BusinessHours, start, end wallclock.TimeOfDay) bool {
	if hours == nil || !hours.IsOpen {
		return false
	}
	return hours.OpenTime <= start && end <= hours.CloseTime
}

// CheckAvailability returns ErrSlotUnavailable when [start, end) cannot be
// booked on date. Storage failures are returned unchanged.
func CheckAvailability(
	ctx context.Context,
	r PolicyReader,
	date wallclock.Date,
	start, end wallclock.TimeOfDay,
	excludeID uint,
) error {
	if end <= start {
		return httperr.ErrSlotUnavailable()
	}

	blocked, err := r.IsDateBlocked(ctx, date)
	if err != nil {
		return err
	}
	if blocked {
		return httperr.ErrSlotUnavailable()
	}

	hours, err := r.GetBusinessHours(ctx, date.Weekday())
	if err != nil {
		return err
	}
	if !WithinBusinessHours(hours, start, end) {
		return httperr.ErrSlotUnavailable()
	}

	booked, err := r.ListBookedIntervals(ctx, date)
	if err != nil {
		return err
	}
	if OverlapsAny(Interval{ID: excludeID, Start: start, End: end}, booked, excludeID) {
		return httperr.ErrSlotUnavailable()
	}

	return nil
}
