package calendar

import (
	"context"

	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/wallclock"
)

type Repository interface {
	// -------- Business hours --------
	ListBusinessHours(ctx context.Context) ([]models.BusinessHours, error)

	// GetBusinessHours returns nil, nil when the weekday has no entry.
	GetBusinessHours(ctx context.Context, dayOfWeek int) (*models.BusinessHours, error)

	// ReplaceWeek swaps the whole weekly template atomically.
	ReplaceWeek(ctx context.Context, week []models.BusinessHours) error

	// -------- Blocked dates --------
	ListBlockedDates(ctx context.Context) ([]models.BlockedDate, error)
	IsDateBlocked(ctx context.Context, date wallclock.Date) (bool, error)
	AddBlockedDate(ctx context.Context, bd *models.BlockedDate) error
	RemoveBlockedDate(ctx context.Context, id uint) (*models.BlockedDate, error)
}
